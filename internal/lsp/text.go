package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"bondrewd/internal/source"
)

// applyChanges replays didChange events on text in order. Ranged edits are
// resolved against the text as it stands after the previous edit.
func applyChanges(text string, changes []any) string {
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text
				continue
			}
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("buffer", []byte(text)))
			start := offsetForPosition(file, c.Range.Start)
			end := max(start, offsetForPosition(file, c.Range.End))
			text = text[:start] + c.Text + text[end:]
		}
	}
	return text
}
