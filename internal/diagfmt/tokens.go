package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"bondrewd/internal/source"
	"bondrewd/internal/token"
)

type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Value   string      `json:"value,omitempty"`
	Span    source.Span `json:"span"`
	Line    uint32      `json:"line"`
	Col     uint32      `json:"col"`
	Quotes  string      `json:"quotes,omitempty"`
	IsFloat bool        `json:"is_float,omitempty"`
}

// FormatTokensPretty выводит токены по одному на строку:
//
//	  1: Keyword         "cartridge" at 1:1-1:10
//
// and stops after the end marker.
func FormatTokensPretty(w io.Writer, tokens []token.Token, file source.FileID, fs *source.FileSet) error {
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span(file))
		if _, err := fmt.Fprintf(w, "%3d: %-10s", i+1, tok.Kind); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		if p := tok.Payload(); p != "" && p != tok.Text {
			fmt.Fprintf(w, " = %s", p)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n", start.Line, start.Col, end.Line, end.Col)
		if tok.IsEnd() {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены JSON-массивом.
func FormatTokensJSON(w io.Writer, tokens []token.Token, file source.FileID) error {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		to := TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Span: tok.Span(file),
			Line: tok.Loc.Line,
			Col:  tok.Loc.Col,
		}
		switch tok.Kind {
		case token.Number, token.Keyword, token.Punct:
			to.Value = tok.Payload()
			to.IsFloat = tok.Num.Float
		case token.String:
			to.Value = tok.Str.Value
			to.Quotes = tok.Str.Quotes
		}
		out = append(out, to)
		if tok.IsEnd() {
			break
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
