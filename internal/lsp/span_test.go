package lsp

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bondrewd/internal/source"
)

func virtualFile(text string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("t.bd", []byte(text)))
}

func pos(line, char uint32) protocol.Position {
	return protocol.Position{Line: line, Character: char}
}

// é is two bytes and one unit, 🙂 four bytes and two units.
const wideText = "a\né\U0001F642x\n"

func TestPositionForOffset(t *testing.T) {
	file := virtualFile(wideText)
	tests := []struct {
		offset uint32
		want   protocol.Position
	}{
		{0, pos(0, 0)},
		{1, pos(0, 1)},
		{2, pos(1, 0)},
		{4, pos(1, 1)},
		{8, pos(1, 3)},
		{9, pos(1, 4)},
		{10, pos(2, 0)},
		{100, pos(2, 0)},
	}
	for _, tt := range tests {
		if got := positionForOffset(file, tt.offset); got != tt.want {
			t.Errorf("positionForOffset(%d) = %+v, want %+v", tt.offset, got, tt.want)
		}
	}
	if positionForOffset(nil, 5) != pos(0, 0) {
		t.Error("nil file")
	}
}

func TestOffsetForPosition(t *testing.T) {
	file := virtualFile(wideText)
	tests := []struct {
		pos  protocol.Position
		want uint32
	}{
		{pos(0, 0), 0},
		{pos(0, 7), 1},
		{pos(1, 0), 2},
		{pos(1, 1), 4},
		{pos(1, 2), 4}, // inside the surrogate pair
		{pos(1, 3), 8},
		{pos(1, 99), 9},
		{pos(2, 0), 10},
		{pos(5, 0), 10},
	}
	for _, tt := range tests {
		if got := offsetForPosition(file, tt.pos); got != tt.want {
			t.Errorf("offsetForPosition(%+v) = %d, want %d", tt.pos, got, tt.want)
		}
	}
	if offsetForPosition(virtualFile(""), pos(3, 3)) != 0 {
		t.Error("empty file")
	}
}

func TestRangeForSpan(t *testing.T) {
	file := virtualFile(wideText)
	got := rangeForSpan(file, source.Span{Start: 4, End: 9})
	want := protocol.Range{Start: pos(1, 1), End: pos(1, 4)}
	if got != want {
		t.Fatalf("range %+v, want %+v", got, want)
	}
}

func TestApplyChanges(t *testing.T) {
	text := "a\U0001F642b\nc"
	text = applyChanges(text, []any{
		protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{Start: pos(0, 1), End: pos(0, 3)},
			Text:  "X",
		},
		protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{Start: pos(1, 1), End: pos(1, 1)},
			Text:  "d",
		},
	})
	if text != "aXb\ncd" {
		t.Fatalf("ranged edits: %q", text)
	}
	if got := applyChanges(text, []any{protocol.TextDocumentContentChangeEventWhole{Text: "z"}}); got != "z" {
		t.Fatalf("whole replacement: %q", got)
	}
	if got := applyChanges(text, []any{protocol.TextDocumentContentChangeEvent{Text: "y"}}); got != "y" {
		t.Fatalf("rangeless event: %q", got)
	}
	if got := applyChanges(text, nil); got != text {
		t.Fatalf("no changes: %q", got)
	}
}

func TestURIRoundTrip(t *testing.T) {
	if got := uriToPath("file:///tmp/a%20b.bd"); got != "/tmp/a b.bd" {
		t.Fatalf("uriToPath = %q", got)
	}
	if got := pathToURI("/tmp/a b.bd"); got != "file:///tmp/a%20b.bd" {
		t.Fatalf("pathToURI = %q", got)
	}
	if uriToPath("untitled:Untitled-1") != "" {
		t.Fatal("non-file scheme mapped to a path")
	}
	if documentName("untitled:Untitled-1") != "untitled:Untitled-1" {
		t.Fatal("documentName should fall back to the URI")
	}
}
