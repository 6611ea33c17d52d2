package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.bd", []byte("version 1"), 0)
	id2 := fs.Add("main.bd", []byte("version 2"), 0)
	if id1 == id2 {
		t.Fatalf("expected a new FileID for the second Add, got %d twice", id1)
	}

	latest, ok := fs.GetLatest("main.bd")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "version 1" {
		t.Errorf("old version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("a.bd", []byte("a\nb\n")))

	want := []uint32{1, 3}
	if len(file.LineIdx) != len(want) {
		t.Fatalf("LineIdx = %v, want %v", file.LineIdx, want)
	}
	for i := range want {
		if file.LineIdx[i] != want[i] {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], want[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.bd", []byte("ab\ncd\n\nx"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // '\n' принадлежит своей строке
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("l.bd", []byte("first\nsecond\nthird")))

	cases := map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for n, want := range cases {
		if got := file.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestNormalizeHelpers(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\r\nc\r"))
	if !changed || string(out) != "a\nb\nc\r" {
		t.Errorf("normalizeCRLF = %q, %v", out, changed)
	}
	out, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x'})
	if !had || string(out) != "x" {
		t.Errorf("removeBOM = %q, %v", out, had)
	}
	if _, had := removeBOM([]byte("xy")); had {
		t.Error("removeBOM reported a BOM on short input")
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
		flag    FileFlags
	}{
		{"plain", "a\nb\n", "a\nb\n", 0},
		{"bom", "\xEF\xBB\xBFa\n", "a\n", FileHadBOM},
		{"crlf", "a\r\nb\r\n", "a\nb\n", FileNormalizedCRLF},
		{"nfc", "var e\u0301 = 1;", "var \u00e9 = 1;", FileNormalizedNFC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".bd")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}
			fs := NewFileSet()
			id, err := fs.Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			file := fs.Get(id)
			if string(file.Content) != tt.want {
				t.Errorf("content = %q, want %q", file.Content, tt.want)
			}
			if tt.flag != 0 && file.Flags&tt.flag == 0 {
				t.Errorf("flags = %b, want %b set", file.Flags, tt.flag)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := NewFileSet().Load(filepath.Join(t.TempDir(), "nope.bd")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	if got := a.Cover(Span{File: 1, Start: 2, End: 6}); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Errorf("Cover across files changed span: %v", got)
	}
	if got := SpanAt(3, Location{Offset: 10}, 5); got != (Span{File: 3, Start: 10, End: 15}) || got.Len() != 5 {
		t.Errorf("SpanAt = %v", got)
	}
}
