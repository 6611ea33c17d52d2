package fuzztests

import (
	"testing"

	"bondrewd/internal/lexer"
	"bondrewd/internal/source"
)

func FuzzTokenizer(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)
		toks, err := lexer.Tokenize(source.ScannerFromBytes("fuzz.bd", input))

		var last uint32
		for i, tok := range toks {
			if tok.Loc.Offset < last || int(tok.Loc.Offset) > len(input) {
				t.Fatalf("token %d (%s) at offset %d after %d, input %d bytes", i, tok.Kind, tok.Loc.Offset, last, len(input))
			}
			last = tok.Loc.Offset
		}
		if err != nil {
			return
		}
		if len(toks) == 0 || !toks[len(toks)-1].IsEnd() {
			t.Fatalf("token stream does not end with the end marker: %v", toks)
		}
	})
}
