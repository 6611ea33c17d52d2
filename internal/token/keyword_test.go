package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]KeywordID{
		"func":      KwFunc,
		"var":       KwVar,
		"return":    KwReturn,
		"cartridge": KwCartridge,
		"namespace": KwNamespace,
		"unwrap":    KwUnwrap,
		"ctime":     KwCtime,
		"private":   KwPrivate,
		"and":       KwAnd,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// не ключевые слова
	notKw := []string{
		"Func", "VAR", "Return",
		"self", // мягкое ключевое слово, остаётся именем
		"int32", "ns", "main",
	}
	for _, s := range notKw {
		if k, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) = %v, want !ok", s, k)
		}
	}
}

func TestKeywordSpellingsRoundTrip(t *testing.T) {
	all := Keywords()
	if len(all) != int(keywordCount)-1 {
		t.Fatalf("Keywords() returned %d entries", len(all))
	}
	for _, kw := range all {
		got, ok := LookupKeyword(kw.String())
		if !ok || got != kw {
			t.Errorf("round trip of %v gave %v, %v", kw, got, ok)
		}
	}
}
