package lexer_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"bondrewd/internal/diag"
	"bondrewd/internal/lexer"
	"bondrewd/internal/source"
	"bondrewd/internal/token"
)

const sample = "cartridge foo;\nfunc main(): int32 => { 0 };\n"

func TestLexerSeekTellIsNoop(t *testing.T) {
	lx := lexer.FromString("t.bd", sample)
	rng := rand.New(rand.NewPCG(1, 2))

	for step := 0; step < 200; step++ {
		if rng.IntN(3) == 0 {
			lx.Seek(rng.IntN(lx.Tell() + 1))
		} else {
			lx.Advance()
		}
		before := lx.Current()
		pos := lx.Tell()
		lx.Seek(lx.Tell())
		if lx.Tell() != pos || lx.Current() != before {
			t.Fatalf("step %d: Seek(Tell()) moved from %v to %v", step, before, lx.Current())
		}
	}
}

func TestLexerPeekAndAdvance(t *testing.T) {
	lx := lexer.FromString("t.bd", "a + b")
	if lx.Peek(2).Text != "b" {
		t.Fatalf("Peek(2) = %v", lx.Peek(2))
	}
	if lx.Tell() != 0 || lx.Current().Text != "a" {
		t.Fatal("Peek must not move the cursor")
	}
	lx.Advance()
	if lx.Peek(-1).Text != "a" || lx.Peek(-5).Text != "a" {
		t.Fatal("looking back returns buffered tokens")
	}
	for range 10 {
		lx.Advance()
	}
	if !lx.Current().IsEnd() || !lx.Peek(4).IsEnd() {
		t.Fatal("cursor must stop at the end marker")
	}
	if lx.Tell() != 3 {
		t.Fatalf("Tell() = %d at end", lx.Tell())
	}
	if len(lx.Buffered()) != 4 {
		t.Fatalf("buffered %d tokens", len(lx.Buffered()))
	}
}

func TestLexerExpect(t *testing.T) {
	lx := lexer.FromString("t.bd", "func self ( 1")

	if _, ok := lx.ExpectKeyword(token.KwVar); ok || lx.Tell() != 0 {
		t.Fatal("failed Expect must not move")
	}
	if tok, ok := lx.ExpectKeyword(token.KwFunc); !ok || tok.Text != "func" {
		t.Fatal("ExpectKeyword(func)")
	}
	if _, ok := lx.ExpectSoft("this"); ok {
		t.Fatal("ExpectSoft matched the wrong name")
	}
	if _, ok := lx.ExpectSoft("self"); !ok {
		t.Fatal("ExpectSoft(self)")
	}
	if _, ok := lx.ExpectPunct(token.RPar); ok {
		t.Fatal("ExpectPunct matched ')' on '('")
	}
	if _, ok := lx.ExpectPunct(token.LPar); !ok {
		t.Fatal("ExpectPunct('(')")
	}
	if tok, ok := lx.Expect(token.Number); !ok || tok.Num.Int != 1 {
		t.Fatal("Expect(Number)")
	}
	if _, ok := lx.Expect(token.EndMarker); !ok {
		t.Fatal("Expect(EndMarker)")
	}
}

func TestLexerLookahead(t *testing.T) {
	lx := lexer.FromString("t.bd", "x = 1;")
	isAssign := func() bool {
		if _, ok := lx.Expect(token.Name); !ok {
			return false
		}
		_, ok := lx.ExpectPunct(token.Equal)
		return ok
	}

	if !lx.Lookahead(true, isAssign) {
		t.Fatal("positive lookahead failed")
	}
	if lx.Tell() != 0 {
		t.Fatal("lookahead must restore position")
	}
	if lx.Lookahead(false, isAssign) {
		t.Fatal("negative lookahead of a matching probe must fail")
	}
	if lx.Tell() != 0 {
		t.Fatal("negative lookahead must restore position")
	}

	func() {
		defer lx.Guard()()
		lx.Advance()
		lx.Advance()
	}()
	if lx.Tell() != 0 {
		t.Fatal("Guard did not restore")
	}
}

func TestLexerPanicsWithLexicalError(t *testing.T) {
	lx := lexer.FromString("t.bd", "a b /* open")

	consume := func() (err error) {
		defer lexer.Recover(&err)
		for !lx.Current().IsEnd() {
			lx.Advance()
		}
		return nil
	}

	err := consume()
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("err = %v", err)
	}
	if lexErr.Code != diag.LexUnterminatedBlockComment || lexErr.Loc.Col != 5 {
		t.Fatalf("unexpected error %+v", lexErr)
	}
	if len(lx.Buffered()) != 2 {
		t.Fatalf("tokens before the error stay buffered, got %d", len(lx.Buffered()))
	}
}

func TestRecoverRepanicsForeignValues(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("recovered %v", r)
		}
	}()
	func() {
		var err error
		defer lexer.Recover(&err)
		panic("boom")
	}()
}

func TestAutomatonBacktracks(t *testing.T) {
	sc := source.NewScanner("t", "..x")
	m := lexer.NewAutomaton([]lexer.Entry{
		{Spelling: ".", Verdict: lexer.MatchPunct, Punct: token.Dot},
		{Spelling: "...", Verdict: lexer.MatchPunct, Punct: token.Ellipsis},
	}).Feed(sc)

	if m.Verdict != lexer.MatchPunct || m.Punct != token.Dot || m.Lexeme != "." {
		t.Fatalf("match = %+v", m)
	}
	if sc.Tell().Offset != 1 {
		t.Fatalf("scanner left at %d, want 1", sc.Tell().Offset)
	}

	sc = source.NewScanner("t", "x")
	if m := lexer.NewAutomaton(nil).Feed(sc); m.Verdict != lexer.NoMatch || sc.Tell().Offset != 0 {
		t.Fatalf("empty automaton matched %+v", m)
	}
}

func TestNewAutomatonRejectsDuplicates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	lexer.NewAutomaton([]lexer.Entry{{Spelling: "+"}, {Spelling: "+"}})
}
