package lexer

import (
	"bondrewd/internal/source"
	"bondrewd/internal/token"
)

// Lexer buffers tokens pulled from a Tokenizer and gives the parser random
// access over them. Nothing is ever dropped from the buffer, so any position
// returned by Tell stays valid for the whole parse.
//
// A lexical error is fatal: the Lexer panics with *Error. Parser.Parse and
// Recover convert that panic back into an error value.
type Lexer struct {
	tz   *Tokenizer
	buf  []token.Token
	pos  int
	done bool
}

// New creates a lexer reading from sc.
func New(sc *source.Scanner) *Lexer {
	return &Lexer{tz: NewTokenizer(sc), buf: make([]token.Token, 0, 64)}
}

// FromString is New(source.NewScanner(name, src)).
func FromString(name, src string) *Lexer {
	return New(source.NewScanner(name, src))
}

// Scanner returns the scanner behind the tokenizer.
func (lx *Lexer) Scanner() *source.Scanner { return lx.tz.Scanner() }

// fill makes sure buf[i] exists. Past the end marker the last token repeats.
func (lx *Lexer) fill(i int) {
	for len(lx.buf) <= i && !lx.done {
		tok, err := lx.tz.Next()
		if err != nil {
			panic(err)
		}
		lx.buf = append(lx.buf, tok)
		lx.done = tok.IsEnd()
	}
}

// Peek returns the token offset positions away from the cursor.
// Negative offsets look back; looking before the first token or past the
// end marker returns the nearest edge token.
func (lx *Lexer) Peek(offset int) token.Token {
	i := max(lx.pos+offset, 0)
	lx.fill(i)
	if i >= len(lx.buf) {
		return lx.buf[len(lx.buf)-1]
	}
	return lx.buf[i]
}

// Current returns the token under the cursor.
func (lx *Lexer) Current() token.Token { return lx.Peek(0) }

// Advance moves past the current token. It does not move past the end marker.
func (lx *Lexer) Advance() {
	if !lx.Current().IsEnd() {
		lx.pos++
	}
}

// Tell returns a checkpoint of the cursor.
func (lx *Lexer) Tell() int { return lx.pos }

// Seek restores a checkpoint obtained from Tell.
func (lx *Lexer) Seek(pos int) {
	if pos < 0 || pos > len(lx.buf) {
		panic("lexer: seek to a position that was never reached")
	}
	lx.pos = pos
}

// Buffered returns every token pulled so far.
func (lx *Lexer) Buffered() []token.Token { return lx.buf }

// LastLocation is the location of the furthest token pulled so far.
func (lx *Lexer) LastLocation() source.Location {
	if len(lx.buf) == 0 {
		return lx.Scanner().Tell()
	}
	return lx.buf[len(lx.buf)-1].Loc
}

// Expect consumes and returns the current token if it has kind k.
func (lx *Lexer) Expect(k token.Kind) (token.Token, bool) {
	return lx.expectIf(func(t token.Token) bool { return t.Kind == k })
}

// ExpectKeyword consumes the given hard keyword.
func (lx *Lexer) ExpectKeyword(kw token.KeywordID) (token.Token, bool) {
	return lx.expectIf(func(t token.Token) bool { return t.IsKeyword(kw) })
}

// ExpectPunct consumes the given punctuation.
func (lx *Lexer) ExpectPunct(p token.PunctID) (token.Token, bool) {
	return lx.expectIf(func(t token.Token) bool { return t.IsPunct(p) })
}

// ExpectSoft consumes a Name token spelled exactly like name.
func (lx *Lexer) ExpectSoft(name string) (token.Token, bool) {
	return lx.expectIf(func(t token.Token) bool { return t.IsSoftKeyword(name) })
}

func (lx *Lexer) expectIf(pred func(token.Token) bool) (token.Token, bool) {
	tok := lx.Current()
	if !pred(tok) {
		return token.Token{}, false
	}
	lx.Advance()
	return tok, true
}

// Guard captures the cursor and returns a func that restores it.
//
//	defer lx.Guard()()
func (lx *Lexer) Guard() func() {
	pos := lx.pos
	return func() { lx.pos = pos }
}

// Lookahead runs probe and then restores the cursor whatever happened.
// It reports probe() == positive, so it serves both &rule and !rule.
func (lx *Lexer) Lookahead(positive bool, probe func() bool) bool {
	defer lx.Guard()()
	return probe() == positive
}
