package lexer

import (
	"unicode/utf8"

	"bondrewd/internal/diag"
	"bondrewd/internal/source"
	"bondrewd/internal/token"
)

// Tokenizer turns the scanner's bytes into tokens, one per Next call.
// Whitespace and comments are skipped inside Next and never surface.
type Tokenizer struct {
	sc *source.Scanner
}

// NewTokenizer reads from sc starting at its current position.
func NewTokenizer(sc *source.Scanner) *Tokenizer {
	return &Tokenizer{sc: sc}
}

// Scanner exposes the underlying scanner (for context rendering).
func (t *Tokenizer) Scanner() *source.Scanner { return t.sc }

// Next returns the next token. At end of input it returns an EndMarker, and
// keeps returning one on every later call.
func (t *Tokenizer) Next() (token.Token, error) {
	// цикл нужен из-за комментариев
	for {
		t.sc.SkipSpace()
		if t.sc.AtEOF() {
			return token.Token{Kind: token.EndMarker, Loc: t.sc.Tell()}, nil
		}

		c := t.sc.Current()
		switch {
		case isDigit(c) || (c == '.' && isDigit(t.sc.Peek(1))):
			return t.number()
		case isNameChar(c):
			return t.nameOrKeyword(), nil
		}

		tok, produced, err := t.other()
		if err != nil || produced {
			return tok, err
		}
	}
}

func (t *Tokenizer) nameOrKeyword() token.Token {
	start := t.sc.Tell()
	text := t.sc.ReadWhile(isNameChar)
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: token.Keyword, Loc: start, Text: text, Keyword: kw}
	}
	return token.Token{Kind: token.Name, Loc: start, Text: text}
}

// other handles everything the misc automaton knows about. produced is false
// when a comment was skipped and Next must keep looping.
func (t *Tokenizer) other() (tok token.Token, produced bool, err error) {
	start := t.sc.Tell()
	m := miscAutomaton.Feed(t.sc)

	switch m.Verdict {
	case MatchPunct:
		return token.Token{Kind: token.Punct, Loc: start, Text: m.Lexeme, Punct: m.Punct}, true, nil
	case MatchQuote:
		tok, err = t.stringLiteral(start, m.Lexeme)
		return tok, err == nil, err
	case MatchLineComment:
		t.sc.SkipLine()
		return token.Token{}, false, nil
	case MatchBlockComment:
		return token.Token{}, false, t.blockComment(start)
	default:
		r, _ := utf8.DecodeRuneInString(t.sc.Source()[start.Offset:])
		return token.Token{}, false, newError(t.sc, diag.LexUnknownChar, start, "Unexpected character '%c'", r)
	}
}

// blockComment skips a possibly nested /* */ comment whose opener ends at the
// cursor. start is the location of the opener.
func (t *Tokenizer) blockComment(start source.Location) error {
	balance := 1
	for balance > 0 {
		switch blockCommentAutomaton.Feed(t.sc).Verdict {
		case MatchBlockComment:
			balance++
		case MatchBlockCommentEnd:
			balance--
		default:
			if t.sc.AtEOF() {
				return newError(t.sc, diag.LexUnterminatedBlockComment, start, "Unterminated block comment")
			}
			t.sc.Advance(1)
		}
	}
	return nil
}

// Tokenize drains sc into a slice that ends with the EndMarker.
func Tokenize(sc *source.Scanner) ([]token.Token, error) {
	tz := NewTokenizer(sc)
	var out []token.Token
	for {
		tok, err := tz.Next()
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.IsEnd() {
			return out, nil
		}
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNameChar(r rune) bool {
	return r == '_' || isDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// digitValue returns the value of an alphanumeric digit, or noDigit.
func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	}
	return noDigit
}

const noDigit = 1 << 8
