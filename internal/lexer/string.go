package lexer

import (
	"strings"

	"bondrewd/internal/diag"
	"bondrewd/internal/source"
	"bondrewd/internal/token"
)

var simpleEscapes = map[rune]byte{
	'\'': '\'',
	'"':  '"',
	'\\': '\\',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// stringLiteral reads a string body; the opening quote ends at the cursor and
// starts at start.
func (t *Tokenizer) stringLiteral(start source.Location, quote string) (token.Token, error) {
	sc := t.sc
	multiline := len(quote) > 1
	var value strings.Builder

	for {
		seg := sc.Tell()
		m := stringAutomaton.Feed(sc)

		switch m.Verdict {
		case MatchQuote:
			switch {
			case m.Lexeme == quote:
				return token.Token{
					Kind: token.String,
					Loc:  start,
					Text: sc.ViewSince(start),
					Str:  token.StringValue{Value: value.String(), Quotes: quote},
				}, nil
			case strings.HasPrefix(m.Lexeme, quote):
				// `"abc"""`: закрываем ровно своей кавычкой, остальное лексится дальше
				sc.Seek(seg)
				sc.Advance(len(quote))
				return token.Token{
					Kind: token.String,
					Loc:  start,
					Text: sc.ViewSince(start),
					Str:  token.StringValue{Value: value.String(), Quotes: quote},
				}, nil
			default:
				// чужая или более короткая кавычка - это содержимое
				value.WriteString(m.Lexeme)
			}

		case MatchNewline:
			if !multiline {
				return token.Token{}, newError(sc, diag.LexUnterminatedString, start, "Unterminated string")
			}
			value.WriteByte('\n')

		case MatchEscape:
			if err := t.escape(seg, &value); err != nil {
				return token.Token{}, err
			}

		default:
			if sc.AtEOF() {
				return token.Token{}, newError(sc, diag.LexUnterminatedString, start, "Unterminated string")
			}
			value.WriteString(sc.ReadWhile(isPlainStringByte))
		}
	}
}

func isPlainStringByte(r rune) bool {
	return r != '\'' && r != '"' && r != '\\' && r != '\n'
}

// escape decodes the sequence after a backslash. seg is the backslash location.
func (t *Tokenizer) escape(seg source.Location, value *strings.Builder) error {
	sc := t.sc
	c := sc.Current()

	switch {
	case c == source.EOF:
		return nil
	case c == '\n':
		// продолжение строки
		sc.Advance(1)
		return nil
	case c == 'x':
		sc.Advance(1)
		hi, err := t.hexDigit(seg)
		if err != nil {
			return err
		}
		lo, err := t.hexDigit(seg)
		if err != nil {
			return err
		}
		value.WriteByte(byte(hi<<4 | lo))
		return nil
	}

	if b, ok := simpleEscapes[c]; ok {
		sc.Advance(1)
		value.WriteByte(b)
		return nil
	}
	return newError(sc, diag.LexBadEscape, seg, "Invalid escape sequence")
}

func (t *Tokenizer) hexDigit(seg source.Location) (int, error) {
	c := t.sc.Current()
	d := digitValue(c)
	switch {
	case d == noDigit && c == source.EOF:
		return 0, newError(t.sc, diag.LexUnterminatedString, seg, "Unterminated string")
	case d == noDigit:
		return 0, newError(t.sc, diag.LexBadDigit, seg, "Invalid digit '%c'", c)
	case d >= 16:
		return 0, newError(t.sc, diag.LexBadDigit, seg, "Wrong digit '%c' for base %d", c, 16)
	}
	t.sc.Advance(1)
	return d, nil
}
