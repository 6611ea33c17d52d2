package token

import (
	"fmt"
	"strconv"

	"bondrewd/internal/source"
)

// NumberValue is the payload of a Number token.
type NumberValue struct {
	Float bool
	Int   int64
	Value float64
}

// StringValue is the payload of a String token: decoded contents plus the
// quote spelling (', ", ''' or """) that delimited them.
type StringValue struct {
	Value  string
	Quotes string
}

// Token is one lexical unit. Only the payload matching Kind is meaningful.
// Text is always the verbatim source slice the token was read from.
type Token struct {
	Kind    Kind
	Loc     source.Location
	Text    string
	Num     NumberValue
	Str     StringValue
	Keyword KeywordID
	Punct   PunctID
}

// IsEnd reports whether the token is the terminal end marker.
func (t Token) IsEnd() bool { return t.Kind == EndMarker }

// IsKeyword reports whether the token is the given hard keyword.
func (t Token) IsKeyword(kw KeywordID) bool { return t.Kind == Keyword && t.Keyword == kw }

// IsPunct reports whether the token is the given punctuation.
func (t Token) IsPunct(p PunctID) bool { return t.Kind == Punct && t.Punct == p }

// IsSoftKeyword reports whether the token is a Name spelled exactly like name.
func (t Token) IsSoftKeyword(name string) bool { return t.Kind == Name && t.Text == name }

// Span maps the token onto a FileSet file.
func (t Token) Span(file source.FileID) source.Span {
	return source.SpanAt(file, t.Loc, len(t.Text))
}

// Payload renders the token value the way dumps show it.
func (t Token) Payload() string {
	switch t.Kind {
	case Number:
		if t.Num.Float {
			return strconv.FormatFloat(t.Num.Value, 'g', -1, 64)
		}
		return strconv.FormatInt(t.Num.Int, 10)
	case String:
		return t.Str.Quotes + t.Str.Value + t.Str.Quotes
	case Keyword:
		return t.Keyword.String()
	case Punct:
		return t.Punct.Name()
	case Name:
		return t.Text
	default:
		return ""
	}
}

func (t Token) String() string {
	if t.Kind == EndMarker {
		return fmt.Sprintf("%s@%s", t.Kind, t.Loc)
	}
	return fmt.Sprintf("%s(%s)@%s", t.Kind, t.Payload(), t.Loc)
}
