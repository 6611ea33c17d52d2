package lexer_test

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"bondrewd/internal/diag"
	"bondrewd/internal/lexer"
	"bondrewd/internal/source"
	"bondrewd/internal/token"
)

func tokenize(t *testing.T, input string) []token.Token {
	t.Helper()
	toks, err := lexer.Tokenize(source.NewScanner("test.bd", input))
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", input, err)
	}
	return toks
}

func tokenizeErr(t *testing.T, input string) *lexer.Error {
	t.Helper()
	_, err := lexer.Tokenize(source.NewScanner("test.bd", input))
	if err == nil {
		t.Fatalf("Tokenize(%q) succeeded, want error", input)
	}
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("error %T is not *lexer.Error", err)
	}
	return lexErr
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

var trivia = regexp.MustCompile(`^(?:\s|//[^\n]*\n?|#[^\n]*\n?|/\*(?s:.*)\*/)*$`)

func TestRoundTripSourceFidelity(t *testing.T) {
	inputs := []string{
		"cartridge foo;\nfunc main(): int32 => { 0 };\n",
		"var x: int = 0xF;  // hex\n",
		"a.b::c!(1, 2) # trailing\n",
		"x <<= 1 <=> y ** 2 ... /* block /* nested */ */ z",
		"\t'it''s'  \"\"\"multi\nline\"\"\" \"abc\"\"\"",
		".5 + 1.25e+2 - 0b1010 * 0o17",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			toks := tokenize(t, input)
			if !toks[len(toks)-1].IsEnd() {
				t.Fatal("stream must end with the end marker")
			}

			var rebuilt strings.Builder
			prev := uint32(0)
			for _, tok := range toks {
				gap := input[prev:tok.Loc.Offset]
				if !trivia.MatchString(gap) {
					t.Fatalf("gap %q before %v is not whitespace or comments", gap, tok)
				}
				if got := input[tok.Loc.Offset : int(tok.Loc.Offset)+len(tok.Text)]; got != tok.Text {
					t.Fatalf("token %v text %q, source has %q", tok, tok.Text, got)
				}
				rebuilt.WriteString(gap)
				rebuilt.WriteString(tok.Text)
				prev = tok.Loc.Offset + uint32(len(tok.Text))
			}
			rebuilt.WriteString(input[prev:])
			if rebuilt.String() != input {
				t.Fatalf("rebuilt %q, want %q", rebuilt.String(), input)
			}
		})
	}
}

func TestIntegerLiterals(t *testing.T) {
	tests := []struct {
		text string
		want int64
	}{
		{"0", 0},
		{"42", 42},
		{"1_000_000", 1000000},
		{"0b1010", 10},
		{"0B1_1", 3},
		{"0o17", 15},
		{"0xff", 255},
		{"0xDEAD_beef", 0xDEADBEEF},
		{"9223372036854775807", 9223372036854775807},
		{"0x7fffffffffffffff", 9223372036854775807},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			toks := tokenize(t, tt.text)
			if len(toks) != 2 || toks[0].Kind != token.Number {
				t.Fatalf("tokens = %v", toks)
			}
			if toks[0].Num.Float || toks[0].Num.Int != tt.want {
				t.Fatalf("value = %+v, want %d", toks[0].Num, tt.want)
			}
			if toks[0].Text != tt.text {
				t.Fatalf("Text = %q", toks[0].Text)
			}
		})
	}
}

func TestFloatLiterals(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"1.5", 1.5},
		{".25", 0.25},
		{"1.", 1},
		{"1e3", 1000},
		{"2.5e-1", 0.25},
		{"1.25e+2", 125},
		{"0b1.1", 1.5},
		{"0x1p1", 16},
		{"0x.8", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			toks := tokenize(t, tt.text)
			if toks[0].Kind != token.Number || !toks[0].Num.Float {
				t.Fatalf("tokens = %v", toks)
			}
			if toks[0].Num.Value != tt.want {
				t.Fatalf("value = %v, want %v", toks[0].Num.Value, tt.want)
			}
		})
	}
}

func TestNumberErrors(t *testing.T) {
	tests := []struct {
		text string
		code diag.Code
		msg  string
		col  uint32
	}{
		{"9223372036854775808", diag.LexNumberTooLarge, "Integer literal too large", 1},
		{"0x8000000000000000", diag.LexNumberTooLarge, "Integer literal too large", 1},
		{strings.Repeat("1", lexer.MaxNumberLength), diag.LexNumberTooLarge, "Integer literal too large", 1},
		{"1__0", diag.LexBadUnderscore, "Invalid underscore in integer literal", 1},
		{"1_", diag.LexBadUnderscore, "Invalid underscore in integer literal", 1},
		{"0x_1", diag.LexBadUnderscore, "Invalid underscore in integer literal", 1},
		{"123abc", diag.LexGarbageAfterNumber, "Garbage 'a' after number", 4},
		{"0b102", diag.LexGarbageAfterNumber, "Garbage '2' after number", 5},
		{"0x", diag.LexBadNumber, "Invalid integer literal", 1},
		{"1e", diag.LexBadNumber, "Invalid floating point literal", 1},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			err := tokenizeErr(t, tt.text)
			if err.Code != tt.code || err.Msg != tt.msg {
				t.Fatalf("got %v %q, want %v %q", err.Code, err.Msg, tt.code, tt.msg)
			}
			if err.Loc.Col != tt.col {
				t.Fatalf("error column = %d, want %d", err.Loc.Col, tt.col)
			}
		})
	}
}

func TestMaximalMunch(t *testing.T) {
	tests := []struct {
		input string
		want  []token.PunctID
	}{
		{".", []token.PunctID{token.Dot}},
		{"..", []token.PunctID{token.Dot, token.Dot}},
		{"...", []token.PunctID{token.Ellipsis}},
		{"....", []token.PunctID{token.Ellipsis, token.Dot}},
		{"<<=", []token.PunctID{token.LeftShiftEqual}},
		{"<=>", []token.PunctID{token.BidirCmp}},
		{"<=", []token.PunctID{token.LessEqual}},
		{"**=", []token.PunctID{token.Power, token.Equal}},
		{"=>=", []token.PunctID{token.RArrow2, token.Equal}},
		{"::=", []token.PunctID{token.DoubleColon, token.Equal}},
		{"->>", []token.PunctID{token.RArrow, token.Greater}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := tokenize(t, tt.input)
			toks = toks[:len(toks)-1]
			if len(toks) != len(tt.want) {
				t.Fatalf("got %v", toks)
			}
			for i, p := range tt.want {
				if !toks[i].IsPunct(p) {
					t.Fatalf("token %d = %v, want %v", i, toks[i], p.Name())
				}
			}
		})
	}
}

func TestNamesAndKeywords(t *testing.T) {
	toks := tokenize(t, "func self Func _x x1 namespace")
	want := []token.Kind{token.Keyword, token.Name, token.Name, token.Name, token.Name, token.Keyword, token.EndMarker}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	}
	if toks[0].Keyword != token.KwFunc || toks[5].Keyword != token.KwNamespace {
		t.Fatalf("keywords = %v %v", toks[0].Keyword, toks[5].Keyword)
	}
	if !toks[1].IsSoftKeyword("self") {
		t.Fatal("self must stay a name")
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		values []string
		quotes []string
	}{
		{"single", `'abc'`, []string{"abc"}, []string{`'`}},
		{"escapes", `"a\tb\x41\\\""`, []string{"a\tbA\\\""}, []string{`"`}},
		{"other quote is content", `"it's"`, []string{"it's"}, []string{`"`}},
		{"empty", `''`, []string{""}, []string{`'`}},
		{"triple keeps newline", "'''line1\nline2'''", []string{"line1\nline2"}, []string{`'''`}},
		{"shorter quote inside triple", `"""a"b""c"""`, []string{`a"b""c`}, []string{`"""`}},
		{"close consumes only its length", `"abc"""`, []string{"abc", ""}, []string{`"`, `"`}},
		{"line continuation", "\"a\\\nb\"", []string{"ab"}, []string{`"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := tokenize(t, tt.input)
			toks = toks[:len(toks)-1]
			if len(toks) != len(tt.values) {
				t.Fatalf("got %d tokens: %v", len(toks), toks)
			}
			for i, tok := range toks {
				if tok.Kind != token.String {
					t.Fatalf("token %d kind %v", i, tok.Kind)
				}
				if tok.Str.Value != tt.values[i] || tok.Str.Quotes != tt.quotes[i] {
					t.Fatalf("token %d = %q %q, want %q %q", i, tok.Str.Value, tok.Str.Quotes, tt.values[i], tt.quotes[i])
				}
			}
		})
	}
}

func TestStringErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		msg   string
	}{
		{"eof", `"abc`, diag.LexUnterminatedString, "Unterminated string"},
		{"newline in short string", "'ab\ncd'", diag.LexUnterminatedString, "Unterminated string"},
		{"bad escape", `"\q"`, diag.LexBadEscape, "Invalid escape sequence"},
		{"wrong hex digit", `"\xZZ"`, diag.LexBadDigit, "Wrong digit 'Z' for base 16"},
		{"short hex", `"\x4"`, diag.LexBadDigit, `Invalid digit '"'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tokenizeErr(t, tt.input)
			if err.Code != tt.code || err.Msg != tt.msg {
				t.Fatalf("got %v %q, want %v %q", err.Code, err.Msg, tt.code, tt.msg)
			}
		})
	}
}

func TestComments(t *testing.T) {
	toks := tokenize(t, "a // c\nb # d\n/* x /* y */ z */ c")
	var names []string
	for _, tok := range toks {
		if tok.Kind == token.Name {
			names = append(names, tok.Text)
		}
	}
	if strings.Join(names, ",") != "a,b,c" {
		t.Fatalf("names = %v", names)
	}
}

func TestUnterminatedBlockCommentReportsStart(t *testing.T) {
	err := tokenizeErr(t, "/* never closed")
	if err.Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("code = %v", err.Code)
	}
	if err.Loc.Offset != 0 || err.Loc.Line != 1 || err.Loc.Col != 1 {
		t.Fatalf("location = %+v, want the comment start", err.Loc)
	}

	err = tokenizeErr(t, "x;\n  /* a /* b */")
	if err.Loc.Line != 2 || err.Loc.Col != 3 {
		t.Fatalf("nested: location = %+v", err.Loc)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"a $", "Unexpected character '$'"},
		{"é", "Unexpected character 'é'"},
		{"`", "Unexpected character '`'"},
	}
	for _, tt := range tests {
		err := tokenizeErr(t, tt.input)
		if err.Code != diag.LexUnknownChar || err.Msg != tt.msg {
			t.Errorf("%q: got %v %q", tt.input, err.Code, err.Msg)
		}
	}
}

func TestErrorDiagnostic(t *testing.T) {
	err := tokenizeErr(t, "var x = 08z;")
	d := err.Diagnostic(7)
	if d.Code != diag.LexGarbageAfterNumber || d.Severity != diag.SevError {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Primary.File != 7 || d.Primary.Start != err.Loc.Offset {
		t.Fatalf("primary = %+v", d.Primary)
	}
	if !strings.Contains(err.Error(), "test.bd:1:11") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestEndMarkerRepeats(t *testing.T) {
	tz := lexer.NewTokenizer(source.NewScanner("t", "  x  "))
	first, _ := tz.Next()
	if first.Kind != token.Name {
		t.Fatalf("first = %v", first)
	}
	for range 3 {
		tok, err := tz.Next()
		if err != nil || !tok.IsEnd() || tok.Loc.Offset != 5 {
			t.Fatalf("got %v, %v", tok, err)
		}
	}
}
