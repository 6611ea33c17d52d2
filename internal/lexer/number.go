package lexer

import (
	"math"

	"bondrewd/internal/diag"
	"bondrewd/internal/source"
	"bondrewd/internal/token"
)

// MaxNumberLength bounds each digit run of a numeric literal. Longer runs are
// rejected before any arithmetic.
const MaxNumberLength = 128

// number reads an integer or floating point literal. The sign is not part of
// the literal; `-1` is unary minus applied to 1.
func (t *Tokenizer) number() (token.Token, error) {
	sc := t.sc
	start := sc.Tell()
	base := 10

	if sc.Current() == '0' {
		switch sc.Peek(1) {
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		case 'x', 'X':
			base = 16
		}
		if base != 10 {
			sc.Advance(2)
		}
	}

	isBaseDigit := func(r rune) bool { return r == '_' || digitValue(r) < base }

	intPart := sc.ReadWhile(isBaseDigit)
	isInt := true
	var fracPart, expPart string
	expSign := 0

	// точка входит в литерал, только если рядом есть цифра
	if sc.Current() == '.' && (intPart != "" || digitValue(sc.Peek(1)) < base) {
		sc.Advance(1)
		isInt = false
		fracPart = sc.ReadWhile(isBaseDigit)
	}

	c := sc.Current()
	if (base <= 10 && (c == 'e' || c == 'E')) || (base == 16 && (c == 'p' || c == 'P')) {
		if intPart == "" && fracPart == "" {
			return token.Token{}, newError(sc, diag.LexBadNumber, start, "Invalid floating point literal")
		}
		sc.Advance(1)
		isInt = false
		expSign = 1
		switch sc.Current() {
		case '+':
			sc.Advance(1)
		case '-':
			sc.Advance(1)
			expSign = -1
		}
		expPart = sc.ReadWhile(isBaseDigit)
		if expPart == "" {
			return token.Token{}, newError(sc, diag.LexBadNumber, start, "Invalid floating point literal")
		}
	}

	if isInt && intPart == "" {
		return token.Token{}, newError(sc, diag.LexBadNumber, start, "Invalid integer literal")
	}

	if isNameChar(sc.Current()) {
		return token.Token{}, newError(sc, diag.LexGarbageAfterNumber, sc.Tell(), "Garbage '%c' after number", sc.Current())
	}

	if len(intPart) >= MaxNumberLength || len(fracPart) >= MaxNumberLength || len(expPart) >= MaxNumberLength {
		return token.Token{}, newError(sc, diag.LexNumberTooLarge, start, "Integer literal too large")
	}

	tok := token.Token{Kind: token.Number, Loc: start}
	if isInt {
		v, err := t.extractInteger(intPart, base, start)
		if err != nil {
			return token.Token{}, err
		}
		tok.Num = token.NumberValue{Int: v}
	} else {
		v, err := t.extractFloat(intPart, fracPart, expPart, expSign, base, start)
		if err != nil {
			return token.Token{}, err
		}
		tok.Num = token.NumberValue{Float: true, Value: v}
	}
	tok.Text = sc.ViewSince(start)
	return tok, nil
}

// extractInteger evaluates an already validated digit run. Underscores must
// sit strictly between digits; arithmetic overflow is an error.
func (t *Tokenizer) extractInteger(digits string, base int, loc source.Location) (int64, error) {
	if err := t.checkUnderscores(digits, loc); err != nil {
		return 0, err
	}
	var result int64
	b := int64(base)
	for i := 0; i < len(digits); i++ {
		if digits[i] == '_' {
			continue
		}
		d := int64(digitValue(rune(digits[i])))
		if result > (math.MaxInt64-d)/b {
			return 0, newError(t.sc, diag.LexNumberTooLarge, loc, "Integer literal too large")
		}
		result = result*b + d
	}
	return result, nil
}

func (t *Tokenizer) checkUnderscores(digits string, loc source.Location) error {
	allow := false
	for i := 0; i < len(digits); i++ {
		if digits[i] == '_' {
			if !allow {
				return newError(t.sc, diag.LexBadUnderscore, loc, "Invalid underscore in integer literal")
			}
			allow = false
			continue
		}
		allow = true
	}
	if !allow {
		return newError(t.sc, diag.LexBadUnderscore, loc, "Invalid underscore in integer literal")
	}
	return nil
}

// extractFloat: integer part by descending powers, the fraction accumulated
// from its last digit dividing by base each step, then result *= base^(sign*exp).
func (t *Tokenizer) extractFloat(intPart, fracPart, expPart string, expSign, base int, loc source.Location) (float64, error) {
	for _, part := range []string{intPart, fracPart} {
		if part == "" {
			continue
		}
		if err := t.checkUnderscores(part, loc); err != nil {
			return 0, err
		}
	}

	fb := float64(base)
	var result float64
	for i := 0; i < len(intPart); i++ {
		if intPart[i] == '_' {
			continue
		}
		result = result*fb + float64(digitValue(rune(intPart[i])))
	}

	var fraction float64
	for i := len(fracPart) - 1; i >= 0; i-- {
		if fracPart[i] == '_' {
			continue
		}
		fraction += float64(digitValue(rune(fracPart[i])))
		fraction /= fb
	}
	result += fraction

	if expSign != 0 {
		exp, err := t.extractInteger(expPart, base, loc)
		if err != nil {
			return 0, err
		}
		result *= math.Pow(fb, float64(int64(expSign)*exp))
	}
	return result, nil
}
