package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexNumberTooLarge           Code = 1005
	LexBadUnderscore            Code = 1006
	LexGarbageAfterNumber       Code = 1007
	LexBadEscape                Code = 1008
	LexBadDigit                 Code = 1009

	// Синтаксические
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynForcedRule      Code = 2002
	SynTrailingInput   Code = 2003
	SynRecursionLimit  Code = 2004
	SynMixedQuotes     Code = 2005

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unexpected character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Invalid numeric literal",
		LexNumberTooLarge:           "Integer literal too large",
		LexBadUnderscore:            "Invalid underscore in integer literal",
		LexGarbageAfterNumber:       "Garbage after number",
		LexBadEscape:                "Invalid escape sequence",
		LexBadDigit:                 "Wrong digit for base",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Syntax error",
		SynForcedRule:               "Forced rule failed",
		SynTrailingInput:            "Unparsed trailing input",
		SynRecursionLimit:           "Maximum recursion depth exceeded",
		SynMixedQuotes:              "String literals must have the same quotes",
		IOLoadFileError:             "I/O load file error",
		IOCacheError:                "Token cache error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
