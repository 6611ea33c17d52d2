package token

// KeywordID enumerates hard keywords. Soft keywords (`self`) stay Name tokens.
type KeywordID uint8

const (
	NoKeyword KeywordID = iota
	KwAnd
	KwOr
	KwNot
	KwIn
	KwIs
	KwIf
	KwThen
	KwElse
	KwFor
	KwWhile
	KwLoop
	KwReturn
	KwBreak
	KwContinue
	KwMatch
	KwCtime
	KwRtime
	KwDyn
	KwRef
	KwMove
	KwCopy
	KwMut
	KwVar
	KwVal
	KwFunc
	KwClass
	KwStruct
	KwEnum
	KwTrait
	KwNamespace
	KwImpl
	KwCartridge
	KwExpand
	KwUnwrap
	KwImport
	KwExport
	KwPublic
	KwProtected
	KwPrivate

	keywordCount
)

var keywordSpelling = [keywordCount]string{
	KwAnd:       "and",
	KwOr:        "or",
	KwNot:       "not",
	KwIn:        "in",
	KwIs:        "is",
	KwIf:        "if",
	KwThen:      "then",
	KwElse:      "else",
	KwFor:       "for",
	KwWhile:     "while",
	KwLoop:      "loop",
	KwReturn:    "return",
	KwBreak:     "break",
	KwContinue:  "continue",
	KwMatch:     "match",
	KwCtime:     "ctime",
	KwRtime:     "rtime",
	KwDyn:       "dyn",
	KwRef:       "ref",
	KwMove:      "move",
	KwCopy:      "copy",
	KwMut:       "mut",
	KwVar:       "var",
	KwVal:       "val",
	KwFunc:      "func",
	KwClass:     "class",
	KwStruct:    "struct",
	KwEnum:      "enum",
	KwTrait:     "trait",
	KwNamespace: "namespace",
	KwImpl:      "impl",
	KwCartridge: "cartridge",
	KwExpand:    "expand",
	KwUnwrap:    "unwrap",
	KwImport:    "import",
	KwExport:    "export",
	KwPublic:    "public",
	KwProtected: "protected",
	KwPrivate:   "private",
}

var keywords = func() map[string]KeywordID {
	m := make(map[string]KeywordID, keywordCount)
	for id := KwAnd; id < keywordCount; id++ {
		m[keywordSpelling[id]] = id
	}
	return m
}()

// LookupKeyword возвращает ключевое слово и true, если ident зарезервирован.
// Регистр важен: "Func" остаётся именем.
func LookupKeyword(ident string) (KeywordID, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Keywords returns every hard keyword in declaration order.
func Keywords() []KeywordID {
	out := make([]KeywordID, 0, keywordCount-1)
	for id := KwAnd; id < keywordCount; id++ {
		out = append(out, id)
	}
	return out
}

func (k KeywordID) String() string {
	if k < keywordCount {
		return keywordSpelling[k]
	}
	return "UNKNOWN"
}
