package token

// Kind is the variant tag of a Token.
type Kind uint8

const (
	// Invalid is the zero Kind; the tokenizer never produces it.
	Invalid Kind = iota
	// EndMarker terminates every token stream.
	EndMarker
	// Name is an identifier that is not a hard keyword.
	Name
	// Number is an integer or floating point literal.
	Number
	// String is a quoted literal with escapes already decoded.
	String
	// Keyword is a reserved word.
	Keyword
	// Punct is an operator or delimiter.
	Punct
)

var kindNames = [...]string{
	Invalid:   "INVALID",
	EndMarker: "ENDMARKER",
	Name:      "NAME",
	Number:    "NUMBER",
	String:    "STRING",
	Keyword:   "KEYWORD",
	Punct:     "PUNCT",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}
