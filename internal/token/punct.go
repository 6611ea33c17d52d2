package token

// PunctID enumerates operators and delimiters. The numeric values are stable.
type PunctID uint8

const (
	NoPunct PunctID = iota

	LPar        // (
	RPar        // )
	LSqb        // [
	RSqb        // ]
	LBrace      // {
	RBrace      // }
	Exclamation // !
	Colon       // :
	Dot         // .
	Comma       // ,
	Semi        // ;
	DoubleColon // ::

	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Power      // **
	Tilde      // ~
	Circumflex // ^
	VBar       // |
	Amper      // &
	LeftShift  // <<
	RightShift // >>

	Equal           // =
	PlusEqual       // +=
	MinEqual        // -=
	StarEqual       // *=
	SlashEqual      // /=
	PercentEqual    // %=
	AmperEqual      // &=
	VBarEqual       // |=
	CircumflexEqual // ^=
	LeftShiftEqual  // <<=
	RightShiftEqual // >>=

	DoubleEqual  // ==
	NotEqual     // !=
	Greater      // >
	Less         // <
	GreaterEqual // >=
	LessEqual    // <=
	BidirCmp     // <=>

	At       // @
	RArrow   // ->
	RArrow2  // =>
	Ellipsis // ...

	punctCount
)

type punctInfo struct {
	name     string
	spelling string
}

var punctTable = [punctCount]punctInfo{
	NoPunct:         {"NOPUNCT", ""},
	LPar:            {"LPAR", "("},
	RPar:            {"RPAR", ")"},
	LSqb:            {"LSQB", "["},
	RSqb:            {"RSQB", "]"},
	LBrace:          {"LBRACE", "{"},
	RBrace:          {"RBRACE", "}"},
	Exclamation:     {"EXCLAMATION", "!"},
	Colon:           {"COLON", ":"},
	Dot:             {"DOT", "."},
	Comma:           {"COMMA", ","},
	Semi:            {"SEMI", ";"},
	DoubleColon:     {"DOUBLECOLON", "::"},
	Plus:            {"PLUS", "+"},
	Minus:           {"MINUS", "-"},
	Star:            {"STAR", "*"},
	Slash:           {"SLASH", "/"},
	Percent:         {"PERCENT", "%"},
	Power:           {"POWER", "**"},
	Tilde:           {"TILDE", "~"},
	Circumflex:      {"CIRCUMFLEX", "^"},
	VBar:            {"VBAR", "|"},
	Amper:           {"AMPER", "&"},
	LeftShift:       {"LEFTSHIFT", "<<"},
	RightShift:      {"RIGHTSHIFT", ">>"},
	Equal:           {"EQUAL", "="},
	PlusEqual:       {"PLUSEQUAL", "+="},
	MinEqual:        {"MINEQUAL", "-="},
	StarEqual:       {"STAREQUAL", "*="},
	SlashEqual:      {"SLASHEQUAL", "/="},
	PercentEqual:    {"PERCENTEQUAL", "%="},
	AmperEqual:      {"AMPEREQUAL", "&="},
	VBarEqual:       {"VBAREQUAL", "|="},
	CircumflexEqual: {"CIRCUMFLEXEQUAL", "^="},
	LeftShiftEqual:  {"LEFTSHIFTEQUAL", "<<="},
	RightShiftEqual: {"RIGHTSHIFTEQUAL", ">>="},
	DoubleEqual:     {"DOUBLEEQUAL", "=="},
	NotEqual:        {"NOTEQUAL", "!="},
	Greater:         {"GREATER", ">"},
	Less:            {"LESS", "<"},
	GreaterEqual:    {"GREATEREQUAL", ">="},
	LessEqual:       {"LESSEQUAL", "<="},
	BidirCmp:        {"BIDIRCMP", "<=>"},
	At:              {"AT", "@"},
	RArrow:          {"RARROW", "->"},
	RArrow2:         {"RARROW2", "=>"},
	Ellipsis:        {"ELLIPSIS", "..."},
}

var punctBySpelling = func() map[string]PunctID {
	m := make(map[string]PunctID, punctCount)
	for id := LPar; id < punctCount; id++ {
		m[punctTable[id].spelling] = id
	}
	return m
}()

// LookupPunct maps a spelling such as "<<=" to its PunctID.
func LookupPunct(s string) (PunctID, bool) {
	p, ok := punctBySpelling[s]
	return p, ok
}

// Puncts returns every PunctID in declaration order.
func Puncts() []PunctID {
	out := make([]PunctID, 0, punctCount-1)
	for id := LPar; id < punctCount; id++ {
		out = append(out, id)
	}
	return out
}

// Spelling returns the source text of the punctuation.
func (p PunctID) Spelling() string {
	if p < punctCount {
		return punctTable[p].spelling
	}
	return ""
}

// Name returns the upper-case table name, e.g. "LEFTSHIFTEQUAL".
func (p PunctID) Name() string {
	if p < punctCount {
		return punctTable[p].name
	}
	return "UNKNOWN"
}

func (p PunctID) String() string { return p.Spelling() }
