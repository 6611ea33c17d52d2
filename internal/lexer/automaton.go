package lexer

import (
	"fmt"

	"bondrewd/internal/source"
	"bondrewd/internal/token"
)

// Verdict is what an Automaton recognised.
type Verdict uint8

const (
	// NoMatch means no terminal starts at the cursor; the scanner is untouched.
	NoMatch Verdict = iota
	MatchPunct
	MatchQuote
	MatchLineComment
	MatchBlockComment
	MatchBlockCommentEnd
	MatchEscape
	MatchNewline
)

var verdictNames = [...]string{
	NoMatch:              "none",
	MatchPunct:           "punct",
	MatchQuote:           "quote",
	MatchLineComment:     "line-comment",
	MatchBlockComment:    "block-comment",
	MatchBlockCommentEnd: "block-comment-end",
	MatchEscape:          "escape",
	MatchNewline:         "newline",
}

func (v Verdict) String() string {
	if int(v) < len(verdictNames) {
		return verdictNames[v]
	}
	return fmt.Sprintf("verdict(%d)", v)
}

// Entry declares one terminal of an automaton.
type Entry struct {
	Spelling string
	Verdict  Verdict
	Punct    token.PunctID
}

// Match is the result of Automaton.Feed.
type Match struct {
	Verdict Verdict
	Punct   token.PunctID
	Lexeme  string
}

type trieNode struct {
	next map[byte]*trieNode
	term *Entry
}

// Automaton is a longest-match recogniser over a fixed set of spellings.
// It is immutable once built and safe to share between tokenizers.
type Automaton struct {
	root *trieNode
}

// NewAutomaton builds the trie for entries. Duplicate spellings panic.
func NewAutomaton(entries []Entry) *Automaton {
	root := &trieNode{next: map[byte]*trieNode{}}
	for i := range entries {
		e := &entries[i]
		if e.Spelling == "" {
			panic("lexer: empty automaton spelling")
		}
		node := root
		for j := 0; j < len(e.Spelling); j++ {
			child, ok := node.next[e.Spelling[j]]
			if !ok {
				child = &trieNode{next: map[byte]*trieNode{}}
				node.next[e.Spelling[j]] = child
			}
			node = child
		}
		if node.term != nil {
			panic(fmt.Sprintf("lexer: duplicate automaton spelling %q", e.Spelling))
		}
		node.term = e
	}
	return &Automaton{root: root}
}

// Feed walks the trie as far as the input allows, then rewinds the scanner
// to the end of the longest terminal seen on the way. With no terminal at
// all the scanner is restored and NoMatch returned.
func (a *Automaton) Feed(sc *source.Scanner) Match {
	start := sc.Tell()
	node := a.root
	var best *Entry
	bestEnd := start

	for {
		c := sc.Current()
		if c == source.EOF || c > 0xFF {
			break
		}
		child, ok := node.next[byte(c)]
		if !ok {
			break
		}
		sc.Advance(1)
		node = child
		if node.term != nil {
			best = node.term
			bestEnd = sc.Tell()
		}
	}

	sc.Seek(bestEnd)
	if best == nil {
		return Match{}
	}
	return Match{Verdict: best.Verdict, Punct: best.Punct, Lexeme: sc.ViewSince(start)}
}

// Таблицы автоматов строятся один раз при инициализации пакета.
var (
	miscAutomaton         = NewAutomaton(miscEntries())
	stringAutomaton       = NewAutomaton(stringEntries())
	blockCommentAutomaton = NewAutomaton([]Entry{
		{Spelling: "/*", Verdict: MatchBlockComment},
		{Spelling: "*/", Verdict: MatchBlockCommentEnd},
	})
)

// quoteSpellings are the string delimiters, short forms first.
var quoteSpellings = []string{`'`, `"`, `'''`, `"""`}

func miscEntries() []Entry {
	puncts := token.Puncts()
	out := make([]Entry, 0, len(puncts)+len(quoteSpellings)+3)
	for _, p := range puncts {
		out = append(out, Entry{Spelling: p.Spelling(), Verdict: MatchPunct, Punct: p})
	}
	for _, q := range quoteSpellings {
		out = append(out, Entry{Spelling: q, Verdict: MatchQuote})
	}
	return append(out,
		Entry{Spelling: "//", Verdict: MatchLineComment},
		Entry{Spelling: "#", Verdict: MatchLineComment},
		Entry{Spelling: "/*", Verdict: MatchBlockComment},
	)
}

func stringEntries() []Entry {
	out := make([]Entry, 0, len(quoteSpellings)+2)
	for _, q := range quoteSpellings {
		out = append(out, Entry{Spelling: q, Verdict: MatchQuote})
	}
	return append(out,
		Entry{Spelling: `\`, Verdict: MatchEscape},
		Entry{Spelling: "\n", Verdict: MatchNewline},
	)
}
