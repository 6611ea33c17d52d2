package parser

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/exp/ebnf"
)

// StartProduction is the root of the embedded grammar.
const StartProduction = "File"

//go:embed grammar.ebnf
var grammarSource string

// GrammarSource returns the grammar text the parser implements.
func GrammarSource() string { return grammarSource }

// Grammar parses the embedded grammar and verifies that every production
// is defined and reachable from StartProduction.
func Grammar() (ebnf.Grammar, error) {
	g, err := ebnf.Parse("grammar.ebnf", strings.NewReader(grammarSource))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(g, StartProduction); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

// Productions lists production names, syntactic ones first, each group
// sorted.
func Productions(g ebnf.Grammar) []string {
	names := slices.Sorted(maps.Keys(g))
	slices.SortStableFunc(names, func(a, b string) int {
		return lexicalRank(a) - lexicalRank(b)
	})
	return names
}

func lexicalRank(name string) int {
	if name != "" && name[0] >= 'a' && name[0] <= 'z' {
		return 1
	}
	return 0
}
