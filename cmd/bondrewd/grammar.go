package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bondrewd/internal/parser"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the grammar the parser implements",
		Long: `Grammar verifies the embedded EBNF grammar (every production defined and
reachable from File) and prints it, or only the production names`,
		Args: cobra.NoArgs,
		RunE: runGrammar,
	}
	cmd.Flags().Bool("productions", false, "list production names only")
	return cmd
}

func runGrammar(cmd *cobra.Command, _ []string) error {
	g, err := parser.Grammar()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if only, _ := cmd.Flags().GetBool("productions"); only {
		_, err = fmt.Fprintln(out, strings.Join(parser.Productions(g), "\n"))
		return err
	}
	_, err = fmt.Fprint(out, parser.GrammarSource())
	return err
}
