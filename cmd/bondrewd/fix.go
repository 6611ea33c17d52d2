package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bondrewd/internal/diag"
	"bondrewd/internal/driver"
	"bondrewd/internal/fix"
	"bondrewd/internal/source"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] <file.bd>",
		Short: "Apply the parser's suggested edits to a source file",
		Long: `Fix parses the file, applies the edits attached to its diagnostics and parses
again until nothing is left to fix. Only one error is known per parse, so a
file with several missing tokens takes several rounds.`,
		Args: cobra.ExactArgs(1),
		RunE: runFix,
	}
	cmd.Flags().Bool("once", false, "apply a single fix and stop")
	cmd.Flags().Bool("dry-run", false, "print the fixed source instead of writing the file")
	cmd.Flags().Int("max-rounds", fix.DefaultMaxRounds, "give up after this many parse rounds")
	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	path := args[0]
	once, _ := cmd.Flags().GetBool("once")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	maxRounds, _ := cmd.Flags().GetInt("max-rounds")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load file: %w", err)
	}
	original := fs.Get(fileID).Content

	check := func(name string, content []byte) (*source.FileSet, []diag.Diagnostic) {
		res := driver.ParseSource(name, content, s.opts)
		defer res.Close()
		return res.FileSet, res.Bag.Items()
	}
	mode := fix.ApplyModeAll
	if once {
		mode = fix.ApplyModeOnce
	}
	result, err := fix.Iterate(path, original, check, mode, maxRounds)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	for _, applied := range result.Applied {
		fmt.Fprintf(stderr, "applied: %s (%s)\n", applied.Title, applied.Code.ID())
	}
	if !result.Converged {
		fmt.Fprintf(stderr, "stopped after %d rounds\n", result.Rounds)
	}

	switch {
	case dryRun:
		if _, err := cmd.OutOrStdout().Write(result.Content); err != nil {
			return err
		}
	case result.Changed():
		if err := fix.WriteFile(path, result.Content); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "fixed %s: %d edits\n", path, len(result.Applied))
	default:
		fmt.Fprintf(stderr, "%s: %s\n", path, fix.ErrNoFixes)
	}

	if len(result.Remaining) == 0 {
		return nil
	}
	final := driver.ParseSource(path, result.Content, s.opts)
	defer final.Close()
	return s.report(stderr, final.Bag, final.FileSet)
}
