package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bondrewd/internal/diagfmt"
	"bondrewd/internal/driver"
	"bondrewd/internal/logging"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.bd",
		Short: "Print the token stream of a source file",
		Long:  `Tokenize runs the lexer alone and prints every token with its kind, payload and span`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("cache", false, "read and write the token cache (overrides [cache].enabled)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, _ := cmd.Flags().GetString("format")
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.useCache(cmd); err != nil {
		return err
	}

	res, err := driver.Tokenize(path, s.opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if res.Cached {
		logging.Get("cli").Infof("%s: tokens served from cache", path)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatTokensJSON(out, res.Tokens, res.File.ID)
	} else {
		err = diagfmt.FormatTokensPretty(out, res.Tokens, res.File.ID, res.FileSet)
	}
	if err != nil {
		return err
	}
	if err := s.writeTimings(cmd.ErrOrStderr(), "tokenize", path); err != nil {
		return err
	}
	return s.report(cmd.ErrOrStderr(), res.Bag, res.FileSet)
}
