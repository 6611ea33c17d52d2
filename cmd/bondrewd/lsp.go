package main

import (
	"github.com/spf13/cobra"

	"bondrewd/internal/lsp"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on stdin/stdout",
		Long: `Lsp speaks the Language Server Protocol on stdin/stdout. It publishes
lexical and syntax diagnostics and serves document symbols, folding ranges
and quick fixes. Logs go to stderr or --log-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			// Таймер и кэш на каждое нажатие клавиши не нужны
			opts := s.opts
			opts.Timer = nil
			opts.Cache = nil
			return lsp.NewServer(opts).RunStdio()
		},
	}
}
