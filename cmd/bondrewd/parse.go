package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bondrewd/internal/ast"
	"bondrewd/internal/diagfmt"
	"bondrewd/internal/driver"
	"bondrewd/internal/source"
	"bondrewd/internal/ui"
)

var parseFormats = []string{"tree", "diagram", "json", "sexpr"}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.bd|directory>",
		Short: "Parse a source file or directory and print the syntax tree",
		Long: `Parse builds the syntax tree of one file, or of every source file under a
directory in parallel, and prints it in the chosen format`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	cmd.Flags().String("format", "tree", "output format (tree|diagram|json|sexpr)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Bool("ui", false, "show a progress view while parsing a directory")
	cmd.Flags().Bool("quiet", false, "print diagnostics only")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, _ := cmd.Flags().GetString("format")
	if !validParseFormat(format) {
		return fmt.Errorf("unknown format: %s", format)
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if !st.IsDir() {
		res, err := driver.Parse(path, s.opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		defer res.Close()
		if !quiet && !res.Root.IsNil() {
			if err := writeAST(cmd.OutOrStdout(), format, res.Root.Get(), res.FileSet); err != nil {
				return err
			}
		}
		if err := s.writeTimings(cmd.ErrOrStderr(), "parse", path); err != nil {
			return err
		}
		return s.report(cmd.ErrOrStderr(), res.Bag, res.FileSet)
	}

	s.opts.Jobs, _ = cmd.Flags().GetInt("jobs")
	withUI, _ := cmd.Flags().GetBool("ui")
	fs, results, err := parseDir(cmd, s, path, withUI && isTerminal(os.Stderr))
	defer func() {
		for _, r := range results {
			r.Close()
		}
	}()
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if !quiet {
		if err := writeDirAST(cmd.OutOrStdout(), format, fs, results); err != nil {
			return err
		}
	}
	if err := s.writeTimings(cmd.ErrOrStderr(), "parse", path); err != nil {
		return err
	}
	var reportErr error
	for _, r := range results {
		if err := s.report(cmd.ErrOrStderr(), r.Bag, fs); err != nil {
			if !errors.Is(err, errDiagnostics) {
				return err
			}
			reportErr = err
		}
	}
	return reportErr
}

// parseDir runs driver.ParseDir, optionally behind the progress view. If
// the view is closed early the parse is cancelled.
func parseDir(cmd *cobra.Command, s *session, dir string, withUI bool) (*source.FileSet, []*driver.ParseResult, error) {
	if !withUI {
		return driver.ParseDir(cmd.Context(), dir, s.opts, nil)
	}
	files, err := driver.ListSources(dir, s.opts.Sources)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	events := make(chan driver.Event)
	var (
		fs      *source.FileSet
		results []*driver.ParseResult
		perr    error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		fs, results, perr = driver.ParseDir(ctx, dir, s.opts, events)
	}()

	uiErr := ui.Run(cmd.ErrOrStderr(), "parse", files, events)
	cancel()
	<-done
	if perr == nil && uiErr != nil {
		perr = uiErr
	}
	return fs, results, perr
}

func validParseFormat(format string) bool {
	for _, f := range parseFormats {
		if f == format {
			return true
		}
	}
	return false
}

func writeAST(w io.Writer, format string, root ast.Node, fs *source.FileSet) error {
	switch format {
	case "tree":
		return diagfmt.FormatASTTree(w, root)
	case "diagram":
		return diagfmt.FormatASTDiagram(w, root, fs)
	case "json":
		return diagfmt.FormatASTJSON(w, root)
	case "sexpr":
		return diagfmt.FormatASTSexpr(w, root)
	}
	return fmt.Errorf("unknown format: %s", format)
}

// writeDirAST prints every parsed tree under a "== path ==" header, or a
// single JSON object keyed by path. Files that failed map to null.
func writeDirAST(w io.Writer, format string, fs *source.FileSet, results []*driver.ParseResult) error {
	if format == "json" {
		output := make(map[string]*diagfmt.ASTNodeOutput, len(results))
		for _, r := range results {
			name := r.File.FormatPath("relative", fs.BaseDir())
			if r.Root.IsNil() {
				output[name] = nil
				continue
			}
			node := diagfmt.BuildASTOutput(r.Root.Get())
			output[name] = &node
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	printed := 0
	for _, r := range results {
		if r.Root.IsNil() {
			continue
		}
		if printed > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		printed++
		if _, err := fmt.Fprintf(w, "== %s ==\n", r.File.FormatPath("relative", fs.BaseDir())); err != nil {
			return err
		}
		if err := writeAST(w, format, r.Root.Get(), fs); err != nil {
			return err
		}
	}
	return nil
}
