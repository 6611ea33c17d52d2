package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"bondrewd/internal/diag"
	"bondrewd/internal/driver"
	"bondrewd/internal/lexer"
	"bondrewd/internal/source"
	"bondrewd/internal/token"
	"bondrewd/internal/version"
)

const (
	replName    = "<repl>"
	historyFile = ".bondrewd_history"
	promptMain  = "bd> "
	promptCont  = "... "
)

func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse statements interactively",
		Long: `Repl reads statements from the terminal, parses each one and prints its
syntax tree. Input continues on the next line while brackets are open or the
statement is cut short.`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}
	cmd.Flags().String("format", "sexpr", "tree format (tree|diagram|json|sexpr)")
	return cmd
}

func runRepl(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if !validParseFormat(format) {
		return fmt.Errorf("unknown format: %s", format)
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if home, err := os.UserHomeDir(); err == nil {
		histPath := filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fmt.Fprintf(out, "bondrewd %s, :quit to exit\n", version.Version)
	for {
		res, src, ok := readStatement(ln, s.opts)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		if res == nil {
			switch strings.TrimSpace(src) {
			case ":quit", ":q":
				return nil
			case "":
			default:
				fmt.Fprintln(errOut, "unknown command, type :quit to exit")
			}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		evalStatement(out, errOut, s, format, res)
		res.Close()
	}
}

func evalStatement(out, errOut io.Writer, s *session, format string, res *driver.ParseResult) {
	if !res.Root.IsNil() {
		if err := writeAST(out, format, res.Root.Get(), res.FileSet); err != nil {
			fmt.Fprintln(errOut, "error:", err)
		}
	}
	if err := s.report(errOut, res.Bag, res.FileSet); err != nil && !errors.Is(err, errDiagnostics) {
		fmt.Fprintln(errOut, "error:", err)
	}
}

// readStatement prompts until the input forms a complete statement, or a
// failed one that more lines cannot fix. Blank input and :commands come
// back with a nil result. ok is false at EOF.
func readStatement(ln *liner.State, opts driver.Options) (res *driver.ParseResult, src string, ok bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return nil, "", false
		}
		if err != nil {
			// Ctrl+C сбрасывает начатый ввод
			return nil, "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src = b.String()
		trimmed := strings.TrimSpace(src)
		if trimmed == "" || strings.HasPrefix(trimmed, ":") {
			return nil, src, true
		}
		res, more := probe(src, opts)
		if !more {
			return res, src, true
		}
	}
}

// probe parses src. more reports that the input looks cut short: an open
// bracket or block comment, or a failure at the very end of the text.
func probe(src string, opts driver.Options) (res *driver.ParseResult, more bool) {
	res = driver.ParseSource(replName, []byte(src), opts)
	if !res.Root.IsNil() {
		return res, false
	}
	if unbalanced(src) || failsAtEnd(res, src) {
		res.Close()
		return nil, true
	}
	return res, false
}

func failsAtEnd(res *driver.ParseResult, src string) bool {
	end := len(strings.TrimRight(src, " \t\r\n"))
	for _, d := range res.Bag.Items() {
		if d.Severity == diag.SevError && int(d.Primary.Start) >= end {
			return true
		}
	}
	return false
}

func unbalanced(src string) bool {
	toks, err := lexer.Tokenize(source.NewScanner(replName, src))
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) && lexErr.Code == diag.LexUnterminatedBlockComment {
		return true
	}
	depth := 0
	for _, tok := range toks {
		if tok.Kind != token.Punct {
			continue
		}
		switch tok.Punct {
		case token.LPar, token.LSqb, token.LBrace:
			depth++
		case token.RPar, token.RSqb, token.RBrace:
			depth--
		}
	}
	return depth > 0
}
