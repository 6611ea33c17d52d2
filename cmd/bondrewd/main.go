package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bondrewd/internal/project"
	"bondrewd/internal/trace"
	"bondrewd/internal/version"
)

// errDiagnostics is returned after errors were already printed as
// diagnostics; main only sets the exit status for it.
var errDiagnostics = errors.New("errors reported")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bondrewd",
		Short:         "bondrewd language front end",
		Long:          `bondrewd tokenizes and parses bondrewd sources and serves their diagnostics to editors`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("config", "", "path to "+project.ManifestName+" (default: search upwards from the working directory)")
	pf.IntP("verbosity", "v", 0, "log verbosity: 0 notices, 1 info, 2 debug")
	pf.String("log-file", "", "write logs to this file instead of stderr")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Int("max-diagnostics", project.DefaultMaxDiagnostics, "maximum number of diagnostics kept per file")
	pf.String("path-mode", "auto", "how diagnostics print paths (auto|absolute|relative|basename)")
	pf.String("diag-format", "pretty", "diagnostics format (pretty|short|json)")
	pf.Bool("timings", false, "print phase timings after the command")
	pf.Int("max-depth", 0, "parser recursion limit (0 keeps the configured value)")
	pf.Bool("no-memo", false, "disable packrat memoization")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", trace.DefaultRingSize, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval for long directory parses (0 disables)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(
		newTokenizeCmd(),
		newParseCmd(),
		newFixCmd(),
		newGrammarCmd(),
		newReplCmd(),
		newLSPCmd(),
		newVersionCmd(),
	)
	return root
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
