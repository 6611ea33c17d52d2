// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//     Lexical codes live in 1000-1999, syntax codes in 2000-2999, I/O in 4000+.
//   - Message – human oriented text, short and actionable.
//   - Primary – the source.Span the finding points at.
//   - Notes – optional secondary spans.
//   - Fixes – optional text edits.
//
// # Emitting diagnostics
//
// Producers talk to a Reporter. ReportBuilder (ReportError/ReportWarning/
// ReportInfo) chains WithNote/WithFix before Emit. BagReporter collects into a
// Bag, which supports sorting, deduplication and a size limit. DedupReporter
// drops repeated findings before they reach the bag.
//
// Package diag performs no IO. Rendering lives in internal/diagfmt, except for
// FormatShortDiagnostics, the one-line `--diag-format short` form.
package diag
