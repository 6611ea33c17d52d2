package parser

import (
	"errors"
	"fmt"

	"bondrewd/internal/diag"
	"bondrewd/internal/lexer"
	"bondrewd/internal/source"
	"bondrewd/internal/trace"
)

// SyntaxError ends a parse: the top-level rule did not consume the whole
// input, a forced token was missing or the recursion limit was hit.
type SyntaxError struct {
	Code    diag.Code
	Msg     string
	Loc     source.Location
	Context string
	// Insert is the text that satisfies a failed forced rule, when there is
	// a single obvious one.
	Insert string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %s (`%s`)", e.Msg, e.Loc, e.Context)
}

// Diagnostic converts the error into a diag record for file.
func (e *SyntaxError) Diagnostic(file source.FileID) diag.Diagnostic {
	d := diag.NewError(e.Code, source.SpanAt(file, e.Loc, 1), e.Msg)
	if e.Insert != "" {
		at := source.SpanAt(file, e.Loc, 0)
		d = d.WithFix("insert `"+e.Insert+"`", diag.FixEdit{Span: at, NewText: e.Insert})
	}
	return d
}

// AsDiagnostic converts an error returned by Parse into a diagnostic.
// ok is false for errors of any other type.
func AsDiagnostic(err error, file source.FileID) (diag.Diagnostic, bool) {
	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		return synErr.Diagnostic(file), true
	}
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return lexErr.Diagnostic(file), true
	}
	return diag.Diagnostic{}, false
}

func (p *Parser) raise(code diag.Code, loc source.Location, msg string) {
	panic(&SyntaxError{
		Code:    code,
		Msg:     msg,
		Loc:     loc,
		Context: p.lx.Scanner().Context(loc, lexer.ContextWidth),
	})
}

// forcedFailed aborts the parse: a token that must follow was not found.
// insert is the spelling of that token, or "" when it is not a fixed one.
func (p *Parser) forcedFailed(what, insert string) {
	loc := p.lx.Current().Loc
	if p.tr.Enabled() {
		trace.Point(p.tr, trace.ScopeRule, "forced", fmt.Sprintf("expected %s at %s", what, loc))
	}
	panic(&SyntaxError{
		Code:    diag.SynForcedRule,
		Msg:     "Forced rule failed: expected " + what,
		Loc:     loc,
		Context: p.lx.Scanner().Context(loc, lexer.ContextWidth),
		Insert:  insert,
	})
}
