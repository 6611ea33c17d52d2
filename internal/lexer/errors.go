package lexer

import (
	"fmt"

	"bondrewd/internal/diag"
	"bondrewd/internal/source"
)

// ContextWidth is how many bytes around an error location go into Context.
const ContextWidth = 5

// Error is a lexical error. It is fatal to the tokenization that raised it.
type Error struct {
	Code    diag.Code
	Msg     string
	Loc     source.Location
	Context string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (`%s`)", e.Loc, e.Msg, e.Context)
}

// Diagnostic converts the error into a diag record for file.
func (e *Error) Diagnostic(file source.FileID) diag.Diagnostic {
	return diag.NewError(e.Code, source.SpanAt(file, e.Loc, 1), e.Msg)
}

func newError(sc *source.Scanner, code diag.Code, loc source.Location, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Msg:     fmt.Sprintf(format, args...),
		Loc:     loc,
		Context: sc.Context(loc, ContextWidth),
	}
}

// Recover turns a lexical-error panic raised by Lexer into *errp.
// Other panics propagate. Use as `defer lexer.Recover(&err)`.
func Recover(errp *error) {
	e := recover()
	if e == nil {
		return
	}
	if lexErr, ok := e.(*Error); ok {
		*errp = lexErr
		return
	}
	panic(e)
}
