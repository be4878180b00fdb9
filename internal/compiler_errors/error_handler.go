// Package compiler_errors defines the diagnostic contract shared by the
// lexer, parser, and lowering core: every failure is a span-carrying
// CompilerError, and each pass reports through an ErrorHandler that turns
// the first reported error into that pass's terminal result.
package compiler_errors

import (
	"fmt"
	"io"

	"github.com/callisto-lang/callisto/internal/span"
)

// CompilerError is anything that can be reported through an ErrorHandler.
// It always carries the span of the offending source text, so the driver
// can render "<file>:<line>:<col>: error: <message>" without knowing which
// pass produced the error.
type CompilerError interface {
	GetMessage() string
	GetSpan() span.Span
}

type simpleError struct {
	sp      span.Span
	message string
}

func New(sp span.Span, format string, args ...any) CompilerError {
	return &simpleError{sp: sp, message: fmt.Sprintf(format, args...)}
}

func (e *simpleError) GetMessage() string { return e.message }
func (e *simpleError) GetSpan() span.Span { return e.sp }

// ErrorHandler accumulates CompilerErrors as a pass discovers them. FailNow
// returns the pass's terminal error instead of exiting the process: exit
// status handling belongs to the external driver, not to the front end.
type ErrorHandler interface {
	AddError(err CompilerError)
	HasErrors() bool
	Errors() []CompilerError
	// FailNow returns the accumulated diagnostic for this pass, or nil if
	// nothing was ever reported. A pass reports at most one error before
	// unwinding, so in normal use this is exactly the first error added.
	FailNow() error
	// Abort records err and unwinds the current pass immediately by
	// panicking with a sentinel value that only Recover catches. Lexer,
	// parser, and lowering entry points defer Recover so a deeply nested
	// production can bail out without threading an error return through
	// every recursive-descent call.
	Abort(err CompilerError)
}

type CompilerErrorHandler struct {
	errors []CompilerError
	writer io.Writer
}

func NewErrorHandler(diagnosticWriter io.Writer) ErrorHandler {
	return &CompilerErrorHandler{
		errors: make([]CompilerError, 0),
		writer: diagnosticWriter,
	}
}

func (eh *CompilerErrorHandler) AddError(err CompilerError) {
	eh.errors = append(eh.errors, err)
}

func (eh *CompilerErrorHandler) HasErrors() bool {
	return len(eh.errors) > 0
}

func (eh *CompilerErrorHandler) Errors() []CompilerError {
	return eh.errors
}

func (eh *CompilerErrorHandler) FailNow() error {
	if len(eh.errors) == 0 {
		return nil
	}

	for _, err := range eh.errors {
		fmt.Fprintf(eh.writer, "%s: error: %s\n", err.GetSpan(), err.GetMessage())
	}

	first := eh.errors[0]
	return fmt.Errorf("%s: error: %s", first.GetSpan(), first.GetMessage())
}

type abortSignal struct{}

func (eh *CompilerErrorHandler) Abort(err CompilerError) {
	eh.AddError(err)
	panic(abortSignal{})
}

// Recover must be deferred at the top of a pass's entry point (Tokenize,
// Parse, Lower). On a normal return it does nothing; when Abort unwound the
// pass it recovers the panic so the entry point can call FailNow and return
// a plain error instead of crashing the process. Any other panic value is
// re-raised.
func Recover() {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(abortSignal); ok {
		return
	}
	panic(r)
}
