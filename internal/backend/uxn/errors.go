package uxn

import (
	"github.com/callisto-lang/callisto/internal/compiler_errors"
	"github.com/callisto-lang/callisto/internal/span"
)

// abort reports a lowering error at sp and unwinds the current Lower call,
// exactly like the lexer and parser's own Abort use.
func (b *Backend) abort(sp span.Span, format string, args ...any) {
	b.eh.Abort(compiler_errors.New(sp, format, args...))
}
