// Package span holds the source-location value type threaded through every
// token and AST node in the Callisto front end.
package span

import "fmt"

// Span identifies a run of source text: the file it came from, the
// 1-based line and column of its first byte, and its length in bytes.
// Spans never affect compilation semantics; they exist purely so
// diagnostics can point back at source text.
type Span struct {
	File   string
	Line   int
	Column int
	Length int
}

// New builds a Span. A span that covers source text has a length of at
// least 1; zero-length spans mark a position with no text under it: the
// synthetic EOF token (and so any unexpected-EOF diagnostic) and the point
// where an unterminated string literal is reported.
func New(file string, line, column, length int) Span {
	return Span{File: file, Line: line, Column: column, Length: length}
}

// String renders the span in the "<file>:<line>:<col>" prefix form used to
// open every diagnostic message this module produces.
func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Join returns a span that starts at a and runs to the end of b, assuming
// both are in the same file, on the same line, and a starts no later than
// b. Only columns are compared: the result keeps a's line, and when b lies
// on a later line the length is not meaningful. Spans in different files
// return a unchanged.
func Join(a, b Span) Span {
	if a.File != b.File {
		return a
	}

	end := b.Column + b.Length
	start := a.Column
	length := end - start
	if length < 0 {
		length = a.Length
	}

	return Span{File: a.File, Line: a.Line, Column: start, Length: length}
}
