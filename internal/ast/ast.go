// Package ast defines Callisto's abstract syntax tree: a closed set of node
// variants, one struct per variant, each carrying the span of the source
// text it came from. Nodes are produced by the parser and are read-only
// from then on; the lowering core inspects them by type switch rather than
// through a visitor hierarchy.
package ast

import "github.com/callisto-lang/callisto/internal/span"

// Node is implemented by every AST variant. The unexported node() method
// seals the set so backends can type-switch exhaustively without a default
// case silently swallowing a variant nobody handled.
type Node interface {
	Span() span.Span
	node()
}

// TranslationUnit is the parser's top-level result: an ordered sequence of
// top-level nodes in source order. Order matters - it is the sequence
// calmain executes and the sequence CompileFuncDef/CompileStruct/etc. see.
type TranslationUnit struct {
	Nodes []Node
}
