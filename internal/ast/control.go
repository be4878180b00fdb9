package ast

import "github.com/callisto-lang/callisto/internal/span"

// IfClause is one (condition, body) pair of an If chain: the initial "if"
// clause or a subsequent "elseif" clause.
type IfClause struct {
	Condition []Node
	Body      []Node
}

// If holds a non-empty ordered list of clauses plus an optional else body.
// Invariant (spec.md §3): len(Clauses) >= 1. A clause's Condition may be
// empty; the parser does not reject "if then ... end".
type If struct {
	Sp      span.Span
	Clauses []IfClause
	Else    []Node
}

// While is condition-then-body, tested before each iteration.
type While struct {
	Sp        span.Span
	Condition []Node
	Body      []Node
}

// Set stores the value on top of the data stack into a variable.
type Set struct {
	Sp   span.Span
	Name string
}

func (n *If) Span() span.Span    { return n.Sp }
func (n *While) Span() span.Span { return n.Sp }
func (n *Set) Span() span.Span   { return n.Sp }

func (n *If) node()    {}
func (n *While) node() {}
func (n *Set) node()   {}
