package ast

import "github.com/callisto-lang/callisto/internal/span"

// Word is a bare identifier: a function call, a variable load, or a
// constant push, disambiguated later during lowering (spec.md's "word
// resolution" order lives in internal/backend, not here).
type Word struct {
	Sp   span.Span
	Name string
}

// Integer is a signed 64-bit literal. Bounds checking against a backend's
// MaxInt happens during lowering, not here - the parser accepts any value
// that fits in int64.
type Integer struct {
	Sp    span.Span
	Value int64
}

// String is a quoted literal. Constant marks source written with the
// constant/static tag (e.g. c"..."); untagged strings still lower to a
// realised array, just not necessarily a global one.
type String struct {
	Sp       span.Span
	Body     string
	Constant bool
}

// Array is an array literal: an explicit element type name followed by
// child nodes evaluated to produce each element. Constant mirrors String's
// tag and forces global placement regardless of lexical scope.
type Array struct {
	Sp          span.Span
	ElementType string
	Elements    []Node
	Constant    bool
}

// Addr takes the address of a word, local, or global rather than its value.
type Addr struct {
	Sp     span.Span
	Target string
}

func (n *Word) Span() span.Span    { return n.Sp }
func (n *Integer) Span() span.Span { return n.Sp }
func (n *String) Span() span.Span  { return n.Sp }
func (n *Array) Span() span.Span   { return n.Sp }
func (n *Addr) Span() span.Span    { return n.Sp }

func (n *Word) node()    {}
func (n *Integer) node() {}
func (n *String) node()  {}
func (n *Array) node()   {}
func (n *Addr) node()    {}
