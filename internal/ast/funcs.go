package ast

import "github.com/callisto-lang/callisto/internal/span"

// Param is one (type, name) pair in a FuncDef's parameter list.
type Param struct {
	Type string
	Name string
}

// FuncDef declares a function. Inline and Raw are mutually exclusive
// (spec.md §3 invariant); Body is the statement sequence between "begin"
// and "end". A nested FuncDef inside Body is a parse-time error, not
// something this type needs to forbid structurally.
type FuncDef struct {
	Sp     span.Span
	Name   string
	Inline bool
	Raw    bool
	Params []Param
	Body   []Node
}

// Implement attaches an "init" or "deinit" method body to a previously
// declared struct.
type Implement struct {
	Sp       span.Span
	Struct   string
	Method   string // "init" or "deinit"
	Body     []Node
}

func (n *FuncDef) Span() span.Span   { return n.Sp }
func (n *Implement) Span() span.Span { return n.Sp }

func (n *FuncDef) node()   {}
func (n *Implement) node() {}
