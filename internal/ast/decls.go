package ast

import "github.com/callisto-lang/callisto/internal/span"

// Let declares a local variable, optionally as an array of the given Size.
type Let struct {
	Sp    span.Span
	Type  string
	Name  string
	Array bool
	Size  int64
}

// Const binds a name to a fixed integer value, resolved at lowering time
// wherever the name is later used as a Word.
type Const struct {
	Sp    span.Span
	Name  string
	Value int64
}

// Restrict marks an identifier (typically a feature tag) as forbidden for
// the remainder of the translation unit.
type Restrict struct {
	Sp   span.Span
	Name string
}

func (n *Let) Span() span.Span      { return n.Sp }
func (n *Const) Span() span.Span    { return n.Sp }
func (n *Restrict) Span() span.Span { return n.Sp }

func (n *Let) node()      {}
func (n *Const) node()    {}
func (n *Restrict) node() {}
