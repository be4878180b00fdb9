package ast

import "github.com/callisto-lang/callisto/internal/span"

// Include names a source file to splice into the token stream ahead of
// parsing; resolving the path is a driver concern, not something this node
// does.
type Include struct {
	Sp   span.Span
	Path string
}

// Asm carries raw assembly text accumulated from one or more consecutive
// string tokens, emitted verbatim by the active backend.
type Asm struct {
	Sp   span.Span
	Text string
}

// Enable turns on an optional feature or version identifier for the rest of
// the translation unit.
type Enable struct {
	Sp   span.Span
	Name string
}

// Requires asserts that a feature or version identifier is already enabled,
// failing the pass otherwise.
type Requires struct {
	Sp   span.Span
	Name string
}

// Version guards Body on whether Name is (or, if Not, is not) an enabled
// feature/version identifier.
type Version struct {
	Sp   span.Span
	Name string
	Not  bool
	Body []Node
}

func (n *Include) Span() span.Span  { return n.Sp }
func (n *Asm) Span() span.Span      { return n.Sp }
func (n *Enable) Span() span.Span   { return n.Sp }
func (n *Requires) Span() span.Span { return n.Sp }
func (n *Version) Span() span.Span  { return n.Sp }

func (n *Include) node()  {}
func (n *Asm) node()      {}
func (n *Enable) node()   {}
func (n *Requires) node() {}
func (n *Version) node()  {}
