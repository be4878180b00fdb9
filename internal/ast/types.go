package ast

import "github.com/callisto-lang/callisto/internal/span"

// StructMember is one field of a Struct declaration.
type StructMember struct {
	Type  string
	Name  string
	Array bool
	Size  int64 // element count when Array is set, otherwise unused
}

// Struct declares a structural type. Parent, when non-empty, names an
// existing struct whose members are prepended (in that struct's own
// declared order) ahead of Members.
type Struct struct {
	Sp      span.Span
	Name    string
	Parent  string
	Members []StructMember
}

// EnumMember is one (name, value) pair. Value is only meaningful when
// Explicit is true; otherwise the lowering core computes it from the
// previous member (or 0 for the first) per spec.md §3.
type EnumMember struct {
	Name     string
	Value    int64
	Explicit bool
}

// Enum declares an integer-backed enumeration. BaseType defaults to "cell"
// when the source omits ": <baseType>".
type Enum struct {
	Sp       span.Span
	Name     string
	BaseType string
	Members  []EnumMember
}

// Union declares a type whose size is the maximum of its member types'
// sizes. Duplicate member type names are rejected during lowering.
type Union struct {
	Sp      span.Span
	Name    string
	Members []string
}

// Alias copies an existing type record under a new name. Overwrite permits
// replacing an existing name instead of erroring on the collision.
type Alias struct {
	Sp        span.Span
	To        string
	From      string
	Overwrite bool
}

// ExternKind classifies how an Extern-declared function is called.
type ExternKind int

const (
	ExternNative ExternKind = iota
	ExternRaw
	ExternC
)

// Extern declares a function implemented outside this translation unit.
// ReturnType and Params are only meaningful when Kind is ExternC.
type Extern struct {
	Sp         span.Span
	Name       string
	Kind       ExternKind
	ReturnType string
	Params     []string
}

func (n *Struct) Span() span.Span { return n.Sp }
func (n *Enum) Span() span.Span   { return n.Sp }
func (n *Union) Span() span.Span  { return n.Sp }
func (n *Alias) Span() span.Span  { return n.Sp }
func (n *Extern) Span() span.Span { return n.Sp }

func (n *Struct) node() {}
func (n *Enum) node()   {}
func (n *Union) node()  {}
func (n *Alias) node()  {}
func (n *Extern) node() {}
