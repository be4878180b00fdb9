package backend

import (
	"github.com/callisto-lang/callisto/internal/ast"
	"github.com/callisto-lang/callisto/internal/langpolicy"
)

// WordKind classifies a declared function: regular (mangled symbol, normal
// call), raw (literal symbol, no mangling), or inline (body captured and
// expanded at every call site, spec.md §4.3 "Function definitions").
type WordKind int

const (
	WordRegular WordKind = iota
	WordRaw
	WordInline
)

// WordDef is the words table's value type (spec.md §3: "map name →
// (raw, inline, inlineBody?)").
type WordDef struct {
	Kind       WordKind
	InlineBody []ast.Node
}

// Variable is one entry of the ordered locals stack. Offset is measured in
// bytes from the virtual stack pointer; offset 0 is always the most
// recently allocated local (spec.md §3, §4.3 "Local variable discipline").
type Variable struct {
	Name      string
	Type      string
	Offset    int
	Size      int // total bytes this local occupies, as passed to PushLocal
	Array     bool
	ArraySize int64
}

// Global is the globals table's value type.
type Global struct {
	Name      string
	Type      string
	Array     bool
	ArraySize int64
}

// SymbolTable is the shared bookkeeping every backend needs regardless of
// target: the types/words/variables/globals/consts/arrays tables and the
// scalar fields spec.md §3 lists (inScope, inWhile, currentLoop,
// blockCounter, thisFunc). A concrete backend embeds or holds one of these
// and drives it from its Compile* methods; this type never touches an
// output buffer itself.
type SymbolTable struct {
	Policy *langpolicy.Policy

	Types     map[string]*Type
	typeOrder []string

	Words map[string]*WordDef

	Variables []Variable

	Globals     map[string]*Global
	globalOrder []string

	Consts map[string]int64

	Arrays      []*RealisedArray
	arrayHashes map[string]int

	Enabled    map[string]bool
	Restricted map[string]bool

	InScope      bool
	InWhile      bool
	CurrentLoop  int
	BlockCounter int
	ThisFunc     string
}

// NewSymbolTable seeds the types table with the primitives sized according
// to primitiveSizes (a backend's own word-size choices) plus the built-in
// Array struct, and returns an otherwise-empty table.
func NewSymbolTable(policy *langpolicy.Policy, primitiveSizes map[string]int) *SymbolTable {
	types := newPrimitiveTypes(primitiveSizes)
	order := make([]string, 0, len(types))
	for name := range types {
		order = append(order, name)
	}

	return &SymbolTable{
		Policy:      policy,
		Types:       types,
		typeOrder:   order,
		Words:       make(map[string]*WordDef),
		Globals:     make(map[string]*Global),
		Consts:      make(map[string]int64),
		arrayHashes: make(map[string]int),
		Enabled:     make(map[string]bool),
		Restricted:  make(map[string]bool),
	}
}

func (st *SymbolTable) LookupType(name string) (*Type, bool) {
	t, ok := st.Types[name]
	return t, ok
}

// DeclareType registers a new type, keeping typeOrder so backends can
// iterate types in declaration order for deterministic emission.
func (st *SymbolTable) DeclareType(t *Type) {
	if _, exists := st.Types[t.Name]; !exists {
		st.typeOrder = append(st.typeOrder, t.Name)
	}
	st.Types[t.Name] = t
}

func (st *SymbolTable) TypeOrder() []string {
	return st.typeOrder
}

// DeclareGlobal registers a global, keeping globalOrder so a backend can
// emit data segments in declaration order for deterministic, golden-testable
// output (spec.md §9 "Label counter" design note applies equally here).
func (st *SymbolTable) DeclareGlobal(g *Global) {
	if _, exists := st.Globals[g.Name]; !exists {
		st.globalOrder = append(st.globalOrder, g.Name)
	}
	st.Globals[g.Name] = g
}

// GlobalOrder returns global names in declaration order.
func (st *SymbolTable) GlobalOrder() []string {
	return st.globalOrder
}

// NameInUse reports whether name already names a word, a local variable, a
// global, or a constant - the name-collision check spec.md §4.3 requires
// before accepting a FuncDef/Let/Const/etc.
func (st *SymbolTable) NameInUse(name string) bool {
	if _, ok := st.Words[name]; ok {
		return true
	}
	if _, ok := st.LookupVariable(name); ok {
		return true
	}
	if _, ok := st.Globals[name]; ok {
		return true
	}
	if _, ok := st.Consts[name]; ok {
		return true
	}
	return false
}

func (st *SymbolTable) LookupVariable(name string) (Variable, bool) {
	for _, v := range st.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// PushLocal implements spec.md §4.3's central invariant: every existing
// local's offset grows by size, then the new local is inserted at offset 0.
func (st *SymbolTable) PushLocal(name, typ string, size int, array bool, arraySize int64) {
	for i := range st.Variables {
		st.Variables[i].Offset += size
	}
	st.Variables = append([]Variable{{
		Name:      name,
		Type:      typ,
		Offset:    0,
		Size:      size,
		Array:     array,
		ArraySize: arraySize,
	}}, st.Variables...)
}

// SnapshotVariables copies the current locals stack so a scope can restore
// it on exit (spec.md §4.3: "Scopes nest by taking a copy of the variables
// list at entry and restoring it at exit").
func (st *SymbolTable) SnapshotVariables() []Variable {
	snapshot := make([]Variable, len(st.Variables))
	copy(snapshot, st.Variables)
	return snapshot
}

func (st *SymbolTable) RestoreVariables(snapshot []Variable) {
	st.Variables = snapshot
}

// LocalsIntroducedSince returns the locals present now but absent from
// before, in the order they were pushed (most-recently-pushed first),
// so scope exit can walk them for deinit calls before restoring the list.
func LocalsIntroducedSince(before, now []Variable) []Variable {
	introduced := now[:len(now)-len(before)]
	out := make([]Variable, len(introduced))
	copy(out, introduced)
	return out
}
