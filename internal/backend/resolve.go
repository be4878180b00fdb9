package backend

import "github.com/callisto-lang/callisto/internal/ast"

// ResolutionKind classifies what a bare Word identifier turned out to name,
// per spec.md §4.3's five-step word resolution order.
type ResolutionKind int

const (
	ResolveUndefined ResolutionKind = iota
	ResolveInline
	ResolveRaw
	ResolveCall
	ResolveLocal
	ResolveGlobal
	ResolveConst
	ResolveIntrinsic
)

// Resolution is the outcome of resolving a Word's name against the symbol
// tables. Exactly the fields relevant to Kind are populated.
type Resolution struct {
	Kind ResolutionKind

	Name       string // mangled or raw call-symbol name (ResolveCall/ResolveRaw)
	Variable   Variable
	Global     *Global
	ConstValue int64
	Intrinsic  string // "return", "break", or "continue"
}

// intrinsicWords are pseudo-words with no entry in any table: they are
// recognized by name ahead of the normal five-step lookup order and dispatch
// straight to the backend's CompileReturn/CompileBreak/CompileContinue hooks
// (spec.md §4.3 names these as part of the backend contract and §7 names
// "break/continue outside loop" and "return outside function" as lowering
// errors, but the grammar in §4.2/§6 has no dedicated syntax for them - the
// only way to reach them is as a bare Word, exactly like calling a function).
// See DESIGN.md for the reasoning.
var intrinsicWords = map[string]bool{
	"return":   true,
	"break":    true,
	"continue": true,
}

// Resolve implements spec.md §4.3's word resolution order, with the
// intrinsic check running first.
func (st *SymbolTable) Resolve(name string) Resolution {
	if intrinsicWords[name] {
		return Resolution{Kind: ResolveIntrinsic, Intrinsic: name}
	}

	if w, ok := st.Words[name]; ok {
		switch w.Kind {
		case WordInline:
			return Resolution{Kind: ResolveInline, Name: name}
		case WordRaw:
			return Resolution{Kind: ResolveRaw, Name: name}
		default:
			return Resolution{Kind: ResolveCall, Name: Mangle(name)}
		}
	}

	if v, ok := st.LookupVariable(name); ok {
		return Resolution{Kind: ResolveLocal, Variable: v}
	}

	if g, ok := st.Globals[name]; ok {
		return Resolution{Kind: ResolveGlobal, Global: g}
	}

	if c, ok := st.Consts[name]; ok {
		return Resolution{Kind: ResolveConst, ConstValue: c}
	}

	return Resolution{Kind: ResolveUndefined}
}

// InlineBodyOf returns the captured body of an inline word, for the
// backend to compile at a call site.
func (st *SymbolTable) InlineBodyOf(name string) []ast.Node {
	return st.Words[name].InlineBody
}
