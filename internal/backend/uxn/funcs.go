package uxn

import (
	"github.com/callisto-lang/callisto/internal/ast"
	"github.com/callisto-lang/callisto/internal/backend"
	"github.com/callisto-lang/callisto/internal/span"
)

// CompileWord implements spec.md §4.3's word resolution order. The
// intrinsic check (return/break/continue) runs inside SymbolTable.Resolve
// itself, ahead of the words/locals/globals/consts lookup.
func (b *Backend) CompileWord(n *ast.Word) {
	res := b.st.Resolve(n.Name)

	switch res.Kind {
	case backend.ResolveIntrinsic:
		switch res.Intrinsic {
		case "return":
			b.CompileReturn(n.Sp)
		case "break":
			b.CompileBreak(n.Sp)
		case "continue":
			b.CompileContinue(n.Sp)
		}

	case backend.ResolveInline:
		b.compileSeq(b.st.InlineBodyOf(n.Name))

	case backend.ResolveRaw, backend.ResolveCall:
		b.CompileCall(n.Sp, res)

	case backend.ResolveLocal:
		b.pushSlotAddr(res.Variable.Offset)
		b.buf.emit(sectionCode, loadOp(b.varByteWidth(res.Variable)))

	case backend.ResolveGlobal:
		b.buf.emitf(sectionCode, ";global_%s %s", backend.Mangle(n.Name), loadOp(b.globalByteWidth(res.Global)))

	case backend.ResolveConst:
		b.pushConst(res.ConstValue)

	default:
		b.abort(n.Sp, "undefined identifier %q", n.Name)
	}
}

// CompileCall emits a call to a previously resolved word: a raw call uses
// the word's literal source name as the symbol, a regular call uses its
// mangled func__ symbol (spec.md §4.3 "Function definitions").
func (b *Backend) CompileCall(sp span.Span, res backend.Resolution) {
	switch res.Kind {
	case backend.ResolveRaw:
		b.buf.emitf(sectionCode, ",%s JSR2", res.Name)
	case backend.ResolveCall:
		b.buf.emitf(sectionCode, ",func__%s JSR2", res.Name)
	default:
		b.abort(sp, "internal error: CompileCall given a non-call resolution")
	}
}

// CompileFuncDef registers and, for non-inline definitions, emits one word.
// Inline definitions capture their body and emit nothing at definition
// time; raw definitions use the literal source name as their symbol; a
// regular definition's symbol is func__<mangled(name)>.
func (b *Backend) CompileFuncDef(n *ast.FuncDef) {
	if b.st.Policy.IsReserved(n.Name) {
		b.abort(n.Sp, "reserved name %q cannot be used as a function name", n.Name)
		return
	}
	if b.st.NameInUse(n.Name) {
		b.abort(n.Sp, "name %q is already in use", n.Name)
		return
	}

	for _, p := range n.Params {
		t, ok := b.st.LookupType(p.Type)
		if !ok {
			b.abort(n.Sp, "undefined parameter type %q", p.Type)
			return
		}
		if t.IsStruct {
			b.abort(n.Sp, "struct %q cannot be used as a function parameter type", p.Type)
			return
		}
	}

	if n.Inline {
		b.st.Words[n.Name] = &backend.WordDef{Kind: backend.WordInline, InlineBody: n.Body}
		return
	}

	kind := backend.WordRegular
	symbol := "func__" + backend.Mangle(n.Name)
	if n.Raw {
		kind = backend.WordRaw
		symbol = n.Name
	}
	b.st.Words[n.Name] = &backend.WordDef{Kind: kind}

	b.buf.label(symbol)
	b.compileFuncBody(n.Name, n.Params, n.Body)
}

// compileFuncBody shares the parameter-frame and locals-discipline
// machinery between CompileFuncDef and CompileImplement.
func (b *Backend) compileFuncBody(name string, params []ast.Param, body []ast.Node) {
	prevFunc := b.st.ThisFunc
	prevEntry := b.funcEntryVars
	b.st.ThisFunc = name

	scope := b.enterScope()
	b.funcEntryVars = scope

	frameSize := len(params) * cellSize
	if frameSize > 0 {
		b.decVSP(frameSize)
	}
	for _, p := range params {
		b.st.PushLocal(p.Name, p.Type, cellSize, false, 0)
	}
	for i := len(params) - 1; i >= 0; i-- {
		v, _ := b.st.LookupVariable(params[i].Name)
		b.pushSlotAddr(v.Offset)
		b.buf.emit(sectionCode, storeOp(cellSize))
	}

	b.compileSeq(body)

	b.exitScope(scope)
	b.buf.emit(sectionCode, "JMP2r")

	b.st.ThisFunc = prevFunc
	b.funcEntryVars = prevEntry
}

// CompileImplement defines a struct's init or deinit method. A second
// definition for the same (struct, method) pair is rejected; on success the
// type's HasInit/HasDeinit flag is set so later Let/End calls know to call
// it (spec.md §4.3 "Implement").
func (b *Backend) CompileImplement(n *ast.Implement) {
	t, ok := b.st.LookupType(n.Struct)
	if !ok {
		b.abort(n.Sp, "undefined type %q", n.Struct)
		return
	}

	key := n.Struct + "." + n.Method
	if b.implemented[key] {
		b.abort(n.Sp, "duplicate %s for type %q", n.Method, n.Struct)
		return
	}
	b.implemented[key] = true

	symbol := "type_" + n.Method + "_" + backend.Mangle(n.Struct)
	b.buf.label(symbol)
	b.compileFuncBody(symbol, []ast.Param{{Type: "addr", Name: "self"}}, n.Body)

	switch n.Method {
	case "init":
		t.HasInit = true
	case "deinit":
		t.HasDeinit = true
	}
}
