package uxn

import (
	"fmt"

	"github.com/callisto-lang/callisto/internal/ast"
	"github.com/callisto-lang/callisto/internal/span"
)

// compileSeq compiles an ordered statement/expression sequence by resolving
// each node's dispatch the same way the lowering core does. The reference
// backend needs this because Compile* bodies (If clauses, While bodies,
// function bodies) all hold []ast.Node the same shape the top-level
// translation unit does.
func (b *Backend) compileSeq(nodes []ast.Node) {
	for _, n := range nodes {
		b.compileOne(n)
	}
}

// compileOne dispatches a single node the same way internal/backend.Lowerer
// does for a top-level node, minus the directives (Enable/Requires/Version/
// Restrict/Include) that only ever make sense at the translation-unit level.
func (b *Backend) compileOne(n ast.Node) {
	switch node := n.(type) {
	case *ast.Word:
		b.CompileWord(node)
	case *ast.Integer:
		b.CompileInteger(node)
	case *ast.String:
		b.CompileString(node)
	case *ast.Array:
		b.CompileArray(node)
	case *ast.Addr:
		b.CompileAddr(node)
	case *ast.Let:
		b.CompileLet(node)
	case *ast.Set:
		b.CompileSet(node)
	case *ast.If:
		b.CompileIf(node)
	case *ast.While:
		b.CompileWhile(node)
	case *ast.Asm:
		b.CompileAsm(node)
	default:
		b.abort(n.Span(), "internal error: %T cannot appear in a nested statement sequence", n)
	}
}

// CompileIf implements spec.md §4.3's control-flow label generation for If:
// each clause tests its condition and falls through to its body on true,
// after which it jumps to the end label past every remaining clause and the
// else body; on false it jumps to the next clause's label (the next clause's
// condition, or the else body after the last clause).
func (b *Backend) CompileIf(n *ast.If) {
	b.st.BlockCounter++
	id := b.st.BlockCounter

	for k, clause := range n.Clauses {
		b.compileSeq(clause.Condition)
		b.buf.emitf(sectionCode, ",if_%d_%d JCN2Z", id, k+1)

		scope := b.enterScope()
		b.compileSeq(clause.Body)
		b.exitScope(scope)

		b.buf.emitf(sectionCode, ",if_%d_end JMP2", id)
		b.buf.label(fmt.Sprintf("if_%d_%d", id, k+1))
	}

	if len(n.Else) > 0 {
		scope := b.enterScope()
		b.compileSeq(n.Else)
		b.exitScope(scope)
	}

	b.buf.label(fmt.Sprintf("if_%d_end", id))
}

// CompileWhile implements spec.md §4.3's While shape: test-before-body via
// an initial jump to the condition, a body label, a "next" label scope-exit
// runs before looping, then the condition and a conditional jump back.
func (b *Backend) CompileWhile(n *ast.While) {
	b.st.BlockCounter++
	id := b.st.BlockCounter

	b.buf.emitf(sectionCode, ",while_%d_condition JMP2", id)
	b.buf.label(fmt.Sprintf("while_%d", id))

	prevInWhile, prevLoop := b.st.InWhile, b.st.CurrentLoop
	b.st.InWhile = true
	b.st.CurrentLoop = id

	scope := b.enterScope()
	b.compileSeq(n.Body)

	b.buf.label(fmt.Sprintf("while_%d_next", id))
	b.exitScope(scope)

	b.st.InWhile = prevInWhile
	b.st.CurrentLoop = prevLoop

	b.buf.label(fmt.Sprintf("while_%d_condition", id))
	b.compileSeq(n.Condition)
	b.buf.emitf(sectionCode, ",while_%d JCN2", id)

	b.buf.label(fmt.Sprintf("while_%d_end", id))
}

// CompileBreak and CompileContinue are only valid lexically inside a while
// body (spec.md §4.3: "valid only when inWhile").
func (b *Backend) CompileBreak(sp span.Span) {
	if !b.st.InWhile {
		b.abort(sp, "break outside loop")
		return
	}
	b.buf.emitf(sectionCode, ",while_%d_end JMP2", b.st.CurrentLoop)
}

func (b *Backend) CompileContinue(sp span.Span) {
	if !b.st.InWhile {
		b.abort(sp, "continue outside loop")
		return
	}
	b.buf.emitf(sectionCode, ",while_%d_next JMP2", b.st.CurrentLoop)
}

// CompileReturn cleans up every local introduced since function entry
// (running deinit hooks) and emits the machine return, without disturbing
// the locals bookkeeping for any statement that lexically follows the
// return (spec.md §4.3: "Final return cleans up all locals ... and emits
// the machine return").
func (b *Backend) CompileReturn(sp span.Span) {
	if b.st.ThisFunc == "" {
		b.abort(sp, "return outside function")
		return
	}
	b.emitScopeCleanup(b.funcEntryVars)
	b.buf.emit(sectionCode, "JMP2r")
}

