package uxn

import (
	"github.com/callisto-lang/callisto/internal/ast"
	"github.com/callisto-lang/callisto/internal/backend"
)

// decVSP emits "vsp -= n"; incVSP emits "vsp += n" always as a 16-bit ADD2,
// per the reference backend's third open-question resolution (spec.md §9:
// "any re-implementation should emit ADD2 consistently").
func (b *Backend) decVSP(n int) {
	b.buf.emitf(sectionCode, ".vsp LDZ2 #%04x SUB2 .vsp STZ2", uint16(n))
}

func (b *Backend) incVSP(n int) {
	if n == 0 {
		return
	}
	b.buf.emitf(sectionCode, "#%04x .vsp LDZ2 ADD2 .vsp STZ2", uint16(n))
}

// pushSlotAddr pushes the runtime address of the local at the given
// VSP-relative offset onto the data stack.
func (b *Backend) pushSlotAddr(offset int) {
	b.buf.emitf(sectionCode, ".vsp LDZ2 #%04x ADD2", uint16(offset))
}

// enterScope snapshots the locals stack for a nested scope (function body,
// implement body, an if-clause body, a while body).
func (b *Backend) enterScope() []backend.Variable {
	return b.st.SnapshotVariables()
}

// emitScopeCleanup runs deinit hooks for every local introduced since
// before, in most-recently-pushed-first order, then releases the whole
// scope's VSP space with a single ADD2. It does not touch the locals list -
// callers that are truly leaving the scope restore it themselves; a Return
// mid-block cleans up the same way without disturbing bookkeeping for
// statements that lexically follow it.
func (b *Backend) emitScopeCleanup(before []backend.Variable) {
	introduced := backend.LocalsIntroducedSince(before, b.st.Variables)

	total := 0
	for _, v := range introduced {
		total += v.Size
		if t, ok := b.st.LookupType(v.Type); ok && t.HasDeinit {
			b.pushSlotAddr(v.Offset)
			b.buf.emitf(sectionCode, ",type_deinit_%s JSR2", backend.Mangle(v.Type))
		}
	}

	b.incVSP(total)
}

// exitScope is emitScopeCleanup followed by restoring the pre-scope locals
// list (spec.md §4.3 "Local variable discipline"): the shape used by every
// lexical scope exit (function end, implement end, if-branch end,
// while-body end).
func (b *Backend) exitScope(before []backend.Variable) {
	b.emitScopeCleanup(before)
	b.st.RestoreVariables(before)
}

// CompileLet allocates one local per spec.md §4.3's central invariant: grow
// every existing local's offset by the new one's size, insert the new local
// at offset 0, decrement VSP, zero the slot, and call the type's init hook
// if it has one.
func (b *Backend) CompileLet(n *ast.Let) {
	if b.st.Policy.IsReserved(n.Name) {
		b.abort(n.Sp, "reserved name %q cannot be used as a variable name", n.Name)
		return
	}
	if b.st.NameInUse(n.Name) {
		b.abort(n.Sp, "name %q is already in use", n.Name)
		return
	}

	t, ok := b.st.LookupType(n.Type)
	if !ok {
		b.abort(n.Sp, "undefined type %q", n.Type)
		return
	}

	if n.Array && n.Size <= 0 {
		b.abort(n.Sp, "local array %q must have a positive length", n.Name)
		return
	}

	// A Let outside any function scope has no VSP region to live in - the
	// grammar has no dedicated "global" keyword (spec.md §6), so a top-level
	// Let is how a global is declared, mirroring the global/local split
	// spec.md §4.3 already draws for array literals. See DESIGN.md.
	if b.st.ThisFunc == "" {
		b.st.DeclareGlobal(&backend.Global{Name: n.Name, Type: n.Type, Array: n.Array, ArraySize: n.Size})
		if t.HasInit {
			b.buf.emitf(sectionCode, ";global_%s ,type_init_%s JSR2", backend.Mangle(n.Name), backend.Mangle(n.Type))
		}
		return
	}

	size := t.SizeBytes
	if n.Array {
		size = t.SizeBytes * int(n.Size)
	}

	b.st.PushLocal(n.Name, n.Type, size, n.Array, n.Size)

	b.decVSP(size)
	b.pushSlotAddr(0)
	b.buf.emitf(sectionCode, "#%04x ZEROFILL2", uint16(size))

	if t.HasInit {
		b.pushSlotAddr(0)
		b.buf.emitf(sectionCode, ",type_init_%s JSR2", backend.Mangle(n.Type))
	}
}

// CompileSet stores the value on top of the data stack into the named
// local, global, or errors if name resolves to neither.
func (b *Backend) CompileSet(n *ast.Set) {
	if v, ok := b.st.LookupVariable(n.Name); ok {
		b.pushSlotAddr(v.Offset)
		b.buf.emit(sectionCode, storeOp(b.varByteWidth(v))+" ( set local )")
		return
	}
	if g, ok := b.st.Globals[n.Name]; ok {
		b.buf.emitf(sectionCode, ";global_%s %s", backend.Mangle(n.Name), storeOp(b.globalByteWidth(g)))
		return
	}
	b.abort(n.Sp, "undefined identifier %q", n.Name)
}

func (b *Backend) varByteWidth(v backend.Variable) int {
	if t, ok := b.st.LookupType(v.Type); ok && !v.Array {
		return t.SizeBytes
	}
	return cellSize
}

func (b *Backend) globalByteWidth(g *backend.Global) int {
	if t, ok := b.st.LookupType(g.Type); ok && !g.Array {
		return t.SizeBytes
	}
	return cellSize
}

// storeOp picks STA (8-bit) or STA2 (16-bit) for a slot of the given width,
// mirroring the load-side LDA/LDA2 choice spec.md §4.3 documents.
func storeOp(width int) string {
	if width == 1 {
		return "STA"
	}
	return "STA2"
}

// loadOp picks LDA2 for a 2-byte slot, or LDA followed by NIP for a 1-byte
// slot: single-byte loads discard the high byte the stack machine still
// pushes as a pair (spec.md §4.3 "UXN backend specifics").
func loadOp(width int) string {
	if width == 1 {
		return "LDA NIP"
	}
	return "LDA2"
}
