package uxn

import (
	"fmt"

	"github.com/callisto-lang/callisto/internal/ast"
	"github.com/callisto-lang/callisto/internal/backend"
)

// CompileInteger pushes a literal cell after checking it against this
// backend's declared integer ceiling (spec.md §4.3 "MaxInt / Integer").
func (b *Backend) CompileInteger(n *ast.Integer) {
	if n.Value > b.MaxInt() {
		b.abort(n.Sp, "integer literal %d exceeds this backend's maximum of %d", n.Value, b.MaxInt())
		return
	}
	b.pushConst(n.Value)
}

func (b *Backend) pushConst(v int64) {
	b.buf.emitf(sectionCode, "#%04x", uint16(v))
}

// CompileAddr emits the address of a word's call symbol, a local's
// VSP-relative slot, or a global's symbol (spec.md §4.3 "Addr").
func (b *Backend) CompileAddr(n *ast.Addr) {
	res := b.st.Resolve(n.Target)

	switch res.Kind {
	case backend.ResolveLocal:
		b.pushSlotAddr(res.Variable.Offset)
	case backend.ResolveGlobal:
		b.buf.emitf(sectionCode, ";global_%s", backend.Mangle(n.Target))
	case backend.ResolveRaw:
		b.buf.emitf(sectionCode, ";%s", res.Name)
	case backend.ResolveCall:
		b.buf.emitf(sectionCode, ";func__%s", res.Name)
	default:
		b.abort(n.Sp, "undefined identifier %q", n.Target)
	}
}

// CompileArray realises an array literal per spec.md §4.3 "Array literal":
// every element must fold to an Integer; the literal is global iff it sits
// outside any function scope or carries the constant tag, otherwise it
// allocates a runtime copy plus a 6-byte Array metadata header on the
// virtual stack.
func (b *Backend) CompileArray(n *ast.Array) {
	et, ok := b.st.LookupType(n.ElementType)
	if !ok {
		b.abort(n.Sp, "undefined element type %q", n.ElementType)
		return
	}

	values := make([]int64, 0, len(n.Elements))
	for _, el := range n.Elements {
		lit, ok := el.(*ast.Integer)
		if !ok {
			b.abort(n.Sp, "array elements must be integer literals")
			return
		}
		values = append(values, lit.Value)
	}

	global := b.st.ThisFunc == "" || n.Constant
	ra := b.st.Realise(n.ElementType, values, global)

	if global {
		b.buf.emitf(sectionCode, ";array_%d_meta", ra.Ordinal)
		return
	}

	dataSize := et.SizeBytes * len(values)
	totalSize := dataSize + 6 // copy region plus the Array metadata header

	b.st.BlockCounter++
	localName := fmt.Sprintf("$array%d", b.st.BlockCounter)
	b.st.PushLocal(localName, n.ElementType, totalSize, true, int64(len(values)))

	b.decVSP(totalSize)

	// byte-copy loop: static source -> the new VSP region, offset 6 bytes
	// past the slot base to leave room for the header ahead of it.
	b.buf.emitf(sectionCode, ";array_%d .arraySrc STZ2", ra.Ordinal)
	b.pushSlotAddr(6)
	b.buf.emit(sectionCode, ".arrayDest STZ2")
	b.buf.emitf(sectionCode, "#%04x COPY2", uint16(dataSize))

	b.buf.emitf(sectionCode, "#%04x", uint16(len(values)))
	b.pushSlotAddr(0)
	b.buf.emit(sectionCode, "STA2 ( length )")
	b.buf.emitf(sectionCode, "#%04x", uint16(et.SizeBytes))
	b.pushSlotAddr(2)
	b.buf.emit(sectionCode, "STA2 ( memberSize )")
	b.pushSlotAddr(6)
	b.pushSlotAddr(4)
	b.buf.emit(sectionCode, "STA2 ( elements )")

	b.pushSlotAddr(0)
}

// CompileString desugars to an Array of u8 whose elements are the string's
// byte values, preserving the constant tag (spec.md §4.3 "String literal").
func (b *Backend) CompileString(n *ast.String) {
	elements := make([]ast.Node, len(n.Body))
	for i := 0; i < len(n.Body); i++ {
		elements[i] = &ast.Integer{Sp: n.Sp, Value: int64(n.Body[i])}
	}
	b.CompileArray(&ast.Array{
		Sp:          n.Sp,
		ElementType: "u8",
		Elements:    elements,
		Constant:    n.Constant,
	})
}
