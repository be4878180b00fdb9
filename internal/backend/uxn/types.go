package uxn

import (
	"github.com/callisto-lang/callisto/internal/ast"
	"github.com/callisto-lang/callisto/internal/backend"
)

// fieldByteSize returns how many bytes a struct field occupies, accounting
// for the element count when the field is itself an array.
func (b *Backend) fieldByteSize(f backend.StructField) int {
	t, ok := b.st.LookupType(f.Type)
	size := 1
	if ok {
		size = t.SizeBytes
	}
	if f.Array {
		return size * int(f.Count)
	}
	return size
}

// CompileStruct computes sequential field offsets, inherited members first
// in the parent's own declared order, then emits <struct>.<field> and
// <struct>.sizeof constants (spec.md §4.3 "Struct").
func (b *Backend) CompileStruct(n *ast.Struct) {
	if b.st.Policy.IsReserved(n.Name) {
		b.abort(n.Sp, "reserved name %q cannot be used as a struct name", n.Name)
		return
	}
	if _, exists := b.st.LookupType(n.Name); exists {
		b.abort(n.Sp, "type %q is already defined", n.Name)
		return
	}

	var members []backend.StructField
	seen := make(map[string]bool)
	offset := 0

	if n.Parent != "" {
		parent, ok := b.st.LookupType(n.Parent)
		if !ok {
			b.abort(n.Sp, "undefined parent struct %q", n.Parent)
			return
		}
		for _, m := range parent.Members {
			members = append(members, m)
			seen[m.Name] = true
			offset += b.fieldByteSize(m)
		}
	}

	for _, m := range n.Members {
		if seen[m.Name] {
			b.abort(n.Sp, "duplicate member %q in struct %q", m.Name, n.Name)
			return
		}
		seen[m.Name] = true

		t, ok := b.st.LookupType(m.Type)
		if !ok {
			b.abort(n.Sp, "undefined member type %q", m.Type)
			return
		}
		if m.Array && m.Size <= 0 {
			b.abort(n.Sp, "member %q must have a positive array length", m.Name)
			return
		}

		count := int64(1)
		if m.Array {
			count = m.Size
		}
		field := backend.StructField{Name: m.Name, Type: m.Type, Offset: offset, Array: m.Array, Count: count}
		members = append(members, field)
		offset += t.SizeBytes * int(count)
	}

	b.st.DeclareType(&backend.Type{Name: n.Name, SizeBytes: offset, IsStruct: true, Members: members})

	for _, f := range members {
		b.st.Consts[n.Name+"."+f.Name] = int64(f.Offset)
	}
	b.st.Consts[n.Name+".sizeof"] = int64(offset)
}

// CompileEnum registers a type that aliases its base type's size, then
// emits per-member constants plus <enum>.min/.max/.sizeof (spec.md §4.3
// "Enum"). Implicit values start at 0 and increment from the previous
// member's value.
func (b *Backend) CompileEnum(n *ast.Enum) {
	if b.st.Policy.IsReserved(n.Name) {
		b.abort(n.Sp, "reserved name %q cannot be used as an enum name", n.Name)
		return
	}
	if _, exists := b.st.LookupType(n.Name); exists {
		b.abort(n.Sp, "type %q is already defined", n.Name)
		return
	}

	baseTypeName := n.BaseType
	if baseTypeName == "" {
		baseTypeName = "cell"
	}
	base, ok := b.st.LookupType(baseTypeName)
	if !ok {
		b.abort(n.Sp, "undefined base type %q", baseTypeName)
		return
	}

	var next, min, max int64
	for i, m := range n.Members {
		val := next
		if m.Explicit {
			val = m.Value
		}
		b.st.Consts[n.Name+"."+m.Name] = val
		if i == 0 || val < min {
			min = val
		}
		if i == 0 || val > max {
			max = val
		}
		next = val + 1
	}

	b.st.Consts[n.Name+".min"] = min
	b.st.Consts[n.Name+".max"] = max
	b.st.Consts[n.Name+".sizeof"] = int64(base.SizeBytes)

	b.st.DeclareType(&backend.Type{Name: n.Name, SizeBytes: base.SizeBytes})
}

// CompileUnion registers a type whose size is the max of its member types'
// sizes, rejecting a repeated member type (spec.md §4.3 "Union").
func (b *Backend) CompileUnion(n *ast.Union) {
	if b.st.Policy.IsReserved(n.Name) {
		b.abort(n.Sp, "reserved name %q cannot be used as a union name", n.Name)
		return
	}
	if _, exists := b.st.LookupType(n.Name); exists {
		b.abort(n.Sp, "type %q is already defined", n.Name)
		return
	}

	seen := make(map[string]bool)
	maxSize := 0
	for _, m := range n.Members {
		if seen[m] {
			b.abort(n.Sp, "duplicate union member type %q", m)
			return
		}
		seen[m] = true

		t, ok := b.st.LookupType(m)
		if !ok {
			b.abort(n.Sp, "undefined member type %q", m)
			return
		}
		if t.SizeBytes > maxSize {
			maxSize = t.SizeBytes
		}
	}

	b.st.DeclareType(&backend.Type{Name: n.Name, SizeBytes: maxSize})
}

// CompileAlias copies an existing type record under a new name. Overwrite
// permits replacing an existing name; otherwise the collision is an error
// (spec.md §4.3 "Alias").
func (b *Backend) CompileAlias(n *ast.Alias) {
	src, ok := b.st.LookupType(n.From)
	if !ok {
		b.abort(n.Sp, "undefined type %q", n.From)
		return
	}
	if _, exists := b.st.LookupType(n.To); exists && !n.Overwrite {
		b.abort(n.Sp, "type %q is already defined", n.To)
		return
	}

	aliased := *src
	aliased.Name = n.To
	b.st.DeclareType(&aliased)
}

// CompileExtern registers a word implemented outside the translation unit.
// The UXN backend does not support C linkage, so ExternC is rejected here
// (spec.md §4.3: "C externs may be rejected by backends that do not support
// them").
func (b *Backend) CompileExtern(n *ast.Extern) {
	if n.Kind == ast.ExternC {
		b.abort(n.Sp, "the UXN backend does not support C externs")
		return
	}
	if b.st.Policy.IsReserved(n.Name) {
		b.abort(n.Sp, "reserved name %q cannot be used as a function name", n.Name)
		return
	}
	if b.st.NameInUse(n.Name) {
		b.abort(n.Sp, "name %q is already in use", n.Name)
		return
	}

	kind := backend.WordRegular
	if n.Kind == ast.ExternRaw {
		kind = backend.WordRaw
	}
	b.st.Words[n.Name] = &backend.WordDef{Kind: kind}
}

// CompileConst binds a name to a fixed integer value.
func (b *Backend) CompileConst(n *ast.Const) {
	if b.st.Policy.IsReserved(n.Name) {
		b.abort(n.Sp, "reserved name %q cannot be used as a constant name", n.Name)
		return
	}
	if b.st.NameInUse(n.Name) {
		b.abort(n.Sp, "name %q is already in use", n.Name)
		return
	}
	b.st.Consts[n.Name] = n.Value
}

// CompileAsm emits raw backend-specific text verbatim.
func (b *Backend) CompileAsm(n *ast.Asm) {
	b.buf.emit(sectionCode, n.Text)
}
