package backend

// Type is one entry of the lowering core's types symbol table: either a
// primitive of a fixed byte size, or a struct with sequential field
// offsets (spec.md §4.3 "Struct").
type Type struct {
	Name      string
	SizeBytes int
	IsStruct  bool
	Members   []StructField
	HasInit   bool
	HasDeinit bool
}

// StructField is one field of a struct type, offset already resolved
// relative to the start of the struct (inherited members come first, in
// the parent's own declared order).
type StructField struct {
	Name   string
	Type   string
	Offset int
	Array  bool
	Count  int64
}

// newPrimitiveTypes seeds the types table per spec.md §3: {u8,i8,u16,i16,
// addr,size,usize,cell}, plus the built-in Array struct. cell is the
// target's native word size; this module's reference backend (UXN) is
// 16-bit, so cell == 2 there, but the lowering core itself does not
// hardcode a cell width - a backend supplies the sizes through
// NewSymbolTable's primitiveSizes argument.
func newPrimitiveTypes(sizes map[string]int) map[string]*Type {
	types := make(map[string]*Type, len(sizes)+1)
	for name, size := range sizes {
		types[name] = &Type{Name: name, SizeBytes: size}
	}

	types["Array"] = &Type{
		Name:      "Array",
		SizeBytes: 6,
		IsStruct:  true,
		Members: []StructField{
			{Name: "length", Type: "usize", Offset: 0},
			{Name: "memberSize", Type: "usize", Offset: 2},
			{Name: "elements", Type: "addr", Offset: 4},
		},
	}

	return types
}
