// Package uxn is Callisto's reference lowering: it implements
// internal/backend.Backend by emitting Uxntal text for the UXN virtual
// machine, a 16-bit stack CPU with zero-page addressing (spec.md §1, §4.3
// "UXN backend specifics").
package uxn

import (
	"fmt"

	"github.com/callisto-lang/callisto/internal/backend"
	"github.com/callisto-lang/callisto/internal/compiler_errors"
	"github.com/callisto-lang/callisto/internal/langpolicy"
)

// cellSize is UXN's native word size: the "cell" primitive is 2 bytes wide,
// and the virtual stack pointer moves in units sized to whatever local is
// being pushed or popped, not a fixed cell width.
const cellSize = 2

// maxInt is the backend's declared integer ceiling (spec.md §4.3
// "MaxInt / Integer"): the largest value that fits in one 16-bit cell.
const maxInt int64 = 0xffff

// primitiveSizes seeds the shared symbol table's types with UXN's own byte
// widths for the primitives spec.md §3 names.
var primitiveSizes = map[string]int{
	"u8":    1,
	"i8":    1,
	"u16":   2,
	"i16":   2,
	"addr":  2,
	"size":  2,
	"usize": 2,
	"cell":  cellSize,
}

// versions lists the standard feature tags this backend actually supports,
// returned from GetVersions (spec.md §4.4).
var versions = []string{"IO", "16Bit", "BigEndian"}

// Backend is the UXN reference lowering. It embeds a *backend.SymbolTable
// for the bookkeeping every target needs and owns a line-oriented assembler
// buffer for its own Uxntal output.
type Backend struct {
	st  *backend.SymbolTable
	eh  compiler_errors.ErrorHandler
	buf *buffer

	keepAssembly bool
	options      map[string]string

	// funcEntryVars snapshots the locals stack at the start of the function
	// currently being compiled, so a nested Return can clean up everything
	// introduced since function entry regardless of how many scopes deep it
	// sits.
	funcEntryVars []backend.Variable

	// implemented tracks "<struct>.<method>" pairs already defined via
	// Implement, so a second definition for the same pair is rejected.
	implemented map[string]bool
}

// New builds a UXN backend around a fresh symbol table seeded with UXN's
// primitive sizes.
func New(policy *langpolicy.Policy, eh compiler_errors.ErrorHandler) *Backend {
	if policy == nil {
		policy = langpolicy.NewDefault()
	}
	return &Backend{
		st:          backend.NewSymbolTable(policy, primitiveSizes),
		eh:          eh,
		buf:         newBuffer(),
		options:     make(map[string]string),
		implemented: make(map[string]bool),
	}
}

func (b *Backend) Symbols() *backend.SymbolTable { return b.st }

// Init emits the zero-page declarations, the reset vector, and the initial
// VSP value (spec.md §4.3 "UXN backend specifics").
func (b *Backend) Init() {
	b.buf.emit(sectionZeroPage, "|0")
	b.buf.emit(sectionZeroPage, "@vsp $2")
	b.buf.emit(sectionZeroPage, "@arraySrc $2")
	b.buf.emit(sectionZeroPage, "@arrayDest $2")

	b.buf.emit(sectionReset, "|100")
	b.buf.emit(sectionReset, "#ffff .vsp STZ2")
	b.buf.emit(sectionReset, ",calmain JMP2")
}

// BeginMain opens the calmain entry section that top-level statements
// (outside any FuncDef/Struct/Const/...) are emitted into.
func (b *Backend) BeginMain() {
	b.buf.label("calmain")
}

// End emits deinit calls for every global whose type has hasDeinit, a
// machine return, then the data segments for globals, realised arrays, and
// their metadata blocks, followed by the trailing data-stack pad.
func (b *Backend) End() {
	for _, name := range b.st.GlobalOrder() {
		g := b.st.Globals[name]
		t, ok := b.st.LookupType(g.Type)
		if ok && t.HasDeinit {
			b.buf.emitf(sectionCode, ";global_%s ,type_deinit_%s JSR2", backend.Mangle(name), backend.Mangle(g.Type))
		}
	}
	b.buf.emit(sectionCode, "BRK")

	for _, name := range b.st.GlobalOrder() {
		b.emitGlobalData(name, b.st.Globals[name])
	}

	for _, ra := range b.st.Arrays {
		b.emitArrayData(ra)
	}

	b.buf.emit(sectionData, "|e0000")
	b.buf.emit(sectionData, "$100")
}

func (b *Backend) emitGlobalData(name string, g *backend.Global) {
	sym := "global_" + backend.Mangle(name)
	if g.Array {
		t, _ := b.st.LookupType(g.Type)
		size := 1
		if t != nil {
			size = t.SizeBytes
		}
		b.buf.emitf(sectionData, "@%s $%d", sym, size*int(g.ArraySize))
		return
	}
	t, ok := b.st.LookupType(g.Type)
	size := cellSize
	if ok {
		size = t.SizeBytes
	}
	b.buf.emitf(sectionData, "@%s $%d", sym, size)
}

func (b *Backend) emitArrayData(ra *backend.RealisedArray) {
	sym := fmt.Sprintf("array_%d", ra.Ordinal)
	metaSym := sym + "_meta"

	t, ok := b.st.LookupType(ra.ElementType)
	memberSize := 1
	if ok {
		memberSize = t.SizeBytes
	}

	b.buf.emitf(sectionData, "@%s", sym)
	for _, v := range ra.Values {
		if memberSize == 1 {
			b.buf.emitf(sectionData, "%02x", uint8(v))
		} else {
			b.buf.emitf(sectionData, "%04x", uint16(v))
		}
	}

	b.buf.emitf(sectionData, "@%s", metaSym)
	b.buf.emitf(sectionData, "%04x", uint16(len(ra.Values)))
	b.buf.emitf(sectionData, "%04x", uint16(memberSize))
	b.buf.emitf(sectionData, ",%s", sym)
}

func (b *Backend) GetVersions() []string { return versions }

func (b *Backend) MaxInt() int64 { return maxInt }

func (b *Backend) DefaultHeader() string {
	return "( Uxntal, emitted by the Callisto UXN backend )\n"
}

// FinalCommands returns the shell pipeline a driver runs after assembling:
// invoke uxnasm, then remove the intermediate .tal file unless keepAssembly
// was set through HandleOption (spec.md §5's "keep assembly" flag).
func (b *Backend) FinalCommands() []string {
	cmds := []string{"uxnasm out.tal out.rom"}
	if !b.keepAssembly {
		cmds = append(cmds, "rm -f out.tal")
	}
	return cmds
}

func (b *Backend) NewConst(name string, value int64) {
	b.st.Consts[name] = value
}

// HandleOption recognizes "keep-assembly" (no versions argument required)
// and otherwise stores the option verbatim for later inspection; unknown
// options are accepted (a backend never fails a compile solely because a
// driver passed through an option it does not use) but reported not
// consumed via the return value.
func (b *Backend) HandleOption(name string, opts []string) bool {
	switch name {
	case "keep-assembly":
		b.keepAssembly = true
		return true
	default:
		if len(opts) > 0 {
			b.options[name] = opts[0]
		}
		return false
	}
}

// String renders the fully assembled Uxntal text: header, then every
// section in fixed order.
func (b *Backend) String() string {
	return b.DefaultHeader() + b.buf.String()
}
