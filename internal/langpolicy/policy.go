// Package langpolicy holds the process-wide tables spec.md §4.4 calls
// "language policy": reserved words that cannot be used as function or
// variable names, and the standard feature tags a backend may declare
// support for. Both tables are built-in defaults that internal/config can
// extend, never shrink.
package langpolicy

// reservedWords lists every keyword spec.md §6 names as part of the source
// language surface, plus the primitive type names spec.md §3 seeds the
// types table with - both are illegal as a function or variable name.
var reservedWords = []string{
	"func", "inline", "raw", "begin", "end",
	"include", "asm",
	"if", "then", "elseif", "else",
	"while", "do",
	"let", "array",
	"enable", "requires",
	"struct", "version", "not",
	"const", "enum", "restrict", "union", "alias", "overwrite",
	"extern", "C",
	"implement", "init", "deinit",
	"return", "break", "continue",
	"->", "&", "[", "]", ":", "=",
	"u8", "i8", "u16", "i16", "addr", "size", "usize", "cell", "Array",
}

// standardFeatureTags lists the feature/version identifiers Version,
// Enable, Requires, and Restrict consult by default (spec.md §4.4's
// example: "IO", "16Bit", "BigEndian"). A backend advertises the subset it
// actually supports through GetVersions; this table is only the universe
// of names the front end recognizes as feature tags rather than arbitrary
// identifiers.
var standardFeatureTags = []string{
	"IO",
	"16Bit",
	"BigEndian",
	"LittleEndian",
	"FloatingPoint",
}

// Policy is an immutable snapshot of the reserved-word and feature-tag
// tables, built once (via New or NewDefault) and shared read-only across a
// compilation.
type Policy struct {
	reserved map[string]bool
	features map[string]bool
}

// NewDefault builds a Policy from the built-in tables alone.
func NewDefault() *Policy {
	return New(nil, nil)
}

// New builds a Policy from the built-in tables extended with extraReserved
// and extraFeatures. Extension only adds names; nothing in this package
// ever removes a built-in reserved word or feature tag.
func New(extraReserved, extraFeatures []string) *Policy {
	p := &Policy{
		reserved: make(map[string]bool, len(reservedWords)+len(extraReserved)),
		features: make(map[string]bool, len(standardFeatureTags)+len(extraFeatures)),
	}

	for _, w := range reservedWords {
		p.reserved[w] = true
	}
	for _, w := range extraReserved {
		p.reserved[w] = true
	}

	for _, f := range standardFeatureTags {
		p.features[f] = true
	}
	for _, f := range extraFeatures {
		p.features[f] = true
	}

	return p
}

func (p *Policy) IsReserved(name string) bool {
	return p.reserved[name]
}

func (p *Policy) IsKnownFeature(name string) bool {
	return p.features[name]
}
