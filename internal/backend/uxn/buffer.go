package uxn

import (
	"fmt"
	"strings"
)

// section names an output region of the final assembly file. Ordering
// them explicitly means Compile* methods can append to any section in any
// order and the final text still comes out zero-page, reset vector, code,
// then data - regardless of which AST nodes were visited first (spec.md's
// SPEC_FULL.md §4.5 "assembler line buffer" addition).
type section int

const (
	sectionZeroPage section = iota
	sectionReset
	sectionCode
	sectionData
	sectionCount
)

// buffer is a small line-oriented assembler output builder, one []string
// per section, grounded on the line-indexed textual assembler buffer shape
// in smasonuk-sicpu/pkg/asm (there used to parse Uxntal-adjacent assembly
// line by line; here used the other direction, to build it).
type buffer struct {
	sections [sectionCount][]string
}

func newBuffer() *buffer {
	return &buffer{}
}

func (b *buffer) emit(s section, line string) {
	b.sections[s] = append(b.sections[s], line)
}

func (b *buffer) emitf(s section, format string, args ...any) {
	b.emit(s, fmt.Sprintf(format, args...))
}

// label appends a bare "<name>:" definition line to the code section.
func (b *buffer) label(name string) {
	b.emit(sectionCode, name+":")
}

// String concatenates every section in fixed order, one line per entry.
func (b *buffer) String() string {
	var out []string
	for s := section(0); s < sectionCount; s++ {
		out = append(out, b.sections[s]...)
	}
	return strings.Join(out, "\n") + "\n"
}
