package backend

import (
	"fmt"
	"strings"
)

// Mangle produces an assembler-safe symbol from an arbitrary Callisto
// identifier by passing through ASCII letters and digits unchanged and
// escaping everything else as "_XX" (its byte value in
// lowercase hex). The escape is reversible because a literal underscore is
// itself escaped to "_5f", so a mangled name never contains an
// ambiguous run of "_" followed by two hex digits that came from the
// source rather than from this function.
func Mangle(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	return b.String()
}
