package ast_test

import (
	"regexp"
	"testing"

	"github.com/sanity-io/litter"

	"github.com/callisto-lang/callisto/internal/ast"
	"github.com/callisto-lang/callisto/internal/compiler_errors"
	"github.com/callisto-lang/callisto/internal/lexer"
	"github.com/callisto-lang/callisto/internal/parser"
)

// dumpOptions ignores Span fields when comparing two ASTs: printing and
// re-parsing necessarily produces different source positions, but spec.md
// §8's round-trip property is about structural equivalence, not byte-for-
// byte position equality.
var dumpOptions = litter.Options{
	FieldExclusions: regexp.MustCompile(`^Sp$`),
}

func parseSource(t *testing.T, src string) []ast.Node {
	t.Helper()
	eh := compiler_errors.NewErrorHandler(&nopWriter{})
	tokens, err := lexer.NewLexer("roundtrip.cal", []byte(src), eh).Tokenize()
	if err != nil {
		t.Fatalf("lex error for:\n%s\n%v", src, err)
	}
	unit, err := parser.NewParser("roundtrip.cal", lexer.NewTokenScanner(tokens), eh).Parse()
	if err != nil {
		t.Fatalf("parse error for:\n%s\n%v", src, err)
	}
	return unit.Nodes
}

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func assertRoundTrips(t *testing.T, nodes []ast.Node) {
	t.Helper()
	printed := ast.Print(nodes)
	reparsed := parseSource(t, printed)

	want := dumpOptions.Sdump(nodes)
	got := dumpOptions.Sdump(reparsed)
	if want != got {
		t.Fatalf("round trip mismatch for:\n%s\n--- want ---\n%s\n--- got ---\n%s", printed, want, got)
	}
}

func TestFuncDefRoundTrips(t *testing.T) {
	nodes := parseSource(t, `
func add u16 a u16 b begin
  a
  b
end
`)
	assertRoundTrips(t, nodes)
}

func TestInlineRawFuncDefRoundTrips(t *testing.T) {
	nodes := parseSource(t, `
inline func double u16 x begin
  x
  x
end

func raw entry begin
  return
end
`)
	assertRoundTrips(t, nodes)
}

func TestIfRoundTrips(t *testing.T) {
	nodes := parseSource(t, `
if
  1
then
  2
elseif
  3
then
  4
else
  5
end
`)
	assertRoundTrips(t, nodes)
}

func TestWhileRoundTrips(t *testing.T) {
	nodes := parseSource(t, `
while
  1
do
  2
  break
end
`)
	assertRoundTrips(t, nodes)
}

func TestStructRoundTrips(t *testing.T) {
	nodes := parseSource(t, `
struct Base
  u16 a
end

struct Derived : Base
  array 4 u8 buf
  u16 b
end
`)
	assertRoundTrips(t, nodes)
}

func TestEnumRoundTrips(t *testing.T) {
	nodes := parseSource(t, `
enum Color : u8
  Red
  Green = 5
  Blue
end
`)
	assertRoundTrips(t, nodes)
}

func TestArrayAndLetRoundTrip(t *testing.T) {
	nodes := parseSource(t, `
func main begin
  let array 3 u16 xs
  [c u16
    1
    2
    3
  ]
end
`)
	assertRoundTrips(t, nodes)
}
