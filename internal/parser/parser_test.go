package parser_test

import (
	"strings"
	"testing"

	"github.com/callisto-lang/callisto/internal/ast"
	"github.com/callisto-lang/callisto/internal/compiler_errors"
	"github.com/callisto-lang/callisto/internal/lexer"
	"github.com/callisto-lang/callisto/internal/parser"
)

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func parseOK(t *testing.T, src string) []ast.Node {
	t.Helper()
	eh := compiler_errors.NewErrorHandler(&nopWriter{})
	tokens, err := lexer.NewLexer("t.cal", []byte(src), eh).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	unit, err := parser.NewParser("t.cal", lexer.NewTokenScanner(tokens), eh).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error for:\n%s\n%v", src, err)
	}
	return unit.Nodes
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	eh := compiler_errors.NewErrorHandler(&nopWriter{})
	tokens, err := lexer.NewLexer("t.cal", []byte(src), eh).Tokenize()
	if err != nil {
		return err
	}
	_, err = parser.NewParser("t.cal", lexer.NewTokenScanner(tokens), eh).Parse()
	return err
}

func TestParseFuncDef(t *testing.T) {
	nodes := parseOK(t, `func main begin 1 2 end`)
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	fd, ok := nodes[0].(*ast.FuncDef)
	if !ok {
		t.Fatalf("got %T, want *ast.FuncDef", nodes[0])
	}
	if fd.Name != "main" || fd.Inline || fd.Raw {
		t.Errorf("fd = %+v, want name=main inline=false raw=false", fd)
	}
	if len(fd.Body) != 2 {
		t.Fatalf("got %d body nodes, want 2", len(fd.Body))
	}
}

func TestParseFuncDefWithParams(t *testing.T) {
	nodes := parseOK(t, `func add u16 a u16 b begin a b end`)
	fd := nodes[0].(*ast.FuncDef)
	if len(fd.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fd.Params))
	}
	if fd.Params[0] != (ast.Param{Type: "u16", Name: "a"}) {
		t.Errorf("param 0 = %+v", fd.Params[0])
	}
}

func TestParseInlineRawFuncDef(t *testing.T) {
	nodes := parseOK(t, `inline func double u16 x begin x x end`)
	fd := nodes[0].(*ast.FuncDef)
	if !fd.Inline {
		t.Error("expected Inline to be true")
	}

	nodes = parseOK(t, `func raw entry begin return end`)
	fd = nodes[0].(*ast.FuncDef)
	if !fd.Raw {
		t.Error("expected Raw to be true")
	}
}

func TestNestedFuncDefIsRejected(t *testing.T) {
	if err := parseErr(t, `func outer begin func inner begin end end`); err == nil {
		t.Fatal("expected an error for a nested FuncDef")
	}
}

func TestNestedFuncDefInsideImplementIsRejected(t *testing.T) {
	src := `implement Foo init func inner begin end end`
	if err := parseErr(t, src); err == nil {
		t.Fatal("expected an error for a FuncDef nested inside implement")
	}
}

func TestParseIfElseifElse(t *testing.T) {
	nodes := parseOK(t, `if 1 then 2 elseif 3 then 4 else 5 end`)
	n := nodes[0].(*ast.If)
	if len(n.Clauses) != 2 {
		t.Fatalf("got %d clauses, want 2", len(n.Clauses))
	}
	if len(n.Else) != 1 {
		t.Fatalf("got %d else nodes, want 1", len(n.Else))
	}
}

func TestParseWhile(t *testing.T) {
	nodes := parseOK(t, `while 1 do 2 break end`)
	n := nodes[0].(*ast.While)
	if len(n.Condition) != 1 || len(n.Body) != 2 {
		t.Fatalf("n = %+v", n)
	}
}

func TestParseLetWithArray(t *testing.T) {
	nodes := parseOK(t, `let array 4 u8 buf`)
	n := nodes[0].(*ast.Let)
	if !n.Array || n.Size != 4 || n.Type != "u8" || n.Name != "buf" {
		t.Errorf("n = %+v", n)
	}
}

func TestParseStructWithParentAndArrayMember(t *testing.T) {
	nodes := parseOK(t, `struct Derived : Base array 4 u8 buf u16 y end`)
	n := nodes[0].(*ast.Struct)
	if n.Parent != "Base" {
		t.Errorf("Parent = %q, want Base", n.Parent)
	}
	if len(n.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(n.Members))
	}
	if !n.Members[0].Array || n.Members[0].Size != 4 {
		t.Errorf("member 0 = %+v", n.Members[0])
	}
}

func TestParseEnumImplicitValues(t *testing.T) {
	nodes := parseOK(t, `enum Color : u8 Red Green = 5 Blue end`)
	n := nodes[0].(*ast.Enum)
	if n.BaseType != "u8" {
		t.Errorf("BaseType = %q, want u8", n.BaseType)
	}
	if n.Members[0].Explicit || n.Members[0].Value != 0 {
		t.Errorf("Red = %+v", n.Members[0])
	}
	if !n.Members[1].Explicit || n.Members[1].Value != 5 {
		t.Errorf("Green = %+v", n.Members[1])
	}
}

func TestParseEnumDefaultsBaseTypeToCell(t *testing.T) {
	nodes := parseOK(t, `enum E A end`)
	n := nodes[0].(*ast.Enum)
	if n.BaseType != "cell" {
		t.Errorf("BaseType = %q, want cell", n.BaseType)
	}
}

func TestParseArrayLiteralWithConstantTag(t *testing.T) {
	nodes := parseOK(t, `[c u16 1 2 3]`)
	n := nodes[0].(*ast.Array)
	if !n.Constant || n.ElementType != "u16" || len(n.Elements) != 3 {
		t.Errorf("n = %+v", n)
	}
}

func TestParseExternVariants(t *testing.T) {
	nodes := parseOK(t, `extern puts`)
	if nodes[0].(*ast.Extern).Kind != ast.ExternNative {
		t.Error("expected ExternNative")
	}

	nodes = parseOK(t, `extern raw puts`)
	if nodes[0].(*ast.Extern).Kind != ast.ExternRaw {
		t.Error("expected ExternRaw")
	}

	nodes = parseOK(t, `extern C u16 puts addr end`)
	ext := nodes[0].(*ast.Extern)
	if ext.Kind != ast.ExternC || ext.ReturnType != "u16" || len(ext.Params) != 1 {
		t.Errorf("ext = %+v", ext)
	}
}

func TestParseImplement(t *testing.T) {
	nodes := parseOK(t, `implement Point init 0 -> x end`)
	n := nodes[0].(*ast.Implement)
	if n.Struct != "Point" || n.Method != "init" {
		t.Errorf("n = %+v", n)
	}
}

func TestParseImplementRejectsUnknownMethod(t *testing.T) {
	if err := parseErr(t, `implement Point wat end`); err == nil {
		t.Fatal("expected an error for an unknown implement method")
	}
}

func TestParseSet(t *testing.T) {
	nodes := parseOK(t, `-> counter`)
	n := nodes[0].(*ast.Set)
	if n.Name != "counter" {
		t.Errorf("Name = %q, want counter", n.Name)
	}
}

func TestUnexpectedEOFNamesTheInnermostProduction(t *testing.T) {
	err := parseErr(t, `func main begin if 1 then`)
	if err == nil {
		t.Fatal("expected an unexpected-EOF error")
	}
	got := err.Error()
	if !strings.Contains(got, "EOF") || !strings.Contains(got, "if body") {
		t.Errorf("error = %q, want it to mention the innermost production (if body)", got)
	}
}
