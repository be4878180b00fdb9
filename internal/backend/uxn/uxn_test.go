package uxn

import (
	"bytes"
	"strings"
	"testing"

	"github.com/callisto-lang/callisto/internal/ast"
	"github.com/callisto-lang/callisto/internal/compiler_errors"
	"github.com/callisto-lang/callisto/internal/langpolicy"
	"github.com/callisto-lang/callisto/internal/span"
)

func testSpan() span.Span {
	return span.New("t.cal", 1, 1, 1)
}

func newTestBackend() (*Backend, compiler_errors.ErrorHandler) {
	eh := compiler_errors.NewErrorHandler(&bytes.Buffer{})
	return New(langpolicy.NewDefault(), eh), eh
}

func TestMaxIntBoundary(t *testing.T) {
	b, eh := newTestBackend()
	b.CompileInteger(&ast.Integer{Sp: testSpan(), Value: maxInt})
	if eh.HasErrors() {
		t.Fatalf("MaxInt should compile, got errors: %v", eh.Errors())
	}

	b, eh = newTestBackend()
	func() {
		defer compiler_errors.Recover()
		b.CompileInteger(&ast.Integer{Sp: testSpan(), Value: maxInt + 1})
	}()
	if !eh.HasErrors() {
		t.Fatal("MaxInt+1 should be rejected")
	}
}

func TestEmptyIfProducesLabelScaffoldingOnly(t *testing.T) {
	b, eh := newTestBackend()
	b.Init()
	b.BeginMain()
	b.CompileIf(&ast.If{Sp: testSpan(), Clauses: []ast.IfClause{
		{Condition: []ast.Node{&ast.Integer{Sp: testSpan(), Value: 1}}, Body: nil},
	}})
	if eh.HasErrors() {
		t.Fatalf("empty if body should be legal, got: %v", eh.Errors())
	}
	out := b.buf.String()
	if !strings.Contains(out, "if_1_1:") || !strings.Contains(out, "if_1_end:") {
		t.Fatalf("expected if_1_1/if_1_end labels, got:\n%s", out)
	}
}

func TestEmptyWhileProducesLabelScaffoldingOnly(t *testing.T) {
	b, eh := newTestBackend()
	b.Init()
	b.BeginMain()
	b.CompileWhile(&ast.While{Sp: testSpan(), Condition: []ast.Node{&ast.Integer{Sp: testSpan(), Value: 0}}})
	if eh.HasErrors() {
		t.Fatalf("empty while body should be legal, got: %v", eh.Errors())
	}
	out := b.buf.String()
	for _, want := range []string{"while_1:", "while_1_next:", "while_1_condition:", "while_1_end:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected label %q in output:\n%s", want, out)
		}
	}
}

func TestBreakContinueOutsideLoopIsRejected(t *testing.T) {
	b, eh := newTestBackend()
	func() {
		defer compiler_errors.Recover()
		b.CompileBreak(testSpan())
	}()
	if !eh.HasErrors() {
		t.Fatal("break outside loop should be rejected")
	}

	b, eh = newTestBackend()
	func() {
		defer compiler_errors.Recover()
		b.CompileContinue(testSpan())
	}()
	if !eh.HasErrors() {
		t.Fatal("continue outside loop should be rejected")
	}
}

func TestReturnOutsideFunctionIsRejected(t *testing.T) {
	b, eh := newTestBackend()
	func() {
		defer compiler_errors.Recover()
		b.CompileReturn(testSpan())
	}()
	if !eh.HasErrors() {
		t.Fatal("return outside function should be rejected")
	}
}

// TestLetRestoresVSP checks spec.md §8's "After Let/scope-exit cycles, VSP
// returns to its pre-scope value" invariant for the canonical
// `let u16 x 5 -> x  x` scenario, compiled inside a function body.
func TestLetRestoresVSP(t *testing.T) {
	b, eh := newTestBackend()
	b.Init()
	b.BeginMain()

	fn := &ast.FuncDef{
		Sp:   testSpan(),
		Name: "main",
		Body: []ast.Node{
			&ast.Let{Sp: testSpan(), Type: "u16", Name: "x", Array: false},
			&ast.Integer{Sp: testSpan(), Value: 5},
			&ast.Set{Sp: testSpan(), Name: "x"},
			&ast.Word{Sp: testSpan(), Name: "x"},
		},
	}
	b.CompileFuncDef(fn)
	if eh.HasErrors() {
		t.Fatalf("unexpected errors: %v", eh.Errors())
	}
	if len(b.st.Variables) != 0 {
		t.Fatalf("expected variables to be empty after function lowering, got %v", b.st.Variables)
	}
	if b.st.ThisFunc != "" {
		t.Fatalf("expected thisFunc to be cleared after function lowering, got %q", b.st.ThisFunc)
	}

	out := b.buf.String()
	decs := strings.Count(out, "SUB2 .vsp STZ2")
	incs := strings.Count(out, "ADD2 .vsp STZ2")
	if decs == 0 || decs != incs {
		t.Fatalf("expected a matching SUB2/ADD2 pair per scope, got %d SUB2 and %d ADD2 in:\n%s", decs, incs, out)
	}
}

func TestStructOffsetsAndSizeof(t *testing.T) {
	b, eh := newTestBackend()
	b.CompileStruct(&ast.Struct{
		Sp:   testSpan(),
		Name: "Point",
		Members: []ast.StructMember{
			{Type: "u16", Name: "x"},
			{Type: "u16", Name: "y"},
		},
	})
	if eh.HasErrors() {
		t.Fatalf("unexpected errors: %v", eh.Errors())
	}
	want := map[string]int64{"Point.x": 0, "Point.y": 2, "Point.sizeof": 4}
	for k, v := range want {
		if got := b.st.Consts[k]; got != v {
			t.Errorf("const %s = %d, want %d", k, got, v)
		}
	}
}

func TestInheritedStructNoOverlap(t *testing.T) {
	b, eh := newTestBackend()
	b.CompileStruct(&ast.Struct{
		Sp:   testSpan(),
		Name: "Base",
		Members: []ast.StructMember{
			{Type: "u16", Name: "a"},
		},
	})
	b.CompileStruct(&ast.Struct{
		Sp:     testSpan(),
		Name:   "Derived",
		Parent: "Base",
		Members: []ast.StructMember{
			{Type: "u8", Name: "b"},
		},
	})
	if eh.HasErrors() {
		t.Fatalf("unexpected errors: %v", eh.Errors())
	}
	if b.st.Consts["Derived.a"] != 0 {
		t.Errorf("Derived.a = %d, want 0", b.st.Consts["Derived.a"])
	}
	if b.st.Consts["Derived.b"] != 2 {
		t.Errorf("Derived.b = %d, want 2", b.st.Consts["Derived.b"])
	}
	if b.st.Consts["Derived.sizeof"] != 3 {
		t.Errorf("Derived.sizeof = %d, want 3", b.st.Consts["Derived.sizeof"])
	}
}

func TestDuplicateMemberAcrossInheritanceRejected(t *testing.T) {
	b, eh := newTestBackend()
	b.CompileStruct(&ast.Struct{Sp: testSpan(), Name: "Base", Members: []ast.StructMember{{Type: "u16", Name: "a"}}})
	func() {
		defer compiler_errors.Recover()
		b.CompileStruct(&ast.Struct{Sp: testSpan(), Name: "Derived", Parent: "Base", Members: []ast.StructMember{{Type: "u16", Name: "a"}}})
	}()
	if !eh.HasErrors() {
		t.Fatal("duplicate member name across inheritance should be rejected")
	}
}

func TestEnumImplicitAndExplicitValues(t *testing.T) {
	b, eh := newTestBackend()
	b.CompileEnum(&ast.Enum{
		Sp:       testSpan(),
		Name:     "Color",
		BaseType: "u8",
		Members: []ast.EnumMember{
			{Name: "Red"},
			{Name: "Green", Value: 5, Explicit: true},
			{Name: "Blue"},
		},
	})
	if eh.HasErrors() {
		t.Fatalf("unexpected errors: %v", eh.Errors())
	}
	want := map[string]int64{
		"Color.Red": 0, "Color.Green": 5, "Color.Blue": 6,
		"Color.min": 0, "Color.max": 6, "Color.sizeof": 1,
	}
	for k, v := range want {
		if got := b.st.Consts[k]; got != v {
			t.Errorf("const %s = %d, want %d", k, got, v)
		}
	}
}

func TestConstWordResolvesTwice(t *testing.T) {
	b, eh := newTestBackend()
	b.Init()
	b.BeginMain()
	b.CompileConst(&ast.Const{Sp: testSpan(), Name: "N", Value: 42})
	b.CompileWord(&ast.Word{Sp: testSpan(), Name: "N"})
	b.CompileWord(&ast.Word{Sp: testSpan(), Name: "N"})
	if eh.HasErrors() {
		t.Fatalf("unexpected errors: %v", eh.Errors())
	}
	out := b.buf.String()
	if strings.Count(out, "#002a") != 2 {
		t.Fatalf("expected two pushes of 42 (0x2a), got:\n%s", out)
	}
}

func TestUnionDuplicateMemberRejected(t *testing.T) {
	b, eh := newTestBackend()
	func() {
		defer compiler_errors.Recover()
		b.CompileUnion(&ast.Union{Sp: testSpan(), Name: "U", Members: []string{"u16", "u16"}})
	}()
	if !eh.HasErrors() {
		t.Fatal("duplicate union member type should be rejected")
	}
}

func TestDuplicateImplementRejected(t *testing.T) {
	b, eh := newTestBackend()
	b.CompileStruct(&ast.Struct{Sp: testSpan(), Name: "Res", Members: []ast.StructMember{{Type: "u16", Name: "handle"}}})
	b.Init()
	b.BeginMain()
	b.CompileImplement(&ast.Implement{Sp: testSpan(), Struct: "Res", Method: "init"})
	if eh.HasErrors() {
		t.Fatalf("first implement should succeed: %v", eh.Errors())
	}
	func() {
		defer compiler_errors.Recover()
		b.CompileImplement(&ast.Implement{Sp: testSpan(), Struct: "Res", Method: "init"})
	}()
	if !eh.HasErrors() {
		t.Fatal("second implement of the same (type, method) should be rejected")
	}
}

func TestUniqueLabelsAcrossMultipleWhileLoops(t *testing.T) {
	b, eh := newTestBackend()
	b.Init()
	b.BeginMain()
	b.CompileWhile(&ast.While{Sp: testSpan(), Condition: []ast.Node{&ast.Integer{Sp: testSpan(), Value: 0}}})
	b.CompileWhile(&ast.While{Sp: testSpan(), Condition: []ast.Node{&ast.Integer{Sp: testSpan(), Value: 0}}})
	if eh.HasErrors() {
		t.Fatalf("unexpected errors: %v", eh.Errors())
	}
	out := b.buf.String()
	if strings.Count(out, "while_1:") != 1 || strings.Count(out, "while_2:") != 1 {
		t.Fatalf("expected exactly one while_1 and one while_2 label, got:\n%s", out)
	}
}

func TestExternCRejected(t *testing.T) {
	b, eh := newTestBackend()
	func() {
		defer compiler_errors.Recover()
		b.CompileExtern(&ast.Extern{Sp: testSpan(), Name: "puts", Kind: ast.ExternC, ReturnType: "u16", Params: []string{"addr"}})
	}()
	if !eh.HasErrors() {
		t.Fatal("ExternC should be rejected by the UXN backend")
	}
}

func TestGlobalLetDoesNotTouchLocals(t *testing.T) {
	b, eh := newTestBackend()
	b.Init()
	b.BeginMain()
	b.CompileLet(&ast.Let{Sp: testSpan(), Type: "u16", Name: "counter"})
	if eh.HasErrors() {
		t.Fatalf("unexpected errors: %v", eh.Errors())
	}
	if len(b.st.Variables) != 0 {
		t.Fatalf("top-level Let must not push a local, got %v", b.st.Variables)
	}
	if _, ok := b.st.Globals["counter"]; !ok {
		t.Fatal("top-level Let must register a global")
	}
}
