// Package backend defines Callisto's lowering core: the backend-agnostic
// Compile* dispatch contract from spec.md §4.3, the shared symbol-table
// bookkeeping every concrete backend needs (types, words, variables,
// globals, consts, arrays, and the scope/label scalars), and the orchestrator
// that walks a translation unit calling into a concrete Backend. The
// reference implementation of Backend is internal/backend/uxn.
package backend

import (
	"github.com/callisto-lang/callisto/internal/ast"
	"github.com/callisto-lang/callisto/internal/span"
)

// Backend is the extension point spec.md §6 describes: "a backend is any
// object providing the operations listed in §4.3 plus GetVersions, MaxInt,
// DefaultHeader, HandleOption, FinalCommands, NewConst". Every Compile*
// method is expected to use compiler_errors.ErrorHandler.Abort for its own
// diagnostics rather than returning an error, matching the lexer and parser
// passes; Lower recovers exactly once at the top.
type Backend interface {
	// Init emits runtime preamble (VSP setup, reset vector, jump to the
	// main entry point). BeginMain opens the calmain entry section that
	// ordinary top-level statements are emitted into. End emits deinit
	// calls for every global with HasDeinit, a return, then data segments.
	Init()
	BeginMain()
	End()

	CompileWord(n *ast.Word)
	CompileInteger(n *ast.Integer)
	CompileFuncDef(n *ast.FuncDef)
	CompileIf(n *ast.If)
	CompileWhile(n *ast.While)
	CompileLet(n *ast.Let)
	CompileArray(n *ast.Array)
	CompileString(n *ast.String)
	CompileStruct(n *ast.Struct)
	CompileConst(n *ast.Const)
	CompileEnum(n *ast.Enum)
	CompileUnion(n *ast.Union)
	CompileAlias(n *ast.Alias)
	CompileExtern(n *ast.Extern)
	CompileAddr(n *ast.Addr)
	CompileImplement(n *ast.Implement)
	CompileSet(n *ast.Set)

	// CompileReturn, CompileBreak, and CompileContinue are reached through
	// word resolution's intrinsic-name check (internal/backend/resolve.go),
	// not through a dedicated AST variant - see DESIGN.md.
	CompileReturn(sp span.Span)
	CompileBreak(sp span.Span)
	CompileContinue(sp span.Span)
	// CompileCall emits a call to a resolved word (raw or mangled symbol).
	CompileCall(sp span.Span, resolution Resolution)

	// CompileAsm emits raw backend-specific assembly text verbatim.
	CompileAsm(n *ast.Asm)

	GetVersions() []string
	MaxInt() int64
	DefaultHeader() string
	FinalCommands() []string
	NewConst(name string, value int64)
	HandleOption(name string, versions []string) bool

	// String returns the fully assembled program text ready to be written
	// to the output path.
	String() string

	// Symbols returns the backend's symbol table so the lowering core can
	// process the backend-agnostic directives (Enable, Requires, Version,
	// Restrict) that spec.md §4.3 does not list a Compile* hook for.
	Symbols() *SymbolTable
}
