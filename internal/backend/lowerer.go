package backend

import (
	"fmt"
	"log/slog"

	"github.com/callisto-lang/callisto/internal/ast"
	"github.com/callisto-lang/callisto/internal/compiler_errors"
)

// Lowerer walks a translation unit and drives a concrete Backend. It also
// owns the handful of directives (Enable, Requires, Version, Restrict,
// Include) that spec.md §4.3 leaves out of the backend contract because
// they are backend-agnostic policy decisions, not code generation.
type Lowerer struct {
	backend Backend
	eh      compiler_errors.ErrorHandler
	log     *slog.Logger
}

// NewLowerer builds a Lowerer. A nil logger is replaced with a discarding
// logger, so callers that do not care about compile-stage logging (spec.md
// §4.3's addition) can pass nil instead of constructing a no-op handler.
func NewLowerer(backend Backend, eh compiler_errors.ErrorHandler, log *slog.Logger) *Lowerer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}
	return &Lowerer{backend: backend, eh: eh, log: log}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Lower runs Init/BeginMain, compiles every top-level node in order, then
// End. It returns the first lowering error, if any.
func (l *Lowerer) Lower(unit *ast.TranslationUnit) (err error) {
	defer func() {
		if e := l.eh.FailNow(); e != nil {
			err = e
		}
	}()
	defer compiler_errors.Recover()

	l.log.Info("lowering translation unit started", "nodes", len(unit.Nodes))

	l.backend.Init()
	l.backend.BeginMain()

	for _, n := range unit.Nodes {
		l.compile(n)
	}

	l.backend.End()

	l.log.Info("lowering translation unit finished")
	return nil
}

// compile dispatches one top-level or nested node. Include, Enable,
// Requires, Version, and Restrict are handled entirely here, since they
// only ever touch the symbol table's Enabled/Restricted sets and never
// reach a backend's output buffer.
func (l *Lowerer) compile(n ast.Node) {
	l.log.Debug("compiling node", "kind", fmt.Sprintf("%T", n))

	st := l.backend.Symbols()

	switch node := n.(type) {
	case *ast.Word:
		l.backend.CompileWord(node)
	case *ast.Integer:
		l.backend.CompileInteger(node)
	case *ast.String:
		l.backend.CompileString(node)
	case *ast.Array:
		l.backend.CompileArray(node)
	case *ast.Addr:
		l.backend.CompileAddr(node)
	case *ast.Let:
		l.backend.CompileLet(node)
	case *ast.Set:
		l.backend.CompileSet(node)
	case *ast.If:
		if len(node.Clauses) == 0 || len(node.Clauses[0].Body) == 0 {
			l.log.Warn("empty if body", "span", node.Sp.String())
		}
		l.backend.CompileIf(node)
	case *ast.While:
		if len(node.Body) == 0 {
			l.log.Warn("empty while body", "span", node.Sp.String())
		}
		l.backend.CompileWhile(node)
	case *ast.FuncDef:
		l.backend.CompileFuncDef(node)
	case *ast.Implement:
		l.backend.CompileImplement(node)
	case *ast.Struct:
		l.backend.CompileStruct(node)
	case *ast.Const:
		l.backend.CompileConst(node)
	case *ast.Enum:
		l.backend.CompileEnum(node)
	case *ast.Union:
		l.backend.CompileUnion(node)
	case *ast.Alias:
		l.backend.CompileAlias(node)
	case *ast.Extern:
		l.backend.CompileExtern(node)
	case *ast.Asm:
		l.backend.CompileAsm(node)

	case *ast.Include:
		l.log.Warn("include directive reached the lowering core; splicing is a driver concern and was skipped", "path", node.Path)

	case *ast.Enable:
		st.Enabled[node.Name] = true

	case *ast.Requires:
		if !st.Enabled[node.Name] {
			l.eh.Abort(compiler_errors.New(node.Sp, "requires %q but it is not enabled", node.Name))
		}

	case *ast.Restrict:
		st.Restricted[node.Name] = true

	case *ast.Version:
		enabled := st.Enabled[node.Name]
		if node.Not {
			enabled = !enabled
		}
		if enabled {
			for _, child := range node.Body {
				l.compile(child)
			}
		}

	default:
		l.eh.Abort(compiler_errors.New(n.Span(), "internal error: unhandled AST node %T", n))
	}
}
