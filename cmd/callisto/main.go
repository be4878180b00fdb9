// Command callisto is a thin illustrative driver: it wires the lexer, the
// parser, a backend selected by name, and the lowering core together, and
// turns the first error any stage reports into a process exit code. Real
// deployments are expected to wrap this pipeline in their own tooling;
// this binary exists to exercise the front end end-to-end.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/callisto-lang/callisto/internal/backend"
	"github.com/callisto-lang/callisto/internal/backend/uxn"
	"github.com/callisto-lang/callisto/internal/compiler_errors"
	"github.com/callisto-lang/callisto/internal/config"
	"github.com/callisto-lang/callisto/internal/langpolicy"
	"github.com/callisto-lang/callisto/internal/lexer"
	"github.com/callisto-lang/callisto/internal/parser"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "callisto.toml", "path to a callisto.toml configuration file")
	outPath := flag.String("o", "out.tal", "output path for the lowered assembly text")
	verbose := flag.Bool("v", false, "log each compile stage at debug level")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: callisto [flags] <source-file>")
		return 2
	}
	sourcePath := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "path", *configPath, "err", err)
		return 1
	}

	policy := langpolicy.New(cfg.ReservedWordsExtra, cfg.FeatureTagsExtra)

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		log.Error("failed to read source file", "path", sourcePath, "err", err)
		return 1
	}

	eh := compiler_errors.NewErrorHandler(os.Stderr)

	log.Info("tokenizing", "file", sourcePath)
	tokens, err := lexer.NewLexer(sourcePath, source, eh).Tokenize()
	if err != nil {
		log.Error("lex error", "err", err)
		return 1
	}

	log.Info("parsing", "file", sourcePath, "tokens", len(tokens))
	scanner := lexer.NewTokenScanner(tokens)
	unit, err := parser.NewParser(sourcePath, scanner, eh).Parse()
	if err != nil {
		log.Error("parse error", "err", err)
		return 1
	}

	b, err := selectBackend(cfg.Backend, policy, eh)
	if err != nil {
		log.Error("backend selection failed", "err", err)
		return 1
	}
	if cfg.KeepAssembly {
		b.HandleOption("keep-assembly", nil)
	}
	for name, value := range cfg.Options {
		b.HandleOption(name, []string{value})
	}

	log.Info("lowering", "backend", cfg.Backend)
	lowerer := backend.NewLowerer(b, eh, log)
	if err := lowerer.Lower(unit); err != nil {
		log.Error("lowering error", "err", err)
		return 1
	}

	if err := os.WriteFile(*outPath, []byte(b.String()), 0o644); err != nil {
		log.Error("failed to write output", "path", *outPath, "err", err)
		return 1
	}
	log.Info("wrote output", "path", *outPath)

	for _, cmd := range b.FinalCommands() {
		log.Info("final command (not run by this driver)", "cmd", cmd)
	}

	return 0
}

// selectBackend maps a config-supplied backend name to a concrete
// backend.Backend. The empty name selects the reference UXN backend
// (spec.md §5's default).
func selectBackend(name string, policy *langpolicy.Policy, eh compiler_errors.ErrorHandler) (backend.Backend, error) {
	switch name {
	case "", "uxn":
		return uxn.New(policy, eh), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}
