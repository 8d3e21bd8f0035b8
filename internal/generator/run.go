// Package generator drives the full lexgen pipeline end to end --
// read spec file, parse, compile to a DFA, emit C -- the way the
// teacher's runner.Run orchestrates read-lex-parse-evaluate behind one
// io.Writer-based entry point.
package generator

import (
	"fmt"
	"os"

	"github.com/projectdiscovery/gologger"

	"github.com/Pradene/lex/internal/codegen"
	"github.com/Pradene/lex/internal/compiler"
	"github.com/Pradene/lex/internal/specfile"
)

// defaultOutputPath is where the generated scanner is written when
// neither -t nor -o was given, per spec.md §6.
const defaultOutputPath = "lex.yy.c"

// Config mirrors the resolved cli.Options this package actually needs,
// kept separate so generator has no dependency on the cli package.
type Config struct {
	SpecPath   string
	Stdout     bool
	OutputPath string
	Debug      bool
}

// Run executes one compile: read specPath, parse it, build the DFA,
// and write the generated C scanner to stdout or a file as cfg directs.
func Run(cfg Config) error {
	content, err := os.ReadFile(cfg.SpecPath)
	if err != nil {
		return fmt.Errorf("failed to read spec file %q: %w", cfg.SpecPath, err)
	}

	spec, err := specfile.Parse(cfg.SpecPath, string(content))
	if err != nil {
		return fmt.Errorf("failed to parse spec file: %w", err)
	}
	gologger.Info().Msgf("%s: parsed %d rule(s)", cfg.SpecPath, len(spec.Rules))

	sources := make([]compiler.RuleSource, len(spec.Rules))
	for i, r := range spec.Rules {
		sources[i] = compiler.RuleSource{
			Name:    fmt.Sprintf("rule_%d", i),
			Pattern: r.Pattern,
			Action:  r.Action,
		}
	}

	dfa, err := compiler.Compile(sources)
	if err != nil {
		return fmt.Errorf("failed to compile rules: %w", err)
	}
	gologger.Info().Msgf("compiled DFA with %d state(s)", len(dfa.States))

	if cfg.Debug {
		gologger.Debug().Msgf("start state: %d, final states: %d", int(dfa.Start), len(dfa.Finals))
	}

	out, closeFn, err := cfg.openOutput()
	if err != nil {
		return err
	}
	defer closeFn()

	err = codegen.Emit(out, dfa, codegen.Options{
		DefinitionsCode: spec.DefinitionsCode,
		Trailer:         spec.Trailer,
	})
	if err != nil {
		return fmt.Errorf("failed to emit scanner: %w", err)
	}

	return nil
}

func (cfg Config) openOutput() (out *os.File, closeFn func(), err error) {
	if cfg.Stdout {
		return os.Stdout, func() {}, nil
	}

	path := cfg.OutputPath
	if path == "" {
		path = defaultOutputPath
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	gologger.Info().Msgf("writing scanner to %s", path)
	return f, func() { f.Close() }, nil
}
