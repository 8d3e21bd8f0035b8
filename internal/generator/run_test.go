package generator

import (
	"os"
	"strings"
	"testing"

	"github.com/Pradene/lex/internal/codegen"
	"github.com/Pradene/lex/internal/compiler"
	"github.com/Pradene/lex/internal/specfile"
)

// TestEndToEndCounterSpec exercises the full parse -> compile -> emit
// pipeline against testdata/counter.l, the way lexer_test.go in the
// teacher repo drives a real grammar through the whole lexer.
func TestEndToEndCounterSpec(t *testing.T) {
	content, err := os.ReadFile("../../testdata/counter.l")
	if err != nil {
		t.Fatalf("failed to read testdata spec: %v", err)
	}

	spec, err := specfile.Parse("counter.l", string(content))
	if err != nil {
		t.Fatalf("specfile.Parse: unexpected error: %v", err)
	}
	if len(spec.Rules) != 3 {
		t.Fatalf("got %d rules, want 3", len(spec.Rules))
	}

	sources := make([]compiler.RuleSource, len(spec.Rules))
	for i, r := range spec.Rules {
		sources[i] = compiler.RuleSource{Pattern: r.Pattern, Action: r.Action}
	}

	dfa, err := compiler.Compile(sources)
	if err != nil {
		t.Fatalf("compiler.Compile: unexpected error: %v", err)
	}
	if dfa.Start < 0 || len(dfa.States) == 0 {
		t.Fatalf("compiled DFA has no states")
	}

	var buf strings.Builder
	err = codegen.Emit(&buf, dfa, codegen.Options{
		DefinitionsCode: spec.DefinitionsCode,
		Trailer:         spec.Trailer,
	})
	if err != nil {
		t.Fatalf("codegen.Emit: unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "static int words = 0;") {
		t.Error("emitted source missing definitions code block")
	}
	if !strings.Contains(out, "digits++;") {
		t.Error("emitted source missing digit-rule action")
	}
	if !strings.Contains(out, "int main(void)") {
		t.Error("emitted source missing trailer")
	}
}
