package specfile

import (
	"strings"
	"testing"
)

func TestParseBasicSpec(t *testing.T) {
	src := strings.Join([]string{
		"%{",
		`#include <stdio.h>`,
		"%}",
		"DIGIT [0-9]",
		"%%",
		"{DIGIT}+    { printf(\"int\\n\"); }",
		`[a-z]+      ECHO;`,
		"%%",
		"int main(void) { return yylex(); }",
	}, "\n")

	spec, err := Parse("test.l", src)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}

	if len(spec.DefinitionsCode) != 1 || spec.DefinitionsCode[0] != "#include <stdio.h>" {
		t.Errorf("DefinitionsCode = %v, want [#include <stdio.h>]", spec.DefinitionsCode)
	}
	if spec.Macros["DIGIT"] != "[0-9]" {
		t.Errorf("Macros[DIGIT] = %q, want [0-9]", spec.Macros["DIGIT"])
	}
	if len(spec.Rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(spec.Rules))
	}
	if spec.Rules[0].Pattern != "[0-9]+" {
		t.Errorf("rule 0 pattern = %q, want [0-9]+ (macro-expanded)", spec.Rules[0].Pattern)
	}
	if !strings.Contains(spec.Rules[0].Action, "printf") {
		t.Errorf("rule 0 action = %q, want it to contain printf", spec.Rules[0].Action)
	}
	if spec.Rules[1].Pattern != "[a-z]+" {
		t.Errorf("rule 1 pattern = %q, want [a-z]+", spec.Rules[1].Pattern)
	}
	if !strings.Contains(spec.Trailer, "int main") {
		t.Errorf("Trailer = %q, want it to contain int main", spec.Trailer)
	}
}

func TestParseChainedActions(t *testing.T) {
	src := strings.Join([]string{
		"%%",
		`"a"   |`,
		`"b"   { common(); }`,
		"%%",
	}, "\n")

	spec, err := Parse("test.l", src)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if len(spec.Rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(spec.Rules))
	}
	if spec.Rules[0].Action != spec.Rules[1].Action {
		t.Errorf("chained rules should share the same action text: %q vs %q",
			spec.Rules[0].Action, spec.Rules[1].Action)
	}
}

func TestParseMultilineActionBlock(t *testing.T) {
	src := strings.Join([]string{
		"%%",
		`"x"   {`,
		`    if (1) {`,
		`        foo();`,
		`    }`,
		`}`,
		"%%",
	}, "\n")

	spec, err := Parse("test.l", src)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if len(spec.Rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(spec.Rules))
	}
	if !strings.Contains(spec.Rules[0].Action, "foo();") {
		t.Errorf("action = %q, want it to contain foo();", spec.Rules[0].Action)
	}
}

func TestParsePatternWithoutActionIsError(t *testing.T) {
	src := strings.Join([]string{
		"%%",
		`"a"   |`,
	}, "\n")

	_, err := Parse("test.l", src)
	if err == nil {
		t.Fatal("expected error for dangling pattern, got nil")
	}
}

func TestMacroCycleIsDetected(t *testing.T) {
	src := strings.Join([]string{
		"A {B}",
		"B {A}",
		"%%",
		`{A}x   ECHO;`,
	}, "\n")

	_, err := Parse("test.l", src)
	if err == nil {
		t.Fatal("expected error for macro cycle, got nil")
	}
}

func TestSplitPatternActionRespectsBrackets(t *testing.T) {
	pattern, action, err := splitPatternAction(`[a b]  ECHO;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pattern != "[a b]" {
		t.Errorf("pattern = %q, want [a b]", pattern)
	}
	if action != "ECHO;" {
		t.Errorf("action = %q, want ECHO;", action)
	}
}
