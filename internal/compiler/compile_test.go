package compiler

import "testing"

func TestCompileSimpleRules(t *testing.T) {
	dfa, err := Compile([]RuleSource{
		{Name: "DIGIT", Pattern: "[0-9]+", Action: "digit"},
		{Name: "IDENT", Pattern: "[a-zA-Z_][a-zA-Z0-9_]*", Action: "ident"},
	})
	if err != nil {
		t.Fatalf("Compile: unexpected error: %v", err)
	}

	tests := []struct {
		input    string
		wantRule string
	}{
		{"123", "DIGIT"},
		{"abc", "IDENT"},
		{"a1", "IDENT"},
	}

	for _, tt := range tests {
		state := dfa.Start
		var lastRule string
		ok := true
		for i := 0; i < len(tt.input); i++ {
			next, found := dfa.NextState(state, tt.input[i])
			if !found {
				ok = false
				break
			}
			state = next
		}
		if !ok {
			t.Errorf("input %q: rejected, want rule %q", tt.input, tt.wantRule)
			continue
		}
		if !dfa.IsAccepting(state) {
			t.Errorf("input %q: final state not accepting", tt.input)
			continue
		}
		act, _ := dfa.ActionFor(state)
		lastRule = act.RuleName
		if lastRule != tt.wantRule {
			t.Errorf("input %q: rule = %q, want %q", tt.input, lastRule, tt.wantRule)
		}
	}
}

func TestCompilePriorityTiebreak(t *testing.T) {
	// "if" matches both the keyword rule and the general identifier
	// rule; the keyword rule (declared first) must win.
	dfa, err := Compile([]RuleSource{
		{Name: "IF", Pattern: "if", Action: "kw_if"},
		{Name: "IDENT", Pattern: "[a-zA-Z]+", Action: "ident"},
	})
	if err != nil {
		t.Fatalf("Compile: unexpected error: %v", err)
	}

	state := dfa.Start
	for i := 0; i < len("if"); i++ {
		next, found := dfa.NextState(state, "if"[i])
		if !found {
			t.Fatalf("input %q: rejected unexpectedly", "if")
		}
		state = next
	}
	if !dfa.IsAccepting(state) {
		t.Fatalf("final state not accepting")
	}
	act, _ := dfa.ActionFor(state)
	if act.RuleName != "IF" {
		t.Errorf("rule = %q, want IF (first-declared wins the tie)", act.RuleName)
	}
}

func TestCompileRejectsInvalidPattern(t *testing.T) {
	_, err := Compile([]RuleSource{
		{Name: "BAD", Pattern: "(a", Action: "x"},
	})
	if err == nil {
		t.Fatal("expected error for unmatched paren, got nil")
	}
}
