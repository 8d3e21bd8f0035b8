package compiler

import (
	"fmt"

	"github.com/Pradene/lex/internal/automaton"
	"github.com/Pradene/lex/internal/regex"
)

// RuleSource is one not-yet-parsed rule, as read from a .l spec file.
type RuleSource struct {
	Name    string
	Pattern string
	Action  string
}

// Compile parses every rule's pattern and builds the scanner's DFA in
// one pass, the way runner.go drives the teacher's parse-then-compile
// pipeline end to end.
func Compile(sources []RuleSource) (*automaton.DFA, error) {
	rules := make([]Rule, 0, len(sources))
	for i, src := range sources {
		node, err := regex.Parse(src.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", src.Name, err)
		}
		rules = append(rules, Rule{
			Name:     src.Name,
			Pattern:  node,
			Action:   src.Action,
			Priority: i,
		})
	}

	nfa := BuildNFA(rules)
	return BuildDFA(nfa), nil
}
