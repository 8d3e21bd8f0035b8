// Package compiler turns a parsed regex AST into an NFA fragment
// (Thompson's construction), unions the per-rule fragments into a
// single NFA, and performs subset construction to produce the scanner's
// DFA. It generalizes the teacher's CompilePatternToNFA /
// NFAToDFAWithTokens pair from grammar.LexicalPattern to regex.Node.
package compiler

import (
	"github.com/Pradene/lex/internal/automaton"
	"github.com/Pradene/lex/internal/regex"
)

// buildFragment compiles a single regex AST into a standalone NFA
// fragment with exactly one start state and one final state (the state
// compileNode returns for the whole pattern), mirroring the teacher's
// one-fragment-per-pattern shape.
func buildFragment(node regex.Node) *automaton.NFA {
	nfa := automaton.New()
	end := compileNode(nfa, node, nfa.Start)
	nfa.Finals[end] = true
	return nfa
}

// compileNode emits states/transitions for node starting at `from` and
// returns the state reached after matching node.
func compileNode(nfa *automaton.NFA, node regex.Node, from automaton.StateID) automaton.StateID {
	switch n := node.(type) {
	case regex.Empty:
		return from

	case regex.Char:
		to := nfa.AddState()
		nfa.AddTransition(from, automaton.Char(n.Byte), to)
		return to

	case regex.CharClass:
		to := nfa.AddState()
		nfa.AddTransition(from, automaton.CharClass(n.Set), to)
		return to

	case regex.NegatedCharClass:
		to := nfa.AddState()
		nfa.AddTransition(from, automaton.CharClass(negatedASCII(n.Set)), to)
		return to

	case regex.Dot:
		to := nfa.AddState()
		nfa.AddTransition(from, automaton.CharClass(negatedASCII([]byte{'\n'})), to)
		return to

	case regex.StartAnchor:
		// Anchors consume no input and compile to nothing: no state or
		// edge is added. Neither the DFA nor the emitted scanner checks
		// the input position, so '^' and '$' are not enforced at run
		// time and a pattern behaves as if they were absent.
		return from

	case regex.EndAnchor:
		return from

	case regex.Concat:
		mid := compileNode(nfa, n.Left, from)
		return compileNode(nfa, n.Right, mid)

	case regex.Union:
		start := nfa.AddState()
		end := nfa.AddState()
		nfa.AddEpsilon(from, start)

		leftStart := nfa.AddState()
		nfa.AddEpsilon(start, leftStart)
		leftEnd := compileNode(nfa, n.Left, leftStart)
		nfa.AddEpsilon(leftEnd, end)

		rightStart := nfa.AddState()
		nfa.AddEpsilon(start, rightStart)
		rightEnd := compileNode(nfa, n.Right, rightStart)
		nfa.AddEpsilon(rightEnd, end)

		return end

	case regex.Option:
		end := nfa.AddState()
		nfa.AddEpsilon(from, end)
		innerEnd := compileNode(nfa, n.Inner, from)
		nfa.AddEpsilon(innerEnd, end)
		return end

	case regex.Kleene:
		loopStart := nfa.AddState()
		end := nfa.AddState()
		nfa.AddEpsilon(from, loopStart)
		nfa.AddEpsilon(loopStart, end)
		innerEnd := compileNode(nfa, n.Inner, loopStart)
		nfa.AddEpsilon(innerEnd, loopStart)
		return end

	case regex.Plus:
		loopStart := nfa.AddState()
		nfa.AddEpsilon(from, loopStart)
		innerEnd := compileNode(nfa, n.Inner, loopStart)
		end := nfa.AddState()
		nfa.AddEpsilon(innerEnd, loopStart)
		nfa.AddEpsilon(innerEnd, end)
		return end

	case regex.Bounded:
		return compileBounded(nfa, n, from)

	default:
		panic("compiler: unknown regex node type")
	}
}

// compileBounded expands {m,n} into m mandatory copies followed by
// either (n-m) optional copies, or (if unbounded) a trailing Kleene
// star, per spec.md §4.1's desugaring note.
func compileBounded(nfa *automaton.NFA, n regex.Bounded, from automaton.StateID) automaton.StateID {
	cur := from
	for i := 0; i < n.Min; i++ {
		cur = compileNode(nfa, n.Inner, cur)
	}

	if n.Max == nil {
		return compileNode(nfa, regex.Kleene{Inner: n.Inner}, cur)
	}

	optional := *n.Max - n.Min
	for i := 0; i < optional; i++ {
		cur = compileNode(nfa, regex.Option{Inner: n.Inner}, cur)
	}
	return cur
}

// negatedASCII returns the complement of set within the 7-bit ASCII
// alphabet (spec.md's Non-goals exclude Unicode beyond ASCII).
func negatedASCII(set []byte) []byte {
	in := make([]bool, 128)
	for _, c := range set {
		if c < 128 {
			in[c] = true
		}
	}
	out := make([]byte, 0, 128)
	for c := 0; c < 128; c++ {
		if !in[c] {
			out = append(out, byte(c))
		}
	}
	return out
}

// Rule is one lexical rule: a parsed pattern plus the source text of
// its action, in declaration order. Priority ties during subset
// construction favor the lowest-indexed rule (first declared wins),
// matching original_source's scanner-generator convention.
type Rule struct {
	Name     string
	Pattern  regex.Node
	Action   string
	Priority int
}

// BuildNFA compiles every rule's pattern into its own fragment and
// unions them behind a shared start state, the way nfaFromAlternative
// combines sibling fragments in the teacher but generalized to an
// arbitrary number of rules instead of exactly two.
func BuildNFA(rules []Rule) *automaton.NFA {
	nfa := automaton.New()

	for _, rule := range rules {
		frag := buildFragment(rule.Pattern)
		offset := nfa.NextOffset()
		shifted := frag.Renumbered(offset)

		nfa.Merge(shifted)
		nfa.AddEpsilon(nfa.Start, shifted.Start)

		for finalID := range shifted.Finals {
			nfa.Actions[finalID] = automaton.Action{
				Text:     rule.Action,
				RuleName: rule.Name,
				Priority: rule.Priority,
			}
		}
	}

	return nfa
}
