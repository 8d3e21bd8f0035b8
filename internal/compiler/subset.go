package compiler

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Pradene/lex/internal/automaton"
)

// BuildDFA performs subset construction over nfa, the way the teacher's
// NFAToDFAWithTokens walks a BFS queue of NFA-state subsets, except
// subsets are keyed by a sorted string here so automaton.StateID stays
// a plain int across both NFA and DFA.
//
// Rule-priority ties (a DFA state whose NFA subset contains more than
// one final state) are broken by Priority, lowest wins, following the
// "first rule declared wins" convention recovered from original_source's
// dfa.rs (see DESIGN.md).
func BuildDFA(nfa *automaton.NFA) *automaton.DFA {
	dfa := automaton.NewDFA()

	startSet := epsilonClosure(nfa, map[automaton.StateID]bool{nfa.Start: true})
	startKey := setKey(startSet)

	ids := make(map[string]automaton.StateID)
	nextID := automaton.StateID(0)
	ids[startKey] = nextID
	dfa.Start = nextID
	dfa.AddState(nextID)
	nextID++

	queue := []map[automaton.StateID]bool{startSet}
	keys := []string{startKey}

	for len(queue) > 0 {
		subset, key := queue[0], keys[0]
		queue, keys = queue[1:], keys[1:]

		from := ids[key]
		setFinalAndAction(dfa, from, nfa, subset)

		byByte := make(map[byte]map[automaton.StateID]bool)
		for _, c := range nfa.Alphabet {
			targets := make(map[automaton.StateID]bool)
			for state := range subset {
				for _, sym := range symbolsAt(nfa, state) {
					if sym.Kind != automaton.SymEpsilon && sym.Matches(c) {
						for _, t := range nfa.Targets(state, sym) {
							targets[t] = true
						}
					}
				}
			}
			if len(targets) > 0 {
				byByte[c] = targets
			}
		}

		for _, c := range nfa.Alphabet {
			targets, ok := byByte[c]
			if !ok {
				continue
			}
			closure := epsilonClosure(nfa, targets)
			k := setKey(closure)
			to, seen := ids[k]
			if !seen {
				to = nextID
				ids[k] = to
				dfa.AddState(to)
				nextID++
				queue = append(queue, closure)
				keys = append(keys, k)
			}
			dfa.AddTransition(from, c, to)
		}
	}

	return dfa
}

// symbolsAt returns the distinct non-epsilon symbols leaving state,
// reconstructed from the transition map's keys.
func symbolsAt(nfa *automaton.NFA, state automaton.StateID) []automaton.Symbol {
	out := make([]automaton.Symbol, 0, len(nfa.Transitions[state]))
	for sym := range nfa.Transitions[state] {
		out = append(out, sym)
	}
	return out
}

// setFinalAndAction marks dfa state `from` as accepting and attaches
// the winning action if any NFA state in subset is final.
func setFinalAndAction(dfa *automaton.DFA, from automaton.StateID, nfa *automaton.NFA, subset map[automaton.StateID]bool) {
	best, have, final := automaton.Action{}, false, false
	for state := range subset {
		if !nfa.Finals[state] {
			continue
		}
		final = true
		act, ok := nfa.Actions[state]
		if !ok {
			continue
		}
		if !have || act.Priority < best.Priority {
			best, have = act, true
		}
	}
	if final {
		dfa.Finals[from] = true
	}
	if have {
		dfa.Actions[from] = best
	}
}

// epsilonClosure extends a set of NFA states with every state reachable
// by zero or more epsilon transitions.
func epsilonClosure(nfa *automaton.NFA, states map[automaton.StateID]bool) map[automaton.StateID]bool {
	closure := make(map[automaton.StateID]bool, len(states))
	stack := make([]automaton.StateID, 0, len(states))
	for s := range states {
		closure[s] = true
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range nfa.EpsilonTargets(s) {
			if !closure[next] {
				closure[next] = true
				stack = append(stack, next)
			}
		}
	}
	return closure
}

// setKey renders a state subset as a canonical, sorted string so
// identical subsets collapse to the same DFA state regardless of
// iteration order over the source map.
func setKey(set map[automaton.StateID]bool) string {
	ids := make([]int, 0, len(set))
	for s := range set {
		ids = append(ids, int(s))
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
