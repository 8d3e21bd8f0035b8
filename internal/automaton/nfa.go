package automaton

import "sort"

// StateID identifies a node inside one automaton. Ids are dense from 0
// and scoped to the containing NFA or DFA; they are remapped whenever
// two automata are combined.
type StateID int

// Action is an opaque block of target-language source text associated
// with an accepting state. The emitter pastes it verbatim; nothing in
// this package inspects it.
type Action struct {
	Text     string
	RuleName string // originating token/rule name, for diagnostics only
	Priority int    // declaration order; the lower Priority wins ties in subset construction
}

// NFA is a non-deterministic finite automaton: multiple transitions per
// (state, symbol) are allowed, and Epsilon transitions may appear.
// States, Transitions and Finals are always consistent with each other
// per the invariant in spec.md §3: every StateID mentioned anywhere
// belongs to States.
type NFA struct {
	Start       StateID
	States      []StateID
	Alphabet    []byte // sorted, deduplicated
	Transitions map[StateID]map[Symbol][]StateID
	Finals      map[StateID]bool
	Actions     map[StateID]Action
}

// New returns an NFA with a single start state and no transitions.
// States and transitions are then added to it in place; Renumbered
// returns a shifted copy, and Merge copies another NFA's contents into
// the receiver without modifying the source.
func New() *NFA {
	nfa := &NFA{
		Transitions: make(map[StateID]map[Symbol][]StateID),
		Finals:      make(map[StateID]bool),
		Actions:     make(map[StateID]Action),
	}
	nfa.Start = nfa.AddState()
	return nfa
}

// AddState allocates a new, dense StateID and returns it.
func (n *NFA) AddState() StateID {
	id := StateID(len(n.States))
	n.States = append(n.States, id)
	n.Transitions[id] = make(map[Symbol][]StateID)
	return id
}

// AddTransition records a (from, symbol) -> to edge, tracking the
// symbol's referenced bytes in Alphabet when it is not Epsilon.
func (n *NFA) AddTransition(from StateID, sym Symbol, to StateID) {
	n.Transitions[from][sym] = append(n.Transitions[from][sym], to)
	switch sym.Kind {
	case SymChar:
		n.addAlphabet(sym.Char)
	case SymCharClass:
		for i := 0; i < len(sym.Class); i++ {
			n.addAlphabet(sym.Class[i])
		}
	}
}

// AddEpsilon records an epsilon edge from -> to.
func (n *NFA) AddEpsilon(from, to StateID) {
	n.AddTransition(from, Epsilon(), to)
}

func (n *NFA) addAlphabet(c byte) {
	i := sort.Search(len(n.Alphabet), func(i int) bool { return n.Alphabet[i] >= c })
	if i < len(n.Alphabet) && n.Alphabet[i] == c {
		return
	}
	n.Alphabet = append(n.Alphabet, 0)
	copy(n.Alphabet[i+1:], n.Alphabet[i:])
	n.Alphabet[i] = c
}

// Targets returns every state reachable from `from` on exactly `sym`
// (no epsilon closure applied).
func (n *NFA) Targets(from StateID, sym Symbol) []StateID {
	return n.Transitions[from][sym]
}

// EpsilonTargets returns every state reachable from `from` by a single
// epsilon transition.
func (n *NFA) EpsilonTargets(from StateID) []StateID {
	return n.Transitions[from][Epsilon()]
}

// Renumbered returns a deep copy of n with every StateID shifted by
// offset, so it can be merged into a larger automaton without id
// collisions. It never mutates n.
func (n *NFA) Renumbered(offset StateID) *NFA {
	out := &NFA{
		Transitions: make(map[StateID]map[Symbol][]StateID, len(n.Transitions)),
		Finals:      make(map[StateID]bool, len(n.Finals)),
		Actions:     make(map[StateID]Action, len(n.Actions)),
		Alphabet:    append([]byte(nil), n.Alphabet...),
	}
	remap := func(id StateID) StateID { return id + offset }

	for _, id := range n.States {
		out.States = append(out.States, remap(id))
	}
	for from, edges := range n.Transitions {
		newEdges := make(map[Symbol][]StateID, len(edges))
		for sym, targets := range edges {
			newTargets := make([]StateID, len(targets))
			for i, t := range targets {
				newTargets[i] = remap(t)
			}
			newEdges[sym] = newTargets
		}
		out.Transitions[remap(from)] = newEdges
	}
	for id := range n.Finals {
		out.Finals[remap(id)] = true
	}
	for id, act := range n.Actions {
		out.Actions[remap(id)] = act
	}
	out.Start = remap(n.Start)
	return out
}

// Merge copies every state, transition, final flag and action from src
// into n, assuming src's ids have already been renumbered to avoid
// collisions with n's own states.
func (n *NFA) Merge(src *NFA) {
	n.States = append(n.States, src.States...)
	for from, edges := range src.Transitions {
		if n.Transitions[from] == nil {
			n.Transitions[from] = make(map[Symbol][]StateID)
		}
		for sym, targets := range edges {
			n.Transitions[from][sym] = append(n.Transitions[from][sym], targets...)
		}
	}
	for id := range src.Finals {
		n.Finals[id] = true
	}
	for id, act := range src.Actions {
		n.Actions[id] = act
	}
	for _, c := range src.Alphabet {
		n.addAlphabet(c)
	}
}

// NextOffset returns the smallest unused StateID in n, i.e. where a
// freshly merged fragment's states should start from.
func (n *NFA) NextOffset() StateID {
	return StateID(len(n.States))
}
