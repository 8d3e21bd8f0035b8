package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNFABasicConstruction(t *testing.T) {
	nfa := New()
	s1 := nfa.AddState()
	nfa.AddTransition(nfa.Start, Char('a'), s1)
	nfa.Finals[s1] = true

	require.Len(t, nfa.States, 2)
	assert.Equal(t, []StateID{s1}, nfa.Targets(nfa.Start, Char('a')))
	assert.True(t, nfa.Finals[s1])
	assert.Equal(t, []byte{'a'}, nfa.Alphabet)
}

func TestNFARenumberedDoesNotMutateOriginal(t *testing.T) {
	nfa := New()
	s1 := nfa.AddState()
	nfa.AddTransition(nfa.Start, Char('x'), s1)
	nfa.Finals[s1] = true
	nfa.Actions[s1] = Action{Text: "act", RuleName: "R", Priority: 0}

	shifted := nfa.Renumbered(10)

	require.Equal(t, StateID(10), shifted.Start)
	assert.Equal(t, []StateID{10, 11}, shifted.States)
	assert.True(t, shifted.Finals[11])
	assert.Equal(t, "act", shifted.Actions[11].Text)

	// original untouched
	assert.Equal(t, StateID(0), nfa.Start)
	assert.True(t, nfa.Finals[s1])
	assert.Equal(t, []StateID{s1}, nfa.Targets(nfa.Start, Char('x')))
}

func TestNFAMergeCombinesDeeplyNestedTransitions(t *testing.T) {
	base := New()
	baseFinal := base.AddState()
	base.AddTransition(base.Start, Char('a'), baseFinal)
	base.Finals[baseFinal] = true

	other := New()
	otherFinal := other.AddState()
	other.AddTransition(other.Start, Char('b'), otherFinal)
	other.Finals[otherFinal] = true

	offset := base.NextOffset()
	shifted := other.Renumbered(offset)
	base.Merge(shifted)
	base.AddEpsilon(base.Start, shifted.Start)

	require.Len(t, base.States, 4)
	assert.ElementsMatch(t, []byte{'a', 'b'}, base.Alphabet)
	assert.True(t, base.Finals[shifted.Start+1])
	assert.Equal(t, []StateID{shifted.Start}, base.EpsilonTargets(base.Start))
}

func TestSymbolMatchesCharClass(t *testing.T) {
	sym := CharClass([]byte{'c', 'a', 'b', 'a'})
	assert.Equal(t, []byte{'a', 'b', 'c'}, sym.ClassBytes())
	assert.True(t, sym.Matches('b'))
	assert.False(t, sym.Matches('z'))
}

func TestEpsilonSymbolIsDistinctFromNulChar(t *testing.T) {
	eps := Epsilon()
	nul := Char(0)
	assert.NotEqual(t, eps, nul)
	assert.Equal(t, SymEpsilon, eps.Kind)
	assert.Equal(t, SymChar, nul.Kind)
}
