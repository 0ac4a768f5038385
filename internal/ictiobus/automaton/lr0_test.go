package automaton

import (
	"testing"

	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
	"github.com/stretchr/testify/assert"
)

func dragonExpressionGrammar() grammar.Grammar {
	// Purple Dragon example 4.54: E -> E + T | T; T -> T * F | F;
	// F -> ( E ) | id.
	g := grammar.New("E")
	for _, t := range []string{"plus", "star", "lparen", "rparen", "id"} {
		g.AddTerm(t)
	}
	g.AddRule("E", grammar.Prod("add", "E", "plus", "T"), grammar.Prod("toT", "T"))
	g.AddRule("T", grammar.Prod("mul", "T", "star", "F"), grammar.Prod("toF", "F"))
	g.AddRule("F", grammar.Prod("paren", "lparen", "E", "rparen"), grammar.Prod("toId", "id"))
	return *g
}

func Test_BuildLR0DFA_startStateIsDiscoveredFirst(t *testing.T) {
	g := dragonExpressionGrammar()

	dfa, err := BuildLR0DFA(g)
	assert.NoError(t, err)

	names := dfa.StateNames()
	assert.NotEmpty(t, names)
	assert.Equal(t, dfa.Start, names[0])
}

func Test_BuildLR0DFA_deterministicAcrossRepeatedBuilds(t *testing.T) {
	g := dragonExpressionGrammar()

	dfa1, err := BuildLR0DFA(g)
	assert.NoError(t, err)
	dfa1.NumberStates()

	dfa2, err := BuildLR0DFA(g)
	assert.NoError(t, err)
	dfa2.NumberStates()

	assert.Equal(t, dfa1.String(), dfa2.String())
}

func Test_BuildLR0DFA_transitionsAreConsistentWithGrammar(t *testing.T) {
	g := dragonExpressionGrammar()

	dfa, err := BuildLR0DFA(g)
	assert.NoError(t, err)

	// from the start state there must be a transition on "id" (F -> id can
	// always start an expression).
	_, ok := dfa.Next(dfa.Start, "id")
	assert.True(t, ok)
}
