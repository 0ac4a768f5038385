package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		build     func() *Grammar
		expectErr bool
	}{
		{
			name:      "empty grammar",
			build:     func() *Grammar { return New("S") },
			expectErr: true,
		},
		{
			name: "undeclared symbol in rhs",
			build: func() *Grammar {
				g := New("S")
				g.AddTerm("a")
				g.AddRule("S", Prod("p", "a", "b"))
				return g
			},
			expectErr: true,
		},
		{
			name: "non-terminal with no production is impossible to construct directly, but a dangling reference is not",
			build: func() *Grammar {
				g := New("S")
				g.AddTerm("a")
				g.AddRule("S", Prod("p", "A"))
				return g
			},
			expectErr: true,
		},
		{
			name: "valid single rule grammar",
			build: func() *Grammar {
				g := New("S")
				g.AddTerm("a")
				g.AddRule("S", Prod("p", "a"))
				return g
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := tc.build()
			err := g.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_Grammar_AddRule_panicsOnDuplicateProductionName(t *testing.T) {
	g := New("S")
	g.AddTerm("a")
	assert.Panics(t, func() {
		g.AddRule("S", Prod("p", "a"), Prod("p", "a", "a"))
	})
}

func Test_Grammar_Augmented(t *testing.T) {
	g := New("S")
	g.AddTerm("a")
	g.AddRule("S", Prod("only", "a"))

	aug := g.Augmented()

	assert.True(t, aug.IsAugmented())
	assert.False(t, g.IsAugmented())

	prod, ok := aug.ProductionByRuleID(0)
	assert.True(t, ok)
	assert.Equal(t, 0, prod.RuleID)
	assert.Equal(t, []string{"S", EndOfInput}, prod.RHS)
}

func Test_Grammar_Fingerprint_stableAcrossEquivalentBuilds(t *testing.T) {
	build := func() Grammar {
		g := New("S")
		g.AddTerm("a")
		g.AddTerm("b")
		g.AddRule("S", Prod("p1", "a", "S", "b"), Prod("p2", "a", "b"))
		return *g
	}

	g1 := build()
	g2 := build()

	assert.Equal(t, g1.Fingerprint(), g2.Fingerprint())
}

func Test_Grammar_Fingerprint_differsOnRuleChange(t *testing.T) {
	g1 := New("S")
	g1.AddTerm("a")
	g1.AddRule("S", Prod("p", "a"))

	g2 := New("S")
	g2.AddTerm("a")
	g2.AddTerm("b")
	g2.AddRule("S", Prod("p", "a", "b"))

	assert.NotEqual(t, g1.Fingerprint(), g2.Fingerprint())
}

func Test_Production_IsEpsilon(t *testing.T) {
	withRHS := Production{RuleID: 1, Name: "p", NonTerminal: "A", RHS: []string{"a"}}
	withoutRHS := Production{RuleID: 2, Name: "q", NonTerminal: "A"}

	assert.False(t, withRHS.IsEpsilon())
	assert.True(t, withoutRHS.IsEpsilon())
}
