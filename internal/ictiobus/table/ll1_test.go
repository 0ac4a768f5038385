package table

import (
	"testing"

	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
	"github.com/darshimo/ruly2/internal/ictiobus/rerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ll1Grammar builds S -> a A | b; A -> c A | epsilon, the textbook example
// of a nullable non-terminal whose predict set is FIRST(A) plus FOLLOW(A).
func ll1Grammar() grammar.Grammar {
	g := grammar.New("S")
	g.AddTerm("a")
	g.AddTerm("b")
	g.AddTerm("c")
	g.AddRule("S", grammar.Prod("toA", "a", "A"), grammar.Prod("toB", "b"))
	g.AddRule("A", grammar.Prod("toC", "c", "A"), grammar.Prod("empty"))
	return *g
}

func Test_BuildLL1Table_predictsOnFirstSet(t *testing.T) {
	g := ll1Grammar()

	tbl, err := BuildLL1Table(g)
	require.NoError(t, err)

	prod, ok := tbl.Get("S", "a")
	require.True(t, ok)
	assert.Equal(t, "toA", prod.Name)

	prod, ok = tbl.Get("S", "b")
	require.True(t, ok)
	assert.Equal(t, "toB", prod.Name)
}

func Test_BuildLL1Table_nullableNonTerminalPredictsOnFollowSet(t *testing.T) {
	g := ll1Grammar()

	tbl, err := BuildLL1Table(g)
	require.NoError(t, err)

	prod, ok := tbl.Get("A", "c")
	require.True(t, ok)
	assert.Equal(t, "toC", prod.Name)

	// A's empty production is not in FIRST(A); it is only reachable through
	// FOLLOW(A), which is {$} here since A only ever appears at the end of
	// S's productions.
	prod, ok = tbl.Get("A", "$")
	require.True(t, ok)
	assert.Equal(t, "empty", prod.Name)

	_, ok = tbl.Get("A", "a")
	assert.False(t, ok)
}

func Test_BuildLL1Table_conflictingGrammarReturnsPredictConflict(t *testing.T) {
	// S4 predicts S->A a and S->d c both on lookahead "d" since FIRST(A) =
	// {d}: not LL(1).
	g := conflictingGrammar()

	_, err := BuildLL1Table(g)
	require.Error(t, err)

	var conflict *rerr.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, rerr.PredictConflict, conflict.Kind)
	assert.Equal(t, "S", conflict.State)
	assert.Equal(t, "d", conflict.Symbol)
}

func Test_BuildLL1Table_invalidGrammarIsRejected(t *testing.T) {
	g := grammar.New("S")
	g.AddTerm("a")
	g.AddRule("S", grammar.Prod("bad", "a", "undeclared"))

	_, err := BuildLL1Table(*g)
	assert.Error(t, err)
}
