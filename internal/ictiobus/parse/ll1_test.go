package parse

import (
	"testing"

	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
	"github.com/darshimo/ruly2/internal/ictiobus/lex"
	"github.com/darshimo/ruly2/internal/ictiobus/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ll1ParserGrammar mirrors table.ll1Grammar: S -> a A | b; A -> c A | epsilon.
func ll1ParserGrammar() grammar.Grammar {
	g := grammar.New("S")
	g.AddTerm("a")
	g.AddTerm("b")
	g.AddTerm("c")
	g.AddRule("S", grammar.Prod("toA", "a", "A"), grammar.Prod("toB", "b"))
	g.AddRule("A", grammar.Prod("toC", "c", "A"), grammar.Prod("empty"))
	return *g
}

func ll1ParserLexer() *lex.Lexer {
	lx := lex.NewLexer(`[ \t]*`)
	lx.AddClass("a", "a")
	lx.AddClass("b", "b")
	lx.AddClass("c", "c")
	_ = lx.AddPattern("a", `a`, false)
	_ = lx.AddPattern("b", `b`, false)
	_ = lx.AddPattern("c", `c`, false)
	return lx
}

func Test_LL1Parser_expandsNullableTail(t *testing.T) {
	g := ll1ParserGrammar()

	tbl, err := table.BuildLL1Table(g)
	require.NoError(t, err)

	toks, err := ll1ParserLexer().Lex("a c c")
	require.NoError(t, err)

	p := NewLL1(tbl, g)
	tree, err := p.Parse(lex.NewTokenStream(toks))
	require.NoError(t, err)

	assert.Equal(t, "S", tree.Value)
	assert.Equal(t, "toA", tree.ProductionName)
	require.Len(t, tree.Children, 2)

	a := tree.Children[0]
	assert.True(t, a.Terminal)
	assert.Equal(t, "a", a.Value)

	chain := tree.Children[1]
	assert.Equal(t, "toC", chain.ProductionName)
	require.Len(t, chain.Children, 2)
	assert.Equal(t, "c", chain.Children[0].Value)

	inner := chain.Children[1]
	assert.Equal(t, "toC", inner.ProductionName)
	require.Len(t, inner.Children, 2)
	assert.Equal(t, "c", inner.Children[0].Value)

	tail := inner.Children[1]
	assert.Equal(t, "empty", tail.ProductionName)
}

func Test_LL1Parser_altWithoutTail(t *testing.T) {
	g := ll1ParserGrammar()

	tbl, err := table.BuildLL1Table(g)
	require.NoError(t, err)

	toks, err := ll1ParserLexer().Lex("b")
	require.NoError(t, err)

	p := NewLL1(tbl, g)
	tree, err := p.Parse(lex.NewTokenStream(toks))
	require.NoError(t, err)

	assert.Equal(t, "toB", tree.ProductionName)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "b", tree.Children[0].Value)
}

func Test_LL1Parser_noTableEntryIsParseError(t *testing.T) {
	g := ll1ParserGrammar()

	tbl, err := table.BuildLL1Table(g)
	require.NoError(t, err)

	toks, err := ll1ParserLexer().Lex("c")
	require.NoError(t, err)

	p := NewLL1(tbl, g)
	_, err = p.Parse(lex.NewTokenStream(toks))
	assert.Error(t, err)
}

func Test_LL1Parser_trailingInputIsParseError(t *testing.T) {
	g := ll1ParserGrammar()

	tbl, err := table.BuildLL1Table(g)
	require.NoError(t, err)

	toks, err := ll1ParserLexer().Lex("b b")
	require.NoError(t, err)

	p := NewLL1(tbl, g)
	_, err = p.Parse(lex.NewTokenStream(toks))
	assert.Error(t, err)
}
