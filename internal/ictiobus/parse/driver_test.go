package parse

import (
	"testing"

	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
	"github.com/darshimo/ruly2/internal/ictiobus/lex"
	"github.com/darshimo/ruly2/internal/ictiobus/table"
	"github.com/darshimo/ruly2/internal/ictiobus/types"
	"github.com/stretchr/testify/assert"
)

// bracketLexer builds the S1 lexer: single-character "<" and ">" terminals,
// no whitespace in the input.
func bracketLexer() *lex.Lexer {
	lx := lex.NewLexer(`[ \t]*`)
	lx.AddClass("l", "<")
	lx.AddClass("r", ">")
	_ = lx.AddPattern("l", `<`, false)
	_ = lx.AddPattern("r", `>`, false)
	return lx
}

func bracketGrammar() grammar.Grammar {
	g := grammar.New("S")
	g.AddTerm("l")
	g.AddTerm("r")
	g.AddRule("S", grammar.Prod("pair", "A", "A"))
	g.AddRule("A", grammar.Prod("nested", "l", "A", "r"), grammar.Prod("flat", "l", "r"))
	return *g
}

func Test_Parse_LR0_balancedBrackets(t *testing.T) {
	// S1: S -> A A; A -> l A r | l r. Input "<<>><>" parses to
	// S(A(l, A(l, r), r), A(l, r)).
	g := bracketGrammar()

	tbl, err := table.BuildLR0Table(g)
	assert.NoError(t, err)

	lx := bracketLexer()
	toks, err := lx.Lex("<<>><>")
	assert.NoError(t, err)

	p := New(tbl, g, types.ParserLR0)
	tree, err := p.Parse(lex.NewTokenStream(toks))
	assert.NoError(t, err)

	assert.Equal(t, "S", tree.Value)
	assert.Equal(t, "pair", tree.ProductionName)
	if assert.Len(t, tree.Children, 2) {
		first := tree.Children[0]
		assert.Equal(t, "nested", first.ProductionName)
		if assert.Len(t, first.Children, 3) {
			assert.Equal(t, "flat", first.Children[1].ProductionName)
		}

		second := tree.Children[1]
		assert.Equal(t, "flat", second.ProductionName)
	}
}

func Test_Parse_emptyInputOnNonNullableStart(t *testing.T) {
	// S5: empty input against a grammar with a non-nullable start yields
	// ParseError.
	g := bracketGrammar()

	tbl, err := table.BuildLR0Table(g)
	assert.NoError(t, err)

	p := New(tbl, g, types.ParserLR0)
	_, err = p.Parse(lex.NewTokenStream(nil))
	assert.Error(t, err)
}

func arithGrammar() grammar.Grammar {
	g := grammar.New("E")
	g.AddTerm("plus")
	g.AddTerm("star")
	g.AddTerm("n")
	g.AddRule("E", grammar.Prod("add", "E", "plus", "T"), grammar.Prod("toT", "T"))
	g.AddRule("T", grammar.Prod("mul", "T", "star", "n"), grammar.Prod("toN", "n"))
	return *g
}

func arithLexer() *lex.Lexer {
	lx := lex.NewLexer(`[ \t]*`)
	lx.AddClass("plus", "+")
	lx.AddClass("star", "*")
	lx.AddClass("n", "number")
	_ = lx.AddPattern("n", `[0-9]+`, false)
	_ = lx.AddPattern("plus", `\+`, false)
	_ = lx.AddPattern("star", `\*`, false)
	return lx
}

func Test_Parse_SLR_leftAssociativeArithmetic(t *testing.T) {
	// S2: E -> E + T | T; T -> T * N | N. Input "1*2*3+4*5+6" parses as
	// (((1*2)*3) + (4*5)) + 6, left-associative.
	g := arithGrammar()

	tbl, err := table.BuildSLRTable(g)
	assert.NoError(t, err)

	lx := arithLexer()
	toks, err := lx.Lex("1*2*3+4*5+6")
	assert.NoError(t, err)

	p := New(tbl, g, types.ParserSLR1)
	tree, err := p.Parse(lex.NewTokenStream(toks))
	assert.NoError(t, err)

	assert.Equal(t, "E", tree.Value)
	assert.Equal(t, "add", tree.ProductionName)
	assert.Equal(t, "6", tree.Children[2].Children[0].Source.Lexeme())

	outerLeft := tree.Children[0]
	assert.Equal(t, "add", outerLeft.ProductionName)
}

func assignGrammar() grammar.Grammar {
	g := grammar.New("A")
	g.AddTerm("id")
	g.AddTerm("eq")
	g.AddTerm("plus")
	g.AddTerm("n")
	g.AddRule("A", grammar.Prod("assign", "E", "eq", "E"), grammar.Prod("toId", "id"))
	g.AddRule("E", grammar.Prod("add", "E", "plus", "T"), grammar.Prod("toT", "T"))
	g.AddRule("T", grammar.Prod("toN", "n"), grammar.Prod("toId", "id"))
	return *g
}

func Test_Parse_LR1_buildsWhereSLRConflicts(t *testing.T) {
	// S3: A -> E = E | id; E -> E + T | T; T -> N | id. Builds under LR(1)
	// but not SLR (shift/reduce on "=" vs reduce T -> id).
	g := assignGrammar()

	_, err := table.BuildSLRTable(g)
	assert.Error(t, err)

	tbl, err := table.BuildLR1Table(g)
	assert.NoError(t, err)
	assert.NotNil(t, tbl)
}

func conflictGrammar() grammar.Grammar {
	// S4: S -> A a | b A c | d c | b d a; A -> d.
	g := grammar.New("S")
	g.AddTerm("a")
	g.AddTerm("b")
	g.AddTerm("c")
	g.AddTerm("d")
	g.AddRule("S",
		grammar.Prod("p1", "A", "a"),
		grammar.Prod("p2", "b", "A", "c"),
		grammar.Prod("p3", "d", "c"),
		grammar.Prod("p4", "b", "d", "a"),
	)
	g.AddRule("A", grammar.Prod("toD", "d"))
	return *g
}

func Test_Conflict_LR0failsLR1succeeds(t *testing.T) {
	g := conflictGrammar()

	_, err := table.BuildLR0Table(g)
	assert.Error(t, err)

	_, err = table.BuildLR1Table(g)
	assert.NoError(t, err)
}
