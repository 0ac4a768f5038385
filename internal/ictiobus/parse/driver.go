// Package parse implements the shift/reduce parse driver (C6) and the
// parse-tree construction it performs on every reduction (C7, §4.6-4.7).
//
// The driver is algorithm-agnostic: it consumes whatever *table.Table a
// builder produced (LR0, SLR, LR1, or LALR1) and drives it identically,
// since the four tables differ only in which cells get populated, not in
// the shape of the driving loop.
package parse

import (
	"sort"
	"strings"

	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
	"github.com/darshimo/ruly2/internal/ictiobus/rerr"
	"github.com/darshimo/ruly2/internal/ictiobus/table"
	"github.com/darshimo/ruly2/internal/ictiobus/types"
	"github.com/darshimo/ruly2/internal/util"
)

// Parser drives a built table against a token stream to produce a parse
// tree. It holds no per-parse state; each Parse call owns its own stacks
// (§5's "Each parse() call owns its stacks").
type Parser struct {
	Table *table.Table
	Gram  grammar.Grammar
	Type  types.ParserType

	// Trace, if set, receives a line of driver narration per step. Parse
	// generation code may leave this nil; it exists for the same debugging
	// purpose as the teacher's trace-listener hook.
	Trace func(s string)
}

func New(t *table.Table, g grammar.Grammar, pt types.ParserType) *Parser {
	return &Parser{Table: t, Gram: g, Type: pt}
}

func (p *Parser) notify(s string) {
	if p.Trace != nil {
		p.Trace(s)
	}
}

// Parse runs the shift/reduce automaton over stream per §4.6, returning the
// tree rooted at the grammar's (unaugmented) start symbol.
//
// state_stack and symbol_stack are exactly the two stacks of §4.6; input is
// represented by the token stream plus a single terminal lookahead, which
// is equivalent to the sentinel-terminated queue of the spec (the driver
// never needs more than one token of lookahead at a time).
func (p *Parser) Parse(stream types.TokenStream) (types.ParseTree, error) {
	stateStack := util.Stack[string]{Of: []string{p.Table.Start}}
	treeStack := util.Stack[*types.ParseTree]{}

	lookahead := p.nextToken(stream)

	for {
		s := stateStack.Peek()
		x := lookahead.Class().ID()

		act, ok := p.Table.Action(s, x)
		if !ok {
			return types.ParseTree{}, p.parseError(s, lookahead)
		}

		switch act.Type {
		case table.Shift:
			p.notify("shift " + act.State)
			leaf := &types.ParseTree{Terminal: true, Value: x, Source: lookahead}
			treeStack.Push(leaf)
			stateStack.Push(act.State)
			lookahead = p.nextToken(stream)

		case table.Reduce:
			prod := act.Production
			p.notify("reduce " + prod.String())

			children := make([]*types.ParseTree, len(prod.RHS))
			for i := len(prod.RHS) - 1; i >= 0; i-- {
				stateStack.Pop()
				children[i] = treeStack.Pop()
			}

			node := &types.ParseTree{
				Value:          prod.NonTerminal,
				ProductionName: prod.Name,
				Children:       children,
			}
			treeStack.Push(node)

			t := stateStack.Peek()
			gotoAct, ok := p.Table.Action(t, prod.NonTerminal)
			if !ok || gotoAct.Type != table.Shift {
				return types.ParseTree{}, &rerr.ParseError{
					State:   t,
					Symbol:  prod.NonTerminal,
					Message: "no GOTO entry for " + prod.NonTerminal + " from state " + t,
				}
			}
			stateStack.Push(gotoAct.State)

		case table.Accept:
			p.notify("accept")
			return *treeStack.Pop(), nil
		}
	}
}

// nextToken advances the stream by one token, or synthesizes the
// end-of-input sentinel token once the stream is exhausted (§4.6's input
// queue is always terminated by a sentinel tree for ⊥).
func (p *Parser) nextToken(stream types.TokenStream) types.Token {
	if stream.HasNext() {
		return stream.Next()
	}
	return endOfInputToken{}
}

func (p *Parser) parseError(state string, lookahead types.Token) error {
	expected := p.expectedTerminals(state)

	var sb strings.Builder
	sb.WriteString("unexpected ")
	sb.WriteString(lookahead.Class().Human())
	if len(expected) > 0 {
		sb.WriteString("; expected ")
		for i, e := range expected {
			if i > 0 {
				sb.WriteString(" or ")
			}
			sb.WriteString(e)
		}
	}

	return &rerr.ParseError{
		State:    state,
		Symbol:   lookahead.Class().ID(),
		Line:     lookahead.Line(),
		Column:   lookahead.LinePos(),
		Expected: expected,
		Message:  sb.String(),
	}
}

// expectedTerminals returns, in sorted order, every terminal for which
// state has an installed action — used to build "expected one of ..."
// messages. Non-terminal GOTO entries are excluded; a token can never be a
// non-terminal.
func (p *Parser) expectedTerminals(state string) []string {
	var out []string
	for _, sym := range p.Table.ExpectedSymbols(state) {
		if p.Gram.IsTerminal(sym) {
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}

// endOfInputToken is the sentinel token the driver synthesizes once the
// underlying stream is exhausted.
type endOfInputToken struct{}

func (endOfInputToken) Class() types.TokenClass  { return types.TokenEndOfText }
func (endOfInputToken) Lexeme() string           { return "" }
func (endOfInputToken) LinePos() int             { return 0 }
func (endOfInputToken) Line() int                { return 0 }
func (endOfInputToken) FullLine() string         { return "" }
func (endOfInputToken) String() string           { return "($ \"\")" }
