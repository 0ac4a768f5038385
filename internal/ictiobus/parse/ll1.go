package parse

import (
	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
	"github.com/darshimo/ruly2/internal/ictiobus/rerr"
	"github.com/darshimo/ruly2/internal/ictiobus/table"
	"github.com/darshimo/ruly2/internal/ictiobus/types"
	"github.com/darshimo/ruly2/internal/util"
)

// LL1Parser is the sibling back-end named in §6: a predictive, table-driven
// top-down parser. It never shifts or reduces; it expands the leftmost
// non-terminal by consulting the predict table and matches terminals
// directly against the lookahead.
type LL1Parser struct {
	Table *table.LL1Table
	Gram  grammar.Grammar

	// Trace, if set, receives a line of driver narration per step, the same
	// shape as Parser.Trace.
	Trace func(s string)
}

// NewLL1 builds an LL1Parser over t for g.
func NewLL1(t *table.LL1Table, g grammar.Grammar) *LL1Parser {
	return &LL1Parser{Table: t, Gram: g}
}

func (p *LL1Parser) notify(s string) {
	if p.Trace != nil {
		p.Trace(s)
	}
}

// Parse runs the predictive parsing algorithm over stream, expanding a
// symbol stack seeded with the grammar's start symbol until it empties.
func (p *LL1Parser) Parse(stream types.TokenStream) (types.ParseTree, error) {
	root := &types.ParseTree{Value: p.Gram.StartSymbol()}

	symStack := util.Stack[string]{Of: []string{p.Gram.StartSymbol()}}
	nodeStack := util.Stack[*types.ParseTree]{Of: []*types.ParseTree{root}}

	lookahead := p.nextToken(stream)

	for !symStack.Empty() {
		sym := symStack.Peek()
		node := nodeStack.Peek()

		if p.Gram.IsTerminal(sym) {
			if sym != lookahead.Class().ID() {
				return *root, p.parseError(sym, lookahead)
			}

			p.notify("match " + sym)
			node.Terminal = true
			node.Source = lookahead
			symStack.Pop()
			nodeStack.Pop()
			lookahead = p.nextToken(stream)
			continue
		}

		prod, ok := p.Table.Get(sym, lookahead.Class().ID())
		if !ok {
			return *root, p.parseError(sym, lookahead)
		}

		p.notify("predict " + prod.String())
		node.ProductionName = prod.Name

		symStack.Pop()
		nodeStack.Pop()

		if prod.IsEpsilon() {
			node.Children = []*types.ParseTree{{Terminal: true, Value: grammar.Epsilon}}
			continue
		}

		children := make([]*types.ParseTree, len(prod.RHS))
		for i, rhsSym := range prod.RHS {
			children[i] = &types.ParseTree{Value: rhsSym}
		}
		node.Children = children

		for i := len(prod.RHS) - 1; i >= 0; i-- {
			symStack.Push(prod.RHS[i])
			nodeStack.Push(children[i])
		}
	}

	if lookahead.Class().ID() != types.TokenEndOfText.ID() {
		return *root, p.parseError(types.TokenEndOfText.ID(), lookahead)
	}

	return *root, nil
}

func (p *LL1Parser) nextToken(stream types.TokenStream) types.Token {
	if stream.HasNext() {
		return stream.Next()
	}
	return endOfInputToken{}
}

func (p *LL1Parser) parseError(expectedSym string, lookahead types.Token) error {
	return &rerr.ParseError{
		Symbol:   lookahead.Class().ID(),
		Line:     lookahead.Line(),
		Column:   lookahead.LinePos(),
		Expected: []string{expectedSym},
		Message:  "unexpected " + lookahead.Class().Human() + "; expected " + expectedSym,
	}
}
