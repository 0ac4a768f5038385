package table

import (
	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
	"github.com/darshimo/ruly2/internal/ictiobus/rerr"
)

// LL1Table is a NonTerminal -> Terminal -> Production predict table, the
// back-end the LL(1) sibling driver consumes. Unlike Table it has no states:
// a cell is chosen purely from the next input symbol, with no stack of
// context to disambiguate.
type LL1Table struct {
	cells map[string]map[string]grammar.Production
}

// Get returns the production predicted for (nonTerminal, terminal), if any.
func (t *LL1Table) Get(nonTerminal, terminal string) (grammar.Production, bool) {
	row, ok := t.cells[nonTerminal]
	if !ok {
		return grammar.Production{}, false
	}
	p, ok := row[terminal]
	return p, ok
}

func (t *LL1Table) set(nonTerminal, terminal string, p grammar.Production) error {
	row, ok := t.cells[nonTerminal]
	if !ok {
		row = map[string]grammar.Production{}
		t.cells[nonTerminal] = row
	}

	if existing, occupied := row[terminal]; occupied && existing.RuleID != p.RuleID {
		return &rerr.ConflictError{
			Kind:   rerr.PredictConflict,
			State:  nonTerminal,
			Symbol: terminal,
			First:  existing.String(),
			Second: p.String(),
		}
	}

	row[terminal] = p
	return nil
}

// BuildLL1Table builds the predict table for g (§6): for every production
// A -> α, A predicts α on every terminal in FIRST(α), and additionally on
// every terminal in FOLLOW(A) if α is nullable. A collision between two
// distinct productions on the same (A, terminal) cell means g is not LL(1).
func BuildLL1Table(g grammar.Grammar) (*LL1Table, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	augG := g.Augmented()
	first := grammar.ComputeFirstSets(augG)
	follow := grammar.ComputeFollowSets(augG, first)

	t := &LL1Table{cells: map[string]map[string]grammar.Production{}}

	for _, p := range g.Productions() {
		seqFirst := first.OfSequence(p.RHS)

		for _, term := range seqFirst.Elements() {
			if term == grammar.Epsilon {
				continue
			}
			if err := t.set(p.NonTerminal, term, p); err != nil {
				return nil, err
			}
		}

		if seqFirst.Has(grammar.Epsilon) {
			for _, term := range follow.Of(p.NonTerminal).Elements() {
				if err := t.set(p.NonTerminal, term, p); err != nil {
					return nil, err
				}
			}
		}
	}

	return t, nil
}
