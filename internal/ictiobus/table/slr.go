package table

import (
	"github.com/darshimo/ruly2/internal/ictiobus/automaton"
	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
)

// BuildSLRTable builds the SLR(1) action/goto table (§4.5): reduces are
// installed on every terminal in FOLLOW(A) rather than unconditionally,
// which accepts strictly more grammars than pure LR(0).
func BuildSLRTable(g grammar.Grammar) (*Table, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	dfa, err := automaton.BuildLR0DFA(g)
	if err != nil {
		return nil, err
	}
	dfa.NumberStates()

	acceptState, ok := findAcceptStateLR0(dfa)
	if !ok {
		return nil, errNoAcceptState
	}

	augG := g.Augmented()
	first := grammar.ComputeFirstSets(augG)
	follow := grammar.ComputeFollowSets(augG, first)

	t := newTable(dfa.Start)

	for _, name := range dfa.StateNames() {
		items := dfa.Value(name)

		for _, sym := range dfa.InputSymbols() {
			target, has := dfa.Next(name, sym)
			if !has {
				continue
			}
			if err := t.set(name, sym, Action{Type: Shift, State: target}, makeConflictError); err != nil {
				return nil, err
			}
		}

		for _, it := range items {
			if !it.Reducible() || it.Rule == 0 {
				continue
			}

			prod := mustProduction(g, it)
			for _, a := range follow.Of(it.NonTerminal).Elements() {
				if err := t.set(name, a, Action{Type: Reduce, Production: prod}, makeConflictError); err != nil {
					return nil, err
				}
			}
		}
	}

	t.overwrite(acceptState, grammar.EndOfInput, Action{Type: Accept})

	return t, nil
}
