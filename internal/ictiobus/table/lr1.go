package table

import (
	"github.com/darshimo/ruly2/internal/ictiobus/automaton"
	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
	"github.com/darshimo/ruly2/internal/util"
)

func findAcceptStateLR1(dfa *automaton.DFA[util.SVSet[grammar.LR1Item]]) (string, bool) {
	for _, name := range dfa.StateNames() {
		items := dfa.Value(name)
		for _, k := range items.Elements() {
			it := items.Get(k)
			if it.Rule == 0 && it.Dot() == 1 {
				return name, true
			}
		}
	}
	return "", false
}

// buildFromLR1DFA builds a table from an already-constructed LR(1)-item DFA
// (canonical LR(1) or LALR(1) — the table construction rule is identical for
// both, only the DFA differs, per §4.5's joint-state/table description and
// §8.7's algorithm-monotonicity property falling out of shared machinery).
func buildFromLR1DFA(g grammar.Grammar, dfa *automaton.DFA[util.SVSet[grammar.LR1Item]]) (*Table, error) {
	dfa.NumberStates()

	acceptState, ok := findAcceptStateLR1(dfa)
	if !ok {
		return nil, errNoAcceptState
	}

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

		for _, k := range items.Elements() {
			it := items.Get(k)
			if !it.Reducible() || it.Rule == 0 {
				continue
			}

			prod := mustProduction(g, it.LR0Item)
			if err := t.set(name, it.Lookahead, Action{Type: Reduce, Production: prod}, makeConflictError); err != nil {
				return nil, err
			}
		}
	}

	t.overwrite(acceptState, grammar.EndOfInput, Action{Type: Accept})

	return t, nil
}

// BuildLR1Table builds the canonical LR(1) action/goto table (§4.5),
// accepting the largest class of grammars of the three: items carry their
// own lookahead so reduce actions are only installed on exactly the
// lookahead computed during closure, rather than all of FOLLOW(A).
func BuildLR1Table(g grammar.Grammar) (*Table, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	augG := g.Augmented()
	first := grammar.ComputeFirstSets(augG)

	dfa, err := automaton.BuildLR1DFA(g, first)
	if err != nil {
		return nil, err
	}

	return buildFromLR1DFA(g, dfa)
}

// BuildLALR1Table builds the LALR(1) table: the canonical LR(1) collection
// with states merged by identical LR(0) core, trading some grammars'
// buildability (a merge can introduce a reduce/reduce conflict the
// canonical collection didn't have) for a state count close to LR(0)/SLR.
func BuildLALR1Table(g grammar.Grammar) (*Table, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	augG := g.Augmented()
	first := grammar.ComputeFirstSets(augG)

	dfa, err := automaton.BuildLALR1DFA(g, first)
	if err != nil {
		return nil, err
	}

	return buildFromLR1DFA(g, dfa)
}
