package table

import (
	"github.com/darshimo/ruly2/internal/ictiobus/automaton"
	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
)

// findAcceptStateLR0 returns the id of the state whose value contains the
// augmented item with the dot past the original start symbol (dot=1): the
// state that installs Accept on end-of-input (§4.4).
func findAcceptStateLR0(dfa *automaton.DFA[[]grammar.LR0Item]) (string, bool) {
	for _, name := range dfa.StateNames() {
		for _, it := range dfa.Value(name) {
			if it.Rule == 0 && it.Dot() == 1 {
				return name, true
			}
		}
	}
	return "", false
}

// BuildLR0Table builds the pure LR(0) action/goto table (§4.5): a state may
// reduce only when its closure is a single reducible item; any state with
// more than one item that also contains a reducible item is a conflict.
func BuildLR0Table(g grammar.Grammar) (*Table, error) {
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

		var reducible []grammar.LR0Item
		for _, it := range items {
			if it.Reducible() && it.Rule != 0 {
				reducible = append(reducible, it)
			}
		}

		if len(reducible) == 0 {
			continue
		}

		if len(items) != 1 {
			return nil, makeConflictError(name, "(any)", Action{Type: Reduce, Production: mustProduction(g, reducible[0])}, Action{Type: Shift, State: "(n/a)"})
		}

		prod := mustProduction(g, reducible[0])
		for _, term := range g.Terminals() {
			if err := t.set(name, term, Action{Type: Reduce, Production: prod}, makeConflictError); err != nil {
				return nil, err
			}
		}
	}

	t.overwrite(acceptState, grammar.EndOfInput, Action{Type: Accept})

	return t, nil
}

func mustProduction(g grammar.Grammar, it grammar.LR0Item) grammar.Production {
	augG := g.Augmented()
	if p, ok := augG.ProductionByRuleID(it.Rule); ok {
		return p
	}
	panic("table: item refers to unknown rule_id")
}

var errNoAcceptState = &noAcceptStateError{}

type noAcceptStateError struct{}

func (e *noAcceptStateError) Error() string {
	return "invalid grammar: no accept state found in LR(0) automaton"
}
