package automaton

import (
	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
	"github.com/darshimo/ruly2/internal/util"
)

func distinctDotSymbolsLR1(items util.SVSet[grammar.LR1Item]) []string {
	seen := map[string]bool{}
	var syms []string
	for _, k := range items.Elements() {
		it := items.Get(k)
		sym, ok := it.AtDot()
		if !ok || seen[sym] {
			continue
		}
		seen[sym] = true
		syms = append(syms, sym)
	}
	sortStrings(syms)
	return syms
}

// BuildLR1DFA builds the canonical LR(1) viable-prefix DFA (Algorithm 4.56),
// jointly enumerating states and their item-with-lookahead closures by an
// explicit worklist, exactly as BuildLR0DFA does for the unlookahead case.
func BuildLR1DFA(g grammar.Grammar, first grammar.FirstSets) (*DFA[util.SVSet[grammar.LR1Item]], error) {
	augG := g.Augmented()

	startItem0, ok := augG.AugmentedStartItem()
	if !ok {
		return nil, errNotAugmented
	}
	startLR1 := grammar.LR1Item{LR0Item: startItem0, Lookahead: grammar.EndOfInput}

	kernel := util.NewSVSet[grammar.LR1Item]()
	kernel.Set(startLR1.String(), startLR1)
	startClosure := augG.LR1_CLOSURE(first, kernel)
	startKey := startClosure.StringOrdered()

	dfa := New[util.SVSet[grammar.LR1Item]]()
	dfa.AddState(startKey, startClosure)
	dfa.Start = startKey

	worklist := []string{startKey}
	seen := map[string]util.SVSet[grammar.LR1Item]{startKey: startClosure}

	for len(worklist) > 0 {
		curKey := worklist[0]
		worklist = worklist[1:]
		cur := seen[curKey]

		for _, sym := range distinctDotSymbolsLR1(cur) {
			next := augG.LR1_GOTO(first, cur, sym)
			if next.Len() == 0 {
				continue
			}
			nextKey := next.StringOrdered()
			if _, exists := seen[nextKey]; !exists {
				seen[nextKey] = next
				dfa.AddState(nextKey, next)
				worklist = append(worklist, nextKey)
			}
			dfa.AddTransition(curKey, sym, nextKey)
		}
	}

	return dfa, nil
}

// BuildLALR1DFA builds the LALR(1) DFA by first building the full canonical
// LR(1) collection and then merging every pair of states whose LR(0) cores
// (the items with lookaheads stripped) are identical, unioning their
// lookaheads. This state-merging strategy produces the same automaton as
// merging during construction but is easier to get right on top of an
// already-correct canonical builder.
func BuildLALR1DFA(g grammar.Grammar, first grammar.FirstSets) (*DFA[util.SVSet[grammar.LR1Item]], error) {
	canon, err := BuildLR1DFA(g, first)
	if err != nil {
		return nil, err
	}

	coreKeyOf := func(items util.SVSet[grammar.LR1Item]) string {
		cores := util.NewSVSet[grammar.LR0Item]()
		for _, k := range items.Elements() {
			it := items.Get(k)
			cores.Set(it.LR0Item.String(), it.LR0Item)
		}
		return cores.StringOrdered()
	}

	merged := New[util.SVSet[grammar.LR1Item]]()
	coreKeyOfState := map[string]string{}

	for _, name := range canon.StateNames() {
		ck := coreKeyOf(canon.Value(name))
		coreKeyOfState[name] = ck

		if existing, ok := merged.States[ck]; ok {
			existing.Value.AddAll(canon.Value(name))
		} else {
			merged.AddState(ck, canon.Value(name).Copy().(util.SVSet[grammar.LR1Item]))
		}
	}
	merged.Start = coreKeyOfState[canon.Start]

	for _, name := range canon.StateNames() {
		fromCore := coreKeyOfState[name]
		for _, sym := range distinctDotSymbolsLR1(canon.Value(name)) {
			to, ok := canon.Next(name, sym)
			if !ok {
				continue
			}
			merged.AddTransition(fromCore, sym, coreKeyOfState[to])
		}
	}

	return merged, nil
}
