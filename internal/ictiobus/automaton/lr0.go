package automaton

import (
	"strings"

	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
)

func lr0ItemsKey(items []grammar.LR0Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, "\x1f")
}

func distinctDotSymbols(items []grammar.LR0Item) []string {
	seen := map[string]bool{}
	var syms []string
	for _, it := range items {
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

// BuildLR0DFA enumerates the canonical LR(0) item-set states of g (§4.4) by
// an explicit worklist over closures keyed by their canonical string form,
// per the design note preferring an explicit worklist to recursive DFS. The
// start state is discovered first and is always numbered 0 by a subsequent
// NumberStates call; this function itself leaves states keyed by their
// canonical item-set text so callers can compare structurally before
// renumbering.
func BuildLR0DFA(g grammar.Grammar) (*DFA[[]grammar.LR0Item], error) {
	augG := g.Augmented()

	startItem, ok := augG.AugmentedStartItem()
	if !ok {
		return nil, errNotAugmented
	}

	startClosure := augG.LR0_CLOSURE([]grammar.LR0Item{startItem})
	startKey := lr0ItemsKey(startClosure)

	dfa := New[[]grammar.LR0Item]()
	dfa.AddState(startKey, startClosure)
	dfa.Start = startKey

	worklist := []string{startKey}
	seen := map[string][]grammar.LR0Item{startKey: startClosure}

	for len(worklist) > 0 {
		curKey := worklist[0]
		worklist = worklist[1:]
		curItems := seen[curKey]

		for _, sym := range distinctDotSymbols(curItems) {
			nextItems := augG.LR0_GOTO(curItems, sym)
			if len(nextItems) == 0 {
				continue
			}
			nextKey := lr0ItemsKey(nextItems)
			if _, exists := seen[nextKey]; !exists {
				seen[nextKey] = nextItems
				dfa.AddState(nextKey, nextItems)
				worklist = append(worklist, nextKey)
			}
			dfa.AddTransition(curKey, sym, nextKey)
		}
	}

	return dfa, nil
}
