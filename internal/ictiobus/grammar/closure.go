package grammar

import (
	"sort"

	"github.com/darshimo/ruly2/internal/util"
)

// AugmentedStartItem returns the dot-0 item of the synthetic rule_id-0
// production, and true, if g is an augmented grammar (see Augmented).
func (g Grammar) AugmentedStartItem() (LR0Item, bool) {
	if !g.IsAugmented() {
		return LR0Item{}, false
	}
	rule, _ := g.Rule(g.start)
	return itemAtDotZero(rule.Productions[0]), true
}

// LR0Items returns one dot-0 item for every production of the grammar,
// sorted by (rule_id, dot): the full dot-0 item inventory of the grammar.
func (g Grammar) LR0Items() []LR0Item {
	var items []LR0Item
	for _, p := range g.Productions() {
		items = append(items, itemAtDotZero(p))
	}
	sortItems(items)
	return items
}

func itemAtDotZero(p Production) LR0Item {
	right := make([]string, len(p.RHS))
	copy(right, p.RHS)
	return LR0Item{NonTerminal: p.NonTerminal, Rule: p.RuleID, Left: nil, Right: right}
}

func sortItems(items []LR0Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].Less(items[j]) })
}

// LR0_CLOSURE computes the closure of a set of LR(0) items (§4.2): for every
// item with a non-terminal X under the dot, add every production of X at
// dot 0. Items are deduped by their String() form (non-terminal and the
// symbols left and right of the dot) and the result is sorted by ordering
// key.
func (g Grammar) LR0_CLOSURE(items []LR0Item) []LR0Item {
	seen := map[string]bool{}
	var closure []LR0Item

	var worklist []LR0Item
	for _, it := range items {
		key := it.String()
		if !seen[key] {
			seen[key] = true
			closure = append(closure, it)
			worklist = append(worklist, it)
		}
	}

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]

		sym, ok := cur.AtDot()
		if !ok || !g.IsNonTerminal(sym) {
			continue
		}

		rule, _ := g.Rule(sym)
		for _, p := range rule.Productions {
			ni := itemAtDotZero(p)
			key := ni.String()
			if !seen[key] {
				seen[key] = true
				closure = append(closure, ni)
				worklist = append(worklist, ni)
			}
		}
	}

	sortItems(closure)
	return closure
}

// LR0_GOTO advances every item in items whose symbol under the dot is
// symbol, then returns the closure of the resulting kernel.
func (g Grammar) LR0_GOTO(items []LR0Item, symbol string) []LR0Item {
	var kernel []LR0Item
	for _, it := range items {
		atDot, ok := it.AtDot()
		if !ok || atDot != symbol {
			continue
		}

		shifted := it.Copy()
		shifted.Left = append(append([]string{}, shifted.Left...), atDot)
		shifted.Right = append([]string{}, shifted.Right[1:]...)
		kernel = append(kernel, shifted)
	}

	if len(kernel) == 0 {
		return nil
	}

	return g.LR0_CLOSURE(kernel)
}

// LR1_CLOSURE computes the closure of a set of LR(1) items-with-lookahead
// (§4.2): for item [A → α·Xβ, a], for every production X → γ, for every
// b ∈ FIRST(βa), add [X → ·γ, b]. items and the result are represented as a
// flattened set of (item, lookahead) pairs keyed by their String() form.
func (g Grammar) LR1_CLOSURE(first FirstSets, items util.SVSet[LR1Item]) util.SVSet[LR1Item] {
	closure := util.NewSVSet[LR1Item]()
	var worklist []LR1Item

	for _, k := range items.Elements() {
		it := items.Get(k)
		closure.Set(it.String(), it)
		worklist = append(worklist, it)
	}

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]

		sym, ok := cur.AtDot()
		if !ok || !g.IsNonTerminal(sym) {
			continue
		}

		beta := append([]string{}, cur.Right[1:]...)
		betaA := append(append([]string{}, beta...), cur.Lookahead)
		lookaheads := first.OfSequence(betaA)

		rule, _ := g.Rule(sym)
		for _, p := range rule.Productions {
			for _, b := range lookaheads.Elements() {
				if b == Epsilon {
					continue
				}
				ni := LR1Item{LR0Item: itemAtDotZero(p), Lookahead: b}
				key := ni.String()
				if !closure.Has(key) {
					closure.Set(key, ni)
					worklist = append(worklist, ni)
				}
			}
		}
	}

	return closure
}

// LR1_GOTO advances every LR(1) item in items whose symbol under the dot is
// symbol, carrying lookaheads unchanged, then returns the closure of the
// resulting kernel.
func (g Grammar) LR1_GOTO(first FirstSets, items util.SVSet[LR1Item], symbol string) util.SVSet[LR1Item] {
	kernel := util.NewSVSet[LR1Item]()

	for _, k := range items.Elements() {
		it := items.Get(k)
		atDot, ok := it.AtDot()
		if !ok || atDot != symbol {
			continue
		}

		shifted := it.Copy()
		shifted.Left = append(append([]string{}, shifted.Left...), atDot)
		shifted.Right = append([]string{}, shifted.Right[1:]...)
		kernel.Set(shifted.String(), shifted)
	}

	if kernel.Len() == 0 {
		return kernel
	}

	return g.LR1_CLOSURE(first, kernel)
}
