package grammar

import (
	"github.com/darshimo/ruly2/internal/util"
)

// FirstSets holds the fixed-point FIRST(X) for every terminal and
// non-terminal X of a grammar, and answers FIRST queries over arbitrary
// symbol sequences (used by LR(1) closure for FIRST(βa)).
type FirstSets struct {
	of map[string]util.StringSet
}

// Of returns FIRST(X) for a single symbol. Terminals (and the end-of-input
// sentinel) always yield a singleton set containing themselves.
func (fs FirstSets) Of(symbol string) util.StringSet {
	if set, ok := fs.of[symbol]; ok {
		return set.Copy().(util.StringSet)
	}
	return util.StringSetOf(nil)
}

// OfSequence computes FIRST(seq): the set of terminals that can begin any
// derivation of seq, plus Epsilon if seq can derive the empty string.
func (fs FirstSets) OfSequence(seq []string) util.StringSet {
	result := util.StringSetOf(nil)

	if len(seq) == 0 {
		result.Add(Epsilon)
		return result
	}

	allNullableSoFar := true
	for _, sym := range seq {
		if sym == Epsilon {
			continue
		}

		symFirst := fs.Of(sym)
		for _, t := range symFirst.Elements() {
			if t != Epsilon {
				result.Add(t)
			}
		}

		if !symFirst.Has(Epsilon) {
			allNullableSoFar = false
			break
		}
	}

	if allNullableSoFar {
		result.Add(Epsilon)
	}

	return result
}

// ComputeFirstSets computes FIRST(X) for every terminal and non-terminal of
// g by fixed-point iteration (§4.3): start every terminal at {itself}, every
// non-terminal at {}, and repeatedly apply the production rule
// FIRST(X) ⊇ FIRST(production.RHS) until a full pass changes nothing.
func ComputeFirstSets(g Grammar) FirstSets {
	of := map[string]util.StringSet{}

	for _, t := range g.Terminals() {
		of[t] = util.StringSetOf([]string{t})
	}
	for _, nt := range g.NonTerminals() {
		of[nt] = util.StringSetOf(nil)
	}

	fs := FirstSets{of: of}

	changed := true
	for changed {
		changed = false

		for _, nt := range g.NonTerminals() {
			rule, _ := g.Rule(nt)
			for _, p := range rule.Productions {
				seqFirst := fs.OfSequence(p.RHS)

				before := fs.of[nt].Len()
				fs.of[nt].AddAll(seqFirst)
				if fs.of[nt].Len() != before {
					changed = true
				}
			}
		}
	}

	return fs
}

// FollowSets holds the fixed-point FOLLOW(A) for every non-terminal A of a
// grammar. Callers should compute FollowSets over the augmented grammar
// (Grammar.Augmented) so that FOLLOW(start) picks up EndOfInput from the
// synthetic production's rhs, per §4.3.
type FollowSets struct {
	of map[string]util.StringSet
}

// Of returns FOLLOW(A).
func (flw FollowSets) Of(nonTerminal string) util.StringSet {
	if set, ok := flw.of[nonTerminal]; ok {
		return set.Copy().(util.StringSet)
	}
	return util.StringSetOf(nil)
}

// ComputeFollowSets computes FOLLOW(A) for every non-terminal of g by
// fixed-point iteration over every production A → αBβ (§4.3).
func ComputeFollowSets(g Grammar, first FirstSets) FollowSets {
	of := map[string]util.StringSet{}
	for _, nt := range g.NonTerminals() {
		of[nt] = util.StringSetOf(nil)
	}

	flw := FollowSets{of: of}

	changed := true
	for changed {
		changed = false

		for _, p := range g.Productions() {
			for i, sym := range p.RHS {
				if !g.IsNonTerminal(sym) {
					continue
				}

				beta := p.RHS[i+1:]
				betaFirst := first.OfSequence(beta)

				before := flw.of[sym].Len()

				for _, t := range betaFirst.Elements() {
					if t != Epsilon {
						flw.of[sym].Add(t)
					}
				}

				if betaFirst.Has(Epsilon) {
					flw.of[sym].AddAll(flw.of[p.NonTerminal])
				}

				if flw.of[sym].Len() != before {
					changed = true
				}
			}
		}
	}

	return flw
}
