package grammar

import (
	"testing"

	"github.com/darshimo/ruly2/internal/util"
	"github.com/stretchr/testify/assert"
)

// dragon445Grammar is Purple Dragon example 4.45's grammar with an extra
// augmentation-free toplevel: S' -> S isn't added manually here, callers use
// Augmented().
func dragon445Grammar() Grammar {
	g := New("S")
	g.AddTerm("c")
	g.AddTerm("d")
	g.AddRule("S", Prod("only", "C", "C"))
	g.AddRule("C", Prod("c", "c", "C"), Prod("d", "d"))
	return *g
}

func Test_LR0_CLOSURE_dragon445(t *testing.T) {
	g := dragon445Grammar().Augmented()

	start, ok := g.AugmentedStartItem()
	assert.True(t, ok)

	closure := g.LR0_CLOSURE([]LR0Item{start})

	// closure of the initial item must contain one item per production
	// (S itself, plus every production of C, since S's production has C
	// under the dot).
	assert.Len(t, closure, 4)
}

func Test_LR0_GOTO_advancesDotAndRecloses(t *testing.T) {
	g := dragon445Grammar().Augmented()
	start, _ := g.AugmentedStartItem()
	i0 := g.LR0_CLOSURE([]LR0Item{start})

	i1 := g.LR0_GOTO(i0, "S")
	assert.Len(t, i1, 1)
	sym, ok := i1[0].AtDot()
	assert.True(t, ok)
	assert.Equal(t, EndOfInput, sym)

	i2 := g.LR0_GOTO(i0, "C")
	// GOTO(I0, C) yields [S -> C.C] plus the closure additions for C
	// (C -> .cC, C -> .d).
	assert.Len(t, i2, 3)
}

func Test_LR0_CLOSURE_dedupesItems(t *testing.T) {
	g := dragon445Grammar().Augmented()
	start, _ := g.AugmentedStartItem()

	closure1 := g.LR0_CLOSURE([]LR0Item{start})
	closure2 := g.LR0_CLOSURE(append([]LR0Item{start}, closure1...))

	assert.Equal(t, len(closure1), len(closure2))
}

func Test_LR1_CLOSURE_propagatesLookaheads(t *testing.T) {
	g := dragon445Grammar().Augmented()
	first := ComputeFirstSets(g)

	start, _ := g.AugmentedStartItem()
	seed := util.NewSVSet[LR1Item]()
	seedItem := LR1Item{LR0Item: start, Lookahead: EndOfInput}
	seed.Set(seedItem.String(), seedItem)

	closure := g.LR1_CLOSURE(first, seed)

	// every C production predicted from S -> .CC must get lookahead c/d
	// (FIRST of the remaining C plus the outer lookahead).
	foundCWithLookaheadC := false
	foundCWithLookaheadD := false
	for _, k := range closure.Elements() {
		it := closure.Get(k)
		if it.NonTerminal == "C" && it.Dot() == 0 {
			if it.Lookahead == "c" {
				foundCWithLookaheadC = true
			}
			if it.Lookahead == "d" {
				foundCWithLookaheadD = true
			}
		}
	}
	assert.True(t, foundCWithLookaheadC)
	assert.True(t, foundCWithLookaheadD)
}

func Test_LR1_GOTO_carriesLookaheadsAcrossShift(t *testing.T) {
	g := dragon445Grammar().Augmented()
	first := ComputeFirstSets(g)

	start, _ := g.AugmentedStartItem()
	seed := util.NewSVSet[LR1Item]()
	seedItem := LR1Item{LR0Item: start, Lookahead: EndOfInput}
	seed.Set(seedItem.String(), seedItem)

	i0 := g.LR1_CLOSURE(first, seed)
	i1 := g.LR1_GOTO(first, i0, "C")

	// GOTO(I0, C) produces [S -> C.C, $] among others.
	foundShiftedStart := false
	for _, k := range i1.Elements() {
		it := i1.Get(k)
		if it.Rule == 1 && it.Dot() == 1 && it.Lookahead == EndOfInput {
			foundShiftedStart = true
		}
	}
	assert.True(t, foundShiftedStart)
}
