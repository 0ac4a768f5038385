// Package automaton provides a generic deterministic-finite-automaton type
// and the LR(0)/LR(1)/LALR(1) viable-prefix DFA builders (§4.4). States are
// canonicalized item sets, keyed by their deterministic string form, so two
// equal closures always collapse onto the same state regardless of
// construction order.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/darshimo/ruly2/internal/util"
)

// DFAState is one state of a DFA[E]: an attached value (the item set this
// state was canonicalized from) and its outgoing transitions keyed by input
// symbol.
type DFAState[E any] struct {
	Name        string
	Value       E
	Transitions map[string]string
}

// DFA is a deterministic finite automaton over an arbitrary per-state value
// type E. States are added in discovery order; NumberStates renumbers them
// 0..n-1 in that order so that the start state always becomes "0".
type DFA[E any] struct {
	States map[string]*DFAState[E]
	Start  string
	order  []string
}

// New creates an empty DFA.
func New[E any]() *DFA[E] {
	return &DFA[E]{States: map[string]*DFAState[E]{}}
}

// AddState registers a new state under name with the given value. A no-op if
// the name already exists.
func (dfa *DFA[E]) AddState(name string, value E) {
	if _, ok := dfa.States[name]; ok {
		return
	}
	dfa.States[name] = &DFAState[E]{Name: name, Value: value, Transitions: map[string]string{}}
	dfa.order = append(dfa.order, name)
}

// AddTransition records an edge from -> to on input. Panics if from is not a
// known state, matching the teacher convention of treating a malformed
// transition as a construction-time programmer error.
func (dfa *DFA[E]) AddTransition(from, input, to string) {
	st, ok := dfa.States[from]
	if !ok {
		panic(fmt.Sprintf("automaton: no such state %q", from))
	}
	st.Transitions[input] = to
}

// Next returns the state reached from `from` on `input`, if any.
func (dfa DFA[E]) Next(from, input string) (string, bool) {
	st, ok := dfa.States[from]
	if !ok {
		return "", false
	}
	to, ok := st.Transitions[input]
	return to, ok
}

// Value returns the attached value of a state.
func (dfa DFA[E]) Value(name string) E {
	return dfa.States[name].Value
}

// StateNames returns every state name in discovery order (start first).
func (dfa DFA[E]) StateNames() []string {
	out := make([]string, len(dfa.order))
	copy(out, dfa.order)
	return out
}

// InputSymbols returns every distinct symbol appearing on some transition,
// sorted lexicographically — the deterministic tie-break §4.5 requires when
// iterating transition groups.
func (dfa DFA[E]) InputSymbols() []string {
	seen := util.StringSetOf(nil)
	for _, name := range dfa.order {
		for sym := range dfa.States[name].Transitions {
			seen.Add(sym)
		}
	}
	syms := seen.Elements()
	sort.Strings(syms)
	return syms
}

// NumberStates renumbers every state 0..n-1 in discovery order (the state
// discovered first — always Start — becomes "0"), and returns the mapping
// from old name to new numeric name. This is the deterministic state
// numbering §4.4/§4.5 require: ids are assigned by DFS/worklist discovery
// order, not by hash iteration.
func (dfa *DFA[E]) NumberStates() map[string]string {
	renumber := make(map[string]string, len(dfa.order))
	for i, old := range dfa.order {
		renumber[old] = fmt.Sprintf("%d", i)
	}

	newStates := make(map[string]*DFAState[E], len(dfa.States))
	newOrder := make([]string, len(dfa.order))

	for i, old := range dfa.order {
		oldState := dfa.States[old]
		newName := renumber[old]
		newTransitions := make(map[string]string, len(oldState.Transitions))
		for sym, target := range oldState.Transitions {
			newTransitions[sym] = renumber[target]
		}
		newStates[newName] = &DFAState[E]{Name: newName, Value: oldState.Value, Transitions: newTransitions}
		newOrder[i] = newName
	}

	dfa.States = newStates
	dfa.order = newOrder
	dfa.Start = renumber[dfa.Start]

	return renumber
}

// String renders the DFA as a list of transitions, primarily for debugging
// and test failure output.
func (dfa DFA[E]) String() string {
	var sb strings.Builder
	for _, name := range dfa.order {
		st := dfa.States[name]
		syms := make([]string, 0, len(st.Transitions))
		for sym := range st.Transitions {
			syms = append(syms, sym)
		}
		sort.Strings(syms)
		for _, sym := range syms {
			fmt.Fprintf(&sb, "%s =(%s)=> %s\n", name, sym, st.Transitions[sym])
		}
	}
	return sb.String()
}
