// Package table implements the LR(0), SLR, LR(1), and LALR(1) table
// builders (C5, §4.5): each produces a State → Symbol → Action table from a
// grammar, detecting shift/reduce and reduce/reduce conflicts rather than
// resolving them.
package table

import (
	"fmt"
	"sort"

	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
)

// ActionType distinguishes the three action shapes a table cell can hold.
type ActionType int

const (
	Shift ActionType = iota
	Reduce
	Accept
)

func (t ActionType) String() string {
	switch t {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "invalid"
	}
}

// Action is a single table cell: a shift to a new state, a reduce by a
// production, or accept. GOTO on a non-terminal is represented uniformly as
// a Shift, per §3.
type Action struct {
	Type       ActionType
	State      string
	Production grammar.Production
}

func (a Action) String() string {
	switch a.Type {
	case Shift:
		return fmt.Sprintf("shift %s", a.State)
	case Reduce:
		return fmt.Sprintf("reduce %s", a.Production)
	case Accept:
		return "accept"
	default:
		return "(invalid action)"
	}
}

// Equal reports whether two actions are the same action (used to detect
// whether a would-be conflict is in fact a harmless re-assertion of the
// existing cell).
func (a Action) Equal(o Action) bool {
	if a.Type != o.Type {
		return false
	}
	switch a.Type {
	case Shift:
		return a.State == o.State
	case Reduce:
		return a.Production.RuleID == o.Production.RuleID
	default:
		return true
	}
}

// Table is a State → Symbol → Action mapping plus the id of the initial
// state. It is immutable once built and safe to share across concurrent
// parse() calls (§5).
type Table struct {
	Start string
	cells map[string]map[string]Action
}

func newTable(start string) *Table {
	return &Table{Start: start, cells: map[string]map[string]Action{}}
}

// Action returns the action installed at (state, symbol), if any.
func (t *Table) Action(state, symbol string) (Action, bool) {
	row, ok := t.cells[state]
	if !ok {
		return Action{}, false
	}
	a, ok := row[symbol]
	return a, ok
}

// ExpectedSymbols returns every symbol for which (state, symbol) has an
// action, used to build "expected one of ..." parse-error messages.
func (t *Table) ExpectedSymbols(state string) []string {
	row, ok := t.cells[state]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(row))
	for sym := range row {
		out = append(out, sym)
	}
	return out
}

// States returns every state id that has at least one installed action.
func (t *Table) States() []string {
	out := make([]string, 0, len(t.cells))
	for s := range t.cells {
		out = append(out, s)
	}
	return out
}

// set installs act at (state, symbol), returning a conflict error (without
// mutating the table) if the cell is already occupied by a different
// action.
func (t *Table) set(state, symbol string, act Action, conflictKind conflictKindFn) error {
	row, ok := t.cells[state]
	if !ok {
		row = map[string]Action{}
		t.cells[state] = row
	}

	existing, occupied := row[symbol]
	if occupied && !existing.Equal(act) {
		return conflictKind(state, symbol, existing, act)
	}

	row[symbol] = act
	return nil
}

// Cell is one populated (state, symbol, action) entry, the unit of
// serialization for a compiled table (internal/cache, internal/bundle).
type Cell struct {
	State  string
	Symbol string
	Action Action
}

// Cells dumps every populated cell of the table, sorted by (state, symbol)
// for deterministic serialization (§5's determinism requirement extends to
// cached/exported tables: the same table must dump to the same bytes).
func (t *Table) Cells() []Cell {
	var out []Cell
	for state, row := range t.cells {
		for symbol, act := range row {
			out = append(out, Cell{State: state, Symbol: symbol, Action: act})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// FromCells rebuilds a Table from a start state and a cell dump previously
// produced by Cells. No conflict detection is performed: the cells are
// trusted to have already passed through a builder once.
func FromCells(start string, cells []Cell) *Table {
	t := newTable(start)
	for _, c := range cells {
		row, ok := t.cells[c.State]
		if !ok {
			row = map[string]Action{}
			t.cells[c.State] = row
		}
		row[c.Symbol] = c.Action
	}
	return t
}

// overwrite installs act at (state, symbol) unconditionally, used only for
// the accept-state override described in §4.5 and the Open Question in §9
// ("the reference unconditionally overwrites that cell with Accept").
func (t *Table) overwrite(state, symbol string, act Action) {
	row, ok := t.cells[state]
	if !ok {
		row = map[string]Action{}
		t.cells[state] = row
	}
	row[symbol] = act
}

type conflictKindFn func(state, symbol string, first, second Action) error
