package table

import (
	"github.com/darshimo/ruly2/internal/ictiobus/rerr"
)

func makeConflictError(state, symbol string, first, second Action) error {
	kind := rerr.ReduceReduceConflict
	if first.Type == Shift || second.Type == Shift {
		kind = rerr.ShiftReduceConflict
	}

	return &rerr.ConflictError{
		Kind:   kind,
		State:  state,
		Symbol: symbol,
		First:  first.String(),
		Second: second.String(),
	}
}
