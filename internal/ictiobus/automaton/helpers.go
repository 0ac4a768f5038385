package automaton

import (
	"errors"
	"sort"
)

var errNotAugmented = errors.New("automaton: grammar is not augmented")

func sortStrings(s []string) {
	sort.Strings(s)
}
