package util

import (
	"sort"
	"strings"
)

// MakeTextList gives a nice list of things based on their display name.
//
// TODO: turn this into a generic function that accepts displayable OR ~string
func MakeTextList(items []string) string {
	if len(items) < 1 {
		return ""
	}

	output := ""

	if len(items) == 1 {
		output += items[0]
	} else if len(items) == 2 {
		output += items[0] + " and " + items[1]
	} else {
		// if its more than two, use an oxford comma
		items[len(items)-1] = "and " + items[len(items)-1]
		output += strings.Join(items, ", ")
	}

	return output
}

// ArticleFor returns "an" if the given word would be read aloud starting with
// a vowel sound, else "a". If capital is true the article is capitalized.
func ArticleFor(word string, capital bool) string {
	art := "a"

	if len(word) > 0 {
		switch strings.ToLower(word)[0:1] {
		case "a", "e", "i", "o", "u":
			art = "an"
		}
	}

	if capital {
		return strings.ToUpper(art[0:1]) + art[1:]
	}
	return art
}

// InSlice returns whether val is present in sl.
func InSlice[E comparable](val E, sl []E) bool {
	for _, v := range sl {
		if v == val {
			return true
		}
	}
	return false
}

// EqualSlices returns whether the two slices contain the same elements in the
// same order.
func EqualSlices[E comparable](a, b []E) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// OrderedKeys returns the keys of m sorted in ascending order. Used to
// produce deterministic iteration over maps keyed by symbol or state name.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LongestCommonPrefix returns the longest slice of symbols that every member
// of seqs begins with.
func LongestCommonPrefix(seqs [][]string) []string {
	if len(seqs) == 0 {
		return nil
	}

	prefix := seqs[0]
	for _, s := range seqs[1:] {
		max := len(prefix)
		if len(s) < max {
			max = len(s)
		}
		i := 0
		for i < max && prefix[i] == s[i] {
			i++
		}
		prefix = prefix[:i]
		if len(prefix) == 0 {
			break
		}
	}

	out := make([]string, len(prefix))
	copy(out, prefix)
	return out
}

// HasPrefix returns whether prefix is a prefix of sl.
func HasPrefix[E comparable](sl []E, prefix []E) bool {
	if len(prefix) > len(sl) {
		return false
	}
	for i := range prefix {
		if sl[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Stack is a simple LIFO stack. The zero value is an empty stack. Of may be
// set directly to seed the stack with existing contents, ordered bottom to
// top, as a struct literal (e.g. Stack[string]{Of: []string{"a", "b"}}).
type Stack[E any] struct {
	Of []E
}

// Push adds v to the top of the stack.
func (s *Stack[E]) Push(v E) {
	s.Of = append(s.Of, v)
}

// Pop removes and returns the top of the stack. Panics if the stack is empty.
func (s *Stack[E]) Pop() E {
	if len(s.Of) == 0 {
		panic("pop from empty stack")
	}
	v := s.Of[len(s.Of)-1]
	s.Of = s.Of[:len(s.Of)-1]
	return v
}

// PopN removes and returns the top n items of the stack, ordered bottom to
// top (i.e. in the same relative order they were pushed). Panics if the
// stack has fewer than n items.
func (s *Stack[E]) PopN(n int) []E {
	if len(s.Of) < n {
		panic("pop from stack with insufficient depth")
	}
	out := make([]E, n)
	copy(out, s.Of[len(s.Of)-n:])
	s.Of = s.Of[:len(s.Of)-n]
	return out
}

// Peek returns the top of the stack without removing it. Panics if the stack
// is empty.
func (s Stack[E]) Peek() E {
	if len(s.Of) == 0 {
		panic("peek of empty stack")
	}
	return s.Of[len(s.Of)-1]
}

// Len returns the number of items in the stack.
func (s Stack[E]) Len() int {
	return len(s.Of)
}

// Empty returns whether the stack has no items.
func (s Stack[E]) Empty() bool {
	return len(s.Of) == 0
}

// Matrix2 is a sparse 2-dimensional map keyed by two string axes, used for
// tables indexed by (non-terminal, terminal) such as an LL(1) parse table.
type Matrix2[V any] struct {
	rows map[string]map[string]V
}

// Set stores v at (x, y).
func (m *Matrix2[V]) Set(x, y string, v V) {
	if m.rows == nil {
		m.rows = map[string]map[string]V{}
	}
	row, ok := m.rows[x]
	if !ok {
		row = map[string]V{}
		m.rows[x] = row
	}
	row[y] = v
}

// Get retrieves the value at (x, y), if any.
func (m Matrix2[V]) Get(x, y string) (V, bool) {
	var zero V
	row, ok := m.rows[x]
	if !ok {
		return zero, false
	}
	v, ok := row[y]
	return v, ok
}

// Row returns the keys of the y-axis that have a value set for the given x.
func (m Matrix2[V]) Row(x string) []string {
	row, ok := m.rows[x]
	if !ok {
		return nil
	}
	return OrderedKeys(row)
}

// Rows returns the keys of the x-axis that have at least one value set.
func (m Matrix2[V]) Rows() []string {
	return OrderedKeys(m.rows)
}
