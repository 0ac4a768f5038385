package cache

import (
	"path/filepath"
	"testing"

	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
	"github.com/darshimo/ruly2/internal/ictiobus/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	file := filepath.Join(t.TempDir(), "tables.db")
	s, err := Open(file)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func bracketGrammar() grammar.Grammar {
	g := grammar.New("S")
	g.AddTerm("l")
	g.AddTerm("r")
	g.AddRule("S", grammar.Prod("pair", "A", "A"))
	g.AddRule("A", grammar.Prod("nested", "l", "A", "r"), grammar.Prod("flat", "l", "r"))
	return *g
}

func Test_Store_missEntryReturnsErrNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("deadbeef", "lr0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_Store_putThenGetRoundTrips(t *testing.T) {
	s := openTestStore(t)
	g := bracketGrammar()

	built, err := table.BuildLR0Table(g)
	require.NoError(t, err)

	fp := g.Fingerprint()
	require.NoError(t, s.Put(fp, "lr0", built))

	got, err := s.Get(fp, "lr0")
	require.NoError(t, err)
	assert.Equal(t, built.Start, got.Start)
	assert.ElementsMatch(t, built.Cells(), got.Cells())
}

func Test_Store_putOverwritesSameFingerprintAndAlgorithm(t *testing.T) {
	s := openTestStore(t)
	g := bracketGrammar()
	fp := g.Fingerprint()

	built, err := table.BuildLR0Table(g)
	require.NoError(t, err)
	require.NoError(t, s.Put(fp, "lr0", built))
	require.NoError(t, s.Put(fp, "lr0", built))

	got, err := s.Get(fp, "lr0")
	require.NoError(t, err)
	assert.Equal(t, built.Start, got.Start)
}

func Test_Store_differentAlgorithmsForSameGrammarAreDistinctEntries(t *testing.T) {
	s := openTestStore(t)
	g := bracketGrammar()
	fp := g.Fingerprint()

	lr0, err := table.BuildLR0Table(g)
	require.NoError(t, err)
	lr1, err := table.BuildLR1Table(g)
	require.NoError(t, err)

	require.NoError(t, s.Put(fp, "lr0", lr0))
	require.NoError(t, s.Put(fp, "lr1", lr1))

	gotLR0, err := s.Get(fp, "lr0")
	require.NoError(t, err)
	gotLR1, err := s.Get(fp, "lr1")
	require.NoError(t, err)

	assert.Len(t, gotLR0.Cells(), len(lr0.Cells()))
	assert.Len(t, gotLR1.Cells(), len(lr1.Cells()))
}
