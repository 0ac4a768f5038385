package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshimo/ruly2/internal/ictiobus/lex"
	"github.com/darshimo/ruly2/internal/project"
)

func bracketsEntry(t *testing.T) Entry {
	t.Helper()
	p, err := project.Parse([]byte(`
start = "S"
algorithm = "lr0"
terminals = ["l", "r"]

[[rule]]
nonterminal = "S"
  [[rule.production]]
  name = "pair"
  rhs = ["A", "A"]

[[rule]]
nonterminal = "A"
  [[rule.production]]
  name = "nested"
  rhs = ["l", "A", "r"]
  [[rule.production]]
  name = "flat"
  rhs = ["l", "r"]
`))
	require.NoError(t, err)

	tbl, err := p.BuildTable()
	require.NoError(t, err)

	lx := lex.NewLexer(`\s*`)
	lx.AddClass("l", "left bracket")
	lx.AddClass("r", "right bracket")
	require.NoError(t, lx.AddPattern("l", `\(`, false))
	require.NoError(t, lx.AddPattern("r", `\)`, false))

	return Entry{Project: p, Table: tbl, Lexer: lx}
}

func Test_GetTable_unknownGrammarIs404(t *testing.T) {
	api := API{Entries: map[string]Entry{}}
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/grammars/missing/table")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_GetTable_knownGrammarReturnsCells(t *testing.T) {
	api := API{Entries: map[string]Entry{"brackets": bracketsEntry(t)}}
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/grammars/brackets/table")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func Test_PostParse_validInputReturnsTree(t *testing.T) {
	api := API{Entries: map[string]Entry{"brackets": bracketsEntry(t)}}
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/grammars/brackets/parse", "application/json",
		strings.NewReader(`{"input": "()()"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func Test_PostParse_invalidInputIsUnprocessable(t *testing.T) {
	api := API{Entries: map[string]Entry{"brackets": bracketsEntry(t)}}
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/grammars/brackets/parse", "application/json",
		strings.NewReader(`{"input": "("}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
