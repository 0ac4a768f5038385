// Package httpapi exposes a small debug HTTP server for inspecting a
// generator run: the compiled ACTION/GOTO table for a loaded grammar, and a
// scratch endpoint for trying sample input against it without invoking the
// CLI.
package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/darshimo/ruly2/internal/ictiobus/lex"
	"github.com/darshimo/ruly2/internal/ictiobus/parse"
	"github.com/darshimo/ruly2/internal/ictiobus/table"
	"github.com/darshimo/ruly2/internal/project"
)

// PathPrefix is the prefix every route in this package is mounted under.
const PathPrefix = "/grammars"

// Entry is one loaded grammar project this server can serve information
// about, plus the lexer to use for the /parse scratch endpoint.
type Entry struct {
	Project project.Project
	Table   *table.Table
	Lexer   *lex.Lexer
}

// API serves debug information about a fixed set of named, already-loaded
// grammar projects.
type API struct {
	Entries map[string]Entry
}

// Router builds the chi router exposing this API's endpoints.
func (api API) Router() chi.Router {
	r := chi.NewRouter()
	r.Get(PathPrefix+"/{name}/table", httpEndpoint(api.getTable))
	r.Post(PathPrefix+"/{name}/parse", httpEndpoint(api.postParse))
	return r
}

type endpointFunc func(req *http.Request) (status int, body interface{}, err error)

func httpEndpoint(ep endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)

		status, body, err := ep(req)
		if err != nil {
			logResponse("ERROR", req, status, err.Error())
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}

		logResponse("INFO", req, status, "ok")
		writeJSON(w, status, body)
	}
}

func (api API) lookup(req *http.Request) (Entry, error) {
	name := chi.URLParam(req, "name")
	entry, ok := api.Entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("no loaded grammar named %q", name)
	}
	return entry, nil
}

type tableCellView struct {
	State  string `json:"state"`
	Symbol string `json:"symbol"`
	Action string `json:"action"`
}

func (api API) getTable(req *http.Request) (int, interface{}, error) {
	entry, err := api.lookup(req)
	if err != nil {
		return http.StatusNotFound, nil, err
	}

	cells := entry.Table.Cells()
	view := make([]tableCellView, 0, len(cells))
	for _, c := range cells {
		view = append(view, tableCellView{State: c.State, Symbol: c.Symbol, Action: c.Action.String()})
	}

	return http.StatusOK, map[string]interface{}{
		"start": entry.Table.Start,
		"cells": view,
	}, nil
}

type parseRequest struct {
	Input string `json:"input"`
}

func (api API) postParse(req *http.Request) (int, interface{}, error) {
	entry, err := api.lookup(req)
	if err != nil {
		return http.StatusNotFound, nil, err
	}

	var body parseRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return http.StatusBadRequest, nil, fmt.Errorf("malformed request body: %w", err)
	}

	tokens, err := entry.Lexer.Lex(body.Input)
	if err != nil {
		return http.StatusUnprocessableEntity, nil, err
	}

	p := parse.New(entry.Table, entry.Project.Grammar, entry.Project.ParserType())
	tree, err := p.Parse(lex.NewTokenStream(tokens))
	if err != nil {
		return http.StatusUnprocessableEntity, nil, err
	}

	return http.StatusOK, map[string]interface{}{"tree": tree.String()}, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR could not encode JSON response: %v", err)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if r := recover(); r != nil {
		logResponse("ERROR", req, http.StatusInternalServerError, fmt.Sprintf("panic: %v\n%s", r, debug.Stack()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "an internal server error occurred"})
	}
}

func logResponse(level string, req *http.Request, status int, msg string) {
	for len(level) < 5 {
		level += " "
	}
	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, status, msg)
}
