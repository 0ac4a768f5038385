package main

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"

	"github.com/darshimo/ruly2/internal/ictiobus/table"
	"github.com/darshimo/ruly2/internal/project"
)

// renderTable draws the ACTION/GOTO table as an ASCII grid, terminals under
// ACTION and non-terminals under GOTO, one row per state.
func renderTable(proj project.Project, tbl *table.Table) string {
	terms := proj.Grammar.Terminals()
	sort.Strings(terms)
	nonTerms := proj.Grammar.NonTerminals()
	sort.Strings(nonTerms)

	states := tbl.States()
	sort.Strings(states)

	var data [][]string

	headers := []string{"state", "|"}
	for _, t := range terms {
		headers = append(headers, fmt.Sprintf("A:%s", t))
	}
	headers = append(headers, "|")
	for _, nt := range nonTerms {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}
	data = append(data, headers)

	for _, state := range states {
		row := []string{state, "|"}

		for _, t := range terms {
			row = append(row, cellText(tbl, state, t))
		}
		row = append(row, "|")
		for _, nt := range nonTerms {
			row = append(row, cellText(tbl, state, nt))
		}

		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// renderLL1Table draws the predict table as an ASCII grid, one row per
// non-terminal and one column per terminal (including the end-of-input
// sentinel, since a nullable non-terminal predicts on FOLLOW).
func renderLL1Table(proj project.Project, tbl *table.LL1Table) string {
	terms := append([]string{}, proj.Grammar.Terminals()...)
	sort.Strings(terms)
	nonTerms := proj.Grammar.NonTerminals()
	sort.Strings(nonTerms)

	var data [][]string

	headers := append([]string{"nonterminal"}, terms...)
	data = append(data, headers)

	for _, nt := range nonTerms {
		row := []string{nt}
		for _, t := range terms {
			if prod, ok := tbl.Get(nt, t); ok {
				row = append(row, prod.Name)
			} else {
				row = append(row, "")
			}
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func cellText(tbl *table.Table, state, symbol string) string {
	act, ok := tbl.Action(state, symbol)
	if !ok {
		return ""
	}
	switch act.Type {
	case table.Accept:
		return "acc"
	case table.Reduce:
		return fmt.Sprintf("r(%s)", act.Production.String())
	case table.Shift:
		return fmt.Sprintf("s%s", act.State)
	default:
		return ""
	}
}
