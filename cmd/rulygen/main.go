/*
Rulygen compiles a grammar project into an ACTION/GOTO table and prints it,
or checks the grammar for conflicts without printing anything on success.

Usage:

	rulygen [flags] PROJECT_FILE

The flags are:

	-v, --version
		Give the current version of rulygen and then exit.

	-a, --algorithm ALGORITHM
		Override the algorithm named in the project file. One of lr0, slr,
		lr1, lalr1, or ll1.

	-c, --check
		Only check the grammar for conflicts; do not print the table.

	--cache FILE
		Cache compiled tables in the sqlite database at FILE, keyed by
		grammar fingerprint, to skip rebuilding an unchanged grammar.
*/
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/darshimo/ruly2/internal/cache"
	"github.com/darshimo/ruly2/internal/ictiobus/rerr"
	"github.com/darshimo/ruly2/internal/ictiobus/table"
	"github.com/darshimo/ruly2/internal/project"
	"github.com/darshimo/ruly2/internal/version"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitGrammarError
)

var (
	returnCode    int
	flagVersion   = pflag.BoolP("version", "v", false, "Gives the version info")
	flagAlgorithm = pflag.StringP("algorithm", "a", "", "Override the algorithm named in the project file")
	flagCheck     = pflag.BoolP("check", "c", false, "Only check the grammar for conflicts")
	flagCacheFile = pflag.String("cache", "", "Cache compiled tables in the sqlite database at this path")
)

func main() {
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: missing required argument PROJECT_FILE")
		returnCode = ExitUsageError
		return
	}

	proj, err := project.Load(pflag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitUsageError
		return
	}

	if *flagAlgorithm != "" {
		algo, err := project.ParseAlgorithm(*flagAlgorithm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitUsageError
			return
		}
		proj.Algorithm = algo
	}

	if proj.Algorithm == project.LL1 {
		ll1Tbl, err := proj.BuildLL1Table()
		if err != nil {
			reportGrammarError(err)
			returnCode = ExitGrammarError
			return
		}
		if *flagCheck {
			return
		}
		fmt.Println(renderLL1Table(proj, ll1Tbl))
		return
	}

	fingerprint := proj.Grammar.Fingerprint()

	var store *cache.Store
	if *flagCacheFile != "" {
		store, err = cache.Open(*flagCacheFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not open cache: %s\n", err.Error())
			returnCode = ExitGrammarError
			return
		}
		defer store.Close()
	}

	tbl, err := buildWithCache(proj, store, fingerprint)
	if err != nil {
		reportGrammarError(err)
		returnCode = ExitGrammarError
		return
	}

	if *flagCheck {
		return
	}

	fmt.Println(renderTable(proj, tbl))
}

var titleCaser = cases.Title(language.English)

// reportGrammarError prints a grammar-build failure to stderr. A conflict
// gets a title-cased category line ahead of the detail ("Shift Reduce
// Conflict"); any other error is printed as-is.
func reportGrammarError(err error) {
	var conflict *rerr.ConflictError
	if errors.As(err, &conflict) {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n%s\n", titleCaser.String(conflictCategory(conflict.Kind)), err.Error())
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
}

func conflictCategory(kind rerr.ConflictKind) string {
	switch kind {
	case rerr.ShiftReduceConflict:
		return "shift reduce conflict"
	case rerr.ReduceReduceConflict:
		return "reduce reduce conflict"
	case rerr.PredictConflict:
		return "predict conflict"
	default:
		return "conflict"
	}
}

func buildWithCache(proj project.Project, store *cache.Store, fingerprint string) (*table.Table, error) {
	if store != nil {
		if cached, err := store.Get(fingerprint, string(proj.Algorithm)); err == nil {
			return cached, nil
		}
	}

	tbl, err := proj.BuildTable()
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.Put(fingerprint, string(proj.Algorithm), tbl); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: could not write table to cache: %s\n", err.Error())
		}
	}

	return tbl, nil
}
