/*
Rulygen-repl starts an interactive session against a loaded grammar project:
each line typed is tokenized and parsed against the project's compiled
table, tracing every shift, reduce, and goto decision as it happens.

Usage:

	rulygen-repl [flags] PROJECT_FILE

The flags are:

	-v, --version
		Give the current version of rulygen-repl and then exit.

Once a session has started, each line read is parsed against the grammar.
Type "QUIT" to exit the session.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/darshimo/ruly2/internal/ictiobus/lex"
	"github.com/darshimo/ruly2/internal/ictiobus/parse"
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
	returnCode  int
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
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

	if proj.Lexer == nil {
		fmt.Fprintln(os.Stderr, "ERROR: project file declares no [[token]] classes; a lexer is required for an interactive session")
		returnCode = ExitUsageError
		return
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "rulygen> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not start readline: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}
	defer rl.Close()

	if proj.Algorithm == project.LL1 {
		ll1Tbl, err := proj.BuildLL1Table()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitGrammarError
			return
		}
		runLL1Session(rl, proj, ll1Tbl)
		return
	}

	tbl, err := proj.BuildTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	runSession(rl, proj, tbl)
}

func runSession(rl *readline.Instance, proj project.Project, tbl *table.Table) {
	for {
		line, err := rl.Readline()
		if err != nil {
			if err != io.EOF && err != readline.ErrInterrupt {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "QUIT") {
			return
		}

		tokens, err := proj.Lexer.Lex(line)
		if err != nil {
			fmt.Printf("lex error: %s\n", err.Error())
			continue
		}

		p := parse.New(tbl, proj.Grammar, proj.ParserType())
		p.Trace = func(s string) { fmt.Println(s) }

		tree, err := p.Parse(lex.NewTokenStream(tokens))
		if err != nil {
			fmt.Printf("parse error: %s\n", err.Error())
			continue
		}

		fmt.Println(tree.String())
	}
}

func runLL1Session(rl *readline.Instance, proj project.Project, tbl *table.LL1Table) {
	for {
		line, err := rl.Readline()
		if err != nil {
			if err != io.EOF && err != readline.ErrInterrupt {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "QUIT") {
			return
		}

		tokens, err := proj.Lexer.Lex(line)
		if err != nil {
			fmt.Printf("lex error: %s\n", err.Error())
			continue
		}

		p := parse.NewLL1(tbl, proj.Grammar)
		p.Trace = func(s string) { fmt.Println(s) }

		tree, err := p.Parse(lex.NewTokenStream(tokens))
		if err != nil {
			fmt.Printf("parse error: %s\n", err.Error())
			continue
		}

		fmt.Println(tree.String())
	}
}
