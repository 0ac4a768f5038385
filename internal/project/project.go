// Package project loads a grammar project: a TOML manifest naming a
// grammar's terminals, rules, start symbol, and the parsing algorithm to
// build it under. It is the format cmd/rulygen and cmd/rulygen-repl read.
package project

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/darshimo/ruly2/internal/ictiobus/grammar"
	"github.com/darshimo/ruly2/internal/ictiobus/lex"
	"github.com/darshimo/ruly2/internal/ictiobus/table"
	"github.com/darshimo/ruly2/internal/ictiobus/types"
)

// Algorithm names one of the five table-construction algorithms a project
// may request.
type Algorithm string

const (
	LR0   Algorithm = "lr0"
	SLR   Algorithm = "slr"
	LR1   Algorithm = "lr1"
	LALR1 Algorithm = "lalr1"

	// LL1 selects the sibling recursive-descent-equivalent back-end (§6):
	// a predictive parser built from BuildLL1Table rather than the LR
	// family's shift/reduce automaton.
	LL1 Algorithm = "ll1"
)

// ParseAlgorithm parses a manifest's algorithm string, case-insensitively.
// "ll" is accepted as an alias for "ll1".
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(s)) {
	case LR0:
		return LR0, nil
	case SLR:
		return SLR, nil
	case LR1:
		return LR1, nil
	case LALR1:
		return LALR1, nil
	case LL1, "ll":
		return LL1, nil
	default:
		return "", fmt.Errorf("algorithm must be one of lr0, slr, lr1, lalr1, or ll1, got %q", s)
	}
}

// topLevel is the raw shape of a project manifest file.
type topLevel struct {
	Format     string   `toml:"format"`
	Start      string   `toml:"start"`
	Algorithm  string   `toml:"algorithm"`
	Terminals  []string `toml:"terminals"`
	Whitespace string   `toml:"whitespace"`
	Rules      []rule   `toml:"rule"`
	Tokens     []token  `toml:"token"`
}

type rule struct {
	NonTerminal string       `toml:"nonterminal"`
	Productions []production `toml:"production"`
}

type production struct {
	Name string   `toml:"name"`
	RHS  []string `toml:"rhs"`
}

// token is one lexer class declaration: a terminal id, its human-readable
// name, the patterns that produce it, and whether those patterns match
// only the already-lexed whole token (reserved) or are tried at the cursor.
type token struct {
	ID       string   `toml:"id"`
	Human    string   `toml:"human"`
	Patterns []string `toml:"patterns"`
	Reserved bool     `toml:"reserved"`
}

// Project is a loaded, validated grammar project ready to be compiled. Lexer
// is nil unless the manifest declared a [[token]] table (the whitespace
// pattern defaults to `\s*` when the manifest omits it); callers that only need the grammar/table (e.g. an exported
// bundle) can ignore it.
type Project struct {
	Algorithm Algorithm
	Grammar   grammar.Grammar
	Lexer     *lex.Lexer
}

// Load reads and parses a project manifest from file.
func Load(file string) (Project, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Project{}, fmt.Errorf("could not read project file: %w", err)
	}
	return Parse(data)
}

// Parse parses TOML manifest bytes into a Project.
func Parse(data []byte) (Project, error) {
	var top topLevel
	if err := toml.Unmarshal(data, &top); err != nil {
		return Project{}, fmt.Errorf("malformed project manifest: %w", err)
	}

	if top.Start == "" {
		return Project{}, fmt.Errorf("project manifest missing required 'start' key")
	}

	algo, err := ParseAlgorithm(top.Algorithm)
	if err != nil {
		return Project{}, err
	}

	g := grammar.New(top.Start)
	for _, term := range top.Terminals {
		g.AddTerm(term)
	}
	for _, r := range top.Rules {
		prods := make([]grammar.NamedProduction, 0, len(r.Productions))
		for _, p := range r.Productions {
			prods = append(prods, grammar.Prod(p.Name, p.RHS...))
		}
		g.AddRule(r.NonTerminal, prods...)
	}

	if err := g.Validate(); err != nil {
		return Project{}, fmt.Errorf("project grammar is invalid: %w", err)
	}

	var lexer *lex.Lexer
	if len(top.Tokens) > 0 {
		lexer, err = buildLexer(top)
		if err != nil {
			return Project{}, err
		}
	}

	return Project{Algorithm: algo, Grammar: *g, Lexer: lexer}, nil
}

func buildLexer(top topLevel) (*lex.Lexer, error) {
	whitespace := top.Whitespace
	if whitespace == "" {
		whitespace = `\s*`
	}

	lexer := lex.NewLexer(whitespace)
	for _, tok := range top.Tokens {
		lexer.AddClass(tok.ID, tok.Human)
	}
	for _, tok := range top.Tokens {
		for _, pattern := range tok.Patterns {
			if err := lexer.AddPattern(tok.ID, pattern, tok.Reserved); err != nil {
				return nil, fmt.Errorf("token %q: %w", tok.ID, err)
			}
		}
	}
	return lexer, nil
}

// ParserType returns the types.ParserType corresponding to this project's
// chosen algorithm, for constructing a parse.Parser.
func (p Project) ParserType() types.ParserType {
	switch p.Algorithm {
	case LR0:
		return types.ParserLR0
	case SLR:
		return types.ParserSLR1
	case LR1:
		return types.ParserCLR1
	case LALR1:
		return types.ParserLALR1
	case LL1:
		return types.ParserLL1
	default:
		return types.ParserLL1
	}
}

// BuildTable compiles the project's grammar under its chosen LR-family
// algorithm. It returns an error for an LL1 project; use BuildLL1Table
// instead.
func (p Project) BuildTable() (*table.Table, error) {
	switch p.Algorithm {
	case LR0:
		return table.BuildLR0Table(p.Grammar)
	case SLR:
		return table.BuildSLRTable(p.Grammar)
	case LR1:
		return table.BuildLR1Table(p.Grammar)
	case LALR1:
		return table.BuildLALR1Table(p.Grammar)
	case LL1:
		return nil, fmt.Errorf("algorithm %q does not build an ACTION/GOTO table; use BuildLL1Table", p.Algorithm)
	default:
		return nil, fmt.Errorf("unknown algorithm %q", p.Algorithm)
	}
}

// BuildLL1Table compiles the project's grammar into a predict table. It
// returns an error for any LR-family project.
func (p Project) BuildLL1Table() (*table.LL1Table, error) {
	if p.Algorithm != LL1 {
		return nil, fmt.Errorf("algorithm %q is not ll1", p.Algorithm)
	}
	return table.BuildLL1Table(p.Grammar)
}
