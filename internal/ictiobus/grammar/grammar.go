package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/darshimo/ruly2/internal/ictiobus/rerr"
)

// Epsilon is the distinguished absent-terminal marker used to represent the
// empty production and to mark nullability in FIRST sets.
const Epsilon = ""

// EndOfInput is the reserved end-of-input sentinel, ⊥ in the write-up. It is
// a terminal and is always a member of FOLLOW(start) once a grammar is
// augmented.
const EndOfInput = "$"

// augmentedProductionName is the user-facing label of the synthetic
// rule_id-0 production added by Augmented.
const augmentedProductionName = "start"

// Production is a single right-hand side of a rule: (rule_id, name, lhs,
// rhs). rule_id is assigned in source order starting at 1; rule_id 0 is
// reserved for the synthetic augmented production.
type Production struct {
	RuleID      int
	Name        string
	NonTerminal string
	RHS         []string
}

// IsEpsilon returns whether this production derives the empty string.
func (p Production) IsEpsilon() bool {
	return len(p.RHS) == 0
}

// String renders the production as "LHS -> a b c" (or "LHS -> ε").
func (p Production) String() string {
	rhs := strings.Join(p.RHS, " ")
	if rhs == "" {
		rhs = "ε"
	}
	return fmt.Sprintf("%s -> %s", p.NonTerminal, rhs)
}

// Copy returns a deep copy of the production.
func (p Production) Copy() Production {
	cp := p
	cp.RHS = make([]string, len(p.RHS))
	copy(cp.RHS, p.RHS)
	return cp
}

// Rule is every production sharing a left-hand side non-terminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Grammar is an immutable-once-built in-memory representation of a
// context-free grammar: terminals, non-terminals, productions, and a start
// symbol. Mutation (AddTerm/AddRule) is only valid while building the
// grammar; algorithms over a Grammar never mutate it.
type Grammar struct {
	start       string
	terminals   map[string]bool
	rulesByName map[string]int
	rules       []Rule
	nextRuleID  int
}

// New creates an empty grammar with the given start symbol. The start
// symbol's rule must be added via AddRule before the grammar is usable.
func New(start string) *Grammar {
	return &Grammar{
		start:       start,
		terminals:   map[string]bool{},
		rulesByName: map[string]int{},
		nextRuleID:  1,
	}
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// AddTerm declares id as a terminal symbol. Panics if id is not a valid
// ASCII-alphanumeric identifier or collides with a reserved sentinel; this
// mirrors the teacher convention of panicking on programmer error during
// grammar construction, reserving returned errors for Validate.
func (g *Grammar) AddTerm(id string) {
	if !validIdentifier(id) {
		panic(fmt.Sprintf("invalid terminal identifier: %q", id))
	}
	if id == EndOfInput {
		panic(fmt.Sprintf("terminal name %q is a reserved sentinel", id))
	}
	g.terminals[id] = true
}

// AddRule adds a non-terminal and its productions, each given as a name
// (unique within this non-terminal) and a right-hand side symbol sequence.
// Productions are assigned rule_ids in the order AddRule calls are made.
// Panics on a malformed non-terminal identifier or a duplicate production
// name within the same non-terminal, both programmer errors caught at
// construction time.
func (g *Grammar) AddRule(nonTerminal string, productions ...NamedProduction) {
	if !validIdentifier(nonTerminal) {
		panic(fmt.Sprintf("invalid non-terminal identifier: %q", nonTerminal))
	}

	idx, exists := g.rulesByName[nonTerminal]
	var rule Rule
	if exists {
		rule = g.rules[idx]
	} else {
		rule = Rule{NonTerminal: nonTerminal}
	}

	seenNames := map[string]bool{}
	for _, existing := range rule.Productions {
		seenNames[existing.Name] = true
	}

	for _, np := range productions {
		if seenNames[np.Name] {
			panic(fmt.Sprintf("duplicate production name %q for non-terminal %q", np.Name, nonTerminal))
		}
		seenNames[np.Name] = true

		rhs := make([]string, len(np.Symbols))
		copy(rhs, np.Symbols)

		rule.Productions = append(rule.Productions, Production{
			RuleID:      g.nextRuleID,
			Name:        np.Name,
			NonTerminal: nonTerminal,
			RHS:         rhs,
		})
		g.nextRuleID++
	}

	if exists {
		g.rules[idx] = rule
	} else {
		g.rulesByName[nonTerminal] = len(g.rules)
		g.rules = append(g.rules, rule)
	}
}

// NamedProduction is a single (name, symbols) right-hand side as supplied to
// AddRule, matching the external grammar-input shape of §6.
type NamedProduction struct {
	Name    string
	Symbols []string
}

// Prod is a convenience constructor for a NamedProduction.
func Prod(name string, symbols ...string) NamedProduction {
	return NamedProduction{Name: name, Symbols: symbols}
}

// StartSymbol returns the grammar's (unaugmented) start non-terminal.
func (g Grammar) StartSymbol() string {
	return g.start
}

// Rule returns the rule for the given non-terminal, if any.
func (g Grammar) Rule(nonTerminal string) (Rule, bool) {
	idx, ok := g.rulesByName[nonTerminal]
	if !ok {
		return Rule{}, false
	}
	return g.rules[idx], true
}

// Productions returns every production in the grammar, ordered by rule_id.
func (g Grammar) Productions() []Production {
	var all []Production
	for _, r := range g.rules {
		all = append(all, r.Productions...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].RuleID < all[j].RuleID })
	return all
}

// ProductionByRuleID looks up a production by its rule_id.
func (g Grammar) ProductionByRuleID(id int) (Production, bool) {
	for _, r := range g.rules {
		for _, p := range r.Productions {
			if p.RuleID == id {
				return p, true
			}
		}
	}
	return Production{}, false
}

// Terminals returns the declared terminal symbols plus the end-of-input
// sentinel, sorted for deterministic iteration.
func (g Grammar) Terminals() []string {
	out := make([]string, 0, len(g.terminals)+1)
	for t := range g.terminals {
		out = append(out, t)
	}
	out = append(out, EndOfInput)
	sort.Strings(out)
	return out
}

// NonTerminals returns the declared non-terminal symbols, sorted for
// deterministic iteration.
func (g Grammar) NonTerminals() []string {
	out := make([]string, 0, len(g.rules))
	for _, r := range g.rules {
		out = append(out, r.NonTerminal)
	}
	sort.Strings(out)
	return out
}

// IsTerminal returns whether sym is a declared terminal or the end-of-input
// sentinel.
func (g Grammar) IsTerminal(sym string) bool {
	if sym == EndOfInput {
		return true
	}
	return g.terminals[sym]
}

// IsNonTerminal returns whether sym has a rule.
func (g Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.rulesByName[sym]
	return ok
}

// Copy returns a deep copy of the grammar.
func (g Grammar) Copy() Grammar {
	cp := Grammar{
		start:       g.start,
		terminals:   make(map[string]bool, len(g.terminals)),
		rulesByName: make(map[string]int, len(g.rulesByName)),
		nextRuleID:  g.nextRuleID,
	}
	for k, v := range g.terminals {
		cp.terminals[k] = v
	}
	for k, v := range g.rulesByName {
		cp.rulesByName[k] = v
	}
	cp.rules = make([]Rule, len(g.rules))
	for i, r := range g.rules {
		nr := Rule{NonTerminal: r.NonTerminal}
		nr.Productions = make([]Production, len(r.Productions))
		for j, p := range r.Productions {
			nr.Productions[j] = p.Copy()
		}
		cp.rules[i] = nr
	}
	return cp
}

// Augmented returns a new grammar with the synthetic production
// S̃ → S ⊥ (rule_id 0) prepended, where S̃ is a freshly generated name (the
// start symbol with apostrophes appended until it is unused) and S is the
// receiver's start symbol. The returned grammar's StartSymbol is S̃.
func (g Grammar) Augmented() Grammar {
	augStart := g.start
	for g.IsTerminal(augStart) || g.IsNonTerminal(augStart) {
		augStart += "'"
	}

	cp := g.Copy()
	cp.start = augStart

	augProd := Production{
		RuleID:      0,
		Name:        augmentedProductionName,
		NonTerminal: augStart,
		RHS:         []string{g.start, EndOfInput},
	}

	augRule := Rule{NonTerminal: augStart, Productions: []Production{augProd}}
	cp.rulesByName[augStart] = len(cp.rules)
	cp.rules = append(cp.rules, augRule)

	return cp
}

// IsAugmented returns whether this grammar's start symbol's sole rule is the
// reserved rule_id-0 augmented production.
func (g Grammar) IsAugmented() bool {
	rule, ok := g.Rule(g.start)
	if !ok || len(rule.Productions) != 1 {
		return false
	}
	return rule.Productions[0].RuleID == 0
}

// Validate checks the structural invariants of §3: the grammar has rules, the
// start symbol has a rule, every rhs symbol must be classified as terminal or
// non-terminal, and every non-terminal must have at least one production.
// Collisions with a reserved sentinel are not checked here; AddTerm and
// AddRule already reject such names.
func (g Grammar) Validate() error {
	if len(g.rules) == 0 {
		return rerr.NewInvalidGrammar("grammar has no rules")
	}
	if _, ok := g.rulesByName[g.start]; !ok {
		return rerr.NewInvalidGrammar(fmt.Sprintf("start symbol %q has no rule", g.start))
	}

	for _, r := range g.rules {
		if len(r.Productions) == 0 {
			return rerr.NewInvalidGrammar(fmt.Sprintf("non-terminal %q has no productions", r.NonTerminal))
		}
		for _, p := range r.Productions {
			for _, sym := range p.RHS {
				if sym == Epsilon {
					continue
				}
				if !g.IsTerminal(sym) && !g.IsNonTerminal(sym) {
					return rerr.NewInvalidGrammar(fmt.Sprintf("production %s references undeclared symbol %q", p, sym))
				}
			}
		}
	}

	return nil
}

// Fingerprint returns a stable hex-encoded content hash of the grammar's
// canonical production listing, used as a cache key (internal/cache) and
// embedded in signed export bundles (internal/bundle). Terminals are hashed
// in sorted order, so their declaration order does not matter; productions
// are hashed with their rule ids, so declaring the same rules in a different
// order produces a different fingerprint.
func (g Grammar) Fingerprint() string {
	var sb strings.Builder
	sb.WriteString("start:")
	sb.WriteString(g.start)
	sb.WriteString("\nterms:")
	sb.WriteString(strings.Join(g.Terminals(), ","))
	sb.WriteString("\nrules:\n")

	prods := g.Productions()
	for _, p := range prods {
		fmt.Fprintf(&sb, "%d|%s|%s|%s\n", p.RuleID, p.NonTerminal, p.Name, strings.Join(p.RHS, " "))
	}

	return fingerprintHash(sb.String())
}
