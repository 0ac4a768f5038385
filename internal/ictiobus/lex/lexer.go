package lex

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/darshimo/ruly2/internal/ictiobus/rerr"
	"github.com/darshimo/ruly2/internal/ictiobus/types"
)

// extractor is a single compiled token pattern. Non-reserved extractors are
// matched at the cursor; reserved extractors are matched against an entire
// already-matched lexeme.
type extractor struct {
	classID string
	cursor  *regexp.Regexp // anchored at the start of the remaining input
	whole   *regexp.Regexp // anchored at both ends, used for reserved retagging
}

// Lexer holds the compiled whitespace pattern and the ordered non-reserved
// and reserved extractor lists that define a single lexical grammar. A Lexer
// is built once via NewLexer/AddClass/AddPattern and is read-only once
// Lex is first called.
type Lexer struct {
	classes     map[string]types.TokenClass
	whitespace  *regexp.Regexp
	nonReserved []extractor
	reserved    []extractor
}

// NewLexer compiles whitespacePattern and returns a Lexer ready to have
// classes and patterns added to it. whitespacePattern must match the empty
// string; per the lexer contract this is checked eagerly and NewLexer panics
// if it does not, rather than deferring the failure to the first Lex call.
func NewLexer(whitespacePattern string) *Lexer {
	ws := regexp.MustCompile(`^(?:` + whitespacePattern + `)`)
	if !ws.MatchString("") {
		panic(fmt.Sprintf("lex: whitespace pattern %q does not match the empty string", whitespacePattern))
	}

	return &Lexer{
		classes:    map[string]types.TokenClass{},
		whitespace: ws,
	}
}

// AddClass registers a token class with the given id and human-readable
// name. It must be called before any AddPattern that references the class.
func (lx *Lexer) AddClass(id string, human string) types.TokenClass {
	class := NewTokenClass(id, human)
	lx.classes[id] = class
	return class
}

// AddPattern registers an extractor for the given, already-added class. If
// reserved is false the pattern is tried at the cursor in declaration order
// against every other non-reserved pattern, first success wins; if reserved
// is true the pattern is tried against the complete lexeme a non-reserved
// extractor just matched, in declaration order, and the token is retagged
// to this class on the first whole-lexeme match.
func (lx *Lexer) AddPattern(classID string, pattern string, reserved bool) error {
	if _, ok := lx.classes[classID]; !ok {
		return fmt.Errorf("lex: class %q has not been added", classID)
	}

	cursorRe, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return fmt.Errorf("lex: pattern for class %q: %w", classID, err)
	}
	wholeRe, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return fmt.Errorf("lex: pattern for class %q: %w", classID, err)
	}

	ex := extractor{classID: classID, cursor: cursorRe, whole: wholeRe}
	if reserved {
		lx.reserved = append(lx.reserved, ex)
	} else {
		lx.nonReserved = append(lx.nonReserved, ex)
	}
	return nil
}

// cursorState tracks the running line/column position as Lex advances
// through the input in a single pass.
type cursorState struct {
	text      string
	pos       int
	lineNum   int
	lineStart int
}

func newCursorState(text string) *cursorState {
	return &cursorState{text: text, pos: 0, lineNum: 1, lineStart: 0}
}

func (c *cursorState) advance(n int) {
	consumed := c.text[c.pos : c.pos+n]
	for i := 0; i < len(consumed); i++ {
		if consumed[i] == '\n' {
			c.lineNum++
			c.lineStart = c.pos + i + 1
		}
	}
	c.pos += n
}

func (c *cursorState) col() int {
	return c.pos - c.lineStart + 1
}

func (c *cursorState) fullLine() string {
	rest := c.text[c.lineStart:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

func (c *cursorState) peek(max int) string {
	end := c.pos + max
	if end > len(c.text) {
		end = len(c.text)
	}
	return c.text[c.pos:end]
}

// Lex tokenizes text in a single pass: at every position the longest
// whitespace match starting exactly at the cursor is skipped, then the
// non-reserved extractors are tried in declaration order (first success
// wins), and finally the reserved extractors are tried against the whole
// matched lexeme, retagging the token's class on the first exact match.
func (lx *Lexer) Lex(text string) ([]types.Token, error) {
	cur := newCursorState(text)
	var tokens []types.Token

	for cur.pos < len(text) {
		if loc := lx.whitespace.FindStringIndex(text[cur.pos:]); loc != nil && loc[1] > 0 {
			cur.advance(loc[1])
			continue
		}

		if cur.pos >= len(text) {
			break
		}

		classID, lexeme, ok := lx.matchNonReserved(text[cur.pos:])
		if !ok {
			return nil, rerr.NewTokenizeError(cur.lineNum, cur.col(), cur.peek(30))
		}

		if retag, ok := lx.matchReserved(lexeme); ok {
			classID = retag
		}

		tok := lexerToken{
			class:   lx.classes[classID],
			lexed:   lexeme,
			linePos: cur.col(),
			lineNum: cur.lineNum,
			line:    cur.fullLine(),
		}
		tokens = append(tokens, tok)

		cur.advance(len(lexeme))
	}

	return tokens, nil
}

// matchNonReserved tries every non-reserved extractor, in declaration
// order, against the start of remaining. The first extractor to produce a
// non-empty match wins; a zero-length match is skipped rather than taken,
// since taking it would never advance the cursor.
func (lx *Lexer) matchNonReserved(remaining string) (classID string, lexeme string, ok bool) {
	for _, ex := range lx.nonReserved {
		loc := ex.cursor.FindStringIndex(remaining)
		if loc == nil || loc[1] == 0 {
			continue
		}
		return ex.classID, remaining[:loc[1]], true
	}
	return "", "", false
}

// matchReserved tries every reserved extractor, in declaration order,
// against the entire lexeme. The first whole-lexeme match wins.
func (lx *Lexer) matchReserved(lexeme string) (classID string, ok bool) {
	for _, ex := range lx.reserved {
		if ex.whole.MatchString(lexeme) {
			return ex.classID, true
		}
	}
	return "", false
}
