package lex

import "github.com/darshimo/ruly2/internal/ictiobus/types"

// tokenStream is a simple, fully-materialized types.TokenStream over the
// slice Lex already produced in one pass (§5: "the lexer reads its input
// string in one pass" — there is no streaming/lazy variant to support).
type tokenStream struct {
	tokens []types.Token
	pos    int
}

// NewTokenStream wraps an already-lexed token slice as a types.TokenStream
// for the parse driver.
func NewTokenStream(tokens []types.Token) types.TokenStream {
	return &tokenStream{tokens: tokens}
}

func (ts *tokenStream) Next() types.Token {
	t := ts.tokens[ts.pos]
	ts.pos++
	return t
}

func (ts *tokenStream) Peek() types.Token {
	return ts.tokens[ts.pos]
}

func (ts *tokenStream) HasNext() bool {
	return ts.pos < len(ts.tokens)
}
