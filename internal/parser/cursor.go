// Package parser implements the DSL's recursive-descent parser: it
// consumes the token stream produced by internal/lexer and builds the
// syntax tree defined in pkg/ast. The cursor abstraction (immutable,
// buffered, Mark/ResetTo backtracking) follows the teacher compiler's
// parser design.
package parser

import (
	"github.com/cscan-lang/cscan/internal/lexer"
	"github.com/cscan-lang/cscan/pkg/token"
)

// TokenCursor is an immutable, buffered cursor over a lexer's token
// stream with WHITESPACE and COMMENT tokens filtered out; every operation
// returns a new cursor rather than mutating the receiver.
type TokenCursor struct {
	lx      *lexer.Lexer
	current token.Token
	tokens  []token.Token
	index   int
	lexErr  *lexer.Error
}

// NewTokenCursor builds a cursor positioned at the first significant token.
func NewTokenCursor(lx *lexer.Lexer) *TokenCursor {
	c := &TokenCursor{lx: lx, tokens: make([]token.Token, 0, 64)}
	c.fill(1)
	if len(c.tokens) > 0 {
		c.current = c.tokens[0]
	} else {
		c.current = token.Token{Type: token.EOF}
	}
	return c
}

// fill ensures at least n significant tokens are buffered.
func (c *TokenCursor) fill(n int) {
	for len(c.tokens) < n {
		tok, err := c.lx.NextToken()
		if err != nil {
			if c.lexErr == nil {
				c.lexErr = err
			}
			c.tokens = append(c.tokens, token.Token{Type: token.EOF})
			return
		}
		if tok.Type == token.WHITESPACE || tok.Type == token.COMMENT {
			continue
		}
		c.tokens = append(c.tokens, tok)
		if tok.Type == token.EOF {
			return
		}
	}
}

// LexError returns the first lexer error the cursor encountered while
// buffering tokens, if any.
func (c *TokenCursor) LexError() *lexer.Error { return c.lexErr }

// Current returns the token at the cursor's position.
func (c *TokenCursor) Current() token.Token { return c.current }

// Peek returns the token n positions ahead (Peek(0) == Current()).
func (c *TokenCursor) Peek(n int) token.Token {
	if n < 0 {
		return c.current
	}
	target := c.index + n
	c.fill(target + 1)
	if target < len(c.tokens) {
		return c.tokens[target]
	}
	return c.tokens[len(c.tokens)-1]
}

// Advance returns a new cursor at the next significant token.
func (c *TokenCursor) Advance() *TokenCursor {
	c.fill(c.index + 2)
	newIndex := c.index + 1
	if newIndex >= len(c.tokens) {
		newIndex = len(c.tokens) - 1
	}
	return &TokenCursor{lx: c.lx, tokens: c.tokens, index: newIndex, current: c.tokens[newIndex], lexErr: c.lexErr}
}

// Is reports whether the current token matches t.
func (c *TokenCursor) Is(t token.Type) bool { return c.current.Type == t }

// IsAny reports whether the current token matches any of types.
func (c *TokenCursor) IsAny(types ...token.Type) bool {
	for _, t := range types {
		if c.current.Type == t {
			return true
		}
	}
	return false
}

// Skip advances past the current token if it matches t.
func (c *TokenCursor) Skip(t token.Type) (*TokenCursor, bool) {
	if c.Is(t) {
		return c.Advance(), true
	}
	return c, false
}

// Mark is a lightweight saved cursor position for backtracking.
type Mark struct{ index int }

// Mark saves the current position.
func (c *TokenCursor) Mark() Mark { return Mark{index: c.index} }

// ResetTo restores a previously saved position.
func (c *TokenCursor) ResetTo(m Mark) *TokenCursor {
	if m.index < 0 || m.index >= len(c.tokens) {
		return c
	}
	return &TokenCursor{lx: c.lx, tokens: c.tokens, index: m.index, current: c.tokens[m.index], lexErr: c.lexErr}
}

// SkipNewlines advances past any run of NEWLINE tokens (blank lines between
// top-level declarations carry no meaning).
func (c *TokenCursor) SkipNewlines() *TokenCursor {
	cur := c
	for cur.Is(token.NEWLINE) {
		cur = cur.Advance()
	}
	return cur
}
