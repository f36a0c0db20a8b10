package parser

import (
	"fmt"

	"github.com/cscan-lang/cscan/pkg/token"
)

// ErrorKind classifies a syntax error the way the grammar can fail.
type ErrorKind string

const (
	ErrEmptyStream       ErrorKind = "empty_stream"
	ErrMissingEOF        ErrorKind = "missing_eof"
	ErrUnexpectedToken   ErrorKind = "unexpected_token"
	ErrUnmatchedDelim    ErrorKind = "unmatched_delimiter"
	ErrGrammarViolation  ErrorKind = "grammar_violation"
	ErrMaxRecursionDepth ErrorKind = "max_recursion_depth"
	ErrLexical           ErrorKind = "lexical_error"
)

// SyntaxError is the parser's single error type; Kind discriminates the
// failure shape and Pos/Message carry the diagnostic payload.
type SyntaxError struct {
	Kind    ErrorKind
	Pos     token.Position
	Message string
	Found   token.Type
	Want    []token.Type
}

func (e *SyntaxError) Error() string {
	if len(e.Want) > 0 {
		return fmt.Sprintf("%s: %s (found %s, want one of %v)", e.Pos, e.Message, e.Found, e.Want)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func unexpected(cur token.Token, want ...token.Type) *SyntaxError {
	return &SyntaxError{
		Kind: ErrUnexpectedToken, Pos: cur.Start, Found: cur.Type, Want: want,
		Message: fmt.Sprintf("unexpected token %s", cur.Type),
	}
}

func grammarViolation(pos token.Position, msg string) *SyntaxError {
	return &SyntaxError{Kind: ErrGrammarViolation, Pos: pos, Message: msg}
}
