package lexer

import (
	"fmt"

	"github.com/cscan-lang/cscan/pkg/token"
)

// ErrorCode enumerates the taxonomy of spec.md §7 "Lexical" errors.
type ErrorCode string

const (
	ErrInvalidCharacter    ErrorCode = "LEX_INVALID_CHARACTER"
	ErrUnterminatedString  ErrorCode = "LEX_UNTERMINATED_STRING"
	ErrStringTooLarge      ErrorCode = "LEX_STRING_TOO_LARGE"
	ErrInvalidNumber       ErrorCode = "LEX_INVALID_NUMBER"
	ErrIdentifierTooLong   ErrorCode = "LEX_IDENTIFIER_TOO_LONG"
	ErrCommentTooLong      ErrorCode = "LEX_COMMENT_TOO_LONG"
	ErrTokenLimitExceeded  ErrorCode = "LEX_TOKEN_LIMIT_EXCEEDED"
	ErrStringNestingTooDeep ErrorCode = "LEX_STRING_NESTING_TOO_DEEP"
)

// Error is the LexerError variant spec.md §4.1 requires: a code, the
// offending span, a human message, and a limit value when the failure was a
// resource-limit breach (0 otherwise).
type Error struct {
	Code    ErrorCode
	Pos     token.Position
	Message string
	Limit   int
	Value   int
}

func (e *Error) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("%s at %s: %s (value=%d, limit=%d)", e.Code, e.Pos, e.Message, e.Value, e.Limit)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Pos, e.Message)
}
