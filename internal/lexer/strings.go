package lexer

import (
	"strings"

	"github.com/cscan-lang/cscan/pkg/token"
)

// lexString scans one of the DSL's four backtick string forms: plain
// single-backtick, triple-backtick multiline, raw single-backtick (the
// caller has already consumed the leading `r`), and raw triple-backtick.
// Inside a plain single-backtick string a doubled backtick (` `` `) escapes
// a literal backtick; raw forms never interpret escapes.
func (l *Lexer) lexString(start token.Position, raw bool) (token.Token, *Error) {
	depth := 1
	if depth > l.limits.MaxStringNestingDepth {
		return token.Token{}, &Error{
			Code: ErrStringNestingTooDeep, Pos: start, Message: "string nesting too deep",
			Limit: l.limits.MaxStringNestingDepth, Value: depth,
		}
	}

	triple := l.ch == '`' && l.peekByteAt(0) == '`' && l.peekByteAt(1) == '`'

	if triple {
		l.readChar()
		l.readChar()
		l.readChar()
	} else {
		l.readChar() // consume opening backtick
	}

	var sb strings.Builder
	for {
		if l.ch == 0 {
			return token.Token{}, &Error{Code: ErrUnterminatedString, Pos: start, Message: "unterminated string literal"}
		}

		if triple {
			if l.ch == '`' && l.peekByteAt(0) == '`' && l.peekByteAt(1) == '`' {
				l.readChar()
				l.readChar()
				l.readChar()
				break
			}
		} else if l.ch == '`' {
			if !raw && l.peekByteAt(0) == '`' {
				sb.WriteByte('`')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			break
		}

		sb.WriteRune(l.ch)
		if sb.Len() > l.limits.MaxStringBytes {
			return token.Token{}, &Error{
				Code: ErrStringTooLarge, Pos: start, Message: "string literal exceeds maximum size",
				Limit: l.limits.MaxStringBytes, Value: sb.Len(),
			}
		}
		l.readChar()
	}

	l.metrics.StringCount++
	l.metrics.TokenCount++
	return l.newTok(token.STRING, sb.String(), start), nil
}
