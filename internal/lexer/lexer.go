// Package lexer implements the DSL's hand-written tokenizer: a
// context-free scanner over UTF-8 source text that produces a stream of
// spanned tokens terminated by EOF, bounded by a caller-supplied set of
// compile-time security limits. The construction style (functional
// options, explicit (line, column, byte-offset) tracking on every token)
// follows the teacher compiler's lexer.
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cscan-lang/cscan/pkg/token"
)

// Limits bounds the lexer's resource consumption; every field is validated
// at each relevant point and a breach produces a typed Error rather than
// unbounded work (spec.md §5).
type Limits struct {
	MaxTokens             int
	MaxIdentifierLength   int
	MaxStringBytes        int
	MaxCommentLength      int
	MaxStringNestingDepth int
}

// DefaultLimits returns the limits used when no Limits is supplied.
func DefaultLimits() Limits {
	return Limits{
		MaxTokens:             200_000,
		MaxIdentifierLength:   256,
		MaxStringBytes:        1 << 20,
		MaxCommentLength:      4096,
		MaxStringNestingDepth: 8,
	}
}

// Metrics reports per-run counts collected while scanning.
type Metrics struct {
	TokenCount      int
	CommentCount    int
	StringCount     int
	WhitespaceCount int // only populated when WithWhitespaceMetrics(true)
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// WithLimits overrides the default security limits.
func WithLimits(l Limits) Option {
	return func(lx *Lexer) { lx.limits = l }
}

// WithPreserveComments makes the lexer emit COMMENT tokens instead of
// silently discarding `#`-to-end-of-line comments.
func WithPreserveComments(preserve bool) Option {
	return func(lx *Lexer) { lx.preserveComments = preserve }
}

// WithWhitespaceMetrics enables whitespace-token counting in Metrics, off
// by default (spec.md §4.1: "metrics count whitespace only if enabled").
func WithWhitespaceMetrics(enabled bool) Option {
	return func(lx *Lexer) { lx.countWhitespace = enabled }
}

// Lexer is a single-use scanner over one source string.
type Lexer struct {
	input  string
	limits Limits

	pos     int // byte offset of ch
	readPos int // byte offset of next rune
	line    int
	col     int // rune count on current line, 1-based
	ch      rune
	width   int // byte width of ch

	preserveComments bool
	countWhitespace  bool

	metrics Metrics
}

// New constructs a Lexer over src.
func New(src string, opts ...Option) *Lexer {
	lx := &Lexer{
		input:  src,
		limits: DefaultLimits(),
		line:   1,
		col:    0,
	}
	for _, opt := range opts {
		opt(lx)
	}
	lx.readChar()
	return lx
}

// Metrics returns the metrics accumulated so far.
func (l *Lexer) Metrics() Metrics { return l.metrics }

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.width = 0
		l.pos = l.readPos
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.pos = l.readPos
	l.ch = r
	l.width = w
	l.readPos += w

	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) peekByteAt(offset int) byte {
	idx := l.readPos + offset
	if idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

func (l *Lexer) peekRune() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) pos2() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) newTok(tt token.Type, lit string, start token.Position) token.Token {
	return token.Token{Type: tt, Literal: lit, Start: start, End: l.pos2()}
}

func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isIdentContinue(r rune) bool {
	return isLetter(r) || isDigit(r)
}

// NextToken scans and returns the next token, or a *Error on failure.
func (l *Lexer) NextToken() (token.Token, *Error) {
	if l.metrics.TokenCount >= l.limits.MaxTokens {
		return token.Token{}, &Error{
			Code: ErrTokenLimitExceeded, Pos: l.pos2(),
			Message: "token limit exceeded", Limit: l.limits.MaxTokens, Value: l.metrics.TokenCount,
		}
	}

	start := l.pos2()

	switch {
	case l.ch == 0:
		tok := l.newTok(token.EOF, "", start)
		l.metrics.TokenCount++
		return tok, nil

	case l.ch == ' ' || l.ch == '\t':
		return l.lexWhitespace(start)

	case l.ch == '\n' || l.ch == '\r':
		return l.lexNewline(start)

	case l.ch == '#':
		return l.lexComment(start)

	case l.ch == '.':
		l.readChar()
		tok := l.newTok(token.DOT, ".", start)
		l.metrics.TokenCount++
		return tok, nil

	case l.ch == '`':
		return l.lexString(start, false)

	case l.ch == 'r' && l.peekRune() == '`':
		l.readChar() // consume 'r'
		return l.lexString(start, true)

	case l.ch == '-' && isDigit(l.peekRune()):
		return l.lexNumber(start)

	case isDigit(l.ch):
		return l.lexNumber(start)

	case isLetter(l.ch):
		return l.lexIdentOrKeyword(start)

	default:
		return l.lexSymbol(start)
	}
}

func (l *Lexer) lexWhitespace(start token.Position) (token.Token, *Error) {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
	lit := l.input[start.Offset:l.pos]
	if l.countWhitespace {
		l.metrics.WhitespaceCount++
	}
	l.metrics.TokenCount++
	return l.newTok(token.WHITESPACE, lit, start), nil
}

// lexNewline collapses \r\n (and bare \r) into a single NEWLINE token.
func (l *Lexer) lexNewline(start token.Position) (token.Token, *Error) {
	if l.ch == '\r' && l.peekRune() == '\n' {
		l.readChar()
		l.readChar()
		l.metrics.TokenCount++
		return l.newTok(token.NEWLINE, "\r\n", start), nil
	}
	lit := string(l.ch)
	l.readChar()
	l.metrics.TokenCount++
	return l.newTok(token.NEWLINE, lit, start), nil
}

func (l *Lexer) lexComment(start token.Position) (token.Token, *Error) {
	l.readChar() // consume '#'
	contentStart := l.pos
	for l.ch != '\n' && l.ch != '\r' && l.ch != 0 {
		l.readChar()
	}
	lit := l.input[contentStart:l.pos]
	if len(lit) > l.limits.MaxCommentLength {
		return token.Token{}, &Error{
			Code: ErrCommentTooLong, Pos: start, Message: "comment exceeds maximum length",
			Limit: l.limits.MaxCommentLength, Value: len(lit),
		}
	}
	l.metrics.CommentCount++
	if !l.preserveComments {
		return l.NextToken()
	}
	l.metrics.TokenCount++
	return l.newTok(token.COMMENT, lit, start), nil
}

func (l *Lexer) lexNumber(start token.Position) (token.Token, *Error) {
	var sb strings.Builder
	if l.ch == '-' {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	for isDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}

	isFloat := false
	if l.ch == '.' && isDigit(l.peekRune()) {
		isFloat = true
		sb.WriteRune(l.ch)
		l.readChar()
		for isDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}

	lit := sb.String()
	if isLetter(l.ch) || l.ch == '.' {
		return token.Token{}, &Error{Code: ErrInvalidNumber, Pos: start, Message: "invalid number literal " + lit}
	}

	l.metrics.TokenCount++
	if isFloat {
		if _, err := strconv.ParseFloat(lit, 64); err != nil {
			return token.Token{}, &Error{Code: ErrInvalidNumber, Pos: start, Message: "invalid float literal " + lit}
		}
		return l.newTok(token.FLOAT, lit, start), nil
	}
	if _, err := strconv.ParseInt(lit, 10, 64); err != nil {
		return token.Token{}, &Error{Code: ErrInvalidNumber, Pos: start, Message: "invalid int literal " + lit}
	}
	return l.newTok(token.INT, lit, start), nil
}

func (l *Lexer) lexIdentOrKeyword(start token.Position) (token.Token, *Error) {
	// `ci=` / `ci!=` are dedicated case-insensitive comparison operators,
	// not the identifier "ci", when not followed by an identifier
	// continuation character.
	if l.ch == 'c' && l.peekRune() == 'i' {
		third := l.peekByteAt(1)
		if third == '=' {
			l.readChar()
			l.readChar()
			l.readChar()
			l.metrics.TokenCount++
			return l.newTok(token.CI_EQ, "ci=", start), nil
		}
		if third == '!' && l.peekByteAt(2) == '=' {
			l.readChar()
			l.readChar()
			l.readChar()
			l.readChar()
			l.metrics.TokenCount++
			return l.newTok(token.CI_NEQ, "ci!=", start), nil
		}
	}

	var sb strings.Builder
	for isIdentContinue(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
		if sb.Len() > l.limits.MaxIdentifierLength {
			return token.Token{}, &Error{
				Code: ErrIdentifierTooLong, Pos: start, Message: "identifier exceeds maximum length",
				Limit: l.limits.MaxIdentifierLength, Value: sb.Len(),
			}
		}
	}
	lit := sb.String()
	l.metrics.TokenCount++

	if lit == "true" || lit == "false" {
		return l.newTok(token.BOOLEAN, lit, start), nil
	}
	return l.newTok(token.LookupIdent(lit), lit, start), nil
}

func (l *Lexer) lexSymbol(start token.Position) (token.Token, *Error) {
	ch := l.ch
	two := string(ch) + string(l.peekRune())

	switch two {
	case "!=":
		l.readChar()
		l.readChar()
		l.metrics.TokenCount++
		return l.newTok(token.NOT_EQ, two, start), nil
	case "<=":
		l.readChar()
		l.readChar()
		l.metrics.TokenCount++
		return l.newTok(token.LE, two, start), nil
	case ">=":
		l.readChar()
		l.readChar()
		l.metrics.TokenCount++
		return l.newTok(token.GE, two, start), nil
	case "==":
		l.readChar()
		l.readChar()
		l.metrics.TokenCount++
		return l.newTok(token.EQ, two, start), nil
	}

	var tt token.Type
	switch ch {
	case '=':
		tt = token.ASSIGN
	case '<':
		tt = token.LT
	case '>':
		tt = token.GT
	case '+':
		tt = token.PLUS
	case '-':
		tt = token.MINUS
	case '*':
		tt = token.ASTERISK
	case '/':
		tt = token.SLASH
	case '%':
		tt = token.PERCENT
	case '(':
		tt = token.LPAREN
	case ')':
		tt = token.RPAREN
	case '{':
		tt = token.LBRACE
	case '}':
		tt = token.RBRACE
	case ',':
		tt = token.COMMA
	default:
		l.readChar()
		return token.Token{}, &Error{Code: ErrInvalidCharacter, Pos: start, Message: "invalid character " + strconv.QuoteRune(ch)}
	}
	l.readChar()
	l.metrics.TokenCount++
	return l.newTok(tt, string(ch), start), nil
}

// Tokenize scans the entire input, returning every non-error token up to
// and including EOF, or the first *Error encountered.
func (l *Lexer) Tokenize() ([]token.Token, *Error) {
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}
