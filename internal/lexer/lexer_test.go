package lexer

import (
	"testing"

	"github.com/cscan-lang/cscan/pkg/token"
)

func tokenTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	l := New(src)
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	types := make([]token.Type, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestLexer_Keywords(t *testing.T) {
	got := tokenTypes(t, "VAR STATE STATE_END OBJECT")
	want := []token.Type{token.VAR, token.WHITESPACE, token.STATE, token.WHITESPACE, token.STATE_END, token.WHITESPACE, token.OBJECT, token.EOF}
	assertTypes(t, got, want)
}

func TestLexer_Identifiers(t *testing.T) {
	l := New("expected_mode")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("NextToken: %v", err)
	}
	if tok.Type != token.IDENT || tok.Literal != "expected_mode" {
		t.Fatalf("got %v, want IDENT(expected_mode)", tok)
	}
}

func TestLexer_BooleanLiteral(t *testing.T) {
	l := New("true false")
	tok, _ := l.NextToken()
	if tok.Type != token.BOOLEAN || tok.Literal != "true" {
		t.Fatalf("got %v, want BOOLEAN(true)", tok)
	}
}

func TestLexer_Numbers(t *testing.T) {
	cases := []struct {
		src  string
		typ  token.Type
		lit  string
	}{
		{"42", token.INT, "42"},
		{"-7", token.INT, "-7"},
		{"3.14", token.FLOAT, "3.14"},
		{"-3.14", token.FLOAT, "-3.14"},
	}
	for _, c := range cases {
		l := New(c.src)
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken(%q): %v", c.src, err)
		}
		if tok.Type != c.typ || tok.Literal != c.lit {
			t.Errorf("NextToken(%q) = %v, want %s(%s)", c.src, tok, c.typ, c.lit)
		}
	}
}

func TestLexer_MinusOperatorVsNegativeNumber(t *testing.T) {
	l := New("a - 1")
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	// a, WS, MINUS, WS, INT(1), EOF
	if toks[2].Type != token.MINUS {
		t.Fatalf("expected MINUS operator, got %v", toks[2])
	}

	l2 := New("a -1")
	toks = nil
	for {
		tok, err := l2.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	if toks[2].Type != token.INT || toks[2].Literal != "-1" {
		t.Fatalf("expected negative INT literal, got %v", toks[2])
	}
}

func TestLexer_StringForms(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"`hello`", "hello"},
		{"`it``s`", "it`s"},
		{"```multi\nline```", "multi\nline"},
		{"r`raw\\n`", "raw\\n"},
		{"r```raw ` backtick```", "raw ` backtick"},
	}
	for _, c := range cases {
		l := New(c.src)
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken(%q): %v", c.src, err)
		}
		if tok.Type != token.STRING || tok.Literal != c.want {
			t.Errorf("NextToken(%q) = %v, want STRING(%q)", c.src, tok, c.want)
		}
	}
}

func TestLexer_UnterminatedString(t *testing.T) {
	l := New("`unterminated")
	_, err := l.NextToken()
	if err == nil || err.Code != ErrUnterminatedString {
		t.Fatalf("expected ErrUnterminatedString, got %v", err)
	}
}

func TestLexer_CRLFCollapsesToOneNewline(t *testing.T) {
	l := New("a\r\nb")
	_, _ = l.NextToken() // IDENT a
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("NextToken: %v", err)
	}
	if tok.Type != token.NEWLINE || tok.Literal != "\r\n" {
		t.Fatalf("got %v, want NEWLINE(\\r\\n)", tok)
	}
}

func TestLexer_CaseInsensitiveOperators(t *testing.T) {
	cases := []struct {
		src string
		typ token.Type
	}{
		{"ci=", token.CI_EQ},
		{"ci!=", token.CI_NEQ},
	}
	for _, c := range cases {
		l := New(c.src)
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken(%q): %v", c.src, err)
		}
		if tok.Type != c.typ {
			t.Errorf("NextToken(%q) = %v, want %v", c.src, tok, c.typ)
		}
	}

	// "circle" must still lex as a plain identifier, not ci + rcle.
	l := New("circle")
	tok, _ := l.NextToken()
	if tok.Type != token.IDENT || tok.Literal != "circle" {
		t.Fatalf("got %v, want IDENT(circle)", tok)
	}
}

func TestLexer_Comment(t *testing.T) {
	l := New("# a comment\nVAR", WithPreserveComments(true))
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("NextToken: %v", err)
	}
	if tok.Type != token.COMMENT || tok.Literal != " a comment" {
		t.Fatalf("got %v, want COMMENT(' a comment')", tok)
	}
}

func TestLexer_CommentDiscardedByDefault(t *testing.T) {
	l := New("# a comment\nVAR")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("NextToken: %v", err)
	}
	if tok.Type != token.NEWLINE {
		t.Fatalf("got %v, want NEWLINE (comment should be skipped)", tok)
	}
}

func TestLexer_TokenLimitExceeded(t *testing.T) {
	l := New("VAR VAR VAR", WithLimits(Limits{MaxTokens: 2, MaxIdentifierLength: 256, MaxStringBytes: 1024, MaxCommentLength: 1024, MaxStringNestingDepth: 8}))
	_, _ = l.NextToken()
	_, _ = l.NextToken()
	_, err := l.NextToken()
	if err == nil || err.Code != ErrTokenLimitExceeded {
		t.Fatalf("expected ErrTokenLimitExceeded, got %v", err)
	}
}

func TestLexer_IdentifierTooLong(t *testing.T) {
	l := New("aaaaaaaaaa", WithLimits(Limits{MaxTokens: 100, MaxIdentifierLength: 3, MaxStringBytes: 1024, MaxCommentLength: 1024, MaxStringNestingDepth: 8}))
	_, err := l.NextToken()
	if err == nil || err.Code != ErrIdentifierTooLong {
		t.Fatalf("expected ErrIdentifierTooLong, got %v", err)
	}
}

func TestLexer_InvalidCharacter(t *testing.T) {
	l := New("@")
	_, err := l.NextToken()
	if err == nil || err.Code != ErrInvalidCharacter {
		t.Fatalf("expected ErrInvalidCharacter, got %v", err)
	}
}

func TestLexer_Positions(t *testing.T) {
	l := New("VAR x")
	tok, _ := l.NextToken()
	if tok.Start.Line != 1 || tok.Start.Column != 1 {
		t.Fatalf("got start %v, want 1:1", tok.Start)
	}
}

func assertTypes(t *testing.T, got, want []token.Type) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
