package parser

import (
	"strconv"

	"github.com/cscan-lang/cscan/internal/lexer"
	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
	"github.com/cscan-lang/cscan/pkg/token"
)

// maxErrorHistory bounds how many syntax errors a single Parse call
// records; errors past the cap are dropped while parsing continues, so
// pathological input (e.g. a file of nothing but `{`) cannot grow the
// list without limit.
const maxErrorHistory = 64

// maxRecursionDepth guards the criteria tree and nested-block descent
// against stack exhaustion on deeply nested/malformed input.
const maxRecursionDepth = 64

// Parser turns a token stream into a *ast.File, collecting syntax errors
// rather than aborting at the first one so a single Parse call can report
// several independent problems.
type Parser struct {
	cur    *TokenCursor
	errs   []*SyntaxError
	depth  int
}

// New constructs a Parser over lx.
func New(lx *lexer.Lexer) *Parser {
	return &Parser{cur: NewTokenCursor(lx)}
}

// Errors returns every syntax error accumulated during Parse.
func (p *Parser) Errors() []*SyntaxError { return p.errs }

func (p *Parser) addErr(e *SyntaxError) {
	if len(p.errs) >= maxErrorHistory {
		return
	}
	p.errs = append(p.errs, e)
}

// Parse consumes the entire token stream and returns the resulting file.
// Partial results are returned alongside any accumulated errors so a
// caller can still inspect what was recovered.
func (p *Parser) Parse() (*ast.File, []*SyntaxError) {
	start := p.cur.Current().Start
	if p.cur.Is(token.EOF) {
		p.addErr(&SyntaxError{Kind: ErrEmptyStream, Pos: start, Message: "empty input"})
		return nil, p.errs
	}

	def := p.parseDefinition()

	if !p.cur.Is(token.EOF) {
		p.addErr(&SyntaxError{Kind: ErrMissingEOF, Pos: p.cur.Current().Start, Message: "trailing tokens after definition"})
	}
	if le := p.cur.LexError(); le != nil {
		p.addErr(&SyntaxError{Kind: ErrLexical, Pos: le.Pos, Message: le.Message})
	}

	f := &ast.File{
		SpanVal:    ast.Span{Start: start, End: p.cur.Current().End},
		Definition: def,
	}
	return f, p.errs
}

func (p *Parser) parseDefinition() *ast.Definition {
	start := p.cur.Current().Start
	def := &ast.Definition{}

	p.cur = p.cur.SkipNewlines()
	for !p.cur.Is(token.EOF) {
		switch p.cur.Current().Type {
		case token.VAR:
			if v := p.parseVariableDecl(); v != nil {
				def.Variables = append(def.Variables, v)
			}
		case token.STATE:
			if s := p.parseStateDecl(false); s != nil {
				def.States = append(def.States, s)
			}
		case token.OBJECT:
			if o := p.parseObjectDecl(false); o != nil {
				def.Objects = append(def.Objects, o)
			}
		case token.SET:
			if s := p.parseSetOp(); s != nil {
				def.Sets = append(def.Sets, s)
			}
		case token.RUN:
			if r := p.parseRuntimeOp(); r != nil {
				def.RuntimeOps = append(def.RuntimeOps, r)
			}
		case token.CRI:
			if c := p.parseCriteriaBlock(); c != nil {
				def.CriteriaSet = append(def.CriteriaSet, c)
			}
		default:
			p.addErr(unexpected(p.cur.Current(), token.VAR, token.STATE, token.OBJECT, token.SET, token.RUN, token.CRI))
			p.synchronize()
		}
		p.cur = p.cur.SkipNewlines()
	}

	def.SpanVal = ast.Span{Start: start, End: p.cur.Current().End}
	return def
}

// synchronize advances past tokens until one that can start a new top-level
// declaration, so a single malformed declaration doesn't cascade into
// spurious follow-on errors (teacher parser's "panic-mode" recovery).
func (p *Parser) synchronize() {
	for !p.cur.IsAny(token.VAR, token.STATE, token.OBJECT, token.SET, token.RUN, token.CRI, token.EOF) {
		p.cur = p.cur.Advance()
	}
}

func (p *Parser) expect(t token.Type) (token.Token, bool) {
	cur := p.cur.Current()
	if !p.cur.Is(t) {
		p.addErr(unexpected(cur, t))
		return cur, false
	}
	p.cur = p.cur.Advance()
	return cur, true
}

func (p *Parser) parseIdentifier() *ast.Identifier {
	tok, ok := p.expect(token.IDENT)
	if !ok {
		return &ast.Identifier{SpanVal: ast.Span{Start: tok.Start, End: tok.End}, Name: ""}
	}
	return &ast.Identifier{SpanVal: ast.Span{Start: tok.Start, End: tok.End}, Name: tok.Literal}
}

// parseLiteralOrRef parses one of STRING/INT/FLOAT/BOOLEAN into a
// types.Value, or a `VAR name` reference.
func (p *Parser) parseLiteralOrRef() (types.Value, string, bool) {
	cur := p.cur.Current()
	switch cur.Type {
	case token.VAR:
		p.cur = p.cur.Advance()
		id := p.parseIdentifier()
		return types.Value{}, id.Name, true
	case token.STRING:
		p.cur = p.cur.Advance()
		return types.NewStringValue(cur.Literal), "", false
	case token.INT:
		p.cur = p.cur.Advance()
		n, err := strconv.ParseInt(cur.Literal, 10, 64)
		if err != nil {
			p.addErr(grammarViolation(cur.Start, "invalid integer literal "+cur.Literal))
		}
		return types.NewIntValue(n), "", false
	case token.FLOAT:
		p.cur = p.cur.Advance()
		f, err := strconv.ParseFloat(cur.Literal, 64)
		if err != nil {
			p.addErr(grammarViolation(cur.Start, "invalid float literal "+cur.Literal))
		}
		return types.NewFloatValue(f), "", false
	case token.BOOLEAN:
		p.cur = p.cur.Advance()
		return types.NewBoolValue(cur.Literal == "true"), "", false
	default:
		p.addErr(unexpected(cur, token.STRING, token.INT, token.FLOAT, token.BOOLEAN, token.VAR))
		return types.Value{}, "", false
	}
}

func dataTypeFromToken(tt token.Type) types.DataType {
	switch tt {
	case token.TY_STRING:
		return types.DataTypeString
	case token.TY_INT:
		return types.DataTypeInt
	case token.TY_FLOAT:
		return types.DataTypeFloat
	case token.TY_BOOLEAN:
		return types.DataTypeBoolean
	case token.TY_BINARY:
		return types.DataTypeBinary
	case token.TY_RECORD_DATA:
		return types.DataTypeRecordData
	case token.TY_VERSION:
		return types.DataTypeVersion
	case token.TY_EVR_STRING:
		return types.DataTypeEVRString
	default:
		return types.DataTypeInvalid
	}
}
