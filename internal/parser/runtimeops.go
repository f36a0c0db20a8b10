package parser

import (
	"github.com/cscan-lang/cscan/pkg/ast"
	"github.com/cscan-lang/cscan/pkg/token"
)

var runtimeOpKinds = map[token.Type]ast.RuntimeOpKind{
	token.CONCAT:        ast.OpConcat,
	token.ARITHMETIC:    ast.OpArithmetic,
	token.SPLIT:         ast.OpSplit,
	token.SUBSTRING:     ast.OpSubstring,
	token.REGEX_CAPTURE: ast.OpRegexCapture,
	token.COUNT:         ast.OpCount,
	token.EXTRACT:       ast.OpExtract,
	token.UNIQUE:        ast.OpUnique,
	token.MERGE:         ast.OpMerge,
	token.END_OP:        ast.OpEnd,
}

// namedParamKeywords are the context-sensitive words a RuntimeParam may be
// introduced by (spec.md §9 "Context-sensitive words"): parsed as plain
// identifiers by the lexer, interpreted here by grammar position.
var namedParamKeywords = map[token.Type]string{
	token.LITERAL:   "literal",
	token.PATTERN:   "pattern",
	token.DELIMITER: "delimiter",
	token.CHARACTER: "character",
	token.START:     "start",
	token.LENGTH:    "length",
}

// parseRuntimeOp parses `RUN target opKind param, param, ... RUN_END`.
func (p *Parser) parseRuntimeOp() *ast.RuntimeOp {
	start := p.cur.Current().Start
	p.cur = p.cur.Advance() // consume RUN

	target := p.parseIdentifier()

	opTok := p.cur.Current()
	kind, ok := runtimeOpKinds[opTok.Type]
	if !ok {
		p.addErr(unexpected(opTok, token.CONCAT, token.ARITHMETIC, token.SPLIT, token.SUBSTRING, token.REGEX_CAPTURE, token.COUNT, token.EXTRACT, token.UNIQUE, token.MERGE, token.END_OP))
		p.synchronizeField()
		return &ast.RuntimeOp{SpanVal: ast.Span{Start: start, End: p.cur.Current().End}, Target: target}
	}
	p.cur = p.cur.Advance()

	op := &ast.RuntimeOp{Target: target, Kind: kind}
	p.cur = p.cur.SkipNewlines()

	for !p.cur.IsAny(token.RUN_END, token.EOF) {
		param, ok := p.parseRuntimeParam(kind)
		if ok {
			op.Params = append(op.Params, param)
		} else {
			p.synchronizeField()
		}
		if p.cur.Is(token.COMMA) {
			p.cur = p.cur.Advance()
		}
		p.cur = p.cur.SkipNewlines()
	}
	p.expect(token.RUN_END)

	op.SpanVal = ast.Span{Start: start, End: p.cur.Current().End}
	return op
}

func isArithOperator(tt token.Type) bool {
	switch tt {
	case token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT:
		return true
	default:
		return false
	}
}

func (p *Parser) parseRuntimeParam(kind ast.RuntimeOpKind) (ast.RuntimeParam, bool) {
	start := p.cur.Current()

	if name, ok := namedParamKeywords[start.Type]; ok {
		p.cur = p.cur.Advance()
		if _, ok := p.expect(token.ASSIGN); !ok {
			return ast.RuntimeParam{}, false
		}
		lit, ref, isRef := p.parseLiteralOrRef()
		prm := ast.RuntimeParam{SpanVal: ast.Span{Start: start.Start, End: p.cur.Current().End}, Named: name}
		if isRef {
			prm.VarName = ref
		} else {
			prm.IsLiteral = true
			prm.Value = lit
		}
		return prm, true
	}

	if kind == ast.OpArithmetic && isArithOperator(start.Type) {
		p.cur = p.cur.Advance()
		return ast.RuntimeParam{SpanVal: ast.Span{Start: start.Start, End: p.cur.Current().End}, ArithOperator: start.Type.String()}, true
	}

	if kind == ast.OpExtract && start.Type == token.OBJ {
		p.cur = p.cur.Advance()
		objTok, ok := p.expect(token.IDENT)
		if !ok {
			return ast.RuntimeParam{}, false
		}
		if _, ok := p.expect(token.DOT); !ok {
			return ast.RuntimeParam{}, false
		}
		fieldTok := p.cur.Current()
		p.cur = p.cur.Advance()
		return ast.RuntimeParam{
			SpanVal:     ast.Span{Start: start.Start, End: p.cur.Current().End},
			ObjectID:    objTok.Literal,
			ObjectField: fieldTok.Literal,
		}, true
	}

	lit, ref, isRef := p.parseLiteralOrRef()
	prm := ast.RuntimeParam{SpanVal: ast.Span{Start: start.Start, End: p.cur.Current().End}}
	if isRef {
		prm.VarName = ref
	} else {
		prm.IsLiteral = true
		prm.Literal = lit
	}
	return prm, true
}
