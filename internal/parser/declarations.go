package parser

import (
	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
	"github.com/cscan-lang/cscan/pkg/token"
)

// parseVariableDecl parses `VAR name type = literal`, `VAR name type = VAR
// other`, or `VAR name type` (computed; a RuntimeOp must target it).
func (p *Parser) parseVariableDecl() *ast.VariableDecl {
	start := p.cur.Current().Start
	p.cur = p.cur.Advance() // consume VAR

	name := p.parseIdentifier()

	dtTok := p.cur.Current()
	if !dtTok.Type.IsDataType() {
		p.addErr(unexpected(dtTok, token.TY_STRING, token.TY_INT, token.TY_FLOAT, token.TY_BOOLEAN, token.TY_BINARY, token.TY_RECORD_DATA, token.TY_VERSION, token.TY_EVR_STRING))
		p.synchronizeField()
		return &ast.VariableDecl{SpanVal: ast.Span{Start: start, End: p.cur.Current().End}, Name: name}
	}
	p.cur = p.cur.Advance()
	dt := dataTypeFromToken(dtTok.Type)

	decl := &ast.VariableDecl{Name: name, DataType: dt, InitKind: ast.VarComputed}

	if p.cur.Is(token.ASSIGN) {
		p.cur = p.cur.Advance()
		lit, ref, isRef := p.parseLiteralOrRef()
		if isRef {
			decl.InitKind = ast.VarReference
			decl.RefName = ref
		} else {
			decl.InitKind = ast.VarLiteral
			decl.Literal = lit
		}
	}

	decl.SpanVal = ast.Span{Start: start, End: p.cur.Current().End}
	return decl
}

// synchronizeField advances past the remainder of a malformed field/decl up
// to the next NEWLINE or a token that can start a new declaration, used for
// recovery inside block bodies rather than at the top level.
func (p *Parser) synchronizeField() {
	for !p.cur.IsAny(token.NEWLINE, token.EOF, token.VAR, token.STATE, token.OBJECT, token.SET, token.RUN, token.CRI,
		token.STATE_END, token.OBJECT_END, token.CTN_END, token.CRI_END, token.FILTER_END, token.SET_END, token.RUN_END,
		token.RECORD_END, token.PARAMETERS_END, token.SELECT_END) {
		p.cur = p.cur.Advance()
	}
}

func (p *Parser) parseStateDecl(local bool) *ast.StateDecl {
	start := p.cur.Current().Start
	p.cur = p.cur.Advance() // consume STATE
	name := p.parseIdentifier()
	p.cur = p.cur.SkipNewlines()

	decl := &ast.StateDecl{Name: name, Local: local}
	for !p.cur.IsAny(token.STATE_END, token.EOF) {
		if p.cur.Is(token.RECORD) {
			decl.Fields = append(decl.Fields, p.parseRecordFields()...)
			p.cur = p.cur.SkipNewlines()
			continue
		}
		field, ok := p.parseStateField()
		if ok {
			decl.Fields = append(decl.Fields, field)
		} else {
			p.synchronizeField()
		}
		p.cur = p.cur.SkipNewlines()
	}
	p.expect(token.STATE_END)

	decl.SpanVal = ast.Span{Start: start, End: p.cur.Current().End}
	return decl
}

func (p *Parser) parseStateField() (ast.StateField, bool) {
	fieldStart := p.cur.Current()
	if !p.cur.Is(token.IDENT) {
		p.addErr(unexpected(fieldStart, token.IDENT))
		return ast.StateField{}, false
	}
	p.cur = p.cur.Advance()
	if _, ok := p.expect(token.ASSIGN); !ok {
		return ast.StateField{}, false
	}
	lit, ref, isRef := p.parseLiteralOrRef()
	field := ast.StateField{SpanVal: ast.Span{Start: fieldStart.Start, End: p.cur.Current().End}, Name: fieldStart.Literal}
	if isRef {
		field.Value = types.NewVariableRefValue(ref)
	} else {
		field.Value = lit
	}
	return field, true
}

// parseRecordFields parses a `RECORD ... RECORD_END` block of dotted-path
// checks nested inside a STATE declaration.
func (p *Parser) parseRecordFields() []ast.StateField {
	p.cur = p.cur.Advance() // consume RECORD
	p.cur = p.cur.SkipNewlines()

	var fields []ast.StateField
	for !p.cur.IsAny(token.RECORD_END, token.EOF) {
		pathTok := p.cur.Current()
		if !p.cur.Is(token.IDENT) {
			p.addErr(unexpected(pathTok, token.IDENT))
			p.synchronizeField()
			p.cur = p.cur.SkipNewlines()
			continue
		}
		path := pathTok.Literal
		p.cur = p.cur.Advance()
		for p.cur.Is(token.DOT) {
			p.cur = p.cur.Advance()
			next := p.cur.Current()
			path += "." + next.Literal
			p.cur = p.cur.Advance()
		}
		if _, ok := p.expect(token.ASSIGN); !ok {
			p.synchronizeField()
			p.cur = p.cur.SkipNewlines()
			continue
		}
		lit, ref, isRef := p.parseLiteralOrRef()
		f := ast.StateField{SpanVal: ast.Span{Start: pathTok.Start, End: p.cur.Current().End}, RecordCheck: path}
		if isRef {
			f.Value = types.NewVariableRefValue(ref)
		} else {
			f.Value = lit
		}
		fields = append(fields, f)
		p.cur = p.cur.SkipNewlines()
	}
	p.expect(token.RECORD_END)
	return fields
}

func (p *Parser) parseObjectDecl(local bool) *ast.ObjectDecl {
	start := p.cur.Current().Start
	p.cur = p.cur.Advance() // consume OBJECT
	name := p.parseIdentifier()
	p.cur = p.cur.SkipNewlines()

	decl := &ast.ObjectDecl{Name: name, Local: local}
	for !p.cur.IsAny(token.OBJECT_END, token.EOF) {
		switch p.cur.Current().Type {
		case token.PARAMETERS:
			decl.Elements = append(decl.Elements, p.parseObjectElementBlock(token.PARAMETERS, token.PARAMETERS_END)...)
		case token.SELECT:
			decl.Elements = append(decl.Elements, p.parseObjectElementBlock(token.SELECT, token.SELECT_END)...)
		case token.FILTER:
			decl.Filter = p.parseObjectFilter()
		case token.IDENT:
			el, ok := p.parseObjectElement()
			if ok {
				decl.Elements = append(decl.Elements, el)
			} else {
				p.synchronizeField()
			}
		default:
			p.addErr(unexpected(p.cur.Current(), token.PARAMETERS, token.SELECT, token.FILTER, token.IDENT))
			p.synchronizeField()
		}
		p.cur = p.cur.SkipNewlines()
	}
	p.expect(token.OBJECT_END)

	decl.SpanVal = ast.Span{Start: start, End: p.cur.Current().End}
	return decl
}

func (p *Parser) parseObjectElementBlock(open, close token.Type) []ast.ObjectElement {
	p.cur = p.cur.Advance() // consume open keyword
	p.cur = p.cur.SkipNewlines()

	var elems []ast.ObjectElement
	for !p.cur.IsAny(close, token.EOF) {
		el, ok := p.parseObjectElement()
		if ok {
			elems = append(elems, el)
		} else {
			p.synchronizeField()
		}
		p.cur = p.cur.SkipNewlines()
	}
	p.expect(close)
	return elems
}

func (p *Parser) parseObjectElement() (ast.ObjectElement, bool) {
	nameTok := p.cur.Current()
	if !p.cur.Is(token.IDENT) {
		p.addErr(unexpected(nameTok, token.IDENT))
		return ast.ObjectElement{}, false
	}
	p.cur = p.cur.Advance()
	if _, ok := p.expect(token.ASSIGN); !ok {
		return ast.ObjectElement{}, false
	}
	lit, ref, isRef := p.parseLiteralOrRef()
	el := ast.ObjectElement{SpanVal: ast.Span{Start: nameTok.Start, End: p.cur.Current().End}, Name: nameTok.Literal}
	if isRef {
		el.Value = types.NewVariableRefValue(ref)
	} else {
		el.Value = lit
	}
	return el, true
}

func (p *Parser) parseObjectFilter() *ast.ObjectFilter {
	start := p.cur.Current().Start
	p.cur = p.cur.Advance() // consume FILTER
	p.cur = p.cur.SkipNewlines()

	filter := &ast.ObjectFilter{}
	for !p.cur.IsAny(token.FILTER_END, token.EOF) {
		switch p.cur.Current().Type {
		case token.INCLUDE:
			filter.Kind = ast.FilterInclude
			p.cur = p.cur.Advance()
		case token.EXCLUDE:
			filter.Kind = ast.FilterExclude
			p.cur = p.cur.Advance()
		case token.IDENT:
			filter.StateNames = append(filter.StateNames, p.cur.Current().Literal)
			p.cur = p.cur.Advance()
		default:
			p.addErr(unexpected(p.cur.Current(), token.INCLUDE, token.EXCLUDE, token.IDENT))
			p.synchronizeField()
		}
		p.cur = p.cur.SkipNewlines()
	}
	p.expect(token.FILTER_END)
	filter.SpanVal = ast.Span{Start: start, End: p.cur.Current().End}
	return filter
}

func (p *Parser) parseSetOp() *ast.SetOp {
	start := p.cur.Current().Start
	p.cur = p.cur.Advance() // consume SET
	name := p.parseIdentifier()
	p.cur = p.cur.SkipNewlines()

	op := &ast.SetOp{Name: name}
	switch p.cur.Current().Type {
	case token.UNION:
		op.Kind = ast.SetUnion
		p.cur = p.cur.Advance()
	case token.INTERSECTION:
		op.Kind = ast.SetIntersection
		p.cur = p.cur.Advance()
	case token.COMPLEMENT:
		op.Kind = ast.SetComplement
		p.cur = p.cur.Advance()
	default:
		p.addErr(unexpected(p.cur.Current(), token.UNION, token.INTERSECTION, token.COMPLEMENT))
	}
	p.cur = p.cur.SkipNewlines()

	for p.cur.Is(token.IDENT) {
		op.Operands = append(op.Operands, ast.SetOperand{
			SpanVal: ast.Span{Start: p.cur.Current().Start, End: p.cur.Current().End},
			Kind:    ast.OperandObject,
			Name:    p.cur.Current().Literal,
		})
		p.cur = p.cur.Advance()
		if p.cur.Is(token.COMMA) {
			p.cur = p.cur.Advance()
		}
		p.cur = p.cur.SkipNewlines()
	}

	if p.cur.Is(token.FILTER) {
		f := p.parseObjectFilter()
		op.FilterRefs = f.StateNames
	}

	p.cur = p.cur.SkipNewlines()
	p.expect(token.SET_END)

	op.SpanVal = ast.Span{Start: start, End: p.cur.Current().End}
	return op
}
