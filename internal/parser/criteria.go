package parser

import (
	"github.com/cscan-lang/cscan/pkg/ast"
	"github.com/cscan-lang/cscan/pkg/token"
)

var criterionOperators = map[token.Type]ast.CriterionOperator{
	token.EQ:              ast.OpEQ,
	token.NOT_EQ:          ast.OpNEQ,
	token.LT:              ast.OpLT,
	token.LE:              ast.OpLE,
	token.GT:              ast.OpGT,
	token.GE:              ast.OpGE,
	token.CI_EQ:           ast.OpCIEQ,
	token.CI_NEQ:          ast.OpCINEQ,
	token.CONTAINS:        ast.OpContains,
	token.NOT_CONTAINS:    ast.OpNotContains,
	token.STARTS_WITH:     ast.OpStartsWith,
	token.NOT_STARTS_WITH: ast.OpNotStartsWith,
	token.ENDS_WITH:       ast.OpEndsWith,
	token.NOT_ENDS_WITH:   ast.OpNotEndsWith,
	token.MATCHES:         ast.OpMatches,
	token.SUBSET_OF:       ast.OpSubsetOf,
	token.SUPERSET_OF:     ast.OpSupersetOf,
}

// parseCriteriaBlock parses a top-level `CRI ... CRI_END` block: a boolean
// tree of nested Blocks and leaf Criterion nodes.
func (p *Parser) parseCriteriaBlock() ast.CriteriaTree {
	start := p.cur.Current().Start
	p.cur = p.cur.Advance() // consume CRI
	p.cur = p.cur.SkipNewlines()

	tree := p.parseCriteriaTree()

	p.cur = p.cur.SkipNewlines()
	p.expect(token.CRI_END)
	_ = start
	return tree
}

// parseCriteriaTree parses the body of a CRI/Block: a boolean operator
// (AND/OR), an optional NOT, and its children, until a terminating
// CRI_END/CTN_END-compatible token.
func (p *Parser) parseCriteriaTree() ast.CriteriaTree {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxRecursionDepth {
		p.addErr(&SyntaxError{Kind: ErrMaxRecursionDepth, Pos: p.cur.Current().Start, Message: "criteria tree nested too deeply"})
		p.synchronizeField()
		return nil
	}

	switch p.cur.Current().Type {
	case token.CTN:
		return p.parseCriterion()
	case token.AND, token.OR, token.NOT:
		return p.parseBlock()
	default:
		p.addErr(unexpected(p.cur.Current(), token.CTN, token.AND, token.OR, token.NOT))
		p.synchronizeField()
		return nil
	}
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.cur.Current().Start
	negate := false
	if p.cur.Is(token.NOT) {
		negate = true
		p.cur = p.cur.Advance()
	}

	block := &ast.Block{Negate: negate}
	switch p.cur.Current().Type {
	case token.AND:
		block.Operator = ast.BlockAnd
		p.cur = p.cur.Advance()
	case token.OR:
		block.Operator = ast.BlockOr
		p.cur = p.cur.Advance()
	default:
		p.addErr(unexpected(p.cur.Current(), token.AND, token.OR))
	}
	p.cur = p.cur.SkipNewlines()

	_, hasParen := p.cur.Skip(token.LPAREN)
	for !p.cur.IsAny(token.CRI_END, token.RPAREN, token.EOF) && p.cur.IsAny(token.CTN, token.AND, token.OR, token.NOT) {
		child := p.parseCriteriaTree()
		if child != nil {
			block.Children = append(block.Children, child)
		}
		p.cur = p.cur.SkipNewlines()
		if p.cur.Is(token.COMMA) {
			p.cur = p.cur.Advance()
			p.cur = p.cur.SkipNewlines()
		}
	}
	if hasParen {
		p.expect(token.RPAREN)
	}

	block.SpanVal = ast.Span{Start: start, End: p.cur.Current().End}
	return block
}

// parseCriterion parses a `CTN object_id[.path] ... CTN_END` leaf
// assertion: the primary object, any criterion-local STATE/OBJECT
// declarations and state-join/object references, an optional existence
// check, and an optional item check (spec.md §3: "a test spec
// (existence_check x item_check x optional state-join) plus references to
// states/objects and/or local states/object").
func (p *Parser) parseCriterion() *ast.Criterion {
	start := p.cur.Current().Start
	p.cur = p.cur.Advance() // consume CTN

	objTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronizeField()
		return &ast.Criterion{SpanVal: ast.Span{Start: start, End: p.cur.Current().End}}
	}
	crit := &ast.Criterion{ObjectID: objTok.Literal}

	for p.cur.Is(token.DOT) {
		p.cur = p.cur.Advance()
		seg := p.cur.Current()
		if crit.Item.Path != "" {
			crit.Item.Path += "."
		}
		crit.Item.Path += seg.Literal
		p.cur = p.cur.Advance()
	}
	p.cur = p.cur.SkipNewlines()

header:
	for {
		switch p.cur.Current().Type {
		case token.STATE:
			crit.LocalStates = append(crit.LocalStates, p.parseStateDecl(true))
		case token.OBJECT:
			pos := p.cur.Current().Start
			local := p.parseObjectDecl(true)
			if crit.LocalObject != nil {
				p.addErr(grammarViolation(pos, "at most one local OBJECT is allowed per criterion"))
			} else {
				crit.LocalObject = local
			}
		case token.STATES:
			p.cur = p.cur.Advance()
			crit.StateRefs = append(crit.StateRefs, p.parseIdentList()...)
		case token.OBJECTS:
			p.cur = p.cur.Advance()
			crit.ObjectRefs = append(crit.ObjectRefs, p.parseIdentList()...)
		case token.EXISTS:
			crit.Existence = ast.ExistenceMustExist
			p.cur = p.cur.Advance()
		case token.NOT_EXISTS:
			crit.Existence = ast.ExistenceMustNotExist
			p.cur = p.cur.Advance()
		default:
			break header
		}
		p.cur = p.cur.SkipNewlines()
	}

	if opTok := p.cur.Current(); isCriterionOperator(opTok.Type) {
		crit.Item.Present = true
		crit.Item.Operator = criterionOperators[opTok.Type]
		p.cur = p.cur.Advance()
		crit.Item.Expected = p.parseOperand()
	} else if crit.Existence == ast.ExistenceIrrelevant {
		p.addErr(unexpected(opTok, token.EQ, token.NOT_EQ, token.CONTAINS, token.MATCHES, token.EXISTS, token.NOT_EXISTS))
		p.synchronizeField()
	}

	p.cur = p.cur.SkipNewlines()
	p.expect(token.CTN_END)

	crit.SpanVal = ast.Span{Start: start, End: p.cur.Current().End}
	return crit
}

// parseIdentList parses a comma-separated list of bare identifiers, used
// for STATES/OBJECTS reference lists inside a criterion body.
func (p *Parser) parseIdentList() []string {
	var names []string
	for p.cur.Is(token.IDENT) {
		names = append(names, p.cur.Current().Literal)
		p.cur = p.cur.Advance()
		if !p.cur.Is(token.COMMA) {
			break
		}
		p.cur = p.cur.Advance()
	}
	return names
}

func isCriterionOperator(t token.Type) bool {
	_, ok := criterionOperators[t]
	return ok
}

// parseOperand parses a Criterion's right-hand side: a literal, a `VAR
// name` reference, a `state_name.field` pair, or a bare dotted field path
// into the left object's own observed data.
func (p *Parser) parseOperand() ast.Operand {
	start := p.cur.Current().Start
	switch p.cur.Current().Type {
	case token.VAR:
		p.cur = p.cur.Advance()
		id := p.parseIdentifier()
		return ast.Operand{SpanVal: ast.Span{Start: start, End: p.cur.Current().End}, Kind: ast.OperandVariable, Name: id.Name}
	case token.STRING, token.INT, token.FLOAT, token.BOOLEAN:
		lit, _, _ := p.parseLiteralOrRef()
		return ast.Operand{SpanVal: ast.Span{Start: start, End: p.cur.Current().End}, Kind: ast.OperandLiteral, Literal: lit}
	case token.IDENT:
		name := p.cur.Current().Literal
		p.cur = p.cur.Advance()
		if p.cur.Is(token.DOT) {
			path := ""
			for p.cur.Is(token.DOT) {
				p.cur = p.cur.Advance()
				seg := p.cur.Current()
				if path != "" {
					path += "."
				}
				path += seg.Literal
				p.cur = p.cur.Advance()
			}
			return ast.Operand{SpanVal: ast.Span{Start: start, End: p.cur.Current().End}, Kind: ast.OperandStateField, Name: name, FieldName: path}
		}
		return ast.Operand{SpanVal: ast.Span{Start: start, End: p.cur.Current().End}, Kind: ast.OperandFieldPath, Path: name}
	default:
		p.addErr(unexpected(p.cur.Current(), token.VAR, token.STRING, token.INT, token.FLOAT, token.BOOLEAN, token.IDENT))
		return ast.Operand{}
	}
}
