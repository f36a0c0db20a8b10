// Package ast defines the syntax tree the parser produces: a closed set
// of tagged-union node types with span information, read-only once built.
// Every node type implements Node via an unexported marker method, the
// same nominal-polymorphism-without-inheritance style the teacher compiler
// uses for its own AST (internal/ast.Node/Expression/Statement).
package ast

import "github.com/cscan-lang/cscan/pkg/token"

// Span is the source range a node covers.
type Span struct {
	Start token.Position
	End   token.Position
}

// Node is the base interface every syntax tree node implements.
type Node interface {
	Span() Span
	node()
}

// File is the parser's root node: one parsed source file.
type File struct {
	SpanVal    Span
	Definition *Definition
}

func (f *File) Span() Span { return f.SpanVal }
func (f *File) node()      {}

// Definition is the ordered collection of top-level declarations a source
// file carries, plus the criteria blocks that reference them.
type Definition struct {
	SpanVal     Span
	Variables   []*VariableDecl
	RuntimeOps  []*RuntimeOp
	States      []*StateDecl
	Objects     []*ObjectDecl
	Sets        []*SetOp
	CriteriaSet []CriteriaTree
}

func (d *Definition) Span() Span { return d.SpanVal }
func (d *Definition) node()      {}

// Identifier is a bare name reference with its own span, used wherever the
// grammar needs to remember *where* a name was written (diagnostics).
type Identifier struct {
	SpanVal Span
	Name    string
}

func (i *Identifier) Span() Span { return i.SpanVal }
func (i *Identifier) node()      {}
