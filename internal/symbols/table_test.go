package symbols

import (
	"testing"

	"github.com/cscan-lang/cscan/internal/diag"
	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
)

func TestTable_DefineAndResolve(t *testing.T) {
	global := NewTable()
	sym := &Symbol{Name: "x", Kind: KindVariable}
	if !global.Define(sym) {
		t.Fatal("Define() on a fresh table should succeed")
	}
	if global.Define(&Symbol{Name: "x", Kind: KindVariable}) {
		t.Error("Define() of a duplicate name in the same scope should fail")
	}

	local := NewEnclosedTable(global)
	if _, ok := local.Resolve("x"); !ok {
		t.Error("Resolve() should find a name defined in an enclosing scope")
	}
	if _, ok := local.Resolve("undefined"); ok {
		t.Error("Resolve() should not find a name defined nowhere")
	}
}

func TestCollect_BuildsRelationshipsForVariableReferences(t *testing.T) {
	def := &ast.Definition{
		Variables: []*ast.VariableDecl{
			{Name: &ast.Identifier{Name: "a"}, InitKind: ast.VarLiteral, Literal: types.NewIntValue(1)},
			{Name: &ast.Identifier{Name: "b"}, InitKind: ast.VarReference, RefName: "a"},
		},
	}
	bag := diag.NewBag(16)
	res := Collect(def, bag)

	if !bag.Empty() {
		t.Fatalf("expected no diagnostics, got %v", bag.Items())
	}
	if _, ok := res.Global.Resolve("a"); !ok {
		t.Error("expected variable a to be registered")
	}
	if _, ok := res.Global.Resolve("b"); !ok {
		t.Error("expected variable b to be registered")
	}

	found := false
	for _, r := range res.Relationships {
		if r.From == "b" && r.To == "a" && r.Kind == VariableInitialization {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a hard relationship b->a, got %v", res.Relationships)
	}
}

func TestCollect_ReportsDuplicateNames(t *testing.T) {
	def := &ast.Definition{
		Variables: []*ast.VariableDecl{
			{Name: &ast.Identifier{Name: "dup"}, InitKind: ast.VarLiteral, Literal: types.NewIntValue(1)},
		},
		Objects: []*ast.ObjectDecl{
			{Name: &ast.Identifier{Name: "dup"}},
		},
	}
	bag := diag.NewBag(16)
	Collect(def, bag)

	if bag.Empty() {
		t.Error("expected a duplicate-name diagnostic, got none")
	}
}
