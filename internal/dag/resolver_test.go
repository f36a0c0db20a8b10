package dag

import (
	"testing"

	"github.com/cscan-lang/cscan/internal/diag"
	"github.com/cscan-lang/cscan/internal/symbols"
	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
)

func TestResolve_LiteralAndReferenceVariables(t *testing.T) {
	def := &ast.Definition{
		Variables: []*ast.VariableDecl{
			{Name: &ast.Identifier{Name: "base"}, InitKind: ast.VarLiteral, Literal: types.NewIntValue(7)},
			{Name: &ast.Identifier{Name: "alias"}, InitKind: ast.VarReference, RefName: "base"},
		},
	}
	bag := diag.NewBag(16)
	collected := symbols.Collect(def, bag)

	resolved, err := Resolve(def, collected, bag)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !bag.Empty() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	base, ok := resolved.Variables["base"]
	if !ok || base.IntVal() != 7 {
		t.Errorf("base = %v, ok=%v, want int 7", base, ok)
	}
	alias, ok := resolved.Variables["alias"]
	if !ok || alias.IntVal() != 7 {
		t.Errorf("alias = %v, ok=%v, want int 7 (copied from base)", alias, ok)
	}
}

func TestResolve_UnresolvedReferenceReportsDiagnostic(t *testing.T) {
	def := &ast.Definition{
		Variables: []*ast.VariableDecl{
			{Name: &ast.Identifier{Name: "alias"}, InitKind: ast.VarReference, RefName: "missing"},
		},
	}
	bag := diag.NewBag(16)
	collected := symbols.Collect(def, bag)

	_, err := Resolve(def, collected, bag)
	if err != nil {
		t.Fatalf("Resolve() error = %v, want nil (diagnostics, not a hard error)", err)
	}
	if bag.Empty() {
		t.Error("expected an unresolved-reference diagnostic, got none")
	}
}

func TestResolve_DeferredComputedVariable(t *testing.T) {
	def := &ast.Definition{
		Variables: []*ast.VariableDecl{
			{Name: &ast.Identifier{Name: "extracted"}, InitKind: ast.VarComputed},
		},
		RuntimeOps: []*ast.RuntimeOp{
			{
				Target: &ast.Identifier{Name: "extracted"},
				Kind:   ast.OpExtract,
				Params: []ast.RuntimeParam{{ObjectID: "pkg1", ObjectField: "version"}},
			},
		},
	}
	bag := diag.NewBag(16)
	collected := symbols.Collect(def, bag)

	resolved, err := Resolve(def, collected, bag)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(resolved.Deferred) != 1 {
		t.Fatalf("expected one deferred op, got %d", len(resolved.Deferred))
	}
}
