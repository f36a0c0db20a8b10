package printer

import (
	"strings"
	"testing"

	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
)

func TestPrint_Variable(t *testing.T) {
	def := &ast.Definition{
		Variables: []*ast.VariableDecl{{
			Name:     &ast.Identifier{Name: "threshold"},
			DataType: types.DataTypeInt,
			InitKind: ast.VarLiteral,
			Literal:  types.NewIntValue(42),
		}},
	}
	out := Print(def)
	if !strings.Contains(out, "VAR threshold") {
		t.Errorf("Print() = %q, want it to declare threshold", out)
	}
}

func TestPrint_ObjectWithFilter(t *testing.T) {
	def := &ast.Definition{
		Objects: []*ast.ObjectDecl{{
			Name: &ast.Identifier{Name: "hosts"},
			Elements: []ast.ObjectElement{
				{Name: "type", Value: types.NewStringValue("package")},
			},
			Filter: &ast.ObjectFilter{
				Kind:       ast.FilterInclude,
				StateNames: []string{"linux"},
			},
		}},
	}
	out := Print(def)
	for _, want := range []string{"OBJECT hosts", "FILTER", "Include", "linux", "OBJECT_END"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print() = %q, missing %q", out, want)
		}
	}
}

func TestPrint_CriteriaTree(t *testing.T) {
	def := &ast.Definition{
		CriteriaSet: []ast.CriteriaTree{
			&ast.Block{
				Operator: ast.BlockAnd,
				Children: []ast.CriteriaTree{
					&ast.Criterion{
						ObjectID: "pkg1",
						Item: ast.ItemCheck{
							Present:  true,
							Path:     "version",
							Operator: ast.OpEQ,
							Expected: ast.Operand{Kind: ast.OperandLiteral, Literal: types.NewStringValue("1.0")},
						},
					},
				},
			},
		},
	}
	out := Print(def)
	for _, want := range []string{"CRI\n", "AND", "CTN pkg1.version", "== `1.0`", "CTN_END", "CRI_END"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print() = %q, missing %q", out, want)
		}
	}
}

func TestPrint_NegatedBlock(t *testing.T) {
	def := &ast.Definition{
		CriteriaSet: []ast.CriteriaTree{
			&ast.Block{
				Operator: ast.BlockOr,
				Negate:   true,
				Children: []ast.CriteriaTree{
					&ast.Criterion{ObjectID: "o", Item: ast.ItemCheck{
						Present:  true,
						Path:     "p",
						Operator: ast.OpEQ,
						Expected: ast.Operand{Kind: ast.OperandLiteral, Literal: types.NewBoolValue(true)},
					}},
				},
			},
		},
	}
	out := Print(def)
	if !strings.Contains(out, "NOT OR") {
		t.Errorf("Print() = %q, want a negated OR block", out)
	}
}

func TestPrint_CriterionExistenceCheck(t *testing.T) {
	def := &ast.Definition{
		CriteriaSet: []ast.CriteriaTree{
			&ast.Criterion{
				ObjectID:   "svc",
				Existence:  ast.ExistenceMustExist,
				StateRefs:  []string{"linux"},
				ObjectRefs: []string{"hosts"},
			},
		},
	}
	out := Print(def)
	for _, want := range []string{"CTN svc", "STATES linux", "OBJECTS hosts", "EXISTS", "CTN_END"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print() = %q, missing %q", out, want)
		}
	}
}
