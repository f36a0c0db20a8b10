package parser

import (
	"testing"

	"github.com/cscan-lang/cscan/internal/lexer"
	"github.com/cscan-lang/cscan/pkg/ast"
)

func TestParser_VariableDecl_Literal(t *testing.T) {
	f, errs := New(lexer.New("VAR expected_mode string = `0644`\nCRI\nCTN obj1 == `x` CTN_END\nCRI_END")).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(f.Definition.Variables) != 1 {
		t.Fatalf("got %d variables, want 1", len(f.Definition.Variables))
	}
	v := f.Definition.Variables[0]
	if v.Name.Name != "expected_mode" || v.Literal.StringVal() != "0644" {
		t.Fatalf("got %+v", v)
	}
}

func TestParser_VariableDecl_Computed(t *testing.T) {
	f, errs := New(lexer.New("VAR total int\nCRI\nCTN obj1 == 1 CTN_END\nCRI_END")).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if f.Definition.Variables[0].InitKind != ast.VarComputed {
		t.Fatalf("got %v, want VarComputed", f.Definition.Variables[0].InitKind)
	}
}

func TestParser_StateDecl(t *testing.T) {
	src := "STATE good_perms\nmode = `0644`\nowner = `root`\nSTATE_END\nCRI\nCTN obj1 == 1 CTN_END\nCRI_END"
	f, errs := New(lexer.New(src)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(f.Definition.States) != 1 || len(f.Definition.States[0].Fields) != 2 {
		t.Fatalf("got %+v", f.Definition.States)
	}
}

func TestParser_ObjectDeclWithFilter(t *testing.T) {
	src := "OBJECT passwd_file\nPARAMETERS\npath = `/etc/passwd`\nPARAMETERS_END\nFILTER\nInclude\ngood_perms\nFILTER_END\nOBJECT_END\nCRI\nCTN passwd_file == 1 CTN_END\nCRI_END"
	f, errs := New(lexer.New(src)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	obj := f.Definition.Objects[0]
	if len(obj.Elements) != 1 || obj.Elements[0].Name != "path" {
		t.Fatalf("got %+v", obj.Elements)
	}
	if obj.Filter == nil || obj.Filter.Kind != 0 || len(obj.Filter.StateNames) != 1 {
		t.Fatalf("got %+v", obj.Filter)
	}
}

func TestParser_CriteriaTree_AndOrNot(t *testing.T) {
	src := "CRI\nAND\nCTN obj1 == 1 CTN_END\nNOT OR\nCTN obj2 != 2 CTN_END\nCTN obj3 contains `x` CTN_END\nCRI_END"
	f, errs := New(lexer.New(src)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(f.Definition.CriteriaSet) != 1 {
		t.Fatalf("got %d trees", len(f.Definition.CriteriaSet))
	}
}

func TestParser_RuntimeOp_Concat(t *testing.T) {
	src := "VAR merged string\nRUN merged concat\nliteral = `a`\nliteral = `b`\nRUN_END\nCRI\nCTN obj1 == 1 CTN_END\nCRI_END"
	f, errs := New(lexer.New(src)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(f.Definition.RuntimeOps) != 1 || len(f.Definition.RuntimeOps[0].Params) != 2 {
		t.Fatalf("got %+v", f.Definition.RuntimeOps)
	}
}

func TestParser_SetOp_Union(t *testing.T) {
	src := "SET all_configs\nunion obj1, obj2\nSET_END\nCRI\nCTN obj1 == 1 CTN_END\nCRI_END"
	f, errs := New(lexer.New(src)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(f.Definition.Sets) != 1 || len(f.Definition.Sets[0].Operands) != 2 {
		t.Fatalf("got %+v", f.Definition.Sets)
	}
}

func TestParser_EmptyInput(t *testing.T) {
	_, errs := New(lexer.New("")).Parse()
	if len(errs) != 1 || errs[0].Kind != ErrEmptyStream {
		t.Fatalf("got %v, want ErrEmptyStream", errs)
	}
}

func TestParser_UnexpectedTopLevelToken(t *testing.T) {
	_, errs := New(lexer.New("42\nCRI\nCTN obj1 == 1 CTN_END\nCRI_END")).Parse()
	if len(errs) == 0 {
		t.Fatalf("expected at least one error")
	}
	if errs[0].Kind != ErrUnexpectedToken {
		t.Fatalf("got %v, want ErrUnexpectedToken first", errs[0].Kind)
	}
}
