package runtimeops

import (
	"testing"

	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
)

func literalParam(s string) ast.RuntimeParam {
	return ast.RuntimeParam{Literal: types.NewStringValue(s)}
}

func namedParam(name string, v types.Value) ast.RuntimeParam {
	return ast.RuntimeParam{Named: name, Value: v}
}

func TestEvalResolutionTime_Concat(t *testing.T) {
	op := &ast.RuntimeOp{
		Kind:   ast.OpConcat,
		Params: []ast.RuntimeParam{literalParam("foo"), literalParam("bar")},
	}
	got, err := EvalResolutionTime(op, nil)
	if err != nil {
		t.Fatalf("EvalResolutionTime() error = %v", err)
	}
	if got.StringVal() != "foobar" {
		t.Errorf("concat result = %q, want %q", got.StringVal(), "foobar")
	}
}

func TestEvalResolutionTime_Arithmetic(t *testing.T) {
	op := &ast.RuntimeOp{
		Kind: ast.OpArithmetic,
		Params: []ast.RuntimeParam{
			{Literal: types.NewIntValue(10)},
			{ArithOperator: "+"},
			{Literal: types.NewIntValue(5)},
			{ArithOperator: "-"},
			{Literal: types.NewIntValue(2)},
		},
	}
	got, err := EvalResolutionTime(op, nil)
	if err != nil {
		t.Fatalf("EvalResolutionTime() error = %v", err)
	}
	if got.Kind() != types.KindInt || got.IntVal() != 13 {
		t.Errorf("arithmetic result = %v, want int 13", got)
	}
}

func TestEvalResolutionTime_ArithmeticDivisionByZero(t *testing.T) {
	op := &ast.RuntimeOp{
		Kind: ast.OpArithmetic,
		Params: []ast.RuntimeParam{
			{Literal: types.NewIntValue(10)},
			{ArithOperator: "/"},
			{Literal: types.NewIntValue(0)},
		},
	}
	if _, err := EvalResolutionTime(op, nil); err == nil {
		t.Fatal("expected division-by-zero error, got nil")
	}
}

func TestEvalResolutionTime_Split(t *testing.T) {
	op := &ast.RuntimeOp{
		Kind: ast.OpSplit,
		Params: []ast.RuntimeParam{
			literalParam("a,b,c"),
			namedParam("delimiter", types.NewStringValue(",")),
		},
	}
	got, err := EvalResolutionTime(op, nil)
	if err != nil {
		t.Fatalf("EvalResolutionTime() error = %v", err)
	}
	items := got.CollectionVal()
	if len(items) != 3 || items[0].StringVal() != "a" || items[2].StringVal() != "c" {
		t.Errorf("split result = %v, want [a b c]", items)
	}
}

func TestEvalResolutionTime_Substring(t *testing.T) {
	op := &ast.RuntimeOp{
		Kind: ast.OpSubstring,
		Params: []ast.RuntimeParam{
			literalParam("hello world"),
			namedParam("start", types.NewIntValue(6)),
			namedParam("length", types.NewIntValue(5)),
		},
	}
	got, err := EvalResolutionTime(op, nil)
	if err != nil {
		t.Fatalf("EvalResolutionTime() error = %v", err)
	}
	if got.StringVal() != "world" {
		t.Errorf("substring result = %q, want %q", got.StringVal(), "world")
	}
}

func TestEvalResolutionTime_RegexCapture(t *testing.T) {
	op := &ast.RuntimeOp{
		Kind: ast.OpRegexCapture,
		Params: []ast.RuntimeParam{
			literalParam("version=1.2.3"),
			namedParam("pattern", types.NewStringValue(`version=(\d+\.\d+\.\d+)`)),
		},
	}
	got, err := EvalResolutionTime(op, nil)
	if err != nil {
		t.Fatalf("EvalResolutionTime() error = %v", err)
	}
	if got.StringVal() != "1.2.3" {
		t.Errorf("regex_capture result = %q, want %q", got.StringVal(), "1.2.3")
	}
}

func TestEvalResolutionTime_Count(t *testing.T) {
	op := &ast.RuntimeOp{Kind: ast.OpCount, Params: []ast.RuntimeParam{literalParam("hello")}}
	got, err := EvalResolutionTime(op, nil)
	if err != nil {
		t.Fatalf("EvalResolutionTime() error = %v", err)
	}
	if got.IntVal() != 5 {
		t.Errorf("count result = %d, want 5", got.IntVal())
	}
}

func TestEvalResolutionTime_UniqueAndMerge(t *testing.T) {
	dup := ast.RuntimeOp{Kind: ast.OpUnique, Params: []ast.RuntimeParam{literalParam("a"), literalParam("a"), literalParam("b")}}
	got, err := EvalResolutionTime(&dup, nil)
	if err != nil {
		t.Fatalf("EvalResolutionTime() error = %v", err)
	}
	if len(got.CollectionVal()) != 2 {
		t.Errorf("unique result has %d items, want 2", len(got.CollectionVal()))
	}
}

func TestIsDeferred(t *testing.T) {
	if IsDeferred(ast.OpConcat, []ast.RuntimeParam{literalParam("x")}) {
		t.Error("expected a plain literal-only op to not be deferred")
	}
	deferredParams := []ast.RuntimeParam{{ObjectID: "pkg1", ObjectField: "version"}}
	if !IsDeferred(ast.OpExtract, deferredParams) {
		t.Error("expected an object-field param to mark the op deferred")
	}
}

func TestEvalScanTime_Extract(t *testing.T) {
	op := &ast.RuntimeOp{
		Kind:   ast.OpExtract,
		Params: []ast.RuntimeParam{{ObjectID: "pkg1", ObjectField: "version"}},
	}
	fields := map[string]types.ResolvedValue{"pkg1.version": types.ResolvedString("2.0.1")}
	got, err := EvalScanTime(op, nil, fields)
	if err != nil {
		t.Fatalf("EvalScanTime() error = %v", err)
	}
	if got.StringVal() != "2.0.1" {
		t.Errorf("extract result = %q, want %q", got.StringVal(), "2.0.1")
	}
}
