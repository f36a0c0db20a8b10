package exec

import (
	"context"
	"testing"

	"github.com/cscan-lang/cscan/internal/dag"
	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
)

type fakeCollector struct {
	instances []Instance
	err       error
}

func (f *fakeCollector) Collect(ctx context.Context, obj *ast.ObjectDecl) ([]Instance, error) {
	return f.instances, f.err
}

func objectDecl(name, probeKindName string) *ast.ObjectDecl {
	return &ast.ObjectDecl{
		Name:     &ast.Identifier{Name: name},
		Elements: []ast.ObjectElement{{Name: "type", Value: types.NewStringValue(probeKindName)}},
	}
}

func criterion(objectID, path string, op ast.CriterionOperator, expected types.Value) *ast.Criterion {
	return &ast.Criterion{
		ObjectID: objectID,
		Item: ast.ItemCheck{
			Present:  true,
			Path:     path,
			Operator: op,
			Expected: ast.Operand{Kind: ast.OperandLiteral, Literal: expected},
		},
	}
}

// identityContract is registered for "package" in tests that exercise the
// comment-4 Contract/Strategy indirection without remapping any field
// names: the criterion-facing and Instance-facing vocabularies coincide.
func identityContract(kind string) *Contract {
	return &Contract{CriterionType: kind, FieldMap: map[string]string{}}
}

func baseResolved(objects map[string]*ast.ObjectDecl) *dag.Resolved {
	return &dag.Resolved{
		Variables: make(map[string]types.ResolvedValue),
		States:    make(map[string]*ast.StateDecl),
		Objects:   objects,
		Sets:      make(map[string]*dag.ExpandedSet),
	}
}

func TestEngine_Run_SimplePass(t *testing.T) {
	obj := objectDecl("pkg1", "package")
	registry := NewRegistry()
	registry.Register("package", &fakeCollector{instances: []Instance{
		{Fields: map[string]types.ResolvedValue{"version": types.ResolvedString("1.2.3")}},
	}})
	registry.RegisterContract("package", identityContract("package"))

	def := &ast.Definition{
		Objects: []*ast.ObjectDecl{obj},
		CriteriaSet: []ast.CriteriaTree{
			criterion("pkg1", "version", ast.OpEQ, types.NewStringValue("1.2.3")),
		},
	}
	resolved := baseResolved(map[string]*ast.ObjectDecl{"pkg1": obj})

	engine := NewEngine(registry, DefaultTimeout(), SeverityMedium)
	outcomes, findings, err := engine.Run(context.Background(), def, resolved)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(outcomes) != 1 || outcomes[0] != OutcomeTrue {
		t.Fatalf("outcomes = %v, want [true]", outcomes)
	}
	if len(findings) != 1 || findings[0].Outcome != OutcomeTrue {
		t.Fatalf("findings = %v, want one true finding", findings)
	}
	if findings[0].Severity != SeverityMedium {
		t.Errorf("findings[0].Severity = %v, want medium", findings[0].Severity)
	}
	if findings[0].Path != "CTN_package" {
		t.Errorf("findings[0].Path = %q, want logical tree position CTN_package", findings[0].Path)
	}
}

func TestEngine_Run_NoContractRegistered(t *testing.T) {
	obj := objectDecl("pkg1", "package")
	registry := NewRegistry()
	registry.Register("package", &fakeCollector{instances: []Instance{
		{Fields: map[string]types.ResolvedValue{"version": types.ResolvedString("1.2.3")}},
	}})
	// Deliberately no RegisterContract call.

	def := &ast.Definition{
		Objects: []*ast.ObjectDecl{obj},
		CriteriaSet: []ast.CriteriaTree{
			criterion("pkg1", "version", ast.OpEQ, types.NewStringValue("1.2.3")),
		},
	}
	resolved := baseResolved(map[string]*ast.ObjectDecl{"pkg1": obj})

	engine := NewEngine(registry, DefaultTimeout(), SeverityMedium)
	outcomes, findings, err := engine.Run(context.Background(), def, resolved)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcomes[0] != OutcomeError {
		t.Fatalf("outcome = %v, want error when no Contract is registered", outcomes[0])
	}
	if _, ok := findings[0].Err.(*NoContractRegistered); !ok {
		t.Errorf("findings[0].Err = %v (%T), want *NoContractRegistered", findings[0].Err, findings[0].Err)
	}
}

func TestEngine_Run_Mismatch(t *testing.T) {
	obj := objectDecl("pkg1", "package")
	registry := NewRegistry()
	registry.Register("package", &fakeCollector{instances: []Instance{
		{Fields: map[string]types.ResolvedValue{"version": types.ResolvedString("1.0.0")}},
	}})
	registry.RegisterContract("package", identityContract("package"))

	def := &ast.Definition{
		Objects: []*ast.ObjectDecl{obj},
		CriteriaSet: []ast.CriteriaTree{
			criterion("pkg1", "version", ast.OpEQ, types.NewStringValue("1.2.3")),
		},
	}
	resolved := baseResolved(map[string]*ast.ObjectDecl{"pkg1": obj})

	engine := NewEngine(registry, DefaultTimeout(), SeverityMedium)
	outcomes, _, err := engine.Run(context.Background(), def, resolved)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcomes[0] != OutcomeFalse {
		t.Errorf("outcome = %v, want false", outcomes[0])
	}
}

func TestEngine_Run_NoCollectorRegistered(t *testing.T) {
	obj := objectDecl("pkg1", "package")
	registry := NewRegistry() // nothing registered

	def := &ast.Definition{Objects: []*ast.ObjectDecl{obj}}
	resolved := baseResolved(map[string]*ast.ObjectDecl{"pkg1": obj})

	engine := NewEngine(registry, DefaultTimeout(), SeverityMedium)
	if _, _, err := engine.Run(context.Background(), def, resolved); err == nil {
		t.Fatal("expected an error for an unregistered probe kind, got nil")
	}
}

func TestEvalBlock_AndShortCircuitsToError(t *testing.T) {
	engine := NewEngine(NewRegistry(), DefaultTimeout(), SeverityMedium)
	block := &ast.Block{
		Operator: ast.BlockAnd,
		Children: []ast.CriteriaTree{
			criterion("missing", "field", ast.OpEQ, types.NewStringValue("x")),
			criterion("missing", "field", ast.OpEQ, types.NewStringValue("x")),
		},
	}
	var findings []Finding
	resolved := baseResolved(map[string]*ast.ObjectDecl{})
	o := engine.evalTree(context.Background(), block, "", resolved, map[string][]Instance{}, &findings)
	if o != OutcomeError {
		t.Errorf("AND with a missing object = %v, want error", o)
	}
}

func TestNegate(t *testing.T) {
	if negate(OutcomeTrue) != OutcomeFalse {
		t.Error("negate(true) should be false")
	}
	if negate(OutcomeFalse) != OutcomeTrue {
		t.Error("negate(false) should be true")
	}
	if negate(OutcomeError) != OutcomeError {
		t.Error("negate(error) should stay error")
	}
}
