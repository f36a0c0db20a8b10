package symbols

import (
	"github.com/cscan-lang/cscan/internal/diag"
	"github.com/cscan-lang/cscan/pkg/ast"
)

// Pass is a single symbol-collection pass over a parsed Definition,
// adapted from the teacher compiler's multi-pass semantic analyzer
// (internal/semantic.Pass): passes run in a fixed order so that work
// depending on a populated symbol table (local-declaration uniqueness,
// set arity) runs after the pass that builds it, without each pass having
// to re-discover declarations on its own.
//
// A pass reports semantic problems into bag rather than returning them;
// Run only returns an error for a fatal internal failure.
type Pass interface {
	Name() string
	Run(def *ast.Definition, res *Result, bag *diag.Bag) error
}

// PassManager runs its passes in registration order.
type PassManager struct {
	passes []Pass
}

// NewPassManager constructs a PassManager over passes, run in the given
// order.
func NewPassManager(passes ...Pass) *PassManager {
	return &PassManager{passes: passes}
}

// AddPass appends a pass to run after every pass already registered.
func (pm *PassManager) AddPass(p Pass) { pm.passes = append(pm.passes, p) }

// Passes returns the registered passes, in run order.
func (pm *PassManager) Passes() []Pass { return pm.passes }

// RunAll runs every registered pass against def, in order, threading the
// shared Result and diagnostic bag through each. It stops and returns the
// error from the first pass that fails fatally.
func (pm *PassManager) RunAll(def *ast.Definition, res *Result, bag *diag.Bag) error {
	for _, p := range pm.passes {
		if err := p.Run(def, res, bag); err != nil {
			return err
		}
	}
	return nil
}

// declarationPass registers every top-level declaration and builds the
// relationship list the DAG resolver consumes; it must run before any
// pass that assumes res.Global is populated.
type declarationPass struct{}

func (declarationPass) Name() string { return "declarations" }

func (declarationPass) Run(def *ast.Definition, res *Result, bag *diag.Bag) error {
	collectDeclarations(def, res, bag)
	return nil
}

// localScopePass enforces the per-criterion scoping invariants (spec.md §3:
// "Criterion-local names are unique within a criterion; at most one local
// object per criterion") and records the (non-order-inducing)
// Local*Dependency relationships.
type localScopePass struct{}

func (localScopePass) Name() string { return "local-scope" }

func (localScopePass) Run(def *ast.Definition, res *Result, bag *diag.Bag) error {
	for _, tree := range def.CriteriaSet {
		walkCriteria(tree, func(c *ast.Criterion) {
			checkLocalScope(c, res, bag)
		})
	}
	return nil
}

// setArityPass enforces the set-operation arity invariants (spec.md §4.4:
// union >= 1, intersection >= 2, complement exactly 2).
type setArityPass struct{}

func (setArityPass) Name() string { return "set-arity" }

func (setArityPass) Run(def *ast.Definition, res *Result, bag *diag.Bag) error {
	for _, s := range def.Sets {
		checkSetArity(s, bag)
	}
	return nil
}

// defaultPasses is the pipeline Collect runs: declarations first, then the
// checks that depend on it.
func defaultPasses() *PassManager {
	return NewPassManager(declarationPass{}, localScopePass{}, setArityPass{})
}
