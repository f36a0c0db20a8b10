package exec

import (
	"context"
	"fmt"
	"time"

	"github.com/cscan-lang/cscan/internal/compare"
	"github.com/cscan-lang/cscan/internal/dag"
	"github.com/cscan-lang/cscan/internal/record"
	"github.com/cscan-lang/cscan/internal/runtimeops"
	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
)

// Outcome is the three-valued result a criteria tree node evaluates to.
// An AND block is Error if any child is Error, else False if any child is
// False, else True; an OR block is True if any child is True, Error if
// every child is Error, else False. Negation leaves Error unchanged
// (spec.md §4.8).
type Outcome int

const (
	OutcomeFalse Outcome = iota
	OutcomeTrue
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTrue:
		return "true"
	case OutcomeError:
		return "error"
	default:
		return "false"
	}
}

// Timeout describes the three checkpoints the engine enforces: a ceiling
// on object collection, on runtime-op evaluation, and on the criteria-tree
// walk itself, each independently configurable.
type Timeout struct {
	Collection time.Duration
	RuntimeOps time.Duration
	Evaluation time.Duration
}

// DefaultTimeout returns conservative per-phase ceilings.
func DefaultTimeout() Timeout {
	return Timeout{Collection: 30 * time.Second, RuntimeOps: 10 * time.Second, Evaluation: 30 * time.Second}
}

// Engine executes a resolved Definition's criteria trees against live
// (or collector-simulated) object data.
type Engine struct {
	registry *Registry
	timeout  Timeout
	severity Severity
}

// NewEngine constructs an Engine using registry to satisfy object
// collection and Strategy/Contract lookup, to as the phase timeouts, and
// severity to stamp onto every Finding it produces (spec.md §6: severity
// is run metadata, not something any criteria tree computes itself).
func NewEngine(registry *Registry, to Timeout, severity Severity) *Engine {
	return &Engine{registry: registry, timeout: to, severity: severity}
}

// Finding is one leaf Criterion's evaluation result, independent of the
// boolean tree it belongs to; the report builder flattens a full run into
// a slice of these. Path is the criterion's logical position in its
// criteria tree (e.g. "CRI_AND.CRI_OR_NOT.CTN_package"), not a data field
// path — Title/Description/ExpectedJSON/ActualJSON carry the field-level
// detail a reader needs to act on a failure (spec.md §6).
type Finding struct {
	ObjectID     string
	Path         string
	Outcome      Outcome
	Severity     Severity
	Title        string
	Description  string
	ExpectedJSON string
	ActualJSON   string
	Err          error
}

// Run evaluates every criteria tree in resolved against collected object
// data, returning the per-tree Outcome and the leaf Findings gathered
// along the way.
func (e *Engine) Run(ctx context.Context, def *ast.Definition, resolved *dag.Resolved) ([]Outcome, []Finding, error) {
	collectCtx, cancel := context.WithTimeout(ctx, e.timeout.Collection)
	defer cancel()

	instances, err := e.collectAll(collectCtx, resolved.Objects)
	if err != nil {
		return nil, nil, fmt.Errorf("exec: collection failed: %w", err)
	}

	instances, err = e.applyFilters(instances, resolved)
	if err != nil {
		return nil, nil, err
	}

	opCtx, cancel2 := context.WithTimeout(ctx, e.timeout.RuntimeOps)
	defer cancel2()
	if err := e.resolveDeferredOps(opCtx, resolved, instances); err != nil {
		return nil, nil, err
	}

	evalCtx, cancel3 := context.WithTimeout(ctx, e.timeout.Evaluation)
	defer cancel3()

	var findings []Finding
	outcomes := make([]Outcome, 0, len(def.CriteriaSet))
	for _, tree := range def.CriteriaSet {
		o := e.evalTree(evalCtx, tree, "", resolved, instances, &findings)
		outcomes = append(outcomes, o)
	}
	return outcomes, findings, nil
}

func (e *Engine) collectAll(ctx context.Context, objects map[string]*ast.ObjectDecl) (map[string][]Instance, error) {
	out := make(map[string][]Instance, len(objects))
	for name, obj := range objects {
		insts, err := e.collectOne(ctx, name, obj)
		if err != nil {
			return nil, err
		}
		out[name] = insts
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// collectOne collects every Instance one ObjectDecl (named name for error
// reporting) denotes, preferring a BatchCollector's single-object batch
// call and falling back to its per-object Collect method. Used both for
// top-level objects (collectAll) and for a Criterion's LocalObject, which
// is collected on demand when its owning Criterion is evaluated.
func (e *Engine) collectOne(ctx context.Context, name string, obj *ast.ObjectDecl) ([]Instance, error) {
	kind := probeKind(obj)
	c, ok := e.registry.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("exec: no collector registered for probe kind %q (object %q)", kind, name)
	}
	if batch, ok := c.(BatchCollector); ok {
		res, err := batch.CollectBatch(ctx, []*ast.ObjectDecl{obj})
		if err == nil {
			return res[name], nil
		}
		// fall through to per-object collection on batch failure
	}
	insts, err := c.Collect(ctx, obj)
	if err != nil {
		return nil, fmt.Errorf("exec: collecting %q: %w", name, err)
	}
	return insts, nil
}

// applyFilters drops Instances that fail an ObjectDecl's Include/Exclude
// filter, evaluated only against the named global states (spec.md §4.6:
// "Include/Exclude filter evaluation against global states only").
func (e *Engine) applyFilters(instances map[string][]Instance, resolved *dag.Resolved) (map[string][]Instance, error) {
	out := make(map[string][]Instance, len(instances))
	for name, insts := range instances {
		obj := resolved.Objects[name]
		if obj == nil || obj.Filter == nil {
			out[name] = insts
			continue
		}
		var kept []Instance
		for _, inst := range insts {
			ok, err := matchesAnyState(inst, obj.Filter.StateNames, resolved)
			if err != nil {
				return nil, err
			}
			if (obj.Filter.Kind == ast.FilterInclude) == ok {
				kept = append(kept, inst)
			}
		}
		out[name] = kept
	}
	return out, nil
}

func matchesAnyState(inst Instance, stateNames []string, resolved *dag.Resolved) (bool, error) {
	for _, sn := range stateNames {
		st := resolved.States[sn]
		if st == nil {
			continue
		}
		ok, err := matchesState(inst, st, resolved)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func matchesState(inst Instance, st *ast.StateDecl, resolved *dag.Resolved) (bool, error) {
	for _, f := range st.Fields {
		var observed types.ResolvedValue
		var found bool
		if f.RecordCheck != "" {
			if inst.Record == nil {
				return false, nil
			}
			vals, err := record.ResolvePath(inst.Record, f.RecordCheck)
			if err != nil || len(vals) == 0 {
				return false, nil
			}
			observed, found = vals[0], true
		} else {
			observed, found = inst.Fields[f.Name]
		}
		if !found {
			return false, nil
		}
		expected := fieldExpectedValue(f, resolved)
		eq, err := compare.Eval(ast.OpEQ, observed, expected)
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
	}
	return true, nil
}

func fieldExpectedValue(f ast.StateField, resolved *dag.Resolved) types.ResolvedValue {
	if f.Value.Kind() == types.KindVariableRef {
		return resolved.Variables[f.Value.VariableRef()]
	}
	return types.FromValue(f.Value)
}

func (e *Engine) resolveDeferredOps(ctx context.Context, resolved *dag.Resolved, instances map[string][]Instance) error {
	for _, op := range resolved.Deferred {
		objFields := flattenObjectFields(op, instances)
		v, err := runtimeops.EvalScanTime(op, resolved.Variables, objFields)
		if err != nil {
			return fmt.Errorf("exec: deferred op %q: %w", op.Target.Name, err)
		}
		resolved.Variables[op.Target.Name] = v
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func flattenObjectFields(op *ast.RuntimeOp, instances map[string][]Instance) map[string]types.ResolvedValue {
	out := make(map[string]types.ResolvedValue)
	for _, p := range op.Params {
		if p.ObjectID == "" {
			continue
		}
		insts := instances[p.ObjectID]
		if len(insts) == 0 {
			continue
		}
		if v, ok := insts[0].Fields[p.ObjectField]; ok {
			out[p.ObjectID+"."+p.ObjectField] = v
		}
	}
	return out
}
