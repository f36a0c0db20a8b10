// Package exec implements the compliance execution engine: it walks a
// resolved Definition's criteria trees, collects the data each referenced
// object names, evaluates every Criterion's typed comparison, and combines
// the boolean results through AND/OR/NOT with Error-preserving negation
// (spec.md §4.8: negating an Error yields Error, not a flipped boolean).
package exec

import (
	"context"
	"fmt"

	"github.com/cscan-lang/cscan/internal/dag"
	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
)

// Instance is one observed object: its own scalar fields plus whatever
// RecordData the probe returned, keyed the way Criterion/RuntimeOp field
// paths address it.
type Instance struct {
	Fields map[string]types.ResolvedValue
	Record *types.RecordData
}

// Collector observes the real or simulated world on behalf of one
// ObjectDecl and returns every matching Instance. Implementations register
// themselves in a Registry keyed by the probe kind named in the object's
// PARAMETERS block (the "type" element, by convention).
type Collector interface {
	Collect(ctx context.Context, obj *ast.ObjectDecl) ([]Instance, error)
}

// BatchCollector is the preferred shape: one call returns every instance a
// probe can see at once. Collectors that can only observe one instance at
// a time implement Collector directly and the engine invokes Collect once
// per object; the engine passes CollectBatch one object per call, and a
// failed CollectBatch call also falls back to Collect (spec.md §4.6,
// "batch-vs-per-object collection with fallback").
type BatchCollector interface {
	Collector
	CollectBatch(ctx context.Context, objs []*ast.ObjectDecl) (map[string][]Instance, error)
}

// Contract is the field-mapping schema between the criterion-facing field
// vocabulary (STATE/CTN field names as written in a definition) and the
// raw field names a Collector actually populates on an Instance (spec.md
// §4.6: the registry maps each criterion type to a Contract, a Collector,
// and an Executor Strategy). defaultStrategy reads a criterion's
// item_check field through DataField, so a Collector is free to name its
// raw fields however its underlying probe does. Filter evaluation
// (matchesState) does not use a Contract: it reads Instance.Fields by the
// state-field name as written.
type Contract struct {
	CriterionType string
	FieldMap      map[string]string
}

// DataField maps a criterion-facing field name to the raw Instance field
// name a Collector populates, passing the name through unchanged when the
// contract does not remap it (the common case: most fields are named the
// same on both sides).
func (c *Contract) DataField(name string) string {
	if c == nil {
		return name
	}
	if raw, ok := c.FieldMap[name]; ok {
		return raw
	}
	return name
}

// NoContractRegistered is the error a criterion type with no registered
// Contract raises (spec.md §4.6). Unlike Strategy lookup, which falls back
// to defaultStrategy, Contract lookup has no fallback. A criterion with an
// item_check whose type has no Contract evaluates to OutcomeError and
// carries this error on its Finding; the rest of the run continues.
type NoContractRegistered struct {
	CriterionType string
}

func (e *NoContractRegistered) Error() string {
	return fmt.Sprintf("exec: no contract registered for criterion type %q", e.CriterionType)
}

// FieldResult is one field comparison performed while executing a
// Criterion's item_check against a Contract.
type FieldResult struct {
	Field    string
	Observed types.ResolvedValue
	Expected types.ResolvedValue
	Passed   bool
}

// CtnExecutionResult is a Strategy's verdict for one Criterion evaluated
// against one Instance (spec.md §4.6, "execute_with_contract").
type CtnExecutionResult struct {
	Status       Outcome
	StateResults []FieldResult
	Message      string
}

// Strategy evaluates a Criterion's item_check against one Instance,
// addressing Instance fields only through contract's criterion-facing
// names. The engine falls back to defaultStrategy when a criterion type
// has no Strategy registered, but never does so for a missing Contract.
type Strategy interface {
	ExecuteWithContract(ctx context.Context, c *ast.Criterion, contract *Contract, inst Instance, instances map[string][]Instance, resolved *dag.Resolved) CtnExecutionResult
}

// Registry maps a probe/criterion kind (the `type` PARAMETERS element by
// convention, see probeKind) to the three artifacts that serve it: a
// Collector, an optional Contract, and an optional Strategy.
type Registry struct {
	collectors map[string]Collector
	contracts  map[string]*Contract
	strategies map[string]Strategy
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]Collector),
		contracts:  make(map[string]*Contract),
		strategies: make(map[string]Strategy),
	}
}

// Register associates kind with c, overwriting any previous registration.
func (r *Registry) Register(kind string, c Collector) {
	r.collectors[kind] = c
}

// Lookup returns the Collector registered for kind, if any.
func (r *Registry) Lookup(kind string) (Collector, bool) {
	c, ok := r.collectors[kind]
	return c, ok
}

// RegisterContract associates kind with its field-mapping Contract.
func (r *Registry) RegisterContract(kind string, c *Contract) {
	r.contracts[kind] = c
}

// Contract returns the Contract registered for kind, or a
// *NoContractRegistered error if none was registered (spec.md §4.6: this
// lookup has no fallback).
func (r *Registry) Contract(kind string) (*Contract, error) {
	c, ok := r.contracts[kind]
	if !ok {
		return nil, &NoContractRegistered{CriterionType: kind}
	}
	return c, nil
}

// RegisterStrategy associates kind with a Strategy, overriding the default
// single-field comparison strategy the engine otherwise falls back to.
func (r *Registry) RegisterStrategy(kind string, s Strategy) {
	r.strategies[kind] = s
}

// Strategy returns the Strategy registered for kind, falling back to
// defaultStrategy when none was registered.
func (r *Registry) Strategy(kind string) Strategy {
	if s, ok := r.strategies[kind]; ok {
		return s
	}
	return defaultStrategy{}
}

// probeKind extracts the `type = ...` selector element's textual value
// from an ObjectDecl's PARAMETERS/top-level elements, the convention this
// engine uses to pick a Collector.
func probeKind(obj *ast.ObjectDecl) string {
	if obj == nil {
		return ""
	}
	for _, el := range obj.Elements {
		if el.Name == "type" {
			return el.Value.String()
		}
	}
	return ""
}
