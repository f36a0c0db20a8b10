package exec

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"

	"github.com/cscan-lang/cscan/internal/compare"
	"github.com/cscan-lang/cscan/internal/dag"
	"github.com/cscan-lang/cscan/internal/record"
	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
)

// findingJSONLimit bounds the truncated expected/actual JSON dumps a
// Finding carries, the same truncate-for-log-safety convention
// report.DebugJSON applies to a whole Report.
const findingJSONLimit = 512

// evalTree evaluates one criteria tree node, appending every leaf
// Criterion's result to findings as it goes. path is the node's logical
// tree position built up by its ancestors (spec.md §6): "" at the root,
// extended with "CRI_AND"/"CRI_OR[_NOT]" at each Block and "CTN_<type>" at
// each leaf Criterion.
func (e *Engine) evalTree(ctx context.Context, tree ast.CriteriaTree, path string, resolved *dag.Resolved, instances map[string][]Instance, findings *[]Finding) Outcome {
	if err := ctx.Err(); err != nil {
		return OutcomeError
	}

	switch n := tree.(type) {
	case *ast.Criterion:
		return e.evalCriterion(ctx, n, path, resolved, instances, findings)
	case *ast.Block:
		return e.evalBlock(ctx, n, path, resolved, instances, findings)
	default:
		return OutcomeError
	}
}

func (e *Engine) evalBlock(ctx context.Context, b *ast.Block, path string, resolved *dag.Resolved, instances map[string][]Instance, findings *[]Finding) Outcome {
	childPath := joinPath(path, blockSegment(b))

	var result Outcome
	switch b.Operator {
	case ast.BlockAnd:
		result = OutcomeTrue
		for _, c := range b.Children {
			o := e.evalTree(ctx, c, childPath, resolved, instances, findings)
			if o == OutcomeError {
				result = OutcomeError
				break
			}
			if o == OutcomeFalse {
				result = OutcomeFalse
			}
		}
	case ast.BlockOr:
		result = OutcomeFalse
		errCount := 0
		for _, c := range b.Children {
			o := e.evalTree(ctx, c, childPath, resolved, instances, findings)
			if o == OutcomeError {
				errCount++
				continue
			}
			if o == OutcomeTrue {
				result = OutcomeTrue
				break
			}
		}
		if result == OutcomeFalse && errCount > 0 && errCount == len(b.Children) {
			result = OutcomeError
		}
	}

	if b.Negate {
		return negate(result)
	}
	return result
}

// blockSegment renders a Block's contribution to a Finding's logical path
// (spec.md §6: "CRI_AND"/"CRI_OR_NOT").
func blockSegment(b *ast.Block) string {
	name := "CRI_AND"
	if b.Operator == ast.BlockOr {
		name = "CRI_OR"
	}
	if b.Negate {
		name += "_NOT"
	}
	return name
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}

// negate flips True<->False but leaves Error unchanged (spec.md §4.8).
func negate(o Outcome) Outcome {
	switch o {
	case OutcomeTrue:
		return OutcomeFalse
	case OutcomeFalse:
		return OutcomeTrue
	default:
		return OutcomeError
	}
}

// andReduce combines outcomes the way a Criterion's existence_check,
// item_check and state-join halves are combined: Error is absorbing, then
// any False makes the whole thing False, otherwise True (spec.md §3: the
// three halves of a test spec are conjoined).
func andReduce(outcomes ...Outcome) Outcome {
	result := OutcomeTrue
	for _, o := range outcomes {
		if o == OutcomeError {
			return OutcomeError
		}
		if o == OutcomeFalse {
			result = OutcomeFalse
		}
	}
	return result
}

// evalCriterion evaluates one leaf Criterion's full test spec: its
// existence_check, its item_check (routed through the criterion type's
// registered Contract/Strategy), and its state-join, conjoined together
// (spec.md §3, §4.6).
func (e *Engine) evalCriterion(ctx context.Context, c *ast.Criterion, path string, resolved *dag.Resolved, instances map[string][]Instance, findings *[]Finding) Outcome {
	target := instances[c.ObjectID]
	obj := resolved.Objects[c.ObjectID]

	if c.LocalObject != nil {
		obj = c.LocalObject
		insts, err := e.collectOne(ctx, c.ObjectID, c.LocalObject)
		if err != nil {
			return e.recordCriterionError(c, obj, path, err, findings)
		}
		target = insts
	}

	existence := evalExistence(c.Existence, target)

	item := OutcomeTrue
	var itemResult CtnExecutionResult
	if c.Item.Present {
		if len(target) == 0 {
			item = OutcomeError
		} else if obj == nil {
			item = OutcomeError
		} else {
			kind := probeKind(obj)
			contract, err := e.registry.Contract(kind)
			if err != nil {
				return e.recordCriterionError(c, obj, path, err, findings)
			}
			strategy := e.registry.Strategy(kind)
			itemResult = strategy.ExecuteWithContract(ctx, c, contract, target[0], instances, resolved)
			item = itemResult.Status
		}
	}

	join := evalStateJoin(c.StateRefs, target, resolved)

	outcome := andReduce(existence, item, join)

	f := Finding{
		ObjectID:    c.ObjectID,
		Path:        joinPath(path, criterionSegment(c, obj)),
		Outcome:     outcome,
		Severity:    e.severity,
		Title:       findingTitle(c),
		Description: findingDescription(c),
	}
	if len(itemResult.StateResults) > 0 {
		fr := itemResult.StateResults[0]
		f.ExpectedJSON = truncatedJSON(fr.Expected)
		f.ActualJSON = truncatedJSON(fr.Observed)
	}
	if itemResult.Message != "" {
		f.Err = fmt.Errorf("exec: %s", itemResult.Message)
	}
	*findings = append(*findings, f)
	return outcome
}

func (e *Engine) recordCriterionError(c *ast.Criterion, obj *ast.ObjectDecl, path string, err error, findings *[]Finding) Outcome {
	*findings = append(*findings, Finding{
		ObjectID: c.ObjectID,
		Path:     joinPath(path, criterionSegment(c, obj)),
		Outcome:  OutcomeError,
		Severity: e.severity,
		Title:    findingTitle(c),
		Err:      err,
	})
	return OutcomeError
}

// criterionSegment renders a Criterion's contribution to a Finding's
// logical path: "CTN_<type>" where type is the probe kind its object
// resolves to, falling back to the object ID itself when the type is
// unknown (spec.md §6).
func criterionSegment(c *ast.Criterion, obj *ast.ObjectDecl) string {
	kind := probeKind(obj)
	if kind == "" {
		kind = c.ObjectID
	}
	return "CTN_" + kind
}

// evalExistence evaluates a Criterion's existence_check half: whether its
// primary (or local) object has any observed instances at all.
func evalExistence(mode ast.ExistenceMode, insts []Instance) Outcome {
	switch mode {
	case ast.ExistenceMustExist:
		if len(insts) > 0 {
			return OutcomeTrue
		}
		return OutcomeFalse
	case ast.ExistenceMustNotExist:
		if len(insts) == 0 {
			return OutcomeTrue
		}
		return OutcomeFalse
	default:
		return OutcomeTrue
	}
}

// evalStateJoin evaluates a Criterion's state-join half: the primary
// instance must also match every globally-named state it references
// (spec.md §3's "plural references", §4.6's global-states-only filter
// rule applied the same way here).
func evalStateJoin(stateRefs []string, insts []Instance, resolved *dag.Resolved) Outcome {
	if len(stateRefs) == 0 {
		return OutcomeTrue
	}
	if len(insts) == 0 {
		return OutcomeFalse
	}
	for _, sn := range stateRefs {
		st := resolved.States[sn]
		if st == nil {
			return OutcomeError
		}
		ok, err := matchesState(insts[0], st, resolved)
		if err != nil {
			return OutcomeError
		}
		if !ok {
			return OutcomeFalse
		}
	}
	return OutcomeTrue
}

// defaultStrategy is the engine's built-in Strategy: a single field
// comparison between contract.DataField(c.Item.Path) on inst and
// c.Item.Expected, the behavior every criterion type had before a
// registered Strategy could override it.
type defaultStrategy struct{}

func (defaultStrategy) ExecuteWithContract(ctx context.Context, c *ast.Criterion, contract *Contract, inst Instance, instances map[string][]Instance, resolved *dag.Resolved) CtnExecutionResult {
	observed, ok := fieldValue(inst, contract.DataField(c.Item.Path))
	if !ok {
		return CtnExecutionResult{Status: OutcomeError, Message: fmt.Sprintf("field %q not observed on %q", c.Item.Path, c.ObjectID)}
	}

	expected, err := expectedValue(c.ObjectID, c.Item.Expected, resolved, instances)
	if err != nil {
		return CtnExecutionResult{Status: OutcomeError, Message: err.Error()}
	}

	eq, err := compare.Eval(c.Item.Operator, observed, expected)
	if err != nil {
		return CtnExecutionResult{Status: OutcomeError, Message: err.Error()}
	}

	status := OutcomeFalse
	if eq {
		status = OutcomeTrue
	}
	return CtnExecutionResult{
		Status:       status,
		StateResults: []FieldResult{{Field: c.Item.Path, Observed: observed, Expected: expected, Passed: eq}},
	}
}

// fieldValue resolves field either from an Instance's scalar Fields map or,
// failing that, by walking its RecordData (dotted/wildcard path support).
func fieldValue(inst Instance, field string) (types.ResolvedValue, bool) {
	if field == "" {
		return types.ResolvedValue{}, false
	}
	if v, ok := inst.Fields[field]; ok {
		return v, true
	}
	if inst.Record != nil {
		vals, err := record.ResolvePath(inst.Record, field)
		if err == nil && len(vals) > 0 {
			return vals[0], true
		}
	}
	return types.ResolvedValue{}, false
}

func expectedValue(objectID string, op ast.Operand, resolved *dag.Resolved, instances map[string][]Instance) (types.ResolvedValue, error) {
	switch op.Kind {
	case ast.OperandLiteral:
		return types.FromValue(op.Literal), nil
	case ast.OperandVariable:
		return resolved.Variables[op.Name], nil
	case ast.OperandStateField:
		st := resolved.States[op.Name]
		if st == nil {
			return types.ResolvedValue{}, nil
		}
		for _, f := range st.Fields {
			if f.Name == op.FieldName || f.RecordCheck == op.FieldName {
				return fieldExpectedValue(f, resolved), nil
			}
		}
		return types.ResolvedValue{}, nil
	case ast.OperandFieldPath:
		// A bare field path with no object-ID prefix names a different
		// field on the criterion's own object.
		insts := instances[objectID]
		if len(insts) == 0 {
			return types.ResolvedValue{}, nil
		}
		v, ok := fieldValue(insts[0], op.Path)
		if !ok {
			return types.ResolvedValue{}, nil
		}
		return v, nil
	default:
		return types.ResolvedValue{}, nil
	}
}

func findingTitle(c *ast.Criterion) string {
	if c.Item.Present {
		return fmt.Sprintf("%s.%s", c.ObjectID, c.Item.Path)
	}
	switch c.Existence {
	case ast.ExistenceMustExist, ast.ExistenceMustNotExist:
		return c.ObjectID
	default:
		return c.ObjectID
	}
}

func findingDescription(c *ast.Criterion) string {
	switch c.Existence {
	case ast.ExistenceMustExist:
		return fmt.Sprintf("%s must exist", c.ObjectID)
	case ast.ExistenceMustNotExist:
		return fmt.Sprintf("%s must not exist", c.ObjectID)
	}
	if c.Item.Present {
		return fmt.Sprintf("%s.%s %s <expected>", c.ObjectID, c.Item.Path, operatorLabel(c.Item.Operator))
	}
	return c.ObjectID
}

func operatorLabel(op ast.CriterionOperator) string {
	switch op {
	case ast.OpEQ:
		return "=="
	case ast.OpNEQ:
		return "!="
	case ast.OpLT:
		return "<"
	case ast.OpLE:
		return "<="
	case ast.OpGT:
		return ">"
	case ast.OpGE:
		return ">="
	case ast.OpCIEQ:
		return "~="
	case ast.OpCINEQ:
		return "~!="
	case ast.OpContains:
		return "contains"
	case ast.OpNotContains:
		return "not contains"
	case ast.OpStartsWith:
		return "starts_with"
	case ast.OpNotStartsWith:
		return "not starts_with"
	case ast.OpEndsWith:
		return "ends_with"
	case ast.OpNotEndsWith:
		return "not ends_with"
	case ast.OpMatches:
		return "matches"
	case ast.OpSubsetOf:
		return "subset_of"
	case ast.OpSupersetOf:
		return "superset_of"
	default:
		return "?"
	}
}

// truncatedJSON renders v as pretty-printed, size-bounded JSON for a
// Finding's debug fields, the same truncate-for-log-safety convention
// report.DebugJSON applies at the whole-Report level.
func truncatedJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	out := pretty.Pretty(b)
	if len(out) > findingJSONLimit {
		out = out[:findingJSONLimit]
	}
	return string(out)
}
