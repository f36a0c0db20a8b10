package dag

import (
	"fmt"

	"github.com/cscan-lang/cscan/internal/diag"
	"github.com/cscan-lang/cscan/internal/runtimeops"
	"github.com/cscan-lang/cscan/internal/symbols"
	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
)

// ExpandedSet is a SetOp's concrete operand list (spec.md §4.4: "the set
// is expanded by executing union/intersection/complement semantics,
// producing a concrete operand list"): the flattened, duplicate-free names
// of every object the set ultimately denotes, plus whatever state filter
// the set itself carries.
type ExpandedSet struct {
	Members    []string
	FilterRefs []string
}

// Resolved is the output of a successful resolution pass: every
// resolution-time value keyed by declaration name, plus the runtime
// operations deferred to scan time because they reference object data.
type Resolved struct {
	Variables map[string]types.ResolvedValue
	States    map[string]*ast.StateDecl
	Objects   map[string]*ast.ObjectDecl
	Sets      map[string]*ExpandedSet
	Deferred  []*ast.RuntimeOp
	Order     []string
}

// Resolve runs the full DAG resolution pass over def: builds the
// dependency graph from the collector's relationships (using only the
// hard-classified ones, spec.md §4.3), orders declarations topologically,
// expands every set's union/intersection/complement into a concrete
// operand list, and evaluates every variable/runtime op it can at
// resolution time, leaving object-dependent runtime ops for the executor.
func Resolve(def *ast.Definition, collected *symbols.Result, bag *diag.Bag) (*Resolved, error) {
	g := Build(collected.Relationships)
	for name := range collected.Global.AllNames() {
		g.AddNode(name)
	}

	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}

	res := &Resolved{
		Variables: make(map[string]types.ResolvedValue),
		States:    make(map[string]*ast.StateDecl),
		Objects:   make(map[string]*ast.ObjectDecl),
		Sets:      make(map[string]*ExpandedSet),
		Order:     order,
	}

	varByName := make(map[string]*ast.VariableDecl, len(def.Variables))
	for _, v := range def.Variables {
		varByName[v.Name.Name] = v
	}
	opByTarget := make(map[string]*ast.RuntimeOp, len(def.RuntimeOps))
	for _, r := range def.RuntimeOps {
		opByTarget[r.Target.Name] = r
	}
	setByName := make(map[string]*ast.SetOp, len(def.Sets))
	for _, s := range def.Sets {
		setByName[s.Name.Name] = s
	}
	for _, s := range def.States {
		res.States[s.Name.Name] = s
	}
	for _, o := range def.Objects {
		res.Objects[o.Name.Name] = o
	}

	for _, name := range order {
		if v, ok := varByName[name]; ok {
			resolveVariable(v, opByTarget[name], res, bag)
			continue
		}
		if s, ok := setByName[name]; ok {
			expandSet(s, res, bag)
		}
	}
	// Every set is seeded into the graph from the global table, so it
	// appears in order; this loop expands any set the loop above skipped
	// (one whose name is also declared as a variable), so callers always
	// find an entry.
	for _, s := range def.Sets {
		if _, ok := res.Sets[s.Name.Name]; !ok {
			expandSet(s, res, bag)
		}
	}

	return res, nil
}

// expandSet computes s's concrete operand list and stores it in
// res.Sets[s.Name.Name]. Operand sets must already be expanded (guaranteed
// by topological order); an inline object operand is registered into
// res.Objects under a synthetic name so it collects like any other object
// (spec.md §9: inline-object-as-operand may be merged with the named-
// reference case).
func expandSet(s *ast.SetOp, res *Resolved, bag *diag.Bag) {
	var operandLists [][]string
	for i, op := range s.Operands {
		switch op.Kind {
		case ast.OperandObject:
			operandLists = append(operandLists, []string{op.Name})
		case ast.OperandSet:
			if nested, ok := res.Sets[op.Name]; ok {
				operandLists = append(operandLists, nested.Members)
			} else {
				bag.Add(diag.New(diag.CodeDagUnresolvedRef, s.Span().Start, fmt.Sprintf("set %q: operand set %q did not resolve", s.Name.Name, op.Name)))
			}
		case ast.OperandInlineObject:
			name := fmt.Sprintf("$inline:%s:%d", s.Name.Name, i)
			res.Objects[name] = op.InlineValue
			operandLists = append(operandLists, []string{name})
		}
	}

	var members []string
	switch s.Kind {
	case ast.SetUnion:
		members = unionNames(operandLists)
	case ast.SetIntersection:
		members = intersectNames(operandLists)
	case ast.SetComplement:
		if len(operandLists) == 2 {
			members = complementNames(operandLists[0], operandLists[1])
		}
	}

	res.Sets[s.Name.Name] = &ExpandedSet{Members: members, FilterRefs: s.FilterRefs}
}

func unionNames(lists [][]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lists {
		for _, n := range l {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

func intersectNames(lists [][]string) []string {
	if len(lists) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, l := range lists {
		inThis := make(map[string]bool)
		for _, n := range l {
			inThis[n] = true
		}
		for n := range inThis {
			counts[n]++
		}
	}
	var out []string
	for _, n := range lists[0] {
		if counts[n] == len(lists) {
			out = append(out, n)
		}
	}
	return dedupe(out)
}

func complementNames(a, b []string) []string {
	excluded := make(map[string]bool, len(b))
	for _, n := range b {
		excluded[n] = true
	}
	var out []string
	seen := make(map[string]bool)
	for _, n := range a {
		if !excluded[n] && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, n := range in {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func resolveVariable(v *ast.VariableDecl, op *ast.RuntimeOp, res *Resolved, bag *diag.Bag) {
	switch v.InitKind {
	case ast.VarLiteral:
		res.Variables[v.Name.Name] = types.FromValue(v.Literal)
		return
	case ast.VarReference:
		if rv, ok := res.Variables[v.RefName]; ok {
			res.Variables[v.Name.Name] = rv
		} else {
			bag.Add(diag.New(diag.CodeDagUnresolvedRef, v.Span().Start, fmt.Sprintf("variable %q references undefined %q", v.Name.Name, v.RefName)))
		}
		return
	case ast.VarComputed:
		if op == nil {
			bag.Add(diag.New(diag.CodeSymUndefinedRef, v.Span().Start, fmt.Sprintf("computed variable %q has no RUN block", v.Name.Name)))
			return
		}
	}

	if runtimeops.IsDeferred(op.Kind, op.Params) {
		res.Deferred = append(res.Deferred, op)
		return
	}

	result, err := runtimeops.EvalResolutionTime(op, res.Variables)
	if err != nil {
		bag.Add(diag.New(diag.CodeDagUnresolvedRef, op.Span().Start, err.Error()))
		return
	}
	res.Variables[v.Name.Name] = result
}
