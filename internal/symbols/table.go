// Package symbols implements the Symbol Collector: it walks a parsed
// Definition, registers every named declaration into scoped symbol
// tables, records the relationship list the DAG resolver consumes, and
// enforces the declarations' static bounds (global/local uniqueness, set
// arity). Criteria-tree nesting depth is not checked here; the parser's
// recursion limit is its only bound. Adapted from the teacher compiler's
// internal/semantic.SymbolTable, simplified to this DSL's flat
// (global, criterion-local) two-level scoping instead of DWScript's
// arbitrarily nested lexical scopes.
package symbols

import (
	"fmt"

	"github.com/cscan-lang/cscan/internal/diag"
	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
	"github.com/cscan-lang/cscan/pkg/token"
)

// Kind identifies which declaration form a Symbol names.
type Kind int

const (
	KindVariable Kind = iota
	KindState
	KindObject
	KindSet
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindState:
		return "state"
	case KindObject:
		return "object"
	case KindSet:
		return "set"
	default:
		return "unknown"
	}
}

// Symbol is one named declaration registered by the collector.
type Symbol struct {
	Name string
	Kind Kind
	Pos  token.Position
	Node ast.Node
}

// Table holds the symbols visible in one scope, with an optional parent
// scope for the criterion-local tables that shadow (but do not replace)
// the global one.
type Table struct {
	symbols map[string]*Symbol
	outer   *Table
}

// NewTable constructs a root (global) table.
func NewTable() *Table {
	return &Table{symbols: make(map[string]*Symbol)}
}

// NewEnclosedTable constructs a table chained to outer, the shape a
// criterion-local STATE/OBJECT declaration's scope takes.
func NewEnclosedTable(outer *Table) *Table {
	return &Table{symbols: make(map[string]*Symbol), outer: outer}
}

// Define registers name in this scope. It returns false without
// overwriting the existing entry if name is already defined in this exact
// scope (shadowing an outer scope's symbol of the same name is permitted
// for criterion-local declarations, duplicate definition in the same
// scope is not).
func (t *Table) Define(sym *Symbol) bool {
	if _, exists := t.symbols[sym.Name]; exists {
		return false
	}
	t.symbols[sym.Name] = sym
	return true
}

// AllNames returns every name defined directly in this scope (not
// including enclosing scopes), for seeding a dependency graph with
// isolated declarations that never appear in a Relationship.
func (t *Table) AllNames() map[string]bool {
	names := make(map[string]bool, len(t.symbols))
	for n := range t.symbols {
		names[n] = true
	}
	return names
}

// Resolve looks up name in this scope, then each enclosing scope.
func (t *Table) Resolve(name string) (*Symbol, bool) {
	if sym, ok := t.symbols[name]; ok {
		return sym, true
	}
	if t.outer != nil {
		return t.outer.Resolve(name)
	}
	return nil, false
}

// RelationshipKind names one of the twelve distinct dependency shapes the
// collector records (spec.md §4.3), each individually flagged hard
// (affects DAG order) or soft (diagnostic only; the referent is advisory
// and a dangling soft reference is a warning, not an error).
//
// Hard/soft assignment here resolves two textual ambiguities spec.md
// leaves open (recorded as Open Question decisions in DESIGN.md):
//   - RunOperationTarget is soft and, per spec.md §4.4 ("the target is the
//     node being produced"), never actually emitted as a Relationship —
//     it exists in this enum for completeness, not because any code path
//     constructs one.
//   - LocalStateDependency/LocalObjectDependency are soft so that
//     dag.Build's hard-only edge filter naturally implements spec.md
//     §4.4's "criterion-local states and objects... never create new
//     edges" without a separate carve-out.
type RelationshipKind int

const (
	VariableInitialization RelationshipKind = iota // VAR x = VAR y
	VariableUsage                                  // a state field / object element referencing VAR x
	ObjectFieldExtraction                          // a RuntimeOp pulling OBJ obj.field
	StateReference                                 // a criterion's global state-join reference
	ObjectReference                                // a criterion's primary object or additional OBJECTS reference
	SetReference                                   // a set operand that is itself another named set
	FilterDependency                               // an object/set FILTER's state references
	RunOperationInput                               // a RuntimeOp's VAR parameter
	RunOperationTarget                              // the op's own target node (never emitted as an edge)
	SetOperandDependency                            // a set's dependency on each of its operands, for expansion order
	LocalStateDependency                           // a criterion's local STATE declarations (no edge)
	LocalObjectDependency                          // a criterion's local OBJECT declaration (no edge)
)

func (k RelationshipKind) String() string {
	switch k {
	case VariableInitialization:
		return "variable_initialization"
	case VariableUsage:
		return "variable_usage"
	case ObjectFieldExtraction:
		return "object_field_extraction"
	case StateReference:
		return "state_reference"
	case ObjectReference:
		return "object_reference"
	case SetReference:
		return "set_reference"
	case FilterDependency:
		return "filter_dependency"
	case RunOperationInput:
		return "run_operation_input"
	case RunOperationTarget:
		return "run_operation_target"
	case SetOperandDependency:
		return "set_operand_dependency"
	case LocalStateDependency:
		return "local_state_dependency"
	case LocalObjectDependency:
		return "local_object_dependency"
	default:
		return "unknown"
	}
}

// IsHard reports whether k is order-inducing (a DAG edge) as opposed to
// diagnostic-only.
func (k RelationshipKind) IsHard() bool {
	switch k {
	case ObjectFieldExtraction, RunOperationTarget, LocalStateDependency, LocalObjectDependency:
		return false
	default:
		return true
	}
}

// Relationship is one directed "From depends on To" edge the DAG resolver
// walks to build its dependency graph.
type Relationship struct {
	From string
	To   string
	Kind RelationshipKind
}

// Result is the Symbol Collector's output: the global table and the full
// relationship list. Criterion-local tables are transient: built and
// discarded per criterion by the local-scope pass purely to validate
// uniqueness, since a Criterion's local declarations live on the
// Criterion node itself (pkg/ast.Criterion.LocalStates/LocalObject), not
// in a persisted scope.
type Result struct {
	Global        *Table
	Relationships []Relationship
}

// Collect walks def through the collector's pass pipeline (pass.go),
// registering every top-level declaration, enforcing criterion-local
// scoping and set-arity invariants, and returning the populated global
// table and relationship list. Diagnostics accumulate in bag rather than
// aborting collection.
func Collect(def *ast.Definition, bag *diag.Bag) *Result {
	res := &Result{Global: NewTable()}
	_ = defaultPasses().RunAll(def, res, bag)
	return res
}

// collectDeclarations is the declarationPass body: it registers every
// top-level declaration and records the relationships the DAG resolver's
// graph is built from.
func collectDeclarations(def *ast.Definition, res *Result, bag *diag.Bag) {
	for _, v := range def.Variables {
		defineOrReport(res.Global, bag, &Symbol{Name: v.Name.Name, Kind: KindVariable, Pos: v.Name.Span().Start, Node: v})
		if v.InitKind == ast.VarReference {
			res.Relationships = append(res.Relationships, Relationship{From: v.Name.Name, To: v.RefName, Kind: VariableInitialization})
		}
	}

	for _, s := range def.States {
		defineOrReport(res.Global, bag, &Symbol{Name: s.Name.Name, Kind: KindState, Pos: s.Name.Span().Start, Node: s})
		for _, f := range s.Fields {
			if f.Value.Kind() == types.KindVariableRef {
				res.Relationships = append(res.Relationships, Relationship{From: s.Name.Name, To: f.Value.VariableRef(), Kind: VariableUsage})
			}
		}
	}

	for _, o := range def.Objects {
		defineOrReport(res.Global, bag, &Symbol{Name: o.Name.Name, Kind: KindObject, Pos: o.Name.Span().Start, Node: o})
		for _, el := range o.Elements {
			if el.Value.Kind() == types.KindVariableRef {
				res.Relationships = append(res.Relationships, Relationship{From: o.Name.Name, To: el.Value.VariableRef(), Kind: VariableUsage})
			}
		}
		if o.Filter != nil {
			for _, st := range o.Filter.StateNames {
				res.Relationships = append(res.Relationships, Relationship{From: o.Name.Name, To: st, Kind: FilterDependency})
			}
		}
	}

	for _, s := range def.Sets {
		defineOrReport(res.Global, bag, &Symbol{Name: s.Name.Name, Kind: KindSet, Pos: s.Name.Span().Start, Node: s})
		for _, op := range s.Operands {
			switch op.Kind {
			case ast.OperandSet:
				res.Relationships = append(res.Relationships, Relationship{From: s.Name.Name, To: op.Name, Kind: SetReference})
				res.Relationships = append(res.Relationships, Relationship{From: s.Name.Name, To: op.Name, Kind: SetOperandDependency})
			case ast.OperandObject:
				res.Relationships = append(res.Relationships, Relationship{From: s.Name.Name, To: op.Name, Kind: SetOperandDependency})
			}
		}
		for _, f := range s.FilterRefs {
			res.Relationships = append(res.Relationships, Relationship{From: s.Name.Name, To: f, Kind: FilterDependency})
		}
	}

	for _, r := range def.RuntimeOps {
		for _, p := range r.Params {
			if p.VarName != "" {
				res.Relationships = append(res.Relationships, Relationship{From: r.Target.Name, To: p.VarName, Kind: RunOperationInput})
			}
			if p.ObjectID != "" {
				res.Relationships = append(res.Relationships, Relationship{From: r.Target.Name, To: p.ObjectID, Kind: ObjectFieldExtraction})
			}
		}
	}

	for _, tree := range def.CriteriaSet {
		collectCriteriaRefs(tree, res, bag)
	}
}

func collectCriteriaRefs(tree ast.CriteriaTree, res *Result, bag *diag.Bag) {
	switch n := tree.(type) {
	case *ast.Block:
		for _, c := range n.Children {
			collectCriteriaRefs(c, res, bag)
		}
	case *ast.Criterion:
		if n.ObjectID != "" {
			res.Relationships = append(res.Relationships, Relationship{From: "$criteria", To: n.ObjectID, Kind: ObjectReference})
		}
		for _, ref := range n.ObjectRefs {
			res.Relationships = append(res.Relationships, Relationship{From: "$criteria", To: ref, Kind: ObjectReference})
		}
		for _, ref := range n.StateRefs {
			res.Relationships = append(res.Relationships, Relationship{From: "$criteria", To: ref, Kind: StateReference})
		}
		if n.Item.Present {
			if n.Item.Expected.Kind == ast.OperandVariable {
				res.Relationships = append(res.Relationships, Relationship{From: "$criteria", To: n.Item.Expected.Name, Kind: VariableUsage})
			}
			if n.Item.Expected.Kind == ast.OperandStateField {
				res.Relationships = append(res.Relationships, Relationship{From: "$criteria", To: n.Item.Expected.Name, Kind: StateReference})
			}
		}
		for _, ls := range n.LocalStates {
			res.Relationships = append(res.Relationships, Relationship{From: "$criteria", To: ls.Name.Name, Kind: LocalStateDependency})
		}
		if n.LocalObject != nil {
			res.Relationships = append(res.Relationships, Relationship{From: "$criteria", To: n.LocalObject.Name.Name, Kind: LocalObjectDependency})
		}
	}
}

// walkCriteria visits every Criterion leaf in tree, depth-first.
func walkCriteria(tree ast.CriteriaTree, visit func(*ast.Criterion)) {
	switch n := tree.(type) {
	case *ast.Block:
		for _, c := range n.Children {
			walkCriteria(c, visit)
		}
	case *ast.Criterion:
		visit(n)
	}
}

// checkLocalScope enforces spec.md §3's criterion-local scoping invariants
// by registering c's local declarations into a table enclosing the global
// one: a duplicate name (including a collision between a local STATE and
// the local OBJECT) is reported as CodeSymBoundsViolation with a
// criterion-local message, not with the global duplicate-name code.
func checkLocalScope(c *ast.Criterion, res *Result, bag *diag.Bag) {
	local := NewEnclosedTable(res.Global)
	for _, ls := range c.LocalStates {
		defineOrReportLocal(local, bag, &Symbol{Name: ls.Name.Name, Kind: KindState, Pos: ls.Name.Span().Start, Node: ls})
	}
	if c.LocalObject != nil {
		defineOrReportLocal(local, bag, &Symbol{Name: c.LocalObject.Name.Name, Kind: KindObject, Pos: c.LocalObject.Name.Span().Start, Node: c.LocalObject})
	}
}

// checkSetArity enforces spec.md §4.4's set-operation arity invariants:
// union >= 1, intersection >= 2, complement exactly 2.
func checkSetArity(s *ast.SetOp, bag *diag.Bag) {
	n := len(s.Operands)
	switch s.Kind {
	case ast.SetUnion:
		if n < 1 {
			bag.Add(diag.New(diag.CodeSymBoundsViolation, s.Span().Start, fmt.Sprintf("set %q: union requires at least 1 operand, got %d", s.Name.Name, n)))
		}
	case ast.SetIntersection:
		if n < 2 {
			bag.Add(diag.New(diag.CodeSymBoundsViolation, s.Span().Start, fmt.Sprintf("set %q: intersection requires at least 2 operands, got %d", s.Name.Name, n)))
		}
	case ast.SetComplement:
		if n != 2 {
			bag.Add(diag.New(diag.CodeSymBoundsViolation, s.Span().Start, fmt.Sprintf("set %q: complement requires exactly 2 operands, got %d", s.Name.Name, n)))
		}
	}
}

func defineOrReport(t *Table, bag *diag.Bag, sym *Symbol) {
	if !t.Define(sym) {
		bag.Add(diag.New(diag.CodeSymDuplicateName, sym.Pos, fmt.Sprintf("%s %q already declared in this scope", sym.Kind, sym.Name)))
	}
}

// defineOrReportLocal is defineOrReport with a message tailored to
// criterion-local redeclaration, for clearer diagnostics than a bare
// "already declared".
func defineOrReportLocal(t *Table, bag *diag.Bag, sym *Symbol) {
	if !t.Define(sym) {
		bag.Add(diag.New(diag.CodeSymBoundsViolation, sym.Pos, fmt.Sprintf("local %s %q is not unique within its criterion", sym.Kind, sym.Name)))
	}
}
