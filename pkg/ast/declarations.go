package ast

import (
	"github.com/cscan-lang/cscan/internal/types"
)

// VariableInitKind classifies how a VariableDecl obtains its value, mirroring
// the symbol collector's literal/reference/computed split (spec.md §4.3).
type VariableInitKind int

const (
	VarLiteral VariableInitKind = iota
	VarReference
	VarComputed // no initial value; must be produced by a RuntimeOp
)

// VariableDecl is a named, typed value: `VAR name type = literal`,
// `VAR name type = VAR other`, or `VAR name type` (computed).
type VariableDecl struct {
	SpanVal  Span
	Name     *Identifier
	DataType types.DataType
	InitKind VariableInitKind
	Literal  types.Value // valid when InitKind == VarLiteral
	RefName  string      // valid when InitKind == VarReference
}

func (v *VariableDecl) Span() Span { return v.SpanVal }
func (v *VariableDecl) node()      {}

// StateField is one `field = value` entry inside a STATE block, where value
// is either a literal or a `VAR name` reference.
type StateField struct {
	SpanVal Span
	Name    string
	Value   types.Value
	// RecordCheck, when non-empty, is a dotted field path checked against
	// RecordData observations instead of a plain scalar field (spec.md §3,
	// StateDecl: "field-level expected values and/or record-data checks").
	RecordCheck string
}

// StateDecl is a named set of expected field values and/or record-data
// checks against host data; global or criterion-local.
type StateDecl struct {
	SpanVal Span
	Name    *Identifier
	Fields  []StateField
	Local   bool
}

func (s *StateDecl) Span() Span { return s.SpanVal }
func (s *StateDecl) node()      {}

// ObjectElement is one `key = value` selector field inside an OBJECT block.
type ObjectElement struct {
	SpanVal Span
	Name    string
	Value   types.Value
}

// ObjectFilterKind is Include or Exclude (spec.md §4.6).
type ObjectFilterKind int

const (
	FilterInclude ObjectFilterKind = iota
	FilterExclude
)

// ObjectFilter guards collected objects by one or more state references.
type ObjectFilter struct {
	SpanVal    Span
	Kind       ObjectFilterKind
	StateNames []string
}

// ObjectDecl describes what to observe: probe parameters, selector fields,
// behavior hints, and an optional inline filter; global or criterion-local.
type ObjectDecl struct {
	SpanVal  Span
	Name     *Identifier
	Elements []ObjectElement
	Filter   *ObjectFilter
	Local    bool
}

func (o *ObjectDecl) Span() Span { return o.SpanVal }
func (o *ObjectDecl) node()      {}

// SetOperandKind tags what a SetOp operand refers to.
type SetOperandKind int

const (
	OperandObject SetOperandKind = iota
	OperandSet
	OperandInlineObject
)

// SetOperand is one member of a set operation's operand list.
type SetOperand struct {
	SpanVal     Span
	Kind        SetOperandKind
	Name        string      // valid for OperandObject / OperandSet
	InlineValue *ObjectDecl // valid for OperandInlineObject
}

// SetKind is union, intersection, or complement.
type SetKind int

const (
	SetUnion SetKind = iota
	SetIntersection
	SetComplement
)

// SetOp is a union/intersection/complement over object or set references,
// optionally filtered by states. Global only.
type SetOp struct {
	SpanVal    Span
	Name       *Identifier
	Kind       SetKind
	Operands   []SetOperand
	FilterRefs []string
}

func (s *SetOp) Span() Span { return s.SpanVal }
func (s *SetOp) node()      {}

// RuntimeOpKind names one of the ten runtime operation kinds.
type RuntimeOpKind int

const (
	OpConcat RuntimeOpKind = iota
	OpArithmetic
	OpSplit
	OpSubstring
	OpRegexCapture
	OpCount
	OpExtract
	OpUnique
	OpMerge
	OpEnd
)

// RuntimeParam is one positional/named parameter to a RuntimeOp. Concrete
// shape depends on Kind: see internal/runtimeops for per-kind validation.
type RuntimeParam struct {
	SpanVal Span
	// Literal/VariableRef hold a plain value parameter (sources, operands).
	IsLiteral bool
	Literal   types.Value
	VarName   string

	// ArithOperator holds one of +,-,*,/,% when this parameter is an
	// arithmetic accumulation step.
	ArithOperator string

	// Delimiter/Pattern/Start/Length/Character hold the context-sensitive
	// named parameters (`delimiter`, `pattern`, `start`, `length`,
	// `character`) a handful of op kinds require.
	Named string // one of "delimiter","pattern","start","length","character",""
	Value types.Value

	// ObjectField holds `OBJ object_id.field` for `extract`.
	ObjectID    string
	ObjectField string
}

// RuntimeOp is a named derivation of a variable from other values.
type RuntimeOp struct {
	SpanVal Span
	Target  *Identifier
	Kind    RuntimeOpKind
	Params  []RuntimeParam
}

func (r *RuntimeOp) Span() Span { return r.SpanVal }
func (r *RuntimeOp) node()      {}
