package ast

import "github.com/cscan-lang/cscan/internal/types"

// CriterionOperator is one of the comparison/membership operators a
// criterion may apply (spec.md §4.7): equality, ordering, case-insensitive
// equality, string membership and its negation, pattern match, and
// collection subset/superset.
type CriterionOperator int

const (
	OpEQ CriterionOperator = iota
	OpNEQ
	OpLT
	OpLE
	OpGT
	OpGE
	OpCIEQ
	OpCINEQ
	OpContains
	OpNotContains
	OpStartsWith
	OpNotStartsWith
	OpEndsWith
	OpNotEndsWith
	OpMatches
	OpSubsetOf
	OpSupersetOf
)

// OperandKind tags what a criterion operand refers to.
type OperandKind int

const (
	OperandLiteral OperandKind = iota
	OperandVariable
	OperandStateField // `state_name.field`
	OperandFieldPath  // dotted/wildcard path into an object's RecordData
)

// Operand is the left- or right-hand side of a Criterion.
type Operand struct {
	SpanVal   Span
	Kind      OperandKind
	Literal   types.Value
	Name      string // variable or state name
	FieldName string // state field, when Kind == OperandStateField
	Path      string // field path, when Kind == OperandFieldPath
}

// ExistenceMode is the existence_check half of a Criterion's test spec
// (spec.md §3): whether the criterion's primary object must or must not
// exist, independent of whatever item_check also applies.
type ExistenceMode int

const (
	ExistenceIrrelevant ExistenceMode = iota
	ExistenceMustExist
	ExistenceMustNotExist
)

// ItemCheck is the item_check half of a Criterion's test spec: a field
// comparison against Expected, scoped to Path within the object's observed
// data. Present is false for an existence-only criterion that carries no
// field comparison.
type ItemCheck struct {
	Present  bool
	Path     string
	Operator CriterionOperator
	Expected Operand
}

// Criterion is one leaf assertion in a criteria tree: a test spec
// (existence_check x item_check x optional state-join) evaluated against
// a primary object, plus whatever additional global or criterion-local
// states/objects that test spec draws on (spec.md §3).
type Criterion struct {
	SpanVal Span

	// ObjectID is the primary object this criterion targets.
	ObjectID string

	// StateRefs/ObjectRefs are the criterion's plural references to
	// additional global states/objects: the state-join and multi-object
	// half of the test spec.
	StateRefs  []string
	ObjectRefs []string

	// LocalStates/LocalObject are declarations scoped to this Criterion
	// alone (spec.md §3 invariant: "at most one local object per
	// criterion"). They never create DAG edges (spec.md §4.4).
	LocalStates []*StateDecl
	LocalObject *ObjectDecl

	Existence ExistenceMode
	Item      ItemCheck
}

func (c *Criterion) Span() Span { return c.SpanVal }
func (c *Criterion) node()      {}

// BlockOperator is AND or OR, the two ways a Block combines its children.
type BlockOperator int

const (
	BlockAnd BlockOperator = iota
	BlockOr
)

// Block is an internal node of a criteria tree: a boolean combination of
// child trees, optionally negated.
type Block struct {
	SpanVal  Span
	Operator BlockOperator
	Negate   bool
	Children []CriteriaTree
}

func (b *Block) Span() Span { return b.SpanVal }
func (b *Block) node()      {}

// CriteriaTree is the closed union of criteria-tree node shapes: either a
// *Block or a *Criterion. Both already implement Node; CriteriaTree narrows
// that to the two permitted alternatives via an unexported marker method.
type CriteriaTree interface {
	Node
	criteriaTree()
}

func (b *Block) criteriaTree()     {}
func (c *Criterion) criteriaTree() {}
