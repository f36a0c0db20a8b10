// Package types defines the value model shared by every stage of the DSL
// pipeline: the raw Value a parser can produce, the ResolvedValue a
// resolver or executor works with, and the closed DataType enum that
// constrains which ResolvedValue variants a declared symbol may hold.
package types

import "fmt"

// DataType names one of the permissible declared types for a VariableDecl,
// StateDecl field, or ObjectDecl field. The enum is closed: no other values
// are valid, and every DataType admits exactly the ResolvedValue variants
// documented on its constant.
type DataType int

const (
	// DataTypeInvalid marks a DataType zero value that was never assigned;
	// it is never produced by the parser and indicates a programming error
	// if observed downstream.
	DataTypeInvalid DataType = iota

	// DataTypeString admits ResolvedString.
	DataTypeString
	// DataTypeInt admits ResolvedInt; DataTypeFloat values widen into it
	// implicitly nowhere (widening only goes int -> float).
	DataTypeInt
	// DataTypeFloat admits ResolvedFloat and ResolvedInt (widened).
	DataTypeFloat
	// DataTypeBoolean admits ResolvedBoolean.
	DataTypeBoolean
	// DataTypeBinary admits ResolvedBinary.
	DataTypeBinary
	// DataTypeRecordData admits ResolvedRecordData.
	DataTypeRecordData
	// DataTypeVersion admits ResolvedVersion.
	DataTypeVersion
	// DataTypeEVRString admits ResolvedEVR.
	DataTypeEVRString
)

// dataTypeNames is the source-text spelling of every DataType, used both by
// String() and by the parser when validating a declared type identifier.
var dataTypeNames = map[DataType]string{
	DataTypeString:     "string",
	DataTypeInt:        "int",
	DataTypeFloat:      "float",
	DataTypeBoolean:    "boolean",
	DataTypeBinary:     "binary",
	DataTypeRecordData: "record_data",
	DataTypeVersion:    "version",
	DataTypeEVRString:  "evr_string",
}

func (d DataType) String() string {
	if name, ok := dataTypeNames[d]; ok {
		return name
	}
	return "invalid"
}

// LookupDataType maps a declared-type identifier spelling to its DataType,
// returning false if the spelling is not one of the closed enum's names.
func LookupDataType(name string) (DataType, bool) {
	for dt, spelling := range dataTypeNames {
		if spelling == name {
			return dt, true
		}
	}
	return DataTypeInvalid, false
}

// ValueKind tags the variant carried by a Value or ResolvedValue.
type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBoolean
	KindVariableRef // Value only: an unresolved `VAR name` reference
	KindBinary
	KindVersion
	KindEVR
	KindRecordData
	KindCollection
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindVariableRef:
		return "variable-ref"
	case KindBinary:
		return "binary"
	case KindVersion:
		return "version"
	case KindEVR:
		return "evr"
	case KindRecordData:
		return "record_data"
	case KindCollection:
		return "collection"
	default:
		return "invalid"
	}
}

// Value is a tagged union produced directly by the parser: a literal
// scalar, or a variable reference awaiting resolution. It is the value
// shape attached to AST literal/reference expressions before the DAG
// resolver runs.
type Value struct {
	kind ValueKind

	str  string
	i64  int64
	f64  float64
	b    bool
	vref string // variable name, when kind == KindVariableRef
}

// NewStringValue constructs a string-kinded Value.
func NewStringValue(s string) Value { return Value{kind: KindString, str: s} }

// NewIntValue constructs an int-kinded Value.
func NewIntValue(i int64) Value { return Value{kind: KindInt, i64: i} }

// NewFloatValue constructs a float-kinded Value.
func NewFloatValue(f float64) Value { return Value{kind: KindFloat, f64: f} }

// NewBoolValue constructs a boolean-kinded Value.
func NewBoolValue(b bool) Value { return Value{kind: KindBoolean, b: b} }

// NewVariableRefValue constructs a Value that defers to another declared
// variable by name.
func NewVariableRefValue(name string) Value { return Value{kind: KindVariableRef, vref: name} }

// Kind reports which variant the Value carries.
func (v Value) Kind() ValueKind { return v.kind }

// StringVal returns the string payload; only meaningful when Kind() == KindString.
func (v Value) StringVal() string { return v.str }

// IntVal returns the int payload; only meaningful when Kind() == KindInt.
func (v Value) IntVal() int64 { return v.i64 }

// FloatVal returns the float payload; only meaningful when Kind() == KindFloat.
func (v Value) FloatVal() float64 { return v.f64 }

// BoolVal returns the boolean payload; only meaningful when Kind() == KindBoolean.
func (v Value) BoolVal() bool { return v.b }

// VariableRef returns the referenced variable name; only meaningful when
// Kind() == KindVariableRef.
func (v Value) VariableRef() string { return v.vref }

// String renders the Value for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return fmt.Sprintf("%d", v.i64)
	case KindFloat:
		return fmt.Sprintf("%g", v.f64)
	case KindBoolean:
		return fmt.Sprintf("%t", v.b)
	case KindVariableRef:
		return "VAR " + v.vref
	default:
		return "<invalid value>"
	}
}
