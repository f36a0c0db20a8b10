package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolvedValue is the set of Value variants minus variable references,
// extended with the types a resolved or collected value can additionally
// take on: opaque bytes, Version/EVR, RecordData, and Collection.
type ResolvedValue struct {
	kind ValueKind

	str  string
	i64  int64
	f64  float64
	b    bool
	bin  []byte
	evr  EVR
	rec  *RecordData
	coll []ResolvedValue
}

func ResolvedString(s string) ResolvedValue  { return ResolvedValue{kind: KindString, str: s} }
func ResolvedInt(i int64) ResolvedValue      { return ResolvedValue{kind: KindInt, i64: i} }
func ResolvedFloat(f float64) ResolvedValue  { return ResolvedValue{kind: KindFloat, f64: f} }
func ResolvedBool(b bool) ResolvedValue      { return ResolvedValue{kind: KindBoolean, b: b} }
func ResolvedBinary(b []byte) ResolvedValue  { return ResolvedValue{kind: KindBinary, bin: b} }
func ResolvedVersionOf(e EVR) ResolvedValue  { return ResolvedValue{kind: KindVersion, evr: e} }
func ResolvedEVRVal(e EVR) ResolvedValue     { return ResolvedValue{kind: KindEVR, evr: e} }
func ResolvedRecord(r *RecordData) ResolvedValue {
	return ResolvedValue{kind: KindRecordData, rec: r}
}
func ResolvedCollection(items []ResolvedValue) ResolvedValue {
	return ResolvedValue{kind: KindCollection, coll: items}
}

// Kind reports which variant the ResolvedValue carries.
func (r ResolvedValue) Kind() ValueKind { return r.kind }

func (r ResolvedValue) StringVal() string           { return r.str }
func (r ResolvedValue) IntVal() int64               { return r.i64 }
func (r ResolvedValue) FloatVal() float64           { return r.f64 }
func (r ResolvedValue) BoolVal() bool               { return r.b }
func (r ResolvedValue) BinaryVal() []byte           { return r.bin }
func (r ResolvedValue) EVRVal() EVR                 { return r.evr }
func (r ResolvedValue) RecordVal() *RecordData      { return r.rec }
func (r ResolvedValue) CollectionVal() []ResolvedValue { return r.coll }

// FromValue lifts a resolved (non-variable-ref) Value into a ResolvedValue.
// Panics if v is a variable reference: callers must have resolved it first.
func FromValue(v Value) ResolvedValue {
	switch v.Kind() {
	case KindString:
		return ResolvedString(v.StringVal())
	case KindInt:
		return ResolvedInt(v.IntVal())
	case KindFloat:
		return ResolvedFloat(v.FloatVal())
	case KindBoolean:
		return ResolvedBool(v.BoolVal())
	default:
		panic(fmt.Sprintf("types: FromValue called on unresolved kind %s", v.Kind()))
	}
}

// AdmitsType reports whether dt's admitted ResolvedValue kinds include r's
// kind, applying the sole implicit conversion (int -> float).
func (r ResolvedValue) AdmitsType(dt DataType) bool {
	switch dt {
	case DataTypeString:
		return r.kind == KindString
	case DataTypeInt:
		return r.kind == KindInt
	case DataTypeFloat:
		return r.kind == KindFloat || r.kind == KindInt
	case DataTypeBoolean:
		return r.kind == KindBoolean
	case DataTypeBinary:
		return r.kind == KindBinary
	case DataTypeRecordData:
		return r.kind == KindRecordData
	case DataTypeVersion:
		return r.kind == KindVersion
	case DataTypeEVRString:
		return r.kind == KindEVR
	default:
		return false
	}
}

// AsFloat widens an int ResolvedValue to float64; it panics for any other
// kind, matching the single implicit conversion the data model permits.
func (r ResolvedValue) AsFloat() float64 {
	switch r.kind {
	case KindFloat:
		return r.f64
	case KindInt:
		return float64(r.i64)
	default:
		panic(fmt.Sprintf("types: AsFloat called on kind %s", r.kind))
	}
}

// Text renders the ResolvedValue using the DSL's standard textual form,
// the coercion concat() applies to non-string parameters.
func (r ResolvedValue) Text() string {
	switch r.kind {
	case KindString:
		return r.str
	case KindInt:
		return strconv.FormatInt(r.i64, 10)
	case KindFloat:
		return strconv.FormatFloat(r.f64, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(r.b)
	case KindBinary:
		return fmt.Sprintf("%x", r.bin)
	case KindVersion, KindEVR:
		return r.evr.String()
	case KindCollection:
		parts := make([]string, len(r.coll))
		for i, item := range r.coll {
			parts[i] = item.Text()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindRecordData:
		return "<record_data>"
	default:
		return "<invalid>"
	}
}

// Fingerprint produces a type-aware serialization of the value suitable for
// set-membership comparisons within a Collection (spec.md §4.7, "element
// fingerprints (type-aware serialization so mixed-type collections compare
// meaningfully)"). Values of different kinds never fingerprint equal, even
// if their Text() forms coincide (e.g. int 1 vs string "1").
func (r ResolvedValue) Fingerprint() string {
	return r.kind.String() + ":" + r.Text()
}
