// Package compare implements the typed comparison library the executor
// uses to evaluate a Criterion's operator against an observed and an
// expected ResolvedValue: per-DataType operator tables, Unicode-normalized
// case-sensitive and case-insensitive string comparison, and EVR/version/
// collection-aware ordering and membership.
package compare

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
)

// caseInsensitiveCollator backs ci= / ci!= comparisons with locale-aware
// case folding rather than a naive strings.ToLower, so comparisons behave
// correctly outside ASCII.
var caseInsensitiveCollator = collate.New(language.Und, collate.IgnoreCase)

// ErrIncomparable is returned when an operator does not apply to a
// ResolvedValue's kind (e.g. "contains" against an int).
type ErrIncomparable struct {
	Operator ast.CriterionOperator
	Kind     types.ValueKind
}

func (e *ErrIncomparable) Error() string {
	return fmt.Sprintf("operator %d not applicable to %s", e.Operator, e.Kind)
}

// normalize applies NFC normalization, the baseline all string comparisons
// run through so visually identical but differently-composed Unicode text
// compares equal.
func normalize(s string) string { return norm.NFC.String(s) }

// Eval applies op to (observed, expected) and reports the boolean result,
// or an error if op does not apply to observed's kind.
func Eval(op ast.CriterionOperator, observed, expected types.ResolvedValue) (bool, error) {
	switch op {
	case ast.OpEQ:
		return equalsTyped(observed, expected)
	case ast.OpNEQ:
		eq, err := equalsTyped(observed, expected)
		return !eq, err
	case ast.OpCIEQ:
		return caseInsensitiveEquals(observed, expected)
	case ast.OpCINEQ:
		eq, err := caseInsensitiveEquals(observed, expected)
		return !eq, err
	case ast.OpLT, ast.OpLE, ast.OpGT, ast.OpGE:
		return ordered(op, observed, expected)
	case ast.OpContains:
		return stringBinary(observed, expected, strings.Contains)
	case ast.OpNotContains:
		ok, err := stringBinary(observed, expected, strings.Contains)
		return !ok, err
	case ast.OpStartsWith:
		return stringBinary(observed, expected, strings.HasPrefix)
	case ast.OpNotStartsWith:
		ok, err := stringBinary(observed, expected, strings.HasPrefix)
		return !ok, err
	case ast.OpEndsWith:
		return stringBinary(observed, expected, strings.HasSuffix)
	case ast.OpNotEndsWith:
		ok, err := stringBinary(observed, expected, strings.HasSuffix)
		return !ok, err
	case ast.OpMatches:
		return matches(observed, expected)
	case ast.OpSubsetOf:
		return subsetOf(observed, expected)
	case ast.OpSupersetOf:
		return subsetOf(expected, observed)
	default:
		return false, &ErrIncomparable{Operator: op, Kind: observed.Kind()}
	}
}

func equalsTyped(a, b types.ResolvedValue) (bool, error) {
	if a.Kind() == types.KindCollection || b.Kind() == types.KindCollection {
		return setEquals(a, b)
	}
	if a.Kind() == types.KindEVR || b.Kind() == types.KindEVR || a.Kind() == types.KindVersion || b.Kind() == types.KindVersion {
		return types.CompareEVR(a.EVRVal(), b.EVRVal()) == 0, nil
	}
	switch a.Kind() {
	case types.KindString:
		return normalize(a.StringVal()) == normalize(b.Text()), nil
	case types.KindInt, types.KindFloat:
		return a.AsFloat() == b.AsFloat(), nil
	case types.KindBoolean:
		return a.BoolVal() == b.BoolVal(), nil
	case types.KindBinary:
		return string(a.BinaryVal()) == string(b.BinaryVal()), nil
	default:
		return a.Text() == b.Text(), nil
	}
}

func caseInsensitiveEquals(a, b types.ResolvedValue) (bool, error) {
	if a.Kind() != types.KindString && b.Kind() != types.KindString {
		return false, &ErrIncomparable{Operator: ast.OpCIEQ, Kind: a.Kind()}
	}
	return caseInsensitiveCollator.CompareString(normalize(a.Text()), normalize(b.Text())) == 0, nil
}

func ordered(op ast.CriterionOperator, a, b types.ResolvedValue) (bool, error) {
	var cmp int
	switch {
	case a.Kind() == types.KindEVR || a.Kind() == types.KindVersion:
		cmp = types.CompareEVR(a.EVRVal(), b.EVRVal())
	case a.Kind() == types.KindInt || a.Kind() == types.KindFloat:
		af, bf := a.AsFloat(), b.AsFloat()
		switch {
		case af < bf:
			cmp = -1
		case af > bf:
			cmp = 1
		default:
			cmp = 0
		}
	case a.Kind() == types.KindString:
		cmp = caseInsensitiveCollator.CompareString(normalize(a.StringVal()), normalize(b.Text()))
	default:
		return false, &ErrIncomparable{Operator: op, Kind: a.Kind()}
	}

	switch op {
	case ast.OpLT:
		return cmp < 0, nil
	case ast.OpLE:
		return cmp <= 0, nil
	case ast.OpGT:
		return cmp > 0, nil
	case ast.OpGE:
		return cmp >= 0, nil
	default:
		return false, &ErrIncomparable{Operator: op, Kind: a.Kind()}
	}
}

func stringBinary(a, b types.ResolvedValue, f func(s, substr string) bool) (bool, error) {
	if a.Kind() != types.KindString {
		return false, &ErrIncomparable{Kind: a.Kind()}
	}
	return f(normalize(a.StringVal()), normalize(b.Text())), nil
}

func matches(a, b types.ResolvedValue) (bool, error) {
	if a.Kind() != types.KindString {
		return false, &ErrIncomparable{Operator: ast.OpMatches, Kind: a.Kind()}
	}
	re, err := regexp.Compile(b.Text())
	if err != nil {
		return false, fmt.Errorf("compare: invalid pattern %q: %w", b.Text(), err)
	}
	return re.MatchString(a.StringVal()), nil
}

// setEquals compares two Collections as sets: equal element fingerprints,
// order-independent.
func setEquals(a, b types.ResolvedValue) (bool, error) {
	as, bs := fingerprintSet(a), fingerprintSet(b)
	if len(as) != len(bs) {
		return false, nil
	}
	for k := range as {
		if !bs[k] {
			return false, nil
		}
	}
	return true, nil
}

func subsetOf(sub, super types.ResolvedValue) (bool, error) {
	if sub.Kind() != types.KindCollection || super.Kind() != types.KindCollection {
		return false, &ErrIncomparable{Operator: ast.OpSubsetOf, Kind: sub.Kind()}
	}
	subset, superset := fingerprintSet(sub), fingerprintSet(super)
	for k := range subset {
		if !superset[k] {
			return false, nil
		}
	}
	return true, nil
}

func fingerprintSet(v types.ResolvedValue) map[string]bool {
	set := make(map[string]bool)
	if v.Kind() != types.KindCollection {
		set[v.Fingerprint()] = true
		return set
	}
	for _, el := range v.CollectionVal() {
		set[el.Fingerprint()] = true
	}
	return set
}
