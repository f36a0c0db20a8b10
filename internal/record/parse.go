// Package record builds types.RecordData trees from raw collected JSON
// payloads and resolves the DSL's dotted field paths (with `*` and `[*]`
// wildcards) against them. Parsing leans on tidwall/gjson rather than
// encoding/json so a Collector can hand back an arbitrary JSON byte string
// without the caller pre-validating its shape; tidwall/sjson builds
// synthetic fixtures in tests, and tidwall/match matches a wildcard path
// segment against a candidate key without building an intermediate glob AST.
package record

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/cscan-lang/cscan/internal/types"
)

// ParseJSON parses a raw JSON document into a *types.RecordData tree.
func ParseJSON(raw []byte) (*types.RecordData, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("record: invalid JSON payload")
	}
	result := gjson.ParseBytes(raw)
	return fromGJSON(result), nil
}

func fromGJSON(r gjson.Result) *types.RecordData {
	switch r.Type {
	case gjson.Null:
		return types.NewRecordNull()
	case gjson.False:
		return types.NewRecordBool(false)
	case gjson.True:
		return types.NewRecordBool(true)
	case gjson.String:
		return types.NewRecordString(r.String())
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) && !hasDecimalPoint(r.Raw) {
			return types.NewRecordInt(int64(r.Num))
		}
		return types.NewRecordNumber(r.Num)
	case gjson.JSON:
		if r.IsArray() {
			arr := types.NewRecordArray()
			r.ForEach(func(_, value gjson.Result) bool {
				arr.Append(fromGJSON(value))
				return true
			})
			return arr
		}
		obj := types.NewRecordObject()
		r.ForEach(func(key, value gjson.Result) bool {
			obj.Set(key.String(), fromGJSON(value))
			return true
		})
		return obj
	default:
		return types.NewRecordNull()
	}
}

func hasDecimalPoint(raw string) bool {
	for _, c := range raw {
		if c == '.' || c == 'e' || c == 'E' {
			return true
		}
	}
	return false
}
