package record

import (
	"fmt"
	"strings"

	"github.com/tidwall/match"

	"github.com/cscan-lang/cscan/internal/types"
)

// pathSegment is one step of a resolved field path: either a key pattern to
// match against an object's keys (a literal name or the `*` wildcard,
// matched via tidwall/match so a literal segment is just a degenerate glob),
// or an "index all array elements" step produced by `[*]`.
type pathSegment struct {
	pattern  string
	indexAll bool
}

// ParsePath splits a dotted field path into its segments. `[*]` may appear
// directly after a key segment (`accounts[*]`) or stand alone
// (`accounts.[*].name`); wildcards may repeat and nest arbitrarily.
func ParsePath(path string) ([]pathSegment, error) {
	var segs []pathSegment
	i := 0
	expectSegment := true
	for i < len(path) {
		c := path[i]
		if c == '.' {
			if expectSegment {
				return nil, fmt.Errorf("record: empty path segment in %q", path)
			}
			expectSegment = true
			i++
			continue
		}
		if strings.HasPrefix(path[i:], "[*]") {
			segs = append(segs, pathSegment{indexAll: true})
			i += 3
			expectSegment = false
			continue
		}
		if c == '[' {
			return nil, fmt.Errorf("record: invalid path segment at offset %d in %q", i, path)
		}
		start := i
		for i < len(path) && path[i] != '.' && path[i] != '[' {
			i++
		}
		segs = append(segs, pathSegment{pattern: path[start:i]})
		expectSegment = false
	}
	if expectSegment {
		return nil, fmt.Errorf("record: empty trailing path segment in %q", path)
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("record: empty field path")
	}
	return segs, nil
}

// ResolvePath walks path against root, returning every ResolvedValue the
// wildcard-aware walk matches. Zero results is not an error: an object
// missing a field, or an array-index step against a non-array, simply
// contributes nothing.
func ResolvePath(root *types.RecordData, path string) ([]types.ResolvedValue, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	frontier := []*types.RecordData{root}
	for _, seg := range segs {
		var next []*types.RecordData
		for _, node := range frontier {
			if seg.indexAll {
				if node.Kind() != types.RecordArray {
					continue
				}
				next = append(next, node.Elements()...)
				continue
			}
			if node.Kind() != types.RecordObject {
				continue
			}
			for _, key := range node.Keys() {
				if match.Match(key, seg.pattern) {
					next = append(next, node.Get(key))
				}
			}
		}
		frontier = next
	}

	out := make([]types.ResolvedValue, 0, len(frontier))
	for _, node := range frontier {
		out = append(out, toResolvedValue(node))
	}
	return out, nil
}

func toResolvedValue(node *types.RecordData) types.ResolvedValue {
	switch node.Kind() {
	case types.RecordString:
		return types.ResolvedString(node.StringVal())
	case types.RecordInt:
		return types.ResolvedInt(node.IntVal())
	case types.RecordNumber:
		return types.ResolvedFloat(node.NumberVal())
	case types.RecordBoolean:
		return types.ResolvedBool(node.BoolVal())
	default:
		return types.ResolvedRecord(node)
	}
}
