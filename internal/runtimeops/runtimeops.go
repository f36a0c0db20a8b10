// Package runtimeops implements the ten runtime operation kinds a RUN
// block can perform: concat, arithmetic, split, substring, regex_capture,
// count, extract, unique, merge, and end. Most are pure functions over
// already-resolved variables and run once during the DAG resolver's pass;
// any operation with an `extract`-style `OBJ object.field` parameter is
// object-dependent and deferred to scan time, where the executor supplies
// the collected object data (spec.md §4.5's scan-time vs resolution-time
// split).
package runtimeops

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
)

// IsDeferred reports whether op must wait for scan-time object data,
// i.e. any parameter pulls a field from a collected object.
func IsDeferred(kind ast.RuntimeOpKind, params []ast.RuntimeParam) bool {
	for _, p := range params {
		if p.ObjectID != "" {
			return true
		}
	}
	return false
}

// resolverFunc evaluates one runtime op kind given its already-resolved
// parameter values.
type resolverFunc func(op *ast.RuntimeOp, args []types.ResolvedValue, named map[string]types.ResolvedValue) (types.ResolvedValue, error)

var resolvers = map[ast.RuntimeOpKind]resolverFunc{
	ast.OpConcat:        evalConcat,
	ast.OpArithmetic:    evalArithmetic,
	ast.OpSplit:         evalSplit,
	ast.OpSubstring:     evalSubstring,
	ast.OpRegexCapture:  evalRegexCapture,
	ast.OpCount:         evalCount,
	ast.OpUnique:        evalUnique,
	ast.OpMerge:         evalMerge,
	ast.OpEnd:           evalEnd,
}

// EvalResolutionTime evaluates op using vars for `VAR name` parameter
// references. It must not be called on a deferred op (extract, or any op
// with an object-dependent parameter) — the executor handles those at scan
// time via EvalScanTime.
func EvalResolutionTime(op *ast.RuntimeOp, vars map[string]types.ResolvedValue) (types.ResolvedValue, error) {
	fn, ok := resolvers[op.Kind]
	if !ok {
		return types.ResolvedValue{}, fmt.Errorf("runtimeops: %v has no resolution-time evaluator (extract is always deferred)", op.Kind)
	}
	args, named, err := resolveParams(op.Params, vars)
	if err != nil {
		return types.ResolvedValue{}, err
	}
	return fn(op, args, named)
}

// EvalScanTime evaluates a deferred op, with objectFields (keyed
// "object.field") supplying each `OBJ object.field` parameter. The
// executor calls it once per deferred op and fills objectFields from the
// scalar Fields of each named object's first collected instance.
func EvalScanTime(op *ast.RuntimeOp, vars map[string]types.ResolvedValue, objectFields map[string]types.ResolvedValue) (types.ResolvedValue, error) {
	fn, ok := resolvers[op.Kind]
	if op.Kind == ast.OpExtract {
		return evalExtract(op, objectFields)
	}
	if !ok {
		return types.ResolvedValue{}, fmt.Errorf("runtimeops: unsupported scan-time op %v", op.Kind)
	}
	args, named, err := resolveParamsScan(op.Params, vars, objectFields)
	if err != nil {
		return types.ResolvedValue{}, err
	}
	return fn(op, args, named)
}

func resolveParams(params []ast.RuntimeParam, vars map[string]types.ResolvedValue) ([]types.ResolvedValue, map[string]types.ResolvedValue, error) {
	return resolveParamsScan(params, vars, nil)
}

func resolveParamsScan(params []ast.RuntimeParam, vars, objectFields map[string]types.ResolvedValue) ([]types.ResolvedValue, map[string]types.ResolvedValue, error) {
	var args []types.ResolvedValue
	named := make(map[string]types.ResolvedValue)
	for _, p := range params {
		var v types.ResolvedValue
		switch {
		case p.ObjectID != "":
			rv, ok := objectFields[p.ObjectID+"."+p.ObjectField]
			if !ok {
				return nil, nil, fmt.Errorf("runtimeops: object field %s.%s not available", p.ObjectID, p.ObjectField)
			}
			v = rv
		case p.VarName != "":
			rv, ok := vars[p.VarName]
			if !ok {
				return nil, nil, fmt.Errorf("runtimeops: undefined variable %q", p.VarName)
			}
			v = rv
		case p.ArithOperator != "":
			continue
		default:
			v = types.FromValue(p.Literal)
			if p.Named != "" {
				v = types.FromValue(p.Value)
			}
		}
		if p.Named != "" {
			named[p.Named] = v
		} else {
			args = append(args, v)
		}
	}
	return args, named, nil
}

func evalConcat(op *ast.RuntimeOp, args []types.ResolvedValue, named map[string]types.ResolvedValue) (types.ResolvedValue, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(norm.NFC.String(a.Text()))
	}
	return types.ResolvedString(sb.String()), nil
}

func evalArithmetic(op *ast.RuntimeOp, args []types.ResolvedValue, named map[string]types.ResolvedValue) (types.ResolvedValue, error) {
	if len(args) == 0 {
		return types.ResolvedValue{}, fmt.Errorf("runtimeops: arithmetic op has no operands")
	}
	acc := args[0].AsFloat()
	argIdx := 1
	for _, p := range op.Params {
		if p.ArithOperator == "" {
			continue
		}
		if argIdx >= len(args) {
			return types.ResolvedValue{}, fmt.Errorf("runtimeops: arithmetic op missing operand for %q", p.ArithOperator)
		}
		operand := args[argIdx].AsFloat()
		argIdx++
		switch p.ArithOperator {
		case "+":
			acc += operand
		case "-":
			acc -= operand
		case "*":
			acc *= operand
		case "/":
			if operand == 0 {
				return types.ResolvedValue{}, fmt.Errorf("runtimeops: division by zero")
			}
			acc /= operand
		case "%":
			if operand == 0 {
				return types.ResolvedValue{}, fmt.Errorf("runtimeops: modulo by zero")
			}
			acc = float64(int64(acc) % int64(operand))
		}
	}
	if acc == float64(int64(acc)) {
		return types.ResolvedInt(int64(acc)), nil
	}
	return types.ResolvedFloat(acc), nil
}

func evalSplit(op *ast.RuntimeOp, args []types.ResolvedValue, named map[string]types.ResolvedValue) (types.ResolvedValue, error) {
	if len(args) == 0 {
		return types.ResolvedValue{}, fmt.Errorf("runtimeops: split requires a source operand")
	}
	delim, ok := named["delimiter"]
	if !ok {
		return types.ResolvedValue{}, fmt.Errorf("runtimeops: split requires a delimiter parameter")
	}
	parts := strings.Split(args[0].StringVal(), delim.Text())
	items := make([]types.ResolvedValue, len(parts))
	for i, p := range parts {
		items[i] = types.ResolvedString(p)
	}
	return types.ResolvedCollection(items), nil
}

func evalSubstring(op *ast.RuntimeOp, args []types.ResolvedValue, named map[string]types.ResolvedValue) (types.ResolvedValue, error) {
	if len(args) == 0 {
		return types.ResolvedValue{}, fmt.Errorf("runtimeops: substring requires a source operand")
	}
	s := []rune(args[0].StringVal())
	start := 0
	length := len(s)
	if sv, ok := named["start"]; ok {
		start = intFrom(sv)
	}
	if lv, ok := named["length"]; ok {
		length = intFrom(lv)
	}
	if start < 0 {
		start = 0
	}
	if start > len(s) {
		start = len(s)
	}
	end := start + length
	if end > len(s) {
		end = len(s)
	}
	return types.ResolvedString(string(s[start:end])), nil
}

func intFrom(v types.ResolvedValue) int {
	if v.Kind() == types.KindInt {
		return int(v.IntVal())
	}
	n, _ := strconv.Atoi(v.Text())
	return n
}

func evalRegexCapture(op *ast.RuntimeOp, args []types.ResolvedValue, named map[string]types.ResolvedValue) (types.ResolvedValue, error) {
	if len(args) == 0 {
		return types.ResolvedValue{}, fmt.Errorf("runtimeops: regex_capture requires a source operand")
	}
	pat, ok := named["pattern"]
	if !ok {
		return types.ResolvedValue{}, fmt.Errorf("runtimeops: regex_capture requires a pattern parameter")
	}
	re, err := regexp.Compile(pat.Text())
	if err != nil {
		return types.ResolvedValue{}, fmt.Errorf("runtimeops: invalid pattern %q: %w", pat.Text(), err)
	}
	m := re.FindStringSubmatch(args[0].StringVal())
	if len(m) < 2 {
		return types.ResolvedString(""), nil
	}
	return types.ResolvedString(m[1]), nil
}

func evalCount(op *ast.RuntimeOp, args []types.ResolvedValue, named map[string]types.ResolvedValue) (types.ResolvedValue, error) {
	if len(args) == 0 {
		return types.ResolvedValue{}, fmt.Errorf("runtimeops: count requires a source operand")
	}
	if args[0].Kind() == types.KindCollection {
		return types.ResolvedInt(int64(len(args[0].CollectionVal()))), nil
	}
	return types.ResolvedInt(int64(len([]rune(args[0].Text())))), nil
}

func evalExtract(op *ast.RuntimeOp, objectFields map[string]types.ResolvedValue) (types.ResolvedValue, error) {
	for _, p := range op.Params {
		if p.ObjectID == "" {
			continue
		}
		key := p.ObjectID + "." + p.ObjectField
		if v, ok := objectFields[key]; ok {
			return v, nil
		}
	}
	return types.ResolvedValue{}, fmt.Errorf("runtimeops: extract found no matching object field")
}

func evalUnique(op *ast.RuntimeOp, args []types.ResolvedValue, named map[string]types.ResolvedValue) (types.ResolvedValue, error) {
	seen := make(map[string]bool)
	var out []types.ResolvedValue
	for _, a := range args {
		var items []types.ResolvedValue
		if a.Kind() == types.KindCollection {
			items = a.CollectionVal()
		} else {
			items = []types.ResolvedValue{a}
		}
		for _, it := range items {
			fp := it.Fingerprint()
			if !seen[fp] {
				seen[fp] = true
				out = append(out, it)
			}
		}
	}
	return types.ResolvedCollection(out), nil
}

func evalMerge(op *ast.RuntimeOp, args []types.ResolvedValue, named map[string]types.ResolvedValue) (types.ResolvedValue, error) {
	var out []types.ResolvedValue
	for _, a := range args {
		if a.Kind() == types.KindCollection {
			out = append(out, a.CollectionVal()...)
		} else {
			out = append(out, a)
		}
	}
	return types.ResolvedCollection(out), nil
}

func evalEnd(op *ast.RuntimeOp, args []types.ResolvedValue, named map[string]types.ResolvedValue) (types.ResolvedValue, error) {
	if len(args) == 0 {
		return types.ResolvedValue{}, fmt.Errorf("runtimeops: end requires an accumulated operand")
	}
	return args[len(args)-1], nil
}
