// Package printer serializes a parsed Definition back into DSL source
// text, the inverse of internal/lexer+internal/parser, so that a parsed
// tree can be printed and parsed again. Two forms do not survive that
// round trip: a STATE's record checks print as plain `path = value` lines,
// which the parser accepts only inside a `record ... record_end` block, and
// a SET's FILTER state references are not printed.
package printer

import (
	"fmt"
	"strings"

	"github.com/cscan-lang/cscan/internal/types"
	"github.com/cscan-lang/cscan/pkg/ast"
)

// Print renders def as DSL source text.
func Print(def *ast.Definition) string {
	var sb strings.Builder
	for _, v := range def.Variables {
		printVariable(&sb, v)
	}
	for _, s := range def.States {
		printState(&sb, s)
	}
	for _, o := range def.Objects {
		printObject(&sb, o)
	}
	for _, s := range def.Sets {
		printSet(&sb, s)
	}
	for _, r := range def.RuntimeOps {
		printRuntimeOp(&sb, r)
	}
	for _, c := range def.CriteriaSet {
		sb.WriteString("CRI\n")
		printCriteriaTree(&sb, c, 1)
		sb.WriteString("CRI_END\n")
	}
	return sb.String()
}

func quote(s string) string {
	if strings.Contains(s, "`") {
		return "r```" + s + "```"
	}
	return "`" + s + "`"
}

func printLiteral(v types.Value, isStringy bool) string {
	if v.Kind() == types.KindVariableRef {
		return "VAR " + v.VariableRef()
	}
	if v.Kind() == types.KindString {
		return quote(v.StringVal())
	}
	return v.String()
}

func printVariable(sb *strings.Builder, v *ast.VariableDecl) {
	fmt.Fprintf(sb, "VAR %s %s", v.Name.Name, v.DataType.String())
	switch v.InitKind {
	case ast.VarLiteral:
		fmt.Fprintf(sb, " = %s", printLiteral(v.Literal, true))
	case ast.VarReference:
		fmt.Fprintf(sb, " = VAR %s", v.RefName)
	}
	sb.WriteString("\n")
}

func printState(sb *strings.Builder, s *ast.StateDecl) {
	fmt.Fprintf(sb, "STATE %s\n", s.Name.Name)
	for _, f := range s.Fields {
		if f.RecordCheck != "" {
			fmt.Fprintf(sb, "  %s = %s\n", f.RecordCheck, printLiteral(f.Value, true))
			continue
		}
		fmt.Fprintf(sb, "  %s = %s\n", f.Name, printLiteral(f.Value, true))
	}
	sb.WriteString("STATE_END\n")
}

func printObject(sb *strings.Builder, o *ast.ObjectDecl) {
	fmt.Fprintf(sb, "OBJECT %s\n", o.Name.Name)
	for _, el := range o.Elements {
		fmt.Fprintf(sb, "  %s = %s\n", el.Name, printLiteral(el.Value, true))
	}
	if o.Filter != nil {
		sb.WriteString("  FILTER\n")
		if o.Filter.Kind == ast.FilterInclude {
			sb.WriteString("  Include\n")
		} else {
			sb.WriteString("  Exclude\n")
		}
		for _, name := range o.Filter.StateNames {
			fmt.Fprintf(sb, "  %s\n", name)
		}
		sb.WriteString("  FILTER_END\n")
	}
	sb.WriteString("OBJECT_END\n")
}

// printStateIndented/printObjectIndented render a criterion-local STATE or
// OBJECT declaration nested inside a CTN block, prefixing every line with
// pad so the round-tripped source stays readable.
func printStateIndented(sb *strings.Builder, s *ast.StateDecl, pad string) {
	var inner strings.Builder
	printState(&inner, s)
	indentLines(sb, inner.String(), pad)
}

func printObjectIndented(sb *strings.Builder, o *ast.ObjectDecl, pad string) {
	var inner strings.Builder
	printObject(&inner, o)
	indentLines(sb, inner.String(), pad)
}

func indentLines(sb *strings.Builder, text, pad string) {
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		fmt.Fprintf(sb, "%s%s\n", pad, line)
	}
}

func printSet(sb *strings.Builder, s *ast.SetOp) {
	fmt.Fprintf(sb, "SET %s\n", s.Name.Name)
	switch s.Kind {
	case ast.SetUnion:
		sb.WriteString("  union ")
	case ast.SetIntersection:
		sb.WriteString("  intersection ")
	case ast.SetComplement:
		sb.WriteString("  complement ")
	}
	names := make([]string, len(s.Operands))
	for i, op := range s.Operands {
		names[i] = op.Name
	}
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString("\n")
	sb.WriteString("SET_END\n")
}

func printRuntimeOp(sb *strings.Builder, r *ast.RuntimeOp) {
	fmt.Fprintf(sb, "RUN %s %s\n", r.Target.Name, runtimeOpName(r.Kind))
	for _, p := range r.Params {
		switch {
		case p.ArithOperator != "":
			fmt.Fprintf(sb, "  %s\n", p.ArithOperator)
		case p.Named != "":
			fmt.Fprintf(sb, "  %s = %s\n", p.Named, printLiteral(p.Value, true))
		case p.ObjectID != "":
			fmt.Fprintf(sb, "  OBJ %s.%s\n", p.ObjectID, p.ObjectField)
		case p.VarName != "":
			fmt.Fprintf(sb, "  VAR %s\n", p.VarName)
		default:
			fmt.Fprintf(sb, "  %s\n", printLiteral(p.Literal, true))
		}
	}
	sb.WriteString("RUN_END\n")
}

func runtimeOpName(k ast.RuntimeOpKind) string {
	switch k {
	case ast.OpConcat:
		return "concat"
	case ast.OpArithmetic:
		return "arithmetic"
	case ast.OpSplit:
		return "split"
	case ast.OpSubstring:
		return "substring"
	case ast.OpRegexCapture:
		return "regex_capture"
	case ast.OpCount:
		return "count"
	case ast.OpExtract:
		return "extract"
	case ast.OpUnique:
		return "unique"
	case ast.OpMerge:
		return "merge"
	case ast.OpEnd:
		return "end"
	default:
		return "unknown"
	}
}

func printCriteriaTree(sb *strings.Builder, tree ast.CriteriaTree, indent int) {
	pad := strings.Repeat("  ", indent)
	switch n := tree.(type) {
	case *ast.Criterion:
		fmt.Fprintf(sb, "%sCTN %s", pad, n.ObjectID)
		if n.Item.Path != "" {
			fmt.Fprintf(sb, ".%s", n.Item.Path)
		}
		sb.WriteString("\n")
		innerPad := strings.Repeat("  ", indent+1)
		for _, s := range n.LocalStates {
			printStateIndented(sb, s, innerPad)
		}
		if n.LocalObject != nil {
			printObjectIndented(sb, n.LocalObject, innerPad)
		}
		if len(n.StateRefs) > 0 {
			fmt.Fprintf(sb, "%sSTATES %s\n", innerPad, strings.Join(n.StateRefs, ", "))
		}
		if len(n.ObjectRefs) > 0 {
			fmt.Fprintf(sb, "%sOBJECTS %s\n", innerPad, strings.Join(n.ObjectRefs, ", "))
		}
		switch n.Existence {
		case ast.ExistenceMustExist:
			fmt.Fprintf(sb, "%sEXISTS\n", innerPad)
		case ast.ExistenceMustNotExist:
			fmt.Fprintf(sb, "%sNOT_EXISTS\n", innerPad)
		}
		if n.Item.Present {
			fmt.Fprintf(sb, "%s%s %s\n", innerPad, criterionOpName(n.Item.Operator), printOperand(n.Item.Expected))
		}
		fmt.Fprintf(sb, "%sCTN_END\n", pad)
	case *ast.Block:
		op := "AND"
		if n.Operator == ast.BlockOr {
			op = "OR"
		}
		if n.Negate {
			fmt.Fprintf(sb, "%sNOT %s\n", pad, op)
		} else {
			fmt.Fprintf(sb, "%s%s\n", pad, op)
		}
		for _, c := range n.Children {
			printCriteriaTree(sb, c, indent+1)
		}
	}
}

func printOperand(op ast.Operand) string {
	switch op.Kind {
	case ast.OperandVariable:
		return "VAR " + op.Name
	case ast.OperandStateField:
		return op.Name + "." + op.FieldName
	case ast.OperandFieldPath:
		return op.Path
	default:
		return printLiteral(op.Literal, true)
	}
}

func criterionOpName(op ast.CriterionOperator) string {
	switch op {
	case ast.OpEQ:
		return "=="
	case ast.OpNEQ:
		return "!="
	case ast.OpLT:
		return "<"
	case ast.OpLE:
		return "<="
	case ast.OpGT:
		return ">"
	case ast.OpGE:
		return ">="
	case ast.OpCIEQ:
		return "ci="
	case ast.OpCINEQ:
		return "ci!="
	case ast.OpContains:
		return "contains"
	case ast.OpNotContains:
		return "not_contains"
	case ast.OpStartsWith:
		return "starts_with"
	case ast.OpNotStartsWith:
		return "not_starts_with"
	case ast.OpEndsWith:
		return "ends_with"
	case ast.OpNotEndsWith:
		return "not_ends_with"
	case ast.OpMatches:
		return "matches"
	case ast.OpSubsetOf:
		return "subset_of"
	case ast.OpSupersetOf:
		return "superset_of"
	default:
		return "=="
	}
}
