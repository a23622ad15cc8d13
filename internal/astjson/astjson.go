// Package astjson allows encoding shparse ASTs as JSON, tagging each
// node with a "Type" field so the shape can be recovered without a
// Go-side schema. Grounded on mvdan.cc/sh/v3/syntax/typedjson, which
// solves the same problem for that teacher's Node interface; this is
// the encode-only half, since this module has no corresponding
// executor/interpreter to decode back into for replay.
package astjson

import (
	"encoding/json"
	"io"

	"github.com/pshgo/shparse/ast"
)

// EncodeOptions configures Encode.
type EncodeOptions struct {
	Indent string // e.g. "  "
}

// Encode writes node to w in typed-JSON form.
func (opts EncodeOptions) Encode(w io.Writer, node ast.Node) error {
	enc := json.NewEncoder(w)
	if opts.Indent != "" {
		enc.SetIndent("", opts.Indent)
	}
	return enc.Encode(toValue(node))
}

// Encode is a shortcut for EncodeOptions.Encode with no indentation.
func Encode(w io.Writer, node ast.Node) error {
	return EncodeOptions{}.Encode(w, node)
}

// Marshal renders node as an indented JSON byte slice.
func Marshal(node ast.Node) ([]byte, error) {
	return json.MarshalIndent(toValue(node), "", "  ")
}

func toValue(node ast.Node) map[string]any {
	if node == nil {
		return nil
	}
	m := map[string]any{}
	switch n := node.(type) {
	case *ast.TopLevel:
		m["Type"] = "TopLevel"
		m["Items"] = toValues(n.Items)
	case *ast.CommandList:
		m["Type"] = "CommandList"
		m["Statements"] = toValues(n.Statements)
	case *ast.StatementList:
		m["Type"] = "StatementList"
		m["Statements"] = toValues(n.Statements)
	case *ast.AndOrList:
		m["Type"] = "AndOrList"
		m["Pipelines"] = toValues(n.Pipelines)
		m["Operators"] = n.Operators
	case *ast.Pipeline:
		m["Type"] = "Pipeline"
		m["Commands"] = toValues(n.Commands)
		m["Negated"] = n.Negated
	case *ast.SimpleCommand:
		m["Type"] = "SimpleCommand"
		m["Args"] = n.Args
		m["Words"] = wordsToValues(n.Words)
		m["Redirects"] = toValues(redirectsToNodes(n.Redirects))
		m["Background"] = n.Background
	case *ast.Redirect:
		m["Type"] = "Redirect"
		m["RedirType"] = n.Type
		m["Target"] = n.Target
		m["Fd"] = n.Fd
		m["DupFd"] = n.DupFd
		m["HeredocKey"] = n.HeredocKey
		m["HeredocContent"] = n.HeredocContent
	case *ast.IfConditional:
		m["Type"] = "IfConditional"
		m["Condition"] = toValue(n.Condition)
		m["ThenPart"] = toValue(n.ThenPart)
		elifs := make([]map[string]any, 0, len(n.ElifParts))
		for _, e := range n.ElifParts {
			elifs = append(elifs, map[string]any{"Condition": toValue(e.Condition), "Body": toValue(e.Body)})
		}
		m["ElifParts"] = elifs
		m["ElsePart"] = toValue(n.ElsePart)
		m["Redirects"] = toValues(redirectsToNodes(n.Redirects))
		m["Background"] = n.Background
	case *ast.WhileLoop:
		m["Type"] = "WhileLoop"
		m["Condition"] = toValue(n.Condition)
		m["Body"] = toValue(n.Body)
		m["Redirects"] = toValues(redirectsToNodes(n.Redirects))
		m["Background"] = n.Background
	case *ast.UntilLoop:
		m["Type"] = "UntilLoop"
		m["Condition"] = toValue(n.Condition)
		m["Body"] = toValue(n.Body)
		m["Redirects"] = toValues(redirectsToNodes(n.Redirects))
		m["Background"] = n.Background
	case *ast.ForLoop:
		m["Type"] = "ForLoop"
		m["Variable"] = n.Variable
		m["Items"] = n.Items
		m["Body"] = toValue(n.Body)
		m["Redirects"] = toValues(redirectsToNodes(n.Redirects))
		m["Background"] = n.Background
	case *ast.CStyleForLoop:
		m["Type"] = "CStyleForLoop"
		m["InitExpr"] = n.InitExpr
		m["ConditionExpr"] = n.ConditionExpr
		m["UpdateExpr"] = n.UpdateExpr
		m["Body"] = toValue(n.Body)
		m["Redirects"] = toValues(redirectsToNodes(n.Redirects))
		m["Background"] = n.Background
	case *ast.CaseConditional:
		m["Type"] = "CaseConditional"
		m["Expr"] = n.Expr
		items := make([]map[string]any, 0, len(n.Items))
		for _, it := range n.Items {
			items = append(items, map[string]any{
				"Patterns":   it.Patterns,
				"Commands":   toValue(it.Commands),
				"Terminator": it.Terminator,
			})
		}
		m["Items"] = items
		m["Redirects"] = toValues(redirectsToNodes(n.Redirects))
		m["Background"] = n.Background
	case *ast.SelectLoop:
		m["Type"] = "SelectLoop"
		m["Variable"] = n.Variable
		m["Items"] = n.Items
		m["Body"] = toValue(n.Body)
		m["Redirects"] = toValues(redirectsToNodes(n.Redirects))
		m["Background"] = n.Background
	case *ast.FunctionDef:
		m["Type"] = "FunctionDef"
		m["Name"] = n.Name
		m["Body"] = toValue(n.Body)
	case *ast.SubshellGroup:
		m["Type"] = "SubshellGroup"
		m["Statements"] = toValues(n.Statements)
		m["Redirects"] = toValues(redirectsToNodes(n.Redirects))
	case *ast.BraceGroup:
		m["Type"] = "BraceGroup"
		m["Statements"] = toValues(n.Statements)
		m["Redirects"] = toValues(redirectsToNodes(n.Redirects))
	case *ast.ArithmeticEvaluation:
		m["Type"] = "ArithmeticEvaluation"
		m["Expression"] = n.Expression
		m["Redirects"] = toValues(redirectsToNodes(n.Redirects))
		m["Background"] = n.Background
	case *ast.EnhancedTestStatement:
		m["Type"] = "EnhancedTestStatement"
		m["Expression"] = testExprToValue(n.Expression)
		m["Redirects"] = toValues(redirectsToNodes(n.Redirects))
	case *ast.ArrayInitialization:
		m["Type"] = "ArrayInitialization"
		m["Name"] = n.Name
		m["Elements"] = n.Elements
		m["IsAppend"] = n.IsAppend
	case *ast.ArrayElementAssignment:
		m["Type"] = "ArrayElementAssignment"
		m["Name"] = n.Name
		m["Index"] = n.Index
		m["Value"] = n.Value
		m["IsAppend"] = n.IsAppend
	case *ast.BreakStatement:
		m["Type"] = "BreakStatement"
		m["Level"] = n.Level
	case *ast.ContinueStatement:
		m["Type"] = "ContinueStatement"
		m["Level"] = n.Level
	case *ast.Word:
		return wordToValue(n)
	default:
		m["Type"] = "Unknown"
	}
	return m
}

func testExprToValue(e ast.TestExpression) map[string]any {
	switch te := e.(type) {
	case *ast.BinaryTestExpression:
		return map[string]any{"Type": "BinaryTestExpression", "Left": te.Left, "Operator": te.Operator, "Right": te.Right}
	case *ast.UnaryTestExpression:
		return map[string]any{"Type": "UnaryTestExpression", "Operator": te.Operator, "Operand": te.Operand}
	case *ast.NegatedTestExpression:
		return map[string]any{"Type": "NegatedTestExpression", "Expression": testExprToValue(te.Expression)}
	case *ast.CompoundTestExpression:
		return map[string]any{"Type": "CompoundTestExpression", "Left": testExprToValue(te.Left), "Operator": te.Operator, "Right": testExprToValue(te.Right)}
	}
	return nil
}

func wordToValue(w *ast.Word) map[string]any {
	if w == nil {
		return nil
	}
	parts := make([]map[string]any, 0, len(w.Parts))
	for _, p := range w.Parts {
		parts = append(parts, partToValue(p))
	}
	return map[string]any{
		"Type":      "Word",
		"Parts":     parts,
		"QuoteType": w.QuoteType,
	}
}

func wordsToValues(ws []*ast.Word) []map[string]any {
	out := make([]map[string]any, 0, len(ws))
	for _, w := range ws {
		out = append(out, wordToValue(w))
	}
	return out
}

func partToValue(p ast.Part) map[string]any {
	switch pt := p.(type) {
	case *ast.LiteralPart:
		return map[string]any{
			"Type": "LiteralPart", "Text": pt.Text, "Quoted": pt.Quoted, "QuoteChar": pt.QuoteChar,
		}
	case *ast.ExpansionPart:
		return map[string]any{
			"Type": "ExpansionPart", "Expansion": expansionToValue(pt.Expansion), "Quoted": pt.Quoted,
		}
	}
	return nil
}

func expansionToValue(e ast.Expansion) map[string]any {
	switch ex := e.(type) {
	case *ast.VariableExpansion:
		return map[string]any{"Type": "VariableExpansion", "Name": ex.Name}
	case *ast.CommandSubstitution:
		return map[string]any{"Type": "CommandSubstitution", "Command": ex.Command, "BacktickStyle": ex.BacktickStyle}
	case *ast.ArithmeticExpansion:
		return map[string]any{"Type": "ArithmeticExpansion", "Expression": ex.Expression}
	case *ast.ParameterExpansion:
		return map[string]any{"Type": "ParameterExpansion", "Parameter": ex.Parameter, "Operator": ex.Operator, "Word": ex.Word}
	case *ast.ProcessSubstitution:
		return map[string]any{"Type": "ProcessSubstitution", "Direction": ex.Direction, "Command": ex.Command}
	}
	return nil
}

func redirectsToNodes(rs []*ast.Redirect) []ast.Node {
	out := make([]ast.Node, len(rs))
	for i, r := range rs {
		out[i] = r
	}
	return out
}

func toValues(nodes []ast.Node) []map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toValue(n))
	}
	return out
}
