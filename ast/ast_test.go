package ast_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/pshgo/shparse/ast"
)

func TestNodeInterfaceSatisfiedByEveryCommand(t *testing.T) {
	c := qt.New(t)
	var nodes []ast.Node = []ast.Node{
		&ast.SimpleCommand{},
		&ast.Pipeline{},
		&ast.AndOrList{},
		&ast.IfConditional{},
		&ast.WhileLoop{},
		&ast.UntilLoop{},
		&ast.ForLoop{},
		&ast.CStyleForLoop{},
		&ast.CaseConditional{},
		&ast.SelectLoop{},
		&ast.FunctionDef{},
		&ast.SubshellGroup{},
		&ast.BraceGroup{},
		&ast.ArithmeticEvaluation{},
		&ast.EnhancedTestStatement{},
		&ast.ArrayInitialization{},
		&ast.ArrayElementAssignment{},
		&ast.BreakStatement{},
		&ast.ContinueStatement{},
	}
	c.Assert(nodes, qt.HasLen, 19)
}

func TestCommandInterfaceExcludesWord(t *testing.T) {
	c := qt.New(t)
	// Word implements Node but not Command — it never sits directly
	// inside a Pipeline.
	var w ast.Node = &ast.Word{}
	_, isCommand := w.(ast.Command)
	c.Assert(isCommand, qt.IsFalse)
}

func TestTestExpressionSumType(t *testing.T) {
	c := qt.New(t)
	var exprs []ast.TestExpression = []ast.TestExpression{
		&ast.BinaryTestExpression{Left: "a", Operator: "==", Right: "b"},
		&ast.UnaryTestExpression{Operator: "-n", Operand: "a"},
		&ast.NegatedTestExpression{Expression: &ast.UnaryTestExpression{Operator: "-n", Operand: "a"}},
		&ast.CompoundTestExpression{
			Left:     &ast.UnaryTestExpression{Operator: "-n", Operand: "a"},
			Operator: "&&",
			Right:    &ast.UnaryTestExpression{Operator: "-n", Operand: "b"},
		},
	}
	c.Assert(exprs, qt.HasLen, 4)
}

func TestExpansionSumType(t *testing.T) {
	c := qt.New(t)
	var exps []ast.Expansion = []ast.Expansion{
		&ast.VariableExpansion{Name: "x"},
		&ast.CommandSubstitution{Command: "echo hi"},
		&ast.ArithmeticExpansion{Expression: "1+1"},
		&ast.ParameterExpansion{Parameter: "x", Operator: ":-", Word: "d"},
		&ast.ProcessSubstitution{Direction: "in", Command: "echo hi"},
	}
	c.Assert(exps, qt.HasLen, 5)
}

func TestRedirectDuplicationInvariant(t *testing.T) {
	c := qt.New(t)
	dup := &ast.Redirect{Type: ">&", DupFd: intPtr(1)}
	c.Assert(dup.Target, qt.IsNil)

	target := "out.txt"
	plain := &ast.Redirect{Type: ">", Target: &target}
	c.Assert(plain.Target, qt.Not(qt.IsNil))
}

func intPtr(n int) *int { return &n }
