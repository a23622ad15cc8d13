package parser_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"

	"github.com/pshgo/shparse/ast"
	"github.com/pshgo/shparse/parser"
	"github.com/pshgo/shparse/token"
)

// wd builds an adjacent-free WORD token.
func wd(v string) token.Token { return token.Token{Kind: token.WORD, Value: v} }

func kw(k token.Kind) token.Token { return token.Token{Kind: k} }

func sep() token.Token { return token.Token{Kind: token.SEMICOLON} }

// soleSimpleCommand unwraps the AndOrList[Pipeline[SimpleCommand]]
// shape a plain one-command statement takes.
func soleSimpleCommand(n ast.Node) (*ast.SimpleCommand, bool) {
	aol, ok := n.(*ast.AndOrList)
	if !ok || len(aol.Pipelines) != 1 {
		return nil, false
	}
	pl, ok := aol.Pipelines[0].(*ast.Pipeline)
	if !ok || len(pl.Commands) != 1 {
		return nil, false
	}
	sc, ok := pl.Commands[0].(*ast.SimpleCommand)
	return sc, ok
}

func TestParseSimpleCommand(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{wd("echo"), wd("hello")}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	c.Assert(top.Items, qt.HasLen, 1)
	cmd, ok := soleSimpleCommand(top.Items[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(cmd.Args, qt.DeepEquals, []string{"echo", "hello"})
}

func TestParsePipeline(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{wd("cat"), wd("f"), kw(token.PIPE), wd("grep"), wd("x")}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	aol, ok := top.Items[0].(*ast.AndOrList)
	c.Assert(ok, qt.IsTrue)
	c.Assert(aol.Pipelines, qt.HasLen, 1)
	pl, ok := aol.Pipelines[0].(*ast.Pipeline)
	c.Assert(ok, qt.IsTrue)
	c.Assert(pl.Commands, qt.HasLen, 2)
	c.Assert(pl.Negated, qt.IsFalse)
}

func TestParseNegatedPipeline(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{kw(token.EXCLAMATION), wd("grep"), wd("x")}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	aol, ok := top.Items[0].(*ast.AndOrList)
	c.Assert(ok, qt.IsTrue)
	c.Assert(aol.Pipelines, qt.HasLen, 1)
	pl, ok := aol.Pipelines[0].(*ast.Pipeline)
	c.Assert(ok, qt.IsTrue)
	c.Assert(pl.Negated, qt.IsTrue)
}

func TestParseAndOrList(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{wd("true"), kw(token.AND_IF), wd("echo"), wd("ok"), kw(token.OR_IF), wd("echo"), wd("fail")}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	aol, ok := top.Items[0].(*ast.AndOrList)
	c.Assert(ok, qt.IsTrue)
	c.Assert(aol.Operators, qt.DeepEquals, []string{"&&", "||"})
	c.Assert(aol.Pipelines, qt.HasLen, 3)
}

func TestParseIfStatement(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		kw(token.IF), wd("true"), sep(),
		kw(token.THEN), wd("echo"), wd("yes"), sep(),
		kw(token.FI),
	}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	ifc, ok := top.Items[0].(*ast.IfConditional)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ifc.ElsePart, qt.IsNil)
	c.Assert(ifc.ElifParts, qt.HasLen, 0)
}

func TestParseIfElifElse(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		kw(token.IF), wd("false"), sep(),
		kw(token.THEN), wd("echo"), wd("a"), sep(),
		kw(token.ELIF), wd("false"), sep(),
		kw(token.THEN), wd("echo"), wd("b"), sep(),
		kw(token.ELSE), wd("echo"), wd("c"), sep(),
		kw(token.FI),
	}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	ifc, ok := top.Items[0].(*ast.IfConditional)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ifc.ElifParts, qt.HasLen, 1)
	c.Assert(ifc.ElsePart, qt.Not(qt.IsNil))
}

func TestParseMissingFiFails(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{kw(token.IF), wd("true"), sep(), kw(token.THEN), wd("echo"), wd("x")}
	_, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestParseWhileLoop(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		kw(token.WHILE), wd("true"), sep(),
		kw(token.DO), wd("echo"), wd("x"), sep(),
		kw(token.DONE),
	}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	_, ok := top.Items[0].(*ast.WhileLoop)
	c.Assert(ok, qt.IsTrue)
}

func TestParseForLoopExplicitItems(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		kw(token.FOR), wd("i"), kw(token.IN), wd("a"), wd("b"), sep(),
		kw(token.DO), wd("echo"), token.Token{Kind: token.VARIABLE, Value: "i"}, sep(),
		kw(token.DONE),
	}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	fl, ok := top.Items[0].(*ast.ForLoop)
	c.Assert(ok, qt.IsTrue)
	c.Assert(fl.Variable, qt.Equals, "i")
	c.Assert(fl.Items, qt.DeepEquals, []string{"a", "b"})
}

func TestParseForLoopDefaultsToPositionalArgs(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		kw(token.FOR), wd("i"), sep(),
		kw(token.DO), wd("echo"), sep(),
		kw(token.DONE),
	}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	fl, ok := top.Items[0].(*ast.ForLoop)
	c.Assert(ok, qt.IsTrue)
	c.Assert(fl.Items, qt.DeepEquals, []string{"$@"})
}

func TestParseCStyleForLoop(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		kw(token.FOR), kw(token.DOUBLE_LPAREN),
		wd("i=0"), sep(), wd("i<3"), sep(), wd("i++"),
		kw(token.DOUBLE_RPAREN), sep(),
		kw(token.DO), wd("echo"), sep(),
		kw(token.DONE),
	}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	cf, ok := top.Items[0].(*ast.CStyleForLoop)
	c.Assert(ok, qt.IsTrue)
	c.Assert(*cf.InitExpr, qt.Equals, "i=0")
	c.Assert(*cf.ConditionExpr, qt.Equals, "i<3")
	c.Assert(*cf.UpdateExpr, qt.Equals, "i++")
}

func TestParseCaseStatement(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		kw(token.CASE), wd("$x"), kw(token.IN),
		wd("a"), kw(token.RPAREN), wd("echo"), wd("A"), kw(token.DOUBLE_SEMICOLON),
		wd("*"), kw(token.RPAREN), wd("echo"), wd("other"), kw(token.DOUBLE_SEMICOLON),
		kw(token.ESAC),
	}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	cc, ok := top.Items[0].(*ast.CaseConditional)
	c.Assert(ok, qt.IsTrue)
	c.Assert(cc.Items, qt.HasLen, 2)
	c.Assert(cc.Items[0].Patterns, qt.DeepEquals, []string{"a"})
	c.Assert(cc.Items[0].Terminator, qt.Equals, ";;")
}

func TestParseFunctionDefPosixForm(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		wd("greet"), kw(token.LPAREN), kw(token.RPAREN), kw(token.LBRACE),
		wd("echo"), wd("hi"), sep(),
		kw(token.RBRACE),
	}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	fd, ok := top.Items[0].(*ast.FunctionDef)
	c.Assert(ok, qt.IsTrue)
	c.Assert(fd.Name, qt.Equals, "greet")
	c.Assert(fd.Body.Statements, qt.HasLen, 1)
}

func TestParseFunctionDefKeywordForm(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		kw(token.FUNCTION), wd("greet"), kw(token.LBRACE),
		wd("echo"), wd("hi"), sep(),
		kw(token.RBRACE),
	}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	fd, ok := top.Items[0].(*ast.FunctionDef)
	c.Assert(ok, qt.IsTrue)
	c.Assert(fd.Name, qt.Equals, "greet")
}

func TestParseSubshellGroup(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{kw(token.LPAREN), wd("echo"), wd("x"), kw(token.RPAREN)}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	_, ok := top.Items[0].(*ast.SubshellGroup)
	c.Assert(ok, qt.IsTrue)
}

func TestParseBraceGroup(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{kw(token.LBRACE), wd("echo"), wd("x"), sep(), kw(token.RBRACE)}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	_, ok := top.Items[0].(*ast.BraceGroup)
	c.Assert(ok, qt.IsTrue)
}

func TestParseArithmeticCommand(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{kw(token.DOUBLE_LPAREN), wd("x"), wd("+"), wd("1"), kw(token.DOUBLE_RPAREN)}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	ae, ok := top.Items[0].(*ast.ArithmeticEvaluation)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ae.Expression, qt.Equals, "x + 1")
}

func TestParseEnhancedTestBinary(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{kw(token.DOUBLE_LBRACKET), wd("a"), wd("=="), wd("b"), kw(token.DOUBLE_RBRACKET)}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	et, ok := top.Items[0].(*ast.EnhancedTestStatement)
	c.Assert(ok, qt.IsTrue)
	bte, ok := et.Expression.(*ast.BinaryTestExpression)
	c.Assert(ok, qt.IsTrue)
	c.Assert(bte.Operator, qt.Equals, "==")
}

func TestParseEnhancedTestCompound(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		kw(token.DOUBLE_LBRACKET),
		wd("a"), wd("=="), wd("b"), kw(token.AND_IF), wd("c"), wd("=="), wd("d"),
		kw(token.DOUBLE_RBRACKET),
	}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	et := top.Items[0].(*ast.EnhancedTestStatement)
	_, ok := et.Expression.(*ast.CompoundTestExpression)
	c.Assert(ok, qt.IsTrue)
}

func TestParseEnhancedTestStrictPosixStaysMVP(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		kw(token.DOUBLE_LBRACKET),
		wd("a"), wd("=="), wd("b"), kw(token.AND_IF), wd("c"), wd("=="), wd("d"),
		kw(token.DOUBLE_RBRACKET),
	}
	p := parser.New(parser.Configure(parser.WithParsingMode(parser.StrictPosix)))
	top, err := p.Parse(tokens)
	c.Assert(err, qt.IsNil)
	et := top.Items[0].(*ast.EnhancedTestStatement)
	_, ok := et.Expression.(*ast.BinaryTestExpression)
	c.Assert(ok, qt.IsTrue)
}

func TestParseArrayInitialization(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{wd("arr="), kw(token.LPAREN), wd("a"), wd("b"), wd("c"), kw(token.RPAREN)}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	ai, ok := top.Items[0].(*ast.ArrayInitialization)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ai.Name, qt.Equals, "arr")
	c.Assert(ai.Elements, qt.DeepEquals, []string{"a", "b", "c"})
}

func TestParseArrayElementAssignmentFused(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{wd("arr[0]=x")}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	ea, ok := top.Items[0].(*ast.ArrayElementAssignment)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ea.Name, qt.Equals, "arr")
	c.Assert(ea.Index, qt.Equals, "0")
	c.Assert(ea.Value, qt.Equals, "x")
}

func TestParseArrayElementNegativeIndex(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{wd("arr[-1]=x")}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	ea := top.Items[0].(*ast.ArrayElementAssignment)
	c.Assert(ea.Index, qt.Equals, "-1")
}

func TestWithoutArraysFallsBackToPlainWord(t *testing.T) {
	c := qt.New(t)
	opts := parser.DefaultOptions()
	opts.EnableArrays = false
	tokens := []token.Token{wd("arr[0]=x")}
	top, err := parser.New(opts).Parse(tokens)
	c.Assert(err, qt.IsNil)
	sc, ok := soleSimpleCommand(top.Items[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(sc.Args, qt.DeepEquals, []string{"arr[0]=x"})
}

func TestWithoutArithmeticRejectsArithmeticCommand(t *testing.T) {
	c := qt.New(t)
	opts := parser.DefaultOptions()
	opts.EnableArithmetic = false
	tokens := []token.Token{kw(token.DOUBLE_LPAREN), wd("1"), wd("+"), wd("2"), kw(token.DOUBLE_RPAREN)}
	_, err := parser.New(opts).Parse(tokens)
	c.Assert(err, qt.Not(qt.IsNil))
}

// With EnableProcessSubstitution disabled, the dedicated
// processSubstitutionStandalone special parser is no longer tried;
// a lone process substitution still parses, but only by falling back
// to simpleCommand's own word handling (spec §4.3 classifies process
// substitution as a word-like token in its own right).
func TestWithoutProcessSubstitutionFallsBackToPlainWord(t *testing.T) {
	c := qt.New(t)
	opts := parser.DefaultOptions()
	opts.EnableProcessSubstitution = false
	tokens := []token.Token{{Kind: token.PROCESS_SUB_IN, Value: "<(cmd)"}}
	top, err := parser.New(opts).Parse(tokens)
	c.Assert(err, qt.IsNil)
	sc, ok := soleSimpleCommand(top.Items[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(sc.Args, qt.DeepEquals, []string{"<(cmd)"})
}

func TestDisallowBashConditionalsRejectsEnhancedTest(t *testing.T) {
	c := qt.New(t)
	opts := parser.DefaultOptions()
	opts.AllowBashConditionals = false
	tokens := []token.Token{kw(token.DOUBLE_LBRACKET), wd("-n"), wd("x"), kw(token.DOUBLE_RBRACKET)}
	_, err := parser.New(opts).Parse(tokens)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestAllowEmptyCommandsAcceptsRedirectOnlyCommand(t *testing.T) {
	c := qt.New(t)
	opts := parser.DefaultOptions()
	opts.AllowEmptyCommands = true
	tokens := []token.Token{kw(token.REDIRECT_OUT), wd("out.txt")}
	top, err := parser.New(opts).Parse(tokens)
	c.Assert(err, qt.IsNil)
	sc, ok := soleSimpleCommand(top.Items[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(sc.Words, qt.HasLen, 0)
	c.Assert(sc.Redirects, qt.HasLen, 1)
}

func TestEmptyCommandsRejectedByDefault(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{kw(token.REDIRECT_OUT), wd("out.txt")}
	_, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestBuildWordASTNodesDisabledOmitsParts(t *testing.T) {
	c := qt.New(t)
	opts := parser.DefaultOptions()
	opts.BuildWordASTNodes = false
	tokens := []token.Token{wd("echo"), {Kind: token.VARIABLE, Value: "x"}}
	top, err := parser.New(opts).Parse(tokens)
	c.Assert(err, qt.IsNil)
	sc, ok := soleSimpleCommand(top.Items[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(sc.Args, qt.DeepEquals, []string{"echo", "$x"})
	for _, w := range sc.Words {
		c.Assert(w.Parts, qt.HasLen, 0)
	}
}

func TestParseRedirectSequence(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		wd("cmd"),
		kw(token.REDIRECT_OUT), wd("out.txt"),
		kw(token.REDIRECT_IN), wd("in.txt"),
	}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	cmd, ok := soleSimpleCommand(top.Items[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(cmd.Redirects, qt.HasLen, 2)
	c.Assert(*cmd.Redirects[0].Target, qt.Equals, "out.txt")
	c.Assert(*cmd.Redirects[1].Target, qt.Equals, "in.txt")
}

func TestParseFdDuplicationWord(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{wd("cmd"), wd("2>&1")}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	cmd, ok := soleSimpleCommand(top.Items[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(cmd.Redirects, qt.HasLen, 1)
	c.Assert(*cmd.Redirects[0].Fd, qt.Equals, 2)
	c.Assert(*cmd.Redirects[0].DupFd, qt.Equals, 1)
}

func TestParseBackgroundCommand(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{wd("sleep"), wd("1"), kw(token.AMPERSAND)}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	cmd, ok := soleSimpleCommand(top.Items[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(cmd.Background, qt.IsTrue)
}

func TestParseHeredoc(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		wd("cat"),
		{Kind: token.HEREDOC, HeredocKey: "heredoc_1"},
		wd("EOF"),
	}
	p := parser.NewDefault()
	top, err := p.ParseWithHeredocs(tokens, map[string]string{"heredoc_1": "hello\n"})
	c.Assert(err, qt.IsNil)
	cmd, ok := soleSimpleCommand(top.Items[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(cmd.Redirects, qt.HasLen, 1)
	c.Assert(*cmd.Redirects[0].HeredocContent, qt.Equals, "hello\n")
}

func TestParseHeredocInsideIfStatement(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		kw(token.IF), wd("true"), sep(),
		kw(token.THEN),
		wd("cat"), {Kind: token.HEREDOC, HeredocKey: "heredoc_1"}, wd("EOF"), sep(),
		kw(token.FI),
	}
	top, err := parser.NewDefault().ParseWithHeredocs(tokens, map[string]string{"heredoc_1": "body\n"})
	c.Assert(err, qt.IsNil)
	ifc := top.Items[0].(*ast.IfConditional)
	thenList := ifc.ThenPart.(*ast.CommandList)
	cmd, ok := soleSimpleCommand(thenList.Statements[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(*cmd.Redirects[0].HeredocContent, qt.Equals, "body\n")
}

func TestParseBreakContinueWithLevel(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{kw(token.BREAK), wd("2")}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	bs, ok := top.Items[0].(*ast.BreakStatement)
	c.Assert(ok, qt.IsTrue)
	c.Assert(bs.Level, qt.Equals, 2)
}

func TestParseEmptyInputReturnsEmptyTopLevel(t *testing.T) {
	c := qt.New(t)
	top, err := parser.NewDefault().Parse(nil)
	c.Assert(err, qt.IsNil)
	c.Assert(top.Items, qt.HasLen, 0)
}

func TestCanParse(t *testing.T) {
	c := qt.New(t)
	p := parser.NewDefault()
	c.Assert(p.CanParse([]token.Token{wd("echo"), wd("hi")}), qt.IsTrue)
	c.Assert(p.CanParse([]token.Token{kw(token.PIPE)}), qt.IsFalse)
}

func TestParsePartialFallsBackToSingleCommand(t *testing.T) {
	c := qt.New(t)
	p := parser.NewDefault()
	tokens := []token.Token{wd("echo"), wd("a"), kw(token.RBRACE)}
	node, pos := p.ParsePartial(tokens)
	c.Assert(node, qt.Not(qt.IsNil))
	c.Assert(pos, qt.Equals, 2)
}

func TestCommandSubstitutionRejectsFunctionDefinition(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{wd("echo"), {Kind: token.COMMAND_SUB, Value: "$(function f { echo hi; })"}}
	_, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestCompositeWordGrouping(t *testing.T) {
	c := qt.New(t)
	prefix := wd("foo")
	suffixVar := token.Token{Kind: token.VARIABLE, Value: "bar", AdjacentToPrevious: true}
	tokens := []token.Token{wd("echo"), prefix, suffixVar}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	cmd, ok := soleSimpleCommand(top.Items[0])
	c.Assert(ok, qt.IsTrue)
	c.Assert(cmd.Args, qt.DeepEquals, []string{"echo", "foo$bar"})
	c.Assert(cmd.Words[1].Parts, qt.HasLen, 2)
}

func TestParsedASTMatchesExpectedShapeExactly(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{wd("echo"), wd("hi")}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)

	got, ok := soleSimpleCommand(top.Items[0])
	c.Assert(ok, qt.IsTrue)

	want := &ast.TopLevel{Items: []ast.Node{
		&ast.AndOrList{Pipelines: []ast.Node{
			&ast.Pipeline{Commands: []ast.Node{
				&ast.SimpleCommand{
					Args:       []string{"echo", "hi"},
					Words:      got.Words,
					ArgTypes:   []token.Kind{token.WORD, token.WORD},
					QuoteTypes: []*token.QuoteChar{nil, nil},
				},
			}},
		}},
	}}
	if diff := cmp.Diff(want, top); diff != "" {
		t.Fatalf("parsed AST mismatch (-want +got):\n%s", diff)
	}
}

func TestAndOrListUnwrapsSingletonControlStructure(t *testing.T) {
	c := qt.New(t)
	tokens := []token.Token{
		kw(token.IF), wd("true"), sep(),
		kw(token.THEN), wd("echo"), wd("x"), sep(),
		kw(token.FI),
	}
	top, err := parser.NewDefault().Parse(tokens)
	c.Assert(err, qt.IsNil)
	_, ok := top.Items[0].(*ast.IfConditional)
	c.Assert(ok, qt.IsTrue)
}
