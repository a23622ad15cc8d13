package parser

import (
	"github.com/pshgo/shparse/ast"
	"github.com/pshgo/shparse/combinator"
	"github.com/pshgo/shparse/token"
)

// L7: top-level integration. Grammar owns the cyclic references
// between statement-lists and commands and wires L4-L6 into one
// composite grammar (spec §4.7).
//
// Construction order follows §4.7 step 1: build token/expansion/
// command/control/special parsers, then resolve cycles by injecting
// forward references, exactly the two-phase "forward-declare, then
// define" pattern spec §9 calls for to break the statement <-> command
// cycle.
type Grammar struct {
	Options Options

	statement combinator.ForwardParser[ast.Node]
	command   combinator.ForwardParser[ast.Node]

	StatementList combinator.Parser[*ast.CommandList]
	TopLevel      combinator.Parser[ast.Node]
}

// NewGrammar builds and wires the full grammar per Options.
func NewGrammar(opts Options) *Grammar {
	g := &Grammar{Options: opts}
	g.build()
	return g
}

func (g *Grammar) build() {
	// Phase 1: control and special-command parsers reference
	// g.statement.Parser()/g.command.Parser() lazily; they are safe
	// to construct now because ForwardParser.Parser() just returns a
	// thunk, not the resolved parser itself.
	controlParsers := []combinator.Parser[ast.Node]{
		g.ifConditional(),
		g.whileLoop(),
		g.untilLoop(),
		g.cStyleForLoop(),
		g.forLoop(),
		g.selectLoop(),
		g.caseConditional(),
		g.subshellGroup(),
		g.braceGroup(),
		g.breakStatement(),
		g.continueStatement(),
	}
	var specialParsers []combinator.Parser[ast.Node]
	if g.Options.EnableArithmetic {
		specialParsers = append(specialParsers, g.arithmeticCommand())
	}
	if g.Options.AllowBashConditionals {
		specialParsers = append(specialParsers, g.enhancedTest())
	}
	if g.Options.EnableArrays {
		specialParsers = append(specialParsers, g.arrayForm())
	}
	if g.Options.EnableProcessSubstitution {
		specialParsers = append(specialParsers, g.processSubstitutionStandalone())
	}
	if len(specialParsers) == 0 {
		specialParsers = append(specialParsers, noSpecialForms)
	}

	control := combinator.Choice(controlParsers...)
	special := combinator.Choice(specialParsers...)

	// A pipeline element is a control structure, a special command,
	// or (the terminal case) a plain simple command — this is what
	// lets a Pipeline contain control structures (spec §4.7 step 2
	// bullet 4) while still bottoming out.
	pipelineElement := combinator.Choice(control, special, g.simpleCommand())

	// command = control | special | and_or_list, in that preference
	// order (spec §4.7 step 2); and_or_list itself is built over
	// pipelines of pipelineElement.
	andOr := andOrList(pipeline(pipelineElement))
	composite := combinator.Choice(control, special, andOr)

	// statement = function_def | command
	functionDef := g.functionDef()
	stmt := combinator.Choice(functionDef, composite)

	g.command.Define(composite)
	g.statement.Define(stmt)

	g.StatementList = g.buildStatementList()
	g.TopLevel = g.buildTopLevel()
}

// buildStatementList implements:
//   statement_list = many(optional(separators), statement, optional(separators))
// mapped to a CommandList (spec §4.7 step 2 last bullet).
func (g *Grammar) buildStatementList() combinator.Parser[*ast.CommandList] {
	return func(tokens []token.Token, pos int) combinator.Result[*ast.CommandList] {
		cur := pos
		var stmts []ast.Node
		for {
			for cur < len(tokens) && isSeparator(tokens[cur]) {
				cur++
			}
			if cur >= len(tokens) {
				break
			}
			r := g.statement.Parser()(tokens, cur)
			if r.Failed {
				break
			}
			stmts = append(stmts, r.Value)
			cur = r.Pos
			for cur < len(tokens) && isSeparator(tokens[cur]) {
				cur++
			}
		}
		return combinator.Success(&ast.CommandList{Statements: stmts}, cur)
	}
}

func (g *Grammar) buildTopLevel() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		r := g.StatementList(tokens, pos)
		return combinator.Success[ast.Node](&ast.TopLevel{Items: r.Value.Statements}, r.Pos)
	}
}

// reparseStatementList re-parses a captured sub-slice as a
// statement_list, for use by control structures that collect their
// body as a raw token slice (spec §4.5 "re-parsed as a
// statement_list").
func (g *Grammar) reparseStatementList(sub []token.Token) (*ast.CommandList, error) {
	r := g.StatementList(sub, 0)
	if r.Failed {
		return nil, newError(UnexpectedToken, r.ErrorPos, "", r.Error)
	}
	if r.Pos < len(sub) {
		msg := "unexpected token"
		if sr := g.statement.Parser()(sub, r.Pos); sr.Failed {
			msg = sr.Error
		}
		return nil, newError(UnexpectedToken, r.Pos, sub[r.Pos].Value, "%s", msg)
	}
	return r.Value, nil
}

// noSpecialForms is the fallback used when every special-command form
// (arithmetic, enhanced test, arrays, process substitution) has been
// disabled via Options, so Choice always has at least one parser to
// call and never falls through to a zero Result (whose Failed field
// would be false).
func noSpecialForms(tokens []token.Token, pos int) combinator.Result[ast.Node] {
	return combinator.Failure[ast.Node]("no special command forms enabled", pos)
}

// Command exposes the composite command parser (control | special |
// and_or_list, spec §4.7) for callers that want to parse a single
// command rather than a full statement list — e.g. can_parse-style
// probes against a sub-expression.
func (g *Grammar) Command() combinator.Parser[ast.Node] { return g.command.Parser() }
