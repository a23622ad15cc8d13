package parser

import (
	"github.com/pshgo/shparse/ast"
	"github.com/pshgo/shparse/combinator"
	"github.com/pshgo/shparse/token"
)

// L6: special-command parsers — arithmetic command, enhanced test,
// array forms, standalone process substitution (spec §4.6).

// arithmeticCommand implements `(( EXPR ))` (spec §4.6.1).
func (g *Grammar) arithmeticCommand() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		if pos >= len(tokens) || tokens[pos].Kind != token.DOUBLE_LPAREN {
			return combinator.Failure[ast.Node]("expected '(('", pos)
		}
		body, endPos, ok := collectUntilDoubleRparen(tokens, pos+1)
		if !ok {
			return combinator.Failure[ast.Node](newError(MissingTerminator, pos, "", "missing '))' to close arithmetic command").Error(), pos)
		}
		expr := joinTokenValues(body)
		cur := endPos + 1
		node := &ast.ArithmeticEvaluation{Expression: expr}
		cur = attachTrailing(tokens, cur, &node.Redirects, &node.Background)
		return combinator.Success[ast.Node](node, cur)
	}
}

var binaryTestOps = map[string]bool{
	"==": true, "!=": true, "=": true, "<": true, ">": true, "=~": true,
	"-eq": true, "-ne": true, "-lt": true, "-le": true, "-gt": true, "-ge": true,
}

// enhancedTest implements `[[ ... ]]` (spec §4.6.2). When
// Options.ParsingMode is not StrictPosix, compound &&/|| expressions
// build real CompoundTestExpression nodes (SPEC_FULL.md supplemental
// feature 3); strict_posix keeps the MVP single-binary-expression
// shape.
func (g *Grammar) enhancedTest() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		if pos >= len(tokens) || tokens[pos].Kind != token.DOUBLE_LBRACKET {
			return combinator.Failure[ast.Node]("expected '[['", pos)
		}
		body, endPos, ok := collectUntilDoubleRbracket(tokens, pos+1)
		if !ok {
			return combinator.Failure[ast.Node](newError(MissingTerminator, pos, "", "missing ']]' to close enhanced test").Error(), pos)
		}
		var expr ast.TestExpression
		if g.Options.ParsingMode == StrictPosix {
			expr = parseTestExpressionMVP(body)
		} else {
			expr = parseTestExpressionCompound(body)
		}
		cur := endPos + 1
		node := &ast.EnhancedTestStatement{Expression: expr}
		cur = attachTrailing(tokens, cur, &node.Redirects, nil)
		return combinator.Success[ast.Node](node, cur)
	}
}

// parseTestExpressionMVP is the spec §4.6.2 MVP shape: leading '!'
// negates; 3-token binary; 2-token unary; 1-token unary -n; longer
// sequences fall back to one binary expression whose right side is
// the space-joined remainder.
func parseTestExpressionMVP(tokens []token.Token) ast.TestExpression {
	if len(tokens) == 0 {
		return &ast.UnaryTestExpression{Operator: "-n", Operand: ""}
	}
	if tokens[0].Kind == token.EXCLAMATION {
		return &ast.NegatedTestExpression{Expression: parseTestExpressionMVP(tokens[1:])}
	}
	switch len(tokens) {
	case 1:
		return &ast.UnaryTestExpression{Operator: "-n", Operand: displayForm(tokens[0])}
	case 2:
		op := tokens[0].Value
		if len(op) == 2 && op[0] == '-' {
			return &ast.UnaryTestExpression{Operator: op, Operand: displayForm(tokens[1])}
		}
	case 3:
		op := tokens[1].Value
		if binaryTestOps[op] {
			return &ast.BinaryTestExpression{Left: displayForm(tokens[0]), Operator: op, Right: displayForm(tokens[2])}
		}
	}
	// Fallback: binary whose right is the space-joined remainder.
	if len(tokens) >= 2 {
		return &ast.BinaryTestExpression{
			Left:     displayForm(tokens[0]),
			Operator: tokens[1].Value,
			Right:    joinTokenValues(tokens[2:]),
		}
	}
	return &ast.UnaryTestExpression{Operator: "-n", Operand: joinTokenValues(tokens)}
}

// parseTestExpressionCompound implements a small precedence climb
// for &&/|| inside [[ ]] (&& binds tighter, both left-associative),
// grounded on psh's conditionals.py (SPEC_FULL.md supplemental
// feature 3). Falls back to parseTestExpressionMVP's leaf logic for
// operand groups with no top-level &&/||.
func parseTestExpressionCompound(tokens []token.Token) ast.TestExpression {
	orGroups := splitTestTokens(tokens, token.OR_IF)
	if len(orGroups) > 1 {
		expr := parseAndGroup(orGroups[0])
		for _, g := range orGroups[1:] {
			expr = &ast.CompoundTestExpression{Left: expr, Operator: "||", Right: parseAndGroup(g)}
		}
		return expr
	}
	return parseAndGroup(tokens)
}

func parseAndGroup(tokens []token.Token) ast.TestExpression {
	andGroups := splitTestTokens(tokens, token.AND_IF)
	if len(andGroups) > 1 {
		expr := parseTestExpressionMVP(andGroups[0])
		for _, g := range andGroups[1:] {
			expr = &ast.CompoundTestExpression{Left: expr, Operator: "&&", Right: parseTestExpressionMVP(g)}
		}
		return expr
	}
	return parseTestExpressionMVP(tokens)
}

func splitTestTokens(tokens []token.Token, sep token.Kind) [][]token.Token {
	var out [][]token.Token
	var cur []token.Token
	for _, t := range tokens {
		if t.Kind == sep {
			out = append(out, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	out = append(out, cur)
	return out
}

// processSubstitutionStandalone decodes a lone PROCESS_SUB_IN/OUT
// token at statement position into a SimpleCommand whose sole word
// is the process substitution (spec §4.6.4). Most process
// substitutions appear as a SimpleCommand argument via
// groupAdjacentWords; this handles the rarer case where one appears
// where a whole command is expected.
func (g *Grammar) processSubstitutionStandalone() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		if pos >= len(tokens) {
			return combinator.Failure[ast.Node]("expected process substitution", pos)
		}
		k := tokens[pos].Kind
		if k != token.PROCESS_SUB_IN && k != token.PROCESS_SUB_OUT {
			return combinator.Failure[ast.Node]("expected process substitution", pos)
		}
		w, err := buildWordFromToken(tokens[pos], g.Options.BuildWordASTNodes)
		if err != nil {
			return combinator.Failure[ast.Node](err.Error(), pos)
		}
		cmd := &ast.SimpleCommand{
			Args:       []string{displayForm(tokens[pos])},
			Words:      []*ast.Word{w},
			ArgTypes:   []token.Kind{k},
			QuoteTypes: []*token.QuoteChar{nil},
		}
		return combinator.Success[ast.Node](cmd, pos+1)
	}
}
