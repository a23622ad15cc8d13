package parser

import (
	"github.com/pshgo/shparse/ast"
	"github.com/pshgo/shparse/combinator"
	"github.com/pshgo/shparse/token"
)

// caseConditional implements `case EXPR in (PATTERNS) CMDS TERM ... esac`
// (spec §4.5.4), tracking nested-case depth so an inner `esac` does
// not close the outer case.
func (g *Grammar) caseConditional() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		if pos >= len(tokens) {
			return combinator.Failure[ast.Node]("expected 'case'", pos)
		}
		t := tokens[pos]
		if !token.MatchesKeyword(&t, "case") {
			return combinator.Failure[ast.Node]("expected 'case'", pos)
		}
		cur := pos + 1
		if cur >= len(tokens) || !tokens[cur].IsWordLike() {
			return combinator.Failure[ast.Node]("expected case expression", pos)
		}
		exprTok := tokens[cur]
		w, err := buildWordFromToken(exprTok, g.Options.BuildWordASTNodes)
		if err != nil {
			return combinator.Failure[ast.Node](err.Error(), pos)
		}
		_ = w
		expr := displayForm(exprTok)
		cur++

		for cur < len(tokens) && isSeparator(tokens[cur]) {
			cur++
		}
		if cur >= len(tokens) {
			return combinator.Failure[ast.Node](newError(MissingKeyword, pos, "", "missing 'in'").Error(), pos)
		}
		inTok := tokens[cur]
		if !token.MatchesKeyword(&inTok, "in") {
			return combinator.Failure[ast.Node](newError(MissingKeyword, pos, "", "missing 'in'").Error(), pos)
		}
		cur++
		for cur < len(tokens) && isSeparator(tokens[cur]) {
			cur++
		}

		var items []*ast.CaseItem
		for cur < len(tokens) {
			esacTok := tokens[cur]
			if token.MatchesKeyword(&esacTok, "esac") {
				break
			}
			item, newPos, err := g.caseItem(tokens, cur)
			if err != nil {
				return combinator.Failure[ast.Node](wrapContext("in case statement", err).Error(), pos)
			}
			items = append(items, item)
			cur = newPos
			for cur < len(tokens) && isSeparator(tokens[cur]) {
				cur++
			}
		}
		if cur >= len(tokens) {
			return combinator.Failure[ast.Node](newError(MissingTerminator, pos, "", "missing 'esac' to close case statement").Error(), pos)
		}
		cur++ // consume esac

		node := &ast.CaseConditional{Expr: expr, Items: items}
		cur = attachTrailing(tokens, cur, &node.Redirects, &node.Background)
		return combinator.Success[ast.Node](node, cur)
	}
}

// caseItem parses one `[(] PATTERN (| PATTERN)* ) CMDS TERM` group.
func (g *Grammar) caseItem(tokens []token.Token, pos int) (*ast.CaseItem, int, error) {
	cur := pos
	if cur < len(tokens) && tokens[cur].Kind == token.LPAREN {
		cur++
	}
	var patterns []string
	for {
		pat, newPos, err := parseCasePattern(tokens, cur)
		if err != nil {
			return nil, pos, err
		}
		patterns = append(patterns, pat)
		cur = newPos
		if cur < len(tokens) && tokens[cur].Kind == token.PIPE {
			cur++
			continue
		}
		break
	}
	if len(patterns) == 0 {
		return nil, pos, newError(UnexpectedToken, pos, "", "case item has no patterns")
	}
	if cur >= len(tokens) || tokens[cur].Kind != token.RPAREN {
		return nil, pos, newError(UnexpectedToken, pos, "", "expected ')' after case pattern")
	}
	cur++

	body, termPos, term, ok := scanCaseBody(tokens, cur)
	cmds, err := g.reparseStatementList(body)
	if err != nil {
		return nil, pos, wrapContext("in case item body", err)
	}
	cur = termPos
	if ok {
		cur += termTokenLen(term)
	}
	return &ast.CaseItem{Patterns: patterns, Commands: cmds, Terminator: term}, cur, nil
}

// parseCasePattern accepts a single word-like token, or a
// character-class glob beginning with '[' — concatenating tokens up
// to (and including) the one containing the closing ']', preserving
// trailing glob characters like "[a-z]*" (spec §4.5.4, §9).
func parseCasePattern(tokens []token.Token, pos int) (string, int, error) {
	if pos >= len(tokens) {
		return "", pos, newError(UnexpectedToken, pos, "", "expected case pattern")
	}
	if tokens[pos].Kind == token.LBRACKET {
		cur := pos
		out := ""
		for cur < len(tokens) {
			out += displayForm(tokens[cur])
			hasClose := false
			if tokens[cur].Kind == token.RBRACKET {
				hasClose = true
			}
			cur++
			if hasClose {
				for cur < len(tokens) && tokens[cur].AdjacentToPrevious && tokens[cur].IsWordLike() {
					out += displayForm(tokens[cur])
					cur++
				}
				break
			}
			if cur < len(tokens) && tokens[cur].Kind == token.RPAREN {
				break
			}
		}
		return out, cur, nil
	}
	if !tokens[pos].IsWordLike() {
		return "", pos, newError(UnexpectedToken, pos, "", "expected case pattern")
	}
	return displayForm(tokens[pos]), pos + 1, nil
}

// scanCaseBody collects tokens for one case item's command list,
// tracking nested `case ... esac` depth, stopping at the first
// DOUBLE_SEMICOLON / SEMICOLON_AMP / AMP_SEMICOLON at depth 0, or at
// `esac` (no explicit terminator — the body simply ends).
func scanCaseBody(tokens []token.Token, pos int) (sub []token.Token, endPos int, term string, foundTerm bool) {
	depth := 0
	cur := pos
	for cur < len(tokens) {
		t := tokens[cur]
		if token.MatchesKeyword(&t, "case") {
			depth++
			sub = append(sub, t)
			cur++
			continue
		}
		if depth > 0 {
			if token.MatchesKeyword(&t, "esac") {
				depth--
			}
			sub = append(sub, t)
			cur++
			continue
		}
		switch t.Kind {
		case token.DOUBLE_SEMICOLON:
			return sub, cur, ";;", true
		case token.SEMICOLON_AMP:
			return sub, cur, ";&", true
		case token.AMP_SEMICOLON:
			return sub, cur, ";;&", true
		}
		if token.MatchesKeyword(&t, "esac") {
			return sub, cur, "", false
		}
		// A new pattern group begins: a word-like token immediately
		// followed by ')', or '(' followed by a word-like token.
		// This only matters when recognizing where THIS item's body
		// ends without an explicit terminator (some shells allow
		// omitting ';;' before esac only; between items it is
		// required, so no extra lookahead is needed here).
		sub = append(sub, t)
		cur++
	}
	return sub, cur, "", false
}

func termTokenLen(term string) int {
	if term == "" {
		return 0
	}
	return 1
}
