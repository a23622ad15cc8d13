package parser

import (
	"strconv"

	"github.com/pshgo/shparse/ast"
	"github.com/pshgo/shparse/combinator"
	"github.com/pshgo/shparse/token"
)

// L5: control-structure parsers (spec §4.5).

// ifConditional implements if/elif/else/fi (spec §4.5.1).
func (g *Grammar) ifConditional() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		cur := pos
		if cur >= len(tokens) {
			return combinator.Failure[ast.Node]("expected 'if'", pos)
		}
		t := tokens[cur]
		if !token.MatchesKeyword(&t, "if") {
			return combinator.Failure[ast.Node]("expected 'if'", pos)
		}
		cur++

		condTokens, thenPos, _, ok := collectUntilAnyKeyword(tokens, cur, []string{"then"}, "if", "fi")
		if !ok {
			return combinator.Failure[ast.Node]("missing 'then'", pos)
		}
		if len(condTokens) > 0 {
			last := condTokens[len(condTokens)-1]
			if !isSeparator(last) {
				return combinator.Failure[ast.Node]("missing separator before 'then'", pos)
			}
		}
		cond, err := g.reparseStatementList(condTokens)
		if err != nil {
			return combinator.Failure[ast.Node](wrapContext("in if condition", err).Error(), pos)
		}
		cur = thenPos + 1

		thenTokens, nextPos, which, ok := collectUntilAnyKeyword(tokens, cur, []string{"elif", "else", "fi"}, "if", "fi")
		if !ok {
			return combinator.Failure[ast.Node](wrapContext("in if statement", newError(MissingTerminator, pos, "", "missing 'fi' to close if statement")).Error(), pos)
		}
		thenBody, err := g.reparseStatementList(thenTokens)
		if err != nil {
			return combinator.Failure[ast.Node](wrapContext("in then body", err).Error(), pos)
		}
		cur = nextPos

		node := &ast.IfConditional{Condition: condAsNode(cond), ThenPart: condAsNode(thenBody)}

		for which == "elif" {
			cur++ // consume elif
			eCondTokens, eThenPos, _, ok := collectUntilAnyKeyword(tokens, cur, []string{"then"}, "if", "fi")
			if !ok {
				return combinator.Failure[ast.Node]("missing 'then' in elif", pos)
			}
			eCond, err := g.reparseStatementList(eCondTokens)
			if err != nil {
				return combinator.Failure[ast.Node](wrapContext("in elif condition", err).Error(), pos)
			}
			cur = eThenPos + 1
			eBodyTokens, ePos, nextWhich, ok := collectUntilAnyKeyword(tokens, cur, []string{"elif", "else", "fi"}, "if", "fi")
			if !ok {
				return combinator.Failure[ast.Node](wrapContext("in elif body", newError(MissingTerminator, pos, "", "missing 'fi' to close if statement")).Error(), pos)
			}
			eBody, err := g.reparseStatementList(eBodyTokens)
			if err != nil {
				return combinator.Failure[ast.Node](wrapContext("in elif body", err).Error(), pos)
			}
			node.ElifParts = append(node.ElifParts, ast.ElifPart{Condition: condAsNode(eCond), Body: condAsNode(eBody)})
			cur = ePos
			which = nextWhich
		}

		if which == "else" {
			cur++ // consume else
			elseTokens, fiPos, ok := collectUntilKeyword(tokens, cur, "fi", "if")
			if !ok {
				return combinator.Failure[ast.Node](wrapContext("in else body", newError(MissingTerminator, pos, "", "missing 'fi' to close if statement")).Error(), pos)
			}
			elseBody, err := g.reparseStatementList(elseTokens)
			if err != nil {
				return combinator.Failure[ast.Node](wrapContext("in else body", err).Error(), pos)
			}
			node.ElsePart = condAsNode(elseBody)
			cur = fiPos
		}
		// cur now at 'fi'
		cur++
		cur = attachTrailing(tokens, cur, &node.Redirects, &node.Background)
		return combinator.Success[ast.Node](node, cur)
	}
}

func condAsNode(cl *ast.CommandList) ast.Node { return cl }

// whileLoop / untilLoop: `while COND ; do BODY ; done` (spec §4.5.2).
func (g *Grammar) whileLoop() combinator.Parser[ast.Node] {
	return g.loopLike("while", func(cond, body ast.Node) ast.Node {
		return &ast.WhileLoop{Condition: cond, Body: body}
	})
}

func (g *Grammar) untilLoop() combinator.Parser[ast.Node] {
	return g.loopLike("until", func(cond, body ast.Node) ast.Node {
		return &ast.UntilLoop{Condition: cond, Body: body}
	})
}

func (g *Grammar) loopLike(kw string, build func(cond, body ast.Node) ast.Node) combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		if pos >= len(tokens) {
			return combinator.Failure[ast.Node]("expected '"+kw+"'", pos)
		}
		t := tokens[pos]
		if !token.MatchesKeyword(&t, kw) {
			return combinator.Failure[ast.Node]("expected '"+kw+"'", pos)
		}
		cur := pos + 1
		condTokens, doPos, ok := collectUntilKeyword(tokens, cur, "do", kw)
		if !ok {
			return combinator.Failure[ast.Node](newError(MissingKeyword, pos, "", "missing 'do'").Error(), pos)
		}
		cond, err := g.reparseStatementList(condTokens)
		if err != nil {
			return combinator.Failure[ast.Node](wrapContext("in "+kw+" condition", err).Error(), pos)
		}
		cur = doPos + 1
		bodyTokens, donePos, ok := collectUntilKeyword(tokens, cur, "done", "do")
		if !ok {
			return combinator.Failure[ast.Node](newError(MissingTerminator, pos, "", "missing 'done' to close "+kw+" loop").Error(), pos)
		}
		body, err := g.reparseStatementList(bodyTokens)
		if err != nil {
			return combinator.Failure[ast.Node](wrapContext("in "+kw+" body", err).Error(), pos)
		}
		return combinator.Success(build(condAsNode(cond), condAsNode(body)), donePos+1)
	}
}

// forLoop implements the traditional for-in loop (spec §4.5.3). It
// fails on DOUBLE_LPAREN rather than overlapping with the C-style
// form, which cStyleForLoop (tried before it in the Choice) handles.
func (g *Grammar) forLoop() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		if pos >= len(tokens) {
			return combinator.Failure[ast.Node]("expected 'for'", pos)
		}
		t := tokens[pos]
		if !token.MatchesKeyword(&t, "for") {
			return combinator.Failure[ast.Node]("expected 'for'", pos)
		}
		cur := pos + 1
		if cur < len(tokens) && tokens[cur].Kind == token.DOUBLE_LPAREN {
			return combinator.Failure[ast.Node]("C-style for, not traditional", pos)
		}
		if cur >= len(tokens) || tokens[cur].Kind != token.WORD {
			return combinator.Failure[ast.Node]("expected loop variable", pos)
		}
		variable := tokens[cur].Value
		cur++

		for cur < len(tokens) && isSeparator(tokens[cur]) {
			cur++
		}

		var items []string
		var quoteTypes []*token.QuoteChar
		if cur < len(tokens) {
			inTok := tokens[cur]
			if token.MatchesKeyword(&inTok, "in") {
				cur++
				for cur < len(tokens) {
					tt := tokens[cur]
					if isSeparator(tt) {
						break
					}
					doTok := tt
					if token.MatchesKeyword(&doTok, "do") {
						break
					}
					if !tt.IsWordLike() {
						break
					}
					w, err := buildWordFromToken(tt, g.Options.BuildWordASTNodes)
					if err != nil {
						return combinator.Failure[ast.Node](err.Error(), pos)
					}
					items = append(items, flattenWordText(w, tt))
					quoteTypes = append(quoteTypes, w.QuoteType)
					cur++
				}
			}
		}
		if items == nil {
			items = []string{"$@"}
			dq := token.DoubleQuote
			quoteTypes = []*token.QuoteChar{&dq}
		}

		for cur < len(tokens) && isSeparator(tokens[cur]) {
			cur++
		}
		if cur >= len(tokens) {
			return combinator.Failure[ast.Node](newError(MissingKeyword, pos, "", "missing 'do'").Error(), pos)
		}
		doTok := tokens[cur]
		if !token.MatchesKeyword(&doTok, "do") {
			return combinator.Failure[ast.Node](newError(MissingKeyword, pos, "", "missing 'do'").Error(), pos)
		}
		cur++
		bodyTokens, donePos, ok := collectUntilKeyword(tokens, cur, "done", "do")
		if !ok {
			return combinator.Failure[ast.Node](newError(MissingTerminator, pos, "", "missing 'done' to close for loop").Error(), pos)
		}
		body, err := g.reparseStatementList(bodyTokens)
		if err != nil {
			return combinator.Failure[ast.Node](wrapContext("in for body", err).Error(), pos)
		}
		return combinator.Success[ast.Node](&ast.ForLoop{
			Variable: variable, Items: items, ItemQuoteTypes: quoteTypes, Body: body,
		}, donePos+1)
	}
}

func flattenWordText(w *ast.Word, t token.Token) string {
	return displayForm(t)
}

// cStyleForLoop implements `for (( init; cond; update )) ; do BODY ; done`
// (spec §4.5.3).
func (g *Grammar) cStyleForLoop() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		if pos >= len(tokens) {
			return combinator.Failure[ast.Node]("expected 'for'", pos)
		}
		t := tokens[pos]
		if !token.MatchesKeyword(&t, "for") {
			return combinator.Failure[ast.Node]("expected 'for'", pos)
		}
		cur := pos + 1
		if cur >= len(tokens) || tokens[cur].Kind != token.DOUBLE_LPAREN {
			return combinator.Failure[ast.Node]("not a C-style for", pos)
		}
		cur++
		exprTokens, endPos, ok := collectUntilDoubleRparen(tokens, cur)
		if !ok {
			return combinator.Failure[ast.Node](newError(MissingTerminator, pos, "", "missing '))' in C-style for").Error(), pos)
		}
		slots := splitOnSemicolon(exprTokens)
		for len(slots) < 3 {
			slots = append(slots, nil)
		}
		init := slotExpr(slots[0])
		condE := slotExpr(slots[1])
		update := slotExpr(slots[2])
		cur = endPos + 1

		for cur < len(tokens) && isSeparator(tokens[cur]) {
			cur++
		}
		if cur >= len(tokens) {
			return combinator.Failure[ast.Node](newError(MissingKeyword, pos, "", "missing 'do'").Error(), pos)
		}
		doTok := tokens[cur]
		if !token.MatchesKeyword(&doTok, "do") {
			return combinator.Failure[ast.Node](newError(MissingKeyword, pos, "", "missing 'do'").Error(), pos)
		}
		cur++
		bodyTokens, donePos, ok := collectUntilKeyword(tokens, cur, "done", "do")
		if !ok {
			return combinator.Failure[ast.Node](newError(MissingTerminator, pos, "", "missing 'done' to close for loop").Error(), pos)
		}
		body, err := g.reparseStatementList(bodyTokens)
		if err != nil {
			return combinator.Failure[ast.Node](wrapContext("in for body", err).Error(), pos)
		}
		return combinator.Success[ast.Node](&ast.CStyleForLoop{
			InitExpr: init, ConditionExpr: condE, UpdateExpr: update, Body: body,
		}, donePos+1)
	}
}

func splitOnSemicolon(tokens []token.Token) [][]token.Token {
	var out [][]token.Token
	var cur []token.Token
	for _, t := range tokens {
		if t.Kind == token.SEMICOLON {
			out = append(out, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	out = append(out, cur)
	return out
}

func slotExpr(tokens []token.Token) *string {
	if len(tokens) == 0 {
		return nil
	}
	s := joinTokenValues(tokens)
	if s == "" {
		return nil
	}
	return &s
}

// selectLoop: `select NAME in ITEMS; do BODY; done` (spec §4.5.5).
func (g *Grammar) selectLoop() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		if pos >= len(tokens) {
			return combinator.Failure[ast.Node]("expected 'select'", pos)
		}
		t := tokens[pos]
		if !token.MatchesKeyword(&t, "select") {
			return combinator.Failure[ast.Node]("expected 'select'", pos)
		}
		cur := pos + 1
		if cur >= len(tokens) || tokens[cur].Kind != token.WORD {
			return combinator.Failure[ast.Node]("expected loop variable", pos)
		}
		variable := tokens[cur].Value
		cur++
		var items []string
		var quoteTypes []*token.QuoteChar
		if cur < len(tokens) {
			inTok := tokens[cur]
			if token.MatchesKeyword(&inTok, "in") {
				cur++
				for cur < len(tokens) {
					tt := tokens[cur]
					if isSeparator(tt) {
						break
					}
					doTok := tt
					if token.MatchesKeyword(&doTok, "do") {
						break
					}
					if !tt.IsWordLike() {
						break
					}
					w, err := buildWordFromToken(tt, g.Options.BuildWordASTNodes)
					if err != nil {
						return combinator.Failure[ast.Node](err.Error(), pos)
					}
					items = append(items, displayForm(tt))
					quoteTypes = append(quoteTypes, w.QuoteType)
					cur++
				}
			}
		}
		for cur < len(tokens) && isSeparator(tokens[cur]) {
			cur++
		}
		if cur >= len(tokens) {
			return combinator.Failure[ast.Node](newError(MissingKeyword, pos, "", "missing 'do'").Error(), pos)
		}
		doTok := tokens[cur]
		if !token.MatchesKeyword(&doTok, "do") {
			return combinator.Failure[ast.Node](newError(MissingKeyword, pos, "", "missing 'do'").Error(), pos)
		}
		cur++
		bodyTokens, donePos, ok := collectUntilKeyword(tokens, cur, "done", "do")
		if !ok {
			return combinator.Failure[ast.Node](newError(MissingTerminator, pos, "", "missing 'done' to close select loop").Error(), pos)
		}
		body, err := g.reparseStatementList(bodyTokens)
		if err != nil {
			return combinator.Failure[ast.Node](wrapContext("in select body", err).Error(), pos)
		}
		return combinator.Success[ast.Node](&ast.SelectLoop{
			Variable: variable, Items: items, ItemQuoteTypes: quoteTypes, Body: body,
		}, donePos+1)
	}
}

// breakStatement / continueStatement: `break [N]` / `continue [N]`
// (spec §4.5.6).
func (g *Grammar) breakStatement() combinator.Parser[ast.Node] {
	return jumpStatement("break", func(n int) ast.Node { return &ast.BreakStatement{Level: n} })
}

func (g *Grammar) continueStatement() combinator.Parser[ast.Node] {
	return jumpStatement("continue", func(n int) ast.Node { return &ast.ContinueStatement{Level: n} })
}

func jumpStatement(kw string, build func(int) ast.Node) combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		if pos >= len(tokens) {
			return combinator.Failure[ast.Node]("expected '"+kw+"'", pos)
		}
		t := tokens[pos]
		if !token.MatchesKeyword(&t, kw) {
			return combinator.Failure[ast.Node]("expected '"+kw+"'", pos)
		}
		cur := pos + 1
		level := 1
		if cur < len(tokens) && tokens[cur].Kind == token.WORD {
			if n, err := strconv.Atoi(tokens[cur].Value); err == nil {
				level = n
				cur++
			}
		}
		return combinator.Success(build(level), cur)
	}
}

// subshellGroup / braceGroup (spec §4.5.7).
func (g *Grammar) subshellGroup() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		if pos >= len(tokens) || tokens[pos].Kind != token.LPAREN {
			return combinator.Failure[ast.Node]("expected '('", pos)
		}
		body, endPos, ok := collectUntilParen(tokens, pos+1)
		if !ok {
			return combinator.Failure[ast.Node](newError(MissingTerminator, pos, "", "missing ')' to close subshell").Error(), pos)
		}
		stmts, err := g.reparseStatementList(body)
		if err != nil {
			return combinator.Failure[ast.Node](wrapContext("in subshell", err).Error(), pos)
		}
		cur := endPos + 1
		node := &ast.SubshellGroup{Statements: stmts.Statements}
		cur = attachTrailing(tokens, cur, &node.Redirects, nil)
		return combinator.Success[ast.Node](node, cur)
	}
}

func (g *Grammar) braceGroup() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		if pos >= len(tokens) || tokens[pos].Kind != token.LBRACE {
			return combinator.Failure[ast.Node]("expected '{'", pos)
		}
		body, endPos, ok := collectUntilBrace(tokens, pos+1)
		if !ok {
			return combinator.Failure[ast.Node](newError(MissingTerminator, pos, "", "missing '}' to close brace group").Error(), pos)
		}
		stmts, err := g.reparseStatementList(body)
		if err != nil {
			return combinator.Failure[ast.Node](wrapContext("in brace group", err).Error(), pos)
		}
		cur := endPos + 1
		node := &ast.BraceGroup{Statements: stmts.Statements}
		cur = attachTrailing(tokens, cur, &node.Redirects, nil)
		return combinator.Success[ast.Node](node, cur)
	}
}

// attachTrailing consumes any trailing redirects (and optionally a
// background '&') after a compound command, per spec §4.5.7 and the
// Redirects/Background fields carried by most control-structure
// nodes.
func attachTrailing(tokens []token.Token, pos int, redirects *[]*ast.Redirect, background *bool) int {
	cur := pos
	for {
		r := parseRedirect(tokens, cur)
		if r.Failed {
			break
		}
		*redirects = append(*redirects, r.Value)
		cur = r.Pos
	}
	if background != nil && cur < len(tokens) && tokens[cur].Kind == token.AMPERSAND {
		*background = true
		cur++
	}
	return cur
}

// functionDef implements the three accepted forms (spec §4.5.8):
//  1. NAME () { BODY }
//  2. function NAME { BODY }
//  3. function NAME () { BODY }
func (g *Grammar) functionDef() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		cur := pos

		// Form 1: NAME () { BODY } -- most specific, tried first.
		if cur < len(tokens) && tokens[cur].Kind == token.WORD &&
			cur+2 < len(tokens) && tokens[cur+1].Kind == token.LPAREN && tokens[cur+2].Kind == token.RPAREN {
			name := tokens[cur].Value
			if isValidFunctionName(name) {
				bodyStart := cur + 3
				if node, newPos, ok := g.functionBody(tokens, bodyStart, name); ok {
					return combinator.Success[ast.Node](node, newPos)
				}
			}
		}

		// Forms 2 & 3: function NAME [()] { BODY }
		if cur < len(tokens) {
			t := tokens[cur]
			if token.MatchesKeyword(&t, "function") {
				next := cur + 1
				if next < len(tokens) && tokens[next].Kind == token.WORD {
					name := tokens[next].Value
					if isValidFunctionName(name) {
						bodyStart := next + 1
						if bodyStart+1 < len(tokens) && tokens[bodyStart].Kind == token.LPAREN && tokens[bodyStart+1].Kind == token.RPAREN {
							bodyStart += 2
						}
						if node, newPos, ok := g.functionBody(tokens, bodyStart, name); ok {
							return combinator.Success[ast.Node](node, newPos)
						}
					}
				}
			}
		}

		return combinator.Failure[ast.Node]("expected function definition", pos)
	}
}

func (g *Grammar) functionBody(tokens []token.Token, bodyStart int, name string) (ast.Node, int, bool) {
	if bodyStart >= len(tokens) || tokens[bodyStart].Kind != token.LBRACE {
		return nil, 0, false
	}
	body, endPos, ok := collectUntilBrace(tokens, bodyStart+1)
	if !ok {
		return nil, 0, false
	}
	stmts, err := g.reparseStatementList(body)
	if err != nil {
		return nil, 0, false
	}
	return &ast.FunctionDef{Name: name, Body: &ast.StatementList{Statements: stmts.Statements}}, endPos + 1, true
}
