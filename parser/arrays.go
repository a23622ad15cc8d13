package parser

import (
	"strings"

	"github.com/pshgo/shparse/ast"
	"github.com/pshgo/shparse/combinator"
	"github.com/pshgo/shparse/token"
)

// arrayForm recognizes array initialization and element-assignment
// shapes (spec §4.6.3), including the shapes where the lexer has
// fused characters into a single WORD token.
func (g *Grammar) arrayForm() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		if pos >= len(tokens) || tokens[pos].Kind != token.WORD {
			return combinator.Failure[ast.Node]("expected array form", pos)
		}
		v := tokens[pos].Value

		// NAME=... / NAME+=... fused in one token.
		if name, isAppend, rest, ok := splitAssignPrefix(v); ok && isValidArrayName(name) {
			if rest == "" {
				// NAME= / NAME+= then '(' items ')' as separate tokens.
				if node, newPos, matched := g.arrayInitFromParen(tokens, pos+1, name, isAppend); matched {
					return combinator.Success[ast.Node](node, newPos)
				}
			} else if strings.HasPrefix(rest, "(") {
				// everything fused into one token: NAME=(a b c)
				if node, ok := parseFusedArrayInit(name, isAppend, rest); ok {
					return combinator.Success[ast.Node](node, pos+1)
				}
			} else {
				// NAME=VALUE -- not an array form, leave to SimpleCommand's
				// own assignment handling (out of CORE scope for plain
				// scalar assignment; only array forms are modeled here).
				return combinator.Failure[ast.Node]("not an array form", pos)
			}
		}

		// NAME[IDX]=VALUE shapes (value fused into the same token).
		if name, idx, isAppend, value, ok := splitArrayElementFused(v); ok && value != "" {
			vt, vq := token.WORD, (*token.QuoteChar)(nil)
			return combinator.Success[ast.Node](&ast.ArrayElementAssignment{
				Name: name, Index: idx, Value: value, ValueType: vt, ValueQuoteType: vq, IsAppend: isAppend,
			}, pos+1)
		}

		// NAME[IDX]= + value-token (two tokens): fused NAME[IDX]= with
		// separate following word.
		if name, idx, isAppend, rest, ok := splitArrayElementPrefix(v); ok && rest == "" {
			if pos+1 < len(tokens) && tokens[pos+1].IsWordLike() {
				valTok := tokens[pos+1]
				w, err := buildWordFromToken(valTok, g.Options.BuildWordASTNodes)
				if err != nil {
					return combinator.Failure[ast.Node](err.Error(), pos)
				}
				return combinator.Success[ast.Node](&ast.ArrayElementAssignment{
					Name: name, Index: idx, Value: displayForm(valTok),
					ValueType: valTok.Kind, ValueQuoteType: w.QuoteType, IsAppend: isAppend,
				}, pos+2)
			}
		}

		// NAME [ IDX ] =/+= VALUE (five-plus tokens).
		if tokens[pos].Kind == token.WORD && isValidArrayName(v) {
			if node, newPos, matched := g.arrayElementMultiToken(tokens, pos); matched {
				return combinator.Success[ast.Node](node, newPos)
			}
		}

		return combinator.Failure[ast.Node]("not an array form", pos)
	}
}

func isValidArrayName(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	if !(first == '_' || (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

// splitAssignPrefix splits "NAME=REST" or "NAME+=REST".
func splitAssignPrefix(v string) (name string, isAppend bool, rest string, ok bool) {
	if idx := strings.Index(v, "+="); idx >= 0 {
		return v[:idx], true, v[idx+2:], true
	}
	if idx := strings.Index(v, "="); idx >= 0 {
		return v[:idx], false, v[idx+1:], true
	}
	return "", false, "", false
}

// splitArrayElementFused splits a fully-fused "NAME[IDX]=VALUE" or
// "NAME[IDX]+=VALUE" token, allowing negative indices and "@"
// (SPEC_FULL.md supplemental feature 5).
func splitArrayElementFused(v string) (name, idx string, isAppend bool, value string, ok bool) {
	lb := strings.Index(v, "[")
	if lb < 0 {
		return
	}
	rb := strings.Index(v[lb:], "]")
	if rb < 0 {
		return
	}
	rb += lb
	name = v[:lb]
	if !isValidArrayName(name) {
		return "", "", false, "", false
	}
	idx = v[lb+1 : rb]
	rest := v[rb+1:]
	if strings.HasPrefix(rest, "+=") {
		return name, idx, true, rest[2:], true
	}
	if strings.HasPrefix(rest, "=") {
		return name, idx, false, rest[1:], true
	}
	return "", "", false, "", false
}

// splitArrayElementPrefix returns splitArrayElementFused's result;
// arrayForm uses it for the case where the value is empty (the value
// arrives as a separate following token).
func splitArrayElementPrefix(v string) (name, idx string, isAppend bool, rest string, ok bool) {
	n, i, app, val, matched := splitArrayElementFused(v)
	return n, i, app, val, matched
}

func parseFusedArrayInit(name string, isAppend bool, rest string) (*ast.ArrayInitialization, bool) {
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return nil, false
	}
	inner := strings.TrimSpace(rest[1 : len(rest)-1])
	var elements []string
	if inner != "" {
		elements = strings.Fields(inner)
	}
	return &ast.ArrayInitialization{Name: name, Elements: elements, IsAppend: isAppend}, true
}

// arrayInitFromParen parses "(" items ")" as separate tokens after a
// fused "NAME=" / "NAME+=" prefix.
func (g *Grammar) arrayInitFromParen(tokens []token.Token, pos int, name string, isAppend bool) (*ast.ArrayInitialization, int, bool) {
	if pos >= len(tokens) || tokens[pos].Kind != token.LPAREN {
		return nil, pos, false
	}
	cur := pos + 1
	node := &ast.ArrayInitialization{Name: name, IsAppend: isAppend}
	for cur < len(tokens) && tokens[cur].Kind != token.RPAREN {
		t := tokens[cur]
		if !t.IsWordLike() {
			break
		}
		w, err := buildWordFromToken(t, g.Options.BuildWordASTNodes)
		if err != nil {
			return nil, pos, false
		}
		node.Elements = append(node.Elements, displayForm(t))
		node.ElementTypes = append(node.ElementTypes, t.Kind)
		node.ElementQuoteTypes = append(node.ElementQuoteTypes, w.QuoteType)
		cur++
	}
	if cur >= len(tokens) || tokens[cur].Kind != token.RPAREN {
		return nil, pos, false
	}
	return node, cur + 1, true
}

// arrayElementMultiToken parses `NAME [ IDX ] =/+= VALUE` spread
// across five or more tokens.
func (g *Grammar) arrayElementMultiToken(tokens []token.Token, pos int) (*ast.ArrayElementAssignment, int, bool) {
	cur := pos
	name := tokens[cur].Value
	cur++
	if cur >= len(tokens) || tokens[cur].Kind != token.LBRACKET {
		return nil, pos, false
	}
	cur++
	var idxParts []string
	for cur < len(tokens) && tokens[cur].Kind != token.RBRACKET {
		idxParts = append(idxParts, displayForm(tokens[cur]))
		cur++
	}
	if cur >= len(tokens) || tokens[cur].Kind != token.RBRACKET {
		return nil, pos, false
	}
	cur++
	idx := strings.Join(idxParts, "")
	if cur >= len(tokens) {
		return nil, pos, false
	}
	isAppend := false
	v := tokens[cur].Value
	if v == "+=" {
		isAppend = true
	} else if v != "=" {
		return nil, pos, false
	}
	cur++
	if cur >= len(tokens) || !tokens[cur].IsWordLike() {
		return nil, pos, false
	}
	valTok := tokens[cur]
	w, err := buildWordFromToken(valTok, g.Options.BuildWordASTNodes)
	if err != nil {
		return nil, pos, false
	}
	return &ast.ArrayElementAssignment{
		Name: name, Index: idx, Value: displayForm(valTok),
		ValueType: valTok.Kind, ValueQuoteType: w.QuoteType, IsAppend: isAppend,
	}, cur + 1, true
}
