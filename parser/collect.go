package parser

import "github.com/pshgo/shparse/token"

// collectUntilKeyword implements the uniform body-capture algorithm
// from spec §4.5: scan tokens from pos, tracking a nesting counter
// that increments on startKw and decrements on a nested endKw,
// returning the collected sub-slice and the index of the endKw token
// that matched at nesting depth 0 (not consumed).
func collectUntilKeyword(tokens []token.Token, pos int, endKw, startKw string) (sub []token.Token, endPos int, ok bool) {
	depth := 0
	cur := pos
	for cur < len(tokens) {
		t := tokens[cur]
		if startKw != "" && token.MatchesKeyword(&t, startKw) {
			depth++
			sub = append(sub, t)
			cur++
			continue
		}
		if token.MatchesKeyword(&t, endKw) {
			if depth == 0 {
				return sub, cur, true
			}
			depth--
			sub = append(sub, t)
			cur++
			continue
		}
		sub = append(sub, t)
		cur++
	}
	return sub, cur, false
}

// collectUntilAnyKeyword scans like collectUntilKeyword but stops at
// the first of several possible terminators, tracking nesting only
// for a same-grammar start/end pair (used by if/elif/else/fi, where
// a nested "if ... fi" must not confuse the search for this level's
// elif/else/fi). Returns the terminator keyword matched.
func collectUntilAnyKeyword(tokens []token.Token, pos int, ends []string, startKw, nestedEndKw string) (sub []token.Token, endPos int, matched string, ok bool) {
	depth := 0
	cur := pos
	for cur < len(tokens) {
		t := tokens[cur]
		if startKw != "" && token.MatchesKeyword(&t, startKw) {
			depth++
			sub = append(sub, t)
			cur++
			continue
		}
		if depth > 0 && nestedEndKw != "" && token.MatchesKeyword(&t, nestedEndKw) {
			depth--
			sub = append(sub, t)
			cur++
			continue
		}
		if depth == 0 {
			for _, end := range ends {
				if token.MatchesKeyword(&t, end) {
					return sub, cur, end, true
				}
			}
		}
		sub = append(sub, t)
		cur++
	}
	return sub, cur, "", false
}

// collectUntilDoubleRparen tracks LPAREN/RPAREN depth so nested
// parens don't prematurely close an arithmetic command or C-style
// for expression slot (spec §4.6.1). A DOUBLE_RPAREN token closes
// directly; two adjacent RPAREN tokens in separate tokens (a lexer
// that didn't fuse them) close the same way once depth would go
// negative.
func collectUntilDoubleRparen(tokens []token.Token, pos int) (sub []token.Token, endPos int, ok bool) {
	depth := 0
	cur := pos
	for cur < len(tokens) {
		t := tokens[cur]
		if t.Kind == token.DOUBLE_RPAREN && depth == 0 {
			return sub, cur, true
		}
		if t.Kind == token.LPAREN {
			depth++
		} else if t.Kind == token.RPAREN {
			if depth == 0 {
				if cur+1 < len(tokens) && tokens[cur+1].Kind == token.RPAREN {
					return sub, cur + 1, true
				}
				return sub, cur, true
			}
			depth--
		}
		sub = append(sub, t)
		cur++
	}
	return sub, cur, false
}

// collectUntilDoubleRbracket tracks DOUBLE_LBRACKET/DOUBLE_RBRACKET
// nesting for enhanced test bodies (spec §4.6.2).
func collectUntilDoubleRbracket(tokens []token.Token, pos int) (sub []token.Token, endPos int, ok bool) {
	depth := 0
	cur := pos
	for cur < len(tokens) {
		t := tokens[cur]
		if t.Kind == token.DOUBLE_RBRACKET {
			if depth == 0 {
				return sub, cur, true
			}
			depth--
		} else if t.Kind == token.DOUBLE_LBRACKET {
			depth++
		}
		sub = append(sub, t)
		cur++
	}
	return sub, cur, false
}

// collectUntilBrace tracks LBRACE/RBRACE nesting for brace groups and
// function bodies (spec §4.5.7, §4.5.8).
func collectUntilBrace(tokens []token.Token, pos int) (sub []token.Token, endPos int, ok bool) {
	depth := 0
	cur := pos
	for cur < len(tokens) {
		t := tokens[cur]
		if t.Kind == token.RBRACE {
			if depth == 0 {
				return sub, cur, true
			}
			depth--
		} else if t.Kind == token.LBRACE {
			depth++
		}
		sub = append(sub, t)
		cur++
	}
	return sub, cur, false
}

// collectUntilParen tracks LPAREN/RPAREN nesting for subshell groups
// (spec §4.5.7).
func collectUntilParen(tokens []token.Token, pos int) (sub []token.Token, endPos int, ok bool) {
	depth := 0
	cur := pos
	for cur < len(tokens) {
		t := tokens[cur]
		if t.Kind == token.RPAREN {
			if depth == 0 {
				return sub, cur, true
			}
			depth--
		} else if t.Kind == token.LPAREN {
			depth++
		}
		sub = append(sub, t)
		cur++
	}
	return sub, cur, false
}
