package parser

import (
	"regexp"
	"strconv"

	"github.com/pshgo/shparse/combinator"
	"github.com/pshgo/shparse/token"
)

// L2: single-token recognizers and composite token-kind recognizers.
// Grounded on the teacher's tokens.go / the lexer-facing half of
// parser.go, generalized into the combinator framework per spec §4.2.

func tok(k token.Kind) combinator.Parser[token.Token] { return combinator.Token(k) }

// wordLike accepts any token that can stand as (part of) a command
// word: WORD, STRING, VARIABLE, all expansions, and RETURN.
func wordLike(tokens []token.Token, pos int) combinator.Result[token.Token] {
	if pos >= len(tokens) || !tokens[pos].IsWordLike() {
		return combinator.Failure[token.Token]("expected word-like token", pos)
	}
	return combinator.Success(tokens[pos], pos+1)
}

// statementTerminator matches ';' or newline.
func statementTerminator(tokens []token.Token, pos int) combinator.Result[token.Token] {
	if pos >= len(tokens) {
		return combinator.Failure[token.Token]("expected statement terminator", pos)
	}
	switch tokens[pos].Kind {
	case token.SEMICOLON, token.NEWLINE:
		return combinator.Success(tokens[pos], pos+1)
	}
	return combinator.Failure[token.Token]("expected ';' or newline", pos)
}

// statementSeparator matches one or more terminators/newlines.
var statementSeparator = combinator.Many1(combinator.Parser[token.Token](statementTerminator))

var redirectOperatorKinds = map[token.Kind]bool{
	token.REDIRECT_IN: true, token.REDIRECT_OUT: true, token.REDIRECT_APPEND: true,
	token.REDIRECT_ERR: true, token.REDIRECT_ERR_APPEND: true, token.REDIRECT_DUP: true,
	token.HEREDOC: true, token.HEREDOC_STRIP: true, token.HERE_STRING: true,
}

// redirectOperator matches any redirect-introducing token kind.
func redirectOperator(tokens []token.Token, pos int) combinator.Result[token.Token] {
	if pos >= len(tokens) || !redirectOperatorKinds[tokens[pos].Kind] {
		return combinator.Failure[token.Token]("expected redirect operator", pos)
	}
	return combinator.Success(tokens[pos], pos+1)
}

var logicalAnd = tok(token.AND_IF)
var logicalOr = tok(token.OR_IF)

var dupRedirectRe = regexp.MustCompile(token.DupRedirectPattern)

// matchFdDup parses a WORD's value against the fd-duplication
// regex, e.g. "2>&1", ">&-". Returns (fd, op, dupTarget, ok).
func matchFdDup(value string) (fd *int, op string, dupTarget string, ok bool) {
	m := dupRedirectRe.FindStringSubmatch(value)
	if m == nil {
		return nil, "", "", false
	}
	if m[1] != "" {
		n, _ := strconv.Atoi(m[1])
		fd = &n
	}
	return fd, m[2], m[3], true
}
