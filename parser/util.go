package parser

import (
	"strings"

	"github.com/pshgo/shparse/token"
)

// isValidFunctionName enforces spec invariant §3.3.6: non-empty,
// starts with a letter or underscore, contains only [A-Za-z0-9_-],
// and is not a reserved word.
func isValidFunctionName(name string) bool {
	if name == "" {
		return false
	}
	if _, isKw := token.KeywordKind(name); isKw {
		return false
	}
	first := name[0]
	if !(first == '_' || (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

// joinTokenValues joins token display values with single spaces,
// $-prefixing VARIABLE tokens, then collapses internal whitespace
// runs. Used by the arithmetic command and C-style for expression
// slots (spec §4.6.1, §4.5.3).
func joinTokenValues(tokens []token.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, displayForm(t))
	}
	joined := strings.Join(parts, " ")
	return normalizeWhitespace(joined)
}

func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// isSeparator reports whether t is a ';' or newline.
func isSeparator(t token.Token) bool {
	return t.Kind == token.SEMICOLON || t.Kind == token.NEWLINE
}
