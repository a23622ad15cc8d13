package parser

import (
	"strings"

	"github.com/pshgo/shparse/ast"
	"github.com/pshgo/shparse/token"
)

// L3: expansion classification and Word-AST construction (spec §4.3).

// adjacencyWhitelist is the set of token kinds eligible for
// composite-word grouping (spec §4.3 "Composite words").
var adjacencyWhitelist = map[token.Kind]bool{
	token.WORD: true, token.STRING: true, token.VARIABLE: true,
	token.PARAM_EXPANSION: true, token.COMMAND_SUB: true,
	token.COMMAND_SUB_BACKTICK: true, token.ARITH_EXPANSION: true,
	token.PROCESS_SUB_IN: true, token.PROCESS_SUB_OUT: true,
}

// buildWordFromToken converts a single token into a Word, per the
// table in spec §4.3. Returns an error for a command substitution
// that fails validation (§4.3.1). When buildAST is false the
// returned Word carries no Parts (Options.BuildWordASTNodes, spec
// §6.3) — validation and QuoteType/displayForm bookkeeping still run,
// and the Parts that were built are dropped before returning.
func buildWordFromToken(t token.Token, buildAST bool) (*ast.Word, error) {
	w, err := buildWordFromTokenParts(t)
	if err != nil {
		return nil, err
	}
	if !buildAST {
		w.Parts = nil
	}
	return w, nil
}

func buildWordFromTokenParts(t token.Token) (*ast.Word, error) {
	switch t.Kind {
	case token.WORD:
		return &ast.Word{Parts: []ast.Part{&ast.LiteralPart{Text: t.Value, Quoted: false}}}, nil
	case token.STRING:
		qc := t.QuoteType
		return &ast.Word{
			Parts:     []ast.Part{&ast.LiteralPart{Text: t.Value, Quoted: true, QuoteChar: qc}},
			QuoteType: quotePtr(qc),
		}, nil
	case token.VARIABLE:
		return &ast.Word{Parts: []ast.Part{&ast.ExpansionPart{Expansion: &ast.VariableExpansion{Name: t.Value}}}}, nil
	case token.COMMAND_SUB:
		cmd := stripDelims(t.Value, "$(", ")")
		if err := validateCommandSubstitution(cmd); err != nil {
			return nil, err
		}
		return &ast.Word{Parts: []ast.Part{&ast.ExpansionPart{Expansion: &ast.CommandSubstitution{Command: cmd, BacktickStyle: false}}}}, nil
	case token.COMMAND_SUB_BACKTICK:
		cmd := stripDelims(t.Value, "`", "`")
		if err := validateCommandSubstitution(cmd); err != nil {
			return nil, err
		}
		return &ast.Word{Parts: []ast.Part{&ast.ExpansionPart{Expansion: &ast.CommandSubstitution{Command: cmd, BacktickStyle: true}}}}, nil
	case token.ARITH_EXPANSION:
		expr := stripDelims(t.Value, "$((", "))")
		return &ast.Word{Parts: []ast.Part{&ast.ExpansionPart{Expansion: &ast.ArithmeticExpansion{Expression: expr}}}}, nil
	case token.PARAM_EXPANSION:
		pe := parseParameterExpansion(t.Value)
		return &ast.Word{Parts: []ast.Part{&ast.ExpansionPart{Expansion: pe}}}, nil
	case token.PROCESS_SUB_IN:
		cmd := stripDelims(t.Value, "<(", ")")
		return &ast.Word{Parts: []ast.Part{&ast.ExpansionPart{Expansion: &ast.ProcessSubstitution{Direction: "in", Command: cmd}}}}, nil
	case token.PROCESS_SUB_OUT:
		cmd := stripDelims(t.Value, ">(", ")")
		return &ast.Word{Parts: []ast.Part{&ast.ExpansionPart{Expansion: &ast.ProcessSubstitution{Direction: "out", Command: cmd}}}}, nil
	case token.RETURN:
		return &ast.Word{Parts: []ast.Part{&ast.LiteralPart{Text: t.Value, Quoted: false}}}, nil
	}
	return nil, newError(UnexpectedToken, t.Pos, t.Value, "not a word-like token")
}

func quotePtr(q token.QuoteChar) *token.QuoteChar {
	if q == token.NoQuote {
		return nil
	}
	return &q
}

// stripDelims removes a leading prefix and trailing suffix if
// present; tolerant of a lexer that kept an incomplete trailing
// delimiter (spec §4.6.4).
func stripDelims(s, prefix, suffix string) string {
	s = strings.TrimPrefix(s, prefix)
	s = strings.TrimSuffix(s, suffix)
	return s
}

// displayForm renders a single token's original delimited form, used
// when flattening a composite word into its Args string (spec §4.3
// "The args string for a composite...").
func displayForm(t token.Token) string {
	switch t.Kind {
	case token.VARIABLE:
		return "$" + t.Value
	case token.STRING:
		return t.Value
	default:
		return t.Value
	}
}

// groupAdjacentWords scans tokens starting at pos and, while the
// next token is word-like, in the adjacency whitelist, and marked
// AdjacentToPrevious, folds it into one composite Word (spec §4.3
// "Composite words", invariant §3.3.6 "Adjacency grouping").
//
// Returns the built word, its flattened Args string, the arg type of
// the *first* token (used by SimpleCommand.ArgTypes), the composite
// quote type (always nil for a multi-token composite), and the new
// position.
func groupAdjacentWords(tokens []token.Token, pos int, buildAST bool) (*ast.Word, string, token.Kind, *token.QuoteChar, int, error) {
	if pos >= len(tokens) || !tokens[pos].IsWordLike() {
		return nil, "", 0, nil, pos, newError(UnexpectedToken, pos, "", "expected word-like token")
	}
	first := tokens[pos]
	w, err := buildWordFromToken(first, buildAST)
	if err != nil {
		return nil, "", 0, nil, pos, err
	}
	argsStr := displayForm(first)
	firstType := first.Kind
	firstQuote := w.QuoteType
	cur := pos + 1
	composite := false
	for cur < len(tokens) {
		t := tokens[cur]
		if !t.AdjacentToPrevious || !adjacencyWhitelist[t.Kind] {
			break
		}
		nw, err := buildWordFromToken(t, buildAST)
		if err != nil {
			return nil, "", 0, nil, pos, err
		}
		if buildAST {
			w.Parts = append(w.Parts, nw.Parts...)
		}
		argsStr += displayForm(t)
		composite = true
		cur++
	}
	if composite {
		w.QuoteType = nil
		return w, argsStr, firstType, nil, cur, nil
	}
	return w, argsStr, firstType, firstQuote, cur, nil
}

// validateCommandSubstitution rejects a command substitution whose
// body starts a function definition (spec §4.3.1). It re-tokenizes
// using the same lexer contract; since the lexer is out of scope
// here, detection is done at the token-stream level the caller
// already has lexed (the lexer is expected to have tokenized the
// substitution's contents as part of producing COMMAND_SUB/
// COMMAND_SUB_BACKTICK in the first place — this validates the
// textual prefix heuristically as a defense in depth for lexers
// that hand back raw, untokenized text).
func validateCommandSubstitution(body string) error {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "function ") || strings.HasPrefix(trimmed, "function\t") {
		return newError(InvalidCommandSubstitution, 0, body, "function definitions are not allowed inside command substitutions")
	}
	// WORD LPAREN ... RPAREN LBRACE form: NAME() {
	fields := strings.Fields(trimmed)
	if len(fields) >= 1 {
		name := fields[0]
		if i := strings.Index(name, "("); i > 0 {
			name = name[:i]
		}
		rest := strings.TrimSpace(trimmed[len(name):])
		rest = strings.TrimPrefix(rest, " ")
		if strings.HasPrefix(rest, "()") && isValidFunctionName(name) {
			after := strings.TrimSpace(rest[2:])
			if strings.HasPrefix(after, "{") {
				return newError(InvalidCommandSubstitution, 0, body, "function definitions are not allowed inside command substitutions")
			}
		}
	}
	return nil
}

// parseParameterExpansion extracts parameter, operator, and word
// from a PARAM_EXPANSION token's raw value, e.g. "${name:-default}".
func parseParameterExpansion(raw string) *ast.ParameterExpansion {
	inner := raw
	inner = strings.TrimPrefix(inner, "${")
	inner = strings.TrimSuffix(inner, "}")

	ops := []string{":-", ":=", ":?", ":+", "##", "#", "%%", "%", "//", "/"}
	for _, op := range ops {
		if idx := strings.Index(inner, op); idx >= 0 {
			return &ast.ParameterExpansion{
				Parameter: inner[:idx],
				Operator:  op,
				Word:      inner[idx+len(op):],
			}
		}
	}
	return &ast.ParameterExpansion{Parameter: inner}
}
