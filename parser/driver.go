// Package parser implements the shell-grammar front-end (L2-L8) on
// top of package combinator's L1 framework: pipelines, and-or lists,
// I/O redirections, control structures, function definitions,
// compound commands, arithmetic and enhanced-test commands, array
// forms, process substitution, and heredocs (spec §1, §2).
package parser

import (
	"io"
	"log"

	"github.com/pshgo/shparse/ast"
	"github.com/pshgo/shparse/token"
)

// ParsingMode selects one of the three grammar dialects from spec
// §6.3's configure(...) struct.
type ParsingMode int

const (
	StrictPosix ParsingMode = iota
	BashCompat
	Permissive
)

// Options mirrors spec §6.3's configure(...) struct, grounded on
// SPEC_FULL.md's AMBIENT STACK "Configuration" section and on the
// original psh ParserConfig dataclass.
type Options struct {
	BuildWordASTNodes         bool
	EnableProcessSubstitution bool
	EnableArrays              bool
	EnableArithmetic          bool
	AllowBashConditionals     bool
	AllowEmptyCommands        bool
	ParsingMode               ParsingMode
	TraceParsing              bool
	TraceWriter               io.Writer
}

// DefaultOptions matches bash-compatible behavior with every
// optional feature turned on except AllowEmptyCommands (a
// redirect-only command is rejected), the same default posture as the
// teacher's syntax.NewParser with no options.
func DefaultOptions() Options {
	return Options{
		BuildWordASTNodes:         true,
		EnableProcessSubstitution: true,
		EnableArrays:              true,
		EnableArithmetic:          true,
		AllowBashConditionals:     true,
		ParsingMode:               BashCompat,
	}
}

// Option is a functional-option wrapper over Options, for callers
// that prefer the teacher's ParserOption style over the flat struct.
type Option func(*Options)

func WithParsingMode(m ParsingMode) Option { return func(o *Options) { o.ParsingMode = m } }
func WithTrace(w io.Writer) Option {
	return func(o *Options) { o.TraceParsing = true; o.TraceWriter = w }
}
func WithoutArrays() Option           { return func(o *Options) { o.EnableArrays = false } }
func WithoutArithmetic() Option        { return func(o *Options) { o.EnableArithmetic = false } }
func WithoutProcessSubstitution() Option {
	return func(o *Options) { o.EnableProcessSubstitution = false }
}

// Configure builds an Options value from functional options layered
// on DefaultOptions (spec §6.3 configure(...)).
func Configure(opts ...Option) Options {
	o := DefaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// Parser is the public entry point (spec §6.3). A Parser is stateless
// and safe to use concurrently from multiple goroutines (spec §5).
type Parser struct {
	opts Options
}

// New builds a Parser from the given Options.
func New(opts Options) *Parser { return &Parser{opts: opts} }

// NewDefault builds a Parser with DefaultOptions.
func NewDefault() *Parser { return &Parser{opts: DefaultOptions()} }

// Parse implements spec §4.9 steps 1-5, 7 (no heredoc contents).
func (p *Parser) Parse(tokens []token.Token) (*ast.TopLevel, error) {
	return p.ParseWithHeredocs(tokens, nil)
}

// ParseWithHeredocs implements the full driver algorithm (spec §4.9).
func (p *Parser) ParseWithHeredocs(tokens []token.Token, heredocContents map[string]string) (*ast.TopLevel, error) {
	normalized := NormalizeKeywords(tokens)

	start := skipLeadingTrivia(normalized)
	if start >= len(normalized) || normalized[start].Kind == token.EOF {
		return &ast.TopLevel{Items: nil}, nil
	}

	g := NewGrammar(p.opts)
	p.trace("parsing %d tokens from position %d", len(normalized), start)

	result := g.TopLevel(normalized, start)
	if result.Failed {
		tokStr := ""
		if result.ErrorPos < len(normalized) {
			tokStr = normalized[result.ErrorPos].Value
		}
		return nil, newError(UnexpectedToken, result.ErrorPos, tokStr, "%s", result.Error)
	}

	end := skipTrailingTrivia(normalized, result.Pos)
	if end < len(normalized) && normalized[end].Kind != token.EOF {
		return nil, newError(UnexpectedToken, end, normalized[end].Value, "unexpected token")
	}

	top := result.Value.(*ast.TopLevel)
	top = normalizeTopLevel(top)

	if len(heredocContents) > 0 {
		populateHeredocs(top, heredocContents)
	}

	return top, nil
}

// normalizeTopLevel implements spec §4.9 step 7: CommandList /
// StatementList results are re-wrapped into TopLevel{Items:
// statements}; a bare node is wrapped as TopLevel{Items: [node]}.
// g.TopLevel already does the CommandList -> TopLevel flattening and
// always yields a *ast.TopLevel, so this returns its input unchanged.
func normalizeTopLevel(n *ast.TopLevel) *ast.TopLevel { return n }

// ParsePartial attempts the full parse (which fails unless every
// token is consumed); on failure, falls back to a
// single-statement parse, then a single-command parse; returns the
// furthest successful AST and position (spec §4.9 "parse_partial").
func (p *Parser) ParsePartial(tokens []token.Token) (ast.Node, int) {
	normalized := NormalizeKeywords(tokens)
	start := skipLeadingTrivia(normalized)

	g := NewGrammar(p.opts)

	if r := g.TopLevel(normalized, start); !r.Failed {
		if end := skipTrailingTrivia(normalized, r.Pos); end >= len(normalized) || normalized[end].Kind == token.EOF {
			return r.Value, r.Pos
		}
	}
	if r := g.statement.Parser()(normalized, start); !r.Failed {
		return r.Value, r.Pos
	}
	if r := g.simpleCommand()(normalized, start); !r.Failed {
		return r.Value, r.Pos
	}
	return nil, start
}

// CanParse reports whether Parse would succeed and consume all
// tokens (spec §6.3 "can_parse").
func (p *Parser) CanParse(tokens []token.Token) bool {
	_, err := p.Parse(tokens)
	return err == nil
}

func (p *Parser) trace(format string, a ...any) {
	if !p.opts.TraceParsing {
		return
	}
	w := p.opts.TraceWriter
	if w == nil {
		log.Printf(format, a...)
		return
	}
	log.New(w, "shparse: ", log.LstdFlags).Printf(format, a...)
}

func skipLeadingTrivia(tokens []token.Token) int {
	i := 0
	for i < len(tokens) && (tokens[i].Kind == token.NEWLINE) {
		i++
	}
	return i
}

func skipTrailingTrivia(tokens []token.Token, pos int) int {
	i := pos
	for i < len(tokens) && (tokens[i].Kind == token.NEWLINE) {
		i++
	}
	return i
}

// NormalizeKeywords applies the spec §4.9 step 1 pre-pass: it
// returns a copy of tokens with WORD tokens whose values are
// reserved words converted into their corresponding keyword Kinds,
// skipping the conversion inside contexts where the word is not at
// command position would be ambiguous for an external lexer to have
// already resolved. A minimal, conservative heuristic is used here:
// a WORD is normalized only when the immediately preceding non-
// trivial token is one that can precede a command (start of input,
// ';', newline, '|', '&&', '||', '(', '{', or a reserved word that
// introduces a body like "then"/"do"/"else").
func NormalizeKeywords(tokens []token.Token) []token.Token {
	out := make([]token.Token, len(tokens))
	copy(out, tokens)
	for i := range out {
		if out[i].Kind != token.WORD {
			continue
		}
		if !atCommandPosition(out, i) {
			continue
		}
		if kind, ok := token.KeywordKind(out[i].Value); ok {
			out[i].Kind = kind
		}
	}
	return out
}

func atCommandPosition(tokens []token.Token, i int) bool {
	if i == 0 {
		return true
	}
	prev := tokens[i-1]
	switch prev.Kind {
	case token.SEMICOLON, token.NEWLINE, token.PIPE, token.AND_IF, token.OR_IF,
		token.LPAREN, token.LBRACE, token.EXCLAMATION,
		token.DOUBLE_SEMICOLON, token.SEMICOLON_AMP, token.AMP_SEMICOLON,
		token.THEN, token.DO, token.ELSE, token.ELIF, token.IN:
		return true
	}
	if prev.Kind == token.WORD {
		if _, isKw := token.KeywordKind(prev.Value); isKw {
			return true
		}
	}
	return false
}
