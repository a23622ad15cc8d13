// Package ast defines the AST node types produced by the shparse
// parser (spec §3.2). Nodes form a tree: each child has exactly one
// parent, built bottom-up and handed to the caller by value.
package ast

import "github.com/pshgo/shparse/token"

// Node is implemented by every AST node.
type Node interface {
	astNode()
}

// Command is implemented by anything that can sit directly inside a
// Pipeline where a simple command would go: SimpleCommand plus every
// control structure and compound command (spec §3.3.2/§9
// "Control-structure unwrapping").
type Command interface {
	Node
	commandNode()
}

// TopLevel is the parser's public return type (§3.2, §4.9 step 7).
type TopLevel struct {
	Items []Node
}

func (*TopLevel) astNode() {}

// CommandList and StatementList are semantically identical ordered
// sequences of statements, kept as distinct names for executor
// compatibility (§3.2).
type CommandList struct {
	Statements []Node
}

func (*CommandList) astNode() {}

type StatementList struct {
	Statements []Node
}

func (*StatementList) astNode() {}

// AndOrList is a sequence of pipelines joined by && / ||.
// len(Operators) == len(Pipelines) - 1 (invariant §3.3.1).
type AndOrList struct {
	Pipelines []Node
	Operators []string // "&&" | "||"
}

func (*AndOrList) astNode()    {}
func (*AndOrList) commandNode() {}

// Pipeline is a sequence of commands joined by |, optionally negated
// by a leading !.
type Pipeline struct {
	Commands []Node
	Negated  bool
}

func (*Pipeline) astNode()    {}
func (*Pipeline) commandNode() {}

// SimpleCommand is a command name plus arguments, redirects, and an
// optional background marker.
//
// Invariant (§3.3.3): len(Words) == len(Args) == len(ArgTypes) ==
// len(QuoteTypes).
type SimpleCommand struct {
	Args       []string
	Words      []*Word
	ArgTypes   []token.Kind
	QuoteTypes []*token.QuoteChar
	Redirects  []*Redirect
	Background bool
}

func (*SimpleCommand) astNode()    {}
func (*SimpleCommand) commandNode() {}

// Redirect is one I/O redirection attached to a command or compound
// command.
//
// Invariant (§3.3.4): Type is a duplication form ("<&", ">&", "<&-",
// ">&-") iff Target == nil; every other Type has Target != nil.
type Redirect struct {
	Type           string
	Fd             *int
	DupFd          *int
	Target         *string
	HeredocQuoted  bool
	HeredocKey     string
	HeredocContent *string
}

func (*Redirect) astNode() {}

// IfConditional implements if/elif/else/fi.
type IfConditional struct {
	Condition Node
	ThenPart  Node
	ElifParts []ElifPart
	ElsePart  Node // nil if absent
	Redirects []*Redirect
	Background bool
}

type ElifPart struct {
	Condition Node
	Body      Node
}

func (*IfConditional) astNode()    {}
func (*IfConditional) commandNode() {}

type WhileLoop struct {
	Condition Node
	Body      Node
	Redirects []*Redirect
	Background bool
}

func (*WhileLoop) astNode()    {}
func (*WhileLoop) commandNode() {}

type UntilLoop struct {
	Condition Node
	Body      Node
	Redirects []*Redirect
	Background bool
}

func (*UntilLoop) astNode()    {}
func (*UntilLoop) commandNode() {}

// ForLoop is the traditional for-in loop. When the source omits
// "in ...", Items defaults to []string{"$@"} with quote type '"'
// (spec §4.5.3).
type ForLoop struct {
	Variable       string
	Items          []string
	ItemQuoteTypes []*token.QuoteChar
	Body           Node
	Redirects      []*Redirect
	Background     bool
}

func (*ForLoop) astNode()    {}
func (*ForLoop) commandNode() {}

// CStyleForLoop is `for (( init; cond; update )) ; do BODY ; done`.
// Each expression slot is nil when the source left it empty.
type CStyleForLoop struct {
	InitExpr      *string
	ConditionExpr *string
	UpdateExpr    *string
	Body          Node
	Redirects     []*Redirect
	Background    bool
}

func (*CStyleForLoop) astNode()    {}
func (*CStyleForLoop) commandNode() {}

// CaseConditional implements case/esac.
type CaseConditional struct {
	Expr      string
	Items     []*CaseItem
	Redirects []*Redirect
	Background bool
}

func (*CaseConditional) astNode()    {}
func (*CaseConditional) commandNode() {}

// CaseItem is non-empty in Patterns (invariant §3.3.7).
type CaseItem struct {
	Patterns   []string
	Commands   *CommandList
	Terminator string // ";;" | ";&" | ";;&"
}

// SelectLoop implements select/in/do/done.
type SelectLoop struct {
	Variable       string
	Items          []string
	ItemQuoteTypes []*token.QuoteChar
	Body           Node
	Redirects      []*Redirect
	Background     bool
}

func (*SelectLoop) astNode()    {}
func (*SelectLoop) commandNode() {}

// FunctionDef implements the three accepted function-definition
// spellings (spec §4.5.8).
type FunctionDef struct {
	Name string
	Body *StatementList
}

func (*FunctionDef) astNode()    {}
func (*FunctionDef) commandNode() {}

type SubshellGroup struct {
	Statements []Node
	Redirects  []*Redirect
}

func (*SubshellGroup) astNode()    {}
func (*SubshellGroup) commandNode() {}

type BraceGroup struct {
	Statements []Node
	Redirects  []*Redirect
}

func (*BraceGroup) astNode()    {}
func (*BraceGroup) commandNode() {}

// ArithmeticEvaluation implements `(( EXPR ))`.
type ArithmeticEvaluation struct {
	Expression string
	Redirects  []*Redirect
	Background bool
}

func (*ArithmeticEvaluation) astNode()    {}
func (*ArithmeticEvaluation) commandNode() {}

// EnhancedTestStatement implements `[[ ... ]]`.
type EnhancedTestStatement struct {
	Expression TestExpression
	Redirects  []*Redirect
}

func (*EnhancedTestStatement) astNode()    {}
func (*EnhancedTestStatement) commandNode() {}

// TestExpression is the closed sum of [[ ]] operand shapes.
type TestExpression interface {
	Node
	testExpressionNode()
}

type BinaryTestExpression struct {
	Left     string
	Operator string
	Right    string
}

func (*BinaryTestExpression) astNode()             {}
func (*BinaryTestExpression) testExpressionNode() {}

type UnaryTestExpression struct {
	Operator string
	Operand  string
}

func (*UnaryTestExpression) astNode()             {}
func (*UnaryTestExpression) testExpressionNode() {}

type NegatedTestExpression struct {
	Expression TestExpression
}

func (*NegatedTestExpression) astNode()             {}
func (*NegatedTestExpression) testExpressionNode() {}

// CompoundTestExpression joins two test expressions with && or ||
// inside [[ ]]. See SPEC_FULL.md supplemental feature 3 — this is
// the non-MVP behavior, gated by parser.Options.ParsingMode.
type CompoundTestExpression struct {
	Left     TestExpression
	Operator string // "&&" | "||"
	Right    TestExpression
}

func (*CompoundTestExpression) astNode()             {}
func (*CompoundTestExpression) testExpressionNode() {}

// ArrayInitialization implements `NAME=(...)` / `NAME+=(...)`.
type ArrayInitialization struct {
	Name            string
	Elements        []string
	ElementTypes    []token.Kind
	ElementQuoteTypes []*token.QuoteChar
	IsAppend        bool
}

func (*ArrayInitialization) astNode()    {}
func (*ArrayInitialization) commandNode() {}

// ArrayElementAssignment implements `NAME[IDX]=VALUE` /
// `NAME[IDX]+=VALUE`, including the negative-index and whole-array
// "[@]" forms (SPEC_FULL.md supplemental feature 5) — the index is
// carried verbatim, never evaluated.
type ArrayElementAssignment struct {
	Name           string
	Index          string
	Value          string
	ValueType      token.Kind
	ValueQuoteType *token.QuoteChar
	IsAppend       bool
}

func (*ArrayElementAssignment) astNode()    {}
func (*ArrayElementAssignment) commandNode() {}

// BreakStatement / ContinueStatement carry an optional loop level,
// defaulting to 1 (spec §4.5.6).
type BreakStatement struct{ Level int }

func (*BreakStatement) astNode()    {}
func (*BreakStatement) commandNode() {}

type ContinueStatement struct{ Level int }

func (*ContinueStatement) astNode()    {}
func (*ContinueStatement) commandNode() {}

// Word is the structured form of a SimpleCommand argument.
type Word struct {
	Parts     []Part
	QuoteType *token.QuoteChar
}

func (*Word) astNode() {}

// Part is either a LiteralPart or an ExpansionPart.
type Part interface {
	partNode()
}

type LiteralPart struct {
	Text      string
	Quoted    bool
	QuoteChar token.QuoteChar
}

func (*LiteralPart) partNode() {}

type ExpansionPart struct {
	Expansion Expansion
	Quoted    bool
}

func (*ExpansionPart) partNode() {}

// Expansion is the closed sum of expansion shapes a Word part can
// carry.
type Expansion interface {
	expansionNode()
}

type VariableExpansion struct{ Name string }

func (*VariableExpansion) expansionNode() {}

type CommandSubstitution struct {
	Command       string
	BacktickStyle bool
}

func (*CommandSubstitution) expansionNode() {}

type ArithmeticExpansion struct{ Expression string }

func (*ArithmeticExpansion) expansionNode() {}

// ParameterExpansion is `${parameter OPERATOR word}`-shaped, e.g.
// ${name:-default}, ${name#pattern}, ${name/from/to}.
type ParameterExpansion struct {
	Parameter string
	Operator  string
	Word      string
}

func (*ParameterExpansion) expansionNode() {}

type ProcessSubstitution struct {
	Direction string // "in" | "out"
	Command   string
}

func (*ProcessSubstitution) expansionNode() {}
