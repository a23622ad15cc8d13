package parser

import (
	"strconv"

	"github.com/pshgo/shparse/ast"
	"github.com/pshgo/shparse/combinator"
	"github.com/pshgo/shparse/token"
)

// L4: simple commands, pipelines, and-or lists, redirections
// (spec §4.4).

// parseRedirect attempts to parse one redirect at pos, per the table
// in spec §4.4 and the tie-break rules in §4.4.1.
func parseRedirect(tokens []token.Token, pos int) combinator.Result[*ast.Redirect] {
	start := pos
	var fd *int

	// Leading fd-prefixed redirect: a WORD of pure digits immediately
	// followed (adjacently) by a redirect operator.
	if pos < len(tokens) && tokens[pos].Kind == token.WORD && isAllDigits(tokens[pos].Value) {
		if pos+1 < len(tokens) && redirectOperatorKinds[tokens[pos+1].Kind] && tokens[pos+1].AdjacentToPrevious {
			n, _ := strconv.Atoi(tokens[pos].Value)
			fd = &n
			pos++
		}
	}

	if pos >= len(tokens) {
		return combinator.Failure[*ast.Redirect]("expected redirect", start)
	}

	// fd-duplication spelled as a single WORD, e.g. "2>&1", ">&-".
	if tokens[pos].Kind == token.WORD {
		if wfd, op, dupTarget, ok := matchFdDup(tokens[pos].Value); ok {
			r := &ast.Redirect{Type: op + "&"}
			if fd != nil {
				r.Fd = fd
			} else {
				r.Fd = wfd
			}
			if dupTarget == "-" {
				r.Type = op + "&-"
			} else {
				n, _ := strconv.Atoi(dupTarget)
				r.DupFd = &n
			}
			return combinator.Success(r, pos+1)
		}
	}

	if !redirectOperatorKinds[tokens[pos].Kind] {
		return combinator.Failure[*ast.Redirect]("expected redirect operator", start)
	}

	opTok := tokens[pos]
	redirType := redirectTypeFor(opTok.Kind)
	next := pos + 1

	switch opTok.Kind {
	case token.REDIRECT_DUP:
		if opTok.Value != "" && opTok.Value[0] == '<' {
			redirType = "<&"
		}
		if next < len(tokens) && tokens[next].Kind == token.WORD && tokens[next].Value == "-" {
			r := &ast.Redirect{Type: redirType + "-", Fd: fd}
			return combinator.Success(r, next+1)
		}
		if next < len(tokens) && tokens[next].Kind == token.WORD && isAllDigits(tokens[next].Value) {
			n, _ := strconv.Atoi(tokens[next].Value)
			r := &ast.Redirect{Type: redirType, Fd: fd, DupFd: &n}
			return combinator.Success(r, next+1)
		}
		return combinator.Failure[*ast.Redirect]("malformed fd duplication redirect", pos)
	case token.HERE_STRING:
		if next >= len(tokens) || !tokens[next].IsWordLike() {
			return combinator.Failure[*ast.Redirect]("expected here-string content", pos)
		}
		content := displayForm(tokens[next])
		r := &ast.Redirect{Type: "<<<", Target: &content, HeredocContent: &content, HeredocQuoted: true, Fd: fd}
		return combinator.Success(r, next+1)
	case token.HEREDOC, token.HEREDOC_STRIP:
		if next >= len(tokens) || !tokens[next].IsWordLike() {
			return combinator.Failure[*ast.Redirect]("expected heredoc delimiter", pos)
		}
		delimTok := tokens[next]
		delim := delimTok.Value
		r := &ast.Redirect{
			Type:          redirType,
			Target:        &delim,
			Fd:            fd,
			HeredocQuoted: delimTok.Kind == token.STRING,
			HeredocKey:    opTok.HeredocKey,
		}
		return combinator.Success(r, next+1)
	default:
		if next >= len(tokens) || !tokens[next].IsWordLike() {
			return combinator.Failure[*ast.Redirect]("expected redirect target", pos)
		}
		target := displayForm(tokens[next])
		r := &ast.Redirect{Type: redirType, Target: &target, Fd: fd}
		return combinator.Success(r, next+1)
	}
}

func redirectTypeFor(k token.Kind) string {
	switch k {
	case token.REDIRECT_IN:
		return "<"
	case token.REDIRECT_OUT:
		return ">"
	case token.REDIRECT_APPEND:
		return ">>"
	case token.REDIRECT_ERR:
		return "2>"
	case token.REDIRECT_ERR_APPEND:
		return "2>>"
	case token.REDIRECT_DUP:
		return ">&"
	case token.HEREDOC:
		return "<<"
	case token.HEREDOC_STRIP:
		return "<<-"
	case token.HERE_STRING:
		return "<<<"
	}
	return ""
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// simpleCommand greedily collects redirects and word-like tokens in
// any order (spec §4.4). A zero-word result fails unless
// Options.AllowEmptyCommands permits a redirect-only command (e.g.
// `> out.txt`).
func (g *Grammar) simpleCommand() combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		cmd := &ast.SimpleCommand{}
		cur := pos
	loop:
		for cur < len(tokens) {
			if r := parseRedirect(tokens, cur); !r.Failed {
				cmd.Redirects = append(cmd.Redirects, r.Value)
				cur = r.Pos
				continue
			}
			if cur < len(tokens) && tokens[cur].IsWordLike() {
				w, argsStr, argType, quoteType, newPos, err := groupAdjacentWords(tokens, cur, g.Options.BuildWordASTNodes)
				if err != nil {
					return combinator.Failure[ast.Node](err.Error(), cur)
				}
				cmd.Words = append(cmd.Words, w)
				cmd.Args = append(cmd.Args, argsStr)
				cmd.ArgTypes = append(cmd.ArgTypes, argType)
				cmd.QuoteTypes = append(cmd.QuoteTypes, quoteType)
				cur = newPos
				continue
			}
			break loop
		}
		if len(tokens) > cur && tokens[cur].Kind == token.AMPERSAND {
			cmd.Background = true
			cur++
		}
		if len(cmd.Words) == 0 {
			if !g.Options.AllowEmptyCommands || cur == pos {
				return combinator.Failure[ast.Node]("empty command", pos)
			}
		}
		return combinator.Success[ast.Node](cmd, cur)
	}
}

// pipeline parses `[!] command (| command)*`. A single non-negated
// command that is a control structure is returned bare, never
// wrapped (invariant §3.3.2).
func pipeline(commandP combinator.Parser[ast.Node]) combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		negated := false
		cur := pos
		if cur < len(tokens) && tokens[cur].Kind == token.EXCLAMATION {
			negated = true
			cur++
		}
		first := commandP(tokens, cur)
		if first.Failed {
			return combinator.Failure[ast.Node](first.Error, pos)
		}
		cmds := []ast.Node{first.Value}
		cur = first.Pos
		for cur < len(tokens) && tokens[cur].Kind == token.PIPE {
			cur++
			for cur < len(tokens) && tokens[cur].Kind == token.NEWLINE {
				cur++
			}
			next := commandP(tokens, cur)
			if next.Failed {
				return combinator.Failure[ast.Node](next.Error, pos)
			}
			cmds = append(cmds, next.Value)
			cur = next.Pos
		}
		if !negated && len(cmds) == 1 {
			if _, isCommand := cmds[0].(ast.Command); isCommand {
				if isControlStructure(cmds[0]) {
					return combinator.Success(cmds[0], cur)
				}
			}
		}
		return combinator.Success[ast.Node](&ast.Pipeline{Commands: cmds, Negated: negated}, cur)
	}
}

// isControlStructure reports whether n is anything other than a
// SimpleCommand, Pipeline or AndOrList — i.e. a compound command
// eligible for unwrapping (spec §9 "Control-structure unwrapping").
func isControlStructure(n ast.Node) bool {
	switch n.(type) {
	case *ast.SimpleCommand, *ast.Pipeline, *ast.AndOrList:
		return false
	default:
		return true
	}
}

// andOrList parses `pipeline ((&&|||) pipeline)*`, unwrapping a
// singleton bare control structure (invariant §3.3.1/§3.3.2).
func andOrList(pipelineP combinator.Parser[ast.Node]) combinator.Parser[ast.Node] {
	return func(tokens []token.Token, pos int) combinator.Result[ast.Node] {
		first := pipelineP(tokens, pos)
		if first.Failed {
			return combinator.Failure[ast.Node](first.Error, pos)
		}
		pipelines := []ast.Node{first.Value}
		var operators []string
		cur := first.Pos
		for cur < len(tokens) {
			var op string
			switch tokens[cur].Kind {
			case token.AND_IF:
				op = "&&"
			case token.OR_IF:
				op = "||"
			default:
				goto done
			}
			cur++
			for cur < len(tokens) && tokens[cur].Kind == token.NEWLINE {
				cur++
			}
			next := pipelineP(tokens, cur)
			if next.Failed {
				return combinator.Failure[ast.Node](next.Error, pos)
			}
			operators = append(operators, op)
			pipelines = append(pipelines, next.Value)
			cur = next.Pos
		}
	done:
		if len(pipelines) == 1 && isControlStructure(pipelines[0]) {
			return combinator.Success(pipelines[0], cur)
		}
		return combinator.Success[ast.Node](&ast.AndOrList{Pipelines: pipelines, Operators: operators}, cur)
	}
}
