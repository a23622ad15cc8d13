package parser

import "github.com/pshgo/shparse/ast"

// L8: heredoc post-processor (spec §4.8). Walks the AST once and,
// for every Redirect whose HeredocKey is a key in contents, sets
// HeredocContent to the corresponding value. The pass is idempotent
// and never restructures the tree.
func populateHeredocs(n ast.Node, contents map[string]string) {
	if n == nil || len(contents) == 0 {
		return
	}
	switch v := n.(type) {
	case *ast.TopLevel:
		for _, it := range v.Items {
			populateHeredocs(it, contents)
		}
	case *ast.CommandList:
		for _, s := range v.Statements {
			populateHeredocs(s, contents)
		}
	case *ast.StatementList:
		for _, s := range v.Statements {
			populateHeredocs(s, contents)
		}
	case *ast.AndOrList:
		for _, p := range v.Pipelines {
			populateHeredocs(p, contents)
		}
	case *ast.Pipeline:
		for _, c := range v.Commands {
			populateHeredocs(c, contents)
		}
	case *ast.SimpleCommand:
		populateRedirects(v.Redirects, contents)
	case *ast.IfConditional:
		populateHeredocs(v.Condition, contents)
		populateHeredocs(v.ThenPart, contents)
		for _, e := range v.ElifParts {
			populateHeredocs(e.Condition, contents)
			populateHeredocs(e.Body, contents)
		}
		populateHeredocs(v.ElsePart, contents)
		populateRedirects(v.Redirects, contents)
	case *ast.WhileLoop:
		populateHeredocs(v.Condition, contents)
		populateHeredocs(v.Body, contents)
		populateRedirects(v.Redirects, contents)
	case *ast.UntilLoop:
		populateHeredocs(v.Condition, contents)
		populateHeredocs(v.Body, contents)
		populateRedirects(v.Redirects, contents)
	case *ast.ForLoop:
		populateHeredocs(v.Body, contents)
		populateRedirects(v.Redirects, contents)
	case *ast.CStyleForLoop:
		populateHeredocs(v.Body, contents)
		populateRedirects(v.Redirects, contents)
	case *ast.CaseConditional:
		for _, item := range v.Items {
			if item.Commands != nil {
				populateHeredocs(item.Commands, contents)
			}
		}
		populateRedirects(v.Redirects, contents)
	case *ast.SelectLoop:
		populateHeredocs(v.Body, contents)
		populateRedirects(v.Redirects, contents)
	case *ast.FunctionDef:
		populateHeredocs(v.Body, contents)
	case *ast.SubshellGroup:
		for _, s := range v.Statements {
			populateHeredocs(s, contents)
		}
		populateRedirects(v.Redirects, contents)
	case *ast.BraceGroup:
		for _, s := range v.Statements {
			populateHeredocs(s, contents)
		}
		populateRedirects(v.Redirects, contents)
	case *ast.ArithmeticEvaluation:
		populateRedirects(v.Redirects, contents)
	case *ast.EnhancedTestStatement:
		populateRedirects(v.Redirects, contents)
	default:
		// No reflection: the remaining types have no nested node or
		// redirect list (SimpleCommand handled above; leaves like
		// BreakStatement, ArrayInitialization, etc. carry neither)
		// need no traversal.
	}
}

func populateRedirects(redirects []*ast.Redirect, contents map[string]string) {
	for _, r := range redirects {
		if r.HeredocKey == "" {
			continue
		}
		if content, ok := contents[r.HeredocKey]; ok {
			c := content
			r.HeredocContent = &c
		}
	}
}
