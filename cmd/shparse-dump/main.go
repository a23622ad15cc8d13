// Command shparse-dump reads a pre-tokenized token stream (JSON, the
// external lexer's output contract per spec §6.1) and prints the
// resulting AST as JSON. Grounded on cmd/shfmt (teacher): flag-based
// CLI, atomic output writes, and a -diff mode reusing the same
// third-party diff library shfmt does.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	maybeio "github.com/google/renameio/v2/maybe"
	diffpkg "github.com/rogpeppe/go-internal/diff"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/pshgo/shparse/internal/astjson"
	"github.com/pshgo/shparse/parser"
	"github.com/pshgo/shparse/token"
)

var (
	output  = flag.String("o", "", "write output to file instead of stdout (atomic)")
	mode    = flag.String("mode", "bash_compat", "parsing_mode: strict_posix | bash_compat | permissive")
	diff    = flag.String("diff", "", "diff this dump's AST JSON against another file's and print the result")
	jobs    = flag.Int("j", 1, "number of files to parse concurrently when multiple paths are given")
	trace   = flag.Bool("trace", false, "enable TraceParsing and print trace lines to stderr")
	heredoc = flag.String("heredocs", "", "path to a JSON object of heredoc key -> content, applied after parsing")
)

func main() {
	flag.Parse()
	if err := run(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "shparse-dump:", err)
		os.Exit(1)
	}
}

func run(paths []string) error {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	opts := parser.DefaultOptions()
	switch *mode {
	case "strict_posix":
		opts.ParsingMode = parser.StrictPosix
	case "permissive":
		opts.ParsingMode = parser.Permissive
	default:
		opts.ParsingMode = parser.BashCompat
	}
	if *trace {
		opts.TraceParsing = true
		opts.TraceWriter = os.Stderr
		if term.IsTerminal(int(os.Stderr.Fd())) {
			fmt.Fprintln(os.Stderr, "\x1b[2mtrace: connected to a terminal\x1b[0m")
		}
	}

	heredocContents, err := loadHeredocs(*heredoc)
	if err != nil {
		return err
	}

	results := make([][]byte, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(max(1, *jobs))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			out, err := dumpOne(path, opts, heredocContents)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	combined := bytes.Join(results, nil)

	if *diff != "" {
		other, err := os.ReadFile(*diff)
		if err != nil {
			return err
		}
		d := diffpkg.Diff(*diff, other, "<dump>", combined)
		os.Stdout.Write(d)
		return nil
	}

	if *output != "" {
		return maybeio.WriteFile(*output, combined, 0o644)
	}
	_, err = os.Stdout.Write(combined)
	return err
}

func dumpOne(path string, opts parser.Options, heredocContents map[string]string) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var tokens []token.Token
	if err := json.NewDecoder(r).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("decoding token stream: %w", err)
	}

	p := parser.New(opts)
	top, err := p.ParseWithHeredocs(tokens, heredocContents)
	if err != nil {
		return nil, err
	}
	return astjson.Marshal(top)
}

func loadHeredocs(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
