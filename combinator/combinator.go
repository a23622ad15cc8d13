// Package combinator implements the L1 parser-combinator framework
// that the shparse grammar (package parser) is built on: a Parser is
// a pure function from (tokens, position) to a Result, and the
// combinators in this file compose Parsers without ever mutating
// their inputs (spec §4.1, §5).
package combinator

import "github.com/pshgo/shparse/token"

// Result is the outcome of running a Parser at a given position. It
// is a tagged union selected by Failed: Value and Pos are meaningful
// on success, Error and ErrorPos on failure.
type Result[T any] struct {
	Value      T
	Pos        int
	Failed     bool
	Error      string
	ErrorPos   int
}

func Success[T any](value T, newPos int) Result[T] {
	return Result[T]{Value: value, Pos: newPos}
}

func Failure[T any](err string, pos int) Result[T] {
	return Result[T]{Failed: true, Error: err, ErrorPos: pos}
}

// Parser is a pure function from a token slice and position to a
// Result. Parsers never retain the slice or mutate it (spec §5).
type Parser[T any] func(tokens []token.Token, pos int) Result[T]

// Token succeeds if tokens[pos].Kind == kind, advancing one token.
func Token(kind token.Kind) Parser[token.Token] {
	return func(tokens []token.Token, pos int) Result[token.Token] {
		if pos >= len(tokens) || tokens[pos].Kind != kind {
			return Failure[token.Token]("expected "+kind.String(), pos)
		}
		return Success(tokens[pos], pos+1)
	}
}

// Literal succeeds if tokens[pos].Value == s.
func Literal(s string) Parser[token.Token] {
	return func(tokens []token.Token, pos int) Result[token.Token] {
		if pos >= len(tokens) || tokens[pos].Value != s {
			return Failure[token.Token]("expected literal "+s, pos)
		}
		return Success(tokens[pos], pos+1)
	}
}

// Keyword uses token.MatchesKeyword, accepting either a
// lexer-classified keyword Kind or a WORD token spelling kw.
func Keyword(kw string) Parser[token.Token] {
	return func(tokens []token.Token, pos int) Result[token.Token] {
		if pos >= len(tokens) {
			return Failure[token.Token]("expected keyword "+kw, pos)
		}
		t := tokens[pos]
		if token.MatchesKeyword(&t, kw) {
			return Success(t, pos+1)
		}
		return Failure[token.Token]("expected keyword "+kw, pos)
	}
}

// Map transforms a successful result's value via f.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(tokens []token.Token, pos int) Result[U] {
		r := p(tokens, pos)
		if r.Failed {
			return Failure[U](r.Error, r.ErrorPos)
		}
		return Success(f(r.Value), r.Pos)
	}
}

// Pair is the value produced by Then.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Then sequences p then q. On q's failure, the combined parser fails
// at the position where p started (callers treat this as total
// failure at the starting position, per spec §4.1).
func Then[A, B any](p Parser[A], q Parser[B]) Parser[Pair[A, B]] {
	return func(tokens []token.Token, pos int) Result[Pair[A, B]] {
		ra := p(tokens, pos)
		if ra.Failed {
			return Failure[Pair[A, B]](ra.Error, ra.ErrorPos)
		}
		rb := q(tokens, ra.Pos)
		if rb.Failed {
			return Failure[Pair[A, B]](rb.Error, pos)
		}
		return Success(Pair[A, B]{ra.Value, rb.Value}, rb.Pos)
	}
}

// OrElse tries p; on failure tries q at the same starting position.
// Greedy first match; no ambiguity resolution (spec §4.1).
func OrElse[T any](p, q Parser[T]) Parser[T] {
	return func(tokens []token.Token, pos int) Result[T] {
		r := p(tokens, pos)
		if !r.Failed {
			return r
		}
		return q(tokens, pos)
	}
}

// Choice is a variadic OrElse.
func Choice[T any](ps ...Parser[T]) Parser[T] {
	return func(tokens []token.Token, pos int) Result[T] {
		var last Result[T]
		for _, p := range ps {
			r := p(tokens, pos)
			if !r.Failed {
				return r
			}
			last = r
		}
		return last
	}
}

// Many parses zero or more occurrences; never fails.
func Many[T any](p Parser[T]) Parser[[]T] {
	return func(tokens []token.Token, pos int) Result[[]T] {
		var out []T
		cur := pos
		for {
			r := p(tokens, cur)
			if r.Failed {
				break
			}
			if r.Pos == cur {
				// Guard against zero-width infinite loops.
				break
			}
			out = append(out, r.Value)
			cur = r.Pos
		}
		return Success(out, cur)
	}
}

// Many1 parses one or more occurrences; fails on zero matches.
func Many1[T any](p Parser[T]) Parser[[]T] {
	return func(tokens []token.Token, pos int) Result[[]T] {
		r := Many(p)(tokens, pos)
		if len(r.Value) == 0 {
			return Failure[[]T]("expected at least one match", pos)
		}
		return r
	}
}

// Optional always succeeds, returning a pointer to the value or nil.
func Optional[T any](p Parser[T]) Parser[*T] {
	return func(tokens []token.Token, pos int) Result[*T] {
		r := p(tokens, pos)
		if r.Failed {
			return Success[*T](nil, pos)
		}
		v := r.Value
		return Success(&v, r.Pos)
	}
}

// SeparatedBy parses a non-empty sequence of p separated by sep.
// Fails if the first p fails.
func SeparatedBy[T, S any](p Parser[T], sep Parser[S]) Parser[[]T] {
	return func(tokens []token.Token, pos int) Result[[]T] {
		first := p(tokens, pos)
		if first.Failed {
			return Failure[[]T](first.Error, first.ErrorPos)
		}
		out := []T{first.Value}
		cur := first.Pos
		for {
			s := sep(tokens, cur)
			if s.Failed {
				break
			}
			r := p(tokens, s.Pos)
			if r.Failed {
				break
			}
			out = append(out, r.Value)
			cur = r.Pos
		}
		return Success(out, cur)
	}
}

// Between parses open, then body, then close, propagating close's
// error prefixed with "unclosed: " at close's error position.
func Between[O, B, C any](open Parser[O], body Parser[B], close Parser[C]) Parser[B] {
	return func(tokens []token.Token, pos int) Result[B] {
		ro := open(tokens, pos)
		if ro.Failed {
			return Failure[B](ro.Error, ro.ErrorPos)
		}
		rb := body(tokens, ro.Pos)
		if rb.Failed {
			return Failure[B](rb.Error, rb.ErrorPos)
		}
		rc := close(tokens, rb.Pos)
		if rc.Failed {
			return Failure[B]("unclosed: "+rc.Error, rc.ErrorPos)
		}
		return Success(rb.Value, rc.Pos)
	}
}

// Skip discards the parsed value, keeping only position advancement.
func Skip[T any](p Parser[T]) Parser[struct{}] {
	return Map(p, func(T) struct{} { return struct{}{} })
}

// Lazy defers construction of a Parser until first use, then caches
// it. This breaks the cyclic grammar references between statements
// and commands (spec §4.1 ForwardParser, §9).
func Lazy[T any](factory func() Parser[T]) Parser[T] {
	var cached Parser[T]
	return func(tokens []token.Token, pos int) Result[T] {
		if cached == nil {
			cached = factory()
		}
		return cached(tokens, pos)
	}
}

// TryParse runs p; on failure it still reports success with a nil
// value and the original position — explicit backtracking without
// consuming input.
func TryParse[T any](p Parser[T]) Parser[*T] {
	return func(tokens []token.Token, pos int) Result[*T] {
		r := p(tokens, pos)
		if r.Failed {
			return Success[*T](nil, pos)
		}
		v := r.Value
		return Success(&v, r.Pos)
	}
}

// WithErrorContext prefixes a failing result's error with "ctx: ".
func WithErrorContext[T any](p Parser[T], ctx string) Parser[T] {
	return func(tokens []token.Token, pos int) Result[T] {
		r := p(tokens, pos)
		if r.Failed {
			r.Error = ctx + ": " + r.Error
		}
		return r
	}
}

// ForwardParser is a late-bound reference used to break cycles in
// the grammar (e.g. statement <-> command). It panics if invoked
// before Define.
type ForwardParser[T any] struct {
	resolved Parser[T]
}

func (f *ForwardParser[T]) Define(p Parser[T]) { f.resolved = p }

func (f *ForwardParser[T]) Parser() Parser[T] {
	return func(tokens []token.Token, pos int) Result[T] {
		if f.resolved == nil {
			panic("combinator: ForwardParser used before Define")
		}
		return f.resolved(tokens, pos)
	}
}

// Sequence2/3 are small fixed-arity tuple sequencers built on Then,
// used where naming each slot reads better than nested Pair.
func Sequence2[A, B any](a Parser[A], b Parser[B]) Parser[Pair[A, B]] {
	return Then(a, b)
}

func Sequence3[A, B, C any](a Parser[A], b Parser[B], c Parser[C]) Parser[[3]any] {
	return func(tokens []token.Token, pos int) Result[[3]any] {
		ra := a(tokens, pos)
		if ra.Failed {
			return Failure[[3]any](ra.Error, ra.ErrorPos)
		}
		rb := b(tokens, ra.Pos)
		if rb.Failed {
			return Failure[[3]any](rb.Error, pos)
		}
		rc := c(tokens, rb.Pos)
		if rc.Failed {
			return Failure[[3]any](rc.Error, pos)
		}
		return Success([3]any{ra.Value, rb.Value, rc.Value}, rc.Pos)
	}
}
