package parser

import "github.com/qbi-lang/qbi/pkg/token"

// Parse is the shape every grammar function in this package has: given a
// Cursor, produce a T or a parser.Error. Incomplete means "no match, try
// the next alternative"; any other error is hard and propagates.
type Parse[T any] func(c *Cursor) (T, error)

// Require turns an incomplete failure from p into a hard "Expected: what"
// error. Used at the point in a grammar rule where an earlier token has
// already committed us to one specific production, so anything other
// than a match is a real syntax error, not just "try the next
// alternative" (spec.md §4.2: Require / no-backtrack-past-this-point).
func Require[T any](p Parse[T], what string) Parse[T] {
	return func(c *Cursor) (T, error) {
		v, err := p(c)
		if err != nil && IsIncomplete(err) {
			return v, Expected(c.CurrentPos(), what)
		}
		return v, err
	}
}

// Alt tries each alternative in order, returning the first success. An
// incomplete failure from one alternative tries the next; a hard failure
// propagates immediately without trying the rest (spec.md §4.2/§9).
func Alt[T any](alternatives ...Parse[T]) Parse[T] {
	return func(c *Cursor) (T, error) {
		var zero T
		for _, alt := range alternatives {
			v, err := alt(c)
			if err == nil {
				return v, nil
			}
			if !IsIncomplete(err) {
				return zero, err
			}
		}
		return zero, Incomplete()
	}
}

// Optional runs p; an incomplete failure becomes (zero, false, nil)
// rather than propagating. A hard failure still propagates.
func Optional[T any](p Parse[T]) Parse[Optioned[T]] {
	return func(c *Cursor) (Optioned[T], error) {
		v, err := p(c)
		if err != nil {
			if IsIncomplete(err) {
				return Optioned[T]{}, nil
			}
			return Optioned[T]{}, err
		}
		return Optioned[T]{Value: v, Present: true}, nil
	}
}

// Optioned is the result of Optional: Present reports whether Value was
// actually parsed.
type Optioned[T any] struct {
	Value   T
	Present bool
}

// Many collects zero or more matches of p, stopping (without error) at
// the first incomplete failure. A hard failure from p propagates.
func Many[T any](p Parse[T]) Parse[[]T] {
	return func(c *Cursor) ([]T, error) {
		var out []T
		for {
			v, err := p(c)
			if err != nil {
				if IsIncomplete(err) {
					return out, nil
				}
				return out, err
			}
			out = append(out, v)
		}
	}
}

// Many1 requires at least one match of p, turning an incomplete first
// failure into a hard "Expected: what" error.
func Many1[T any](p Parse[T], what string) Parse[[]T] {
	return func(c *Cursor) ([]T, error) {
		first, err := p(c)
		if err != nil {
			if IsIncomplete(err) {
				return nil, Expected(c.CurrentPos(), what)
			}
			return nil, err
		}
		rest, err := Many(p)(c)
		if err != nil {
			return nil, err
		}
		return append([]T{first}, rest...), nil
	}
}

// CSV parses a comma-separated list of at least one item (spec.md §4.3's
// argument-list and DIM-variable-list shapes all reduce to this).
func CSV[T any](item Parse[T]) Parse[[]T] {
	return func(c *Cursor) ([]T, error) {
		first, err := item(c)
		if err != nil {
			return nil, err
		}
		out := []T{first}
		for {
			c.Mark()
			if _, err := c.Comma(); err != nil {
				c.Rewind()
				return out, nil
			}
			v, err := item(c)
			if err != nil {
				if IsIncomplete(err) {
					c.Rewind()
					return out, nil
				}
				c.Rewind()
				return out, err
			}
			c.Commit()
			out = append(out, v)
		}
	}
}

// PrecededByWs requires a Whitespace token before p (used where the
// grammar needs to disambiguate mandatory separating whitespace from an
// adjacent token, e.g. "PRINT" followed by an expression).
func PrecededByWs[T any](p Parse[T]) Parse[T] {
	return func(c *Cursor) (T, error) {
		var zero T
		c.Mark()
		if _, err := c.Whitespace(); err != nil {
			c.Rewind()
			return zero, Incomplete()
		}
		v, err := p(c)
		if err != nil {
			c.Rewind()
			return zero, err
		}
		c.Commit()
		return v, nil
	}
}

// SurroundedByOptWs runs p with optional whitespace consumed (and
// discarded) before and after it, e.g. around `=`, `,`, binary operators.
func SurroundedByOptWs[T any](c *Cursor, p Parse[T]) (T, error) {
	c.Mark()
	_, _ = c.Whitespace()
	v, err := p(c)
	if err != nil {
		c.Rewind()
		var zero T
		return zero, err
	}
	_, _ = c.Whitespace()
	c.Commit()
	return v, nil
}

// WithPosition runs p and reports the position it started at alongside
// its result, for AST nodes that carry their own source position.
func WithPosition[T any](p Parse[T]) Parse[Positioned[T]] {
	return func(c *Cursor) (Positioned[T], error) {
		pos := c.CurrentPos()
		v, err := p(c)
		if err != nil {
			return Positioned[T]{}, err
		}
		return Positioned[T]{Pos: pos, Value: v}, nil
	}
}

// Positioned pairs a value with the source position it started at.
type Positioned[T any] struct {
	Pos   token.Position
	Value T
}
