package parser

import (
	"github.com/qbi-lang/qbi/internal/lexer"
	"github.com/qbi-lang/qbi/pkg/token"
)

// Cursor wraps a *lexer.Tokenizer with the mark/rewind journal that gives
// every parser in this package its undo discipline (spec.md §4.2/§9):
// every token actually consumed while a speculative region is open is
// recorded, and Rewind() returns them to the tokenizer's own unread
// stack, in reverse order, so the next Read reproduces them exactly.
type Cursor struct {
	tz     *lexer.Tokenizer
	frames [][]token.Token

	// lastPos is the position of the most recently consumed token, used
	// to anchor "Expected: X" errors raised when there is no next token
	// to point at (e.g. at EOF).
	lastPos token.Position

	// lastKind is the kind of the most recently consumed token, used by
	// the expression grammar to decide whether a ')' boundary substitutes
	// for mandatory whitespace before a keyword operator (spec.md §4.3).
	// lastSnapshots mirrors frames so Rewind can restore it exactly.
	lastKind      token.Kind
	hasLast       bool
	lastSnapshots []lastSnapshot
}

type lastSnapshot struct {
	kind token.Kind
	has  bool
}

// NewCursor wraps a tokenizer for use by the grammar.
func NewCursor(tz *lexer.Tokenizer) *Cursor {
	return &Cursor{tz: tz}
}

// Mark begins a speculative region. Every Mark must be paired with
// exactly one Commit or Rewind.
func (c *Cursor) Mark() {
	c.frames = append(c.frames, nil)
	c.lastSnapshots = append(c.lastSnapshots, lastSnapshot{kind: c.lastKind, has: c.hasLast})
}

// Commit closes the current speculative region, keeping its consumed
// tokens. If an outer region is active, the tokens are folded into it so
// an enclosing Rewind still undoes them.
func (c *Cursor) Commit() {
	n := len(c.frames)
	if n == 0 {
		return
	}
	top := c.frames[n-1]
	c.frames = c.frames[:n-1]
	c.lastSnapshots = c.lastSnapshots[:n-1]
	if n > 1 {
		c.frames[n-2] = append(c.frames[n-2], top...)
	}
}

// Rewind undoes every token consumed since the matching Mark, including
// restoring the last-consumed-token tracking to what it was at Mark time.
func (c *Cursor) Rewind() {
	n := len(c.frames)
	if n == 0 {
		return
	}
	journal := c.frames[n-1]
	snap := c.lastSnapshots[n-1]
	c.frames = c.frames[:n-1]
	c.lastSnapshots = c.lastSnapshots[:n-1]
	for i := len(journal) - 1; i >= 0; i-- {
		c.tz.Unread(journal[i])
	}
	c.lastKind = snap.kind
	c.hasLast = snap.has
}

// Next consumes and returns the next token. At end of input it returns
// the incomplete sentinel (there is nothing to try next, but this is not
// itself a hard failure — it is up to the caller to decide whether EOF
// here is expected or an error).
func (c *Cursor) Next() (token.Token, error) {
	tok, ok, err := c.tz.Read()
	if err != nil {
		return token.Token{}, Hard(token.Position{}, "%s", err.Error())
	}
	if !ok {
		return token.Token{}, Incomplete()
	}
	if n := len(c.frames); n > 0 {
		c.frames[n-1] = append(c.frames[n-1], tok)
	}
	c.lastPos = tok.Pos
	c.lastKind = tok.Kind
	c.hasLast = true
	return tok, nil
}

// lastTokenWasRParen reports whether the most recently consumed token
// was ')', the parenthesis-boundary substitute for mandatory whitespace
// before a keyword operator (spec.md §4.3).
func (c *Cursor) lastTokenWasRParen() bool {
	return c.hasLast && c.lastKind == token.RParen
}

// PeekTok returns the next token without consuming it, and false at EOF.
func (c *Cursor) PeekTok() (token.Token, bool) {
	tok, ok, err := c.tz.Peek()
	if err != nil || !ok {
		return token.Token{}, false
	}
	return tok, true
}

// CurrentPos returns the position a synthetic error should point at if
// raised right now: the next token's position, or the last consumed
// token's position at EOF.
func (c *Cursor) CurrentPos() token.Position {
	if tok, ok := c.PeekTok(); ok {
		return tok.Pos
	}
	return c.lastPos
}

// AnyToken consumes and returns the next token unconditionally.
func (c *Cursor) AnyToken() (token.Token, error) {
	return c.Next()
}

// AnyTokenOf consumes the next token if it has the given kind.
func (c *Cursor) AnyTokenOf(kind token.Kind) (token.Token, error) {
	c.Mark()
	tok, err := c.Next()
	if err != nil {
		c.Rewind()
		return token.Token{}, err
	}
	if tok.Kind != kind {
		c.Rewind()
		return token.Token{}, Incomplete()
	}
	c.Commit()
	return tok, nil
}

// Keyword consumes the next token if it is the given keyword, and is NOT
// immediately followed by a DollarSigil token (spec.md §4.2: "keyword(k)
// fails if followed by $").
func (c *Cursor) Keyword(kw token.Keyword) (token.Token, error) {
	c.Mark()
	tok, err := c.Next()
	if err != nil {
		c.Rewind()
		return token.Token{}, err
	}
	if !tok.IsKeyword(kw) {
		c.Rewind()
		return token.Token{}, Incomplete()
	}
	if next, ok := c.PeekTok(); ok && next.Kind == token.DollarSigil {
		c.Rewind()
		return token.Token{}, Incomplete()
	}
	c.Commit()
	return tok, nil
}

// KeywordDollarSign consumes the keyword-then-`$` pair as a single
// sigil-qualified identifier token, e.g. STRING$ (spec.md §4.2).
func (c *Cursor) KeywordDollarSign(kw token.Keyword) (token.Token, error) {
	c.Mark()
	kwTok, err := c.Next()
	if err != nil {
		c.Rewind()
		return token.Token{}, err
	}
	if !kwTok.IsKeyword(kw) {
		c.Rewind()
		return token.Token{}, Incomplete()
	}
	dollar, err := c.Next()
	if err != nil || dollar.Kind != token.DollarSigil {
		c.Rewind()
		return token.Token{}, Incomplete()
	}
	c.Commit()
	return token.New(token.Identifier, kwTok.Text+dollar.Text, kwTok.Pos), nil
}

// KeywordChoice consumes the next token if it is any of the given
// keywords.
func (c *Cursor) KeywordChoice(kws ...token.Keyword) (token.Token, error) {
	for _, kw := range kws {
		tok, err := c.Keyword(kw)
		if err == nil {
			return tok, nil
		}
		if !IsIncomplete(err) {
			return token.Token{}, err
		}
	}
	return token.Token{}, Incomplete()
}

// KeywordFollowedByWhitespace consumes a keyword only when a Whitespace
// token immediately follows it (used where a keyword-operator requires
// trailing whitespace, e.g. "AND " vs. "AND(").
func (c *Cursor) KeywordFollowedByWhitespace(kw token.Keyword) (token.Token, error) {
	c.Mark()
	tok, err := c.Keyword(kw)
	if err != nil {
		c.Rewind()
		return token.Token{}, err
	}
	if next, ok := c.PeekTok(); !ok || next.Kind != token.Whitespace {
		c.Rewind()
		return token.Token{}, Incomplete()
	}
	c.Commit()
	return tok, nil
}

// KeywordPair consumes two adjacent keywords, the first immediately
// followed by mandatory whitespace, e.g. "END IF".
func (c *Cursor) KeywordPair(a, b token.Keyword) (token.Token, token.Token, error) {
	c.Mark()
	first, err := c.KeywordFollowedByWhitespace(a)
	if err != nil {
		c.Rewind()
		return token.Token{}, token.Token{}, err
	}
	if _, err := c.Whitespace(); err != nil {
		c.Rewind()
		return token.Token{}, token.Token{}, Incomplete()
	}
	second, err := c.Keyword(b)
	if err != nil {
		c.Rewind()
		return token.Token{}, token.Token{}, Incomplete()
	}
	c.Commit()
	return first, second, nil
}

// Identifier consumes a bare identifier token.
func (c *Cursor) Identifier() (token.Token, error) {
	return c.AnyTokenOf(token.Identifier)
}

// IdentifierOrKeyword consumes an identifier, or any keyword treated as
// plain text (used for label syntax, spec.md §4.2).
func (c *Cursor) IdentifierOrKeyword() (token.Token, error) {
	c.Mark()
	tok, err := c.Next()
	if err != nil {
		c.Rewind()
		return token.Token{}, err
	}
	if tok.Kind != token.Identifier && tok.Kind != token.Keyword {
		c.Rewind()
		return token.Token{}, Incomplete()
	}
	c.Commit()
	return tok, nil
}

// Whitespace consumes a Whitespace token.
func (c *Cursor) Whitespace() (token.Token, error) {
	return c.AnyTokenOf(token.Whitespace)
}

// Eol consumes an end-of-line token.
func (c *Cursor) Eol() (token.Token, error) {
	return c.AnyTokenOf(token.Eol)
}

// Comma consumes a `,` token, with optional surrounding whitespace.
func (c *Cursor) Comma() (token.Token, error) {
	return SurroundedByOptWs(c, (*Cursor).commaTok)
}

func (c *Cursor) commaTok() (token.Token, error) { return c.AnyTokenOf(token.Comma) }

// Colon consumes a `:` token.
func (c *Cursor) Colon() (token.Token, error) { return c.AnyTokenOf(token.Colon) }

// EqualSign consumes surrounded-by-optional-whitespace `=`.
func (c *Cursor) EqualSign() (token.Token, error) {
	return SurroundedByOptWs(c, func(c *Cursor) (token.Token, error) {
		return c.AnyTokenOf(token.Equal)
	})
}

// Star consumes a `*` token.
func (c *Cursor) Star() (token.Token, error) { return c.AnyTokenOf(token.Star) }

// LParen / RParen consume parentheses.
func (c *Cursor) LParen() (token.Token, error) { return c.AnyTokenOf(token.LParen) }
func (c *Cursor) RParen() (token.Token, error) { return c.AnyTokenOf(token.RParen) }

// Dot consumes a `.` token (property-access separator; no surrounding
// whitespace is ever permitted around it, matching spec.md §3's rule
// that identifiers with user-defined-type access cannot contain dots and
// property chains are written without spaces).
func (c *Cursor) Dot() (token.Token, error) { return c.AnyTokenOf(token.Dot) }

// Sigil consumes one of the five type-qualifier sigil tokens if the next
// token immediately adjacent is one (spec.md §3's Name: bare or
// sigil-qualified). Because the tokenizer emits a distinct Whitespace
// token for any intervening space, peeking the sigil kind directly also
// enforces adjacency with no extra check needed.
func (c *Cursor) Sigil() (token.Token, error) {
	c.Mark()
	tok, err := c.Next()
	if err != nil {
		c.Rewind()
		return token.Token{}, err
	}
	if !tok.Kind.IsSigil() {
		c.Rewind()
		return token.Token{}, Incomplete()
	}
	c.Commit()
	return tok, nil
}
