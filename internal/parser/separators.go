package parser

import "github.com/qbi-lang/qbi/pkg/token"

// skipBlankLines consumes zero or more Whitespace/Eol tokens, used after
// both separator kinds (spec.md §4.3).
func skipBlankLines(c *Cursor) {
	for {
		if tok, ok := c.PeekTok(); ok && (tok.Kind == token.Whitespace || tok.Kind == token.Eol) {
			_, _ = c.Next()
			continue
		}
		return
	}
}

// CommentSeparator matches what follows a comment: optional whitespace,
// then EOL, then zero or more blank lines (spec.md §4.3).
func CommentSeparator(c *Cursor) (struct{}, error) {
	c.Mark()
	_, _ = c.Whitespace()
	if _, err := c.Eol(); err != nil {
		c.Rewind()
		return struct{}{}, Incomplete()
	}
	c.Commit()
	skipBlankLines(c)
	return struct{}{}, nil
}

// StatementSeparator matches a non-comment separator: optional
// whitespace, then `:` (with optional trailing whitespace), `'` (left in
// the stream to start a comment statement), or EOL followed by zero or
// more blank lines (spec.md §4.3).
func StatementSeparator(c *Cursor) (struct{}, error) {
	c.Mark()
	_, _ = c.Whitespace()

	if tok, ok := c.PeekTok(); ok && tok.Kind == token.SingleQuote {
		c.Commit()
		return struct{}{}, nil
	}

	if _, err := c.Colon(); err == nil {
		_, _ = c.Whitespace()
		c.Commit()
		return struct{}{}, nil
	}

	if _, err := c.Eol(); err == nil {
		c.Commit()
		skipBlankLines(c)
		return struct{}{}, nil
	}

	c.Rewind()
	return struct{}{}, Incomplete()
}

// AtEOF reports whether the cursor has no more tokens.
func AtEOF(c *Cursor) bool {
	_, ok := c.PeekTok()
	return !ok
}

// AtBlockEnd reports whether the upcoming tokens are one of the
// block-terminating keyword sequences a statement-block parser must stop
// before consuming (spec.md §4.3's reserved-keyword handling and the
// various END/NEXT/WEND/LOOP/CASE/ELSE/ELSEIF terminators).
func AtBlockEnd(c *Cursor, terminators ...token.Keyword) bool {
	tok, ok := c.PeekTok()
	if !ok {
		return true
	}
	if tok.Kind != token.Keyword {
		return false
	}
	for _, kw := range terminators {
		if tok.Keyword == kw {
			return true
		}
	}
	return false
}
