package lexer

import (
	"bufio"
	"io"
	"strings"
)

// CharSource yields Unicode scalars from a byte stream, reading forward
// only; it offers no lookahead or unread of its own. The Tokenizer is the
// sole owner of a CharSource; it layers its own multi-rune pushback on top (see
// Tokenizer.readRune) because a single token's longest-match attempt may
// need to give back more than one character.
type CharSource struct {
	r *bufio.Reader
}

// NewCharSource wraps source text as a character source.
func NewCharSource(input string) *CharSource {
	return &CharSource{r: bufio.NewReader(strings.NewReader(input))}
}

// NewCharSourceFromReader wraps an arbitrary byte stream as a character
// source, e.g. an open os.File handed in by the CLI.
func NewCharSourceFromReader(r io.Reader) *CharSource {
	return &CharSource{r: bufio.NewReader(r)}
}

// Read returns the next rune and true, or (0, false) at end of input.
func (c *CharSource) Read() (rune, bool) {
	r, _, err := c.r.ReadRune()
	if err != nil {
		return 0, false
	}
	return r, true
}
