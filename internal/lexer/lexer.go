// Package lexer implements the character source and tokenizer described
// in spec.md §4.1: a multi-recognizer longest-match scanner that tracks
// row/column and supports a token unread stack.
package lexer

import (
	"fmt"

	"github.com/qbi-lang/qbi/pkg/token"
)

// Error is a positioned lexical error, e.g. an unrecognized token.
// Invalid UTF-8 has no error of its own: each bad byte reaches the
// recognizers as utf8.RuneError.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Tokenizer owns a CharSource and the table of recognizers, and performs
// the longest-match algorithm of spec.md §4.1. It also owns a token
// unread stack so the parser framework can push tokens back on rollback.
type Tokenizer struct {
	src *CharSource

	// pushback holds runes given back mid-read, LIFO (last pushed is the
	// next one Read returns). This is how the tokenizer "unreads buffer
	// characters beyond the chosen length" (step 5) even though the
	// underlying CharSource only supports reading forward.
	pushback []rune

	row, col int

	// unread is the token-level LIFO stack parsers push onto on rollback.
	unread []token.Token
}

// New creates a Tokenizer over source text.
func New(input string) *Tokenizer {
	return &Tokenizer{src: NewCharSource(input), row: 1, col: 1}
}

// Unread pushes a token back onto the tokenizer's unread stack. The next
// call to Read returns it without consuming any input.
func (t *Tokenizer) Unread(tok token.Token) {
	t.unread = append(t.unread, tok)
}

// Read returns the next token. ok is false (with a nil error) at clean
// end of input. A non-nil error means the buffer was non-empty but no
// recognizer matched it (an unrecognized token).
func (t *Tokenizer) Read() (tok token.Token, ok bool, err error) {
	if n := len(t.unread); n > 0 {
		tok = t.unread[n-1]
		t.unread = t.unread[:n-1]
		return tok, true, nil
	}
	return t.readFresh()
}

// Peek returns the next token without consuming it. Per spec.md §4.1,
// peek is "unread-after-read": it performs a real read, then pushes the
// result back.
func (t *Tokenizer) Peek() (token.Token, bool, error) {
	tok, ok, err := t.Read()
	if err != nil || !ok {
		return tok, ok, err
	}
	t.Unread(tok)
	return tok, ok, nil
}

// readRune returns the next rune, preferring anything pushed back over
// the underlying character source.
func (t *Tokenizer) readRune() (rune, bool) {
	if n := len(t.pushback); n > 0 {
		r := t.pushback[n-1]
		t.pushback = t.pushback[:n-1]
		return r, true
	}
	return t.src.Read()
}

// pushbackRunes returns a slice of runes to the front of the input, in
// original order, so a later readRune sequence reproduces them exactly.
func (t *Tokenizer) pushbackRunes(runes []rune) {
	for i := len(runes) - 1; i >= 0; i-- {
		t.pushback = append(t.pushback, runes[i])
	}
}

// readFresh performs one pass of the longest-match algorithm (spec.md
// §4.1 steps 1-7).
func (t *Tokenizer) readFresh() (token.Token, bool, error) {
	startPos := token.Position{Row: t.row, Col: t.col}

	states := make([]RecognizerState, len(recognizerTable))
	recordedLen := make([]int, len(recognizerTable))
	var buf []rune

	for {
		r, ok := t.readRune()
		if !ok {
			break
		}
		buf = append(buf, r)

		anyAlive := false
		for i, rec := range recognizerTable {
			if states[i] == Negative {
				continue
			}
			s := rec.Check(buf)
			states[i] = s
			if s == Positive {
				recordedLen[i] = len(buf)
			}
			if s != Negative {
				anyAlive = true
			}
		}
		if !anyAlive {
			break
		}
	}

	if len(buf) == 0 {
		return token.Token{}, false, nil
	}

	bestIdx, bestLen := -1, 0
	for i, l := range recordedLen {
		if l > bestLen {
			bestLen = l
			bestIdx = i
		}
	}

	if bestIdx == -1 {
		// Nothing ever matched: the whole buffer is unrecognized. Leave
		// it consumed (there is no shorter recoverable prefix).
		return token.Token{}, false, &Error{Pos: startPos, Message: fmt.Sprintf("unrecognized token: %q", string(buf))}
	}

	if bestLen < len(buf) {
		t.pushbackRunes(buf[bestLen:])
		buf = buf[:bestLen]
	}

	t.advancePosition(buf)

	kind := recognizerTable[bestIdx].Kind
	tok := token.New(kind, string(buf), startPos)
	return tok, true, nil
}

// advancePosition updates row/col over the kept characters, per step 6:
// CRLF counts as one newline; bare CR and bare LF each count as one.
func (t *Tokenizer) advancePosition(kept []rune) {
	i := 0
	for i < len(kept) {
		r := kept[i]
		switch r {
		case '\r':
			if i+1 < len(kept) && kept[i+1] == '\n' {
				i++
			}
			t.row++
			t.col = 1
		case '\n':
			t.row++
			t.col = 1
		default:
			t.col++
		}
		i++
	}
}
