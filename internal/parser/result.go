// Package parser implements the reusable parser-combinator framework
// (spec.md §4.2) and, on top of it, the BASIC grammar (spec.md §4.3).
//
// The central design decision, per spec.md §4.2/§7/§9, is the
// incomplete-vs-hard error algebra: an Error with Incomplete set means
// "this parser did not match; the input is unconsumed beyond what has
// already been undone; try another alternative." Any other Error is
// hard: it propagates immediately and no alternative is tried.
package parser

import (
	"fmt"

	"github.com/qbi-lang/qbi/pkg/token"
)

// Error is the single error type every parser in this package returns.
// Incomplete errors carry no message (spec.md §4.2: "Incomplete errors
// carry no message and are internal"); hard errors always carry a
// position and a human-readable message.
type Error struct {
	Incomplete bool
	Pos        token.Position
	Message    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Incomplete {
		return "incomplete parse"
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// incompleteErr is the single shared incomplete sentinel. Incomplete errors
// carry no position or message, so one instance suffices; combinators
// must use IsIncomplete (not equality) in case a future revision attaches
// debug-only context.
var incompleteErr = &Error{Incomplete: true}

// Incomplete returns the incomplete sentinel error.
func Incomplete() error {
	return incompleteErr
}

// Hard builds a positioned, user-visible error. The canonical message
// form for "expected but did not find" failures is produced by Expected,
// not by calling Hard directly with an ad-hoc "Expected: " prefix.
func Hard(pos token.Position, format string, args ...any) error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Expected builds the canonical "Expected: X" hard error (spec.md
// §4.2: "The message 'Expected: X' is the canonical form").
func Expected(pos token.Position, what string) error {
	return &Error{Pos: pos, Message: "Expected: " + what}
}

// IsIncomplete reports whether err is the incomplete sentinel.
func IsIncomplete(err error) bool {
	pe, ok := err.(*Error)
	return ok && pe.Incomplete
}

// AsHard extracts the *Error for a known-hard error (err must not be
// incomplete and must not be nil).
func AsHard(err error) *Error {
	pe, _ := err.(*Error)
	return pe
}
