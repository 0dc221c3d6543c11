// Package errors formats the closed taxonomy of user-visible compiler
// errors (spec.md §7) with source context and a caret pointing at the
// offending column.
package errors

import (
	"fmt"
	"strings"

	"github.com/qbi-lang/qbi/pkg/token"
)

// Kind is the closed error taxonomy from spec.md §7. It exists purely
// for callers that want to branch on error category (e.g. tests
// asserting "this rejects as Overflow, not Syntax"); the user-visible
// text never mentions the kind name.
type Kind int

const (
	Syntax Kind = iota
	Overflow
	IdentifierTooLong
	IdentifierCannotIncludePeriod
	TypeMismatch
	ArgumentCountMismatch
	ArgumentTypeMismatch
	VariableRequired
	DuplicateDefinition
	SubprogramNotDefined
	ElementNotDefined
	WendWithoutWhile
	ElseWithoutIf
	LoopWithoutDo
)

// CompilerError is the single error type surfaced at the package
// boundary (spec.md §6/§7): a position, a kind, and a message, with
// enough of the original source retained to render a caret.
type CompilerError struct {
	Kind    Kind
	Message string
	Pos     token.Position
	Source  string // full source text, for Format's source-line lookup
}

// New builds a CompilerError.
func New(kind Kind, pos token.Position, format string, args ...any) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// WithSource attaches the source text so Format can render a caret line.
func (e *CompilerError) WithSource(source string) *CompilerError {
	e.Source = source
	return e
}

// Error implements the error interface with the canonical boundary form
// from spec.md §7: "Line R Column C: message".
func (e *CompilerError) Error() string {
	return fmt.Sprintf("Line %d Column %d: %s", e.Pos.Row, e.Pos.Col, e.Message)
}

// Format renders the error together with its source line and a caret
// pointing at the column, for CLI presentation.
func (e *CompilerError) Format() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	line := e.sourceLine(e.Pos.Row)
	if line == "" {
		return sb.String()
	}
	sb.WriteString("\n")
	prefix := fmt.Sprintf("%4d | ", e.Pos.Row)
	sb.WriteString(prefix)
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Col-1))
	sb.WriteString("^")
	return sb.String()
}

// FormatWithContext renders the error like Format, plus contextLines of
// surrounding source on either side.
func (e *CompilerError) FormatWithContext(contextLines int) string {
	lines := e.allLines()
	if len(lines) == 0 || e.Pos.Row < 1 || e.Pos.Row > len(lines) {
		return e.Format()
	}

	start := e.Pos.Row - contextLines
	if start < 1 {
		start = 1
	}
	end := e.Pos.Row + contextLines
	if end > len(lines) {
		end = len(lines)
	}

	var sb strings.Builder
	sb.WriteString(e.Error())
	sb.WriteString("\n")
	for n := start; n <= end; n++ {
		prefix := fmt.Sprintf("%4d | ", n)
		sb.WriteString(prefix)
		sb.WriteString(lines[n-1])
		sb.WriteString("\n")
		if n == e.Pos.Row {
			sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Col-1))
			sb.WriteString("^\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (e *CompilerError) allLines() []string {
	if e.Source == "" {
		return nil
	}
	return strings.Split(e.Source, "\n")
}

func (e *CompilerError) sourceLine(row int) string {
	lines := e.allLines()
	if row < 1 || row > len(lines) {
		return ""
	}
	return lines[row-1]
}
