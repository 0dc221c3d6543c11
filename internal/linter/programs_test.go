package linter

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/qbi-lang/qbi/internal/lexer"
	"github.com/qbi-lang/qbi/internal/parser"
)

// TestResolvedProgramSnapshots runs a representative program through the
// full parse+lint pipeline and snapshots its resolved String() form,
// catching accidental regressions in the SubCall/FunctionCall
// disambiguation the linter performs (spec.md §4.4 phase 4).
func TestResolvedProgramSnapshots(t *testing.T) {
	tests := map[string]string{
		"array_and_udt": `TYPE Point
	X AS INTEGER
	Y AS INTEGER
END TYPE

DIM Origin AS Point
DIM Samples(10) AS INTEGER
DIM Total AS INTEGER

Origin.X = 0

FOR I = 0 TO 10
	Total = Total + Samples(I)
NEXT I`,
		"user_sub_and_builtin": `DECLARE SUB Greet (Who AS STRING)

Greet "World"
BEEP

SUB Greet (Who AS STRING)
	PRINT "Hello, "; Who
END SUB`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			prog, err := parser.Program(lexer.New(input))
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}
			resolved, _, err := Resolve(prog, input)
			if err != nil {
				t.Fatalf("unexpected lint error: %v", err)
			}
			snaps.MatchSnapshot(t, name, resolved.String())
		})
	}
}
