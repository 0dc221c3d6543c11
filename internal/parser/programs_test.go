package parser

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestProgramSnapshots parses representative multi-construct programs and
// snapshots their canonical String() rendering, catching accidental
// regressions in how the parser rebuilds source from the AST.
func TestProgramSnapshots(t *testing.T) {
	tests := map[string]string{
		"fizzbuzz": `FOR I = 1 TO 20
	IF I MOD 15 = 0 THEN
		PRINT "FizzBuzz"
	ELSEIF I MOD 3 = 0 THEN
		PRINT "Fizz"
	ELSEIF I MOD 5 = 0 THEN
		PRINT "Buzz"
	ELSE
		PRINT I
	END IF
NEXT I`,
		"type_and_sub": `TYPE Point
	X AS INTEGER
	Y AS INTEGER
END TYPE

DIM P AS Point

SUB PrintPoint (P AS Point)
	PRINT P
END SUB`,
		"select_case_with_const": `CONST MAX = 3

SELECT CASE N
CASE 1
	PRINT "one"
CASE 2 TO MAX
	PRINT "a few"
CASE ELSE
	PRINT "many"
END SELECT`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			prog := mustParseProgram(t, input)
			snaps.MatchSnapshot(t, name, prog.String())
		})
	}
}
