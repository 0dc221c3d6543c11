package parser

import (
	"testing"

	"github.com/qbi-lang/qbi/pkg/ast"
)

func TestSingleLineIf(t *testing.T) {
	prog := mustParseProgram(t, "IF X > 0 THEN Y = 1 ELSE Y = 2")
	ifStmt, ok := prog.Tokens[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.IfStmt", prog.Tokens[0])
	}
	if !ifStmt.SingleLine {
		t.Error("expected SingleLine to be true")
	}
	if len(ifStmt.Statements) != 1 || len(ifStmt.ElseStatements) != 1 {
		t.Errorf("got %d then-statements, %d else-statements, want 1 and 1",
			len(ifStmt.Statements), len(ifStmt.ElseStatements))
	}
	if got, want := ifStmt.String(), "IF (X > 0) THEN Y = 1 ELSE Y = 2"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMultiLineIfWithElseIfAndElse(t *testing.T) {
	input := `IF X = 1 THEN
	Y = 1
ELSEIF X = 2 THEN
	Y = 2
ELSE
	Y = 3
END IF`
	prog := mustParseProgram(t, input)
	ifStmt, ok := prog.Tokens[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.IfStmt", prog.Tokens[0])
	}
	if ifStmt.SingleLine {
		t.Error("expected SingleLine to be false")
	}
	if len(ifStmt.Statements) != 1 {
		t.Errorf("got %d then-statements, want 1", len(ifStmt.Statements))
	}
	if len(ifStmt.ElseIfs) != 1 {
		t.Fatalf("got %d elseif arms, want 1", len(ifStmt.ElseIfs))
	}
	if len(ifStmt.ElseStatements) != 1 {
		t.Errorf("got %d else-statements, want 1", len(ifStmt.ElseStatements))
	}
}

func TestMultiLineIfMissingEndIfIsError(t *testing.T) {
	_, err := ProgramFromString("IF X THEN\nY = 1")
	if err == nil {
		t.Fatal("expected an error for a missing END IF")
	}
}

func TestForLoop(t *testing.T) {
	input := "FOR I = 1 TO 10 STEP 2\n  X = I\nNEXT I"
	prog := mustParseProgram(t, input)
	loop, ok := prog.Tokens[0].(*ast.ForLoop)
	if !ok {
		t.Fatalf("got %T, want *ast.ForLoop", prog.Tokens[0])
	}
	if loop.Variable != "I" || loop.NextCounter != "I" {
		t.Errorf("got variable=%q nextCounter=%q, want I and I", loop.Variable, loop.NextCounter)
	}
	if loop.Step == nil {
		t.Fatal("expected a STEP expression")
	}
	if len(loop.Statements) != 1 {
		t.Errorf("got %d body statements, want 1", len(loop.Statements))
	}
}

func TestForLoopWithoutStepOrNamedNext(t *testing.T) {
	prog := mustParseProgram(t, "FOR I = 1 TO 10\nX = I\nNEXT")
	loop, ok := prog.Tokens[0].(*ast.ForLoop)
	if !ok {
		t.Fatalf("got %T, want *ast.ForLoop", prog.Tokens[0])
	}
	if loop.Step != nil {
		t.Error("expected no STEP expression")
	}
	if loop.NextCounter != "" {
		t.Errorf("got NextCounter %q, want empty", loop.NextCounter)
	}
}

func TestWhileLoop(t *testing.T) {
	prog := mustParseProgram(t, "WHILE X < 10\nX = X + 1\nWEND")
	loop, ok := prog.Tokens[0].(*ast.WhileLoop)
	if !ok {
		t.Fatalf("got %T, want *ast.WhileLoop", prog.Tokens[0])
	}
	if len(loop.Statements) != 1 {
		t.Errorf("got %d body statements, want 1", len(loop.Statements))
	}
}

func TestDoLoopTopTestedWhile(t *testing.T) {
	prog := mustParseProgram(t, "DO WHILE X < 10\nX = X + 1\nLOOP")
	loop, ok := prog.Tokens[0].(*ast.DoLoop)
	if !ok {
		t.Fatalf("got %T, want *ast.DoLoop", prog.Tokens[0])
	}
	if loop.ConditionKind != ast.DoConditionWhile || loop.ConditionPos != ast.DoConditionTop {
		t.Errorf("got kind=%v pos=%v, want While/Top", loop.ConditionKind, loop.ConditionPos)
	}
}

func TestDoLoopBottomTestedUntil(t *testing.T) {
	prog := mustParseProgram(t, "DO\nX = X + 1\nLOOP UNTIL X >= 10")
	loop, ok := prog.Tokens[0].(*ast.DoLoop)
	if !ok {
		t.Fatalf("got %T, want *ast.DoLoop", prog.Tokens[0])
	}
	if loop.ConditionKind != ast.DoConditionUntil || loop.ConditionPos != ast.DoConditionBottom {
		t.Errorf("got kind=%v pos=%v, want Until/Bottom", loop.ConditionKind, loop.ConditionPos)
	}
}

func TestDoLoopWithNoCondition(t *testing.T) {
	prog := mustParseProgram(t, "DO\nX = X + 1\nLOOP")
	loop, ok := prog.Tokens[0].(*ast.DoLoop)
	if !ok {
		t.Fatalf("got %T, want *ast.DoLoop", prog.Tokens[0])
	}
	if loop.ConditionKind != ast.DoConditionNone {
		t.Errorf("got kind=%v, want None", loop.ConditionKind)
	}
}

func TestSelectCaseWithRangeAndIsAndElse(t *testing.T) {
	input := `SELECT CASE X
CASE 1
	Y = 1
CASE 2 TO 4
	Y = 2
CASE IS > 10
	Y = 3
CASE ELSE
	Y = 4
END SELECT`
	prog := mustParseProgram(t, input)
	sel, ok := prog.Tokens[0].(*ast.SelectCase)
	if !ok {
		t.Fatalf("got %T, want *ast.SelectCase", prog.Tokens[0])
	}
	if len(sel.Arms) != 3 {
		t.Fatalf("got %d arms, want 3", len(sel.Arms))
	}
	if sel.Arms[1].Exprs[0].RangeLo == nil || sel.Arms[1].Exprs[0].RangeHi == nil {
		t.Errorf("arm 1 should be a TO range: %+v", sel.Arms[1].Exprs[0])
	}
	if sel.Arms[2].Exprs[0].IsOp != ">" {
		t.Errorf("arm 2 should be IS >: %+v", sel.Arms[2].Exprs[0])
	}
	if sel.ElseStatements == nil || len(sel.ElseStatements) != 1 {
		t.Errorf("got else-statements %+v, want 1 statement", sel.ElseStatements)
	}
}

func TestSelectCaseDuplicateElseIsError(t *testing.T) {
	input := `SELECT CASE X
CASE ELSE
	Y = 1
CASE ELSE
	Y = 2
END SELECT`
	_, err := ProgramFromString(input)
	if err == nil {
		t.Fatal("expected a duplicate CASE ELSE error")
	}
}
