package parser

import (
	"testing"

	"github.com/qbi-lang/qbi/pkg/ast"
	"github.com/qbi-lang/qbi/pkg/token"
)

func TestAssignmentStatement(t *testing.T) {
	prog := mustParseProgram(t, "X = 42")
	asn := singleAssignment(t, prog)
	if got, want := asn.String(), "X = 42"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestArrayElementAssignmentParsesFunctionCallShapedLHS exercises the
// statement-position sibling of the expression grammar's name(args)
// ambiguity (spec.md §4.3/§9): a parenthesized-args name followed by
// '=' is an assignment, not a sub call, so the parser keeps the
// FunctionCall shape on the LHS for the linter to resolve to an
// ArrayAccess once it knows the name is a dimensioned array.
func TestArrayElementAssignmentParsesFunctionCallShapedLHS(t *testing.T) {
	prog := mustParseProgram(t, "A(3) = 5")
	asn := singleAssignment(t, prog)
	lhs, ok := asn.LHS.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("got %T, want *ast.FunctionCall", asn.LHS)
	}
	if lhs.Name != "A" || len(lhs.Args) != 1 {
		t.Errorf("got %+v, want A with 1 arg", lhs)
	}
	if got, want := asn.String(), "A(3) = 5"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCommentStatement(t *testing.T) {
	prog := mustParseProgram(t, "' this is a comment")
	if len(prog.Tokens) != 1 {
		t.Fatalf("got %d tokens, want 1: %+v", len(prog.Tokens), prog.Tokens)
	}
	com, ok := prog.Tokens[0].(*ast.CommentStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.CommentStmt", prog.Tokens[0])
	}
	if com.Text != " this is a comment" {
		t.Errorf("got %q, want %q", com.Text, " this is a comment")
	}
}

func TestLabelStatement(t *testing.T) {
	prog := mustParseProgram(t, "START:\nX = 1")
	if len(prog.Tokens) != 2 {
		t.Fatalf("got %d tokens, want 2: %+v", len(prog.Tokens), prog.Tokens)
	}
	label, ok := prog.Tokens[0].(*ast.LabelStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.LabelStmt", prog.Tokens[0])
	}
	if label.Name != "START" {
		t.Errorf("got %q, want %q", label.Name, "START")
	}
}

func TestGotoAndGosubAndReturn(t *testing.T) {
	prog := mustParseProgram(t, "GOTO START\nGOSUB SUBR\nRETURN")
	if len(prog.Tokens) != 3 {
		t.Fatalf("got %d tokens, want 3: %+v", len(prog.Tokens), prog.Tokens)
	}
	g, ok := prog.Tokens[0].(*ast.GotoStmt)
	if !ok || g.Label != "START" {
		t.Errorf("got %+v, want GOTO START", prog.Tokens[0])
	}
	gs, ok := prog.Tokens[1].(*ast.GosubStmt)
	if !ok || gs.Label != "SUBR" {
		t.Errorf("got %+v, want GOSUB SUBR", prog.Tokens[1])
	}
	ret, ok := prog.Tokens[2].(*ast.ReturnStmt)
	if !ok || ret.Label != "" {
		t.Errorf("got %+v, want bare RETURN", prog.Tokens[2])
	}
}

func TestOnErrorVariants(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ON ERROR GOTO HANDLER", "ON ERROR GOTO HANDLER"},
		{"ON ERROR GOTO 0", "ON ERROR GOTO 0"},
		{"ON ERROR RESUME NEXT", "ON ERROR RESUME NEXT"},
	}
	for _, tt := range tests {
		prog := mustParseProgram(t, tt.input)
		if len(prog.Tokens) != 1 {
			t.Fatalf("%q: got %d tokens, want 1", tt.input, len(prog.Tokens))
		}
		stmt, ok := prog.Tokens[0].(*ast.OnErrorStmt)
		if !ok {
			t.Fatalf("%q: got %T, want *ast.OnErrorStmt", tt.input, prog.Tokens[0])
		}
		if got := stmt.String(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResumeVariants(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"RESUME", "RESUME"},
		{"RESUME NEXT", "RESUME NEXT"},
		{"RESUME HANDLER", "RESUME HANDLER"},
	}
	for _, tt := range tests {
		prog := mustParseProgram(t, tt.input)
		stmt, ok := prog.Tokens[0].(*ast.ResumeStmt)
		if !ok {
			t.Fatalf("%q: got %T, want *ast.ResumeStmt", tt.input, prog.Tokens[0])
		}
		if got := stmt.String(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExitFunctionAndExitSub(t *testing.T) {
	prog := mustParseProgram(t, "EXIT FUNCTION\nEXIT SUB")
	f, ok := prog.Tokens[0].(*ast.ExitStmt)
	if !ok || f.Kind != ast.ExitFunction {
		t.Errorf("got %+v, want EXIT FUNCTION", prog.Tokens[0])
	}
	s, ok := prog.Tokens[1].(*ast.ExitStmt)
	if !ok || s.Kind != ast.ExitSub {
		t.Errorf("got %+v, want EXIT SUB", prog.Tokens[1])
	}
}

func TestEndAndSystemStatements(t *testing.T) {
	prog := mustParseProgram(t, "END\nSYSTEM")
	if _, ok := prog.Tokens[0].(*ast.EndStmt); !ok {
		t.Errorf("got %T, want *ast.EndStmt", prog.Tokens[0])
	}
	if _, ok := prog.Tokens[1].(*ast.SystemStmt); !ok {
		t.Errorf("got %T, want *ast.SystemStmt", prog.Tokens[1])
	}
}

// TestReservedKeywordsAreHardErrorsAtStatementStart exercises spec.md
// §4.3's reserved-keyword rule: WEND/ELSE/LOOP at statement start fail
// the whole parse immediately rather than falling through to the next
// alternative in the Statement dispatch table.
func TestReservedKeywordsAreHardErrorsAtStatementStart(t *testing.T) {
	for _, input := range []string{"WEND", "ELSE", "LOOP"} {
		_, err := parseFirstStatement(t, input)
		if err == nil {
			t.Errorf("%q: expected a hard error, got none", input)
			continue
		}
		if IsIncomplete(err) {
			t.Errorf("%q: got an incomplete error, want a hard error", input)
		}
	}
}

func parseFirstStatement(t *testing.T, input string) (ast.Statement, error) {
	t.Helper()
	prog, err := ProgramFromString(input)
	if err != nil {
		return nil, err
	}
	if len(prog.Tokens) == 0 {
		return nil, nil
	}
	return prog.Tokens[0].(ast.Statement), nil
}

func TestBuiltInSubCallBeep(t *testing.T) {
	prog := mustParseProgram(t, "BEEP")
	call, ok := prog.Tokens[0].(*ast.BuiltInSubCall)
	if !ok {
		t.Fatalf("got %T, want *ast.BuiltInSubCall", prog.Tokens[0])
	}
	if call.Kind != token.KwBeep || len(call.Args) != 0 {
		t.Errorf("got %+v, want bare BEEP built-in sub call", call)
	}
}

func TestBuiltInSubCallSwap(t *testing.T) {
	prog := mustParseProgram(t, "SWAP A, B")
	call, ok := prog.Tokens[0].(*ast.BuiltInSubCall)
	if !ok {
		t.Fatalf("got %T, want *ast.BuiltInSubCall", prog.Tokens[0])
	}
	if call.Kind != token.KwSwap || len(call.Args) != 2 {
		t.Errorf("got %+v, want SWAP with 2 args", call)
	}
}

func TestSubCallWithBareArguments(t *testing.T) {
	// Statement-position `name args...` with no parens is a SubCall, since
	// the linter (not the parser) decides whether NAME is a built-in or
	// user-defined sub (spec.md §3).
	prog := mustParseProgram(t, "PRINTIT 1, 2")
	call, ok := prog.Tokens[0].(*ast.SubCall)
	if !ok {
		t.Fatalf("got %T, want *ast.SubCall", prog.Tokens[0])
	}
	if call.Name != "PRINTIT" || len(call.Args) != 2 {
		t.Errorf("got %+v, want PRINTIT with 2 args", call)
	}
}

func TestPrintStatement(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`PRINT "hi"`, `PRINT "hi"`},
		{`PRINT "a", "b"`, `PRINT "a", "b"`},
		{`PRINT 1; 2`, `PRINT 1; 2`},
		{`PRINT`, `PRINT`},
		{`LPRINT "x"`, `LPRINT "x"`},
	}
	for _, tt := range tests {
		prog := mustParseProgram(t, tt.input)
		p, ok := prog.Tokens[0].(*ast.PrintStmt)
		if !ok {
			t.Fatalf("%q: got %T, want *ast.PrintStmt", tt.input, prog.Tokens[0])
		}
		if got := p.String(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrintWithFileHandleAndUsing(t *testing.T) {
	// No whitespace between PRINT and '#': printFileHandle does not skip
	// leading whitespace itself (spec.md §4.3's PRINT grammar treats the
	// file handle as immediately adjacent to the keyword).
	prog := mustParseProgram(t, `PRINT#1, USING "###.##"; 3.14`)
	p, ok := prog.Tokens[0].(*ast.PrintStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.PrintStmt", prog.Tokens[0])
	}
	if p.FileHandle == nil {
		t.Fatal("expected a file handle expression")
	}
	if p.Using == nil || p.Using.Value != "###.##" {
		t.Errorf("got using=%+v, want \"###.##\"", p.Using)
	}
	if len(p.Args) != 1 {
		t.Errorf("got %d args, want 1", len(p.Args))
	}
}

func TestPrintConsecutiveExpressionsWithNoSeparatorIsHardError(t *testing.T) {
	_, err := ProgramFromString(`PRINT 1 2`)
	if err == nil {
		t.Fatal("expected a hard error for two adjacent PRINT expressions with no separator")
	}
}
