package parser

import (
	"testing"

	"github.com/qbi-lang/qbi/internal/lexer"
	"github.com/qbi-lang/qbi/pkg/ast"
)

func mustParseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, err := Program(lexer.New(input))
	if err != nil {
		t.Fatalf("%q: unexpected parse error: %v", input, err)
	}
	return prog
}

// ProgramFromString is the error-preserving counterpart to
// mustParseProgram, used by tests that assert on failure.
func ProgramFromString(input string) (*ast.Program, error) {
	return Program(lexer.New(input))
}

func singleAssignment(t *testing.T, prog *ast.Program) *ast.Assignment {
	t.Helper()
	if len(prog.Tokens) != 1 {
		t.Fatalf("got %d top-level tokens, want 1: %+v", len(prog.Tokens), prog.Tokens)
	}
	asn, ok := prog.Tokens[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("got %T, want *ast.Assignment", prog.Tokens[0])
	}
	return asn
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"A = 1 + 2 * 3", "(1 + (2 * 3))"},
		{"A = 1 * 2 + 3", "((1 * 2) + 3)"},
		{"A = 1 OR 2 AND 3", "(1 OR (2 AND 3))"},
		{"A = 1 < 2 AND 3 > 4", "((1 < 2) AND (3 > 4))"},
		{"A = 10 MOD 3", "(10 MOD 3)"},
		{"A = 1 + 2 - 3", "((1 + 2) - 3)"},
	}
	for _, tt := range tests {
		prog := mustParseProgram(t, tt.input)
		asn := singleAssignment(t, prog)
		if got := asn.RHS.String(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestUnaryNot(t *testing.T) {
	prog := mustParseProgram(t, "A = NOT B")
	asn := singleAssignment(t, prog)
	if got, want := asn.RHS.String(), "(NOT B)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUnaryMinusFoldsIntoNumericLiteral(t *testing.T) {
	// A minus directly in front of a numeric literal folds into a single
	// signed NumericLiteral rather than a UnaryExpression (spec.md §4.3).
	prog := mustParseProgram(t, "A = -5")
	asn := singleAssignment(t, prog)
	lit, ok := asn.RHS.(*ast.NumericLiteral)
	if !ok {
		t.Fatalf("got %T, want *ast.NumericLiteral", asn.RHS)
	}
	if lit.Qualifier != ast.Integer || lit.IntValue != -5 {
		t.Errorf("got qualifier=%v intValue=%d, want Integer -5", lit.Qualifier, lit.IntValue)
	}
	if got, want := asn.String(), "A = -5"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUnaryMinusOnNonLiteralStaysUnaryExpression(t *testing.T) {
	prog := mustParseProgram(t, "A = -B")
	asn := singleAssignment(t, prog)
	unary, ok := asn.RHS.(*ast.UnaryExpression)
	if !ok {
		t.Fatalf("got %T, want *ast.UnaryExpression", asn.RHS)
	}
	if got, want := unary.String(), "(-B)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParenthesizedExpression(t *testing.T) {
	prog := mustParseProgram(t, "A = (1 + 2) * 3")
	asn := singleAssignment(t, prog)
	if got, want := asn.RHS.String(), "((1 + 2) * 3)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStringLiteralExpression(t *testing.T) {
	prog := mustParseProgram(t, `A = "hello"`)
	asn := singleAssignment(t, prog)
	str, ok := asn.RHS.(*ast.StringLiteral)
	if !ok {
		t.Fatalf("got %T, want *ast.StringLiteral", asn.RHS)
	}
	if str.Value != "hello" {
		t.Errorf("got %q, want %q", str.Value, "hello")
	}
}

// TestNameWithArgumentsIsAmbiguousFunctionCall checks that the parser
// defers the function-call/array-access/sub-call decision to the linter:
// it always produces a plain FunctionCall node for name(args) in
// expression position (spec.md §4.3/§9).
func TestNameWithArgumentsIsAmbiguousFunctionCall(t *testing.T) {
	prog := mustParseProgram(t, "A = FOO(1, 2)")
	asn := singleAssignment(t, prog)
	call, ok := asn.RHS.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("got %T, want *ast.FunctionCall", asn.RHS)
	}
	if call.Name != "FOO" || len(call.Args) != 2 {
		t.Errorf("got name=%q args=%d, want FOO with 2 args", call.Name, len(call.Args))
	}
}

func TestBareNameIsVariableReference(t *testing.T) {
	prog := mustParseProgram(t, "A = B")
	asn := singleAssignment(t, prog)
	ref, ok := asn.RHS.(*ast.VariableReference)
	if !ok {
		t.Fatalf("got %T, want *ast.VariableReference", asn.RHS)
	}
	if ref.Name != "B" {
		t.Errorf("got %q, want %q", ref.Name, "B")
	}
}

func TestQualifiedNameIncludesSigil(t *testing.T) {
	prog := mustParseProgram(t, "A% = B%")
	asn := singleAssignment(t, prog)
	lhs, ok := asn.LHS.(*ast.VariableReference)
	if !ok {
		t.Fatalf("got %T, want *ast.VariableReference", asn.LHS)
	}
	if lhs.Name != "A%" {
		t.Errorf("got %q, want %q", lhs.Name, "A%")
	}
}

// TestKeywordOperatorAllowsParenInPlaceOfTrailingWhitespace exercises
// matchWordOperator's whitespace-significance rule (spec.md §4.3): "A
// ANDB" can never tokenize as "AND" "B" since the lexer's longest match
// would see ANDB as a single identifier, so this instead checks the
// positive case that a '(' may stand in for trailing whitespace.
func TestKeywordOperatorAllowsParenInPlaceOfTrailingWhitespace(t *testing.T) {
	prog := mustParseProgram(t, "A = B AND(C)")
	asn := singleAssignment(t, prog)
	bin, ok := asn.RHS.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("got %T, want *ast.BinaryExpression", asn.RHS)
	}
	if bin.Operator != "AND" {
		t.Errorf("got operator %q, want AND", bin.Operator)
	}
}
