package linter

import (
	"testing"

	"github.com/qbi-lang/qbi/internal/errors"
	"github.com/qbi-lang/qbi/internal/lexer"
	"github.com/qbi-lang/qbi/internal/parser"
	"github.com/qbi-lang/qbi/pkg/ast"
)

func mustResolve(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Program(lexer.New(src))
	if err != nil {
		t.Fatalf("%q: unexpected parse error: %v", src, err)
	}
	resolved, _, err := Resolve(prog, src)
	if err != nil {
		t.Fatalf("%q: unexpected lint error: %v", src, err)
	}
	return resolved
}

func resolveErr(t *testing.T, src string) *errors.CompilerError {
	t.Helper()
	prog, err := parser.Program(lexer.New(src))
	if err != nil {
		t.Fatalf("%q: unexpected parse error: %v", src, err)
	}
	_, _, err = Resolve(prog, src)
	if err == nil {
		t.Fatalf("%q: expected a lint error, got none", src)
	}
	ce, ok := err.(*errors.CompilerError)
	if !ok {
		t.Fatalf("%q: got error of type %T, want *errors.CompilerError", src, err)
	}
	return ce
}

func TestImplicitVariableTakesDefaultTypeQualifier(t *testing.T) {
	prog := mustResolve(t, "X = 1")
	asn := prog.Tokens[0].(*ast.Assignment)
	ref := asn.LHS.(*ast.VariableReference)
	if ref.Info == nil || ref.Info.ExpressionType.Qualifier != ast.Single {
		t.Errorf("got %+v, want implicit Single", ref.Info)
	}
}

func TestDefIntChangesDefaultTypeForLaterNames(t *testing.T) {
	prog := mustResolve(t, "DEFINT I-N\nX = 1\nI = 2")
	asn1 := prog.Tokens[1].(*ast.Assignment)
	if asn1.LHS.(*ast.VariableReference).Info.ExpressionType.Qualifier != ast.Single {
		t.Errorf("X should remain Single")
	}
	asn2 := prog.Tokens[2].(*ast.Assignment)
	if asn2.LHS.(*ast.VariableReference).Info.ExpressionType.Qualifier != ast.Integer {
		t.Errorf("I should default to Integer under DEFINT I-N")
	}
}

func TestSigilOverridesDefaultType(t *testing.T) {
	prog := mustResolve(t, "A$ = \"hi\"")
	asn := prog.Tokens[0].(*ast.Assignment)
	if asn.LHS.(*ast.VariableReference).Info.ExpressionType.Qualifier != ast.String {
		t.Error("A$ should resolve to String regardless of default-type table")
	}
}

func TestSharedVariableVisibleInsideSub(t *testing.T) {
	input := "DIM SHARED Total AS INTEGER\nSUB Bump ()\n  Total = Total + 1\nEND SUB"
	prog := mustResolve(t, input)
	sub := prog.Tokens[1].(*ast.SubImpl)
	asn := sub.Statements[0].(*ast.Assignment)
	if asn.LHS.(*ast.VariableReference).Info.ExpressionType.Qualifier != ast.Integer {
		t.Error("Total should resolve through SHARED to the module-scope declaration")
	}
}

func TestNonSharedModuleVariableNotVisibleInsideSub(t *testing.T) {
	input := "DIM Total AS INTEGER\nSUB Bump ()\n  Total = 1\nEND SUB"
	prog := mustResolve(t, input)
	// Without SHARED, the SUB body's Total is its own implicit local,
	// defaulting to Single rather than inheriting the module DIM's Integer.
	sub := prog.Tokens[1].(*ast.SubImpl)
	asn := sub.Statements[0].(*ast.Assignment)
	if asn.LHS.(*ast.VariableReference).Info.ExpressionType.Qualifier != ast.Single {
		t.Error("Total inside the SUB should be its own implicit Single local")
	}
}

func TestAssignmentTypeMismatchIsError(t *testing.T) {
	ce := resolveErr(t, `A$ = 1`)
	if ce.Kind != errors.TypeMismatch {
		t.Errorf("got kind %v, want TypeMismatch", ce.Kind)
	}
}

func TestBinaryOperatorTypeMismatchIsError(t *testing.T) {
	ce := resolveErr(t, `A = "x" + 1`)
	if ce.Kind != errors.TypeMismatch {
		t.Errorf("got kind %v, want TypeMismatch", ce.Kind)
	}
}

func TestComparisonOperatorsAlwaysYieldInteger(t *testing.T) {
	prog := mustResolve(t, `A = 1 < 2`)
	asn := prog.Tokens[0].(*ast.Assignment)
	bin := asn.RHS.(*ast.BinaryExpression)
	if bin.Type == nil || bin.Type.Qualifier != ast.Integer {
		t.Errorf("got %+v, want Integer", bin.Type)
	}
}

func TestLogicalOperatorsResolveToInteger(t *testing.T) {
	prog := mustResolve(t, `A = (1 < 2) AND (3 > 2)`)
	asn := prog.Tokens[0].(*ast.Assignment)
	bin := asn.RHS.(*ast.BinaryExpression)
	if bin.Type == nil || bin.Type.Qualifier != ast.Integer {
		t.Errorf("got %+v, want Integer", bin.Type)
	}
}

func TestLogicalOperatorRejectsString(t *testing.T) {
	ce := resolveErr(t, `A = "x" OR 1`)
	if ce.Kind != errors.TypeMismatch {
		t.Errorf("got kind %v, want TypeMismatch", ce.Kind)
	}
}

func TestUnaryNotOnNonLiteralOperand(t *testing.T) {
	input := "DIM X AS INTEGER\nA = NOT X"
	prog := mustResolve(t, input)
	asn := prog.Tokens[1].(*ast.Assignment)
	un, ok := asn.RHS.(*ast.UnaryExpression)
	if !ok {
		t.Fatalf("got %T, want *ast.UnaryExpression", asn.RHS)
	}
	if un.Type == nil || un.Type.Qualifier != ast.Integer {
		t.Errorf("got %+v, want Integer", un.Type)
	}
}

func TestUnaryNotOnStringIsTypeMismatch(t *testing.T) {
	input := "DIM X AS STRING\nA = NOT X"
	ce := resolveErr(t, input)
	if ce.Kind != errors.TypeMismatch {
		t.Errorf("got kind %v, want TypeMismatch", ce.Kind)
	}
}

func TestBuiltInFunctionCallResolvesReturnType(t *testing.T) {
	prog := mustResolve(t, `A$ = LEFT$("hello", 3)`)
	asn := prog.Tokens[0].(*ast.Assignment)
	call, ok := asn.RHS.(*ast.BuiltInFunctionCall)
	if !ok {
		t.Fatalf("got %T, want *ast.BuiltInFunctionCall", asn.RHS)
	}
	if call.Name != "LEFT" || call.Type.Qualifier != ast.String {
		t.Errorf("got %+v, want LEFT returning String", call)
	}
}

func TestUserFunctionCallResolvesAgainstDeclaredSignature(t *testing.T) {
	input := "DECLARE FUNCTION Twice% (N AS INTEGER)\nA% = Twice%(5)\nFUNCTION Twice% (N AS INTEGER)\n  Twice% = N * 2\nEND FUNCTION"
	prog := mustResolve(t, input)
	asn := prog.Tokens[1].(*ast.Assignment)
	call, ok := asn.RHS.(*ast.UserFunctionCall)
	if !ok {
		t.Fatalf("got %T, want *ast.UserFunctionCall", asn.RHS)
	}
	if call.Name != "TWICE" || call.Type.Qualifier != ast.Integer {
		t.Errorf("got %+v, want TWICE returning Integer", call)
	}
}

func TestArrayElementAccessResolvesAsArrayAccessNotFunctionCall(t *testing.T) {
	input := "DIM A(10) AS INTEGER\nX = A(3)"
	prog := mustResolve(t, input)
	asn := prog.Tokens[1].(*ast.Assignment)
	access, ok := asn.RHS.(*ast.ArrayAccess)
	if !ok {
		t.Fatalf("got %T, want *ast.ArrayAccess", asn.RHS)
	}
	if access.Name != "A" || len(access.Indices) != 1 {
		t.Errorf("got %+v, want A with 1 index", access)
	}
}

func TestCallToUndeclaredNameIsSubprogramNotDefinedOrSyntaxError(t *testing.T) {
	ce := resolveErr(t, "DoesNotExist 1, 2")
	if ce.Kind != errors.Syntax {
		t.Errorf("got kind %v, want Syntax", ce.Kind)
	}
}

// TestTopLevelSubCallRewritesToUserSubCall guards against the ambiguous
// SubCall the parser emits for a top-level statement-position name
// surviving resolution unrewritten: resolveProgram must write the
// UserSubCall replacement back into prog.Tokens, the same way
// resolveStatements does for a SUB/FUNCTION body (spec.md §4.4 phase 4).
func TestTopLevelSubCallRewritesToUserSubCall(t *testing.T) {
	input := "SUB Greet (Who AS STRING)\n  PRINT Who\nEND SUB\nGreet \"World\""
	prog := mustResolve(t, input)
	call, ok := prog.Tokens[1].(*ast.UserSubCall)
	if !ok {
		t.Fatalf("got %T, want *ast.UserSubCall", prog.Tokens[1])
	}
	if call.Name != "GREET" || len(call.Args) != 1 {
		t.Errorf("got %+v, want GREET with 1 arg", call)
	}
}

func TestUserSubCallArgumentCountMismatchIsError(t *testing.T) {
	input := "SUB Greet (Who AS STRING)\n  PRINT Who\nEND SUB\nGreet \"a\", \"b\""
	ce := resolveErr(t, input)
	if ce.Kind != errors.ArgumentCountMismatch {
		t.Errorf("got kind %v, want ArgumentCountMismatch", ce.Kind)
	}
}

func TestDeclareAndImplSignatureMismatchIsError(t *testing.T) {
	input := "DECLARE SUB Greet (Who AS STRING)\nSUB Greet (Who AS INTEGER)\nEND SUB"
	ce := resolveErr(t, input)
	if ce.Kind != errors.TypeMismatch {
		t.Errorf("got kind %v, want TypeMismatch", ce.Kind)
	}
}

func TestDeclareWithoutMatchingImplIsSubprogramNotDefined(t *testing.T) {
	ce := resolveErr(t, "DECLARE SUB Greet (Who AS STRING)")
	if ce.Kind != errors.SubprogramNotDefined {
		t.Errorf("got kind %v, want SubprogramNotDefined", ce.Kind)
	}
}

func TestDuplicateSubDefinitionIsError(t *testing.T) {
	input := "SUB Greet ()\nEND SUB\nSUB Greet ()\nEND SUB"
	ce := resolveErr(t, input)
	if ce.Kind != errors.DuplicateDefinition {
		t.Errorf("got kind %v, want DuplicateDefinition", ce.Kind)
	}
}

func TestSubNamedAfterBuiltInIsDuplicateDefinition(t *testing.T) {
	ce := resolveErr(t, "SUB Abs ()\nEND SUB")
	if ce.Kind != errors.DuplicateDefinition {
		t.Errorf("got kind %v, want DuplicateDefinition", ce.Kind)
	}
}

func TestCloseArgumentMustBeNumeric(t *testing.T) {
	ce := resolveErr(t, `CLOSE "oops"`)
	if ce.Kind != errors.ArgumentTypeMismatch {
		t.Errorf("got kind %v, want ArgumentTypeMismatch", ce.Kind)
	}
}

func TestReadArgumentsMustBeWritableVariables(t *testing.T) {
	ce := resolveErr(t, `READ 1`)
	if ce.Kind != errors.VariableRequired {
		t.Errorf("got kind %v, want VariableRequired", ce.Kind)
	}
}

func TestTopLevelConstFolding(t *testing.T) {
	prog := mustResolve(t, "CONST MAX = 100\nCONST MIN = -MAX")
	cs := prog.Tokens[0].(*ast.ConstStmt)
	if cs.Decls[0].Folded == nil || cs.Decls[0].Folded.IntValue != 100 {
		t.Errorf("got %+v, want folded 100", cs.Decls[0].Folded)
	}
	cs2 := prog.Tokens[1].(*ast.ConstStmt)
	if cs2.Decls[0].Folded == nil || cs2.Decls[0].Folded.IntValue != -100 {
		t.Errorf("got %+v, want folded -100 from a reference to MAX", cs2.Decls[0].Folded)
	}
}

func TestConstFoldingRejectsNonConstantExpression(t *testing.T) {
	ce := resolveErr(t, "CONST X = 1 + 2")
	if ce.Kind != errors.Syntax {
		t.Errorf("got kind %v, want Syntax", ce.Kind)
	}
}

func TestDuplicateTopLevelConstIsError(t *testing.T) {
	ce := resolveErr(t, "CONST MAX = 1\nCONST MAX = 2")
	if ce.Kind != errors.DuplicateDefinition {
		t.Errorf("got kind %v, want DuplicateDefinition", ce.Kind)
	}
}

func TestUDTFixedStringLengthFromConstAndElementResolution(t *testing.T) {
	input := "CONST NAMELEN = 20\nTYPE Customer\n  Name AS STRING * NAMELEN\n  Age AS INTEGER\nEND TYPE\nDIM C AS Customer\nC.Age = 5"
	prog := mustResolve(t, input)
	asn := prog.Tokens[3].(*ast.Assignment)
	prop, ok := asn.LHS.(*ast.PropertyAccess)
	if !ok {
		t.Fatalf("got %T, want *ast.PropertyAccess", asn.LHS)
	}
	if len(prop.Path) != 2 || prop.Path[1] != "AGE" || prop.Type.Qualifier != ast.Integer {
		t.Errorf("got %+v, want C.AGE resolving to Integer", prop)
	}
}

func TestUDTSelfReferenceIsError(t *testing.T) {
	input := "TYPE Node\n  Next AS Node\nEND TYPE"
	ce := resolveErr(t, input)
	if ce.Kind != errors.Syntax {
		t.Errorf("got kind %v, want Syntax", ce.Kind)
	}
}

func TestUDTElementNotDefinedIsError(t *testing.T) {
	input := "TYPE Point\n  X AS INTEGER\nEND TYPE\nDIM P AS Point\nP.Z = 1"
	ce := resolveErr(t, input)
	if ce.Kind != errors.ElementNotDefined {
		t.Errorf("got kind %v, want ElementNotDefined", ce.Kind)
	}
}

func TestArrayElementAssignmentResolvesLHSToArrayAccess(t *testing.T) {
	input := "DIM A(10) AS INTEGER\nA(3) = 5"
	prog := mustResolve(t, input)
	asn := prog.Tokens[1].(*ast.Assignment)
	access, ok := asn.LHS.(*ast.ArrayAccess)
	if !ok {
		t.Fatalf("got %T, want *ast.ArrayAccess", asn.LHS)
	}
	if access.Name != "A" || len(access.Indices) != 1 {
		t.Errorf("got %+v, want A with 1 index", access)
	}
}

func TestAssignmentToNonVariableIsVariableRequiredError(t *testing.T) {
	ce := resolveErr(t, `LEFT$("a", 1) = "b"`)
	if ce.Kind != errors.VariableRequired {
		t.Errorf("got kind %v, want VariableRequired", ce.Kind)
	}
}
