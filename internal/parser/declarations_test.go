package parser

import (
	"testing"

	"github.com/qbi-lang/qbi/pkg/ast"
)

func TestDimCompactAndExtendedTypes(t *testing.T) {
	prog := mustParseProgram(t, "DIM A%, B AS STRING")
	dim, ok := prog.Tokens[0].(*ast.DimStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.DimStmt", prog.Tokens[0])
	}
	if dim.Redim || dim.Shared {
		t.Errorf("got redim=%v shared=%v, want both false", dim.Redim, dim.Shared)
	}
	if len(dim.Vars) != 2 {
		t.Fatalf("got %d vars, want 2", len(dim.Vars))
	}
	if dim.Vars[0].Name != "A%" || dim.Vars[0].AsType != "" {
		t.Errorf("got %+v, want compact A%%", dim.Vars[0])
	}
	if dim.Vars[1].Name != "B" || dim.Vars[1].AsType != "STRING" {
		t.Errorf("got %+v, want B AS STRING", dim.Vars[1])
	}
}

func TestRedimSharedWithArrayDimensions(t *testing.T) {
	prog := mustParseProgram(t, "REDIM SHARED A(1 TO 5, 0 TO 10) AS INTEGER")
	dim, ok := prog.Tokens[0].(*ast.DimStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.DimStmt", prog.Tokens[0])
	}
	if !dim.Redim || !dim.Shared {
		t.Errorf("got redim=%v shared=%v, want both true", dim.Redim, dim.Shared)
	}
	v := dim.Vars[0]
	if len(v.Dimensions) != 2 {
		t.Fatalf("got %d dimensions, want 2", len(v.Dimensions))
	}
	if v.AsType != "INTEGER" {
		t.Errorf("got AsType %q, want INTEGER", v.AsType)
	}
}

func TestDimArrayWithoutToKeepsBareUpperBound(t *testing.T) {
	prog := mustParseProgram(t, "DIM A(10)")
	dim, ok := prog.Tokens[0].(*ast.DimStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.DimStmt", prog.Tokens[0])
	}
	v := dim.Vars[0]
	if len(v.Dimensions) != 1 {
		t.Fatalf("got %d dimensions, want 1", len(v.Dimensions))
	}
	lit, ok := v.Dimensions[0].(*ast.NumericLiteral)
	if !ok || lit.IntValue != 10 {
		t.Errorf("got %+v, want numeric literal 10", v.Dimensions[0])
	}
}

func TestConstStatement(t *testing.T) {
	prog := mustParseProgram(t, "CONST PI = 3.14, MAX = 100")
	c, ok := prog.Tokens[0].(*ast.ConstStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.ConstStmt", prog.Tokens[0])
	}
	if len(c.Decls) != 2 {
		t.Fatalf("got %d decls, want 2", len(c.Decls))
	}
	if c.Decls[0].Name != "PI" || c.Decls[1].Name != "MAX" {
		t.Errorf("got %+v, want names PI and MAX", c.Decls)
	}
	if got, want := c.String(), "CONST PI = 3.14, MAX = 100"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTypeDeclWithFixedStringLength(t *testing.T) {
	input := `TYPE Customer
	Name AS STRING * 20
	Age AS INTEGER
END TYPE`
	prog := mustParseProgram(t, input)
	ty, ok := prog.Tokens[0].(*ast.TypeDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.TypeDecl", prog.Tokens[0])
	}
	if ty.Name != "CUSTOMER" {
		t.Errorf("got name %q, want CUSTOMER", ty.Name)
	}
	if len(ty.Elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(ty.Elements))
	}
	nameElem := ty.Elements[0]
	if nameElem.AsType != "STRING" || nameElem.FixedStrLen == nil {
		t.Fatalf("got %+v, want STRING * 20", nameElem)
	}
	if n, ok := ast.FixedLen(nameElem.FixedStrLen); !ok || n != 20 {
		t.Errorf("got fixed len %d ok=%v, want 20 true", n, ok)
	}
	if ty.Elements[1].AsType != "INTEGER" || ty.Elements[1].FixedStrLen != nil {
		t.Errorf("got %+v, want plain INTEGER element", ty.Elements[1])
	}
}

func TestDeclareFunctionAndSub(t *testing.T) {
	prog := mustParseProgram(t, "DECLARE FUNCTION Add% (A AS INTEGER, B AS INTEGER)\nDECLARE SUB Greet ()")
	fn, ok := prog.Tokens[0].(*ast.DeclareStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.DeclareStmt", prog.Tokens[0])
	}
	if fn.Kind != ast.DeclareFunction || fn.Name != "ADD%" || len(fn.Params) != 2 {
		t.Errorf("got %+v, want DECLARE FUNCTION ADD%% with 2 params", fn)
	}
	sub, ok := prog.Tokens[1].(*ast.DeclareStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.DeclareStmt", prog.Tokens[1])
	}
	if sub.Kind != ast.DeclareSub || sub.Name != "GREET" || len(sub.Params) != 0 {
		t.Errorf("got %+v, want DECLARE SUB GREET with no params", sub)
	}
}

func TestFunctionImplAndSubImpl(t *testing.T) {
	input := `FUNCTION Add% (A AS INTEGER, B AS INTEGER)
	Add% = A + B
END FUNCTION
SUB Greet (Who AS STRING)
	PRINT Who
END SUB`
	prog := mustParseProgram(t, input)
	fn, ok := prog.Tokens[0].(*ast.FunctionImpl)
	if !ok {
		t.Fatalf("got %T, want *ast.FunctionImpl", prog.Tokens[0])
	}
	if fn.Name != "ADD%" || len(fn.Params) != 2 || len(fn.Statements) != 1 {
		t.Errorf("got %+v, want ADD%% with 2 params, 1 statement", fn)
	}
	sub, ok := prog.Tokens[1].(*ast.SubImpl)
	if !ok {
		t.Fatalf("got %T, want *ast.SubImpl", prog.Tokens[1])
	}
	if sub.Name != "GREET" || len(sub.Params) != 1 || len(sub.Statements) != 1 {
		t.Errorf("got %+v, want GREET with 1 param, 1 statement", sub)
	}
}

func TestFunctionImplMissingEndFunctionIsError(t *testing.T) {
	_, err := ProgramFromString("FUNCTION Add% (A AS INTEGER)\nAdd% = A")
	if err == nil {
		t.Fatal("expected an error for a missing END FUNCTION")
	}
}

func TestParamArraySuffix(t *testing.T) {
	prog := mustParseProgram(t, "DECLARE SUB Fill (Items() AS INTEGER)")
	decl, ok := prog.Tokens[0].(*ast.DeclareStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.DeclareStmt", prog.Tokens[0])
	}
	if len(decl.Params) != 1 || !decl.Params[0].Array {
		t.Errorf("got %+v, want a single array parameter", decl.Params)
	}
}

func TestDefIntLetterRanges(t *testing.T) {
	prog := mustParseProgram(t, "DEFINT A-C, Z")
	d, ok := prog.Tokens[0].(*ast.DefTypeStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.DefTypeStmt", prog.Tokens[0])
	}
	if d.Qualifier != ast.Integer {
		t.Errorf("got qualifier %v, want Integer", d.Qualifier)
	}
	if len(d.Ranges) != 2 || d.Ranges[0] != [2]byte{'A', 'C'} || d.Ranges[1] != [2]byte{'Z', 'Z'} {
		t.Errorf("got ranges %+v, want [A-C] and [Z-Z]", d.Ranges)
	}
	if got, want := d.String(), "DEFINT A-C, Z"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDefTypeReversedRangeIsError(t *testing.T) {
	_, err := ProgramFromString("DEFINT Z-A")
	if err == nil {
		t.Fatal("expected an error for a reversed letter range")
	}
}

func TestDefDblAndDefStr(t *testing.T) {
	prog := mustParseProgram(t, "DEFDBL D\nDEFSTR S")
	dbl, ok := prog.Tokens[0].(*ast.DefTypeStmt)
	if !ok || dbl.Qualifier != ast.Double {
		t.Errorf("got %+v, want DEFDBL", prog.Tokens[0])
	}
	str, ok := prog.Tokens[1].(*ast.DefTypeStmt)
	if !ok || str.Qualifier != ast.String {
		t.Errorf("got %+v, want DEFSTR", prog.Tokens[1])
	}
}
