package linter

import (
	"strings"

	"github.com/qbi-lang/qbi/internal/errors"
	"github.com/qbi-lang/qbi/pkg/ast"
	"github.com/qbi-lang/qbi/pkg/token"
)

// builtInFunctionReturn maps a built-in function's canonical (bare,
// uppercased, sigil-stripped) name to the qualifier it returns. Names
// ending in their own sigil in source (e.g. LEFT$) are looked up by
// their bare spelling; the sigil is not part of the key (spec.md §9's
// Open Question on keyword-plus-dollar generality: the parser accepts
// any <keyword>$ as an identifier, and it is this table — not the
// parser — that decides whether it names a real built-in).
var builtInFunctionReturn = map[string]ast.Qualifier{
	"ABS": ast.Single, "SGN": ast.Integer, "INT": ast.Long, "FIX": ast.Long,
	"SQR": ast.Double, "SIN": ast.Double, "COS": ast.Double, "TAN": ast.Double,
	"ATN": ast.Double, "EXP": ast.Double, "LOG": ast.Double, "RND": ast.Single,
	"VAL": ast.Double, "ASC": ast.Integer, "LEN": ast.Long,
	"CHR": ast.String, "STR": ast.String, "LEFT": ast.String, "RIGHT": ast.String,
	"MID": ast.String, "UCASE": ast.String, "LCASE": ast.String, "LTRIM": ast.String,
	"RTRIM": ast.String, "SPACE": ast.String, "STRING": ast.String, "INKEY": ast.String,
	"INSTR": ast.Integer, "TIMER": ast.Single, "CSRLIN": ast.Integer, "POS": ast.Integer,
	"EOF": ast.Integer, "LOF": ast.Long, "FREEFILE": ast.Integer,
}

// isBuiltInFunction reports whether name (bare, uppercased) is a
// recognized built-in function.
func isBuiltInFunction(name string) bool {
	_, ok := builtInFunctionReturn[strings.TrimRight(bareName(name), "$")]
	return ok
}

// builtInFunctionResultType resolves a FunctionCall's bare name to its
// built-in return type, honoring a trailing $ sigil as forcing String
// regardless of the table (e.g. a hypothetical numeric-default entry
// qualified with $ still returns String).
func builtInFunctionResultType(name string) (ast.ExpressionType, bool) {
	key := strings.TrimRight(bareName(name), "$")
	qual, ok := builtInFunctionReturn[key]
	if !ok {
		return ast.ExpressionType{}, false
	}
	if strings.HasSuffix(name, "$") {
		qual = ast.String
	}
	return ast.ExpressionType{Qualifier: qual}, true
}

// builtInSubNames is the closed set of 22 built-in subs (the bespoke
// shapes of spec.md §4.3 plus CLS, BEEP, SWAP, CALL, STATIC and
// RANDOMIZE), keyed by their dispatch keyword (the same keyword set
// builtInSubParsers in internal/parser dispatches on).
var builtInSubNames = map[string]token.Keyword{
	"CLOSE": token.KwClose, "COLOR": token.KwColor, "DATA": token.KwData,
	"DEF": token.KwDef, "FIELD": token.KwField, "GET": token.KwGet,
	"INPUT": token.KwInput, "LINE": token.KwLine, "LOCATE": token.KwLocate,
	"LSET": token.KwLSet, "NAME": token.KwName, "OPEN": token.KwOpen,
	"PUT": token.KwPut, "READ": token.KwRead, "VIEW": token.KwView,
	"WIDTH": token.KwWidth, "CLS": token.KwCls, "BEEP": token.KwBeep,
	"SWAP": token.KwSwap, "CALL": token.KwCall, "STATIC": token.KwStatic,
	"RANDOMIZE": token.KwRandomize,
}

func isBuiltInSub(name string) bool {
	_, ok := builtInSubNames[bareName(name)]
	return ok
}

// validateBuiltInSubArgs implements spec.md §4.4 phase 6 for the subset
// of built-ins with a fixed, checkable argument contract. Built-ins
// whose shapes are structurally enforced by the parser already (COLOR/
// LOCATE/WIDTH's synthetic flags argument, OPEN's fixed positional
// shape) are not re-validated here beyond what the table below lists.
func (l *Linter) validateBuiltInSubArgs(call *ast.BuiltInSubCall) error {
	switch call.Kind {
	case token.KwClose:
		for _, a := range call.Args {
			if !castableToInteger(exprType(a)) {
				return errors.New(errors.ArgumentTypeMismatch, a.Pos(), "Argument type mismatch")
			}
		}
	case token.KwRead:
		if len(call.Args) == 0 {
			return errors.New(errors.Syntax, call.Pos(), "Expected: variable")
		}
		for _, a := range call.Args {
			if !isWritableVariable(a) {
				return errors.New(errors.VariableRequired, a.Pos(), "Variable required")
			}
		}
	case token.KwGet, token.KwPut:
		if len(call.Args) != 2 {
			return errors.New(errors.ArgumentCountMismatch, call.Pos(), "Argument count mismatch")
		}
		if exprType(call.Args[0]).Qualifier != ast.Integer {
			return errors.New(errors.ArgumentTypeMismatch, call.Args[0].Pos(), "Argument type mismatch")
		}
		if exprType(call.Args[1]).Qualifier != ast.Long {
			return errors.New(errors.ArgumentTypeMismatch, call.Args[1].Pos(), "Argument type mismatch")
		}
	case token.KwInput:
		start := 0
		if len(call.Args) > 0 {
			if _, isStr := call.Args[0].(*ast.StringLiteral); !isStr {
				start = 0
			}
		}
		for _, a := range call.Args[start:] {
			if !isWritableVariable(a) {
				return errors.New(errors.VariableRequired, a.Pos(), "Variable required")
			}
		}
	case token.KwView:
		if len(call.Args) != 0 && len(call.Args) != 2 {
			return errors.New(errors.ArgumentCountMismatch, call.Pos(), "Argument count mismatch")
		}
		for _, a := range call.Args {
			if exprType(a).Qualifier != ast.Integer {
				return errors.New(errors.ArgumentTypeMismatch, a.Pos(), "Argument type mismatch")
			}
		}
	case token.KwDef:
		if len(call.Args) > 1 {
			return errors.New(errors.ArgumentCountMismatch, call.Pos(), "Argument count mismatch")
		}
		if len(call.Args) == 1 && !exprType(call.Args[0]).IsNumeric() {
			return errors.New(errors.ArgumentTypeMismatch, call.Args[0].Pos(), "Argument type mismatch")
		}
	}
	return nil
}

func isWritableVariable(e ast.Expression) bool {
	switch e.(type) {
	case *ast.VariableReference, *ast.ArrayAccess, *ast.PropertyAccess:
		return true
	default:
		return false
	}
}
