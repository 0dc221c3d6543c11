package linter

import (
	"github.com/qbi-lang/qbi/internal/errors"
	"github.com/qbi-lang/qbi/pkg/ast"
	"github.com/qbi-lang/qbi/pkg/token"
)

// typeBinaryOp implements spec.md §4.4 phase 5's operator table for
// binary operators. Strings never mix with numerics except through the
// relational operators, and file-handle values (plain Integer in this
// dialect, carrying no distinct type of their own) are caught upstream
// by built-in argument validation rather than here.
func typeBinaryOp(op string, left, right ast.ExpressionType, pos token.Position) (ast.ExpressionType, error) {
	switch op {
	case "+":
		if left.Qualifier == ast.String || right.Qualifier == ast.String {
			if left.Qualifier != ast.String || right.Qualifier != ast.String {
				return ast.ExpressionType{}, errors.New(errors.TypeMismatch, pos, "Type mismatch")
			}
			return left, nil
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			return ast.ExpressionType{}, errors.New(errors.TypeMismatch, pos, "Type mismatch")
		}
		return left, nil

	case "-", "*", "/", "MOD":
		if !left.IsNumeric() || !right.IsNumeric() {
			return ast.ExpressionType{}, errors.New(errors.TypeMismatch, pos, "Type mismatch")
		}
		return left, nil

	case "=", "<>", "<", "<=", ">", ">=":
		if left.Qualifier == ast.String || right.Qualifier == ast.String {
			if left.Qualifier != ast.String || right.Qualifier != ast.String {
				return ast.ExpressionType{}, errors.New(errors.TypeMismatch, pos, "Type mismatch")
			}
			return ast.ExpressionType{Qualifier: ast.Integer}, nil
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			return ast.ExpressionType{}, errors.New(errors.TypeMismatch, pos, "Type mismatch")
		}
		return ast.ExpressionType{Qualifier: ast.Integer}, nil

	case "AND", "OR":
		if !castableToInteger(left) || !castableToInteger(right) {
			return ast.ExpressionType{}, errors.New(errors.TypeMismatch, pos, "Type mismatch")
		}
		return ast.ExpressionType{Qualifier: ast.Integer}, nil

	default:
		return ast.ExpressionType{}, errors.New(errors.Syntax, pos, "Unknown operator: %s", op)
	}
}

// typeUnaryOp implements the two unary rows of spec.md §4.4 phase 5's
// table: NOT and unary minus. A unary minus directly in front of a
// numeric literal never reaches here — it is folded away at parse time
// (spec.md §4.3) — so this only handles NOT and unary minus applied to
// a non-literal operand.
func typeUnaryOp(op string, operand ast.ExpressionType, pos token.Position) (ast.ExpressionType, error) {
	switch op {
	case "NOT":
		if !operand.IsNumeric() {
			return ast.ExpressionType{}, errors.New(errors.TypeMismatch, pos, "Type mismatch")
		}
		return operand, nil
	case "-":
		if !operand.IsNumeric() {
			return ast.ExpressionType{}, errors.New(errors.TypeMismatch, pos, "Type mismatch")
		}
		return operand, nil
	default:
		return ast.ExpressionType{}, errors.New(errors.Syntax, pos, "Unknown operator: %s", op)
	}
}
