package linter

import (
	"github.com/qbi-lang/qbi/internal/errors"
	"github.com/qbi-lang/qbi/pkg/ast"
)

// foldTopLevelConsts implements spec.md §4.4 phase 7 for every top-level
// CONST statement, run in source order before UDT collection so that a
// TYPE's `STRING * n` length can reference a previously-declared CONST
// (phase 1 depends on phase 7's result for that one case; every other
// CONST reference is resolved in the phase-4 walk when it is reached as
// an ordinary VariableReference).
//
// The supported subset is the decided Open Question from spec.md §9:
// literals, unary minus, parentheses, and references to earlier CONSTs —
// no function calls, no binary operators.
func (l *Linter) foldTopLevelConsts(prog *ast.Program) error {
	for _, tlt := range prog.Tokens {
		cs, ok := tlt.(*ast.ConstStmt)
		if !ok {
			continue
		}
		for i := range cs.Decls {
			decl := &cs.Decls[i]
			if _, dup := l.consts[decl.Name]; dup {
				return errors.New(errors.DuplicateDefinition, cs.Pos(), "Duplicate definition: %s", decl.Name)
			}
			folded, err := l.foldConstExpr(decl.Value)
			if err != nil {
				return err
			}
			decl.Folded = folded
			l.consts[decl.Name] = decl
		}
	}
	return nil
}

// foldConstExpr evaluates the tiny closed subset of expressions legal on
// a CONST's right-hand side.
func (l *Linter) foldConstExpr(e ast.Expression) (*ast.FoldedConst, error) {
	switch v := e.(type) {
	case *ast.NumericLiteral:
		if v.Qualifier == ast.Integer || v.Qualifier == ast.Long {
			return &ast.FoldedConst{Type: ast.ExpressionType{Qualifier: v.Qualifier}, IntValue: v.IntValue}, nil
		}
		return &ast.FoldedConst{Type: ast.ExpressionType{Qualifier: v.Qualifier}, DblValue: v.DblValue}, nil
	case *ast.StringLiteral:
		return &ast.FoldedConst{Type: ast.ExpressionType{Qualifier: ast.String}, StrValue: v.Value}, nil
	case *ast.UnaryExpression:
		if v.Operator != "-" {
			return nil, errors.New(errors.Syntax, v.Pos(), "Invalid constant expression")
		}
		inner, err := l.foldConstExpr(v.Right)
		if err != nil {
			return nil, err
		}
		if inner.Type.Qualifier == ast.String {
			return nil, errors.New(errors.TypeMismatch, v.Pos(), "Type mismatch")
		}
		negated := *inner
		if negated.Type.Qualifier == ast.Integer || negated.Type.Qualifier == ast.Long {
			negated.IntValue = -negated.IntValue
		} else {
			negated.DblValue = -negated.DblValue
		}
		return &negated, nil
	case *ast.VariableReference:
		if prior, ok := l.consts[v.Name]; ok && prior.Folded != nil {
			return prior.Folded, nil
		}
		return nil, errors.New(errors.Syntax, v.Pos(), "Constant not defined: %s", v.Name)
	case *ast.ParenExpression:
		return l.foldConstExpr(v.Inner)
	default:
		return nil, errors.New(errors.Syntax, e.Pos(), "Invalid constant expression")
	}
}
