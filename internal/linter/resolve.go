package linter

import (
	"strings"

	"github.com/qbi-lang/qbi/internal/errors"
	"github.com/qbi-lang/qbi/pkg/ast"
)

// scope is one level of the variable-lookup chain spec.md §4.4 phase 4
// describes: local (inside a SUB/FUNCTION body) or module (top-level).
// Only two levels ever exist at once — this dialect has no nested
// subprograms — so scope does not need a parent chain, only an
// optional reference to the enclosing module scope for SHARED lookups.
type scope struct {
	vars   map[string]*ast.VariableInfo
	module *scope // nil for the module scope itself
}

// lookup implements the phase-4 order: local scope, then (if this is a
// local scope) the module scope but only for variables declared SHARED.
func (s *scope) lookup(name string) (*ast.VariableInfo, bool) {
	if v, ok := s.vars[name]; ok {
		return v, true
	}
	if s.module != nil {
		if v, ok := s.module.vars[name]; ok && v.Shared {
			return v, true
		}
	}
	return nil, false
}

// declare registers an implicit or explicit variable in s, the scope
// implicit declarations land in (spec.md §4.4 phase 4's "implicit
// declaration with default-type qualifier").
func (s *scope) declare(name string, info *ast.VariableInfo) {
	s.vars[name] = info
}

// resolveProgram walks every top-level token, resolving DIM/CONST at
// module scope and recursing into every SUB/FUNCTION body with a fresh
// local scope seeded from its parameters (spec.md §4.4 phase 4).
func (l *Linter) resolveProgram(prog *ast.Program) error {
	moduleScope := &scope{vars: l.module}

	for i, tlt := range prog.Tokens {
		switch n := tlt.(type) {
		case *ast.FunctionImpl:
			if err := l.resolveSubprogram(n.Name, true, n.Params, n.Statements, n, moduleScope); err != nil {
				return err
			}
		case *ast.SubImpl:
			if err := l.resolveSubprogram(n.Name, false, n.Params, n.Statements, n, moduleScope); err != nil {
				return err
			}
		case *ast.DeclareStmt, *ast.DefTypeStmt, *ast.TypeDecl:
			// Nothing left to resolve: phase 1-3 already consumed these.
		default:
			stmt, ok := tlt.(ast.Statement)
			if !ok {
				continue
			}
			replaced, err := l.resolveStatementNode(stmt, moduleScope)
			if err != nil {
				return err
			}
			// resolveStatementNode rewrites a top-level SubCall into a
			// UserSubCall; every other statement kind is
			// returned unchanged (spec.md §4.4 phase 4).
			if tlTok, ok := replaced.(ast.TopLevelToken); ok {
				prog.Tokens[i] = tlTok
			}
		}
	}
	return nil
}

func (l *Linter) resolveSubprogram(name string, isFunction bool, params []ast.Param, body []ast.Statement, pos ast.Node, moduleScope *scope) error {
	local := &scope{vars: map[string]*ast.VariableInfo{}, module: moduleScope}
	for _, p := range params {
		t, err := l.paramType(p, l.dt, pos)
		if err != nil {
			return err
		}
		info := &ast.VariableInfo{ExpressionType: t}
		if p.Array {
			info.Redim = &ast.RedimInfo{}
		}
		local.declare(p.Name, info)
	}
	if isFunction {
		sig := l.impls[bareName(name)]
		local.declare(name, &ast.VariableInfo{ExpressionType: sig.Return})
	}
	return l.resolveStatements(body, local)
}

func (l *Linter) resolveStatements(stmts []ast.Statement, sc *scope) error {
	for i, st := range stmts {
		replaced, err := l.resolveStatementNode(st, sc)
		if err != nil {
			return err
		}
		stmts[i] = replaced
	}
	return nil
}

// resolveStatementNode resolves a single statement, returning its
// replacement (SubCall is rewritten to UserSubCall; every
// other statement kind is resolved in place and returned unchanged).
func (l *Linter) resolveStatementNode(st ast.Statement, sc *scope) (ast.Statement, error) {
	switch n := st.(type) {
	case *ast.DimStmt:
		return n, l.resolveDimStmt(n, sc)
	case *ast.ConstStmt:
		return n, l.resolveLocalConst(n)
	case *ast.Assignment:
		return n, l.resolveAssignment(n, sc)
	case *ast.SubCall:
		return l.resolveSubCall(n, sc)
	case *ast.BuiltInSubCall:
		return n, l.resolveBuiltInSubCall(n, sc)
	case *ast.PrintStmt:
		return n, l.resolvePrintStmt(n, sc)
	case *ast.IfStmt:
		return n, l.resolveIfStmt(n, sc)
	case *ast.ForLoop:
		return n, l.resolveForLoop(n, sc)
	case *ast.WhileLoop:
		return n, l.resolveWhileLoop(n, sc)
	case *ast.DoLoop:
		return n, l.resolveDoLoop(n, sc)
	case *ast.SelectCase:
		return n, l.resolveSelectCase(n, sc)
	default:
		// CommentStmt, LabelStmt, GotoStmt, GosubStmt, ReturnStmt,
		// OnErrorStmt, ResumeStmt, ExitStmt, EndStmt, SystemStmt carry no
		// expressions to resolve.
		return n, nil
	}
}

func (l *Linter) resolveDimStmt(n *ast.DimStmt, sc *scope) error {
	for _, v := range n.Vars {
		info := &ast.VariableInfo{Shared: n.Shared}
		if len(v.Dimensions) > 0 {
			redim := &ast.RedimInfo{}
			for _, dim := range v.Dimensions {
				resolved, err := l.resolveExpression(dim, sc)
				if err != nil {
					return err
				}
				n2, ok := ast.FixedLen(resolved)
				if !ok {
					return errors.New(errors.Syntax, dim.Pos(), "Expected: integer literal")
				}
				redim.LowerBound = append(redim.LowerBound, 0)
				redim.UpperBound = append(redim.UpperBound, n2)
			}
			info.Redim = redim
		}
		if v.AsType != "" {
			if qual, ok := builtinTypeQualifier(v.AsType); ok {
				info.ExpressionType = ast.ExpressionType{Qualifier: qual}
			} else if _, ok := l.udts[v.AsType]; ok {
				info.ExpressionType = ast.ExpressionType{Qualifier: ast.UserDefined, UserTypeName: v.AsType}
			} else {
				return errors.New(errors.Syntax, n.Pos(), "Type not defined: %s", v.AsType)
			}
		} else {
			info.ExpressionType = ast.ExpressionType{Qualifier: l.qualifierOf(v.Name, l.dt)}
		}
		sc.declare(v.Name, info)
	}
	return nil
}

// resolveLocalConst folds a CONST encountered anywhere other than the
// top level (spec.md §4.4 phase 7's evaluator is the same regardless of
// lexical position); top-level CONSTs are already folded by
// foldTopLevelConsts and are skipped here.
func (l *Linter) resolveLocalConst(n *ast.ConstStmt) error {
	for i := range n.Decls {
		decl := &n.Decls[i]
		if decl.Folded != nil {
			continue
		}
		folded, err := l.foldConstExpr(decl.Value)
		if err != nil {
			return err
		}
		decl.Folded = folded
		l.consts[decl.Name] = decl
	}
	return nil
}

func (l *Linter) resolveAssignment(n *ast.Assignment, sc *scope) error {
	lhs, err := l.resolveExpression(n.LHS, sc)
	if err != nil {
		return err
	}
	if !isWritableVariable(lhs) {
		return errors.New(errors.VariableRequired, lhs.Pos(), "Variable required")
	}
	n.LHS = lhs
	rhs, err := l.resolveExpression(n.RHS, sc)
	if err != nil {
		return err
	}
	n.RHS = rhs
	if !assignable(exprType(lhs), exprType(rhs)) {
		return errors.New(errors.TypeMismatch, n.Pos(), "Type mismatch")
	}
	return nil
}

func assignable(lhs, rhs ast.ExpressionType) bool {
	if lhs.Qualifier == ast.String || rhs.Qualifier == ast.String {
		return lhs.Qualifier == ast.String && rhs.Qualifier == ast.String
	}
	if lhs.Qualifier == ast.UserDefined || rhs.Qualifier == ast.UserDefined {
		return lhs.Qualifier == ast.UserDefined && rhs.Qualifier == ast.UserDefined && lhs.UserTypeName == rhs.UserTypeName
	}
	return lhs.IsNumeric() && rhs.IsNumeric()
}

func (l *Linter) resolvePrintStmt(n *ast.PrintStmt, sc *scope) error {
	if n.FileHandle != nil {
		fh, err := l.resolveExpression(n.FileHandle, sc)
		if err != nil {
			return err
		}
		n.FileHandle = fh
	}
	for i, a := range n.Args {
		if a.Kind != ast.PrintArgExpression {
			continue
		}
		resolved, err := l.resolveExpression(a.Expression, sc)
		if err != nil {
			return err
		}
		n.Args[i].Expression = resolved
	}
	return nil
}

func (l *Linter) resolveIfStmt(n *ast.IfStmt, sc *scope) error {
	cond, err := l.resolveExpression(n.Condition, sc)
	if err != nil {
		return err
	}
	n.Condition = cond
	if err := l.resolveStatements(n.Statements, sc); err != nil {
		return err
	}
	for i := range n.ElseIfs {
		arm := &n.ElseIfs[i]
		c, err := l.resolveExpression(arm.Condition, sc)
		if err != nil {
			return err
		}
		arm.Condition = c
		if err := l.resolveStatements(arm.Statements, sc); err != nil {
			return err
		}
	}
	return l.resolveStatements(n.ElseStatements, sc)
}

func (l *Linter) resolveForLoop(n *ast.ForLoop, sc *scope) error {
	if _, ok := sc.lookup(n.Variable); !ok {
		sc.declare(n.Variable, &ast.VariableInfo{ExpressionType: ast.ExpressionType{Qualifier: l.qualifierOf(n.Variable, l.dt)}})
	}
	lower, err := l.resolveExpression(n.Lower, sc)
	if err != nil {
		return err
	}
	n.Lower = lower
	upper, err := l.resolveExpression(n.Upper, sc)
	if err != nil {
		return err
	}
	n.Upper = upper
	if n.Step != nil {
		step, err := l.resolveExpression(n.Step, sc)
		if err != nil {
			return err
		}
		n.Step = step
	}
	return l.resolveStatements(n.Statements, sc)
}

func (l *Linter) resolveWhileLoop(n *ast.WhileLoop, sc *scope) error {
	cond, err := l.resolveExpression(n.Condition, sc)
	if err != nil {
		return err
	}
	n.Condition = cond
	return l.resolveStatements(n.Statements, sc)
}

func (l *Linter) resolveDoLoop(n *ast.DoLoop, sc *scope) error {
	if n.Condition != nil {
		cond, err := l.resolveExpression(n.Condition, sc)
		if err != nil {
			return err
		}
		n.Condition = cond
	}
	return l.resolveStatements(n.Statements, sc)
}

func (l *Linter) resolveSelectCase(n *ast.SelectCase, sc *scope) error {
	subject, err := l.resolveExpression(n.Subject, sc)
	if err != nil {
		return err
	}
	n.Subject = subject
	for i := range n.Arms {
		arm := &n.Arms[i]
		for j := range arm.Exprs {
			ce := &arm.Exprs[j]
			if err := l.resolveCaseExpr(ce, sc); err != nil {
				return err
			}
		}
		if err := l.resolveStatements(arm.Statements, sc); err != nil {
			return err
		}
	}
	return l.resolveStatements(n.ElseStatements, sc)
}

func (l *Linter) resolveCaseExpr(ce *ast.CaseExpr, sc *scope) error {
	var err error
	switch {
	case ce.IsOp != "":
		ce.IsExpr, err = l.resolveExpression(ce.IsExpr, sc)
	case ce.RangeLo != nil:
		if ce.RangeLo, err = l.resolveExpression(ce.RangeLo, sc); err != nil {
			return err
		}
		ce.RangeHi, err = l.resolveExpression(ce.RangeHi, sc)
	default:
		ce.Single, err = l.resolveExpression(ce.Single, sc)
	}
	return err
}

// resolveSubCall disambiguates the generic ambiguous SubCall the parser
// produces for a bare/qualified name at statement position (spec.md
// §4.4 phase 4's "SubCall(name, args)" bullet) into a UserSubCall. The
// fifteen built-ins with bespoke shapes are never seen here: the parser
// already recognizes their keyword and emits a BuiltInSubCall directly
// (internal/parser/builtins.go's builtInSubCall), resolved instead by
// resolveBuiltInSubCall below.
func (l *Linter) resolveSubCall(n *ast.SubCall, sc *scope) (ast.Statement, error) {
	args := make([]ast.Expression, len(n.Args))
	for i, a := range n.Args {
		resolved, err := l.resolveExpression(a, sc)
		if err != nil {
			return nil, err
		}
		args[i] = resolved
	}

	if sig, ok := l.impls[bareName(n.Name)]; ok && !sig.IsFunction {
		if len(sig.Params) != len(args) {
			return nil, errors.New(errors.ArgumentCountMismatch, n.Pos(), "Argument count mismatch")
		}
		return &ast.UserSubCall{Token: n.Token, Name: sig.Name, Args: args}, nil
	}
	return nil, errors.New(errors.Syntax, n.Pos(), "Sub not defined: %s", n.Name)
}

// resolveBuiltInSubCall resolves every argument expression of an
// already-disambiguated BuiltInSubCall, then validates its shape
// (spec.md §4.4 phase 6).
func (l *Linter) resolveBuiltInSubCall(n *ast.BuiltInSubCall, sc *scope) error {
	for i, a := range n.Args {
		resolved, err := l.resolveExpression(a, sc)
		if err != nil {
			return err
		}
		n.Args[i] = resolved
	}
	return l.validateBuiltInSubArgs(n)
}

// resolveExpression resolves e in place, recursing into subexpressions
// and returning the (possibly rewritten) node: VariableReference with a
// dotted name becomes PropertyAccess, and FunctionCall becomes one of
// BuiltInFunctionCall/UserFunctionCall/ArrayAccess (spec.md §4.4 phase
// 4's ambiguity-resolution bullets).
func (l *Linter) resolveExpression(e ast.Expression, sc *scope) (ast.Expression, error) {
	switch v := e.(type) {
	case *ast.NumericLiteral, *ast.StringLiteral:
		return e, nil

	case *ast.ParenExpression:
		inner, err := l.resolveExpression(v.Inner, sc)
		if err != nil {
			return nil, err
		}
		v.Inner = inner
		return v, nil

	case *ast.VariableReference:
		return l.resolveVariableReference(v, sc)

	case *ast.BinaryExpression:
		left, err := l.resolveExpression(v.Left, sc)
		if err != nil {
			return nil, err
		}
		v.Left = left
		right, err := l.resolveExpression(v.Right, sc)
		if err != nil {
			return nil, err
		}
		v.Right = right
		t, err := typeBinaryOp(v.Operator, exprType(left), exprType(right), v.Pos())
		if err != nil {
			return nil, err
		}
		v.Type = &t
		return v, nil

	case *ast.UnaryExpression:
		right, err := l.resolveExpression(v.Right, sc)
		if err != nil {
			return nil, err
		}
		v.Right = right
		t, err := typeUnaryOp(v.Operator, exprType(right), v.Pos())
		if err != nil {
			return nil, err
		}
		v.Type = &t
		return v, nil

	case *ast.FunctionCall:
		return l.resolveFunctionCall(v, sc)

	default:
		return e, nil
	}
}

// resolveVariableReference implements the bare/qualified variable
// lookup order and splits a dotted name into a resolved PropertyAccess.
func (l *Linter) resolveVariableReference(v *ast.VariableReference, sc *scope) (ast.Expression, error) {
	if strings.Contains(v.Name, ".") {
		return l.resolvePropertyAccess(v, sc)
	}

	if info, ok := sc.lookup(v.Name); ok {
		v.Info = info
		return v, nil
	}
	info := &ast.VariableInfo{ExpressionType: ast.ExpressionType{Qualifier: l.qualifierOf(v.Name, l.dt)}}
	sc.declare(v.Name, info)
	v.Info = info
	return v, nil
}

// resolvePropertyAccess resolves a.b.c: the leftmost component must
// already be a DIM-ed variable of user-defined type, and every
// subsequent component must name an element of the current type
// (spec.md §4.4 phase 4).
func (l *Linter) resolvePropertyAccess(v *ast.VariableReference, sc *scope) (ast.Expression, error) {
	parts := strings.Split(v.Name, ".")
	root, ok := sc.lookup(parts[0])
	if !ok {
		return nil, errors.New(errors.Syntax, v.Pos(), "Variable not defined: %s", parts[0])
	}
	if root.ExpressionType.Qualifier != ast.UserDefined {
		return nil, errors.New(errors.ElementNotDefined, v.Pos(), "Element not defined: %s", parts[0])
	}

	currentType := root.ExpressionType
	for _, part := range parts[1:] {
		udt := l.udts[currentType.UserTypeName]
		field, ok := udt.field(part)
		if !ok {
			return nil, errors.New(errors.ElementNotDefined, v.Pos(), "Element not defined: %s", part)
		}
		currentType = field.Type
	}

	t := currentType
	return &ast.PropertyAccess{Token: v.Token, Path: parts, Type: &t}, nil
}

// resolveFunctionCall disambiguates a raw FunctionCall per spec.md §4.4
// phase 4, in order of preference: built-in function, user function,
// array element access.
func (l *Linter) resolveFunctionCall(v *ast.FunctionCall, sc *scope) (ast.Expression, error) {
	args := make([]ast.Expression, len(v.Args))
	for i, a := range v.Args {
		resolved, err := l.resolveExpression(a, sc)
		if err != nil {
			return nil, err
		}
		args[i] = resolved
	}

	bare := bareName(v.Name)

	if t, ok := builtInFunctionResultType(v.Name); ok {
		return &ast.BuiltInFunctionCall{Token: v.Token, Name: bare, Args: args, Type: &t}, nil
	}
	if sig, ok := l.impls[bare]; ok && sig.IsFunction {
		if len(sig.Params) != len(args) {
			return nil, errors.New(errors.ArgumentCountMismatch, v.Pos(), "Argument count mismatch")
		}
		t := sig.Return
		return &ast.UserFunctionCall{Token: v.Token, Name: sig.Name, Args: args, Type: &t}, nil
	}
	if info, ok := sc.lookup(v.Name); ok && info.Redim != nil {
		t := info.ExpressionType
		return &ast.ArrayAccess{Token: v.Token, Name: v.Name, Indices: args, Type: &t}, nil
	}
	return nil, errors.New(errors.Syntax, v.Pos(), "Function not defined: %s", v.Name)
}

// exprType extracts the resolved type of any expression node produced
// by resolveExpression.
func exprType(e ast.Expression) ast.ExpressionType {
	switch v := e.(type) {
	case *ast.NumericLiteral:
		return ast.ExpressionType{Qualifier: v.Qualifier}
	case *ast.StringLiteral:
		return ast.ExpressionType{Qualifier: ast.String}
	case *ast.VariableReference:
		if v.Info != nil {
			return v.Info.ExpressionType
		}
		return ast.ExpressionType{}
	case *ast.ParenExpression:
		return exprType(v.Inner)
	case *ast.BinaryExpression:
		if v.Type != nil {
			return *v.Type
		}
	case *ast.UnaryExpression:
		if v.Type != nil {
			return *v.Type
		}
	case *ast.PropertyAccess:
		if v.Type != nil {
			return *v.Type
		}
	case *ast.BuiltInFunctionCall:
		if v.Type != nil {
			return *v.Type
		}
	case *ast.UserFunctionCall:
		if v.Type != nil {
			return *v.Type
		}
	case *ast.ArrayAccess:
		if v.Type != nil {
			return *v.Type
		}
	}
	return ast.ExpressionType{}
}

func castableToInteger(t ast.ExpressionType) bool {
	return t.IsNumeric()
}
