package linter

import (
	"github.com/qbi-lang/qbi/internal/errors"
	"github.com/qbi-lang/qbi/pkg/ast"
	"github.com/qbi-lang/qbi/pkg/token"
)

// Signature is the resolved shape of a DECLARE/SUB/FUNCTION: its bare
// name, parameter types (resolved against the default-type table
// snapshot at the signature's own source position), and, for functions,
// its return type (spec.md §4.4 phase 3).
type Signature struct {
	Name       string
	IsFunction bool
	Return     ast.ExpressionType
	Params     []ast.ExpressionType
	Pos        token.Position
}

func sameSignature(a, b Signature) bool {
	if a.IsFunction != b.IsFunction || len(a.Params) != len(b.Params) {
		return false
	}
	if a.IsFunction && a.Return != b.Return {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	return true
}

// collectSignatures implements spec.md §4.4 phase 3: walk every
// DECLARE/FunctionImpl/SubImpl in source order, resolving each
// parameter's type against the default-type table snapshot *at that
// statement's position* (DEF-type statements earlier in the file affect
// later signatures but not earlier ones).
func (l *Linter) collectSignatures(prog *ast.Program) error {
	dt := newDefaultTypeTable()

	for _, tlt := range prog.Tokens {
		switch n := tlt.(type) {
		case *ast.DefTypeStmt:
			for _, r := range n.Ranges {
				for letter := r[0]; ; letter++ {
					dt[letter-'A'] = n.Qualifier
					if letter == r[1] {
						break
					}
				}
			}

		case *ast.DeclareStmt:
			sig, err := l.buildSignature(n.Name, n.Kind == ast.DeclareFunction, n.Params, dt, n.Pos())
			if err != nil {
				return err
			}
			if prior, ok := l.declares[sig.Name]; ok {
				if !sameSignature(prior, sig) {
					return errors.New(errors.DuplicateDefinition, n.Pos(), "Duplicate definition: %s", sig.Name)
				}
				continue
			}
			l.declares[sig.Name] = sig

		case *ast.FunctionImpl:
			sig, err := l.buildSignature(n.Name, true, n.Params, dt, n.Pos())
			if err != nil {
				return err
			}
			if _, dup := l.impls[sig.Name]; dup {
				return errors.New(errors.DuplicateDefinition, n.Pos(), "Duplicate definition: %s", sig.Name)
			}
			if isBuiltInFunction(sig.Name) || isBuiltInSub(sig.Name) {
				return errors.New(errors.DuplicateDefinition, n.Pos(), "Duplicate definition: %s", sig.Name)
			}
			l.impls[sig.Name] = sig

		case *ast.SubImpl:
			sig, err := l.buildSignature(n.Name, false, n.Params, dt, n.Pos())
			if err != nil {
				return err
			}
			if _, dup := l.impls[sig.Name]; dup {
				return errors.New(errors.DuplicateDefinition, n.Pos(), "Duplicate definition: %s", sig.Name)
			}
			if isBuiltInFunction(sig.Name) || isBuiltInSub(sig.Name) {
				return errors.New(errors.DuplicateDefinition, n.Pos(), "Duplicate definition: %s", sig.Name)
			}
			l.impls[sig.Name] = sig
		}
	}

	for name, sig := range l.declares {
		impl, ok := l.impls[name]
		if !ok {
			return errors.New(errors.SubprogramNotDefined, sig.Pos, "Subprogram not defined: %s", name)
		}
		if !sameSignature(sig, impl) {
			return errors.New(errors.TypeMismatch, impl.Pos, "Type mismatch: %s", name)
		}
	}
	return nil
}

// buildSignature resolves a name + param list into a Signature, using
// dt (the default-type table snapshot at this signature's position) for
// every compact (sigil-less) name.
func (l *Linter) buildSignature(name string, isFunction bool, params []ast.Param, dt defaultTypeTable, pos ast.Node) (Signature, error) {
	sig := Signature{Name: bareName(name), IsFunction: isFunction, Pos: pos.Pos()}
	if isFunction {
		sig.Return = l.qualifierOf(name, dt)
	}
	for _, p := range params {
		t, err := l.paramType(p, dt, pos)
		if err != nil {
			return Signature{}, err
		}
		sig.Params = append(sig.Params, t)
	}
	return sig, nil
}

func (l *Linter) paramType(p ast.Param, dt defaultTypeTable, pos ast.Node) (ast.ExpressionType, error) {
	if p.AsType != "" {
		if qual, ok := builtinTypeQualifier(p.AsType); ok {
			return ast.ExpressionType{Qualifier: qual}, nil
		}
		if _, ok := l.udts[p.AsType]; ok {
			return ast.ExpressionType{Qualifier: ast.UserDefined, UserTypeName: p.AsType}, nil
		}
		return ast.ExpressionType{}, errors.New(errors.Syntax, pos.Pos(), "Type not defined: %s", p.AsType)
	}
	return ast.ExpressionType{Qualifier: l.qualifierOf(p.Name, dt)}, nil
}

// qualifierOf resolves a name's built-in qualifier: the sigil if
// qualified, else the default-type table's entry for its first letter.
func (l *Linter) qualifierOf(name string, dt defaultTypeTable) ast.Qualifier {
	if name == "" {
		return ast.Single
	}
	last := name[len(name)-1]
	if qual, ok := ast.SigilFor(rune(last)); ok {
		return qual
	}
	return dt.qualifierFor(name[0])
}

// bareName strips a trailing type sigil, if any.
func bareName(name string) string {
	if name == "" {
		return name
	}
	if _, ok := ast.SigilFor(rune(name[len(name)-1])); ok {
		return name[:len(name)-1]
	}
	return name
}
