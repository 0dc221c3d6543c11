package linter

import (
	"strings"

	"github.com/qbi-lang/qbi/internal/errors"
	"github.com/qbi-lang/qbi/pkg/ast"
	"github.com/qbi-lang/qbi/pkg/token"
)

// UDT is a resolved user-defined type: its element names in declaration
// order plus each element's qualifier and, for UserDefined elements, the
// referenced type's name (spec.md §4.4 phase 1).
type UDT struct {
	Name     string
	Elements []UDTField
}

// UDTField is one resolved TYPE...END TYPE element.
type UDTField struct {
	Name        string
	Type        ast.ExpressionType
	FixedStrLen int // valid iff Type.Qualifier == ast.String and non-zero
}

func (u *UDT) field(name string) (UDTField, bool) {
	for _, f := range u.Elements {
		if f.Name == name {
			return f, true
		}
	}
	return UDTField{}, false
}

// collectUDTs implements spec.md §4.4 phase 1: gather every TYPE block,
// validate names/elements, resolve fixed-string lengths, and reject
// self-referential (direct or indirect) type graphs.
func (l *Linter) collectUDTs(prog *ast.Program) error {
	var decls []*ast.TypeDecl
	for _, tlt := range prog.Tokens {
		if td, ok := tlt.(*ast.TypeDecl); ok {
			decls = append(decls, td)
		}
	}

	for _, td := range decls {
		if strings.Contains(td.Name, ".") {
			return errors.New(errors.IdentifierCannotIncludePeriod, td.Pos(),
				"Identifier cannot include period: %s", td.Name)
		}
		if len(td.Elements) == 0 {
			return errors.New(errors.Syntax, td.Pos(), "Type %s has no elements", td.Name)
		}
		if _, exists := l.udts[td.Name]; exists {
			return errors.New(errors.DuplicateDefinition, td.Pos(), "Duplicate definition: %s", td.Name)
		}
		l.udts[td.Name] = &UDT{Name: td.Name}
		l.udtDecls[td.Name] = td
	}

	for _, td := range decls {
		udt := l.udts[td.Name]
		for _, el := range td.Elements {
			if strings.Contains(el.Name, ".") {
				return errors.New(errors.IdentifierCannotIncludePeriod, td.Pos(),
					"Identifier cannot include period: %s", el.Name)
			}
			field := UDTField{Name: el.Name}
			if qual, isBuiltin := builtinTypeQualifier(el.AsType); isBuiltin {
				field.Type = ast.ExpressionType{Qualifier: qual}
				if qual == ast.String && el.FixedStrLen != nil {
					n, err := l.resolveFixedStrLen(el.FixedStrLen)
					if err != nil {
						return err
					}
					field.FixedStrLen = n
				}
			} else {
				if _, ok := l.udts[el.AsType]; !ok {
					return errors.New(errors.Syntax, td.Pos(), "Type not defined: %s", el.AsType)
				}
				field.Type = ast.ExpressionType{Qualifier: ast.UserDefined, UserTypeName: el.AsType}
			}
			udt.Elements = append(udt.Elements, field)
		}
	}

	for name := range l.udts {
		if err := l.checkUDTCycle(name, map[string]bool{}); err != nil {
			return err
		}
	}
	return nil
}

// checkUDTCycle performs the DFS cycle check spec.md §4.4 phase 1
// requires: no UDT may reference itself, directly or indirectly,
// through a chain of UserDefined element types.
func (l *Linter) checkUDTCycle(name string, visiting map[string]bool) error {
	if visiting[name] {
		return errors.New(errors.Syntax, l.udtDecls[name].Pos(), "Type %s contains itself", name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	for _, f := range l.udts[name].Elements {
		if f.Type.Qualifier == ast.UserDefined {
			if err := l.checkUDTCycle(f.Type.UserTypeName, visiting); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveFixedStrLen validates a STRING * n length per spec.md §4.4
// phase 1: an integer literal from 1 to 32767 inclusive, or a reference to a
// previously-declared CONST resolving to such an integer.
func (l *Linter) resolveFixedStrLen(e ast.Expression) (int, error) {
	switch v := e.(type) {
	case *ast.NumericLiteral:
		if n, ok := ast.FixedLen(v); ok {
			return l.checkFixedStrLenRange(n, v.Pos())
		}
	case *ast.VariableReference:
		if c, ok := l.consts[v.Name]; ok && c.Folded != nil {
			return l.checkFixedStrLenRange(int(c.Folded.IntValue), v.Pos())
		}
	}
	return 0, errors.New(errors.Syntax, e.Pos(), "Expected: const or integer literal")
}

func (l *Linter) checkFixedStrLenRange(n int, pos token.Position) (int, error) {
	if n <= 0 || n > 32767 {
		return 0, errors.New(errors.Overflow, pos, "String length out of range: %d", n)
	}
	return n, nil
}

// builtinTypeQualifier maps an AS-clause type name to its built-in
// Qualifier; the second return value is false for a user-defined type
// name.
func builtinTypeQualifier(name string) (ast.Qualifier, bool) {
	switch strings.ToUpper(name) {
	case "INTEGER":
		return ast.Integer, true
	case "LONG":
		return ast.Long, true
	case "SINGLE":
		return ast.Single, true
	case "DOUBLE":
		return ast.Double, true
	case "STRING":
		return ast.String, true
	default:
		return ast.Unresolved, false
	}
}
