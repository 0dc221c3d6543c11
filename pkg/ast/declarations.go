package ast

import (
	"bytes"

	"github.com/qbi-lang/qbi/pkg/token"
)

// VarDecl is one variable declared by DIM/REDIM: a name, optional array
// dimensions (the upper bound of each; the lower is always 0 in this
// dialect — see RedimInfo), and a type given either compactly (by sigil, carried
// in Name) or extended (AS clause, carried in AsType).
type VarDecl struct {
	Name       string
	Dimensions []Expression // upper bound per dimension; nil if scalar
	AsType     string       // built-in type name or UDT name; empty if compact
}

// DimStmt is DIM or REDIM, with optional SHARED (spec.md §3).
type DimStmt struct {
	Token   token.Token
	Redim   bool
	Shared  bool
	Vars    []VarDecl
}

func (d *DimStmt) statementNode()       {}
func (d *DimStmt) topLevelNode()        {}
func (d *DimStmt) TokenLiteral() string { return d.Token.Text }
func (d *DimStmt) Pos() token.Position  { return d.Token.Pos }
func (d *DimStmt) String() string {
	var out bytes.Buffer
	if d.Redim {
		out.WriteString("REDIM ")
	} else {
		out.WriteString("DIM ")
	}
	if d.Shared {
		out.WriteString("SHARED ")
	}
	for i, v := range d.Vars {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(v.Name)
		if v.AsType != "" {
			out.WriteString(" AS " + v.AsType)
		}
	}
	return out.String()
}

// ConstDecl is one NAME = expr pair within a CONST statement.
type ConstDecl struct {
	Name  string
	Value Expression
	// Folded holds the constant-folding evaluator's result (spec.md §4.4
	// phase 7), filled in by the linter.
	Folded *FoldedConst
}

// FoldedConst is the literal value a CONST's right-hand side evaluated
// to at lint time.
type FoldedConst struct {
	Type     ExpressionType
	IntValue int64
	DblValue float64
	StrValue string
}

// ConstStmt is CONST name = expr [, name = expr]*.
type ConstStmt struct {
	Token token.Token
	Decls []ConstDecl
}

func (c *ConstStmt) statementNode()       {}
func (c *ConstStmt) topLevelNode()        {}
func (c *ConstStmt) TokenLiteral() string { return c.Token.Text }
func (c *ConstStmt) Pos() token.Position  { return c.Token.Pos }
func (c *ConstStmt) String() string {
	var out bytes.Buffer
	out.WriteString("CONST ")
	for i, d := range c.Decls {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(d.Name + " = " + d.Value.String())
	}
	return out.String()
}

// DefTypeStmt is a single `DEF<type> <letter-range>[, <letter-range>]*`
// top-level token, e.g. DEFINT A-Z (spec.md §4.4 phase 2).
type DefTypeStmt struct {
	Token     token.Token
	Qualifier Qualifier
	Ranges    [][2]byte // each [from, to], uppercase letters
}

func (d *DefTypeStmt) statementNode()       {}
func (d *DefTypeStmt) topLevelNode()        {}
func (d *DefTypeStmt) TokenLiteral() string { return d.Token.Text }
func (d *DefTypeStmt) Pos() token.Position  { return d.Token.Pos }
func (d *DefTypeStmt) String() string {
	var out bytes.Buffer
	out.WriteString("DEF" + defTypeSuffix(d.Qualifier) + " ")
	for i, r := range d.Ranges {
		if i > 0 {
			out.WriteString(", ")
		}
		if r[0] == r[1] {
			out.WriteByte(r[0])
		} else {
			out.WriteByte(r[0])
			out.WriteByte('-')
			out.WriteByte(r[1])
		}
	}
	return out.String()
}

func defTypeSuffix(q Qualifier) string {
	switch q {
	case Single:
		return "SNG"
	case Double:
		return "DBL"
	case Integer:
		return "INT"
	case Long:
		return "LNG"
	case String:
		return "STR"
	default:
		return "???"
	}
}

// Param is one parameter of a DECLARE/SUB/FUNCTION signature.
type Param struct {
	Name   string
	AsType string // built-in type name or UDT name; empty if compact (sigil on Name)
	Array  bool
}

// DeclareKind distinguishes DECLARE FUNCTION from DECLARE SUB.
type DeclareKind int

const (
	DeclareFunction DeclareKind = iota
	DeclareSub
)

// DeclareStmt is a forward DECLARE FUNCTION/SUB (spec.md §4.4 phase 3).
type DeclareStmt struct {
	Token  token.Token
	Kind   DeclareKind
	Name   string
	Params []Param
}

func (d *DeclareStmt) statementNode()       {}
func (d *DeclareStmt) topLevelNode()        {}
func (d *DeclareStmt) TokenLiteral() string { return d.Token.Text }
func (d *DeclareStmt) Pos() token.Position  { return d.Token.Pos }
func (d *DeclareStmt) String() string {
	kw := "SUB"
	if d.Kind == DeclareFunction {
		kw = "FUNCTION"
	}
	return "DECLARE " + kw + " " + paramListString(d.Name, d.Params)
}

func paramListString(name string, params []Param) string {
	var out bytes.Buffer
	out.WriteString(name + "(")
	for i, p := range params {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(p.Name)
		if p.AsType != "" {
			out.WriteString(" AS " + p.AsType)
		}
	}
	out.WriteString(")")
	return out.String()
}

// FunctionImpl is a FUNCTION...END FUNCTION implementation.
type FunctionImpl struct {
	Token      token.Token
	Name       string
	Params     []Param
	Statements []Statement
}

func (f *FunctionImpl) statementNode()       {}
func (f *FunctionImpl) topLevelNode()        {}
func (f *FunctionImpl) TokenLiteral() string { return f.Token.Text }
func (f *FunctionImpl) Pos() token.Position  { return f.Token.Pos }
func (f *FunctionImpl) String() string {
	var out bytes.Buffer
	out.WriteString("FUNCTION " + paramListString(f.Name, f.Params))
	for _, s := range f.Statements {
		out.WriteString("\n  " + s.String())
	}
	out.WriteString("\nEND FUNCTION")
	return out.String()
}

// SubImpl is a SUB...END SUB implementation.
type SubImpl struct {
	Token      token.Token
	Name       string
	Params     []Param
	Statements []Statement
}

func (s *SubImpl) statementNode()       {}
func (s *SubImpl) topLevelNode()        {}
func (s *SubImpl) TokenLiteral() string { return s.Token.Text }
func (s *SubImpl) Pos() token.Position  { return s.Token.Pos }
func (s *SubImpl) String() string {
	var out bytes.Buffer
	out.WriteString("SUB " + paramListString(s.Name, s.Params))
	for _, st := range s.Statements {
		out.WriteString("\n  " + st.String())
	}
	out.WriteString("\nEND SUB")
	return out.String()
}

// UDTElement is one field of a TYPE...END TYPE record.
type UDTElement struct {
	Name         string
	AsType       string // built-in type name or another UDT's name
	FixedStrLen  Expression // non-nil iff AsType == "STRING" and a `* n` length was given
}

// TypeDecl is TYPE...END TYPE (spec.md §4.4 phase 1).
type TypeDecl struct {
	Token    token.Token
	Name     string
	Elements []UDTElement
}

func (t *TypeDecl) statementNode()       {}
func (t *TypeDecl) topLevelNode()        {}
func (t *TypeDecl) TokenLiteral() string { return t.Token.Text }
func (t *TypeDecl) Pos() token.Position  { return t.Token.Pos }
func (t *TypeDecl) String() string {
	var out bytes.Buffer
	out.WriteString("TYPE " + t.Name)
	for _, e := range t.Elements {
		out.WriteString("\n  " + e.Name + " AS " + e.AsType)
		if e.FixedStrLen != nil {
			out.WriteString(" * " + e.FixedStrLen.String())
		}
	}
	out.WriteString("\nEND TYPE")
	return out.String()
}

// FixedLen returns the fixed-string length as a resolved int, used by
// the linter once the length expression has been validated to be either
// an integer literal or a reference to a previously declared CONST
// (spec.md §4.4 phase 1).
func FixedLen(e Expression) (int, bool) {
	switch v := e.(type) {
	case *NumericLiteral:
		if v.Qualifier == Integer || v.Qualifier == Long {
			return int(v.IntValue), true
		}
	}
	return 0, false
}
