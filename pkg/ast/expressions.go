package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/qbi-lang/qbi/pkg/token"
)

// NumericLiteral is a single/double/integer/long literal value. Its
// Qualifier is fixed at parse time from the literal's own shape (decimal
// point, exponent, magnitude, or explicit sigil) — not from context.
type NumericLiteral struct {
	Token     token.Token
	Qualifier Qualifier
	IntValue  int64   // valid when Qualifier is Integer or Long
	DblValue  float64 // valid when Qualifier is Single or Double
}

func (n *NumericLiteral) expressionNode()        {}
func (n *NumericLiteral) TokenLiteral() string   { return n.Token.Text }
func (n *NumericLiteral) Pos() token.Position    { return n.Token.Pos }
func (n *NumericLiteral) String() string {
	switch n.Qualifier {
	case Integer, Long:
		return strconv.FormatInt(n.IntValue, 10)
	default:
		return strconv.FormatFloat(n.DblValue, 'g', -1, 64)
	}
}

// StringLiteral is a double-quoted string literal with no escape
// sequences (spec.md §6).
type StringLiteral struct {
	Token token.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Text }
func (s *StringLiteral) Pos() token.Position  { return s.Token.Pos }
func (s *StringLiteral) String() string       { return "\"" + s.Value + "\"" }

// VariableReference is a bare or qualified name used in value position.
// Info is nil until the linter resolves it (spec.md §3's unresolved vs.
// resolved Expression distinction).
type VariableReference struct {
	Token token.Token
	Name  string // bare name, uppercased, including sigil if qualified
	Info  *VariableInfo
}

func (v *VariableReference) expressionNode()      {}
func (v *VariableReference) TokenLiteral() string { return v.Token.Text }
func (v *VariableReference) Pos() token.Position  { return v.Token.Pos }
func (v *VariableReference) String() string       { return v.Name }

// ParenExpression is a parenthesized sub-expression. Kept as a distinct
// node (rather than discarded) because it is a legal right-operand
// boundary for whitespace-significant keyword operators (spec.md §4.3).
type ParenExpression struct {
	Token token.Token // the '(' token
	Inner Expression
}

func (p *ParenExpression) expressionNode()      {}
func (p *ParenExpression) TokenLiteral() string { return p.Token.Text }
func (p *ParenExpression) Pos() token.Position  { return p.Token.Pos }
func (p *ParenExpression) String() string       { return "(" + p.Inner.String() + ")" }

// BinaryExpression is a left-associative binary operation; Type is
// filled in by the linter's operator-typing phase (spec.md §4.4 phase 5).
type BinaryExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
	Type     *ExpressionType
}

func (b *BinaryExpression) expressionNode()      {}
func (b *BinaryExpression) TokenLiteral() string { return b.Token.Text }
func (b *BinaryExpression) Pos() token.Position  { return b.Token.Pos }
func (b *BinaryExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(b.Left.String())
	out.WriteString(" " + b.Operator + " ")
	out.WriteString(b.Right.String())
	out.WriteString(")")
	return out.String()
}

// UnaryExpression is a unary operator applied to an operand: NOT or
// unary minus. A unary minus directly in front of a numeric literal is
// folded away at parse time (spec.md §4.3's unary-minus folding) rather
// than ever constructing one of these for that case.
type UnaryExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
	Type     *ExpressionType
}

func (u *UnaryExpression) expressionNode()      {}
func (u *UnaryExpression) TokenLiteral() string { return u.Token.Text }
func (u *UnaryExpression) Pos() token.Position  { return u.Token.Pos }
func (u *UnaryExpression) String() string {
	sep := ""
	if len(u.Operator) > 0 && isWordOperator(u.Operator) {
		sep = " "
	}
	return "(" + u.Operator + sep + u.Right.String() + ")"
}

func isWordOperator(op string) bool {
	r := op[0]
	return r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z'
}

// PropertyAccess is a dotted chain `a.b.c` rooted at a DIM-ed variable
// of user-defined type (spec.md §4.4 phase 4).
type PropertyAccess struct {
	Token  token.Token // the leading identifier's token
	Path   []string    // ["a", "b", "c"], uppercased
	Type   *ExpressionType
}

func (p *PropertyAccess) expressionNode()      {}
func (p *PropertyAccess) TokenLiteral() string { return p.Token.Text }
func (p *PropertyAccess) Pos() token.Position  { return p.Token.Pos }
func (p *PropertyAccess) String() string       { return strings.Join(p.Path, ".") }

// FunctionCall is the deliberately ambiguous `name(args...)` shape
// (spec.md §4.3's name-with-arguments ambiguity, §9's ambiguity
// resolution note): the parser never decides whether this is a function
// call, an array element access, or (at statement position) a sub call.
// The linter rewrites every instance to exactly one of
// BuiltInFunctionCall, UserFunctionCall, or ArrayAccess.
type FunctionCall struct {
	Token token.Token
	Name  string
	Args  []Expression
}

func (f *FunctionCall) expressionNode()      {}
func (f *FunctionCall) TokenLiteral() string { return f.Token.Text }
func (f *FunctionCall) Pos() token.Position  { return f.Token.Pos }
func (f *FunctionCall) String() string       { return callString(f.Name, f.Args) }

// BuiltInFunctionCall is a FunctionCall the linter recognized as a call
// to a built-in function.
type BuiltInFunctionCall struct {
	Token token.Token
	Name  string
	Args  []Expression
	Type  *ExpressionType
}

func (b *BuiltInFunctionCall) expressionNode()      {}
func (b *BuiltInFunctionCall) TokenLiteral() string { return b.Token.Text }
func (b *BuiltInFunctionCall) Pos() token.Position  { return b.Token.Pos }
func (b *BuiltInFunctionCall) String() string       { return callString(b.Name, b.Args) }

// UserFunctionCall is a FunctionCall the linter resolved against a
// user-defined FUNCTION's signature.
type UserFunctionCall struct {
	Token token.Token
	Name  string
	Args  []Expression
	Type  *ExpressionType
}

func (u *UserFunctionCall) expressionNode()      {}
func (u *UserFunctionCall) TokenLiteral() string { return u.Token.Text }
func (u *UserFunctionCall) Pos() token.Position  { return u.Token.Pos }
func (u *UserFunctionCall) String() string       { return callString(u.Name, u.Args) }

// ArrayAccess is a FunctionCall the linter resolved against a DIM-ed
// array variable in scope.
type ArrayAccess struct {
	Token   token.Token
	Name    string
	Indices []Expression
	Type    *ExpressionType
}

func (a *ArrayAccess) expressionNode()      {}
func (a *ArrayAccess) TokenLiteral() string { return a.Token.Text }
func (a *ArrayAccess) Pos() token.Position  { return a.Token.Pos }
func (a *ArrayAccess) String() string       { return callString(a.Name, a.Indices) }

func callString(name string, args []Expression) string {
	var out bytes.Buffer
	out.WriteString(name)
	out.WriteString("(")
	for i, a := range args {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(a.String())
	}
	out.WriteString(")")
	return out.String()
}
