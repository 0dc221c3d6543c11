package ast

import (
	"bytes"

	"github.com/qbi-lang/qbi/pkg/token"
)

// ElseIfArm is one ELSEIF arm of an IfStmt.
type ElseIfArm struct {
	Condition  Expression
	Statements []Statement
}

// IfStmt is IF...THEN...ELSEIF...ELSE...END IF (and its single-line
// form, which never has ElseIfs and whose Statements/ElseStatements are
// restricted by the parser to the single-line statement subset, spec.md
// §4.3).
type IfStmt struct {
	Token          token.Token
	Condition      Expression
	Statements     []Statement
	ElseIfs        []ElseIfArm
	ElseStatements []Statement // nil if no ELSE arm
	SingleLine     bool
}

func (i *IfStmt) statementNode()       {}
func (i *IfStmt) topLevelNode()        {}
func (i *IfStmt) TokenLiteral() string { return i.Token.Text }
func (i *IfStmt) Pos() token.Position  { return i.Token.Pos }
func (i *IfStmt) String() string {
	var out bytes.Buffer
	out.WriteString("IF " + i.Condition.String() + " THEN")
	for _, s := range i.Statements {
		out.WriteString(" " + s.String())
	}
	for _, arm := range i.ElseIfs {
		out.WriteString(" ELSEIF " + arm.Condition.String() + " THEN")
		for _, s := range arm.Statements {
			out.WriteString(" " + s.String())
		}
	}
	if i.ElseStatements != nil {
		out.WriteString(" ELSE")
		for _, s := range i.ElseStatements {
			out.WriteString(" " + s.String())
		}
	}
	if !i.SingleLine {
		out.WriteString(" END IF")
	}
	return out.String()
}

// ForLoop is FOR counter = lower TO upper [STEP step] ... NEXT
// [counter] (spec.md §4.3/§8 scenario 3).
type ForLoop struct {
	Token       token.Token
	Variable    string
	Lower       Expression
	Upper       Expression
	Step        Expression // nil if no STEP clause
	Statements  []Statement
	NextCounter string // empty if NEXT has no named counter
}

func (f *ForLoop) statementNode()       {}
func (f *ForLoop) topLevelNode()        {}
func (f *ForLoop) TokenLiteral() string { return f.Token.Text }
func (f *ForLoop) Pos() token.Position  { return f.Token.Pos }
func (f *ForLoop) String() string {
	var out bytes.Buffer
	out.WriteString("FOR " + f.Variable + " = " + f.Lower.String() + " TO " + f.Upper.String())
	if f.Step != nil {
		out.WriteString(" STEP " + f.Step.String())
	}
	for _, s := range f.Statements {
		out.WriteString("\n  " + s.String())
	}
	out.WriteString("\nNEXT")
	if f.NextCounter != "" {
		out.WriteString(" " + f.NextCounter)
	}
	return out.String()
}

// WhileLoop is WHILE...WEND.
type WhileLoop struct {
	Token      token.Token
	Condition  Expression
	Statements []Statement
}

func (w *WhileLoop) statementNode()       {}
func (w *WhileLoop) topLevelNode()        {}
func (w *WhileLoop) TokenLiteral() string { return w.Token.Text }
func (w *WhileLoop) Pos() token.Position  { return w.Token.Pos }
func (w *WhileLoop) String() string {
	var out bytes.Buffer
	out.WriteString("WHILE " + w.Condition.String())
	for _, s := range w.Statements {
		out.WriteString("\n  " + s.String())
	}
	out.WriteString("\nWEND")
	return out.String()
}

// DoConditionKind distinguishes WHILE from UNTIL on a DoLoop.
type DoConditionKind int

const (
	DoConditionNone DoConditionKind = iota
	DoConditionWhile
	DoConditionUntil
)

// DoConditionPosition distinguishes top-tested from bottom-tested
// DO...LOOP (spec.md §4.3's state machine description).
type DoConditionPosition int

const (
	DoConditionTop DoConditionPosition = iota
	DoConditionBottom
)

// DoLoop is DO [WHILE|UNTIL expr] ... LOOP [WHILE|UNTIL expr], with the
// condition appearing at exactly one of the two positions.
type DoLoop struct {
	Token          token.Token
	ConditionKind  DoConditionKind
	ConditionPos   DoConditionPosition
	Condition      Expression // nil iff ConditionKind == DoConditionNone
	Statements     []Statement
}

func (d *DoLoop) statementNode()       {}
func (d *DoLoop) topLevelNode()        {}
func (d *DoLoop) TokenLiteral() string { return d.Token.Text }
func (d *DoLoop) Pos() token.Position  { return d.Token.Pos }
func (d *DoLoop) String() string {
	var out bytes.Buffer
	out.WriteString("DO")
	if d.ConditionKind != DoConditionNone && d.ConditionPos == DoConditionTop {
		out.WriteString(" " + d.conditionKeyword() + " " + d.Condition.String())
	}
	for _, s := range d.Statements {
		out.WriteString("\n  " + s.String())
	}
	out.WriteString("\nLOOP")
	if d.ConditionKind != DoConditionNone && d.ConditionPos == DoConditionBottom {
		out.WriteString(" " + d.conditionKeyword() + " " + d.Condition.String())
	}
	return out.String()
}

func (d *DoLoop) conditionKeyword() string {
	if d.ConditionKind == DoConditionUntil {
		return "UNTIL"
	}
	return "WHILE"
}

// CaseExpr is one comma-separated element of a CASE arm's expression
// list: a bare expression, `IS <op> expr`, or `expr TO expr` (spec.md
// §3/§4.3).
type CaseExpr struct {
	// Exactly one of these three is set.
	Single   Expression
	IsOp     string     // set when this is `IS <op> expr`
	IsExpr   Expression // operand for IsOp
	RangeLo  Expression // set when this is `expr TO expr`
	RangeHi  Expression
}

func (c CaseExpr) String() string {
	switch {
	case c.IsOp != "":
		return "IS " + c.IsOp + " " + c.IsExpr.String()
	case c.RangeLo != nil:
		return c.RangeLo.String() + " TO " + c.RangeHi.String()
	default:
		return c.Single.String()
	}
}

// CaseArm is one CASE arm of a SelectCase (not the CASE ELSE arm, which
// is recorded separately).
type CaseArm struct {
	Token      token.Token
	Exprs      []CaseExpr
	Statements []Statement
}

// SelectCase is SELECT CASE expr ... END SELECT, with its CaseOrEnd
// state machine (spec.md §4.3) already resolved into an arm list by the
// time the parser returns.
type SelectCase struct {
	Token         token.Token
	Subject       Expression
	Arms          []CaseArm
	ElseStatements []Statement // nil if no CASE ELSE
}

func (s *SelectCase) statementNode()       {}
func (s *SelectCase) topLevelNode()        {}
func (s *SelectCase) TokenLiteral() string { return s.Token.Text }
func (s *SelectCase) Pos() token.Position  { return s.Token.Pos }
func (s *SelectCase) String() string {
	var out bytes.Buffer
	out.WriteString("SELECT CASE " + s.Subject.String())
	for _, arm := range s.Arms {
		out.WriteString("\nCASE ")
		for i, e := range arm.Exprs {
			if i > 0 {
				out.WriteString(", ")
			}
			out.WriteString(e.String())
		}
		for _, st := range arm.Statements {
			out.WriteString("\n  " + st.String())
		}
	}
	if s.ElseStatements != nil {
		out.WriteString("\nCASE ELSE")
		for _, st := range s.ElseStatements {
			out.WriteString("\n  " + st.String())
		}
	}
	out.WriteString("\nEND SELECT")
	return out.String()
}
