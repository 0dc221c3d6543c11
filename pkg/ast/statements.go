package ast

import (
	"bytes"

	"github.com/qbi-lang/qbi/pkg/token"
)

// Assignment is `lhs = rhs`. LSET `lhs = rhs` is a distinct built-in sub
// call (spec.md §4.3's built-in sub table), not an Assignment — it needs
// both a string-literal name and a variable reference for the LHS,
// which this shape has no room for.
type Assignment struct {
	Token token.Token // the '=' token
	LHS   Expression
	RHS   Expression
}

func (a *Assignment) statementNode()       {}
func (a *Assignment) topLevelNode()        {}
func (a *Assignment) TokenLiteral() string { return a.Token.Text }
func (a *Assignment) Pos() token.Position  { return a.LHS.Pos() }
func (a *Assignment) String() string       { return a.LHS.String() + " = " + a.RHS.String() }

// SubCall is the raw, ambiguous statement-position call `name args...`
// or `name(args...)` (spec.md §3's "sub call (built-in or user)"): the
// parser does not yet know whether Name is a user-defined SUB. The
// linter rewrites every instance to UserSubCall or reports an error;
// built-in subs never take this shape (see BuiltInSubCall).
type SubCall struct {
	Token token.Token
	Name  string
	Args  []Expression
}

func (s *SubCall) statementNode()       {}
func (s *SubCall) topLevelNode()        {}
func (s *SubCall) TokenLiteral() string { return s.Token.Text }
func (s *SubCall) Pos() token.Position  { return s.Token.Pos }
func (s *SubCall) String() string       { return callString(s.Name, s.Args) }

// BuiltInSubCall is a call to a built-in sub, emitted directly by the
// parser when a statement starts with that sub's keyword (spec.md
// §4.3's built-in sub table). Kind names the specific
// built-in so the bytecode generator does not need to re-parse Name.
type BuiltInSubCall struct {
	Token token.Token
	Kind  token.Keyword
	Args  []Expression
}

func (b *BuiltInSubCall) statementNode()       {}
func (b *BuiltInSubCall) topLevelNode()        {}
func (b *BuiltInSubCall) TokenLiteral() string { return b.Token.Text }
func (b *BuiltInSubCall) Pos() token.Position  { return b.Token.Pos }
func (b *BuiltInSubCall) String() string       { return callString(b.Kind.String(), b.Args) }

// UserSubCall is a SubCall the linter resolved against a user-defined
// SUB's signature.
type UserSubCall struct {
	Token token.Token
	Name  string
	Args  []Expression
}

func (u *UserSubCall) statementNode()       {}
func (u *UserSubCall) topLevelNode()        {}
func (u *UserSubCall) TokenLiteral() string { return u.Token.Text }
func (u *UserSubCall) Pos() token.Position  { return u.Token.Pos }
func (u *UserSubCall) String() string       { return callString(u.Name, u.Args) }

// PrintArgKind discriminates the three PrintArg variants.
type PrintArgKind int

const (
	PrintArgExpression PrintArgKind = iota
	PrintArgComma
	PrintArgSemicolon
)

// PrintArg is one element of a PRINT/LPRINT argument list: an
// expression, or a bare separator with no preceding expression (spec.md
// §4.3's print-arg shape; leading separators are legal).
type PrintArg struct {
	Kind       PrintArgKind
	Expression Expression // set iff Kind == PrintArgExpression
}

// PrintStmt is PRINT or LPRINT, with its full QBASIC feature set: an
// optional file handle, the LPT1 flag (PrintStmt parsed from LPRINT
// rather than PRINT), an optional USING format string, and the
// comma/semicolon-delimited argument list (spec.md §4.3).
type PrintStmt struct {
	Token      token.Token
	FileHandle Expression // nil if writing to the console
	Lpt1       bool
	Using      *StringLiteral // nil if no USING clause
	Args       []PrintArg
}

func (p *PrintStmt) statementNode()       {}
func (p *PrintStmt) topLevelNode()        {}
func (p *PrintStmt) TokenLiteral() string { return p.Token.Text }
func (p *PrintStmt) Pos() token.Position  { return p.Token.Pos }
func (p *PrintStmt) String() string {
	var out bytes.Buffer
	if p.Lpt1 {
		out.WriteString("LPRINT")
	} else {
		out.WriteString("PRINT")
	}
	if p.FileHandle != nil {
		out.WriteString(" #" + p.FileHandle.String() + ",")
	}
	if p.Using != nil {
		out.WriteString(" USING " + p.Using.String() + ";")
	}
	for _, a := range p.Args {
		switch a.Kind {
		case PrintArgComma:
			out.WriteString(",")
		case PrintArgSemicolon:
			out.WriteString(";")
		default:
			out.WriteString(" " + a.Expression.String())
		}
	}
	return out.String()
}

// CommentStmt is a single-quote comment, text running to end of line.
type CommentStmt struct {
	Token token.Token
	Text  string
}

func (c *CommentStmt) statementNode()       {}
func (c *CommentStmt) topLevelNode()        {}
func (c *CommentStmt) TokenLiteral() string { return c.Token.Text }
func (c *CommentStmt) Pos() token.Position  { return c.Token.Pos }
func (c *CommentStmt) String() string       { return "'" + c.Text }

// LabelStmt introduces a jump target: either a bare name (identifier or
// keyword, spec.md §4.2's identifier_or_keyword) or a classic numbered
// line label.
type LabelStmt struct {
	Token token.Token
	Name  string
}

func (l *LabelStmt) statementNode()       {}
func (l *LabelStmt) topLevelNode()        {}
func (l *LabelStmt) TokenLiteral() string { return l.Token.Text }
func (l *LabelStmt) Pos() token.Position  { return l.Token.Pos }
func (l *LabelStmt) String() string       { return l.Name + ":" }

// GotoStmt is GOTO label.
type GotoStmt struct {
	Token token.Token
	Label string
}

func (g *GotoStmt) statementNode()       {}
func (g *GotoStmt) topLevelNode()        {}
func (g *GotoStmt) TokenLiteral() string { return g.Token.Text }
func (g *GotoStmt) Pos() token.Position  { return g.Token.Pos }
func (g *GotoStmt) String() string       { return "GOTO " + g.Label }

// GosubStmt is GOSUB label.
type GosubStmt struct {
	Token token.Token
	Label string
}

func (g *GosubStmt) statementNode()       {}
func (g *GosubStmt) topLevelNode()        {}
func (g *GosubStmt) TokenLiteral() string { return g.Token.Text }
func (g *GosubStmt) Pos() token.Position  { return g.Token.Pos }
func (g *GosubStmt) String() string       { return "GOSUB " + g.Label }

// ReturnStmt is RETURN, optionally to a label rather than the GOSUB
// call site.
type ReturnStmt struct {
	Token token.Token
	Label string // empty if bare RETURN
}

func (r *ReturnStmt) statementNode()       {}
func (r *ReturnStmt) topLevelNode()        {}
func (r *ReturnStmt) TokenLiteral() string { return r.Token.Text }
func (r *ReturnStmt) Pos() token.Position  { return r.Token.Pos }
func (r *ReturnStmt) String() string {
	if r.Label == "" {
		return "RETURN"
	}
	return "RETURN " + r.Label
}

// OnErrorKind discriminates the ON ERROR statement shapes.
type OnErrorKind int

const (
	OnErrorGoto      OnErrorKind = iota // ON ERROR GOTO label
	OnErrorGotoZero                     // ON ERROR GOTO 0 (disable handler)
	OnErrorResumeNext                   // ON ERROR RESUME NEXT
)

// OnErrorStmt covers all three ON ERROR shapes (spec.md §3).
type OnErrorStmt struct {
	Token token.Token
	Kind  OnErrorKind
	Label string // set iff Kind == OnErrorGoto
}

func (o *OnErrorStmt) statementNode()       {}
func (o *OnErrorStmt) topLevelNode()        {}
func (o *OnErrorStmt) TokenLiteral() string { return o.Token.Text }
func (o *OnErrorStmt) Pos() token.Position  { return o.Token.Pos }
func (o *OnErrorStmt) String() string {
	switch o.Kind {
	case OnErrorGoto:
		return "ON ERROR GOTO " + o.Label
	case OnErrorGotoZero:
		return "ON ERROR GOTO 0"
	default:
		return "ON ERROR RESUME NEXT"
	}
}

// ResumeKind discriminates the three RESUME shapes.
type ResumeKind int

const (
	ResumeBare ResumeKind = iota // RESUME (retry the failing statement)
	ResumeNext                   // RESUME NEXT (continue after it)
	ResumeLabel                  // RESUME label
)

// ResumeStmt is RESUME, RESUME NEXT, or RESUME label.
type ResumeStmt struct {
	Token token.Token
	Kind  ResumeKind
	Label string // set iff Kind == ResumeLabel
}

func (r *ResumeStmt) statementNode()       {}
func (r *ResumeStmt) topLevelNode()        {}
func (r *ResumeStmt) TokenLiteral() string { return r.Token.Text }
func (r *ResumeStmt) Pos() token.Position  { return r.Token.Pos }
func (r *ResumeStmt) String() string {
	switch r.Kind {
	case ResumeNext:
		return "RESUME NEXT"
	case ResumeLabel:
		return "RESUME " + r.Label
	default:
		return "RESUME"
	}
}

// ExitKind discriminates EXIT FUNCTION vs. EXIT SUB (the only two exit
// targets this dialect's linter recognizes — EXIT FOR/DO/WHILE are
// represented directly by their enclosing loop node's exit path instead,
// since FOR/WHILE/DO are single-node constructs here, not blocks that
// need a separate exit marker to unwind).
type ExitKind int

const (
	ExitFunction ExitKind = iota
	ExitSub
)

// ExitStmt is EXIT FUNCTION or EXIT SUB.
type ExitStmt struct {
	Token token.Token
	Kind  ExitKind
}

func (e *ExitStmt) statementNode()       {}
func (e *ExitStmt) topLevelNode()        {}
func (e *ExitStmt) TokenLiteral() string { return e.Token.Text }
func (e *ExitStmt) Pos() token.Position  { return e.Token.Pos }
func (e *ExitStmt) String() string {
	if e.Kind == ExitFunction {
		return "EXIT FUNCTION"
	}
	return "EXIT SUB"
}

// EndStmt is the bare END statement.
type EndStmt struct{ Token token.Token }

func (e *EndStmt) statementNode()       {}
func (e *EndStmt) topLevelNode()        {}
func (e *EndStmt) TokenLiteral() string { return e.Token.Text }
func (e *EndStmt) Pos() token.Position  { return e.Token.Pos }
func (e *EndStmt) String() string       { return "END" }

// SystemStmt is the bare SYSTEM statement.
type SystemStmt struct{ Token token.Token }

func (s *SystemStmt) statementNode()       {}
func (s *SystemStmt) topLevelNode()        {}
func (s *SystemStmt) TokenLiteral() string { return s.Token.Text }
func (s *SystemStmt) Pos() token.Position  { return s.Token.Pos }
func (s *SystemStmt) String() string       { return "SYSTEM" }
