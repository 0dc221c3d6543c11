// Package ast defines the Abstract Syntax Tree node types for the BASIC
// front-end: the raw (unresolved) tree the parser produces, and the
// resolved shapes the linter attaches to it in place.
package ast

import (
	"bytes"

	"github.com/qbi-lang/qbi/pkg/token"
)

// Node is the base interface for every AST node: every node carries its
// source position and can render itself for debugging.
type Node interface {
	// TokenLiteral returns the literal text of the token the node is
	// anchored on.
	TokenLiteral() string

	// String renders the node for debugging and golden-file tests.
	String() string

	// Pos returns the node's source position.
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without itself producing
// a value.
type Statement interface {
	Node
	statementNode()
}

// TopLevelToken is any node that can appear directly in a Program: a
// Statement, a DEF-type declaration, a DECLARE, a SUB/FUNCTION
// implementation, or a TYPE declaration (spec.md §3).
type TopLevelToken interface {
	Node
	topLevelNode()
}

// Program is the root node: a sequence of positioned top-level tokens.
type Program struct {
	Tokens []TopLevelToken
}

func (p *Program) TokenLiteral() string {
	if len(p.Tokens) > 0 {
		return p.Tokens[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, t := range p.Tokens {
		out.WriteString(t.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() token.Position {
	if len(p.Tokens) > 0 {
		return p.Tokens[0].Pos()
	}
	return token.Position{Row: 1, Col: 1}
}
