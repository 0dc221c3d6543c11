package parser

import (
	"github.com/qbi-lang/qbi/pkg/ast"
	"github.com/qbi-lang/qbi/pkg/token"
)

// printStatement parses PRINT/LPRINT [#n,] [USING fmt$;] [arg][,|;]...
// (spec.md §4.3). Consecutive expressions with no separator between them
// are a hard error; leading commas/semicolons are legal and produce a
// PrintArg with no preceding expression.
func printStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	lpt1 := false
	tok, err := c.Keyword(token.KwPrint)
	if err != nil {
		if !IsIncomplete(err) {
			c.Rewind()
			return nil, err
		}
		tok, err = c.Keyword(token.KwLPrint)
		if err != nil {
			c.Rewind()
			return nil, err
		}
		lpt1 = true
	}

	node := &ast.PrintStmt{Token: tok, Lpt1: lpt1}

	if handle, ferr := printFileHandle(c); ferr == nil {
		node.FileHandle = handle
	} else if !IsIncomplete(ferr) {
		c.Rewind()
		return nil, ferr
	}

	c.Mark()
	_, _ = c.Whitespace()
	if _, uerr := c.Keyword(token.KwUsing); uerr == nil {
		c.Commit()
		fmtExpr, err := Require(PrecededByWs(QuotedString), "format string")(c)
		if err != nil {
			c.Rewind()
			return nil, err
		}
		str, ok := fmtExpr.(*ast.StringLiteral)
		if !ok {
			c.Rewind()
			return nil, Hard(c.CurrentPos(), "Expected: format string")
		}
		node.Using = str
		if _, err := Require(func(c *Cursor) (token.Token, error) {
			return c.AnyTokenOf(token.Semicolon)
		}, "';'")(c); err != nil {
			c.Rewind()
			return nil, err
		}
	} else {
		c.Rewind()
		if !IsIncomplete(uerr) {
			c.Rewind()
			return nil, uerr
		}
	}

	args, err := printArgs(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	node.Args = args
	c.Commit()
	return node, nil
}

func printFileHandle(c *Cursor) (ast.Expression, error) {
	c.Mark()
	if _, err := c.AnyTokenOf(token.PoundSigil); err != nil {
		c.Rewind()
		return nil, err
	}
	expr, err := Require(Expression, "expression")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := Require(func(c *Cursor) (token.Token, error) { return c.Comma() }, "','")(c); err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return expr, nil
}

func printSeparator(c *Cursor) (ast.PrintArgKind, error) {
	if _, err := c.Comma(); err == nil {
		return ast.PrintArgComma, nil
	}
	if _, err := c.AnyTokenOf(token.Semicolon); err == nil {
		return ast.PrintArgSemicolon, nil
	}
	return 0, Incomplete()
}

// printArgs parses the comma/semicolon-delimited argument list. A leading
// separator is legal (no preceding expression); two expressions with no
// separator between them is a hard error.
func printArgs(c *Cursor) ([]ast.PrintArg, error) {
	var out []ast.PrintArg
	sawExpr := false
	for {
		if sepKind, err := printSeparator(c); err == nil {
			out = append(out, ast.PrintArg{Kind: sepKind})
			sawExpr = false
			continue
		}
		if AtEOF(c) || isLineEnd(c) || AtBlockEnd(c, token.KwElse) {
			return out, nil
		}
		if sawExpr {
			return out, Hard(c.CurrentPos(), "No separator: %s", peekText(c))
		}
		expr, err := PrecededByWs(Expression)(c)
		if err != nil {
			if IsIncomplete(err) {
				expr, err = Expression(c)
			}
			if err != nil {
				if IsIncomplete(err) {
					return out, nil
				}
				return out, err
			}
		}
		out = append(out, ast.PrintArg{Kind: ast.PrintArgExpression, Expression: expr})
		sawExpr = true
	}
}

func peekText(c *Cursor) string {
	if tok, ok := c.PeekTok(); ok {
		return tok.Text
	}
	return ""
}
