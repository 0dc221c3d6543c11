package parser

import (
	"strings"

	"github.com/qbi-lang/qbi/pkg/ast"
	"github.com/qbi-lang/qbi/pkg/token"
)

// Statement parses one statement (spec.md §3's Statement variant list).
// It does not consume the trailing separator; callers use
// StatementSeparator/CommentSeparator between calls.
func Statement(c *Cursor) (ast.Statement, error) {
	if err := reservedKeywordError(c); err != nil {
		return nil, err
	}
	return Alt[ast.Statement](
		commentStatement,
		labelStatement,
		ifStatement,
		forLoop,
		whileLoop,
		doLoop,
		selectCase,
		dimStatement,
		constStatement,
		typeDecl,
		declareStatement,
		functionImpl,
		subImpl,
		defTypeStatement,
		gotoStatement,
		gosubStatement,
		returnStatement,
		onErrorStatement,
		resumeStatement,
		exitStatement,
		endStatement,
		systemStatement,
		printStatement,
		builtInSubCall,
		assignmentOrSubCall,
	)(c)
}

// reservedKeywordError implements spec.md §4.3's "Reserved-keyword
// errors": WEND, ELSE, and LOOP at statement start are not syntax
// errors but specific semantic ones. Checked before the general
// alternation so it always wins, matching spec's propagation: this is a
// hard error, never tried as "incomplete, try the next alternative".
func reservedKeywordError(c *Cursor) error {
	tok, ok := c.PeekTok()
	if !ok || tok.Kind != token.Keyword {
		return nil
	}
	switch tok.Keyword {
	case token.KwWend:
		return Hard(tok.Pos, "WEND without WHILE")
	case token.KwElse:
		return Hard(tok.Pos, "ELSE without IF")
	case token.KwLoop:
		return Hard(tok.Pos, "LOOP without DO")
	default:
		return nil
	}
}

// StatementBlock parses "separator, then (not-terminator) statement, and
// separator, repeating" (spec.md §4.3), stopping before any of
// terminators without consuming it.
func StatementBlock(c *Cursor, terminators ...token.Keyword) ([]ast.Statement, error) {
	var out []ast.Statement
	for {
		if AtEOF(c) || AtBlockEnd(c, terminators...) {
			return out, nil
		}
		stmt, err := Statement(c)
		if err != nil {
			return out, err
		}
		out = append(out, stmt)

		if AtEOF(c) || AtBlockEnd(c, terminators...) {
			return out, nil
		}
		if _, err := Alt(StatementSeparator, CommentSeparator)(c); err != nil {
			return out, Expected(c.CurrentPos(), "end-of-statement")
		}
	}
}

func commentStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.AnyTokenOf(token.SingleQuote)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	var text strings.Builder
	for {
		next, ok := c.PeekTok()
		if !ok || next.Kind == token.Eol {
			break
		}
		tTok, _ := c.Next()
		text.WriteString(tTok.Text)
	}
	c.Commit()
	return &ast.CommentStmt{Token: tok, Text: text.String()}, nil
}

// labelStatement matches `name:` at statement start, where name is any
// identifier or keyword (spec.md §4.2's identifier_or_keyword).
func labelStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	nameTok, err := c.IdentifierOrKeyword()
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := c.Colon(); err != nil {
		c.Rewind()
		return nil, Incomplete()
	}
	c.Commit()
	return &ast.LabelStmt{Token: nameTok, Name: strings.ToUpper(nameTok.Text)}, nil
}

func gotoStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.KeywordFollowedByWhitespace(token.KwGoto)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	label, err := Require(PrecededByWs(labelName), "label")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return &ast.GotoStmt{Token: tok, Label: label}, nil
}

func gosubStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.KeywordFollowedByWhitespace(token.KwGosub)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	label, err := Require(PrecededByWs(labelName), "label")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return &ast.GosubStmt{Token: tok, Label: label}, nil
}

func returnStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.Keyword(token.KwReturn)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	label, labelErr := PrecededByWs(labelName)(c)
	if labelErr != nil && !IsIncomplete(labelErr) {
		c.Rewind()
		return nil, labelErr
	}
	c.Commit()
	return &ast.ReturnStmt{Token: tok, Label: label}, nil
}

func labelName(c *Cursor) (string, error) {
	tok, err := c.IdentifierOrKeyword()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(tok.Text), nil
}

func resumeKeyword(c *Cursor) (token.Token, error) { return c.Keyword(token.KwResume) }
func nextKeyword(c *Cursor) (token.Token, error)   { return c.Keyword(token.KwNext) }
func gotoKeyword(c *Cursor) (token.Token, error)   { return c.Keyword(token.KwGoto) }

// onErrorStatement parses the three ON ERROR shapes (spec.md §3):
// ON ERROR GOTO label, ON ERROR GOTO 0, and ON ERROR RESUME NEXT.
func onErrorStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, _, err := c.KeywordPair(token.KwOn, token.KwError)
	if err != nil {
		c.Rewind()
		return nil, err
	}

	if _, resumeErr := PrecededByWs(resumeKeyword)(c); resumeErr == nil {
		if _, err := Require(PrecededByWs(nextKeyword), "NEXT")(c); err != nil {
			c.Rewind()
			return nil, err
		}
		c.Commit()
		return &ast.OnErrorStmt{Token: tok, Kind: ast.OnErrorResumeNext}, nil
	} else if !IsIncomplete(resumeErr) {
		c.Rewind()
		return nil, resumeErr
	}

	if _, err := Require(PrecededByWs(gotoKeyword), "GOTO or RESUME")(c); err != nil {
		c.Rewind()
		return nil, err
	}

	c.Mark()
	if lit, err := PrecededByWs(NumericLiteral)(c); err == nil {
		if n, ok := lit.(*ast.NumericLiteral); ok && n.IntValue == 0 && n.DblValue == 0 {
			c.Commit()
			c.Commit()
			return &ast.OnErrorStmt{Token: tok, Kind: ast.OnErrorGotoZero}, nil
		}
	}
	c.Rewind()

	label, err := Require(PrecededByWs(labelName), "label")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return &ast.OnErrorStmt{Token: tok, Kind: ast.OnErrorGoto, Label: label}, nil
}

func resumeStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.Keyword(token.KwResume)
	if err != nil {
		c.Rewind()
		return nil, err
	}

	c.Mark()
	if _, err := PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwNext)
	})(c); err == nil {
		c.Commit()
		c.Commit()
		return &ast.ResumeStmt{Token: tok, Kind: ast.ResumeNext}, nil
	}
	c.Rewind()

	label, labelErr := PrecededByWs(labelName)(c)
	if labelErr != nil {
		if !IsIncomplete(labelErr) {
			c.Rewind()
			return nil, labelErr
		}
		c.Commit()
		return &ast.ResumeStmt{Token: tok, Kind: ast.ResumeBare}, nil
	}
	c.Commit()
	return &ast.ResumeStmt{Token: tok, Kind: ast.ResumeLabel, Label: label}, nil
}

func exitStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, _, err := c.KeywordPair(token.KwExit, token.KwFunction)
	if err == nil {
		c.Commit()
		return &ast.ExitStmt{Token: tok, Kind: ast.ExitFunction}, nil
	}
	if !IsIncomplete(err) {
		c.Rewind()
		return nil, err
	}
	c.Rewind()

	c.Mark()
	tok, _, err = c.KeywordPair(token.KwExit, token.KwSub)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return &ast.ExitStmt{Token: tok, Kind: ast.ExitSub}, nil
}

func endStatement(c *Cursor) (ast.Statement, error) {
	tok, err := c.Keyword(token.KwEnd)
	if err != nil {
		return nil, err
	}
	return &ast.EndStmt{Token: tok}, nil
}

func systemStatement(c *Cursor) (ast.Statement, error) {
	tok, err := c.Keyword(token.KwSystem)
	if err != nil {
		return nil, err
	}
	return &ast.SystemStmt{Token: tok}, nil
}

// assignmentOrSubCall is the fallback alternative: a bare/qualified name
// at statement position is either the LHS of an assignment or a sub call
// (built-in or user, disambiguated later by the linter). This mirrors
// the expression grammar's name-with-arguments ambiguity (spec.md §4.3,
// §9) one level up, at statement position.
func assignmentOrSubCall(c *Cursor) (ast.Statement, error) {
	c.Mark()
	nameTok, name, err := parseQualifiedName(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}

	c.Mark()
	if eqTok, eqErr := c.EqualSign(); eqErr == nil {
		rhs, err := Require(Expression, "expression")(c)
		if err != nil {
			c.Rewind()
			c.Rewind()
			return nil, err
		}
		c.Commit()
		c.Commit()
		return &ast.Assignment{Token: eqTok, LHS: &ast.VariableReference{Token: nameTok, Name: name}, RHS: rhs}, nil
	}
	c.Rewind()

	c.Mark()
	if _, err := c.LParen(); err == nil {
		parsedArgs, err := CSV(Require(Expression, "expression"))(c)
		if err != nil {
			c.Rewind()
			c.Rewind()
			return nil, err
		}
		if _, err := Require(func(c *Cursor) (token.Token, error) { return c.RParen() }, "')'")(c); err != nil {
			c.Rewind()
			c.Rewind()
			return nil, err
		}

		// name(args) at statement position is also the shape of an
		// array-element assignment's LHS, so an '=' here wins over the
		// SubCall reading (the linter resolves the FunctionCall node to
		// an ArrayAccess once it knows name is a dimensioned array).
		c.Mark()
		if eqTok, eqErr := c.EqualSign(); eqErr == nil {
			rhs, err := Require(Expression, "expression")(c)
			if err != nil {
				c.Rewind()
				c.Rewind()
				c.Rewind()
				return nil, err
			}
			c.Commit()
			c.Commit()
			c.Commit()
			return &ast.Assignment{Token: eqTok, LHS: &ast.FunctionCall{Token: nameTok, Name: name, Args: parsedArgs}, RHS: rhs}, nil
		}
		c.Rewind()

		c.Commit()
		c.Commit()
		return &ast.SubCall{Token: nameTok, Name: name, Args: parsedArgs}, nil
	}
	c.Rewind()

	parsedArgs, argErr := PrecededByWs(CSV(Require(Expression, "expression")))(c)
	if argErr != nil && !IsIncomplete(argErr) {
		c.Rewind()
		return nil, argErr
	}
	c.Commit()
	return &ast.SubCall{Token: nameTok, Name: name, Args: parsedArgs}, nil
}
