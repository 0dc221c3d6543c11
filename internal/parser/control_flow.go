package parser

import (
	"strings"

	"github.com/qbi-lang/qbi/pkg/ast"
	"github.com/qbi-lang/qbi/pkg/token"
)

// ifStatement parses both multi-line IF...THEN...END IF and the
// single-line form that shares the outer separator but restricts its
// body to statements that fit on one line (spec.md §4.3's "Single-line
// IF" note — enforced here simply by not recursing into StatementBlock
// for that form, since a single-line IF's body is "the rest of the
// line", delimited by ELSE or the line's end, not by END IF).
func ifStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.KeywordFollowedByWhitespace(token.KwIf)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	cond, err := Require(PrecededByWs(Expression), "expression")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := Require(PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwThen)
	}), "THEN")(c); err != nil {
		c.Rewind()
		return nil, err
	}

	if isLineEnd(c) {
		stmt, err := parseMultiLineIf(c, tok, cond)
		if err != nil {
			c.Rewind()
			return nil, err
		}
		c.Commit()
		return stmt, nil
	}

	stmt, err := parseSingleLineIf(c, tok, cond)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return stmt, nil
}

func isLineEnd(c *Cursor) bool {
	c.Mark()
	_, _ = c.Whitespace()
	tok, ok := c.PeekTok()
	c.Rewind()
	return !ok || tok.Kind == token.Eol || tok.Kind == token.SingleQuote
}

func parseMultiLineIf(c *Cursor, tok token.Token, cond ast.Expression) (ast.Statement, error) {
	if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
		return nil, err
	}
	stmts, err := StatementBlock(c, token.KwElseIf, token.KwElse, token.KwEnd)
	if err != nil {
		return nil, err
	}

	node := &ast.IfStmt{Token: tok, Condition: cond, Statements: stmts}

	for {
		arm, matched, err := tryElseIfArm(c)
		if err != nil {
			return nil, err
		}
		if !matched {
			break
		}
		node.ElseIfs = append(node.ElseIfs, arm)
	}

	if _, _, err := c.KeywordPair(token.KwElse, token.KwIf); err == nil {
		return nil, Hard(c.CurrentPos(), "unreachable ELSE IF after ELSE")
	}

	if _, err := c.Keyword(token.KwElse); err == nil {
		if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
			return nil, err
		}
		elseStmts, err := StatementBlock(c, token.KwEnd)
		if err != nil {
			return nil, err
		}
		node.ElseStatements = elseStmts
	}

	if _, _, err := c.KeywordPair(token.KwEnd, token.KwIf); err != nil {
		return nil, Expected(c.CurrentPos(), "END IF")
	}
	return node, nil
}

func tryElseIfArm(c *Cursor) (ast.ElseIfArm, bool, error) {
	c.Mark()
	if _, err := c.KeywordFollowedByWhitespace(token.KwElseIf); err != nil {
		c.Rewind()
		return ast.ElseIfArm{}, false, nil
	}
	cond, err := Require(PrecededByWs(Expression), "expression")(c)
	if err != nil {
		c.Rewind()
		return ast.ElseIfArm{}, false, err
	}
	if _, err := Require(PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwThen)
	}), "THEN")(c); err != nil {
		c.Rewind()
		return ast.ElseIfArm{}, false, err
	}
	if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
		c.Rewind()
		return ast.ElseIfArm{}, false, err
	}
	stmts, err := StatementBlock(c, token.KwElseIf, token.KwElse, token.KwEnd)
	if err != nil {
		c.Rewind()
		return ast.ElseIfArm{}, false, err
	}
	c.Commit()
	return ast.ElseIfArm{Condition: cond, Statements: stmts}, true, nil
}

// parseSingleLineIf restricts the embedded grammar to statements that
// end at ELSE or end-of-line, excluding block constructs that would need
// their own END marker (spec.md §4.3).
func parseSingleLineIf(c *Cursor, tok token.Token, cond ast.Expression) (ast.Statement, error) {
	stmts, err := singleLineStatementList(c)
	if err != nil {
		return nil, err
	}
	node := &ast.IfStmt{Token: tok, Condition: cond, Statements: stmts, SingleLine: true}

	if _, err := PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwElse)
	})(c); err == nil {
		elseStmts, err := singleLineStatementList(c)
		if err != nil {
			return nil, err
		}
		node.ElseStatements = elseStmts
	}
	return node, nil
}

func singleLineStatementList(c *Cursor) ([]ast.Statement, error) {
	var out []ast.Statement
	for {
		if isLineEnd(c) {
			return out, nil
		}
		_, _ = c.Whitespace()
		if tok, ok := c.PeekTok(); ok && tok.Kind == token.Keyword && tok.Keyword == token.KwElse {
			return out, nil
		}
		stmt, err := singleLineStatement(c)
		if err != nil {
			return out, err
		}
		out = append(out, stmt)
		if isLineEnd(c) {
			return out, nil
		}
		if _, err := c.Colon(); err != nil {
			return out, nil
		}
		_, _ = c.Whitespace()
	}
}

// singleLineStatement excludes the multi-line-only constructs from the
// general Statement alternation (IF without THEN-on-its-own-line is
// already handled by ifStatement itself recursing here for nested
// single-line IFs; FOR/WHILE/DO/SELECT CASE/SUB/FUNCTION/TYPE are block
// constructs and excluded).
func singleLineStatement(c *Cursor) (ast.Statement, error) {
	if err := reservedKeywordError(c); err != nil {
		return nil, err
	}
	return Alt[ast.Statement](
		commentStatement,
		ifStatement,
		dimStatement,
		constStatement,
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

// forLoop parses FOR counter = lower TO upper [STEP step] ... NEXT
// [counter] (spec.md §4.3, §8 scenario 3).
func forLoop(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.KeywordFollowedByWhitespace(token.KwFor)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	varTok, err := Require(PrecededByWs(func(c *Cursor) (token.Token, error) { return c.Identifier() }), "variable")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := Require(func(c *Cursor) (token.Token, error) { return c.EqualSign() }, "'='")(c); err != nil {
		c.Rewind()
		return nil, err
	}
	lower, err := Require(Expression, "expression")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := Require(PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwTo)
	}), "TO")(c); err != nil {
		c.Rewind()
		return nil, err
	}
	upper, err := Require(PrecededByWs(Expression), "expression")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}

	var step ast.Expression
	if _, err := PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwStep)
	})(c); err == nil {
		step, err = Require(PrecededByWs(Expression), "expression")(c)
		if err != nil {
			c.Rewind()
			return nil, err
		}
	}

	if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
		c.Rewind()
		return nil, err
	}
	stmts, err := StatementBlock(c, token.KwNext)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := c.Keyword(token.KwNext); err != nil {
		c.Rewind()
		return nil, Expected(c.CurrentPos(), "NEXT")
	}
	var nextCounter string
	if counterTok, err := PrecededByWs(func(c *Cursor) (token.Token, error) { return c.Identifier() })(c); err == nil {
		nextCounter = strings.ToUpper(counterTok.Text)
	}

	c.Commit()
	return &ast.ForLoop{
		Token: tok, Variable: strings.ToUpper(varTok.Text), Lower: lower, Upper: upper,
		Step: step, Statements: stmts, NextCounter: nextCounter,
	}, nil
}

func whileLoop(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.KeywordFollowedByWhitespace(token.KwWhile)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	cond, err := Require(PrecededByWs(Expression), "expression")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
		c.Rewind()
		return nil, err
	}
	stmts, err := StatementBlock(c, token.KwWend)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := c.Keyword(token.KwWend); err != nil {
		c.Rewind()
		return nil, Expected(c.CurrentPos(), "WEND")
	}
	c.Commit()
	return &ast.WhileLoop{Token: tok, Condition: cond, Statements: stmts}, nil
}

// doLoop parses both DO <WHILE|UNTIL> expr : body : LOOP (top condition)
// and DO : body : LOOP <WHILE|UNTIL> expr (bottom condition), per
// spec.md §4.3's state machine description.
func doLoop(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.Keyword(token.KwDo)
	if err != nil {
		c.Rewind()
		return nil, err
	}

	kind, topCond, hasTop := tryDoCondition(c)

	if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
		c.Rewind()
		return nil, err
	}
	stmts, err := StatementBlock(c, token.KwLoop)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := c.Keyword(token.KwLoop); err != nil {
		c.Rewind()
		return nil, Expected(c.CurrentPos(), "LOOP")
	}

	node := &ast.DoLoop{Token: tok, Statements: stmts}
	if hasTop {
		node.ConditionKind = kind
		node.ConditionPos = ast.DoConditionTop
		node.Condition = topCond
		c.Commit()
		return node, nil
	}

	if bottomKind, bottomCond, hasBottom := tryDoCondition(c); hasBottom {
		node.ConditionKind = bottomKind
		node.ConditionPos = ast.DoConditionBottom
		node.Condition = bottomCond
	}
	c.Commit()
	return node, nil
}

func tryDoCondition(c *Cursor) (ast.DoConditionKind, ast.Expression, bool) {
	c.Mark()
	if _, err := PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwWhile)
	})(c); err == nil {
		cond, err := Require(PrecededByWs(Expression), "expression")(c)
		if err != nil {
			c.Rewind()
			return 0, nil, false
		}
		c.Commit()
		return ast.DoConditionWhile, cond, true
	}
	c.Rewind()

	c.Mark()
	if _, err := PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwUntil)
	})(c); err == nil {
		cond, err := Require(PrecededByWs(Expression), "expression")(c)
		if err != nil {
			c.Rewind()
			return 0, nil, false
		}
		c.Commit()
		return ast.DoConditionUntil, cond, true
	}
	c.Rewind()
	return 0, nil, false
}

// selectCase parses SELECT CASE expr ... END SELECT, resolving the
// CaseOrEnd state machine's custom lookahead (spec.md §4.3): after
// CASE + whitespace, ELSE starts the else-arm, anything else starts an
// expression list; CASE followed immediately by '(' is also valid (no
// whitespace needed before a parenthesized first case expression).
func selectCase(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, _, err := c.KeywordPair(token.KwSelect, token.KwCase)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	subject, err := Require(PrecededByWs(Expression), "expression")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
		c.Rewind()
		return nil, err
	}
	skipBlankLines(c)

	node := &ast.SelectCase{Token: tok, Subject: subject}

	for {
		caseTok, err := c.Keyword(token.KwCase)
		if err != nil {
			break
		}
		hadWs, _ := consumeOptWs(c)
		next, hasNext := c.PeekTok()
		if !hadWs && (!hasNext || next.Kind != token.LParen) {
			return nil, Expected(c.CurrentPos(), "whitespace or '('")
		}

		if elseTok, err := c.Keyword(token.KwElse); err == nil {
			if node.ElseStatements != nil {
				return nil, Hard(elseTok.Pos, "duplicate CASE ELSE")
			}
			if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
				return nil, err
			}
			stmts, err := StatementBlock(c, token.KwCase, token.KwEnd)
			if err != nil {
				return nil, err
			}
			node.ElseStatements = stmts
			continue
		}

		exprs, err := CSV(Require(caseExpr, "case expression"))(c)
		if err != nil {
			return nil, err
		}
		if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
			return nil, err
		}
		stmts, err := StatementBlock(c, token.KwCase, token.KwEnd)
		if err != nil {
			return nil, err
		}
		node.Arms = append(node.Arms, ast.CaseArm{Token: caseTok, Exprs: exprs, Statements: stmts})
	}

	if _, _, err := c.KeywordPair(token.KwEnd, token.KwSelect); err != nil {
		c.Rewind()
		return nil, Expected(c.CurrentPos(), "END SELECT")
	}
	c.Commit()
	return node, nil
}

// caseExpr parses one element of a CASE arm's expression list: `IS <op>
// expr`, `expr TO expr`, or a bare expression (spec.md §3/§4.3).
func caseExpr(c *Cursor) (ast.CaseExpr, error) {
	c.Mark()
	if _, err := c.KeywordFollowedByWhitespace(token.KwIs); err == nil {
		op, err := Require(PrecededByWs(comparisonOperator), "comparison operator")(c)
		if err != nil {
			c.Rewind()
			return ast.CaseExpr{}, err
		}
		expr, err := Require(PrecededByWs(Expression), "expression")(c)
		if err != nil {
			c.Rewind()
			return ast.CaseExpr{}, err
		}
		c.Commit()
		return ast.CaseExpr{IsOp: op, IsExpr: expr}, nil
	}
	c.Rewind()

	c.Mark()
	first, err := Expression(c)
	if err != nil {
		c.Rewind()
		return ast.CaseExpr{}, err
	}
	if _, err := PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwTo)
	})(c); err == nil {
		hi, err := Require(PrecededByWs(Expression), "expression")(c)
		if err != nil {
			c.Rewind()
			return ast.CaseExpr{}, err
		}
		c.Commit()
		return ast.CaseExpr{RangeLo: first, RangeHi: hi}, nil
	}
	c.Commit()
	return ast.CaseExpr{Single: first}, nil
}

func comparisonOperator(c *Cursor) (string, error) {
	tok, ok := c.PeekTok()
	if !ok {
		return "", Incomplete()
	}
	op, known := comparisonOps[tok.Kind]
	if !known {
		return "", Incomplete()
	}
	_, _ = c.Next()
	return op, nil
}
