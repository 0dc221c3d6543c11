package parser

import (
	"strconv"

	"github.com/qbi-lang/qbi/pkg/ast"
	"github.com/qbi-lang/qbi/pkg/token"
)

// builtInSubCall dispatches to one of the fifteen bespoke-shaped built-in
// subs plus the miscellaneous zero/simple-argument ones (spec.md §4.3).
func builtInSubCall(c *Cursor) (ast.Statement, error) {
	tok, ok := c.PeekTok()
	if !ok || tok.Kind != token.Keyword {
		return nil, Incomplete()
	}
	parse, known := builtInSubParsers[tok.Keyword]
	if !known {
		return nil, Incomplete()
	}
	c.Mark()
	kwTok, err := c.Keyword(tok.Keyword)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	args, err := parse(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return &ast.BuiltInSubCall{Token: kwTok, Kind: tok.Keyword, Args: args}, nil
}

type builtInArgsParser func(c *Cursor) ([]ast.Expression, error)

var builtInSubParsers map[token.Keyword]builtInArgsParser

func init() {
	builtInSubParsers = map[token.Keyword]builtInArgsParser{
		token.KwClose:     closeArgs,
		token.KwColor:     func(c *Cursor) ([]ast.Expression, error) { return flagsArgs(c, 3) },
		token.KwData:      dataArgs,
		token.KwDef:       defSegArgs,
		token.KwField:     fieldArgs,
		token.KwGet:       getPutArgs,
		token.KwPut:       getPutArgs,
		token.KwInput:     inputArgs,
		token.KwLine:      lineInputArgs,
		token.KwLocate:    func(c *Cursor) ([]ast.Expression, error) { return flagsArgs(c, 3) },
		token.KwLSet:      lsetArgs,
		token.KwName:      nameArgs,
		token.KwOpen:      openArgs,
		token.KwRead:      readArgs,
		token.KwView:      viewPrintArgs,
		token.KwWidth:     func(c *Cursor) ([]ast.Expression, error) { return flagsArgs(c, 2) },
		token.KwCls:       noArgs,
		token.KwBeep:      noArgs,
		token.KwSwap:      swapArgs,
		token.KwCall:      callArgs,
		token.KwStatic:    staticArgs,
		token.KwRandomize: randomizeArgs,
	}
}

func noArgs(c *Cursor) ([]ast.Expression, error) { return nil, nil }

func fileNumberArg(c *Cursor) (ast.Expression, error) {
	_, _ = c.AnyTokenOf(token.PoundSigil)
	return Require(Expression, "expression")(c)
}

// closeArgs parses `[#]n[, #n]*`; CLOSE with no arguments closes every
// open file.
func closeArgs(c *Cursor) ([]ast.Expression, error) {
	first, err := PrecededByWs(fileNumberArg)(c)
	if err != nil {
		if IsIncomplete(err) {
			return nil, nil
		}
		return nil, err
	}
	out := []ast.Expression{first}
	for {
		if _, err := c.Comma(); err != nil {
			return out, nil
		}
		n, err := Require(fileNumberArg, "file number")(c)
		if err != nil {
			return out, err
		}
		out = append(out, n)
	}
}

// flagsArgs implements the COLOR/LOCATE/WIDTH synthetic-flags-bitmask
// shape (spec.md §4.3): args may be missing between commas; a synthetic
// leading integer literal records, bit by bit, which of the fixed slots
// were actually provided, and only the provided arguments follow it.
func flagsArgs(c *Cursor, slots int) ([]ast.Expression, error) {
	pos := token.Position{Row: 1, Col: 1}
	var provided []ast.Expression
	flags := 0
	for i := 0; i < slots; i++ {
		if i > 0 {
			if _, err := c.Comma(); err != nil {
				break
			}
		} else {
			_, _ = c.Whitespace()
		}
		expr, err := Expression(c)
		if err != nil {
			if !IsIncomplete(err) {
				return nil, err
			}
			continue
		}
		flags |= 1 << uint(i)
		provided = append(provided, expr)
	}
	out := make([]ast.Expression, 0, len(provided)+1)
	out = append(out, syntheticInt(pos, int64(flags)))
	out = append(out, provided...)
	return out, nil
}

func syntheticInt(pos token.Position, v int64) *ast.NumericLiteral {
	return &ast.NumericLiteral{
		Token:    token.New(token.Digits, strconv.FormatInt(v, 10), pos),
		Qualifier: ast.Integer,
		IntValue: v,
	}
}

// dataArgs parses DATA's constant list: literals only, per the original
// dialect (no variables, no expressions).
func dataArgs(c *Cursor) ([]ast.Expression, error) {
	return PrecededByWs(CSV(Require(Alt(QuotedString, NumericLiteral), "literal")))(c)
}

// defSegArgs parses `SEG [= expr]` (the DEF part is already consumed by
// the dispatcher matching KwDef).
func defSegArgs(c *Cursor) ([]ast.Expression, error) {
	if _, err := Require(PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwSeg)
	}), "SEG")(c); err != nil {
		return nil, err
	}
	if _, err := c.EqualSign(); err != nil {
		return nil, nil
	}
	expr, err := Require(Expression, "expression")(c)
	if err != nil {
		return nil, err
	}
	return []ast.Expression{expr}, nil
}

// fieldArgs parses `#n, width AS name [, width AS name]*`, producing the
// variable name both as a string literal (lookup) and a variable
// reference (write-back), per spec.md §4.3.
func fieldArgs(c *Cursor) ([]ast.Expression, error) {
	handle, err := Require(PrecededByWs(fileNumberArg), "file number")(c)
	if err != nil {
		return nil, err
	}
	out := []ast.Expression{handle}
	for {
		if _, err := c.Comma(); err != nil {
			return out, nil
		}
		width, err := Require(Expression, "expression")(c)
		if err != nil {
			return nil, err
		}
		if _, err := Require(PrecededByWs(func(c *Cursor) (token.Token, error) {
			return c.Keyword(token.KwAs)
		}), "AS")(c); err != nil {
			return nil, err
		}
		qn, err := Require(PrecededByWs(qualifiedNameParse), "variable")(c)
		if err != nil {
			return nil, err
		}
		out = append(out, width,
			&ast.StringLiteral{Token: qn.Token, Value: qn.Name},
			&ast.VariableReference{Token: qn.Token, Name: qn.Name})
	}
}

// getPutArgs parses `#n, record` for both GET and PUT.
func getPutArgs(c *Cursor) ([]ast.Expression, error) {
	handle, err := Require(PrecededByWs(fileNumberArg), "file number")(c)
	if err != nil {
		return nil, err
	}
	if _, err := Require(func(c *Cursor) (token.Token, error) { return c.Comma() }, "','")(c); err != nil {
		return nil, err
	}
	record, err := Require(Expression, "expression")(c)
	if err != nil {
		return nil, err
	}
	return []ast.Expression{handle, record}, nil
}

// inputArgs parses `[#n,] var[, var]*`.
func inputArgs(c *Cursor) ([]ast.Expression, error) {
	var out []ast.Expression
	if handle, err := inputFileHandle(c); err == nil {
		out = append(out, handle)
	} else if !IsIncomplete(err) {
		return nil, err
	}
	vars, err := Require(PrecededByWs(CSV(Require(Expression, "expression"))), "variable")(c)
	if err != nil {
		return nil, err
	}
	return append(out, vars...), nil
}

func inputFileHandle(c *Cursor) (ast.Expression, error) {
	c.Mark()
	handle, err := PrecededByWs(fileNumberArg)(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := c.Comma(); err != nil {
		c.Rewind()
		return nil, Incomplete()
	}
	c.Commit()
	return handle, nil
}

// lineInputArgs parses `LINE INPUT [#n,] var$` (KwLine already consumed
// by the dispatcher).
func lineInputArgs(c *Cursor) ([]ast.Expression, error) {
	if _, err := Require(PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwInput)
	}), "INPUT")(c); err != nil {
		return nil, err
	}
	var out []ast.Expression
	if handle, err := inputFileHandle(c); err == nil {
		out = append(out, handle)
	} else if !IsIncomplete(err) {
		return nil, err
	}
	v, err := Require(PrecededByWs(Expression), "variable")(c)
	if err != nil {
		return nil, err
	}
	return append(out, v), nil
}

// lsetArgs parses `LSET var = expr`, emitting the variable both as a
// string literal and a variable reference (spec.md §4.3).
func lsetArgs(c *Cursor) ([]ast.Expression, error) {
	qn, err := Require(PrecededByWs(qualifiedNameParse), "variable")(c)
	if err != nil {
		return nil, err
	}
	if _, err := Require(func(c *Cursor) (token.Token, error) { return c.EqualSign() }, "'='")(c); err != nil {
		return nil, err
	}
	rhs, err := Require(Expression, "expression")(c)
	if err != nil {
		return nil, err
	}
	return []ast.Expression{
		&ast.StringLiteral{Token: qn.Token, Value: qn.Name},
		&ast.VariableReference{Token: qn.Token, Name: qn.Name},
		rhs,
	}, nil
}

// nameArgs parses `NAME old AS new`.
func nameArgs(c *Cursor) ([]ast.Expression, error) {
	oldName, err := Require(PrecededByWs(Expression), "expression")(c)
	if err != nil {
		return nil, err
	}
	if _, err := Require(PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwAs)
	}), "AS")(c); err != nil {
		return nil, err
	}
	newName, err := Require(PrecededByWs(Expression), "expression")(c)
	if err != nil {
		return nil, err
	}
	return []ast.Expression{oldName, newName}, nil
}

var openModeKeywords = map[token.Keyword]int64{
	token.KwInput:  1,
	token.KwOutput: 2,
	token.KwRandom: 3,
	token.KwAppend: 4,
	token.KwBinary: 5,
}

// openArgs parses `fname [FOR mode] [ACCESS access] AS [#]n [LEN = len]`
// (spec.md §4.3). Absent FOR defaults to RANDOM, absent ACCESS to
// Unspecified (0), absent LEN to 0; mode/access are encoded as integer
// literals at synthetic positions.
func openArgs(c *Cursor) ([]ast.Expression, error) {
	pos := token.Position{Row: 1, Col: 1}
	fname, err := Require(PrecededByWs(Expression), "expression")(c)
	if err != nil {
		return nil, err
	}

	mode := int64(3)
	if _, err := PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwFor)
	})(c); err == nil {
		kwTok, err := Require(PrecededByWs(openModeKeyword), "mode")(c)
		if err != nil {
			return nil, err
		}
		mode = openModeKeywords[kwTok]
	}

	access := int64(0)
	if _, err := PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwAccess)
	})(c); err == nil {
		kwTok, err := Require(PrecededByWs(openModeKeyword), "access mode")(c)
		if err != nil {
			return nil, err
		}
		access = openModeKeywords[kwTok]
	}

	if _, err := Require(PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwAs)
	}), "AS")(c); err != nil {
		return nil, err
	}
	handle, err := Require(PrecededByWs(fileNumberArg), "file number")(c)
	if err != nil {
		return nil, err
	}

	if _, err := PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwLen)
	})(c); err == nil {
		if _, err := Require(func(c *Cursor) (token.Token, error) { return c.EqualSign() }, "'='")(c); err != nil {
			return nil, err
		}
		lenExpr, err := Require(Expression, "expression")(c)
		if err != nil {
			return nil, err
		}
		return []ast.Expression{
			fname, syntheticInt(pos, mode), syntheticInt(pos, access), handle, lenExpr,
		}, nil
	}
	return []ast.Expression{
		fname, syntheticInt(pos, mode), syntheticInt(pos, access), handle, syntheticInt(pos, 0),
	}, nil
}

func openModeKeyword(c *Cursor) (token.Keyword, error) {
	tok, ok := c.PeekTok()
	if !ok || tok.Kind != token.Keyword {
		return 0, Incomplete()
	}
	if _, known := openModeKeywords[tok.Keyword]; !known {
		return 0, Incomplete()
	}
	_, _ = c.Next()
	return tok.Keyword, nil
}

func readArgs(c *Cursor) ([]ast.Expression, error) {
	return Require(PrecededByWs(CSV(Require(Expression, "expression"))), "variable")(c)
}

// viewPrintArgs parses `VIEW PRINT [top TO bottom]` (KwView already
// consumed).
func viewPrintArgs(c *Cursor) ([]ast.Expression, error) {
	if _, err := Require(PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwPrint)
	}), "PRINT")(c); err != nil {
		return nil, err
	}
	top, err := PrecededByWs(Expression)(c)
	if err != nil {
		if IsIncomplete(err) {
			return nil, nil
		}
		return nil, err
	}
	if _, err := Require(PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwTo)
	}), "TO")(c); err != nil {
		return nil, err
	}
	bottom, err := Require(PrecededByWs(Expression), "expression")(c)
	if err != nil {
		return nil, err
	}
	return []ast.Expression{top, bottom}, nil
}

func swapArgs(c *Cursor) ([]ast.Expression, error) {
	a, err := Require(PrecededByWs(Expression), "expression")(c)
	if err != nil {
		return nil, err
	}
	if _, err := Require(func(c *Cursor) (token.Token, error) { return c.Comma() }, "','")(c); err != nil {
		return nil, err
	}
	b, err := Require(Expression, "expression")(c)
	if err != nil {
		return nil, err
	}
	return []ast.Expression{a, b}, nil
}

// callArgs parses `CALL name[(args...)]`, producing a one-element
// argument list holding the call as an ordinary expression. The linter
// resolves that element like any other expression; it does not look the
// name up among user SUBs or rewrite the call to a UserSubCall.
func callArgs(c *Cursor) ([]ast.Expression, error) {
	call, err := Require(PrecededByWs(Expression), "sub name")(c)
	if err != nil {
		return nil, err
	}
	return []ast.Expression{call}, nil
}

func staticArgs(c *Cursor) ([]ast.Expression, error) {
	return Require(PrecededByWs(CSV(Require(Expression, "expression"))), "variable")(c)
}

func randomizeArgs(c *Cursor) ([]ast.Expression, error) {
	expr, err := PrecededByWs(Expression)(c)
	if err != nil {
		if IsIncomplete(err) {
			return nil, nil
		}
		return nil, err
	}
	return []ast.Expression{expr}, nil
}
