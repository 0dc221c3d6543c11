package parser

import (
	"strings"

	"github.com/qbi-lang/qbi/pkg/ast"
	"github.com/qbi-lang/qbi/pkg/token"
)

// Expression parses a full expression at the lowest precedence level
// (spec.md §4.3's priority table, lowest to highest: OR, AND, NOT,
// comparison, additive, multiplicative, unary minus, atom).
func Expression(c *Cursor) (ast.Expression, error) {
	return parseOr(c)
}

func parseOr(c *Cursor) (ast.Expression, error) {
	left, err := parseAnd(c)
	if err != nil {
		return nil, err
	}
	for {
		opTok, ok, err := matchWordOperator(c, token.KwOr)
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := Require(parseAnd, "expression")(c)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Token: opTok, Left: left, Operator: "OR", Right: right}
	}
}

func parseAnd(c *Cursor) (ast.Expression, error) {
	left, err := parseNot(c)
	if err != nil {
		return nil, err
	}
	for {
		opTok, ok, err := matchWordOperator(c, token.KwAnd)
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := Require(parseNot, "expression")(c)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Token: opTok, Left: left, Operator: "AND", Right: right}
	}
}

// parseNot handles the unary NOT prefix, which sits between AND and
// comparison in the priority table.
func parseNot(c *Cursor) (ast.Expression, error) {
	c.Mark()
	tok, err := c.KeywordFollowedByWhitespace(token.KwNot)
	if err != nil {
		c.Rewind()
		return parseComparison(c)
	}
	if _, err := c.Whitespace(); err != nil {
		c.Rewind()
		return parseComparison(c)
	}
	operand, err := Require(parseNot, "expression")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return &ast.UnaryExpression{Token: tok, Operator: "NOT", Right: operand}, nil
}

var comparisonOps = map[token.Kind]string{
	token.Equal:        "=",
	token.NotEqual:      "<>",
	token.Less:          "<",
	token.LessEqual:     "<=",
	token.Greater:       ">",
	token.GreaterEqual:  ">=",
}

func parseComparison(c *Cursor) (ast.Expression, error) {
	left, err := parseAdditive(c)
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := c.PeekTok()
		opText, known := comparisonOps[tok.Kind]
		if !ok || !known {
			return left, nil
		}
		opTok, _ := c.Next()
		right, err := Require(parseAdditive, "expression")(c)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Token: opTok, Left: left, Operator: opText, Right: right}
	}
}

func parseAdditive(c *Cursor) (ast.Expression, error) {
	left, err := parseMultiplicative(c)
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := c.PeekTok()
		if !ok || (tok.Kind != token.Plus && tok.Kind != token.Minus) {
			return left, nil
		}
		opTok, _ := c.Next()
		opText := "+"
		if opTok.Kind == token.Minus {
			opText = "-"
		}
		right, err := Require(parseMultiplicative, "expression")(c)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Token: opTok, Left: left, Operator: opText, Right: right}
	}
}

func parseMultiplicative(c *Cursor) (ast.Expression, error) {
	left, err := parseUnaryMinus(c)
	if err != nil {
		return nil, err
	}
	for {
		if tok, ok := c.PeekTok(); ok && (tok.Kind == token.Star || tok.Kind == token.Slash) {
			opTok, _ := c.Next()
			opText := "*"
			if opTok.Kind == token.Slash {
				opText = "/"
			}
			right, err := Require(parseUnaryMinus, "expression")(c)
			if err != nil {
				return nil, err
			}
			left = &ast.BinaryExpression{Token: opTok, Left: left, Operator: opText, Right: right}
			continue
		}
		opTok, ok, err := matchWordOperator(c, token.KwMod)
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := Require(parseUnaryMinus, "expression")(c)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Token: opTok, Left: left, Operator: "MOD", Right: right}
	}
}

// parseUnaryMinus implements spec.md §4.3's unary-minus folding: a minus
// directly in front of a numeric literal collapses into a single signed
// literal carrying the operator's position, instead of a UnaryExpression
// node.
func parseUnaryMinus(c *Cursor) (ast.Expression, error) {
	c.Mark()
	minusTok, err := c.AnyTokenOf(token.Minus)
	if err != nil {
		c.Rewind()
		return parseAtom(c)
	}
	operand, err := Require(parseUnaryMinus, "expression")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	if lit, ok := operand.(*ast.NumericLiteral); ok {
		folded := *lit
		folded.Token = minusTok
		switch folded.Qualifier {
		case ast.Integer, ast.Long:
			folded.IntValue = -folded.IntValue
		default:
			folded.DblValue = -folded.DblValue
		}
		return &folded, nil
	}
	return &ast.UnaryExpression{Token: minusTok, Operator: "-", Right: operand}, nil
}

// parseAtom parses a parenthesis, string/numeric literal, or a name
// (bare variable reference or the ambiguous name-with-arguments form).
func parseAtom(c *Cursor) (ast.Expression, error) {
	return Alt(parseParen, QuotedString, NumericLiteral, parseNameExpr)(c)
}

func parseParen(c *Cursor) (ast.Expression, error) {
	c.Mark()
	lp, err := c.LParen()
	if err != nil {
		c.Rewind()
		return nil, err
	}
	inner, err := Require(Expression, "expression")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := Require(func(c *Cursor) (token.Token, error) { return c.RParen() }, "')'")(c); err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return &ast.ParenExpression{Token: lp, Inner: inner}, nil
}

// parseNameExpr parses a bare/qualified identifier, optionally followed
// directly by a parenthesized argument list, producing the generic
// FunctionCall node the linter later disambiguates (spec.md §4.3's
// name-with-arguments ambiguity, §9).
func parseNameExpr(c *Cursor) (ast.Expression, error) {
	c.Mark()
	nameTok, name, err := parseQualifiedName(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Mark()
	if _, err := c.LParen(); err != nil {
		c.Rewind()
		c.Commit()
		return &ast.VariableReference{Token: nameTok, Name: name}, nil
	}
	args, err := CSV(Require(Expression, "expression"))(c)
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
	c.Commit()
	c.Commit()
	return &ast.FunctionCall{Token: nameTok, Name: name, Args: args}, nil
}

// parseQualifiedName consumes an identifier (with an optional trailing
// type sigil, e.g. A%) or a keyword-dollar pair (e.g. STRING$), and
// returns its canonical uppercased text including any sigil.
func parseQualifiedName(c *Cursor) (token.Token, string, error) {
	c.Mark()
	idTok, err := c.Identifier()
	if err == nil {
		name := strings.ToUpper(idTok.Text)
		if sigilTok, sigilErr := c.Sigil(); sigilErr == nil {
			name += sigilTok.Text
		}
		c.Commit()
		return idTok, name, nil
	}
	if !IsIncomplete(err) {
		c.Rewind()
		return token.Token{}, "", err
	}
	c.Rewind()

	c.Mark()
	if peek, ok := c.PeekTok(); ok && peek.Kind == token.Keyword {
		kwTok, kwErr := c.KeywordDollarSign(peek.Keyword)
		if kwErr == nil {
			c.Commit()
			return kwTok, strings.ToUpper(kwTok.Text), nil
		}
		if !IsIncomplete(kwErr) {
			c.Rewind()
			return token.Token{}, "", kwErr
		}
	}
	c.Rewind()
	return token.Token{}, "", Incomplete()
}

// matchWordOperator matches a keyword-operator with the whitespace
// significance spec.md §4.3 mandates: mandatory whitespace (or an
// immediately preceding ')') before it, and mandatory whitespace (or an
// immediately following '(') after it. Once the keyword itself has
// matched, a missing surrounding-whitespace boundary is a hard error —
// only the keyword match itself may be incomplete.
func matchWordOperator(c *Cursor, kw token.Keyword) (token.Token, bool, error) {
	c.Mark()
	hadWs, err := consumeOptWs(c)
	if err != nil {
		c.Rewind()
		return token.Token{}, false, err
	}
	precededByParen := !hadWs && c.lastTokenWasRParen()
	if !hadWs && !precededByParen {
		c.Rewind()
		return token.Token{}, false, nil
	}
	tok, err := c.Keyword(kw)
	if err != nil {
		c.Rewind()
		if IsIncomplete(err) {
			return token.Token{}, false, nil
		}
		return token.Token{}, false, err
	}
	next, hasNext := c.PeekTok()
	if !hasNext || (next.Kind != token.Whitespace && next.Kind != token.LParen) {
		c.Rewind()
		return token.Token{}, false, Expected(c.CurrentPos(), "whitespace")
	}
	c.Commit()
	return tok, true, nil
}

func consumeOptWs(c *Cursor) (bool, error) {
	_, err := c.Whitespace()
	if err == nil {
		return true, nil
	}
	if IsIncomplete(err) {
		return false, nil
	}
	return false, err
}
