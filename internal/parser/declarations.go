package parser

import (
	"strings"

	"github.com/qbi-lang/qbi/pkg/ast"
	"github.com/qbi-lang/qbi/pkg/token"
)

// defTypeKeywords maps each DEF<type> keyword to the qualifier it sets
// (spec.md §4.4 phase 2).
var defTypeKeywords = map[token.Keyword]ast.Qualifier{
	token.KwDefInt: ast.Integer,
	token.KwDefLng: ast.Long,
	token.KwDefSng: ast.Single,
	token.KwDefDbl: ast.Double,
	token.KwDefStr: ast.String,
}

// defTypeStatement parses `DEF<type> <letter>[-<letter>][, ...]`, e.g.
// DEFINT A-Z (spec.md §4.4 phase 2). A reversed range (DEFINT Z-A) is a
// hard parse error per the original implementation's behavior.
func defTypeStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, kw, err := defTypeKeyword(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	ranges, err := Require(PrecededByWs(CSV(Require(letterRange, "letter range"))), "letter range")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return &ast.DefTypeStmt{Token: tok, Qualifier: defTypeKeywords[kw], Ranges: ranges}, nil
}

func defTypeKeyword(c *Cursor) (token.Token, token.Keyword, error) {
	for kw := range defTypeKeywords {
		tok, err := c.Keyword(kw)
		if err == nil {
			return tok, kw, nil
		}
		if !IsIncomplete(err) {
			return token.Token{}, 0, err
		}
	}
	return token.Token{}, 0, Incomplete()
}

func letterRange(c *Cursor) ([2]byte, error) {
	from, err := letter(c)
	if err != nil {
		return [2]byte{}, err
	}
	c.Mark()
	if _, err := c.AnyTokenOf(token.Minus); err != nil {
		c.Rewind()
		return [2]byte{from, from}, nil
	}
	toTok, err := Require(letter, "letter")(c)
	if err != nil {
		c.Rewind()
		return [2]byte{}, err
	}
	c.Commit()
	if toTok < from {
		return [2]byte{}, Hard(c.CurrentPos(), "Invalid letter range")
	}
	return [2]byte{from, toTok}, nil
}

func letter(c *Cursor) (byte, error) {
	c.Mark()
	tok, err := c.Identifier()
	if err != nil {
		c.Rewind()
		return 0, err
	}
	text := strings.ToUpper(tok.Text)
	if len(text) != 1 || text[0] < 'A' || text[0] > 'Z' {
		c.Rewind()
		return 0, Incomplete()
	}
	c.Commit()
	return text[0], nil
}

// dimStatement parses DIM/REDIM [SHARED] varDecl (, varDecl)* (spec.md
// §3, with array dims and type per the `a(10)`, `a$(1 TO 2, 0 TO 10)`,
// `a(1 TO 5) AS INTEGER` shapes of the original dialect).
func dimStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, redim, err := dimOrRedimKeyword(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	_, sharedErr := PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwShared)
	})(c)
	shared := sharedErr == nil

	vars, err := Require(PrecededByWs(CSV(Require(varDecl, "variable"))), "variable")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return &ast.DimStmt{Token: tok, Redim: redim, Shared: shared, Vars: vars}, nil
}

func dimOrRedimKeyword(c *Cursor) (token.Token, bool, error) {
	if tok, err := c.Keyword(token.KwDim); err == nil {
		return tok, false, nil
	} else if !IsIncomplete(err) {
		return token.Token{}, false, err
	}
	tok, err := c.Keyword(token.KwRedim)
	if err != nil {
		return token.Token{}, false, err
	}
	return tok, true, nil
}

func varDecl(c *Cursor) (ast.VarDecl, error) {
	_, name, err := parseQualifiedName(c)
	if err != nil {
		return ast.VarDecl{}, err
	}

	var dims []ast.Expression
	c.Mark()
	if _, err := c.LParen(); err == nil {
		ds, err := CSV(Require(arrayDimension, "array dimension"))(c)
		if err != nil {
			c.Rewind()
			return ast.VarDecl{}, err
		}
		if _, err := Require(func(c *Cursor) (token.Token, error) { return c.RParen() }, "')'")(c); err != nil {
			c.Rewind()
			return ast.VarDecl{}, err
		}
		c.Commit()
		dims = ds
	} else {
		c.Rewind()
	}

	decl := ast.VarDecl{Name: name, Dimensions: dims}
	asType, asErr := PrecededByWs(extendedType)(c)
	if asErr != nil && !IsIncomplete(asErr) {
		return ast.VarDecl{}, asErr
	}
	if asErr == nil {
		decl.AsType = asType
	}
	return decl, nil
}

// arrayDimension parses one `expr` or `expr TO expr` dimension bound,
// keeping only the upper bound (the dialect's arrays always have a lower
// bound of 0, per ast.RedimInfo's doc comment).
func arrayDimension(c *Cursor) (ast.Expression, error) {
	first, err := Expression(c)
	if err != nil {
		return nil, err
	}
	if _, err := PrecededByWs(func(c *Cursor) (token.Token, error) {
		return c.Keyword(token.KwTo)
	})(c); err == nil {
		upper, err := Require(PrecededByWs(Expression), "expression")(c)
		if err != nil {
			return nil, err
		}
		return upper, nil
	}
	return first, nil
}

// extendedType parses the `AS <type>` clause shared by DIM, parameters,
// and UDT elements: a built-in type name, STRING with an optional fixed
// length (`STRING * n`), or a user-defined type name.
func extendedType(c *Cursor) (string, error) {
	if _, err := c.Keyword(token.KwAs); err != nil {
		return "", err
	}
	tok, err := Require(PrecededByWs(typeNameToken), "type name")(c)
	if err != nil {
		return "", err
	}
	return tok, nil
}

func typeNameToken(c *Cursor) (string, error) {
	if tok, ok := c.PeekTok(); ok && tok.Kind == token.Keyword {
		switch tok.Keyword {
		case token.KwInteger, token.KwLong, token.KwSingle, token.KwDouble, token.KwString:
			kwTok, _ := c.Next()
			return strings.ToUpper(kwTok.Text), nil
		}
	}
	idTok, err := c.Identifier()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(idTok.Text), nil
}

// fixedStringLength parses the `* n` suffix to STRING in a UDT element's
// AS clause (spec.md §4.4 phase 1).
func fixedStringLength(c *Cursor) (ast.Expression, error) {
	c.Mark()
	_, _ = c.Whitespace()
	if _, err := c.Star(); err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	_, _ = c.Whitespace()
	return Require(Expression, "expression")(c)
}

func constStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.Keyword(token.KwConst)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	decls, err := Require(PrecededByWs(CSV(Require(constDecl, "constant"))), "constant")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return &ast.ConstStmt{Token: tok, Decls: decls}, nil
}

func constDecl(c *Cursor) (ast.ConstDecl, error) {
	_, name, err := parseQualifiedName(c)
	if err != nil {
		return ast.ConstDecl{}, err
	}
	if _, err := Require(func(c *Cursor) (token.Token, error) { return c.EqualSign() }, "'='")(c); err != nil {
		return ast.ConstDecl{}, err
	}
	value, err := Require(Expression, "expression")(c)
	if err != nil {
		return ast.ConstDecl{}, err
	}
	return ast.ConstDecl{Name: name, Value: value}, nil
}

// typeDecl parses TYPE name ... END TYPE (spec.md §4.4 phase 1).
func typeDecl(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.KeywordFollowedByWhitespace(token.KwType)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	nameTok, err := Require(PrecededByWs(func(c *Cursor) (token.Token, error) { return c.Identifier() }), "type name")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
		c.Rewind()
		return nil, err
	}
	skipBlankLines(c)

	var elements []ast.UDTElement
	for {
		if _, _, err := c.KeywordPair(token.KwEnd, token.KwType); err == nil {
			c.Commit()
			return &ast.TypeDecl{Token: tok, Name: strings.ToUpper(nameTok.Text), Elements: elements}, nil
		}
		elem, err := udtElement(c)
		if err != nil {
			c.Rewind()
			return nil, err
		}
		elements = append(elements, elem)
		if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
			c.Rewind()
			return nil, err
		}
	}
}

func udtElement(c *Cursor) (ast.UDTElement, error) {
	nameTok, err := c.IdentifierOrKeyword()
	if err != nil {
		return ast.UDTElement{}, err
	}
	asType, err := Require(PrecededByWs(extendedType), "AS")(c)
	if err != nil {
		return ast.UDTElement{}, err
	}
	elem := ast.UDTElement{Name: strings.ToUpper(nameTok.Text), AsType: asType}
	if asType == "STRING" {
		if length, err := fixedStringLength(c); err == nil {
			elem.FixedStrLen = length
		} else if !IsIncomplete(err) {
			return ast.UDTElement{}, err
		}
	}
	return elem, nil
}

// declareStatement parses DECLARE FUNCTION|SUB name(params) (spec.md §4.4
// phase 3's forward declarations).
func declareStatement(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.KeywordFollowedByWhitespace(token.KwDeclare)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	kind, err := Require(PrecededByWs(declareKindKeyword), "FUNCTION or SUB")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	qn, err := Require(PrecededByWs(qualifiedNameParse), "name")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	params, err := Require(paramList, "parameter list")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return &ast.DeclareStmt{Token: tok, Kind: kind, Name: qn.Name, Params: params}, nil
}

// qualifiedName bundles parseQualifiedName's three return values into a
// single struct, so it fits the Parse[T] shape Require/PrecededByWs need.
type qualifiedName struct {
	Token token.Token
	Name  string
}

func qualifiedNameParse(c *Cursor) (qualifiedName, error) {
	tok, name, err := parseQualifiedName(c)
	if err != nil {
		return qualifiedName{}, err
	}
	return qualifiedName{Token: tok, Name: name}, nil
}

func declareKindKeyword(c *Cursor) (ast.DeclareKind, error) {
	if _, err := c.Keyword(token.KwFunction); err == nil {
		return ast.DeclareFunction, nil
	} else if !IsIncomplete(err) {
		return 0, err
	}
	if _, err := c.Keyword(token.KwSub); err == nil {
		return ast.DeclareSub, nil
	} else if !IsIncomplete(err) {
		return 0, err
	}
	return 0, Incomplete()
}

// paramList parses the parenthesized, possibly-empty parameter list
// shared by DECLARE, SUB, and FUNCTION.
func paramList(c *Cursor) ([]ast.Param, error) {
	c.Mark()
	_, _ = c.Whitespace()
	if _, err := c.LParen(); err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := c.RParen(); err == nil {
		c.Commit()
		return nil, nil
	}
	params, err := CSV(Require(param, "parameter"))(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := Require(func(c *Cursor) (token.Token, error) { return c.RParen() }, "')'")(c); err != nil {
		c.Rewind()
		return nil, err
	}
	c.Commit()
	return params, nil
}

func param(c *Cursor) (ast.Param, error) {
	_, name, err := parseQualifiedName(c)
	if err != nil {
		return ast.Param{}, err
	}
	p := ast.Param{Name: name}
	c.Mark()
	if _, err := c.LParen(); err == nil {
		if _, err := Require(func(c *Cursor) (token.Token, error) { return c.RParen() }, "')'")(c); err != nil {
			c.Rewind()
			return ast.Param{}, err
		}
		c.Commit()
		p.Array = true
	} else {
		c.Rewind()
	}
	asType, asErr := PrecededByWs(extendedType)(c)
	if asErr != nil && !IsIncomplete(asErr) {
		return ast.Param{}, asErr
	}
	if asErr == nil {
		p.AsType = asType
	}
	return p, nil
}

// functionImpl and subImpl parse FUNCTION/SUB...END FUNCTION/SUB
// implementations (spec.md §3/§4.4 phase 3).
func functionImpl(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.KeywordFollowedByWhitespace(token.KwFunction)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	qn, err := Require(PrecededByWs(qualifiedNameParse), "name")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	params, err := Require(paramList, "parameter list")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
		c.Rewind()
		return nil, err
	}
	stmts, err := StatementBlock(c, token.KwEnd)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, _, err := c.KeywordPair(token.KwEnd, token.KwFunction); err != nil {
		c.Rewind()
		return nil, Expected(c.CurrentPos(), "END FUNCTION")
	}
	c.Commit()
	return &ast.FunctionImpl{Token: tok, Name: qn.Name, Params: params, Statements: stmts}, nil
}

func subImpl(c *Cursor) (ast.Statement, error) {
	c.Mark()
	tok, err := c.KeywordFollowedByWhitespace(token.KwSub)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	qn, err := Require(PrecededByWs(qualifiedNameParse), "name")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	params, err := Require(paramList, "parameter list")(c)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, err := Require(Alt(StatementSeparator, CommentSeparator), "end-of-statement")(c); err != nil {
		c.Rewind()
		return nil, err
	}
	stmts, err := StatementBlock(c, token.KwEnd)
	if err != nil {
		c.Rewind()
		return nil, err
	}
	if _, _, err := c.KeywordPair(token.KwEnd, token.KwSub); err != nil {
		c.Rewind()
		return nil, Expected(c.CurrentPos(), "END SUB")
	}
	c.Commit()
	return &ast.SubImpl{Token: tok, Name: qn.Name, Params: params, Statements: stmts}, nil
}
