package parser

import (
	"github.com/qbi-lang/qbi/internal/lexer"
	"github.com/qbi-lang/qbi/pkg/ast"
)

// Program parses an entire source file into the root AST node: a
// sequence of top-level tokens separated by statement/comment
// separators, with optional leading and trailing blank lines (spec.md
// §3's Program, §4.3's separator grammar).
func Program(tz *lexer.Tokenizer) (*ast.Program, error) {
	c := NewCursor(tz)
	skipBlankLines(c)

	var out []ast.TopLevelToken
	for {
		if AtEOF(c) {
			return &ast.Program{Tokens: out}, nil
		}
		stmt, err := Statement(c)
		if err != nil {
			return nil, err
		}
		tlt, ok := stmt.(ast.TopLevelToken)
		if !ok {
			return nil, Hard(c.CurrentPos(), "statement cannot appear at top level")
		}
		out = append(out, tlt)

		if AtEOF(c) {
			return &ast.Program{Tokens: out}, nil
		}
		if _, err := Alt(StatementSeparator, CommentSeparator)(c); err != nil {
			return nil, Expected(c.CurrentPos(), "end-of-statement")
		}
	}
}
