package lexer

import (
	"strings"
	"unicode"

	"github.com/qbi-lang/qbi/pkg/token"
)

// RecognizerState is the three-valued verdict a recognizer reports for
// the buffer accumulated so far, per spec.md §4.1.
type RecognizerState int

const (
	// Negative means the buffer cannot be extended into a match of this
	// recognizer's kind, no matter what follows.
	Negative RecognizerState = iota
	// Partial means the buffer is not currently a match, but could become
	// one with more input.
	Partial
	// Positive means the buffer currently matches this recognizer's kind.
	Positive
)

// Recognizer is a (kind, predicate) pair: given the buffer accumulated so
// far for the current read, it reports whether that buffer is a Negative,
// Partial, or Positive match for Kind. Recognizers are pure functions of
// the buffer — they hold no state of their own, so the longest-match
// algorithm can simply call them again on a longer buffer.
type Recognizer struct {
	Kind  token.Kind
	Check func(buf []rune) RecognizerState
}

// recognizerTable is the ordered list of (kind, recognizer) pairs the
// tokenizer runs on every read. Order matters for the longest-match
// tie-break: earlier entries win ties, which is how `keyword` beats
// `identifier` on an equal-length match (see readFresh() in lexer.go).
var recognizerTable = []Recognizer{
	{token.Whitespace, recognizeWhitespace},
	{token.Eol, recognizeEol},
	{token.Keyword, recognizeKeyword},
	{token.Identifier, recognizeIdentifier},
	{token.HexDigits, recognizeHexDigits},
	{token.OctDigits, recognizeOctDigits},
	{token.Digits, recognizeDigits},
	{token.Quote, recognizeQuotedString},
	{token.SingleQuote, recognizeSingleQuote},
	{token.LParen, recognizeExact("(", token.LParen)},
	{token.RParen, recognizeExact(")", token.RParen)},
	{token.Comma, recognizeExact(",", token.Comma)},
	{token.Semicolon, recognizeExact(";", token.Semicolon)},
	{token.Colon, recognizeExact(":", token.Colon)},
	{token.Dot, recognizeExact(".", token.Dot)},
	{token.LessEqual, recognizeExact("<=", token.LessEqual)},
	{token.GreaterEqual, recognizeExact(">=", token.GreaterEqual)},
	{token.NotEqual, recognizeExact("<>", token.NotEqual)},
	{token.Less, recognizeExact("<", token.Less)},
	{token.Greater, recognizeExact(">", token.Greater)},
	{token.Equal, recognizeExact("=", token.Equal)},
	{token.Plus, recognizeExact("+", token.Plus)},
	{token.Minus, recognizeExact("-", token.Minus)},
	{token.Star, recognizeExact("*", token.Star)},
	{token.Slash, recognizeExact("/", token.Slash)},
	{token.ExclamationSigil, recognizeExact("!", token.ExclamationSigil)},
	{token.PoundSigil, recognizeExact("#", token.PoundSigil)},
	{token.DollarSigil, recognizeExact("$", token.DollarSigil)},
	{token.PercentSigil, recognizeExact("%", token.PercentSigil)},
	{token.AmpersandSigil, recognizeExact("&", token.AmpersandSigil)},
}

// recognizeExact builds a recognizer for a fixed literal token (operators
// and punctuation that have no variable-length form). A Less/LessEqual/
// NotEqual style ambiguity is resolved purely by the longest-match rule:
// "<=" matches both Less (prefix) and LessEqual (exact), and LessEqual's
// greater recorded length wins.
func recognizeExact(lit string, _ token.Kind) func(buf []rune) RecognizerState {
	runes := []rune(lit)
	return func(buf []rune) RecognizerState {
		if len(buf) > len(runes) {
			return Negative
		}
		for i, r := range buf {
			if r != runes[i] {
				return Negative
			}
		}
		if len(buf) == len(runes) {
			return Positive
		}
		return Partial
	}
}

func recognizeWhitespace(buf []rune) RecognizerState {
	for _, r := range buf {
		if r != ' ' && r != '\t' {
			return Negative
		}
	}
	if len(buf) == 0 {
		return Partial
	}
	return Positive
}

// recognizeEol matches CRLF, bare CR, or bare LF as a single token,
// counting CRLF as one newline per spec.md §4.1 step 6.
func recognizeEol(buf []rune) RecognizerState {
	switch len(buf) {
	case 0:
		return Partial
	case 1:
		switch buf[0] {
		case '\n':
			return Positive
		case '\r':
			return Partial
		default:
			return Negative
		}
	case 2:
		if buf[0] == '\r' && buf[1] == '\n' {
			return Positive
		}
		return Negative
	default:
		return Negative
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

// recognizeIdentifier matches bare-name identifiers. Max length (40) and
// "no dot for UDT names" are semantic checks performed by the parser and
// linter, not the tokenizer, per spec.md §3 ("Identifiers are case-
// insensitive, max 40 characters...") — the tokenizer only recognizes the
// lexical shape.
func recognizeIdentifier(buf []rune) RecognizerState {
	if len(buf) == 0 {
		return Partial
	}
	if !isIdentStart(buf[0]) {
		return Negative
	}
	for _, r := range buf[1:] {
		if !isIdentCont(r) {
			return Negative
		}
	}
	return Positive
}

// recognizeKeyword matches any of the closed keyword set, case-
// insensitively. It does not special-case a trailing `$`: that token
// always tokenizes separately as a DollarSigil. The `keyword(k)` vs.
// `keyword_dollar_sign(k)` distinction in spec.md §3/§4.2 (e.g. STRING$
// being the built-in function, STRING being the type keyword) is a
// grammar-level concern, decided by which parser primitive consumes the
// Keyword token and whether it then also consumes a following
// DollarSigil token — see parser.Keyword / parser.KeywordDollarSign.
func recognizeKeyword(buf []rune) RecognizerState {
	if len(buf) == 0 {
		return Partial
	}
	text := string(buf)
	upper := strings.ToUpper(text)
	anyPrefix := false
	for _, name := range keywordNamesSorted() {
		if name == upper {
			return Positive
		}
		if strings.HasPrefix(name, upper) {
			anyPrefix = true
		}
	}
	if anyPrefix {
		return Partial
	}
	return Negative
}

func recognizeHexDigits(buf []rune) RecognizerState {
	return recognizePrefixedDigits(buf, "&H", isHexDigit)
}

func recognizeOctDigits(buf []rune) RecognizerState {
	return recognizePrefixedDigits(buf, "&O", isOctDigit)
}

func recognizePrefixedDigits(buf []rune, prefix string, digitOK func(rune) bool) RecognizerState {
	prefixUpper := strings.ToUpper(prefix)
	prefixRunes := []rune(prefixUpper)
	if len(buf) == 0 {
		return Partial
	}
	for i := 0; i < len(prefixRunes) && i < len(buf); i++ {
		if unicode.ToUpper(buf[i]) != prefixRunes[i] {
			return Negative
		}
	}
	if len(buf) <= len(prefixRunes) {
		return Partial
	}
	rest := buf[len(prefixRunes):]
	i := 0
	if rest[0] == '-' {
		i = 1
		if len(rest) == 1 {
			return Partial
		}
	}
	for _, r := range rest[i:] {
		if !digitOK(r) {
			return Negative
		}
	}
	return Positive
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOctDigit(r rune) bool {
	return r >= '0' && r <= '7'
}

// recognizeDigits matches an integer or floating-point numeric literal:
// a run of decimal digits, optionally with a single '.' and more digits,
// optionally followed by an exponent. Sign is handled separately by the
// grammar's unary-minus folding (spec.md §4.3), not by this recognizer.
func recognizeDigits(buf []rune) RecognizerState {
	if len(buf) == 0 {
		return Partial
	}
	i := 0
	for i < len(buf) && isDecDigit(buf[i]) {
		i++
	}
	if i == 0 {
		return Negative
	}
	if i == len(buf) {
		return Positive
	}
	if buf[i] == '.' {
		i++
		start := i
		for i < len(buf) && isDecDigit(buf[i]) {
			i++
		}
		if i == len(buf) {
			if i == start {
				return Partial
			}
			return Positive
		}
		return recognizeExponent(buf, i)
	}
	return recognizeExponent(buf, i)
}

func recognizeExponent(buf []rune, i int) RecognizerState {
	if i >= len(buf) {
		return Positive
	}
	if buf[i] != 'e' && buf[i] != 'E' && buf[i] != 'd' && buf[i] != 'D' {
		return Negative
	}
	i++
	if i >= len(buf) {
		return Partial
	}
	if buf[i] == '+' || buf[i] == '-' {
		i++
	}
	if i >= len(buf) {
		return Partial
	}
	for i < len(buf) {
		if !isDecDigit(buf[i]) {
			return Negative
		}
		i++
	}
	return Positive
}

func isDecDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// recognizeQuotedString matches a double-quoted string literal. Per
// spec.md §6, there are no escape sequences: a quote inside the string
// ends it. So the only valid shapes are `"` + zero-or-more non-quote
// runes + `"`.
func recognizeQuotedString(buf []rune) RecognizerState {
	if len(buf) == 0 {
		return Partial
	}
	if buf[0] != '"' {
		return Negative
	}
	if len(buf) == 1 {
		return Partial
	}
	for _, r := range buf[1 : len(buf)-1] {
		if r == '"' {
			return Negative
		}
	}
	if buf[len(buf)-1] == '"' {
		return Positive
	}
	return Partial
}

// recognizeSingleQuote matches the `'` comment-start punctuation token;
// the grammar reads everything up to end-of-line as comment text
// following it (see parser/statements.go).
func recognizeSingleQuote(buf []rune) RecognizerState {
	if len(buf) == 0 {
		return Partial
	}
	if len(buf) == 1 && buf[0] == '\'' {
		return Positive
	}
	return Negative
}

var sortedKeywordNames []string

func keywordNamesSorted() []string {
	if sortedKeywordNames != nil {
		return sortedKeywordNames
	}
	sortedKeywordNames = token.AllKeywordNames()
	return sortedKeywordNames
}
