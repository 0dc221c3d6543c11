package token

import "strings"

// Keyword is a member of the closed, case-insensitive keyword enumeration.
type Keyword int

// Keyword constants. The set intentionally mirrors spec.md's "≈80 entries"
// budget: control flow, declarations, built-in type names, logical/
// arithmetic word-operators, PRINT/INPUT family, and the built-in subs
// named in spec.md §4.3.
const (
	KwNone Keyword = iota

	// Control flow
	KwIf
	KwThen
	KwElse
	KwElseIf
	KwEnd
	KwFor
	KwTo
	KwStep
	KwNext
	KwWhile
	KwWend
	KwDo
	KwLoop
	KwUntil
	KwSelect
	KwCase
	KwIs
	KwGoto
	KwGosub
	KwReturn
	KwOn
	KwError
	KwResume
	KwExit
	KwSystem

	// Declarations
	KwDim
	KwRedim
	KwShared
	KwAs
	KwConst
	KwType
	KwDeclare
	KwSub
	KwFunction
	KwDef
	KwDefInt
	KwDefLng
	KwDefSng
	KwDefDbl
	KwDefStr

	// Built-in type names
	KwInteger
	KwLong
	KwSingle
	KwDouble
	KwString

	// Logical / arithmetic word operators
	KwAnd
	KwOr
	KwNot
	KwMod

	// Print family
	KwPrint
	KwLPrint
	KwUsing

	// Built-in subs (spec.md §4.3)
	KwInput
	KwLine
	KwClose
	KwColor
	KwData
	KwSeg
	KwField
	KwGet
	KwLocate
	KwLSet
	KwName
	KwOpen
	KwAccess
	KwLen
	KwPut
	KwRead
	KwView
	KwWidth

	// OPEN mode / access keywords
	KwRandom
	KwAppend
	KwOutput
	KwBinary
	KwWrite

	// Miscellaneous commonly-used subs
	KwCls
	KwBeep
	KwSwap
	KwCall
	KwStatic
	KwRandomize

	keywordEnd // sentinel, not a real keyword
)

// keywordNames is the canonical source text for each keyword, used both
// for display and to build the case-insensitive lookup table.
var keywordNames = map[Keyword]string{
	KwIf: "IF", KwThen: "THEN", KwElse: "ELSE", KwElseIf: "ELSEIF", KwEnd: "END",
	KwFor: "FOR", KwTo: "TO", KwStep: "STEP", KwNext: "NEXT", KwWhile: "WHILE",
	KwWend: "WEND", KwDo: "DO", KwLoop: "LOOP", KwUntil: "UNTIL", KwSelect: "SELECT",
	KwCase: "CASE", KwIs: "IS", KwGoto: "GOTO", KwGosub: "GOSUB", KwReturn: "RETURN",
	KwOn: "ON", KwError: "ERROR", KwResume: "RESUME", KwExit: "EXIT", KwSystem: "SYSTEM",

	KwDim: "DIM", KwRedim: "REDIM", KwShared: "SHARED", KwAs: "AS", KwConst: "CONST",
	KwType: "TYPE", KwDeclare: "DECLARE", KwSub: "SUB", KwFunction: "FUNCTION",
	KwDef: "DEF", KwDefInt: "DEFINT", KwDefLng: "DEFLNG", KwDefSng: "DEFSNG",
	KwDefDbl: "DEFDBL", KwDefStr: "DEFSTR",

	KwInteger: "INTEGER", KwLong: "LONG", KwSingle: "SINGLE", KwDouble: "DOUBLE",
	KwString: "STRING",

	KwAnd: "AND", KwOr: "OR", KwNot: "NOT", KwMod: "MOD",

	KwPrint: "PRINT", KwLPrint: "LPRINT", KwUsing: "USING",

	KwInput: "INPUT", KwLine: "LINE", KwClose: "CLOSE", KwColor: "COLOR",
	KwData: "DATA", KwSeg: "SEG", KwField: "FIELD", KwGet: "GET",
	KwLocate: "LOCATE", KwLSet: "LSET", KwName: "NAME", KwOpen: "OPEN",
	KwAccess: "ACCESS", KwLen: "LEN", KwPut: "PUT", KwRead: "READ",
	KwView: "VIEW", KwWidth: "WIDTH",

	KwRandom: "RANDOM", KwAppend: "APPEND", KwOutput: "OUTPUT", KwBinary: "BINARY",
	KwWrite: "WRITE",

	KwCls: "CLS", KwBeep: "BEEP", KwSwap: "SWAP", KwCall: "CALL",
	KwStatic: "STATIC", KwRandomize: "RANDOMIZE",
}

// keywordLookup maps the upper-cased source text to its Keyword, built
// once at package init for case-insensitive matching.
var keywordLookup map[string]Keyword

func init() {
	keywordLookup = make(map[string]Keyword, len(keywordNames))
	for kw, name := range keywordNames {
		keywordLookup[name] = kw
	}
}

// String returns the canonical upper-case spelling of the keyword.
func (k Keyword) String() string {
	if name, ok := keywordNames[k]; ok {
		return name
	}
	return "<none>"
}

// LookupKeyword resolves source text to a Keyword, matching
// case-insensitively. The second return value is false for non-keywords.
func LookupKeyword(text string) (Keyword, bool) {
	kw, ok := keywordLookup[strings.ToUpper(text)]
	return kw, ok
}

// AllKeywordNames returns the canonical spelling of every keyword in the
// enumeration, in no particular order. Used by the tokenizer's keyword
// recognizer to test prefix/exact matches against the closed set.
func AllKeywordNames() []string {
	names := make([]string, 0, len(keywordNames))
	for _, name := range keywordNames {
		names = append(names, name)
	}
	return names
}

// IsTypeKeyword reports whether a keyword is also a built-in type name,
// used by the grammar to know when a bare type keyword can appear in an
// `AS` clause.
func (k Keyword) IsTypeKeyword() bool {
	switch k {
	case KwInteger, KwLong, KwSingle, KwDouble, KwString:
		return true
	default:
		return false
	}
}
