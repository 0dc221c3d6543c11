package ast

import "fmt"

// Qualifier is one of the five built-in scalar types plus the
// unresolved/user-defined placeholders that appear before and after
// linting (spec.md §3's "Expression (unresolved)"/"Expression (resolved)"
// distinction).
type Qualifier int

const (
	Unresolved Qualifier = iota
	Single
	Double
	Integer
	Long
	String
	UserDefined
)

func (q Qualifier) String() string {
	switch q {
	case Single:
		return "SINGLE"
	case Double:
		return "DOUBLE"
	case Integer:
		return "INTEGER"
	case Long:
		return "LONG"
	case String:
		return "STRING"
	case UserDefined:
		return "USER-DEFINED"
	default:
		return "UNRESOLVED"
	}
}

// ExpressionType is the fully-resolved type of an expression: a built-in
// Qualifier, or a UserDefined qualifier naming a TYPE.
type ExpressionType struct {
	Qualifier    Qualifier
	UserTypeName string // set iff Qualifier == UserDefined
}

func (t ExpressionType) String() string {
	if t.Qualifier == UserDefined {
		return t.UserTypeName
	}
	return t.Qualifier.String()
}

// IsNumeric reports whether t is one of the four built-in numeric types.
func (t ExpressionType) IsNumeric() bool {
	switch t.Qualifier {
	case Single, Double, Integer, Long:
		return true
	default:
		return false
	}
}

// RedimInfo records the array dimensions of a variable declared with
// DIM/REDIM, when the variable is an array (spec.md §3's "shared/redim
// metadata").
type RedimInfo struct {
	// LowerBound/UpperBound are inclusive bounds per declared dimension;
	// classic BASIC arrays are 0-based unless OPTION BASE changes that,
	// which this dialect does not model, so LowerBound is always 0 here.
	LowerBound []int
	UpperBound []int
}

// VariableInfo is attached to every resolved Expression::Variable node
// (spec.md §3/§4.4's output invariant).
type VariableInfo struct {
	ExpressionType ExpressionType
	Shared         bool
	Redim          *RedimInfo // nil unless the variable is an array
}

func (v VariableInfo) String() string {
	if v.Redim != nil {
		return fmt.Sprintf("%s()", v.ExpressionType)
	}
	return v.ExpressionType.String()
}

// SigilFor maps a type sigil rune to its Qualifier, per the table in
// spec.md §3.
func SigilFor(r rune) (Qualifier, bool) {
	switch r {
	case '!':
		return Single, true
	case '#':
		return Double, true
	case '%':
		return Integer, true
	case '&':
		return Long, true
	case '$':
		return String, true
	default:
		return Unresolved, false
	}
}
