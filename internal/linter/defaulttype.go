package linter

import (
	"github.com/qbi-lang/qbi/pkg/ast"
)

// defaultTypeTable is the 26-entry letter → qualifier mapping built from
// every DEF<type> top-level token, in source order (spec.md §4.4 phase
// 2, §GLOSSARY's Default-type table). Immutable once built, and carried
// explicitly through the rest of resolution (spec.md §9).
type defaultTypeTable [26]ast.Qualifier

func newDefaultTypeTable() defaultTypeTable {
	var t defaultTypeTable
	for i := range t {
		t[i] = ast.Single
	}
	return t
}

// qualifierFor returns the default qualifier for a bare name's first
// letter. Names are uppercased by the parser already; non-letter first
// characters (there are none, since identifiers must start with a
// letter) fall back to Single.
func (t defaultTypeTable) qualifierFor(firstLetter byte) ast.Qualifier {
	if firstLetter < 'A' || firstLetter > 'Z' {
		return ast.Single
	}
	return t[firstLetter-'A']
}

// buildDefaultTypeTable processes every DefTypeStmt in source order,
// later statements overriding earlier ones for any letter their ranges
// cover (spec.md §4.4 phase 2).
func buildDefaultTypeTable(prog *ast.Program) defaultTypeTable {
	t := newDefaultTypeTable()
	for _, tlt := range prog.Tokens {
		def, ok := tlt.(*ast.DefTypeStmt)
		if !ok {
			continue
		}
		for _, r := range def.Ranges {
			for letter := r[0]; ; letter++ {
				t[letter-'A'] = def.Qualifier
				if letter == r[1] {
					break
				}
			}
		}
	}
	return t
}
