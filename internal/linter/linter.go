// Package linter implements the semantic analysis pipeline (spec.md
// §4.4): default-type resolution, user-defined-type checking,
// SUB/FUNCTION signature collection, expression/statement resolution,
// operator typing, built-in argument validation, and constant folding.
// It consumes the raw AST the parser produces and resolves it in place,
// following go-dws's semantic.Analyzer shape (a struct holding every
// symbol table the walk needs, one phase method per concern) adapted to
// spec.md's seven numbered phases instead of DWScript's OOP surface.
package linter

import (
	"github.com/qbi-lang/qbi/internal/errors"
	"github.com/qbi-lang/qbi/pkg/ast"
)

// Linter carries every symbol table spec.md §4.4's phases build and
// consume. Built fresh per Resolve call; never reused across programs.
type Linter struct {
	udts     map[string]*UDT
	udtDecls map[string]*ast.TypeDecl
	consts   map[string]*ast.ConstDecl
	declares map[string]Signature
	impls    map[string]Signature
	dt       defaultTypeTable
	module   map[string]*ast.VariableInfo

	source string
}

// Resolve runs the full linter pipeline over a parsed Program and
// returns the resolved tree plus the user-defined-type table for the
// (external) bytecode generator (spec.md §6's output contract). The
// first error aborts; the linter never mutates state on the error path
// beyond what has already been committed by earlier, already-succeeded
// phases (spec.md §4.4's failure semantics).
func Resolve(prog *ast.Program, source string) (*ast.Program, map[string]*UDT, error) {
	l := &Linter{
		udts:     map[string]*UDT{},
		udtDecls: map[string]*ast.TypeDecl{},
		consts:   map[string]*ast.ConstDecl{},
		declares: map[string]Signature{},
		impls:    map[string]Signature{},
		module:   map[string]*ast.VariableInfo{},
		source:   source,
	}

	if err := l.foldTopLevelConsts(prog); err != nil {
		return nil, nil, withSource(err, source)
	}
	if err := l.collectUDTs(prog); err != nil {
		return nil, nil, withSource(err, source)
	}
	l.dt = buildDefaultTypeTable(prog)
	if err := l.collectSignatures(prog); err != nil {
		return nil, nil, withSource(err, source)
	}
	if err := l.resolveProgram(prog); err != nil {
		return nil, nil, withSource(err, source)
	}
	return prog, l.udts, nil
}

func withSource(err error, source string) error {
	if ce, ok := err.(*errors.CompilerError); ok {
		return ce.WithSource(source)
	}
	return err
}
