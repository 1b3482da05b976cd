// Package environment implements Eclair's lexical scope chain (spec §4.1).
// Deliberately unlike Solidity: only function bodies introduce a new scope;
// block statements (if/else/for/while/bare blocks) execute in the enclosing
// scope.
package environment

import (
	"github.com/danhper/eclair/internal/values"
)

// LastResultIdent is the special identifier updated after every top-level
// expression that yields a non-Null value (spec §3.3, §4.1).
const LastResultIdent = "_"

// Environment is a mapping from identifier to value plus a parent pointer.
type Environment struct {
	vars   map[string]values.Value
	parent *Environment
}

// New creates a root scope, normally seeded by the Builtins Registry.
func New() *Environment {
	return &Environment{vars: make(map[string]values.Value)}
}

// NewChild creates a new scope chained to parent. Only function-call
// evaluation should call this — block statements must reuse the enclosing
// scope (spec §4.1).
func (e *Environment) NewChild() *Environment {
	return &Environment{vars: make(map[string]values.Value), parent: e}
}

// Get resolves an identifier by walking the scope chain outward. Reading
// `_` before anything has been evaluated yields Null rather than a name
// error (spec §4.1).
func (e *Environment) Get(name string) (values.Value, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if v, ok := scope.vars[name]; ok {
			return v, true
		}
	}
	if name == LastResultIdent {
		return values.Null{}, true
	}
	return nil, false
}

// Declare binds name in the current scope, shadowing any outer binding.
// Used by function parameter binding and declaration statements.
func (e *Environment) Declare(name string, v values.Value) {
	e.vars[name] = v
}

// Assign implements the write policy of spec §4.1: update the nearest
// enclosing scope that already binds the identifier; otherwise create a new
// binding in the current scope.
func (e *Environment) Assign(name string, v values.Value) {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.vars[name]; ok {
			scope.vars[name] = v
			return
		}
	}
	e.vars[name] = v
}

// SetLastResult updates `_` in the root scope, so it is visible from every
// nested scope regardless of where the top-level expression was evaluated.
func (e *Environment) SetLastResult(v values.Value) {
	root := e
	for root.parent != nil {
		root = root.parent
	}
	root.vars[LastResultIdent] = v
}

// Root walks to the outermost scope; builtins are seeded there.
func (e *Environment) Root() *Environment {
	root := e
	for root.parent != nil {
		root = root.parent
	}
	return root
}
