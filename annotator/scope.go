// Package annotator implements the semantic pass spec.md §4.3
// describes: variable resolution against lexical scope, closure
// environment computation for local function definitions, and varset
// propagation with first/last-access tagging.
package annotator

import "github.com/aledsdavies/diamant/ast"

// scopeEntry is what a bound name denotes: an ordinary variable, or
// (isFunc) a function whose closure environment is captured in env —
// the free names its clauses read from whatever scope encloses its
// definition.
type scopeEntry struct {
	isFunc bool
	env    ast.Varset
}

// Scope is one lexical binding frame, chained to its parent the way
// a do-block or a function clause introduces a new frame of names
// visible to everything nested under it.
type Scope struct {
	bound  map[string]scopeEntry
	parent *Scope
	depth  int
}

// NewScope creates a root scope with no parent.
func NewScope() *Scope {
	return &Scope{bound: make(map[string]scopeEntry)}
}

// Enter returns a new child scope; resolution failures in the child
// fall through to s.
func (s *Scope) Enter() *Scope {
	return &Scope{bound: make(map[string]scopeEntry), parent: s, depth: s.depth + 1}
}

// Bind records name as an ordinary variable defined in this scope.
func (s *Scope) Bind(name string) {
	s.bound[name] = scopeEntry{}
}

// BindFunc records name as a function definition, with env holding the
// free names its clauses capture from whatever scope encloses it. It
// may be called twice for the same name: once with an empty env to
// pre-bind the name (so mutually recursive clauses can reference it
// before its own env is known), and again once the env is computed.
func (s *Scope) BindFunc(name string, env ast.Varset) {
	s.bound[name] = scopeEntry{isFunc: true, env: env}
}

// Resolve reports whether name is visible from s, walking up the
// parent chain.
func (s *Scope) Resolve(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Lookup returns the scope entry for name, walking up the parent
// chain, so a caller can tell an ordinary variable from a function
// name holding a captured environment.
func (s *Scope) Lookup(name string) (scopeEntry, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if e, ok := sc.bound[name]; ok {
			return e, true
		}
	}
	return scopeEntry{}, false
}

// LocalOnly reports whether name is bound in s itself, not an ancestor.
func (s *Scope) LocalOnly(name string) bool {
	_, ok := s.bound[name]
	return ok
}
