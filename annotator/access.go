package annotator

import "github.com/aledsdavies/diamant/ast"

// tagAllAccess runs the first/last-access tagging pass over every
// binding frame in the program: the do/let block's own sequence (one
// frame, since a name referenced across several seq entries shares a
// single first/last pair) and, separately, each function clause's
// pattern-and-body (one frame per clause, since its parameters are
// clause-local).
//
// Each frame gets two traversals: a reverse-priority walk that assigns
// Last to the first Access occurrence it meets per name (spec.md
// §4.3.3's node-kind traversal order), and a mirrored forward walk
// that assigns First the same way. A name whose first and only
// occurrence is hit by both walks becomes Only.
func tagAllAccess(top *ast.Do) {
	for _, d := range collectDos(top) {
		tagLast(d, map[string]bool{})
		tagFirst(d, map[string]bool{})
		for _, name := range d.DefOrder {
			for _, cl := range d.Defs[name].Clauses {
				tagLast(cl, map[string]bool{})
				tagFirst(cl, map[string]bool{})
			}
		}
	}
	applyClosureCaptureTags(top)
}

// applyClosureCaptureTags overrides whatever tagLast/tagFirst assigned
// to a captured-variable reference: a closure reads a captured name at
// call time, which may be long after that clause's own first/last
// access bookkeeping would otherwise suggest, so every reference to a
// name in a function's env is pinned to Last regardless of how many
// times (or where) the clause's own body reads it.
func applyClosureCaptureTags(top *ast.Do) {
	for _, d := range collectDos(top) {
		for _, name := range d.DefOrder {
			fd := d.Defs[name]
			if len(fd.Env) == 0 {
				continue
			}
			for _, cl := range fd.Clauses {
				markCaptured(cl.Body, fd.Env)
			}
		}
	}
}

// markCaptured walks n, setting the Action of every *ast.Var whose
// name is a key in env to Last. It does not descend into a nested
// Do's own function clauses: those get their own env and are handled
// by applyClosureCaptureTags's own iteration over that Do.
func markCaptured(n ast.Node, env ast.Varset) {
	switch v := n.(type) {
	case *ast.Var:
		if _, ok := env[v.Name]; ok {
			v.Action = ast.Last
		}
	case *ast.Array:
		for _, e := range v.Elems {
			markCaptured(e, env)
		}
	case *ast.Entry:
		markCaptured(v.Key, env)
		markCaptured(v.Value, env)
	case *ast.Dict:
		for _, e := range v.Entries {
			markCaptured(e, env)
		}
	case *ast.DictUp:
		markCaptured(v.Subj, env)
		for _, e := range v.Entries {
			markCaptured(e, env)
		}
	case *ast.Apply:
		markCaptured(v.Func, env)
		for _, a := range v.Args {
			markCaptured(a, env)
		}
	case *ast.Case:
		markCaptured(v.Subj, env)
		for _, cl := range v.Clauses {
			markCaptured(cl, env)
		}
	case *ast.Clause:
		for _, p := range v.Pats {
			markCaptured(p, env)
		}
		markCaptured(v.Body, env)
	case *ast.If:
		markCaptured(v.Cond, env)
		markCaptured(v.Then, env)
		markCaptured(v.Else, env)
	case *ast.Do:
		for _, e := range v.Seq {
			markCaptured(e, env)
		}
	case *ast.Binary:
		markCaptured(v.Left, env)
		markCaptured(v.Right, env)
	case *ast.Unary:
		markCaptured(v.Right, env)
	case *ast.Assign:
		markCaptured(v.Left, env)
		markCaptured(v.Right, env)
	}
}

// collectDos enumerates every *ast.Do node reachable from top,
// including ones nested inside function-clause bodies, so each gets
// its own tagging frame.
func collectDos(n ast.Node) []*ast.Do {
	var out []*ast.Do
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Do:
			out = append(out, v)
			for _, e := range v.Seq {
				walk(e)
			}
			for _, name := range v.DefOrder {
				for _, cl := range v.Defs[name].Clauses {
					walk(cl.Body)
				}
			}
		case *ast.Lit, *ast.Var, *ast.Regex:
		case *ast.Array:
			for _, e := range v.Elems {
				walk(e)
			}
		case *ast.Entry:
			walk(v.Key)
			walk(v.Value)
		case *ast.Dict:
			for _, e := range v.Entries {
				walk(e)
			}
		case *ast.DictUp:
			walk(v.Subj)
			for _, e := range v.Entries {
				walk(e)
			}
		case *ast.Apply:
			walk(v.Func)
			for _, a := range v.Args {
				walk(a)
			}
		case *ast.Clause:
			for _, p := range v.Pats {
				walk(p)
			}
			walk(v.Body)
		case *ast.Case:
			walk(v.Subj)
			for _, cl := range v.Clauses {
				walk(cl)
			}
		case *ast.If:
			walk(v.Cond)
			walk(v.Then)
			walk(v.Else)
		case *ast.Binary:
			walk(v.Left)
			walk(v.Right)
		case *ast.Unary:
			walk(v.Right)
		case *ast.Assign:
			walk(v.Left)
			walk(v.Right)
		}
	}
	walk(n)
	return out
}

// tagLast walks n in the reverse-priority order spec.md §4.3.3
// assigns each node kind, tagging the first Access-tagged Var it meets
// per name as Last. It never descends into a nested Do's Defs (those
// get their own frame) but does descend into a Do's Seq, so a name's
// last mention anywhere in that sequence — including inside nested
// if/case/do expressions within it — is found correctly.
func tagLast(n ast.Node, seen map[string]bool) {
	switch v := n.(type) {
	case *ast.Var:
		if v.Action == ast.Access && !seen[v.Name] {
			v.Action = ast.Last
			seen[v.Name] = true
		}
	case *ast.Array:
		for i := len(v.Elems) - 1; i >= 0; i-- {
			tagLast(v.Elems[i], seen)
		}
	case *ast.Entry:
		tagLast(v.Value, seen)
		tagLast(v.Key, seen)
	case *ast.Dict:
		for i := len(v.Entries) - 1; i >= 0; i-- {
			tagLast(v.Entries[i], seen)
		}
	case *ast.DictUp:
		for i := len(v.Entries) - 1; i >= 0; i-- {
			tagLast(v.Entries[i], seen)
		}
		tagLast(v.Subj, seen)
	case *ast.Apply:
		for i := len(v.Args) - 1; i >= 0; i-- {
			tagLast(v.Args[i], seen)
		}
		tagLast(v.Func, seen)
	case *ast.Clause:
		tagLast(v.Body, seen)
		for i := len(v.Pats) - 1; i >= 0; i-- {
			tagLast(v.Pats[i], seen)
		}
	case *ast.Case:
		for i := len(v.Clauses) - 1; i >= 0; i-- {
			tagLast(v.Clauses[i], seen)
		}
		tagLast(v.Subj, seen)
	case *ast.If:
		tagLast(v.Else, seen)
		tagLast(v.Then, seen)
		tagLast(v.Cond, seen)
	case *ast.Do:
		for i := len(v.Seq) - 1; i >= 0; i-- {
			tagLast(v.Seq[i], seen)
		}
	case *ast.Binary:
		tagLast(v.Right, seen)
		tagLast(v.Left, seen)
	case *ast.Unary:
		tagLast(v.Right, seen)
	case *ast.Assign:
		tagLast(v.Right, seen)
	}
}

// tagFirst mirrors tagLast in natural (forward) evaluation order,
// tagging the first Access/Last-tagged Var it meets per name. A node
// already tagged Last by the reverse pass becomes Only, since it is
// simultaneously the sole occurrence in both directions.
func tagFirst(n ast.Node, seen map[string]bool) {
	switch v := n.(type) {
	case *ast.Var:
		if (v.Action == ast.Access || v.Action == ast.Last) && !seen[v.Name] {
			if v.Action == ast.Last {
				v.Action = ast.Only
			} else {
				v.Action = ast.First
			}
			seen[v.Name] = true
		}
	case *ast.Array:
		for _, e := range v.Elems {
			tagFirst(e, seen)
		}
	case *ast.Entry:
		tagFirst(v.Key, seen)
		tagFirst(v.Value, seen)
	case *ast.Dict:
		for _, e := range v.Entries {
			tagFirst(e, seen)
		}
	case *ast.DictUp:
		tagFirst(v.Subj, seen)
		for _, e := range v.Entries {
			tagFirst(e, seen)
		}
	case *ast.Apply:
		tagFirst(v.Func, seen)
		for _, a := range v.Args {
			tagFirst(a, seen)
		}
	case *ast.Clause:
		for _, p := range v.Pats {
			tagFirst(p, seen)
		}
		tagFirst(v.Body, seen)
	case *ast.Case:
		tagFirst(v.Subj, seen)
		for _, cl := range v.Clauses {
			tagFirst(cl, seen)
		}
	case *ast.If:
		tagFirst(v.Cond, seen)
		tagFirst(v.Then, seen)
		tagFirst(v.Else, seen)
	case *ast.Do:
		for _, e := range v.Seq {
			tagFirst(e, seen)
		}
	case *ast.Binary:
		tagFirst(v.Left, seen)
		tagFirst(v.Right, seen)
	case *ast.Unary:
		tagFirst(v.Right, seen)
	case *ast.Assign:
		tagFirst(v.Right, seen)
	}
}
