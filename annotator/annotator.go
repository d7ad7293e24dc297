package annotator

import (
	"github.com/aledsdavies/diamant/ast"
	"github.com/aledsdavies/diamant/diag"
)

// Annotate runs the full semantic pass over a parsed program: variable
// resolution, varset propagation, closure environment computation for
// local function definitions, and first/last-access tagging. It
// returns the "bound but never accessed" warnings collected along the
// way; the first resolution failure aborts the pass entirely.
func Annotate(top *ast.Do) ([]diag.Warning, error) {
	root := NewScope()
	var warnings []diag.Warning
	c := &actx{warnings: &warnings}
	if _, err := annotateDo(top, root, c); err != nil {
		return nil, err
	}
	tagAllAccess(top)
	return warnings, nil
}

func errAt(n ast.Node, format string, args ...any) error {
	p := n.Pos()
	return diag.New(diag.Annotate, p.Line, p.Column, format, args...)
}

// actx threads the warnings sink and the permissive flag through the
// annotation walk. permissive is set only while computing a function
// definition's closure environment (annotateDo's step 2): per
// spec.md §4.3.1/§4.3.2, a function's free variables are collected
// syntactically at definition time, before the names they may refer to
// in an enclosing do's sequence are necessarily bound yet. Binding-order
// validation for those names is deferred to the point the function
// value is actually referenced, which runs with permissive cleared.
type actx struct {
	warnings   *[]diag.Warning
	permissive bool
}

func (c *actx) warn(w diag.Warning) {
	*c.warnings = append(*c.warnings, w)
}

// bindResult carries the varset contribution and the originating Var
// node of every name a pattern binds, so a caller can later flip an
// unused binder's Action to Discard and raise a warning.
type bindResult struct {
	vs      ast.Varset
	binders map[string]*ast.Var
	names   map[string]bool
}

func newBindResult() *bindResult {
	return &bindResult{vs: ast.Varset{}, binders: map[string]*ast.Var{}, names: map[string]bool{}}
}

// bindPattern walks a pattern, binding every variable it introduces
// into s and recording it in r. Sub-expressions that are resolved
// rather than bound (a dict pattern's keys) are annotated as ordinary
// expressions instead.
func bindPattern(pat ast.Node, s *Scope, r *bindResult, c *actx) error {
	switch v := pat.(type) {
	case *ast.Var:
		if e, ok := s.Lookup(v.Name); ok && e.isFunc {
			return errAt(v, "Pattern matching on functions not supported")
		}
		s.Bind(v.Name)
		v.Action = ast.Bind
		r.vs[v.Name] = ast.Bind
		r.binders[v.Name] = v
		r.names[v.Name] = true
		return nil
	case *ast.Lit:
		return nil
	case *ast.Regex:
		return nil
	case *ast.Array:
		for _, e := range v.Elems {
			if err := bindPattern(e, s, r, c); err != nil {
				return err
			}
		}
		return nil
	case *ast.Dict:
		for _, e := range v.Entries {
			if err := bindDictEntry(e, s, r, c); err != nil {
				return err
			}
		}
		return nil
	case *ast.DictUp:
		if err := bindPattern(v.Subj, s, r, c); err != nil {
			return err
		}
		for _, e := range v.Entries {
			if err := bindDictEntry(e, s, r, c); err != nil {
				return err
			}
		}
		return nil
	case *ast.Assign:
		// Nested match: `name = pattern` both binds and destructures.
		if err := bindPattern(v.Left, s, r, c); err != nil {
			return err
		}
		return bindPattern(v.Right, s, r, c)
	case *ast.Binary:
		// validate.go only lets `~` and `@` reach here.
		if err := bindPattern(v.Left, s, r, c); err != nil {
			return err
		}
		return bindPattern(v.Right, s, r, c)
	default:
		return errAt(pat, "Internal: unsupported pattern node during annotation.")
	}
}

func bindDictEntry(e *ast.Entry, s *Scope, r *bindResult, c *actx) error {
	keyVs, err := annotateExpr(e.Key, s, c)
	if err != nil {
		return err
	}
	r.vs.Merge(keyVs)
	return bindPattern(e.Value, s, r, c)
}

// annotateExpr resolves every variable reference under n against s,
// returning the varset of names it touches. It is never called on a
// top-level `=` node: those are handled specially by annotateDo and by
// function-clause processing.
func annotateExpr(n ast.Node, s *Scope, c *actx) (ast.Varset, error) {
	switch v := n.(type) {
	case *ast.Lit:
		ast.SetVarset(v, ast.Varset{})
		return ast.Varset{}, nil
	case *ast.Var:
		return annotateVar(v, s, c)
	case *ast.Regex:
		ast.SetVarset(v, ast.Varset{})
		return ast.Varset{}, nil
	case *ast.Array:
		vs := ast.Varset{}
		for _, e := range v.Elems {
			ev, err := annotateExpr(e, s, c)
			if err != nil {
				return nil, err
			}
			vs.Merge(ev)
		}
		ast.SetVarset(v, vs)
		return vs, nil
	case *ast.Dict:
		vs := ast.Varset{}
		for _, e := range v.Entries {
			ev, err := annotateEntry(e, s, c)
			if err != nil {
				return nil, err
			}
			vs.Merge(ev)
		}
		ast.SetVarset(v, vs)
		return vs, nil
	case *ast.DictUp:
		sv, err := annotateExpr(v.Subj, s, c)
		if err != nil {
			return nil, err
		}
		vs := sv.Clone()
		for _, e := range v.Entries {
			ev, err := annotateEntry(e, s, c)
			if err != nil {
				return nil, err
			}
			vs.Merge(ev)
		}
		ast.SetVarset(v, vs)
		return vs, nil
	case *ast.Apply:
		fv, err := annotateExpr(v.Func, s, c)
		if err != nil {
			return nil, err
		}
		vs := fv.Clone()
		for _, a := range v.Args {
			av, err := annotateExpr(a, s, c)
			if err != nil {
				return nil, err
			}
			vs.Merge(av)
		}
		ast.SetVarset(v, vs)
		return vs, nil
	case *ast.Case:
		return annotateCase(v, s, c)
	case *ast.If:
		cv, err := annotateExpr(v.Cond, s, c)
		if err != nil {
			return nil, err
		}
		tv, err := annotateExpr(v.Then, s, c)
		if err != nil {
			return nil, err
		}
		elv, err := annotateExpr(v.Else, s, c)
		if err != nil {
			return nil, err
		}
		vs := cv.Clone()
		vs.Merge(tv)
		vs.Merge(elv)
		ast.SetVarset(v, vs)
		return vs, nil
	case *ast.Do:
		return annotateNestedDo(v, s, c)
	case *ast.Binary:
		lv, err := annotateExpr(v.Left, s, c)
		if err != nil {
			return nil, err
		}
		rv, err := annotateExpr(v.Right, s, c)
		if err != nil {
			return nil, err
		}
		vs := lv.Clone()
		vs.Merge(rv)
		ast.SetVarset(v, vs)
		return vs, nil
	case *ast.Unary:
		rv, err := annotateExpr(v.Right, s, c)
		if err != nil {
			return nil, err
		}
		ast.SetVarset(v, rv)
		return rv, nil
	default:
		return nil, errAt(n, "Internal: unhandled node kind during annotation.")
	}
}

// annotateVar resolves a single variable reference. In permissive mode
// (used only while computing a function definition's own closure env)
// a name absent from every enclosing scope is not an error: it is
// simply recorded as a free variable of the clause being defined, and
// left to be validated later at an actual reference site. Outside
// permissive mode an absent name is always "Undefined variable".
//
// When the resolved name denotes a function (its scope entry carries a
// captured env), every name in that env must itself resolve in the
// current scope — this is what spec.md §4.3.2 calls "a closure may not
// be used before all of its captures are bound" — and each of those
// names is folded into this reference's own varset as an access.
func annotateVar(v *ast.Var, s *Scope, c *actx) (ast.Varset, error) {
	e, ok := s.Lookup(v.Name)
	if !ok {
		if c.permissive {
			v.Action = ast.Access
			vs := ast.Varset{v.Name: ast.Access}
			ast.SetVarset(v, vs)
			return vs, nil
		}
		return nil, errAt(v, "Undefined variable '%s'.", v.Name)
	}
	v.Action = ast.Access
	vs := ast.Varset{v.Name: ast.Access}
	if e.isFunc {
		for captured := range e.env {
			if !c.permissive && !s.Resolve(captured) {
				return nil, errAt(v, "function closure used before all captured names are bound")
			}
			vs[captured] = ast.Access
		}
	}
	ast.SetVarset(v, vs)
	return vs, nil
}

func annotateEntry(e *ast.Entry, s *Scope, c *actx) (ast.Varset, error) {
	kv, err := annotateExpr(e.Key, s, c)
	if err != nil {
		return nil, err
	}
	vv, err := annotateExpr(e.Value, s, c)
	if err != nil {
		return nil, err
	}
	vs := kv.Clone()
	vs.Merge(vv)
	ast.SetVarset(e, vs)
	return vs, nil
}

// annotateCase handles each clause in its own child scope, since its
// pattern binds names local to that clause alone, then subtracts those
// clause-local binds before merging the clause's contribution upward.
func annotateCase(cs *ast.Case, s *Scope, c *actx) (ast.Varset, error) {
	subjVs, err := annotateExpr(cs.Subj, s, c)
	if err != nil {
		return nil, err
	}
	vs := subjVs.Clone()
	for _, cl := range cs.Clauses {
		clScope := s.Enter()
		r := newBindResult()
		for _, pat := range cl.Pats {
			if err := bindPattern(pat, clScope, r, c); err != nil {
				return nil, err
			}
		}
		bodyVs, err := annotateExpr(cl.Body, clScope, c)
		if err != nil {
			return nil, err
		}
		clVs := r.vs.Clone()
		clVs.Merge(bodyVs)
		ast.SetVarset(cl, clVs)
		noteUnusedBinds(r, clVs, c)

		up := bodyVs.Clone()
		for name := range r.names {
			delete(up, name)
		}
		vs.Merge(up)
	}
	ast.SetVarset(cs, vs)
	return vs, nil
}

// annotateNestedDo annotates a do/let block that appears as a
// sub-expression, then strips its own locally bound names (seq
// bindings and local function names) before returning its contribution
// to the enclosing scope's varset.
func annotateNestedDo(d *ast.Do, parent *Scope, c *actx) (ast.Varset, error) {
	full, err := annotateDo(d, parent, c)
	if err != nil {
		return nil, err
	}
	up := full.Clone()
	for _, name := range d.DefOrder {
		delete(up, name)
	}
	for _, entry := range d.Seq {
		if assign, ok := entry.(*ast.Assign); ok {
			collectBoundNames(assign.Left, up)
		}
	}
	return up, nil
}

func collectBoundNames(pat ast.Node, out ast.Varset) {
	switch v := pat.(type) {
	case *ast.Var:
		delete(out, v.Name)
	case *ast.Array:
		for _, e := range v.Elems {
			collectBoundNames(e, out)
		}
	case *ast.Dict:
		for _, e := range v.Entries {
			collectBoundNames(e.Value, out)
		}
	case *ast.DictUp:
		collectBoundNames(v.Subj, out)
		for _, e := range v.Entries {
			collectBoundNames(e.Value, out)
		}
	case *ast.Assign:
		collectBoundNames(v.Left, out)
		collectBoundNames(v.Right, out)
	case *ast.Binary:
		collectBoundNames(v.Left, out)
		collectBoundNames(v.Right, out)
	}
}

// annotateDo is the shared implementation for both the top-level
// program and any nested do/let block, following spec.md §4.3.1's
// three-step order: (1) pre-bind every local function name with an
// empty, not-yet-known env, so clauses may reference each other and
// themselves out of order; (2) annotate each function definition's
// clauses to compute its real closure env and store it into the scope
// entry — this step runs permissively, since a clause may read a name
// this do's own seq only binds in step 3, below; (3) annotate seq
// entries left to right, binding as they go.
func annotateDo(d *ast.Do, parent *Scope, c *actx) (ast.Varset, error) {
	s := parent.Enter()
	for _, name := range d.DefOrder {
		s.BindFunc(name, ast.Varset{})
	}

	defC := &actx{warnings: c.warnings, permissive: true}
	vs := ast.Varset{}
	for _, name := range d.DefOrder {
		fd := d.Defs[name]
		fdVs := ast.Varset{}
		for _, cl := range fd.Clauses {
			clScope := s.Enter()
			r := newBindResult()
			for _, pat := range cl.Pats {
				if err := bindPattern(pat, clScope, r, defC); err != nil {
					return nil, err
				}
			}
			bodyVs, err := annotateExpr(cl.Body, clScope, defC)
			if err != nil {
				return nil, err
			}
			clVs := r.vs.Clone()
			clVs.Merge(bodyVs)
			ast.SetVarset(cl, clVs)
			noteUnusedBinds(r, clVs, defC)

			// Free variables captured from whatever scope encloses this
			// do: every name the body touches that isn't one of this
			// clause's own pattern binds. A captured name's value is
			// whatever it last held at the time the closure runs, so it
			// is recorded as Last rather than whatever access tag the
			// permissive body pass happened to leave on it.
			for name, action := range bodyVs {
				if r.names[name] {
					continue
				}
				if action == ast.Bind || action == ast.Discard {
					continue
				}
				fdVs[name] = ast.Last
			}
		}
		fd.Env = fdVs
		s.BindFunc(name, fdVs)
		// fdVs itself is tagged Last (see above) for inspection via
		// fd.Env; folded into the enclosing varset it is an ordinary
		// access, so a captured name's own binding is never mistaken
		// for unused just because nothing reads it directly.
		for captured := range fdVs {
			vs.Merge(ast.Varset{captured: ast.Access})
		}
	}

	for _, entry := range d.Seq {
		if assign, ok := entry.(*ast.Assign); ok {
			rhsVs, err := annotateExpr(assign.Right, s, c)
			if err != nil {
				return nil, err
			}
			r := newBindResult()
			if err := bindPattern(assign.Left, s, r, c); err != nil {
				return nil, err
			}
			assignVs := rhsVs.Clone()
			assignVs.Merge(r.vs)
			ast.SetVarset(assign, assignVs)
			vs.Merge(assignVs)
			continue
		}
		entryVs, err := annotateExpr(entry, s, c)
		if err != nil {
			return nil, err
		}
		vs.Merge(entryVs)
	}
	ast.SetVarset(d, vs)
	noteUnusedTopBinds(d, vs, c)
	return vs, nil
}

// noteUnusedBinds flips a clause-local binder's Action to Discard and
// records a warning when its bind never escalated to access within the
// clause's own varset. A name starting with '_' is a deliberate
// throwaway and is never flagged.
func noteUnusedBinds(r *bindResult, finalVs ast.Varset, c *actx) {
	for name, node := range r.binders {
		if len(name) > 0 && name[0] == '_' {
			continue
		}
		if finalVs[name] == ast.Bind {
			node.Action = ast.Discard
			c.warn(diag.Warning{
				Message: "variable '" + name + "' is bound but never accessed",
				Line:    node.Line,
				Column:  node.Column,
			})
		}
	}
}

// noteUnusedTopBinds does the same for a do/let block's own seq
// bindings whose left side is a bare name (function names are never
// flagged: a locally defined helper that is never called is a design
// choice, not a binding mistake). Names bound inside a destructuring
// pattern on a seq binding's left side are not checked.
func noteUnusedTopBinds(d *ast.Do, finalVs ast.Varset, c *actx) {
	for _, entry := range d.Seq {
		assign, ok := entry.(*ast.Assign)
		if !ok {
			continue
		}
		v, ok := assign.Left.(*ast.Var)
		if !ok {
			continue
		}
		if len(v.Name) > 0 && v.Name[0] == '_' {
			continue
		}
		if finalVs[v.Name] == ast.Bind {
			v.Action = ast.Discard
			c.warn(diag.Warning{
				Message: "variable '" + v.Name + "' is bound but never accessed",
				Line:    v.Line,
				Column:  v.Column,
			})
		}
	}
}
