package parser

import (
	"github.com/aledsdavies/diamant/ast"
	"github.com/aledsdavies/diamant/diag"
)

// validateDo runs the dual expr/pattern validation spec.md §4.2
// describes as a pass separate from parsing proper: the grammar itself
// accepts `=` and regex nodes anywhere an expression can appear, and
// this walk rejects the combinations that are only legal in one of the
// two contexts.
func validateDo(d *ast.Do) error {
	return validateExpr(d)
}

func errAt(n ast.Node, format string, args ...any) error {
	p := n.Pos()
	return diag.New(diag.Parse, p.Line, p.Column, format, args...)
}

// validateExpr rejects nodes that are only legal in pattern position:
// `=` and regex literals. A do/let-seq binding is checked by
// validateDoBody instead, and a function-definition LHS has already been
// rewritten into a clause by partition.
func validateExpr(n ast.Node) error {
	switch v := n.(type) {
	case *ast.Assign:
		return errAt(v, "'=' is not valid in expression context.")
	case *ast.Regex:
		return errAt(v, "A regex literal is only valid in pattern context.")
	case *ast.Lit, *ast.Var:
		return nil
	case *ast.Array:
		return validateEachExpr(v.Elems)
	case *ast.Entry:
		if err := validateExpr(v.Key); err != nil {
			return err
		}
		return validateExpr(v.Value)
	case *ast.Dict:
		return validateEntriesExpr(v.Entries)
	case *ast.DictUp:
		if err := validateExpr(v.Subj); err != nil {
			return err
		}
		return validateEntriesExpr(v.Entries)
	case *ast.Apply:
		if err := validateExpr(v.Func); err != nil {
			return err
		}
		return validateEachExpr(v.Args)
	case *ast.Clause:
		if err := validateEachPattern(v.Pats); err != nil {
			return err
		}
		return validateExpr(v.Body)
	case *ast.Case:
		if err := validateExpr(v.Subj); err != nil {
			return err
		}
		for _, cl := range v.Clauses {
			if err := validateExpr(cl); err != nil {
				return err
			}
		}
		return nil
	case *ast.If:
		if err := validateExpr(v.Cond); err != nil {
			return err
		}
		if err := validateExpr(v.Then); err != nil {
			return err
		}
		return validateExpr(v.Else)
	case *ast.Do:
		return validateDoBody(v)
	case *ast.Binary:
		if err := validateExpr(v.Left); err != nil {
			return err
		}
		return validateExpr(v.Right)
	case *ast.Unary:
		return validateExpr(v.Right)
	default:
		return errAt(n, "Internal: unhandled node kind in expression validation.")
	}
}

// validateDoBody validates a do/let block's own contents: each seq
// entry is either a plain expression or a binding (`=` with the left
// side treated as a pattern), and every function definition's clauses
// validate their patterns and bodies the same way a case clause does.
func validateDoBody(d *ast.Do) error {
	for _, entry := range d.Seq {
		if assign, ok := entry.(*ast.Assign); ok {
			if err := validatePattern(assign.Left); err != nil {
				return err
			}
			if err := validateExpr(assign.Right); err != nil {
				return err
			}
			continue
		}
		if err := validateExpr(entry); err != nil {
			return err
		}
	}
	for _, name := range d.DefOrder {
		fd := d.Defs[name]
		for _, cl := range fd.Clauses {
			if err := validateEachPattern(cl.Pats); err != nil {
				return err
			}
			if err := validateExpr(cl.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateEachExpr(nodes []ast.Node) error {
	for _, n := range nodes {
		if err := validateExpr(n); err != nil {
			return err
		}
	}
	return nil
}

func validateEntriesExpr(entries []*ast.Entry) error {
	for _, e := range entries {
		if err := validateExpr(e); err != nil {
			return err
		}
	}
	return nil
}

// validatePattern rejects nodes that only make sense as computation:
// do/let/case/if, function application, and every logical, relational
// or arithmetic operator except `~` (concat) and `@` (as-pattern).
func validatePattern(n ast.Node) error {
	switch v := n.(type) {
	case *ast.Lit, *ast.Var, *ast.Regex:
		return nil
	case *ast.Array:
		return validateEachPattern(v.Elems)
	case *ast.Entry:
		if err := validateExpr(v.Key); err != nil {
			return err
		}
		return validatePattern(v.Value)
	case *ast.Dict:
		return validateEntriesPattern(v.Entries)
	case *ast.DictUp:
		if err := validatePattern(v.Subj); err != nil {
			return err
		}
		return validateEntriesPattern(v.Entries)
	case *ast.Assign:
		// Nested match: `name = pattern`, binding name to the whole
		// value while destructuring it against the right side.
		if err := validatePattern(v.Left); err != nil {
			return err
		}
		return validatePattern(v.Right)
	case *ast.Binary:
		if v.Op != ast.OpConcat && v.Op != ast.OpAt {
			return errAt(v, "Operator '%s' is not valid in pattern context.", v.Op)
		}
		if err := validatePattern(v.Left); err != nil {
			return err
		}
		return validatePattern(v.Right)
	case *ast.Apply:
		return errAt(v, "A function call is not valid in pattern context.")
	case *ast.Case, *ast.If, *ast.Do:
		return errAt(n, "This expression form is not valid in pattern context.")
	case *ast.Unary:
		return errAt(v, "Unary '%s' is not valid in pattern context.", v.Op)
	default:
		return errAt(n, "Internal: unhandled node kind in pattern validation.")
	}
}

func validateEachPattern(nodes []ast.Node) error {
	for _, n := range nodes {
		if err := validatePattern(n); err != nil {
			return err
		}
	}
	return nil
}

func validateEntriesPattern(entries []*ast.Entry) error {
	for _, e := range entries {
		if err := validatePattern(e); err != nil {
			return err
		}
	}
	return nil
}
