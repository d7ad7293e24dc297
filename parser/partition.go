package parser

import (
	"github.com/aledsdavies/diamant/ast"
	"github.com/aledsdavies/diamant/diag"
)

// partition implements spec.md §4.2's post-parse do-block partitioning:
// every top-level entry that is an `=` node whose left side is a call
// on a bare identifier is a function-clause definition and is rewritten
// into a *ast.Clause registered under that name; everything else (plain
// expressions and plain variable bindings) stays in the block's seq in
// source order.
func partition(d *ast.Do, entries []ast.Node) error {
	for _, e := range entries {
		assign, ok := e.(*ast.Assign)
		if !ok {
			d.Seq = append(d.Seq, e)
			continue
		}
		apply, ok := assign.Left.(*ast.Apply)
		if !ok {
			d.Seq = append(d.Seq, assign)
			continue
		}
		name, ok := apply.Func.(*ast.Var)
		if !ok {
			pos := apply.Pos()
			return diag.New(diag.Parse, pos.Line, pos.Column,
				"Malformed function-definition LHS: the function position must be a bare name.")
		}

		arity := len(apply.Args)
		if existing, ok := d.Defs[name.Name]; ok && existing.Arity != arity {
			pos := apply.Pos()
			return diag.New(diag.Parse, pos.Line, pos.Column,
				"Clause for '%s' has arity %d; previous clause has arity %d.",
				name.Name, arity, existing.Arity)
		}

		clausePos := assign.Pos()
		clause := ast.NewClause(clausePos.Line, clausePos.Column, apply.Args, assign.Right)
		d.AddDef(name.Pos().Line, name.Pos().Column, name.Name, arity, clause)
	}
	return nil
}
