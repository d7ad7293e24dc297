package ast

import "github.com/aledsdavies/diamant/value"

// Constructors for every node kind, grouped here the way the teacher's
// ast.Program/Var/Cmd helpers are: one short factory per kind, so the
// parser's call sites read as the grammar they implement rather than
// struct-literal noise.

func pos(line, col int) base { return base{Line: line, Column: col} }

func NewLit(line, col int, v value.Value) *Lit {
	return &Lit{base: pos(line, col), Value: v}
}

func NewVar(line, col int, name string) *Var {
	return &Var{base: pos(line, col), Name: name, Action: NoAction}
}

func NewRegex(line, col int, pattern string) *Regex {
	return &Regex{base: pos(line, col), Pattern: pattern}
}

func NewArray(line, col int, elems []Node) *Array {
	return &Array{base: pos(line, col), Elems: elems}
}

func NewEntry(line, col int, key, value Node) *Entry {
	return &Entry{base: pos(line, col), Key: key, Value: value}
}

func NewDict(line, col int, entries []*Entry) *Dict {
	return &Dict{base: pos(line, col), Entries: entries}
}

func NewDictUp(line, col int, subj Node, entries []*Entry) *DictUp {
	return &DictUp{base: pos(line, col), Subj: subj, Entries: entries}
}

func NewApply(line, col int, fn Node, args []Node) *Apply {
	return &Apply{base: pos(line, col), Func: fn, Args: args}
}

func NewClause(line, col int, pats []Node, body Node) *Clause {
	return &Clause{base: pos(line, col), Pats: pats, Body: body}
}

func NewCase(line, col int, subj Node, clauses []*Clause) *Case {
	return &Case{base: pos(line, col), Subj: subj, Clauses: clauses}
}

func NewIf(line, col int, cond, then, els Node) *If {
	return &If{base: pos(line, col), Cond: cond, Then: then, Else: els}
}

func NewFuncDef(line, col int, name string, arity int) *FuncDef {
	return &FuncDef{base: pos(line, col), Name: name, Arity: arity}
}

func NewDo(line, col int, kind DoKind) *Do {
	return &Do{base: pos(line, col), Kind: kind, Defs: map[string]*FuncDef{}}
}

// AddDef appends a clause to d.Defs[name], creating the FuncDef on
// first use and recording insertion order in DefOrder.
func (d *Do) AddDef(line, col int, name string, arity int, clause *Clause) *FuncDef {
	fd, ok := d.Defs[name]
	if !ok {
		fd = NewFuncDef(line, col, name, arity)
		d.Defs[name] = fd
		d.DefOrder = append(d.DefOrder, name)
	}
	fd.Clauses = append(fd.Clauses, clause)
	return fd
}

func NewBinary(line, col int, op BinOp, left, right Node) *Binary {
	return &Binary{base: pos(line, col), Op: op, Left: left, Right: right}
}

func NewUnary(line, col int, op UnOp, right Node) *Unary {
	return &Unary{base: pos(line, col), Op: op, Right: right}
}

func NewAssign(line, col int, left, right Node) *Assign {
	return &Assign{base: pos(line, col), Left: left, Right: right}
}
