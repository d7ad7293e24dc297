// Package ast defines the Diamant abstract syntax tree. Each syntax
// kind from spec.md §3 is its own Go struct rather than a generic
// self-describing map, per the redesign spec.md §9 recommends: this
// turns the parser's construction and the annotator's dispatch into
// structural Go switches instead of string comparisons against a
// "syntax" field.
package ast

import "github.com/aledsdavies/diamant/value"

// Action tags a bound name's access, driving reference-count insertion
// in a later (unspecified) codegen pass.
type Action int

const (
	NoAction Action = iota
	Bind
	Discard
	Access
	First
	Last
	Only
)

func (a Action) String() string {
	switch a {
	case Bind:
		return "bind"
	case Discard:
		return "discard"
	case Access:
		return "access"
	case First:
		return "first"
	case Last:
		return "last"
	case Only:
		return "only"
	default:
		return "none"
	}
}

// Varset maps a name referenced or bound within a subtree to the action
// tag that Merge has combined for it so far (spec.md §4.3.4).
type Varset map[string]Action

// Merge folds other into v in place, applying the bind+access→access
// policy adopted for the "TODO: merge properly" note in spec.md §9.
func (v Varset) Merge(other Varset) {
	for name, act := range other {
		v[name] = mergeAction(v[name], act)
	}
}

func mergeAction(a, b Action) Action {
	if a == NoAction {
		return b
	}
	if b == NoAction {
		return a
	}
	if (a == Bind && b == Access) || (a == Access && b == Bind) {
		return Access
	}
	if a == b {
		return a
	}
	// Any other combination takes the later tag, b; in practice the
	// annotator only ever merges Bind/Access pairs before the
	// access-tagging passes run.
	return b
}

// Clone returns a shallow copy, so a child's varset can be merged
// upward without aliasing the child's own map.
func (v Varset) Clone() Varset {
	out := make(Varset, len(v))
	for k, a := range v {
		out[k] = a
	}
	return out
}

// Position is the 1-based source location of a node's first character.
type Position struct {
	Line   int
	Column int
}

// Node is implemented by every AST variant. Pos returns the node's
// source location; Varset returns the node's annotated varset (nil
// before the annotator runs).
type Node interface {
	Pos() Position
	varset() Varset
	setVarset(Varset)
}

// base is embedded by every concrete node type; it carries the fields
// common to all of them (spec.md §3: "every node carries syntax, line,
// column" plus, post-annotation, a varset).
type base struct {
	Line   int
	Column int
	VS     Varset
}

func (b base) Pos() Position   { return Position{b.Line, b.Column} }
func (b base) varset() Varset  { return b.VS }
func (b *base) setVarset(v Varset) { b.VS = v }

// SetVarset stores the annotator's computed varset on any node.
func SetVarset(n Node, v Varset) { n.setVarset(v) }

// VarsetOf returns a node's annotated varset, or nil if unannotated.
func VarsetOf(n Node) Varset { return n.varset() }

// --- concrete node kinds (spec.md §3) ---

type Lit struct {
	base
	Value value.Value
}

type Var struct {
	base
	Name   string
	Action Action
}

// Regex is valid only in pattern context (spec.md §3, §4.2).
type Regex struct {
	base
	Pattern string
}

type Array struct {
	base
	Elems []Node
}

type Entry struct {
	base
	Key   Node
	Value Node
}

type Dict struct {
	base
	Entries []*Entry
}

// DictUp is a dict-update expression: subj{entries}.
type DictUp struct {
	base
	Subj    Node
	Entries []*Entry
}

// Apply is a function call: func(args).
type Apply struct {
	base
	Func Node
	Args []Node
}

type Clause struct {
	base
	Pats []Node
	Body Node
}

type Case struct {
	base
	Subj    Node
	Clauses []*Clause
}

type If struct {
	base
	Cond Node
	Then Node
	Else Node
}

// FuncDef groups the clauses of one do-block-local function definition
// under a shared name and arity (spec.md §3, §4.2's LHS partitioning).
type FuncDef struct {
	base
	Name    string
	Arity   int
	Clauses []*Clause
	Env     Varset // closure environment, filled by the annotator
}

// DoKind distinguishes a plain do-block from the let-block form
// (spec.md §9 Open Question on `let ... in ...`).
type DoKind int

const (
	DoBlock DoKind = iota
	LetBlock
)

// Do is the top-level node of every block: a do/let layout construct
// whose body is partitioned into a sequence of expressions/bindings
// and a set of local function definitions (spec.md §4.2).
type Do struct {
	base
	Kind     DoKind
	Seq      []Node
	Defs     map[string]*FuncDef
	DefOrder []string // insertion order, for deterministic output
}

// BinOp enumerates the binary operator node kinds.
type BinOp int

const (
	OpAnd BinOp = iota
	OpOr
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq
	OpNe
	OpAdd
	OpSub
	OpConcat // ~
	OpAt     // @
	OpMul
	OpDiv
	OpIDiv // div
	OpMod  // mod
)

func (op BinOp) String() string {
	switch op {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "=<"
	case OpGe:
		return ">="
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpConcat:
		return "~"
	case OpAt:
		return "@"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpIDiv:
		return "div"
	case OpMod:
		return "mod"
	default:
		return "?"
	}
}

type Binary struct {
	base
	Op    BinOp
	Left  Node
	Right Node
}

type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
)

func (op UnOp) String() string {
	if op == OpNot {
		return "not"
	}
	return "-"
}

type Unary struct {
	base
	Op    UnOp
	Right Node
}

// Assign is the '=' node: legal only inside a do/let sequence or as a
// function definition's LHS (spec.md §3, §4.2).
type Assign struct {
	base
	Left  Node
	Right Node
}

// marker methods satisfy Node for every concrete kind via the embedded
// base; nothing further to implement, but an explicit list here keeps
// the set of node kinds visible in one place for a reader.
var (
	_ Node = (*Lit)(nil)
	_ Node = (*Var)(nil)
	_ Node = (*Regex)(nil)
	_ Node = (*Array)(nil)
	_ Node = (*Entry)(nil)
	_ Node = (*Dict)(nil)
	_ Node = (*DictUp)(nil)
	_ Node = (*Apply)(nil)
	_ Node = (*Clause)(nil)
	_ Node = (*Case)(nil)
	_ Node = (*If)(nil)
	_ Node = (*FuncDef)(nil)
	_ Node = (*Do)(nil)
	_ Node = (*Binary)(nil)
	_ Node = (*Unary)(nil)
	_ Node = (*Assign)(nil)
)
