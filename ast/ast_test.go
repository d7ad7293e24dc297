package ast

import (
	"testing"

	"github.com/aledsdavies/diamant/value"
	"github.com/google/go-cmp/cmp"
)

func TestVarsetMergeBindThenAccessBecomesAccess(t *testing.T) {
	v := Varset{"x": Bind}
	v.Merge(Varset{"x": Access})
	if v["x"] != Access {
		t.Errorf("Merge(Bind, Access) = %v, want Access", v["x"])
	}
}

func TestVarsetMergeAccessThenBindBecomesAccess(t *testing.T) {
	v := Varset{"x": Access}
	v.Merge(Varset{"x": Bind})
	if v["x"] != Access {
		t.Errorf("Merge(Access, Bind) = %v, want Access", v["x"])
	}
}

func TestVarsetMergeNoActionTakesOther(t *testing.T) {
	v := Varset{}
	v.Merge(Varset{"x": Bind})
	if v["x"] != Bind {
		t.Errorf("Merge(NoAction, Bind) = %v, want Bind", v["x"])
	}
}

func TestVarsetMergeSameActionIsIdempotent(t *testing.T) {
	v := Varset{"x": Access}
	v.Merge(Varset{"x": Access})
	if v["x"] != Access {
		t.Errorf("Merge(Access, Access) = %v, want Access", v["x"])
	}
}

func TestVarsetMergeLeavesOtherNamesUntouched(t *testing.T) {
	v := Varset{"x": Bind}
	v.Merge(Varset{"y": Access})
	want := Varset{"x": Bind, "y": Access}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("Merge result mismatch (-want +got):\n%s", diff)
	}
}

func TestVarsetCloneIsIndependentCopy(t *testing.T) {
	orig := Varset{"x": Bind}
	clone := orig.Clone()
	clone["x"] = Access
	clone["y"] = Bind

	if orig["x"] != Bind {
		t.Errorf("mutating clone affected original: orig[x] = %v", orig["x"])
	}
	if _, ok := orig["y"]; ok {
		t.Error("mutating clone added a key to the original")
	}
}

func TestBasePosReturnsConstructorCoordinates(t *testing.T) {
	n := NewVar(3, 7, "x")
	if got := n.Pos(); got != (Position{Line: 3, Column: 7}) {
		t.Errorf("Pos() = %+v, want {3 7}", got)
	}
}

func TestSetVarsetAndVarsetOfRoundTrip(t *testing.T) {
	n := NewVar(1, 1, "x")
	if got := VarsetOf(n); got != nil {
		t.Fatalf("VarsetOf(fresh node) = %v, want nil", got)
	}
	vs := Varset{"x": Access}
	SetVarset(n, vs)
	if diff := cmp.Diff(vs, VarsetOf(n)); diff != "" {
		t.Errorf("VarsetOf after SetVarset mismatch (-want +got):\n%s", diff)
	}
}

func TestActionStringCoversEveryVariant(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{NoAction, "none"},
		{Bind, "bind"},
		{Discard, "discard"},
		{Access, "access"},
		{First, "first"},
		{Last, "last"},
		{Only, "only"},
	}
	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("Action(%d).String() = %q, want %q", tt.a, got, tt.want)
		}
	}
}

func TestBinOpStringCoversEveryVariant(t *testing.T) {
	tests := []struct {
		op   BinOp
		want string
	}{
		{OpAnd, "and"}, {OpOr, "or"},
		{OpLt, "<"}, {OpGt, ">"}, {OpLe, "=<"}, {OpGe, ">="},
		{OpEq, "=="}, {OpNe, "!="},
		{OpAdd, "+"}, {OpSub, "-"}, {OpConcat, "~"}, {OpAt, "@"},
		{OpMul, "*"}, {OpDiv, "/"}, {OpIDiv, "div"}, {OpMod, "mod"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("BinOp(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestUnOpString(t *testing.T) {
	if got := OpNeg.String(); got != "-" {
		t.Errorf("OpNeg.String() = %q, want %q", got, "-")
	}
	if got := OpNot.String(); got != "not" {
		t.Errorf("OpNot.String() = %q, want %q", got, "not")
	}
}

func TestDoAddDefGroupsClausesByNameAndTracksOrder(t *testing.T) {
	d := NewDo(1, 1, DoBlock)

	clause1 := NewClause(2, 1, []Node{NewLit(2, 5, value.NewInt(0))}, NewLit(2, 10, value.NewInt(1)))
	clause2 := NewClause(3, 1, []Node{NewVar(3, 5, "n")}, NewVar(3, 10, "n"))
	d.AddDef(2, 1, "fact", 1, clause1)
	d.AddDef(3, 1, "fact", 1, clause2)
	d.AddDef(4, 1, "other", 0, NewClause(4, 1, nil, NewLit(4, 1, value.NewInt(0))))

	if diff := cmp.Diff([]string{"fact", "other"}, d.DefOrder); diff != "" {
		t.Errorf("DefOrder mismatch (-want +got):\n%s", diff)
	}

	fd, ok := d.Defs["fact"]
	if !ok {
		t.Fatal("Defs[fact] missing")
	}
	if fd.Arity != 1 {
		t.Errorf("fact arity = %d, want 1", fd.Arity)
	}
	if len(fd.Clauses) != 2 {
		t.Fatalf("fact has %d clauses, want 2", len(fd.Clauses))
	}
	if fd.Clauses[0] != clause1 || fd.Clauses[1] != clause2 {
		t.Error("clauses were not appended in call order")
	}
}

func TestDoAddDefPreservesFirstSeenPositionOnFuncDef(t *testing.T) {
	d := NewDo(1, 1, DoBlock)
	d.AddDef(5, 2, "f", 0, NewClause(5, 2, nil, NewLit(5, 2, value.NewInt(0))))
	d.AddDef(9, 9, "f", 0, NewClause(9, 9, nil, NewLit(9, 9, value.NewInt(1))))

	fd := d.Defs["f"]
	if fd.Pos() != (Position{Line: 5, Column: 2}) {
		t.Errorf("FuncDef.Pos() = %+v, want the position of its first clause", fd.Pos())
	}
}
