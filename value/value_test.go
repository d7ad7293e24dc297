package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScalarConstructorsAndAccessors(t *testing.T) {
	if got := NewInt(42).Int(); got != 42 {
		t.Errorf("NewInt(42).Int() = %d, want 42", got)
	}
	if got := NewFloat(3.5).Float(); got != 3.5 {
		t.Errorf("NewFloat(3.5).Float() = %v, want 3.5", got)
	}
	if got := NewString("hi").String(); got != "hi" {
		t.Errorf("NewString(%q).String() = %q, want %q", "hi", got, "hi")
	}
	if got := NewBool(true).Bool(); !got {
		t.Errorf("NewBool(true).Bool() = %v, want true", got)
	}
	if !NewNull().IsNull() {
		t.Error("NewNull().IsNull() = false, want true")
	}
}

func TestSeqStringification(t *testing.T) {
	seq := NewSeq(NewInt(1), NewInt(2), NewString("x"))
	want := `[1, 2, x]`
	if got := seq.String(); got != want {
		t.Errorf("Seq.String() = %q, want %q", got, want)
	}
}

func TestDictOrderedIterationAndCanonicalKeys(t *testing.T) {
	d := NewDict()
	d.Set(NewString("b"), NewInt(2))
	d.Set(NewString("a"), NewInt(1))
	d.Set(NewString("c"), NewInt(3))

	var order []string
	for _, p := range d.Entries() {
		order = append(order, p.Key.String())
	}
	want := []string{"b", "a", "c"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("insertion order not preserved (-want +got):\n%s", diff)
	}

	got, ok := d.Get(NewString("a"))
	if !ok || got.Int() != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", got, ok)
	}
}

func TestDictSetOverwritesPreservingPosition(t *testing.T) {
	d := NewDict()
	d.Set(NewString("a"), NewInt(1))
	d.Set(NewString("b"), NewInt(2))
	d.Set(NewString("a"), NewInt(99))

	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	var order []string
	for _, p := range d.Entries() {
		order = append(order, p.Key.String())
	}
	if diff := cmp.Diff([]string{"a", "b"}, order); diff != "" {
		t.Errorf("overwrite should not move key's position (-want +got):\n%s", diff)
	}
}

func TestDictWithNestedMapKeysUsesCanonicalEncoding(t *testing.T) {
	inner := NewDict()
	inner.Set(NewString("x"), NewInt(1))

	outer := NewDict()
	key1 := NewMap(inner)
	outer.Set(key1, NewString("found"))

	inner2 := NewDict()
	inner2.Set(NewString("x"), NewInt(1))
	key2 := NewMap(inner2)

	got, ok := outer.Get(key2)
	if !ok {
		t.Fatal("expected a structurally-equal map key to hit the same entry")
	}
	if got.String() != "found" {
		t.Errorf("Get = %q, want %q", got.String(), "found")
	}
}

func TestDictDelete(t *testing.T) {
	d := NewDict()
	d.Set(NewString("a"), NewInt(1))
	if !d.Delete(NewString("a")) {
		t.Fatal("Delete(a) = false, want true")
	}
	if d.Contains(NewString("a")) {
		t.Error("Contains(a) = true after delete")
	}
	if d.Delete(NewString("a")) {
		t.Error("second Delete(a) = true, want false")
	}
}
