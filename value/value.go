// Package value implements the dynamically-typed immutable value used
// throughout the front-end: decoded literals carried by tokens, and the
// JSON-like substrate the spec treats as an external collaborator. It is
// a tagged union over null, boolean, integer, float, string, ordered
// sequence, and ordered mapping.
package value

import (
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind discriminates the variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Seq
	Map
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Seq:
		return "array"
	case Map:
		return "dict"
	default:
		return "unknown"
	}
}

// Value is an immutable, dynamically-typed datum. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int32
	f    float64
	s    string
	seq  []Value
	m    *Dict
}

// Pair is a single key/value occupant of a Dict, in insertion order.
type Pair struct {
	Key   Value
	Value Value
}

// Dict is an ordered mapping from Value keys to Value values. Keys are
// compared structurally (not by Go identity), which go-ordered-map's
// comparable-key constraint cannot express directly for a union type
// that may itself contain slices or maps — so Dict indexes entries by a
// canonical string encoding of the key while keeping the original Key
// and insertion order intact via the wrapped ordered map.
type Dict struct {
	om *orderedmap.OrderedMap[string, Pair]
}

// NewDict returns an empty ordered mapping.
func NewDict() *Dict {
	return &Dict{om: orderedmap.New[string, Pair]()}
}

func canonicalKey(v Value) string {
	switch v.kind {
	case Null:
		return "n:"
	case Bool:
		return fmt.Sprintf("b:%v", v.b)
	case Int:
		return fmt.Sprintf("i:%d", v.i)
	case Float:
		return fmt.Sprintf("f:%s", strconv.FormatFloat(v.f, 'g', -1, 64))
	case String:
		return "s:" + v.s
	case Seq:
		parts := make([]string, len(v.seq))
		for i, e := range v.seq {
			parts[i] = canonicalKey(e)
		}
		return "a:[" + strings.Join(parts, ",") + "]"
	case Map:
		var parts []string
		for p := v.m.om.Oldest(); p != nil; p = p.Next() {
			parts = append(parts, canonicalKey(p.Value.Key)+"="+canonicalKey(p.Value.Value))
		}
		return "d:{" + strings.Join(parts, ",") + "}"
	default:
		return "?"
	}
}

// Get returns the value bound to key and whether it was present.
func (d *Dict) Get(key Value) (Value, bool) {
	p, ok := d.om.Get(canonicalKey(key))
	if !ok {
		return Value{}, false
	}
	return p.Value, true
}

// Contains reports whether key is present.
func (d *Dict) Contains(key Value) bool {
	_, ok := d.om.Get(canonicalKey(key))
	return ok
}

// Set binds key to val, preserving the original insertion position if
// key was already present.
func (d *Dict) Set(key, val Value) {
	d.om.Set(canonicalKey(key), Pair{Key: key, Value: val})
}

// Delete removes key, reporting whether it had been present.
func (d *Dict) Delete(key Value) bool {
	_, ok := d.om.Delete(canonicalKey(key))
	return ok
}

// Len reports the number of entries.
func (d *Dict) Len() int {
	return d.om.Len()
}

// Entries returns the mapping's entries in insertion order.
func (d *Dict) Entries() []Pair {
	out := make([]Pair, 0, d.om.Len())
	for p := d.om.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}

// Constructors.

func NewNull() Value              { return Value{kind: Null} }
func NewBool(b bool) Value        { return Value{kind: Bool, b: b} }
func NewInt(i int32) Value        { return Value{kind: Int, i: i} }
func NewFloat(f float64) Value    { return Value{kind: Float, f: f} }
func NewString(s string) Value    { return Value{kind: String, s: s} }
func NewSeq(elems ...Value) Value { return Value{kind: Seq, seq: elems} }
func NewMap(d *Dict) Value {
	if d == nil {
		d = NewDict()
	}
	return Value{kind: Map, m: d}
}

// Accessors. Each panics if called against the wrong Kind; callers are
// expected to switch on Kind() first, the same discipline the lexer and
// annotator use when unwrapping decoded literals.

func (v Value) Kind() Kind  { return v.kind }
func (v Value) IsNull() bool { return v.kind == Null }

func (v Value) Bool() bool {
	if v.kind != Bool {
		panic("value: Bool() on non-bool Value")
	}
	return v.b
}

func (v Value) Int() int32 {
	if v.kind != Int {
		panic("value: Int() on non-int Value")
	}
	return v.i
}

func (v Value) Float() float64 {
	if v.kind != Float {
		panic("value: Float() on non-float Value")
	}
	return v.f
}

func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(v.b)
	case Int:
		return strconv.FormatInt(int64(v.i), 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case String:
		return v.s
	case Seq:
		parts := make([]string, len(v.seq))
		for i, e := range v.seq {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Map:
		var parts []string
		for _, p := range v.m.Entries() {
			parts = append(parts, p.Key.String()+": "+p.Value.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}

// Seq returns the ordered elements of an array Value. Len/Get/Set by
// index are plain slice operations against the returned (shared) slice;
// Set mutates in place since the front-end builds values once and reads
// them many times.
func (v Value) Seq() []Value {
	if v.kind != Seq {
		panic("value: Seq() on non-array Value")
	}
	return v.seq
}

// Map returns the underlying ordered mapping of a dict Value.
func (v Value) Map() *Dict {
	if v.kind != Map {
		panic("value: Map() on non-dict Value")
	}
	return v.m
}
