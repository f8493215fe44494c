// Package value implements the JYAML typed value tree: the tagged sum of
// Null, Bool, Number (Int or Float), String, Array, and Object that the
// parser produces and the converter projects into host-native data.
package value

import "fmt"

// Kind identifies which of the six JYAML value shapes a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is implemented by every JYAML value variant.
type Value interface {
	Kind() Kind
	Accept(Visitor) error
}

// Visitor is implemented by code that walks a Value tree without type
// switches (the teacher's node.Visitor pattern, narrowed to JYAML's six
// variants).
type Visitor interface {
	VisitNull(*Null) error
	VisitBool(*Bool) error
	VisitInt(*Int) error
	VisitFloat(*Float) error
	VisitString(*String) error
	VisitArray(*Array) error
	VisitObject(*Object) error
}

// Null is the JYAML null value.
type Null struct{}

func (*Null) Kind() Kind               { return KindNull }
func (n *Null) Accept(v Visitor) error { return v.VisitNull(n) }

// Bool is a JYAML boolean value.
type Bool struct{ Value bool }

func (*Bool) Kind() Kind               { return KindBool }
func (n *Bool) Accept(v Visitor) error { return v.VisitBool(n) }

// Int is a JYAML integer number value.
type Int struct{ Value int64 }

func (*Int) Kind() Kind               { return KindInt }
func (n *Int) Accept(v Visitor) error { return v.VisitInt(n) }

// Float is a JYAML floating-point number value.
type Float struct{ Value float64 }

func (*Float) Kind() Kind               { return KindFloat }
func (n *Float) Accept(v Visitor) error { return v.VisitFloat(n) }

// String is a JYAML string value, already decoded (no residual escapes).
type String struct{ Value string }

func (*String) Kind() Kind               { return KindString }
func (n *String) Accept(v Visitor) error { return v.VisitString(n) }

// Array is an ordered sequence of Values.
type Array struct{ Items []Value }

func (*Array) Kind() Kind               { return KindArray }
func (n *Array) Accept(v Visitor) error { return v.VisitArray(n) }

// Pair is a single key/value entry of an Object, in source order.
type Pair struct {
	Key   string
	Value Value
}

// Object is an insertion-ordered string-keyed map, matching spec.md §3:
// "Object preserves first-insertion order." Implemented as an ordered
// slice of Pairs plus an index map for O(1) lookup — the same idiom the
// teacher uses for its MappingNode.Pairs, rather than a generic
// ordered-map library (none appears anywhere in the reference pack).
type Object struct {
	Pairs []Pair
	index map[string]int
}

func (*Object) Kind() Kind               { return KindObject }
func (n *Object) Accept(v Visitor) error { return v.VisitObject(n) }

// NewObject returns an empty Object ready for Set.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	if o.index == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.Pairs[i].Value, true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set appends key/val, or replaces the value in place if key already
// exists — keeping the key's first-insertion position, matching spec.md
// §4.2's permissive-mode duplicate-key rule: "the later value replaces
// the earlier, and the key retains its first insertion position."
func (o *Object) Set(key string, val Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.Pairs[i].Value = val
		return
	}
	o.index[key] = len(o.Pairs)
	o.Pairs = append(o.Pairs, Pair{Key: key, Value: val})
}

// Len returns the number of pairs.
func (o *Object) Len() int { return len(o.Pairs) }

// Keys returns the keys in first-insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.Pairs))
	for i, p := range o.Pairs {
		keys[i] = p.Key
	}
	return keys
}

// Builder constructs Value nodes, mirroring the teacher's node.Builder
// pattern.
type Builder interface {
	BuildNull() *Null
	BuildBool(b bool) *Bool
	BuildInt(i int64) *Int
	BuildFloat(f float64) *Float
	BuildString(s string) *String
	BuildArray(items []Value) *Array
	BuildObject(pairs []Pair) *Object
}

// DefaultBuilder is the zero-configuration Builder implementation used by
// the parser.
type DefaultBuilder struct{}

func (DefaultBuilder) BuildNull() *Null         { return &Null{} }
func (DefaultBuilder) BuildBool(b bool) *Bool   { return &Bool{Value: b} }
func (DefaultBuilder) BuildInt(i int64) *Int    { return &Int{Value: i} }
func (DefaultBuilder) BuildFloat(f float64) *Float { return &Float{Value: f} }
func (DefaultBuilder) BuildString(s string) *String { return &String{Value: s} }
func (DefaultBuilder) BuildArray(items []Value) *Array {
	return &Array{Items: items}
}
func (DefaultBuilder) BuildObject(pairs []Pair) *Object {
	o := NewObject()
	for _, p := range pairs {
		o.Set(p.Key, p.Value)
	}
	return o
}

// Equal reports whether a and b are structurally equivalent under
// spec.md §8's equality definition: same variant; numbers compared
// structurally; arrays element-wise; objects as ordered pair lists (key
// order matters).
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Null:
		return true
	case *Bool:
		return av.Value == b.(*Bool).Value
	case *Int:
		return av.Value == b.(*Int).Value
	case *Float:
		bv := b.(*Float)
		return av.Value == bv.Value
	case *String:
		return av.Value == b.(*String).Value
	case *Array:
		bv := b.(*Array)
		if len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv := b.(*Object)
		if len(av.Pairs) != len(bv.Pairs) {
			return false
		}
		for i := range av.Pairs {
			if av.Pairs[i].Key != bv.Pairs[i].Key {
				return false
			}
			if !Equal(av.Pairs[i].Value, bv.Pairs[i].Value) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("value: unknown variant %T", a))
	}
}
