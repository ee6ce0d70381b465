// Package jsonvalue represents arbitrary JSON documents as an explicit sum type.
//
// Objects keep their members in document order so that traversals are
// deterministic and match the order in which a reader sees the document.
package jsonvalue

import "strconv"

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
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
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one JSON node. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	// s holds string contents, or the literal text of a number.
	s   string
	arr []Value
	obj Object
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered list of members. Duplicate keys are preserved.
type Object struct {
	members []Member
}

func Null() Value { return Value{} }

func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

func String(v string) Value { return Value{kind: KindString, s: v} }

// Number builds a number node from its literal text, e.g. "12" or "1.5e3".
func Number(literal string) Value { return Value{kind: KindNumber, s: literal} }

func Int(v int64) Value { return Number(strconv.FormatInt(v, 10)) }

func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

func ObjectOf(members ...Member) Value {
	return Value{kind: KindObject, obj: Object{members: members}}
}

// M is shorthand for building a Member.
func M(key string, value Value) Member { return Member{Key: key, Value: value} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsNumber returns the literal text of a number node.
func (v Value) AsNumber() (string, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.s, true
}

// AsArray returns the elements of an array node. The slice must not be modified.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) AsObject() (Object, bool) {
	if v.kind != KindObject {
		return Object{}, false
	}
	return v.obj, true
}

// Get looks up key when v is an object.
func (v Value) Get(key string) (Value, bool) {
	obj, ok := v.AsObject()
	if !ok {
		return Value{}, false
	}
	return obj.Get(key)
}

func (o Object) Len() int { return len(o.members) }

// Members returns the members in document order. The slice must not be modified.
func (o Object) Members() []Member { return o.members }

// Get returns the value of the last member named key, mirroring how most
// decoders resolve duplicate keys.
func (o Object) Get(key string) (Value, bool) {
	for i := len(o.members) - 1; i >= 0; i-- {
		if o.members[i].Key == key {
			return o.members[i].Value, true
		}
	}
	return Value{}, false
}

func (o Object) Has(key string) bool {
	for _, m := range o.members {
		if m.Key == key {
			return true
		}
	}
	return false
}

// HasAny reports whether at least one of keys is present.
func (o Object) HasAny(keys ...string) bool {
	for _, key := range keys {
		if o.Has(key) {
			return true
		}
	}
	return false
}

// Value wraps o back into a Value.
func (o Object) Value() Value { return Value{kind: KindObject, obj: o} }
