package jsonvalue

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	jsoniter "github.com/json-iterator/go"
)

var ErrTrailingData = errors.New("trailing data after JSON value")

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// ReadNumber consumes any run of number characters; this is the RFC 8259 grammar.
var numberLiteral = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?$`)

// Parse decodes one JSON document, keeping object members in document order.
func Parse(data []byte) (Value, error) {
	iter := codec.BorrowIterator(data)
	defer codec.ReturnIterator(iter)

	v := readValue(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return Value{}, fmt.Errorf("decode json: %w", iter.Error)
	}

	if next := iter.WhatIsNext(); next != jsoniter.InvalidValue || iter.Error != io.EOF {
		if iter.Error != nil && iter.Error != io.EOF {
			return Value{}, fmt.Errorf("decode json: %w", iter.Error)
		}
		return Value{}, ErrTrailingData
	}

	return v, nil
}

func readValue(iter *jsoniter.Iterator) Value {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return Null()
	case jsoniter.BoolValue:
		return Bool(iter.ReadBool())
	case jsoniter.NumberValue:
		literal := string(iter.ReadNumber())
		if !numberLiteral.MatchString(literal) {
			iter.ReportError("readValue", fmt.Sprintf("invalid number literal %q", literal))
			return Null()
		}
		return Number(literal)
	case jsoniter.StringValue:
		return String(iter.ReadString())
	case jsoniter.ArrayValue:
		items := make([]Value, 0, 4)
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			items = append(items, readValue(it))
			return healthy(it)
		})
		return Array(items...)
	case jsoniter.ObjectValue:
		members := make([]Member, 0, 8)
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			members = append(members, Member{Key: key, Value: readValue(it)})
			return healthy(it)
		})
		return ObjectOf(members...)
	default:
		// ReportError replaces a bare io.EOF, so empty input surfaces as an error.
		iter.ReportError("readValue", "expect JSON value")
		return Null()
	}
}

// healthy reports whether decoding may continue. A bare io.EOF is left for the
// enclosing container to turn into a "missing close bracket" error.
func healthy(iter *jsoniter.Iterator) bool {
	return iter.Error == nil || iter.Error == io.EOF
}

// MarshalJSON encodes v with object members in their stored order.
func (v Value) MarshalJSON() ([]byte, error) {
	stream := codec.BorrowStream(nil)
	defer codec.ReturnStream(stream)

	writeValue(stream, v)
	if stream.Error != nil {
		return nil, stream.Error
	}

	buf := stream.Buffer()
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

func (o Object) MarshalJSON() ([]byte, error) {
	return o.Value().MarshalJSON()
}

func writeValue(stream *jsoniter.Stream, v Value) {
	switch v.kind {
	case KindNull:
		stream.WriteNil()
	case KindBool:
		stream.WriteBool(v.b)
	case KindNumber:
		stream.WriteRaw(v.s)
	case KindString:
		stream.WriteString(v.s)
	case KindArray:
		stream.WriteArrayStart()
		for i, item := range v.arr {
			if i > 0 {
				stream.WriteMore()
			}
			writeValue(stream, item)
		}
		stream.WriteArrayEnd()
	case KindObject:
		stream.WriteObjectStart()
		for i, m := range v.obj.members {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(m.Key)
			writeValue(stream, m.Value)
		}
		stream.WriteObjectEnd()
	}
}
