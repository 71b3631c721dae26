package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/suigo-dev/suigo/pkg/bcs"
)

type vectorSchema struct {
	name string
	elem Schema
}

// Vector returns a length-prefixed sequence of elem. Values are passed as
// any slice and decoded as []Value. Vector(U8) is the same as Bytes.
func Vector(elem Schema) Schema {
	if elem == U8 {
		return Bytes
	}
	return &vectorSchema{name: "vector<" + elem.Name() + ">", elem: elem}
}

func (s *vectorSchema) Name() string { return s.name }

// Elem returns the element schema.
func (s *vectorSchema) Elem() Schema { return s.elem }

func (s *vectorSchema) Encode(w *bcs.BinWriter, v Value) {
	if w.Err != nil {
		return
	}
	items, ok := toSlice(v)
	if !ok {
		mismatch(w, s, v)
		return
	}
	w.WriteLength(len(items))
	for _, item := range items {
		if w.Err != nil {
			return
		}
		s.elem.Encode(w, item)
	}
}

func (s *vectorSchema) Decode(r *bcs.BinReader) Value {
	res := bcs.ReadVector(r, s.elem.Decode)
	if r.Err != nil {
		return nil
	}
	if res == nil {
		res = []Value{}
	}
	return res
}

// OptionValue explicitly marks a present or absent optional value. It's only
// needed for nested options, plain nil encodes as None and any other value
// as Some.
type OptionValue struct {
	Value Value
	Set   bool
}

// Some returns an explicitly present optional value.
func Some(v Value) OptionValue { return OptionValue{Value: v, Set: true} }

// None returns an explicitly absent optional value.
func None() OptionValue { return OptionValue{} }

type optionSchema struct {
	name string
	elem Schema
}

// Option returns a schema for an optional elem. Decoded None is nil and Some
// is the bare inner value, unless the inner value is itself nil (a nested
// None or a unit), then it's Some(nil).
func Option(elem Schema) Schema {
	return &optionSchema{name: "Option<" + elem.Name() + ">", elem: elem}
}

func (s *optionSchema) Name() string { return s.name }

func (s *optionSchema) Encode(w *bcs.BinWriter, v Value) {
	if w.Err != nil {
		return
	}
	switch o := v.(type) {
	case nil:
		w.WriteU8(0)
		return
	case OptionValue:
		if !o.Set {
			w.WriteU8(0)
			return
		}
		v = o.Value
	case *OptionValue:
		if o == nil || !o.Set {
			w.WriteU8(0)
			return
		}
		v = o.Value
	}
	w.WriteU8(1)
	s.elem.Encode(w, v)
}

func (s *optionSchema) Decode(r *bcs.BinReader) Value {
	switch tag := r.ReadU8(); {
	case r.Err != nil:
		return nil
	case tag == 0:
		return nil
	case tag == 1:
		v := s.elem.Decode(r)
		if r.Err != nil {
			return nil
		}
		if v == nil {
			return Some(nil)
		}
		return v
	default:
		r.SetError(fmt.Errorf("%w: tag %d", bcs.ErrInvalidOption, tag))
		return nil
	}
}

type fixedArraySchema struct {
	name string
	elem Schema
	size int
}

// FixedArray returns a sequence of exactly n elements without a length
// prefix. It panics if n is negative or exceeds bcs.MaxSequenceLength.
func FixedArray(elem Schema, n int) Schema {
	s, err := NewFixedArray(elem, n)
	if err != nil {
		panic(err)
	}
	return s
}

// NewFixedArray is FixedArray for sizes coming from untrusted input, it
// returns an error instead of panicking when n is out of range.
func NewFixedArray(elem Schema, n int) (Schema, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	if elem == U8 {
		return &fixedBytesSchema{name: fmt.Sprintf("[u8; %d]", n), size: n}, nil
	}
	return &fixedArraySchema{name: fmt.Sprintf("[%s; %d]", elem.Name(), n), elem: elem, size: n}, nil
}

func checkSize(n int) error {
	if n < 0 || n > bcs.MaxSequenceLength {
		return fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	return nil
}

func (s *fixedArraySchema) Name() string { return s.name }

func (s *fixedArraySchema) Encode(w *bcs.BinWriter, v Value) {
	if w.Err != nil {
		return
	}
	items, ok := toSlice(v)
	if !ok {
		mismatch(w, s, v)
		return
	}
	bcs.WriteFixedArray(w, items, s.size, s.elem.Encode)
}

func (s *fixedArraySchema) Decode(r *bcs.BinReader) Value {
	res := bcs.ReadFixedArray(r, s.size, s.elem.Decode)
	if r.Err != nil {
		return nil
	}
	return res
}

type fixedBytesSchema struct {
	name string
	size int
}

// FixedBytes returns a schema for exactly n raw bytes decoded as []byte.
// It panics if n is negative or exceeds bcs.MaxSequenceLength.
func FixedBytes(n int) Schema {
	if err := checkSize(n); err != nil {
		panic(err)
	}
	return &fixedBytesSchema{name: fmt.Sprintf("[u8; %d]", n), size: n}
}

func (s *fixedBytesSchema) Name() string { return s.name }

func (s *fixedBytesSchema) Encode(w *bcs.BinWriter, v Value) {
	if w.Err != nil {
		return
	}
	b, ok := v.([]byte)
	if !ok {
		items, isSlice := toSlice(v)
		if !isSlice {
			mismatch(w, s, v)
			return
		}
		b = make([]byte, len(items))
		for i := range items {
			n, ok := uintValue(w, U8, items[i], 8)
			if !ok {
				return
			}
			b[i] = byte(n.Uint64())
		}
	}
	w.WriteFixedBytes(b, s.size)
}

func (s *fixedBytesSchema) Decode(r *bcs.BinReader) Value {
	b := r.ReadFixedBytes(s.size)
	if r.Err != nil {
		return nil
	}
	return b
}

type tupleSchema struct {
	name  string
	elems []Schema
}

// Tuple returns a schema for a fixed heterogeneous sequence. Values are
// []Value of the same length.
func Tuple(elems ...Schema) Schema {
	names := make([]string, len(elems))
	for i := range elems {
		names[i] = elems[i].Name()
	}
	return &tupleSchema{name: "(" + strings.Join(names, ", ") + ")", elems: elems}
}

func (s *tupleSchema) Name() string { return s.name }

func (s *tupleSchema) Encode(w *bcs.BinWriter, v Value) {
	if w.Err != nil {
		return
	}
	items, ok := toSlice(v)
	if !ok {
		mismatch(w, s, v)
		return
	}
	if len(items) != len(s.elems) {
		w.SetError(&bcs.ArityError{Expected: len(s.elems), Actual: len(items)})
		return
	}
	for i := range s.elems {
		s.elems[i].Encode(w, items[i])
	}
}

func (s *tupleSchema) Decode(r *bcs.BinReader) Value {
	res := make([]Value, len(s.elems))
	for i := range s.elems {
		res[i] = s.elems[i].Decode(r)
		if r.Err != nil {
			return nil
		}
	}
	return res
}

// toSlice converts any slice or array to []Value.
func toSlice(v Value) ([]Value, bool) {
	switch items := v.(type) {
	case []Value:
		return items, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	res := make([]Value, rv.Len())
	for i := range res {
		res[i] = rv.Index(i).Interface()
	}
	return res, true
}
