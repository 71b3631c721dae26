package schema

import (
	"fmt"

	"github.com/suigo-dev/suigo/pkg/bcs"
)

// Field is a named struct member.
type Field struct {
	Name   string
	Schema Schema
}

// Struct is an ordered set of named fields encoded back to back.
type Struct struct {
	name   string
	fields []Field
	index  map[string]int
}

// FieldValue is a decoded struct member.
type FieldValue struct {
	Name  string
	Value Value
}

// StructValue is a struct value with fields in declaration order.
type StructValue struct {
	Fields []FieldValue
}

// Get returns the value of the named field.
func (v *StructValue) Get(name string) (Value, bool) {
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			return v.Fields[i].Value, true
		}
	}
	return nil, false
}

// NewStruct compiles a struct schema, field names must be unique.
func NewStruct(name string, fields ...Field) (*Struct, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	s := &Struct{
		name:   name,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	copy(s.fields, fields)
	for i, f := range fields {
		if f.Schema == nil {
			return nil, fmt.Errorf("struct %s: field %q has no schema", name, f.Name)
		}
		if _, ok := s.index[f.Name]; ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateField, name, f.Name)
		}
		s.index[f.Name] = i
	}
	return s, nil
}

// MustStruct is like NewStruct, but panics on error.
func MustStruct(name string, fields ...Field) *Struct {
	s, err := NewStruct(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name implements Schema.
func (s *Struct) Name() string { return s.name }

// Fields returns a copy of the field list.
func (s *Struct) Fields() []Field {
	res := make([]Field, len(s.fields))
	copy(res, s.fields)
	return res
}

// Field returns the named field.
func (s *Struct) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Encode implements Schema. It accepts *StructValue, StructValue and
// map[string]Value; fields are looked up by name and written in declaration
// order.
func (s *Struct) Encode(w *bcs.BinWriter, v Value) {
	if w.Err != nil {
		return
	}
	var get func(string) (Value, bool)
	switch sv := v.(type) {
	case *StructValue:
		if sv == nil {
			mismatch(w, s, v)
			return
		}
		get = sv.Get
	case StructValue:
		get = sv.Get
	case map[string]Value:
		get = func(name string) (Value, bool) {
			fv, ok := sv[name]
			return fv, ok
		}
	default:
		mismatch(w, s, v)
		return
	}
	for _, f := range s.fields {
		fv, ok := get(f.Name)
		if !ok {
			w.SetError(&MissingFieldError{Struct: s.name, Field: f.Name})
			return
		}
		f.Schema.Encode(w, fv)
		if w.Err != nil {
			return
		}
	}
}

// Decode implements Schema returning *StructValue.
func (s *Struct) Decode(r *bcs.BinReader) Value {
	res := &StructValue{Fields: make([]FieldValue, len(s.fields))}
	for i, f := range s.fields {
		res.Fields[i] = FieldValue{Name: f.Name, Value: f.Schema.Decode(r)}
		if r.Err != nil {
			return nil
		}
	}
	return res
}

// Variant is a named enum case. A nil Schema marks a unit variant.
type Variant struct {
	Name   string
	Schema Schema
}

// Enum is a tagged union, the tag is the ULEB128 declaration index.
type Enum struct {
	name     string
	variants []Variant
	index    map[string]int
}

// EnumValue is a selected enum variant with its payload (nil for unit
// variants).
type EnumValue struct {
	Variant string
	Payload Value
}

// NewEnum compiles an enum schema, variant names must be unique.
func NewEnum(name string, variants ...Variant) (*Enum, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	e := &Enum{
		name:     name,
		variants: make([]Variant, len(variants)),
		index:    make(map[string]int, len(variants)),
	}
	copy(e.variants, variants)
	for i, v := range variants {
		if _, ok := e.index[v.Name]; ok {
			return nil, fmt.Errorf("%w: %s::%s", ErrDuplicateVariant, name, v.Name)
		}
		e.index[v.Name] = i
	}
	return e, nil
}

// MustEnum is like NewEnum, but panics on error.
func MustEnum(name string, variants ...Variant) *Enum {
	e, err := NewEnum(name, variants...)
	if err != nil {
		panic(err)
	}
	return e
}

// Name implements Schema.
func (e *Enum) Name() string { return e.name }

// Variants returns a copy of the variant list.
func (e *Enum) Variants() []Variant {
	res := make([]Variant, len(e.variants))
	copy(res, e.variants)
	return res
}

// Index returns the tag of the named variant.
func (e *Enum) Index(name string) (int, bool) {
	i, ok := e.index[name]
	return i, ok
}

// Encode implements Schema. It accepts *EnumValue, EnumValue and a
// single-entry map[string]Value keyed by the variant name; a "$kind" key is
// ignored.
func (e *Enum) Encode(w *bcs.BinWriter, v Value) {
	if w.Err != nil {
		return
	}
	var ev EnumValue
	switch val := v.(type) {
	case *EnumValue:
		if val == nil {
			mismatch(w, e, v)
			return
		}
		ev = *val
	case EnumValue:
		ev = val
	case map[string]Value:
		var found bool
		for k, p := range val {
			if k == "$kind" {
				continue
			}
			if found {
				w.SetError(fmt.Errorf("enum %s: more than one variant in value", e.name))
				return
			}
			ev, found = EnumValue{Variant: k, Payload: p}, true
		}
		if !found {
			mismatch(w, e, v)
			return
		}
	default:
		mismatch(w, e, v)
		return
	}
	i, ok := e.index[ev.Variant]
	if !ok {
		w.SetError(&UnknownVariantNameError{Enum: e.name, Variant: ev.Variant})
		return
	}
	w.WriteULEB128(uint64(i))
	if s := e.variants[i].Schema; s != nil {
		s.Encode(w, ev.Payload)
	}
}

// Decode implements Schema returning *EnumValue. Unknown tags are an error.
func (e *Enum) Decode(r *bcs.BinReader) Value {
	i := r.ReadVariantIndex()
	if r.Err != nil {
		return nil
	}
	if uint64(i) >= uint64(len(e.variants)) {
		r.SetError(&UnknownVariantError{Enum: e.name, Index: i})
		return nil
	}
	res := &EnumValue{Variant: e.variants[i].Name}
	if s := e.variants[i].Schema; s != nil {
		res.Payload = s.Decode(r)
		if r.Err != nil {
			return nil
		}
	}
	return res
}
