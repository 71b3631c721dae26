package schema

import (
	"errors"
	"fmt"

	"github.com/suigo-dev/suigo/pkg/bcs"
)

// Value is a dynamically typed BCS value.
type Value = any

// Schema is an immutable description of a binary layout. Encode and Decode
// report failures through the writer and reader errors.
type Schema interface {
	Name() string
	Encode(w *bcs.BinWriter, v Value)
	Decode(r *bcs.BinReader) Value
}

var (
	// ErrDuplicateField is returned when a struct declares a field twice.
	ErrDuplicateField = errors.New("duplicate struct field")
	// ErrDuplicateVariant is returned when an enum declares a variant twice.
	ErrDuplicateVariant = errors.New("duplicate enum variant")
	// ErrDuplicateSchema is returned when a name is registered twice.
	ErrDuplicateSchema = errors.New("schema is already registered")
	// ErrUnknownSchema is returned for names missing from a registry.
	ErrUnknownSchema = errors.New("unknown schema")
	// ErrEmptyName is returned when a named schema has no name.
	ErrEmptyName = errors.New("empty schema name")
	// ErrInvalidSize is returned for fixed array sizes that are negative or
	// exceed bcs.MaxSequenceLength.
	ErrInvalidSize = errors.New("invalid fixed array size")
)

// UnknownVariantError is returned when a decoded enum tag is not declared.
type UnknownVariantError struct {
	Enum  string
	Index uint32
}

// Error implements the error interface.
func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant index %d for enum %s", e.Index, e.Enum)
}

// UnknownVariantNameError is returned when encoding an enum value whose
// variant is not declared.
type UnknownVariantNameError struct {
	Enum    string
	Variant string
}

// Error implements the error interface.
func (e *UnknownVariantNameError) Error() string {
	return fmt.Sprintf("unknown variant %q for enum %s", e.Variant, e.Enum)
}

// TypeArityError is returned when a parametric schema is given the wrong
// number of type parameters.
type TypeArityError struct {
	Schema   string
	Expected int
	Actual   int
}

// Error implements the error interface.
func (e *TypeArityError) Error() string {
	return fmt.Sprintf("%s expects %d type parameters, got %d", e.Schema, e.Expected, e.Actual)
}

// TypeMismatchError is returned when a value can't be encoded by a schema.
type TypeMismatchError struct {
	Schema string
	Value  Value
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("can't encode %T as %s", e.Value, e.Schema)
}

// MissingFieldError is returned when a struct value lacks a declared field.
type MissingFieldError struct {
	Struct string
	Field  string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("struct %s: missing field %q", e.Struct, e.Field)
}

// Encode serializes v with s.
func Encode(s Schema, v Value) ([]byte, error) {
	w := bcs.NewBufBinWriter()
	s.Encode(w.BinWriter, v)
	if w.Err != nil {
		return nil, fmt.Errorf("encode %s: %w", s.Name(), w.Err)
	}
	return w.Bytes(), nil
}

// Decode deserializes data with s. The whole input must be consumed; nothing
// is returned on failure.
func Decode(s Schema, data []byte) (Value, error) {
	r := bcs.NewBinReaderFromBuf(data)
	v := s.Decode(r)
	if err := r.Finish(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Name(), err)
	}
	return v, nil
}

func mismatch(w *bcs.BinWriter, s Schema, v Value) {
	w.SetError(&TypeMismatchError{Schema: s.Name(), Value: v})
}
