package bcs

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnexpectedEnd is returned when the input is shorter than the layout
	// being decoded demands.
	ErrUnexpectedEnd = fmt.Errorf("unexpected end of input: %w", io.ErrUnexpectedEOF)
	// ErrInvalidBool is returned when a boolean byte is neither 0 nor 1.
	ErrInvalidBool = errors.New("invalid bool value")
	// ErrInvalidUTF8 is returned for string payloads that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 string")
	// ErrNonCanonicalULEB128 is returned when a ULEB128 value has redundant
	// trailing zero groups.
	ErrNonCanonicalULEB128 = errors.New("non-canonical ULEB128 encoding")
	// ErrULEB128Overflow is returned when a ULEB128 value does not fit into
	// the integer it is decoded into.
	ErrULEB128Overflow = errors.New("ULEB128 value overflow")
	// ErrInvalidOption is returned for an option tag other than 0 or 1 and
	// for option vectors longer than one element.
	ErrInvalidOption = errors.New("invalid option")
	// ErrNilValue is returned when a nil big integer is encoded.
	ErrNilValue = errors.New("nil value")
	// ErrTooDeep is returned when values nest deeper than MaxDepth.
	ErrTooDeep = errors.New("nesting is too deep")

	errDrained = errors.New("buffer already drained")
)

// RangeError is returned when a value can't be represented by the integer
// type it is encoded as. Values are never truncated.
type RangeError struct {
	Type  string
	Value string
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("value %s is out of range for %s", e.Value, e.Type)
}

// ArityError is returned when a fixed-size array is given the wrong number
// of elements.
type ArityError struct {
	Expected int
	Actual   int
}

// Error implements the error interface.
func (e *ArityError) Error() string {
	return fmt.Sprintf("fixed array arity mismatch: expected %d elements, got %d", e.Expected, e.Actual)
}

// LengthError is returned when a length prefix exceeds the allowed maximum.
type LengthError struct {
	Length uint64
	Max    uint64
}

// Error implements the error interface.
func (e *LengthError) Error() string {
	return fmt.Sprintf("sequence is too long (%d > %d)", e.Length, e.Max)
}

// TrailingBytesError is returned when input remains after a complete value
// has been decoded.
type TrailingBytesError struct {
	Remaining int
}

// Error implements the error interface.
func (e *TrailingBytesError) Error() string {
	return fmt.Sprintf("%d trailing bytes after decoding", e.Remaining)
}
