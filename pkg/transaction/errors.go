package transaction

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedKind is returned for system transaction kinds which are
	// recognized but can't be decoded or built.
	ErrUnsupportedKind = errors.New("unsupported transaction kind")
	// ErrMissingPayload is returned when encoding a value with an unset
	// variant payload.
	ErrMissingPayload = errors.New("variant payload is not set")
)

// DeserializationError wraps any failure to decode transaction bytes.
type DeserializationError struct {
	What string
	Err  error
}

// Error implements the error interface.
func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed to deserialize %s: %v", e.What, e.Err)
}

// Unwrap returns the underlying decoding error.
func (e *DeserializationError) Unwrap() error {
	return e.Err
}
