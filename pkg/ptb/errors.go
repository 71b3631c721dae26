package ptb

import (
	"errors"
	"fmt"

	"github.com/suigo-dev/suigo/pkg/transaction"
)

// ErrAlreadyBuilt is returned by any mutating call after the transaction
// was built.
var ErrAlreadyBuilt = errors.New("transaction is already built")

// ValidationError is returned when the transaction can't be built.
type ValidationError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid transaction: %s: %v", e.Reason, e.Err)
	}
	return "invalid transaction: " + e.Reason
}

// Unwrap returns the underlying error if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DanglingReferenceError is returned for arguments referring to inputs or
// command results that don't exist (yet).
type DanglingReferenceError struct {
	// Command is the index of the referencing command.
	Command  int
	Argument transaction.Argument
	// Available is the number of inputs or preceding commands.
	Available int
}

// Error implements the error interface.
func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("command %d: %s refers past %d available values", e.Command, e.Argument, e.Available)
}

func invalid(reason string, err error) *ValidationError {
	return &ValidationError{Reason: reason, Err: err}
}
