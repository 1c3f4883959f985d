package listctl

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork matches every *NetworkError
	ErrNetwork = errors.New("network error")
	// ErrValidation matches every *ValidationError
	ErrValidation = errors.New("validation error")
	// ErrNotFound matches every *NotFoundError
	ErrNotFound = errors.New("not found")
	// ErrClosed is returned by a controller after Close
	ErrClosed = errors.New("list controller closed")
)

// NetworkError reports a rejected request or a non-2xx response
type NetworkError struct {
	Op      string
	Status  int
	Timeout bool
	Cause   error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("network error during %s: request timed out", e.Op)
	case e.Status != 0 && e.Cause != nil:
		return fmt.Sprintf("network error during %s: status %d: %v", e.Op, e.Status, e.Cause)
	case e.Status != 0:
		return fmt.Sprintf("network error during %s: status %d", e.Op, e.Status)
	case e.Cause != nil:
		return fmt.Sprintf("network error during %s: %v", e.Op, e.Cause)
	default:
		return fmt.Sprintf("network error during %s", e.Op)
	}
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// ValidationError reports rejected user input
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports an id absent from the current cache
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NewValidationError(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

func NewNetworkError(op string, status int, cause error) error {
	return &NetworkError{Op: op, Status: status, Cause: cause}
}
