package typeref

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReference is returned when a string is not a valid type reference
	ErrInvalidReference = errors.New("invalid type reference")

	// ErrCompositeTooSmall is returned when a composite reference has fewer than two elements
	ErrCompositeTooSmall = errors.New("composite reference requires at least two distinct elements")
)

// InvalidReferenceError carries the raw string that failed to parse.
type InvalidReferenceError struct {
	Raw    string
	Reason string
	Err    error
}

func (e *InvalidReferenceError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %q", e.Err, e.Raw)
	}
	return fmt.Sprintf("%v: %q: %s", e.Err, e.Raw, e.Reason)
}

func (e *InvalidReferenceError) Unwrap() error {
	return e.Err
}

func invalid(raw, reason string) error {
	return &InvalidReferenceError{Raw: raw, Reason: reason, Err: ErrInvalidReference}
}
