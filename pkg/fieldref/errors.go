package fieldref

import (
	"errors"
	"fmt"
)

// ErrInvalidFieldRef is returned when a string is not a valid field reference
var ErrInvalidFieldRef = errors.New("invalid field reference")

// InvalidFieldRefError carries the raw string that failed to parse
type InvalidFieldRefError struct {
	Raw    string
	Reason string
	Err    error
}

func (e *InvalidFieldRefError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrInvalidFieldRef, e.Raw, e.Reason)
}

func (e *InvalidFieldRefError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidFieldRef}
	}
	return []error{ErrInvalidFieldRef, e.Err}
}
