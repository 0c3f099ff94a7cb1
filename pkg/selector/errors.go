package selector

import "errors"

var (
	// ErrInvalidRegex is returned when a regex pattern does not compile
	ErrInvalidRegex = errors.New("invalid file pattern regex")

	// ErrEmptyPattern is returned when a pattern has no kind or no value
	ErrEmptyPattern = errors.New("empty pattern")
)
