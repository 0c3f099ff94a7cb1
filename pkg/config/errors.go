package config

import "errors"

var (
	// ErrInvalidPattern is returned when a file pattern does not set exactly one member
	ErrInvalidPattern = errors.New("file pattern must set exactly one of prefix, suffix or regex")

	// ErrInvalidConfig is returned when a setting has an unsupported value
	ErrInvalidConfig = errors.New("invalid configuration")
)
