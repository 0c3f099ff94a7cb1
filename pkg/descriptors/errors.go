package descriptors

import "errors"

var (
	// ErrCompileFailed is returned when .proto sources cannot be compiled
	ErrCompileFailed = errors.New("proto compilation failed")

	// ErrLinkFailed is returned when descriptors cannot be linked into a registry
	ErrLinkFailed = errors.New("descriptor linking failed")
)
