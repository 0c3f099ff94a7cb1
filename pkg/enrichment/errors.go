package enrichment

import "errors"

var (
	// ErrNoSources is returned when (enrichment_for) matches no message
	ErrNoSources = errors.New("enrichment matches no message")

	// ErrUnknownType is returned when a (by) reference names a type that is not enriched
	ErrUnknownType = errors.New("referenced type is not enriched")

	// ErrUnknownField is returned when no referenced message declares the field
	ErrUnknownField = errors.New("referenced field not found")
)
