package artifacts

import "errors"

var (
	// ErrInsertionPointNotFound is returned when the target file has no marker for the insertion point
	ErrInsertionPointNotFound = errors.New("insertion point not found")

	// ErrInsertionTargetMissing is returned when an insertion targets a file that does not exist
	ErrInsertionTargetMissing = errors.New("insertion target file does not exist")

	// ErrConflictingArtifact is returned when two new files share a path but differ in content
	ErrConflictingArtifact = errors.New("conflicting artifacts for the same file")

	// ErrWriteFailed is returned when an artifact cannot be written to disk
	ErrWriteFailed = errors.New("artifact write failed")
)
