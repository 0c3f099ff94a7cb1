package codegen

import (
	"errors"
	"fmt"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen/artifacts"
	"github.com/SpineEventEngine/base-sub010/pkg/selector"
)

var (
	// ErrBlankName is returned when an interface or factory name consists of whitespace only
	ErrBlankName = errors.New("name must not be blank")

	// ErrEmptyPattern is returned when a task is built from a pattern that selects nothing
	ErrEmptyPattern = selector.ErrEmptyPattern

	// ErrUnknownFactory is returned when a factory name is not registered
	ErrUnknownFactory = errors.New("unknown factory")

	// ErrFactoryAlreadyExists is returned when registering a duplicate factory
	ErrFactoryAlreadyExists = errors.New("factory already exists")

	// ErrFirstGenericParam is returned when the first generic parameter of an interface cannot be resolved
	ErrFirstGenericParam = errors.New("first generic parameter must be defined")

	// ErrConflictingArtifact is returned when two tasks create the same file with different content
	ErrConflictingArtifact = artifacts.ErrConflictingArtifact
)

// ConfigError reports a task that cannot be built from its configuration
type ConfigError struct {
	Task  string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("task %s: %v", e.Task, e.Err)
	}
	return fmt.Sprintf("task %s: %v: %q", e.Task, e.Err, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// GenerationError reports a task that failed for a message
type GenerationError struct {
	Task    string
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("task %s failed for %s: %v", e.Task, e.Message, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
