package codegen

import (
	"strings"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen/artifacts"
	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
	"github.com/SpineEventEngine/base-sub010/pkg/selector"
)

// Task produces artifacts for the messages its selector accepts.
// Tasks are immutable once built and may be shared between goroutines.
type Task interface {
	// Name identifies the task in logs, metrics and errors
	Name() string
	// Selector returns the predicate deciding which messages the task applies to
	Selector() selector.MessageSelector
	// GenerateFor returns the artifacts for msg; a message the task does not
	// apply to yields an empty result.
	GenerateFor(msg *descriptors.MessageType) ([]artifacts.Artifact, error)
}

// MustTask panics if err is not nil
func MustTask(t Task, err error) Task {
	if err != nil {
		panic(err)
	}
	return t
}

// checkName trims a configured name. The empty string disables the task,
// whitespace alone is an error.
func checkName(task, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if name != "" && trimmed == "" {
		return "", &ConfigError{Task: task, Value: name, Err: ErrBlankName}
	}
	return trimmed, nil
}

// applies reports whether a selector-driven task handles msg. File patterns
// only ever select top-level messages.
func applies(sel selector.MessageSelector, msg *descriptors.MessageType) bool {
	if msg == nil {
		return false
	}
	if sel.Pattern().Kind.IsFileKind() && !msg.IsTopLevel() {
		return false
	}
	return sel.Test(msg)
}
