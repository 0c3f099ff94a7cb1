package codegen

import (
	"fmt"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen/artifacts"
	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
	"github.com/SpineEventEngine/base-sub010/pkg/javanames"
	"github.com/SpineEventEngine/base-sub010/pkg/selector"
)

// Task names
const (
	TaskGenerateMethods       = "generate-methods"
	TaskGenerateFields        = "generate-fields"
	TaskGenerateNestedClasses = "generate-nested-classes"
)

// MemberTask adds the members created by a factory to the class scope of
// the selected messages
type MemberTask struct {
	name    string
	sel     selector.MessageSelector
	factory Factory
}

// Name returns the task name
func (t *MemberTask) Name() string {
	return t.name
}

// Selector returns the selector of the task
func (t *MemberTask) Selector() selector.MessageSelector {
	return t.sel
}

// Factory returns the factory of the task, nil when disabled
func (t *MemberTask) Factory() Factory {
	return t.factory
}

// GenerateFor emits one class_scope artifact per created member
func (t *MemberTask) GenerateFor(msg *descriptors.MessageType) ([]artifacts.Artifact, error) {
	if t.factory == nil || !applies(t.sel, msg) {
		return nil, nil
	}
	members, err := t.factory.Create(msg)
	if err != nil {
		return nil, err
	}
	path := javanames.SourceFile(msg.Desc)
	result := make([]artifacts.Artifact, 0, len(members))
	for _, code := range members {
		result = append(result, artifacts.InClassScope(path, msg.FullName(), code))
	}
	return result, nil
}

// NewGenerateMethods adds the methods of the named factory to selected messages
func NewGenerateMethods(sel selector.MessageSelector, factoryName string, factories *FactoryRegistry) (*MemberTask, error) {
	return newMemberTask(TaskGenerateMethods, Methods, sel, factoryName, factories)
}

// NewGenerateFields adds the fields of the named factory to selected messages
func NewGenerateFields(sel selector.MessageSelector, factoryName string, factories *FactoryRegistry) (*MemberTask, error) {
	return newMemberTask(TaskGenerateFields, Fields, sel, factoryName, factories)
}

// NewGenerateNestedClasses adds the classes of the named factory to selected messages
func NewGenerateNestedClasses(sel selector.MessageSelector, factoryName string, factories *FactoryRegistry) (*MemberTask, error) {
	return newMemberTask(TaskGenerateNestedClasses, NestedClasses, sel, factoryName, factories)
}

func newMemberTask(task string, kind MemberKind, sel selector.MessageSelector, factoryName string, factories *FactoryRegistry) (*MemberTask, error) {
	name, err := checkName(task, factoryName)
	if err != nil {
		return nil, err
	}
	if sel == nil || sel.Pattern().IsZero() {
		return nil, &ConfigError{Task: task, Err: ErrEmptyPattern}
	}
	t := &MemberTask{name: task, sel: sel}
	if name == "" {
		return t, nil
	}

	if factories == nil {
		factories = DefaultFactories()
	}
	f, err := factories.Get(name)
	if err != nil {
		return nil, &ConfigError{Task: task, Value: name, Err: err}
	}
	if f.Kind() != kind {
		return nil, &ConfigError{
			Task:  task,
			Value: name,
			Err:   fmt.Errorf("%w: creates a %s, not a %s", ErrUnknownFactory, f.Kind(), kind),
		}
	}
	t.factory = f
	return t, nil
}
