package codegen

import (
	"strings"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen/artifacts"
	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
	"github.com/SpineEventEngine/base-sub010/pkg/javanames"
	"github.com/SpineEventEngine/base-sub010/pkg/selector"
)

// Task names
const (
	TaskUuidInterface        = "uuid-interface"
	TaskEntityStateInterface = "entity-state-interface"
	TaskPatternInterface     = "pattern-interface"
	TaskTypeInterface        = "type-interface"
	TaskUserInterfaces       = "user-interfaces"
)

// InterfaceTask makes the selected messages implement an interface
type InterfaceTask struct {
	name     string
	sel      selector.MessageSelector
	iface    MessageInterface
	topLevel bool
}

// Name returns the task name
func (t *InterfaceTask) Name() string {
	return t.name
}

// Selector returns the selector of the task
func (t *InterfaceTask) Selector() selector.MessageSelector {
	return t.sel
}

// Interface returns the interface the task assigns
func (t *InterfaceTask) Interface() MessageInterface {
	return t.iface
}

// Disabled reports whether the task was configured with an empty name
func (t *InterfaceTask) Disabled() bool {
	return t.iface.Name == ""
}

// GenerateFor emits the message_implements artifact for a selected message
func (t *InterfaceTask) GenerateFor(msg *descriptors.MessageType) ([]artifacts.Artifact, error) {
	if t.Disabled() || !applies(t.sel, msg) {
		return nil, nil
	}
	if t.topLevel && !msg.IsTopLevel() {
		return nil, nil
	}
	ref, err := t.iface.Render(msg)
	if err != nil {
		return nil, err
	}
	return []artifacts.Artifact{implement(msg, ref)}, nil
}

func implement(msg *descriptors.MessageType, iface string) artifacts.Artifact {
	return artifacts.ImplementInterface(javanames.SourceFile(msg.Desc), msg.FullName(), iface)
}

func newInterfaceTask(task string, sel selector.MessageSelector, name string, topLevel bool, generics ...GenericParam) (*InterfaceTask, error) {
	name, err := checkName(task, name)
	if err != nil {
		return nil, err
	}
	if sel == nil || sel.Pattern().IsZero() {
		return nil, &ConfigError{Task: task, Err: ErrEmptyPattern}
	}
	return &InterfaceTask{
		name:     task,
		sel:      sel,
		iface:    MessageInterface{Name: name, Generics: generics},
		topLevel: topLevel,
	}, nil
}

// NewUuidInterface assigns the interface to UUID value messages. The
// interface takes the message itself as its type argument.
func NewUuidInterface(name string) (*InterfaceTask, error) {
	return newInterfaceTask(TaskUuidInterface, selector.UuidValue(), name, false, Identity{})
}

// NewEntityStateInterface assigns the interface to entity states. The
// interface takes the type of the first field, the entity ID, as its
// type argument; an entity state without fields fails generation.
func NewEntityStateInterface(name string) (*InterfaceTask, error) {
	return newInterfaceTask(TaskEntityStateInterface, selector.EntityState(), name, false, FirstField{})
}

// NewPatternInterface assigns the interface to top-level messages of the
// files matching the pattern
func NewPatternInterface(pattern selector.FilePattern, name string) (*InterfaceTask, error) {
	return newInterfaceTask(TaskPatternInterface, pattern, name, true)
}

// NewTypeInterface assigns the interface to the top-level message with the given full name
func NewTypeInterface(typeName, name string) (*InterfaceTask, error) {
	return newInterfaceTask(TaskTypeInterface, selector.TypeName(typeName), name, true)
}

// UserInterfaces applies the interfaces declared with the (is) and (every_is) options
type UserInterfaces struct{}

// NewUserInterfaces creates the task for option-declared interfaces
func NewUserInterfaces() *UserInterfaces {
	return &UserInterfaces{}
}

// Name returns the task name
func (*UserInterfaces) Name() string {
	return TaskUserInterfaces
}

// Selector returns a selector accepting every message
func (*UserInterfaces) Selector() selector.MessageSelector {
	return selector.All()
}

// GenerateFor emits the implements clause for the interface of the message.
// The (is) option of the message wins over (every_is) of its file, which
// applies to top-level messages only. With generate set the interface
// source file is emitted as well.
func (*UserInterfaces) GenerateFor(msg *descriptors.MessageType) ([]artifacts.Artifact, error) {
	if msg == nil {
		return nil, nil
	}
	opt, ok := msg.IsOption()
	if !ok && msg.IsTopLevel() {
		opt, ok = msg.File().EveryIsOption()
	}
	if !ok {
		return nil, nil
	}

	pkg, name := splitJavaType(opt.JavaType, javanames.Package(msg.File().Desc))
	fqn := name
	if pkg != "" {
		fqn = pkg + "." + name
	}

	result := []artifacts.Artifact{implement(msg, fqn)}
	if opt.Generate {
		result = append(result, artifacts.InterfaceFile(pkg, name))
	}
	return result, nil
}

// splitJavaType splits a Java type into package and simple name. A simple
// name is placed in the fallback package.
func splitJavaType(javaType, fallback string) (string, string) {
	idx := strings.LastIndex(javaType, ".")
	if idx < 0 {
		return fallback, javaType
	}
	return javaType[:idx], javaType[idx+1:]
}
