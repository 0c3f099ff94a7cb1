package codegen

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
	"github.com/SpineEventEngine/base-sub010/pkg/javanames"
	"github.com/SpineEventEngine/base-sub010/pkg/selector"
)

// MemberKind is the kind of class member a factory creates
type MemberKind int

const (
	Methods MemberKind = iota
	Fields
	NestedClasses
)

func (k MemberKind) String() string {
	switch k {
	case Methods:
		return "method"
	case Fields:
		return "field"
	case NestedClasses:
		return "nested class"
	default:
		return "unknown"
	}
}

// Names of the built-in factories
const (
	UuidMethodFactory         = "io.spine.tools.mc.java.gen.UuidMethodFactory"
	FieldNameConstantsFactory = "io.spine.tools.mc.java.gen.FieldNameConstantsFactory"
	FieldPathsClassFactory    = "io.spine.tools.mc.java.gen.FieldPathsClassFactory"
)

// Factory creates Java members for a message class
type Factory interface {
	Name() string
	Kind() MemberKind
	Create(msg *descriptors.MessageType) ([]string, error)
}

// FactoryFunc adapts a function to the Factory interface
type FactoryFunc struct {
	FactoryName string
	MemberKind  MemberKind
	Fn          func(msg *descriptors.MessageType) ([]string, error)
}

func (f FactoryFunc) Name() string     { return f.FactoryName }
func (f FactoryFunc) Kind() MemberKind { return f.MemberKind }

func (f FactoryFunc) Create(msg *descriptors.MessageType) ([]string, error) {
	return f.Fn(msg)
}

// FactoryRegistry keeps the factories available to member tasks
type FactoryRegistry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewFactoryRegistry creates an empty registry
func NewFactoryRegistry() *FactoryRegistry {
	return &FactoryRegistry{
		factories: make(map[string]Factory),
	}
}

// DefaultFactories returns a registry holding the built-in factories
func DefaultFactories() *FactoryRegistry {
	r := NewFactoryRegistry()
	for _, f := range builtinFactories() {
		_ = r.Register(f)
	}
	return r
}

// Register adds a factory to the registry
func (r *FactoryRegistry) Register(f Factory) error {
	name := strings.TrimSpace(f.Name())
	if name == "" {
		return ErrBlankName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrFactoryAlreadyExists, name)
	}
	r.factories[name] = f
	return nil
}

// Get retrieves a factory by name
func (r *FactoryRegistry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFactory, name)
	}
	return f, nil
}

// Names returns the sorted names of all registered factories
func (r *FactoryRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func builtinFactories() []Factory {
	return []Factory{
		FactoryFunc{FactoryName: UuidMethodFactory, MemberKind: Methods, Fn: uuidMethods},
		FactoryFunc{FactoryName: FieldNameConstantsFactory, MemberKind: Fields, Fn: fieldNameConstants},
		FactoryFunc{FactoryName: FieldPathsClassFactory, MemberKind: NestedClasses, Fn: fieldPathsClass},
	}
}

func uuidMethods(msg *descriptors.MessageType) ([]string, error) {
	if !selector.IsUuidValue(msg) {
		return nil, nil
	}
	cls := javanames.SimpleName(msg.Desc)
	generate := fmt.Sprintf(`/**
 * Creates a new instance with a random UUID value.
 */
public static %[1]s generate() {
    return newBuilder().setUuid(java.util.UUID.randomUUID().toString()).build();
}
`, cls)
	of := fmt.Sprintf(`/**
 * Creates a new instance from the passed UUID value.
 */
public static %[1]s of(java.lang.String uuid) {
    com.google.common.base.Preconditions.checkNotNull(uuid);
    return newBuilder().setUuid(uuid).build();
}
`, cls)
	return []string{generate, of}, nil
}

func fieldNameConstants(msg *descriptors.MessageType) ([]string, error) {
	fields := msg.Fields()
	result := make([]string, 0, fields.Len())
	for i := 0; i < fields.Len(); i++ {
		name := string(fields.Get(i).Name())
		result = append(result, fmt.Sprintf("public static final java.lang.String %s_FIELD_NAME = %q;\n",
			strings.ToUpper(name), name))
	}
	return result, nil
}

func fieldPathsClass(msg *descriptors.MessageType) ([]string, error) {
	fields := msg.Fields()
	if fields.Len() == 0 {
		return nil, nil
	}
	var b strings.Builder
	b.WriteString("public static final class Field {\n\n")
	b.WriteString("    private Field() {\n    }\n")
	for i := 0; i < fields.Len(); i++ {
		name := string(fields.Get(i).Name())
		fmt.Fprintf(&b, "\n    public static java.lang.String %s() {\n        return %q;\n    }\n",
			javanames.LowerCamelCase(name), name)
	}
	b.WriteString("}\n")
	return []string{b.String()}, nil
}
