package descriptors

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/dynamicpb"
)

// OptionReader decodes custom option values of descriptors.
//
// Custom options are stored in the options message of a descriptor either as
// extension fields or, when the loader did not know the extension, as unknown
// fields. The reader re-parses options against the extensions declared in the
// FileSet so that both cases look the same.
type OptionReader struct {
	types *dynamicpb.Types
	cache *lru.Cache[string, protoreflect.Message]
}

func newOptionReader(registry *protoregistry.Files, size int) (*OptionReader, error) {
	if size <= 0 {
		size = defaultOptionsCacheSize
	}
	cache, err := lru.New[string, protoreflect.Message](size)
	if err != nil {
		return nil, fmt.Errorf("create options cache: %w", err)
	}
	return &OptionReader{
		types: dynamicpb.NewTypes(registry),
		cache: cache,
	}, nil
}

// Value returns the value of the extension in the options of desc
func (r *OptionReader) Value(desc protoreflect.Descriptor, extension protoreflect.FullName) (protoreflect.Value, bool) {
	xt, err := r.types.FindExtensionByName(extension)
	if err != nil {
		return protoreflect.Value{}, false
	}

	opts, ok := r.decode(desc)
	if !ok {
		return protoreflect.Value{}, false
	}

	fd := xt.TypeDescriptor()
	if fd.ContainingMessage().FullName() != opts.Descriptor().FullName() || !opts.Has(fd) {
		return protoreflect.Value{}, false
	}
	return opts.Get(fd), true
}

// String returns a string extension value
func (r *OptionReader) String(desc protoreflect.Descriptor, extension protoreflect.FullName) (string, bool) {
	v, ok := r.Value(desc, extension)
	if !ok {
		return "", false
	}
	s, ok := v.Interface().(string)
	return s, ok
}

// Message returns a message extension value
func (r *OptionReader) Message(desc protoreflect.Descriptor, extension protoreflect.FullName) (protoreflect.Message, bool) {
	v, ok := r.Value(desc, extension)
	if !ok {
		return nil, false
	}
	m, ok := v.Interface().(protoreflect.Message)
	return m, ok
}

func (r *OptionReader) decode(desc protoreflect.Descriptor) (protoreflect.Message, bool) {
	key := optionsKey(desc)
	if cached, ok := r.cache.Get(key); ok {
		return cached, cached != nil
	}

	decoded := r.unmarshal(desc)
	r.cache.Add(key, decoded)
	return decoded, decoded != nil
}

func (r *OptionReader) unmarshal(desc protoreflect.Descriptor) protoreflect.Message {
	opts := desc.Options()
	if opts == nil {
		return nil
	}
	src := opts.ProtoReflect()
	if !src.IsValid() {
		return nil
	}

	raw, err := proto.MarshalOptions{Deterministic: true}.Marshal(opts)
	if err != nil {
		return nil
	}

	decoded := dynamicpb.NewMessage(src.Descriptor())
	if err := (proto.UnmarshalOptions{Resolver: r.types}).Unmarshal(raw, decoded); err != nil {
		return nil
	}
	return decoded
}

// optionsKey keeps files apart from the messages of their package
func optionsKey(desc protoreflect.Descriptor) string {
	if fd, ok := desc.(protoreflect.FileDescriptor); ok {
		return "file:" + fd.Path()
	}
	return "desc:" + string(desc.FullName())
}

func stringField(m protoreflect.Message, name protoreflect.Name) string {
	fd := m.Descriptor().Fields().ByName(name)
	if fd == nil || fd.Kind() != protoreflect.StringKind {
		return ""
	}
	return m.Get(fd).String()
}

func boolField(m protoreflect.Message, name protoreflect.Name) bool {
	fd := m.Descriptor().Fields().ByName(name)
	if fd == nil || fd.Kind() != protoreflect.BoolKind {
		return false
	}
	return m.Get(fd).Bool()
}

func enumField(m protoreflect.Message, name protoreflect.Name) protoreflect.EnumNumber {
	fd := m.Descriptor().Fields().ByName(name)
	if fd == nil || fd.Kind() != protoreflect.EnumKind {
		return 0
	}
	return m.Get(fd).Enum()
}
