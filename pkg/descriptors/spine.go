package descriptors

import (
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// Names of the custom options declared in spine/options.proto
const (
	OptionIs            protoreflect.FullName = "spine.is"
	OptionEveryIs       protoreflect.FullName = "spine.every_is"
	OptionEntity        protoreflect.FullName = "spine.entity"
	OptionEnrichmentFor protoreflect.FullName = "spine.enrichment_for"
	OptionBy            protoreflect.FullName = "spine.by"
)

// IsOption is the value of the (is) and (every_is) options
type IsOption struct {
	JavaType string
	Generate bool
}

// IsOption returns the (is) option of the message
func (m *MessageType) IsOption() (IsOption, bool) {
	return readIsOption(m.file.set.options, m.Desc, OptionIs)
}

// EveryIsOption returns the (every_is) option of the file
func (f *File) EveryIsOption() (IsOption, bool) {
	return readIsOption(f.set.options, f.Desc, OptionEveryIs)
}

func readIsOption(r *OptionReader, desc protoreflect.Descriptor, name protoreflect.FullName) (IsOption, bool) {
	m, ok := r.Message(desc, name)
	if !ok {
		return IsOption{}, false
	}
	opt := IsOption{
		JavaType: strings.TrimSpace(stringField(m, "java_type")),
		Generate: boolField(m, "generate"),
	}
	if opt.JavaType == "" {
		return IsOption{}, false
	}
	return opt, true
}

// EntityKind returns the (entity).kind of the message, zero when absent
func (m *MessageType) EntityKind() int32 {
	opt, ok := m.file.set.options.Message(m.Desc, OptionEntity)
	if !ok {
		return 0
	}
	return int32(enumField(opt, "kind"))
}

// IsEntityState reports whether the message is declared as an entity state
func (m *MessageType) IsEntityState() bool {
	return m.EntityKind() > 0
}

// EnrichmentFor returns the (enrichment_for) option of the message
func (m *MessageType) EnrichmentFor() (string, bool) {
	return m.file.set.options.String(m.Desc, OptionEnrichmentFor)
}

// By returns the (by) option of a field of the message
func (m *MessageType) By(field protoreflect.FieldDescriptor) (string, bool) {
	return m.file.set.options.String(field, OptionBy)
}
