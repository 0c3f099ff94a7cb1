package selector

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
)

// Kind identifies the predicate a selector applies
type Kind int

const (
	KindNone Kind = iota
	KindPrefix
	KindSuffix
	KindRegex
	KindAll
	KindUuidValue
	KindEntityState
	KindTypeName
	KindInFiles
)

func (k Kind) String() string {
	switch k {
	case KindPrefix:
		return "prefix"
	case KindSuffix:
		return "suffix"
	case KindRegex:
		return "regex"
	case KindAll:
		return "all"
	case KindUuidValue:
		return "uuid-value"
	case KindEntityState:
		return "entity-state"
	case KindTypeName:
		return "type-name"
	case KindInFiles:
		return "in-files"
	default:
		return "none"
	}
}

// IsFileKind reports whether the kind tests file paths
func (k Kind) IsFileKind() bool {
	return k == KindPrefix || k == KindSuffix || k == KindRegex || k == KindAll
}

// Pattern is the comparable identity of a selector
type Pattern struct {
	Kind  Kind
	Value string
}

// IsZero reports whether the pattern selects nothing
func (p Pattern) IsZero() bool {
	return p.Kind == KindNone
}

func (p Pattern) String() string {
	if p.Value == "" {
		return p.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", p.Kind, p.Value)
}

// MessageSelector decides whether a task applies to a message
type MessageSelector interface {
	Pattern() Pattern
	Test(msg *descriptors.MessageType) bool
}

// ProtoExtension is the file extension matched by All
const ProtoExtension = ".proto"

// FilePattern selects messages by the path of their file
type FilePattern struct {
	pattern Pattern
	re      *regexp.Regexp
}

// Prefix selects files whose path starts with the value
func Prefix(value string) FilePattern {
	return newFilePattern(KindPrefix, value)
}

// Suffix selects files whose path ends with the value
func Suffix(value string) FilePattern {
	return newFilePattern(KindSuffix, value)
}

// All selects every proto file
func All() FilePattern {
	return FilePattern{pattern: Pattern{Kind: KindAll, Value: ProtoExtension}}
}

// Regex selects files whose whole path matches the expression
func Regex(expr string) (FilePattern, error) {
	if strings.TrimSpace(expr) == "" {
		return FilePattern{}, ErrEmptyPattern
	}
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return FilePattern{}, fmt.Errorf("%w: %q: %w", ErrInvalidRegex, expr, err)
	}
	return FilePattern{pattern: Pattern{Kind: KindRegex, Value: expr}, re: re}, nil
}

// MustRegex is like Regex but panics on error
func MustRegex(expr string) FilePattern {
	p, err := Regex(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func newFilePattern(kind Kind, value string) FilePattern {
	value = strings.TrimSpace(value)
	if value == "" {
		return FilePattern{}
	}
	return FilePattern{pattern: Pattern{Kind: kind, Value: value}}
}

// Pattern returns the identity of the file pattern
func (p FilePattern) Pattern() Pattern {
	return p.pattern
}

// IsZero reports whether the pattern was never set
func (p FilePattern) IsZero() bool {
	return p.pattern.IsZero()
}

// TestFile reports whether the path matches. Paths are compared as given by
// the descriptor, relative to the import root; a suffix longer than the path
// (for example an absolute path) matches when it ends with the path.
func (p FilePattern) TestFile(path string) bool {
	v := p.pattern.Value
	switch p.pattern.Kind {
	case KindPrefix:
		return strings.HasPrefix(path, v)
	case KindSuffix, KindAll:
		return strings.HasSuffix(path, v) || strings.HasSuffix(v, "/"+path)
	case KindRegex:
		return p.re != nil && p.re.MatchString(path)
	}
	return false
}

// Test reports whether the message is declared in a matching file
func (p FilePattern) Test(msg *descriptors.MessageType) bool {
	return msg != nil && p.TestFile(msg.FileName())
}

func (p FilePattern) String() string {
	return p.pattern.String()
}

// UuidFieldName is the conventional name of the single field of a UUID value
const UuidFieldName = "uuid"

type uuidValue struct{}

// UuidValue selects messages with a single string field named uuid
func UuidValue() MessageSelector {
	return uuidValue{}
}

func (uuidValue) Pattern() Pattern {
	return Pattern{Kind: KindUuidValue}
}

func (uuidValue) Test(msg *descriptors.MessageType) bool {
	if msg == nil {
		return false
	}
	return IsUuidValue(msg)
}

// IsUuidValue reports whether the message wraps a single UUID string
func IsUuidValue(msg *descriptors.MessageType) bool {
	fields := msg.Fields()
	if fields.Len() != 1 {
		return false
	}
	f := fields.Get(0)
	return string(f.Name()) == UuidFieldName && f.Kind() == protoreflect.StringKind && !f.IsList() && !f.IsMap()
}

type entityState struct{}

// EntityState selects messages declared as entity states
func EntityState() MessageSelector {
	return entityState{}
}

func (entityState) Pattern() Pattern {
	return Pattern{Kind: KindEntityState}
}

func (entityState) Test(msg *descriptors.MessageType) bool {
	return msg != nil && msg.IsEntityState()
}

type typeName struct {
	name string
}

// TypeName selects the message with exactly this fully-qualified name
func TypeName(fullName string) MessageSelector {
	return typeName{name: strings.TrimSpace(fullName)}
}

func (s typeName) Pattern() Pattern {
	if s.name == "" {
		return Pattern{}
	}
	return Pattern{Kind: KindTypeName, Value: s.name}
}

func (s typeName) Test(msg *descriptors.MessageType) bool {
	return msg != nil && s.name != "" && msg.FullName() == s.name
}

type inFiles struct {
	files map[string]struct{}
	value string
}

// InFiles selects messages declared in any of the named files
func InFiles(paths ...string) MessageSelector {
	files := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			files[p] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(files))
	for p := range files {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)
	return inFiles{files: files, value: strings.Join(sorted, ",")}
}

func (s inFiles) Pattern() Pattern {
	if len(s.files) == 0 {
		return Pattern{}
	}
	return Pattern{Kind: KindInFiles, Value: s.value}
}

func (s inFiles) Test(msg *descriptors.MessageType) bool {
	if msg == nil {
		return false
	}
	_, ok := s.files[msg.FileName()]
	return ok
}
