package artifacts

import (
	"fmt"
	"strings"

	"github.com/SpineEventEngine/base-sub010/pkg/javanames"
)

// InsertionKind is the category part of a protoc insertion point key
type InsertionKind string

const (
	MessageImplements InsertionKind = "message_implements"
	BuilderImplements InsertionKind = "builder_implements"
	ClassScope        InsertionKind = "class_scope"
	BuilderScope      InsertionKind = "builder_scope"
	OuterClassScope   InsertionKind = "outer_class_scope"
)

// Key returns the insertion point key for a fully-qualified proto message name.
// The outer class scope has no message part.
func (k InsertionKind) Key(messageFullName string) string {
	if k == OuterClassScope || messageFullName == "" {
		return string(k)
	}
	return string(k) + ":" + messageFullName
}

// Artifact is a unit of generated output: either a new file (empty
// InsertionPoint) or content spliced into an existing file at a marker.
type Artifact struct {
	Path           string
	InsertionPoint string
	Content        string
}

// IsNewFile reports whether the artifact is a whole file
func (a Artifact) IsNewFile() bool {
	return a.InsertionPoint == ""
}

func (a Artifact) String() string {
	if a.IsNewFile() {
		return a.Path
	}
	return a.Path + "@" + a.InsertionPoint
}

// ImplementInterface makes the message class implement the interface.
// The content ends with a comma as it lands in the middle of an implements clause.
func ImplementInterface(path, messageFullName, iface string) Artifact {
	return Artifact{
		Path:           path,
		InsertionPoint: MessageImplements.Key(messageFullName),
		Content:        iface + ",",
	}
}

// InClassScope adds members to the body of the message class
func InClassScope(path, messageFullName, code string) Artifact {
	return Artifact{
		Path:           path,
		InsertionPoint: ClassScope.Key(messageFullName),
		Content:        code,
	}
}

// InterfaceFile creates the source of a Java interface extending
// com.google.protobuf.Message in the given package.
func InterfaceFile(javaPackage, name string) Artifact {
	var b strings.Builder
	b.WriteString("// Generated by spine-mc. DO NOT EDIT!\n")
	if javaPackage != "" {
		fmt.Fprintf(&b, "package %s;\n", javaPackage)
	}
	b.WriteString("\n")
	b.WriteString("@javax.annotation.Generated(\"by spine-mc\")\n")
	fmt.Fprintf(&b, "public interface %s extends com.google.protobuf.Message {\n}\n", name)
	return Artifact{
		Path:    javanames.SourcePath(javaPackage, name),
		Content: b.String(),
	}
}

// Dedupe drops repeated artifacts keeping the first occurrence.
// Two new files with the same path and different content are a conflict.
func Dedupe(arts []Artifact) ([]Artifact, error) {
	seen := make(map[Artifact]struct{}, len(arts))
	files := make(map[string]string)
	result := make([]Artifact, 0, len(arts))
	for _, a := range arts {
		if _, dup := seen[a]; dup {
			continue
		}
		if a.IsNewFile() {
			if content, ok := files[a.Path]; ok && content != a.Content {
				return nil, fmt.Errorf("%w: %s", ErrConflictingArtifact, a.Path)
			}
			files[a.Path] = a.Content
		}
		seen[a] = struct{}{}
		result = append(result, a)
	}
	return result, nil
}
