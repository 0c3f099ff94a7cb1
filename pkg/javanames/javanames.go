package javanames

import (
	"path"
	"strings"
	"unicode"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

const (
	// SourceExtension is the extension of generated Java sources
	SourceExtension = ".java"

	outerClassSuffix = "OuterClass"
)

func fileOptions(file protoreflect.FileDescriptor) *descriptorpb.FileOptions {
	if opts, ok := file.Options().(*descriptorpb.FileOptions); ok && opts != nil {
		return opts
	}
	return &descriptorpb.FileOptions{}
}

// Package returns the Java package of the file: java_package when set,
// otherwise the proto package.
func Package(file protoreflect.FileDescriptor) string {
	if opts := fileOptions(file); opts.JavaPackage != nil {
		return opts.GetJavaPackage()
	}
	return string(file.Package())
}

// MultipleFiles reports whether each top-level type gets its own source file
func MultipleFiles(file protoreflect.FileDescriptor) bool {
	return fileOptions(file).GetJavaMultipleFiles()
}

// OuterClassName returns the name of the class wrapping the file's types.
//
// Without java_outer_classname the name is the camel-cased file base name,
// suffixed with OuterClass when a top-level type already uses it.
func OuterClassName(file protoreflect.FileDescriptor) string {
	if name := fileOptions(file).GetJavaOuterClassname(); name != "" {
		return name
	}
	name := CamelCase(baseName(file.Path()))
	if hasTopLevel(file, name) {
		name += outerClassSuffix
	}
	return name
}

func baseName(p string) string {
	base := path.Base(p)
	for _, ext := range []string{".protodevel", ".proto"} {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return base
}

func hasTopLevel(file protoreflect.FileDescriptor, name string) bool {
	target := protoreflect.Name(name)
	for i := 0; i < file.Messages().Len(); i++ {
		if file.Messages().Get(i).Name() == target {
			return true
		}
	}
	for i := 0; i < file.Enums().Len(); i++ {
		if file.Enums().Get(i).Name() == target {
			return true
		}
	}
	for i := 0; i < file.Services().Len(); i++ {
		if file.Services().Get(i).Name() == target {
			return true
		}
	}
	return false
}

// CamelCase converts an underscore or dash separated name to UpperCamelCase.
// A letter following a digit or a separator is capitalized.
func CamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	capNext := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			if capNext {
				r = unicode.ToUpper(r)
			}
			b.WriteRune(r)
			capNext = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
			capNext = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			capNext = true
		default:
			capNext = true
		}
	}
	return b.String()
}

// LowerCamelCase is like CamelCase with the first letter in lower case
func LowerCamelCase(s string) string {
	c := CamelCase(s)
	if c == "" {
		return c
	}
	r := []rune(c)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// SimpleName returns the class name of a message or enum relative to its
// top-level class, such as "Summary.Line".
func SimpleName(desc protoreflect.Descriptor) string {
	var parts []string
	for d := desc; d != nil; d = d.Parent() {
		if _, ok := d.(protoreflect.FileDescriptor); ok {
			break
		}
		parts = append(parts, string(d.Name()))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// ClassName returns the fully-qualified Java class name of a message or enum
func ClassName(desc protoreflect.Descriptor) string {
	file := desc.ParentFile()
	var parts []string
	if pkg := Package(file); pkg != "" {
		parts = append(parts, pkg)
	}
	if !MultipleFiles(file) {
		parts = append(parts, OuterClassName(file))
	}
	parts = append(parts, SimpleName(desc))
	return strings.Join(parts, ".")
}

// TopLevelClass returns the simple name of the class declared in the
// source file the descriptor is generated into.
func TopLevelClass(desc protoreflect.Descriptor) string {
	file := desc.ParentFile()
	if !MultipleFiles(file) {
		return OuterClassName(file)
	}
	top := desc
	for p := desc.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(protoreflect.FileDescriptor); ok {
			break
		}
		top = p
	}
	return string(top.Name())
}

// SourceFile returns the path, relative to the output root, of the Java file
// holding the generated class of a message or enum.
func SourceFile(desc protoreflect.Descriptor) string {
	return SourcePath(Package(desc.ParentFile()), TopLevelClass(desc))
}

// SourcePath returns the path of the source file of a top-level class
func SourcePath(javaPackage, class string) string {
	if javaPackage == "" {
		return class + SourceExtension
	}
	return path.Join(strings.ReplaceAll(javaPackage, ".", "/"), class+SourceExtension)
}

// FieldType returns the Java type of a field as it appears in generated
// getters: boxed scalars, ByteString for bytes, class names for messages
// and enums, java.util.List and java.util.Map for repeated and map fields.
func FieldType(fd protoreflect.FieldDescriptor) string {
	if fd.IsMap() {
		return "java.util.Map<" + elementType(fd.MapKey()) + ", " + elementType(fd.MapValue()) + ">"
	}
	if fd.IsList() {
		return "java.util.List<" + elementType(fd) + ">"
	}
	return elementType(fd)
}

func elementType(fd protoreflect.FieldDescriptor) string {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return "java.lang.Boolean"
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return "java.lang.Integer"
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return "java.lang.Long"
	case protoreflect.FloatKind:
		return "java.lang.Float"
	case protoreflect.DoubleKind:
		return "java.lang.Double"
	case protoreflect.StringKind:
		return "java.lang.String"
	case protoreflect.BytesKind:
		return "com.google.protobuf.ByteString"
	case protoreflect.EnumKind:
		return ClassName(fd.Enum())
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return ClassName(fd.Message())
	}
	return "java.lang.Object"
}
