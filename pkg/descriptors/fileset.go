package descriptors

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// FileSet is an ordered, linked set of proto files
type FileSet struct {
	all      []*File
	generate []*File
	byName   map[string]*MessageType
	registry *protoregistry.Files
	options  *OptionReader
}

// File is a single proto file of a FileSet
type File struct {
	Desc     protoreflect.FileDescriptor
	set      *FileSet
	messages []*MessageType
	generate bool
}

// MessageType is a message declared in a File
type MessageType struct {
	Desc   protoreflect.MessageDescriptor
	file   *File
	parent *MessageType
	nested []*MessageType
}

func newFileSet(files []protoreflect.FileDescriptor, registry *protoregistry.Files, o *loadOptions) (*FileSet, error) {
	options, err := newOptionReader(registry, o.cacheSize)
	if err != nil {
		return nil, err
	}

	set := &FileSet{
		all:      make([]*File, 0, len(files)),
		byName:   make(map[string]*MessageType),
		registry: registry,
		options:  options,
	}

	for _, fd := range files {
		file := &File{
			Desc:     fd,
			set:      set,
			generate: o.shouldGenerate(fd.Path()),
		}
		file.messages = set.collect(file, nil, fd.Messages())
		set.all = append(set.all, file)
		if file.generate {
			set.generate = append(set.generate, file)
		}
	}

	o.log.WithField("files", len(set.all)).
		WithField("generated", len(set.generate)).
		Debug("File set loaded")
	return set, nil
}

func (s *FileSet) collect(file *File, parent *MessageType, descs protoreflect.MessageDescriptors) []*MessageType {
	result := make([]*MessageType, 0, descs.Len())
	for i := 0; i < descs.Len(); i++ {
		md := descs.Get(i)
		if md.IsMapEntry() {
			continue
		}
		msg := &MessageType{Desc: md, file: file, parent: parent}
		s.byName[string(md.FullName())] = msg
		msg.nested = s.collect(file, msg, md.Messages())
		result = append(result, msg)
	}
	return result
}

// Files returns the files code is generated for, in load order
func (s *FileSet) Files() []*File {
	return s.generate
}

// AllFiles returns every file of the set, including imports
func (s *FileSet) AllFiles() []*File {
	return s.all
}

// File finds a file by its path
func (s *FileSet) File(path string) (*File, bool) {
	for _, f := range s.all {
		if f.Path() == path {
			return f, true
		}
	}
	return nil, false
}

// Messages returns every message of the generated files: files in load order,
// messages in declaration order, each parent before its nested types.
func (s *FileSet) Messages() []*MessageType {
	return flatten(s.generate)
}

// AllMessages is like Messages but covers imported files too
func (s *FileSet) AllMessages() []*MessageType {
	return flatten(s.all)
}

// FindMessage looks a message up by its fully-qualified name
func (s *FileSet) FindMessage(fullName string) (*MessageType, bool) {
	msg, ok := s.byName[fullName]
	return msg, ok
}

// Registry returns the registry the files are linked in
func (s *FileSet) Registry() *protoregistry.Files {
	return s.registry
}

// Options returns the reader of custom option values
func (s *FileSet) Options() *OptionReader {
	return s.options
}

func flatten(files []*File) []*MessageType {
	var result []*MessageType
	var walk func(msgs []*MessageType)
	walk = func(msgs []*MessageType) {
		for _, m := range msgs {
			result = append(result, m)
			walk(m.nested)
		}
	}
	for _, f := range files {
		walk(f.messages)
	}
	return result
}

// Path returns the path of the file relative to its import root
func (f *File) Path() string {
	return f.Desc.Path()
}

// Package returns the proto package of the file
func (f *File) Package() string {
	return string(f.Desc.Package())
}

// Messages returns the top-level messages of the file
func (f *File) Messages() []*MessageType {
	return f.messages
}

// AllMessages returns top-level and nested messages of the file
func (f *File) AllMessages() []*MessageType {
	return flatten([]*File{f})
}

// Generated reports whether code is generated for the file
func (f *File) Generated() bool {
	return f.generate
}

// Set returns the FileSet the file belongs to
func (f *File) Set() *FileSet {
	return f.set
}

// FullName returns the fully-qualified proto name
func (m *MessageType) FullName() string {
	return string(m.Desc.FullName())
}

// Name returns the simple proto name
func (m *MessageType) Name() string {
	return string(m.Desc.Name())
}

// Package returns the proto package the message is declared in
func (m *MessageType) Package() string {
	return m.file.Package()
}

// File returns the declaring file
func (m *MessageType) File() *File {
	return m.file
}

// FileName returns the path of the declaring file
func (m *MessageType) FileName() string {
	return m.file.Path()
}

// Parent returns the enclosing message, or nil for top-level messages
func (m *MessageType) Parent() *MessageType {
	return m.parent
}

// Nested returns the messages declared inside this one
func (m *MessageType) Nested() []*MessageType {
	return m.nested
}

// IsTopLevel reports whether the message is declared directly in the file
func (m *MessageType) IsTopLevel() bool {
	return m.parent == nil
}

// Fields returns the declared fields
func (m *MessageType) Fields() protoreflect.FieldDescriptors {
	return m.Desc.Fields()
}

func (m *MessageType) String() string {
	return m.FullName()
}
