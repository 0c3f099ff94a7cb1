package descriptors

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bufbuild/protocompile"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

// OptionsFile is the import path of the embedded Spine options definition
const OptionsFile = "spine/options.proto"

//go:embed spine/options.proto
var optionsProto string

// DefaultExcluded lists path prefixes never generated unless requested explicitly
var DefaultExcluded = []string{"google/protobuf/", OptionsFile}

const defaultOptionsCacheSize = 4096

type loadOptions struct {
	generate  []string
	named     map[string]bool
	excluded  []string
	cacheSize int
	log       logrus.FieldLogger
}

// LoadOption configures how a FileSet is built
type LoadOption func(*loadOptions)

// WithFiles restricts generation to the given file paths
func WithFiles(paths ...string) LoadOption {
	return func(o *loadOptions) {
		o.generate = append(o.generate, paths...)
	}
}

// WithExcluded replaces the path prefixes excluded from generation
func WithExcluded(prefixes ...string) LoadOption {
	return func(o *loadOptions) {
		o.excluded = prefixes
	}
}

// WithOptionsCacheSize sets the number of decoded option messages kept in memory
func WithOptionsCacheSize(size int) LoadOption {
	return func(o *loadOptions) {
		o.cacheSize = size
	}
}

// WithLogger sets the logger used while loading
func WithLogger(log logrus.FieldLogger) LoadOption {
	return func(o *loadOptions) {
		o.log = log
	}
}

func newLoadOptions(opts []LoadOption) *loadOptions {
	o := &loadOptions{
		excluded:  DefaultExcluded,
		cacheSize: defaultOptionsCacheSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		discard := logrus.New()
		discard.SetOutput(nopWriter{})
		o.log = discard
	}
	return o
}

// shouldGenerate decides whether code is generated for the file
func (o *loadOptions) shouldGenerate(path string) bool {
	if o.named != nil && !o.named[path] {
		return false
	}
	if len(o.generate) > 0 {
		for _, p := range o.generate {
			if p == path {
				return true
			}
		}
		return false
	}
	for _, prefix := range o.excluded {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// LoadDescriptorSet reads a binary FileDescriptorSet from disk
func LoadDescriptorSet(path string, opts ...LoadOption) (*FileSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor set: %w", err)
	}

	var fds descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &fds); err != nil {
		return nil, fmt.Errorf("unmarshal descriptor set %s: %w", path, err)
	}

	return FromFileDescriptorSet(&fds, opts...)
}

// FromFileDescriptorSet links the files of a descriptor set. The set must contain
// every imported file, as produced by protoc --include_imports.
func FromFileDescriptorSet(fds *descriptorpb.FileDescriptorSet, opts ...LoadOption) (*FileSet, error) {
	registry, err := protodesc.NewFiles(fds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLinkFailed, err)
	}

	files := make([]protoreflect.FileDescriptor, 0, len(fds.GetFile()))
	for _, fdp := range fds.GetFile() {
		fd, err := registry.FindFileByPath(fdp.GetName())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLinkFailed, fdp.GetName(), err)
		}
		files = append(files, fd)
	}

	return newFileSet(files, registry, newLoadOptions(opts))
}

// FromRequest builds a FileSet from a protoc plugin request. Only the files
// listed in FileToGenerate are generated.
func FromRequest(req *pluginpb.CodeGeneratorRequest, opts ...LoadOption) (*FileSet, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	fds := &descriptorpb.FileDescriptorSet{File: req.GetProtoFile()}
	opts = append([]LoadOption{WithFiles(req.GetFileToGenerate()...)}, opts...)
	return FromFileDescriptorSet(fds, opts...)
}

// Compile compiles .proto sources held in memory. Files are generated in the
// lexical order of their paths. spine/options.proto and the well-known types
// are always importable.
func Compile(ctx context.Context, sources map[string]string, opts ...LoadOption) (*FileSet, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	resolver := &protocompile.SourceResolver{
		Accessor: protocompile.SourceAccessorFromMap(sources),
	}
	return compile(ctx, resolver, names, opts)
}

// CompileDir compiles the named files found under the import roots
func CompileDir(ctx context.Context, roots []string, names []string, opts ...LoadOption) (*FileSet, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no proto files provided")
	}
	resolver := &protocompile.SourceResolver{ImportPaths: roots}
	return compile(ctx, resolver, names, opts)
}

func compile(ctx context.Context, resolver protocompile.Resolver, names []string, opts []LoadOption) (*FileSet, error) {
	o := newLoadOptions(opts)

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(protocompile.CompositeResolver{
			resolver,
			&protocompile.SourceResolver{
				Accessor: protocompile.SourceAccessorFromMap(map[string]string{
					OptionsFile: optionsProto,
				}),
			},
		}),
		SourceInfoMode: protocompile.SourceInfoStandard,
	}

	result, err := compiler.Compile(ctx, names...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	o.named = make(map[string]bool, len(names))
	for _, name := range names {
		o.named[name] = true
	}

	registry := new(protoregistry.Files)
	files := make([]protoreflect.FileDescriptor, 0, len(result))
	for _, fd := range result {
		files = append(files, fd)
	}
	// Imports follow the compiled files so that their messages can be referenced.
	for _, fd := range result {
		if err := registerWithImports(registry, fd, func(imported protoreflect.FileDescriptor) {
			if !o.named[imported.Path()] {
				files = append(files, imported)
			}
		}); err != nil {
			return nil, err
		}
	}

	o.log.WithField("files", len(files)).Debug("Compiled proto sources")
	return newFileSet(files, registry, o)
}

// registerWithImports adds the file and, transitively, its imports to the
// registry. added is called for every newly registered file.
func registerWithImports(registry *protoregistry.Files, fd protoreflect.FileDescriptor, added func(protoreflect.FileDescriptor)) error {
	if _, err := registry.FindFileByPath(fd.Path()); err == nil {
		return nil
	}
	imports := fd.Imports()
	for i := 0; i < imports.Len(); i++ {
		if err := registerWithImports(registry, imports.Get(i).FileDescriptor, added); err != nil {
			return err
		}
	}
	if err := registry.RegisterFile(fd); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLinkFailed, fd.Path(), err)
	}
	added(fd)
	return nil
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
