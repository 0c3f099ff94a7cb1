// Package descriptors loads Protobuf descriptors and exposes them as a FileSet.
//
// # Overview
//
// Descriptors come from one of three places:
//
//   - a FileDescriptorSet written by protoc (--descriptor_set_out --include_imports)
//   - a protoc CodeGeneratorRequest (plugin mode)
//   - .proto sources compiled in-process with protocompile
//
// In every case the result is a FileSet: ordered files, their message types (parents
// before nested types) and an option reader able to decode the custom Spine options
// declared in spine/options.proto.
//
// # Usage Example
//
//	set, err := descriptors.LoadDescriptorSet("build/descriptors/main.desc")
//	if err != nil {
//		return err
//	}
//	for _, msg := range set.Messages() {
//		if opt, ok := msg.IsOption(); ok {
//			fmt.Println(msg.FullName(), "is", opt.JavaType)
//		}
//	}
//
// The spine/options.proto file is embedded and always resolvable during in-process
// compilation, so sources may import it without shipping a copy.
package descriptors
