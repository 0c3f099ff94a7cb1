// Package cli provides the spine-mc command-line interface.
//
// # Commands
//
// generate: Run the generation tasks over proto sources or a descriptor set
//
//	spine-mc generate \
//		--proto-path ./proto \
//		--out ./build/generated/java \
//		--workers 4
//
// Files passed as arguments are resolved against the proto paths; without
// arguments every .proto file under the proto paths is compiled. A binary
// FileDescriptorSet produced by protoc --include_imports works too:
//
//	spine-mc generate --descriptor-set model.desc --out ./build/generated/java
//
// With --dry-run the artifacts are printed instead of written. With --watch
// generation reruns whenever a .proto file under the proto paths changes.
//
// refs: Parse and explain type and field references
//
//	spine-mc refs "ProjectCreated.name | spine.sales.*.id"
//	spine-mc refs --type "Created,Renamed"
//
// config init: Write the default configuration
//
//	spine-mc config init spine-mc.yaml
//
// config show: Print the effective configuration
//
// # Configuration
//
// The configuration file is taken from --config or looked up in the working
// directory. Environment variables override the file:
//
//	export SPINE_MC_LOG_LEVEL=debug
//	export SPINE_MC_WORKERS=4
//	export SPINE_MC_OTEL_ENDPOINT=localhost:4317
//
// Flags override both.
package cli
