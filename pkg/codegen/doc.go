// Package codegen decides which interfaces, methods, fields and nested classes
// every message type receives, and emits them as artifacts.
//
// # Overview
//
// A Task pairs a selector with an output: an interface name or the name of a
// member factory. Tasks are collected in a Tasks aggregate which runs every
// task against every message of a descriptors.FileSet:
//
//	tasks := codegen.NewTasks(nil,
//		codegen.MustTask(codegen.NewUuidInterface("io.spine.base.UuidValue")),
//		codegen.MustTask(codegen.NewPatternInterface(selector.Suffix("events.proto"), "io.spine.base.EventMessage")),
//		codegen.NewUserInterfaces(),
//	)
//	arts, err := tasks.Generate(ctx, set)
//
// # Ordering
//
// Output follows the file set order: files in load order, messages in
// declaration order with parents before nested types, and for each message
// the tasks in registration order. GenerateParallel produces the same list.
//
// # Disabled and Invalid Names
//
// An empty interface or factory name disables a task. A name made only of
// whitespace is a configuration error reported when the task is built.
//
// # Related Packages
//
//   - pkg/selector: the predicates tasks are built on
//   - pkg/codegen/artifacts: artifact values, disk writer and protoc response
//   - pkg/config: builds Tasks from YAML
package codegen
