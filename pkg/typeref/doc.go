// Package typeref parses and matches type references used in Spine Protobuf options.
//
// # Overview
//
// A type reference is a short string naming one or more message types. It appears in
// options such as (enrichment_for) and as the type part of (by) field references.
//
// # Grammar
//
//	""                 the message in which the reference occurs (Self)
//	"context"          the EventContext message
//	"*"                every message type
//	"acme.sales.*"     every message declared directly in package acme.sales
//	"OrderPlaced"      a message whose simple name the value ends with
//	"Foo,Bar"          any of the listed references (Composite)
//
// # Usage Example
//
//	ref, err := typeref.Parse("acme.sales.*")
//	if err != nil {
//		return err
//	}
//	if ref.Matches(msg) {
//		...
//	}
//
// # Related Packages
//
//   - pkg/fieldref: field references built on top of type references
//   - pkg/enrichment: resolution of references against a descriptor set
package typeref
