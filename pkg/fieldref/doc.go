// Package fieldref parses field references used by the (by) option.
//
// A field reference is a dotted path whose last segment is a field name and
// whose optional prefix is a type reference (see pkg/typeref):
//
//	"user_id"                  a field of the enriched message
//	"ProjectCreated.name"      the name field of ProjectCreated
//	"context.timestamp"        a field of the event context
//
// A (by) option may list alternatives separated by a pipe:
//
//	"ProjectCreated.name | ProjectRenamed.new_name"
package fieldref
