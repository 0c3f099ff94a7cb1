// Package descriptorstest provides proto fixtures for tests of packages that
// work on descriptors.
package descriptorstest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
)

// IdentifiersProto declares identifier types, one of which is a UUID value
const IdentifiersProto = `syntax = "proto3";

package acme.sales;

option java_package = "com.acme.sales";
option java_multiple_files = true;

message ProjectId {
    string uuid = 1;
}

message TaskId {
    string value = 1;
}

message CustomerId {
    string uuid = 1;
    string region = 2;
}

message SequenceId {
    int64 uuid = 1;
}
`

// EventsProto declares events, one nested message and an enrichment
const EventsProto = `syntax = "proto3";

package acme.sales;

import "spine/options.proto";
import "acme/sales/identifiers.proto";

option java_package = "com.acme.sales.event";
option java_multiple_files = true;

message ProjectCreated {
    ProjectId id = 1;
    string name = 2;

    message Inner {
        string note = 1;
    }
}

message ProjectRenamed {
    ProjectId id = 1;
    string new_name = 2;
}

message ProjectNameEnrichment {
    option (spine.enrichment_for) = "ProjectCreated,ProjectRenamed";

    string name = 1 [(spine.by) = "ProjectCreated.name | ProjectRenamed.new_name"];
    ProjectId id = 2;
}
`

// StateProto declares entity states and messages carrying (is) options
const StateProto = `syntax = "proto3";

package acme.sales;

import "spine/options.proto";
import "acme/sales/identifiers.proto";

option java_package = "com.acme.sales.state";
option java_outer_classname = "StateProto";
option (spine.every_is) = {java_type: "SalesState"};

message Project {
    option (spine.entity) = {kind: AGGREGATE};

    ProjectId id = 1;
    string name = 2;
}

message Report {
    option (spine.entity) = {kind: PROJECTION};
}

message Draft {
    option (spine.is) = {java_type: "com.acme.sales.Editable", generate: true};

    string text = 1;
}

message Summary {
    int32 total = 1;

    message Line {
        string text = 1;
    }
}
`

// OtherProto lives in a sub-package of acme.sales
const OtherProto = `syntax = "proto3";

package acme.sales.nested;

message Audit {
    string who = 1;
}
`

// ContextProto declares the event context message
const ContextProto = `syntax = "proto3";

package spine.core;

option java_package = "io.spine.core";
option java_multiple_files = true;

message EventContext {
    string producer = 1;
    int64 timestamp = 2;
}
`

// Sources returns all fixtures keyed by their import path
func Sources() map[string]string {
	return map[string]string{
		"acme/sales/identifiers.proto":   IdentifiersProto,
		"acme/sales/test_events.proto":   EventsProto,
		"acme/sales/state.proto":         StateProto,
		"acme/sales/nested/audit.proto":  OtherProto,
		"spine/core/event_context.proto": ContextProto,
	}
}

// MustCompile compiles the sources or fails the test
func MustCompile(t testing.TB, sources map[string]string, opts ...descriptors.LoadOption) *descriptors.FileSet {
	t.Helper()
	set, err := descriptors.Compile(context.Background(), sources, opts...)
	require.NoError(t, err)
	return set
}

// FileSet compiles all fixtures
func FileSet(t testing.TB) *descriptors.FileSet {
	t.Helper()
	return MustCompile(t, Sources())
}

// Message finds a message by full name or fails the test
func Message(t testing.TB, set *descriptors.FileSet, fullName string) *descriptors.MessageType {
	t.Helper()
	msg, ok := set.FindMessage(fullName)
	require.True(t, ok, "message %s not found", fullName)
	return msg
}
