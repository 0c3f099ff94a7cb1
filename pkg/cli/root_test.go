package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen/artifacts"
	"github.com/SpineEventEngine/base-sub010/pkg/config"
	"github.com/SpineEventEngine/base-sub010/pkg/fieldref"
	"github.com/SpineEventEngine/base-sub010/pkg/typeref"
)

const idsProto = `syntax = "proto3";

package acme.orders;

option java_package = "com.acme.orders";
option java_multiple_files = true;

message OrderId {
    string uuid = 1;
}
`

const eventsProto = `syntax = "proto3";

package acme.orders;

import "acme/orders/ids.proto";

option java_package = "com.acme.orders";
option java_multiple_files = true;

message OrderPlaced {
    OrderId id = 1;
}
`

const orderIdSource = `package com.acme.orders;

public final class OrderId extends com.google.protobuf.GeneratedMessageV3 implements
    // @@protoc_insertion_point(message_implements:acme.orders.OrderId)
    OrderIdOrBuilder {
  // @@protoc_insertion_point(class_scope:acme.orders.OrderId)
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// protoRoot creates an import root holding the given files
func protoRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		writeFile(t, filepath.Join(root, filepath.FromSlash(name)), content)
	}
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "spine-mc", root.Name())

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"generate", "refs", "config"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "log-level", "log-format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestExecute_InvalidLogLevel(t *testing.T) {
	_, err := execute(t, "refs", "--log-level", "loud", "name")
	assert.Error(t, err)
}

func TestExecute_UnknownCommand(t *testing.T) {
	_, err := execute(t, "compile")
	assert.Error(t, err)
}

func TestRefs_ByOption(t *testing.T) {
	out, err := execute(t, "refs", "ProjectCreated.name | context.producer | name")
	require.NoError(t, err)

	assert.Contains(t, out, "ProjectCreated.name\n")
	assert.Contains(t, out, "field: name")
	assert.Contains(t, out, "type: direct ProjectCreated")
	assert.Contains(t, out, "field: producer")
	assert.Contains(t, out, "source: event context")
	assert.Contains(t, out, "source: enrichment message")
}

func TestRefs_TypeComposite(t *testing.T) {
	out, err := execute(t, "refs", "--type", "Created,acme.orders.*")
	require.NoError(t, err)

	assert.Contains(t, out, "type: composite")
	assert.Contains(t, out, "- direct Created")
	assert.Contains(t, out, "- in-package acme.orders.*")
}

func TestRefs_Matches(t *testing.T) {
	root := protoRoot(t, map[string]string{
		"acme/orders/ids.proto":    idsProto,
		"acme/orders/events.proto": eventsProto,
	})

	out, err := execute(t, "refs", "--type", "-I", root, "acme.orders.*", "Missing")
	require.NoError(t, err)

	assert.Contains(t, out, "acme.orders.OrderId")
	assert.Contains(t, out, "acme.orders.OrderPlaced")
	assert.Contains(t, out, "matches: none")
}

func TestRefs_Errors(t *testing.T) {
	_, err := execute(t, "refs", "Project.*")
	assert.ErrorIs(t, err, fieldref.ErrInvalidFieldRef)

	_, err = execute(t, "refs", "--type", "A,,B")
	assert.ErrorIs(t, err, typeref.ErrInvalidReference)

	_, err = execute(t, "refs")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spine-mc.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = execute(t, "config", "init", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "config", "init", "--force", path)
	assert.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spine-mc.yaml")
	writeFile(t, path, "interfaces:\n  entity_state: com.acme.State\n")

	out, err := execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "entity_state: com.acme.State")
	assert.Contains(t, out, "uuid_message: io.spine.base.UuidValue")
}

func TestGenerate_InputValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no input", []string{"generate", "--dry-run"}, ErrNoInput},
		{"both inputs", []string{"generate", "--dry-run", "-I", ".", "--descriptor-set", "x.desc"}, ErrConflictingInput},
		{"no output", []string{"generate", "-I", "."}, ErrNoOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerate_DryRun(t *testing.T) {
	root := protoRoot(t, map[string]string{
		"acme/orders/ids.proto":    idsProto,
		"acme/orders/events.proto": eventsProto,
	})

	for _, workers := range []string{"1", "4"} {
		t.Run("workers "+workers, func(t *testing.T) {
			out, err := execute(t, "generate", "-I", root, "--dry-run", "--workers", workers)
			require.NoError(t, err)

			assert.Contains(t, out, "com/acme/orders/OrderId.java@message_implements:acme.orders.OrderId\nio.spine.base.UuidValue<OrderId>,\n")
			assert.Contains(t, out, "com/acme/orders/OrderId.java@class_scope:acme.orders.OrderId\n")
			assert.Contains(t, out, "com/acme/orders/OrderPlaced.java@message_implements:acme.orders.OrderPlaced\nio.spine.base.EventMessage,\n")
		})
	}
}

func TestGenerate_NamedFilesOnly(t *testing.T) {
	root := protoRoot(t, map[string]string{
		"acme/orders/ids.proto":    idsProto,
		"acme/orders/events.proto": eventsProto,
	})

	out, err := execute(t, "generate", "-I", root, "--dry-run", "acme/orders/events.proto")
	require.NoError(t, err)
	assert.Contains(t, out, "acme.orders.OrderPlaced")
	assert.NotContains(t, out, "acme.orders.OrderId\n")
}

func TestGenerate_WritesInsertions(t *testing.T) {
	root := protoRoot(t, map[string]string{"acme/orders/ids.proto": idsProto})
	out := t.TempDir()
	target := filepath.Join(out, "com", "acme", "orders", "OrderId.java")
	writeFile(t, target, orderIdSource)
	metrics := filepath.Join(t.TempDir(), "spine-mc.prom")

	_, err := execute(t, "generate", "-I", root, "--out", out, "--metrics-file", metrics)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "    io.spine.base.UuidValue<OrderId>,\n    // @@protoc_insertion_point(message_implements:acme.orders.OrderId)")
	assert.Contains(t, string(data), "public static OrderId generate()")
	assert.Contains(t, string(data), "public static OrderId of(java.lang.String uuid)")

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "spine_mc_messages_total 1")
}

func TestGenerate_MissingTarget(t *testing.T) {
	root := protoRoot(t, map[string]string{"acme/orders/ids.proto": idsProto})

	_, err := execute(t, "generate", "-I", root, "--out", t.TempDir())
	assert.ErrorIs(t, err, artifacts.ErrInsertionTargetMissing)
}

func TestDiscoverProtoFiles(t *testing.T) {
	root := protoRoot(t, map[string]string{
		"b/two.proto":  idsProto,
		"a/one.proto":  idsProto,
		"a/readme.txt": "",
	})

	files, err := discoverProtoFiles([]string{root, root})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one.proto", "b/two.proto"}, files)
}

func TestGenerator_SkipsUnchangedInputs(t *testing.T) {
	root := protoRoot(t, map[string]string{"acme/orders/ids.proto": idsProto})
	out := t.TempDir()
	target := filepath.Join(out, "com", "acme", "orders", "OrderId.java")
	writeFile(t, target, orderIdSource)

	opts := &generateOptions{protoPaths: []string{root}, out: out}
	g, err := newGenerator(config.Default(), opts, nil, &bytes.Buffer{})
	require.NoError(t, err)

	require.NoError(t, g.run(context.Background(), nil))
	first, err := os.ReadFile(target)
	require.NoError(t, err)

	require.NoError(t, g.run(context.Background(), nil))
	second, err := os.ReadFile(target)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, int64(1), g.results.Stats().Hits)
}
