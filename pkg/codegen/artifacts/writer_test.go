package artifacts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messageSource = `package com.acme;

public final class ProjectId extends com.google.protobuf.GeneratedMessageV3 implements
    // @@protoc_insertion_point(message_implements:acme.ProjectId)
    ProjectIdOrBuilder {
  // @@protoc_insertion_point(class_scope:acme.ProjectId)
}
`

func TestInsert(t *testing.T) {
	tests := []struct {
		name  string
		point string
		text  string
		want  string
	}{
		{
			name:  "implements",
			point: "message_implements:acme.ProjectId",
			text:  "io.spine.base.UuidValue<ProjectId>,",
			want: `package com.acme;

public final class ProjectId extends com.google.protobuf.GeneratedMessageV3 implements
    io.spine.base.UuidValue<ProjectId>,
    // @@protoc_insertion_point(message_implements:acme.ProjectId)
    ProjectIdOrBuilder {
  // @@protoc_insertion_point(class_scope:acme.ProjectId)
}
`,
		},
		{
			name:  "multi-line class scope",
			point: "class_scope:acme.ProjectId",
			text:  "public static ProjectId generate() {\n  return null;\n}\n",
			want: `package com.acme;

public final class ProjectId extends com.google.protobuf.GeneratedMessageV3 implements
    // @@protoc_insertion_point(message_implements:acme.ProjectId)
    ProjectIdOrBuilder {
  public static ProjectId generate() {
    return null;
  }
  // @@protoc_insertion_point(class_scope:acme.ProjectId)
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Insert(messageSource, tt.point, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInsert_MissingMarker(t *testing.T) {
	_, err := Insert(messageSource, "class_scope:acme.Other", "x")
	assert.ErrorIs(t, err, ErrInsertionPointNotFound)
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "com", "acme", "ProjectId.java")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte(messageSource), 0o644))

	w := NewWriter(dir, nil)
	err := w.Write(context.Background(), []Artifact{
		ImplementInterface("com/acme/ProjectId.java", "acme.ProjectId", "com.acme.First"),
		ImplementInterface("com/acme/ProjectId.java", "acme.ProjectId", "com.acme.Second"),
		InterfaceFile("com.acme", "First"),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "    com.acme.First,\n    com.acme.Second,\n    // @@protoc_insertion_point(message_implements:acme.ProjectId)")

	created, err := os.ReadFile(filepath.Join(dir, "com", "acme", "First.java"))
	require.NoError(t, err)
	assert.Contains(t, string(created), "public interface First")
}

func TestWriter_MissingTarget(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)
	err := w.Write(context.Background(), []Artifact{
		ImplementInterface("com/acme/Missing.java", "acme.Missing", "com.acme.I"),
	})
	assert.ErrorIs(t, err, ErrInsertionTargetMissing)
}

func TestWriter_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWriter(t.TempDir(), nil)
	err := w.Write(ctx, []Artifact{InterfaceFile("x", "I")})
	assert.ErrorIs(t, err, context.Canceled)
}
