package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen"
	"github.com/SpineEventEngine/base-sub010/pkg/descriptors/descriptorstest"
	"github.com/SpineEventEngine/base-sub010/pkg/selector"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "io.spine.base.UuidValue", cfg.Interfaces.UuidMessage)
	assert.Equal(t, "io.spine.base.EntityState", cfg.Interfaces.EntityState)
	require.Len(t, cfg.Interfaces.Patterns, 3)
	assert.Equal(t, "commands.proto", cfg.Interfaces.Patterns[0].Pattern.Suffix)
	assert.Equal(t, codegen.UuidMethodFactory, cfg.Methods.UuidMessage)
	assert.True(t, cfg.UserOptions)
	assert.True(t, cfg.Enrichment.Validate)
	assert.Equal(t, 1, cfg.Generation.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "spine-mc.yaml", `
interfaces:
  entity_state: com.acme.State
  patterns:
    - pattern: {suffix: test_events.proto}
      interface: com.acme.TestEvent
generation:
  workers: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "com.acme.State", cfg.Interfaces.EntityState)
	assert.Equal(t, "io.spine.base.UuidValue", cfg.Interfaces.UuidMessage)
	require.Len(t, cfg.Interfaces.Patterns, 1)
	assert.Equal(t, "com.acme.TestEvent", cfg.Interfaces.Patterns[0].Interface)
	assert.Equal(t, 4, cfg.Generation.Workers)
	assert.True(t, cfg.UserOptions)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "no pattern member",
			content: `
methods:
  patterns:
    - pattern: {}
      factory: x
`,
			wantErr: ErrInvalidPattern,
		},
		{
			name: "two pattern members",
			content: `
interfaces:
  patterns:
    - pattern: {suffix: a.proto, prefix: b}
      interface: com.acme.A
`,
			wantErr: ErrInvalidPattern,
		},
		{
			name: "negative workers",
			content: `
generation:
  workers: -1
`,
			wantErr: ErrInvalidConfig,
		},
		{
			name: "unknown log format",
			content: `
observability:
  log_format: xml
`,
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "spine-mc.yaml", tt.content)
			_, err := Load(path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_InvalidRegex(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "spine-mc.yaml", `
fields:
  patterns:
    - pattern: {regex: "[a-"}
      factory: x
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, selector.ErrInvalidRegex)
}

func TestLoadFromDir(t *testing.T) {
	t.Run("falls back to defaults", func(t *testing.T) {
		cfg, err := LoadFromDir(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("finds hidden file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ".spine-mc.yml", "user_options: false\n")

		cfg, err := LoadFromDir(dir)
		require.NoError(t, err)
		assert.False(t, cfg.UserOptions)
	})
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Exclude = []string{"acme/internal/"}
	cfg.Fields.Patterns = []PatternFactory{{
		Pattern: FilePatternConfig{Regex: ".*state\\.proto"},
		Factory: codegen.FieldNameConstantsFactory,
	}}

	path := filepath.Join(t.TempDir(), "spine-mc.yaml")
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestFilePatternConfig_Selector(t *testing.T) {
	p, err := FilePatternConfig{Prefix: "acme/"}.Selector()
	require.NoError(t, err)
	assert.Equal(t, selector.Prefix("acme/").Pattern(), p.Pattern())

	p, err = FilePatternConfig{Regex: ".*_test\\.proto"}.Selector()
	require.NoError(t, err)
	assert.True(t, p.TestFile("acme/a_test.proto"))

	_, err = FilePatternConfig{Suffix: "  "}.Selector()
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestTasks_Default(t *testing.T) {
	tasks, err := Default().Tasks(nil, nil)
	require.NoError(t, err)

	var names []string
	for _, task := range tasks.List() {
		names = append(names, task.Name())
	}
	assert.Equal(t, []string{
		codegen.TaskUuidInterface,
		codegen.TaskEntityStateInterface,
		codegen.TaskPatternInterface,
		codegen.TaskPatternInterface,
		codegen.TaskPatternInterface,
		codegen.TaskUserInterfaces,
		codegen.TaskGenerateMethods,
	}, names)
}

func TestTasks_LaterPatternWins(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "spine-mc.yaml", `
interfaces:
  patterns:
    - pattern: {suffix: test_events.proto}
      interface: com.acme.First
    - pattern: {suffix: state.proto}
      interface: com.acme.State
    - pattern: {suffix: test_events.proto}
      interface: com.acme.Second
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	tasks, err := cfg.Tasks(nil, nil)
	require.NoError(t, err)

	var patterns []string
	for _, task := range tasks.List() {
		if it, ok := task.(*codegen.InterfaceTask); ok && task.Name() == codegen.TaskPatternInterface {
			patterns = append(patterns, it.Interface().Name)
		}
	}
	assert.Equal(t, []string{"com.acme.Second", "com.acme.State"}, patterns)

	set := descriptorstest.FileSet(t)
	arts, err := tasks.GenerateFor(descriptorstest.Message(t, set, "acme.sales.ProjectCreated"))
	require.NoError(t, err)
	var contents []string
	for _, a := range arts {
		if a.InsertionPoint == "message_implements:acme.sales.ProjectCreated" {
			contents = append(contents, a.Content)
		}
	}
	assert.Equal(t, []string{"com.acme.Second,"}, contents)
}

func TestTasks_TypeInterfacesAndFactories(t *testing.T) {
	cfg := Default()
	cfg.Interfaces.Patterns = nil
	cfg.UserOptions = false
	cfg.Interfaces.Messages = []TypeInterface{
		{Type: "acme.sales.Summary", Interface: "com.acme.Totals"},
	}
	cfg.Fields.Patterns = []PatternFactory{{
		Pattern: FilePatternConfig{Suffix: "state.proto"},
		Factory: codegen.FieldNameConstantsFactory,
	}}

	tasks, err := cfg.Tasks(nil, nil)
	require.NoError(t, err)

	set := descriptorstest.FileSet(t)
	arts, err := tasks.GenerateFor(descriptorstest.Message(t, set, "acme.sales.Summary"))
	require.NoError(t, err)

	var implements, scope int
	for _, a := range arts {
		switch a.InsertionPoint {
		case "message_implements:acme.sales.Summary":
			implements++
			assert.Equal(t, "com.acme.Totals,", a.Content)
		case "class_scope:acme.sales.Summary":
			scope++
		}
	}
	assert.Equal(t, 1, implements)
	assert.Equal(t, 1, scope)
}

func TestTasks_JoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Methods.UuidMessage = "NoSuchFactory"
	cfg.Fields.Patterns = []PatternFactory{{
		Pattern: FilePatternConfig{},
		Factory: codegen.FieldNameConstantsFactory,
	}}

	_, err := cfg.Tasks(nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, codegen.ErrUnknownFactory)
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SPINE_MC_LOG_LEVEL", "debug")
	t.Setenv("SPINE_MC_LOG_FORMAT", "json")
	t.Setenv("SPINE_MC_WORKERS", "8")
	t.Setenv("SPINE_MC_OTEL_ENDPOINT", "localhost:4317")
	t.Setenv("SPINE_MC_OTEL_INSECURE", "true")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
	assert.Equal(t, 8, cfg.Generation.Workers)
	assert.Equal(t, "localhost:4317", cfg.Observability.OTelEndpoint)
	assert.True(t, cfg.Observability.OTelInsecure)
}

func TestApplyEnv_IgnoresInvalidWorkers(t *testing.T) {
	t.Setenv("SPINE_MC_WORKERS", "many")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, 1, cfg.Generation.Workers)
}
