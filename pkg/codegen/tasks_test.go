package codegen

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen/artifacts"
	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
	"github.com/SpineEventEngine/base-sub010/pkg/descriptors/descriptorstest"
	"github.com/SpineEventEngine/base-sub010/pkg/observability"
	"github.com/SpineEventEngine/base-sub010/pkg/selector"
)

const ordersProto = `syntax = "proto3";

package acme.orders;

option java_package = "com.acme.orders";
option java_multiple_files = true;

message OrderId {
    string uuid = 1;
}

message OrderPlaced {
    OrderId id = 1;

    message Line {
        string sku = 1;
    }
}

message OrderShipped {
    OrderId id = 1;
}
`

func ordersSet(t *testing.T) *descriptors.FileSet {
	return descriptorstest.MustCompile(t, map[string]string{"acme/orders/events.proto": ordersProto})
}

func ordersTasks(t *testing.T, opts *Options) *Tasks {
	uuid, err := NewUuidInterface("io.spine.base.UuidValue")
	require.NoError(t, err)
	events, err := NewPatternInterface(selector.Suffix("events.proto"), "io.spine.base.EventMessage")
	require.NoError(t, err)
	methods, err := NewGenerateMethods(selector.UuidValue(), UuidMethodFactory, nil)
	require.NoError(t, err)
	return NewTasks(opts, uuid, events, methods)
}

type point struct {
	Path           string
	InsertionPoint string
}

func points(arts []artifacts.Artifact) []point {
	result := make([]point, 0, len(arts))
	for _, a := range arts {
		result = append(result, point{a.Path, a.InsertionPoint})
	}
	return result
}

func TestTasks_GenerateOrder(t *testing.T) {
	tasks := ordersTasks(t, nil)

	got, err := tasks.Generate(context.Background(), ordersSet(t))
	require.NoError(t, err)

	want := []point{
		{"com/acme/orders/OrderId.java", "message_implements:acme.orders.OrderId"},
		{"com/acme/orders/OrderId.java", "message_implements:acme.orders.OrderId"},
		{"com/acme/orders/OrderId.java", "class_scope:acme.orders.OrderId"},
		{"com/acme/orders/OrderId.java", "class_scope:acme.orders.OrderId"},
		{"com/acme/orders/OrderPlaced.java", "message_implements:acme.orders.OrderPlaced"},
		{"com/acme/orders/OrderShipped.java", "message_implements:acme.orders.OrderShipped"},
	}
	if diff := cmp.Diff(want, points(got)); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "io.spine.base.UuidValue<OrderId>,", got[0].Content)
	assert.Equal(t, "io.spine.base.EventMessage,", got[1].Content)
}

func TestTasks_ParallelMatchesSequential(t *testing.T) {
	set := descriptorstest.FileSet(t)
	uuid, err := NewUuidInterface("io.spine.base.UuidValue")
	require.NoError(t, err)
	all, err := NewPatternInterface(selector.All(), "com.acme.Everything")
	require.NoError(t, err)
	fields, err := NewGenerateFields(selector.All(), FieldNameConstantsFactory, nil)
	require.NoError(t, err)
	tasks := NewTasks(nil, uuid, all, NewUserInterfaces(), fields)

	sequential, err := tasks.Generate(context.Background(), set)
	require.NoError(t, err)
	require.NotEmpty(t, sequential)

	for _, workers := range []int{0, 2, 8} {
		parallel, err := tasks.GenerateParallel(context.Background(), set, workers)
		require.NoError(t, err)
		if diff := cmp.Diff(sequential, parallel); diff != "" {
			t.Errorf("GenerateParallel(%d) mismatch (-want +got):\n%s", workers, diff)
		}
	}
}

func TestTasks_ErrorAbortsPass(t *testing.T) {
	entity, err := NewEntityStateInterface("io.spine.base.EntityState")
	require.NoError(t, err)
	tasks := NewTasks(nil, entity)

	_, err = tasks.Generate(context.Background(), descriptorstest.FileSet(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFirstGenericParam)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, TaskEntityStateInterface, genErr.Task)
	assert.Equal(t, "acme.sales.Report", genErr.Message)

	_, err = tasks.GenerateParallel(context.Background(), descriptorstest.FileSet(t), 4)
	assert.ErrorIs(t, err, ErrFirstGenericParam)
}

type conflictingTask struct {
	content string
}

func (c conflictingTask) Name() string                       { return "conflicting" }
func (c conflictingTask) Selector() selector.MessageSelector { return selector.All() }

func (c conflictingTask) GenerateFor(msg *descriptors.MessageType) ([]artifacts.Artifact, error) {
	return []artifacts.Artifact{{Path: "com/acme/Same.java", Content: c.content + msg.Name()}}, nil
}

func TestTasks_ConflictingFiles(t *testing.T) {
	tasks := NewTasks(nil, conflictingTask{content: "a"})

	_, err := tasks.Generate(context.Background(), ordersSet(t))
	assert.ErrorIs(t, err, ErrConflictingArtifact)
}

func TestTasks_DuplicateFilesEmittedOnce(t *testing.T) {
	tasks := NewTasks(nil, NewUserInterfaces(), NewUserInterfaces())

	got, err := tasks.Generate(context.Background(), descriptorstest.FileSet(t))
	require.NoError(t, err)

	files := 0
	for _, a := range got {
		if a.IsNewFile() {
			files++
		}
	}
	assert.Equal(t, 1, files)
}

type panicTask struct{}

func (panicTask) Name() string                       { return "panic" }
func (panicTask) Selector() selector.MessageSelector { return selector.All() }
func (panicTask) GenerateFor(*descriptors.MessageType) ([]artifacts.Artifact, error) {
	panic("boom")
}

func TestTasks_ParallelRecoversPanics(t *testing.T) {
	tasks := NewTasks(nil, panicTask{})

	_, err := tasks.GenerateParallel(context.Background(), ordersSet(t), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: boom")
}

func TestTasks_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ordersTasks(t, nil).Generate(ctx, ordersSet(t))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTasks_Instrumentation(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	tasks := ordersTasks(t, &Options{
		Metrics: metrics,
		Tracer:  provider.Tracer("test"),
	})
	_, err := tasks.Generate(context.Background(), ordersSet(t))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "codegen.Generate", spans[0].Name())

	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.MessagesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ArtifactsTotal.WithLabelValues(TaskUuidInterface, observability.KindInsertion)))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.ArtifactsTotal.WithLabelValues(TaskPatternInterface, observability.KindInsertion)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ArtifactsTotal.WithLabelValues(TaskGenerateMethods, observability.KindInsertion)))
}

func TestTasks_AddAndList(t *testing.T) {
	tasks := NewTasks(nil)
	tasks.Add(nil, NewUserInterfaces())

	assert.Equal(t, 1, tasks.Len())
	assert.Equal(t, TaskUserInterfaces, tasks.List()[0].Name())
}
