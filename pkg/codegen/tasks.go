package codegen

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen/artifacts"
	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
	"github.com/SpineEventEngine/base-sub010/pkg/observability"
)

// Options configures the instrumentation of Tasks
type Options struct {
	Log     logrus.FieldLogger
	Metrics *observability.Metrics
	Tracer  trace.Tracer
}

// Tasks runs an ordered list of tasks over a file set
type Tasks struct {
	tasks   []Task
	log     logrus.FieldLogger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// NewTasks creates the aggregate. A nil opts disables logging and metrics
// and uses the global tracer.
func NewTasks(opts *Options, tasks ...Task) *Tasks {
	if opts == nil {
		opts = &Options{}
	}
	t := &Tasks{
		log:     observability.OrDiscard(opts.Log),
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
	}
	if t.tracer == nil {
		t.tracer = observability.Tracer()
	}
	t.Add(tasks...)
	return t
}

// Add appends tasks; nil tasks are skipped
func (t *Tasks) Add(tasks ...Task) {
	for _, task := range tasks {
		if task != nil {
			t.tasks = append(t.tasks, task)
		}
	}
}

// List returns the tasks in registration order
func (t *Tasks) List() []Task {
	return append([]Task(nil), t.tasks...)
}

// Len returns the number of tasks
func (t *Tasks) Len() int {
	return len(t.tasks)
}

// GenerateFor runs every task against msg and concatenates their output in
// registration order
func (t *Tasks) GenerateFor(msg *descriptors.MessageType) ([]artifacts.Artifact, error) {
	var result []artifacts.Artifact
	for _, task := range t.tasks {
		arts, err := task.GenerateFor(msg)
		if err != nil {
			t.metrics.RecordError(task.Name())
			return nil, &GenerationError{Task: task.Name(), Message: msg.FullName(), Err: err}
		}
		if len(arts) == 0 {
			continue
		}
		for _, a := range arts {
			t.metrics.AddArtifact(task.Name(), a.IsNewFile())
		}
		t.log.WithFields(logrus.Fields{
			"task":      task.Name(),
			"message":   msg.FullName(),
			"artifacts": len(arts),
		}).Debug("Task produced artifacts")
		result = append(result, arts...)
	}
	return result, nil
}

// Generate runs every task against every message of the files to generate.
// Repeated artifacts are emitted once.
func (t *Tasks) Generate(ctx context.Context, set *descriptors.FileSet) ([]artifacts.Artifact, error) {
	msgs := set.Messages()
	ctx, span := t.startSpan(ctx, "codegen.Generate", len(msgs))
	defer span.End()
	start := time.Now()

	var result []artifacts.Artifact
	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return nil, t.fail(span, err)
		}
		arts, err := t.GenerateFor(msg)
		if err != nil {
			return nil, t.fail(span, err)
		}
		result = append(result, arts...)
	}
	return t.finish(span, observability.ModeSequential, start, len(msgs), result)
}

// GenerateParallel is like Generate but processes messages on up to workers
// goroutines. The output is the same as the one of Generate.
func (t *Tasks) GenerateParallel(ctx context.Context, set *descriptors.FileSet, workers int) ([]artifacts.Artifact, error) {
	if workers <= 1 {
		return t.Generate(ctx, set)
	}

	msgs := set.Messages()
	ctx, span := t.startSpan(ctx, "codegen.GenerateParallel", len(msgs))
	defer span.End()
	start := time.Now()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	// Each worker owns one slot; the merge below restores message order.
	results := make([][]artifacts.Artifact, len(msgs))
	for i, msg := range msgs {
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = observability.RecoverError(t.log, "codegen worker", r)
				}
			}()
			if err := ctx.Err(); err != nil {
				return err
			}
			arts, err := t.GenerateFor(msg)
			if err != nil {
				return err
			}
			results[i] = arts
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, t.fail(span, err)
	}

	var merged []artifacts.Artifact
	for _, arts := range results {
		merged = append(merged, arts...)
	}
	return t.finish(span, observability.ModeParallel, start, len(msgs), merged)
}

func (t *Tasks) startSpan(ctx context.Context, name string, messages int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int("spine_mc.tasks", len(t.tasks)),
		attribute.Int("spine_mc.messages", messages),
	))
}

func (t *Tasks) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (t *Tasks) finish(span trace.Span, mode string, start time.Time, messages int, arts []artifacts.Artifact) ([]artifacts.Artifact, error) {
	deduped, err := artifacts.Dedupe(arts)
	if err != nil {
		return nil, t.fail(span, err)
	}
	elapsed := time.Since(start)
	t.metrics.AddMessages(messages)
	t.metrics.ObserveRun(mode, elapsed)
	span.SetAttributes(attribute.Int("spine_mc.artifacts", len(deduped)))

	t.log.WithFields(logrus.Fields{
		"mode":      mode,
		"messages":  messages,
		"artifacts": len(deduped),
		"duration":  elapsed,
	}).Debug("Generation finished")
	return deduped, nil
}
