package observability

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Format is the output format of the logger
type Format string

const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
)

// NewLogger creates a logrus logger with the given level and format
func NewLogger(level string, format Format, output io.Writer) (*logrus.Logger, error) {
	if output == nil {
		output = os.Stderr
	}
	if level == "" {
		level = logrus.InfoLevel.String()
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log := logrus.New()
	log.SetOutput(output)
	log.SetLevel(lvl)

	switch format {
	case JSONFormat:
		log.SetFormatter(&logrus.JSONFormatter{})
	case TextFormat, "":
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return log, nil
}

// Discard returns a logger that drops everything
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// OrDiscard returns log, or a discarding logger when log is nil
func OrDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return Discard()
	}
	return log
}

// NewRunID returns an identifier for one generation run
func NewRunID() string {
	return uuid.NewString()
}

type contextKey string

const (
	// RunIDKey is the context key for the run ID
	RunIDKey contextKey = "run_id"
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
)

// WithRunID adds a run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from context
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, log logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, LoggerKey, log)
}

// FromContext returns the logger of the context carrying the run ID field.
// Without a logger in the context a discarding logger is returned.
func FromContext(ctx context.Context) logrus.FieldLogger {
	log, ok := ctx.Value(LoggerKey).(logrus.FieldLogger)
	if !ok || log == nil {
		log = Discard()
	}
	if runID := GetRunID(ctx); runID != "" {
		log = log.WithField("run_id", runID)
	}
	return log
}
