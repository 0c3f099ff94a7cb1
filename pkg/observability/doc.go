// Package observability provides logging, Prometheus metrics and OpenTelemetry
// tracing for generation runs.
//
// # Logging
//
//	log, err := observability.NewLogger("debug", observability.TextFormat, os.Stderr)
//	log.WithField("run_id", observability.NewRunID()).Info("Generation started")
//
// # Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.ObserveRun(observability.ModeSequential, time.Since(start))
//	err := metrics.WriteTextfile("spine-mc.prom")
//
// # Tracing
//
//	shutdown, err := observability.InitTracing(ctx, observability.OTelConfig{
//		Endpoint:    "otel-collector:4317",
//		ServiceName: "spine-mc",
//	}, log)
//	defer shutdown(ctx)
//
// # Related Packages
//
//   - pkg/codegen: records spans and metrics for each generation pass
//   - pkg/cli: builds the logger from flags
package observability
