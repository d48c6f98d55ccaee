// Package instrumentation provides OpenTelemetry metrics and tracing for the
// recording pipeline.
//
// A Provider owns the meter and tracer providers and is configured through
// environment variables (see DefaultConfig). Metrics can be exported via
// Prometheus, OTLP or stdout; tracing via OTLP or stdout, or disabled
// entirely. When instrumentation is disabled the Provider hands out no-op
// recorders, so callers never need to branch on whether telemetry is active.
//
// The Metrics type records download strategy attempts, pipeline stage
// durations, audio segment counts, OpenAI API calls and MCP tool
// invocations. High-cardinality labels such as the Drive file identifier are
// only attached when DetailedLabels is enabled.
package instrumentation
