package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrStage     = "stage"
	attrStrategy  = "strategy"
	attrStatus    = "status"
	attrOperation = "operation"
	attrTool      = "tool"
	attrFileID    = "file_id"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// Download metrics
	downloadAttemptsTotal metric.Int64Counter
	downloadBytesTotal    metric.Int64Counter

	// Pipeline stage metrics
	stageRunsTotal metric.Int64Counter
	stageDuration  metric.Float64Histogram

	// Media metrics
	audioSegmentsTotal metric.Int64Counter

	// OpenAI API metrics
	apiCallsTotal   metric.Int64Counter
	apiCallDuration metric.Float64Histogram

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.downloadAttemptsTotal, err = meter.Int64Counter(
		"download_attempts_total",
		metric.WithDescription("Total number of download strategy attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create download_attempts_total counter: %w", err)
	}

	m.downloadBytesTotal, err = meter.Int64Counter(
		"download_bytes_total",
		metric.WithDescription("Total number of video bytes downloaded"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create download_bytes_total counter: %w", err)
	}

	m.stageRunsTotal, err = meter.Int64Counter(
		"pipeline_stage_runs_total",
		metric.WithDescription("Total number of pipeline stage executions"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline_stage_runs_total counter: %w", err)
	}

	m.stageDuration, err = meter.Float64Histogram(
		"pipeline_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 1.0, 5.0, 15.0, 60.0, 300.0, 900.0, 1800.0, 3600.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline_stage_duration_seconds histogram: %w", err)
	}

	m.audioSegmentsTotal, err = meter.Int64Counter(
		"audio_segments_total",
		metric.WithDescription("Total number of audio segments produced for transcription"),
		metric.WithUnit("{segment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio_segments_total counter: %w", err)
	}

	m.apiCallsTotal, err = meter.Int64Counter(
		"openai_api_calls_total",
		metric.WithDescription("Total number of OpenAI API calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai_api_calls_total counter: %w", err)
	}

	m.apiCallDuration, err = meter.Float64Histogram(
		"openai_api_call_duration_seconds",
		metric.WithDescription("OpenAI API call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai_api_call_duration_seconds histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

func statusLabel(success bool) string {
	if success {
		return StatusSuccess
	}
	return StatusError
}

// RecordDownloadAttempt records one attempt of a download strategy.
// It satisfies the recorder interface of the download package.
func (m *Metrics) RecordDownloadAttempt(ctx context.Context, strategy string, success bool) {
	if m.downloadAttemptsTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStrategy, strategy),
		attribute.String(attrStatus, statusLabel(success)),
	}

	m.downloadAttemptsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDownloadBytes records the size of a completed download.
func (m *Metrics) RecordDownloadBytes(ctx context.Context, strategy string, bytes int64) {
	if m.downloadBytesTotal == nil {
		return // Instrumentation not initialized
	}

	m.downloadBytesTotal.Add(ctx, bytes, metric.WithAttributes(
		attribute.String(attrStrategy, strategy),
	))
}

// RecordStageDuration records one pipeline stage execution with its duration.
// It satisfies the recorder interface of the pipeline package.
//
// Parameters:
//   - stage: pipeline stage name (download, transcribe, summarize)
//   - elapsed: time taken by the stage
//   - success: whether the stage completed without error
func (m *Metrics) RecordStageDuration(ctx context.Context, stage string, elapsed time.Duration, success bool) {
	if m.stageRunsTotal == nil || m.stageDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStage, stage),
		attribute.String(attrStatus, statusLabel(success)),
	}

	m.stageRunsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.stageDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
}

// RecordSegments records how many audio segments a video was split into.
// The fileID label is only added when detailedLabels is enabled.
func (m *Metrics) RecordSegments(ctx context.Context, fileID string, count int) {
	if m.audioSegmentsTotal == nil {
		return // Instrumentation not initialized
	}

	var attrs []attribute.KeyValue
	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels && fileID != "" {
		attrs = append(attrs, attribute.String(attrFileID, fileID))
	}

	m.audioSegmentsTotal.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

// RecordAPICall records an OpenAI API call with operation, status, and duration.
//
// Parameters:
//   - operation: API operation name (transcription, summary)
//   - status: result status ("success" or "error")
//   - duration: time taken for the call
func (m *Metrics) RecordAPICall(ctx context.Context, operation, status string, duration time.Duration) {
	if m.apiCallsTotal == nil || m.apiCallDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.apiCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.apiCallDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
