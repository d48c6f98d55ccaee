package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	p, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	require.NotNil(t, p.Metrics())

	// The no-op recorder must be safe to use.
	p.Metrics().RecordStageDuration(context.Background(), "download", time.Second, true)

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderStdoutExporters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MetricsExporter = ExporterStdout
	cfg.TracingExporter = ExporterStdout

	p, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	assert.True(t, p.Enabled())
	assert.NotNil(t, p.Metrics())
	assert.NotNil(t, p.Tracer("test"))
}

func TestNewProviderUnsupportedMetricsExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MetricsExporter = "graphite"

	_, err := NewProvider(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported metrics exporter")
}

func TestNewProviderOTLPRequiresEndpoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MetricsExporter = ExporterOTLP
	cfg.OTLPEndpoint = ""

	_, err := NewProvider(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTLP endpoint is required")
}

func TestDisabledProviderTracerIsNoOp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	p, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)

	tracer := p.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "op")
	defer span.End()

	assert.Empty(t, GetTraceID(ctx))
}
