package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imdouglasoliveira/DownMeets/internal/instrumentation"
	"github.com/imdouglasoliveira/DownMeets/internal/logging"
)

func TestNewMetricsServerRequiresProvider(t *testing.T) {
	_, err := NewMetricsServer(":9090", nil, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instrumentation provider is required")
}

func TestNewMetricsServerRequiresEnabledProvider(t *testing.T) {
	cfg := instrumentation.DefaultConfig()
	cfg.Enabled = false

	provider, err := instrumentation.NewProvider(context.Background(), cfg)
	require.NoError(t, err)

	_, err = NewMetricsServer(":9090", provider, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enabled")
}

func TestNewMetricsServerDefaultsAddr(t *testing.T) {
	cfg := instrumentation.DefaultConfig()
	cfg.MetricsExporter = instrumentation.ExporterStdout

	provider, err := instrumentation.NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	s, err := NewMetricsServer("", provider, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, DefaultMetricsAddr, s.Addr())
}

func TestMetricsServerShutdownBeforeStart(t *testing.T) {
	cfg := instrumentation.DefaultConfig()
	cfg.MetricsExporter = instrumentation.ExporterStdout

	provider, err := instrumentation.NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	s, err := NewMetricsServer(":0", provider, logging.Discard())
	require.NoError(t, err)
	assert.NoError(t, s.Shutdown(context.Background()))
}
