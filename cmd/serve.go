package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/imdouglasoliveira/DownMeets/internal/instrumentation"
	"github.com/imdouglasoliveira/DownMeets/internal/resources"
	"github.com/imdouglasoliveira/DownMeets/internal/server"
	"github.com/imdouglasoliveira/DownMeets/internal/tools/pipeline_tools"
)

func newServeCmd() *cobra.Command {
	var (
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server for AI assistants",
		Long: `Start an MCP (Model Context Protocol) server over stdio exposing the
pipeline as tools: downloading recordings, transcribing them, generating
summaries and inspecting pipeline state.

Prometheus metrics can be served on a dedicated port with --metrics-enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(metricsEnabled, metricsAddr)
		},
	}

	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", false, "Serve Prometheus metrics on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")
	return cmd
}

func runServe(metricsEnabled bool, metricsAddr string) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load metrics settings from environment if not set via flags
	if !metricsEnabled && os.Getenv("METRICS_ENABLED") == "true" {
		metricsEnabled = true
	}
	if addr := os.Getenv("METRICS_ADDR"); addr != "" && metricsAddr == server.DefaultMetricsAddr {
		metricsAddr = addr
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtxOrBackground(shutdownCtx)); err != nil {
			fmt.Fprintf(os.Stderr, "Error during instrumentation shutdown: %v\n", err)
		}
	}()

	a, err := newApp(cfg, provider.Metrics(), provider.Metrics())
	if err != nil {
		return err
	}

	var metricsServer *server.MetricsServer
	if metricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(metricsAddr, provider, a.logger)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				a.logger.Error("error during metrics server shutdown", "error", err)
			}
		}()
	}

	mcpSrv := mcpserver.NewMCPServer("downmeets", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	deps := &pipeline_tools.Deps{
		Runner:  a.pipeline,
		Store:   a.store,
		Metrics: provider.Metrics(),
	}
	if err := pipeline_tools.RegisterPipelineTools(mcpSrv, deps); err != nil {
		return fmt.Errorf("failed to register pipeline tools: %w", err)
	}
	if err := resources.RegisterPipelineResources(mcpSrv, a.store); err != nil {
		return fmt.Errorf("failed to register pipeline resources: %w", err)
	}

	return runStdioServer(shutdownCtx, mcpSrv)
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}

// shutdownCtxOrBackground falls back to a background context when the
// shutdown context was already cancelled, so deferred cleanup still runs.
func shutdownCtxOrBackground(ctx context.Context) context.Context {
	if ctx.Err() != nil {
		return context.Background()
	}
	return ctx
}
