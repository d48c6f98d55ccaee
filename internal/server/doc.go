// Package server provides the dedicated HTTP server that exposes Prometheus
// metrics for the pipeline. Metrics are served on their own port so that the
// MCP stdio transport stays free of HTTP concerns.
package server
