// Package resources provides MCP resources for exposing pipeline data.
// Resources are read-only data sources that MCP clients can fetch: the
// metadata index of all known recordings, and per-recording transcripts
// and summaries addressed by file identifier.
package resources
