// Package cmd implements the command-line interface for downmeets.
//
// This package provides the following commands:
//   - run: Download, transcribe and summarize recordings end to end
//   - download: Fetch recordings without further processing
//   - transcribe: Transcribe downloaded recordings
//   - summarize: Generate summaries from existing transcripts
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//
// The run command is the default command when no subcommand is specified.
package cmd
