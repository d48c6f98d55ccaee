// Package pipeline_tools provides MCP tools for driving the recording
// pipeline: downloading view-only Drive recordings, transcribing them,
// generating summaries and inspecting the recorded pipeline state.
//
// All tools are registered through RegisterPipelineTools and wrapped with
// invocation metrics via the common package.
package pipeline_tools
