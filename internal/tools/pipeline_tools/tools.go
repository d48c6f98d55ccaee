package pipeline_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/imdouglasoliveira/DownMeets/internal/instrumentation"
	"github.com/imdouglasoliveira/DownMeets/internal/pipeline"
	"github.com/imdouglasoliveira/DownMeets/internal/tools/common"
)

// Runner is the subset of the pipeline the tools drive.
type Runner interface {
	ProcessURL(ctx context.Context, url string, mode pipeline.Mode) error
	ProcessVideo(ctx context.Context, videoPath string, mode pipeline.Mode) error
	ProcessTranscript(ctx context.Context, transcriptPath string) error
}

// Deps carries the dependencies shared by all pipeline tools.
type Deps struct {
	Runner  Runner
	Store   *pipeline.Store
	Metrics *instrumentation.Metrics
}

// RegisterPipelineTools registers all recording pipeline tools with the MCP server.
func RegisterPipelineTools(s *mcpserver.MCPServer, deps *Deps) error {
	downloadTool := mcp.NewTool("downmeets_download",
		mcp.WithDescription("Download a view-only Google Drive or Meet recording to the local video directory"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Google Drive sharing URL of the recording (e.g., 'https://drive.google.com/file/d/FILE_ID/view')"),
		),
	)
	s.AddTool(downloadTool, common.InstrumentedToolHandler("downmeets_download", deps.Metrics,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDownload(ctx, request, deps)
		}))

	transcribeTool := mcp.NewTool("downmeets_transcribe",
		mcp.WithDescription("Transcribe a meeting recording to text. Accepts either a sharing URL of an already-downloaded recording or a local video path"),
		mcp.WithString("url",
			mcp.Description("Google Drive sharing URL of a recording that was downloaded earlier"),
		),
		mcp.WithString("video_path",
			mcp.Description("Path to a local video file to transcribe"),
		),
	)
	s.AddTool(transcribeTool, common.InstrumentedToolHandler("downmeets_transcribe", deps.Metrics,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleTranscribe(ctx, request, deps)
		}))

	summarizeTool := mcp.NewTool("downmeets_summarize",
		mcp.WithDescription("Generate a structured meeting summary from an existing transcript"),
		mcp.WithString("url",
			mcp.Description("Google Drive sharing URL of a recording that was transcribed earlier"),
		),
		mcp.WithString("transcript_path",
			mcp.Description("Path to a local transcript file to summarize"),
		),
	)
	s.AddTool(summarizeTool, common.InstrumentedToolHandler("downmeets_summarize", deps.Metrics,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSummarize(ctx, request, deps)
		}))

	processTool := mcp.NewTool("downmeets_process",
		mcp.WithDescription("Run the full pipeline for a recording: download, transcribe and summarize"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Google Drive sharing URL of the recording"),
		),
	)
	s.AddTool(processTool, common.InstrumentedToolHandler("downmeets_process", deps.Metrics,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleProcess(ctx, request, deps)
		}))

	statusTool := mcp.NewTool("downmeets_status",
		mcp.WithDescription("Show the pipeline state of a recording: which outputs exist and where"),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("Drive file identifier or content identifier of the recording"),
		),
	)
	s.AddTool(statusTool, common.InstrumentedToolHandler("downmeets_status", deps.Metrics,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleStatus(ctx, request, deps)
		}))

	return nil
}

func handleDownload(ctx context.Context, request mcp.CallToolRequest, deps *Deps) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	url, ok := args["url"].(string)
	if !ok || url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}

	if err := deps.Runner.ProcessURL(ctx, url, pipeline.ModeDownload); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to download recording: %v", err)), nil
	}
	return mcp.NewToolResultText(entryReport(deps, url, "")), nil
}

func handleTranscribe(ctx context.Context, request mcp.CallToolRequest, deps *Deps) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	url, _ := args["url"].(string)
	videoPath, _ := args["video_path"].(string)
	if url == "" && videoPath == "" {
		return mcp.NewToolResultError("either url or video_path is required"), nil
	}
	if url != "" && videoPath != "" {
		return mcp.NewToolResultError("url and video_path are mutually exclusive"), nil
	}

	var err error
	if url != "" {
		err = deps.Runner.ProcessURL(ctx, url, pipeline.ModeTranscribe)
	} else {
		err = deps.Runner.ProcessVideo(ctx, videoPath, pipeline.ModeTranscribe)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to transcribe recording: %v", err)), nil
	}
	return mcp.NewToolResultText(entryReport(deps, url, videoPath)), nil
}

func handleSummarize(ctx context.Context, request mcp.CallToolRequest, deps *Deps) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	url, _ := args["url"].(string)
	transcriptPath, _ := args["transcript_path"].(string)
	if url == "" && transcriptPath == "" {
		return mcp.NewToolResultError("either url or transcript_path is required"), nil
	}
	if url != "" && transcriptPath != "" {
		return mcp.NewToolResultError("url and transcript_path are mutually exclusive"), nil
	}

	var err error
	if url != "" {
		err = deps.Runner.ProcessURL(ctx, url, pipeline.ModeSummarize)
	} else {
		err = deps.Runner.ProcessTranscript(ctx, transcriptPath)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to summarize recording: %v", err)), nil
	}
	return mcp.NewToolResultText(entryReport(deps, url, transcriptPath)), nil
}

func handleProcess(ctx context.Context, request mcp.CallToolRequest, deps *Deps) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	url, ok := args["url"].(string)
	if !ok || url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}

	if err := deps.Runner.ProcessURL(ctx, url, pipeline.ModeAll); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to process recording: %v", err)), nil
	}
	return mcp.NewToolResultText(entryReport(deps, url, "")), nil
}

func handleStatus(_ context.Context, request mcp.CallToolRequest, deps *Deps) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	fileID, ok := args["file_id"].(string)
	if !ok || fileID == "" {
		return mcp.NewToolResultError("file_id is required"), nil
	}

	entry := deps.Store.Get(pipeline.Key(fileID))
	if entry == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No pipeline state recorded for %s", fileID)), nil
	}
	return mcp.NewToolResultText(formatEntry(entry)), nil
}

// entryReport renders the metadata entry located by URL or local path,
// falling back to a plain confirmation when no entry matches.
func entryReport(deps *Deps, url, path string) string {
	var entry *pipeline.Entry
	switch {
	case url != "":
		entry = deps.Store.FindByURL(url)
	case path != "":
		if key := deps.Store.FindByVideoPath(path); key != "" {
			entry = deps.Store.Get(key)
		} else if key := deps.Store.FindByTranscriptPath(path); key != "" {
			entry = deps.Store.Get(key)
		}
	}
	if entry == nil {
		return "Done."
	}
	return formatEntry(entry)
}

func formatEntry(e *pipeline.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File ID: %s\n", e.FileID)
	if e.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", e.URL)
	}
	if e.VideoPath != "" {
		fmt.Fprintf(&b, "Video: %s\n", e.VideoPath)
		if e.DownloadedAt != nil {
			fmt.Fprintf(&b, "Downloaded: %s\n", e.DownloadedAt.Format("2006-01-02 15:04:05 MST"))
		}
	}
	if e.TranscriptPath != "" {
		fmt.Fprintf(&b, "Transcript: %s\n", e.TranscriptPath)
		if e.TranscribedAt != nil {
			fmt.Fprintf(&b, "Transcribed: %s\n", e.TranscribedAt.Format("2006-01-02 15:04:05 MST"))
		}
	}
	if e.SummaryPath != "" {
		fmt.Fprintf(&b, "Summary: %s\n", e.SummaryPath)
		if e.SummarizedAt != nil {
			fmt.Fprintf(&b, "Summarized: %s\n", e.SummarizedAt.Format("2006-01-02 15:04:05 MST"))
		}
	}
	return b.String()
}
