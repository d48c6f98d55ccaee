package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/imdouglasoliveira/DownMeets/internal/pipeline"
)

// RegisterPipelineResources registers read-only resources exposing the
// pipeline state: the metadata index plus per-recording transcripts and
// summaries.
func RegisterPipelineResources(s *mcpserver.MCPServer, store *pipeline.Store) error {
	metadataResource := mcp.NewResource(
		"downmeets://metadata",
		"Pipeline Metadata",
		mcp.WithResourceDescription("All recordings known to the pipeline with their output paths and timestamps"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(metadataResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleMetadata(request, store)
	})

	transcriptTemplate := mcp.NewResourceTemplate(
		"downmeets://transcripts/{file_id}",
		"Recording Transcript",
		mcp.WithTemplateDescription("Transcript text of a recording by file identifier"),
		mcp.WithTemplateMIMEType("text/plain"),
	)

	s.AddResourceTemplate(transcriptTemplate, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleOutputFile(request, store, "downmeets://transcripts/", "text/plain",
			func(e *pipeline.Entry) string { return e.TranscriptPath })
	})

	summaryTemplate := mcp.NewResourceTemplate(
		"downmeets://summaries/{file_id}",
		"Meeting Summary",
		mcp.WithTemplateDescription("Structured meeting summary of a recording by file identifier"),
		mcp.WithTemplateMIMEType("text/markdown"),
	)

	s.AddResourceTemplate(summaryTemplate, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleOutputFile(request, store, "downmeets://summaries/", "text/markdown",
			func(e *pipeline.Entry) string { return e.SummaryPath })
	})

	return nil
}

func handleMetadata(request mcp.ReadResourceRequest, store *pipeline.Store) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(store.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

func handleOutputFile(request mcp.ReadResourceRequest, store *pipeline.Store, prefix, mimeType string, pathOf func(*pipeline.Entry) string) ([]mcp.ResourceContents, error) {
	fileID := strings.TrimPrefix(request.Params.URI, prefix)
	if fileID == "" || fileID == request.Params.URI {
		return nil, fmt.Errorf("invalid resource URI: %s", request.Params.URI)
	}

	entry := store.Get(pipeline.Key(fileID))
	if entry == nil {
		return nil, fmt.Errorf("no recording known for file id %s", fileID)
	}

	path := pathOf(entry)
	if path == "" {
		return nil, fmt.Errorf("output not yet produced for file id %s", fileID)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: mimeType,
			Text:     string(data),
		},
	}, nil
}
