package pipeline_tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imdouglasoliveira/DownMeets/internal/logging"
	"github.com/imdouglasoliveira/DownMeets/internal/pipeline"
)

type fakeRunner struct {
	urls        []string
	modes       []pipeline.Mode
	videos      []string
	transcripts []string
	err         error
}

func (f *fakeRunner) ProcessURL(_ context.Context, url string, mode pipeline.Mode) error {
	f.urls = append(f.urls, url)
	f.modes = append(f.modes, mode)
	return f.err
}

func (f *fakeRunner) ProcessVideo(_ context.Context, videoPath string, mode pipeline.Mode) error {
	f.videos = append(f.videos, videoPath)
	f.modes = append(f.modes, mode)
	return f.err
}

func (f *fakeRunner) ProcessTranscript(_ context.Context, transcriptPath string) error {
	f.transcripts = append(f.transcripts, transcriptPath)
	return f.err
}

func newTestDeps(t *testing.T) (*Deps, *fakeRunner) {
	t.Helper()
	store, err := pipeline.OpenStore(filepath.Join(t.TempDir(), "metadata.json"), logging.Discard())
	require.NoError(t, err)
	runner := &fakeRunner{}
	return &Deps{Runner: runner, Store: store}, runner
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestHandleDownload(t *testing.T) {
	deps, runner := newTestDeps(t)

	result, err := handleDownload(context.Background(),
		callRequest(map[string]any{"url": "https://drive.google.com/file/d/1abc/view"}), deps)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, []string{"https://drive.google.com/file/d/1abc/view"}, runner.urls)
	assert.Equal(t, []pipeline.Mode{pipeline.ModeDownload}, runner.modes)
}

func TestHandleDownloadMissingURL(t *testing.T) {
	deps, runner := newTestDeps(t)

	result, err := handleDownload(context.Background(), callRequest(map[string]any{}), deps)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Empty(t, runner.urls)
}

func TestHandleDownloadReportsFailure(t *testing.T) {
	deps, runner := newTestDeps(t)
	runner.err = errors.New("all strategies exhausted")

	result, err := handleDownload(context.Background(),
		callRequest(map[string]any{"url": "https://drive.google.com/file/d/1abc/view"}), deps)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "all strategies exhausted")
}

func TestHandleTranscribeRequiresExactlyOneInput(t *testing.T) {
	deps, _ := newTestDeps(t)

	result, err := handleTranscribe(context.Background(), callRequest(map[string]any{}), deps)
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = handleTranscribe(context.Background(), callRequest(map[string]any{
		"url":        "https://drive.google.com/file/d/1abc/view",
		"video_path": "/videos/a.mp4",
	}), deps)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleTranscribeWithVideoPath(t *testing.T) {
	deps, runner := newTestDeps(t)

	result, err := handleTranscribe(context.Background(),
		callRequest(map[string]any{"video_path": "/videos/a.mp4"}), deps)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, []string{"/videos/a.mp4"}, runner.videos)
	assert.Equal(t, []pipeline.Mode{pipeline.ModeTranscribe}, runner.modes)
}

func TestHandleSummarizeWithTranscriptPath(t *testing.T) {
	deps, runner := newTestDeps(t)

	result, err := handleSummarize(context.Background(),
		callRequest(map[string]any{"transcript_path": "/transcripts/a.txt"}), deps)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, []string{"/transcripts/a.txt"}, runner.transcripts)
}

func TestHandleProcessRunsAllStages(t *testing.T) {
	deps, runner := newTestDeps(t)

	result, err := handleProcess(context.Background(),
		callRequest(map[string]any{"url": "https://drive.google.com/file/d/1abc/view"}), deps)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, []pipeline.Mode{pipeline.ModeAll}, runner.modes)
}

func TestHandleStatus(t *testing.T) {
	deps, _ := newTestDeps(t)

	video := filepath.Join(t.TempDir(), "v.mp4")
	require.NoError(t, os.WriteFile(video, []byte("x"), 0o644))

	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	entry := deps.Store.Ensure(pipeline.Key("1abc"), "1abc", "https://drive.google.com/file/d/1abc/view", now)
	entry.VideoPath = video
	entry.DownloadedAt = &now

	result, err := handleStatus(context.Background(),
		callRequest(map[string]any{"file_id": "1abc"}), deps)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "File ID: 1abc")
	assert.Contains(t, text, video)
}

func TestHandleStatusUnknownRecording(t *testing.T) {
	deps, _ := newTestDeps(t)

	result, err := handleStatus(context.Background(),
		callRequest(map[string]any{"file_id": "unknown"}), deps)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No pipeline state recorded")
}
