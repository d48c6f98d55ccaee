package resources

import (
	"encoding/json"
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

func newTestStore(t *testing.T) *pipeline.Store {
	t.Helper()
	store, err := pipeline.OpenStore(filepath.Join(t.TempDir(), "metadata.json"), logging.Discard())
	require.NoError(t, err)
	return store
}

func readRequest(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func TestHandleMetadata(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	store.Ensure(pipeline.Key("1abc"), "1abc", "https://drive.google.com/file/d/1abc/view", now)

	contents, err := handleMetadata(readRequest("downmeets://metadata"), store)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)

	var entries map[string]pipeline.Entry
	require.NoError(t, json.Unmarshal([]byte(text.Text), &entries))
	require.Contains(t, entries, pipeline.Key("1abc"))
	assert.Equal(t, "1abc", entries[pipeline.Key("1abc")].FileID)
}

func TestHandleTranscriptResource(t *testing.T) {
	store := newTestStore(t)

	transcript := filepath.Join(t.TempDir(), "t.txt")
	require.NoError(t, os.WriteFile(transcript, []byte("what was said"), 0o644))

	entry := store.Ensure(pipeline.Key("1abc"), "1abc", "", time.Now())
	entry.TranscriptPath = transcript

	contents, err := handleOutputFile(readRequest("downmeets://transcripts/1abc"), store,
		"downmeets://transcripts/", "text/plain",
		func(e *pipeline.Entry) string { return e.TranscriptPath })
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "what was said", text.Text)
}

func TestHandleOutputFileUnknownRecording(t *testing.T) {
	store := newTestStore(t)

	_, err := handleOutputFile(readRequest("downmeets://summaries/ghost"), store,
		"downmeets://summaries/", "text/markdown",
		func(e *pipeline.Entry) string { return e.SummaryPath })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recording known")
}

func TestHandleOutputFileNotYetProduced(t *testing.T) {
	store := newTestStore(t)
	store.Ensure(pipeline.Key("1abc"), "1abc", "", time.Now())

	_, err := handleOutputFile(readRequest("downmeets://summaries/1abc"), store,
		"downmeets://summaries/", "text/markdown",
		func(e *pipeline.Entry) string { return e.SummaryPath })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not yet produced")
}
