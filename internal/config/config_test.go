package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// t.Setenv guards against leakage from the host environment
	for _, key := range []string{
		"DOWNMEETS_URL_FILE", "DOWNMEETS_VIDEO_DIR", "DOWNMEETS_MAX_CHUNK_MB",
		"DOWNMEETS_DELAY_MINUTES", "DOWNMEETS_ENABLE_DOWNLOAD",
		"DOWNMEETS_ENABLE_TRANSCRIPTION", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultURLFile, cfg.URLFile)
	assert.Equal(t, DefaultVideoDir, cfg.VideoDir)
	assert.Equal(t, DefaultTranscribeModel, cfg.TranscribeModel)
	assert.Equal(t, DefaultSummaryModel, cfg.SummaryModel)
	assert.Equal(t, DefaultMaxChunkMB, cfg.MaxChunkMB)
	assert.Equal(t, DefaultItemDelay, cfg.ItemDelay)
	assert.True(t, cfg.EnableDownload)
	assert.False(t, cfg.EnableTranscription)
	assert.False(t, cfg.EnableSummary)
	assert.Empty(t, cfg.OpenAIAPIKey)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DOWNMEETS_URL_FILE", "meetings.txt")
	t.Setenv("DOWNMEETS_MAX_CHUNK_MB", "10")
	t.Setenv("DOWNMEETS_DELAY_MINUTES", "2")
	t.Setenv("DOWNMEETS_ENABLE_TRANSCRIPTION", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "meetings.txt", cfg.URLFile)
	assert.Equal(t, 10, cfg.MaxChunkMB)
	assert.Equal(t, 2*time.Minute, cfg.ItemDelay)
	assert.True(t, cfg.EnableTranscription)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
}

func TestLoadConfigInvalidChunkSize(t *testing.T) {
	t.Setenv("DOWNMEETS_MAX_CHUNK_MB", "not-a-number")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("DOWNMEETS_MAX_CHUNK_MB", "0")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigNegativeDelayClamped(t *testing.T) {
	t.Setenv("DOWNMEETS_DELAY_MINUTES", "-3")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.ItemDelay)
}

func TestEnsureOutputDirs(t *testing.T) {
	tmp := t.TempDir()
	cfg := Config{
		VideoDir:         tmp + "/videos",
		TranscriptionDir: tmp + "/transcriptions",
		SummaryDir:       tmp + "/summaries",
		MetadataPath:     tmp + "/meta/metadata.json",
	}

	require.NoError(t, cfg.EnsureOutputDirs())
	// Idempotent
	require.NoError(t, cfg.EnsureOutputDirs())

	for _, dir := range []string{cfg.VideoDir, cfg.TranscriptionDir, cfg.SummaryDir, tmp + "/meta"} {
		assert.DirExists(t, dir)
	}
}
