package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Default values applied when the corresponding environment variable is unset.
const (
	DefaultURLFile           = "urls.txt"
	DefaultVideoDir          = "output/videos"
	DefaultTranscriptionDir  = "output/transcriptions"
	DefaultSummaryDir        = "output/summaries"
	DefaultMetadataPath      = "output/metadata.json"
	DefaultTranscribeModel   = "whisper-1"
	DefaultSummaryModel      = "gpt-4"
	DefaultSummaryLanguage   = "en"
	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"
	DefaultMaxChunkMB        = 25
	DefaultItemDelay         = 5 * time.Minute
	DefaultYTDLPPath         = "yt-dlp"
	DefaultFFmpegPath        = "ffmpeg"
	DefaultFFprobePath       = "ffprobe"
)

// Config holds all runtime configuration for the pipeline. It is constructed
// once at process start and passed into each component; no component reads
// the process environment directly.
type Config struct {
	// URLFile is the file containing Drive sharing URLs, one per line.
	URLFile string

	// VideoDir, TranscriptionDir and SummaryDir are the per-stage output
	// directories. They are created on demand.
	VideoDir         string
	TranscriptionDir string
	SummaryDir       string

	// MetadataPath is the JSON file tracking per-recording pipeline progress.
	MetadataPath string

	// Stage toggles for the default "run" mode.
	EnableDownload      bool
	EnableTranscription bool
	EnableSummary       bool

	// OpenAI settings.
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	TranscribeModel string
	SummaryModel    string
	SummaryLanguage string

	// DriveAPIKey optionally parameterizes the Drive API download strategy.
	// Access stays anonymous; the key only lifts unauthenticated quota limits.
	DriveAPIKey string

	// External tool paths.
	YTDLPPath   string
	FFmpegPath  string
	FFprobePath string

	// MaxChunkMB bounds the size of audio segments sent to the
	// transcription API.
	MaxChunkMB int

	// ItemDelay is the pause enforced between URLs in a batch run.
	ItemDelay time.Duration

	// Logging.
	LogLevel  string
	LogFormat string
}

// LoadConfig builds a Config from the environment with defaults.
func LoadConfig() (Config, error) {
	cfg := Config{
		URLFile:          envOrDefault("DOWNMEETS_URL_FILE", DefaultURLFile),
		VideoDir:         envOrDefault("DOWNMEETS_VIDEO_DIR", DefaultVideoDir),
		TranscriptionDir: envOrDefault("DOWNMEETS_TRANSCRIPTION_DIR", DefaultTranscriptionDir),
		SummaryDir:       envOrDefault("DOWNMEETS_SUMMARY_DIR", DefaultSummaryDir),
		MetadataPath:     envOrDefault("DOWNMEETS_METADATA_PATH", DefaultMetadataPath),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   envOrDefault("OPENAI_BASE_URL", DefaultOpenAIBaseURL),
		TranscribeModel: envOrDefault("DOWNMEETS_TRANSCRIPTION_MODEL", DefaultTranscribeModel),
		SummaryModel:    envOrDefault("DOWNMEETS_SUMMARY_MODEL", DefaultSummaryModel),
		SummaryLanguage: envOrDefault("DOWNMEETS_SUMMARY_LANGUAGE", DefaultSummaryLanguage),

		DriveAPIKey: os.Getenv("GOOGLE_DRIVE_API_KEY"),

		YTDLPPath:   envOrDefault("DOWNMEETS_YTDLP_PATH", DefaultYTDLPPath),
		FFmpegPath:  envOrDefault("DOWNMEETS_FFMPEG_PATH", DefaultFFmpegPath),
		FFprobePath: envOrDefault("DOWNMEETS_FFPROBE_PATH", DefaultFFprobePath),

		LogLevel:  envOrDefault("DOWNMEETS_LOG_LEVEL", "info"),
		LogFormat: envOrDefault("DOWNMEETS_LOG_FORMAT", "text"),
	}

	cfg.EnableDownload = envBool("DOWNMEETS_ENABLE_DOWNLOAD", true)
	cfg.EnableTranscription = envBool("DOWNMEETS_ENABLE_TRANSCRIPTION", false)
	cfg.EnableSummary = envBool("DOWNMEETS_ENABLE_SUMMARY", false)

	maxChunk, err := envInt("DOWNMEETS_MAX_CHUNK_MB", DefaultMaxChunkMB)
	if err != nil {
		return Config{}, fmt.Errorf("parse DOWNMEETS_MAX_CHUNK_MB: %w", err)
	}
	if maxChunk <= 0 {
		return Config{}, fmt.Errorf("DOWNMEETS_MAX_CHUNK_MB must be positive, got %d", maxChunk)
	}
	cfg.MaxChunkMB = maxChunk

	delayMinutes, err := envInt("DOWNMEETS_DELAY_MINUTES", int(DefaultItemDelay/time.Minute))
	if err != nil {
		return Config{}, fmt.Errorf("parse DOWNMEETS_DELAY_MINUTES: %w", err)
	}
	if delayMinutes < 0 {
		delayMinutes = 0
	}
	cfg.ItemDelay = time.Duration(delayMinutes) * time.Minute

	return cfg, nil
}

// EnsureOutputDirs creates the stage output directories and the metadata
// file's parent directory. Idempotent.
func (c Config) EnsureOutputDirs() error {
	dirs := []string{c.VideoDir, c.TranscriptionDir, c.SummaryDir, filepath.Dir(c.MetadataPath)}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return strings.EqualFold(val, "true") || val == "1"
}

func envInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0, err
	}
	return num, nil
}
