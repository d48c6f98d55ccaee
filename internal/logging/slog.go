package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyStage    = "stage"
	KeyStrategy = "strategy"
	KeyURL      = "url"
	KeyFileID   = "file_id"
	KeyPath     = "path"
	KeySegment  = "segment"
	KeyStatus   = "status"
	KeyError    = "error"
	KeyTool     = "tool"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Setup installs the process-wide default logger. Format is "text" or "json";
// level accepts the usual slog level names and defaults to info.
func Setup(level, format string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// Discard returns a logger that drops every record. Intended for tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithStage returns a logger with the stage attribute set.
func WithStage(logger *slog.Logger, stage string) *slog.Logger {
	return logger.With(slog.String(KeyStage, stage))
}

// WithStrategy returns a logger with the strategy attribute set.
func WithStrategy(logger *slog.Logger, strategy string) *slog.Logger {
	return logger.With(slog.String(KeyStrategy, strategy))
}

// Stage returns a slog attribute for the pipeline stage name.
func Stage(stage string) slog.Attr {
	return slog.String(KeyStage, stage)
}

// Strategy returns a slog attribute for the download strategy name.
func Strategy(strategy string) slog.Attr {
	return slog.String(KeyStrategy, strategy)
}

// FileID returns a slog attribute for the Drive file identifier.
func FileID(id string) slog.Attr {
	return slog.String(KeyFileID, id)
}

// URL returns a slog attribute for a source URL.
func URL(url string) slog.Attr {
	return slog.String(KeyURL, url)
}

// Path returns a slog attribute for a local file path.
func Path(path string) slog.Attr {
	return slog.String(KeyPath, path)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Tool returns a slog attribute for the external tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeKey returns a masked version of an API key for logging.
// It returns a length indicator without exposing any key content,
// as even partial key prefixes can aid attacks.
func SanitizeKey(key string) string {
	if key == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[key:%d chars]", len(key))
}
