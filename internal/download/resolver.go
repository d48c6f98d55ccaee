package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/imdouglasoliveira/DownMeets/internal/logging"
)

// ErrDownloadFailed is returned when every download strategy has been tried
// and none produced a non-empty file.
var ErrDownloadFailed = errors.New("all download strategies failed")

// Strategy is one self-contained download technique. Fetch writes the remote
// media to dest; any error is treated as a soft failure by the resolver,
// which moves on to the next strategy.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, url, dest string) error
}

// AttemptRecorder receives the outcome of each strategy attempt. Implemented
// by instrumentation.Metrics; a nil recorder disables recording.
type AttemptRecorder interface {
	RecordDownloadAttempt(ctx context.Context, strategy string, success bool)
}

// Resolver tries an ordered cascade of download strategies until one
// materializes a non-empty file at the destination path.
//
// Drive deliberately blocks direct downloads of view-only media. Each
// strategy defeats a different subset of its defenses, and none is reliable
// across all observed cases, hence the cascade.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
	recorder   AttemptRecorder
}

// NewResolver builds a resolver over the given strategies, tried in order.
func NewResolver(logger *slog.Logger, recorder AttemptRecorder, strategies ...Strategy) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		strategies: strategies,
		logger:     logging.WithStage(logger, "download"),
		recorder:   recorder,
	}
}

// Resolve downloads the media behind url to dest. The parent directory is
// created if needed. Strategies run in order and the first one that leaves a
// non-empty file at dest wins; a strategy's error is logged and the next one
// is tried. Returns ErrDownloadFailed only when all strategies fail.
func (r *Resolver) Resolve(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	r.logger.Info("downloading", logging.KeyURL, url, logging.Path(dest))

	for _, strategy := range r.strategies {
		log := logging.WithStrategy(r.logger, strategy.Name())
		log.Info("attempting download")

		err := strategy.Fetch(ctx, url, dest)
		success := err == nil && fileNonEmpty(dest)
		if r.recorder != nil {
			r.recorder.RecordDownloadAttempt(ctx, strategy.Name(), success)
		}

		if success {
			log.Info("download succeeded", logging.Status(logging.StatusSuccess), logging.Path(dest))
			return nil
		}

		if err == nil {
			err = errors.New("strategy produced an empty or missing file")
		}
		log.Warn("strategy failed, trying next", logging.Err(err))
	}

	// A failed attempt may leave a zero-byte file behind; clean it up so
	// callers can rely on dest being absent or empty after failure.
	if fi, err := os.Stat(dest); err == nil && fi.Size() == 0 {
		_ = os.Remove(dest)
	}

	return fmt.Errorf("%w: %s", ErrDownloadFailed, url)
}

func fileNonEmpty(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Size() > 0
}
