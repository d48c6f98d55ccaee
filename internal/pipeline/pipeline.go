package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/imdouglasoliveira/DownMeets/internal/config"
	"github.com/imdouglasoliveira/DownMeets/internal/driveid"
	"github.com/imdouglasoliveira/DownMeets/internal/logging"
)

// ErrSummaryFailed is returned when the summary stage fails for a transcript.
var ErrSummaryFailed = errors.New("summary generation failed")

// Mode selects which stages a run executes.
type Mode string

const (
	// ModeAll runs every stage enabled in the configuration.
	ModeAll Mode = "all"
	// ModeDownload runs only the download stage.
	ModeDownload Mode = "download"
	// ModeTranscribe runs only the transcription stage.
	ModeTranscribe Mode = "transcribe"
	// ModeSummarize runs only the summary stage.
	ModeSummarize Mode = "summarize"
)

// Stage names used in logs and metrics.
const (
	StageDownload   = "download"
	StageTranscribe = "transcribe"
	StageSummarize  = "summarize"
)

// Downloader fetches a remote recording to a local path.
type Downloader interface {
	Resolve(ctx context.Context, url, dest string) error
}

// VideoTranscriber turns a local video file into transcript text.
type VideoTranscriber interface {
	TranscribeVideo(ctx context.Context, videoPath string) (string, error)
}

// Summarizer produces a structured summary from transcript text.
type Summarizer interface {
	Summarize(ctx context.Context, transcript, language string) (string, error)
}

// StageRecorder receives per-stage timing observations.
type StageRecorder interface {
	RecordStageDuration(ctx context.Context, stage string, elapsed time.Duration, success bool)
}

// Pipeline orchestrates download, transcription and summarization for a batch
// of recordings, persisting progress to the metadata store after each stage.
type Pipeline struct {
	cfg         config.Config
	downloader  Downloader
	transcriber VideoTranscriber
	summarizer  Summarizer
	store       *Store
	logger      *slog.Logger
	recorder    StageRecorder

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Pipeline. The recorder may be nil when metrics are disabled.
func New(cfg config.Config, downloader Downloader, transcriber VideoTranscriber, summarizer Summarizer, store *Store, logger *slog.Logger, recorder StageRecorder) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:         cfg,
		downloader:  downloader,
		transcriber: transcriber,
		summarizer:  summarizer,
		store:       store,
		logger:      logger,
		recorder:    recorder,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

// Run processes each URL in order. A failed item is logged and does not stop
// the batch. Between items the pipeline waits for the configured delay so
// that bursts of API calls are spaced out; no delay follows the last item.
func (p *Pipeline) Run(ctx context.Context, urls []string, mode Mode) error {
	var failed int
	for i, url := range urls {
		p.logger.Info("processing item",
			slog.Int("item", i+1),
			slog.Int("total", len(urls)),
			logging.URL(url))

		if err := p.ProcessURL(ctx, url, mode); err != nil {
			failed++
			p.logger.Error("item failed",
				logging.URL(url), logging.Err(err))
		}

		if i < len(urls)-1 && p.cfg.ItemDelay > 0 {
			p.logger.Info("waiting before next item",
				slog.Duration("delay", p.cfg.ItemDelay))
			if err := p.sleep(ctx, p.cfg.ItemDelay); err != nil {
				return err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d items failed", failed, len(urls))
	}
	return nil
}

// ProcessURL runs the selected stages for one sharing URL.
func (p *Pipeline) ProcessURL(ctx context.Context, url string, mode Mode) error {
	fileID, err := driveid.ExtractFileID(url)
	if err != nil {
		return fmt.Errorf("extract file id from %q: %w", url, err)
	}

	key := Key(fileID)
	entry := p.store.Ensure(key, fileID, url, p.now())

	videoPath := entry.VideoPath
	if p.stageEnabled(mode, ModeDownload, p.cfg.EnableDownload) {
		path, err := p.runDownload(ctx, url, fileID, entry)
		if err != nil {
			return err
		}
		videoPath = path
	}

	if p.stageEnabled(mode, ModeTranscribe, p.cfg.EnableTranscription) {
		if videoPath == "" || !fileExists(videoPath) {
			p.logger.Warn("no video available to transcribe",
				logging.FileID(fileID), logging.Status(logging.StatusSkipped))
		} else if err := p.runTranscription(ctx, videoPath, entry); err != nil {
			return err
		}
	}

	if p.stageEnabled(mode, ModeSummarize, p.cfg.EnableSummary) {
		if entry.TranscriptPath == "" || !fileExists(entry.TranscriptPath) {
			p.logger.Warn("no transcript available to summarize",
				logging.FileID(fileID), logging.Status(logging.StatusSkipped))
		} else if err := p.runSummary(ctx, entry); err != nil {
			return err
		}
	}

	return nil
}

// ProcessVideo transcribes (and, in ModeAll, summarizes) a video that already
// exists on disk. Videos never registered through a URL get a deterministic
// content-derived identifier so repeated runs reuse the same entry.
func (p *Pipeline) ProcessVideo(ctx context.Context, videoPath string, mode Mode) error {
	key := p.store.FindByVideoPath(videoPath)
	if key == "" {
		id, err := ContentID(videoPath)
		if err != nil {
			return err
		}
		key = Key(id)
		entry := p.store.Ensure(key, id, "", p.now())
		entry.VideoPath = videoPath
	}
	entry := p.store.Get(key)

	if err := p.runTranscription(ctx, videoPath, entry); err != nil {
		return err
	}
	if mode == ModeAll && p.cfg.EnableSummary {
		return p.runSummary(ctx, entry)
	}
	return nil
}

// ProcessTranscript summarizes a transcript that already exists on disk.
func (p *Pipeline) ProcessTranscript(ctx context.Context, transcriptPath string) error {
	key := p.store.FindByTranscriptPath(transcriptPath)
	if key == "" {
		id, err := ContentID(transcriptPath)
		if err != nil {
			return err
		}
		key = Key(id)
		entry := p.store.Ensure(key, id, "", p.now())
		entry.TranscriptPath = transcriptPath
	}
	return p.runSummary(ctx, p.store.Get(key))
}

func (p *Pipeline) stageEnabled(mode, stage Mode, enabled bool) bool {
	if mode == stage {
		return true
	}
	return mode == ModeAll && enabled
}

func (p *Pipeline) runDownload(ctx context.Context, url, fileID string, entry *Entry) (string, error) {
	if entry.VideoPath != "" && fileExists(entry.VideoPath) {
		p.logger.Info("video already downloaded",
			logging.FileID(fileID),
			logging.Path(entry.VideoPath),
			logging.Status(logging.StatusSkipped))
		return entry.VideoPath, nil
	}

	start := p.now()
	dest := filepath.Join(p.cfg.VideoDir,
		fmt.Sprintf("video_%s_%s.mp4", fileID, start.Format("20060102_150405")))

	err := p.downloader.Resolve(ctx, url, dest)
	p.record(ctx, StageDownload, p.now().Sub(start), err == nil)
	if err != nil {
		return "", fmt.Errorf("download stage: %w", err)
	}

	now := p.now()
	entry.VideoPath = dest
	entry.DownloadedAt = &now
	if err := p.store.Save(); err != nil {
		return "", err
	}
	p.logger.Info("download complete",
		logging.Stage(StageDownload),
		logging.Path(dest),
		logging.Status(logging.StatusSuccess))
	return dest, nil
}

func (p *Pipeline) runTranscription(ctx context.Context, videoPath string, entry *Entry) error {
	if entry.TranscriptPath != "" && fileExists(entry.TranscriptPath) {
		p.logger.Info("transcript already exists",
			logging.Path(entry.TranscriptPath),
			logging.Status(logging.StatusSkipped))
		return nil
	}

	start := p.now()
	text, err := p.transcriber.TranscribeVideo(ctx, videoPath)
	p.record(ctx, StageTranscribe, p.now().Sub(start), err == nil)
	if err != nil {
		return fmt.Errorf("transcription stage: %w", err)
	}

	dest := filepath.Join(p.cfg.TranscriptionDir,
		fmt.Sprintf("transcription_%s_%s.txt", entry.FileID, start.Format("20060102_150405")))
	if err := os.MkdirAll(p.cfg.TranscriptionDir, 0o755); err != nil {
		return fmt.Errorf("create transcription directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	now := p.now()
	entry.TranscriptPath = dest
	entry.TranscribedAt = &now
	if err := p.store.Save(); err != nil {
		return err
	}
	p.logger.Info("transcription complete",
		logging.Stage(StageTranscribe),
		logging.Path(dest),
		logging.Status(logging.StatusSuccess))
	return nil
}

func (p *Pipeline) runSummary(ctx context.Context, entry *Entry) error {
	if entry.SummaryPath != "" && fileExists(entry.SummaryPath) {
		p.logger.Info("summary already exists",
			logging.Path(entry.SummaryPath),
			logging.Status(logging.StatusSkipped))
		return nil
	}

	data, err := os.ReadFile(entry.TranscriptPath)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	start := p.now()
	summary, err := p.summarizer.Summarize(ctx, string(data), p.cfg.SummaryLanguage)
	p.record(ctx, StageSummarize, p.now().Sub(start), err == nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSummaryFailed, err)
	}

	dest := filepath.Join(p.cfg.SummaryDir,
		fmt.Sprintf("summary_%s_%s.md", entry.FileID, start.Format("20060102_150405")))
	if err := os.MkdirAll(p.cfg.SummaryDir, 0o755); err != nil {
		return fmt.Errorf("create summary directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(summary), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	now := p.now()
	entry.SummaryPath = dest
	entry.SummarizedAt = &now
	if err := p.store.Save(); err != nil {
		return err
	}
	p.logger.Info("summary complete",
		logging.Stage(StageSummarize),
		logging.Path(dest),
		logging.Status(logging.StatusSuccess))
	return nil
}

func (p *Pipeline) record(ctx context.Context, stage string, elapsed time.Duration, success bool) {
	if p.recorder != nil {
		p.recorder.RecordStageDuration(ctx, stage, elapsed, success)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
