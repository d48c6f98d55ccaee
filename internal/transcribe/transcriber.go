package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/imdouglasoliveira/DownMeets/internal/logging"
	"github.com/imdouglasoliveira/DownMeets/internal/media"
)

// ErrTranscriptionFailed is returned when no segment could be transcribed.
var ErrTranscriptionFailed = errors.New("transcription failed for every segment")

// Segmenter produces the audio segments to transcribe. Implemented by
// media.Processor.
type Segmenter interface {
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
	Split(ctx context.Context, audioPath string, maxChunkMB int) ([]media.Segment, error)
}

// API uploads one audio file per call and returns its text. Implemented by
// openai.Client.
type API interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Transcriber turns a downloaded video into a transcript: audio extraction,
// size-bounded segmentation, then one strictly sequential API call per
// segment so the output reconstructs the original chronological speech
// order.
type Transcriber struct {
	segmenter  Segmenter
	api        API
	maxChunkMB int
	logger     *slog.Logger
}

// NewTranscriber wires the segmenter and transcription API together.
func NewTranscriber(segmenter Segmenter, api API, maxChunkMB int, logger *slog.Logger) *Transcriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transcriber{
		segmenter:  segmenter,
		api:        api,
		maxChunkMB: maxChunkMB,
		logger:     logging.WithStage(logger, "transcription"),
	}
}

// TranscribeVideo produces the transcript for a video file. Failed segments
// are logged and excluded rather than failing the job; the result is partial
// in that case. Segment files are deleted as they are consumed and the
// extracted audio file afterwards; deletion failures are logged, never
// escalated. Returns ErrTranscriptionFailed only if every segment fails.
func (t *Transcriber) TranscribeVideo(ctx context.Context, videoPath string) (string, error) {
	audioPath, err := t.segmenter.ExtractAudio(ctx, videoPath)
	if err != nil {
		return "", fmt.Errorf("extract audio from %s: %w", videoPath, err)
	}
	defer t.remove(audioPath, "extracted audio")

	segments, err := t.segmenter.Split(ctx, audioPath, t.maxChunkMB)
	if err != nil {
		return "", fmt.Errorf("split audio: %w", err)
	}
	t.logger.Info("transcribing segments", "segments", len(segments))

	var out strings.Builder
	succeeded := 0
	for _, seg := range segments {
		log := t.logger.With(logging.KeySegment, seg.Index)
		log.Info("transcribing segment", logging.Path(seg.Path))

		text, err := t.api.Transcribe(ctx, seg.Path)
		if err != nil {
			log.Error("segment transcription failed, skipping",
				logging.Status(logging.StatusSkipped), logging.Err(err))
		} else {
			out.WriteString(text)
			out.WriteString("\n\n")
			succeeded++
		}

		if !seg.Original {
			t.remove(seg.Path, "segment")
		}
	}

	if succeeded == 0 {
		return "", fmt.Errorf("%w: %s", ErrTranscriptionFailed, videoPath)
	}
	t.logger.Info("transcription complete",
		"segments_ok", succeeded, "segments_total", len(segments))
	return out.String(), nil
}

// remove deletes a temporary file, logging failure without escalating.
func (t *Transcriber) remove(path, what string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		t.logger.Warn("could not remove "+what, logging.Path(path), logging.Err(err))
	}
}
