package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/imdouglasoliveira/DownMeets/internal/logging"
)

// ErrExtractionFailed is returned when ffmpeg cannot demux audio from a
// video file.
var ErrExtractionFailed = errors.New("audio extraction failed")

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Processor wraps the external ffmpeg/ffprobe tools for audio extraction,
// duration probing and segment cutting.
type Processor struct {
	ffmpegPath  string
	ffprobePath string
	runner      commandRunner
	logger      *slog.Logger
}

// NewProcessor builds a Processor around the given tool paths. Empty paths
// fall back to the binaries on PATH.
func NewProcessor(ffmpegPath, ffprobePath string, logger *slog.Logger) *Processor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		runner:      execRunner{},
		logger:      logger,
	}
}

// ExtractAudio demuxes the best audio stream from a video file into a
// compressed mp3 written to a temporary file, and returns its path. The
// caller owns deletion of the file.
func (p *Processor) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	tmp, err := os.CreateTemp("", "downmeets-audio-*.mp3")
	if err != nil {
		return "", fmt.Errorf("create temp audio file: %w", err)
	}
	audioPath := tmp.Name()
	tmp.Close()

	args := []string{"-i", videoPath, "-q:a", "0", "-map", "a", audioPath, "-y"}
	_, stderr, err := p.runner.Run(ctx, p.ffmpegPath, args...)
	if err != nil {
		_ = os.Remove(audioPath)
		return "", fmt.Errorf("%w: %s", ErrExtractionFailed, tail(stderr))
	}

	fi, err := os.Stat(audioPath)
	if err != nil || fi.Size() == 0 {
		_ = os.Remove(audioPath)
		return "", fmt.Errorf("%w: extracted audio file is empty or missing", ErrExtractionFailed)
	}

	p.logger.Debug("audio extracted", logging.Path(audioPath), "bytes", fi.Size(), logging.Tool("ffmpeg"))
	return audioPath, nil
}

// ProbeDuration returns the duration of a media file in seconds.
func (p *Processor) ProbeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	stdout, stderr, err := p.runner.Run(ctx, p.ffprobePath, args...)
	if err != nil {
		return 0, fmt.Errorf("probe duration of %s: %s: %w", path, tail(stderr), err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration output %q: %w", strings.TrimSpace(stdout), err)
	}
	return duration, nil
}

// cutSegment extracts a stream-copied slice of an audio file. Stream copy
// avoids a re-encode, which keeps cutting fast and lossless.
func (p *Processor) cutSegment(ctx context.Context, audioPath, outPath string, startSec, durSec int) error {
	args := []string{
		"-i", audioPath,
		"-ss", strconv.Itoa(startSec),
		"-t", strconv.Itoa(durSec),
		"-acodec", "copy",
		outPath,
		"-y",
	}
	_, stderr, err := p.runner.Run(ctx, p.ffmpegPath, args...)
	if err != nil {
		return fmt.Errorf("cut segment at %ds: %s: %w", startSec, tail(stderr), err)
	}
	return nil
}

// tail returns the last non-empty line of tool output, which is where
// ffmpeg puts its actual diagnostic.
func tail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
