package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/imdouglasoliveira/DownMeets/internal/logging"
)

// Segment is one bounded-duration slice of an audio file, sized to fit the
// transcription API's payload limit. A Segment with Original set points at
// the input file itself and must not be deleted by segment cleanup.
type Segment struct {
	Index    int
	Path     string
	Size     int64
	Start    float64
	Duration float64
	Original bool
}

// Split divides an audio file into contiguous, non-overlapping segments no
// larger than maxChunkMB each, cut by stream copy. The original file is
// returned unsplit when it already fits, when its duration cannot be probed
// (a wrong estimate could silently truncate content), or when every cut
// fails. Segments are written to a process-scoped temp directory owned by
// the caller.
func (p *Processor) Split(ctx context.Context, audioPath string, maxChunkMB int) ([]Segment, error) {
	fi, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("stat audio file: %w", err)
	}

	sizeMB := float64(fi.Size()) / (1024 * 1024)
	if sizeMB <= float64(maxChunkMB) {
		return []Segment{originalSegment(audioPath, fi.Size())}, nil
	}

	duration, err := p.ProbeDuration(ctx, audioPath)
	if err != nil || duration <= 0 {
		p.logger.Warn("could not probe audio duration, using the unsplit file", logging.Err(err))
		return []Segment{originalSegment(audioPath, fi.Size())}, nil
	}

	numParts := int(math.Ceil(sizeMB / float64(maxChunkMB)))
	segmentSeconds := int(math.Ceil(duration / float64(numParts)))

	tempDir, err := os.MkdirTemp("", "downmeets-segments-*")
	if err != nil {
		return nil, fmt.Errorf("create segment directory: %w", err)
	}

	var segments []Segment
	for i := 0; i < numParts; i++ {
		start := i * segmentSeconds
		outPath := filepath.Join(tempDir, fmt.Sprintf("segment_%d.mp3", i))

		if err := p.cutSegment(ctx, audioPath, outPath, start, segmentSeconds); err != nil {
			p.logger.Warn("segment cut failed, skipping",
				logging.KeySegment, i, logging.Err(err))
			continue
		}

		segFi, err := os.Stat(outPath)
		if err != nil || segFi.Size() == 0 {
			p.logger.Warn("segment is empty, skipping", logging.KeySegment, i)
			continue
		}

		segDuration := float64(segmentSeconds)
		if remaining := duration - float64(start); remaining < segDuration {
			segDuration = remaining
		}
		segments = append(segments, Segment{
			Index:    i,
			Path:     outPath,
			Size:     segFi.Size(),
			Start:    float64(start),
			Duration: segDuration,
		})
	}

	if len(segments) == 0 {
		p.logger.Warn("all segment cuts failed, using the unsplit file")
		_ = os.RemoveAll(tempDir)
		return []Segment{originalSegment(audioPath, fi.Size())}, nil
	}

	p.logger.Info("audio split into segments",
		"segments", len(segments), "segment_seconds", segmentSeconds)
	return segments, nil
}

func originalSegment(path string, size int64) Segment {
	return Segment{Index: 0, Path: path, Size: size, Original: true}
}
