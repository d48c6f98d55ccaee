package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/imdouglasoliveira/DownMeets/internal/logging"
)

// keyPrefix namespaces metadata keys by source.
const keyPrefix = "meet_"

// Entry tracks the pipeline outputs for one recording. Each stage's path and
// timestamp are recorded independently, so a run with a video but no
// transcript (or a transcript but no summary) is a first-class state.
type Entry struct {
	URL            string     `json:"url,omitempty"`
	FileID         string     `json:"file_id"`
	CreatedAt      time.Time  `json:"created_at"`
	VideoPath      string     `json:"video_path,omitempty"`
	DownloadedAt   *time.Time `json:"download_date,omitempty"`
	TranscriptPath string     `json:"transcription_path,omitempty"`
	TranscribedAt  *time.Time `json:"transcription_date,omitempty"`
	SummaryPath    string     `json:"summary_path,omitempty"`
	SummarizedAt   *time.Time `json:"summary_date,omitempty"`
}

// Store persists run metadata as a JSON mapping keyed by recording.
type Store struct {
	path    string
	entries map[string]*Entry
	logger  *slog.Logger
}

// OpenStore loads the metadata file at path, starting empty when the file is
// missing. A corrupted file is logged and replaced rather than failing the
// run.
func OpenStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		path:    path,
		entries: make(map[string]*Entry),
		logger:  logger,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata file: %w", err)
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		logger.Warn("metadata file is corrupted, starting fresh",
			logging.Path(path), logging.Err(err))
		s.entries = make(map[string]*Entry)
	}
	return s, nil
}

// Key builds the metadata key for a file identifier.
func Key(fileID string) string { return keyPrefix + fileID }

// Get returns the entry for a key, or nil when absent.
func (s *Store) Get(key string) *Entry {
	return s.entries[key]
}

// Ensure returns the entry for a key, creating it when absent.
func (s *Store) Ensure(key, fileID, url string, now time.Time) *Entry {
	if e, ok := s.entries[key]; ok {
		return e
	}
	e := &Entry{
		URL:       url,
		FileID:    fileID,
		CreatedAt: now,
	}
	s.entries[key] = e
	return e
}

// Save writes the metadata mapping back to disk.
func (s *Store) Save() error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metadata directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	return nil
}

// Snapshot returns a copy of all entries keyed by metadata key.
func (s *Store) Snapshot() map[string]Entry {
	out := make(map[string]Entry, len(s.entries))
	for key, e := range s.entries {
		out[key] = *e
	}
	return out
}

// FindByURL returns the entry registered for a sharing URL, or nil.
func (s *Store) FindByURL(url string) *Entry {
	for _, e := range s.entries {
		if e.URL == url {
			return e
		}
	}
	return nil
}

// FindByVideoPath returns the key of the entry whose video path matches, or
// the empty string.
func (s *Store) FindByVideoPath(videoPath string) string {
	for key, e := range s.entries {
		if e.VideoPath == videoPath {
			return key
		}
	}
	return ""
}

// FindByTranscriptPath returns the key of the entry whose transcript path
// matches, or the empty string.
func (s *Store) FindByTranscriptPath(transcriptPath string) string {
	for key, e := range s.entries {
		if e.TranscriptPath == transcriptPath {
			return key
		}
	}
	return ""
}

// Videos lists the video paths of all entries whose file still exists.
func (s *Store) Videos() []string {
	var paths []string
	for _, e := range s.entries {
		if e.VideoPath != "" && fileExists(e.VideoPath) {
			paths = append(paths, e.VideoPath)
		}
	}
	return paths
}

// Transcripts lists the transcript paths of all entries whose file still
// exists.
func (s *Store) Transcripts() []string {
	var paths []string
	for _, e := range s.entries {
		if e.TranscriptPath != "" && fileExists(e.TranscriptPath) {
			paths = append(paths, e.TranscriptPath)
		}
	}
	return paths
}

// ContentID derives a deterministic identifier for a local file from its
// content hash. It replaces ad hoc random identifiers for videos that were
// never registered through a sharing URL, so reprocessing the same file
// always lands on the same metadata entry.
func ContentID(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil))[:8], nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
