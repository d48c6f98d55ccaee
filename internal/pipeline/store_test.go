package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imdouglasoliveira/DownMeets/internal/logging"
)

func TestOpenStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")

	s, err := OpenStore(path, logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, s.Get(Key("abc")))
}

func TestStoreSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "metadata.json")
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	s, err := OpenStore(path, logging.Discard())
	require.NoError(t, err)

	e := s.Ensure(Key("1ABCdef"), "1ABCdef", "https://drive.google.com/file/d/1ABCdef/view", now)
	e.VideoPath = "/videos/video_1ABCdef.mp4"
	e.DownloadedAt = &now
	require.NoError(t, s.Save())

	reloaded, err := OpenStore(path, logging.Discard())
	require.NoError(t, err)

	got := reloaded.Get(Key("1ABCdef"))
	require.NotNil(t, got)
	assert.Equal(t, "1ABCdef", got.FileID)
	assert.Equal(t, "/videos/video_1ABCdef.mp4", got.VideoPath)
	require.NotNil(t, got.DownloadedAt)
	assert.True(t, got.DownloadedAt.Equal(now))
}

func TestOpenStoreCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := OpenStore(path, logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, s.Get(Key("anything")))

	// A fresh save replaces the corrupted content.
	s.Ensure(Key("x"), "x", "", time.Now())
	require.NoError(t, s.Save())

	reloaded, err := OpenStore(path, logging.Discard())
	require.NoError(t, err)
	assert.NotNil(t, reloaded.Get(Key("x")))
}

func TestStoreEnsureIsIdempotent(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "m.json"), logging.Discard())
	require.NoError(t, err)

	first := s.Ensure(Key("id"), "id", "u", time.Now())
	first.VideoPath = "/v.mp4"
	second := s.Ensure(Key("id"), "id", "u", time.Now())

	assert.Same(t, first, second)
	assert.Equal(t, "/v.mp4", second.VideoPath)
}

func TestStoreVideosFiltersMissingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.mp4")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	s, err := OpenStore(filepath.Join(dir, "m.json"), logging.Discard())
	require.NoError(t, err)

	s.Ensure(Key("a"), "a", "", time.Now()).VideoPath = existing
	s.Ensure(Key("b"), "b", "", time.Now()).VideoPath = filepath.Join(dir, "gone.mp4")

	assert.Equal(t, []string{existing}, s.Videos())
}

func TestContentIDDeterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp4")
	b := filepath.Join(dir, "b.mp4")
	require.NoError(t, os.WriteFile(a, []byte("same content"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("same content"), 0o644))

	idA, err := ContentID(a)
	require.NoError(t, err)
	idB, err := ContentID(b)
	require.NoError(t, err)

	assert.Equal(t, idA, idB)
	assert.Len(t, idA, 8)

	require.NoError(t, os.WriteFile(b, []byte("different"), 0o644))
	idC, err := ContentID(b)
	require.NoError(t, err)
	assert.NotEqual(t, idA, idC)
}
