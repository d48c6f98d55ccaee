package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

// scriptedRunner fakes ffmpeg/ffprobe invocations. It answers ffprobe calls
// with a fixed duration and fulfils ffmpeg calls by writing the output file.
type scriptedRunner struct {
	probeOut   string
	probeErr   error
	ffmpegErr  error
	failStarts map[string]bool // segment start seconds that should fail
	invoked    [][]string
}

func (r *scriptedRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	r.invoked = append(r.invoked, append([]string{name}, args...))

	if strings.Contains(name, "ffprobe") {
		return r.probeOut, "", r.probeErr
	}

	if r.ffmpegErr != nil {
		return "", "ffmpeg says no", r.ffmpegErr
	}

	// Find the output path: the argument before the trailing -y.
	var outPath string
	for i, a := range args {
		if a == "-y" && i > 0 {
			outPath = args[i-1]
		}
	}

	// Segment cuts carry -ss; honor scripted failures per start offset.
	for i, a := range args {
		if a == "-ss" && i+1 < len(args) && r.failStarts[args[i+1]] {
			return "", "cut failed", errors.New("exit status 1")
		}
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte("fake audio data"), 0o644); err != nil {
			return "", "", err
		}
	}
	return "", "", nil
}

func newTestProcessor(runner commandRunner) *Processor {
	p := NewProcessor("ffmpeg", "ffprobe", nil)
	p.runner = runner
	return p
}

func TestExtractAudio(t *testing.T) {
	runner := &scriptedRunner{}
	p := newTestProcessor(runner)

	audioPath, err := p.ExtractAudio(context.Background(), "/videos/meeting.mp4")
	if err != nil {
		t.Fatalf("ExtractAudio() unexpected error: %v", err)
	}
	t.Cleanup(func() { os.Remove(audioPath) })

	if !strings.HasSuffix(audioPath, ".mp3") {
		t.Errorf("audio path = %q, want .mp3 suffix", audioPath)
	}

	args := runner.invoked[0]
	joined := strings.Join(args, " ")
	for _, want := range []string{"-i /videos/meeting.mp4", "-q:a 0", "-map a", "-y"} {
		if !strings.Contains(joined, want) {
			t.Errorf("ffmpeg args %q missing %q", joined, want)
		}
	}
}

func TestExtractAudioToolFailure(t *testing.T) {
	runner := &scriptedRunner{ffmpegErr: errors.New("exit status 1")}
	p := newTestProcessor(runner)

	_, err := p.ExtractAudio(context.Background(), "/videos/meeting.mp4")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("ExtractAudio() error = %v, want ErrExtractionFailed", err)
	}
	if !strings.Contains(err.Error(), "ffmpeg says no") {
		t.Errorf("error should carry tool diagnostics, got %v", err)
	}
}

func TestProbeDuration(t *testing.T) {
	runner := &scriptedRunner{probeOut: "600.123456\n"}
	p := newTestProcessor(runner)

	d, err := p.ProbeDuration(context.Background(), "/tmp/audio.mp3")
	if err != nil {
		t.Fatalf("ProbeDuration() unexpected error: %v", err)
	}
	if d != 600.123456 {
		t.Errorf("ProbeDuration() = %v, want 600.123456", d)
	}
}

func TestProbeDurationBadOutput(t *testing.T) {
	runner := &scriptedRunner{probeOut: "N/A"}
	p := newTestProcessor(runner)

	if _, err := p.ProbeDuration(context.Background(), "/tmp/audio.mp3"); err == nil {
		t.Fatal("ProbeDuration() expected error for unparseable output")
	}
}

func TestTail(t *testing.T) {
	in := "frame=1\nframe=2\nConversion failed!\n\n"
	if got := tail(in); got != "Conversion failed!" {
		t.Errorf("tail() = %q", got)
	}
	if got := tail(""); got != "" {
		t.Errorf("tail(\"\") = %q", got)
	}
}

// sparseFile creates a file of the given size without writing its content.
func sparseFile(t *testing.T, path string, size int64) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(size); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestScriptedRunnerFailStarts(t *testing.T) {
	// Sanity check on the test double itself: scripted failures must match
	// on the -ss argument.
	r := &scriptedRunner{failStarts: map[string]bool{"200": true}}
	_, _, err := r.Run(context.Background(), "ffmpeg", "-i", "a", "-ss", "200", "-t", "200", "-acodec", "copy", "out.mp3", "-y")
	if err == nil {
		t.Fatal("expected scripted failure for start offset 200")
	}
	_, _, err = r.Run(context.Background(), "ffmpeg", "-i", "a", "-ss", "0", "-t", "200", "-acodec", "copy", fmt.Sprintf("%s/ok.mp3", t.TempDir()), "-y")
	if err != nil {
		t.Fatalf("unexpected scripted failure: %v", err)
	}
}
