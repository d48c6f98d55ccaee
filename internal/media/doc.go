// Package media extracts and segments audio from downloaded recordings.
//
// It shells out to ffmpeg for demuxing and stream-copy cutting, and to
// ffprobe for duration queries. Splitting is size-driven: the segment count
// is derived from the file size relative to the transcription API's payload
// limit, and the cut duration from the probed length. Degraded outcomes
// (unprobeable duration, failed cuts) fall back to the unsplit file rather
// than failing the run.
package media
