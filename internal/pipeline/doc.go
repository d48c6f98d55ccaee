// Package pipeline orchestrates the download, transcription and summary
// stages for a batch of meeting recordings.
//
// A Pipeline runs the stages selected by a Mode for each input, persists
// per-stage progress to a JSON metadata store and spaces consecutive items
// with a configurable delay. Stage outputs are recorded independently, so a
// later run can pick up where an earlier one stopped: an existing video is
// not downloaded again and an existing transcript is not re-transcribed.
//
// Videos and transcripts processed from local files rather than sharing URLs
// are keyed by a deterministic content hash, so reprocessing the same file
// always resolves to the same metadata entry.
package pipeline
