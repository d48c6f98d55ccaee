// Package transcribe assembles full transcripts from segmented audio.
//
// Segments are sent to the speech-to-text API one at a time, strictly in
// index order, so the concatenated output always preserves chronological
// speech order. Individual segment failures degrade the transcript instead
// of failing the job; only a total failure is an error.
package transcribe
