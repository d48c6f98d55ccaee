// Package openai is a minimal HTTP client for the OpenAI speech-to-text and
// chat completion endpoints.
//
// It deliberately stays at the adapter layer: response-shape tolerance (the
// API has returned both flat and mapping-style bodies across versions) is
// handled here once, and the rest of the pipeline only sees plain strings
// and errors.
package openai
