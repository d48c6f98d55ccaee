package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	transcriptionPath = "/audio/transcriptions"
	chatPath          = "/chat/completions"

	// requestTimeout bounds a single API call. Whisper uploads of
	// near-limit segments can legitimately take minutes.
	requestTimeout = 10 * time.Minute

	summaryTemperature = 0.5
	summaryMaxTokens   = 4000
)

// ErrMissingAPIKey indicates the client was asked to call the API without a
// credential. It is a configuration error, detected before any request is
// attempted.
var ErrMissingAPIKey = errors.New("OpenAI API key is not configured")

// summaryPromptTemplate is the fixed instruction template for meeting
// summaries. The %s placeholders are the output language and the transcript.
const summaryPromptTemplate = `You are an expert at summarizing meetings and producing meeting notes.
Below is the transcript of a recorded meeting.
Please produce a structured summary that includes:

1. Main topics discussed
2. Decisions made
3. Action items (with owners, when mentioned)
4. Key points to remember
5. Next steps

The summary must be clear, concise and formatted as markdown.
Summary language: %s

Transcript:
%s`

const summarySystemPrompt = "You are an assistant specialized in summarizing meetings and producing meeting notes."

// Client calls the OpenAI speech-to-text and chat completion APIs.
type Client struct {
	apiKey          string
	baseURL         string
	transcribeModel string
	summaryModel    string
	httpClient      *http.Client
}

// NewClient builds a Client. baseURL defaults to the public API endpoint
// and is overridable for tests and proxies.
func NewClient(apiKey, baseURL, transcribeModel, summaryModel string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		apiKey:          apiKey,
		baseURL:         strings.TrimRight(baseURL, "/"),
		transcribeModel: transcribeModel,
		summaryModel:    summaryModel,
		httpClient:      &http.Client{Timeout: requestTimeout},
	}
}

// HasCredential reports whether an API key is configured. Callers check
// this before starting work so that a missing key surfaces as a
// configuration error, not an API failure mid-pipeline.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

// Transcribe uploads one audio file to the speech-to-text API and returns
// the transcribed text.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if !c.HasCredential() {
		return "", ErrMissingAPIKey
	}

	audio, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer audio.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("create multipart file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("copy audio data: %w", err)
	}
	if err := writer.WriteField("model", c.transcribeModel); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+transcriptionPath, body)
	if err != nil {
		return "", fmt.Errorf("create transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	data, err := c.do(req)
	if err != nil {
		return "", err
	}
	return normalizeTranscription(data)
}

// Summarize sends the full transcript through the chat completions API with
// the fixed five-section instruction template, rendered in the requested
// language. Transcripts beyond the model's input limit fail the call; no
// chunking is attempted.
func (c *Client) Summarize(ctx context.Context, transcript, language string) (string, error) {
	if !c.HasCredential() {
		return "", ErrMissingAPIKey
	}

	payload := map[string]any{
		"model": c.summaryModel,
		"messages": []map[string]string{
			{"role": "system", "content": summarySystemPrompt},
			{"role": "user", "content": fmt.Sprintf(summaryPromptTemplate, language, transcript)},
		},
		"temperature": summaryTemperature,
		"max_tokens":  summaryMaxTokens,
	}

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode summary payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, buf)
	if err != nil {
		return "", fmt.Errorf("create summary request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(req)
	if err != nil {
		return "", err
	}
	return normalizeSummary(data)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read API response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, apiError(resp.StatusCode, data)
	}
	return data, nil
}

func apiError(status int, data []byte) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Message != "" {
		return fmt.Errorf("OpenAI API error (%d %s): %s", status, payload.Error.Type, payload.Error.Message)
	}
	return fmt.Errorf("OpenAI API error: status %d", status)
}
