package openai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The API has been observed returning both a flat object shape and a
// mapping-style shape across client and server versions. Normalization is
// done once here, at the boundary; callers only ever see a string.

func normalizeTranscription(data []byte) (string, error) {
	var typed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &typed); err == nil && typed.Text != "" {
		return strings.TrimSpace(typed.Text), nil
	}

	var mapped map[string]any
	if err := json.Unmarshal(data, &mapped); err == nil {
		if text, ok := mapped["text"].(string); ok && text != "" {
			return strings.TrimSpace(text), nil
		}
	}

	return "", fmt.Errorf("unexpected transcription response shape: %s", snippet(data))
}

func normalizeSummary(data []byte) (string, error) {
	var typed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &typed); err == nil &&
		len(typed.Choices) > 0 && typed.Choices[0].Message.Content != "" {
		return typed.Choices[0].Message.Content, nil
	}

	// Mapping shape: choices[0]["message"]["content"].
	var mapped map[string]any
	if err := json.Unmarshal(data, &mapped); err == nil {
		if choices, ok := mapped["choices"].([]any); ok && len(choices) > 0 {
			if choice, ok := choices[0].(map[string]any); ok {
				if message, ok := choice["message"].(map[string]any); ok {
					if content, ok := message["content"].(string); ok && content != "" {
						return content, nil
					}
				}
			}
		}
	}

	return "", fmt.Errorf("unexpected summary response shape: %s", snippet(data))
}

func snippet(data []byte) string {
	const max = 200
	s := string(data)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
