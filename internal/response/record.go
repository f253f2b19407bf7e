// internal/response/record.go

// Package response decodes and validates the completion payloads returned by an
// Ollama chat endpoint into typed records that carry the server's timing and
// token metadata.
package response

import (
	"errors"
	"time"
)

// MissingPromptEvalCount is the sentinel used for a prompt_eval_count the server did not report.
const MissingPromptEvalCount int64 = -1

var (
	// ErrEmptyResponse is returned when the server produced no payload for a call.
	ErrEmptyResponse = errors.New("no response received from ollama")
	// ErrSchema is matched by every *SchemaError.
	ErrSchema = errors.New("response failed schema validation")
	// ErrMissingTokenCount is handed to the warning callback when the prompt token count is absent.
	ErrMissingTokenCount = errors.New("prompt token count was not provided, potentially due to prompt caching. For more info, see https://github.com/ollama/ollama/issues/2068")
)

// Message is a single role/content pair of a chat exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Record is one validated inference result. Durations are nanoseconds.
type Record struct {
	Model              string    `json:"model"`
	CreatedAt          time.Time `json:"created_at"`
	Message            Message   `json:"message"`
	Done               bool      `json:"done"`
	TotalDuration      int64     `json:"total_duration"`
	LoadDuration       int64     `json:"load_duration"`
	PromptEvalCount    int64     `json:"prompt_eval_count"`
	PromptEvalDuration int64     `json:"prompt_eval_duration"`
	EvalCount          int64     `json:"eval_count"`
	EvalDuration       int64     `json:"eval_duration"`
}

// WarnFunc receives recoverable decode problems such as ErrMissingTokenCount.
type WarnFunc func(error)
