// internal/response/decode.go
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// chatResponseSchema describes the final /api/chat payload (or final stream chunk).
const chatResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["model", "created_at", "message", "done", "total_duration", "prompt_eval_duration", "eval_count", "eval_duration"],
  "properties": {
    "model": {"type": "string", "minLength": 1},
    "created_at": {"type": "string", "format": "date-time"},
    "message": {
      "type": "object",
      "required": ["role", "content"],
      "properties": {
        "role": {"type": "string", "minLength": 1},
        "content": {"type": "string"}
      }
    },
    "done": {"type": "boolean"},
    "total_duration": {"type": "integer", "minimum": 0},
    "load_duration": {"type": "integer", "minimum": 0},
    "prompt_eval_count": {"type": "integer", "minimum": -1},
    "prompt_eval_duration": {"type": "integer", "minimum": 0},
    "eval_count": {"type": "integer", "minimum": 0},
    "eval_duration": {"type": "integer", "minimum": 0}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(chatResponseSchema)

// SchemaError lists every field of a payload that failed validation.
type SchemaError struct {
	Fields []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSchema, strings.Join(e.Fields, "; "))
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// wireRecord mirrors Record but keeps prompt_eval_count optional so its absence can be detected.
type wireRecord struct {
	Model              string    `json:"model"`
	CreatedAt          time.Time `json:"created_at"`
	Message            Message   `json:"message"`
	Done               bool      `json:"done"`
	TotalDuration      int64     `json:"total_duration"`
	LoadDuration       int64     `json:"load_duration"`
	PromptEvalCount    *int64    `json:"prompt_eval_count"`
	PromptEvalDuration int64     `json:"prompt_eval_duration"`
	EvalCount          int64     `json:"eval_count"`
	EvalDuration       int64     `json:"eval_duration"`
}

// Decode validates raw against the chat response schema and builds a Record.
//
// An absent prompt_eval_count, or one equal to MissingPromptEvalCount, is reported
// to warn as ErrMissingTokenCount and decoded as 0.
func Decode(raw []byte, warn WarnFunc) (Record, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Record{}, ErrEmptyResponse
	}

	if err := validate(raw); err != nil {
		return Record{}, err
	}

	var wire wireRecord
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Record{}, &SchemaError{Fields: []string{err.Error()}}
	}

	rec := Record{
		Model:              wire.Model,
		CreatedAt:          wire.CreatedAt,
		Message:            wire.Message,
		Done:               wire.Done,
		TotalDuration:      wire.TotalDuration,
		LoadDuration:       wire.LoadDuration,
		PromptEvalDuration: wire.PromptEvalDuration,
		EvalCount:          wire.EvalCount,
		EvalDuration:       wire.EvalDuration,
	}

	if wire.PromptEvalCount == nil || *wire.PromptEvalCount == MissingPromptEvalCount {
		if warn != nil {
			warn(ErrMissingTokenCount)
		}
	} else {
		rec.PromptEvalCount = *wire.PromptEvalCount
	}

	return rec, nil
}

// validate checks raw against chatResponseSchema and converts failures into a *SchemaError.
func validate(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &SchemaError{Fields: []string{fmt.Sprintf("payload: %v", err)}}
	}
	if result.Valid() {
		return nil
	}
	var fields []string
	for _, desc := range result.Errors() {
		fields = append(fields, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	sort.Strings(fields)
	return &SchemaError{Fields: fields}
}
