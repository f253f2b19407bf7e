package benchmark

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mwiater/ollamabench/internal/response"
)

// TestRunnerNonStreaming verifies a blocking call yields a validated record.
func TestRunnerNonStreaming(t *testing.T) {
	client, calls := fakeOllama(t, nil, func(call chatCall) []string {
		return []string{finalPayload(call.Model, "Blue, because of Rayleigh scattering.", 50, 100, 1_000_000_000, 1_000_000_000)}
	})

	var out bytes.Buffer
	warned := false
	runner := &Runner{Server: client, Out: &out, Warn: func(error) { warned = true }}

	rec, err := runner.Run(context.Background(), "llama3.2:1b", "Why is the sky blue?", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if warned {
		t.Fatal("unexpected warning")
	}
	if rec.Model != "llama3.2:1b" || rec.PromptEvalCount != 50 || rec.EvalCount != 100 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Message.Content != "Blue, because of Rayleigh scattering." {
		t.Fatalf("unexpected content %q", rec.Message.Content)
	}
	if len(*calls) != 1 || (*calls)[0].Stream || (*calls)[0].Prompt != "Why is the sky blue?" {
		t.Fatalf("unexpected calls: %+v", *calls)
	}
	if out.Len() != 0 {
		t.Fatalf("non-streaming run should print nothing, got %q", out.String())
	}
}

// TestRunnerStreaming verifies chunks are echoed and only the last one is decoded.
func TestRunnerStreaming(t *testing.T) {
	client, calls := fakeOllama(t, nil, func(call chatCall) []string {
		return []string{
			streamChunk(call.Model, "The "),
			streamChunk(call.Model, "sky "),
			streamChunk(call.Model, "is blue."),
			finalPayload(call.Model, "", 12, 3, 500_000_000, 300_000_000),
		}
	})

	var out bytes.Buffer
	runner := &Runner{Server: client, Out: &out}

	rec, err := runner.Run(context.Background(), "qwen3:1.7b", "Why is the sky blue?", true)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !(*calls)[0].Stream {
		t.Fatal("expected a streaming request")
	}
	if out.String() != "The sky is blue." {
		t.Fatalf("unexpected streamed output %q", out.String())
	}
	if rec.Message.Content != "The sky is blue." {
		t.Fatalf("expected concatenated content, got %q", rec.Message.Content)
	}
	if !rec.Done || rec.PromptEvalCount != 12 || rec.EvalCount != 3 || rec.EvalDuration != 300_000_000 {
		t.Fatalf("metadata should come from the final chunk: %+v", rec)
	}
}

func TestRunnerMissingPromptCountWarns(t *testing.T) {
	client, _ := fakeOllama(t, nil, func(call chatCall) []string {
		return []string{finalPayload(call.Model, "cached", -1, 10, 0, 1_000_000_000)}
	})

	var warnings []error
	runner := &Runner{Server: client, Warn: func(err error) { warnings = append(warnings, err) }}

	rec, err := runner.Run(context.Background(), "m", "again", false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rec.PromptEvalCount != 0 {
		t.Fatalf("expected 0 prompt tokens, got %d", rec.PromptEvalCount)
	}
	if len(warnings) != 1 || !errors.Is(warnings[0], response.ErrMissingTokenCount) {
		t.Fatalf("expected missing token count warning, got %v", warnings)
	}
}

func TestRunnerEmptyResponse(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		client, _ := fakeOllama(t, nil, func(chatCall) []string { return nil })

		var out bytes.Buffer
		runner := &Runner{Server: client, Out: &out}
		_, err := runner.Run(context.Background(), "m", "hello", verbose)
		if !errors.Is(err, response.ErrEmptyResponse) {
			t.Fatalf("verbose=%v: expected ErrEmptyResponse, got %v", verbose, err)
		}
		if !strings.Contains(out.String(), "System Error: No response received from ollama") {
			t.Fatalf("verbose=%v: expected system error message, got %q", verbose, out.String())
		}
	}
}

func TestRunnerSchemaError(t *testing.T) {
	client, _ := fakeOllama(t, nil, func(call chatCall) []string {
		return []string{`{"model":"m","created_at":"2024-05-01T12:00:00Z","message":{"role":"assistant","content":"x"},"done":true}`}
	})

	runner := &Runner{Server: client}
	_, err := runner.Run(context.Background(), "m", "hello", false)
	if !errors.Is(err, response.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
	var schemaErr *response.SchemaError
	if !errors.As(err, &schemaErr) || len(schemaErr.Fields) == 0 {
		t.Fatalf("expected field errors, got %v", err)
	}
}

func TestRunnerCancelledContext(t *testing.T) {
	client, _ := fakeOllama(t, nil, func(call chatCall) []string {
		return []string{finalPayload(call.Model, "x", 1, 1, 1, 1)}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &Runner{Server: client}
	if _, err := runner.Run(ctx, "m", "hello", false); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
