package benchmark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/mwiater/ollamabench/internal/logging"
	"github.com/mwiater/ollamabench/internal/ollama"
	"github.com/mwiater/ollamabench/internal/response"
)

// ChatServer is the part of the inference server a Runner needs.
type ChatServer interface {
	Chat(ctx context.Context, req ollama.ChatRequest) ([]byte, error)
	ChatStream(ctx context.Context, req ollama.ChatRequest) (*ollama.Stream, error)
}

// Runner issues one benchmark call at a time.
type Runner struct {
	Server ChatServer
	// Out receives streamed text and error reports.
	Out io.Writer
	// Warn receives recoverable decode problems.
	Warn response.WarnFunc
	// Debug logs the raw final payload and pretty-prints the decoded record.
	Debug bool
}

var errorColor = color.New(color.FgRed)

// Run sends prompt to model as a single user message and returns the validated record.
//
// With verbose set the call streams: each chunk's text is written to Out as it
// arrives and only the final chunk, which carries the cumulative metadata, is
// decoded. A call that yields no data returns response.ErrEmptyResponse.
func (r *Runner) Run(ctx context.Context, model, prompt string, verbose bool) (response.Record, error) {
	req := ollama.ChatRequest{
		Model:    model,
		Messages: []ollama.Message{{Role: "user", Content: prompt}},
	}

	var (
		raw  []byte
		text string
		err  error
	)
	if verbose {
		raw, text, err = r.stream(ctx, req)
	} else {
		raw, err = r.Server.Chat(ctx, req)
	}
	if err != nil {
		return response.Record{}, err
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		errorColor.Fprintln(r.out(), "System Error: No response received from ollama")
		logging.LogEvent("empty response from model %s", model)
		return response.Record{}, response.ErrEmptyResponse
	}

	if r.Debug {
		logging.LogRequest("final", "", model, raw)
	}

	rec, err := response.Decode(raw, r.Warn)
	if err != nil {
		return response.Record{}, fmt.Errorf("decode response from %s: %w", model, err)
	}
	if verbose && rec.Message.Content == "" {
		rec.Message.Content = text
	}

	if r.Debug {
		pp.Fprintln(r.out(), rec)
	}
	return rec, nil
}

// stream drains a streamed call, echoing text, and returns the last chunk's payload
// together with the concatenated text.
func (r *Runner) stream(ctx context.Context, req ollama.ChatRequest) ([]byte, string, error) {
	s, err := r.Server.ChatStream(ctx, req)
	if err != nil {
		return nil, "", err
	}
	defer s.Close()

	out := r.out()
	var (
		last []byte
		text strings.Builder
	)
	for {
		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, "", err
		}
		fmt.Fprint(out, chunk.Content)
		text.WriteString(chunk.Content)
		last = chunk.Raw
	}
	return last, text.String(), nil
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return io.Discard
	}
	return r.Out
}
