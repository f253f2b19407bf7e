package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Chunk is one partial response of a streamed chat call.
type Chunk struct {
	// Raw is the chunk exactly as received; the final chunk carries the timing metadata.
	Raw     json.RawMessage
	Content string
	Done    bool
}

// Stream is a pull-based sequence of chunks. It is finite, cannot be restarted
// and is not safe for concurrent use.
type Stream struct {
	body    io.ReadCloser
	cancel  context.CancelFunc
	decoder *json.Decoder
	onRaw   func([]byte)
	once    sync.Once
	closed  bool
}

// NewStream wraps a newline-delimited JSON body. cancel, when non-nil, is
// invoked on Close to abort the underlying request.
func NewStream(body io.ReadCloser, cancel context.CancelFunc) *Stream {
	return newStream(body, cancel, nil)
}

func newStream(body io.ReadCloser, cancel context.CancelFunc, onRaw func([]byte)) *Stream {
	return &Stream{
		body:    body,
		cancel:  cancel,
		decoder: json.NewDecoder(body),
		onRaw:   onRaw,
	}
}

// Next returns the next chunk, or io.EOF once the stream is exhausted.
func (s *Stream) Next() (Chunk, error) {
	if s.closed {
		return Chunk{}, io.EOF
	}

	var raw json.RawMessage
	if err := s.decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Chunk{}, io.EOF
		}
		return Chunk{}, fmt.Errorf("ollama: decode stream chunk: %w", err)
	}
	if s.onRaw != nil {
		s.onRaw(raw)
	}

	var partial struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Done  bool   `json:"done"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &partial); err != nil {
		return Chunk{}, fmt.Errorf("ollama: decode stream chunk: %w", err)
	}
	if partial.Error != "" {
		return Chunk{}, fmt.Errorf("ollama: %s", partial.Error)
	}

	return Chunk{Raw: raw, Content: partial.Message.Content, Done: partial.Done}, nil
}

// Close aborts the request and releases the body. It is safe to call more than once.
func (s *Stream) Close() error {
	var err error
	s.once.Do(func() {
		s.closed = true
		if s.cancel != nil {
			s.cancel()
		}
		err = s.body.Close()
	})
	return err
}
