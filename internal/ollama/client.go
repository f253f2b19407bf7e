// internal/ollama/client.go

// Package ollama is a small HTTP client for the parts of the Ollama API a
// benchmark run needs: listing installed models and single-turn chat, either
// as one blocking exchange or as a newline-delimited stream of chunks.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/logging"
)

const (
	outbound = "BENCH->LLM"
	inbound  = "LLM->BENCH"
)

// Message is one chat message sent to the server.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a chat call against a single model.
type ChatRequest struct {
	Model    string
	Messages []Message
}

// Client talks to one Ollama server.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// New constructs a Client for the configured host. A zero request timeout
// leaves calls bounded only by their context.
func New(cfg *appconfig.Config) *Client {
	return &Client{
		baseURL: cfg.HostURL(),
		client: &http.Client{
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: cfg.RequestTimeout(),
	}
}

// BaseURL returns the server address requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// requestContext applies the per-request timeout, if any.
func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// do sends a request and returns the response when the server answered 200 OK.
// On success the caller owns both the body and cancel.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := c.requestContext(ctx)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		cancel()
		logging.LogRequest(inbound, c.baseURL, "", respBody)
		return nil, nil, fmt.Errorf("ollama: %s returned %s: %s", path, resp.Status, strings.TrimSpace(string(respBody)))
	}
	return resp, cancel, nil
}

// ListModels returns the names of the models installed on the server, in server order.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	logging.LogRequest(outbound, c.baseURL, "", map[string]string{"method": http.MethodGet, "url": c.baseURL + "/api/tags"})

	resp, cancel, err := c.do(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("could not list models on %s: %w", c.baseURL, err)
	}
	defer cancel()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body from %s: %w", c.baseURL, err)
	}
	logging.LogRequest(inbound, c.baseURL, "", body)

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("error parsing models from %s: %w", c.baseURL, err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Chat performs one non-streaming chat call and returns the raw completion payload.
// An empty body is returned as is so the caller can decide how to treat it.
func (c *Client) Chat(ctx context.Context, req ChatRequest) ([]byte, error) {
	payload, err := c.chatPayload(req, false)
	if err != nil {
		return nil, err
	}

	resp, cancel, err := c.do(ctx, http.MethodPost, "/api/chat", payload)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading chat response from %s: %w", c.baseURL, err)
	}
	logging.LogRequest(inbound, c.baseURL, req.Model, body)

	if err := serverError(body); err != nil {
		return nil, err
	}
	return body, nil
}

// ChatStream starts a streaming chat call. The returned Stream must be closed.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest) (*Stream, error) {
	payload, err := c.chatPayload(req, true)
	if err != nil {
		return nil, err
	}

	resp, cancel, err := c.do(ctx, http.MethodPost, "/api/chat", payload)
	if err != nil {
		return nil, err
	}
	return newStream(resp.Body, cancel, func(raw []byte) {
		logging.LogRequest(inbound, c.baseURL, req.Model, raw)
	}), nil
}

func (c *Client) chatPayload(req ChatRequest, stream bool) ([]byte, error) {
	messages := req.Messages
	if messages == nil {
		messages = []Message{}
	}
	body, err := json.Marshal(map[string]any{
		"model":    req.Model,
		"messages": messages,
		"stream":   stream,
	})
	if err != nil {
		return nil, err
	}
	logging.LogRequest(outbound, c.baseURL, req.Model, body)
	return body, nil
}

// serverError reports an {"error": "..."} payload as an error.
func serverError(raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil
	}
	if strings.TrimSpace(probe.Error) != "" {
		return fmt.Errorf("ollama: %s", probe.Error)
	}
	return nil
}
