package benchmark

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/ollama"
)

// chatCall is what the fake server saw for one /api/chat request.
type chatCall struct {
	Model  string
	Prompt string
	Stream bool
}

// replyFunc returns the body lines for a chat call. Non-streaming calls join them.
type replyFunc func(call chatCall) []string

// fakeOllama starts an httptest server speaking the /api/tags and /api/chat
// endpoints and returns a client for it plus the recorded chat calls.
func fakeOllama(t *testing.T, installed []string, reply replyFunc) (*ollama.Client, *[]chatCall) {
	t.Helper()
	var calls []chatCall
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			var tags struct {
				Models []map[string]string `json:"models"`
			}
			for _, name := range installed {
				tags.Models = append(tags.Models, map[string]string{"name": name})
			}
			_ = json.NewEncoder(w).Encode(tags)
		case "/api/chat":
			var req struct {
				Model    string           `json:"model"`
				Messages []ollama.Message `json:"messages"`
				Stream   bool             `json:"stream"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode chat request: %v", err)
			}
			call := chatCall{Model: req.Model, Stream: req.Stream}
			if len(req.Messages) == 1 && req.Messages[0].Role == "user" {
				call.Prompt = req.Messages[0].Content
			} else {
				t.Errorf("expected a single user message, got %+v", req.Messages)
			}
			calls = append(calls, call)
			for _, line := range reply(call) {
				_, _ = w.Write([]byte(line + "\n"))
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return ollama.New(&appconfig.Config{Host: server.URL}), &calls
}

// finalPayload renders a completion payload with the given metadata. A negative
// promptCount leaves prompt_eval_count out.
func finalPayload(model, content string, promptCount, evalCount int, promptDur, evalDur int64) string {
	body := map[string]any{
		"model":                model,
		"created_at":           "2024-05-01T12:00:00Z",
		"message":              map[string]string{"role": "assistant", "content": content},
		"done":                 true,
		"total_duration":       promptDur + evalDur + 1_000_000,
		"load_duration":        1_000_000,
		"prompt_eval_duration": promptDur,
		"eval_count":           evalCount,
		"eval_duration":        evalDur,
	}
	if promptCount >= 0 {
		body["prompt_eval_count"] = promptCount
	}
	data, err := json.Marshal(body)
	if err != nil {
		panic(fmt.Sprintf("marshal payload: %v", err))
	}
	return string(data)
}

// streamChunk renders one intermediate stream chunk.
func streamChunk(model, content string) string {
	return fmt.Sprintf(`{"model":%q,"created_at":"2024-05-01T12:00:00Z","message":{"role":"assistant","content":%q},"done":false}`, model, content)
}
