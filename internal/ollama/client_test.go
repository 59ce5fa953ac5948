package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func finalChunkJSON(model string) string {
	return `{
		"model": "` + model + `",
		"created_at": "2025-01-15T10:30:00Z",
		"message": {"role": "assistant", "content": ""},
		"done": true,
		"total_duration": 5000000000,
		"load_duration": 1000000000,
		"prompt_eval_count": 26,
		"prompt_eval_duration": 200000000,
		"eval_count": 290,
		"eval_duration": 3800000000
	}`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			if _, err := w.Write([]byte(`{"models":[{"name":"model1"},{"name":"model2"}]}`)); err != nil {
				t.Fatalf("write response for /api/tags: %v", err)
			}
		case "/api/ps":
			if _, err := w.Write([]byte(`{"models":[{"name":"model1"}]}`)); err != nil {
				t.Fatalf("write response for /api/ps: %v", err)
			}
		case "/api/chat":
			body, _ := io.ReadAll(r.Body)
			var req struct {
				Model     string        `json:"model"`
				Messages  []ChatMessage `json:"messages"`
				Stream    bool          `json:"stream"`
				KeepAlive *int          `json:"keep_alive"`
			}
			if err := json.Unmarshal(body, &req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if req.KeepAlive != nil {
				// Unload request.
				w.WriteHeader(http.StatusOK)
				return
			}
			if !req.Stream {
				if _, err := w.Write([]byte(finalChunkJSON(req.Model))); err != nil {
					t.Fatalf("write chat response: %v", err)
				}
				return
			}
			chunks := []string{
				`{"model":"` + req.Model + `","message":{"role":"assistant","content":"The sky "},"done":false}`,
				`{"model":"` + req.Model + `","message":{"role":"assistant","content":"is blue."},"done":false}`,
				finalChunkJSON(req.Model),
			}
			for _, chunk := range chunks {
				if _, err := io.WriteString(w, chunk+"\n"); err != nil {
					t.Fatalf("write chunk: %v", err)
				}
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestClientListModels(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, time.Second, false)
	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 2 || models[0] != "model1" || models[1] != "model2" {
		t.Fatalf("unexpected models: %v", models)
	}
}

func TestClientListModelsUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond, false)
	if _, err := client.ListModels(context.Background()); err == nil {
		t.Fatal("expected error for unreachable host")
	}
}

func TestClientRunningModels(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, time.Second, false)
	running, err := client.RunningModels(context.Background())
	if err != nil {
		t.Fatalf("RunningModels: %v", err)
	}
	if _, ok := running["model1"]; !ok || len(running) != 1 {
		t.Fatalf("unexpected running models: %v", running)
	}
}

func TestClientUnload(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, time.Second, false)
	if err := client.Unload(context.Background(), "model1"); err != nil {
		t.Fatalf("Unload: %v", err)
	}
}

func TestClientChatBlocking(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, time.Second, false)
	resp, err := client.Chat(context.Background(), "model1", "Why is the sky blue?", false, nil)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Model != "model1" {
		t.Fatalf("model: %s", resp.Model)
	}
	if resp.EvalCount != 290 || resp.PromptEvalCount != 26 {
		t.Fatalf("token counts: %d %d", resp.EvalCount, resp.PromptEvalCount)
	}
}

func TestClientChatStreaming(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, time.Second, false)
	var streamed strings.Builder
	resp, err := client.Chat(context.Background(), "model1", "Why is the sky blue?", true, func(msg ChatMessage) error {
		streamed.WriteString(msg.Content)
		return nil
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if streamed.String() != "The sky is blue." {
		t.Fatalf("streamed content: %q", streamed.String())
	}
	if !resp.Done || resp.TotalDuration != 5000000000 {
		t.Fatalf("final chunk metadata: %+v", resp)
	}
}

func TestClientChatNoFinalChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A stream that ends without a done: true chunk.
		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":"partial"},"done":false}`+"\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, false)
	_, err := client.Chat(context.Background(), "model1", "prompt", true, nil)
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("expected ErrNoResponse, got %v", err)
	}
}

func TestClientChatServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, false)
	_, err := client.Chat(context.Background(), "missing", "prompt", false, nil)
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Fatalf("expected server error surfaced, got %v", err)
	}
}
