// internal/ollama/client.go
// Package ollama is an HTTP client for Ollama-compatible inference servers.
// It covers the endpoints the benchmark needs: listing models, running a
// chat request (streaming or blocking), and unloading a loaded model.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/ollamabench/internal/logging"
)

// ErrNoResponse indicates a chat call finished without delivering a final
// response carrying timing metadata.
var ErrNoResponse = errors.New("no response received from ollama")

// Client talks to a single Ollama host.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	debug   bool
}

// NewClient constructs a Client for the given base URL. Every request is
// bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, debug bool) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
		debug:   debug,
	}
}

// BaseURL returns the host URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest executes an HTTP request against the Ollama API with context
// cancellation support. The caller must invoke cancel after consuming the
// response body.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
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
	return resp, cancel, nil
}

// ListModels returns the names of all models available on the host via /api/tags.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	resp, cancel, err := c.doRequest(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("could not list models: ollama is not accessible at %s", c.baseURL)
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("could not list models: %s", strings.TrimSpace(string(bodyBytes)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body from %s: %v", c.baseURL, err)
	}
	if c.debug {
		logging.LogRequest("LLM->BENCH", c.baseURL, "", body)
	}

	var tagsResp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.Unmarshal(body, &tagsResp); err != nil {
		return nil, fmt.Errorf("error parsing models from %s: %v", c.baseURL, err)
	}

	var models []string
	for _, model := range tagsResp.Models {
		models = append(models, model.Name)
	}
	return models, nil
}

// RunningModels returns the set of currently loaded models by querying /api/ps.
func (c *Client) RunningModels(ctx context.Context) (map[string]struct{}, error) {
	resp, cancel, err := c.doRequest(ctx, http.MethodGet, "/api/ps", nil)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("could not get running models: %s", strings.TrimSpace(string(bodyBytes)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var psResp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.Unmarshal(body, &psResp); err != nil {
		return nil, err
	}

	runningModels := make(map[string]struct{}, len(psResp.Models))
	for _, model := range psResp.Models {
		runningModels[model.Name] = struct{}{}
	}
	return runningModels, nil
}

// Unload evicts a model from host memory by sending a chat request with
// keep_alive set to 0, so the next benchmark request measures a cold load.
func (c *Client) Unload(ctx context.Context, model string) error {
	payload := map[string]any{"model": model, "keep_alive": 0}
	body, _ := json.Marshal(payload)
	if c.debug {
		logging.LogRequest("BENCH->LLM", c.baseURL, model, body)
	}

	resp, cancel, err := c.doRequest(ctx, http.MethodPost, "/api/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error unloading model %s: %v", model, err)
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("error unloading model %s: %s", model, strings.TrimSpace(string(respBody)))
	}
	return nil
}

// Chat sends one user prompt to a model via /api/chat and returns the
// validated final response. In streaming mode each incremental chunk is
// forwarded to onChunk as it arrives and the final chunk, which carries the
// timing metadata, is validated; in blocking mode the single response body
// is validated directly.
func (c *Client) Chat(ctx context.Context, model, prompt string, stream bool, onChunk func(ChatMessage) error) (ChatResponse, error) {
	payload := map[string]any{
		"model": model,
		"messages": []ChatMessage{{
			Role:    "user",
			Content: prompt,
		}},
		"stream": stream,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return ChatResponse{}, err
	}
	if c.debug {
		logging.LogRequest("BENCH->LLM", c.baseURL, model, body)
	}

	resp, cancel, err := c.doRequest(ctx, http.MethodPost, "/api/chat", bytes.NewReader(body))
	if err != nil {
		return ChatResponse{}, err
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		if c.debug {
			logging.LogRequest("LLM->BENCH", c.baseURL, model, respBody)
		}
		return ChatResponse{}, fmt.Errorf("ollama: /api/chat returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	if !stream {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return ChatResponse{}, err
		}
		if c.debug {
			logging.LogRequest("LLM->BENCH", c.baseURL, model, respBody)
		}
		if len(bytes.TrimSpace(respBody)) == 0 {
			return ChatResponse{}, ErrNoResponse
		}
		return ValidateResponse(respBody)
	}

	decoder := json.NewDecoder(resp.Body)
	var finalRaw json.RawMessage
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return ChatResponse{}, err
		}
		if c.debug {
			logging.LogRequest("LLM->BENCH", c.baseURL, model, []byte(raw))
		}

		var chunk struct {
			Message ChatMessage `json:"message"`
			Done    bool        `json:"done"`
		}
		if err := json.Unmarshal(raw, &chunk); err != nil {
			return ChatResponse{}, err
		}
		if onChunk != nil {
			if err := onChunk(chunk.Message); err != nil {
				return ChatResponse{}, err
			}
		}
		if chunk.Done {
			finalRaw = raw
			break
		}
	}

	if finalRaw == nil {
		return ChatResponse{}, ErrNoResponse
	}
	return ValidateResponse(finalRaw)
}
