package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LocalConfig configures the Ollama-style local inference client.
type LocalConfig struct {
	BaseURL string // e.g. "http://localhost:11434"
	Model   string
	Timeout time.Duration
}

// LocalClient talks to a locally hosted inference server exposing the
// Ollama generate API.
type LocalClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewLocalClient validates cfg and returns a ready client.
func NewLocalClient(cfg LocalConfig) (*LocalClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("local: base URL is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("local: model is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LocalClient{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Name implements Generator.
func (l *LocalClient) Name() string { return "local" }

// Generate implements Generator via POST /api/generate (non-streaming).
func (l *LocalClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	options := map[string]any{"temperature": opts.Temperature}
	if opts.MaxTokens > 0 {
		options["num_predict"] = opts.MaxTokens
	}
	body, err := json.Marshal(map[string]any{
		"model":   l.model,
		"prompt":  prompt,
		"stream":  false,
		"options": options,
	})
	if err != nil {
		return "", fmt.Errorf("local: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("local: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("local: request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("local: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("local: generate failed status=%d", resp.StatusCode)
	}

	var parsed struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("local: decode response: %w", err)
	}
	out := strings.TrimSpace(parsed.Response)
	if out == "" {
		return "", fmt.Errorf("local: empty response")
	}
	return out, nil
}

// Ping implements Pinger via GET /api/tags.
func (l *LocalClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("local: build ping: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("local: ping: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("local: ping status=%d", resp.StatusCode)
	}
	return nil
}
