package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIClient calls an OpenAI-compatible Chat Completions endpoint.
// The base URL is overridable so Groq/compatible gateways work unchanged.
type OpenAIClient struct {
	http    *http.Client
	apiKey  string
	baseURL string
	cfg     Config
}

// NewOpenAIClient creates a client. If apiKey is empty, it falls back to the
// OPENAI_API_KEY env var. An empty baseURL means the official endpoint.
func NewOpenAIClient(apiKey, baseURL string, cfg Config) (*OpenAIClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if baseURL == "" {
		baseURL = defaultOpenAIURL
	}
	cfg = cfg.withDefaults()
	return &OpenAIClient{
		http:    &http.Client{Timeout: cfg.Timeout},
		apiKey:  apiKey,
		baseURL: baseURL,
		cfg:     cfg,
	}, nil
}

func (c *OpenAIClient) Name() string { return "OpenAI:" + c.cfg.Model }
func (c *OpenAIClient) Close() error { return nil }

type chatReq struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the turns as-is and returns the first choice's text.
// Every failure mode comes back as a *GenerationError.
func (c *OpenAIClient) Generate(ctx context.Context, msgs []Message) (string, error) {
	reqBody := chatReq{
		Model:       c.cfg.Model,
		Messages:    msgs,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return "", generationFailed(c.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", generationFailed(c.Name(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		const max = 2048
		if len(body) > max {
			body = body[:max]
		}
		return "", generationFailed(c.Name(), fmt.Errorf("unexpected status %s: %s", resp.Status, string(body)))
	}
	var out chatResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", generationFailed(c.Name(), err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", generationFailed(c.Name(), ErrEmptyResponse)
	}
	return out.Choices[0].Message.Content, nil
}
