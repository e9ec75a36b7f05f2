package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Message is one turn of a chat-style prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Config carries the per-client generation parameters. A stage that needs a
// different token budget gets its own client instance; clients are otherwise
// stateless and safe to share.
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxTokens = 1000
)

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	return c
}

// Client generates raw text from an ordered list of role/content turns.
// Cross-cutting concerns (logging, caching, rate limiting) are applied via
// Middleware, not inside provider implementations.
type Client interface {
	Name() string
	Generate(ctx context.Context, msgs []Message) (string, error)
	Close() error
}

var ErrEmptyResponse = errors.New("llm: empty response from model")

// GenerationError wraps any transport, auth, quota, or timeout failure from a
// provider. Callers that only need "generation failed" can match on the type
// and ignore the underlying cause.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("llm: %s generation failed: %v", e.Provider, e.Err)
}
func (e *GenerationError) Unwrap() error { return e.Err }

func generationFailed(provider string, err error) error {
	return &GenerationError{Provider: provider, Err: err}
}

// New builds a provider client by name. Known providers: "openai" (any
// OpenAI-compatible chat completions endpoint) and "gemini".
func New(ctx context.Context, provider, apiKey string, cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "openai":
		return NewOpenAIClient(apiKey, "", cfg)
	case "gemini":
		return NewGeminiClient(ctx, apiKey, cfg)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", provider)
	}
}
