package llm

import (
	"context"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli *genai.Client
	cfg Config
}

// NewGeminiClient creates a Gemini client. If apiKey is empty, the genai
// client falls back to the GEMINI_API_KEY env var.
func NewGeminiClient(ctx context.Context, apiKey string, cfg Config) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, cfg: cfg.withDefaults()}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.cfg.Model }
func (g *GeminiClient) Close() error { return nil }

// Generate maps system turns to the system instruction and the rest to user
// content, then returns the first candidate's text.
func (g *GeminiClient) Generate(ctx context.Context, msgs []Message) (string, error) {
	var sys []string
	var contents []*genai.Content
	for _, m := range msgs {
		if m.Role == RoleSystem {
			sys = append(sys, m.Content)
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	gcfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.cfg.Temperature),
		MaxOutputTokens: int32(g.cfg.MaxTokens),
	}
	if len(sys) > 0 {
		gcfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(sys, "\n")}},
		}
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.cli.Models.GenerateContent(ctx, g.cfg.Model, contents, gcfg)
	if err != nil {
		return "", generationFailed(g.Name(), err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", generationFailed(g.Name(), ErrEmptyResponse)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
