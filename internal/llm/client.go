// Package llm wraps the Gemini API behind a small text-generation interface
// and layers credential rotation plus retry on top of it.
package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generator produces free-form text for a prompt. Implementations must be
// safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Options tune a single generation call.
type Options struct {
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int32
	// RelaxSafety disables the content filters. Product names and spec
	// sheets trip them surprisingly often.
	RelaxSafety bool
}

// Config holds per-credential client settings.
type Config struct {
	APIKey string
	Model  string
}

// Client is a Generator backed by one Gemini API credential.
type Client struct {
	model string
	cli   *genai.Client
}

// NewClient dials the Gemini API with a single credential.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: missing API key")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create client: %w", err)
	}
	return &Client{model: cfg.Model, cli: cli}, nil
}

var relaxedSafety = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
}

// Generate runs one completion and returns the concatenated text parts.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(opts.Temperature),
		MaxOutputTokens: opts.MaxOutputTokens,
	}
	if opts.TopP > 0 {
		genCfg.TopP = genai.Ptr(opts.TopP)
	}
	if opts.TopK > 0 {
		genCfg.TopK = genai.Ptr(opts.TopK)
	}
	if opts.RelaxSafety {
		genCfg.SafetySettings = relaxedSafety
	}

	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}
	resp, err := c.cli.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("llm: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", ErrSafetyBlocked
	}
	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety {
		return "", ErrSafetyBlocked
	}
	if cand.Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
