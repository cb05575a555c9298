package recommend

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Config holds LLM API parameters.
type Config struct {
	APIKey          string
	Model           string
	MaxTokens       int
	ReasoningEffort string
	BaseURL         string
}

// Generator produces free-text development recommendations by delegating to
// an OpenAI-compatible chat completion API.
type Generator struct {
	client          *openai.Client
	model           string
	maxTokens       int
	reasoningEffort string
}

func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:          openai.NewClientWithConfig(clientCfg),
		model:           cfg.Model,
		maxTokens:       cfg.MaxTokens,
		reasoningEffort: cfg.ReasoningEffort,
	}, nil
}

// Generate returns markdown advice for the scored attempt.
func (g *Generator) Generate(ctx context.Context, in Input) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(in)},
		},
		MaxCompletionTokens: g.maxTokens,
	}
	if g.reasoningEffort != "" && g.reasoningEffort != "none" {
		req.ReasoningEffort = g.reasoningEffort
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

func mapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai API error (status %d): %w", apiErr.HTTPStatusCode, err)
	}
	return err
}
