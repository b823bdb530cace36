package gen

import (
	"context"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 2048

// AnthropicGenerator implements TextGenerator against the Claude Messages
// API.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicGenerator creates a generator for the given API key and model.
func NewAnthropicGenerator(apiKey, model string) *AnthropicGenerator {
	return &AnthropicGenerator{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: defaultMaxTokens,
	}
}

// Generate sends one user message and returns the first text block.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (Response, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Response{}, fmt.Errorf("llm api call: %w", err)
	}
	if len(msg.Content) == 0 || msg.Content[0].Text == "" {
		return Response{}, ErrEmptyResponse
	}
	return Response{
		Text: msg.Content[0].Text,
		Usage: Usage{
			Model:        string(msg.Model),
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
		},
	}, nil
}
