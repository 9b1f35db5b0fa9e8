package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/newsrag/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate returns the complete response for a prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, g.client, prompt)
	if err != nil {
		g.logger.Error("generation failed", "err", err)
		return "", fmt.Errorf("generation: %w", err)
	}
	return response, nil
}

// GenerateStream streams the response for a prompt, invoking fn once per
// token chunk in arrival order. An error from fn cancels the upstream call.
func (g *Generator) GenerateStream(ctx context.Context, prompt string, fn func(chunk []byte) error) error {
	_, err := llms.GenerateFromSinglePrompt(ctx, g.client, prompt,
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return fn(chunk)
		}))
	if err != nil {
		g.logger.Error("streaming generation failed", "err", err)
		return fmt.Errorf("generation: %w", err)
	}
	return nil
}
