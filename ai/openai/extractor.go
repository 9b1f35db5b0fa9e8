// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/poiesic/newsrag/ai"
	"github.com/poiesic/newsrag/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ChunkExtractor implements ai.ChunkExtractor using OpenAI-compatible chat APIs.
//
// The upstream model is non-deterministic and occasionally returns malformed
// JSON or truncated sections. Each attempt is validated all-or-nothing; after
// the attempt budget is spent the extractor fails soft to an empty chunk list
// so a batch ingestion run keeps progressing.
type ChunkExtractor struct {
	client      llms.Model
	maxAttempts int
	logger      *slog.Logger
}

// sectionList is the wrapper structure for the LLM's JSON response.
type sectionList struct {
	Sections []core.Chunk `json:"sections"`
}

// newChunkExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChunkExtractor(config *ai.Config) (*ChunkExtractor, error) {
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

	return &ChunkExtractor{
		client:      client,
		maxAttempts: config.MaxExtractAttempts,
		logger:      slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewChunkExtractor creates a new chunk extractor using the provided configuration.
//
// Returns ai.ChunkExtractor interface to enforce abstraction.
func NewChunkExtractor(config *ai.Config) (ai.ChunkExtractor, error) {
	return newChunkExtractor(config)
}

// ExtractChunks structures article text into validated (heading, content) chunks.
// Malformed or invalid model output is retried up to the configured attempt
// budget and then degrades to an empty slice. Transport failures propagate.
func (e *ChunkExtractor) ExtractChunks(ctx context.Context, articleText string) ([]core.Chunk, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(structuringPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(articleText),
			},
		},
	}

	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		response, err := e.client.GenerateContent(ctx, content,
			llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate structuring response", "attempt", attempt, "err", err)
			return nil, fmt.Errorf("chunk extraction: %w", err)
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model", "attempt", attempt)
			lastErr = fmt.Errorf("chunk extraction: empty model response")
			continue
		}

		chunks, err := parseChunks(response.Choices[0].Content)
		if err != nil {
			lastErr = err
			e.logger.Warn("invalid structuring response",
				"attempt", attempt,
				"maxAttempts", e.maxAttempts,
				"err", err)
			continue
		}

		e.logger.Debug("extracted chunks", "chunks", len(chunks), "attempt", attempt)
		return chunks, nil
	}

	// Fail soft: the article contributes zero chunks instead of failing the run.
	e.logger.Warn("giving up on article after structuring attempts",
		"attempts", e.maxAttempts, "err", lastErr)
	return []core.Chunk{}, nil
}

// parseChunks parses and validates one model response. Validation is
// all-or-nothing: a single invalid section rejects the whole attempt.
func parseChunks(raw string) ([]core.Chunk, error) {
	text := repairJSON(stripCodeFences(raw))

	var wrapped sectionList
	if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
		// Some models return the bare array despite the schema.
		var bare []core.Chunk
		if bareErr := json.Unmarshal([]byte(text), &bare); bareErr != nil {
			return nil, fmt.Errorf("parsing structuring response: %w", err)
		}
		wrapped.Sections = bare
	}

	for i := range wrapped.Sections {
		if err := core.ValidateChunk(&wrapped.Sections[i]); err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
	}

	return wrapped.Sections, nil
}
