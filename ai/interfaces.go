package ai

import (
	"context"

	"github.com/poiesic/newsrag/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChunkExtractor structures raw article text into ordered chunks.
// Implementations must be thread-safe for concurrent use.
type ChunkExtractor interface {
	// ExtractChunks splits article text into an ordered sequence of
	// (heading, content) chunks. Every returned chunk satisfies
	// core.ValidateChunk; chunks failing validation never appear in
	// the result. Returns an empty slice when the article yields no
	// acceptable chunks; callers treat that as "skip", not failure.
	ExtractChunks(ctx context.Context, articleText string) ([]core.Chunk, error)
}

// Generator produces free-form text from a prompt.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate returns the complete response for a prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateStream invokes fn once per token chunk as it arrives,
	// in arrival order. Returning an error from fn cancels the
	// upstream call. A generation failure surfaces as a single error.
	GenerateStream(ctx context.Context, prompt string, fn func(chunk []byte) error) error
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder, ChunkExtractor and Generator instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// ChunkExtractor returns the article structuring service.
	// The returned ChunkExtractor is safe for concurrent use.
	ChunkExtractor() ChunkExtractor

	// Generator returns the text generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
