package mock

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/poiesic/newsrag/core"
)

// MockChunkExtractor is a test double for ai.ChunkExtractor.
// It allows custom behavior injection via function fields.
// Like the production implementation it is safe for concurrent use.
type MockChunkExtractor struct {
	// ExtractChunksFunc is called by ExtractChunks if set.
	// If nil, uses default paragraph splitting.
	ExtractChunksFunc func(ctx context.Context, articleText string) ([]core.Chunk, error)

	callCount atomic.Int64
}

// NewMockChunkExtractor creates a mock chunk extractor with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockChunkExtractor() *MockChunkExtractor {
	return &MockChunkExtractor{}
}

// ExtractChunks splits text on blank lines into numbered sections.
// Paragraphs below core.MinContentLength are dropped, mirroring the
// production extractor's acceptance rule.
func (m *MockChunkExtractor) ExtractChunks(ctx context.Context, articleText string) ([]core.Chunk, error) {
	m.callCount.Add(1)

	if m.ExtractChunksFunc != nil {
		return m.ExtractChunksFunc(ctx, articleText)
	}

	paragraphs := strings.Split(articleText, "\n\n")
	chunks := make([]core.Chunk, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) < core.MinContentLength {
			continue
		}
		chunks = append(chunks, core.Chunk{
			Heading: fmt.Sprintf("Section %d", len(chunks)+1),
			Content: p,
		})
	}
	return chunks, nil
}

// CallCount returns the number of times ExtractChunks was called.
func (m *MockChunkExtractor) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockChunkExtractor) Reset() {
	m.callCount.Store(0)
	m.ExtractChunksFunc = nil
}
