package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel implements llms.Model, returning canned responses in order.
type fakeModel struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.responses[idx]}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := f.GenerateContent(ctx, nil)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func newTestExtractor(model llms.Model, attempts int) *ChunkExtractor {
	return &ChunkExtractor{
		client:      model,
		maxAttempts: attempts,
		logger:      slog.Default(),
	}
}

func longSection(prefix string) string {
	return prefix + " " + strings.Repeat("lorem ipsum ", 12)
}

func TestExtractChunksValidResponse(t *testing.T) {
	body := longSection("First section body.")
	model := &fakeModel{responses: []string{
		`{"sections":[{"heading":"Intro","content":"` + body + `"}]}`,
	}}

	chunks, err := newTestExtractor(model, 1).ExtractChunks(context.Background(), "article text")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Intro", chunks[0].Heading)
	assert.Equal(t, body, chunks[0].Content)
}

func TestExtractChunksStripsCodeFences(t *testing.T) {
	body := longSection("Fenced body.")
	model := &fakeModel{responses: []string{
		"```json\n" + `{"sections":[{"heading":"H","content":"` + body + `"}]}` + "\n```",
	}}

	chunks, err := newTestExtractor(model, 1).ExtractChunks(context.Background(), "text")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}

func TestExtractChunksAcceptsBareArray(t *testing.T) {
	body := longSection("Bare array body.")
	model := &fakeModel{responses: []string{
		`[{"heading":"H","content":"` + body + `"}]`,
	}}

	chunks, err := newTestExtractor(model, 1).ExtractChunks(context.Background(), "text")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}

func TestExtractChunksShortContentRejectsAttempt(t *testing.T) {
	// One valid section plus one below the minimum length: the whole
	// attempt must be rejected, never a partial result.
	model := &fakeModel{responses: []string{
		`{"sections":[{"heading":"Ok","content":"` + longSection("fine") + `"},{"heading":"Short","content":"too short"}]}`,
	}}

	chunks, err := newTestExtractor(model, 1).ExtractChunks(context.Background(), "text")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestExtractChunksRetriesThenSucceeds(t *testing.T) {
	body := longSection("Second try body.")
	model := &fakeModel{responses: []string{
		`not json at all`,
		`{"sections":[{"heading":"H","content":"` + body + `"}]}`,
	}}

	chunks, err := newTestExtractor(model, 3).ExtractChunks(context.Background(), "text")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 2, model.calls)
}

func TestExtractChunksDegradesToEmptyAfterBudget(t *testing.T) {
	model := &fakeModel{responses: []string{`garbage`}}

	chunks, err := newTestExtractor(model, 2).ExtractChunks(context.Background(), "text")
	require.NoError(t, err)
	assert.Empty(t, chunks)
	assert.Equal(t, 2, model.calls, "attempt budget must be spent exactly")
}

func TestExtractChunksPropagatesTransportError(t *testing.T) {
	model := &fakeModel{err: errors.New("connection refused")}

	_, err := newTestExtractor(model, 3).ExtractChunks(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, 1, model.calls, "transport errors are not retried here")
}
