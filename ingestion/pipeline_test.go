package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/poiesic/newsrag/ai/mock"
	"github.com/poiesic/newsrag/core"
	"github.com/poiesic/newsrag/fetch"
	"github.com/poiesic/newsrag/storage"
	"github.com/poiesic/newsrag/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher implements fetch.Fetcher with an injectable function.
type fakeFetcher struct {
	fetchFunc func(ctx context.Context, url string) (*core.Page, error)
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*core.Page, error) {
	return f.fetchFunc(ctx, url)
}

func pageFor(url string) *core.Page {
	return &core.Page{
		Title:   "Title for " + url,
		Content: strings.Repeat("Paragraph about the news event. ", 10),
		URL:     url,
	}
}

func oneChunkExtractor() *mock.MockChunkExtractor {
	extractor := mock.NewMockChunkExtractor()
	extractor.ExtractChunksFunc = func(ctx context.Context, articleText string) ([]core.Chunk, error) {
		return []core.Chunk{{
			Heading: "Section",
			Content: strings.Repeat("chunk body ", 12),
		}}, nil
	}
	return extractor
}

func newTestStore(t *testing.T) *storage.DocumentStore {
	t.Helper()
	store, err := storage.NewDocumentStore(memory.New(), mock.NewMockEmbedder(), 384)
	require.NoError(t, err)
	_, err = store.Initialize(context.Background())
	require.NoError(t, err)
	return store
}

func articleList(n int) []core.Article {
	articles := make([]core.Article, n)
	for i := range articles {
		articles[i] = core.Article{
			Source: "example-news",
			URL:    fmt.Sprintf("https://example.com/article-%d", i),
		}
	}
	return articles
}

func TestNewPipelineRequiresCollaborators(t *testing.T) {
	store := newTestStore(t)
	fetcher := &fakeFetcher{}
	extractor := oneChunkExtractor()

	_, err := NewPipeline(nil, fetcher, extractor)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewPipeline(store, nil, extractor)
	assert.ErrorIs(t, err, ErrFetcherRequired)

	_, err = NewPipeline(store, fetcher, nil)
	assert.ErrorIs(t, err, ErrExtractorRequired)
}

func TestIngestStoresChunksPerArticle(t *testing.T) {
	store := newTestStore(t)
	fetcher := &fakeFetcher{fetchFunc: func(ctx context.Context, url string) (*core.Page, error) {
		return pageFor(url), nil
	}}

	p, err := NewPipeline(store, fetcher, oneChunkExtractor())
	require.NoError(t, err)
	defer p.Release()

	results := p.Ingest(context.Background(), articleList(3))
	require.Len(t, results, 3)
	for i, r := range results {
		assert.True(t, r.Success, "article %d", i)
		assert.NoError(t, r.Err)
		assert.Equal(t, fmt.Sprintf("https://example.com/article-%d", i), r.URL)
	}

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestIngestIsolatesFailures(t *testing.T) {
	store := newTestStore(t)
	poisoned := "https://example.com/article-4"
	fetcher := &fakeFetcher{fetchFunc: func(ctx context.Context, url string) (*core.Page, error) {
		if url == poisoned {
			return nil, errors.New("connection reset")
		}
		return pageFor(url), nil
	}}

	p, err := NewPipeline(store, fetcher, oneChunkExtractor(), WithBatchSize(3))
	require.NoError(t, err)
	defer p.Release()

	articles := articleList(7)
	results := p.Ingest(context.Background(), articles)
	require.Len(t, results, len(articles))

	failures := 0
	for _, r := range results {
		if !r.Success {
			failures++
			assert.Equal(t, poisoned, r.URL)
			assert.Error(t, r.Err)
		}
	}
	assert.Equal(t, 1, failures, "exactly the poisoned article fails; siblings and later batches proceed")
}

func TestIngestTreatsSentinelAsSkip(t *testing.T) {
	store := newTestStore(t)
	fetcher := &fakeFetcher{fetchFunc: func(ctx context.Context, url string) (*core.Page, error) {
		return fetch.Sentinel(url), nil
	}}
	extractor := oneChunkExtractor()

	p, err := NewPipeline(store, fetcher, extractor)
	require.NoError(t, err)
	defer p.Release()

	results := p.Ingest(context.Background(), articleList(2))
	for _, r := range results {
		assert.True(t, r.Success, "sentinel pages are skipped, not failed")
	}
	assert.Zero(t, extractor.CallCount(), "sentinel pages are never sent to the extractor")

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIngestEmptyChunksIsSuccess(t *testing.T) {
	store := newTestStore(t)
	fetcher := &fakeFetcher{fetchFunc: func(ctx context.Context, url string) (*core.Page, error) {
		return pageFor(url), nil
	}}
	extractor := mock.NewMockChunkExtractor()
	extractor.ExtractChunksFunc = func(ctx context.Context, articleText string) ([]core.Chunk, error) {
		return []core.Chunk{}, nil
	}

	p, err := NewPipeline(store, fetcher, extractor)
	require.NoError(t, err)
	defer p.Release()

	results := p.Ingest(context.Background(), articleList(1))
	assert.True(t, results[0].Success)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIngestBatchSequencing(t *testing.T) {
	const batchSize = 5
	const total = 12

	var mu sync.Mutex
	var inFlight, maxInFlight int32
	started := make([]int32, 0, total)

	fetcher := &fakeFetcher{fetchFunc: func(ctx context.Context, url string) (*core.Page, error) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&maxInFlight)
			if cur <= old || atomic.CompareAndSwapInt32(&maxInFlight, old, cur) {
				break
			}
		}

		var idx int32
		fmt.Sscanf(url, "https://example.com/article-%d", &idx)
		mu.Lock()
		started = append(started, idx/batchSize)
		mu.Unlock()

		page := pageFor(url)
		atomic.AddInt32(&inFlight, -1)
		return page, nil
	}}

	store := newTestStore(t)
	p, err := NewPipeline(store, fetcher, oneChunkExtractor(), WithBatchSize(batchSize))
	require.NoError(t, err)
	defer p.Release()

	results := p.Ingest(context.Background(), articleList(total))
	require.Len(t, results, total)

	assert.LessOrEqual(t, maxInFlight, int32(batchSize),
		"no more than batchSize articles in flight at once")

	// Batches must start in nondecreasing order: batch K+1's first
	// fetch happens strictly after batch K's join.
	for i := 1; i < len(started); i++ {
		assert.GreaterOrEqual(t, started[i], started[i-1],
			"batch %d started before batch %d settled", started[i], started[i-1])
	}
}
