package ingestion

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/newsrag/ai"
	"github.com/poiesic/newsrag/core"
	"github.com/poiesic/newsrag/fetch"
	"github.com/poiesic/newsrag/storage"
)

// DefaultBatchSize bounds how many articles are in flight at once.
// Batches run strictly sequentially, so this is also the concurrency
// ceiling on outbound fetch and embedding calls.
const DefaultBatchSize = 5

// Pipeline drives batched ingestion of articles into the document
// store. Within one batch all articles are processed concurrently and
// the batch completes only when every article has settled; across
// batches ordering is strict. Per-article failures are caught and
// recorded, never aborting the run.
type Pipeline struct {
	store     *storage.DocumentStore
	fetcher   fetch.Fetcher
	extractor ai.ChunkExtractor
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithBatchSize sets the batch size (and concurrency window).
// Default is DefaultBatchSize; values below 1 are clamped to 1.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	store *storage.DocumentStore,
	fetcher fetch.Fetcher,
	extractor ai.ChunkExtractor,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	p := &Pipeline{
		store:     store,
		fetcher:   fetcher,
		extractor: extractor,
		batchSize: DefaultBatchSize,
		logger:    slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	// The pool is sized to the batch, making the concurrency window
	// explicit rather than an accident of goroutine scheduling.
	pool, err := ants.NewPool(p.batchSize)
	if err != nil {
		return nil, err
	}
	p.pool = pool

	return p, nil
}

// Ingest processes articles in fixed-size batches and returns one
// result per article, in input order. Batch K+1 never starts before
// batch K's last article settles. Ingestion is best-effort per source:
// a failing article is recorded and its siblings proceed.
func (p *Pipeline) Ingest(ctx context.Context, articles []core.Article) []core.IngestResult {
	results := make([]core.IngestResult, len(articles))

	for start := 0; start < len(articles); start += p.batchSize {
		end := min(start+p.batchSize, len(articles))
		p.logger.Info("processing batch", "from", start, "to", end, "total", len(articles))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			err := p.pool.Submit(func() {
				defer wg.Done()
				results[i] = p.ingestOne(ctx, articles[i])
			})
			if err != nil {
				wg.Done()
				results[i] = core.IngestResult{URL: articles[i].URL, Err: err}
			}
		}
		// Join barrier: one slow article delays the batch but never
		// loses sibling results.
		wg.Wait()
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	p.logger.Info("ingestion finished", "articles", len(articles), "failed", failed)

	return results
}

// ingestOne runs the fetch → extract → store path for one article.
// Every error is caught and folded into the result.
func (p *Pipeline) ingestOne(ctx context.Context, article core.Article) core.IngestResult {
	result := core.IngestResult{URL: article.URL}

	page, err := p.fetcher.Fetch(ctx, article.URL)
	if err != nil {
		p.logger.Warn("fetch failed", "url", article.URL, "err", err)
		result.Err = err
		return result
	}

	if !fetch.Usable(page) {
		// Fetch sentinel: no usable content, not a failure.
		p.logger.Info("skipping article without usable content", "url", article.URL)
		result.Success = true
		return result
	}

	chunks, err := p.extractor.ExtractChunks(ctx, page.Content)
	if err != nil {
		p.logger.Warn("chunk extraction failed", "url", article.URL, "err", err)
		result.Err = err
		return result
	}

	if len(chunks) == 0 {
		p.logger.Info("article yielded no chunks", "url", article.URL)
		result.Success = true
		return result
	}

	docs := make([]core.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = core.Document{
			ID:       core.DocumentID(article.URL, chunk.Content, i),
			Content:  core.ComposeContent(page, chunk),
			Metadata: core.DocumentMetadata(article, page, chunk),
		}
	}

	if err := p.store.Add(ctx, docs); err != nil {
		p.logger.Warn("storing documents failed", "url", article.URL, "chunks", len(docs), "err", err)
		result.Err = err
		return result
	}

	p.logger.Debug("article ingested", "url", article.URL, "chunks", len(docs))
	result.Success = true
	return result
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
