package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/poiesic/newsrag/ai"
	"github.com/poiesic/newsrag/core"
)

// DefaultTopK is the number of neighbors returned by Query when the
// caller passes a non-positive topK.
const DefaultTopK = 5

// DocumentStore owns the process-wide collection handle. All vector
// index access flows through it; no other component holds index state.
//
// Every operation fails fast with ErrNotInitialized until Initialize
// has completed, so callers can distinguish "not set up" from "index
// is down."
type DocumentStore struct {
	index     Index
	embedder  ai.Embedder
	dimension int
	ready     atomic.Bool
	logger    *slog.Logger
}

// Option configures a DocumentStore.
type Option func(*DocumentStore) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *DocumentStore) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewDocumentStore creates a document store over the given index and
// embedder. dimension is the embedding model's vector length; it is
// constant across all records in the collection.
func NewDocumentStore(index Index, embedder ai.Embedder, dimension int, opts ...Option) (*DocumentStore, error) {
	if index == nil {
		return nil, fmt.Errorf("index required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if dimension < 1 {
		return nil, fmt.Errorf("dimension must be positive")
	}

	s := &DocumentStore{
		index:     index,
		embedder:  embedder,
		dimension: dimension,
		logger:    slog.Default().With("component", "docstore"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Initialize idempotently creates-or-opens the collection, configured
// for cosine similarity. It reports whether the collection is empty so
// the caller can decide to run a one-time backfill; a second Initialize
// against a populated collection reports empty=false and triggers
// nothing. Fails with ErrUnreachable when the index cannot be reached.
func (s *DocumentStore) Initialize(ctx context.Context) (empty bool, err error) {
	if err := s.index.Init(ctx, s.dimension); err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	count, err := s.index.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	s.ready.Store(true)
	s.logger.Info("collection initialized", "records", count)
	return count == 0, nil
}

// Add embeds every document missing a precomputed embedding and upserts
// the batch. Embedding failures are isolated per document: a failed
// document is dropped from the write and logged, siblings persist.
// Returns ErrAllEmbeddingsFailed when nothing survives embedding.
func (s *DocumentStore) Add(ctx context.Context, docs []core.Document) error {
	if !s.ready.Load() {
		return ErrNotInitialized
	}
	if len(docs) == 0 {
		return ErrNoDocuments
	}

	// One embedding call per document, independently awaited, so a
	// single provider failure cannot discard sibling documents.
	errs := make([]error, len(docs))
	var wg sync.WaitGroup
	for i := range docs {
		if len(docs[i].Embedding) > 0 {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			vector, err := s.embedder.EmbedText(ctx, docs[i].Content)
			if err != nil {
				errs[i] = err
				return
			}
			docs[i].Embedding = vector
		}(i)
	}
	wg.Wait()

	survivors := make([]core.Document, 0, len(docs))
	for i := range docs {
		if errs[i] != nil {
			s.logger.Warn("dropping document after embedding failure",
				"id", docs[i].ID, "err", errs[i])
			continue
		}
		survivors = append(survivors, docs[i])
	}

	if len(survivors) == 0 {
		return ErrAllEmbeddingsFailed
	}

	if err := s.index.Upsert(ctx, survivors); err != nil {
		return fmt.Errorf("upserting %d documents: %w", len(survivors), err)
	}

	s.logger.Debug("documents added", "requested", len(docs), "written", len(survivors))
	return nil
}

// Query embeds text and returns up to topK documents nearest by cosine
// similarity, in similarity-descending order. A non-positive topK uses
// DefaultTopK.
func (s *DocumentStore) Query(ctx context.Context, text string, topK int) ([]core.Document, error) {
	if !s.ready.Load() {
		return nil, ErrNotInitialized
	}
	if topK < 1 {
		topK = DefaultTopK
	}

	vector, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	docs, err := s.index.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	return docs, nil
}

// Update upserts a single document by id, embedding it first when no
// embedding is present.
func (s *DocumentStore) Update(ctx context.Context, doc core.Document) error {
	if !s.ready.Load() {
		return ErrNotInitialized
	}

	if len(doc.Embedding) == 0 {
		vector, err := s.embedder.EmbedText(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("embedding document %s: %w", doc.ID, err)
		}
		doc.Embedding = vector
	}

	if err := s.index.Upsert(ctx, []core.Document{doc}); err != nil {
		return fmt.Errorf("updating document %s: %w", doc.ID, err)
	}
	return nil
}

// Delete removes documents by id.
func (s *DocumentStore) Delete(ctx context.Context, ids []string) error {
	if !s.ready.Load() {
		return ErrNotInitialized
	}

	if err := s.index.Delete(ctx, ids); err != nil {
		return fmt.Errorf("deleting %d documents: %w", len(ids), err)
	}
	return nil
}

// Count returns the number of documents in the collection.
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	if !s.ready.Load() {
		return 0, ErrNotInitialized
	}
	return s.index.Count(ctx)
}
