package storage

import (
	"context"

	"github.com/poiesic/newsrag/core"
)

// Index is the boundary to an external vector index service. One Index
// value addresses one named collection. Implementations must be
// thread-safe and support concurrent access; consistency of interleaved
// writes is the index service's concern.
type Index interface {
	// Init idempotently creates-or-opens the collection, configured for
	// cosine similarity over vectors of the given dimensionality.
	// Calling Init on an existing collection must not alter it.
	Init(ctx context.Context, dimension int) error

	// Count returns the number of records currently in the collection.
	Count(ctx context.Context) (int, error)

	// Upsert writes records as one batch, replacing records whose ids
	// already exist. No partial-success contract: on error, none of the
	// batch's records are guaranteed persisted.
	Upsert(ctx context.Context, docs []core.Document) error

	// Delete removes records by id. Unknown ids are ignored.
	Delete(ctx context.Context, ids []string) error

	// Query returns up to topK records nearest to vector by cosine
	// similarity, in similarity-descending order.
	Query(ctx context.Context, vector []float32, topK int) ([]core.Document, error)
}
