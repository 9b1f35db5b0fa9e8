package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/poiesic/newsrag/core"
	"github.com/poiesic/newsrag/storage"
)

// Index is an in-process vector index using a brute-force cosine scan.
// It backs tests and small single-node deployments where running an
// external index service is not worth the operational cost.
type Index struct {
	mu   sync.RWMutex
	dim  int
	docs map[string]core.Document
}

var _ storage.Index = (*Index)(nil)

// New creates an empty in-memory index.
func New() *Index {
	return &Index{docs: make(map[string]core.Document)}
}

// Init records the expected dimensionality. Repeated calls are no-ops.
func (x *Index) Init(ctx context.Context, dimension int) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.dim == 0 {
		x.dim = dimension
	}
	return nil
}

// Count returns the number of stored documents.
func (x *Index) Count(ctx context.Context) (int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.docs), nil
}

// Upsert stores documents keyed by id, replacing existing entries.
func (x *Index) Upsert(ctx context.Context, docs []core.Document) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, doc := range docs {
		x.docs[doc.ID] = doc
	}
	return nil
}

// Delete removes documents by id. Unknown ids are ignored.
func (x *Index) Delete(ctx context.Context, ids []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, id := range ids {
		delete(x.docs, id)
	}
	return nil
}

// Query scans all documents and returns the topK nearest by cosine
// similarity, highest first.
func (x *Index) Query(ctx context.Context, vector []float32, topK int) ([]core.Document, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	type scored struct {
		doc   core.Document
		score float32
	}

	results := make([]scored, 0, len(x.docs))
	for _, doc := range x.docs {
		results = append(results, scored{doc: doc, score: cosineSimilarity(vector, doc.Embedding)})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].doc.ID < results[j].doc.ID
		}
		return results[i].score > results[j].score
	})

	if topK < len(results) {
		results = results[:topK]
	}

	docs := make([]core.Document, len(results))
	for i, r := range results {
		docs[i] = r.doc
	}
	return docs, nil
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 for mismatched lengths or zero vectors.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
