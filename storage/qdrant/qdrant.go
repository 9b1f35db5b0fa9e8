package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/newsrag/core"
	"github.com/poiesic/newsrag/storage"
)

// Index is a minimal REST client to one Qdrant collection.
// It assumes cosine distance and creates the collection if missing.
type Index struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

var _ storage.Index = (*Index)(nil)

// Config holds connection settings for a Qdrant collection.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// New creates a Qdrant-backed index client.
func New(cfg Config) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Index{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Init creates the collection with cosine distance if it does not
// already exist. Qdrant answers 200 for an existing collection with the
// same schema, which makes the call idempotent.
func (x *Index) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return x.putJSON(ctx, fmt.Sprintf("%s/collections/%s", x.url, x.collection), body, nil)
}

// Count returns the exact number of points in the collection.
func (x *Index) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count *int `json:"count"`
		} `json:"result"`
	}
	err := x.postJSON(ctx,
		fmt.Sprintf("%s/collections/%s/points/count", x.url, x.collection),
		map[string]any{"exact": true}, &resp)
	if err != nil {
		return 0, err
	}
	if resp.Result.Count == nil {
		return 0, fmt.Errorf("%w: count missing", storage.ErrMalformedResult)
	}
	return *resp.Result.Count, nil
}

// pointID derives the Qdrant point id for a document. Qdrant only
// accepts integers or UUIDs as point ids, so the document id is folded
// into a deterministic UUIDv5 and carried verbatim in the payload.
func pointID(docID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(docID)).String()
}

// Upsert writes documents as one batch of points. The document id,
// content and metadata travel in the payload so Query can reconstitute
// full Documents.
func (x *Index) Upsert(ctx context.Context, docs []core.Document) error {
	points := make([]map[string]any, len(docs))
	for i, doc := range docs {
		points[i] = map[string]any{
			"id":     pointID(doc.ID),
			"vector": doc.Embedding,
			"payload": map[string]any{
				"id":       doc.ID,
				"content":  doc.Content,
				"metadata": doc.Metadata,
			},
		}
	}
	body := map[string]any{"points": points}
	return x.putJSON(ctx,
		fmt.Sprintf("%s/collections/%s/points?wait=true", x.url, x.collection), body, nil)
}

// Delete removes points by document id.
func (x *Index) Delete(ctx context.Context, ids []string) error {
	points := make([]string, len(ids))
	for i, id := range ids {
		points[i] = pointID(id)
	}
	body := map[string]any{"points": points}
	return x.postJSON(ctx,
		fmt.Sprintf("%s/collections/%s/points/delete?wait=true", x.url, x.collection), body, nil)
}

// Query returns the topK nearest points by cosine similarity,
// reconstituted as Documents in similarity-descending order.
func (x *Index) Query(ctx context.Context, vector []float32, topK int) ([]core.Document, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
		"with_vector":  true,
	}
	var resp struct {
		Result []struct {
			Score   float32         `json:"score"`
			Vector  []float32       `json:"vector"`
			Payload json.RawMessage `json:"payload"`
		} `json:"result"`
	}
	err := x.postJSON(ctx,
		fmt.Sprintf("%s/collections/%s/points/search", x.url, x.collection), req, &resp)
	if err != nil {
		return nil, err
	}

	docs := make([]core.Document, 0, len(resp.Result))
	for _, r := range resp.Result {
		var payload struct {
			ID       string         `json:"id"`
			Content  string         `json:"content"`
			Metadata map[string]any `json:"metadata"`
		}
		if r.Payload == nil {
			return nil, fmt.Errorf("%w: point payload missing", storage.ErrMalformedResult)
		}
		if err := json.Unmarshal(r.Payload, &payload); err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrMalformedResult, err)
		}
		if payload.ID == "" {
			return nil, fmt.Errorf("%w: point id missing from payload", storage.ErrMalformedResult)
		}
		docs = append(docs, core.Document{
			ID:        payload.ID,
			Content:   payload.Content,
			Embedding: r.Vector,
			Metadata:  payload.Metadata,
		})
	}
	return docs, nil
}

func (x *Index) putJSON(ctx context.Context, url string, body, out any) error {
	return x.doJSON(ctx, http.MethodPut, url, body, out)
}

func (x *Index) postJSON(ctx context.Context, url string, body, out any) error {
	return x.doJSON(ctx, http.MethodPost, url, body, out)
}

func (x *Index) doJSON(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}
	resp, err := x.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
