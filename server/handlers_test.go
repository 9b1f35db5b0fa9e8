package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/poiesic/newsrag/ai/mock"
	"github.com/poiesic/newsrag/core"
	"github.com/poiesic/newsrag/fetch"
	"github.com/poiesic/newsrag/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticQuerier returns fixed documents for any query.
type staticQuerier struct {
	docs []core.Document
}

func (q *staticQuerier) Query(ctx context.Context, text string, topK int) ([]core.Document, error) {
	return q.docs, nil
}

// sentinelFetcher always degrades to the fetch sentinel.
type sentinelFetcher struct{}

func (sentinelFetcher) Fetch(ctx context.Context, url string) (*core.Page, error) {
	return fetch.Sentinel(url), nil
}

func newTestServer(t *testing.T, docs []core.Document) *Server {
	t.Helper()
	retriever, err := retrieval.NewService(
		&staticQuerier{docs: docs},
		sentinelFetcher{},
		mock.NewMockGenerator("streamed answer text"),
	)
	require.NoError(t, err)
	return NewServer(retriever, ":0", nil)
}

func TestHandleSearch(t *testing.T) {
	srv := newTestServer(t, []core.Document{
		{
			ID:       "doc-1",
			Content:  "chunk one",
			Metadata: map[string]any{"source": "example-news"},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/search",
		strings.NewReader(`{"query":"what happened"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Chunks []struct {
			ID       string         `json:"id"`
			Content  string         `json:"content"`
			Metadata map[string]any `json:"metadata"`
		} `json:"chunks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Chunks, 1)
	assert.Equal(t, "doc-1", body.Chunks[0].ID)
	assert.Equal(t, "chunk one", body.Chunks[0].Content)
	assert.Equal(t, "example-news", body.Chunks[0].Metadata["source"])
}

func TestHandleSearchBadRequest(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"missing query", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleAgentStreams(t *testing.T) {
	srv := newTestServer(t, []core.Document{{ID: "doc-1", Content: "grounding"}})

	req := httptest.NewRequest(http.MethodPost, "/agent",
		strings.NewReader(`{"query":"what happened"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Empty(t, rec.Header().Get("Transfer-Encoding"),
		"transfer encoding is left to net/http")
	assert.Equal(t, "streamed answer text", rec.Body.String())
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
