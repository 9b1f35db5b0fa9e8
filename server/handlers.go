package server

import (
	"encoding/json"
	"net/http"

	"github.com/poiesic/newsrag/core"
)

// queryRequest is the body of /search and /agent.
type queryRequest struct {
	Query string `json:"query"`
}

// chunkResponse is the wire shape of one retrieved document.
type chunkResponse struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// searchResponse is the body of a /search reply.
type searchResponse struct {
	Chunks []chunkResponse `json:"chunks"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.logger.Debug("search request", "query", req.Query)
	docs, err := s.retriever.Retrieve(r.Context(), req.Query)
	if err != nil {
		s.logger.Error("search failed", "err", err)
		s.respondError(w, http.StatusInternalServerError, "search failed")
		return
	}

	s.respondJSON(w, http.StatusOK, searchResponse{Chunks: toChunks(docs)})
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	s.logger.Debug("agent request", "query", req.Query)
	// Transfer encoding is net/http's concern; flushing before the
	// response completes makes it chunked on its own.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	wrote := false
	err := s.retriever.Answer(r.Context(), req.Query, func(chunk []byte) error {
		if _, err := w.Write(chunk); err != nil {
			return err
		}
		flusher.Flush()
		wrote = true
		return nil
	})
	if err != nil {
		s.logger.Error("agent answer failed", "err", err)
		if !wrote {
			// Headers not yet meaningful to the client; report cleanly.
			s.respondError(w, http.StatusInternalServerError, "generation failed")
		}
		return
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encoding response failed", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func toChunks(docs []core.Document) []chunkResponse {
	chunks := make([]chunkResponse, len(docs))
	for i, doc := range docs {
		chunks[i] = chunkResponse{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		}
	}
	return chunks
}
