package core

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// MinContentLength is the minimum number of characters a chunk's content
// must have to be accepted into the index. Shorter fragments are almost
// always boilerplate or truncation artifacts.
const MinContentLength = 100

// TimeUnknown is the provenance placeholder recorded when an article
// carries no usable publication time.
const TimeUnknown = "unknown"

// ContentHash returns a short hex digest of text using BLAKE2b.
// Identical content always produces the identical digest, which keeps
// document ids stable across re-ingestion runs.
func ContentHash(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Document is one indexed record in a collection. Content is the
// denormalized text blob that is embedded and returned verbatim to
// callers; Metadata carries enough provenance to reconstruct a citation.
type Document struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  map[string]any
}

// Chunk is a transient (heading, content) unit produced by structuring
// one article's text. Chunks are consumed immediately into Documents
// and never persisted themselves.
type Chunk struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// Article identifies one ingest source: a named feed plus the URL of a
// single article to fetch and chunk.
type Article struct {
	Source string
	URL    string
}

// Page is the structured result of fetching one URL. Content is the
// markdown reconstruction of the page body. Time is nil when the page
// carries no publication date, including the fetch-failure sentinel.
type Page struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	URL     string     `json:"url"`
	Time    *time.Time `json:"time"`
}

// IngestResult records the outcome of ingesting one article. Err is nil
// on success and holds the caught per-article failure otherwise.
type IngestResult struct {
	URL     string
	Success bool
	Err     error
}

// DocumentID builds the stable id for one chunk of one article:
// the source URL, a content-derived suffix, and the chunk's position.
// The content hash guarantees an id is never reused for semantically
// different content.
func DocumentID(url, chunkContent string, index int) string {
	return fmt.Sprintf("%s#%s#%d", url, ContentHash(chunkContent), index)
}

// ComposeContent renders the text blob stored (and embedded) for one
// chunk of a fetched page. The heading, body, publication time and
// origin URL are all folded in so the blob is self-describing.
func ComposeContent(page *Page, chunk Chunk) string {
	published := TimeUnknown
	if page.Time != nil {
		published = page.Time.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("# %s: %s\n\n%s\n\nPublished: %s\nSource: %s",
		page.Title, chunk.Heading, chunk.Content, published, page.URL)
}

// DocumentMetadata builds the provenance metadata attached to one
// chunk's Document. Keys are fixed so downstream filtering can rely
// on them.
func DocumentMetadata(article Article, page *Page, chunk Chunk) map[string]any {
	published := TimeUnknown
	if page.Time != nil {
		published = page.Time.UTC().Format(time.RFC3339)
	}
	return map[string]any{
		"category":   "article",
		"title":      page.Title,
		"chunkTitle": chunk.Heading,
		"time":       published,
		"url":        article.URL,
		"source":     article.Source,
	}
}
