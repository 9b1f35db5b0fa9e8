package fetch

import (
	"context"

	"github.com/poiesic/newsrag/core"
)

// SentinelTitle marks a Page produced for a URL that could not be
// loaded. Consumers treat such pages as "no usable content", never as
// an error to retry.
const SentinelTitle = "Can not load information"

// Fetcher retrieves one URL as a structured page. Implementations
// must be thread-safe for concurrent use.
type Fetcher interface {
	// Fetch returns the page behind url. The production implementation
	// degrades every failure to Sentinel(url) and never returns an
	// error; the error return exists so alternative implementations
	// can surface failures for per-article isolation upstream.
	Fetch(ctx context.Context, url string) (*core.Page, error)
}

// Sentinel builds the fetch-failure placeholder for url: empty content
// and a nil publication time.
func Sentinel(url string) *core.Page {
	return &core.Page{
		Title:   SentinelTitle,
		Content: "",
		URL:     url,
		Time:    nil,
	}
}

// Usable reports whether a fetched page carries content worth
// ingesting. The sentinel and empty pages are not usable.
func Usable(page *core.Page) bool {
	return page != nil && page.Content != ""
}
