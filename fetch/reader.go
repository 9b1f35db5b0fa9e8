package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/poiesic/newsrag/core"
)

// DefaultTimeout bounds one fetch, including the reader service's own
// scrape of the target page.
const DefaultTimeout = 10 * time.Second

// ReaderClient implements Fetcher against a reader service: an HTTP
// endpoint that scrapes a target URL and returns the page as JSON with
// the body converted to markdown (headings as #/##/### prefixes, list
// items as "- " bullets, publication date and title prepended when
// present). The scraping itself lives entirely behind that service.
type ReaderClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ Fetcher = (*ReaderClient)(nil)

// Config holds connection settings for the reader service.
type Config struct {
	// BaseURL is the reader endpoint; the target URL is passed as the
	// "url" query parameter.
	BaseURL string

	// Timeout bounds one fetch. Default is DefaultTimeout.
	Timeout time.Duration
}

// NewReaderClient creates a fetcher backed by a reader service.
func NewReaderClient(cfg Config) *ReaderClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &ReaderClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  slog.Default().With("component", "reader-fetch"),
	}
}

// readerResponse is the reader service's wire shape. Time arrives as an
// RFC3339 string or null.
type readerResponse struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     string  `json:"url"`
	Time    *string `json:"time"`
}

// Fetch retrieves target via the reader service. Every failure mode
// (transport error, timeout, non-2xx status, undecodable body) degrades
// to the sentinel page; the error return is always nil.
func (c *ReaderClient) Fetch(ctx context.Context, target string) (*core.Page, error) {
	endpoint := fmt.Sprintf("%s?url=%s", c.baseURL, url.QueryEscape(target))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("building fetch request failed", "url", target, "err", err)
		return Sentinel(target), nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("fetch failed", "url", target, "err", err)
		return Sentinel(target), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("fetch returned non-OK status", "url", target, "status", resp.Status)
		return Sentinel(target), nil
	}

	var body readerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn("decoding fetch response failed", "url", target, "err", err)
		return Sentinel(target), nil
	}

	page := &core.Page{
		Title:   body.Title,
		Content: body.Content,
		URL:     target,
	}
	if body.Time != nil {
		if ts, err := time.Parse(time.RFC3339, *body.Time); err == nil {
			page.Time = &ts
		}
	}
	return page, nil
}
