// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/newsrag/ai"
	"github.com/poiesic/newsrag/core"
	"github.com/poiesic/newsrag/fetch"
)

// TopK is the number of neighbors pulled from the index for one query.
const TopK = 7

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// Querier is the slice of the document store that retrieval needs.
type Querier interface {
	Query(ctx context.Context, text string, topK int) ([]core.Document, error)
}

// Service answers queries with grounded context. A query naming a URL
// takes the direct-fetch path and bypasses the index; every other
// query runs top-K similarity search over the collection. Results are
// never cached; every call recomputes.
type Service struct {
	store     Querier
	fetcher   fetch.Fetcher
	generator ai.Generator
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a new retrieval service.
func NewService(store Querier, fetcher fetch.Fetcher, generator ai.Generator, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	s := &Service{
		store:     store,
		fetcher:   fetcher,
		generator: generator,
		logger:    slog.Default().With("component", "retrieval"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// AnswerContext builds the grounding context for a query. The first
// URL-shaped substring in the query switches to the direct-fetch path;
// otherwise the top-TopK documents' contents are joined with blank
// lines.
func (s *Service) AnswerContext(ctx context.Context, query string) (string, error) {
	if url := firstURL(query); url != "" {
		s.logger.Debug("direct-fetch path", "url", url)
		page, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			return "", fmt.Errorf("fetching %s: %w", url, err)
		}
		return composePage(page), nil
	}

	s.logger.Debug("similarity path", "topK", TopK)
	docs, err := s.store.Query(ctx, query, TopK)
	if err != nil {
		return "", fmt.Errorf("querying store: %w", err)
	}

	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}
	return strings.Join(contents, "\n\n"), nil
}

// Retrieve returns the raw top-TopK documents for a query. Used by the
// search endpoint, which wants structured chunks rather than a joined
// context string.
func (s *Service) Retrieve(ctx context.Context, query string) ([]core.Document, error) {
	docs, err := s.store.Query(ctx, query, TopK)
	if err != nil {
		return nil, fmt.Errorf("querying store: %w", err)
	}
	return docs, nil
}

// Answer streams a generated answer for the query, grounded on the
// retrieval context, invoking emit once per token chunk.
func (s *Service) Answer(ctx context.Context, query string, emit func(chunk []byte) error) error {
	grounding, err := s.AnswerContext(ctx, query)
	if err != nil {
		return err
	}
	return s.generator.GenerateStream(ctx, answerPrompt(grounding, query), emit)
}

// firstURL returns the first URL-shaped substring of query, or "".
func firstURL(query string) string {
	return urlPattern.FindString(query)
}

// composePage renders a directly-fetched page as context. The fetch
// sentinel composes to an empty string, which downstream treats as
// "nothing to ground on".
func composePage(page *core.Page) string {
	if !fetch.Usable(page) {
		return ""
	}
	published := core.TimeUnknown
	if page.Time != nil {
		published = page.Time.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("# %s\n\n%s\n\nPublished: %s\nSource: %s",
		page.Title, page.Content, published, page.URL)
}
