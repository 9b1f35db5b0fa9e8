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


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/newsrag/ai"
	"github.com/poiesic/newsrag/ai/openai"
	"github.com/poiesic/newsrag/core"
	"github.com/poiesic/newsrag/fetch"
	"github.com/poiesic/newsrag/ingestion"
	"github.com/poiesic/newsrag/retrieval"
	"github.com/poiesic/newsrag/server"
	"github.com/poiesic/newsrag/sources"
	"github.com/poiesic/newsrag/storage"
	"github.com/poiesic/newsrag/storage/memory"
	"github.com/poiesic/newsrag/storage/qdrant"
	"github.com/urfave/cli/v2"
)

func main() {
	// Best-effort: local development keeps hosts and keys in .env.
	_ = godotenv.Load()

	app := &cli.App{
		Name:   "newsrag",
		Usage:  "Retrieval-augmented news search and answering",
		Flags:  globalFlags(),
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Initialize the collection, backfill if empty, and serve the HTTP API",
				Action: serveCommand,
				Flags: append(stackFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "HTTP listen address",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:  "articles",
						Usage: "Path to the article list CSV used for backfill",
						Value: "articles.csv",
					},
				),
			},
			{
				Name:   "ingest",
				Usage:  "Ingest an article list into the collection and print the audit",
				Action: ingestCommand,
				Flags: append(stackFlags(),
					&cli.StringFlag{
						Name:     "articles",
						Usage:    "Path to the article list CSV",
						Required: true,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Run one retrieval query and print the matching chunks",
				Action:    searchCommand,
				Flags:     stackFlags(),
				ArgsUsage: "<query>",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Set logging level (debug, info, warn, error)",
			Value:   "info",
		},
	}
}

func stackFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "index",
			Usage:   "Vector index backend (qdrant, memory)",
			Value:   "qdrant",
			EnvVars: []string{"NEWSRAG_INDEX"},
		},
		&cli.StringFlag{
			Name:    "qdrant-url",
			Usage:   "Qdrant base URL",
			Value:   "http://localhost:6333",
			EnvVars: []string{"NEWSRAG_QDRANT_URL"},
		},
		&cli.StringFlag{
			Name:    "collection",
			Usage:   "Collection name",
			Value:   "news-articles",
			EnvVars: []string{"NEWSRAG_COLLECTION"},
		},
		&cli.IntFlag{
			Name:  "dimension",
			Usage: "Embedding vector dimensionality",
			Value: 768,
		},
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible host for embeddings and chat",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"NEWSRAG_AI_HOST"},
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name for structuring and answering",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:    "reader-url",
			Usage:   "Reader service endpoint used to fetch articles",
			EnvVars: []string{"NEWSRAG_READER_URL"},
			Value:   "http://localhost:3000/read",
		},
		&cli.IntFlag{
			Name:  "extract-attempts",
			Usage: "Structuring attempts per article before giving up",
			Value: 1,
		},
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", c.String("log-level"))
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// stack bundles the wired collaborators behind the commands.
type stack struct {
	store     *storage.DocumentStore
	provider  ai.AIProvider
	fetcher   fetch.Fetcher
	pipeline  *ingestion.Pipeline
	retriever *retrieval.Service
}

func buildStack(c *cli.Context) (*stack, error) {
	cfg := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithMaxExtractAttempts(c.Int("extract-attempts")),
	)

	provider, err := openai.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("building AI provider: %w", err)
	}

	var index storage.Index
	switch c.String("index") {
	case "qdrant":
		index = qdrant.New(qdrant.Config{
			URL:        c.String("qdrant-url"),
			APIKey:     os.Getenv("QDRANT_API_KEY"),
			Collection: c.String("collection"),
		})
	case "memory":
		index = memory.New()
	default:
		return nil, fmt.Errorf("unknown index backend %q", c.String("index"))
	}

	store, err := storage.NewDocumentStore(index, provider.Embedder(), c.Int("dimension"))
	if err != nil {
		return nil, err
	}

	fetcher := fetch.NewReaderClient(fetch.Config{BaseURL: c.String("reader-url")})

	pipeline, err := ingestion.NewPipeline(store, fetcher, provider.ChunkExtractor())
	if err != nil {
		return nil, err
	}

	retriever, err := retrieval.NewService(store, fetcher, provider.Generator())
	if err != nil {
		return nil, err
	}

	return &stack{
		store:     store,
		provider:  provider,
		fetcher:   fetcher,
		pipeline:  pipeline,
		retriever: retriever,
	}, nil
}

func (s *stack) close() {
	s.pipeline.Release()
	if err := s.provider.Close(); err != nil {
		slog.Warn("closing AI provider", "err", err)
	}
}

func serveCommand(c *cli.Context) error {
	st, err := buildStack(c)
	if err != nil {
		return err
	}
	defer st.close()

	ctx := c.Context
	empty, err := st.store.Initialize(ctx)
	if err != nil {
		return err
	}

	// One-time backfill: only a freshly-empty collection is seeded, and
	// it happens before the server accepts query traffic.
	if empty {
		articles, err := sources.Load(c.String("articles"))
		if err != nil {
			return err
		}
		slog.Info("backfilling empty collection", "articles", len(articles))
		start := time.Now()
		reportFailures(st.pipeline.Ingest(ctx, articles))
		slog.Info("backfill complete", "took", time.Since(start))
	}

	srv := server.NewServer(st.retriever, c.String("addr"), slog.Default())
	return srv.Start()
}

func ingestCommand(c *cli.Context) error {
	st, err := buildStack(c)
	if err != nil {
		return err
	}
	defer st.close()

	ctx := c.Context
	if _, err := st.store.Initialize(ctx); err != nil {
		return err
	}

	articles, err := sources.Load(c.String("articles"))
	if err != nil {
		return err
	}

	results := st.pipeline.Ingest(ctx, articles)
	reportFailures(results)

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	fmt.Printf("ingested %d/%d articles\n", succeeded, len(results))
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("usage: newsrag search <query>")
	}

	st, err := buildStack(c)
	if err != nil {
		return err
	}
	defer st.close()

	if _, err := st.store.Initialize(c.Context); err != nil {
		return err
	}

	docs, err := st.retriever.Retrieve(c.Context, query)
	if err != nil {
		return err
	}

	for i, doc := range docs {
		fmt.Printf("--- %d. %s\n%s\n\n", i+1, doc.ID, doc.Content)
	}
	return nil
}

func reportFailures(results []core.IngestResult) {
	for _, r := range results {
		if !r.Success {
			slog.Warn("article failed", "url", r.URL, "err", r.Err)
		}
	}
}
