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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/tabvec"
	"github.com/poiesic/tabvec/ai"
	"github.com/poiesic/tabvec/ai/googleai"
	"github.com/poiesic/tabvec/ai/openai"
	"github.com/poiesic/tabvec/ingest"
	"github.com/poiesic/tabvec/search"
)

func main() {
	// Best effort: a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "tabvec",
		Usage: "Semantic indexing and retrieval for tabular data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Embed and index the rows of a CSV file",
				ArgsUsage: "<csv-file>",
				Action:    ingestCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Collection name",
						Value: tabvec.DefaultCollectionName,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of rows to embed and commit per batch",
						Value: ingest.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of embedding requests in flight at once",
						Value: ingest.DefaultConcurrency,
					},
					&cli.BoolFlag{
						Name:  "resume",
						Usage: "Skip rows already committed with unchanged content",
					},
				),
			},
			{
				Name:      "query",
				Usage:     "Retrieve the rows most relevant to a question",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Collection name",
						Value: tabvec.DefaultCollectionName,
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results to return",
						Value:   search.DefaultTopK,
					},
				),
			},
			{
				Name:   "reset",
				Usage:  "Delete all entries in the collection and recreate it empty",
				Action: resetCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Collection name",
						Value: tabvec.DefaultCollectionName,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Embedding provider (openai, googleai)",
			Value: "openai",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL (openai provider)",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
}

// newEmbedder builds the configured embedding client. API keys come from the
// environment (EMBEDDING_API_KEY for openai-compatible hosts, GOOGLE_API_KEY
// for googleai), loaded from .env if present.
func newEmbedder(ctx context.Context, c *cli.Context) (ai.Embedder, error) {
	switch provider := c.String("provider"); provider {
	case "openai":
		config := ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithAPIKey(os.Getenv("EMBEDDING_API_KEY")),
		)
		return openai.NewEmbedder(config)
	case "googleai":
		config := ai.NewConfig(
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithAPIKey(os.Getenv("GOOGLE_API_KEY")),
		)
		return googleai.NewEmbedder(ctx, config)
	default:
		return nil, fmt.Errorf("unknown provider %q: must be openai or googleai", provider)
	}
}

func openDatabase(ctx context.Context, c *cli.Context) (*tabvec.Database, error) {
	embedder, err := newEmbedder(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	db, err := tabvec.NewDatabase(c.String("db"),
		tabvec.WithEmbedder(embedder),
		tabvec.WithCollectionName(c.String("collection")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	csvPath := c.Args().First()
	if csvPath == "" {
		return fmt.Errorf("csv file argument is required")
	}

	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []ingest.Option{
		ingest.WithBatchSize(c.Int("batch-size")),
		ingest.WithConcurrency(c.Int("concurrency")),
	}
	if c.Bool("resume") {
		opts = append(opts, ingest.WithResume())
	}

	ingestor, err := db.NewIngestor(opts...)
	if err != nil {
		return fmt.Errorf("failed to create ingestor: %w", err)
	}
	defer ingestor.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Collection: %s\n", c.String("collection"))
	fmt.Fprintf(os.Stderr, "Source: %s\n", csvPath)
	fmt.Fprintln(os.Stderr)

	committed, err := ingestor.AddCSV(ctx, csvPath)
	if err != nil {
		if committed > 0 {
			fmt.Fprintf(os.Stderr, "Partially ingested: %d rows committed before failure\n", committed)
			fmt.Fprintln(os.Stderr, "Re-run with --resume to ingest the remainder")
		}
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested %d rows\n", committed)
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.Join(c.Args().Slice(), " ")
	if question == "" {
		return fmt.Errorf("question argument is required")
	}

	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	hits, err := searcher.Query(ctx, question, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(hits) == 0 {
		fmt.Println("No results")
		return nil
	}

	for i, hit := range hits {
		fmt.Printf("%d. %s\n", i+1, hit.Text)
		if hit.Source != "" {
			fmt.Printf("   (%s, row %d)\n", hit.Source, hit.Row)
		}
	}
	return nil
}

func resetCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Reset(ctx); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	fmt.Printf("Collection %q reset\n", c.String("collection"))
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
