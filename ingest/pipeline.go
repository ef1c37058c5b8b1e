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


package ingest

import (
	"context"
	"errors"
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/tabvec/ai"
	"github.com/poiesic/tabvec/core"
	"github.com/poiesic/tabvec/storage"
)

const (
	// DefaultBatchSize is the number of documents per embedding and commit batch.
	DefaultBatchSize = 100

	// DefaultConcurrency is the number of embedding requests in flight at once.
	DefaultConcurrency = 8
)

// Ingestor orchestrates the ingestion of tabular data into a collection.
type Ingestor struct {
	collection  storage.Collection
	embedder    ai.Embedder
	pool        *ants.Pool
	scheduler   *Scheduler
	writer      *Writer
	batchSize   int
	concurrency int
	resume      bool
	logger      *slog.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor) error

// WithBatchSize sets the number of documents per batch.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(ing *Ingestor) error {
		if err := core.ValidateBatchSize(size); err != nil {
			return err
		}
		ing.batchSize = size
		return nil
	}
}

// WithConcurrency sets the worker pool size bounding concurrent embedding
// requests. Default is DefaultConcurrency, with a minimum of 1.
func WithConcurrency(size int) Option {
	return func(ing *Ingestor) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if ing.pool != nil {
			ing.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		ing.pool = pool
		ing.concurrency = size
		return nil
	}
}

// WithResume makes ingestion skip rows already committed with an unchanged
// content fingerprint, so a partially failed run can be re-issued without
// re-embedding what is already durable.
func WithResume() Option {
	return func(ing *Ingestor) error {
		ing.resume = true
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ing *Ingestor) error {
		if logger == nil {
			logger = slog.Default()
		}
		ing.logger = logger
		return nil
	}
}

// NewIngestor creates a new ingestion pipeline targeting the given collection.
func NewIngestor(collection storage.Collection, embedder ai.Embedder, opts ...Option) (*Ingestor, error) {
	if collection == nil {
		return nil, ErrCollectionRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	pool, err := ants.NewPool(DefaultConcurrency)
	if err != nil {
		return nil, err
	}

	ing := &Ingestor{
		collection:  collection,
		embedder:    embedder,
		pool:        pool,
		batchSize:   DefaultBatchSize,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(ing); optErr != nil {
			ing.Release()
			return nil, optErr
		}
	}

	// Create stages after options are applied (so they get final config)
	scheduler, err := NewScheduler(embedder, ing.pool, ing.logger)
	if err != nil {
		ing.Release()
		return nil, err
	}
	writer, err := NewWriter(collection, ing.logger)
	if err != nil {
		ing.Release()
		return nil, err
	}

	ing.scheduler = scheduler
	ing.writer = writer
	return ing, nil
}

// AddRows ingests records under the given source name: each row becomes one
// committed index entry. Returns the number of entries committed.
//
// An embedding failure aborts the run before any index write. A commit
// failure leaves earlier batches durably written; the returned count says
// how many entries made it, and Missing reports what still needs committing.
// Runs against the same collection must not overlap.
func (ing *Ingestor) AddRows(ctx context.Context, records []core.Record, source string) (int, error) {
	docs, err := BuildDocuments(records, source)
	if err != nil {
		return 0, err
	}

	if ing.resume {
		docs, err = ing.filterCommitted(ctx, docs)
		if err != nil {
			return 0, err
		}
	}
	if len(docs) == 0 {
		ing.logger.Info("nothing to ingest", "source", source)
		return 0, nil
	}

	embeddings, err := ing.scheduler.EmbedAll(ctx, docs, ing.batchSize)
	if err != nil {
		return 0, err
	}

	committed, err := ing.writer.Commit(ctx, docs, embeddings, ing.batchSize)
	if err != nil {
		return committed, err
	}

	ing.logger.Info("ingestion complete", "source", source, "entries", committed)
	return committed, nil
}

// AddCSV reads a delimited file and ingests its rows, using the file's
// basename as the source name.
func (ing *Ingestor) AddCSV(ctx context.Context, path string) (int, error) {
	records, source, err := ReadCSV(path)
	if err != nil {
		return 0, err
	}
	return ing.AddRows(ctx, records, source)
}

// Missing returns the ids of documents from the given dataset that are not
// yet committed to the collection, or that are committed with a different
// content fingerprint. It is the reconciliation entry point after a
// partially failed ingestion run.
func (ing *Ingestor) Missing(ctx context.Context, records []core.Record, source string) ([]string, error) {
	docs, err := BuildDocuments(records, source)
	if err != nil {
		return nil, err
	}

	missing := []string{}
	for i := range docs {
		committed, err := ing.isCommitted(ctx, &docs[i])
		if err != nil {
			return nil, err
		}
		if !committed {
			missing = append(missing, docs[i].ID)
		}
	}
	return missing, nil
}

// Release releases the worker pool.
// The ingestor should not be used after calling Release.
func (ing *Ingestor) Release() {
	if ing.pool != nil {
		ing.pool.Release()
	}
}

// filterCommitted drops documents already committed with an unchanged
// fingerprint.
func (ing *Ingestor) filterCommitted(ctx context.Context, docs []core.Document) ([]core.Document, error) {
	kept := make([]core.Document, 0, len(docs))
	for i := range docs {
		committed, err := ing.isCommitted(ctx, &docs[i])
		if err != nil {
			return nil, err
		}
		if !committed {
			kept = append(kept, docs[i])
		}
	}
	if skipped := len(docs) - len(kept); skipped > 0 {
		ing.logger.Info("skipping already committed rows", "skipped", skipped)
	}
	return kept, nil
}

// isCommitted reports whether the document is already stored with the same
// content fingerprint.
func (ing *Ingestor) isCommitted(ctx context.Context, doc *core.Document) (bool, error) {
	entry, err := ing.collection.Get(ctx, doc.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return entry.Fingerprint == doc.Fingerprint, nil
}
