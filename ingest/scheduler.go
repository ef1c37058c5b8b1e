package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/tabvec/ai"
	"github.com/poiesic/tabvec/core"
)

// Scheduler embeds an ordered document sequence in fixed-size batches,
// issuing batch requests concurrently and reassembling results in the
// original document order.
//
// Concurrency is bounded by the worker pool: every batch task is submitted
// before any result is awaited (issue-then-join), but at most pool-size
// requests are in flight at once, so batch count cannot overwhelm the
// embedding service.
type Scheduler struct {
	embedder ai.Embedder
	pool     *ants.Pool
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs embedding requests on the given
// worker pool.
func NewScheduler(embedder ai.Embedder, pool *ants.Pool, logger *slog.Logger) (*Scheduler, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if pool == nil {
		return nil, fmt.Errorf("worker pool required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		embedder: embedder,
		pool:     pool,
		logger:   logger.With("component", "scheduler"),
	}, nil
}

// EmbedAll embeds all documents and returns one unit-normalized vector per
// document, index-aligned with the input: the embedding at position i
// corresponds to docs[i] regardless of which batch's request completed first.
//
// If any batch fails, the whole operation fails with a BatchError naming the
// first failing batch in batch-index order; no partial result is returned.
func (s *Scheduler) EmbedAll(ctx context.Context, docs []core.Document, batchSize int) ([][]float32, error) {
	batches, err := Partition(docs, batchSize)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return [][]float32{}, nil
	}

	s.logger.Info("starting concurrent embedding", "documents", len(docs), "batches", len(batches))

	results := make([][][]float32, len(batches))
	errs := make([]error, len(batches))
	var wg sync.WaitGroup

	for i, batch := range batches {
		texts := make([]string, len(batch))
		for j, doc := range batch {
			texts[j] = doc.Text
		}

		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			errs[i] = s.embedBatch(ctx, i, texts, results)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = &BatchError{Batch: i, Op: "embed", Err: submitErr}
		}
	}
	wg.Wait()

	// Report the first failure in batch-index order, not completion order
	for _, err := range errs {
		if err != nil {
			s.logger.Error("embedding run failed", "err", err)
			return nil, err
		}
	}

	// Flatten in batch-index order to restore document order
	embeddings := make([][]float32, 0, len(docs))
	for _, batchVectors := range results {
		embeddings = append(embeddings, batchVectors...)
	}

	s.logger.Info("all embeddings processed", "documents", len(embeddings))
	return embeddings, nil
}

// embedBatch embeds one batch and stores its normalized vectors at the
// batch's slot in results.
func (s *Scheduler) embedBatch(ctx context.Context, batch int, texts []string, results [][][]float32) error {
	if err := ctx.Err(); err != nil {
		return &BatchError{Batch: batch, Op: "embed", Err: err}
	}

	s.logger.Debug("embedding batch", "batch", batch, "texts", len(texts))
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return &BatchError{Batch: batch, Op: "embed", Err: err}
	}
	if len(vectors) != len(texts) {
		return &BatchError{
			Batch: batch,
			Op:    "embed",
			Err:   fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingCountMismatch, len(texts), len(vectors)),
		}
	}

	for j := range vectors {
		vectors[j] = core.NormalizeVector(vectors[j])
	}
	results[batch] = vectors
	return nil
}
