package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/tabvec/core"
	"github.com/poiesic/tabvec/storage"
)

// Writer commits documents and their embeddings to a collection in batches.
type Writer struct {
	collection storage.Collection
	logger     *slog.Logger
}

// NewWriter creates a writer targeting the given collection.
func NewWriter(collection storage.Collection, logger *slog.Logger) (*Writer, error) {
	if collection == nil {
		return nil, ErrCollectionRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		collection: collection,
		logger:     logger.With("component", "writer"),
	}, nil
}

// Commit writes documents and their positionally aligned embeddings to the
// collection, one store call per batch, using the same batch boundaries as
// the embedding phase. Returns the number of entries durably committed.
//
// Batch commits are independent: a failure in batch k does not roll back
// batches 0..k-1, so a failed run leaves the collection partially ingested
// (at-least-partial semantics). The returned BatchError names the failing
// batch; Ingestor.Missing reconciles what still needs committing.
func (w *Writer) Commit(ctx context.Context, docs []core.Document, embeddings [][]float32, batchSize int) (int, error) {
	if len(embeddings) != len(docs) {
		return 0, fmt.Errorf("%w: %d documents, %d embeddings",
			ErrEmbeddingCountMismatch, len(docs), len(embeddings))
	}

	batches, err := Partition(docs, batchSize)
	if err != nil {
		return 0, err
	}

	committed := 0
	for k, batch := range batches {
		entries := make([]*core.IndexEntry, len(batch))
		for j := range batch {
			doc := &batch[j]
			entries[j] = &core.IndexEntry{
				ID:          doc.ID,
				Text:        doc.Text,
				Vector:      embeddings[committed+j],
				Metadata:    doc.Metadata(),
				Fingerprint: doc.Fingerprint,
			}
		}

		if err := w.collection.Add(ctx, entries...); err != nil {
			return committed, &BatchError{Batch: k, Op: "commit", Err: err}
		}
		committed += len(batch)
		w.logger.Debug("committed batch", "batch", k, "entries", len(batch))
	}

	w.logger.Info("commit complete", "entries", committed, "batches", len(batches))
	return committed, nil
}
