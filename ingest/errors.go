package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrCollectionRequired is returned when a collection is not provided.
	ErrCollectionRequired = errors.New("collection required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbeddingCountMismatch indicates the embedding service returned a
	// different number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrEmptyCSV indicates a CSV file with no header row.
	ErrEmptyCSV = errors.New("csv file has no header row")
)

// BatchError reports a failure while embedding or committing one batch.
// Batch is the zero-based batch index within the ingestion run, so callers
// can tell how far a partially committed run progressed.
type BatchError struct {
	Batch int
	Op    string // "embed" or "commit"
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s batch %d: %v", e.Op, e.Batch, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
