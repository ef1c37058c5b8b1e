// Package ingest provides the row-to-index ingestion pipeline.
//
// The Ingestor type manages the ingestion workflow for tabular data:
//   - Serializing each row into a text document with a stable id
//   - Embedding documents in fixed-size batches, concurrently
//   - Committing (id, text, vector, metadata) entries per batch
//
// Batch embedding requests run on a bounded worker pool; all batches are
// issued before any result is awaited, and results are reassembled in the
// original document order. An embedding failure aborts the run before any
// index write; a commit failure leaves earlier batches durably written
// (at-least-partial), with Missing as the reconciliation entry point.
//
// Concurrent ingestion runs against the same collection are not serialized
// internally; callers must not overlap them.
package ingest
