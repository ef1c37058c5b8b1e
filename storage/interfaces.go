package storage

import (
	"context"

	"github.com/poiesic/tabvec/core"
)

// Collection is a named persistent set of index entries.
// Implementations must be thread-safe and support concurrent reads.
//
// A Collection value is a handle to the collection as it existed when the
// handle was obtained. After Store.DeleteCollection the handle is stale:
// reads observe an empty collection and writes are undefined. Callers must
// obtain a fresh handle via GetOrCreateCollection after a reset.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// Add commits one or more entries to the collection in a single
	// transaction. An entry whose ID already exists is overwritten
	// (upsert); the original InsertedAt timestamp is preserved and
	// UpdatedAt is refreshed.
	Add(ctx context.Context, entries ...*core.IndexEntry) error

	// Get retrieves a single entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	Get(ctx context.Context, id string) (*core.IndexEntry, error)

	// Query returns up to limit entries most similar to the given vector,
	// ordered by similarity score (highest first). An empty collection
	// yields an empty result, not an error.
	Query(ctx context.Context, vector []float32, limit int) ([]*core.QueryMatch, error)

	// Count returns the number of entries in the collection.
	Count(ctx context.Context) (int, error)
}

// Store manages the lifecycle of named collections on a storage backend.
type Store interface {
	// GetOrCreateCollection returns a handle to the named collection,
	// creating an empty one if it doesn't exist. Idempotent.
	GetOrCreateCollection(ctx context.Context, name string) (Collection, error)

	// DeleteCollection removes the named collection and all its entries.
	// Returns ErrCollectionNotFound if the collection doesn't exist, so
	// callers can distinguish "already absent" from a real store failure.
	DeleteCollection(ctx context.Context, name string) error

	// Close closes the storage backend and releases resources.
	Close() error
}
