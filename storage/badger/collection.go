package badger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/tabvec/core"
	"github.com/poiesic/tabvec/storage"
)

// Collection implements storage.Collection for BadgerDB.
// Similarity search is a brute-force scan over the collection's entry prefix,
// scoring by dot product (cosine similarity for unit-normalized vectors).
type Collection struct {
	backend *Backend
	name    string
	logger  *slog.Logger
}

var _ storage.Collection = (*Collection)(nil)

func newCollection(backend *Backend, name string) *Collection {
	return &Collection{
		backend: backend,
		name:    name,
		logger:  slog.Default().With("collection", name),
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Add commits entries in a single transaction, overwriting entries whose ID
// already exists. The original InsertedAt of an overwritten entry is
// preserved; UpdatedAt is always refreshed.
func (c *Collection) Add(ctx context.Context, entries ...*core.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, entry := range entries {
			if entry.ID == "" {
				return fmt.Errorf("%w: entry has empty id", storage.ErrSerializationFailed)
			}
			key := makeEntryKey(c.name, entry.ID)

			old, err := readEntry(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				entry.InsertedAt = old.InsertedAt
			} else {
				entry.InsertedAt = now
			}
			entry.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalIndexEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Get retrieves a single entry by ID.
func (c *Collection) Get(ctx context.Context, id string) (*core.IndexEntry, error) {
	var result *core.IndexEntry
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		entry, err := readEntry(tx, makeEntryKey(c.name, id))
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}
		result = entry
		return nil
	}, false)
	return result, err
}

// Query returns up to limit entries most similar to the given vector,
// ordered by similarity score (highest first).
func (c *Collection) Query(ctx context.Context, vector []float32, limit int) ([]*core.QueryMatch, error) {
	results := []*core.QueryMatch{}

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeEntryScanPrefix(c.name)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.IndexEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalIndexEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil || len(entry.Vector) == 0 {
				continue
			}

			results = append(results, &core.QueryMatch{
				Entry: entry,
				Score: core.DotProduct(vector, entry.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.QueryMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Count returns the number of entries in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	count := 0
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeEntryScanPrefix(c.name)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readEntry reads an index entry from the transaction.
// Returns nil without error when the key is absent.
func readEntry(tx *badger.Txn, key []byte) (*core.IndexEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.IndexEntry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalIndexEntry(val)
		return unmarshalErr
	})
	return entry, err
}
