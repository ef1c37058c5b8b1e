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


package badger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/tabvec/storage"
)

// Store implements storage.Store for BadgerDB.
// Collections share one database; each collection's entries live under a
// dedicated key prefix so deletion can use badger's DropPrefix.
type Store struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a new Store on an open backend.
//
// Returns storage.Store interface to enforce abstraction.
func NewStore(backend *Backend) storage.Store {
	return &Store{
		backend: backend,
		logger:  slog.Default().With("component", "badger-store"),
	}
}

// GetOrCreateCollection returns a handle to the named collection, creating an
// empty one if it doesn't exist.
func (s *Store) GetOrCreateCollection(ctx context.Context, name string) (storage.Collection, error) {
	if err := validateCollectionName(name); err != nil {
		return nil, err
	}
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCollectionKey(name)
		_, err := tx.Get(key)
		if err == nil {
			return nil // already exists
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		// Record creation time as the marker value
		createdAt := time.Now().UTC().UnixMicro()
		value := make([]byte, varint.Int64.Size(createdAt))
		varint.Int64.Marshal(createdAt, value)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		s.logger.Info("created collection", "collection", name)
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return newCollection(s.backend, name), nil
}

// DeleteCollection removes the named collection and all its entries.
// Returns storage.ErrCollectionNotFound if the collection doesn't exist.
// Handles previously returned for the collection become stale.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if err := validateCollectionName(name); err != nil {
		return err
	}
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := tx.Get(makeCollectionKey(name)); err != nil {
			if err == badger.ErrKeyNotFound {
				return fmt.Errorf("%w: %s", storage.ErrCollectionNotFound, name)
			}
			return err
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	// Drop the entry keyspace before removing the marker so a crash in
	// between leaves an empty-but-present collection, never a recreated
	// collection that resurrects old entries.
	if err := s.backend.DropPrefix(makeEntryScanPrefix(name)); err != nil {
		return err
	}

	err = s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeCollectionKey(name)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	s.logger.Info("deleted collection", "collection", name)
	return nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// validateCollectionName rejects names that would break the key scheme.
func validateCollectionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", storage.ErrInvalidCollectionName)
	}
	if strings.Contains(name, ":") {
		return fmt.Errorf("%w: %q contains ':'", storage.ErrInvalidCollectionName, name)
	}
	return nil
}
