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


package tabvec

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/poiesic/tabvec/ai"
	"github.com/poiesic/tabvec/ai/openai"
	"github.com/poiesic/tabvec/ingest"
	"github.com/poiesic/tabvec/search"
	"github.com/poiesic/tabvec/storage"
	"github.com/poiesic/tabvec/storage/badger"
)

// DefaultCollectionName is the collection used when the caller does not
// specify one.
const DefaultCollectionName = "data_collection"

// Database bundles a storage backend, an embedder, and a live collection
// handle into one indexing-and-retrieval surface.
type Database struct {
	store          storage.Store
	embedder       ai.Embedder
	collectionName string
	logger         *slog.Logger

	mu         sync.RWMutex
	collection storage.Collection
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig       *ai.Config
	embedder       ai.Embedder
	collectionName string
	inMemory       bool
}

// WithAIConfig sets the embedding service configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithEmbedder sets a pre-built embedder, bypassing the AI config. Used to
// plug in an alternative provider or a test double.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithCollectionName sets the collection to open.
// Default is DefaultCollectionName.
func WithCollectionName(name string) DatabaseOption {
	return func(o *databaseOptions) {
		o.collectionName = name
	}
}

// WithInMemory makes the backend keep all data in memory, discarded on
// Close. Used for tests and throwaway runs.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens (or creates) a database at filePath and ensures the
// configured collection exists.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig:       ai.DefaultConfig(), // Default if not provided
		collectionName: DefaultCollectionName,
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}
	store := badger.NewStore(backend)

	// Create embedder with configured settings
	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	collection, err := store.GetOrCreateCollection(context.Background(), options.collectionName)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		store:          store,
		embedder:       embedder,
		collectionName: options.collectionName,
		collection:     collection,
		logger:         slog.Default(),
	}, nil
}

// Collection returns the current collection handle. After Reset, previously
// returned handles are stale; call Collection again for the fresh one.
func (db *Database) Collection() storage.Collection {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.collection
}

// Reset deletes the collection's entries and recreates it empty, returning
// the fresh handle. A collection that does not exist yet is not an error;
// any other delete failure is reported and the old handle stays current.
func (db *Database) Reset(ctx context.Context) (storage.Collection, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.store.DeleteCollection(ctx, db.collectionName); err != nil {
		if !errors.Is(err, storage.ErrCollectionNotFound) {
			return nil, err
		}
		db.logger.Debug("reset of absent collection", "collection", db.collectionName)
	}

	collection, err := db.store.GetOrCreateCollection(ctx, db.collectionName)
	if err != nil {
		return nil, err
	}

	db.collection = collection
	db.logger.Info("collection reset", "collection", db.collectionName)
	return collection, nil
}

// NewIngestor creates an ingestion pipeline targeting the current collection.
func (db *Database) NewIngestor(opts ...ingest.Option) (*ingest.Ingestor, error) {
	return ingest.NewIngestor(db.Collection(), db.embedder, opts...)
}

// NewSearcher creates a searcher over the current collection.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.Collection(), db.embedder, opts...)
}

func (db *Database) Close() error {
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}
