package search

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/poiesic/tabvec/ai"
	"github.com/poiesic/tabvec/core"
	"github.com/poiesic/tabvec/storage"
)

// DefaultTopK is the number of results returned when the caller does not
// specify a count.
const DefaultTopK = 3

// Searcher provides semantic retrieval over an indexed collection.
type Searcher struct {
	collection storage.Collection
	embedder   ai.Embedder
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher over the given collection.
func NewSearcher(collection storage.Collection, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if collection == nil {
		return nil, ErrCollectionRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		collection: collection,
		embedder:   embedder,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Query embeds the question and returns up to topK hits ranked by similarity,
// best first. Fewer than topK indexed entries yields fewer hits; an empty
// collection yields an empty result, not an error.
//
// The question is embedded as a query, not as a document, so services that
// distinguish the two produce retrieval-appropriate vectors.
func (s *Searcher) Query(ctx context.Context, question string, topK int) ([]*core.Hit, error) {
	if err := core.ValidateTopK(topK); err != nil {
		return nil, err
	}

	embedding, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		s.logger.Error("error embedding query", "err", err)
		return nil, err
	}
	embedding = core.NormalizeVector(embedding)

	matches, err := s.collection.Query(ctx, embedding, topK)
	if err != nil {
		s.logger.Error("error querying collection", "err", err)
		return nil, err
	}

	hits := make([]*core.Hit, 0, len(matches))
	for _, match := range matches {
		hits = append(hits, shapeHit(match.Entry))
	}

	s.logger.Debug("query complete", "hits", len(hits), "topK", topK)
	return hits, nil
}

// shapeHit projects an index entry onto its retrieval surface. Entries
// without provenance metadata get an empty source and row -1.
func shapeHit(entry *core.IndexEntry) *core.Hit {
	hit := &core.Hit{
		Text:   entry.Text,
		Source: entry.Metadata[core.MetaSource],
		Row:    -1,
	}
	if raw, ok := entry.Metadata[core.MetaRow]; ok {
		if row, err := strconv.Atoi(raw); err == nil {
			hit.Row = row
		}
	}
	return hit
}
