package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tabvec/ai/mock"
	"github.com/poiesic/tabvec/core"
	"github.com/poiesic/tabvec/ingest"
	"github.com/poiesic/tabvec/storage"
	"github.com/poiesic/tabvec/storage/badger"
)

func newSeededCollection(t *testing.T, records []core.Record, source string) storage.Collection {
	t.Helper()

	store, _, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	collection, err := store.GetOrCreateCollection(ctx, "test_collection")
	require.NoError(t, err)

	if len(records) > 0 {
		ingestor, err := ingest.NewIngestor(collection, mock.NewEmbedder())
		require.NoError(t, err)
		defer ingestor.Release()

		_, err = ingestor.AddRows(ctx, records, source)
		require.NoError(t, err)
	}
	return collection
}

func TestSearcherQuery(t *testing.T) {
	records := []core.Record{
		{Columns: []string{"name", "role"}, Values: []any{"Ada", "engineer"}},
		{Columns: []string{"name", "role"}, Values: []any{"Alan", "scientist"}},
		{Columns: []string{"name", "role"}, Values: []any{"Grace", "admiral"}},
	}
	collection := newSeededCollection(t, records, "people.csv")

	searcher, err := NewSearcher(collection, mock.NewEmbedder())
	require.NoError(t, err)

	// The mock embeds identical text to the identical vector, so querying
	// with a stored document's text must rank that document first.
	hits, err := searcher.Query(context.Background(), "name: Alan, role: scientist", 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "name: Alan, role: scientist", hits[0].Text)
	assert.Equal(t, "people.csv", hits[0].Source)
	assert.Equal(t, 1, hits[0].Row)
}

func TestSearcherTopKLimit(t *testing.T) {
	records := make([]core.Record, 10)
	for i := range records {
		records[i] = core.Record{Columns: []string{"n"}, Values: []any{i}}
	}
	collection := newSeededCollection(t, records, "nums.csv")

	searcher, err := NewSearcher(collection, mock.NewEmbedder())
	require.NoError(t, err)

	hits, err := searcher.Query(context.Background(), "n: 4", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearcherFewerEntriesThanTopK(t *testing.T) {
	records := []core.Record{
		{Columns: []string{"n"}, Values: []any{1}},
	}
	collection := newSeededCollection(t, records, "nums.csv")

	searcher, err := NewSearcher(collection, mock.NewEmbedder())
	require.NoError(t, err)

	hits, err := searcher.Query(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearcherEmptyCollection(t *testing.T) {
	collection := newSeededCollection(t, nil, "empty.csv")

	searcher, err := NewSearcher(collection, mock.NewEmbedder())
	require.NoError(t, err)

	hits, err := searcher.Query(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearcherInvalidTopK(t *testing.T) {
	collection := newSeededCollection(t, nil, "empty.csv")

	searcher, err := NewSearcher(collection, mock.NewEmbedder())
	require.NoError(t, err)

	_, err = searcher.Query(context.Background(), "anything", 0)
	assert.ErrorIs(t, err, core.ErrInvalidTopK)
}

func TestSearcherEmbeddingFailure(t *testing.T) {
	collection := newSeededCollection(t, nil, "empty.csv")

	embedder := mock.NewEmbedder()
	embedder.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("service down")
	}

	searcher, err := NewSearcher(collection, embedder)
	require.NoError(t, err)

	_, err = searcher.Query(context.Background(), "anything", 3)
	assert.Error(t, err)
}

func TestSearcherUsesQueryEmbedding(t *testing.T) {
	records := []core.Record{
		{Columns: []string{"n"}, Values: []any{1}},
	}
	collection := newSeededCollection(t, records, "nums.csv")

	embedder := mock.NewEmbedder()
	var queryCalls int
	embedder.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		queryCalls++
		return mock.DeterministicVector(text, 64), nil
	}
	embedder.EmbedDocumentsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		t.Fatal("query must not embed as documents")
		return nil, nil
	}

	searcher, err := NewSearcher(collection, embedder)
	require.NoError(t, err)

	_, err = searcher.Query(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, queryCalls)
}

func TestNewSearcherValidation(t *testing.T) {
	collection := newSeededCollection(t, nil, "empty.csv")

	_, err := NewSearcher(nil, mock.NewEmbedder())
	assert.ErrorIs(t, err, ErrCollectionRequired)

	_, err = NewSearcher(collection, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestShapeHitWithoutProvenance(t *testing.T) {
	hit := shapeHit(&core.IndexEntry{Text: "orphan", Metadata: map[string]string{}})
	assert.Equal(t, "orphan", hit.Text)
	assert.Equal(t, "", hit.Source)
	assert.Equal(t, -1, hit.Row)
}
