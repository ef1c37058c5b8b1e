package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tabvec/core"
	"github.com/poiesic/tabvec/storage"
)

func setupTestCollection(t *testing.T) storage.Collection {
	t.Helper()
	store := setupTestStore(t)
	coll, err := store.GetOrCreateCollection(context.Background(), "data_collection")
	require.NoError(t, err)
	return coll
}

func TestCollection_AddAndGet(t *testing.T) {
	coll := setupTestCollection(t)
	ctx := context.Background()

	entry := &core.IndexEntry{
		ID:          "samples.csv_row0",
		Text:        "col1: 0, col2: text_0",
		Vector:      []float32{1, 0, 0},
		Metadata:    map[string]string{core.MetaSource: "samples.csv", core.MetaRow: "0"},
		Fingerprint: core.FingerprintText("col1: 0, col2: text_0"),
	}
	require.NoError(t, coll.Add(ctx, entry))

	got, err := coll.Get(ctx, "samples.csv_row0")
	require.NoError(t, err)
	assert.Equal(t, entry.Text, got.Text)
	assert.Equal(t, entry.Vector, got.Vector)
	assert.Equal(t, entry.Metadata, got.Metadata)
	assert.False(t, got.InsertedAt.IsZero(), "Add should stamp InsertedAt")
}

func TestCollection_Get_NotFound(t *testing.T) {
	coll := setupTestCollection(t)

	_, err := coll.Get(context.Background(), "missing_row0")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCollection_Add_Overwrites(t *testing.T) {
	coll := setupTestCollection(t)
	ctx := context.Background()

	require.NoError(t, coll.Add(ctx, &core.IndexEntry{
		ID: "a_row0", Text: "x: 1", Vector: []float32{1, 0},
	}))

	first, err := coll.Get(ctx, "a_row0")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, coll.Add(ctx, &core.IndexEntry{
		ID: "a_row0", Text: "x: 2", Vector: []float32{0, 1},
	}))

	second, err := coll.Get(ctx, "a_row0")
	require.NoError(t, err)
	assert.Equal(t, "x: 2", second.Text, "re-adding an existing id overwrites")
	assert.True(t, second.InsertedAt.Equal(first.InsertedAt), "overwrite preserves InsertedAt")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt), "overwrite refreshes UpdatedAt")

	count, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "overwrite must not duplicate the entry")
}

func TestCollection_Query_Ordering(t *testing.T) {
	coll := setupTestCollection(t)
	ctx := context.Background()

	require.NoError(t, coll.Add(ctx,
		&core.IndexEntry{ID: "a_row0", Text: "exact", Vector: []float32{1, 0, 0}},
		&core.IndexEntry{ID: "a_row1", Text: "close", Vector: core.NormalizeVector([]float32{1, 1, 0})},
		&core.IndexEntry{ID: "a_row2", Text: "far", Vector: []float32{0, 0, 1}},
	))

	matches, err := coll.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a_row0", matches[0].Entry.ID)
	assert.Equal(t, "a_row1", matches[1].Entry.ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestCollection_Query_Empty(t *testing.T) {
	coll := setupTestCollection(t)

	matches, err := coll.Query(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestCollection_Query_LimitBoundedByCollectionSize(t *testing.T) {
	coll := setupTestCollection(t)
	ctx := context.Background()

	require.NoError(t, coll.Add(ctx,
		&core.IndexEntry{ID: "a_row0", Text: "x", Vector: []float32{1, 0}},
	))

	matches, err := coll.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
