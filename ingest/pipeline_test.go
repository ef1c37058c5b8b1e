package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tabvec/ai/mock"
	"github.com/poiesic/tabvec/core"
)

func makeRecords(n int) []core.Record {
	records := make([]core.Record, n)
	for i := range records {
		records[i] = core.Record{
			Columns: []string{"name", "value"},
			Values:  []any{fmt.Sprintf("item-%d", i), i},
		}
	}
	return records
}

func TestIngestorAddRows(t *testing.T) {
	collection := newTestCollection(t)
	ingestor, err := NewIngestor(collection, mock.NewEmbedder())
	require.NoError(t, err)
	defer ingestor.Release()

	committed, err := ingestor.AddRows(context.Background(), makeRecords(250), "samples.csv")
	require.NoError(t, err)
	assert.Equal(t, 250, committed)

	count, err := collection.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 250, count)

	// Ids follow the source_rowN scheme across the full range
	first, err := collection.Get(context.Background(), "samples.csv_row0")
	require.NoError(t, err)
	assert.Equal(t, "name: item-0, value: 0", first.Text)

	last, err := collection.Get(context.Background(), "samples.csv_row249")
	require.NoError(t, err)
	assert.Equal(t, "name: item-249, value: 249", last.Text)
}

func TestIngestorBatchSizeOption(t *testing.T) {
	collection := newTestCollection(t)
	embedder := mock.NewEmbedder()
	ingestor, err := NewIngestor(collection, embedder, WithBatchSize(50))
	require.NoError(t, err)
	defer ingestor.Release()

	committed, err := ingestor.AddRows(context.Background(), makeRecords(120), "data.csv")
	require.NoError(t, err)
	assert.Equal(t, 120, committed)

	// 120 rows at batch size 50 is three embedding requests: 50, 50, 20
	assert.Equal(t, 3, embedder.CallCount())
}

func TestIngestorInvalidOptions(t *testing.T) {
	collection := newTestCollection(t)

	_, err := NewIngestor(collection, mock.NewEmbedder(), WithBatchSize(0))
	assert.ErrorIs(t, err, core.ErrInvalidBatchSize)

	_, err = NewIngestor(nil, mock.NewEmbedder())
	assert.ErrorIs(t, err, ErrCollectionRequired)

	_, err = NewIngestor(collection, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestIngestorOverwritesDuplicateIDs(t *testing.T) {
	collection := newTestCollection(t)
	ingestor, err := NewIngestor(collection, mock.NewEmbedder())
	require.NoError(t, err)
	defer ingestor.Release()

	records := makeRecords(10)
	_, err = ingestor.AddRows(context.Background(), records, "data.csv")
	require.NoError(t, err)

	// Re-ingesting the same source overwrites rather than duplicates
	records[3].Values[0] = "changed"
	_, err = ingestor.AddRows(context.Background(), records, "data.csv")
	require.NoError(t, err)

	count, err := collection.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, count)

	entry, err := collection.Get(context.Background(), "data.csv_row3")
	require.NoError(t, err)
	assert.Equal(t, "name: changed, value: 3", entry.Text)
}

func TestIngestorEmbeddingFailureWritesNothing(t *testing.T) {
	collection := newTestCollection(t)
	embedder := mock.NewEmbedder()
	embedder.EmbedDocumentsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("service down")
	}
	ingestor, err := NewIngestor(collection, embedder)
	require.NoError(t, err)
	defer ingestor.Release()

	committed, err := ingestor.AddRows(context.Background(), makeRecords(20), "data.csv")
	require.Error(t, err)
	assert.Zero(t, committed)

	// Embedding failed before any index write
	count, err := collection.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIngestorMissing(t *testing.T) {
	collection := newTestCollection(t)
	ingestor, err := NewIngestor(collection, mock.NewEmbedder(), WithBatchSize(10))
	require.NoError(t, err)
	defer ingestor.Release()

	records := makeRecords(25)
	ctx := context.Background()

	// Nothing committed yet: everything is missing
	missing, err := ingestor.Missing(ctx, records, "data.csv")
	require.NoError(t, err)
	assert.Len(t, missing, 25)

	_, err = ingestor.AddRows(ctx, records, "data.csv")
	require.NoError(t, err)

	missing, err = ingestor.Missing(ctx, records, "data.csv")
	require.NoError(t, err)
	assert.Empty(t, missing)

	// A changed row shows up as missing again
	records[5].Values[0] = "edited"
	missing, err = ingestor.Missing(ctx, records, "data.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"data.csv_row5"}, missing)
}

func TestIngestorResumeSkipsCommitted(t *testing.T) {
	collection := newTestCollection(t)
	ctx := context.Background()
	records := makeRecords(30)

	first, err := NewIngestor(collection, mock.NewEmbedder(), WithBatchSize(10))
	require.NoError(t, err)
	_, err = first.AddRows(ctx, records[:20], "data.csv")
	require.NoError(t, err)
	first.Release()

	// A resuming ingestor over the full dataset only embeds what is absent
	embedder := mock.NewEmbedder()
	second, err := NewIngestor(collection, embedder, WithBatchSize(10), WithResume())
	require.NoError(t, err)
	defer second.Release()

	committed, err := second.AddRows(ctx, records, "data.csv")
	require.NoError(t, err)
	assert.Equal(t, 10, committed)
	assert.Equal(t, 1, embedder.CallCount())

	count, err := collection.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, count)
}

func TestIngestorMissingAfterPartialCommit(t *testing.T) {
	inner := newTestCollection(t)
	failing := &failingCollection{Collection: inner, failAfter: 20}
	ctx := context.Background()
	records := makeRecords(35)

	ingestor, err := NewIngestor(failing, mock.NewEmbedder(), WithBatchSize(10))
	require.NoError(t, err)
	committed, err := ingestor.AddRows(ctx, records, "data.csv")
	require.Error(t, err)
	assert.Equal(t, 20, committed)
	ingestor.Release()

	// Reconciliation over the durable collection reports exactly the rows
	// from the failed batches
	checker, err := NewIngestor(inner, mock.NewEmbedder())
	require.NoError(t, err)
	defer checker.Release()

	missing, err := checker.Missing(ctx, records, "data.csv")
	require.NoError(t, err)
	require.Len(t, missing, 15)
	assert.Equal(t, "data.csv_row20", missing[0])
	assert.Equal(t, "data.csv_row34", missing[14])
}

func TestIngestorResumeNothingToDo(t *testing.T) {
	collection := newTestCollection(t)
	ctx := context.Background()
	records := makeRecords(5)

	first, err := NewIngestor(collection, mock.NewEmbedder())
	require.NoError(t, err)
	_, err = first.AddRows(ctx, records, "data.csv")
	require.NoError(t, err)
	first.Release()

	embedder := mock.NewEmbedder()
	second, err := NewIngestor(collection, embedder, WithResume())
	require.NoError(t, err)
	defer second.Release()

	committed, err := second.AddRows(ctx, records, "data.csv")
	require.NoError(t, err)
	assert.Zero(t, committed)
	assert.Zero(t, embedder.CallCount())
}
