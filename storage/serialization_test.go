package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tabvec/core"
)

func TestIndexEntryRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	entry := &core.IndexEntry{
		ID:     "samples.csv_row42",
		Text:   "col1: 42, col2: text_42",
		Vector: []float32{0.1, -0.5, 0.86},
		Metadata: map[string]string{
			core.MetaSource: "samples.csv",
			core.MetaRow:    "42",
		},
		Fingerprint: core.FingerprintText("col1: 42, col2: text_42"),
		InsertedAt:  now,
		UpdatedAt:   now,
	}

	decoded, err := UnmarshalIndexEntry(MarshalIndexEntry(entry))
	require.NoError(t, err)
	assert.Equal(t, entry.ID, decoded.ID)
	assert.Equal(t, entry.Text, decoded.Text)
	assert.Equal(t, entry.Vector, decoded.Vector)
	assert.Equal(t, entry.Metadata, decoded.Metadata)
	assert.Equal(t, entry.Fingerprint, decoded.Fingerprint)
	assert.True(t, entry.InsertedAt.Equal(decoded.InsertedAt), "InsertedAt should survive the round trip")
	assert.True(t, entry.UpdatedAt.Equal(decoded.UpdatedAt), "UpdatedAt should survive the round trip")
}

func TestUnmarshalIndexEntry_Truncated(t *testing.T) {
	entry := &core.IndexEntry{ID: "a_row0", Text: "x: 1", Vector: []float32{1}}
	data := MarshalIndexEntry(entry)

	_, err := UnmarshalIndexEntry(data[:2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
