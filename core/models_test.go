package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintText_Deterministic(t *testing.T) {
	fp1 := FingerprintText("col1: 1, col2: text_1")
	fp2 := FingerprintText("col1: 1, col2: text_1")
	assert.Equal(t, fp1, fp2, "same text should produce same fingerprint")

	fp3 := FingerprintText("col1: 2, col2: text_2")
	assert.NotEqual(t, fp1, fp3, "different text should produce different fingerprint")
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "samples.csv_row0", DocumentID("samples.csv", 0))
	assert.Equal(t, "samples.csv_row249", DocumentID("samples.csv", 249))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "", FormatValue(math.NaN()))
	assert.Equal(t, "", FormatValue(float32(math.NaN())))
	assert.Equal(t, "hello", FormatValue("hello"))
	assert.Equal(t, "42", FormatValue(42))
	assert.Equal(t, "3.5", FormatValue(3.5))
	assert.Equal(t, "true", FormatValue(true))
}

func TestDocumentMetadata(t *testing.T) {
	doc := &Document{
		ID:     DocumentID("data.csv", 7),
		Text:   "a: 1",
		Source: "data.csv",
		Row:    7,
	}

	meta := doc.Metadata()
	require.Len(t, meta, 2)
	assert.Equal(t, "data.csv", meta[MetaSource])
	assert.Equal(t, "7", meta[MetaRow])
}
