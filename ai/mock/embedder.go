package mock

import (
	"context"
	"hash/fnv"
	"math"
	"sync/atomic"
)

// Embedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type Embedder struct {
	// EmbedQueryFunc is called by EmbedQuery if set.
	// If nil, uses default deterministic behavior.
	EmbedQueryFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedDocumentsFunc is called by EmbedDocuments if set.
	// If nil, uses default deterministic behavior.
	EmbedDocumentsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount atomic.Int64
}

// NewEmbedder creates a mock embedder with default deterministic behavior.
// The same text always produces the same unit vector regardless of whether
// it is embedded as a query or as a document, so ingest-then-query
// round-trips self-match exactly.
//
// Note: Returns concrete type to allow behavior injection and assertions.
func NewEmbedder() *Embedder {
	return &Embedder{}
}

// EmbedQuery generates a deterministic embedding based on text hash.
func (m *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	m.callCount.Add(1)

	if m.EmbedQueryFunc != nil {
		return m.EmbedQueryFunc(ctx, text)
	}

	return DeterministicVector(text, 64), nil
}

// EmbedDocuments generates deterministic embeddings for multiple texts.
func (m *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount.Add(1)

	if m.EmbedDocumentsFunc != nil {
		return m.EmbedDocumentsFunc(ctx, texts)
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = DeterministicVector(text, 64)
	}
	return embeddings, nil
}

// CallCount returns the number of times any method was called.
// Safe to read while the scheduler is embedding concurrently.
func (m *Embedder) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and any injected behavior.
func (m *Embedder) Reset() {
	m.callCount.Store(0)
	m.EmbedQueryFunc = nil
	m.EmbedDocumentsFunc = nil
}

// DeterministicVector creates a deterministic unit embedding vector from
// text. It uses FNV hash seeding so the same text always produces the same
// vector.
func DeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%2000)/1000.0 - 1.0
	}

	// Normalize to unit length
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares > 0 {
		norm := float32(1.0 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= norm
		}
	}

	return vector
}
