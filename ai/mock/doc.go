// Package mock provides a test double implementation of the ai.Embedder
// interface.
//
// The mock allows tests to run without an external embedding service and
// produces controlled, deterministic vectors: the same text always maps to
// the same unit vector, for queries and documents alike.
//
// # Usage in Tests
//
//	embedder := mock.NewEmbedder()
//	vecs, err := embedder.EmbedDocuments(ctx, []string{"a: 1", "a: 2"})
//
//	// Custom behavior injection
//	embedder.EmbedDocumentsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("service unavailable")
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
package mock
