package ai

import "context"

// Embedder generates vector embeddings for documents and queries.
// Implementations must be thread-safe for concurrent use.
//
// Document and query embedding are deliberately distinct operations:
// embedding services tag retrieval-document and retrieval-query inputs
// differently, and mixing the two degrades retrieval quality.
type Embedder interface {
	// EmbedQuery generates a vector embedding for a single query string.
	// Returns an error if the embedding generation fails.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedDocuments generates vector embeddings for a batch of document
	// texts in a single service call. The returned slice contains one
	// embedding per input text, in input order.
	//
	// No retries are performed. Any transport or service failure is
	// returned to the caller unchanged; resilience is the caller's
	// responsibility.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}
