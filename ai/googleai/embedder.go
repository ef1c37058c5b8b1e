package googleai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/tabvec/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Embedder implements ai.Embedder using Google Gemini embedding models.
// The Gemini API distinguishes retrieval-document from retrieval-query
// inputs; langchaingo routes EmbedDocuments and EmbedQuery accordingly.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates a new Gemini embedder using the provided configuration.
// The config's APIKey is required; EmbeddingHost is ignored since the Gemini
// endpoint is fixed.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(ctx context.Context, config *ai.Config) (ai.Embedder, error) {
	if config.EmbeddingModel == "" {
		return nil, errors.New("googleai: EmbeddingModel is required")
	}
	if config.APIKey == "" {
		return nil, errors.New("googleai: APIKey is required")
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "googleai-embedder"),
	}, nil
}

// EmbedQuery generates a vector embedding for a single query string.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for query", "length", len(text))

	embedding, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		e.logger.Error("failed to generate query embedding", "err", err)
		return nil, err
	}

	return embedding, nil
}

// EmbedDocuments generates vector embeddings for a batch of document texts.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for documents", "count", len(texts))

	embeddings, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate document embeddings", "count", len(texts), "err", err)
		return nil, err
	}

	return embeddings, nil
}
