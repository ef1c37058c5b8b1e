package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.NotEmpty(t, cfg.EmbeddingModel)
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://localhost:9100"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithAPIKey("secret"),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:9100/v1", cfg.EmbeddingHost, "Normalize should add /v1")
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "secret", cfg.APIKey)
}

func TestConfig_Normalize(t *testing.T) {
	cfg := &Config{EmbeddingHost: "http://localhost:11434/", EmbeddingModel: "m"}
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)

	// Already canonical hosts are untouched
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
}

func TestConfig_Validate_Errors(t *testing.T) {
	cfg := &Config{EmbeddingModel: "m"}
	assert.Error(t, cfg.Validate(), "missing host")

	cfg = &Config{EmbeddingHost: "http://localhost:11434/v1"}
	assert.Error(t, cfg.Validate(), "missing model")
}
