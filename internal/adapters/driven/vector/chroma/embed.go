package chroma

import (
	"fmt"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/amikos-tech/chroma-go/pkg/embeddings/gemini"
	"github.com/amikos-tech/chroma-go/pkg/embeddings/openai"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// EmbeddingConfig selects the embedding provider for the collection.
type EmbeddingConfig struct {
	// Provider is "openai" or "gemini".
	Provider string

	// APIKey authenticates against the provider.
	APIKey string

	// Model is the embedding model name. Empty means the provider
	// default.
	Model string
}

// NewEmbeddingFunction builds the provider's embedding function.
func NewEmbeddingFunction(cfg EmbeddingConfig) (embeddings.EmbeddingFunction, error) {
	switch cfg.Provider {
	case "openai":
		opts := []openai.Option{}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(openai.EmbeddingModel(cfg.Model)))
		}
		ef, err := openai.NewOpenAIEmbeddingFunction(cfg.APIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("openai embedding function: %w", err)
		}
		return ef, nil

	case "gemini":
		opts := []gemini.Option{gemini.WithAPIKey(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, gemini.WithDefaultModel(embeddings.EmbeddingModel(cfg.Model)))
		}
		ef, err := gemini.NewGeminiEmbeddingFunction(opts...)
		if err != nil {
			return nil, fmt.Errorf("gemini embedding function: %w", err)
		}
		return ef, nil
	}

	return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, cfg.Provider)
}
