package cli

import (
	"context"
	"fmt"

	configfile "github.com/quarry-labs/quarry-cli/internal/adapters/driven/config/file"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/fullcontext"
	lexsqlite "github.com/quarry-labs/quarry-cli/internal/adapters/driven/lexical/sqlite"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/llm/ollama"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/llm/openai"
	chromavec "github.com/quarry-labs/quarry-cli/internal/adapters/driven/vector/chroma"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/services"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Default adapter endpoints.
const defaultChromaURL = "http://localhost:8000"

// initIndices wires the vector and lexical indices from configuration.
// The lexical index is best-effort; the vector index is required.
func initIndices(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if vectorIndex == nil {
		vi, err := buildVectorIndex(ctx, cfg)
		if err != nil {
			return err
		}
		vectorIndex = vi
	}

	if lexicalIndex == nil {
		li, err := lexsqlite.NewIndex(cfg.GetString(configfile.KeyDataDir))
		if err != nil {
			logger.Warn("Keyword index unavailable: %v", err)
		} else {
			lexicalIndex = li
		}
	}

	return initContextStore()
}

// initContextStore wires the full context store only. Context builds
// need no index access.
func initContextStore() error {
	if contextStore != nil {
		return nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cs, err := fullcontext.NewStore(cfg.GetString(configfile.KeyDataDir))
	if err != nil {
		logger.Warn("Full context store unavailable: %v", err)
		return nil
	}
	contextStore = cs
	return nil
}

// initIngestion wires the ingestion pipeline.
func initIngestion(ctx context.Context) error {
	if ingestService != nil {
		return nil
	}
	if err := initIndices(ctx); err != nil {
		return err
	}
	ingestService = services.NewIngestionPipeline(vectorIndex, lexicalIndex)
	return nil
}

// initRetrieval wires the retrieval engine, with reranking when an LLM
// is configured.
func initRetrieval(ctx context.Context) error {
	if retrieveService != nil {
		return nil
	}
	if err := initIndices(ctx); err != nil {
		return err
	}

	var reranker *services.Reranker
	if svc, err := requireLLM(ctx); err == nil {
		reranker = services.NewReranker(svc)
	} else {
		logger.Warn("Reranking disabled: %v", err)
	}

	retrieveService = services.NewRetrievalEngine(vectorIndex, lexicalIndex, contextStore, reranker)
	return nil
}

// initAnswering wires the answer service. The LLM is required here.
func initAnswering(ctx context.Context) error {
	if answerService != nil {
		return nil
	}
	if err := initRetrieval(ctx); err != nil {
		return err
	}
	svc, err := requireLLM(ctx)
	if err != nil {
		return err
	}
	answerService = services.NewAnswerService(retrieveService, svc)
	return nil
}

func buildVectorIndex(ctx context.Context, cfg driven.ConfigStore) (driven.VectorIndex, error) {
	provider := cfg.GetString(configfile.KeyEmbeddingProvider)
	if provider == "" {
		return nil, fmt.Errorf("no embedding provider configured; run: quarry config set %s openai", configfile.KeyEmbeddingProvider)
	}

	ef, err := chromavec.NewEmbeddingFunction(chromavec.EmbeddingConfig{
		Provider: provider,
		APIKey:   cfg.GetString(configfile.KeyEmbeddingAPIKey),
		Model:    cfg.GetString(configfile.KeyEmbeddingModel),
	})
	if err != nil {
		return nil, err
	}

	baseURL := cfg.GetString(configfile.KeyChromaURL)
	if baseURL == "" {
		baseURL = defaultChromaURL
	}

	return chromavec.NewStore(ctx, chromavec.Config{
		BaseURL:       baseURL,
		Collection:    cfg.GetString(configfile.KeyChromaCollection),
		EmbeddingFunc: ef,
	})
}

func buildLLMService(cfg driven.ConfigStore) (driven.LLMService, error) {
	switch provider := cfg.GetString(configfile.KeyLLMProvider); provider {
	case "", "ollama":
		model := cfg.GetString(configfile.KeyLLMModel)
		if model == "" {
			logger.Warn("No LLM model configured, using default %q", ollama.DefaultModel)
		}
		return ollama.NewLLMService(ollama.Config{
			BaseURL: cfg.GetString(configfile.KeyLLMBaseURL),
			Model:   model,
		}), nil
	case "openai":
		return openai.NewLLMService(openai.Config{
			APIKey:  cfg.GetString(configfile.KeyLLMAPIKey),
			BaseURL: cfg.GetString(configfile.KeyLLMBaseURL),
			Model:   cfg.GetString(configfile.KeyLLMModel),
		})
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}
