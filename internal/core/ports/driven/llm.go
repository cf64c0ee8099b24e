package driven

import "context"

// LLMService produces text completions for answer generation and
// relevance judging. This is an optional service - when nil, retrieval
// still works but questions cannot be answered or reranked.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI-compatible servers (OpenAI, LM Studio, vLLM)
type LLMService interface {
	// Complete produces a text completion from a prompt.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures text generation behaviour.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	// Zero means the provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
