package driving

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// Retriever serves context retrieval to external actors.
type Retriever interface {
	// Retrieve returns the chunks most relevant to the request.
	Retrieve(ctx context.Context, req domain.RetrievalRequest) (*domain.RetrievalResult, error)
}

// Answerer turns questions into grounded answers.
type Answerer interface {
	// Ask retrieves context for the question and generates a grounded
	// answer from it.
	Ask(ctx context.Context, req domain.RetrievalRequest) (*domain.Answer, error)
}
