package driving

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// Ingestor runs the document ingestion pipeline.
type Ingestor interface {
	// Run discovers, chunks and indexes documents according to the
	// given options. Partial failures are recorded in the summary
	// rather than aborting the run.
	Run(ctx context.Context, opts domain.IngestOptions) (*domain.IngestSummary, error)
}
