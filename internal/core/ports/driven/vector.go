package driven

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// VectorIndex stores chunks with their metadata and serves semantic
// similarity search. Backed by a Chroma collection; embeddings are
// computed server-side by the collection's embedding function.
type VectorIndex interface {
	// Upsert inserts or replaces chunks by ID.
	Upsert(ctx context.Context, chunks []domain.ChunkItem) error

	// Query finds the k chunks most similar to the query text.
	// A non-empty filter restricts results to chunks whose metadata
	// matches every key/value pair.
	Query(ctx context.Context, text string, k int, filter map[string]string) ([]VectorHit, error)

	// Get fetches stored chunks by metadata filter, without scoring.
	// limit <= 0 means no limit.
	Get(ctx context.Context, filter map[string]string, limit int) ([]domain.ChunkItem, error)

	// DeleteBySource removes every chunk ingested from the named
	// source document.
	DeleteBySource(ctx context.Context, source string) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ID is the matched chunk.
	ID string

	// Text is the chunk content.
	Text string

	// Metadata carries the chunk's stored metadata.
	Metadata map[string]any

	// Distance is the embedding distance (lower is closer).
	Distance float64
}
