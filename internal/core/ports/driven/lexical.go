package driven

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// LexicalIndex provides BM25 keyword search over chunk text.
// This is an optional service - when nil, keyword and hybrid retrieval
// degrade to semantic-only results.
type LexicalIndex interface {
	// Upsert inserts or replaces chunks by ID.
	Upsert(ctx context.Context, chunks []domain.ChunkItem) error

	// Search returns the k best keyword matches for the query.
	Search(ctx context.Context, query string, k int) ([]LexicalHit, error)

	// DeleteBySource removes every chunk ingested from the named
	// source document.
	DeleteBySource(ctx context.Context, source string) error

	// Close releases resources.
	Close() error
}

// LexicalHit represents a keyword search result.
type LexicalHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Source is the document the chunk came from.
	Source string

	// Content is the chunk text.
	Content string

	// Score is the BM25 relevance score (higher is better).
	Score float64
}
