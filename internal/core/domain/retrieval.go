package domain

import "fmt"

// RetrievalMode selects the search strategy for a request.
type RetrievalMode string

const (
	// ModeSemantic queries the vector index only.
	ModeSemantic RetrievalMode = "semantic"

	// ModeKeyword queries the lexical index only.
	ModeKeyword RetrievalMode = "keyword"

	// ModeHybrid queries both indices and fuses the results.
	ModeHybrid RetrievalMode = "hybrid"

	// ModeFull bypasses both indices and uses the pre-built full
	// context document verbatim.
	ModeFull RetrievalMode = "full"
)

// ParseMode validates a mode string from the CLI or MCP surface.
func ParseMode(s string) (RetrievalMode, error) {
	switch RetrievalMode(s) {
	case ModeSemantic, ModeKeyword, ModeHybrid, ModeFull:
		return RetrievalMode(s), nil
	}
	return "", fmt.Errorf("%w: unknown retrieval mode %q", ErrInvalidInput, s)
}

// Description returns a human-readable label for prompts and logs.
func (m RetrievalMode) Description() string {
	switch m {
	case ModeSemantic:
		return "semantic search of your internal documents"
	case ModeKeyword:
		return "keyword search of your internal documents"
	case ModeHybrid:
		return "hybrid search of your internal documents"
	case ModeFull:
		return "full context file"
	}
	return string(m)
}

// RetrievalRequest describes one retrieval. Each request is independent;
// the engine keeps no state between requests.
type RetrievalRequest struct {
	// Question is the natural-language query text.
	Question string

	// Mode selects the search strategy.
	Mode RetrievalMode

	// SourceFilter restricts semantic results to a single source file
	// name. Empty means no filter.
	SourceFilter string

	// Rerank enables LLM-judge reranking of the candidate set.
	Rerank bool

	// Limit bounds the number of returned chunks. Zero means the
	// engine default.
	Limit int
}

// RetrievedChunk is one element of a retrieval result. Score semantics
// differ by origin (distance for semantic, term score for keyword) and
// must not be compared across origins.
type RetrievedChunk struct {
	// Text is the chunk content.
	Text string

	// Metadata carries the chunk tags when the backend returns them.
	Metadata map[string]any

	// Score is the backend relevance score. Meaningless when
	// HasScore is false (full-context mode).
	Score float64

	// HasScore reports whether Score carries a value.
	HasScore bool

	// Origin is the mode that produced this chunk.
	Origin RetrievalMode
}

// RetrievalResult is the ordered outcome of one retrieval.
type RetrievalResult struct {
	// Mode is the mode the request ran under.
	Mode RetrievalMode

	// Chunks is the ordered chunk list. Empty means no relevant
	// content was found - that is an outcome, not an error.
	Chunks []RetrievedChunk

	// ContextSource labels where the context came from, for the
	// grounded prompt.
	ContextSource string
}

// Empty reports whether the retrieval found no relevant content.
func (r *RetrievalResult) Empty() bool {
	return len(r.Chunks) == 0
}

// Answer is a generated response grounded in retrieved context.
type Answer struct {
	// Text is the generated answer. When Grounded is false this is a
	// fixed "nothing relevant" message, not model output.
	Text string

	// Grounded reports whether the answer was generated from
	// retrieved context.
	Grounded bool

	// Mode is the retrieval mode the context came from.
	Mode RetrievalMode

	// Sources lists the distinct source documents cited by the
	// context, in first-seen order.
	Sources []string

	// ChunksUsed counts the context chunks behind the answer.
	ChunksUsed int

	// Model names the LLM that produced the answer.
	Model string
}
