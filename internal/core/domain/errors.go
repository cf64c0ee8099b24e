package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, including
	// a chunking configuration where overlap >= chunk size.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoRelevantContent indicates a retrieval found nothing usable.
	// Callers surface this as a message, never as a failure.
	ErrNoRelevantContent = errors.New("no relevant content")

	// ErrUnknownStrategy indicates an unregistered chunking strategy name.
	ErrUnknownStrategy = errors.New("unknown chunking strategy")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	// Semantic search is disabled without it.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrLexicalIndexUnavailable indicates the lexical index is not configured.
	// Keyword search is disabled without it.
	ErrLexicalIndexUnavailable = errors.New("lexical index unavailable")

	// ErrLLMUnavailable indicates the generation service is not configured.
	// Answering and reranking are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
