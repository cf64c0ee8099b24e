// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - VectorIndex: Chunk storage and semantic search (Chroma)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LexicalIndex: BM25 keyword search (SQLite FTS5). Without it,
//     keyword and hybrid retrieval fall back to semantic-only.
//   - LLMService: Answer generation and reranking. Without it,
//     retrieval still works but questions cannot be answered.
//   - ContextStore: Concatenated full-context file for small corpora.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
