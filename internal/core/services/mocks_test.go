package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits       []driven.VectorHit
	queryErr   error
	lastFilter map[string]string
	lastK      int

	upserted  []domain.ChunkItem
	batchErr  error // fails multi-item upserts only
	failIDs   map[string]bool
	upsertErr error // fails every upsert
}

func (m *mockVectorIndex) Upsert(_ context.Context, chunks []domain.ChunkItem) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.batchErr != nil && len(chunks) > 1 {
		return m.batchErr
	}
	for _, c := range chunks {
		if m.failIDs[c.ID] {
			return fmt.Errorf("poisoned chunk %s", c.ID)
		}
	}
	m.upserted = append(m.upserted, chunks...)
	return nil
}

func (m *mockVectorIndex) Query(_ context.Context, _ string, k int, filter map[string]string) ([]driven.VectorHit, error) {
	m.lastFilter = filter
	m.lastK = k
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Get(_ context.Context, _ map[string]string, _ int) ([]domain.ChunkItem, error) {
	return nil, nil
}

func (m *mockVectorIndex) DeleteBySource(_ context.Context, _ string) error { return nil }

func (m *mockVectorIndex) Count(_ context.Context) (int, error) { return len(m.upserted), nil }

func (m *mockVectorIndex) Close() error { return nil }

// mockLexicalIndex implements driven.LexicalIndex for testing.
type mockLexicalIndex struct {
	hits      []driven.LexicalHit
	searchErr error
	upserted  []domain.ChunkItem
	upsertErr error
}

func (m *mockLexicalIndex) Upsert(_ context.Context, chunks []domain.ChunkItem) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, chunks...)
	return nil
}

func (m *mockLexicalIndex) Search(_ context.Context, _ string, k int) ([]driven.LexicalHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockLexicalIndex) DeleteBySource(_ context.Context, _ string) error { return nil }

func (m *mockLexicalIndex) Close() error { return nil }

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	reply   string
	err     error
	prompts []string
}

func (m *mockLLM) Complete(_ context.Context, prompt string, _ driven.CompleteOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string { return "mock-model" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockContextStore implements driven.ContextStore for testing.
type mockContextStore struct {
	content  string
	readErr  error
	sections []driven.ContextSection
}

func (m *mockContextStore) Write(_ context.Context, sections []driven.ContextSection) error {
	m.sections = sections
	return nil
}

func (m *mockContextStore) Read(_ context.Context) (string, error) {
	if m.readErr != nil {
		return "", m.readErr
	}
	return m.content, nil
}

func (m *mockContextStore) Path() string { return "/tmp/full_context.txt" }

// longText returns text with n distinct words, free of filler phrases.
func longText(label string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("%s%d", label, i)
	}
	return strings.Join(words, " ")
}
