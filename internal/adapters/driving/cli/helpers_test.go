package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	configfile "github.com/quarry-labs/quarry-cli/internal/adapters/driven/config/file"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

// --- Stub services wired in place of the real adapters ---

type stubRetriever struct {
	result  *domain.RetrievalResult
	err     error
	lastReq domain.RetrievalRequest
}

func (s *stubRetriever) Retrieve(_ context.Context, req domain.RetrievalRequest) (*domain.RetrievalResult, error) {
	s.lastReq = req
	return s.result, s.err
}

type stubAnswerer struct {
	answer  *domain.Answer
	err     error
	lastReq domain.RetrievalRequest
}

func (s *stubAnswerer) Ask(_ context.Context, req domain.RetrievalRequest) (*domain.Answer, error) {
	s.lastReq = req
	return s.answer, s.err
}

type stubIngestor struct {
	summary  *domain.IngestSummary
	err      error
	lastOpts domain.IngestOptions
}

func (s *stubIngestor) Run(_ context.Context, opts domain.IngestOptions) (*domain.IngestSummary, error) {
	s.lastOpts = opts
	return s.summary, s.err
}

type stubVectorIndex struct {
	items []domain.ChunkItem
}

func (s *stubVectorIndex) Upsert(_ context.Context, _ []domain.ChunkItem) error { return nil }

func (s *stubVectorIndex) Query(_ context.Context, _ string, _ int, _ map[string]string) ([]driven.VectorHit, error) {
	return nil, nil
}

func (s *stubVectorIndex) Get(_ context.Context, filter map[string]string, _ int) ([]domain.ChunkItem, error) {
	if len(filter) == 0 {
		return s.items, nil
	}
	var out []domain.ChunkItem
	for _, item := range s.items {
		match := true
		for k, v := range filter {
			if item.Metadata[k] != v {
				match = false
				break
			}
		}
		if match {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubVectorIndex) DeleteBySource(_ context.Context, _ string) error { return nil }

func (s *stubVectorIndex) Count(_ context.Context) (int, error) { return len(s.items), nil }

func (s *stubVectorIndex) Close() error { return nil }

type stubLexicalIndex struct{}

func (s *stubLexicalIndex) Upsert(_ context.Context, _ []domain.ChunkItem) error { return nil }

func (s *stubLexicalIndex) Search(_ context.Context, _ string, _ int) ([]driven.LexicalHit, error) {
	return nil, nil
}

func (s *stubLexicalIndex) DeleteBySource(_ context.Context, _ string) error { return nil }

func (s *stubLexicalIndex) Close() error { return nil }

type stubContextStore struct {
	content string
	path    string
}

func (s *stubContextStore) Write(_ context.Context, _ []driven.ContextSection) error { return nil }

func (s *stubContextStore) Read(_ context.Context) (string, error) { return s.content, nil }

func (s *stubContextStore) Path() string { return s.path }

// setupTestServices swaps every wired collaborator for a stub so
// commands run without touching real backends. The returned cleanup
// restores the previous wiring.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	prevConfig := configStore
	prevVector := vectorIndex
	prevLexical := lexicalIndex
	prevLLM := llmService
	prevContext := contextStore
	prevIngest := ingestService
	prevRetrieve := retrieveService
	prevAnswer := answerService

	cfg, err := configfile.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	configStore = cfg
	vectorIndex = &stubVectorIndex{}
	lexicalIndex = &stubLexicalIndex{}
	contextStore = &stubContextStore{path: "/tmp/full_context.txt"}
	ingestService = &stubIngestor{summary: &domain.IngestSummary{}}
	retrieveService = &stubRetriever{result: &domain.RetrievalResult{}}
	answerService = &stubAnswerer{answer: &domain.Answer{}}

	return func() {
		configStore = prevConfig
		vectorIndex = prevVector
		lexicalIndex = prevLexical
		llmService = prevLLM
		contextStore = prevContext
		ingestService = prevIngest
		retrieveService = prevRetrieve
		answerService = prevAnswer
	}
}
