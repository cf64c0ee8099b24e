package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/chunking"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

type mockRetriever struct {
	result *domain.RetrievalResult
	err    error
}

func (m *mockRetriever) Retrieve(_ context.Context, _ domain.RetrievalRequest) (*domain.RetrievalResult, error) {
	return m.result, m.err
}

func TestAskRequiresLLM(t *testing.T) {
	svc := NewAnswerService(&mockRetriever{}, nil)

	_, err := svc.Ask(context.Background(), domain.RetrievalRequest{Question: "q"})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAskPropagatesRetrievalError(t *testing.T) {
	svc := NewAnswerService(&mockRetriever{err: domain.ErrInvalidInput}, &mockLLM{})

	_, err := svc.Ask(context.Background(), domain.RetrievalRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAskEmptyRetrievalIsUngrounded(t *testing.T) {
	cases := map[domain.RetrievalMode]string{
		domain.ModeSemantic: "No relevant semantic documents found in your internal data.",
		domain.ModeKeyword:  "No relevant keyword documents found in your internal data.",
		domain.ModeHybrid:   "No relevant documents found from either search method in your internal data.",
		domain.ModeFull:     "The full context file is empty. Run a context build first.",
	}

	for mode, want := range cases {
		retriever := &mockRetriever{result: &domain.RetrievalResult{Mode: mode}}
		llm := &mockLLM{reply: "should not be called"}
		svc := NewAnswerService(retriever, llm)

		answer, err := svc.Ask(context.Background(), domain.RetrievalRequest{Question: "q", Mode: mode})
		require.NoError(t, err)

		assert.False(t, answer.Grounded)
		assert.Equal(t, want, answer.Text)
		assert.Equal(t, mode, answer.Mode)
		assert.Empty(t, llm.prompts)
	}
}

func TestAskGroundedAnswer(t *testing.T) {
	retriever := &mockRetriever{result: &domain.RetrievalResult{
		Chunks: []domain.RetrievedChunk{
			{Text: "Acme charges $9.", Metadata: map[string]any{chunking.KeySource: "acme_pricing.txt"}},
			{Text: "Acme has no free tier.", Metadata: map[string]any{chunking.KeySource: "acme_pricing.txt"}},
			{Text: "Globex charges $12.", Metadata: map[string]any{chunking.KeySource: "globex_pricing.txt"}},
		},
		Mode:          domain.ModeHybrid,
		ContextSource: "hybrid search of your internal documents",
	}}
	llm := &mockLLM{reply: "  Acme is cheaper at $9 [acme_pricing.txt].  "}
	svc := NewAnswerService(retriever, llm)

	answer, err := svc.Ask(context.Background(), domain.RetrievalRequest{Question: "Who is cheaper?", Mode: domain.ModeHybrid})
	require.NoError(t, err)

	assert.True(t, answer.Grounded)
	assert.Equal(t, "Acme is cheaper at $9 [acme_pricing.txt].", answer.Text)
	assert.Equal(t, domain.ModeHybrid, answer.Mode)
	assert.Equal(t, []string{"acme_pricing.txt", "globex_pricing.txt"}, answer.Sources)
	assert.Equal(t, 3, answer.ChunksUsed)
	assert.Equal(t, "mock-model", answer.Model)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Acme charges $9.")
	assert.Contains(t, llm.prompts[0], "QUESTION: Who is cheaper?")
}

func TestAskGenerationError(t *testing.T) {
	retriever := &mockRetriever{result: &domain.RetrievalResult{
		Chunks: []domain.RetrievedChunk{{Text: "some context"}},
		Mode:   domain.ModeSemantic,
	}}
	svc := NewAnswerService(retriever, &mockLLM{err: errors.New("model offline")})

	_, err := svc.Ask(context.Background(), domain.RetrievalRequest{Question: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate answer")
}
