package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func TestServer_handleRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns chunks", func(t *testing.T) {
		retriever := &mockRetriever{result: &domain.RetrievalResult{
			Chunks: []domain.RetrievedChunk{
				{
					Text:     "Acme pricing starts at nine dollars.",
					Metadata: map[string]any{"source": "acme.txt"},
					Score:    0.91,
					HasScore: true,
					Origin:   domain.ModeSemantic,
				},
			},
			Mode:          domain.ModeHybrid,
			ContextSource: "hybrid search of your internal documents",
		}}
		server, err := NewServer(&Ports{Retriever: retriever})
		require.NoError(t, err)

		_, output, err := server.handleRetrieve(ctx, nil, RetrieveInput{Question: "acme cost"})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Chunks, 1)
		assert.Equal(t, "Acme pricing starts at nine dollars.", output.Chunks[0].Text)
		assert.Equal(t, "acme.txt", output.Chunks[0].Source)
		assert.Equal(t, 0.91, output.Chunks[0].Score)
		assert.Equal(t, "semantic", output.Chunks[0].Origin)
		assert.Equal(t, "hybrid search of your internal documents", output.ContextSource)
	})

	t.Run("default mode is hybrid", func(t *testing.T) {
		retriever := &mockRetriever{}
		server, err := NewServer(&Ports{Retriever: retriever})
		require.NoError(t, err)

		_, _, err = server.handleRetrieve(ctx, nil, RetrieveInput{Question: "q"})

		require.NoError(t, err)
		assert.Equal(t, domain.ModeHybrid, retriever.lastReq.Mode)
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}})
		require.NoError(t, err)

		_, _, err = server.handleRetrieve(ctx, nil, RetrieveInput{Question: "q", Mode: "sideways"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns error on retrieval failure", func(t *testing.T) {
		retriever := &mockRetriever{err: errors.New("index offline")}
		server, err := NewServer(&Ports{Retriever: retriever})
		require.NoError(t, err)

		_, _, err = server.handleRetrieve(ctx, nil, RetrieveInput{Question: "q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "index offline")
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns grounded answer", func(t *testing.T) {
		answerer := &mockAnswerer{answer: &domain.Answer{
			Text:     "Acme is cheaper [acme.txt].",
			Grounded: true,
			Sources:  []string{"acme.txt"},
			Model:    "llama3",
		}}
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Answerer: answerer})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "who is cheaper"})

		require.NoError(t, err)
		assert.Equal(t, "Acme is cheaper [acme.txt].", output.Answer)
		assert.True(t, output.Grounded)
		assert.Equal(t, []string{"acme.txt"}, output.Sources)
		assert.Equal(t, "llama3", output.Model)
	})

	t.Run("default mode is semantic with reranking", func(t *testing.T) {
		answerer := &mockAnswerer{answer: &domain.Answer{}}
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Answerer: answerer})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q"})

		require.NoError(t, err)
		assert.Equal(t, domain.ModeSemantic, answerer.lastReq.Mode)
		assert.True(t, answerer.lastReq.Rerank)
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Answerer: &mockAnswerer{}})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q", Mode: "psychic"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
