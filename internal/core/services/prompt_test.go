package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func TestPromptBuildRendersContext(t *testing.T) {
	result := &domain.RetrievalResult{
		Chunks: []domain.RetrievedChunk{
			{Text: "Acme charges $9 per seat."},
			{Text: "Globex bundles support for free."},
		},
		Mode:          domain.ModeHybrid,
		ContextSource: "hybrid search of your internal documents",
	}

	prompt, err := NewPromptBuilder().Build("Who is cheaper?", result)
	require.NoError(t, err)

	assert.Contains(t, prompt, "CONTEXT SOURCE: hybrid search of your internal documents")
	assert.Contains(t, prompt, "--- START OF INTERNAL CONTEXT ---")
	assert.Contains(t, prompt, "--- END OF INTERNAL CONTEXT ---")
	assert.Contains(t, prompt, "QUESTION: Who is cheaper?")
	assert.Contains(t, prompt, "Acme charges $9 per seat.\n\nGlobex bundles support for free.")
	assert.Contains(t, prompt, "ONLY use information from the provided context below")
}

func TestPromptBuildEmptyResult(t *testing.T) {
	result := &domain.RetrievalResult{Mode: domain.ModeSemantic}

	_, err := NewPromptBuilder().Build("anything", result)
	assert.ErrorIs(t, err, domain.ErrNoRelevantContent)
}
