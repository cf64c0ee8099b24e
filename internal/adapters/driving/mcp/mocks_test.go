package mcp

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// mockRetriever implements driving.Retriever for testing.
type mockRetriever struct {
	result  *domain.RetrievalResult
	err     error
	lastReq domain.RetrievalRequest
}

func (m *mockRetriever) Retrieve(_ context.Context, req domain.RetrievalRequest) (*domain.RetrievalResult, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.RetrievalResult{Mode: req.Mode}, nil
	}
	return m.result, nil
}

// mockAnswerer implements driving.Answerer for testing.
type mockAnswerer struct {
	answer  *domain.Answer
	err     error
	lastReq domain.RetrievalRequest
}

func (m *mockAnswerer) Ask(_ context.Context, req domain.RetrievalRequest) (*domain.Answer, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}
