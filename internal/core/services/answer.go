package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/quarry-labs/quarry-cli/internal/chunking"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.Answerer = (*AnswerService)(nil)

// Fixed replies when retrieval comes back empty. Finding nothing is an
// outcome, not an error, so these go out as ungrounded answers.
var noContentMessages = map[domain.RetrievalMode]string{
	domain.ModeSemantic: "No relevant semantic documents found in your internal data.",
	domain.ModeKeyword:  "No relevant keyword documents found in your internal data.",
	domain.ModeHybrid:   "No relevant documents found from either search method in your internal data.",
	domain.ModeFull:     "The full context file is empty. Run a context build first.",
}

// AnswerService answers questions from retrieved context only.
type AnswerService struct {
	retriever driving.Retriever
	llm       driven.LLMService
	prompts   *PromptBuilder
}

// NewAnswerService creates an answer service.
func NewAnswerService(retriever driving.Retriever, llm driven.LLMService) *AnswerService {
	return &AnswerService{
		retriever: retriever,
		llm:       llm,
		prompts:   NewPromptBuilder(),
	}
}

// Ask retrieves context for the question and generates a grounded
// answer from it.
func (s *AnswerService) Ask(ctx context.Context, req domain.RetrievalRequest) (*domain.Answer, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	result, err := s.retriever.Retrieve(ctx, req)
	if err != nil {
		return nil, err
	}

	if result.Empty() {
		logger.Info("No relevant content for %q in %s mode", req.Question, req.Mode)
		return &domain.Answer{
			Text:     noContentMessages[result.Mode],
			Grounded: false,
			Mode:     result.Mode,
		}, nil
	}

	prompt, err := s.prompts.Build(req.Question, result)
	if err != nil {
		return nil, err
	}
	logger.Debug("Grounded prompt: %d chars from %d chunks", len(prompt), len(result.Chunks))

	text, err := s.llm.Complete(ctx, prompt, driven.CompleteOptions{})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:       strings.TrimSpace(text),
		Grounded:   true,
		Mode:       result.Mode,
		Sources:    chunkSources(result.Chunks),
		ChunksUsed: len(result.Chunks),
		Model:      s.llm.ModelName(),
	}, nil
}

// chunkSources lists the distinct source documents behind the chunks,
// in first-seen order.
func chunkSources(chunks []domain.RetrievedChunk) []string {
	seen := make(map[string]struct{})
	var sources []string
	for _, c := range chunks {
		src, _ := c.Metadata[chunking.KeySource].(string)
		if src == "" {
			continue
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}
		sources = append(sources, src)
	}
	return sources
}
