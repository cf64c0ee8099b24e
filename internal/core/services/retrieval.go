package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/quarry-labs/quarry-cli/internal/chunking"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure RetrievalEngine implements the interface.
var _ driving.Retriever = (*RetrievalEngine)(nil)

// Default candidate counts per mode.
const (
	semanticResults = 10
	keywordResults  = 5
	hybridCap       = 7
)

// Quality gate for retrieved chunks: drop fragments and legal filler.
const minChunkWords = 50

var resultBoilerplate = []string{
	"terms and conditions",
	"privacy policy",
	"copyright",
	"all rights reserved",
	"disclaimer",
	"agreement",
	"legal notice",
	"cookie policy",
}

// RetrievalEngine fuses vector and lexical search into one retrieval
// surface. The lexical index, context store and reranker are optional;
// modes that need a missing collaborator degrade or fail with a
// domain error.
type RetrievalEngine struct {
	vectorIndex  driven.VectorIndex
	lexicalIndex driven.LexicalIndex
	contextStore driven.ContextStore
	reranker     *Reranker
}

// NewRetrievalEngine creates a retrieval engine. lexicalIndex,
// contextStore and reranker are optional (can be nil).
func NewRetrievalEngine(
	vectorIndex driven.VectorIndex,
	lexicalIndex driven.LexicalIndex,
	contextStore driven.ContextStore,
	reranker *Reranker,
) *RetrievalEngine {
	return &RetrievalEngine{
		vectorIndex:  vectorIndex,
		lexicalIndex: lexicalIndex,
		contextStore: contextStore,
		reranker:     reranker,
	}
}

// Retrieve returns the chunks most relevant to the request.
func (e *RetrievalEngine) Retrieve(ctx context.Context, req domain.RetrievalRequest) (*domain.RetrievalResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Question: %q, mode: %s, rerank: %t", req.Question, req.Mode, req.Rerank)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	if req.Mode == domain.ModeFull {
		return e.fullContext(ctx, req)
	}

	var (
		chunks []domain.RetrievedChunk
		err    error
	)
	switch req.Mode {
	case domain.ModeSemantic:
		chunks, err = e.semanticSearch(ctx, question, req.SourceFilter, e.candidates(req, semanticResults))
	case domain.ModeKeyword:
		chunks, err = e.keywordSearch(ctx, question, e.candidates(req, keywordResults))
	case domain.ModeHybrid:
		chunks, err = e.hybridSearch(ctx, question, req.SourceFilter)
	default:
		return nil, fmt.Errorf("%w: unknown retrieval mode %q", domain.ErrInvalidInput, req.Mode)
	}
	if err != nil {
		return nil, err
	}

	chunks = filterQuality(chunks)
	logger.Debug("After quality filter: %d chunks", len(chunks))

	if req.Rerank && e.reranker != nil && len(chunks) > 0 {
		chunks = e.reranker.Rerank(ctx, question, chunks)
		logger.Debug("After rerank: %d chunks", len(chunks))
	}

	chunks = capChunks(chunks, e.cap(req))

	return &domain.RetrievalResult{
		Mode:          req.Mode,
		Chunks:        chunks,
		ContextSource: req.Mode.Description(),
	}, nil
}

// candidates returns the candidate count for single-backend modes.
func (e *RetrievalEngine) candidates(req domain.RetrievalRequest, def int) int {
	if req.Limit > 0 && req.Limit > def {
		return req.Limit
	}
	return def
}

// cap returns the final result bound for the request.
func (e *RetrievalEngine) cap(req domain.RetrievalRequest) int {
	if req.Limit > 0 {
		return req.Limit
	}
	switch req.Mode {
	case domain.ModeSemantic:
		return semanticResults
	case domain.ModeKeyword:
		return keywordResults
	default:
		return hybridCap
	}
}

func (e *RetrievalEngine) semanticSearch(ctx context.Context, question, sourceFilter string, k int) ([]domain.RetrievedChunk, error) {
	if e.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	var filter map[string]string
	if sourceFilter != "" {
		filter = map[string]string{chunking.KeySource: sourceFilter}
		logger.Debug("Source filter: %q", sourceFilter)
	}

	hits, err := e.vectorIndex.Query(ctx, question, k, filter)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	logger.Debug("Semantic search: %d hits", len(hits))

	chunks := make([]domain.RetrievedChunk, len(hits))
	for i, hit := range hits {
		chunks[i] = domain.RetrievedChunk{
			Text:     hit.Text,
			Metadata: hit.Metadata,
			Score:    hit.Distance,
			HasScore: true,
			Origin:   domain.ModeSemantic,
		}
	}
	return chunks, nil
}

func (e *RetrievalEngine) keywordSearch(ctx context.Context, question string, k int) ([]domain.RetrievedChunk, error) {
	if e.lexicalIndex == nil {
		return nil, domain.ErrLexicalIndexUnavailable
	}

	hits, err := e.lexicalIndex.Search(ctx, question, k)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	logger.Debug("Keyword search: %d hits", len(hits))

	chunks := make([]domain.RetrievedChunk, len(hits))
	for i, hit := range hits {
		chunks[i] = domain.RetrievedChunk{
			Text: hit.Content,
			Metadata: map[string]any{
				chunking.KeySource: hit.Source,
			},
			Score:    hit.Score,
			HasScore: true,
			Origin:   domain.ModeKeyword,
		}
	}
	return chunks, nil
}

// hybridSearch runs both backends concurrently and fuses the results,
// semantic hits first. A single failing backend degrades the mode to
// the surviving one; only a double failure is an error.
func (e *RetrievalEngine) hybridSearch(ctx context.Context, question, sourceFilter string) ([]domain.RetrievedChunk, error) {
	var (
		wg        sync.WaitGroup
		semChunks []domain.RetrievedChunk
		semErr    error
		kwChunks  []domain.RetrievedChunk
		kwErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		semChunks, semErr = e.semanticSearch(ctx, question, sourceFilter, semanticResults)
	}()
	go func() {
		defer wg.Done()
		kwChunks, kwErr = e.keywordSearch(ctx, question, keywordResults)
	}()
	wg.Wait()

	if semErr != nil && kwErr != nil {
		return nil, fmt.Errorf("hybrid search: %w", errors.Join(semErr, kwErr))
	}
	if semErr != nil {
		logger.Warn("Hybrid search degraded to keyword-only: %v", semErr)
	}
	if kwErr != nil {
		logger.Warn("Hybrid search degraded to semantic-only: %v", kwErr)
	}

	// First occurrence wins, semantic hits first.
	seen := make(map[string]struct{}, len(semChunks)+len(kwChunks))
	fused := make([]domain.RetrievedChunk, 0, len(semChunks)+len(kwChunks))
	for _, c := range append(semChunks, kwChunks...) {
		key := strings.TrimSpace(c.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fused = append(fused, c)
	}

	logger.Debug("Hybrid fusion: %d semantic + %d keyword -> %d fused",
		len(semChunks), len(kwChunks), len(fused))
	return fused, nil
}

func (e *RetrievalEngine) fullContext(ctx context.Context, req domain.RetrievalRequest) (*domain.RetrievalResult, error) {
	if e.contextStore == nil {
		return nil, fmt.Errorf("%w: full context store not configured", domain.ErrInvalidInput)
	}

	text, err := e.contextStore.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read full context: %w", err)
	}

	result := &domain.RetrievalResult{
		Mode:          domain.ModeFull,
		ContextSource: domain.ModeFull.Description(),
	}
	if strings.TrimSpace(text) == "" {
		return result, nil
	}

	result.Chunks = []domain.RetrievedChunk{{
		Text:   text,
		Origin: domain.ModeFull,
	}}
	return result, nil
}

// filterQuality drops chunks too short to answer from and chunks that
// are mostly legal filler.
func filterQuality(chunks []domain.RetrievedChunk) []domain.RetrievedChunk {
	kept := make([]domain.RetrievedChunk, 0, len(chunks))
	for _, c := range chunks {
		if chunking.WordCount(c.Text) < minChunkWords {
			continue
		}
		lower := strings.ToLower(c.Text)
		filler := false
		for _, phrase := range resultBoilerplate {
			if strings.Contains(lower, phrase) {
				filler = true
				break
			}
		}
		if filler {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func capChunks(chunks []domain.RetrievedChunk, limit int) []domain.RetrievedChunk {
	if limit > 0 && len(chunks) > limit {
		return chunks[:limit]
	}
	return chunks
}
