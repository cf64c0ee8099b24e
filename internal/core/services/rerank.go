package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// rerankTopK is how many chunks survive reranking.
const rerankTopK = 5

// previewChars bounds the chunk excerpt shown to the judge.
const previewChars = 200

// Reranker asks an LLM to pick the chunks most relevant to a question.
// Reranking is strictly best-effort: any judge failure or unusable
// response falls back to the original candidate order.
type Reranker struct {
	llm     driven.LLMService
	limiter *rate.Limiter
	topK    int
}

// NewReranker creates a reranker on top of the given LLM service.
func NewReranker(llm driven.LLMService) *Reranker {
	return &Reranker{
		llm:     llm,
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		topK:    rerankTopK,
	}
}

// Rerank reorders candidates by judged relevance and keeps the top
// candidates. A candidate set already within the budget is returned
// untouched, without a judge call.
func (r *Reranker) Rerank(ctx context.Context, question string, candidates []domain.RetrievedChunk) []domain.RetrievedChunk {
	if len(candidates) <= r.topK {
		return candidates
	}
	if r.llm == nil {
		logger.Warn("Reranking skipped: LLM service unavailable")
		return candidates[:r.topK]
	}

	if err := r.limiter.Wait(ctx); err != nil {
		logger.Warn("Reranking skipped: %v", err)
		return candidates[:r.topK]
	}

	prompt := r.buildPrompt(question, candidates)
	reply, err := r.llm.Complete(ctx, prompt, driven.CompleteOptions{Temperature: 0})
	if err != nil {
		logger.Warn("Reranking failed, keeping original order: %v", err)
		return candidates[:r.topK]
	}

	order := parseIndices(reply, len(candidates), r.topK)
	if len(order) == 0 {
		logger.Warn("Reranking reply unusable, keeping original order: %q", reply)
		return candidates[:r.topK]
	}

	reranked := make([]domain.RetrievedChunk, 0, len(order))
	for _, idx := range order {
		reranked = append(reranked, candidates[idx])
	}
	logger.Debug("Reranked %d candidates to %d", len(candidates), len(reranked))
	return reranked
}

func (r *Reranker) buildPrompt(question string, candidates []domain.RetrievedChunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Given the question: \"%s\"\n\n", question)
	b.WriteString("Rank the following text chunks by relevance to the question. ")
	fmt.Fprintf(&b, "Return ONLY the numbers of the %d most relevant chunks, comma-separated, most relevant first.\n\n", r.topK)

	for i, c := range candidates {
		preview := c.Text
		if len(preview) > previewChars {
			preview = preview[:previewChars] + "..."
		}
		fmt.Fprintf(&b, "%d. %s\n\n", i+1, preview)
	}

	fmt.Fprintf(&b, "Answer with numbers only (e.g. 3,1,%d):", r.topK)
	return b.String()
}

// parseIndices extracts 1-based chunk numbers from a judge reply.
// Tokens that are not integers or fall outside [1, n] are ignored,
// duplicates keep their first position, and the result is truncated
// to topK. Returned indices are 0-based.
func parseIndices(reply string, n, topK int) []int {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == ',' {
			return r
		}
		return ' '
	}, reply)

	seen := make(map[int]struct{}, topK)
	out := make([]int, 0, topK)
	for _, tok := range strings.FieldsFunc(cleaned, func(r rune) bool { return r == ',' || r == ' ' }) {
		v, err := strconv.Atoi(tok)
		if err != nil || v < 1 || v > n {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v-1)
		if len(out) == topK {
			break
		}
	}
	return out
}
