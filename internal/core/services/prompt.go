package services

import (
	"fmt"
	"strings"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// groundedTemplate constrains the model to the retrieved context. The
// wording is deliberately heavy-handed; smaller local models drift
// into general knowledge without it.
const groundedTemplate = `You are a competitive intelligence assistant specializing in cybersecurity vendors. You have access to internal company documents and competitor analysis.

CRITICAL INSTRUCTIONS:
1. ONLY use information from the provided context below
2. Do NOT use your general knowledge about companies or products
3. If the context doesn't contain the answer, respond: "This information is not available in the current internal documents."
4. Always cite your sources using the format [source_name]
5. Be specific and factual - avoid speculation
6. Focus on competitive intelligence insights, pricing, and product comparisons

CONTEXT SOURCE: %s

--- START OF INTERNAL CONTEXT ---
%s
--- END OF INTERNAL CONTEXT ---

QUESTION: %s

ANSWER (based only on the context above):`

// PromptBuilder renders retrieval results into grounded LLM prompts.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build renders the grounded prompt for a question and its retrieved
// context. The result must be non-empty.
func (p *PromptBuilder) Build(question string, result *domain.RetrievalResult) (string, error) {
	if result.Empty() {
		return "", domain.ErrNoRelevantContent
	}

	texts := make([]string, len(result.Chunks))
	for i, c := range result.Chunks {
		texts[i] = c.Text
	}
	context := strings.Join(texts, "\n\n")

	return fmt.Sprintf(groundedTemplate, result.ContextSource, context, question), nil
}
