package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quarry-labs/quarry-cli/internal/chunking"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Question string `json:"question" jsonschema:"the question to find relevant context for"`
	Mode     string `json:"mode,omitempty" jsonschema:"retrieval mode: semantic, keyword, hybrid or full (default hybrid)"`
	Source   string `json:"source,omitempty" jsonschema:"restrict results to one source file name"`
	Rerank   bool   `json:"rerank,omitempty" jsonschema:"rerank candidates with the LLM"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks        []ChunkOutput `json:"chunks"`
	Count         int           `json:"count"`
	ContextSource string        `json:"context_source"`
}

// ChunkOutput represents a single retrieved chunk.
type ChunkOutput struct {
	Text   string  `json:"text"`
	Source string  `json:"source,omitempty"`
	Score  float64 `json:"score,omitempty"`
	Origin string  `json:"origin"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	Mode     string `json:"mode,omitempty" jsonschema:"retrieval mode: semantic, keyword, hybrid or full (default semantic)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string   `json:"answer"`
	Grounded bool     `json:"grounded"`
	Sources  []string `json:"sources,omitempty"`
	Model    string   `json:"model,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve document chunks relevant to a question",
	}, s.handleRetrieve)

	if s.ports.Answerer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question grounded in the indexed documents",
		}, s.handleAsk)
	}
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	mode := domain.ModeHybrid
	if input.Mode != "" {
		parsed, err := domain.ParseMode(input.Mode)
		if err != nil {
			return nil, RetrieveOutput{}, err
		}
		mode = parsed
	}

	result, err := s.ports.Retriever.Retrieve(ctx, domain.RetrievalRequest{
		Question:     input.Question,
		Mode:         mode,
		SourceFilter: input.Source,
		Rerank:       input.Rerank,
		Limit:        input.Limit,
	})
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Chunks:        make([]ChunkOutput, len(result.Chunks)),
		Count:         len(result.Chunks),
		ContextSource: result.ContextSource,
	}
	for i, c := range result.Chunks {
		source, _ := c.Metadata[chunking.KeySource].(string)
		out := ChunkOutput{
			Text:   c.Text,
			Source: source,
			Origin: string(c.Origin),
		}
		if c.HasScore {
			out.Score = c.Score
		}
		output.Chunks[i] = out
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	mode := domain.ModeSemantic
	if input.Mode != "" {
		parsed, err := domain.ParseMode(input.Mode)
		if err != nil {
			return nil, AskOutput{}, err
		}
		mode = parsed
	}

	answer, err := s.ports.Answerer.Ask(ctx, domain.RetrievalRequest{
		Question: input.Question,
		Mode:     mode,
		Rerank:   true,
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:   answer.Text,
		Grounded: answer.Grounded,
		Sources:  answer.Sources,
		Model:    answer.Model,
	}, nil
}
