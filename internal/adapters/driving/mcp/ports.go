package mcp

import (
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Retriever serves context retrieval.
	Retriever driving.Retriever

	// Answerer generates grounded answers. Optional; without it only
	// the retrieve tool is registered.
	Answerer driving.Answerer
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
