// Package mcp provides an MCP (Model Context Protocol) server adapter
// for quarry. It lets AI assistants retrieve grounded context from the
// local document indices.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")
