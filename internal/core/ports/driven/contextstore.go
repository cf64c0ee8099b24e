package driven

import "context"

// ContextStore maintains a single concatenated file of every ingested
// document, used by full-context retrieval for small corpora where
// chunked search loses cross-document structure.
type ContextStore interface {
	// Write replaces the stored context with the given named sections.
	// Sections are written in the order given.
	Write(ctx context.Context, sections []ContextSection) error

	// Read returns the full stored context text.
	Read(ctx context.Context) (string, error)

	// Path returns the location of the stored context file.
	Path() string
}

// ContextSection is one named document in the full-context file.
type ContextSection struct {
	// Name labels the section, typically the source filename.
	Name string

	// Content is the document text.
	Content string
}
