package services

import (
	"context"
	"fmt"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/logger"
	"github.com/quarry-labs/quarry-cli/internal/readers"
)

// ContextBuilder concatenates every readable document into the full
// context store. Small corpora answer better from the whole corpus
// than from chunked search.
type ContextBuilder struct {
	store driven.ContextStore
}

func NewContextBuilder(store driven.ContextStore) *ContextBuilder {
	return &ContextBuilder{store: store}
}

// Build rewrites the context store from the documents under the given
// options. It returns the number of documents included.
func (b *ContextBuilder) Build(ctx context.Context, opts domain.IngestOptions) (int, error) {
	logger.Section("Context Build")

	files, err := DiscoverFiles(opts, nil)
	if err != nil {
		return 0, err
	}

	registry := readers.DefaultRegistry(opts.IncludePDF)
	sections := make([]driven.ContextSection, 0, len(files))
	for _, file := range files {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		doc, skipReason, err := readDocument(registry, file, 1)
		if err != nil {
			logger.Warn("Skipping %s: %v", file.Path, err)
			continue
		}
		if skipReason != "" {
			continue
		}
		sections = append(sections, driven.ContextSection{
			Name:    doc.Name,
			Content: doc.Content,
		})
	}

	if err := b.store.Write(ctx, sections); err != nil {
		return 0, fmt.Errorf("write full context: %w", err)
	}

	logger.Info("Full context built from %d documents at %s", len(sections), b.store.Path())
	return len(sections), nil
}
