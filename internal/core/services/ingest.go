package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quarry-labs/quarry-cli/internal/chunking"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
	"github.com/quarry-labs/quarry-cli/internal/readers"
)

// Ensure IngestionPipeline implements the interface.
var _ driving.Ingestor = (*IngestionPipeline)(nil)

// Pipeline defaults.
const (
	defaultBatchSize   = 50
	defaultMinDocChars = 100
	defaultEpoch       = 1

	// Chunk validation floor: anything smaller carries no signal.
	minChunkValidWords = 5
	minChunkValidChars = 20

	// Dry runs list at most this many files.
	previewFiles = 10

	// Failure lists in the summary are bounded.
	maxReportedFailures = 20
)

// IngestionPipeline walks directories, chunks documents and commits
// the chunks to the indices. Failures are isolated per file and per
// chunk; one bad document never aborts a run.
type IngestionPipeline struct {
	vectorIndex  driven.VectorIndex
	lexicalIndex driven.LexicalIndex
}

// NewIngestionPipeline creates an ingestion pipeline. lexicalIndex is
// optional (can be nil).
func NewIngestionPipeline(vectorIndex driven.VectorIndex, lexicalIndex driven.LexicalIndex) *IngestionPipeline {
	return &IngestionPipeline{
		vectorIndex:  vectorIndex,
		lexicalIndex: lexicalIndex,
	}
}

// Run executes one ingestion pass.
func (p *IngestionPipeline) Run(ctx context.Context, opts domain.IngestOptions) (*domain.IngestSummary, error) {
	start := time.Now()

	if p.vectorIndex == nil && !opts.DryRun {
		return nil, domain.ErrVectorIndexUnavailable
	}
	opts = withDefaults(opts)

	strategies, err := resolveStrategies(opts.Strategies)
	if err != nil {
		return nil, err
	}

	summary := &domain.IngestSummary{
		RunID:   uuid.NewString(),
		Skipped: make(map[string]int),
		DryRun:  opts.DryRun,
	}
	logger.Section("Ingestion Run")
	logger.Debug("Run %s: directories %v, strategies %v, epoch %d", summary.RunID, opts.Directories, opts.Strategies, opts.Epoch)

	files, err := DiscoverFiles(opts, summary.Skipped)
	if err != nil {
		return nil, err
	}
	summary.FilesFound = len(files)
	logger.Info("Discovered %d files", len(files))

	if opts.DryRun {
		for i, f := range files {
			if i == previewFiles {
				break
			}
			summary.Preview = append(summary.Preview, f.Path)
		}
		summary.Duration = time.Since(start)
		return summary, nil
	}

	cfg := chunking.Config{
		ChunkSize:         opts.ChunkSize,
		Overlap:           opts.Overlap,
		PreserveSentences: opts.PreserveSentences,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := readers.DefaultRegistry(opts.IncludePDF)
	batch := make([]domain.ChunkItem, 0, opts.BatchSize)
	runStamp := start.UTC().Format(time.RFC3339)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		committed, failed := p.commitBatch(ctx, batch)
		summary.ChunksCommitted += committed
		for _, id := range failed {
			if len(summary.FailedItems) < maxReportedFailures {
				summary.FailedItems = append(summary.FailedItems, id)
			}
		}
		batch = batch[:0]
	}

	limitReached := func() bool {
		return opts.Limit > 0 && summary.ChunksCommitted+len(batch) >= opts.Limit
	}

	for _, file := range files {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if limitReached() {
			logger.Info("Chunk limit %d reached, stopping", opts.Limit)
			break
		}

		doc, skipReason, err := readDocument(registry, file, opts.MinDocumentChars)
		if err != nil {
			logger.Warn("Failed to read %s: %v", file.Path, err)
			summary.FilesSkipped++
			summary.Skipped[domain.SkipUnreadable]++
			if len(summary.FailedFiles) < maxReportedFailures {
				summary.FailedFiles = append(summary.FailedFiles, file.Path)
			}
			continue
		}
		if skipReason != "" {
			summary.FilesSkipped++
			summary.Skipped[skipReason]++
			continue
		}

		summary.FilesProcessed++

		fileMeta := map[string]any{
			"source_path": doc.Path,
			"file_size":   int(doc.Size),
			"modified_at": doc.ModTime.UTC().Format(time.RFC3339),
			"ingested_at": runStamp,
			"priority":    doc.Priority,
		}

		for _, name := range strategies {
			if limitReached() {
				break
			}
			fn, _ := chunking.Strategy(name)
			chunks, err := fn(doc.Content, doc.Name, cfg)
			if err != nil {
				logger.Warn("Strategy %s failed on %s: %v", name, doc.Name, err)
				continue
			}

			for i, chunk := range chunks {
				summary.ChunksProduced++
				if !validChunk(chunk.Text) {
					summary.ChunksRejected++
					continue
				}

				item := domain.ChunkItem{
					ID:       domain.ChunkID(doc.Name, name, i, opts.Epoch),
					Text:     chunk.Text,
					Metadata: mergeMetadata(fileMeta, chunk.Metadata, name),
				}
				batch = append(batch, item)
				if len(batch) >= opts.BatchSize {
					flush()
				}
				if limitReached() {
					break
				}
			}
		}
	}
	flush()

	summary.Duration = time.Since(start)
	logger.Info("Ingested %d/%d chunks from %d files in %s",
		summary.ChunksCommitted, summary.ChunksProduced, summary.FilesProcessed, summary.Duration)
	return summary, nil
}

// commitBatch writes a batch to the indices. A failing vector batch is
// retried chunk by chunk so one poisoned item costs one chunk, not
// fifty. The lexical index is best-effort.
func (p *IngestionPipeline) commitBatch(ctx context.Context, batch []domain.ChunkItem) (committed int, failed []string) {
	if err := p.vectorIndex.Upsert(ctx, batch); err != nil {
		logger.Warn("Batch commit of %d chunks failed, retrying individually: %v", len(batch), err)
		for _, item := range batch {
			if err := p.vectorIndex.Upsert(ctx, []domain.ChunkItem{item}); err != nil {
				logger.Warn("Chunk %s lost: %v", item.ID, err)
				failed = append(failed, item.ID)
				continue
			}
			committed++
		}
	} else {
		committed = len(batch)
	}

	if p.lexicalIndex != nil && committed > 0 {
		if err := p.lexicalIndex.Upsert(ctx, batch); err != nil {
			logger.Warn("Lexical index update failed: %v", err)
		}
	}
	return committed, failed
}

// DiscoverFiles walks the configured roots and returns the admitted
// files ordered by priority class; ties keep discovery order. The walk
// itself never reads file content. Extension skips are tallied into
// skipped.
func DiscoverFiles(opts domain.IngestOptions, skipped map[string]int) ([]domain.RawDocument, error) {
	opts = withDefaults(opts)
	registry := readers.DefaultRegistry(opts.IncludePDF)
	excluded := normalizeExts(opts.ExcludeExts)

	var files []domain.RawDocument
	for _, root := range opts.Directories {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		walk := func(path string, d os.FileInfo) {
			ext := strings.ToLower(filepath.Ext(path))
			if _, bad := excluded[ext]; bad {
				if skipped != nil {
					skipped[domain.SkipExcluded]++
				}
				return
			}
			if !registry.CanRead(path) {
				if skipped != nil {
					skipped[domain.SkipWrongType]++
				}
				return
			}
			files = append(files, domain.RawDocument{
				Path:     path,
				Name:     filepath.Base(path),
				Priority: priorityOf(path, opts.PriorityOrder),
				Size:     d.Size(),
				ModTime:  d.ModTime(),
			})
		}

		if !info.IsDir() {
			walk(root, info)
			continue
		}
		err = filepath.Walk(root, func(path string, d os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			walk(path, d)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Priority < files[j].Priority
	})
	return files, nil
}

// priorityOf assigns the priority class: the index of the first
// configured directory name found in the path, or one past the end
// when nothing matches.
func priorityOf(path string, order []string) int {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for rank, name := range order {
		for _, part := range parts {
			if part == name {
				return rank
			}
		}
	}
	return len(order)
}

func readDocument(registry *readers.Registry, file domain.RawDocument, minChars int) (domain.RawDocument, string, error) {
	reader, err := registry.FindReader(file.Path)
	if err != nil {
		return file, domain.SkipWrongType, nil
	}

	content, encoding, err := reader.ReadText(file.Path)
	if err != nil {
		return file, "", err
	}
	if len(strings.TrimSpace(content)) < minChars {
		logger.Debug("Skipping %s: content below %d chars", file.Name, minChars)
		return file, domain.SkipTooShort, nil
	}

	file.Content = content
	file.Encoding = encoding
	return file, "", nil
}

func validChunk(text string) bool {
	trimmed := strings.TrimSpace(text)
	return len(trimmed) >= minChunkValidChars && chunking.WordCount(trimmed) >= minChunkValidWords
}

// mergeMetadata overlays strategy metadata on the file-level tags,
// strategy keys winning on conflict. List values are flattened to
// comma-joined strings because the indices accept scalars only, and
// the strategy name is stamped so co-existing strategy chunk sets stay
// distinguishable.
func mergeMetadata(fileMeta, meta map[string]any, strategy string) map[string]any {
	flat := make(map[string]any, len(fileMeta)+len(meta)+1)
	for k, v := range fileMeta {
		flat[k] = v
	}
	for k, v := range meta {
		if list, ok := v.([]string); ok {
			flat[k] = strings.Join(list, ", ")
			continue
		}
		flat[k] = v
	}
	flat["strategy"] = strategy
	return flat
}

func resolveStrategies(names []string) ([]string, error) {
	if len(names) == 0 {
		return chunking.StrategyNames(), nil
	}
	for _, name := range names {
		if _, err := chunking.Strategy(name); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func normalizeExts(exts []string) map[string]struct{} {
	out := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = struct{}{}
	}
	return out
}

func withDefaults(opts domain.IngestOptions) domain.IngestOptions {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.MinDocumentChars <= 0 {
		opts.MinDocumentChars = defaultMinDocChars
	}
	if opts.Epoch <= 0 {
		opts.Epoch = defaultEpoch
	}
	if opts.ChunkSize <= 0 {
		cfg := chunking.DefaultConfig()
		opts.ChunkSize = cfg.ChunkSize
		opts.Overlap = cfg.Overlap
		opts.PreserveSentences = cfg.PreserveSentences
	}
	return opts
}
