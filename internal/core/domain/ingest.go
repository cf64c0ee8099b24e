package domain

import "time"

// IngestOptions configures one ingestion run.
type IngestOptions struct {
	// Directories are the roots to walk. A non-directory entry is
	// treated as a single file.
	Directories []string

	// Strategies names the chunking strategies to apply to every
	// document. Empty means all registered strategies.
	Strategies []string

	// ChunkSize is the chunk budget in words.
	ChunkSize int

	// Overlap is the overlap budget in words. Must be < ChunkSize.
	Overlap int

	// PreserveSentences selects sentence-respecting chunking.
	PreserveSentences bool

	// IncludePDF admits .pdf files in addition to .txt.
	IncludePDF bool

	// ExcludeExts lists extensions (with or without leading dot) that
	// are never admitted.
	ExcludeExts []string

	// PriorityOrder lists directory names in descending priority.
	// A file's priority is the index of the first name appearing in
	// its path; unmatched files get len(PriorityOrder).
	PriorityOrder []string

	// Limit stops the run after this many committed chunks.
	// Zero means unlimited.
	Limit int

	// DryRun enumerates the file set without reading or committing.
	DryRun bool

	// BatchSize bounds the commit batch. Zero means the default.
	BatchSize int

	// MinDocumentChars rejects documents whose trimmed content is
	// shorter. Zero means the default.
	MinDocumentChars int

	// Epoch is the ingestion epoch baked into chunk IDs. Re-ingesting
	// under the same epoch overwrites prior chunks.
	Epoch int
}

// Skip reasons reported in IngestSummary.Skipped.
const (
	SkipTooShort   = "too_short"
	SkipExcluded   = "excluded"
	SkipWrongType  = "wrong_type"
	SkipUnreadable = "unreadable"
)

// IngestSummary reports the outcome of an ingestion run. Failures are
// isolated to the smallest unit of work and listed here rather than
// aborting the run.
type IngestSummary struct {
	// RunID identifies this run in logs.
	RunID string

	// FilesProcessed counts files that produced at least one chunk
	// attempt.
	FilesProcessed int

	// FilesSkipped counts files not processed, by reason.
	FilesSkipped int

	// Skipped breaks FilesSkipped down by reason.
	Skipped map[string]int

	// ChunksProduced counts chunks produced by the strategies.
	ChunksProduced int

	// ChunksCommitted counts chunks durably committed.
	ChunksCommitted int

	// ChunksRejected counts chunks dropped by validation.
	ChunksRejected int

	// FailedFiles lists file paths that failed outright (bounded).
	FailedFiles []string

	// FailedItems lists chunk IDs lost after the individual-commit
	// fallback (bounded).
	FailedItems []string

	// DryRun reports whether this was a dry run.
	DryRun bool

	// Preview holds a truncated file listing for dry runs.
	Preview []string

	// FilesFound is the total admitted file count (dry runs included).
	FilesFound int

	// Duration is the wall-clock run time.
	Duration time.Duration
}
