package domain

import (
	"fmt"
	"time"
)

// RawDocument represents a document discovered on disk, before chunking.
// It is immutable once read and is discarded after ingestion.
type RawDocument struct {
	// Path is the full filesystem path.
	Path string

	// Name is the base file name, used as the document identity in
	// chunk IDs and the "source" metadata key.
	Name string

	// Content is the extracted text content.
	Content string

	// Encoding is the encoding the content was decoded with.
	Encoding string

	// Priority is the priority class assigned from the priority-order
	// configuration. Lower means higher priority.
	Priority int

	// Size is the file size in bytes.
	Size int64

	// ModTime is the file modification time.
	ModTime time.Time
}

// ChunkItem is the unit handed to the indices for commit. Metadata
// values must be scalar (string, int, float64, bool) - list values are
// flattened before an item is built.
type ChunkItem struct {
	// ID is the stable chunk identifier.
	ID string

	// Text is the chunk content, trimmed and non-empty.
	Text string

	// Metadata holds the flat key-value tags for this chunk.
	Metadata map[string]any
}

// ChunkID builds the stable identifier for a chunk. Re-ingesting the
// same document under the same strategy and epoch produces the same IDs,
// so commits overwrite rather than accumulate.
func ChunkID(source, strategy string, index, epoch int) string {
	return fmt.Sprintf("%s::%s::%d::e%d", source, strategy, index, epoch)
}
