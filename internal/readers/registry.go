// Package readers turns files on disk into text for the ingestion
// pipeline. Each reader owns a set of extensions; the registry picks
// the first reader that claims a path.
package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// FileReader extracts plain text from one family of file formats.
type FileReader interface {
	// CanRead reports whether this reader handles the given path,
	// judged by extension only.
	CanRead(path string) bool

	// ReadText extracts the text content of the file. The second
	// return value names the decoding used, when meaningful.
	ReadText(path string) (content string, encoding string, err error)
}

// Registry resolves a path to the reader that handles it.
type Registry struct {
	readers []FileReader
}

// NewRegistry builds a registry trying readers in the given order.
func NewRegistry(readers ...FileReader) *Registry {
	return &Registry{readers: readers}
}

// DefaultRegistry covers plain text, with PDF support toggled on
// demand since PDF extraction pulls in an external converter.
func DefaultRegistry(includePDF bool) *Registry {
	rs := []FileReader{NewTextReader()}
	if includePDF {
		rs = append(rs, NewPDFReader())
	}
	return NewRegistry(rs...)
}

// FindReader returns the first reader claiming the path, or an error
// wrapping domain.ErrInvalidInput when no reader handles it.
func (r *Registry) FindReader(path string) (FileReader, error) {
	for _, reader := range r.readers {
		if reader.CanRead(path) {
			return reader, nil
		}
	}
	return nil, fmt.Errorf("%w: no reader for %q", domain.ErrInvalidInput, filepath.Base(path))
}

// CanRead reports whether any registered reader handles the path.
func (r *Registry) CanRead(path string) bool {
	for _, reader := range r.readers {
		if reader.CanRead(path) {
			return true
		}
	}
	return false
}

func hasExt(path string, exts ...string) bool {
	got := strings.ToLower(filepath.Ext(path))
	for _, ext := range exts {
		if got == ext {
			return true
		}
	}
	return false
}
