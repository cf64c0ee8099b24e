// Package fullcontext stores the concatenated corpus as a single text
// file on disk, one "### Source:" section per document.
package fullcontext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ContextStore = (*Store)(nil)

// FileName is the context file name inside the data directory.
const FileName = "full_context.txt"

// Store is a file-backed ContextStore.
type Store struct {
	path string
}

// NewStore creates a context store under the given data directory.
// If dataDir is empty, defaults to ~/.quarry/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".quarry", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{path: filepath.Join(dataDir, FileName)}, nil
}

// Write replaces the stored context with the given named sections.
// The new content lands under a temporary name first, so readers never
// see a half-written file.
func (s *Store) Write(ctx context.Context, sections []driven.ContextSection) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var b strings.Builder
	for _, sec := range sections {
		fmt.Fprintf(&b, "### Source: %s\n\n", sec.Name)
		b.WriteString(strings.TrimSpace(sec.Content))
		b.WriteString("\n\n")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("write context file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace context file: %w", err)
	}
	return nil
}

// Read returns the full stored context text. A missing file reads as
// empty: nothing has been built yet.
func (s *Store) Read(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read context file: %w", err)
	}
	return string(data), nil
}

// Path returns the location of the stored context file.
func (s *Store) Path() string {
	return s.path
}
