package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// writeDoc drops a .txt file with enough distinct words to clear the
// document and chunk validation floors.
func writeDoc(t *testing.T, dir, name, label string, words int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(longText(label, words)), 0o644))
	return path
}

func TestIngestRequiresVectorIndex(t *testing.T) {
	p := NewIngestionPipeline(nil, nil)

	_, err := p.Run(context.Background(), domain.IngestOptions{Directories: []string{t.TempDir()}})
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestIngestUnknownStrategy(t *testing.T) {
	p := NewIngestionPipeline(&mockVectorIndex{}, nil)

	_, err := p.Run(context.Background(), domain.IngestOptions{
		Directories: []string{t.TempDir()},
		Strategies:  []string{"nonsense"},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownStrategy)
}

func TestIngestDryRunCommitsNothing(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 12; i++ {
		writeDoc(t, dir, "doc"+strings.Repeat("x", i)+".txt", "dry", 40)
	}

	vec := &mockVectorIndex{}
	p := NewIngestionPipeline(vec, nil)

	summary, err := p.Run(context.Background(), domain.IngestOptions{
		Directories: []string{dir},
		DryRun:      true,
	})
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 12, summary.FilesFound)
	assert.Len(t, summary.Preview, 10)
	assert.Zero(t, summary.ChunksCommitted)
	assert.Empty(t, vec.upserted)
}

func TestIngestCommitsChunks(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "acme.txt", "acme", 120)

	vec := &mockVectorIndex{}
	lex := &mockLexicalIndex{}
	p := NewIngestionPipeline(vec, lex)

	summary, err := p.Run(context.Background(), domain.IngestOptions{
		Directories: []string{dir},
		Strategies:  []string{"default"},
		ChunkSize:   50,
		Overlap:     10,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Greater(t, summary.ChunksCommitted, 1)
	assert.Equal(t, summary.ChunksProduced, summary.ChunksCommitted)
	assert.Len(t, vec.upserted, summary.ChunksCommitted)
	assert.Len(t, lex.upserted, summary.ChunksCommitted)

	first := vec.upserted[0]
	assert.Equal(t, "acme.txt::default::0::e1", first.ID)
	assert.Equal(t, "default", first.Metadata["strategy"])
	assert.Equal(t, "acme.txt", first.Metadata["source"])
	assert.Equal(t, filepath.Join(dir, "acme.txt"), first.Metadata["source_path"])
	assert.NotEmpty(t, first.Metadata["ingested_at"])
	assert.Equal(t, 0, first.Metadata["priority"])
}

func TestIngestChunkIDsAreStableAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "stable.txt", "stable", 120)

	opts := domain.IngestOptions{
		Directories: []string{dir},
		Strategies:  []string{"default"},
		ChunkSize:   50,
		Overlap:     10,
		Epoch:       3,
	}

	vec1 := &mockVectorIndex{}
	_, err := NewIngestionPipeline(vec1, nil).Run(context.Background(), opts)
	require.NoError(t, err)

	vec2 := &mockVectorIndex{}
	_, err = NewIngestionPipeline(vec2, nil).Run(context.Background(), opts)
	require.NoError(t, err)

	require.Equal(t, len(vec1.upserted), len(vec2.upserted))
	for i := range vec1.upserted {
		assert.Equal(t, vec1.upserted[i].ID, vec2.upserted[i].ID)
		assert.Contains(t, vec1.upserted[i].ID, "::e3")
	}
}

func TestIngestSkipsShortAndForeignFiles(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "good.txt", "good", 120)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.txt"), []byte("too small"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("binary"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte(longText("notes", 120)), 0o644))

	vec := &mockVectorIndex{}
	p := NewIngestionPipeline(vec, nil)

	summary, err := p.Run(context.Background(), domain.IngestOptions{
		Directories: []string{dir},
		Strategies:  []string{"default"},
		ExcludeExts: []string{"md"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 1, summary.FilesSkipped)
	assert.Equal(t, 1, summary.Skipped[domain.SkipTooShort])
	assert.Equal(t, 1, summary.Skipped[domain.SkipWrongType])
	assert.Equal(t, 1, summary.Skipped[domain.SkipExcluded])
}

func TestIngestPriorityOrder(t *testing.T) {
	root := t.TempDir()
	for _, sub := range []string{"misc", "pricing", "features"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, sub), 0o755))
	}
	writeDoc(t, filepath.Join(root, "misc"), "a.txt", "misc", 40)
	writeDoc(t, filepath.Join(root, "pricing"), "b.txt", "pricing", 40)
	writeDoc(t, filepath.Join(root, "features"), "c.txt", "features", 40)

	files, err := DiscoverFiles(domain.IngestOptions{
		Directories:   []string{root},
		PriorityOrder: []string{"pricing", "features"},
	}, nil)
	require.NoError(t, err)

	require.Len(t, files, 3)
	assert.Equal(t, "b.txt", files[0].Name)
	assert.Equal(t, "c.txt", files[1].Name)
	assert.Equal(t, "a.txt", files[2].Name)
	assert.Equal(t, 0, files[0].Priority)
	assert.Equal(t, 2, files[2].Priority)
}

func TestIngestBatchFallbackIsolatesBadChunks(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "poison.txt", "poison", 200)

	vec := &mockVectorIndex{
		batchErr: errors.New("batch rejected"),
		failIDs:  map[string]bool{"poison.txt::default::1::e1": true},
	}
	p := NewIngestionPipeline(vec, nil)

	summary, err := p.Run(context.Background(), domain.IngestOptions{
		Directories: []string{dir},
		Strategies:  []string{"default"},
		ChunkSize:   50,
		Overlap:     10,
	})
	require.NoError(t, err)

	assert.Equal(t, summary.ChunksProduced-1, summary.ChunksCommitted)
	assert.Equal(t, []string{"poison.txt::default::1::e1"}, summary.FailedItems)
}

func TestIngestLimitStopsRun(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "alpha", 300)
	writeDoc(t, dir, "b.txt", "beta", 300)

	vec := &mockVectorIndex{}
	p := NewIngestionPipeline(vec, nil)

	summary, err := p.Run(context.Background(), domain.IngestOptions{
		Directories: []string{dir},
		Strategies:  []string{"default"},
		ChunkSize:   50,
		Overlap:     10,
		Limit:       3,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ChunksCommitted)
	assert.Len(t, vec.upserted, 3)
}

func TestIngestRejectsDegenerateChunks(t *testing.T) {
	dir := t.TempDir()
	// Long enough to pass the document floor, but word chunking with a
	// tiny budget yields trailing fragments below the chunk floor.
	content := strings.Repeat("alpha beta gamma delta epsilon zeta. ", 10) + "ok"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frag.txt"), []byte(content), 0o644))

	vec := &mockVectorIndex{}
	p := NewIngestionPipeline(vec, nil)

	summary, err := p.Run(context.Background(), domain.IngestOptions{
		Directories: []string{dir},
		Strategies:  []string{"default"},
		ChunkSize:   60,
		Overlap:     0,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ChunksCommitted)
	assert.Equal(t, 1, summary.ChunksRejected)
	assert.Equal(t, 2, summary.ChunksProduced)
}

func TestMergeMetadata(t *testing.T) {
	fileMeta := map[string]any{
		"source_path": "/data/acme.txt",
		"priority":    1,
		"word_count":  999,
	}
	flat := mergeMetadata(fileMeta, map[string]any{
		"all_companies": []string{"Acme", "Globex"},
		"word_count":    42,
	}, "company")

	assert.Equal(t, "Acme, Globex", flat["all_companies"])
	assert.Equal(t, "/data/acme.txt", flat["source_path"])
	assert.Equal(t, 1, flat["priority"])
	assert.Equal(t, "company", flat["strategy"])

	// Strategy keys win on conflict.
	assert.Equal(t, 42, flat["word_count"])
}
