package fullcontext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

func TestWriteAndRead(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Write(ctx, []driven.ContextSection{
		{Name: "acme.txt", Content: "  Acme pricing details.  \n"},
		{Name: "globex.txt", Content: "Globex feature matrix."},
	}))

	got, err := store.Read(ctx)
	require.NoError(t, err)

	want := "### Source: acme.txt\n\nAcme pricing details.\n\n" +
		"### Source: globex.txt\n\nGlobex feature matrix.\n\n"
	assert.Equal(t, want, got)
}

func TestWriteReplacesExistingContext(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Write(ctx, []driven.ContextSection{{Name: "old.txt", Content: "old"}}))
	require.NoError(t, store.Write(ctx, []driven.ContextSection{{Name: "new.txt", Content: "new"}}))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.NotContains(t, got, "old.txt")
	assert.Contains(t, got, "### Source: new.txt")
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Write(context.Background(), []driven.ContextSection{{Name: "a.txt", Content: "a"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, FileName, entries[0].Name())
}

func TestReadMissingFileIsEmpty(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	got, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, FileName), store.Path())
}
