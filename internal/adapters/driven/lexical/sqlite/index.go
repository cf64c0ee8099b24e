// Package sqlite provides a SQLite FTS5 implementation of the
// LexicalIndex port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Chunk text is
// stored in a standalone FTS5 table with the porter stemmer, and
// queries are ranked with bm25().
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quarry-labs/quarry-cli/internal/chunking"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.LexicalIndex = (*Index)(nil)

const schema = `
CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
	id UNINDEXED,
	source UNINDEXED,
	content,
	tokenize='porter'
);
`

// Index is a LexicalIndex backed by a SQLite FTS5 table.
type Index struct {
	db   *sql.DB
	path string
}

// NewIndex opens (or creates) the keyword index at the specified data
// directory. If dataDir is empty, defaults to ~/.quarry/data/keyword.db.
func NewIndex(dataDir string) (*Index, error) {
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

	dbPath := filepath.Join(dataDir, "keyword.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating keyword index schema: %w", err)
	}

	return &Index{db: db, path: dbPath}, nil
}

// Upsert inserts or replaces chunks by ID. FTS5 tables have no
// conflict clause, so replacement is delete-then-insert in one
// transaction.
func (i *Index) Upsert(ctx context.Context, chunks []domain.ChunkItem) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	del, err := tx.PrepareContext(ctx, `DELETE FROM chunks_fts WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}
	defer del.Close()

	ins, err := tx.PrepareContext(ctx, `INSERT INTO chunks_fts (id, source, content) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()

	for _, c := range chunks {
		source, _ := c.Metadata[chunking.KeySource].(string)
		if _, err := del.ExecContext(ctx, c.ID); err != nil {
			return fmt.Errorf("delete chunk %s: %w", c.ID, err)
		}
		if _, err := ins.ExecContext(ctx, c.ID, source, c.Text); err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Search returns the k best keyword matches for the query, ranked by
// bm25. The query is first run as an AND of its terms; a query FTS5
// cannot parse is retried as a quoted phrase.
func (i *Index) Search(ctx context.Context, query string, k int) ([]driven.LexicalHit, error) {
	match := andQuery(query)
	if match == "" {
		return nil, nil
	}

	hits, err := i.search(ctx, match, k)
	if err != nil {
		logger.Debug("Keyword query %q failed, retrying as phrase: %v", match, err)
		hits, err = i.search(ctx, phraseQuery(query), k)
	}
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	return hits, nil
}

func (i *Index) search(ctx context.Context, match string, k int) ([]driven.LexicalHit, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT id, source, content, bm25(chunks_fts) AS rank
		FROM chunks_fts
		WHERE chunks_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, match, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []driven.LexicalHit
	for rows.Next() {
		var hit driven.LexicalHit
		var rank float64
		if err := rows.Scan(&hit.ChunkID, &hit.Source, &hit.Content, &rank); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		// bm25() returns negative scores, best first. Flip the sign
		// so callers see higher-is-better.
		hit.Score = -rank
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// DeleteBySource removes every chunk ingested from the named source.
func (i *Index) DeleteBySource(ctx context.Context, source string) error {
	if _, err := i.db.ExecContext(ctx, `DELETE FROM chunks_fts WHERE source = ?`, source); err != nil {
		return fmt.Errorf("delete chunks from %s: %w", source, err)
	}
	return nil
}

// Close closes the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}

// Path returns the database file path.
func (i *Index) Path() string {
	return i.path
}

// andQuery quotes each term and joins with AND, so punctuation in the
// question cannot reach the FTS5 query parser.
func andQuery(query string) string {
	terms := strings.Fields(sanitize(query))
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, `"`+t+`"`)
	}
	return strings.Join(quoted, " AND ")
}

func phraseQuery(query string) string {
	return `"` + strings.TrimSpace(sanitize(query)) + `"`
}

// sanitize strips characters that are FTS5 query syntax.
func sanitize(query string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', '(', ')', '*', ':', '^', '?', ',':
			return ' '
		}
		return r
	}, query)
}
