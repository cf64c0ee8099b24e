// Package chroma adapts a Chroma collection to the VectorIndex port.
// Embeddings are computed by the collection's embedding function, so
// the rest of the application never sees a vector.
package chroma

import (
	"context"
	"fmt"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/quarry-labs/quarry-cli/internal/chunking"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "quarry_chunks"

// metadataKeys are the chunk tags read back from the collection.
// Chroma metadata is accessed per key, so reads enumerate this list.
var metadataKeys = []string{
	chunking.KeySource,
	chunking.KeyContentType,
	chunking.KeyPrimaryCompany,
	chunking.KeyAllCompanies,
	chunking.KeyCompanyNormalized,
	chunking.KeyCompanyAliases,
	chunking.KeyMentionedCompanies,
	"strategy",
	"source_path",
	"modified_at",
	"ingested_at",
}

var intMetadataKeys = []string{
	chunking.KeyChunkIndex,
	chunking.KeyTotalChunks,
	chunking.KeyWordCount,
	chunking.KeyCharCount,
	"file_size",
	"priority",
}

// Store is a VectorIndex backed by one Chroma collection.
type Store struct {
	client chroma.Client
	col    chroma.Collection
}

// Config configures the Chroma connection.
type Config struct {
	// BaseURL is the Chroma server address, e.g. http://localhost:8000.
	BaseURL string

	// Collection is the collection name. Empty means DefaultCollection.
	Collection string

	// EmbeddingFunc computes embeddings server-side on add and query.
	EmbeddingFunc embeddings.EmbeddingFunction
}

// NewStore connects to Chroma and opens (or creates) the collection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect to chroma at %s: %w", cfg.BaseURL, err)
	}

	name := cfg.Collection
	if name == "" {
		name = DefaultCollection
	}

	col, err := client.GetOrCreateCollection(ctx, name,
		chroma.WithEmbeddingFunctionCreate(cfg.EmbeddingFunc))
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", name, err)
	}

	logger.Debug("Chroma collection %q ready at %s", name, cfg.BaseURL)
	return &Store{client: client, col: col}, nil
}

// Upsert inserts or replaces chunks by ID.
func (s *Store) Upsert(ctx context.Context, chunks []domain.ChunkItem) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]chroma.DocumentID, len(chunks))
	texts := make([]string, len(chunks))
	metas := make([]chroma.DocumentMetadata, len(chunks))
	for i, c := range chunks {
		ids[i] = chroma.DocumentID(c.ID)
		texts[i] = c.Text
		metas[i] = toDocumentMetadata(c.Metadata)
	}

	err := s.col.Upsert(ctx,
		chroma.WithIDs(ids...),
		chroma.WithTexts(texts...),
		chroma.WithMetadatas(metas...),
	)
	if err != nil {
		return fmt.Errorf("upsert %d chunks: %w", len(chunks), err)
	}
	return nil
}

// Query finds the k chunks most similar to the query text.
func (s *Store) Query(ctx context.Context, text string, k int, filter map[string]string) ([]driven.VectorHit, error) {
	var (
		res chroma.QueryResult
		err error
	)
	if clause := whereClause(filter); clause != nil {
		res, err = s.col.Query(ctx,
			chroma.WithQueryTexts(text),
			chroma.WithNResults(k),
			chroma.WithWhereQuery(clause))
	} else {
		res, err = s.col.Query(ctx,
			chroma.WithQueryTexts(text),
			chroma.WithNResults(k))
	}
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	docGroups := res.GetDocumentsGroups()
	if len(docGroups) == 0 {
		return nil, nil
	}
	docs := docGroups[0]
	metas := res.GetMetadatasGroups()[0]
	distances := res.GetDistancesGroups()[0]

	hits := make([]driven.VectorHit, 0, len(docs))
	for i := range docs {
		hits = append(hits, driven.VectorHit{
			Text:     docs[i].ContentString(),
			Metadata: fromDocumentMetadata(metas[i]),
			Distance: float64(distances[i]),
		})
	}
	return hits, nil
}

// Get fetches stored chunks by metadata filter. Chroma's get surface
// is fetched whole and filtered client-side.
func (s *Store) Get(ctx context.Context, filter map[string]string, limit int) ([]domain.ChunkItem, error) {
	res, err := s.col.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get collection contents: %w", err)
	}

	metas := res.GetMetadatas()
	items := make([]domain.ChunkItem, 0, len(metas))
	for _, m := range metas {
		meta := fromDocumentMetadata(m)
		if !matchesFilter(meta, filter) {
			continue
		}
		items = append(items, domain.ChunkItem{Metadata: meta})
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

// DeleteBySource removes every chunk ingested from the named source.
func (s *Store) DeleteBySource(ctx context.Context, source string) error {
	err := s.col.Delete(ctx, chroma.WithWhereDelete(chroma.EqString(chunking.KeySource, source)))
	if err != nil {
		return fmt.Errorf("delete chunks from %s: %w", source, err)
	}
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.col.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count collection: %w", err)
	}
	return count, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.client.Close()
}

// whereClause builds a Chroma where filter from at most one key/value
// pair. The retrieval surface never filters on more than one key.
func whereClause(filter map[string]string) chroma.WhereFilter {
	for k, v := range filter {
		return chroma.EqString(k, v)
	}
	return nil
}

func matchesFilter(meta map[string]any, filter map[string]string) bool {
	for k, want := range filter {
		got, _ := meta[k].(string)
		if got != want {
			return false
		}
	}
	return true
}

func toDocumentMetadata(meta map[string]any) chroma.DocumentMetadata {
	attrs := make([]*chroma.MetaAttribute, 0, len(meta))
	for k, v := range meta {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, chroma.NewStringAttribute(k, val))
		case int:
			attrs = append(attrs, chroma.NewIntAttribute(k, int64(val)))
		case int64:
			attrs = append(attrs, chroma.NewIntAttribute(k, val))
		case float64:
			attrs = append(attrs, chroma.NewFloatAttribute(k, val))
		case bool:
			attrs = append(attrs, chroma.NewBoolAttribute(k, val))
		default:
			attrs = append(attrs, chroma.NewStringAttribute(k, fmt.Sprintf("%v", val)))
		}
	}
	return chroma.NewDocumentMetadata(attrs...)
}

func fromDocumentMetadata(meta chroma.DocumentMetadata) map[string]any {
	out := make(map[string]any)
	if meta == nil {
		return out
	}
	for _, key := range metadataKeys {
		if v, ok := meta.GetString(key); ok {
			out[key] = v
		}
	}
	for _, key := range intMetadataKeys {
		if v, ok := meta.GetInt(key); ok {
			out[key] = int(v)
		}
	}
	if v, ok := meta.GetBool(chunking.KeyLikelyBoilerplate); ok {
		out[chunking.KeyLikelyBoilerplate] = v
	}
	return out
}
