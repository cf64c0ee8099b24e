package chunking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// Registered strategy names.
const (
	StrategyDefault = "default"
	StrategyCompany = "company"
)

// Chunk is one strategy output: chunk text plus its metadata. Metadata
// may still contain []string values at this stage; the ingestion
// pipeline flattens them before commit.
type Chunk struct {
	Text     string
	Metadata map[string]any
}

// StrategyFunc is a pure chunk-production policy: text and filename in,
// tagged chunks out. Same inputs and config always produce the same
// output.
type StrategyFunc func(text, filename string, cfg Config) ([]Chunk, error)

// strategies is the fixed strategy table, selected by name at ingestion
// time. A document run through several strategies produces independent,
// co-existing chunk sets.
var strategies = map[string]StrategyFunc{
	StrategyDefault: chunkDefault,
	StrategyCompany: chunkCompany,
}

// Strategy looks up a strategy by name.
func Strategy(name string) (StrategyFunc, error) {
	fn, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", domain.ErrUnknownStrategy, name, strings.Join(StrategyNames(), ", "))
	}
	return fn, nil
}

// StrategyNames returns the registered strategy names, sorted.
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// chunkDefault splits the text and tags every chunk with the
// document-level metadata plus per-chunk counters.
func chunkDefault(text, filename string, cfg Config) ([]Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	docMeta := ExtractMetadata(text, filename)
	parts := Split(text, cfg)

	chunks := make([]Chunk, 0, len(parts))
	for i, part := range parts {
		meta := make(map[string]any, len(docMeta)+4)
		for k, v := range docMeta {
			meta[k] = v
		}
		meta[KeyChunkIndex] = i
		meta[KeyTotalChunks] = len(parts)
		meta[KeyWordCount] = WordCount(part)
		meta[KeyCharCount] = len(part)
		chunks = append(chunks, Chunk{Text: part, Metadata: meta})
	}

	return chunks, nil
}

// chunkCompany strips explicit company annotations, splits the cleaned
// text, and tags every chunk with the company context. Documents whose
// content is empty after stripping produce no chunks.
func chunkCompany(text, filename string, cfg Config) ([]Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cleaned, tags := ParseCompanyTags(text)
	if strings.TrimSpace(cleaned) == "" {
		return nil, nil
	}

	parts := Split(cleaned, cfg)

	chunks := make([]Chunk, 0, len(parts))
	for i, part := range parts {
		meta := map[string]any{
			KeySource:      filename,
			KeyChunkIndex:  i,
			KeyTotalChunks: len(parts),
			KeyWordCount:   WordCount(part),
			KeyCharCount:   len(part),
		}

		if !tags.Empty() {
			meta[KeyPrimaryCompany] = tags.Primary()
			meta[KeyAllCompanies] = tags.Names()
			meta[KeyCompanyNormalized] = NormalizeCompany(tags.Primary())
			meta[KeyCompanyAliases] = tags.Aliases()
		}

		// Per-chunk classification: the company suffix keeps chunks
		// from different vendors apart in filtered queries.
		contentType := ClassifyContent(part)
		if !tags.Empty() {
			contentType = contentType + "_" + NormalizeCompany(tags.Primary())
		}
		meta[KeyContentType] = contentType

		chunks = append(chunks, Chunk{Text: part, Metadata: meta})
	}

	return chunks, nil
}
