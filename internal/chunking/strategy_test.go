package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func TestStrategyLookup(t *testing.T) {
	fn, err := Strategy(StrategyDefault)
	require.NoError(t, err)
	assert.NotNil(t, fn)

	_, err = Strategy("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownStrategy)
}

func TestStrategyNames(t *testing.T) {
	assert.Equal(t, []string{"company", "default"}, StrategyNames())
}

func TestDefaultStrategyMetadata(t *testing.T) {
	cfg := Config{ChunkSize: 6, Overlap: 2, PreserveSentences: false}
	text := "Pricing starts at nine dollars per endpoint per month today."

	chunks, err := chunkDefault(text, "pricing.txt", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, c := range chunks {
		assert.Equal(t, "pricing.txt", c.Metadata[KeySource])
		assert.Equal(t, i, c.Metadata[KeyChunkIndex])
		assert.Equal(t, len(chunks), c.Metadata[KeyTotalChunks])
		assert.Equal(t, WordCount(c.Text), c.Metadata[KeyWordCount])
		assert.Equal(t, ContentTypePricing, c.Metadata[KeyContentType])
	}
}

func TestCompanyStrategyConditionalKeys(t *testing.T) {
	cfg := Config{ChunkSize: 64, Overlap: 8, PreserveSentences: true}
	text := "Company_Names: Tenable,Tenable.com\nTenable offers vulnerability scanning at a yearly cost."

	chunks, err := chunkCompany(text, "tenable.txt", cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	meta := chunks[0].Metadata
	assert.Equal(t, "Tenable", meta[KeyPrimaryCompany])
	assert.Equal(t, []string{"Tenable", "Tenable.com"}, meta[KeyAllCompanies])
	assert.Equal(t, "tenable", meta[KeyCompanyNormalized])
	assert.Equal(t, []string{"tenable", "tenablecom"}, meta[KeyCompanyAliases])
	// Company context is folded into the content type.
	assert.Equal(t, "pricing_tenable", meta[KeyContentType])
	// The tag line must not leak into chunk text.
	assert.NotContains(t, chunks[0].Text, "Company_Names")
}

func TestCompanyStrategyWithoutTags(t *testing.T) {
	cfg := Config{ChunkSize: 64, Overlap: 8, PreserveSentences: true}

	chunks, err := chunkCompany("Plain feature description text.", "plain.txt", cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	meta := chunks[0].Metadata
	_, hasPrimary := meta[KeyPrimaryCompany]
	_, hasAliases := meta[KeyCompanyAliases]
	assert.False(t, hasPrimary)
	assert.False(t, hasAliases)
	assert.Equal(t, ContentTypeFeatures, meta[KeyContentType])
}

func TestCompanyStrategyAliasInvariant(t *testing.T) {
	cfg := DefaultConfig()
	text := "Company_Names: Palo Alto,Check Point,Fortinet\nSome body content long enough to chunk."

	chunks, err := chunkCompany(text, "doc.txt", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	all := chunks[0].Metadata[KeyAllCompanies].([]string)
	aliases := chunks[0].Metadata[KeyCompanyAliases].([]string)
	require.Len(t, aliases, len(all))
	for i := range all {
		assert.Equal(t, NormalizeCompany(all[i]), aliases[i])
	}
}

func TestCompanyStrategyEmptyAfterStripping(t *testing.T) {
	cfg := DefaultConfig()

	chunks, err := chunkCompany("Company_Names: Acme\n   \n", "tagonly.txt", cfg)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestStrategyRejectsBadConfig(t *testing.T) {
	cfg := Config{ChunkSize: 10, Overlap: 10}

	_, err := chunkDefault("some text", "a.txt", cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = chunkCompany("some text", "a.txt", cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
