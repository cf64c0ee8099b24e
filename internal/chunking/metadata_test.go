package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyContentPrecedence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"pricing wins over features", "The pricing covers every feature tier.", ContentTypePricing},
		{"features win over competitive", "This capability beats every competitor.", ContentTypeFeatures},
		{"competitive alone", "A comparison against rival products.", ContentTypeCompetitive},
		{"no category", "The weather was mild on Tuesday.", ContentTypeGeneral},
		{"case insensitive", "PRICING detail inside.", ContentTypePricing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyContent(tt.text))
		})
	}
}

func TestExtractMetadataRequiredKeys(t *testing.T) {
	meta := ExtractMetadata("Subscription cost details for the platform.", "pricing.txt")

	assert.Equal(t, "pricing.txt", meta[KeySource])
	assert.Equal(t, ContentTypePricing, meta[KeyContentType])
	assert.Equal(t, 6, meta[KeyWordCount])
	_, flagged := meta[KeyLikelyBoilerplate]
	assert.False(t, flagged)
}

func TestExtractMetadataBoilerplateFlag(t *testing.T) {
	meta := ExtractMetadata("See our privacy policy for details.", "legal.txt")

	assert.Equal(t, true, meta[KeyLikelyBoilerplate])
}

func TestExtractMetadataMentionedCompanies(t *testing.T) {
	text := "Falcon Endpoint Solutions competes with CrowdStrike and Microsoft in this space."

	meta := ExtractMetadata(text, "vendors.txt")

	companies, ok := meta[KeyMentionedCompanies].([]string)
	require.True(t, ok)
	assert.Contains(t, companies, "Falcon Endpoint Solutions")
	assert.Contains(t, companies, "CrowdStrike")
	assert.Contains(t, companies, "Microsoft")
}

func TestExtractMetadataCompanyCap(t *testing.T) {
	text := "Alpha Systems and Beta Solutions and Gamma Technologies and " +
		"Delta Corp and Epsilon Inc and Zeta Ltd all attended."

	meta := ExtractMetadata(text, "many.txt")

	companies, ok := meta[KeyMentionedCompanies].([]string)
	require.True(t, ok)
	assert.Len(t, companies, maxMentionedCompanies)
}
