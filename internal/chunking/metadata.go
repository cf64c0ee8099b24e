package chunking

import (
	"regexp"
	"strings"
)

// Metadata keys shared across strategies.
const (
	KeySource            = "source"
	KeyChunkIndex        = "chunk_index"
	KeyTotalChunks       = "total_chunks"
	KeyWordCount         = "word_count"
	KeyCharCount         = "char_count"
	KeyContentType       = "content_type"
	KeyLikelyBoilerplate = "likely_boilerplate"
	KeyMentionedCompanies = "mentioned_companies"
	KeyPrimaryCompany    = "primary_company"
	KeyAllCompanies      = "all_companies"
	KeyCompanyNormalized = "company_normalized"
	KeyCompanyAliases    = "company_aliases"
)

// Content type categories, in precedence order.
const (
	ContentTypePricing     = "pricing"
	ContentTypeFeatures    = "features"
	ContentTypeCompetitive = "competitive"
	ContentTypeGeneral     = "general"
)

var (
	pricingKeywords     = []string{"price", "pricing", "cost", "license", "subscription"}
	featureKeywords     = []string{"feature", "capability", "functionality"}
	competitiveKeywords = []string{"competitor", "comparison", "vs", "versus"}
)

// boilerplatePhrases flags likely legal or boilerplate text. The flag
// is advisory at extraction time; exclusion happens in the retrieval
// quality filter.
var boilerplatePhrases = []string{
	"terms and conditions",
	"privacy policy",
	"copyright",
	"all rights reserved",
	"disclaimer",
	"legal notice",
}

// companySuffixRe matches capitalised multi-word sequences ending in a
// corporate designator. Best-effort advisory tagging only - the
// authoritative tags come from the company tag parser.
var companySuffixRe = regexp.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:Inc|Corp|LLC|Ltd|Solutions|Technologies|Systems)\.?`)

// knownVendors is a fixed list of vendors recognised without a suffix.
var knownVendors = []string{
	"Palo Alto", "CrowdStrike", "SentinelOne", "Microsoft",
	"IBM", "Cisco", "Fortinet", "Check Point",
}

const maxMentionedCompanies = 5

// ExtractMetadata derives document-level tags from raw text. The
// returned map only contains scalar and []string values; the ingestion
// pipeline flattens lists before commit.
func ExtractMetadata(text, filename string) map[string]any {
	meta := map[string]any{
		KeySource: filename,
	}

	if companies := mentionedCompanies(text); len(companies) > 0 {
		meta[KeyMentionedCompanies] = companies
	}

	meta[KeyContentType] = ClassifyContent(text)
	meta[KeyWordCount] = WordCount(text)

	if ContainsBoilerplate(text) {
		meta[KeyLikelyBoilerplate] = true
	}

	return meta
}

// ClassifyContent assigns a content category by keyword. Categories are
// checked in fixed precedence order and the first match wins.
func ClassifyContent(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, pricingKeywords):
		return ContentTypePricing
	case containsAny(lower, featureKeywords):
		return ContentTypeFeatures
	case containsAny(lower, competitiveKeywords):
		return ContentTypeCompetitive
	}
	return ContentTypeGeneral
}

// ContainsBoilerplate reports whether text contains any phrase from the
// fixed boilerplate set.
func ContainsBoilerplate(text string) bool {
	return containsAny(strings.ToLower(text), boilerplatePhrases)
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// mentionedCompanies collects candidate entity names: suffix-bearing
// capitalised sequences plus the known-vendor list, order-preserving
// deduplicated and capped.
func mentionedCompanies(text string) []string {
	var companies []string
	seen := make(map[string]struct{})

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		companies = append(companies, name)
	}

	for _, m := range companySuffixRe.FindAllString(text, -1) {
		add(m)
	}
	for _, vendor := range knownVendors {
		if strings.Contains(strings.ToLower(text), strings.ToLower(vendor)) {
			add(vendor)
		}
	}

	if len(companies) > maxMentionedCompanies {
		companies = companies[:maxMentionedCompanies]
	}
	return companies
}
