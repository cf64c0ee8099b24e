package chunking

import (
	"regexp"
	"strings"
)

// tagLineRe matches explicit company annotation lines such as
//
//	Company_Names: Tenable,Tenable.com,Tenablelabs
//
// anywhere in the document, case-insensitively.
var tagLineRe = regexp.MustCompile(`(?i)^company_names:\s*(.+)$`)

// CompanyTagSet is the ordered set of entity names extracted from a
// document's annotation lines. The first element is the primary entity.
type CompanyTagSet struct {
	names []string
}

// Names returns the tag names in annotation order.
func (s CompanyTagSet) Names() []string {
	return s.names
}

// Empty reports whether the document carried no company annotation.
func (s CompanyTagSet) Empty() bool {
	return len(s.names) == 0
}

// Primary returns the first tagged entity, the canonical label for the
// document's chunks. Empty string when the set is empty.
func (s CompanyTagSet) Primary() string {
	if len(s.names) == 0 {
		return ""
	}
	return s.names[0]
}

// Aliases returns the normalized form of every name, same order and
// cardinality as Names.
func (s CompanyTagSet) Aliases() []string {
	aliases := make([]string, len(s.names))
	for i, n := range s.names {
		aliases[i] = NormalizeCompany(n)
	}
	return aliases
}

// ParseCompanyTags scans text line by line for annotation lines,
// removes them from the output, and merges their comma-separated values
// into an order-preserving deduplicated set. Text without annotation
// lines is returned unchanged with an empty set.
func ParseCompanyTags(text string) (string, CompanyTagSet) {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	var set CompanyTagSet
	seen := make(map[string]struct{})

	for _, line := range lines {
		m := tagLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			cleaned = append(cleaned, line)
			continue
		}
		for _, name := range strings.Split(m[1], ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			set.names = append(set.names, name)
		}
	}

	if set.Empty() {
		return text, set
	}
	return strings.Join(cleaned, "\n"), set
}

var (
	nonWordRe   = regexp.MustCompile(`[^\w\s]`)
	underscoreRe = regexp.MustCompile(`\s+`)
)

// NormalizeCompany produces the canonical key form of a company name:
// lowercase, non-word characters stripped, whitespace collapsed to
// single underscores.
func NormalizeCompany(name string) string {
	normalized := nonWordRe.ReplaceAllString(strings.ToLower(name), "")
	return underscoreRe.ReplaceAllString(strings.TrimSpace(normalized), "_")
}
