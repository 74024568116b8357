// Package refs resolves cross-ticket references: engineering ticket IDs
// like PRE-1234 mentioned in link columns, comments and descriptions.
package refs

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// maxRefs bounds the IDs returned from a single text scan.
const maxRefs = 20

// DefaultPrefixes are the tracked engineering ticket prefixes.
func DefaultPrefixes() []string {
	return []string{"PRE", "PRD", "IO", "FEATURE"}
}

// Scanner extracts prefixed ticket IDs from free text.
type Scanner struct {
	pattern *regexp.Regexp
}

// NewScanner compiles a scanner for the given ID prefixes. Matching is
// case-insensitive; returned IDs are always uppercase.
func NewScanner(prefixes []string) *Scanner {
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes()
	}
	quoted := make([]string, len(prefixes))
	for i, p := range prefixes {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return &Scanner{
		pattern: regexp.MustCompile(`(?i)((?:` + strings.Join(quoted, "|") + `)-\d+)`),
	}
}

// Extract returns the deduplicated, uppercased IDs found in text, in
// first-seen order, capped at 20.
func (s *Scanner) Extract(text string) []string {
	if text == "" {
		return nil
	}
	var ids []string
	seen := make(map[string]bool)
	for _, m := range s.pattern.FindAllString(text, -1) {
		id := strings.ToUpper(m)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		if len(ids) == maxRefs {
			break
		}
	}
	return ids
}

// Field is one named text source scanned by ExtractAll.
type Field struct {
	Name string
	Text string
}

// Result is the outcome of a multi-field scan: the union of IDs across
// fields plus a provenance entry per contributing field.
type Result struct {
	// IDs is the deduplicated union across all fields, sorted.
	IDs []string
	// Sources lists "<field> (<n>)" for every field that contributed at
	// least one ID, in field order; n is the field's own unique ID count.
	Sources []string
}

// ExtractAll scans each named field and reports both the union of IDs and
// which fields they came from. Fields without matches contribute nothing
// to Sources.
func (s *Scanner) ExtractAll(fields []Field) Result {
	var res Result
	union := make(map[string]bool)
	for _, f := range fields {
		ids := s.Extract(f.Text)
		if len(ids) == 0 {
			continue
		}
		for _, id := range ids {
			union[id] = true
		}
		res.Sources = append(res.Sources, fmt.Sprintf("%s (%d)", fieldLabel(f.Name), len(ids)))
	}
	for id := range union {
		res.IDs = append(res.IDs, id)
	}
	sort.Strings(res.IDs)
	return res
}

// fieldLabel shortens raw column names like "Inward issue link (Resolves)"
// to the part before the parenthetical.
func fieldLabel(name string) string {
	if i := strings.Index(name, "("); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	return strings.TrimSpace(name)
}
