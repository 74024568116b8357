// Package ticket holds the immutable support-case record consumed by the
// mining pipeline. Records are built once at the input boundary and never
// mutated afterwards; every derived fact lives in a separate structure keyed
// by case key.
package ticket

import (
	"strings"
	"time"
)

// Sentinel values substituted for missing optional fields at load time.
const (
	NotAvailable = "N/A"
	Unassigned   = "Unassigned"
)

// Record is one support case as loaded from the raw ticket table.
type Record struct {
	CaseKey string

	Summary            string
	Description        string
	ResolutionComments string
	Comments           []string

	Status      string
	Priority    string
	Resolution  string
	CaseType    string
	Integration string
	Assignee    string
	Customer    string

	// Links maps a raw link-column name (e.g. "Inward issue link (Resolves)")
	// to its cell value. Only columns that were present and non-empty appear.
	Links map[string]string

	Created  time.Time
	Resolved time.Time
}

// CombinedText joins summary, description and all comment fields, the text
// the extractors and classifiers run over.
func (r Record) CombinedText() string {
	parts := make([]string, 0, 2+len(r.Comments))
	if r.Summary != "" {
		parts = append(parts, r.Summary)
	}
	if r.Description != "" {
		parts = append(parts, r.Description)
	}
	for _, c := range r.Comments {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n")
}

// LinkField returns the value of a named link/text column for reference
// scanning. Besides the raw link columns it resolves the three text fields
// the code-fix analysis reads by column name.
func (r Record) LinkField(name string) string {
	switch name {
	case "Description":
		return r.Description
	case "Comment":
		return strings.Join(r.Comments, "\n")
	case "Resolution Comment", "Resolution Comments":
		return r.ResolutionComments
	}
	return r.Links[name]
}

// Month returns the creation month as "2006-01", or "" when the creation
// date is missing or unparseable. Tickets with an empty month are excluded
// from time-based buckets only.
func (r Record) Month() string {
	if r.Created.IsZero() {
		return ""
	}
	return r.Created.Format("2006-01")
}

// Quarter returns "Q1".."Q4", or "" without a creation date.
func (r Record) Quarter() string {
	if r.Created.IsZero() {
		return ""
	}
	switch (int(r.Created.Month()) - 1) / 3 {
	case 0:
		return "Q1"
	case 1:
		return "Q2"
	case 2:
		return "Q3"
	default:
		return "Q4"
	}
}

// Year returns the creation year as "2006", or "" without a creation date.
func (r Record) Year() string {
	if r.Created.IsZero() {
		return ""
	}
	return r.Created.Format("2006")
}

// CleanText normalizes a raw cell value: trims whitespace and maps the
// usual null spellings of tabular exports to the empty string.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "null", "none":
		return ""
	}
	return s
}

// StatusSet is a case-insensitive set of status labels. Built from an
// open-status list it decides open vs closed; built from a resolved-status
// list it decides resolved vs not.
type StatusSet struct {
	members map[string]bool
}

// NewStatusSet builds a case-insensitive status set.
func NewStatusSet(statuses []string) StatusSet {
	members := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		members[strings.ToLower(strings.TrimSpace(s))] = true
	}
	return StatusSet{members: members}
}

// Has reports whether the status is in the set.
func (s StatusSet) Has(status string) bool {
	return s.members[strings.ToLower(strings.TrimSpace(status))]
}

// IsOpen is Has, named for sets built from open-status lists.
func (s StatusSet) IsOpen(status string) bool {
	return s.Has(status)
}

// DefaultOpenStatuses is the open-status list used when none is configured.
func DefaultOpenStatuses() []string {
	return []string{
		"Open",
		"On hold",
		"Waiting for CS/Customer inputs",
		"In Progress",
		"Pending Investigation",
		"Under Investigation",
	}
}
