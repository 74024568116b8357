package ticket

import (
	"strings"
	"testing"
	"time"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"nan", ""},
		{"NaN", ""},
		{"null", ""},
		{"None", ""},
		{"", ""},
		{"order sync", "order sync"},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCombinedText(t *testing.T) {
	r := Record{
		Summary:     "Order sync failing",
		Description: "Orders stuck since Friday",
		Comments:    []string{"checked logs", "", "escalated"},
	}
	got := r.CombinedText()
	want := "Order sync failing\nOrders stuck since Friday\nchecked logs\nescalated"
	if got != want {
		t.Errorf("CombinedText() = %q, want %q", got, want)
	}

	empty := Record{}
	if empty.CombinedText() != "" {
		t.Errorf("empty record CombinedText() = %q, want empty", empty.CombinedText())
	}
}

func TestTimeBuckets(t *testing.T) {
	r := Record{Created: time.Date(2025, time.August, 14, 10, 0, 0, 0, time.UTC)}
	if got := r.Month(); got != "2025-08" {
		t.Errorf("Month() = %q, want 2025-08", got)
	}
	if got := r.Quarter(); got != "Q3" {
		t.Errorf("Quarter() = %q, want Q3", got)
	}
	if got := r.Year(); got != "2025" {
		t.Errorf("Year() = %q, want 2025", got)
	}

	var zero Record
	if zero.Month() != "" || zero.Quarter() != "" || zero.Year() != "" {
		t.Error("zero created date should yield empty time buckets")
	}
}

func TestQuarterBoundaries(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "Q1"},
		{time.March, "Q1"},
		{time.April, "Q2"},
		{time.June, "Q2"},
		{time.July, "Q3"},
		{time.October, "Q4"},
		{time.December, "Q4"},
	}
	for _, tt := range tests {
		r := Record{Created: time.Date(2025, tt.month, 1, 0, 0, 0, 0, time.UTC)}
		if got := r.Quarter(); got != tt.want {
			t.Errorf("Quarter(%v) = %q, want %q", tt.month, got, tt.want)
		}
	}
}

func TestStatusSet(t *testing.T) {
	s := NewStatusSet(DefaultOpenStatuses())

	open := []string{"Open", "open", "  In Progress ", "Pending Investigation", "On hold"}
	for _, st := range open {
		if !s.IsOpen(st) {
			t.Errorf("IsOpen(%q) = false, want true", st)
		}
	}
	closed := []string{"Closed", "Resolved", "Done", ""}
	for _, st := range closed {
		if s.IsOpen(st) {
			t.Errorf("IsOpen(%q) = true, want false", st)
		}
	}
}

func TestLinkField(t *testing.T) {
	r := Record{
		Description:        "see PRE-100",
		ResolutionComments: "fixed in PRE-200",
		Comments:           []string{"first", "second"},
		Links: map[string]string{
			"Inward issue link (Resolves)": "PRE-300",
		},
	}
	if got := r.LinkField("Description"); got != "see PRE-100" {
		t.Errorf("LinkField(Description) = %q", got)
	}
	if got := r.LinkField("Comment"); !strings.Contains(got, "second") {
		t.Errorf("LinkField(Comment) = %q, want joined comments", got)
	}
	if got := r.LinkField("Resolution Comment"); got != "fixed in PRE-200" {
		t.Errorf("LinkField(Resolution Comment) = %q", got)
	}
	if got := r.LinkField("Inward issue link (Resolves)"); got != "PRE-300" {
		t.Errorf("LinkField(Resolves) = %q", got)
	}
	if got := r.LinkField("Inward issue link (Dependencies)"); got != "" {
		t.Errorf("LinkField(missing) = %q, want empty", got)
	}
}
