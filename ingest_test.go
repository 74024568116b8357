package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestReadCasesCSV(t *testing.T) {
	csv := `Issue key,Summary,Description,Issue Type,Status,Priority,Resolution,Created,Custom field (Integration App),Custom field (Company Name),Comment,Comment,Inward issue link (Resolves),Custom field (Resolution Comments)
SUP-1,Order sync failing,Orders stuck in queue,Bug,Open,P1,,15/Jan/25 3:04 PM,Shopify,Acme Retail,first note,second note,PRE-9,
,orphan row without key,,,,,,,,,,,,
SUP-2,Question about settlement,nan,Query,Closed,P3,Answered,not-a-date,Amazon,,,,,answered on call
`
	records, err := ReadCasesCSV(writeCSV(t, csv))
	if err != nil {
		t.Fatalf("ReadCasesCSV failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (keyless row skipped)", len(records))
	}

	r := records[0]
	if r.CaseKey != "SUP-1" || r.CaseType != "Bug" || r.Priority != "P1" {
		t.Errorf("standard columns wrong: %+v", r)
	}
	if r.Integration != "Shopify" {
		t.Errorf("integration = %q", r.Integration)
	}
	if r.Customer != "Acme Retail" {
		t.Errorf("customer = %q", r.Customer)
	}
	if len(r.Comments) != 2 || r.Comments[0] != "first note" {
		t.Errorf("comments = %v", r.Comments)
	}
	if r.Links["Inward issue link (Resolves)"] != "PRE-9" {
		t.Errorf("links = %v", r.Links)
	}
	want := time.Date(2025, time.January, 15, 15, 4, 0, 0, time.UTC)
	if !r.Created.Equal(want) {
		t.Errorf("created = %v, want %v", r.Created, want)
	}

	q := records[1]
	if q.Description != "" {
		t.Errorf("nan description should clean to empty, got %q", q.Description)
	}
	if q.ResolutionComments != "answered on call" {
		t.Errorf("resolution comments = %q", q.ResolutionComments)
	}
	if !q.Created.IsZero() {
		t.Errorf("unparseable date should be zero, got %v", q.Created)
	}
	if q.Month() != "" {
		t.Errorf("undated ticket month = %q, want empty", q.Month())
	}
}

func TestReadCasesCSVMissingKeyColumn(t *testing.T) {
	csv := "Summary,Status\nno key here,Open\n"
	if _, err := ReadCasesCSV(writeCSV(t, csv)); err == nil {
		t.Fatal("expected error for missing case key column")
	}
}

func TestReadCasesCSVMissingFile(t *testing.T) {
	if _, err := ReadCasesCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		in   string
		zero bool
	}{
		{"15/Jan/25 3:04 PM", false},
		{"2025-01-15 10:00:00", false},
		{"2025-01-15", false},
		{"garbage", true},
		{"", true},
	}
	for _, tt := range tests {
		got := parseDate(tt.in)
		if got.IsZero() != tt.zero {
			t.Errorf("parseDate(%q) zero = %v, want %v", tt.in, got.IsZero(), tt.zero)
		}
	}
}
