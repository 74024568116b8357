package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"caseminer/internal/ticket"
)

func TestRunAnalysisEndToEnd(t *testing.T) {
	db := newTestDB(t)
	if _, err := InsertCases(db, []ticket.Record{
		{
			CaseKey:     "SUP-10",
			CaseType:    "Bug",
			Integration: "Shopify",
			Priority:    "P1",
			Status:      "Open",
			Summary:     "Order sync failing",
			Description: "Error: \"Failed to save the sales order record in the target account\"",
		},
		{
			CaseKey:     "SUP-11",
			CaseType:    "Query",
			Integration: "Amazon",
			Priority:    "P3",
			Status:      "Closed",
			Resolution:  "Answered",
			Summary:     "How to configure settlement import",
		},
	}); err != nil {
		t.Fatalf("seed db: %v", err)
	}

	outDir := filepath.Join(t.TempDir(), "reports")
	cfg := Config{ReportOutputDir: outDir}
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}

	rep, paths, err := RunAnalysis(cfg, rules, db)
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}
	if rep.TotalCases != 2 {
		t.Fatalf("TotalCases = %d", rep.TotalCases)
	}
	if len(paths) != len(rep.Tables)+1 {
		t.Fatalf("wrote %d files, want %d", len(paths), len(rep.Tables)+1)
	}

	f, err := os.Open(filepath.Join(outDir, "case_details.csv"))
	if err != nil {
		t.Fatalf("case details missing: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reparse case details: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("case details rows = %d, want header + 2", len(rows))
	}
	if rows[1][0] != "SUP-10" {
		t.Errorf("first detail row = %v", rows[1])
	}
}

func TestRunAnalysisIngestsConfiguredCSV(t *testing.T) {
	db := newTestDB(t)
	csvPath := writeCSV(t, "Issue key,Summary,Status\nSUP-20,Inventory export delayed,Open\n")

	outDir := filepath.Join(t.TempDir(), "reports")
	cfg := Config{InputCSV: csvPath, ReportOutputDir: outDir}
	rules, _ := LoadRules("")

	rep, _, err := RunAnalysis(cfg, rules, db)
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}
	if rep.TotalCases != 1 {
		t.Fatalf("TotalCases = %d", rep.TotalCases)
	}
	count, _ := CountCases(db)
	if count != 1 {
		t.Fatalf("cache count = %d, want csv row cached", count)
	}
}

func TestRunAnalysisMissingCSVIsFatalBeforeOutput(t *testing.T) {
	db := newTestDB(t)
	outDir := filepath.Join(t.TempDir(), "reports")
	cfg := Config{
		InputCSV:        filepath.Join(t.TempDir(), "missing.csv"),
		ReportOutputDir: outDir,
	}
	rules, _ := LoadRules("")

	if _, _, err := RunAnalysis(cfg, rules, db); err == nil {
		t.Fatal("expected error for unreadable input")
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("output dir should not exist after failed run")
	}
}
