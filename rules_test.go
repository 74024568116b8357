package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRulesEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	if len(cfg.Extract.RecordTypes) == 0 {
		t.Fatal("defaults missing record types")
	}
	if cfg.RecurrenceThreshold != 2 {
		t.Fatalf("recurrence threshold = %d", cfg.RecurrenceThreshold)
	}
}

func TestLoadRulesOverridesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
ref_prefixes: ["ENG"]
recurrence_threshold: 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	cfg, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	if len(cfg.RefPrefixes) != 1 || cfg.RefPrefixes[0] != "ENG" {
		t.Errorf("ref prefixes = %v", cfg.RefPrefixes)
	}
	if cfg.RecurrenceThreshold != 3 {
		t.Errorf("recurrence threshold = %d", cfg.RecurrenceThreshold)
	}
	// Untouched sections keep their defaults.
	if len(cfg.Extract.FlowKeywordGroups) == 0 {
		t.Error("flow keyword groups lost")
	}
	if len(cfg.OpenStatuses) == 0 {
		t.Error("open statuses lost")
	}
}

func TestLoadRulesBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not valid"), 0644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Fatal("expected parse error")
	}
}
