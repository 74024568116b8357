package main

import (
	"os"
	"path/filepath"
	"testing"
)

func setCleanConfigEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))
	for _, key := range []string{
		"DB_PATH", "INPUT_CSV", "REPORT_OUTPUT_DIR", "RULES_PATH",
		"ANALYSIS_SCHEDULE", "TIMEZONE", "SLACK_BOT_TOKEN",
		"REPORT_CHANNEL_ID", "ANTHROPIC_API_KEY", "NARRATIVE_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setCleanConfigEnv(t)
	t.Setenv("TIMEZONE", "UTC")

	cfg := LoadConfig()

	if cfg.DBPath != "./caseminer.db" {
		t.Fatalf("unexpected db path default: %q", cfg.DBPath)
	}
	if cfg.ReportOutputDir != "./reports" {
		t.Fatalf("unexpected report output dir default: %q", cfg.ReportOutputDir)
	}
	if cfg.NarrativeModel == "" {
		t.Fatalf("expected narrative model default")
	}
	if cfg.Location == nil || cfg.Location.String() != "UTC" {
		t.Fatalf("unexpected location: %v", cfg.Location)
	}
	if cfg.SlackConfigured() {
		t.Fatal("slack should not be configured by default")
	}
	if cfg.NarrativeConfigured() {
		t.Fatal("narrative should not be configured by default")
	}
}

func TestLoadConfigYAMLAndEnvOverride(t *testing.T) {
	setCleanConfigEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
db_path: "./from-yaml.db"
report_output_dir: "./yaml-reports"
slack_bot_token: "xoxb-yaml"
report_channel_id: "C123"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", cfgPath)
	t.Setenv("DB_PATH", "./from-env.db")
	t.Setenv("TIMEZONE", "UTC")

	cfg := LoadConfig()

	if cfg.DBPath != "./from-env.db" {
		t.Fatalf("env should override yaml, got %q", cfg.DBPath)
	}
	if cfg.ReportOutputDir != "./yaml-reports" {
		t.Fatalf("yaml value lost: %q", cfg.ReportOutputDir)
	}
	if !cfg.SlackConfigured() {
		t.Fatal("slack should be configured")
	}
}
