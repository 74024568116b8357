package main

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath          string `yaml:"db_path"`
	InputCSV        string `yaml:"input_csv"`
	ReportOutputDir string `yaml:"report_output_dir"`
	RulesPath       string `yaml:"rules_path"`

	AnalysisSchedule string `yaml:"analysis_schedule"`
	Timezone         string `yaml:"timezone"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	NarrativeModel  string `yaml:"narrative_model"`

	Location *time.Location `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.InputCSV, "INPUT_CSV")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.RulesPath, "RULES_PATH")
	envOverride(&cfg.AnalysisSchedule, "ANALYSIS_SCHEDULE")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.NarrativeModel, "NARRATIVE_MODEL")

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "./caseminer.db"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.NarrativeModel == "" {
		cfg.NarrativeModel = "claude-sonnet-4-5"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	if cfg.Timezone == "Local" {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	// Validate required combinations
	if cfg.ReportChannelID != "" && cfg.SlackBotToken == "" {
		log.Fatalf("slack_bot_token is required when report_channel_id is set")
	}
	if cfg.RulesPath != "" {
		if _, err := LoadRules(cfg.RulesPath); err != nil {
			log.Fatalf("invalid rules_path '%s': %v", cfg.RulesPath, err)
		}
	}

	return cfg
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.ReportChannelID != ""
}

func (c Config) NarrativeConfigured() bool {
	return c.AnthropicAPIKey != ""
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
