package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/slack-go/slack"

	"caseminer/internal/analysis"
)

func main() {
	cfg := LoadConfig()

	rules, err := LoadRules(cfg.RulesPath)
	if err != nil {
		log.Fatalf("Failed to load rules: %v", err)
	}

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	mode := "analyze"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "analyze":
		runOnce(cfg, rules, db)

	case "ingest":
		path := cfg.InputCSV
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		if path == "" {
			log.Fatalf("ingest: no CSV given (argument or input_csv config)")
		}
		records, err := ReadCasesCSV(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		inserted, err := InsertCases(db, records)
		if err != nil {
			log.Fatalf("Failed to store tickets: %v", err)
		}
		total, _ := CountCases(db)
		log.Printf("Ingested %s: %d rows, %d new, %d cached total", path, len(records), inserted, total)

	case "schedule":
		if cfg.AnalysisSchedule == "" {
			log.Fatalf("schedule mode requires analysis_schedule")
		}
		var api *slack.Client
		if cfg.SlackConfigured() {
			api = slack.New(cfg.SlackBotToken)
		}
		log.Println("Starting case analysis scheduler...")
		StartAnalysisScheduler(cfg, rules, db, api)
		select {}

	default:
		log.Fatalf("unknown mode '%s' (expected analyze, ingest or schedule)", mode)
	}
}

func runOnce(cfg Config, rules analysis.Config, db *sql.DB) {
	rep, paths, err := RunAnalysis(cfg, rules, db)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	log.Printf("Wrote %d report files", len(paths))

	if cfg.SlackConfigured() {
		api := slack.New(cfg.SlackBotToken)
		if err := PostRunSummary(api, cfg.ReportChannelID, rep); err != nil {
			log.Printf("Slack summary error: %v", err)
		}
	}
	if cfg.NarrativeConfigured() {
		narrative, err := GenerateNarrative(cfg, rep)
		if err != nil {
			log.Printf("Narrative error: %v", err)
			return
		}
		path, err := WriteNarrativeFile(narrative, cfg.ReportOutputDir)
		if err != nil {
			log.Printf("Narrative write error: %v", err)
			return
		}
		log.Printf("Wrote narrative to %s", path)
	}
}
