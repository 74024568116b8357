package main

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"

	"caseminer/internal/analysis"
)

// StartAnalysisScheduler runs the one-shot pipeline on a cron schedule.
// The schedule is a standard 5-field cron expression (minute hour day-of-month month day-of-week).
// Examples: "0 6 * * *" (daily 6am), "0 6 * * 1" (Mondays 6am).
func StartAnalysisScheduler(cfg Config, rules analysis.Config, db *sql.DB, api *slack.Client) {
	schedule := strings.TrimSpace(cfg.AnalysisSchedule)
	if schedule == "" {
		log.Println("Scheduler disabled (analysis_schedule not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid analysis_schedule '%s': %v, scheduler disabled", schedule, err)
		return
	}
	log.Printf("Analysis scheduled (cron: %s)", schedule)

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next analysis at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			rep, _, err := RunAnalysis(cfg, rules, db)
			if err != nil {
				log.Printf("Scheduled analysis error: %v", err)
				continue
			}
			if api != nil && cfg.ReportChannelID != "" {
				if err := PostRunSummary(api, cfg.ReportChannelID, rep); err != nil {
					log.Printf("Scheduled analysis post error: %v", err)
				}
			}
		}
	}()
}
