package main

import (
	"database/sql"
	"fmt"
	"log"

	"caseminer/internal/analysis"
	"caseminer/internal/ticket"
)

// RunAnalysis executes one full pipeline pass: load tickets, mine and
// classify them, and write the report files. When an input CSV is configured
// it is imported into the cache first, so scheduled runs see the union of
// everything ingested so far.
func RunAnalysis(cfg Config, rules analysis.Config, db *sql.DB) (*analysis.Report, []string, error) {
	records, err := loadTickets(cfg, db)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		log.Printf("analysis: no tickets loaded, writing empty report")
	}

	rep := analysis.New(rules).Run(records)
	paths, err := WriteReportFiles(rep, cfg.ReportOutputDir)
	if err != nil {
		return rep, paths, fmt.Errorf("write report: %w", err)
	}
	log.Printf("analysis complete: cases=%d tables=%d dir=%s", rep.TotalCases, len(rep.Tables), cfg.ReportOutputDir)
	return rep, paths, nil
}

func loadTickets(cfg Config, db *sql.DB) ([]ticket.Record, error) {
	if cfg.InputCSV != "" {
		records, err := ReadCasesCSV(cfg.InputCSV)
		if err != nil {
			return nil, err
		}
		inserted, err := InsertCases(db, records)
		if err != nil {
			return nil, fmt.Errorf("cache csv tickets: %w", err)
		}
		log.Printf("ingested %s: %d rows, %d new", cfg.InputCSV, len(records), inserted)
	}
	return LoadAllCases(db)
}
