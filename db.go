package main

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"caseminer/internal/ticket"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS cases (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		case_key            TEXT NOT NULL UNIQUE,
		case_type           TEXT DEFAULT '',
		integration         TEXT DEFAULT '',
		priority            TEXT DEFAULT '',
		status              TEXT DEFAULT '',
		resolution          TEXT DEFAULT '',
		assignee            TEXT DEFAULT '',
		customer            TEXT DEFAULT '',
		summary             TEXT DEFAULT '',
		description         TEXT DEFAULT '',
		resolution_comments TEXT DEFAULT '',
		comments_json       TEXT DEFAULT '[]',
		links_json          TEXT DEFAULT '{}',
		created_at          TEXT DEFAULT '',
		resolved_at         TEXT DEFAULT '',
		ingested_at         DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_cases_integration ON cases(integration);
	CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// InsertCases stores records in the ticket cache, skipping case keys that are
// already present. Returns the number of newly inserted rows.
func InsertCases(db *sql.DB, records []ticket.Record) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO cases
		 (case_key, case_type, integration, priority, status, resolution, assignee, customer,
		  summary, description, resolution_comments, comments_json, links_json, created_at, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		res, err := stmt.Exec(
			r.CaseKey, r.CaseType, r.Integration, r.Priority, r.Status, r.Resolution,
			r.Assignee, r.Customer, r.Summary, r.Description, r.ResolutionComments,
			encodeStrings(r.Comments), encodeStringMap(r.Links),
			encodeTime(r.Created), encodeTime(r.Resolved),
		)
		if err != nil {
			return inserted, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, tx.Commit()
}

// LoadAllCases reads the full ticket cache in insertion order.
func LoadAllCases(db *sql.DB) ([]ticket.Record, error) {
	rows, err := db.Query(
		`SELECT case_key, case_type, integration, priority, status, resolution, assignee, customer,
		        summary, description, resolution_comments, comments_json, links_json, created_at, resolved_at
		 FROM cases ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ticket.Record
	for rows.Next() {
		var r ticket.Record
		var comments, links, created, resolved string
		err := rows.Scan(
			&r.CaseKey, &r.CaseType, &r.Integration, &r.Priority, &r.Status, &r.Resolution,
			&r.Assignee, &r.Customer, &r.Summary, &r.Description, &r.ResolutionComments,
			&comments, &links, &created, &resolved,
		)
		if err != nil {
			return nil, err
		}
		r.Comments = decodeStrings(comments)
		r.Links = decodeStringMap(links)
		r.Created = decodeTime(created)
		r.Resolved = decodeTime(resolved)
		records = append(records, r)
	}
	return records, rows.Err()
}

func CountCases(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM cases").Scan(&count)
	return count, err
}

func encodeStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeStrings(data string) []string {
	var values []string
	if json.Unmarshal([]byte(data), &values) != nil {
		return nil
	}
	return values
}

func encodeStringMap(values map[string]string) string {
	if len(values) == 0 {
		return "{}"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func decodeStringMap(data string) map[string]string {
	var values map[string]string
	if json.Unmarshal([]byte(data), &values) != nil || len(values) == 0 {
		return nil
	}
	return values
}

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func decodeTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
