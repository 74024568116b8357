package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"caseminer/internal/ticket"
)

// columnMap holds resolved header indexes for one CSV file. -1 means the
// column is absent; the record field then keeps its zero value and the
// analysis layer substitutes sentinels.
type columnMap struct {
	caseKey            int
	summary            int
	description        int
	resolutionComments int
	status             int
	priority           int
	resolution         int
	caseType           int
	integration        int
	assignee           int
	customer           int
	created            int
	resolved           int

	comments []int
	links    map[string]int
}

var dateLayouts = []string{
	"02/Jan/06 3:04 PM",
	"02/Jan/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

// ReadCasesCSV loads a ticket export. Standard columns are matched by exact
// header name, custom fields by case-insensitive substring, and repeated
// comment and issue-link columns are collected in header order.
func ReadCasesCSV(path string) ([]ticket.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := resolveColumns(headers)
	if err != nil {
		return nil, err
	}

	var records []ticket.Record
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		r := buildRecord(row, cols)
		if r.CaseKey == "" {
			skipped++
			continue
		}
		records = append(records, r)
	}
	if skipped > 0 {
		log.Printf("ingest skipped %d rows without a case key", skipped)
	}
	return records, nil
}

func resolveColumns(headers []string) (columnMap, error) {
	exact := func(names ...string) int {
		for _, name := range names {
			for i, h := range headers {
				if strings.EqualFold(strings.TrimSpace(h), name) {
					return i
				}
			}
		}
		return -1
	}
	contains := func(fragment string) int {
		fragment = strings.ToLower(fragment)
		for i, h := range headers {
			if strings.Contains(strings.ToLower(h), fragment) {
				return i
			}
		}
		return -1
	}

	cols := columnMap{
		caseKey:            exact("Issue key", "Case Key", "Key"),
		summary:            exact("Summary"),
		description:        exact("Description"),
		resolutionComments: contains("resolution comment"),
		status:             exact("Status"),
		priority:           exact("Priority"),
		resolution:         exact("Resolution"),
		caseType:           exact("Issue Type", "Case Type"),
		integration:        contains("integration"),
		assignee:           exact("Assignee"),
		customer:           contains("company"),
		created:            exact("Created"),
		resolved:           exact("Resolved"),
		links:              map[string]int{},
	}
	if cols.caseType == -1 {
		cols.caseType = contains("case type")
	}
	if cols.customer == -1 {
		cols.customer = contains("customer name")
	}
	if cols.caseKey == -1 {
		return cols, fmt.Errorf("no case key column in header: %v", headers)
	}

	for i, h := range headers {
		name := strings.TrimSpace(h)
		switch {
		case strings.EqualFold(name, "Comment") || strings.HasPrefix(name, "Comment"):
			cols.comments = append(cols.comments, i)
		case strings.HasPrefix(name, "Inward issue link"), strings.HasPrefix(name, "Outward issue link"):
			cols.links[name] = i
		}
	}
	return cols, nil
}

func buildRecord(row []string, cols columnMap) ticket.Record {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return ticket.CleanText(row[i])
	}

	r := ticket.Record{
		CaseKey:            cell(cols.caseKey),
		Summary:            cell(cols.summary),
		Description:        cell(cols.description),
		ResolutionComments: cell(cols.resolutionComments),
		Status:             cell(cols.status),
		Priority:           cell(cols.priority),
		Resolution:         cell(cols.resolution),
		CaseType:           cell(cols.caseType),
		Integration:        cell(cols.integration),
		Assignee:           cell(cols.assignee),
		Customer:           cell(cols.customer),
		Created:            parseDate(cell(cols.created)),
		Resolved:           parseDate(cell(cols.resolved)),
	}
	for _, i := range cols.comments {
		if c := cell(i); c != "" {
			r.Comments = append(r.Comments, c)
		}
	}
	for name, i := range cols.links {
		if v := cell(i); v != "" {
			if r.Links == nil {
				r.Links = map[string]string{}
			}
			r.Links[name] = v
		}
	}
	return r
}

// parseDate tries the known export layouts. An unparseable date yields the
// zero time; the ticket is then excluded from time buckets only.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
