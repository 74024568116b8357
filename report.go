package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"caseminer/internal/analysis"
)

// WriteReportFiles renders every table to a CSV file plus a summary.md in
// outputDir. All files are rendered in memory first so a failure leaves no
// partial output on disk. Returns the written paths in table order.
func WriteReportFiles(rep *analysis.Report, outputDir string) ([]string, error) {
	type pending struct {
		path string
		data []byte
	}
	files := make([]pending, 0, len(rep.Tables)+1)

	for _, tab := range rep.Tables {
		data, err := renderTableCSV(tab)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", tab.Name, err)
		}
		files = append(files, pending{
			path: filepath.Join(outputDir, tableFilename(tab.Name)),
			data: data,
		})
	}
	files = append(files, pending{
		path: filepath.Join(outputDir, "summary.md"),
		data: []byte(renderSummaryMarkdown(rep)),
	})

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.WriteFile(f.path, f.data, 0644); err != nil {
			for _, p := range paths {
				os.Remove(p)
			}
			return nil, err
		}
		paths = append(paths, f.path)
	}
	return paths, nil
}

func renderTableCSV(tab analysis.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tab.Columns); err != nil {
		return nil, err
	}
	for _, row := range tab.Rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tableFilename(name string) string {
	s := strings.ToLower(sanitizeFilename(name))
	s = strings.ReplaceAll(s, " ", "_")
	return s + ".csv"
}

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(s)
}

// renderSummaryMarkdown writes the overall summary table as a readable
// markdown digest of the run.
func renderSummaryMarkdown(rep *analysis.Report) string {
	var b strings.Builder
	b.WriteString("# Support Case Analysis\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", rep.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Total cases analyzed: %d\n\n", rep.TotalCases)

	if tab := rep.Table(analysis.TableOverallSummary); tab != nil && len(tab.Rows) > 0 {
		b.WriteString("| " + strings.Join(tab.Columns, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(tab.Columns)) + "\n")
		for _, row := range tab.Rows {
			b.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Tables\n\n")
	for _, tab := range rep.Tables {
		fmt.Fprintf(&b, "- %s (%d rows): `%s`\n", tab.Name, len(tab.Rows), tableFilename(tab.Name))
	}
	return b.String()
}
