package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/slack-go/slack"

	"caseminer/internal/analysis"
)

// FormatRunSummary builds the short run digest posted after an analysis run.
func FormatRunSummary(rep *analysis.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Case analysis complete: %d cases", rep.TotalCases)

	if tab := rep.Table(analysis.TableOverallSummary); tab != nil {
		for _, row := range tab.Rows {
			switch row[0] {
			case "Open Cases", "Closed Cases":
				fmt.Fprintf(&b, ", %s %s", strings.ToLower(strings.TrimSuffix(row[0], " Cases")), row[1])
			}
		}
	}
	if tab := rep.Table(analysis.TableIntegrationOverview); tab != nil && len(tab.Rows) > 0 {
		top := tab.Rows[0]
		fmt.Fprintf(&b, "\nTop integration by impact: %s (%s cases, %s P1)", top[0], top[1], top[5])
	}
	if tab := rep.Table(analysis.TableRecurringErrors); tab != nil && len(tab.Rows) > 0 {
		fmt.Fprintf(&b, "\nRecurring errors: %d", len(tab.Rows))
	}
	return b.String()
}

// PostRunSummary sends the digest to the configured report channel.
func PostRunSummary(api *slack.Client, channelID string, rep *analysis.Report) error {
	summary := FormatRunSummary(rep)
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(summary, false))
	if err != nil {
		return fmt.Errorf("post run summary: %w", err)
	}
	log.Printf("posted run summary to %s", channelID)
	return nil
}
