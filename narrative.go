package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"caseminer/internal/analysis"
)

const narrativeSystemPrompt = `You are an engineering operations analyst. You receive aggregate
tables from a support-case analysis run for e-commerce integration products.
Write a concise executive narrative (3-5 short paragraphs): overall volume and
resolution health, the integrations and flows driving the most pain, recurring
errors worth engineering attention, and concrete next steps. Plain prose, no
headings, no bullet lists. Do not invent numbers that are not in the tables.`

// GenerateNarrative asks the model for a prose summary of the run. The
// narrative never feeds back into classification; it is a presentation layer
// over the finished tables.
func GenerateNarrative(cfg Config, rep *analysis.Report) (string, error) {
	prompt := narrativePrompt(rep)

	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
	message, err := client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.NarrativeModel),
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: narrativeSystemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("narrative response size=%d tokens_in=%d tokens_out=%d",
				len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens)
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}

// WriteNarrativeFile stores the narrative next to the report tables.
func WriteNarrativeFile(narrative, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, "narrative.md")
	return path, os.WriteFile(path, []byte(narrative), 0644)
}

// narrativePrompt flattens the decision-relevant tables into plain text.
// Row-level detail tables are omitted to keep the prompt bounded.
func narrativePrompt(rep *analysis.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analysis of %d support cases.\n", rep.TotalCases)
	for _, name := range []string{
		analysis.TableOverallSummary,
		analysis.TableIntegrationOverview,
		analysis.TableFrequentFlowIssues,
		analysis.TableRecurringErrors,
		analysis.TableErrorCategories,
	} {
		tab := rep.Table(name)
		if tab == nil || len(tab.Rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n", tab.Name)
		b.WriteString(strings.Join(tab.Columns, " | ") + "\n")
		rows := tab.Rows
		if len(rows) > 20 {
			rows = rows[:20]
		}
		for _, row := range rows {
			b.WriteString(strings.Join(row, " | ") + "\n")
		}
	}
	return b.String()
}
