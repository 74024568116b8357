package analysis

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"caseminer/internal/ticket"
)

func fixtureRecords() []ticket.Record {
	created := func(m time.Month, d int) time.Time {
		return time.Date(2025, m, d, 12, 0, 0, 0, time.UTC)
	}
	return []ticket.Record{
		{
			CaseKey:     "SUP-1",
			CaseType:    "Bug",
			Integration: "Shopify",
			Priority:    "P1",
			Status:      "Open",
			Resolution:  "",
			Summary:     "Order sync failing with token expired",
			Description: "Flow Name: The Order Sync]\nError: \"Failed to save the fulfillment record in the target account\"",
			Created:     created(time.January, 5),
		},
		{
			CaseKey:            "SUP-2",
			CaseType:           "Bug",
			Integration:        "Shopify",
			Priority:           "P2",
			Status:             "Closed",
			Resolution:         "Done",
			Summary:            "Order sync stuck again",
			Description:        "Flow Name: The Order Sync]\nError: \"Failed to save the fulfillment record in the target account\"",
			ResolutionComments: "bug fix deployed, see PRE-77",
			Comments:           []string{"linked PRE-77"},
			Links:              map[string]string{"Inward issue link (Resolves)": "PRE-77"},
			Created:            created(time.January, 9),
		},
		{
			CaseKey:     "SUP-3",
			CaseType:    "Query",
			Integration: "Amazon",
			Priority:    "P3",
			Status:      "Closed",
			Resolution:  "Answered",
			Summary:     "How do I configure settlement import",
			Description: "Company: Acme Retail\nneed guidance",
			Created:     created(time.February, 2),
		},
		{
			CaseKey:     "SUP-4",
			CaseType:    "Bug",
			Integration: "",
			Priority:    "weird",
			Status:      "Open",
			Summary:     "no integration set",
			Description: "",
		},
	}
}

func run(t *testing.T) *Report {
	t.Helper()
	return New(DefaultConfig()).Run(fixtureRecords())
}

func TestRunProducesAllTables(t *testing.T) {
	rep := run(t)
	names := []string{
		TableIntegrationOverview, TableCountByIntegration, TableResolutionBreakdown,
		TableCountByMonth, TableCustomerAnalysis, TableCustomerTiers,
		TableErrorCategories, TableErrorDistribution, TableFrequentFlowIssues,
		TableRecurringErrors, TablePatternAnalysis, TableCodeFixAnalysis,
		TableOverallSummary, TableCaseDetails,
	}
	if len(rep.Tables) != len(names) {
		t.Fatalf("got %d tables, want %d", len(rep.Tables), len(names))
	}
	for _, n := range names {
		tab := rep.Table(n)
		if tab == nil {
			t.Errorf("missing table %q", n)
			continue
		}
		for i, row := range tab.Rows {
			if len(row) != len(tab.Columns) {
				t.Errorf("%s row %d has %d cells, want %d", n, i, len(row), len(tab.Columns))
			}
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	a, b := run(t), run(t)
	for i := range a.Tables {
		ta, tb := a.Tables[i], b.Tables[i]
		if len(ta.Rows) != len(tb.Rows) {
			t.Fatalf("%s: row counts differ between runs", ta.Name)
		}
		for j := range ta.Rows {
			if strings.Join(ta.Rows[j], "\x00") != strings.Join(tb.Rows[j], "\x00") {
				t.Errorf("%s row %d differs between runs", ta.Name, j)
			}
		}
	}
}

func TestIntegrationOverviewOrdering(t *testing.T) {
	tab := run(t).Table(TableIntegrationOverview)
	if len(tab.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (N/A integration excluded): %v", len(tab.Rows), tab.Rows)
	}
	// Shopify has 2 cases + one P1 (impact 12), Amazon 1 case.
	if tab.Rows[0][0] != "Shopify" || tab.Rows[1][0] != "Amazon" {
		t.Errorf("impact ordering wrong: %v", tab.Rows)
	}
	if tab.Rows[0][5] != "1" {
		t.Errorf("Shopify P1 total = %q, want 1", tab.Rows[0][5])
	}
	if tab.Rows[0][6] != "1" {
		t.Errorf("Shopify P1 open = %q, want 1", tab.Rows[0][6])
	}
	// Resolution rate in this table is a whole percentage.
	if tab.Rows[0][4] != "50%" {
		t.Errorf("Shopify resolution rate = %q, want 50%%", tab.Rows[0][4])
	}
}

func TestCountByIntegration(t *testing.T) {
	tab := run(t).Table(TableCountByIntegration)
	if tab.Rows[0][0] != "Shopify" {
		t.Fatalf("rows = %v", tab.Rows)
	}
	// Integration, Total, Bug, Query, Doc, PE, Open, Closed, P1..P4
	r := tab.Rows[0]
	if r[1] != "2" || r[2] != "2" || r[3] != "0" {
		t.Errorf("shopify counts wrong: %v", r)
	}
	if r[6] != "1" || r[7] != "1" {
		t.Errorf("shopify open/closed = %v/%v", r[6], r[7])
	}
}

func TestCountByMonthSkipsUndated(t *testing.T) {
	tab := run(t).Table(TableCountByMonth)
	if len(tab.Rows) != 2 {
		t.Fatalf("got %d month rows, want 2: %v", len(tab.Rows), tab.Rows)
	}
	if tab.Rows[0][0] != "2025-01" || tab.Rows[1][0] != "2025-02" {
		t.Errorf("month order = %v", tab.Rows)
	}
	if tab.Rows[0][1] != "2" {
		t.Errorf("january total = %q", tab.Rows[0][1])
	}
}

func TestCustomerAnalysisUsesExtractedName(t *testing.T) {
	tab := run(t).Table(TableCustomerAnalysis)
	if len(tab.Rows) != 1 {
		t.Fatalf("customer rows = %v", tab.Rows)
	}
	r := tab.Rows[0]
	if r[0] != "Acme Retail" {
		t.Errorf("customer = %q", r[0])
	}
	if r[1] != "Tier 3" {
		t.Errorf("tier = %q, want Tier 3 for one case", r[1])
	}
}

func TestCustomerTiersAlwaysThreeRows(t *testing.T) {
	tab := run(t).Table(TableCustomerTiers)
	if len(tab.Rows) != 3 {
		t.Fatalf("tier rows = %v", tab.Rows)
	}
	if tab.Rows[2][0] != "Tier 3" || tab.Rows[2][1] != "1" {
		t.Errorf("tier 3 row = %v", tab.Rows[2])
	}
}

func TestFrequentFlowIssuesMergesSpellings(t *testing.T) {
	tab := run(t).Table(TableFrequentFlowIssues)
	if len(tab.Rows) != 1 {
		t.Fatalf("flow rows = %v", tab.Rows)
	}
	r := tab.Rows[0]
	if r[0] != "Shopify" {
		t.Errorf("integration = %q", r[0])
	}
	// "The Order Sync" and the keyword hit "order sync" both occur in both
	// tickets and normalize to the same key, so one merged row remains.
	if r[1] != "The Order Sync" {
		t.Errorf("representative = %q", r[1])
	}
	if r[4] != "4" {
		t.Errorf("issue count = %q, want summed counts of merged spellings", r[4])
	}
	if !strings.Contains(r[9], "SUP-1") || !strings.Contains(r[9], "SUP-2") {
		t.Errorf("affected cases = %q", r[9])
	}
	if r[13] != "2" {
		t.Errorf("merged count = %q, want 2", r[13])
	}
}

func TestRecurringErrors(t *testing.T) {
	tab := run(t).Table(TableRecurringErrors)
	if len(tab.Rows) != 1 {
		t.Fatalf("recurring error rows = %v", tab.Rows)
	}
	r := tab.Rows[0]
	if r[2] != "2" {
		t.Errorf("occurrence count = %q", r[2])
	}
	if r[4] != "SUP-1" {
		t.Errorf("sample case = %q", r[4])
	}
}

func TestCodeFixAnalysis(t *testing.T) {
	tab := run(t).Table(TableCodeFixAnalysis)
	if len(tab.Rows) != 1 {
		t.Fatalf("code fix rows = %v", tab.Rows)
	}
	r := tab.Rows[0]
	if r[0] != "SUP-2" {
		t.Errorf("case = %q", r[0])
	}
	if r[1] != "Code Fix (Resolves Link)" || r[2] != "High" {
		t.Errorf("classification = %q/%q", r[1], r[2])
	}
	if !strings.Contains(r[4], "PRE-77") {
		t.Errorf("linked items = %q", r[4])
	}
	if !strings.Contains(r[6], "Inward issue link") {
		t.Errorf("link sources = %q", r[6])
	}
}

func TestCaseDetailsSentinels(t *testing.T) {
	tab := run(t).Table(TableCaseDetails)
	if len(tab.Rows) != 4 {
		t.Fatalf("detail rows = %d", len(tab.Rows))
	}
	var bare []string
	for _, r := range tab.Rows {
		if r[0] == "SUP-4" {
			bare = r
		}
	}
	if bare == nil {
		t.Fatal("SUP-4 row missing")
	}
	cols := tab.Columns
	get := func(name string) string {
		for i, c := range cols {
			if c == name {
				return bare[i]
			}
		}
		t.Fatalf("column %q missing", name)
		return ""
	}
	if get("Integration") != "N/A" {
		t.Errorf("Integration = %q", get("Integration"))
	}
	if get("Flows Identified") != "Not specified" {
		t.Errorf("Flows Identified = %q", get("Flows Identified"))
	}
	if get("References") != "None" {
		t.Errorf("References = %q", get("References"))
	}
	if get("Month") != "" {
		t.Errorf("Month = %q, want empty for undated ticket", get("Month"))
	}
	if get("Priority") != "weird" {
		t.Errorf("Priority = %q", get("Priority"))
	}
}

func TestOverallSummary(t *testing.T) {
	tab := run(t).Table(TableOverallSummary)
	if len(tab.Rows) == 0 {
		t.Fatal("empty summary")
	}
	found := map[string]string{}
	for _, r := range tab.Rows {
		found[r[0]] = r[1]
	}
	if found["Total Cases"] != "4" {
		t.Errorf("total = %q", found["Total Cases"])
	}
	if found["Open Cases"] != "2" {
		t.Errorf("open = %q", found["Open Cases"])
	}
	if found["Bug Cases"] != "3" {
		t.Errorf("bug cases = %q", found["Bug Cases"])
	}
}

func TestRunEmptyInput(t *testing.T) {
	rep := New(DefaultConfig()).Run(nil)
	if rep.TotalCases != 0 {
		t.Errorf("TotalCases = %d", rep.TotalCases)
	}
	for _, tab := range rep.Tables {
		switch tab.Name {
		case TableCustomerTiers:
			if len(tab.Rows) != 3 {
				t.Errorf("%s rows = %d", tab.Name, len(tab.Rows))
			}
		default:
			if len(tab.Rows) != 0 {
				t.Errorf("%s should be empty, got %d rows", tab.Name, len(tab.Rows))
			}
		}
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	// A two-byte rune straddling the cut must be dropped whole, not split.
	long := strings.Repeat("a", 199) + "é and more text"
	got := truncate(long, 200)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: % x", got[len(got)-2:])
	}
	if got != strings.Repeat("a", 199) {
		t.Errorf("cut at %d bytes, want 199: %q", len(got), got[190:])
	}
	if truncate("héllo wörld", 80) != "héllo wörld" {
		t.Error("short strings must pass through unchanged")
	}
	if truncate("ααββ", 4) != "αα" {
		t.Errorf("truncate(ααββ, 4) = %q", truncate("ααββ", 4))
	}
}

func TestSummaryTruncationValidUTF8(t *testing.T) {
	rec := ticket.Record{
		CaseKey: "SUP-90",
		Summary: strings.Repeat("x", 199) + "éxpédition delayed",
	}
	rep := New(DefaultConfig()).Run([]ticket.Record{rec})
	if !utf8.ValidString(rep.Details[0].Summary) {
		t.Fatalf("detail summary is invalid UTF-8: %q", rep.Details[0].Summary)
	}
	if len(rep.Details[0].Summary) > 200 {
		t.Errorf("summary len = %d, want <= 200", len(rep.Details[0].Summary))
	}
}
