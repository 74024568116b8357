package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"caseminer/internal/aggregate"
	"caseminer/internal/classify"
	"caseminer/internal/merge"
	"caseminer/internal/refs"
	"caseminer/internal/ticket"
)

// Table names, fixed across runs.
const (
	TableIntegrationOverview = "Integration Overview"
	TableCountByIntegration  = "Count by Integration"
	TableResolutionBreakdown = "Resolution Breakdown by IA"
	TableCountByMonth        = "Count by Month"
	TableCustomerAnalysis    = "Customer Analysis"
	TableCustomerTiers       = "Customer Tiers"
	TableErrorCategories     = "Error Categories"
	TableErrorDistribution   = "Error Distribution by IA"
	TableFrequentFlowIssues  = "Frequent Flow Issues"
	TableRecurringErrors     = "Recurring Errors"
	TablePatternAnalysis     = "Pattern Analysis"
	TableCodeFixAnalysis     = "Code Fix Analysis"
	TableOverallSummary      = "Overall Summary"
	TableCaseDetails         = "Case Details"
)

// flowStat is one (integration, raw flow name) group.
type flowStat struct {
	integration string
	flow        string
	cases       []string
}

// errorStat is one (integration, exact error text) group.
type errorStat struct {
	integration string
	text        string
	cases       []string
}

// collectFlows groups extracted flows by integration and raw name in
// first-seen order. Tickets without an integration are skipped.
func collectFlows(details []CaseDetail) []flowStat {
	index := make(map[string]int)
	var stats []flowStat
	for _, d := range details {
		if d.Integration == notAvailable {
			continue
		}
		for _, f := range d.Flows {
			key := d.Integration + "\x00" + f
			i, ok := index[key]
			if !ok {
				i = len(stats)
				index[key] = i
				stats = append(stats, flowStat{integration: d.Integration, flow: f})
			}
			stats[i].cases = append(stats[i].cases, d.CaseKey)
		}
	}
	return stats
}

// collectErrors groups extracted error messages the same way.
func collectErrors(details []CaseDetail) []errorStat {
	index := make(map[string]int)
	var stats []errorStat
	for _, d := range details {
		if d.Integration == notAvailable {
			continue
		}
		for _, e := range d.Errors {
			key := d.Integration + "\x00" + e
			i, ok := index[key]
			if !ok {
				i = len(stats)
				index[key] = i
				stats = append(stats, errorStat{integration: d.Integration, text: e})
			}
			stats[i].cases = append(stats[i].cases, d.CaseKey)
		}
	}
	return stats
}

func detailIndex(details []CaseDetail) map[string]*CaseDetail {
	m := make(map[string]*CaseDetail, len(details))
	for i := range details {
		m[details[i].CaseKey] = &details[i]
	}
	return m
}

// isClosed uses the narrow resolved-status set.
func (a *Analyzer) isClosed(status string) bool {
	return a.resolved.Has(status)
}

func (a *Analyzer) integrationOverview(records []ticket.Record, details []CaseDetail) Table {
	flows := collectFlows(details)
	errors := collectErrors(details)

	buckets := aggregate.GroupBy(records, func(r ticket.Record) []string {
		if strings.TrimSpace(r.Integration) == "" {
			return nil
		}
		return []string{r.Integration}
	}, aggregate.Options{OpenStatuses: a.cfg.OpenStatuses, SampleSize: a.cfg.SampleSize})

	type row struct {
		cells  []string
		impact int
	}
	var rows []row
	for _, b := range buckets {
		integration := b.Key
		total := b.Count
		closed, p1Open := 0, 0
		for _, r := range b.Records {
			if a.isClosed(r.Status) {
				closed++
			} else if strings.EqualFold(r.Priority, "P1") {
				p1Open++
			}
		}
		open := total - closed

		frequent, unique := 0, 0
		topFlow, topFlowCount := "", 0
		for _, fs := range flows {
			if fs.integration != integration || !a.meaningful(fs.flow) {
				continue
			}
			if len(fs.cases) >= a.cfg.RecurrenceThreshold {
				frequent++
			}
			if len(fs.cases) > topFlowCount {
				topFlow, topFlowCount = fs.flow, len(fs.cases)
			}
		}
		topError := notAvailable
		for _, es := range errors {
			if es.integration != integration || !a.meaningful(es.text) {
				continue
			}
			unique++
			if topError == notAvailable {
				topError = truncate(es.text, 80)
			}
		}

		topFlowCell := notAvailable
		if topFlow != "" {
			topFlowCell = fmt.Sprintf("%s (%d cases)", topFlow, topFlowCount)
		}

		rows = append(rows, row{
			cells: []string{
				integration,
				strconv.Itoa(total),
				strconv.Itoa(open),
				strconv.Itoa(closed),
				wholePercent(closed, total),
				strconv.Itoa(b.P1),
				strconv.Itoa(p1Open),
				strconv.Itoa(frequent),
				strconv.Itoa(unique),
				topFlowCell,
				topError,
			},
			impact: total + b.P1*10,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].impact > rows[j].impact })

	t := Table{
		Name: TableIntegrationOverview,
		Columns: []string{
			"Integration", "Total Cases", "Open", "Closed", "Resolution Rate",
			"P1 Total", "P1 Open", "Frequent Flows (2+)", "Unique Errors",
			"Top Flow Issue", "Most Common Error",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, r.cells)
	}
	return t
}

func (a *Analyzer) countByIntegration(records []ticket.Record, details []CaseDetail) Table {
	buckets := aggregate.GroupBy(records, func(r ticket.Record) []string {
		if strings.TrimSpace(r.Integration) == "" {
			return nil
		}
		return []string{r.Integration}
	}, aggregate.Options{OpenStatuses: a.cfg.OpenStatuses, SampleSize: a.cfg.SampleSize})

	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Count > buckets[j].Count })

	t := Table{
		Name: TableCountByIntegration,
		Columns: []string{
			"Integration", "Total Cases", "Bug", "Query", "Documentation",
			"Product Enhancement", "Open", "Closed", "P1", "P2", "P3", "P4",
		},
	}
	for _, b := range buckets {
		_, byType := aggregate.CountBy(b.Records, func(r ticket.Record) string { return r.CaseType })
		closed := 0
		for _, r := range b.Records {
			if a.isClosed(r.Status) {
				closed++
			}
		}
		t.Rows = append(t.Rows, []string{
			b.Key,
			strconv.Itoa(b.Count),
			strconv.Itoa(byType["Bug"]),
			strconv.Itoa(byType["Query"]),
			strconv.Itoa(byType["Documentation"]),
			strconv.Itoa(byType["Product Enhancement"]),
			strconv.Itoa(b.Count - closed),
			strconv.Itoa(closed),
			strconv.Itoa(b.P1), strconv.Itoa(b.P2), strconv.Itoa(b.P3), strconv.Itoa(b.P4),
		})
	}
	return t
}

func (a *Analyzer) resolutionBreakdown(records []ticket.Record) Table {
	resOrder, _ := aggregate.CountBy(records, func(r ticket.Record) string {
		return ticket.CleanText(r.Resolution)
	})

	buckets := aggregate.GroupBy(records, func(r ticket.Record) []string {
		if strings.TrimSpace(r.Integration) == "" {
			return nil
		}
		return []string{r.Integration}
	}, aggregate.Options{OpenStatuses: a.cfg.OpenStatuses})

	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Count > buckets[j].Count })

	t := Table{Name: TableResolutionBreakdown, Columns: append([]string{"Integration", "Total Cases"}, resOrder...)}
	for _, b := range buckets {
		_, byRes := aggregate.CountBy(b.Records, func(r ticket.Record) string {
			return ticket.CleanText(r.Resolution)
		})
		row := []string{b.Key, strconv.Itoa(b.Count)}
		for _, res := range resOrder {
			row = append(row, strconv.Itoa(byRes[res]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func (a *Analyzer) countByMonth(records []ticket.Record, details []CaseDetail) Table {
	buckets := aggregate.GroupBy(records, func(r ticket.Record) []string {
		if r.Month() == "" {
			return nil
		}
		return []string{r.Month()}
	}, aggregate.Options{OpenStatuses: a.cfg.OpenStatuses})

	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })

	t := Table{
		Name: TableCountByMonth,
		Columns: []string{
			"Month", "Total Cases", "Bug", "Query", "Documentation",
			"Product Enhancement", "Open", "Closed", "P1", "P2", "P3", "P4",
			"Top Integrations",
		},
	}
	for _, b := range buckets {
		_, byType := aggregate.CountBy(b.Records, func(r ticket.Record) string { return r.CaseType })
		closed := 0
		for _, r := range b.Records {
			if a.isClosed(r.Status) {
				closed++
			}
		}
		intOrder, intCounts := aggregate.CountBy(b.Records, func(r ticket.Record) string {
			if strings.TrimSpace(r.Integration) == "" {
				return ""
			}
			return r.Integration
		})
		t.Rows = append(t.Rows, []string{
			b.Key,
			strconv.Itoa(b.Count),
			strconv.Itoa(byType["Bug"]),
			strconv.Itoa(byType["Query"]),
			strconv.Itoa(byType["Documentation"]),
			strconv.Itoa(byType["Product Enhancement"]),
			strconv.Itoa(b.Count - closed),
			strconv.Itoa(closed),
			strconv.Itoa(b.P1), strconv.Itoa(b.P2), strconv.Itoa(b.P3), strconv.Itoa(b.P4),
			topN(intOrder, intCounts, 3),
		})
	}
	return t
}

func (a *Analyzer) customerAnalysis(records []ticket.Record, details []CaseDetail) Table {
	index := make(map[string]int)
	type custGroup struct {
		name    string
		details []*CaseDetail
	}
	var groups []custGroup
	for i := range details {
		d := &details[i]
		if d.Customer == "" || d.Customer == "Unknown" {
			continue
		}
		gi, ok := index[d.Customer]
		if !ok {
			gi = len(groups)
			index[d.Customer] = gi
			groups = append(groups, custGroup{name: d.Customer})
		}
		groups[gi].details = append(groups[gi].details, d)
	}

	sort.SliceStable(groups, func(i, j int) bool { return len(groups[i].details) > len(groups[j].details) })

	t := Table{
		Name: TableCustomerAnalysis,
		Columns: []string{
			"Customer", "Tier", "Total Cases", "Open", "Closed",
			"Bug", "Query", "Top Resolution", "Top Integration",
		},
	}
	for _, g := range groups {
		open, closed, bugs, queries := 0, 0, 0, 0
		var resOrder, intOrder []string
		resCounts := make(map[string]int)
		intCounts := make(map[string]int)
		for _, d := range g.details {
			if a.isClosed(d.Status) {
				closed++
			} else {
				open++
			}
			switch d.CaseType {
			case "Bug":
				bugs++
			case "Query":
				queries++
			}
			if res := ticket.CleanText(d.Resolution); res != "" && res != notAvailable {
				if _, ok := resCounts[res]; !ok {
					resOrder = append(resOrder, res)
				}
				resCounts[res]++
			}
			if d.Integration != notAvailable {
				if _, ok := intCounts[d.Integration]; !ok {
					intOrder = append(intOrder, d.Integration)
				}
				intCounts[d.Integration]++
			}
		}
		topRes, _ := aggregate.Top(resOrder, resCounts)
		topInt, _ := aggregate.Top(intOrder, intCounts)
		t.Rows = append(t.Rows, []string{
			truncate(g.name, 50),
			classify.CustomerTier(len(g.details)),
			strconv.Itoa(len(g.details)),
			strconv.Itoa(open),
			strconv.Itoa(closed),
			strconv.Itoa(bugs),
			strconv.Itoa(queries),
			orDefault(truncate(topRes, 40), notAvailable),
			orDefault(topInt, notAvailable),
		})
	}
	return t
}

func (a *Analyzer) customerTiers(records []ticket.Record, details []CaseDetail) Table {
	customers := make(map[string]int)
	var order []string
	for _, d := range details {
		if d.Customer == "" || d.Customer == "Unknown" {
			continue
		}
		if _, ok := customers[d.Customer]; !ok {
			order = append(order, d.Customer)
		}
		customers[d.Customer]++
	}

	tierCustomers := map[string]int{}
	tierCases := map[string]int{}
	for _, c := range order {
		tier := classify.CustomerTier(customers[c])
		tierCustomers[tier]++
		tierCases[tier] += customers[c]
	}

	t := Table{Name: TableCustomerTiers, Columns: []string{"Tier", "Customers", "Total Cases"}}
	for _, tier := range []string{"Tier 1", "Tier 2", "Tier 3"} {
		t.Rows = append(t.Rows, []string{
			tier,
			strconv.Itoa(tierCustomers[tier]),
			strconv.Itoa(tierCases[tier]),
		})
	}
	return t
}

// errorEntry is one categorized error occurrence.
type errorEntry struct {
	category    string
	text        string
	integration string
	caseKey     string
	priority    string
	status      string
}

// explodeErrors categorizes the top three errors of every case.
func (a *Analyzer) explodeErrors(details []CaseDetail) []errorEntry {
	var entries []errorEntry
	for _, d := range details {
		errs := d.Errors
		if len(errs) > 3 {
			errs = errs[:3]
		}
		for _, e := range errs {
			entries = append(entries, errorEntry{
				category:    classify.ErrorCategory(e),
				text:        truncate(e, 100),
				integration: d.Integration,
				caseKey:     d.CaseKey,
				priority:    d.Priority,
				status:      d.Status,
			})
		}
	}
	return entries
}

func (a *Analyzer) errorCategories(details []CaseDetail) Table {
	entries := a.explodeErrors(details)

	index := make(map[string]int)
	type catGroup struct {
		category string
		entries  []errorEntry
	}
	var groups []catGroup
	for _, e := range entries {
		i, ok := index[e.category]
		if !ok {
			i = len(groups)
			index[e.category] = i
			groups = append(groups, catGroup{category: e.category})
		}
		groups[i].entries = append(groups[i].entries, e)
	}

	sort.SliceStable(groups, func(i, j int) bool { return len(groups[i].entries) > len(groups[j].entries) })

	t := Table{
		Name: TableErrorCategories,
		Columns: []string{
			"Error Category", "Total Occurrences", "Unique Errors",
			"Open", "Closed", "P1", "P2", "Top Integration", "Most Common Error",
		},
	}
	for _, g := range groups {
		open, closed, p1, p2 := 0, 0, 0, 0
		var textOrder, intOrder []string
		textCounts := make(map[string]int)
		intCounts := make(map[string]int)
		for _, e := range g.entries {
			if a.isClosed(e.status) {
				closed++
			} else {
				open++
			}
			switch strings.ToUpper(e.priority) {
			case "P1":
				p1++
			case "P2":
				p2++
			}
			if _, ok := textCounts[e.text]; !ok {
				textOrder = append(textOrder, e.text)
			}
			textCounts[e.text]++
			if e.integration != notAvailable {
				if _, ok := intCounts[e.integration]; !ok {
					intOrder = append(intOrder, e.integration)
				}
				intCounts[e.integration]++
			}
		}
		topInt, topIntCount := aggregate.Top(intOrder, intCounts)
		topIntCell := notAvailable
		if topInt != "" {
			topIntCell = fmt.Sprintf("%s(%d)", topInt, topIntCount)
		}
		topText, _ := aggregate.Top(textOrder, textCounts)
		t.Rows = append(t.Rows, []string{
			g.category,
			strconv.Itoa(len(g.entries)),
			strconv.Itoa(len(textOrder)),
			strconv.Itoa(open),
			strconv.Itoa(closed),
			strconv.Itoa(p1),
			strconv.Itoa(p2),
			topIntCell,
			truncate(topText, 80),
		})
	}
	return t
}

func (a *Analyzer) errorDistribution(details []CaseDetail) Table {
	entries := a.explodeErrors(details)

	index := make(map[string]int)
	type distGroup struct {
		category    string
		integration string
		entries     []errorEntry
	}
	var groups []distGroup
	for _, e := range entries {
		key := e.category + "\x00" + e.integration
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, distGroup{category: e.category, integration: e.integration})
		}
		groups[i].entries = append(groups[i].entries, e)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].category != groups[j].category {
			return groups[i].category < groups[j].category
		}
		return len(groups[i].entries) > len(groups[j].entries)
	})

	t := Table{
		Name: TableErrorDistribution,
		Columns: []string{
			"Error Category", "Integration", "Error Count",
			"Open", "Closed", "P1", "P2", "Sample Error", "Affected Cases",
		},
	}
	for _, g := range groups {
		open, closed, p1, p2 := 0, 0, 0, 0
		var caseOrder []string
		caseSeen := make(map[string]bool)
		for _, e := range g.entries {
			if a.isClosed(e.status) {
				closed++
			} else {
				open++
			}
			switch strings.ToUpper(e.priority) {
			case "P1":
				p1++
			case "P2":
				p2++
			}
			if !caseSeen[e.caseKey] {
				caseSeen[e.caseKey] = true
				caseOrder = append(caseOrder, e.caseKey)
			}
		}
		if len(caseOrder) > a.cfg.SampleSize {
			caseOrder = caseOrder[:a.cfg.SampleSize]
		}
		t.Rows = append(t.Rows, []string{
			g.category,
			g.integration,
			strconv.Itoa(len(g.entries)),
			strconv.Itoa(open),
			strconv.Itoa(closed),
			strconv.Itoa(p1),
			strconv.Itoa(p2),
			truncate(g.entries[0].text, 80),
			strings.Join(caseOrder, ", "),
		})
	}
	return t
}

func (a *Analyzer) frequentFlowIssues(details []CaseDetail) Table {
	flows := collectFlows(details)
	byKey := detailIndex(details)

	var rows []merge.FlowRow
	for _, fs := range flows {
		if !a.meaningful(fs.flow) || len(fs.cases) < a.cfg.RecurrenceThreshold {
			continue
		}
		row := merge.FlowRow{
			Integration: fs.integration,
			FlowName:    fs.flow,
			Direction:   flowDirection(fs.flow),
			RecordType:  flowRecordType(fs.flow),
			IssueCount:  len(fs.cases),
			CaseKeys:    fs.cases,
		}
		refSeen := make(map[string]bool)
		for _, ck := range fs.cases {
			d := byKey[ck]
			if d == nil {
				continue
			}
			if a.isClosed(d.Status) {
				row.Closed++
			} else {
				row.Open++
			}
			switch strings.ToUpper(d.Priority) {
			case "P1":
				row.P1++
			case "P2":
				row.P2++
			}
			if row.CommonError == "" && len(d.Errors) > 0 {
				row.CommonError = truncate(d.Errors[0], 80)
			}
			for _, ref := range d.Refs {
				if !refSeen[ref] {
					refSeen[ref] = true
					row.Refs = append(row.Refs, ref)
				}
			}
		}
		if row.CommonError == "" {
			row.CommonError = notAvailable
		}
		rows = append(rows, row)
	}

	merged := merge.SimilarFlows(rows)

	t := Table{
		Name: TableFrequentFlowIssues,
		Columns: []string{
			"Integration", "Flow Name", "Direction", "Record Type",
			"Issue Count", "Open", "Closed", "P1", "P2",
			"Affected Cases", "Common Error", "Linked Refs", "Priority", "Merged Count",
		},
	}
	for _, m := range merged {
		t.Rows = append(t.Rows, []string{
			m.Integration,
			m.FlowName,
			m.Direction,
			m.RecordType,
			strconv.Itoa(m.IssueCount),
			strconv.Itoa(m.Open),
			strconv.Itoa(m.Closed),
			strconv.Itoa(m.P1),
			strconv.Itoa(m.P2),
			strings.Join(m.CaseKeys, ", "),
			m.CommonError,
			joinOr(m.Refs, ", ", notAvailable),
			m.Priority,
			strconv.Itoa(m.MergedCount),
		})
	}
	return t
}

func (a *Analyzer) recurringErrors(details []CaseDetail) Table {
	errors := collectErrors(details)

	type row struct {
		integration string
		cells       []string
		count       int
	}
	var rows []row
	for _, es := range errors {
		if len(es.cases) < a.cfg.RecurrenceThreshold {
			continue
		}
		cases := es.cases
		if len(cases) > 10 {
			cases = cases[:10]
		}
		rows = append(rows, row{
			integration: es.integration,
			count:       len(es.cases),
			cells: []string{
				es.integration,
				truncate(es.text, 200),
				strconv.Itoa(len(es.cases)),
				strings.Join(cases, ", "),
				es.cases[0],
			},
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].integration != rows[j].integration {
			return rows[i].integration < rows[j].integration
		}
		return rows[i].count > rows[j].count
	})

	t := Table{
		Name: TableRecurringErrors,
		Columns: []string{
			"Integration", "Error Message", "Occurrence Count", "Affected Cases", "Sample Case",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, r.cells)
	}
	return t
}

func (a *Analyzer) patternAnalysis(details []CaseDetail) Table {
	index := make(map[string]int)
	type patGroup struct {
		pattern string
		details []*CaseDetail
	}
	var groups []patGroup
	for i := range details {
		d := &details[i]
		gi, ok := index[d.Pattern]
		if !ok {
			gi = len(groups)
			index[d.Pattern] = gi
			groups = append(groups, patGroup{pattern: d.Pattern})
		}
		groups[gi].details = append(groups[gi].details, d)
	}

	sort.SliceStable(groups, func(i, j int) bool { return len(groups[i].details) > len(groups[j].details) })

	t := Table{
		Name:    TablePatternAnalysis,
		Columns: []string{"Pattern", "Count", "Case Types", "Priorities", "Sample Cases"},
	}
	for _, g := range groups {
		var typeOrder, prioOrder, sample []string
		typeCounts := make(map[string]int)
		prioCounts := make(map[string]int)
		for _, d := range g.details {
			if _, ok := typeCounts[d.CaseType]; !ok {
				typeOrder = append(typeOrder, d.CaseType)
			}
			typeCounts[d.CaseType]++
			if _, ok := prioCounts[d.Priority]; !ok {
				prioOrder = append(prioOrder, d.Priority)
			}
			prioCounts[d.Priority]++
			if len(sample) < a.cfg.SampleSize {
				sample = append(sample, d.CaseKey)
			}
		}
		t.Rows = append(t.Rows, []string{
			g.pattern,
			strconv.Itoa(len(g.details)),
			countList(typeOrder, typeCounts),
			countList(prioOrder, prioCounts),
			strings.Join(sample, ", "),
		})
	}
	return t
}

func (a *Analyzer) codeFixAnalysis(records []ticket.Record, details []CaseDetail) Table {
	t := Table{
		Name: TableCodeFixAnalysis,
		Columns: []string{
			"Case Key", "Classification", "Confidence", "Resolves Link",
			"All Linked Items", "Link Count", "Link Sources",
			"Case Type", "Priority", "Integration", "Summary", "Action Required",
		},
	}
	byKey := detailIndex(details)
	for _, r := range records {
		if r.Resolution != "Done" {
			continue
		}
		d := byKey[r.CaseKey]
		if d == nil {
			continue
		}

		scanFields := make([]refs.Field, 0, len(a.cfg.LinkFields))
		for _, name := range a.cfg.LinkFields {
			scanFields = append(scanFields, refs.Field{Name: name, Text: r.LinkField(name)})
		}
		res := a.scanner.ExtractAll(scanFields)

		resolves := strings.TrimSpace(r.Links["Inward issue link (Resolves)"])
		if resolves == "" {
			resolves = noneValue
		}

		allText := r.Description + " " + strings.Join(r.Comments, " ") + " " + r.ResolutionComments
		fix := classify.DetectCodeFix(resolves, len(res.IDs), allText)

		t.Rows = append(t.Rows, []string{
			r.CaseKey,
			fix.Classification,
			fix.Confidence,
			resolves,
			joinOr(res.IDs, ", ", noneValue),
			strconv.Itoa(len(res.IDs)),
			joinOr(res.Sources, ", ", noneValue),
			d.CaseType,
			d.Priority,
			d.Integration,
			d.Summary,
			fix.Action,
		})
	}
	return t
}

func (a *Analyzer) overallSummary(records []ticket.Record, details []CaseDetail) Table {
	total := len(records)
	t := Table{
		Name:    TableOverallSummary,
		Columns: []string{"Metric", "Value", "Percentage", "Details"},
	}
	if total == 0 {
		return t
	}

	add := func(metric, value, pct, det string) {
		t.Rows = append(t.Rows, []string{metric, value, pct, det})
	}

	resOrder, resCounts := aggregate.CountBy(records, func(r ticket.Record) string {
		return ticket.CleanText(r.Resolution)
	})
	sort.SliceStable(resOrder, func(i, j int) bool { return resCounts[resOrder[i]] > resCounts[resOrder[j]] })
	if len(resOrder) > 10 {
		resOrder = resOrder[:10]
	}

	add("RESOLUTION BREAKDOWN", "", "", "")
	add("Total Cases", strconv.Itoa(total), "100%", "All analyzed cases")
	for i, res := range resOrder {
		add(res, strconv.Itoa(resCounts[res]), percent(resCounts[res], total), fmt.Sprintf("Rank #%d", i+1))
	}

	open := 0
	for _, r := range records {
		if a.open.IsOpen(r.Status) {
			open++
		}
	}
	closed := total - open
	add("", "", "", "")
	add("STATUS BREAKDOWN", "", "", "")
	add("Open Cases", strconv.Itoa(open), percent(open, total), "Cases requiring attention")
	add("Closed Cases", strconv.Itoa(closed), percent(closed, total), "Cases resolved")
	add("Resolution Rate", percent(closed, total), "", fmt.Sprintf("%d of %d cases closed", closed, total))

	_, prioCounts := aggregate.CountBy(records, func(r ticket.Record) string {
		return strings.ToUpper(strings.TrimSpace(r.Priority))
	})
	add("", "", "", "")
	add("PRIORITY DISTRIBUTION", "", "", "")
	add("P1 (Critical/Urgent)", strconv.Itoa(prioCounts["P1"]), percent(prioCounts["P1"], total), "Highest priority, immediate action")
	add("P2 (High)", strconv.Itoa(prioCounts["P2"]), percent(prioCounts["P2"], total), "High priority, near-term action")
	add("P3 (Medium)", strconv.Itoa(prioCounts["P3"]), percent(prioCounts["P3"], total), "Medium priority, scheduled action")
	add("P4 (Low)", strconv.Itoa(prioCounts["P4"]), percent(prioCounts["P4"], total), "Low priority, as time permits")

	bug, query, docPE := 0, 0, 0
	bugOpen, queryOpen, docPEOpen := 0, 0, 0
	for _, r := range records {
		isOpen := a.open.IsOpen(r.Status)
		switch r.CaseType {
		case "Bug":
			bug++
			if isOpen {
				bugOpen++
			}
		case "Query":
			query++
			if isOpen {
				queryOpen++
			}
		case "Documentation", "Product Enhancement":
			docPE++
			if isOpen {
				docPEOpen++
			}
		}
	}
	add("", "", "", "")
	add("CASE TYPE BREAKDOWN", "", "", "")
	add("Bug Cases", strconv.Itoa(bug), percent(bug, total), fmt.Sprintf("%d open, %d closed", bugOpen, bug-bugOpen))
	add("Query Cases", strconv.Itoa(query), percent(query, total), fmt.Sprintf("%d open, %d closed", queryOpen, query-queryOpen))
	add("Doc/Enhancement", strconv.Itoa(docPE), percent(docPE, total), fmt.Sprintf("%d open, %d closed", docPEOpen, docPE-docPEOpen))

	return t
}

func (a *Analyzer) caseDetails(details []CaseDetail) Table {
	t := Table{
		Name: TableCaseDetails,
		Columns: []string{
			"Case Key", "Case Type", "Integration", "Priority", "Status", "Resolution",
			"Summary", "Resolution Comments", "Customer", "Month",
			"Flows Identified", "Field/Mapping Issues", "Error Messages",
			"References", "Record Types",
			"Flow Count", "Mapping Count", "Error Count",
			"Pattern", "Root Cause", "Resolution Method", "Customer Impact", "Primary Error Type",
		},
	}
	for _, d := range details {
		errs := d.Errors
		if len(errs) > 3 {
			errs = errs[:3]
		}
		t.Rows = append(t.Rows, []string{
			d.CaseKey,
			d.CaseType,
			d.Integration,
			d.Priority,
			d.Status,
			d.Resolution,
			d.Summary,
			d.ResolutionComments,
			d.Customer,
			d.Month,
			joinOr(d.Flows, " | ", notSpecified),
			joinOr(d.Mappings, " | ", notSpecified),
			joinOr(errs, " | ", notSpecified),
			joinOr(d.Refs, ", ", noneValue),
			joinOr(d.RecordTypes, ", ", notSpecified),
			strconv.Itoa(len(d.Flows)),
			strconv.Itoa(len(d.Mappings)),
			strconv.Itoa(len(d.Errors)),
			d.Pattern,
			d.RootCause,
			d.ResolutionMethod,
			d.CustomerImpact,
			d.PrimaryErrorType,
		})
	}
	return t
}

func percent(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

// wholePercent is the integration overview's resolution-rate format; the
// other summary tables report one decimal place.
func wholePercent(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(part)/float64(total)*100)
}

// topN renders "A(3), B(2)" for the n most frequent values.
func topN(order []string, counts map[string]int, n int) string {
	sorted := make([]string, len(order))
	copy(sorted, order)
	sort.SliceStable(sorted, func(i, j int) bool { return counts[sorted[i]] > counts[sorted[j]] })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = fmt.Sprintf("%s(%d)", v, counts[v])
	}
	return strings.Join(parts, ", ")
}

// countList renders "Bug: 3, Query: 1" in count-descending order.
func countList(order []string, counts map[string]int) string {
	sorted := make([]string, len(order))
	copy(sorted, order)
	sort.SliceStable(sorted, func(i, j int) bool { return counts[sorted[i]] > counts[sorted[j]] })
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = fmt.Sprintf("%s: %d", v, counts[v])
	}
	return strings.Join(parts, ", ")
}
