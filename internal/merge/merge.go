// Package merge collapses near-duplicate flow names. Extraction yields
// many spellings of the same flow ("Order Sync", "the order sync flow",
// "order import to netsuite"); normalization maps them onto one key and
// merging folds their per-flow rows together while keeping an audit count
// of how many variants were absorbed.
package merge

import (
	"sort"
	"strings"
)

// Merge caps.
const (
	maxMergedCases = 10
	maxMergedRefs  = 3
)

var leadingArticles = []string{"the ", "a ", "an "}

var trailingSuffixes = []string{" flow", " sync", " import", " export"}

// replacements is applied in order after article/suffix stripping. Pairs
// are chosen so that re-normalizing an already normalized name is a no-op.
var replacements = []struct{ old, new string }{
	{"salesorder", "sales order"},
	{"purchaseorder", "purchase order"},
	{"itemfulfillment", "item fulfillment"},
	{"cashsale", "cash sale"},
	{"creditmemo", "credit memo"},
	{"customerdeposit", "customer deposit"},
	{"customerpayment", "customer payment"},
	{"journalentry", "journal entry"},
	{"to netsuite", "→ netsuite"},
	{"from netsuite", "netsuite →"},
	{"to ns", "→ netsuite"},
	{"from ns", "netsuite →"},
	{"sf to", "salesforce →"},
	{"to sf", "→ salesforce"},
	{"from sf", "salesforce →"},
	{"shopify to", "shopify →"},
	{"to shopify", "→ shopify"},
	{"amazon to", "amazon →"},
	{"to amazon", "→ amazon"},
	{"bigcommerce to", "bigcommerce →"},
	{"to bigcommerce", "→ bigcommerce"},
}

// Normalize maps a raw flow name onto its merge key: lowercase, leading
// articles stripped, trailing flow/sync/import/export suffixes stripped,
// directional and compound-word spellings unified, whitespace collapsed.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	flow := strings.ToLower(strings.TrimSpace(name))
	if flow == "" {
		return ""
	}

	for changed := true; changed; {
		changed = false
		for _, a := range leadingArticles {
			if strings.HasPrefix(flow, a) {
				flow = flow[len(a):]
				changed = true
			}
		}
		for _, s := range trailingSuffixes {
			if strings.HasSuffix(flow, s) {
				flow = flow[:len(flow)-len(s)]
				changed = true
			}
		}
	}

	for _, r := range replacements {
		flow = strings.ReplaceAll(flow, r.old, r.new)
	}

	return strings.Join(strings.Fields(flow), " ")
}

// FlowRow is one extracted flow with its per-flow rollup, the merge input.
type FlowRow struct {
	Integration string
	FlowName    string
	Direction   string
	RecordType  string
	IssueCount  int
	Open        int
	Closed      int
	P1          int
	P2          int
	CaseKeys    []string
	CommonError string
	Refs        []string
}

// MergedFlow is the post-merge row. MergedCount records how many input
// rows were folded together.
type MergedFlow struct {
	Integration string
	FlowName    string
	Direction   string
	RecordType  string
	IssueCount  int
	Open        int
	Closed      int
	P1          int
	P2          int
	CaseKeys    []string
	CommonError string
	Refs        []string
	Priority    string
	MergedCount int
}

// SimilarFlows merges rows whose (integration, normalized name) keys
// collide. The representative name is the most frequent raw spelling with
// first-seen winning ties; case keys and refs are union-deduplicated and
// capped; counts are summed. Rows normalizing to the empty string are
// dropped. Output is ordered by integration, then issue count descending.
func SimilarFlows(rows []FlowRow) []MergedFlow {
	type group struct {
		rows []FlowRow
	}
	groups := make(map[string]*group)
	var order []string

	for _, row := range rows {
		norm := Normalize(row.FlowName)
		if norm == "" {
			continue
		}
		key := row.Integration + "\x00" + norm
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}

	merged := make([]MergedFlow, 0, len(order))
	for _, key := range order {
		g := groups[key]

		m := MergedFlow{
			Integration: g.rows[0].Integration,
			FlowName:    modeString(names(g.rows)),
			Direction:   g.rows[0].Direction,
			RecordType:  g.rows[0].RecordType,
			MergedCount: len(g.rows),
		}

		caseSeen := make(map[string]bool)
		refSeen := make(map[string]bool)
		var errors []string
		for _, row := range g.rows {
			m.IssueCount += row.IssueCount
			m.Open += row.Open
			m.Closed += row.Closed
			m.P1 += row.P1
			m.P2 += row.P2
			for _, ck := range row.CaseKeys {
				if !caseSeen[ck] {
					caseSeen[ck] = true
					if len(m.CaseKeys) < maxMergedCases {
						m.CaseKeys = append(m.CaseKeys, ck)
					}
				}
			}
			for _, ref := range row.Refs {
				if !refSeen[ref] {
					refSeen[ref] = true
					if len(m.Refs) < maxMergedRefs {
						m.Refs = append(m.Refs, ref)
					}
				}
			}
			if row.CommonError != "" && row.CommonError != "N/A" {
				errors = append(errors, row.CommonError)
			}
		}

		if len(errors) > 0 {
			m.CommonError = modeString(errors)
		} else {
			m.CommonError = g.rows[0].CommonError
		}
		m.Priority = FlowPriority(m.P1, m.IssueCount)

		merged = append(merged, m)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Integration != merged[j].Integration {
			return merged[i].Integration < merged[j].Integration
		}
		return merged[i].IssueCount > merged[j].IssueCount
	})
	return merged
}

// FlowPriority grades a flow row: any P1 makes it Critical, volume above
// five makes it High, everything else Medium.
func FlowPriority(p1, issueCount int) string {
	switch {
	case p1 > 0:
		return "Critical"
	case issueCount > 5:
		return "High"
	default:
		return "Medium"
	}
}

func names(rows []FlowRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.FlowName
	}
	return out
}

// modeString returns the most frequent value, first occurrence winning
// ties.
func modeString(values []string) string {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := "", 0
	for _, v := range values {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}
