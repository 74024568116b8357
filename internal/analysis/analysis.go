// Package analysis runs the full mining pass over a loaded ticket set and
// assembles the named report tables. Source records are never mutated;
// every derived fact lives in a CaseDetail keyed by case key.
package analysis

import (
	"strings"
	"time"
	"unicode/utf8"

	"caseminer/internal/classify"
	"caseminer/internal/extract"
	"caseminer/internal/refs"
	"caseminer/internal/ticket"
)

// Sentinel cell values for empty extraction results.
const (
	notSpecified = "Not specified"
	noneValue    = "None"
	notAvailable = "N/A"
)

// Config carries every dictionary and threshold the pass needs.
type Config struct {
	Extract     extract.Config `yaml:"extract"`
	RefPrefixes []string       `yaml:"ref_prefixes"`

	// OpenStatuses is the report-wide open set used for status splits in
	// summary tables.
	OpenStatuses []string `yaml:"open_statuses"`

	// ResolvedStatuses is the narrower closed set used by the flow and
	// error rollups: a ticket counts as closed there only when its status
	// is one of these.
	ResolvedStatuses []string `yaml:"resolved_statuses"`

	// LinkFields are the columns scanned for engineering references
	// during code-fix analysis.
	LinkFields []string `yaml:"link_fields"`

	// MeaningfulKeywords and MeaningfulExclude gate which extracted
	// flows/errors are real integration data rather than ticket metadata.
	MeaningfulKeywords []string `yaml:"meaningful_keywords"`
	MeaningfulExclude  []string `yaml:"meaningful_exclude"`

	// RecurrenceThreshold is the minimum occurrence count for the
	// frequent-flow and recurring-error tables.
	RecurrenceThreshold int `yaml:"recurrence_threshold"`

	// SampleSize caps case-key samples in rollup rows.
	SampleSize int `yaml:"sample_size"`
}

// DefaultConfig returns the built-in rule set.
func DefaultConfig() Config {
	return Config{
		Extract:      extract.DefaultConfig(),
		RefPrefixes:  refs.DefaultPrefixes(),
		OpenStatuses: ticket.DefaultOpenStatuses(),
		ResolvedStatuses: []string{
			"Closed", "Resolved",
		},
		LinkFields: []string{
			"Inward issue link (Resolves)",
			"Outward issue link (Relates)",
			"Inward issue link (Relates)",
			"Inward issue link (Problem/Incident)",
			"Inward issue link (Dependencies)",
			"Comment",
			"Description",
			"Resolution Comment",
		},
		MeaningfulKeywords: []string{
			"order", "sales", "import", "export", "sync", "fulfillment",
			"settlement", "shipment", "refund", "payment", "invoice",
			"customer", "product", "item", "inventory", "cash sale", "field",
			"credit memo", "journal", "mapping", "record", "data",
		},
		MeaningfulExclude: []string{
			"accountid", "yes/no", "link to video", "file name",
			"slack", "mailto:", "http://", "https://",
		},
		RecurrenceThreshold: 2,
		SampleSize:          5,
	}
}

// CaseDetail is the mined view of one ticket.
type CaseDetail struct {
	CaseKey            string
	CaseType           string
	Integration        string
	Priority           string
	Status             string
	Resolution         string
	Summary            string
	ResolutionComments string
	Month              string

	Flows       []string
	Mappings    []string
	Errors      []string
	Refs        []string
	RecordTypes []string

	Customer         string
	Pattern          string
	CustomerImpact   string
	RootCause        string
	ResolutionMethod string
	PrimaryErrorType string
}

// Report is the complete output of one analysis run.
type Report struct {
	GeneratedAt time.Time
	TotalCases  int
	Details     []CaseDetail
	Tables      []Table
}

// Table is one named output table with a fixed column set and fully
// populated rows.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Table returns the named table, or nil.
func (r *Report) Table(name string) *Table {
	for i := range r.Tables {
		if r.Tables[i].Name == name {
			return &r.Tables[i]
		}
	}
	return nil
}

// Analyzer binds the extractors and scanners for one run.
type Analyzer struct {
	cfg       Config
	extractor *extract.Extractor
	scanner   *refs.Scanner
	open      ticket.StatusSet
	resolved  ticket.StatusSet
}

// New builds an Analyzer. Zero-value config fields fall back to the
// defaults.
func New(cfg Config) *Analyzer {
	def := DefaultConfig()
	if len(cfg.Extract.RecordTypes) == 0 {
		cfg.Extract = def.Extract
	}
	if len(cfg.RefPrefixes) == 0 {
		cfg.RefPrefixes = def.RefPrefixes
	}
	if len(cfg.OpenStatuses) == 0 {
		cfg.OpenStatuses = def.OpenStatuses
	}
	if len(cfg.ResolvedStatuses) == 0 {
		cfg.ResolvedStatuses = def.ResolvedStatuses
	}
	if len(cfg.LinkFields) == 0 {
		cfg.LinkFields = def.LinkFields
	}
	if len(cfg.MeaningfulKeywords) == 0 {
		cfg.MeaningfulKeywords = def.MeaningfulKeywords
	}
	if len(cfg.MeaningfulExclude) == 0 {
		cfg.MeaningfulExclude = def.MeaningfulExclude
	}
	if cfg.RecurrenceThreshold <= 0 {
		cfg.RecurrenceThreshold = def.RecurrenceThreshold
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = def.SampleSize
	}
	return &Analyzer{
		cfg:       cfg,
		extractor: extract.New(cfg.Extract),
		scanner:   refs.NewScanner(cfg.RefPrefixes),
		open:      ticket.NewStatusSet(cfg.OpenStatuses),
		resolved:  ticket.NewStatusSet(cfg.ResolvedStatuses),
	}
}

// Run mines every record and assembles the report tables.
func (a *Analyzer) Run(records []ticket.Record) *Report {
	details := make([]CaseDetail, 0, len(records))
	for _, r := range records {
		details = append(details, a.mine(r))
	}

	rep := &Report{
		GeneratedAt: time.Now(),
		TotalCases:  len(records),
		Details:     details,
	}
	rep.Tables = []Table{
		a.integrationOverview(records, details),
		a.countByIntegration(records, details),
		a.resolutionBreakdown(records),
		a.countByMonth(records, details),
		a.customerAnalysis(records, details),
		a.customerTiers(records, details),
		a.errorCategories(details),
		a.errorDistribution(details),
		a.frequentFlowIssues(details),
		a.recurringErrors(details),
		a.patternAnalysis(details),
		a.codeFixAnalysis(records, details),
		a.overallSummary(records, details),
		a.caseDetails(details),
	}
	return rep
}

// mine extracts and classifies one ticket. A panic while mining degrades
// this ticket to sentinel values instead of aborting the run.
func (a *Analyzer) mine(r ticket.Record) (d CaseDetail) {
	d = a.baseDetail(r)
	defer func() {
		if recover() != nil {
			d = a.baseDetail(r)
		}
	}()

	text := r.CombinedText()

	d.Flows = a.extractor.FlowNames(text)
	d.Mappings = a.extractor.FieldMappings(text)
	d.Errors = a.extractor.ErrorMessages(text)
	d.Refs = a.scanner.Extract(text)
	d.RecordTypes = a.extractor.RecordTypes(text)

	d.Customer = r.Customer
	if d.Customer == "" || d.Customer == notAvailable {
		d.Customer = a.extractor.CustomerName(text)
	}

	d.Pattern = classify.Pattern(d.CaseType, r.Summary, r.Description)
	d.CustomerImpact = classify.CustomerImpact(text, r.ResolutionComments)
	d.RootCause = classify.RootCause(strings.ToLower(text), r.ResolutionComments)
	d.ResolutionMethod = classify.ResolutionMethod(r.ResolutionComments)
	d.PrimaryErrorType = classify.PrimaryErrorType(r.Summary, r.Description)
	return d
}

// baseDetail fills the passthrough fields plus sentinel defaults.
func (a *Analyzer) baseDetail(r ticket.Record) CaseDetail {
	return CaseDetail{
		CaseKey:            r.CaseKey,
		CaseType:           orDefault(r.CaseType, "Unknown"),
		Integration:        orDefault(r.Integration, notAvailable),
		Priority:           orDefault(r.Priority, "P3"),
		Status:             r.Status,
		Resolution:         orDefault(r.Resolution, notAvailable),
		Summary:            truncate(r.Summary, 200),
		ResolutionComments: r.ResolutionComments,
		Month:              r.Month(),
		Customer:           "Unknown",
		Pattern:            "Other",
		CustomerImpact:     "Low",
		RootCause:          "Unknown/Other",
		ResolutionMethod:   "No Resolution Comments",
		PrimaryErrorType:   "Other",
	}
}

// meaningful reports whether an extracted value is real integration data
// rather than template metadata.
func (a *Analyzer) meaningful(s string) bool {
	if s == "" || s == notAvailable || s == notSpecified {
		return false
	}
	lower := strings.ToLower(s)
	for _, x := range a.cfg.MeaningfulExclude {
		if strings.Contains(lower, x) {
			return false
		}
	}
	for _, k := range a.cfg.MeaningfulKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func joinOr(values []string, sep, empty string) string {
	if len(values) == 0 {
		return empty
	}
	return strings.Join(values, sep)
}
