// Package extract mines free-form ticket text for structured signals:
// flow names, field/mapping issues, error messages, record types and
// customer identities. Extractors are pure functions of their input text
// plus a Config; re-running them over the same input yields the same
// output in the same order.
package extract

import (
	"regexp"
	"strings"
)

// Per-kind result caps. Hits found by earlier, higher-confidence patterns
// survive capping because results are appended in pattern order.
const (
	maxFlows       = 8
	maxMappings    = 15
	maxErrors      = 5
	maxRecordTypes = 10

	minFlowLen    = 5
	minMappingLen = 3
	minErrorLen   = 20
	maxErrorLen   = 200
	minErrorWords = 4
)

// KeywordGroup is one category of flow keywords scanned in order.
type KeywordGroup struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Config carries the tunable dictionaries. Regex patterns are fixed; the
// keyword and phrase lists can be overridden from the rules file.
type Config struct {
	FlowKeywordGroups   []KeywordGroup `yaml:"flow_keyword_groups"`
	GenericFlowPhrases  []string       `yaml:"generic_flow_phrases"`
	GenericErrorPhrases []string       `yaml:"generic_error_phrases"`
	RecordTypes         []string       `yaml:"record_types"`
	CustomerNoise       []string       `yaml:"customer_noise"`
}

// DefaultConfig returns the built-in dictionaries.
func DefaultConfig() Config {
	return Config{
		FlowKeywordGroups: []KeywordGroup{
			{Category: "order", Keywords: []string{
				"order to netsuite", "netsuite to order", "order import", "order export",
				"sales order", "purchase order", "order sync"}},
			{Category: "product", Keywords: []string{
				"product import", "product export", "product sync", "item sync"}},
			{Category: "inventory", Keywords: []string{
				"inventory sync", "inventory import", "inventory export"}},
			{Category: "customer", Keywords: []string{
				"customer sync", "customer import", "customer export"}},
			{Category: "fulfillment", Keywords: []string{
				"item fulfillment", "fulfillment sync", "fulfillment import"}},
			{Category: "settlement", Keywords: []string{
				"settlement", "settlement import", "settlement report"}},
			{Category: "shipment", Keywords: []string{
				"shipment", "shipment import", "shipment export"}},
			{Category: "refund", Keywords: []string{
				"refund", "refund import", "refund sync"}},
			{Category: "payment", Keywords: []string{
				"payment sync", "payment import", "customer payment"}},
			{Category: "invoice", Keywords: []string{
				"invoice sync", "invoice import", "invoice export"}},
			{Category: "cash sale", Keywords: []string{
				"cash sale", "cash sale import"}},
			{Category: "credit memo", Keywords: []string{
				"credit memo", "credit memo import"}},
		},
		GenericFlowPhrases: []string{
			"the flow", "a flow", "this flow", "run the", "failed to",
			"unable to", "trying to", "want to", "need to",
		},
		GenericErrorPhrases: []string{
			"still persists", "not working", "issue", "problem",
			"please", "thank you", "steps to reproduce",
		},
		RecordTypes: []string{
			"sales order", "purchase order", "customer", "item", "invoice",
			"cash sale", "item fulfillment", "item receipt", "vendor bill",
			"credit memo", "customer deposit", "journal entry", "inventory adjustment",
			"transfer order", "assembly build", "work order", "opportunity",
			"estimate", "return authorization", "vendor payment", "customer payment",
		},
		CustomerNoise: []string{
			"none", "unknown", "n/a", "na", "tbd", "to be determined",
			"internal", "test", "demo", "sample", "example",
		},
	}
}

// Explicit flow-name patterns, highest confidence first.
var flowExplicitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)flow\s*name[:\s]+([^` + "\n" + `\]]+?)[\]` + "\n" + `]`),
	regexp.MustCompile(`\[([^\]]{10,80})\]`),
	regexp.MustCompile(`(?i)"([^"]{10,80}(?:flow|import|export|sync)[^"]{0,20})"`),
}

// Contextual flow patterns, lower confidence.
var flowContextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:in|from|at)\s+(?:the\s+)?([a-zA-Z0-9\s\-]+\s+(?:to|from)\s+[a-zA-Z0-9\s\-]+)\s+flow`),
	regexp.MustCompile(`(?i)([a-zA-Z]+\s+(?:to|from)\s+[a-zA-Z]+\s+(?:flow|import|export|sync))`),
	regexp.MustCompile(`(?i)(?:the|a)\s+([a-zA-Z0-9\s]+(?:import|export|sync|flow))\s+(?:is|has|was|flow)`),
}

// Field/mapping patterns. Terminator words are consumed rather than looked
// ahead at; only the capture group is kept.
var fieldPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)field[:\s]+([a-zA-Z0-9_\s]+?)\s+(?:is|not|missing|error|fail)`),
	regexp.MustCompile(`(?i)mapping[:\s]+([^,.` + "\n" + `]+?)\s+(?:is|not|missing|error|fail)`),
	regexp.MustCompile(`(?i)(?:missing|undefined|null)\s+(?:field|value|mapping)[:\s]+([a-zA-Z0-9_\s]+)`),
	regexp.MustCompile(`(?i)([a-zA-Z0-9_]+)\s+field\s+(?:is|not|missing|error)`),
	regexp.MustCompile(`(?i)custom\s+field[:\s]+([a-zA-Z0-9_\s]+)`),
	regexp.MustCompile(`(?i)(?:netsuite|shopify|salesforce|amazon)\s+field[:\s]+([a-zA-Z0-9_\s]+)`),
}

// Error message patterns. Case classes are explicit so casual mentions of
// the word "error" mid-sentence do not match.
var errorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[Ee]rror[:\s]+"([^"]{20,200})"`),
	regexp.MustCompile(`[Ee]rror[:\s]+([A-Z][^.` + "\n" + `]{20,200}[.!])`),
	regexp.MustCompile(`[Ee]xception[:\s]+([A-Z][^.` + "\n" + `]{20,200}[.!])`),
	regexp.MustCompile(`([Ss]tatus [Cc]ode[:\s]+\d{3}[^.` + "\n" + `]{0,100})`),
	regexp.MustCompile(`([Ff]ailed to [^.` + "\n" + `]{10,150}[.!])`),
	regexp.MustCompile(`([Uu]nable to [^.` + "\n" + `]{10,150}[.!])`),
	regexp.MustCompile(`([Cc]annot [^.` + "\n" + `]{10,150}[.!])`),
	regexp.MustCompile(`((?:Invalid|Missing|Undefined)[^.` + "\n" + `]{10,150}[.!])`),
	regexp.MustCompile(`(hook (?:function )?error[^.` + "\n" + `]{10,150})`),
	regexp.MustCompile(`(Integration (?:is )?corrupted[^.` + "\n" + `]{0,100})`),
}

// Labeled customer-identity patterns tried in order.
var customerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Company:\s*([^` + "\n" + `]+)`),
	regexp.MustCompile(`(?i)Customer:\s*([^` + "\n" + `]+)`),
	regexp.MustCompile(`(?i)Account:\s*([^` + "\n" + `]+)`),
	regexp.MustCompile(`(?i)User:\s*([^` + "\n" + `]+)`),
	regexp.MustCompile(`(?i)Client:\s*([^` + "\n" + `]+)`),
	regexp.MustCompile(`(?i)Organization:\s*([^` + "\n" + `]+)`),
	regexp.MustCompile(`(?i)Business:\s*([^` + "\n" + `]+)`),
	regexp.MustCompile(`(?i)Enterprise:\s*([^` + "\n" + `]+)`),
	regexp.MustCompile(`(?i)Customer Name:\s*([^` + "\n" + `]+)`),
	regexp.MustCompile(`(?i)Account Name:\s*([^` + "\n" + `]+)`),
	regexp.MustCompile(`(?i)Company Name:\s*([^` + "\n" + `]+)`),
}

var (
	customerTrailer = regexp.MustCompile(`\|\|.*$`)
	customerTier    = regexp.MustCompile(`\(Tier \d+\)`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// Extractor runs the per-kind miners with one dictionary set.
type Extractor struct {
	cfg Config
}

// New returns an Extractor over the given dictionaries.
func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// FlowNames extracts candidate flow names: explicit patterns, contextual
// patterns, then the keyword dictionary, with case-insensitive first-seen
// dedup, a minimum length, generic-phrase rejection and a cap of 8.
func (e *Extractor) FlowNames(text string) []string {
	if text == "" {
		return nil
	}

	var raw []string
	for _, p := range flowExplicitPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			raw = append(raw, m[1])
		}
	}
	for _, p := range flowContextPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			raw = append(raw, m[1])
		}
	}

	lower := strings.ToLower(text)
	for _, group := range e.cfg.FlowKeywordGroups {
		for _, kw := range group.Keywords {
			if strings.Contains(lower, kw) {
				raw = append(raw, kw)
			}
		}
	}

	var flows []string
	seen := make(map[string]bool)
	for _, f := range raw {
		f = trimPunct(f)
		f = whitespaceRun.ReplaceAllString(f, " ")
		if len(f) < minFlowLen {
			continue
		}
		fl := strings.ToLower(f)
		if containsAny(fl, e.cfg.GenericFlowPhrases) {
			continue
		}
		if seen[fl] {
			continue
		}
		seen[fl] = true
		flows = append(flows, f)
		if len(flows) == maxFlows {
			break
		}
	}
	return flows
}

// FieldMappings extracts field and mapping issue mentions, capped at 15.
func (e *Extractor) FieldMappings(text string) []string {
	if text == "" {
		return nil
	}

	var mappings []string
	seen := make(map[string]bool)
	for _, p := range fieldPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			v := strings.Trim(strings.TrimSpace(m[1]), ":,")
			v = strings.TrimSpace(v)
			if len(v) < minMappingLen || seen[v] {
				continue
			}
			seen[v] = true
			mappings = append(mappings, v)
			if len(mappings) == maxMappings {
				return mappings
			}
		}
	}
	return mappings
}

// ErrorMessages extracts verbatim error messages. Candidates must be
// 20..200 characters and at least 4 words, generic support chatter is
// rejected, and a candidate contained in (or containing) an already kept
// error is treated as a duplicate. Capped at 5.
func (e *Extractor) ErrorMessages(text string) []string {
	if text == "" {
		return nil
	}

	var raw []string
	for _, p := range errorPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			raw = append(raw, m[1])
		}
	}

	var errs []string
	var seen []string
	for _, err := range raw {
		err = strings.Trim(strings.TrimSpace(err), `:,"`)
		err = strings.TrimSpace(err)
		if len(err) < minErrorLen || len(err) > maxErrorLen {
			continue
		}
		el := strings.ToLower(err)
		if containsAny(el, e.cfg.GenericErrorPhrases) {
			continue
		}
		if len(strings.Fields(err)) < minErrorWords {
			continue
		}
		dup := false
		for _, s := range seen {
			if strings.Contains(s, el) || strings.Contains(el, s) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen = append(seen, el)
		errs = append(errs, err)
		if len(errs) == maxErrors {
			break
		}
	}
	return errs
}

// RecordTypes scans for known record-type names in dictionary order,
// capped at 10.
func (e *Extractor) RecordTypes(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var found []string
	for _, rt := range e.cfg.RecordTypes {
		if strings.Contains(lower, rt) {
			found = append(found, rt)
			if len(found) == maxRecordTypes {
				break
			}
		}
	}
	return found
}

// CustomerName extracts a customer identity from labeled lines like
// "Company: Acme". Markup fragments and placeholder values are rejected;
// "Unknown" is returned when nothing usable is found.
func (e *Extractor) CustomerName(text string) string {
	if text == "" {
		return "Unknown"
	}
	for _, p := range customerPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		c := strings.TrimSpace(m[1])
		c = customerTrailer.ReplaceAllString(c, "")
		c = customerTier.ReplaceAllString(c, "")
		c = strings.TrimSpace(c)
		if len(c) <= 2 {
			continue
		}
		if isNoise(strings.ToLower(c), e.cfg.CustomerNoise) {
			continue
		}
		if strings.HasPrefix(c, "h1.") || strings.HasPrefix(c, "h2.") ||
			strings.HasPrefix(c, "*") || strings.HasPrefix(c, "#") {
			continue
		}
		return c
	}
	return "Unknown"
}

func trimPunct(s string) string {
	s = strings.TrimSpace(s)
	for _, cut := range []string{":", ",", "]", "["} {
		s = strings.Trim(s, cut)
	}
	return strings.TrimSpace(s)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNoise(s string, noise []string) bool {
	for _, n := range noise {
		if s == n {
			return true
		}
	}
	return false
}
