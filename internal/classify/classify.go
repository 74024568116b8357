// Package classify assigns category labels to tickets with priority-ordered
// keyword rule tables. Every table is first-match-wins over lowercased
// input with a fixed default, so classification is deterministic and the
// precedence between overlapping keyword sets is explicit in the rule order.
package classify

import "strings"

// Rule is one row of a rule table. It matches when any keyword in Any
// occurs in the text; when AlsoAny is non-empty one of those must occur
// as well.
type Rule struct {
	Label   string   `yaml:"label"`
	Any     []string `yaml:"any"`
	AlsoAny []string `yaml:"also_any,omitempty"`
}

// RuleTable is an ordered rule list with a default label.
type RuleTable struct {
	Rules   []Rule `yaml:"rules"`
	Default string `yaml:"default"`
}

// Classify returns the label of the first matching rule, or the default.
func (t RuleTable) Classify(text string) string {
	lower := strings.ToLower(text)
	for _, r := range t.Rules {
		if !containsAny(lower, r.Any) {
			continue
		}
		if len(r.AlsoAny) > 0 && !containsAny(lower, r.AlsoAny) {
			continue
		}
		return r.Label
	}
	return t.Default
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// BugPatternTable categorizes Bug tickets.
func BugPatternTable() RuleTable {
	return RuleTable{
		Rules: []Rule{
			{Label: "Authentication", Any: []string{"auth", "token", "credential", "unauthorized"}},
			{Label: "Data Mapping/Sync", Any: []string{"mapping", "field", "sync"}},
			{Label: "Code Error", Any: []string{"error", "exception", "failed"}},
			{Label: "Configuration", Any: []string{"config", "setup", "configuration"}},
		},
		Default: "Other",
	}
}

// QueryPatternTable categorizes Query tickets.
func QueryPatternTable() RuleTable {
	return RuleTable{
		Rules: []Rule{
			{Label: "How-To Question", Any: []string{"how", "documentation", "guide"}},
			{Label: "Why Question", Any: []string{"why", "explain", "reason"}},
			{Label: "Configuration Question", Any: []string{"setup", "configure", "install"}},
		},
		Default: "General Query",
	}
}

// DocEnhancementTable categorizes Documentation and Product Enhancement
// tickets.
func DocEnhancementTable() RuleTable {
	return RuleTable{
		Rules: []Rule{
			{Label: "Documentation Update", Any: []string{"documentation", "doc", "guide", "tutorial"}},
			{Label: "Feature Enhancement", Any: []string{"feature", "enhancement", "improve"}},
			{Label: "Compliance/Reporting", Any: []string{"compliance", "audit", "report"}},
		},
		Default: "Other",
	}
}

// Pattern picks the pattern table by case type and classifies the ticket's
// summary plus description. Case types without a table map to "Other".
func Pattern(caseType, summary, description string) string {
	text := summary + " " + description
	switch strings.ToLower(caseType) {
	case "bug":
		return BugPatternTable().Classify(text)
	case "query":
		return QueryPatternTable().Classify(text)
	case "documentation", "product enhancement":
		return DocEnhancementTable().Classify(text)
	}
	return "Other"
}

// rootCauseTable runs over the ticket's combined text.
func rootCauseTable() RuleTable {
	return RuleTable{
		Rules: []Rule{
			{Label: "Holiday Season Volume", Any: []string{"holiday", "peak", "high volume", "increased load", "seasonal"}},
			{Label: "Configuration Error", Any: []string{"configuration", "setup", "config", "not configured", "misconfigured"}},
			{Label: "API Limitations", Any: []string{"api", "rate limit", "quota", "endpoint", "request failed"}},
			{Label: "Authentication Failure", Any: []string{"authentication", "auth", "token", "credential", "unauthorized", "401", "403"}},
			{Label: "Data Mapping Issue", Any: []string{"mapping", "field", "invalid field", "missing field", "field mapping"}},
			{Label: "Data Synchronization Problem", Any: []string{"sync", "synchronization", "not syncing", "sync error", "sync failed"}},
			{Label: "Performance Issue", Any: []string{"performance", "slow", "timeout", "delay", "lag", "bottleneck"}},
			{Label: "Data Validation Error", Any: []string{"validation", "invalid", "required", "format", "data format"}},
			{Label: "Duplicate Data Issue", Any: []string{"duplicate", "duplication", "duplicated", "already exists"}},
			{Label: "Connection Problem", Any: []string{"connection", "connectivity", "network", "disconnect", "connection failed"}},
			{Label: "Code/Script Error", Any: []string{"script", "code", "bug", "error", "exception", "crash"}},
			{Label: "External System Issue", Any: []string{"external", "third party", "vendor", "partner", "system down"}},
		},
		Default: "",
	}
}

// rootCauseCommentTable runs over resolution comments when the combined
// text matched nothing.
func rootCauseCommentTable() RuleTable {
	return RuleTable{
		Rules: []Rule{
			{Label: "Customer Education Needed", Any: []string{"advised", "informed"}, AlsoAny: []string{"customer"}},
			{Label: "Requires Workaround", Any: []string{"workaround", "temporary"}},
			{Label: "Engineering Issue", Any: []string{"escalated", "dev team"}},
		},
		Default: "Unknown/Other",
	}
}

// RootCause determines the root cause from the ticket's combined text,
// falling back to resolution-comment hints, then "Unknown/Other".
func RootCause(combinedText, resolutionComments string) string {
	if label := rootCauseTable().Classify(combinedText); label != "" {
		return label
	}
	if strings.TrimSpace(resolutionComments) == "" {
		return "Unknown/Other"
	}
	return rootCauseCommentTable().Classify(resolutionComments)
}

// resolutionMethodTable runs over resolution comments.
func resolutionMethodTable() RuleTable {
	return RuleTable{
		Rules: []Rule{
			{Label: "Code Fix", Any: []string{"fixed", "resolved", "implemented", "deployed", "code fix", "bug fix"}},
			{Label: "Workaround Applied", Any: []string{"workaround", "work-around", "temporary", "interim", "manual"}},
			{Label: "Customer Guidance", Any: []string{"customer advised", "customer informed", "customer told", "guided", "instructed"}},
			{Label: "Configuration Change", Any: []string{"configuration", "setup", "reconfigured", "reauthorized", "settings"}},
			{Label: "Escalated to Engineering", Any: []string{"escalated", "escalation", "dev team", "engineering", "product team"}},
			{Label: "Data Fix", Any: []string{"data", "record", "deleted", "updated", "corrected"}},
			{Label: "External Resolution", Any: []string{"external", "vendor", "partner", "third party"}},
			{Label: "No Action Required", Any: []string{"no action", "not needed", "by design", "expected behavior"}},
		},
		Default: "Other/Unknown",
	}
}

// ResolutionMethod determines how a ticket was resolved from its
// resolution comments.
func ResolutionMethod(resolutionComments string) string {
	if strings.TrimSpace(resolutionComments) == "" {
		return "No Resolution Comments"
	}
	return resolutionMethodTable().Classify(resolutionComments)
}

// ErrorCategoryUnspecified labels error inputs that carry no usable text.
const ErrorCategoryUnspecified = "Unspecified"

// errorCategoryTable categorizes individual extracted error messages.
// Highly specific product categories come before generic transport ones.
func errorCategoryTable() RuleTable {
	return RuleTable{
		Rules: []Rule{
			{Label: "Hook/Script Error", Any: []string{"hook error", "hook function", "script error", "nlobjsearch", "customscript", "scriptid"}},
			{Label: "Kit/BOM Issue", Any: []string{"kit definition", "bom", "kit component", "member item"}},
			{Label: "Storemap Issue", Any: []string{"storemap", "store map", "missing storemap"}},
			{Label: "Integration App Error", Any: []string{"integration app", "cannot delete a resource that belongs to", "ia deleted", "ia error"}},
			{Label: "Sublist Operation", Any: []string{"sublist", "invalid sublist", "sublist operation", "line item"}},
			{Label: "Search/Query Error", Any: []string{"search", "searchid", "unable to get export searchid", "invalid search"}},
			{Label: "Webhook Error", Any: []string{"webhook", "web hook"}},
			{Label: "Authentication", Any: []string{"401", "403", "unauthorized", "authentication", "token", "auth", "jwt", "credential", "reauthenticate"}},
			{Label: "Mapping/Field", Any: []string{"mapping error", "field error", "missing field", "invalid field", "invalid column"}},
			{Label: "Record Creation/Update", Any: []string{"failed to create", "failed to update", "failed to save", "failed to add", "cannot create", "unable to create"}},
			{Label: "Rate Limit/Performance", Any: []string{"rate limit", "too many requests", "429", "performance", "slow"}},
			{Label: "Data Validation", Any: []string{"validation", "invalid value", "invalid format", "required", "must be", "must enter"}},
			{Label: "Network/Connection", Any: []string{"connection", "network", "502", "503", "504", "unreachable", "timeout", "timed out"}},
			{Label: "API Error", Any: []string{"api error", "400", "404", "500", "bad request", "status code"}},
			{Label: "Configuration/Setup", Any: []string{"config", "setup", "install", "uninstall", "not configured", "missing connector"}},
			{Label: "File/Bundle Error", Any: []string{"failed to load file", "bundle", "file size", "suitebundles"}},
		},
		Default: "Other",
	}
}

// ErrorCategory buckets one error message. Sentinel inputs map to
// Unspecified.
func ErrorCategory(errorText string) string {
	s := strings.TrimSpace(errorText)
	if s == "" || s == "N/A" || s == "Not specified" {
		return ErrorCategoryUnspecified
	}
	return errorCategoryTable().Classify(s)
}

// CustomerImpact grades the customer-visible severity from the ticket
// text, with resolution comments as a secondary signal.
func CustomerImpact(combinedText, resolutionComments string) string {
	lower := strings.ToLower(combinedText)
	if containsAny(lower, []string{"critical", "urgent", "blocking", "stopped", "down", "broken", "not working"}) {
		return "High"
	}
	if containsAny(lower, []string{"important", "affecting", "impacting", "delayed", "slow", "issue"}) {
		return "Medium"
	}
	comments := strings.ToLower(resolutionComments)
	if containsAny(comments, []string{"customer", "user", "client"}) {
		if containsAny(comments, []string{"blocked", "stopped", "cannot", "unable"}) {
			return "High"
		}
		if containsAny(comments, []string{"delayed", "slow", "issue"}) {
			return "Medium"
		}
	}
	return "Low"
}

// primarySpecific and primaryGeneral back PrimaryErrorType.
var primarySpecific = RuleTable{
	Rules: []Rule{
		{Label: "Authentication", Any: []string{"token expired", "login failed", "credential expired", "jwt invalid", "oauth error"}},
		{Label: "Configuration", Any: []string{"invalid setup", "config error", "installation failed", "uninstall error"}},
		{Label: "Field Mapping", Any: []string{"field mapping", "mapping error", "field not found", "transform error"}},
		{Label: "Sync/Flow", Any: []string{"sync failed", "flow stuck", "webhook error", "queue error"}},
		{Label: "Validation", Any: []string{"validation error", "invalid data", "format error", "schema error"}},
		{Label: "Performance", Any: []string{"slow sync", "timeout", "performance issue", "lag"}},
		{Label: "Data Issue", Any: []string{"data error", "missing data", "duplicate data", "data corruption"}},
		{Label: "Permission", Any: []string{"permission denied", "access denied", "unauthorized", "forbidden"}},
		{Label: "Network", Any: []string{"connection error", "network error", "timeout", "connectivity"}},
		{Label: "API", Any: []string{"api error", "rate limit", "api timeout", "endpoint error"}},
		{Label: "Environment", Any: []string{"sandbox error", "environment issue", "deployment error"}},
	},
	Default: "",
}

var primaryGeneral = RuleTable{
	Rules: []Rule{
		{Label: "Authentication", Any: []string{"auth", "login", "token"}},
		{Label: "Configuration", Any: []string{"config", "setup"}},
		{Label: "Field Mapping", Any: []string{"mapping", "field"}},
		{Label: "Sync/Flow", Any: []string{"sync", "flow"}},
		{Label: "Validation", Any: []string{"validation", "error", "invalid"}},
	},
	Default: "Other",
}

// PrimaryErrorType summarizes a ticket into one headline error type:
// specific phrases first, broad keywords as fallback.
func PrimaryErrorType(summary, description string) string {
	text := summary + " " + description
	if label := primarySpecific.Classify(text); label != "" {
		return label
	}
	return primaryGeneral.Classify(text)
}
