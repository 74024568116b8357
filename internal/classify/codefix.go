package classify

import "strings"

// CodeFix is the outcome of the tiered code-fix detector for one resolved
// ticket.
type CodeFix struct {
	Classification string
	Confidence     string
	Action         string
}

// Detector tiers, fixed order. A resolves-link to an engineering ticket is
// the strongest evidence; text mentions are the weakest before giving up.
const (
	codeFixResolves  = "Code Fix (Resolves Link)"
	codeFixRelated   = "Code Fix (Related Links)"
	codeFixDeploy    = "Likely Code Fix (Deploy/Hotfix)"
	codeFixMentioned = "Likely Code Fix (Fix Mentioned)"
	codeFixUnknown   = "Not Code Fix / Unknown"
)

// DetectCodeFix classifies whether a resolved ticket was fixed in code.
// resolvesLink is the raw Resolves link cell, refCount the number of
// engineering IDs found across all link and text fields, and allText the
// ticket's description, comments and resolution comments combined.
func DetectCodeFix(resolvesLink string, refCount int, allText string) CodeFix {
	upper := strings.ToUpper(allText)
	link := strings.TrimSpace(resolvesLink)

	switch {
	case link != "" && link != "None" &&
		(strings.Contains(link, "PRE-") || strings.Contains(link, "PRD-") || strings.Contains(link, "IO-")):
		return CodeFix{codeFixResolves, "High", "Document fix details"}
	case refCount > 0:
		return CodeFix{codeFixRelated, "High", "Document fix details"}
	case strings.Contains(upper, "DEPLOY") || strings.Contains(upper, "HOTFIX"):
		return CodeFix{codeFixDeploy, "Medium", "Verify and document"}
	case strings.Contains(upper, "BUG FIX") || strings.Contains(upper, "FIXED IN"):
		return CodeFix{codeFixMentioned, "Medium", "Verify and document"}
	default:
		return CodeFix{codeFixUnknown, "Low", "Review or skip"}
	}
}

// CustomerTier buckets a customer by case volume.
func CustomerTier(caseCount int) string {
	switch {
	case caseCount >= 5:
		return "Tier 1"
	case caseCount >= 3:
		return "Tier 2"
	default:
		return "Tier 3"
	}
}
