package lifecycle

import "strings"

// RejectionReasons is the advisory catalog of reason codes offered by
// the UI when a card moves to Rejected. The catalog drives dropdowns
// only: ValidateTransition accepts any non-empty reason, including
// free text carried behind the "Other: " prefix.
var RejectionReasons = []string{
	"Overqualified",
	"Underqualified",
	"Budget constraints",
	"Culture fit",
	"Already filled",
}

// OtherReasonPrefix marks a caller-supplied free-text reason.
const OtherReasonPrefix = "Other: "

// IsCatalogReason reports whether the reason is one of the fixed
// catalog codes or a well-formed "Other: <text>" variant.
func IsCatalogReason(reason string) bool {
	for _, r := range RejectionReasons {
		if reason == r {
			return true
		}
	}
	return strings.HasPrefix(reason, OtherReasonPrefix) &&
		strings.TrimSpace(strings.TrimPrefix(reason, OtherReasonPrefix)) != ""
}

// OtherReason wraps free text in the "Other: " variant.
func OtherReason(text string) string {
	return OtherReasonPrefix + text
}
