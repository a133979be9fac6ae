package rules

import (
	"fmt"

	"github.com/heraerp/coa/internal/model"
)

// Summarize renders one human-readable status line for a validation result.
// Critical errors dominate, then high errors, then warnings and
// recommendations. Display only, never used for control flow.
func Summarize(result *model.ValidationResult) string {
	var critical, high int
	var firstCritical string
	for _, e := range result.Errors {
		switch e.Severity {
		case model.SeverityCritical:
			critical++
			if firstCritical == "" {
				firstCritical = e.Message
			}
		case model.SeverityHigh:
			high++
		}
	}

	switch {
	case critical > 0:
		return fmt.Sprintf("BLOCKED: %d critical error(s): %s", critical, firstCritical)
	case high > 0:
		return fmt.Sprintf("FAILED: %d error(s), %d warning(s)", high, len(result.Warnings))
	case len(result.Warnings) > 0 || len(result.Recommendations) > 0:
		return fmt.Sprintf("PASSED with %d warning(s) and %d recommendation(s)", len(result.Warnings), len(result.Recommendations))
	default:
		return "PASSED: chart of accounts assignment is valid"
	}
}
