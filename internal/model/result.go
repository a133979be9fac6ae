package model

// ValidationError is one blocking or advisory rule failure.
type ValidationError struct {
	RuleID   string   `json:"rule_id"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Field    string   `json:"field,omitempty"`
}

// ValidationWarning is a non-blocking advisory.
type ValidationWarning struct {
	RuleID     string `json:"rule_id"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Recommendation is an advisory suggestion with its expected benefit.
type Recommendation struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
	Benefit string `json:"benefit,omitempty"`
	Flag    string `json:"flag,omitempty"`
}

// ValidationResult is the ephemeral outcome of one rule-engine evaluation.
// Valid is false iff any error carries critical or high severity.
type ValidationResult struct {
	Valid           bool                `json:"valid"`
	Errors          []ValidationError   `json:"errors"`
	Warnings        []ValidationWarning `json:"warnings"`
	Recommendations []Recommendation    `json:"recommendations"`
}

// AddError appends an error and recomputes the blocking flag.
func (r *ValidationResult) AddError(e ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityCritical || e.Severity == SeverityHigh {
		r.Valid = false
	}
}

// HasBlockingErrors reports whether any critical or high error is present.
func (r *ValidationResult) HasBlockingErrors() bool {
	for _, e := range r.Errors {
		if e.Severity == SeverityCritical || e.Severity == SeverityHigh {
			return true
		}
	}
	return false
}
