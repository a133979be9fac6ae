package model

// RuleType determines how a matched rule contributes to a validation result.
type RuleType string

const (
	RuleTypeSystem         RuleType = "system"
	RuleTypeValidation     RuleType = "validation"
	RuleTypeGovernance     RuleType = "governance"
	RuleTypeRecommendation RuleType = "recommendation"
)

// Severity ranks validation errors. Critical and high block an assignment;
// medium does not.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// ConditionKind tags the closed set of supported rule predicates.
type ConditionKind string

const (
	CondAlways           ConditionKind = "always"
	CondFieldMissing     ConditionKind = "field_missing"
	CondFieldPresent     ConditionKind = "field_present"
	CondStatusEquals     ConditionKind = "status_equals"
	CondBoolEquals       ConditionKind = "bool_equals"
	CondHasRegulatoryTag ConditionKind = "has_regulatory_tag"
	CondAll              ConditionKind = "all"
	CondAny              ConditionKind = "any"
)

// Condition is a declarative predicate over an assignment request and
// organization context. Fields are interpreted per Kind; combinators nest
// through All/Any.
type Condition struct {
	Kind   ConditionKind `json:"kind"`
	Field  string        `json:"field,omitempty"`
	Value  string        `json:"value,omitempty"`
	Equals *bool         `json:"equals,omitempty"`
	Tag    string        `json:"tag,omitempty"`
	All    []Condition   `json:"all,omitempty"`
	Any    []Condition   `json:"any,omitempty"`
}

// CheckKind names an engine-computed check a rule action can invoke.
type CheckKind string

const (
	CheckTemplateCompatibility CheckKind = "template_compatibility"
	CheckRegulatoryCompliance  CheckKind = "regulatory_compliance"
	CheckFiscalYearAlignment   CheckKind = "fiscal_year_alignment"
)

// RuleAction is the payload emitted when a rule's condition is met.
type RuleAction struct {
	Message    string    `json:"message,omitempty"`
	Severity   Severity  `json:"severity,omitempty"`
	Field      string    `json:"field,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	Benefit    string    `json:"benefit,omitempty"`
	Flag       string    `json:"flag,omitempty"`
	Check      CheckKind `json:"check,omitempty"`
}

// ValidationRule is one declarative rule from assignment-rules.json.
// Rules are sorted by Priority ascending (lower runs first) and are
// immutable after load.
type ValidationRule struct {
	ID          string     `json:"rule_id"`
	Name        string     `json:"rule_name"`
	Type        RuleType   `json:"rule_type"`
	Priority    int        `json:"priority"`
	Active      bool       `json:"active"`
	Condition   Condition  `json:"condition"`
	Action      RuleAction `json:"action"`
	Description string     `json:"description,omitempty"`
}
