package model

import "time"

// AssignmentStatus tracks the lifecycle of a persisted configuration:
// none -> pending -> active -> locked.
type AssignmentStatus string

const (
	AssignmentPending AssignmentStatus = "pending"
	AssignmentActive  AssignmentStatus = "active"
	AssignmentLocked  AssignmentStatus = "locked"
)

// Change types recorded in assignment history.
const (
	ChangeInitialAssignment = "initial_assignment"
	ChangeTemplateChange    = "template_change"
)

// CoaAssignmentRequest is a caller's proposed template assignment.
type CoaAssignmentRequest struct {
	OrganizationID      string `json:"organization_id"`
	CountryTemplate     string `json:"country_template,omitempty"`
	IndustryTemplate    string `json:"industry_template,omitempty"`
	AllowCustomAccounts bool   `json:"allow_custom_accounts"`
	AssignedBy          string `json:"assigned_by"`
}

// OrganizationCoaConfig is the persisted result of an assignment. It is
// mutated on reassignment and never hard-deleted; history keeps the trail.
type OrganizationCoaConfig struct {
	ConfigurationID     string           `json:"configuration_id"`
	OrganizationID      string           `json:"organization_id"`
	BaseTemplate        string           `json:"base_template"`
	CountryTemplate     string           `json:"country_template,omitempty"`
	IndustryTemplate    string           `json:"industry_template,omitempty"`
	AssignedBy          string           `json:"assigned_by"`
	AssignedAt          time.Time        `json:"assigned_at"`
	EffectiveFrom       time.Time        `json:"effective_from"`
	Status              AssignmentStatus `json:"status"`
	Locked              bool             `json:"locked"`
	AllowCustomAccounts bool             `json:"allow_custom_accounts"`
	AutoSyncEnabled     bool             `json:"auto_sync_enabled"`
}

// CoaAssignmentHistory is one append-only audit record of a configuration
// change. Immutable once written.
type CoaAssignmentHistory struct {
	ID                      string                 `json:"history_id"`
	OrganizationID          string                 `json:"organization_id"`
	ChangeType              string                 `json:"change_type"`
	Previous                *OrganizationCoaConfig `json:"previous,omitempty"`
	Current                 OrganizationCoaConfig  `json:"current"`
	ChangedBy               string                 `json:"changed_by"`
	ChangedAt               time.Time              `json:"changed_at"`
	AccountsAffected        int                    `json:"accounts_affected"`
	CustomAccountsPreserved bool                   `json:"custom_accounts_preserved"`
}

// CoaStructureSummary describes the merged chart attached to an assignment
// result. Layers uses the short names base/country/industry in merge order.
type CoaStructureSummary struct {
	Layers           []string       `json:"layers"`
	TotalAccounts    int            `json:"total_accounts"`
	AccountsPerLayer map[string]int `json:"accounts_per_layer"`
}

// TemplateAssignmentResult is returned by the assignment service.
type TemplateAssignmentResult struct {
	Success         bool                 `json:"success"`
	ConfigurationID string               `json:"configuration_id,omitempty"`
	Message         string               `json:"message,omitempty"`
	CoaStructure    *CoaStructureSummary `json:"coa_structure,omitempty"`
	Errors          []ValidationError    `json:"errors,omitempty"`
	Warnings        []ValidationWarning  `json:"warnings,omitempty"`
}

// AvailableTemplate is display metadata for one installed template.
type AvailableTemplate struct {
	ID                     string   `json:"template_id"`
	Name                   string   `json:"template_name"`
	Kind                   string   `json:"kind"` // "country" or "industry"
	Code                   string   `json:"code"`
	AccountCount           int      `json:"account_count"`
	RegulatoryRequirements []string `json:"regulatory_requirements,omitempty"`
	CompatibleWith         []string `json:"compatible_with,omitempty"`
}
