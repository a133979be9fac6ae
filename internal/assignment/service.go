package assignment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/heraerp/coa/internal/model"
	"github.com/heraerp/coa/internal/persist"
	"github.com/heraerp/coa/internal/rules"
	"github.com/heraerp/coa/internal/templates"
)

// Rule ids used by the lightweight request checks that run even without an
// organization context.
const (
	RuleRequestIncomplete = "request_incomplete"
	RuleTemplateNotFound  = "template_not_found"
	RulePairCompatibility = "country_industry_compatibility"
)

// Service is the single entry point for template discovery, validation, and
// assignment. All collaborators are injected; there is no global state.
type Service struct {
	store   *templates.Store
	merger  *templates.Merger
	engine  *rules.Engine
	persist persist.Store
	compat  *Matrix
	log     zerolog.Logger
	now     func() time.Time
}

// NewService wires a Service from its collaborators. A nil matrix means the
// default all-compatible table.
func NewService(store *templates.Store, engine *rules.Engine, persistStore persist.Store, compat *Matrix, log zerolog.Logger) *Service {
	if compat == nil {
		compat = DefaultMatrix()
	}
	return &Service{
		store:   store,
		merger:  templates.NewMerger(store),
		engine:  engine,
		persist: persistStore,
		compat:  compat,
		log:     log,
		now:     time.Now,
	}
}

// AvailableTemplates lists installed country and industry templates with
// display metadata.
func (s *Service) AvailableTemplates() ([]model.AvailableTemplate, error) {
	countries := s.store.AvailableCountryTemplates()
	industries := s.store.AvailableIndustryTemplates()

	var out []model.AvailableTemplate
	for _, code := range countries {
		t, err := s.store.CountryTemplate(code)
		if err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}
		out = append(out, model.AvailableTemplate{
			ID:                     t.ID,
			Name:                   t.Name,
			Kind:                   "country",
			Code:                   code,
			AccountCount:           len(t.OverlayAccounts()),
			RegulatoryRequirements: regulatoryTags(t),
			CompatibleWith:         s.compat.CompatibleIndustries(code, industries),
		})
	}
	for _, code := range industries {
		t, err := s.store.IndustryTemplate(code)
		if err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}
		out = append(out, model.AvailableTemplate{
			ID:                     t.ID,
			Name:                   t.Name,
			Kind:                   "industry",
			Code:                   code,
			AccountCount:           len(t.OverlayAccounts()),
			RegulatoryRequirements: regulatoryTags(t),
			CompatibleWith:         s.compat.CompatibleCountries(code, countries),
		})
	}
	return out, nil
}

// ValidateAssignment runs the full rule engine against a request and
// context without persisting anything.
func (s *Service) ValidateAssignment(req *model.CoaAssignmentRequest, orgCtx *model.OrganizationContext) *model.ValidationResult {
	return s.engine.ValidateCoaAssignment(req, orgCtx)
}

// AssignTemplate validates a proposed assignment and persists the resulting
// configuration plus a history record. With an organization context the full
// rule engine runs first; blocking errors short-circuit with no persistence.
// The lightweight request checks and the structural validation of the merged
// chart run in every case. Persistence failures are returned as errors, never
// masked.
func (s *Service) AssignTemplate(ctx context.Context, req *model.CoaAssignmentRequest, orgCtx *model.OrganizationContext) (*model.TemplateAssignmentResult, error) {
	var warnings []model.ValidationWarning

	if orgCtx != nil {
		result := s.engine.ValidateCoaAssignment(req, orgCtx)
		warnings = append(warnings, result.Warnings...)
		if result.HasBlockingErrors() {
			s.log.Info().Str("org", req.OrganizationID).Msg("assignment rejected by rule validation")
			return &model.TemplateAssignmentResult{
				Success:  false,
				Message:  rules.Summarize(result),
				Errors:   result.Errors,
				Warnings: result.Warnings,
			}, nil
		}
	}

	legacy := s.checkRequest(req)
	warnings = append(warnings, legacy.Warnings...)
	if legacy.HasBlockingErrors() {
		return &model.TemplateAssignmentResult{
			Success:  false,
			Message:  rules.Summarize(legacy),
			Errors:   legacy.Errors,
			Warnings: warnings,
		}, nil
	}

	chart, err := s.merger.BuildMergedCoa(req.CountryTemplate, req.IndustryTemplate)
	if err != nil {
		return nil, fmt.Errorf("building merged chart: %w", err)
	}

	structural := rules.ValidateAccountStructure(chart.Accounts)
	warnings = append(warnings, structural.Warnings...)
	if structural.HasBlockingErrors() {
		s.log.Info().Str("org", req.OrganizationID).Msg("merged chart failed structural validation")
		return &model.TemplateAssignmentResult{
			Success:  false,
			Message:  rules.Summarize(structural),
			Errors:   structural.Errors,
			Warnings: warnings,
		}, nil
	}

	existing, err := s.persist.GetConfig(ctx, req.OrganizationID)
	if err != nil && !errors.Is(err, persist.ErrNotFound) {
		return nil, fmt.Errorf("loading existing configuration: %w", err)
	}

	now := s.now()
	cfg := &model.OrganizationCoaConfig{
		ConfigurationID:     uuid.NewString(),
		OrganizationID:      req.OrganizationID,
		BaseTemplate:        model.BaseTemplateID,
		CountryTemplate:     req.CountryTemplate,
		IndustryTemplate:    req.IndustryTemplate,
		AssignedBy:          req.AssignedBy,
		AssignedAt:          now,
		EffectiveFrom:       now,
		Status:              model.AssignmentActive,
		AllowCustomAccounts: req.AllowCustomAccounts,
		AutoSyncEnabled:     true,
	}

	changeType := model.ChangeInitialAssignment
	if existing != nil {
		changeType = model.ChangeTemplateChange
		cfg.ConfigurationID = existing.ConfigurationID
		cfg.Locked = existing.Locked
	}
	if orgCtx != nil && orgCtx.Status == model.OrgStatusLive && orgCtx.HasTransactions {
		cfg.Status = model.AssignmentLocked
		cfg.Locked = true
	}

	if err := s.persist.SaveConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("persisting configuration: %w", err)
	}
	if err := s.persist.AppendHistory(ctx, model.CoaAssignmentHistory{
		ID:                      uuid.NewString(),
		OrganizationID:          req.OrganizationID,
		ChangeType:              changeType,
		Previous:                existing,
		Current:                 *cfg,
		ChangedBy:               req.AssignedBy,
		ChangedAt:               now,
		AccountsAffected:        chart.Summary.TotalAccounts,
		CustomAccountsPreserved: req.AllowCustomAccounts,
	}); err != nil {
		return nil, fmt.Errorf("recording assignment history: %w", err)
	}

	s.log.Info().
		Str("org", req.OrganizationID).
		Str("change", changeType).
		Int("accounts", chart.Summary.TotalAccounts).
		Msg("chart of accounts assigned")

	return &model.TemplateAssignmentResult{
		Success:         true,
		ConfigurationID: cfg.ConfigurationID,
		Message:         fmt.Sprintf("Chart of accounts assigned with %d accounts", chart.Summary.TotalAccounts),
		CoaStructure:    structureSummary(chart),
		Warnings:        warnings,
	}, nil
}

// SaveAssignment persists a configuration directly, bypassing validation.
// Serves the raw persistence API that remote file stores replicate into.
func (s *Service) SaveAssignment(ctx context.Context, cfg *model.OrganizationCoaConfig) error {
	return s.persist.SaveConfig(ctx, cfg)
}

// RecordHistory appends one audit record directly.
func (s *Service) RecordHistory(ctx context.Context, rec model.CoaAssignmentHistory) error {
	return s.persist.AppendHistory(ctx, rec)
}

// OrganizationAssignment returns the persisted configuration for an
// organization. Propagates persist.ErrNotFound when none exists.
func (s *Service) OrganizationAssignment(ctx context.Context, organizationID string) (*model.OrganizationCoaConfig, error) {
	return s.persist.GetConfig(ctx, organizationID)
}

// AssignmentHistory returns the audit trail for an organization, oldest
// first.
func (s *Service) AssignmentHistory(ctx context.Context, organizationID string) ([]model.CoaAssignmentHistory, error) {
	return s.persist.History(ctx, organizationID)
}

// checkRequest performs the lightweight legacy checks that run even when no
// organization context is supplied: required fields, template existence, and
// a soft compatibility warning.
func (s *Service) checkRequest(req *model.CoaAssignmentRequest) *model.ValidationResult {
	result := &model.ValidationResult{Valid: true}

	if req.OrganizationID == "" {
		result.AddError(model.ValidationError{
			RuleID:   RuleRequestIncomplete,
			Message:  "organization_id is required",
			Severity: model.SeverityCritical,
			Field:    "organization_id",
		})
	}
	if req.AssignedBy == "" {
		result.AddError(model.ValidationError{
			RuleID:   RuleRequestIncomplete,
			Message:  "assigned_by is required",
			Severity: model.SeverityCritical,
			Field:    "assigned_by",
		})
	}

	if req.CountryTemplate != "" {
		t, err := s.store.CountryTemplate(req.CountryTemplate)
		if err != nil {
			result.AddError(model.ValidationError{
				RuleID:   RuleTemplateNotFound,
				Message:  fmt.Sprintf("loading country template: %v", err),
				Severity: model.SeverityHigh,
				Field:    "country_template",
			})
		} else if t == nil {
			result.AddError(model.ValidationError{
				RuleID:   RuleTemplateNotFound,
				Message:  fmt.Sprintf("country template %q is not installed", req.CountryTemplate),
				Severity: model.SeverityHigh,
				Field:    "country_template",
			})
		}
	}
	if req.IndustryTemplate != "" {
		t, err := s.store.IndustryTemplate(req.IndustryTemplate)
		if err != nil {
			result.AddError(model.ValidationError{
				RuleID:   RuleTemplateNotFound,
				Message:  fmt.Sprintf("loading industry template: %v", err),
				Severity: model.SeverityHigh,
				Field:    "industry_template",
			})
		} else if t == nil {
			result.AddError(model.ValidationError{
				RuleID:   RuleTemplateNotFound,
				Message:  fmt.Sprintf("industry template %q is not installed", req.IndustryTemplate),
				Severity: model.SeverityHigh,
				Field:    "industry_template",
			})
		}
	}

	if ok, reason := s.compat.Check(req.CountryTemplate, req.IndustryTemplate); !ok {
		result.Warnings = append(result.Warnings, model.ValidationWarning{
			RuleID:     RulePairCompatibility,
			Message:    fmt.Sprintf("templates %s and %s are marked incompatible: %s", req.CountryTemplate, req.IndustryTemplate, reason),
			Suggestion: "Review the compatibility table before combining these templates",
		})
	}

	result.Valid = !result.HasBlockingErrors()
	return result
}

// regulatoryTags collects the distinct regulatory requirement tags carried by
// a template's overlay accounts, sorted.
func regulatoryTags(t *model.Template) []string {
	seen := make(map[string]bool)
	for _, a := range t.OverlayAccounts() {
		if a.RegulatoryRequirement != "" {
			seen[a.RegulatoryRequirement] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// structureSummary converts merge metadata to the short base/country/industry
// layer names callers see.
func structureSummary(chart *templates.MergedChart) *model.CoaStructureSummary {
	summary := &model.CoaStructureSummary{
		TotalAccounts:    chart.Summary.TotalAccounts,
		AccountsPerLayer: make(map[string]int, len(chart.Layers)),
	}
	for _, layer := range chart.Layers {
		switch {
		case layer == model.LayerBase:
			summary.Layers = append(summary.Layers, "base")
			summary.AccountsPerLayer["base"] = chart.Summary.TotalAccounts - chart.Summary.CountrySpecific - chart.Summary.IndustrySpecific
		case strings.HasPrefix(layer, model.LayerCountryPref):
			summary.Layers = append(summary.Layers, "country")
			summary.AccountsPerLayer["country"] = chart.Summary.CountrySpecific
		case strings.HasPrefix(layer, model.LayerIndustryPref):
			summary.Layers = append(summary.Layers, "industry")
			summary.AccountsPerLayer["industry"] = chart.Summary.IndustrySpecific
		}
	}
	return summary
}
