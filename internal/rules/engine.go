package rules

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/heraerp/coa/internal/model"
	"github.com/heraerp/coa/internal/templates"
)

// FlagLockAfterGoLive marks the governance rule whose advisory warning is
// upgraded to a blocking error under lock enforcement.
const FlagLockAfterGoLive = "lock_after_go_live"

// EngineOptions tune evaluation behavior.
type EngineOptions struct {
	// EnforceLock upgrades the lock-after-go-live governance warning to a
	// high-severity blocking error.
	EnforceLock bool
	// Now overrides the clock for fiscal-year checks. Defaults to time.Now.
	Now func() time.Time
}

// Engine evaluates the declarative assignment rule set. Rules are evaluated
// in priority order; a failing rule execution is converted into a
// medium-severity error so one bad rule cannot abort the evaluation.
type Engine struct {
	rules  []model.ValidationRule
	store  *templates.Store
	merger *templates.Merger
	opts   EngineOptions
	log    zerolog.Logger
}

// NewEngine creates an Engine over a priority-sorted rule list.
func NewEngine(ruleList []model.ValidationRule, store *templates.Store, opts EngineOptions, log zerolog.Logger) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		rules:  ruleList,
		store:  store,
		merger: templates.NewMerger(store),
		opts:   opts,
		log:    log,
	}
}

// ValidateCoaAssignment runs every active rule against the request and
// context. A system rule emitting a critical error stops evaluation
// immediately; all other rules accumulate into the result.
func (e *Engine) ValidateCoaAssignment(req *model.CoaAssignmentRequest, ctx *model.OrganizationContext) *model.ValidationResult {
	result := &model.ValidationResult{Valid: true}

	for _, rule := range e.rules {
		if !rule.Active {
			continue
		}
		if stop := e.applyRule(rule, req, ctx, result); stop {
			e.log.Debug().Str("rule", rule.ID).Msg("system rule halted evaluation")
			break
		}
	}

	result.Valid = !result.HasBlockingErrors()
	return result
}

// applyRule evaluates one rule. The returned bool requests an early exit
// (system rule with a critical error).
func (e *Engine) applyRule(rule model.ValidationRule, req *model.CoaAssignmentRequest, ctx *model.OrganizationContext, result *model.ValidationResult) (stop bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("rule", rule.ID).Interface("panic", r).Msg("rule execution panicked")
			result.AddError(model.ValidationError{
				RuleID:   rule.ID,
				Message:  fmt.Sprintf("rule execution failed: %v", r),
				Severity: model.SeverityMedium,
			})
			stop = false
		}
	}()

	met, err := EvalCondition(rule.Condition, req, ctx)
	if err != nil {
		result.AddError(model.ValidationError{
			RuleID:   rule.ID,
			Message:  fmt.Sprintf("rule execution failed: %v", err),
			Severity: model.SeverityMedium,
		})
		return false
	}
	if !met {
		return false
	}

	switch rule.Type {
	case model.RuleTypeSystem:
		if rule.Action.Severity == model.SeverityCritical {
			result.AddError(model.ValidationError{
				RuleID:   rule.ID,
				Message:  rule.Action.Message,
				Severity: model.SeverityCritical,
				Field:    rule.Action.Field,
			})
			return true
		}
		result.Warnings = append(result.Warnings, model.ValidationWarning{
			RuleID:  rule.ID,
			Message: rule.Action.Message,
		})

	case model.RuleTypeValidation:
		if rule.Action.Check != "" {
			e.runCheck(rule, req, ctx, result)
			return false
		}
		severity := rule.Action.Severity
		if severity == "" {
			severity = model.SeverityHigh
		}
		result.AddError(model.ValidationError{
			RuleID:   rule.ID,
			Message:  rule.Action.Message,
			Severity: severity,
			Field:    rule.Action.Field,
		})

	case model.RuleTypeGovernance:
		if rule.Action.Check != "" {
			e.runCheck(rule, req, ctx, result)
			return false
		}
		if rule.Action.Flag == FlagLockAfterGoLive && e.opts.EnforceLock {
			result.AddError(model.ValidationError{
				RuleID:   rule.ID,
				Message:  rule.Action.Message,
				Severity: model.SeverityHigh,
				Field:    rule.Action.Field,
			})
			return false
		}
		result.Warnings = append(result.Warnings, model.ValidationWarning{
			RuleID:     rule.ID,
			Message:    rule.Action.Message,
			Suggestion: rule.Action.Suggestion,
		})

	case model.RuleTypeRecommendation:
		result.Recommendations = append(result.Recommendations, model.Recommendation{
			RuleID:  rule.ID,
			Message: rule.Action.Message,
			Benefit: rule.Action.Benefit,
			Flag:    rule.Action.Flag,
		})
	}

	return false
}

func (e *Engine) runCheck(rule model.ValidationRule, req *model.CoaAssignmentRequest, ctx *model.OrganizationContext, result *model.ValidationResult) {
	severity := rule.Action.Severity
	if severity == "" {
		severity = model.SeverityHigh
	}

	switch rule.Action.Check {
	case model.CheckTemplateCompatibility:
		report, err := e.merger.ValidateCompatibility(req.CountryTemplate, req.IndustryTemplate)
		if err != nil {
			result.AddError(model.ValidationError{
				RuleID:   rule.ID,
				Message:  fmt.Sprintf("rule execution failed: %v", err),
				Severity: model.SeverityMedium,
			})
			return
		}
		for _, conflict := range report.Conflicts {
			result.AddError(model.ValidationError{
				RuleID:   rule.ID,
				Message:  conflict,
				Severity: severity,
			})
		}
		for _, w := range report.Warnings {
			result.Warnings = append(result.Warnings, model.ValidationWarning{RuleID: rule.ID, Message: w})
		}

	case model.CheckRegulatoryCompliance:
		e.checkRegulatoryCompliance(rule, req, ctx, result, severity)

	case model.CheckFiscalYearAlignment:
		e.checkFiscalYearAlignment(rule, ctx, result)
	}
}

// checkRegulatoryCompliance cross-checks the context's regulatory
// requirement tags against the tags carried by the selected templates'
// accounts. An unmet requirement blocks the assignment.
func (e *Engine) checkRegulatoryCompliance(rule model.ValidationRule, req *model.CoaAssignmentRequest, ctx *model.OrganizationContext, result *model.ValidationResult, severity model.Severity) {
	if len(ctx.RegulatoryRequirements) == 0 {
		return
	}

	covered := make(map[string]bool)
	collect := func(t *model.Template) {
		if t == nil {
			return
		}
		for _, a := range t.OverlayAccounts() {
			if a.RegulatoryRequirement != "" {
				covered[a.RegulatoryRequirement] = true
			}
		}
	}

	if req.CountryTemplate != "" {
		t, err := e.store.CountryTemplate(req.CountryTemplate)
		if err != nil {
			result.AddError(model.ValidationError{
				RuleID:   rule.ID,
				Message:  fmt.Sprintf("rule execution failed: %v", err),
				Severity: model.SeverityMedium,
			})
			return
		}
		collect(t)
	}
	if req.IndustryTemplate != "" {
		t, err := e.store.IndustryTemplate(req.IndustryTemplate)
		if err != nil {
			result.AddError(model.ValidationError{
				RuleID:   rule.ID,
				Message:  fmt.Sprintf("rule execution failed: %v", err),
				Severity: model.SeverityMedium,
			})
			return
		}
		collect(t)
	}

	for _, tag := range ctx.RegulatoryRequirements {
		if !covered[tag] {
			result.AddError(model.ValidationError{
				RuleID:   rule.ID,
				Message:  fmt.Sprintf("regulatory requirement %q is not satisfied by the selected templates", tag),
				Severity: severity,
				Field:    rule.Action.Field,
			})
		}
	}
}

// checkFiscalYearAlignment warns when today falls inside the fiscal year
// ending at the organization's fiscal_year_end ("MM-DD").
func (e *Engine) checkFiscalYearAlignment(rule model.ValidationRule, ctx *model.OrganizationContext, result *model.ValidationResult) {
	if ctx.FiscalYearEnd == "" {
		return
	}

	now := e.opts.Now()
	end, err := time.Parse("01-02", ctx.FiscalYearEnd)
	if err != nil {
		e.log.Debug().Str("fiscal_year_end", ctx.FiscalYearEnd).Msg("unparseable fiscal year end, skipping alignment check")
		return
	}

	yearEnd := time.Date(now.Year(), end.Month(), end.Day(), 23, 59, 59, 0, now.Location())
	yearStart := yearEnd.AddDate(-1, 0, 1)
	if !now.Before(yearStart) && !now.After(yearEnd) {
		result.Warnings = append(result.Warnings, model.ValidationWarning{
			RuleID:     rule.ID,
			Message:    rule.Action.Message,
			Suggestion: rule.Action.Suggestion,
		})
	}
}
