package rules

import "github.com/heraerp/coa/internal/model"

// DefaultRulesFile returns the rule set written by `coa init`, grouped by
// category the way assignment-rules.json is laid out on disk.
func DefaultRulesFile() RulesFile {
	boolTrue := true
	return RulesFile{
		RuleDefinitions: map[string][]model.ValidationRule{
			"system": {
				{
					ID:        "base_template_universal",
					Name:      "Base template is universal",
					Type:      model.RuleTypeSystem,
					Priority:  1,
					Active:    true,
					Condition: model.Condition{Kind: model.CondAlways},
					Action: model.RuleAction{
						Message: "The base layer is always the universal base template and cannot be replaced",
					},
					Description: "Informational gate; the universal base is non-negotiable.",
				},
			},
			"validation": {
				{
					ID:       "country_template_required",
					Name:     "Country template required",
					Type:     model.RuleTypeValidation,
					Priority: 10,
					Active:   true,
					Condition: model.Condition{
						Kind:  model.CondFieldMissing,
						Field: FieldOrgCountry,
					},
					Action: model.RuleAction{
						Message:  "Organization country must be set before a chart of accounts can be assigned",
						Severity: model.SeverityCritical,
						Field:    FieldOrgCountry,
					},
					Description: "Statutory accounts depend on the organization's country.",
				},
				{
					ID:       "template_compatibility",
					Name:     "Template compatibility",
					Type:     model.RuleTypeValidation,
					Priority: 20,
					Active:   true,
					Condition: model.Condition{
						Kind: model.CondAny,
						Any: []model.Condition{
							{Kind: model.CondFieldPresent, Field: FieldReqCountryTmpl},
							{Kind: model.CondFieldPresent, Field: FieldReqIndustryTmpl},
						},
					},
					Action: model.RuleAction{
						Check:    model.CheckTemplateCompatibility,
						Severity: model.SeverityHigh,
					},
					Description: "Selected layers must merge without duplicate account codes.",
				},
				{
					ID:        "regulatory_compliance",
					Name:      "Regulatory compliance",
					Type:      model.RuleTypeValidation,
					Priority:  30,
					Active:    true,
					Condition: model.Condition{Kind: model.CondAlways},
					Action: model.RuleAction{
						Check:    model.CheckRegulatoryCompliance,
						Severity: model.SeverityHigh,
						Field:    "organization.regulatory_requirements",
					},
					Description: "Every regulatory requirement tag must be covered by a selected template.",
				},
			},
			"governance": {
				{
					ID:       "lock_after_golive",
					Name:     "Lock after go-live",
					Type:     model.RuleTypeGovernance,
					Priority: 40,
					Active:   true,
					Condition: model.Condition{
						Kind: model.CondAll,
						All: []model.Condition{
							{Kind: model.CondStatusEquals, Value: string(model.OrgStatusLive)},
							{Kind: model.CondBoolEquals, Field: FieldOrgHasTransactions, Equals: &boolTrue},
						},
					},
					Action: model.RuleAction{
						Message:    "Organization is live with posted transactions; changing templates affects existing reports",
						Suggestion: "Request administrator approval before changing the assigned templates",
						Flag:       FlagLockAfterGoLive,
					},
					Description: "Advisory by default; blocking when lock enforcement is configured.",
				},
				{
					ID:       "fiscal_year_alignment",
					Name:     "Fiscal year alignment",
					Type:     model.RuleTypeGovernance,
					Priority: 50,
					Active:   true,
					Condition: model.Condition{
						Kind:  model.CondFieldPresent,
						Field: FieldOrgFiscalYearEnd,
					},
					Action: model.RuleAction{
						Check:      model.CheckFiscalYearAlignment,
						Message:    "Template change falls inside the current fiscal year",
						Suggestion: "Prefer making template changes at a fiscal year boundary",
					},
				},
				{
					ID:       "multi_location_governance",
					Name:     "Multi-location governance",
					Type:     model.RuleTypeGovernance,
					Priority: 60,
					Active:   true,
					Condition: model.Condition{
						Kind: model.CondAll,
						All: []model.Condition{
							{Kind: model.CondBoolEquals, Field: FieldOrgMultiLocation, Equals: &boolTrue},
							{Kind: model.CondFieldPresent, Field: FieldOrgParent},
						},
					},
					Action: model.RuleAction{
						Message:    "Organization has multiple locations under a parent organization",
						Suggestion: "Keep template choices consistent with the parent organization",
					},
				},
			},
			"recommendation": {
				{
					ID:       "industry_template_recommendation",
					Name:     "Industry template available",
					Type:     model.RuleTypeRecommendation,
					Priority: 70,
					Active:   true,
					Condition: model.Condition{
						Kind: model.CondAll,
						All: []model.Condition{
							{Kind: model.CondFieldPresent, Field: FieldOrgIndustry},
							{Kind: model.CondFieldMissing, Field: FieldReqIndustryTmpl},
						},
					},
					Action: model.RuleAction{
						Message: "An industry template matching this organization's industry is available",
						Benefit: "Industry-specific accounts reduce manual chart customization",
						Flag:    "industry_template_available",
					},
				},
			},
		},
	}
}

// DefaultRules returns the default rule set flattened and priority-sorted.
func DefaultRules() []model.ValidationRule {
	return Flatten(DefaultRulesFile())
}
