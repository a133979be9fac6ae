package rules

import (
	"fmt"

	"github.com/heraerp/coa/internal/model"
)

// Field paths a rule condition may reference. The table is deliberately
// closed: an unknown path is an evaluation error, not a silent false.
const (
	FieldOrgCountry         = "organization.country"
	FieldOrgIndustry        = "organization.industry"
	FieldOrgStatus          = "organization.status"
	FieldOrgHasTransactions = "organization.has_transactions"
	FieldOrgMultiLocation   = "organization.multi_location"
	FieldOrgParent          = "organization.parent_organization"
	FieldOrgFiscalYearEnd   = "organization.fiscal_year_end"
	FieldReqCountryTmpl     = "request.country_template"
	FieldReqIndustryTmpl    = "request.industry_template"
)

// EvalCondition evaluates a tagged condition against a request and
// organization context.
func EvalCondition(cond model.Condition, req *model.CoaAssignmentRequest, ctx *model.OrganizationContext) (bool, error) {
	switch cond.Kind {
	case model.CondAlways:
		return true, nil

	case model.CondFieldMissing:
		v, err := stringField(cond.Field, req, ctx)
		if err != nil {
			return false, err
		}
		return v == "", nil

	case model.CondFieldPresent:
		v, err := stringField(cond.Field, req, ctx)
		if err != nil {
			return false, err
		}
		return v != "", nil

	case model.CondStatusEquals:
		return ctx.Status == model.OrgStatus(cond.Value), nil

	case model.CondBoolEquals:
		if cond.Equals == nil {
			return false, fmt.Errorf("bool_equals condition on %q missing equals value", cond.Field)
		}
		v, err := boolField(cond.Field, ctx)
		if err != nil {
			return false, err
		}
		return v == *cond.Equals, nil

	case model.CondHasRegulatoryTag:
		return ctx.HasRegulatoryRequirement(cond.Tag), nil

	case model.CondAll:
		for _, c := range cond.All {
			ok, err := EvalCondition(c, req, ctx)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	case model.CondAny:
		for _, c := range cond.Any {
			ok, err := EvalCondition(c, req, ctx)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("unknown condition kind %q", cond.Kind)
	}
}

func stringField(field string, req *model.CoaAssignmentRequest, ctx *model.OrganizationContext) (string, error) {
	switch field {
	case FieldOrgCountry:
		return ctx.Country, nil
	case FieldOrgIndustry:
		return ctx.Industry, nil
	case FieldOrgStatus:
		return string(ctx.Status), nil
	case FieldOrgParent:
		return ctx.ParentOrganization, nil
	case FieldOrgFiscalYearEnd:
		return ctx.FiscalYearEnd, nil
	case FieldReqCountryTmpl:
		return req.CountryTemplate, nil
	case FieldReqIndustryTmpl:
		return req.IndustryTemplate, nil
	default:
		return "", fmt.Errorf("unknown string field %q", field)
	}
}

func boolField(field string, ctx *model.OrganizationContext) (bool, error) {
	switch field {
	case FieldOrgHasTransactions:
		return ctx.HasTransactions, nil
	case FieldOrgMultiLocation:
		return ctx.MultiLocation, nil
	default:
		return false, fmt.Errorf("unknown bool field %q", field)
	}
}
