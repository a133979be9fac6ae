package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heraerp/coa/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestEvalCondition(t *testing.T) {
	req := &model.CoaAssignmentRequest{
		OrganizationID:  "org-1",
		CountryTemplate: "india",
	}
	ctx := &model.OrganizationContext{
		OrganizationID:         "org-1",
		Country:                "india",
		Status:                 model.OrgStatusLive,
		HasTransactions:        true,
		RegulatoryRequirements: []string{"gst_compliance"},
	}

	tests := []struct {
		name string
		cond model.Condition
		want bool
	}{
		{"always", model.Condition{Kind: model.CondAlways}, true},
		{"field missing false", model.Condition{Kind: model.CondFieldMissing, Field: FieldOrgCountry}, false},
		{"field missing true", model.Condition{Kind: model.CondFieldMissing, Field: FieldOrgIndustry}, true},
		{"field present", model.Condition{Kind: model.CondFieldPresent, Field: FieldReqCountryTmpl}, true},
		{"status equals", model.Condition{Kind: model.CondStatusEquals, Value: "live"}, true},
		{"status differs", model.Condition{Kind: model.CondStatusEquals, Value: "setup"}, false},
		{"bool equals", model.Condition{Kind: model.CondBoolEquals, Field: FieldOrgHasTransactions, Equals: boolPtr(true)}, true},
		{"bool differs", model.Condition{Kind: model.CondBoolEquals, Field: FieldOrgMultiLocation, Equals: boolPtr(true)}, false},
		{"has tag", model.Condition{Kind: model.CondHasRegulatoryTag, Tag: "gst_compliance"}, true},
		{"missing tag", model.Condition{Kind: model.CondHasRegulatoryTag, Tag: "sales_tax"}, false},
		{
			"all met",
			model.Condition{Kind: model.CondAll, All: []model.Condition{
				{Kind: model.CondStatusEquals, Value: "live"},
				{Kind: model.CondBoolEquals, Field: FieldOrgHasTransactions, Equals: boolPtr(true)},
			}},
			true,
		},
		{
			"all short-circuits",
			model.Condition{Kind: model.CondAll, All: []model.Condition{
				{Kind: model.CondStatusEquals, Value: "setup"},
				{Kind: model.CondAlways},
			}},
			false,
		},
		{
			"any",
			model.Condition{Kind: model.CondAny, Any: []model.Condition{
				{Kind: model.CondStatusEquals, Value: "setup"},
				{Kind: model.CondFieldPresent, Field: FieldReqCountryTmpl},
			}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvalCondition(tt.cond, req, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalConditionErrors(t *testing.T) {
	req := &model.CoaAssignmentRequest{}
	ctx := &model.OrganizationContext{}

	_, err := EvalCondition(model.Condition{Kind: "regex_match"}, req, ctx)
	assert.ErrorContains(t, err, "unknown condition kind")

	_, err = EvalCondition(model.Condition{Kind: model.CondFieldMissing, Field: "organization.nope"}, req, ctx)
	assert.ErrorContains(t, err, "unknown string field")

	_, err = EvalCondition(model.Condition{Kind: model.CondBoolEquals, Field: FieldOrgHasTransactions}, req, ctx)
	assert.ErrorContains(t, err, "missing equals value")
}
