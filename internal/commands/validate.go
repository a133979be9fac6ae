package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heraerp/coa/internal/model"
	"github.com/heraerp/coa/internal/rules"
)

// requestFlags collect the assignment request fields shared by validate and
// assign.
type requestFlags struct {
	orgID       string
	country     string
	industry    string
	assignedBy  string
	allowCustom bool
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.orgID, "org", "", "organization id (required)")
	cmd.Flags().StringVar(&f.country, "country", "", "country template code")
	cmd.Flags().StringVar(&f.industry, "industry", "", "industry template code")
	cmd.Flags().StringVar(&f.assignedBy, "by", "", "assigning user")
	cmd.Flags().BoolVar(&f.allowCustom, "allow-custom", false, "allow custom accounts")
	_ = cmd.MarkFlagRequired("org")
}

func (f *requestFlags) request() *model.CoaAssignmentRequest {
	return &model.CoaAssignmentRequest{
		OrganizationID:      f.orgID,
		CountryTemplate:     f.country,
		IndustryTemplate:    f.industry,
		AllowCustomAccounts: f.allowCustom,
		AssignedBy:          f.assignedBy,
	}
}

// contextFlags collect the organization context fields.
type contextFlags struct {
	orgCountry      string
	orgIndustry     string
	status          string
	hasTransactions bool
	fiscalYearEnd   string
	regulatory      []string
	multiLocation   bool
	parentOrg       string
}

func (f *contextFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.orgCountry, "org-country", "", "organization country")
	cmd.Flags().StringVar(&f.orgIndustry, "org-industry", "", "organization industry")
	cmd.Flags().StringVar(&f.status, "status", string(model.OrgStatusSetup), "organization status (setup|active|live)")
	cmd.Flags().BoolVar(&f.hasTransactions, "has-transactions", false, "organization has live transactions")
	cmd.Flags().StringVar(&f.fiscalYearEnd, "fiscal-year-end", "", "fiscal year end (MM-DD)")
	cmd.Flags().StringSliceVar(&f.regulatory, "regulatory", nil, "regulatory requirement tags")
	cmd.Flags().BoolVar(&f.multiLocation, "multi-location", false, "organization has multiple locations")
	cmd.Flags().StringVar(&f.parentOrg, "parent", "", "parent organization id")
}

func (f *contextFlags) context(orgID string) *model.OrganizationContext {
	return &model.OrganizationContext{
		OrganizationID:         orgID,
		Country:                f.orgCountry,
		Industry:               f.orgIndustry,
		Status:                 model.OrgStatus(f.status),
		HasTransactions:        f.hasTransactions,
		FiscalYearEnd:          f.fiscalYearEnd,
		RegulatoryRequirements: f.regulatory,
		MultiLocation:          f.multiLocation,
		ParentOrganization:     f.parentOrg,
	}
}

func newValidateCommand() *cobra.Command {
	var repoDir string
	req := &requestFlags{}
	orgCtx := &contextFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a template assignment without persisting it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			svc, err := ws.service()
			if err != nil {
				return err
			}

			result := svc.ValidateAssignment(req.request(), orgCtx.context(req.orgID))
			printResult(result)

			if result.HasBlockingErrors() {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "workspace directory")
	req.register(cmd)
	orgCtx.register(cmd)

	return cmd
}

func printResult(result *model.ValidationResult) {
	for _, e := range result.Errors {
		fmt.Printf("error [%s] %s: %s\n", e.Severity, e.RuleID, e.Message)
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning %s: %s\n", w.RuleID, w.Message)
		if w.Suggestion != "" {
			fmt.Printf("  suggestion: %s\n", w.Suggestion)
		}
	}
	for _, r := range result.Recommendations {
		fmt.Printf("recommendation %s: %s\n", r.RuleID, r.Message)
		if r.Benefit != "" {
			fmt.Printf("  benefit: %s\n", r.Benefit)
		}
	}
	fmt.Println(rules.Summarize(result))
}
