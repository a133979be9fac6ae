package rules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/heraerp/coa/internal/model"
)

// Rule IDs emitted by the structural validator.
const (
	RuleRequiredAccountMissing = "required_account_missing"
	RuleDuplicateAccountCode   = "duplicate_account_code"
	RuleNormalBalanceMismatch  = "normal_balance_convention"
	RuleTaxRateRange           = "tax_rate_range"
)

// requiredAccounts maps every account code a merged chart must contain to
// the severity of its absence. Cash and payables are non-negotiable.
var requiredAccounts = map[string]model.Severity{
	"1100000": model.SeverityCritical,
	"1200000": model.SeverityHigh,
	"2100000": model.SeverityCritical,
	"3100000": model.SeverityHigh,
	"3300000": model.SeverityHigh,
	"4100000": model.SeverityHigh,
	"5000000": model.SeverityHigh,
}

// RequiredAccountCodes lists the codes every chart must define, sorted.
func RequiredAccountCodes() []string {
	return []string{"1100000", "1200000", "2100000", "3100000", "3300000", "4100000", "5000000"}
}

// ValidateAccountStructure checks a merged account list independently of the
// rule engine: required accounts present, no duplicate codes, and the
// numeric-range normal balance convention. A balance mismatch is a warning
// only, since custom charts may deviate deliberately.
func ValidateAccountStructure(accounts []model.Account) *model.ValidationResult {
	result := &model.ValidationResult{Valid: true}

	byCode := make(map[string]int, len(accounts))
	for _, a := range accounts {
		byCode[a.Code]++
	}

	for _, code := range RequiredAccountCodes() {
		if byCode[code] == 0 {
			result.AddError(model.ValidationError{
				RuleID:   RuleRequiredAccountMissing,
				Message:  fmt.Sprintf("required account %s is missing", code),
				Severity: requiredAccounts[code],
				Field:    "code",
			})
		}
	}

	reported := make(map[string]bool)
	for _, a := range accounts {
		if byCode[a.Code] > 1 && !reported[a.Code] {
			reported[a.Code] = true
			result.AddError(model.ValidationError{
				RuleID:   RuleDuplicateAccountCode,
				Message:  fmt.Sprintf("account code %s appears %d times", a.Code, byCode[a.Code]),
				Severity: model.SeverityCritical,
				Field:    "code",
			})
		}

		if expected, ok := model.ExpectedNormalBalance(a.Code); ok && a.NormalBalance != "" && a.NormalBalance != expected {
			result.Warnings = append(result.Warnings, model.ValidationWarning{
				RuleID:     RuleNormalBalanceMismatch,
				Message:    fmt.Sprintf("account %s has normal balance %s, expected %s for its code range", a.Code, a.NormalBalance, expected),
				Suggestion: fmt.Sprintf("set normal_balance to %q or move the account into a matching code range", expected),
			})
		}

		if a.TaxRate != nil && (a.TaxRate.IsNegative() || a.TaxRate.GreaterThan(decimal.NewFromInt(1))) {
			result.Warnings = append(result.Warnings, model.ValidationWarning{
				RuleID:     RuleTaxRateRange,
				Message:    fmt.Sprintf("account %s has tax rate %s outside [0, 1]", a.Code, a.TaxRate),
				Suggestion: "express tax rates as a fraction, e.g. 0.18 for 18%",
			})
		}
	}

	result.Valid = !result.HasBlockingErrors()
	return result
}
