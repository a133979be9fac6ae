package model

import "github.com/shopspring/decimal"

// AccountType classifies accounts in a chart of accounts.
type AccountType string

const (
	AccountTypeAssets      AccountType = "assets"
	AccountTypeLiabilities AccountType = "liabilities"
	AccountTypeEquity      AccountType = "equity"
	AccountTypeRevenue     AccountType = "revenue"
	AccountTypeExpenses    AccountType = "expenses"
)

// NormalBalance is the side on which an account's balance increases.
type NormalBalance string

const (
	BalanceDebit  NormalBalance = "debit"
	BalanceCredit NormalBalance = "credit"
)

// Account is one entry in a chart-of-accounts template layer.
type Account struct {
	Code                  string           `json:"code"`
	Name                  string           `json:"name"`
	Type                  AccountType      `json:"type,omitempty"`
	Subtype               string           `json:"subtype,omitempty"`
	NormalBalance         NormalBalance    `json:"normal_balance,omitempty"`
	Required              bool             `json:"required,omitempty"`
	Description           string           `json:"description,omitempty"`
	CountrySpecific       bool             `json:"country_specific,omitempty"`
	IndustrySpecific      bool             `json:"industry_specific,omitempty"`
	RegulatoryRequirement string           `json:"regulatory_requirement,omitempty"`
	TaxRate               *decimal.Decimal `json:"tax_rate,omitempty"`
}

// ExpectedNormalBalance returns the normal balance implied by the leading
// digit of an account code (1=assets/debit, 2=liabilities/credit,
// 3=equity/credit, 4=revenue/credit, 5=expenses/debit). The second return is
// false when the code does not start with a recognized range digit.
func ExpectedNormalBalance(code string) (NormalBalance, bool) {
	if code == "" {
		return "", false
	}
	switch code[0] {
	case '1', '5':
		return BalanceDebit, true
	case '2', '3', '4':
		return BalanceCredit, true
	default:
		return "", false
	}
}
