package templates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/heraerp/coa/internal/model"
)

// InstallDefaults writes the default template set into a template directory
// laid out as base/, countries/, and industries/. Used by `coa init` and by
// test fixtures.
func InstallDefaults(dir string) error {
	write := func(rel string, t *model.Template) error {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(rel), err)
		}
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", rel, err)
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
		return nil
	}

	if err := write(filepath.Join(baseDir, baseFile), DefaultBase()); err != nil {
		return err
	}
	for code, t := range DefaultCountries() {
		if err := write(filepath.Join(countriesDir, code+".json"), t); err != nil {
			return err
		}
	}
	for code, t := range DefaultIndustries() {
		if err := write(filepath.Join(industryDir, code+".json"), t); err != nil {
			return err
		}
	}
	return nil
}

// DefaultBase returns the universal base template shipped with a new
// workspace. Every required account code lives here.
func DefaultBase() *model.Template {
	return &model.Template{
		ID:      model.BaseTemplateID,
		Name:    "Universal Base Chart of Accounts",
		Version: "1.0",
		AccountStructure: map[string]any{
			"assets": map[string]any{
				"range": "1000000-1999999",
				"current_assets": map[string]any{
					"accounts": []model.Account{
						{Code: "1100000", Name: "Cash and Cash Equivalents", Type: model.AccountTypeAssets, Subtype: "current_assets", NormalBalance: model.BalanceDebit, Required: true, Description: "Operating cash and bank balances"},
						{Code: "1200000", Name: "Accounts Receivable", Type: model.AccountTypeAssets, Subtype: "current_assets", NormalBalance: model.BalanceDebit, Required: true, Description: "Amounts owed by customers"},
						{Code: "1300000", Name: "Inventory", Type: model.AccountTypeAssets, Subtype: "current_assets", NormalBalance: model.BalanceDebit},
					},
				},
				"fixed_assets": map[string]any{
					"accounts": []model.Account{
						{Code: "1500000", Name: "Property, Plant and Equipment", Type: model.AccountTypeAssets, Subtype: "fixed_assets", NormalBalance: model.BalanceDebit},
					},
				},
			},
			"liabilities": map[string]any{
				"range": "2000000-2999999",
				"current_liabilities": map[string]any{
					"accounts": []model.Account{
						{Code: "2100000", Name: "Accounts Payable", Type: model.AccountTypeLiabilities, Subtype: "current_liabilities", NormalBalance: model.BalanceCredit, Required: true, Description: "Amounts owed to suppliers"},
						{Code: "2200000", Name: "Accrued Liabilities", Type: model.AccountTypeLiabilities, Subtype: "current_liabilities", NormalBalance: model.BalanceCredit},
					},
				},
			},
			"equity": map[string]any{
				"range": "3000000-3999999",
				"capital": map[string]any{
					"accounts": []model.Account{
						{Code: "3100000", Name: "Owner's Capital", Type: model.AccountTypeEquity, Subtype: "capital", NormalBalance: model.BalanceCredit, Required: true},
						{Code: "3300000", Name: "Retained Earnings", Type: model.AccountTypeEquity, Subtype: "capital", NormalBalance: model.BalanceCredit, Required: true},
					},
				},
			},
			"revenue": map[string]any{
				"range": "4000000-4999999",
				"operating_revenue": map[string]any{
					"accounts": []model.Account{
						{Code: "4100000", Name: "Sales Revenue", Type: model.AccountTypeRevenue, Subtype: "operating_revenue", NormalBalance: model.BalanceCredit, Required: true},
						{Code: "4400000", Name: "Other Income", Type: model.AccountTypeRevenue, Subtype: "operating_revenue", NormalBalance: model.BalanceCredit},
					},
				},
			},
			"expenses": map[string]any{
				"range": "5000000-5999999",
				"cost_of_sales": map[string]any{
					"accounts": []model.Account{
						{Code: "5000000", Name: "Cost of Goods Sold", Type: model.AccountTypeExpenses, Subtype: "cost_of_sales", NormalBalance: model.BalanceDebit, Required: true},
					},
				},
				"operating_expenses": map[string]any{
					"accounts": []model.Account{
						{Code: "5100000", Name: "Salaries and Wages", Type: model.AccountTypeExpenses, Subtype: "operating_expenses", NormalBalance: model.BalanceDebit},
						{Code: "5200000", Name: "Rent Expense", Type: model.AccountTypeExpenses, Subtype: "operating_expenses", NormalBalance: model.BalanceDebit},
					},
				},
			},
		},
	}
}

// DefaultCountries returns the country overlays shipped with a new
// workspace, keyed by country code.
func DefaultCountries() map[string]*model.Template {
	return map[string]*model.Template{
		"india": {
			ID:      "country_india",
			Name:    "India Statutory Accounts",
			Version: "1.0",
			Extends: model.BaseTemplateID,
			Country: "india",
			CountrySpecificAccounts: map[string][]model.Account{
				"tax_accounts": {
					{Code: "2150000", Name: "GST Payable", Type: model.AccountTypeLiabilities, Subtype: "current_liabilities", NormalBalance: model.BalanceCredit, Required: true, RegulatoryRequirement: "gst_compliance", TaxRate: rate("0.18")},
					{Code: "1150000", Name: "GST Input Credit", Type: model.AccountTypeAssets, Subtype: "current_assets", NormalBalance: model.BalanceDebit, RegulatoryRequirement: "gst_compliance", TaxRate: rate("0.18")},
					{Code: "2160000", Name: "TDS Payable", Type: model.AccountTypeLiabilities, Subtype: "current_liabilities", NormalBalance: model.BalanceCredit, RegulatoryRequirement: "tds_compliance", TaxRate: rate("0.10")},
				},
			},
		},
		"usa": {
			ID:      "country_usa",
			Name:    "United States Statutory Accounts",
			Version: "1.0",
			Extends: model.BaseTemplateID,
			Country: "usa",
			CountrySpecificAccounts: map[string][]model.Account{
				"tax_accounts": {
					{Code: "2150000", Name: "Sales Tax Payable", Type: model.AccountTypeLiabilities, Subtype: "current_liabilities", NormalBalance: model.BalanceCredit, RegulatoryRequirement: "sales_tax"},
					{Code: "2170000", Name: "Payroll Tax Payable", Type: model.AccountTypeLiabilities, Subtype: "current_liabilities", NormalBalance: model.BalanceCredit, RegulatoryRequirement: "payroll_tax"},
				},
			},
		},
	}
}

// DefaultIndustries returns the industry overlays shipped with a new
// workspace, keyed by industry code.
func DefaultIndustries() map[string]*model.Template {
	return map[string]*model.Template{
		"restaurant": {
			ID:       "industry_restaurant",
			Name:     "Restaurant Operations",
			Version:  "1.0",
			Extends:  model.BaseTemplateID,
			Industry: "restaurant",
			IndustrySpecificAccounts: map[string][]model.Account{
				"operations": {
					{Code: "1310000", Name: "Food Inventory", Type: model.AccountTypeAssets, Subtype: "current_assets", NormalBalance: model.BalanceDebit},
					{Code: "1320000", Name: "Beverage Inventory", Type: model.AccountTypeAssets, Subtype: "current_assets", NormalBalance: model.BalanceDebit},
					{Code: "4110000", Name: "Food Sales", Type: model.AccountTypeRevenue, Subtype: "operating_revenue", NormalBalance: model.BalanceCredit},
					{Code: "5010000", Name: "Food Cost", Type: model.AccountTypeExpenses, Subtype: "cost_of_sales", NormalBalance: model.BalanceDebit},
				},
			},
		},
		"salon": {
			ID:       "industry_salon",
			Name:     "Salon and Spa Operations",
			Version:  "1.0",
			Extends:  model.BaseTemplateID,
			Industry: "salon",
			IndustrySpecificAccounts: map[string][]model.Account{
				"operations": {
					{Code: "4120000", Name: "Service Revenue", Type: model.AccountTypeRevenue, Subtype: "operating_revenue", NormalBalance: model.BalanceCredit},
					{Code: "4130000", Name: "Product Sales", Type: model.AccountTypeRevenue, Subtype: "operating_revenue", NormalBalance: model.BalanceCredit},
					{Code: "5020000", Name: "Product Cost", Type: model.AccountTypeExpenses, Subtype: "cost_of_sales", NormalBalance: model.BalanceDebit},
				},
			},
		},
		"healthcare": {
			ID:       "industry_healthcare",
			Name:     "Healthcare Practice",
			Version:  "1.0",
			Extends:  model.BaseTemplateID,
			Industry: "healthcare",
			IndustrySpecificAccounts: map[string][]model.Account{
				"operations": {
					{Code: "1210000", Name: "Patient Receivables", Type: model.AccountTypeAssets, Subtype: "current_assets", NormalBalance: model.BalanceDebit},
					{Code: "1220000", Name: "Insurance Receivables", Type: model.AccountTypeAssets, Subtype: "current_assets", NormalBalance: model.BalanceDebit},
					{Code: "4140000", Name: "Consultation Revenue", Type: model.AccountTypeRevenue, Subtype: "operating_revenue", NormalBalance: model.BalanceCredit},
				},
			},
		},
	}
}

func rate(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
