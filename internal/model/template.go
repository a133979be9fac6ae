package model

import (
	"sort"
	"time"
)

// Template layer keys used by the store cache and merge metadata.
const (
	BaseTemplateID    = "universal_base"
	LayerBase         = "universal_base"
	LayerCountryPref  = "country_"
	LayerIndustryPref = "industry_"
)

// Template is one loaded template document. The base template nests its
// accounts under AccountStructure (type -> subtype -> accounts); country and
// industry overlays carry flat account arrays grouped by section name.
// Templates are immutable once loaded.
type Template struct {
	ID       string `json:"template_id"`
	Name     string `json:"template_name"`
	Version  string `json:"version"`
	Extends  string `json:"extends,omitempty"`
	Country  string `json:"country,omitempty"`
	Industry string `json:"industry,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`

	AccountStructure         map[string]any       `json:"account_structure,omitempty"`
	CountrySpecificAccounts  map[string][]Account `json:"country_specific_accounts,omitempty"`
	IndustrySpecificAccounts map[string][]Account `json:"industry_specific_accounts,omitempty"`
}

// OverlayAccounts returns the flat accounts of a country or industry
// template, in stable section order.
func (t *Template) OverlayAccounts() []Account {
	sections := t.CountrySpecificAccounts
	if len(sections) == 0 {
		sections = t.IndustrySpecificAccounts
	}
	if len(sections) == 0 {
		return nil
	}
	keys := make([]string, 0, len(sections))
	for k := range sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var accounts []Account
	for _, k := range keys {
		accounts = append(accounts, sections[k]...)
	}
	return accounts
}
