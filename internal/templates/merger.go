package templates

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/heraerp/coa/internal/model"
)

// Merger combines up to three template layers (base, country, industry) into
// one deduplicated, code-sorted account list.
type Merger struct {
	store *Store
}

// NewMerger creates a Merger backed by a template store.
func NewMerger(store *Store) *Merger {
	return &Merger{store: store}
}

// MergeSummary counts accounts in a merged chart.
type MergeSummary struct {
	TotalAccounts    int `json:"total_accounts"`
	RequiredAccounts int `json:"required_accounts"`
	CountrySpecific  int `json:"country_specific"`
	IndustrySpecific int `json:"industry_specific"`
}

// MergedChart is the result of merging template layers. Layers lists the
// layer names actually applied, in application order.
type MergedChart struct {
	Accounts []model.Account `json:"accounts"`
	Layers   []string        `json:"layers"`
	Summary  MergeSummary    `json:"summary"`
}

// CompatibilityReport is the outcome of a post-merge duplicate check.
type CompatibilityReport struct {
	Valid     bool     `json:"valid"`
	Conflicts []string `json:"conflicts"`
	Warnings  []string `json:"warnings"`
}

// BuildMergedCoa merges the base template with optional country and industry
// overlays. On a code collision the later layer shallow-merges over the
// earlier one, so industry wins over country wins over base. Empty codes skip
// the corresponding layer.
func (m *Merger) BuildMergedCoa(countryCode, industryCode string) (*MergedChart, error) {
	base, err := m.store.BaseTemplate()
	if err != nil {
		return nil, err
	}

	baseAccounts, err := ExtractAccounts(base.AccountStructure)
	if err != nil {
		return nil, fmt.Errorf("extracting base accounts: %w", err)
	}

	merged := make(map[string]map[string]any, len(baseAccounts))
	var order []string
	apply := func(accounts []map[string]any) {
		for _, acct := range accounts {
			code, _ := acct["code"].(string)
			if code == "" {
				continue
			}
			existing, ok := merged[code]
			if !ok {
				merged[code] = acct
				order = append(order, code)
				continue
			}
			for k, v := range acct {
				existing[k] = v
			}
		}
	}

	apply(baseAccounts)
	layers := []string{model.LayerBase}

	if countryCode != "" {
		country, err := m.store.CountryTemplate(countryCode)
		if err != nil {
			return nil, err
		}
		if country != nil {
			accts, err := overlayMaps(country.OverlayAccounts(), "country_specific")
			if err != nil {
				return nil, fmt.Errorf("extracting country accounts: %w", err)
			}
			apply(accts)
			layers = append(layers, model.LayerCountryPref+countryCode)
		}
	}

	if industryCode != "" {
		industry, err := m.store.IndustryTemplate(industryCode)
		if err != nil {
			return nil, err
		}
		if industry != nil {
			accts, err := overlayMaps(industry.OverlayAccounts(), "industry_specific")
			if err != nil {
				return nil, fmt.Errorf("extracting industry accounts: %w", err)
			}
			apply(accts)
			layers = append(layers, model.LayerIndustryPref+industryCode)
		}
	}

	sort.Strings(order)
	accounts := make([]model.Account, 0, len(order))
	for _, code := range order {
		acct, err := toAccount(merged[code])
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", code, err)
		}
		accounts = append(accounts, acct)
	}

	chart := &MergedChart{Accounts: accounts, Layers: layers}
	for _, a := range accounts {
		chart.Summary.TotalAccounts++
		if a.Required {
			chart.Summary.RequiredAccounts++
		}
		if a.CountrySpecific {
			chart.Summary.CountrySpecific++
		}
		if a.IndustrySpecific {
			chart.Summary.IndustrySpecific++
		}
	}
	return chart, nil
}

// ValidateCompatibility merges the given layers and reports duplicate
// account codes. Override-on-collision makes post-merge duplicates
// impossible, so this guards against duplicates inside a single layer and
// reports requested-but-missing layers as warnings.
func (m *Merger) ValidateCompatibility(countryCode, industryCode string) (*CompatibilityReport, error) {
	report := &CompatibilityReport{Valid: true}

	base, err := m.store.BaseTemplate()
	if err != nil {
		return nil, err
	}
	baseAccounts, err := ExtractAccounts(base.AccountStructure)
	if err != nil {
		return nil, fmt.Errorf("extracting base accounts: %w", err)
	}
	checkLayerDuplicates(report, model.LayerBase, codesOf(baseAccounts))

	if countryCode != "" {
		country, err := m.store.CountryTemplate(countryCode)
		if err != nil {
			return nil, err
		}
		if country == nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("country template %q not installed; layer skipped", countryCode))
		} else {
			checkLayerDuplicates(report, model.LayerCountryPref+countryCode, accountCodes(country.OverlayAccounts()))
		}
	}

	if industryCode != "" {
		industry, err := m.store.IndustryTemplate(industryCode)
		if err != nil {
			return nil, err
		}
		if industry == nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("industry template %q not installed; layer skipped", industryCode))
		} else {
			checkLayerDuplicates(report, model.LayerIndustryPref+industryCode, accountCodes(industry.OverlayAccounts()))
		}
	}

	// Cross-check the merged result as well.
	chart, err := m.BuildMergedCoa(countryCode, industryCode)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(chart.Accounts))
	for _, a := range chart.Accounts {
		if seen[a.Code] {
			report.Valid = false
			report.Conflicts = append(report.Conflicts,
				fmt.Sprintf("duplicate account code %s in merged chart", a.Code))
		}
		seen[a.Code] = true
	}
	return report, nil
}

// ExtractAccounts walks a nested account_structure and collects every
// accounts array at any depth. Sections nest arbitrarily by type and
// subtype; any key other than "accounts" and "range" whose value is an
// object is recursed into. Top-level sections are visited in sorted key
// order so extraction is deterministic.
func ExtractAccounts(structure map[string]any) ([]map[string]any, error) {
	var out []map[string]any
	if err := extractInto(structure, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func extractInto(node map[string]any, out *[]map[string]any) error {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch k {
		case "accounts":
			accts, err := accountMaps(node[k])
			if err != nil {
				return err
			}
			*out = append(*out, accts...)
		case "range":
			// Range annotations carry no accounts.
		default:
			if child, ok := node[k].(map[string]any); ok {
				if err := extractInto(child, out); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// accountMaps normalizes any accounts representation (decoded JSON arrays or
// typed []model.Account from in-memory defaults) to a slice of field maps.
func accountMaps(v any) ([]map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling accounts: %w", err)
	}
	var accts []map[string]any
	if err := json.Unmarshal(data, &accts); err != nil {
		return nil, fmt.Errorf("parsing accounts array: %w", err)
	}
	return accts, nil
}

func overlayMaps(accounts []model.Account, tag string) ([]map[string]any, error) {
	accts, err := accountMaps(accounts)
	if err != nil {
		return nil, err
	}
	for _, a := range accts {
		a[tag] = true
	}
	return accts, nil
}

func toAccount(fields map[string]any) (model.Account, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return model.Account{}, fmt.Errorf("marshaling account fields: %w", err)
	}
	var a model.Account
	if err := json.Unmarshal(data, &a); err != nil {
		return model.Account{}, fmt.Errorf("parsing account: %w", err)
	}
	return a, nil
}

func codesOf(accounts []map[string]any) []string {
	codes := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if code, ok := a["code"].(string); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

func accountCodes(accounts []model.Account) []string {
	codes := make([]string, 0, len(accounts))
	for _, a := range accounts {
		codes = append(codes, a.Code)
	}
	return codes
}

func checkLayerDuplicates(report *CompatibilityReport, layer string, codes []string) {
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			report.Valid = false
			report.Conflicts = append(report.Conflicts,
				fmt.Sprintf("duplicate account code %s within layer %s", code, layer))
		}
		seen[code] = true
	}
}
