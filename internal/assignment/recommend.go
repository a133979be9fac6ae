package assignment

import "strings"

// Profile carries free-text country and industry hints from an organization
// profile.
type Profile struct {
	Country  string
	Industry string
}

// Recommendation maps a profile to template ids with the rationale for each
// pick.
type Recommendation struct {
	CountryTemplate  string   `json:"country_template,omitempty"`
	IndustryTemplate string   `json:"industry_template,omitempty"`
	Rationale        []string `json:"rationale"`
}

var countryHints = []struct {
	keywords []string
	template string
	reason   string
}{
	{[]string{"india", "in"}, "india", "GST and TDS statutory accounts are required for Indian entities"},
	{[]string{"usa", "us", "united states", "america"}, "usa", "Sales and payroll tax accounts are standard for US entities"},
}

var industryHints = []struct {
	keywords []string
	template string
	reason   string
}{
	{[]string{"restaurant", "food", "cafe", "dining"}, "restaurant", "Food and beverage inventory plus cost tracking"},
	{[]string{"salon", "spa", "beauty", "barber"}, "salon", "Service and retail product revenue split"},
	{[]string{"health", "clinic", "medical", "dental"}, "healthcare", "Patient and insurance receivable separation"},
}

// RecommendTemplates is a pure lookup from profile hints to template ids.
// Unrecognized hints leave the corresponding template empty.
func RecommendTemplates(profile Profile) Recommendation {
	rec := Recommendation{}

	country := strings.ToLower(strings.TrimSpace(profile.Country))
	for _, h := range countryHints {
		if matchesHint(country, h.keywords) {
			rec.CountryTemplate = h.template
			rec.Rationale = append(rec.Rationale, h.reason)
			break
		}
	}

	industry := strings.ToLower(strings.TrimSpace(profile.Industry))
	for _, h := range industryHints {
		if matchesHint(industry, h.keywords) {
			rec.IndustryTemplate = h.template
			rec.Rationale = append(rec.Rationale, h.reason)
			break
		}
	}

	if len(rec.Rationale) == 0 {
		rec.Rationale = append(rec.Rationale, "No template matches the profile; the universal base applies on its own")
	}
	return rec
}

func matchesHint(value string, keywords []string) bool {
	if value == "" {
		return false
	}
	for _, k := range keywords {
		if value == k || (len(k) > 2 && strings.Contains(value, k)) {
			return true
		}
	}
	return false
}
