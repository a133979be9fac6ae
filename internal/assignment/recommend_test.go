package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendTemplates(t *testing.T) {
	tests := []struct {
		name         string
		profile      Profile
		wantCountry  string
		wantIndustry string
	}{
		{"exact match", Profile{Country: "india", Industry: "restaurant"}, "india", "restaurant"},
		{"mixed case and spacing", Profile{Country: "  India ", Industry: "Fine Dining"}, "india", "restaurant"},
		{"country code", Profile{Country: "us"}, "usa", ""},
		{"keyword substring", Profile{Country: "united states of america", Industry: "dental clinic"}, "usa", "healthcare"},
		{"salon keywords", Profile{Industry: "beauty spa"}, "", "salon"},
		{"unrecognized", Profile{Country: "atlantis", Industry: "mining"}, "", ""},
		{"empty", Profile{}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := RecommendTemplates(tt.profile)
			assert.Equal(t, tt.wantCountry, rec.CountryTemplate)
			assert.Equal(t, tt.wantIndustry, rec.IndustryTemplate)
			require.NotEmpty(t, rec.Rationale, "every recommendation explains itself")
		})
	}
}

func TestRecommendTemplatesRationale(t *testing.T) {
	rec := RecommendTemplates(Profile{Country: "india", Industry: "restaurant"})
	assert.Len(t, rec.Rationale, 2)

	rec = RecommendTemplates(Profile{})
	require.Len(t, rec.Rationale, 1)
	assert.Contains(t, rec.Rationale[0], "universal base")
}
