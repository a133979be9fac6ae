package model

// OrgStatus is the lifecycle stage of an organization.
type OrgStatus string

const (
	OrgStatusSetup  OrgStatus = "setup"
	OrgStatusActive OrgStatus = "active"
	OrgStatusLive   OrgStatus = "live"
)

// OrganizationContext is the per-evaluation snapshot of an organization
// supplied by the caller. It is transient and never persisted here.
type OrganizationContext struct {
	OrganizationID         string    `json:"organization_id"`
	Country                string    `json:"country,omitempty"`
	Industry               string    `json:"industry,omitempty"`
	Status                 OrgStatus `json:"status"`
	HasTransactions        bool      `json:"has_transactions"`
	FiscalYearEnd          string    `json:"fiscal_year_end,omitempty"` // "MM-DD"
	RegulatoryRequirements []string  `json:"regulatory_requirements,omitempty"`
	MultiLocation          bool      `json:"multi_location"`
	ParentOrganization     string    `json:"parent_organization,omitempty"`
}

// HasRegulatoryRequirement reports whether the context carries a tag.
func (c *OrganizationContext) HasRegulatoryRequirement(tag string) bool {
	for _, t := range c.RegulatoryRequirements {
		if t == tag {
			return true
		}
	}
	return false
}
