// Package tenant resolves which town's configuration is active for a
// request and loads the per-town config files backing that choice.
package tenant

import "town-connect/internal/directory/listing"

// SheetURLs points at the published CSV exports backing one tenant.
type SheetURLs struct {
	Businesses string `json:"businesses"`
	Emergency  string `json:"emergency,omitempty"`
	Ledger     string `json:"ledger,omitempty"`
}

// Branding carries the presentation knobs the frontend reads verbatim.
type Branding struct {
	DisplayName    string `json:"displayName"`
	Tagline        string `json:"tagline,omitempty"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	LogoURL        string `json:"logoUrl,omitempty"`
}

// MapView is the initial map viewport for the tenant's town.
type MapView struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

// TierPricing is the monthly listing price per tier in rand.
type TierPricing struct {
	Standard float64 `json:"standard"`
	Premium  float64 `json:"premium"`
	Gold     float64 `json:"gold"`
}

// Config describes one town's data scope, branding, and pricing. It is
// resolved once per request and read-only afterwards.
type Config struct {
	Slug     string      `json:"slug"`
	Town     string      `json:"town"`
	Domains  []string    `json:"domains,omitempty"`
	Sheets   SheetURLs   `json:"sheets"`
	Branding Branding    `json:"branding"`
	Map      MapView     `json:"map"`
	Pricing  TierPricing `json:"pricing"`
	WhatsApp string      `json:"whatsapp,omitempty"`

	// Static content arrays served as-is until these datasets move to
	// sheets of their own. Empty for every current tenant.
	Jobs          []map[string]interface{} `json:"jobs"`
	Events        []map[string]interface{} `json:"events"`
	Classifieds   []map[string]interface{} `json:"classifieds"`
	Properties    []map[string]interface{} `json:"properties"`
	Announcements []map[string]interface{} `json:"announcements"`
}

// PriceFor returns the monthly price for a listing tier.
func (c *Config) PriceFor(tier listing.Tier) float64 {
	switch tier {
	case listing.TierPremium:
		return c.Pricing.Premium
	case listing.TierGold:
		return c.Pricing.Gold
	default:
		return c.Pricing.Standard
	}
}
