// internal/directory/listing/models.go
package listing

import "town-connect/internal/directory/sector"

// Tier is a listing's paid visibility level.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
	TierGold     Tier = "gold"
)

// ParseTier maps free text to a known tier, defaulting to standard.
func ParseTier(s string) Tier {
	switch Tier(normalize(s)) {
	case TierPremium:
		return TierPremium
	case TierGold:
		return TierGold
	default:
		return TierStandard
	}
}

// BusinessRecord is one directory entry built from one spreadsheet row.
//
// Name is always non-empty: rows without a usable name never become
// records. SectorID is always a member of the closed sector set. Lat/Lng
// are nil when absent or unparseable; 0,0 is a real coordinate and must
// not stand in for "missing".
type BusinessRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SectorID    sector.ID `json:"sectorId"`
	Subcategory string    `json:"subcategory,omitempty"`
	Description string    `json:"description,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	WhatsApp    string    `json:"whatsapp,omitempty"`
	Email       string    `json:"email,omitempty"`
	Website     string    `json:"website,omitempty"`
	Facebook    string    `json:"facebook,omitempty"`
	Instagram   string    `json:"instagram,omitempty"`
	Address     string    `json:"address,omitempty"`
	Town        string    `json:"town,omitempty"`
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Tier        Tier      `json:"tier"`
	IsFeatured  bool      `json:"isFeatured"`
	Tags        []string  `json:"tags,omitempty"`
}

// EmergencyService is one row of the fixed-position emergency dataset.
type EmergencyService struct {
	ID             string `json:"id"`
	Town           string `json:"town,omitempty"`
	Province       string `json:"province,omitempty"`
	Category       string `json:"category,omitempty"`
	ServiceName    string `json:"serviceName"`
	PrimaryPhone   string `json:"primaryPhone,omitempty"`
	SecondaryPhone string `json:"secondaryPhone,omitempty"`
	WhatsApp       string `json:"whatsapp,omitempty"`
	USSD           string `json:"ussd,omitempty"`
	Email          string `json:"email,omitempty"`
	Hours          string `json:"hours,omitempty"`
	CoverageArea   string `json:"coverageArea,omitempty"`
}
