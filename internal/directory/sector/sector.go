// Package sector classifies directory rows into the fixed set of business
// sectors shared by every town.
package sector

import "strings"

// ID is a canonical sector identifier.
type ID string

const (
	HomeServices         ID = "home-services"
	Automotive           ID = "automotive"
	HealthWellness       ID = "health-wellness"
	BeautyLifestyle      ID = "beauty-lifestyle"
	FoodDining           ID = "food-dining"
	RetailShopping       ID = "retail-shopping"
	ProfessionalServices ID = "professional-services"
	ConstructionHardware ID = "construction-hardware"
	AgricultureFarming   ID = "agriculture-farming"
	TourismHospitality   ID = "tourism-hospitality"
	EducationTraining    ID = "education-training"
	TransportLogistics   ID = "transport-logistics"
	CommunityFaith       ID = "community-faith"
	InformalServices     ID = "informal-services"
)

// Default is the sector used when no classification signal applies.
const Default = InformalServices

// All lists every sector in display order.
var All = []ID{
	HomeServices,
	Automotive,
	HealthWellness,
	BeautyLifestyle,
	FoodDining,
	RetailShopping,
	ProfessionalServices,
	ConstructionHardware,
	AgricultureFarming,
	TourismHospitality,
	EducationTraining,
	TransportLogistics,
	CommunityFaith,
	InformalServices,
}

var valid = func() map[ID]bool {
	m := make(map[ID]bool, len(All))
	for _, id := range All {
		m[id] = true
	}
	return m
}()

// IsValid reports whether s names a known sector.
func IsValid(s string) bool {
	return valid[ID(s)]
}

type alias struct {
	keyword string
	sector  ID
}

// aliases maps free-text subcategory keywords to sectors. Order matters:
// the first keyword that is a substring of the subcategory wins, so more
// specific phrases ("coffee shop") must come before shorter ones that
// could also match. There is deliberately no bare "shop" entry; generic
// retail text falls through to the default sector.
var aliases = []alias{
	{"plumb", HomeServices},
	{"electric", HomeServices},
	{"handyman", HomeServices},
	{"garden", HomeServices},
	{"landscap", HomeServices},
	{"pest control", HomeServices},
	{"cleaning", HomeServices},
	{"solar", HomeServices},
	{"security", HomeServices},

	{"mechanic", Automotive},
	{"panel beat", Automotive},
	{"tyre", Automotive},
	{"car wash", Automotive},
	{"auto", Automotive},
	{"spares", Automotive},
	{"towing", Automotive},

	{"doctor", HealthWellness},
	{"clinic", HealthWellness},
	{"pharmac", HealthWellness},
	{"dentist", HealthWellness},
	{"physio", HealthWellness},
	{"optom", HealthWellness},
	{"gym", HealthWellness},
	{"fitness", HealthWellness},

	{"salon", BeautyLifestyle},
	{"barber", BeautyLifestyle},
	{"hair", BeautyLifestyle},
	{"nails", BeautyLifestyle},
	{"spa", BeautyLifestyle},
	{"beaut", BeautyLifestyle},

	{"coffee shop", FoodDining},
	{"restaurant", FoodDining},
	{"cafe", FoodDining},
	{"bakery", FoodDining},
	{"butcher", FoodDining},
	{"takeaway", FoodDining},
	{"catering", FoodDining},
	{"pub", FoodDining},

	{"boutique", RetailShopping},
	{"supermarket", RetailShopping},
	{"grocer", RetailShopping},
	{"clothing", RetailShopping},
	{"furniture", RetailShopping},

	{"accountant", ProfessionalServices},
	{"attorney", ProfessionalServices},
	{"lawyer", ProfessionalServices},
	{"insurance", ProfessionalServices},
	{"consult", ProfessionalServices},
	{"estate agent", ProfessionalServices},
	{"it support", ProfessionalServices},

	{"builder", ConstructionHardware},
	{"construction", ConstructionHardware},
	{"hardware", ConstructionHardware},
	{"brick", ConstructionHardware},
	{"paving", ConstructionHardware},
	{"roofing", ConstructionHardware},

	{"farm", AgricultureFarming},
	{"agri", AgricultureFarming},
	{"livestock", AgricultureFarming},
	{"game breed", AgricultureFarming},
	{"feed", AgricultureFarming},

	{"lodge", TourismHospitality},
	{"guest house", TourismHospitality},
	{"guesthouse", TourismHospitality},
	{"b&b", TourismHospitality},
	{"safari", TourismHospitality},
	{"camp", TourismHospitality},
	{"tour", TourismHospitality},

	{"school", EducationTraining},
	{"tutor", EducationTraining},
	{"training", EducationTraining},
	{"creche", EducationTraining},
	{"driving school", EducationTraining},

	{"taxi", TransportLogistics},
	{"shuttle", TransportLogistics},
	{"courier", TransportLogistics},
	{"transport", TransportLogistics},
	{"logistics", TransportLogistics},

	{"church", CommunityFaith},
	{"ngo", CommunityFaith},
	{"charity", CommunityFaith},
	{"welfare", CommunityFaith},
}

// Classify resolves one row to exactly one sector. The explicit sector
// column, when it names a known sector, is authoritative. Otherwise the
// first alias keyword found inside the subcategory text wins. This is
// total: it always returns a valid sector.
func Classify(explicit, subcategory string) ID {
	explicit = strings.ToLower(strings.TrimSpace(explicit))
	if valid[ID(explicit)] {
		return ID(explicit)
	}

	sub := strings.ToLower(subcategory)
	for _, a := range aliases {
		if strings.Contains(sub, a.keyword) {
			return a.sector
		}
	}

	return Default
}
