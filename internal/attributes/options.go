package attributes

// Catalogue lists the selectable values for each form field.
type Catalogue struct {
	BuildingTypes     []string `json:"building_types"`
	PropertyTypes     []string `json:"property_types"`
	Tenures           []string `json:"tenures"`
	ConstructionAges  []string `json:"construction_ages"`
	PrimaryFuels      []string `json:"primary_fuels"`
	HeatingSystems    []string `json:"heating_systems"`
	GlazingTypes      []string `json:"glazing_types"`
	WallDescriptions  []string `json:"wall_descriptions"`
	RoofDescriptions  []string `json:"roof_descriptions"`
	FloorDescriptions []string `json:"floor_descriptions"`
}

// ConstructionAges is ordered oldest first.
var ConstructionAges = []string{
	"Before 1900",
	"1900-1929",
	"1930-1949",
	"1950-1966",
	"1967-1975",
	"1976-1982",
	"1983-1990",
	"1991-1995",
	"1996-2002",
	"2003-2006",
	"2007-2011",
	"2012 onwards",
}

var HeatingSystems = []string{
	"Boiler and radiators (mains gas)",
	"Boiler and radiators (oil)",
	"Boiler and radiators (LPG)",
	"Electric storage heaters",
	"Electric panel heaters",
	"Heat pump (air source)",
	"Heat pump (ground source)",
	"District heating",
	"Warm air system",
	"Room heaters (gas)",
	"Room heaters (electric)",
}

// Options returns a fresh copy of every catalogue so callers may not mutate
// the package-level lists.
func Options() Catalogue {
	return Catalogue{
		BuildingTypes: []string{
			"Semi-detached",
			"Mid-terrace",
			"Detached",
			"End-terrace",
			"Enclosed mid-terrace",
			"Enclosed end-terrace",
		},
		PropertyTypes: []string{"House", "Bungalow", "Flat", "Maisonette"},
		Tenures: []string{
			"Owner-occupied",
			"Rented (private)",
			"Rented (social)",
			"Unknown",
		},
		ConstructionAges: append([]string(nil), ConstructionAges...),
		PrimaryFuels: []string{
			"Mains gas",
			"Electricity",
			"Oil",
			"LPG",
			"Wood chips",
			"Dual fuel (mineral + wood)",
		},
		HeatingSystems: append([]string(nil), HeatingSystems...),
		GlazingTypes: []string{
			"Double glazing, unknown install date",
			"Double glazing installed during or after 2002",
			"Double glazing installed before 2002",
			"Triple glazing",
			"Single glazing",
			"Secondary glazing",
		},
		WallDescriptions: []string{
			"Cavity wall, filled cavity",
			"Cavity wall, unfilled cavity",
			"Solid brick, as built, no insulation (assumed)",
			"Solid brick, with external insulation",
			"Solid brick, with internal insulation",
			"Timber frame, insulated",
			"System built, as built",
		},
		RoofDescriptions: []string{
			"Pitched, 270 mm loft insulation",
			"Pitched, 200 mm loft insulation",
			"Pitched, 100 mm loft insulation",
			"Pitched, 50 mm loft insulation",
			"Pitched, no insulation (assumed)",
			"Flat, limited insulation",
			"Flat, insulated",
			"Room-in-roof, insulated",
			"Room-in-roof, no insulation",
		},
		FloorDescriptions: []string{
			"Suspended, no insulation (assumed)",
			"Suspended, insulated",
			"Solid, no insulation (assumed)",
			"Solid, insulated",
			"To external air, no insulation",
			"To unheated space, no insulation",
		},
	}
}
