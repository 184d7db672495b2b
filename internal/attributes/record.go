package attributes

// AttributeRecord is the flat record collected by the energy form and fed to
// the local scoring engine.
type AttributeRecord struct {
	BuildingType     string  `json:"buildingType" yaml:"buildingType"`
	PropertyType     string  `json:"propertyType" yaml:"propertyType"`
	Tenure           string  `json:"tenure,omitempty" yaml:"tenure,omitempty"`
	ConstructionAge  string  `json:"constructionAge" yaml:"constructionAge"`
	FloorArea        float64 `json:"floorArea" yaml:"floorArea"`
	PrimaryFuel      string  `json:"primaryFuel" yaml:"primaryFuel"`
	HeatingSystem    string  `json:"heatingSystem" yaml:"heatingSystem"`
	GlazingType      string  `json:"glazingType,omitempty" yaml:"glazingType,omitempty"`
	WallDescription  string  `json:"wallDescription,omitempty" yaml:"wallDescription,omitempty"`
	RoofDescription  string  `json:"roofDescription,omitempty" yaml:"roofDescription,omitempty"`
	FloorDescription string  `json:"floorDescription,omitempty" yaml:"floorDescription,omitempty"`
	HasSolarPV       bool    `json:"hasSolarPV" yaml:"hasSolarPV"`
	HasSolarWater    bool    `json:"hasSolarWater" yaml:"hasSolarWater"`
}

// Form defaults for the optional selections.
const (
	DefaultTenure           = "Owner-occupied"
	DefaultGlazingType      = "Double glazing, unknown install date"
	DefaultWallDescription  = "Cavity wall, filled cavity"
	DefaultRoofDescription  = "Pitched, 270 mm loft insulation"
	DefaultFloorDescription = "Suspended, no insulation (assumed)"
)

// MinFloorArea and MaxFloorArea bound the floor area in square metres.
const (
	MinFloorArea = 10
	MaxFloorArea = 1000
)

// WithDefaults returns a copy of r with unset optional selections filled in
// the way the form pre-selects them.
func (r AttributeRecord) WithDefaults() AttributeRecord {
	if r.Tenure == "" {
		r.Tenure = DefaultTenure
	}
	if r.GlazingType == "" {
		r.GlazingType = DefaultGlazingType
	}
	if r.WallDescription == "" {
		r.WallDescription = DefaultWallDescription
	}
	if r.RoofDescription == "" {
		r.RoofDescription = DefaultRoofDescription
	}
	if r.FloorDescription == "" {
		r.FloorDescription = DefaultFloorDescription
	}
	return r
}

// Validate checks the required selections and the floor area range.
func (r AttributeRecord) Validate() error {
	errs := ValidationErrors{}
	errs.required("buildingType", r.BuildingType)
	errs.required("propertyType", r.PropertyType)
	errs.required("constructionAge", r.ConstructionAge)
	errs.required("primaryFuel", r.PrimaryFuel)
	errs.required("heatingSystem", r.HeatingSystem)
	errs.floorArea("floorArea", r.FloorArea)
	return errs.orNil()
}
