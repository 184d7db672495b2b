package attributes

import (
	"fmt"
	"math"
)

// Presence is a tri-state answer for solar installations. The empty value
// means the user left the question unanswered.
type Presence string

const (
	PresenceYes     Presence = "yes"
	PresenceNo      Presence = "no"
	PresenceUnknown Presence = "unknown"
)

func (p Presence) valid() bool {
	switch p {
	case "", PresenceYes, PresenceNo, PresenceUnknown:
		return true
	}
	return false
}

// Survey is the attribute set sent to the remote analyzer. Field names follow
// the analyzer's snake_case feature keys.
type Survey struct {
	PropertyType     string  `json:"p_type" yaml:"p_type"`
	BuildingType     string  `json:"b_type" yaml:"b_type"`
	Area             float64 `json:"area" yaml:"area"`
	BuildingAge      string  `json:"building_age" yaml:"building_age"`
	FuelGroup        string  `json:"fuel_group" yaml:"fuel_group"`
	HasBoiler        bool    `json:"has_boiler" yaml:"has_boiler"`
	HasRadiators     bool    `json:"has_radiators" yaml:"has_radiators"`
	HasTimeControl   bool    `json:"has_time_control" yaml:"has_time_control"`
	HasTempControl   bool    `json:"has_temp_control" yaml:"has_temp_control"`
	HasRoomControl   bool    `json:"has_room_control" yaml:"has_room_control"`
	WallType         string  `json:"wall_type" yaml:"wall_type"`
	WallInsulation   string  `json:"wall_insulation" yaml:"wall_insulation"`
	RoofType         string  `json:"roof_type" yaml:"roof_type"`
	RoofInsulationMM float64 `json:"roof_insulation_mm" yaml:"roof_insulation_mm"`
	GlazingLevel     string  `json:"glazing_level" yaml:"glazing_level"`
	GlazingCoverage  string  `json:"glazing_coverage" yaml:"glazing_coverage"`

	Tenure             string   `json:"tenure,omitempty" yaml:"tenure,omitempty"`
	FloorType          string   `json:"floor_type,omitempty" yaml:"floor_type,omitempty"`
	FloorInsulation    string   `json:"floor_insulation,omitempty" yaml:"floor_insulation,omitempty"`
	HasAirHP           *bool    `json:"has_air_hp,omitempty" yaml:"has_air_hp,omitempty"`
	HasGroundHP        *bool    `json:"has_ground_hp,omitempty" yaml:"has_ground_hp,omitempty"`
	IsCommunityHeating *bool    `json:"is_community_heating,omitempty" yaml:"is_community_heating,omitempty"`
	PV                 Presence `json:"pv,omitempty" yaml:"pv,omitempty"`
	SolarWater         Presence `json:"sol_wat,omitempty" yaml:"sol_wat,omitempty"`
	DHWSystem          string   `json:"dhw_system,omitempty" yaml:"dhw_system,omitempty"`
	DHWEnergy          string   `json:"dhw_energy,omitempty" yaml:"dhw_energy,omitempty"`
	GlazingQuality     string   `json:"glazing_quality,omitempty" yaml:"glazing_quality,omitempty"`
}

// Validate checks every required categorical field, the area range and the
// tri-state solar answers.
func (s Survey) Validate() error {
	errs := ValidationErrors{}
	errs.required("p_type", s.PropertyType)
	errs.required("b_type", s.BuildingType)
	errs.floorArea("area", s.Area)
	errs.required("building_age", s.BuildingAge)
	errs.required("fuel_group", s.FuelGroup)
	errs.required("wall_type", s.WallType)
	errs.required("wall_insulation", s.WallInsulation)
	errs.required("roof_type", s.RoofType)
	errs.required("glazing_level", s.GlazingLevel)
	errs.required("glazing_coverage", s.GlazingCoverage)
	if !(s.RoofInsulationMM >= 0) || math.IsInf(s.RoofInsulationMM, 1) {
		errs["roof_insulation_mm"] = "must be a non-negative number"
	}
	if !s.PV.valid() {
		errs["pv"] = fmt.Sprintf("must be one of %q, %q, %q", PresenceYes, PresenceNo, PresenceUnknown)
	}
	if !s.SolarWater.valid() {
		errs["sol_wat"] = fmt.Sprintf("must be one of %q, %q, %q", PresenceYes, PresenceNo, PresenceUnknown)
	}
	return errs.orNil()
}

// Features encodes the survey as the analyzer's feature map. Required keys are
// always present; optional keys appear only when the user supplied them.
// Booleans are sent as 1/0.
func (s Survey) Features() map[string]any {
	f := map[string]any{
		"p_type":             s.PropertyType,
		"b_type":             s.BuildingType,
		"area":               s.Area,
		"building_age":       s.BuildingAge,
		"fuel_group":         s.FuelGroup,
		"has_boiler":         flag(s.HasBoiler),
		"has_radiators":      flag(s.HasRadiators),
		"has_time_control":   flag(s.HasTimeControl),
		"has_temp_control":   flag(s.HasTempControl),
		"has_room_control":   flag(s.HasRoomControl),
		"wall_type":          s.WallType,
		"wall_insulation":    s.WallInsulation,
		"roof_type":          s.RoofType,
		"roof_insulation_mm": s.RoofInsulationMM,
		"glazing_level":      s.GlazingLevel,
		"glazing_coverage":   s.GlazingCoverage,
	}

	optionalString(f, "tenure", s.Tenure)
	optionalString(f, "floor_type", s.FloorType)
	optionalString(f, "floor_insulation", s.FloorInsulation)
	optionalFlag(f, "has_air_hp", s.HasAirHP)
	optionalFlag(f, "has_ground_hp", s.HasGroundHP)
	optionalFlag(f, "is_community_heating", s.IsCommunityHeating)
	optionalString(f, "pv", string(s.PV))
	optionalString(f, "sol_wat", string(s.SolarWater))
	optionalString(f, "dhw_system", s.DHWSystem)
	optionalString(f, "dhw_energy", s.DHWEnergy)
	optionalString(f, "glazing_quality", s.GlazingQuality)
	return f
}

// RequiredFeatureKeys lists the keys Features always emits.
var RequiredFeatureKeys = []string{
	"p_type", "b_type", "area", "building_age", "fuel_group",
	"has_boiler", "has_radiators", "has_time_control", "has_temp_control", "has_room_control",
	"wall_type", "wall_insulation", "roof_type", "roof_insulation_mm",
	"glazing_level", "glazing_coverage",
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func optionalString(f map[string]any, key, v string) {
	if v != "" {
		f[key] = v
	}
}

func optionalFlag(f map[string]any, key string, v *bool) {
	if v != nil {
		f[key] = flag(*v)
	}
}
