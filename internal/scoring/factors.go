package scoring

import (
	"strings"

	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
)

// Adjustment captures one rule's contribution to the base score.
type Adjustment struct {
	Name   string  `json:"name"`
	Value  string  `json:"value"`
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}

// ageDeltas holds the bands that move the score; every other band is neutral.
var ageDeltas = map[string]float64{
	"2012 onwards": 25,
	"2007-2011":    20,
	"2003-2006":    15,
	"1996-2002":    10,
	"Before 1900":  -10,
}

// --- Individual adjustment rules ---
//
// Each rule reads only the original record, never the running score.

func AgeAdjustment(rec attributes.AttributeRecord) Adjustment {
	d, ok := ageDeltas[rec.ConstructionAge]
	if !ok {
		return Adjustment{Name: "construction_age", Value: rec.ConstructionAge, Reason: "neutral band"}
	}
	return Adjustment{Name: "construction_age", Value: rec.ConstructionAge, Delta: d, Reason: "construction band"}
}

func HeatingAdjustment(rec attributes.AttributeRecord) Adjustment {
	a := Adjustment{Name: "heating_system", Value: rec.HeatingSystem}
	switch {
	case strings.Contains(rec.HeatingSystem, "Heat pump"):
		a.Delta, a.Reason = 15, "heat pump"
	case strings.Contains(rec.HeatingSystem, "Boiler and radiators (mains gas)"):
		a.Delta, a.Reason = 5, "mains gas boiler"
	case strings.Contains(rec.HeatingSystem, "Electric storage"):
		a.Delta, a.Reason = -5, "electric storage heaters"
	default:
		a.Reason = "no adjustment"
	}
	return a
}

func SolarPVAdjustment(rec attributes.AttributeRecord) Adjustment {
	if rec.HasSolarPV {
		return Adjustment{Name: "solar_pv", Value: "yes", Delta: 8, Reason: "solar PV installed"}
	}
	return Adjustment{Name: "solar_pv", Value: "no", Reason: "no solar PV"}
}

func SolarWaterAdjustment(rec attributes.AttributeRecord) Adjustment {
	if rec.HasSolarWater {
		return Adjustment{Name: "solar_water", Value: "yes", Delta: 4, Reason: "solar hot water installed"}
	}
	return Adjustment{Name: "solar_water", Value: "no", Reason: "no solar hot water"}
}

func RoofAdjustment(rec attributes.AttributeRecord) Adjustment {
	a := Adjustment{Name: "roof", Value: rec.RoofDescription}
	switch {
	case strings.Contains(rec.RoofDescription, "270 mm"):
		a.Delta, a.Reason = 5, "270 mm loft insulation"
	case strings.Contains(rec.RoofDescription, "no insulation"):
		a.Delta, a.Reason = -8, "uninsulated roof"
	default:
		a.Reason = "no adjustment"
	}
	return a
}

func WallAdjustment(rec attributes.AttributeRecord) Adjustment {
	a := Adjustment{Name: "wall", Value: rec.WallDescription}
	switch {
	case strings.Contains(rec.WallDescription, "filled cavity"):
		a.Delta, a.Reason = 5, "filled cavity"
	case strings.Contains(rec.WallDescription, "no insulation"):
		a.Delta, a.Reason = -8, "uninsulated walls"
	default:
		a.Reason = "no adjustment"
	}
	return a
}

func GlazingAdjustment(rec attributes.AttributeRecord) Adjustment {
	a := Adjustment{Name: "glazing", Value: rec.GlazingType}
	switch {
	case strings.Contains(rec.GlazingType, "Triple"):
		a.Delta, a.Reason = 5, "triple glazing"
	case strings.Contains(rec.GlazingType, "Single"):
		a.Delta, a.Reason = -10, "single glazing"
	default:
		a.Reason = "no adjustment"
	}
	return a
}
