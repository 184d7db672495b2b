package attributes

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() AttributeRecord {
	return AttributeRecord{
		BuildingType:    "Detached",
		PropertyType:    "House",
		ConstructionAge: "1983-1990",
		FloorArea:       120,
		PrimaryFuel:     "Mains gas",
		HeatingSystem:   "Boiler and radiators (mains gas)",
	}
}

func validSurvey() Survey {
	return Survey{
		PropertyType:     "House",
		BuildingType:     "Semi-detached",
		Area:             85,
		BuildingAge:      "1950-1966",
		FuelGroup:        "gas",
		HasBoiler:        true,
		HasRadiators:     true,
		HasTimeControl:   true,
		WallType:         "cavity",
		WallInsulation:   "filled_cavity",
		RoofType:         "pitched",
		RoofInsulationMM: 100,
		GlazingLevel:     "double",
		GlazingCoverage:  "full",
	}
}

func TestRecordValidate(t *testing.T) {
	assert.NoError(t, validRecord().Validate())

	t.Run("missing selections", func(t *testing.T) {
		err := AttributeRecord{FloorArea: 50}.Validate()
		require.Error(t, err)

		var verrs ValidationErrors
		require.True(t, errors.As(err, &verrs))
		for _, field := range []string{"buildingType", "propertyType", "constructionAge", "primaryFuel", "heatingSystem"} {
			assert.Equal(t, "required", verrs[field], field)
		}
		assert.NotContains(t, verrs, "floorArea")
	})

	t.Run("floor area bounds", func(t *testing.T) {
		tests := []struct {
			area float64
			ok   bool
		}{
			{0, false},
			{9.9, false},
			{10, true},
			{1000, true},
			{1000.5, false},
		}
		for _, tt := range tests {
			rec := validRecord()
			rec.FloorArea = tt.area
			err := rec.Validate()
			if tt.ok {
				assert.NoError(t, err, "area %v", tt.area)
			} else {
				assert.Error(t, err, "area %v", tt.area)
			}
		}
	})
}

func TestValidationErrorsMessageIsSorted(t *testing.T) {
	err := ValidationErrors{"b": "required", "a": "required"}
	assert.Equal(t, "validation failed: a: required; b: required", err.Error())
}

func TestWithDefaults(t *testing.T) {
	rec := validRecord().WithDefaults()
	assert.Equal(t, DefaultTenure, rec.Tenure)
	assert.Equal(t, DefaultGlazingType, rec.GlazingType)
	assert.Equal(t, DefaultWallDescription, rec.WallDescription)
	assert.Equal(t, DefaultRoofDescription, rec.RoofDescription)
	assert.Equal(t, DefaultFloorDescription, rec.FloorDescription)

	custom := validRecord()
	custom.GlazingType = "Single glazing"
	assert.Equal(t, "Single glazing", custom.WithDefaults().GlazingType)
}

func TestSurveyFeaturesRequiredKeys(t *testing.T) {
	f := validSurvey().Features()
	for _, k := range RequiredFeatureKeys {
		assert.Contains(t, f, k)
	}
	assert.Len(t, f, len(RequiredFeatureKeys), "optional keys must be omitted when unset")

	assert.Equal(t, 1, f["has_boiler"])
	assert.Equal(t, 1, f["has_time_control"])
	assert.Equal(t, 0, f["has_temp_control"])
	assert.Equal(t, 0, f["has_room_control"])
	assert.Equal(t, 85.0, f["area"])
}

func TestSurveyFeaturesOptionalKeys(t *testing.T) {
	yes, no := true, false
	s := validSurvey()
	s.Tenure = "owner_occupied"
	s.HasAirHP = &yes
	s.HasGroundHP = &no
	s.PV = PresenceUnknown
	s.SolarWater = PresenceNo
	s.GlazingQuality = "post_2002"

	f := s.Features()
	assert.Equal(t, "owner_occupied", f["tenure"])
	assert.Equal(t, 1, f["has_air_hp"])
	assert.Equal(t, 0, f["has_ground_hp"])
	assert.Equal(t, "unknown", f["pv"])
	assert.Equal(t, "no", f["sol_wat"])
	assert.Equal(t, "post_2002", f["glazing_quality"])
	assert.NotContains(t, f, "is_community_heating")
	assert.NotContains(t, f, "floor_type")
	assert.NotContains(t, f, "dhw_system")
}

func TestSurveyValidate(t *testing.T) {
	assert.NoError(t, validSurvey().Validate())

	s := validSurvey()
	s.WallType = ""
	s.Area = 5000
	s.RoofInsulationMM = -1
	s.PV = "maybe"

	var verrs ValidationErrors
	require.ErrorAs(t, s.Validate(), &verrs)
	assert.Contains(t, verrs, "wall_type")
	assert.Contains(t, verrs, "area")
	assert.Contains(t, verrs, "roof_insulation_mm")
	assert.Contains(t, verrs, "pv")
	assert.NotContains(t, verrs, "sol_wat")
}

func TestValidateRejectsNonFiniteNumbers(t *testing.T) {
	rec := validRecord()
	rec.FloorArea = math.NaN()
	var verrs ValidationErrors
	require.ErrorAs(t, rec.Validate(), &verrs)
	assert.Contains(t, verrs, "floorArea")

	s := validSurvey()
	s.Area = math.NaN()
	s.RoofInsulationMM = math.NaN()
	require.ErrorAs(t, s.Validate(), &verrs)
	assert.Contains(t, verrs, "area")
	assert.Contains(t, verrs, "roof_insulation_mm")

	s = validSurvey()
	s.Area = math.Inf(1)
	s.RoofInsulationMM = math.Inf(1)
	require.ErrorAs(t, s.Validate(), &verrs)
	assert.Contains(t, verrs, "area")
	assert.Contains(t, verrs, "roof_insulation_mm")
}

func TestOptionsReturnsCopies(t *testing.T) {
	opts := Options()
	assert.Len(t, opts.ConstructionAges, 12)
	assert.Len(t, opts.HeatingSystems, 11)

	opts.ConstructionAges[0] = "mutated"
	assert.Equal(t, "Before 1900", Options().ConstructionAges[0])
}
