package scoring

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
)

func worstHome() attributes.AttributeRecord {
	return attributes.AttributeRecord{
		ConstructionAge:  "Before 1900",
		HeatingSystem:    "Electric storage heaters",
		RoofDescription:  "Pitched, no insulation (assumed)",
		WallDescription:  "Solid brick, as built, no insulation (assumed)",
		GlazingType:      "Single glazing",
		FloorDescription: "Suspended, no insulation (assumed)",
	}
}

func bestHome() attributes.AttributeRecord {
	return attributes.AttributeRecord{
		ConstructionAge:  "2012 onwards",
		HeatingSystem:    "Heat pump (air source)",
		HasSolarPV:       true,
		HasSolarWater:    true,
		RoofDescription:  "Pitched, 270 mm loft insulation",
		WallDescription:  "Cavity wall, filled cavity",
		GlazingType:      "Triple glazing",
		FloorDescription: "Suspended, insulated",
	}
}

func scenarioByKey(t *testing.T, scenarios []Scenario, key string) Scenario {
	t.Helper()
	for _, s := range scenarios {
		if s.Key == key {
			return s
		}
	}
	t.Fatalf("scenario %q not found", key)
	return Scenario{}
}

func TestScoreWorstHomeClampsHeadlineOnly(t *testing.T) {
	e := NewEngine(0)
	res := e.Score(worstHome())

	assert.Equal(t, 20.0, res.EENow)
	assert.Equal(t, "G", res.Band)
	require.Len(t, res.Scenarios, 7)

	// Projections start from the unclamped base of 9.
	want := map[string]float64{
		"loft_to_300":      12.5,
		"wall_insulation":  14.2,
		"glazing_upgrade":  11.8,
		"add_solar_pv":     17.5,
		"heat_pump":        21.0,
		"floor_insulation": 10.8,
		"smart_controls":   11.0,
	}
	for key, eeAfter := range want {
		s := scenarioByKey(t, res.Scenarios, key)
		assert.InDelta(t, eeAfter, s.EEAfter, 1e-9, key)
		assert.True(t, s.Applicable, key)
	}

	loft := scenarioByKey(t, res.Scenarios, "loft_to_300")
	assert.Equal(t, "Current: Pitched, no insulation (assumed). Adding more insulation will reduce heat loss.", loft.Reason)
}

func TestScoreBestHomeOnlySmartControls(t *testing.T) {
	res := NewEngine(3).Score(bestHome())

	assert.Equal(t, 95.0, res.EENow)
	assert.Equal(t, "A", res.Band)
	require.Len(t, res.Scenarios, 1)
	assert.Equal(t, "smart_controls", res.Scenarios[0].Key)
	assert.Equal(t, 100.0, res.Scenarios[0].EEAfter)
	assert.Equal(t, 2.0, res.Scenarios[0].Uplift)
}

func TestScenarioOrderIsGenerationOrder(t *testing.T) {
	res := NewEngine(3).Score(worstHome())
	keys := make([]string, 0, len(res.Scenarios))
	for _, s := range res.Scenarios {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{
		"loft_to_300", "wall_insulation", "glazing_upgrade",
		"add_solar_pv", "heat_pump", "floor_insulation", "smart_controls",
	}, keys)
}

func TestAdjustments(t *testing.T) {
	tests := []struct {
		name string
		rec  attributes.AttributeRecord
		want float64
	}{
		{"neutral record", attributes.AttributeRecord{}, 50},
		{"2007-2011", attributes.AttributeRecord{ConstructionAge: "2007-2011"}, 70},
		{"2003-2006", attributes.AttributeRecord{ConstructionAge: "2003-2006"}, 65},
		{"1996-2002", attributes.AttributeRecord{ConstructionAge: "1996-2002"}, 60},
		{"1950-1966 neutral", attributes.AttributeRecord{ConstructionAge: "1950-1966"}, 50},
		{"ground source heat pump", attributes.AttributeRecord{HeatingSystem: "Heat pump (ground source)"}, 65},
		{"gas boiler", attributes.AttributeRecord{HeatingSystem: "Boiler and radiators (mains gas)"}, 55},
		{"oil boiler neutral", attributes.AttributeRecord{HeatingSystem: "Boiler and radiators (oil)"}, 50},
		{"storage heaters", attributes.AttributeRecord{HeatingSystem: "Electric storage heaters"}, 45},
		{"solar pv", attributes.AttributeRecord{HasSolarPV: true}, 58},
		{"solar water", attributes.AttributeRecord{HasSolarWater: true}, 54},
		{"roof 200 mm neutral", attributes.AttributeRecord{RoofDescription: "Pitched, 200 mm loft insulation"}, 50},
		{"room in roof uninsulated", attributes.AttributeRecord{RoofDescription: "Room-in-roof, no insulation"}, 42},
		{"unfilled cavity matches filled cavity", attributes.AttributeRecord{WallDescription: "Cavity wall, unfilled cavity"}, 55},
		{"secondary glazing neutral", attributes.AttributeRecord{GlazingType: "Secondary glazing"}, 50},
		{"single glazing", attributes.AttributeRecord{GlazingType: "Single glazing"}, 40},
	}

	e := NewEngine(3)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := e.Explain(tt.rec)
			assert.Equal(t, tt.want, ex.RawScore)
			assert.Equal(t, tt.want, e.Score(tt.rec).EENow)
		})
	}
}

func TestAgeMonotonicity(t *testing.T) {
	e := NewEngine(3)
	old := worstHome()
	young := worstHome()
	young.ConstructionAge = "2012 onwards"

	assert.Equal(t, 35.0, e.Explain(young).RawScore-e.Explain(old).RawScore)
}

func TestScoreProperties(t *testing.T) {
	e := NewEngine(3)
	opts := attributes.Options()

	i := 0
	for _, age := range opts.ConstructionAges {
		for _, heating := range opts.HeatingSystems {
			for _, pv := range []bool{false, true} {
				for _, sw := range []bool{false, true} {
					rec := attributes.AttributeRecord{
						ConstructionAge:  age,
						HeatingSystem:    heating,
						HasSolarPV:       pv,
						HasSolarWater:    sw,
						RoofDescription:  opts.RoofDescriptions[i%len(opts.RoofDescriptions)],
						WallDescription:  opts.WallDescriptions[i%len(opts.WallDescriptions)],
						GlazingType:      opts.GlazingTypes[i%len(opts.GlazingTypes)],
						FloorDescription: opts.FloorDescriptions[i%len(opts.FloorDescriptions)],
						FloorArea:        80,
					}
					i++

					res := e.Score(rec)
					if res.EENow < MinScore || res.EENow > MaxScore {
						t.Fatalf("ee_now %v out of range for %+v", res.EENow, rec)
					}
					if math.Abs(res.EENow*10-math.Round(res.EENow*10)) > 1e-9 {
						t.Fatalf("ee_now %v has more than one decimal", res.EENow)
					}
					if n := len(res.Scenarios); n < 1 || n > 7 {
						t.Fatalf("got %d scenarios", n)
					}

					seen := map[string]bool{}
					for _, s := range res.Scenarios {
						if seen[s.Key] {
							t.Fatalf("duplicate scenario key %s", s.Key)
						}
						seen[s.Key] = true
						if s.EEAfter > MaxProjectedScore {
							t.Fatalf("ee_after %v above cap", s.EEAfter)
						}
					}
					if !seen["smart_controls"] {
						t.Fatal("smart_controls missing")
					}

					assert.Equal(t, res, e.Score(rec), "scoring must be deterministic")
				}
			}
		}
	}
}

func TestScoreDoesNotMutateInput(t *testing.T) {
	rec := worstHome()
	before := rec
	NewEngine(3).Score(rec)
	assert.Equal(t, before, rec)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 72.5, Round1(72.45))
	assert.Equal(t, 72.4, Round1(72.44))
	assert.Equal(t, 20.0, Round1(20))
}

func TestScoreResultJSONRoundTrip(t *testing.T) {
	res := NewEngine(3).Score(worstHome())

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Contains(t, wire, "ee_now")
	assert.Contains(t, wire, "scenarios")
	assert.Contains(t, wire, "top_recommendations")

	var back ScoreResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, res, back)
}

func TestExplainFlagsClamping(t *testing.T) {
	e := NewEngine(3)
	assert.True(t, e.Explain(worstHome()).Clamped)
	assert.True(t, e.Explain(bestHome()).Clamped)
	assert.False(t, e.Explain(attributes.AttributeRecord{}).Clamped)
	assert.Len(t, e.Explain(attributes.AttributeRecord{}).Adjustments, 7)
}
