package scoring

import (
	"math"
	"strings"

	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
)

// MaxProjectedScore caps a scenario's projected score.
const MaxProjectedScore = 100

// Scenario is a hypothetical improvement with its projected score.
type Scenario struct {
	Key            string         `json:"key"`
	Label          string         `json:"label"`
	Applicable     bool           `json:"applicable"`
	Reason         string         `json:"reason"`
	EEAfter        float64        `json:"ee_after"`
	Uplift         float64        `json:"uplift"`
	AppliedChanges map[string]any `json:"applied_changes,omitempty"`
}

type scenarioRule struct {
	key     string
	label   string
	uplift  float64
	trigger func(rec attributes.AttributeRecord) bool
	reason  func(rec attributes.AttributeRecord) string
}

func fixed(s string) func(attributes.AttributeRecord) string {
	return func(attributes.AttributeRecord) string { return s }
}

// scenarioRules are evaluated in order; each emits at most one scenario.
var scenarioRules = []scenarioRule{
	{
		key:     "loft_to_300",
		label:   "Increase loft insulation to 300mm",
		uplift:  3.5,
		trigger: func(r attributes.AttributeRecord) bool { return !strings.Contains(r.RoofDescription, "270 mm") },
		reason: func(r attributes.AttributeRecord) string {
			return "Current: " + r.RoofDescription + ". Adding more insulation will reduce heat loss."
		},
	},
	{
		key:    "wall_insulation",
		label:  "Add cavity wall insulation",
		uplift: 5.2,
		trigger: func(r attributes.AttributeRecord) bool {
			return strings.Contains(r.WallDescription, "no insulation") || strings.Contains(r.WallDescription, "unfilled")
		},
		reason: fixed("Your walls may be losing significant heat. Insulation could make a big difference."),
	},
	{
		key:    "glazing_upgrade",
		label:  "Upgrade to modern double or triple glazing",
		uplift: 2.8,
		trigger: func(r attributes.AttributeRecord) bool {
			return !strings.Contains(r.GlazingType, "Triple") && !strings.Contains(r.GlazingType, "2002")
		},
		reason: fixed("Newer glazing technology can significantly reduce heat loss through windows."),
	},
	{
		key:     "add_solar_pv",
		label:   "Install solar PV panels",
		uplift:  8.5,
		trigger: func(r attributes.AttributeRecord) bool { return !r.HasSolarPV },
		reason:  fixed("Generate your own electricity and reduce dependence on the grid."),
	},
	{
		key:     "heat_pump",
		label:   "Install an air source heat pump",
		uplift:  12.0,
		trigger: func(r attributes.AttributeRecord) bool { return !strings.Contains(r.HeatingSystem, "Heat pump") },
		reason:  fixed("Heat pumps are highly efficient and can dramatically lower energy costs."),
	},
	{
		key:     "floor_insulation",
		label:   "Add floor insulation",
		uplift:  1.8,
		trigger: func(r attributes.AttributeRecord) bool { return strings.Contains(r.FloorDescription, "no insulation") },
		reason:  fixed("Uninsulated floors can account for significant heat loss."),
	},
	{
		key:     "smart_controls",
		label:   "Install smart heating controls",
		uplift:  2.0,
		trigger: func(attributes.AttributeRecord) bool { return true },
		reason:  fixed("Smart thermostats can optimize heating schedules and reduce waste."),
	},
}

// generateScenarios projects every triggered scenario from base, the score
// before clamping.
func generateScenarios(rec attributes.AttributeRecord, base float64) []Scenario {
	out := make([]Scenario, 0, len(scenarioRules))
	for _, rule := range scenarioRules {
		if !rule.trigger(rec) {
			continue
		}
		out = append(out, Scenario{
			Key:        rule.key,
			Label:      rule.label,
			Applicable: true,
			Reason:     rule.reason(rec),
			EEAfter:    math.Min(base+rule.uplift, MaxProjectedScore),
			Uplift:     rule.uplift,
		})
	}
	return out
}
