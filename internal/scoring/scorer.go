package scoring

import (
	"math"

	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
)

const (
	BaseScore = 50.0
	MinScore  = 20.0
	MaxScore  = 95.0

	// DefaultTopN is how many recommendations are promoted by default.
	DefaultTopN = 3
)

// ScoreResult is the engine's output for one record.
type ScoreResult struct {
	EENow              float64    `json:"ee_now"`
	Band               string     `json:"band"`
	Scenarios          []Scenario `json:"scenarios"`
	TopRecommendations []Scenario `json:"top_recommendations"`
}

// Explanation is the rule-by-rule breakdown behind a score.
type Explanation struct {
	BaseScore    float64      `json:"base_score"`
	RawScore     float64      `json:"raw_score"`
	Clamped      bool         `json:"clamped"`
	EENow        float64      `json:"ee_now"`
	Band         string       `json:"band"`
	Adjustments  []Adjustment `json:"adjustments"`
	ScenarioKeys []string     `json:"scenario_keys"`
}

// Engine is the local rule-based efficiency scorer. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	topN int
}

// NewEngine creates an Engine promoting at most topN recommendations.
// A non-positive topN falls back to DefaultTopN.
func NewEngine(topN int) *Engine {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Engine{topN: topN}
}

// TopN is the number of recommendations the engine promotes.
func (e *Engine) TopN() int { return e.topN }

// Score computes the current efficiency score and improvement scenarios.
//
// The headline score is clamped to [MinScore, MaxScore] and rounded to one
// decimal. Scenario projections are computed from the unclamped raw score, so
// ee_after can differ from ee_now+uplift when clamping applied.
func (e *Engine) Score(rec attributes.AttributeRecord) ScoreResult {
	raw, _ := rawScore(rec)
	now := Round1(clamp(raw, MinScore, MaxScore))
	scenarios := generateScenarios(rec, raw)

	return ScoreResult{
		EENow:              now,
		Band:               Band(now),
		Scenarios:          scenarios,
		TopRecommendations: TopRecommendations(scenarios, e.topN),
	}
}

// Explain returns the adjustments that produced rec's score.
func (e *Engine) Explain(rec attributes.AttributeRecord) Explanation {
	raw, adjustments := rawScore(rec)
	now := Round1(clamp(raw, MinScore, MaxScore))

	scenarios := generateScenarios(rec, raw)
	keys := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		keys = append(keys, s.Key)
	}

	return Explanation{
		BaseScore:    BaseScore,
		RawScore:     raw,
		Clamped:      raw < MinScore || raw > MaxScore,
		EENow:        now,
		Band:         Band(now),
		Adjustments:  adjustments,
		ScenarioKeys: keys,
	}
}

func rawScore(rec attributes.AttributeRecord) (float64, []Adjustment) {
	adjustments := []Adjustment{
		AgeAdjustment(rec),
		HeatingAdjustment(rec),
		SolarPVAdjustment(rec),
		SolarWaterAdjustment(rec),
		RoofAdjustment(rec),
		WallAdjustment(rec),
		GlazingAdjustment(rec),
	}

	score := BaseScore
	for _, a := range adjustments {
		score += a.Delta
	}
	return score, adjustments
}

// Round1 rounds to one decimal place, halves rounding up.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
