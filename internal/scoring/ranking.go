package scoring

import "sort"

// Band maps a score to its A–G rating letter.
func Band(score float64) string {
	switch {
	case score >= 92:
		return "A"
	case score >= 81:
		return "B"
	case score >= 69:
		return "C"
	case score >= 55:
		return "D"
	case score >= 39:
		return "E"
	case score >= 21:
		return "F"
	default:
		return "G"
	}
}

// TopRecommendations returns up to n applicable scenarios with a positive
// uplift, largest uplift first. Ties keep generation order. A non-positive
// n falls back to DefaultTopN.
func TopRecommendations(scenarios []Scenario, n int) []Scenario {
	if n <= 0 {
		n = DefaultTopN
	}
	var candidates []Scenario
	for _, s := range scenarios {
		if s.Applicable && s.Uplift > 0 {
			candidates = append(candidates, s)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Uplift > candidates[j].Uplift
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	if candidates == nil {
		candidates = []Scenario{}
	}
	return candidates
}

// SortByUplift returns a copy of scenarios ordered by uplift, largest first.
func SortByUplift(scenarios []Scenario) []Scenario {
	out := append([]Scenario(nil), scenarios...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Uplift > out[j].Uplift
	})
	return out
}
