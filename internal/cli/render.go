package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/MikeSquared-Agency/Retrofit/internal/scoring"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	upliftStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	scoreStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	bandColors = map[string]lipgloss.Color{
		"A": "10", // green
		"B": "10",
		"C": "11", // yellow
		"D": "11",
		"E": "214", // orange
		"F": "9",   // red
		"G": "9",
	}
)

type resultView struct {
	Source             string             `json:"source"`
	EENow              float64            `json:"ee_now"`
	Band               string             `json:"band"`
	Scenarios          []scoring.Scenario `json:"scenarios"`
	TopRecommendations []scoring.Scenario `json:"top_recommendations"`
}

func writeJSONTo(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func bandStyle(band string) lipgloss.Style {
	c, ok := bandColors[band]
	if !ok {
		c = "7"
	}
	return scoreStyle.Foreground(c)
}

func (a *app) renderResult(v resultView) error {
	if a.format() == FormatJSON {
		return writeJSONTo(a.out, v)
	}

	fmt.Fprintf(a.out, "%s %s  %s\n",
		headingStyle.Render("Energy efficiency"),
		bandStyle(v.Band).Render(fmt.Sprintf("%.1f", v.EENow)),
		bandStyle(v.Band).Render("Band "+v.Band),
	)
	fmt.Fprintln(a.out, dimStyle.Render("source: "+v.Source))

	if len(v.TopRecommendations) > 0 {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, headingStyle.Render("Top recommendations"))
		for i, s := range v.TopRecommendations {
			fmt.Fprintf(a.out, "  %d. %s %s\n", i+1, s.Label, upliftStyle.Render(fmt.Sprintf("+%.1f", s.Uplift)))
		}
	}

	if len(v.Scenarios) > 0 {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, headingStyle.Render("All scenarios"))
		for _, s := range scoring.SortByUplift(v.Scenarios) {
			if !s.Applicable {
				fmt.Fprintf(a.out, "  %-16s %s\n", s.Key, dimStyle.Render("not applicable: "+s.Reason))
				continue
			}
			fmt.Fprintf(a.out, "  %-16s %5.1f -> %5.1f  %s\n", s.Key, v.EENow, s.EEAfter, dimStyle.Render(s.Reason))
		}
	}
	return nil
}

func (a *app) renderExplanation(ex scoring.Explanation) error {
	if a.format() == FormatJSON {
		return writeJSONTo(a.out, ex)
	}

	fmt.Fprintf(a.out, "%s %.1f\n", headingStyle.Render("Base score"), ex.BaseScore)
	for _, adj := range ex.Adjustments {
		delta := fmt.Sprintf("%+.1f", adj.Delta)
		if adj.Delta > 0 {
			delta = upliftStyle.Render(delta)
		}
		fmt.Fprintf(a.out, "  %-18s %6s  %s\n", adj.Name, delta, dimStyle.Render(adj.Value))
	}
	fmt.Fprintf(a.out, "%s %.1f", headingStyle.Render("Raw score"), ex.RawScore)
	if ex.Clamped {
		fmt.Fprint(a.out, dimStyle.Render(" (clamped)"))
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "%s %s\n", headingStyle.Render("Final"), bandStyle(ex.Band).Render(fmt.Sprintf("%.1f Band %s", ex.EENow, ex.Band)))
	return nil
}
