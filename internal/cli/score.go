package cli

import (
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
	"github.com/MikeSquared-Agency/Retrofit/internal/scoring"
)

func (a *app) newScoreCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a home record with the local heuristic",
		Example: `  retrofitctl score -f home.yaml
  cat home.json | retrofitctl score -f - --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.loadRecord(cmd, file)
			if err != nil {
				return err
			}
			res := scoring.NewEngine(a.topN()).Score(rec)
			return a.renderResult(resultView{
				Source:             "local",
				EENow:              res.EENow,
				Band:               res.Band,
				Scenarios:          res.Scenarios,
				TopRecommendations: res.TopRecommendations,
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "home record file (YAML or JSON, - for stdin)")
	return cmd
}

func (a *app) newExplainCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Show the rule adjustments behind a local score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.loadRecord(cmd, file)
			if err != nil {
				return err
			}
			return a.renderExplanation(scoring.NewEngine(a.topN()).Explain(rec))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "home record file (YAML or JSON, - for stdin)")
	return cmd
}

func (a *app) loadRecord(cmd *cobra.Command, file string) (attributes.AttributeRecord, error) {
	var rec attributes.AttributeRecord
	if err := readInput(file, cmd.InOrStdin(), &rec); err != nil {
		return rec, err
	}
	rec = rec.WithDefaults()
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}
