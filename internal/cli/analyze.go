package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Retrofit/internal/analyzer"
	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
	"github.com/MikeSquared-Agency/Retrofit/internal/scoring"
)

func (a *app) newAnalyzeCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Send a survey to the remote analyzer",
		Example: `  retrofitctl analyze -f survey.yaml --endpoint http://model:8000/analyze
  RETROFIT_ANALYZER_TOKEN=... retrofitctl analyze -f survey.json --timeout 10s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var survey attributes.Survey
			if err := readInput(file, cmd.InOrStdin(), &survey); err != nil {
				return err
			}
			if err := survey.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			client := analyzer.NewHTTPClient(
				a.v.GetString("analyzer.url"),
				a.v.GetString("analyzer.token"),
				a.analyzerTimeout(),
			)
			res, err := client.Analyze(ctx, survey.Features())
			if err != nil {
				return err
			}

			top := res.TopRecommendations
			if top == nil {
				top = scoring.TopRecommendations(res.Scenarios, scoring.NewEngine(a.topN()).TopN())
			}
			return a.renderResult(resultView{
				Source:             "remote",
				EENow:              res.EENow,
				Band:               scoring.Band(res.EENow),
				Scenarios:          res.Scenarios,
				TopRecommendations: top,
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "survey file (YAML or JSON, - for stdin)")
	cmd.Flags().String("endpoint", "", "analyzer URL (overrides analyzer.url)")
	cmd.Flags().Duration("timeout", 0, "analyzer timeout (overrides analyzer.timeout)")
	cmd.Flags().String("token", "", "analyzer bearer token (overrides analyzer.token)")
	_ = a.v.BindPFlag("analyzer.url", cmd.Flags().Lookup("endpoint"))
	_ = a.v.BindPFlag("analyzer.timeout", cmd.Flags().Lookup("timeout"))
	_ = a.v.BindPFlag("analyzer.token", cmd.Flags().Lookup("token"))
	return cmd
}
