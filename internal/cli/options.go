package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
)

func (a *app) newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the accepted values for each home record field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := attributes.Options()
			if a.format() == FormatJSON {
				return writeJSONTo(a.out, cat)
			}
			for _, g := range []struct {
				name   string
				values []string
			}{
				{"buildingType", cat.BuildingTypes},
				{"propertyType", cat.PropertyTypes},
				{"tenure", cat.Tenures},
				{"constructionAge", cat.ConstructionAges},
				{"primaryFuel", cat.PrimaryFuels},
				{"heatingSystem", cat.HeatingSystems},
				{"glazingType", cat.GlazingTypes},
				{"wallDescription", cat.WallDescriptions},
				{"roofDescription", cat.RoofDescriptions},
				{"floorDescription", cat.FloorDescriptions},
			} {
				fmt.Fprintln(a.out, headingStyle.Render(g.name))
				for _, v := range g.values {
					fmt.Fprintf(a.out, "  %s\n", v)
				}
			}
			return nil
		},
	}
}
