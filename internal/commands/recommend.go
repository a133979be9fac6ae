package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heraerp/coa/internal/assignment"
)

func newRecommendCommand() *cobra.Command {
	var country, industry string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend templates from free-text country and industry hints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := assignment.RecommendTemplates(assignment.Profile{
				Country:  country,
				Industry: industry,
			})

			if asJSON {
				return printJSON(rec)
			}
			fmt.Printf("country template:  %s\n", orDash(rec.CountryTemplate))
			fmt.Printf("industry template: %s\n", orDash(rec.IndustryTemplate))
			for _, r := range rec.Rationale {
				fmt.Printf("  - %s\n", r)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "country hint, e.g. \"India\"")
	cmd.Flags().StringVar(&industry, "industry", "", "industry hint, e.g. \"fine dining\"")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")

	return cmd
}
