package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heraerp/coa/internal/rules"
	"github.com/heraerp/coa/internal/templates"
)

func newTemplatesCommand() *cobra.Command {
	var repoDir string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List installed country and industry templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			svc, err := ws.service()
			if err != nil {
				return err
			}

			available, err := svc.AvailableTemplates()
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(available)
			}
			for _, t := range available {
				fmt.Printf("%-10s %-22s %-35s %3d accounts", t.Kind, t.Code, t.Name, t.AccountCount)
				if len(t.RegulatoryRequirements) > 0 {
					fmt.Printf("  [%s]", strings.Join(t.RegulatoryRequirements, ", "))
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "workspace directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")

	return cmd
}

func newMergeCommand() *cobra.Command {
	var repoDir string
	var country, industry string
	var asJSON, check bool

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Print the merged chart of accounts for a layer combination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}

			merger := templates.NewMerger(ws.templateStore())
			chart, err := merger.BuildMergedCoa(country, industry)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(chart)
			}
			fmt.Printf("Layers: %s\n", strings.Join(chart.Layers, " -> "))
			for _, a := range chart.Accounts {
				marker := " "
				switch {
				case a.CountrySpecific:
					marker = "C"
				case a.IndustrySpecific:
					marker = "I"
				}
				fmt.Printf("%s %-9s %-40s %-12s %s\n", marker, a.Code, a.Name, a.Type, a.NormalBalance)
			}
			fmt.Printf("%d accounts (%d required, %d country-specific, %d industry-specific)\n",
				chart.Summary.TotalAccounts, chart.Summary.RequiredAccounts,
				chart.Summary.CountrySpecific, chart.Summary.IndustrySpecific)

			if check {
				result := rules.ValidateAccountStructure(chart.Accounts)
				printResult(result)
				if result.HasBlockingErrors() {
					return fmt.Errorf("structural validation failed")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "workspace directory")
	cmd.Flags().StringVar(&country, "country", "", "country template code")
	cmd.Flags().StringVar(&industry, "industry", "", "industry template code")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	cmd.Flags().BoolVar(&check, "check", false, "run structural validation on the merged chart")

	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
