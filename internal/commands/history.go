package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heraerp/coa/internal/persist"
)

func newHistoryCommand() *cobra.Command {
	var repoDir string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history <organization-id>",
		Short: "Show the assignment audit trail for an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			svc, err := ws.service()
			if err != nil {
				return err
			}

			orgID := args[0]

			cfg, err := svc.OrganizationAssignment(cmd.Context(), orgID)
			if err != nil && !errors.Is(err, persist.ErrNotFound) {
				return err
			}

			records, err := svc.AssignmentHistory(cmd.Context(), orgID)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(map[string]any{"configuration": cfg, "history": records})
			}

			if cfg == nil {
				fmt.Printf("%s: no configuration assigned\n", orgID)
			} else {
				fmt.Printf("%s: base=%s country=%s industry=%s status=%s assigned %s by %s\n",
					orgID, cfg.BaseTemplate, orDash(cfg.CountryTemplate), orDash(cfg.IndustryTemplate),
					cfg.Status, cfg.AssignedAt.Format("2006-01-02"), cfg.AssignedBy)
			}
			for _, rec := range records {
				fmt.Printf("  %s %-19s by %-12s %d accounts\n",
					rec.ChangedAt.Format("2006-01-02 15:04"), rec.ChangeType, rec.ChangedBy, rec.AccountsAffected)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "workspace directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")

	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
