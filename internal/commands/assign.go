package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAssignCommand() *cobra.Command {
	var repoDir string
	var skipContext bool
	req := &requestFlags{}
	orgCtx := &contextFlags{}

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Validate and persist a template assignment",
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

			ctx := orgCtx.context(req.orgID)
			if skipContext {
				ctx = nil
			}

			result, err := svc.AssignTemplate(cmd.Context(), req.request(), ctx)
			if err != nil {
				return err
			}

			if !result.Success {
				for _, e := range result.Errors {
					fmt.Printf("error [%s] %s: %s\n", e.Severity, e.RuleID, e.Message)
				}
				return fmt.Errorf("assignment rejected: %s", result.Message)
			}

			for _, w := range result.Warnings {
				fmt.Printf("warning %s: %s\n", w.RuleID, w.Message)
			}
			fmt.Printf("%s\n", result.Message)
			fmt.Printf("configuration %s, layers: %s\n",
				result.ConfigurationID, strings.Join(result.CoaStructure.Layers, " -> "))
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "workspace directory")
	cmd.Flags().BoolVar(&skipContext, "skip-context", false, "skip rule validation (request checks only)")
	req.register(cmd)
	orgCtx.register(cmd)

	return cmd
}
