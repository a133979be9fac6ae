package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/heraerp/coa/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered. A .env file in the working directory is loaded when present.
func NewRootCommand() *cobra.Command {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "coa",
		Short:   "Chart of accounts template assignment and validation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newTemplatesCommand())
	rootCmd.AddCommand(newMergeCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newRecommendCommand())
	rootCmd.AddCommand(newAssignCommand())
	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}
