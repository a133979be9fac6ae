package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/heraerp/coa/internal/config"
	"github.com/heraerp/coa/internal/gitops"
	"github.com/heraerp/coa/internal/rules"
	"github.com/heraerp/coa/internal/templates"
)

func newInitCommand() *cobra.Command {
	var withGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a COA workspace with default templates and rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, withGit)
		},
	}

	cmd.Flags().BoolVar(&withGit, "git", false, "initialize a git repository and commit the scaffold")

	return cmd
}

func runInit(dir string, withGit bool) error {
	cfg := config.Default()

	if err := os.MkdirAll(filepath.Join(dir, cfg.Persistence.DataDir), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// Default templates and rules.
	if err := templates.InstallDefaults(filepath.Join(dir, cfg.Templates.Dir)); err != nil {
		return fmt.Errorf("installing templates: %w", err)
	}
	if err := rules.SaveRulesFile(filepath.Join(dir, cfg.Rules.Path), rules.DefaultRulesFile()); err != nil {
		return fmt.Errorf("installing rules: %w", err)
	}

	// Workspace config.
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Keep the data dir present but empty.
	if err := os.WriteFile(filepath.Join(dir, cfg.Persistence.DataDir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if withGit {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		hash, err := gitops.Commit(dir, "init: COA workspace", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Printf("Initialized COA workspace at %s (%s)\n", dir, hash)
		return nil
	}

	fmt.Printf("Initialized COA workspace at %s\n", dir)
	return nil
}
