package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/heraerp/coa/internal/assignment"
	"github.com/heraerp/coa/internal/config"
	"github.com/heraerp/coa/internal/persist"
	"github.com/heraerp/coa/internal/rules"
	"github.com/heraerp/coa/internal/templates"
)

// workspace bundles a loaded coa.yaml with the directory it was found in.
type workspace struct {
	dir string
	cfg *config.Config
	log zerolog.Logger
}

// openWorkspace resolves dir and loads its coa.yaml.
func openWorkspace(dir string) (*workspace, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("opening workspace %s: %w", absDir, err)
	}

	return &workspace{dir: absDir, cfg: cfg, log: newLogger(cfg.Log.Level)}, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().Logger()
}

// templateStore creates the store for the workspace's template directory.
func (w *workspace) templateStore() *templates.Store {
	return templates.NewStore(filepath.Join(w.dir, w.cfg.Templates.Dir), w.log)
}

// service wires the full assignment service from the workspace config.
func (w *workspace) service() (*assignment.Service, error) {
	store := w.templateStore()

	ruleList, err := rules.LoadRules(filepath.Join(w.dir, w.cfg.Rules.Path))
	if err != nil {
		return nil, err
	}
	engine := rules.NewEngine(ruleList, store, rules.EngineOptions{
		EnforceLock: w.cfg.Governance.EnforceLock,
	}, w.log)

	var ps persist.Store
	switch w.cfg.Persistence.Mode {
	case config.PersistHTTP:
		if w.cfg.Persistence.APIBaseURL == "" {
			return nil, fmt.Errorf("persistence mode %q requires api_base_url", config.PersistHTTP)
		}
		ps = persist.NewHTTPStore(w.cfg.Persistence.APIBaseURL, nil)
	case config.PersistFile, "":
		ps = persist.NewFileStore(filepath.Join(w.dir, w.cfg.Persistence.DataDir), persist.GitOptions{
			AutoCommit:  w.cfg.Git.AutoCommit,
			AuthorName:  w.cfg.Git.AuthorName,
			AuthorEmail: w.cfg.Git.AuthorEmail,
		}, w.log)
	default:
		return nil, fmt.Errorf("unknown persistence mode %q", w.cfg.Persistence.Mode)
	}

	return assignment.NewService(store, engine, ps, nil, w.log), nil
}
