package persist

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/heraerp/coa/internal/gitops"
	"github.com/heraerp/coa/internal/model"
)

const assignmentsDir = "assignments"

// GitOptions control auto-committing the data dir after each change.
type GitOptions struct {
	AutoCommit  bool
	AuthorName  string
	AuthorEmail string
}

// FileStore keeps configurations as one JSON document per organization and
// history as an append-only JSONL file next to it. With git auto-commit
// enabled every persisted change becomes a commit, so the data dir itself is
// an audit trail.
type FileStore struct {
	dataDir string
	git     GitOptions
	log     zerolog.Logger
}

// NewFileStore creates a FileStore rooted at dataDir.
func NewFileStore(dataDir string, git GitOptions, log zerolog.Logger) *FileStore {
	return &FileStore{dataDir: dataDir, git: git, log: log}
}

// GetConfig reads an organization's configuration. Returns ErrNotFound when
// none has been persisted.
func (s *FileStore) GetConfig(_ context.Context, organizationID string) (*model.OrganizationCoaConfig, error) {
	data, err := os.ReadFile(s.configPath(organizationID))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	var cfg model.OrganizationCoaConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration for %s: %w", organizationID, err)
	}
	return &cfg, nil
}

// SaveConfig writes an organization's configuration, replacing any previous
// one.
func (s *FileStore) SaveConfig(_ context.Context, cfg *model.OrganizationCoaConfig) error {
	dir := filepath.Join(s.dataDir, assignmentsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating assignments dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling configuration: %w", err)
	}
	if err := os.WriteFile(s.configPath(cfg.OrganizationID), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}

	s.commit(fmt.Sprintf("coa: assign templates to %s", cfg.OrganizationID))
	return nil
}

// AppendHistory appends one audit record to the organization's history file,
// creating it on first write.
func (s *FileStore) AppendHistory(_ context.Context, rec model.CoaAssignmentHistory) error {
	dir := filepath.Join(s.dataDir, assignmentsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating assignments dir: %w", err)
	}

	f, err := os.OpenFile(s.historyPath(rec.OrganizationID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling history record: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending history record: %w", err)
	}

	s.commit(fmt.Sprintf("coa: record %s for %s", rec.ChangeType, rec.OrganizationID))
	return nil
}

// History returns all audit records for an organization, oldest first.
// Returns an empty slice when no history exists.
func (s *FileStore) History(_ context.Context, organizationID string) ([]model.CoaAssignmentHistory, error) {
	f, err := os.Open(s.historyPath(organizationID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	var records []model.CoaAssignmentHistory
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec model.CoaAssignmentHistory
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("history line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return records, nil
}

func (s *FileStore) commit(message string) {
	if !s.git.AutoCommit || !gitops.IsRepo(s.dataDir) {
		return
	}
	hash, err := gitops.Commit(s.dataDir, message, s.git.AuthorName, s.git.AuthorEmail, assignmentsDir)
	if err != nil {
		s.log.Warn().Err(err).Msg("auto-commit failed")
		return
	}
	s.log.Debug().Str("commit", hash).Msg("auto-committed assignment change")
}

func (s *FileStore) configPath(organizationID string) string {
	return filepath.Join(s.dataDir, assignmentsDir, organizationID+".json")
}

func (s *FileStore) historyPath(organizationID string) string {
	return filepath.Join(s.dataDir, assignmentsDir, organizationID+".history.jsonl")
}
