package persist

import (
	"context"
	"errors"

	"github.com/heraerp/coa/internal/model"
)

// ErrNotFound reports that an organization has no persisted configuration.
var ErrNotFound = errors.New("assignment configuration not found")

// Store persists organization COA configurations and their append-only
// assignment history. Configurations are mutated in place on reassignment;
// history records are immutable once written.
type Store interface {
	GetConfig(ctx context.Context, organizationID string) (*model.OrganizationCoaConfig, error)
	SaveConfig(ctx context.Context, cfg *model.OrganizationCoaConfig) error
	AppendHistory(ctx context.Context, rec model.CoaAssignmentHistory) error
	History(ctx context.Context, organizationID string) ([]model.CoaAssignmentHistory, error)
}
