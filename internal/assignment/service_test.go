package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heraerp/coa/internal/model"
	"github.com/heraerp/coa/internal/persist"
	"github.com/heraerp/coa/internal/rules"
	"github.com/heraerp/coa/internal/templates"
)

func newTestService(t *testing.T, opts rules.EngineOptions) (*Service, persist.Store) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, templates.InstallDefaults(dir))
	store := templates.NewStore(dir, zerolog.Nop())
	engine := rules.NewEngine(rules.DefaultRules(), store, opts, zerolog.Nop())
	fileStore := persist.NewFileStore(t.TempDir(), persist.GitOptions{}, zerolog.Nop())
	return NewService(store, engine, fileStore, nil, zerolog.Nop()), fileStore
}

func setupRequest() *model.CoaAssignmentRequest {
	return &model.CoaAssignmentRequest{
		OrganizationID:   "org-1",
		CountryTemplate:  "india",
		IndustryTemplate: "restaurant",
		AssignedBy:       "tester",
	}
}

func setupContext() *model.OrganizationContext {
	return &model.OrganizationContext{
		OrganizationID:  "org-1",
		Country:         "india",
		Industry:        "restaurant",
		Status:          model.OrgStatusSetup,
		HasTransactions: false,
	}
}

func TestAssignTemplateFullFlow(t *testing.T) {
	svc, _ := newTestService(t, rules.EngineOptions{})
	ctx := context.Background()

	result, err := svc.AssignTemplate(ctx, setupRequest(), setupContext())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.ConfigurationID)
	require.NotNil(t, result.CoaStructure)
	assert.Equal(t, []string{"base", "country", "industry"}, result.CoaStructure.Layers)
	assert.Equal(t, 3, result.CoaStructure.AccountsPerLayer["country"])
	assert.Equal(t, 4, result.CoaStructure.AccountsPerLayer["industry"])
	assert.Positive(t, result.CoaStructure.AccountsPerLayer["base"])
	assert.Equal(t,
		result.CoaStructure.AccountsPerLayer["base"]+result.CoaStructure.AccountsPerLayer["country"]+result.CoaStructure.AccountsPerLayer["industry"],
		result.CoaStructure.TotalAccounts)

	cfg, err := svc.OrganizationAssignment(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, result.ConfigurationID, cfg.ConfigurationID)
	assert.Equal(t, model.BaseTemplateID, cfg.BaseTemplate)
	assert.Equal(t, "india", cfg.CountryTemplate)
	assert.Equal(t, model.AssignmentActive, cfg.Status)
	assert.True(t, cfg.AutoSyncEnabled)

	history, err := svc.AssignmentHistory(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.ChangeInitialAssignment, history[0].ChangeType)
	assert.Nil(t, history[0].Previous)
	assert.Equal(t, result.CoaStructure.TotalAccounts, history[0].AccountsAffected)
}

func TestAssignTemplateMissingCountryBlocked(t *testing.T) {
	svc, _ := newTestService(t, rules.EngineOptions{})
	ctx := context.Background()

	orgCtx := setupContext()
	orgCtx.Country = ""

	result, err := svc.AssignTemplate(ctx, setupRequest(), orgCtx)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "BLOCKED")

	var found bool
	for _, e := range result.Errors {
		if e.RuleID == "country_template_required" && e.Severity == model.SeverityCritical {
			found = true
		}
	}
	assert.True(t, found)

	// Nothing was persisted.
	_, err = svc.OrganizationAssignment(ctx, "org-1")
	assert.ErrorIs(t, err, persist.ErrNotFound)

	history, err := svc.AssignmentHistory(ctx, "org-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAssignTemplateWithoutContextSkipsEngine(t *testing.T) {
	svc, _ := newTestService(t, rules.EngineOptions{})

	result, err := svc.AssignTemplate(context.Background(), setupRequest(), nil)
	require.NoError(t, err)
	assert.True(t, result.Success, "without a context only the request checks run")
}

func TestAssignTemplateRequestChecks(t *testing.T) {
	svc, _ := newTestService(t, rules.EngineOptions{})
	ctx := context.Background()

	t.Run("missing organization id", func(t *testing.T) {
		req := setupRequest()
		req.OrganizationID = ""
		result, err := svc.AssignTemplate(ctx, req, nil)
		require.NoError(t, err)
		assert.False(t, result.Success)
		require.NotEmpty(t, result.Errors)
		assert.Equal(t, RuleRequestIncomplete, result.Errors[0].RuleID)
	})

	t.Run("missing assigned by", func(t *testing.T) {
		req := setupRequest()
		req.AssignedBy = ""
		result, err := svc.AssignTemplate(ctx, req, nil)
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("unknown country template", func(t *testing.T) {
		req := setupRequest()
		req.CountryTemplate = "atlantis"
		result, err := svc.AssignTemplate(ctx, req, nil)
		require.NoError(t, err)
		assert.False(t, result.Success)
		var found bool
		for _, e := range result.Errors {
			if e.RuleID == RuleTemplateNotFound {
				found = true
				assert.Contains(t, e.Message, "atlantis")
			}
		}
		assert.True(t, found)
	})
}

func TestAssignTemplateReassignment(t *testing.T) {
	svc, _ := newTestService(t, rules.EngineOptions{})
	ctx := context.Background()

	first, err := svc.AssignTemplate(ctx, setupRequest(), setupContext())
	require.NoError(t, err)
	require.True(t, first.Success)

	req := setupRequest()
	req.IndustryTemplate = "salon"
	second, err := svc.AssignTemplate(ctx, req, setupContext())
	require.NoError(t, err)
	require.True(t, second.Success)

	assert.Equal(t, first.ConfigurationID, second.ConfigurationID,
		"reassignment mutates the existing configuration")

	history, err := svc.AssignmentHistory(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.ChangeInitialAssignment, history[0].ChangeType)
	assert.Equal(t, model.ChangeTemplateChange, history[1].ChangeType)
	require.NotNil(t, history[1].Previous)
	assert.Equal(t, "restaurant", history[1].Previous.IndustryTemplate)
	assert.Equal(t, "salon", history[1].Current.IndustryTemplate)
}

func TestAssignTemplateLocksAfterGoLive(t *testing.T) {
	svc, _ := newTestService(t, rules.EngineOptions{})
	ctx := context.Background()

	orgCtx := setupContext()
	orgCtx.Status = model.OrgStatusLive
	orgCtx.HasTransactions = true

	result, err := svc.AssignTemplate(ctx, setupRequest(), orgCtx)
	require.NoError(t, err)
	require.True(t, result.Success, "the lock is advisory when enforcement is off")
	assert.NotEmpty(t, result.Warnings)

	cfg, err := svc.OrganizationAssignment(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentLocked, cfg.Status)
	assert.True(t, cfg.Locked)
}

func TestAssignTemplateEnforcedLockBlocks(t *testing.T) {
	svc, _ := newTestService(t, rules.EngineOptions{EnforceLock: true})
	ctx := context.Background()

	orgCtx := setupContext()
	orgCtx.Status = model.OrgStatusLive
	orgCtx.HasTransactions = true

	result, err := svc.AssignTemplate(ctx, setupRequest(), orgCtx)
	require.NoError(t, err)
	assert.False(t, result.Success)

	_, err = svc.OrganizationAssignment(ctx, "org-1")
	assert.ErrorIs(t, err, persist.ErrNotFound)
}

// failingStore fails a chosen operation to prove persistence errors surface.
type failingStore struct {
	persist.Store
	failSave    bool
	failHistory bool
}

func (f *failingStore) GetConfig(ctx context.Context, organizationID string) (*model.OrganizationCoaConfig, error) {
	return nil, persist.ErrNotFound
}

func (f *failingStore) SaveConfig(ctx context.Context, cfg *model.OrganizationCoaConfig) error {
	if f.failSave {
		return errors.New("disk full")
	}
	return nil
}

func (f *failingStore) AppendHistory(ctx context.Context, rec model.CoaAssignmentHistory) error {
	if f.failHistory {
		return errors.New("disk full")
	}
	return nil
}

func TestAssignTemplateSurfacesPersistenceErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, templates.InstallDefaults(dir))
	store := templates.NewStore(dir, zerolog.Nop())
	engine := rules.NewEngine(rules.DefaultRules(), store, rules.EngineOptions{}, zerolog.Nop())

	t.Run("save failure", func(t *testing.T) {
		svc := NewService(store, engine, &failingStore{failSave: true}, nil, zerolog.Nop())
		_, err := svc.AssignTemplate(context.Background(), setupRequest(), setupContext())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "persisting configuration")
	})

	t.Run("history failure", func(t *testing.T) {
		svc := NewService(store, engine, &failingStore{failHistory: true}, nil, zerolog.Nop())
		_, err := svc.AssignTemplate(context.Background(), setupRequest(), setupContext())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recording assignment history")
	})
}

func TestAssignTemplateIncompatiblePairWarns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, templates.InstallDefaults(dir))
	store := templates.NewStore(dir, zerolog.Nop())
	engine := rules.NewEngine(rules.DefaultRules(), store, rules.EngineOptions{}, zerolog.Nop())
	fileStore := persist.NewFileStore(t.TempDir(), persist.GitOptions{}, zerolog.Nop())

	matrix := DefaultMatrix()
	matrix.MarkIncompatible("india", "salon", "no statutory mapping yet")
	svc := NewService(store, engine, fileStore, matrix, zerolog.Nop())

	req := setupRequest()
	req.IndustryTemplate = "salon"
	result, err := svc.AssignTemplate(context.Background(), req, nil)
	require.NoError(t, err)

	assert.True(t, result.Success, "incompatibility is a warning, not a block")
	var found bool
	for _, w := range result.Warnings {
		if w.RuleID == RulePairCompatibility {
			found = true
			assert.Contains(t, w.Message, "no statutory mapping yet")
		}
	}
	assert.True(t, found)
}

func TestAssignTemplateRejectsStructurallyInvalidChart(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, templates.InstallDefaults(dir))

	// A base template missing accounts payable cannot be assigned.
	broken := &model.Template{
		ID:      model.BaseTemplateID,
		Name:    "Broken Base",
		Version: "1.0",
		AccountStructure: map[string]any{
			"assets": map[string]any{
				"current_assets": map[string]any{
					"accounts": []model.Account{
						{Code: "1100000", Name: "Cash", Type: model.AccountTypeAssets, NormalBalance: model.BalanceDebit, Required: true},
					},
				},
			},
		},
	}
	data, err := json.Marshal(broken)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base", "universal-base.json"), data, 0o644))

	store := templates.NewStore(dir, zerolog.Nop())
	engine := rules.NewEngine(rules.DefaultRules(), store, rules.EngineOptions{}, zerolog.Nop())
	fileStore := persist.NewFileStore(t.TempDir(), persist.GitOptions{}, zerolog.Nop())
	svc := NewService(store, engine, fileStore, nil, zerolog.Nop())

	req := setupRequest()
	req.CountryTemplate = ""
	req.IndustryTemplate = ""
	result, err := svc.AssignTemplate(context.Background(), req, nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
	var found bool
	for _, e := range result.Errors {
		if e.RuleID == rules.RuleRequiredAccountMissing {
			found = true
		}
	}
	assert.True(t, found)

	_, err = svc.OrganizationAssignment(context.Background(), "org-1")
	assert.ErrorIs(t, err, persist.ErrNotFound)
}

func TestValidateAssignmentDoesNotPersist(t *testing.T) {
	svc, _ := newTestService(t, rules.EngineOptions{})

	result := svc.ValidateAssignment(setupRequest(), setupContext())
	assert.True(t, result.Valid)

	_, err := svc.OrganizationAssignment(context.Background(), "org-1")
	assert.ErrorIs(t, err, persist.ErrNotFound)
}

func TestAvailableTemplates(t *testing.T) {
	svc, _ := newTestService(t, rules.EngineOptions{})

	list, err := svc.AvailableTemplates()
	require.NoError(t, err)
	require.Len(t, list, 5)

	byID := make(map[string]model.AvailableTemplate)
	for _, tmpl := range list {
		byID[tmpl.ID] = tmpl
	}

	india, ok := byID["country_india"]
	require.True(t, ok)
	assert.Equal(t, "country", india.Kind)
	assert.Equal(t, 3, india.AccountCount)
	assert.ElementsMatch(t, []string{"gst_compliance", "tds_compliance"}, india.RegulatoryRequirements)
	assert.ElementsMatch(t, []string{"healthcare", "restaurant", "salon"}, india.CompatibleWith)

	restaurant, ok := byID["industry_restaurant"]
	require.True(t, ok)
	assert.Equal(t, "industry", restaurant.Kind)
	assert.Equal(t, 4, restaurant.AccountCount)
	assert.ElementsMatch(t, []string{"india", "usa"}, restaurant.CompatibleWith)
}
