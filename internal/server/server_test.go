package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heraerp/coa/internal/assignment"
	"github.com/heraerp/coa/internal/model"
	"github.com/heraerp/coa/internal/persist"
	"github.com/heraerp/coa/internal/rules"
	"github.com/heraerp/coa/internal/templates"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, templates.InstallDefaults(dir))
	store := templates.NewStore(dir, zerolog.Nop())
	engine := rules.NewEngine(rules.DefaultRules(), store, rules.EngineOptions{}, zerolog.Nop())
	fileStore := persist.NewFileStore(t.TempDir(), persist.GitOptions{}, zerolog.Nop())
	svc := assignment.NewService(store, engine, fileStore, nil, zerolog.Nop())
	return New(svc, zerolog.Nop()).Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validBody() map[string]any {
	return map[string]any{
		"request": map[string]any{
			"organization_id":   "org-1",
			"country_template":  "india",
			"industry_template": "restaurant",
			"assigned_by":       "tester",
		},
		"context": map[string]any{
			"organization_id": "org-1",
			"country":         "india",
			"industry":        "restaurant",
			"status":          "setup",
		},
	}
}

func TestListTemplates(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/coa/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Templates []model.AvailableTemplate `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Templates, 5)
}

func TestRecommend(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/coa/recommend?country=India&industry=fine+dining", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rec assignment.Recommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "india", rec.CountryTemplate)
	assert.Equal(t, "restaurant", rec.IndustryTemplate)
	assert.NotEmpty(t, rec.Rationale)
}

func TestValidateRequiresContext(t *testing.T) {
	router := testRouter(t)

	body := validBody()
	delete(body, "context")
	w := doJSON(t, router, http.MethodPost, "/api/v1/coa/validate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "context is required")
}

func TestValidateReturnsResult(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/coa/validate", validBody())
	require.Equal(t, http.StatusOK, w.Code)

	var result model.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Valid)
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/coa/validate", bytes.NewReader([]byte("{oops")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignRoundTrip(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/coa/assignment", validBody())
	require.Equal(t, http.StatusOK, w.Code)

	var result model.TemplateAssignmentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	require.NotNil(t, result.CoaStructure)
	assert.Equal(t, []string{"base", "country", "industry"}, result.CoaStructure.Layers)

	// The assignment is readable back through the API.
	w = doJSON(t, router, http.MethodGet, "/api/v1/coa/assignment/org-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cfg model.OrganizationCoaConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, result.ConfigurationID, cfg.ConfigurationID)
	assert.Equal(t, "india", cfg.CountryTemplate)
}

func TestAssignBlockedReturns422(t *testing.T) {
	router := testRouter(t)

	body := validBody()
	body["context"].(map[string]any)["country"] = ""
	w := doJSON(t, router, http.MethodPost, "/api/v1/coa/assignment", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var result model.TemplateAssignmentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
}

func TestGetAssignmentNotFound(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/coa/assignment/org-absent", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryEmptyIsJSONArray(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/coa/assignment/org-1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestPutAssignmentRejectsMismatchedOrg(t *testing.T) {
	router := testRouter(t)

	cfg := model.OrganizationCoaConfig{OrganizationID: "org-other"}
	w := doJSON(t, router, http.MethodPut, "/api/v1/coa/assignment/org-1", cfg)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// The HTTP store speaks the same persistence routes serve exposes, so a
// remote workspace can be used as a backend directly.
func TestHTTPStoreAgainstServer(t *testing.T) {
	router := testRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	store := persist.NewHTTPStore(srv.URL, srv.Client())
	ctx := context.Background()

	_, err := store.GetConfig(ctx, "org-1")
	require.ErrorIs(t, err, persist.ErrNotFound)

	cfg := &model.OrganizationCoaConfig{
		ConfigurationID: "cfg-1",
		OrganizationID:  "org-1",
		BaseTemplate:    "universal_base",
		CountryTemplate: "india",
		AssignedBy:      "tester",
		Status:          model.AssignmentActive,
	}
	require.NoError(t, store.SaveConfig(ctx, cfg))

	got, err := store.GetConfig(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, "cfg-1", got.ConfigurationID)

	require.NoError(t, store.AppendHistory(ctx, model.CoaAssignmentHistory{
		ID:             "h1",
		OrganizationID: "org-1",
		ChangeType:     model.ChangeInitialAssignment,
		Current:        *cfg,
		ChangedBy:      "tester",
	}))

	records, err := store.History(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "h1", records[0].ID)
}

func TestHistoryAfterAssignment(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/coa/assignment", validBody())
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/coa/assignment/org-1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var records []model.CoaAssignmentHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, model.ChangeInitialAssignment, records[0].ChangeType)
}
