package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/heraerp/coa/internal/model"
)

// HTTPStore persists through a remote assignment API:
//
//	GET  /api/v1/coa/assignment/:organizationId
//	PUT  /api/v1/coa/assignment/:organizationId
//	GET  /api/v1/coa/assignment/:organizationId/history
//	POST /api/v1/coa/assignment/:organizationId/history
//
// The routes match what `coa serve` exposes, so one workspace can persist
// into another. Persistence failures are returned to the caller, never
// masked.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStore creates an HTTPStore for an API base URL such as
// "https://hera.example.com".
func NewHTTPStore(baseURL string, client *http.Client) *HTTPStore {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPStore{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// GetConfig fetches an organization's configuration. A 404 maps to
// ErrNotFound.
func (s *HTTPStore) GetConfig(ctx context.Context, organizationID string) (*model.OrganizationCoaConfig, error) {
	var cfg model.OrganizationCoaConfig
	err := s.do(ctx, http.MethodGet, "/api/v1/coa/assignment/"+organizationID, nil, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig puts an organization's configuration.
func (s *HTTPStore) SaveConfig(ctx context.Context, cfg *model.OrganizationCoaConfig) error {
	return s.do(ctx, http.MethodPut, "/api/v1/coa/assignment/"+cfg.OrganizationID, cfg, nil)
}

// AppendHistory posts one audit record.
func (s *HTTPStore) AppendHistory(ctx context.Context, rec model.CoaAssignmentHistory) error {
	return s.do(ctx, http.MethodPost, "/api/v1/coa/assignment/"+rec.OrganizationID+"/history", rec, nil)
}

// History fetches all audit records for an organization.
func (s *HTTPStore) History(ctx context.Context, organizationID string) ([]model.CoaAssignmentHistory, error) {
	var records []model.CoaAssignmentHistory
	err := s.do(ctx, http.MethodGet, "/api/v1/coa/assignment/"+organizationID+"/history", nil, &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *HTTPStore) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling assignment API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("assignment API %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding assignment API response: %w", err)
	}
	return nil
}
