package v0_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	v0 "github.com/agentfleet/fleetconsole/internal/console/api/handlers/v0"
	"github.com/agentfleet/fleetconsole/internal/console/lifecycle"
	"github.com/agentfleet/fleetconsole/internal/console/service"
	svctesting "github.com/agentfleet/fleetconsole/internal/console/service/testing"
	"github.com/agentfleet/fleetconsole/internal/console/store"
	"github.com/agentfleet/fleetconsole/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServers() []models.ServerRecord {
	return []models.ServerRecord{
		{ID: "pub-1", Name: "orders-search", RunStatus: models.RunStatusOnline, IsPublic: true},
		{ID: "priv-1", Name: "billing-reports", RunStatus: models.RunStatusOffline},
		{ID: "priv-2", Name: "support-kb", RunStatus: models.RunStatusOffline},
	}
}

func newTestAPI(t *testing.T) (*http.ServeMux, huma.API) {
	t.Helper()
	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("Test API", "1.0.0"))
	return mux, api
}

func TestListServersEndpoint(t *testing.T) {
	fake := svctesting.NewFakeConsole()
	fake.Servers = testServers()

	mux, api := newTestAPI(t)
	v0.RegisterServersEndpoints(api, "/v0", fake, false)
	v0.RegisterServersEndpoints(api, "/admin/v0", fake, true)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedCount  int
		expectedTotal  int
	}{
		{
			name:           "admin sees all servers",
			path:           "/admin/v0/servers",
			expectedStatus: http.StatusOK,
			expectedCount:  3,
			expectedTotal:  3,
		},
		{
			name:           "public surface only sees public servers",
			path:           "/v0/servers",
			expectedStatus: http.StatusOK,
			expectedCount:  1,
			expectedTotal:  1,
		},
		{
			name:           "status filter",
			path:           "/admin/v0/servers?status=offline",
			expectedStatus: http.StatusOK,
			expectedCount:  2,
			expectedTotal:  2,
		},
		{
			name:           "search",
			path:           "/admin/v0/servers?search=billing",
			expectedStatus: http.StatusOK,
			expectedCount:  1,
			expectedTotal:  1,
		},
		{
			name:           "out of range page is empty",
			path:           "/admin/v0/servers?page=5",
			expectedStatus: http.StatusOK,
			expectedCount:  0,
			expectedTotal:  3,
		},
		{
			name:           "invalid page",
			path:           "/admin/v0/servers?page=abc",
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var body v0.ServerListBody
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Len(t, body.Servers, tt.expectedCount)
			assert.Equal(t, tt.expectedCount, body.Metadata.Count)
			assert.Equal(t, tt.expectedTotal, body.Metadata.TotalCount)
			assert.Equal(t, tt.expectedTotal, body.CountsByStatus[models.StatusFilterAll])
		})
	}
}

func TestGetServerEndpoint(t *testing.T) {
	fake := svctesting.NewFakeConsole()
	fake.Servers = testServers()

	mux, api := newTestAPI(t)
	v0.RegisterServersEndpoints(api, "/v0", fake, false)
	v0.RegisterServersEndpoints(api, "/admin/v0", fake, true)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedName   string
	}{
		{name: "admin gets private record", path: "/admin/v0/servers/priv-1", expectedStatus: http.StatusOK, expectedName: "billing-reports"},
		{name: "public surface gets public record", path: "/v0/servers/pub-1", expectedStatus: http.StatusOK, expectedName: "orders-search"},
		{name: "public surface hides private record", path: "/v0/servers/priv-1", expectedStatus: http.StatusNotFound},
		{name: "unknown id", path: "/admin/v0/servers/nope", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var record models.ServerRecord
				require.NoError(t, json.NewDecoder(w.Body).Decode(&record))
				assert.Equal(t, tt.expectedName, record.Name)
			}
		})
	}
}

func TestCreateServerEndpoint(t *testing.T) {
	fake := svctesting.NewFakeConsole()
	fake.CreateServerFn = func(_ context.Context, draft *models.ServerDraft) (*models.ServerRecord, error) {
		if strings.TrimSpace(draft.Name) == "" {
			return nil, &service.ValidationError{Field: "name", Message: "name is required"}
		}
		return &models.ServerRecord{ID: "new-1", Name: draft.Name, RunStatus: models.RunStatusOffline}, nil
	}

	mux, api := newTestAPI(t)
	v0.RegisterEditEndpoints(api, "/admin/v0", fake)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "valid draft",
			body:           `{"name":"new-server","kind":"remote","transport":"sse","endpoint":"http://localhost:9000"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "validation failure",
			body:           `{"name":"","kind":"remote","transport":"sse","endpoint":""}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/v0/servers", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestDeleteServerEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		skipFlag       bool
		deleteErr      error
		expectedStatus int
		expectedCalls  int
	}{
		{
			name:           "unconfirmed delete is rejected",
			path:           "/admin/v0/servers/priv-1",
			expectedStatus: http.StatusPreconditionFailed,
			expectedCalls:  0,
		},
		{
			name:           "confirmed delete succeeds",
			path:           "/admin/v0/servers/priv-1?confirm=true",
			expectedStatus: http.StatusOK,
			expectedCalls:  1,
		},
		{
			name:           "skip window bypasses confirmation",
			path:           "/admin/v0/servers/priv-1",
			skipFlag:       true,
			expectedStatus: http.StatusOK,
			expectedCalls:  1,
		},
		{
			name:           "running server conflicts",
			path:           "/admin/v0/servers/pub-1?confirm=true",
			deleteErr:      service.ErrServerRunning,
			expectedStatus: http.StatusConflict,
			expectedCalls:  1,
		},
		{
			name:           "unknown id",
			path:           "/admin/v0/servers/nope?confirm=true",
			deleteErr:      store.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := svctesting.NewFakeConsole()
			fake.SkipFlag = tt.skipFlag
			deleteErr := tt.deleteErr
			fake.DeleteServerFn = func(context.Context, string) error {
				return deleteErr
			}

			mux, api := newTestAPI(t)
			v0.RegisterEditEndpoints(api, "/admin/v0", fake)

			req := httptest.NewRequest(http.MethodDelete, tt.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCalls, fake.DeleteServerCalls)
		})
	}
}

func TestSkipConfirmationEndpoint(t *testing.T) {
	fake := svctesting.NewFakeConsole()

	mux, api := newTestAPI(t)
	v0.RegisterEditEndpoints(api, "/admin/v0", fake)

	req := httptest.NewRequest(http.MethodPost, "/admin/v0/confirmation/skip", strings.NewReader(`{"hours":2}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, fake.SkipFlag)
}

func TestToggleEndpoints(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		toggleErr      error
		expectedStatus int
	}{
		{name: "status toggle", path: "/admin/v0/servers/priv-1/status/toggle", expectedStatus: http.StatusOK},
		{name: "status toggle mid-transition", path: "/admin/v0/servers/priv-1/status/toggle", toggleErr: lifecycle.ErrTransitionInProgress, expectedStatus: http.StatusConflict},
		{name: "status toggle unknown id", path: "/admin/v0/servers/nope/status/toggle", toggleErr: store.ErrNotFound, expectedStatus: http.StatusNotFound},
		{name: "visibility toggle", path: "/admin/v0/servers/priv-1/visibility/toggle", expectedStatus: http.StatusOK},
		{name: "visibility toggle mid-transition", path: "/admin/v0/servers/priv-1/visibility/toggle", toggleErr: lifecycle.ErrTransitionInProgress, expectedStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := svctesting.NewFakeConsole()
			toggleErr := tt.toggleErr
			fake.ToggleRunStatusFn = func(_ context.Context, id string) (*models.ServerRecord, error) {
				if toggleErr != nil {
					return nil, toggleErr
				}
				return &models.ServerRecord{ID: id, RunStatus: models.RunStatusStarting}, nil
			}
			fake.ToggleVisibilityFn = func(_ context.Context, id string) (*models.ServerRecord, error) {
				if toggleErr != nil {
					return nil, toggleErr
				}
				return &models.ServerRecord{ID: id, VisibilityStatus: models.VisibilityPublishing}, nil
			}

			mux, api := newTestAPI(t)
			v0.RegisterLifecycleEndpoints(api, "/admin/v0", fake)

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
