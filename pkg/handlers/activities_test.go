package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newActivitiesTestHandler(svc *mockActivityService, mw RouteMiddleware) func(*http.ServeMux) {
	h := NewActivitiesHandler(svc, "/api/v1", zap.NewNop())
	return func(mux *http.ServeMux) {
		h.RegisterRoutes(mux, mw)
	}
}

func TestActivitiesHandler_Recent(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantLimit int
	}{
		{"default", "", 5},
		{"zero falls back", "?limit=0", 5},
		{"explicit", "?limit=20", 20},
		{"capped", "?limit=100000", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockActivityService{}

			rec := serve(newActivitiesTestHandler(svc, asUser(testManager)), http.MethodGet, "/api/v1/activities/recent"+tt.query, "")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantLimit, svc.recentLimit)
			assert.Zero(t, svc.getCalls, "recent must not route to Get")
		})
	}
}

func TestActivitiesHandler_CreateForProject_UsesCaller(t *testing.T) {
	svc := &mockActivityService{}

	rec := serve(newActivitiesTestHandler(svc, asUser(testInfluencer)), http.MethodPost, "/api/v1/projects/3/activities",
		`{"activity_type":"note","description":"Called the client"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.input)
	assert.Equal(t, int64(3), svc.input.ProjectID)
	assert.Equal(t, testInfluencer.ID, svc.input.UserID)
	assert.Equal(t, "note", svc.input.ActivityType)
}

func TestActivitiesHandler_Create_DefaultsUserToCaller(t *testing.T) {
	svc := &mockActivityService{}

	rec := serve(newActivitiesTestHandler(svc, asUser(testManager)), http.MethodPost, "/api/v1/activities/",
		`{"project_id":3,"activity_type":"note","description":"Kickoff"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testManager.ID, svc.input.UserID)
}

func TestActivitiesHandler_NoMutationRoutes(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		rec := serve(newActivitiesTestHandler(&mockActivityService{}, asUser(testManager)), method, "/api/v1/activities/1", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
	}
}

func TestActivitiesHandler_ListForProject(t *testing.T) {
	svc := &mockActivityService{}

	rec := serve(newActivitiesTestHandler(svc, asUser(testManager)), http.MethodGet, "/api/v1/projects/6/activities", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(6), svc.projectID)
}
