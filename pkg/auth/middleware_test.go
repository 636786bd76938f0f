package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// mockAuthService is a mock implementation of AuthService for testing.
type mockAuthService struct {
	AuthService
	user        *models.User
	claims      *Claims
	token       string
	validateErr error
}

func (m *mockAuthService) ValidateRequest(r *http.Request) (*models.User, *Claims, string, error) {
	if m.validateErr != nil {
		return nil, nil, "", m.validateErr
	}
	return m.user, m.claims, m.token, nil
}

func TestMiddleware_RequireAuth_Success(t *testing.T) {
	user := &models.User{ID: 7, Username: "alice", Role: models.RoleManager}
	claims := &Claims{}
	claims.Subject = "alice"
	middleware := NewMiddleware(&mockAuthService{user: user, claims: claims, token: "test-token"}, zap.NewNop())

	var ctxUser *models.User
	var ctxClaims *Claims
	var ctxToken string

	handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		ctxUser, _ = GetUser(r.Context())
		ctxClaims, _ = GetClaims(r.Context())
		ctxToken, _ = GetToken(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projects/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if ctxUser == nil || ctxUser.ID != 7 {
		t.Error("expected user to be set in context")
	}
	if ctxClaims == nil || ctxClaims.Subject != "alice" {
		t.Error("expected claims to be set in context")
	}
	if ctxToken != "test-token" {
		t.Errorf("expected token 'test-token' in context, got %q", ctxToken)
	}
}

func TestMiddleware_RequireAuth_Unauthorized(t *testing.T) {
	middleware := NewMiddleware(&mockAuthService{validateErr: ErrMissingAuthorization}, zap.NewNop())

	var handlerCalled bool
	handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projects/", nil))

	if handlerCalled {
		t.Error("expected handler not to be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("expected WWW-Authenticate: Bearer header")
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["error"] != "unauthorized" {
		t.Errorf("expected error 'unauthorized', got %q", body["error"])
	}
}

func TestMiddleware_RequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantCode int
	}{
		{"matching role", models.RoleManager, http.StatusOK},
		{"other role", models.RoleInfluencer, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{ID: 1, Username: "u", Role: tt.role}
			middleware := NewMiddleware(&mockAuthService{user: user, claims: &Claims{}}, zap.NewNop())

			handler := middleware.RequireRole(models.RoleManager)(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats/manager", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}
