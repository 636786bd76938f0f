package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/audit"
	"github.com/ekaya-inc/campaign-engine/pkg/auth"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// AuthHandler handles registration, login and the session endpoints.
type AuthHandler struct {
	authService auth.AuthService
	sessions    *auth.SessionStore
	auditor     *audit.SecurityAuditor
	prefix      string
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService auth.AuthService, sessions *auth.SessionStore, auditor *audit.SecurityAuditor, prefix string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		auditor:     auditor,
		prefix:      prefix,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, mw RouteMiddleware) {
	mux.HandleFunc("POST "+h.prefix+"/auth/register", mw.Public(h.Register))
	mux.HandleFunc("POST "+h.prefix+"/auth/login", mw.Public(h.Login))
	mux.HandleFunc("POST "+h.prefix+"/auth/logout", h.Logout)
	mux.HandleFunc("GET "+h.prefix+"/auth/me", mw.Protected(h.Me))
}

// Register handles POST /auth/register with a JSON body.
// The response never includes the password hash.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if !decodeJSON(w, r, &reg, h.logger) {
		return
	}

	user, err := h.authService.Register(r.Context(), &reg)
	if err != nil {
		writeServiceError(w, h.logger, err, "register user")
		return
	}
	respond(w, h.logger, http.StatusOK, user)
}

// Login handles POST /auth/login with form fields username and password.
// The issued token is returned and also stored in the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		if err := ErrorResponse(w, http.StatusUnprocessableEntity, "validation_error", "Invalid form body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		if err := ErrorResponse(w, http.StatusUnprocessableEntity, "validation_error", "username and password are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	token, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		if h.auditor != nil && errors.Is(err, apperrors.ErrUnauthorized) {
			h.auditor.LogLoginFailure(username, r.RemoteAddr)
		}
		writeServiceError(w, h.logger, err, "log in")
		return
	}

	if h.sessions != nil {
		if err := h.sessions.Save(w, r, token.AccessToken); err != nil {
			// The bearer token still works without the cookie.
			h.logger.Warn("Failed to save session", zap.Error(err))
		}
	}
	respond(w, h.logger, http.StatusOK, token)
}

// Logout handles POST /auth/logout by expiring the session cookie.
// Bearer tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.sessions != nil {
		if err := h.sessions.Clear(w, r); err != nil {
			h.logger.Warn("Failed to clear session", zap.Error(err))
		}
	}
	respond(w, h.logger, http.StatusOK, MessageResponse{Message: "Logged out"})
}

// Me handles GET /auth/me and returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCaller(w, r, h.logger)
	if !ok {
		return
	}
	respond(w, h.logger, http.StatusOK, user)
}
