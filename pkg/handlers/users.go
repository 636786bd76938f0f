package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/services"
)

// UsersHandler serves read-only user listings.
type UsersHandler struct {
	userService services.UserService
	res         resource
	prefix      string
	logger      *zap.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(userService services.UserService, prefix string, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		userService: userService,
		res:         newResource("users"),
		prefix:      prefix,
		logger:      logger,
	}
}

// RegisterRoutes registers the users handler's routes on the given mux.
func (h *UsersHandler) RegisterRoutes(mux *http.ServeMux, mw RouteMiddleware) {
	base := h.prefix + "/" + h.res.Path
	handleCollection(mux, "GET", base, mw.Protected(h.List))
	mux.HandleFunc("GET "+base+"/{id}", mw.Protected(h.Get))
}

// List handles GET /users/?skip=&limit=
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := parsePagination(w, r, h.logger)
	if !ok {
		return
	}
	users, err := h.userService.List(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "list users")
		return
	}
	respond(w, h.logger, http.StatusOK, users)
}

// Get handles GET /users/{id}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", h.res.Entity, h.logger)
	if !ok {
		return
	}
	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "get user")
		return
	}
	respond(w, h.logger, http.StatusOK, user)
}
