package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/auth"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// parseID extracts a positive integer path parameter. On failure it writes a
// 422 response naming the entity and returns false.
func parseID(w http.ResponseWriter, r *http.Request, pathParam, entity string, logger *zap.Logger) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(pathParam), 10, 64)
	if err != nil || id <= 0 {
		if err := ErrorResponse(w, http.StatusUnprocessableEntity, "validation_error", "Invalid "+entity+" ID"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return id, true
}

// parsePagination reads skip and limit query parameters. limit defaults to
// 100 and is capped at 1000.
func parsePagination(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (offset, limit int, ok bool) {
	offset, ok = queryInt(w, r, "skip", 0, logger)
	if !ok {
		return 0, 0, false
	}
	limit, ok = queryInt(w, r, "limit", defaultPageLimit, logger)
	if !ok {
		return 0, 0, false
	}
	return offset, min(limit, maxPageLimit), true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, def int, logger *zap.Logger) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		if err := ErrorResponse(w, http.StatusUnprocessableEntity, "validation_error", name+" must be a non-negative integer"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return v, true
}

// requireCaller returns the authenticated user. Without one it writes a 401
// and returns false.
func requireCaller(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (*models.User, bool) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		writeServiceError(w, logger, apperrors.Unauthorized("Could not validate credentials"), "authenticate")
		return nil, false
	}
	return user, true
}
