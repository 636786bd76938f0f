package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/logging"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// MessageResponse is the body of delete and logout responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// errorStatus maps service errors onto HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusBadRequest, "conflict"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusUnprocessableEntity, "validation_error"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeServiceError writes err as a JSON error. Typed errors keep their
// message; anything else is logged and answered with a generic 500 so
// storage details never reach the client.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	status, code := errorStatus(err)

	message := apperrors.Message(err, "")
	if status == http.StatusInternalServerError || message == "" {
		logger.Error("Failed to "+action, zap.String("error", logging.SanitizeError(err)))
		message = "Failed to " + action
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	if err := ErrorResponse(w, status, code, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// decodeJSON reads the request body into dst. A malformed body is answered
// with 422 and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, logger *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err := ErrorResponse(w, http.StatusUnprocessableEntity, "validation_error", "Invalid request body"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return false
	}
	return true
}

// respond writes data as JSON, logging encoding failures.
func respond(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	if err := WriteJSON(w, status, data); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}
