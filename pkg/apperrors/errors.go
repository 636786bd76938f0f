package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid workflow transition")
)

// Error pairs one of the sentinel kinds above with a client-facing message.
// errors.Is(err, ErrNotFound) matches an *Error whose Kind is ErrNotFound.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound reports a missing target or referenced entity, e.g. NotFound("Project")
// yields "Project not found".
func NotFound(entity string) error {
	return &Error{Kind: ErrNotFound, Message: entity + " not found"}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

// Unauthorized reports a missing or rejected credential. Messages must stay generic.
func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// Forbidden reports an authenticated caller acting outside its role.
func Forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

// Validation reports a malformed or semantically invalid request.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a workflow stage change rejected by strict mode.
func InvalidTransition(from, to string) error {
	return &Error{
		Kind:    ErrInvalidTransition,
		Message: fmt.Sprintf("cannot move workflow stage from %s to %s", from, to),
	}
}

// Message returns the client-facing message carried by err, or fallback when
// err is not an *Error.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
