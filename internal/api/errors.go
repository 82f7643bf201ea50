package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/redact"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
)

// Client-facing error messages.
const (
	MsgValidationFailed   = "Validation failed"
	MsgInvalidTaskID      = "Invalid task ID"
	MsgInvalidRequest     = "Invalid request format"
	MsgInvalidCredentials = "Invalid username or password"
	MsgInvalidToken       = "Invalid or expired token"
	MsgNotFound           = "Resource not found"
	MsgInternal           = "An unexpected error occurred"
	MsgRouteNotFound      = "Route not found"
	MsgMethodNotAllowed   = "Method not allowed"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgInternal
	}

	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return MsgInvalidTaskID
	case errors.Is(err, domain.ErrValidation):
		return MsgValidationFailed
	case errors.Is(err, auth.ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return MsgInvalidToken
	case errors.Is(err, store.ErrNotFound):
		return MsgNotFound
	default:
		return MsgInternal
	}
}

// ErrorResponder renders service errors as JSON error envelopes.
// In development the redacted internal message replaces the generic 500 text.
type ErrorResponder struct {
	exposeInternal bool
}

// NewErrorResponder creates an ErrorResponder. exposeInternal should be false
// in production.
func NewErrorResponder(exposeInternal bool) ErrorResponder {
	return ErrorResponder{exposeInternal: exposeInternal}
}

// HandleAPIError writes the response for err. Validation errors carry their
// per-field messages in the envelope's data list.
func (e ErrorResponder) HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	userMessage := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && e.exposeInternal {
		userMessage = redact.Error(err)
	}

	var opts []shared.ResponseOption
	var verrs *domain.ValidationErrors
	if errors.As(err, &verrs) {
		opts = append(opts, shared.WithDetails(verrs.Messages()))
	}

	shared.RespondWithErrorAndLog(w, r, status, userMessage, err, opts...)
}
