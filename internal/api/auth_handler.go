package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/service/auth"
)

// Authenticator checks credentials and issues access tokens.
type Authenticator interface {
	Login(ctx context.Context, name, password string) (string, error)
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authenticator Authenticator
	errors        ErrorResponder
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authenticator Authenticator, responder ErrorResponder) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		errors:        responder,
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		messages := shared.ValidationMessages(err)
		message := MsgValidationFailed
		if len(messages) > 0 {
			message = messages[0]
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, message, shared.WithDetails(messages))
		return
	}

	token, err := h.authenticator.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgInvalidCredentials, err,
				shared.WithElevatedLogLevel())
			return
		}
		h.errors.HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, LoginResponse{AccessToken: token})
}
