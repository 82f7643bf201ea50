package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/mocks"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	validClaims := &auth.Claims{PrincipalID: 2, Name: "user2"}

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		expectedStatus int
		expectedError  string
		expectValidate bool
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			expectedStatus: http.StatusOK,
			expectValidate: true,
		},
		{
			name:           "missing header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  MsgMalformedHeader,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjE6cGFzc3dvcmQx",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  MsgMalformedHeader,
		},
		{
			name:           "lower case scheme",
			authHeader:     "bearer valid-token",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  MsgMalformedHeader,
		},
		{
			name:           "empty token",
			authHeader:     "Bearer ",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  MsgMalformedHeader,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  MsgInvalidToken,
			expectValidate: true,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  MsgInvalidToken,
			expectValidate: true,
		},
		{
			name:           "unexpected failure",
			authHeader:     "Bearer some-token",
			validateErr:    errors.New("key store offline"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  MsgAuthError,
			expectValidate: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens := &mocks.MockTokenService{Claims: validClaims, ValidateErr: tt.validateErr}
			if tt.validateErr != nil {
				tokens.Claims = nil
			}

			var captured *domain.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured, _ = GetPrincipal(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			NewAuthMiddleware(tokens).Authenticate(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectValidate, len(tokens.ValidatedTokens) == 1)

			if tt.expectedStatus == http.StatusOK {
				require.NotNil(t, captured)
				assert.Equal(t, int64(2), captured.ID)
				assert.Equal(t, "user2", captured.Name)
				return
			}

			assert.Nil(t, captured, "handler must not run")
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.expectedError, body["error"])
		})
	}
}

func TestGetPrincipal_Missing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
	_, ok := GetPrincipal(req)
	assert.False(t, ok)
}
