package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

var testPrincipal = &domain.Principal{ID: 7, Name: "user1", SecretHash: "unused"}

func newTestTokenService(t *testing.T, secret string, now func() time.Time) TokenService {
	t.Helper()
	svc, err := NewTokenService(config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: 60,
	}, WithTimeFunc(now))
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewTokenService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 0})
	assert.Error(t, err)

	_, err = NewTokenService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 5})
	assert.NoError(t, err)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, testSecret, func() time.Time { return fixedTime })

	token, err := svc.GenerateToken(context.Background(), testPrincipal)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, int64(7), claims.PrincipalID)
	assert.Equal(t, "user1", claims.Name)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	other, err := svc.GenerateToken(context.Background(), testPrincipal)
	require.NoError(t, err)
	otherClaims, err := svc.ValidateToken(context.Background(), other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID, "each token carries a fresh jti")

	_, err = svc.GenerateToken(context.Background(), nil)
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) func() time.Time {
		return func() time.Time { return fixedTime.Add(d) }
	}

	issue := func(t *testing.T, secret string) string {
		svc := newTestTokenService(t, secret, at(0))
		token, err := svc.GenerateToken(context.Background(), testPrincipal)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		checkAt time.Duration
		secret  string
		wantErr error
	}{
		{
			name:    "valid token",
			token:   func(t *testing.T) string { return issue(t, testSecret) },
			checkAt: 0,
			secret:  testSecret,
		},
		{
			name:    "one second before expiry",
			token:   func(t *testing.T) string { return issue(t, testSecret) },
			checkAt: time.Hour - time.Second,
			secret:  testSecret,
		},
		{
			name:    "exactly at expiry",
			token:   func(t *testing.T) string { return issue(t, testSecret) },
			checkAt: time.Hour,
			secret:  testSecret,
			wantErr: ErrExpiredToken,
		},
		{
			name:    "long after expiry",
			token:   func(t *testing.T) string { return issue(t, testSecret) },
			checkAt: 3 * time.Hour,
			secret:  testSecret,
			wantErr: ErrExpiredToken,
		},
		{
			name:    "invalid signature",
			token:   func(t *testing.T) string { return issue(t, testSecret) },
			secret:  wrongSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "malformed token",
			token:   func(t *testing.T) string { return "this.is.not.a.valid.jwt.token" },
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "empty token",
			token:   func(t *testing.T) string { return "" },
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name: "tampered payload",
			token: func(t *testing.T) string {
				parts := strings.Split(issue(t, testSecret), ".")
				require.Len(t, parts, 3)
				forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
					PrincipalID: 1,
					Name:        "admin",
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				})
				signed, err := forged.SignedString([]byte(wrongSecret))
				require.NoError(t, err)
				forgedParts := strings.Split(signed, ".")
				return parts[0] + "." + forgedParts[1] + "." + parts[2]
			},
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name: "unsigned token",
			token: func(t *testing.T) string {
				unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwtCustomClaims{
					PrincipalID: 7,
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				})
				signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return signed
			},
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing expiry",
			token: func(t *testing.T) string {
				noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{PrincipalID: 7})
				signed, err := noExp.SignedString([]byte(testSecret))
				require.NoError(t, err)
				return signed
			},
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			token := tt.token(t)
			svc := newTestTokenService(t, tt.secret, at(tt.checkAt))

			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), claims.PrincipalID)
		})
	}
}
