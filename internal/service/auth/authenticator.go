package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// dummyPassword is hashed once per Authenticator so that an unknown name
// still pays for one bcrypt comparison.
const dummyPassword = "task-api-unknown-principal"

// Authenticator checks credentials against the principal store and issues
// access tokens.
type Authenticator struct {
	principals store.PrincipalStore
	tokens     TokenService
	verifier   PasswordVerifier
	dummyHash  string
	logger     *slog.Logger
}

// NewAuthenticator wires an Authenticator. cost should match the cost used
// for the real principal hashes.
func NewAuthenticator(
	principals store.PrincipalStore,
	tokens TokenService,
	verifier PasswordVerifier,
	cost int,
	logger *slog.Logger,
) (*Authenticator, error) {
	if principals == nil || tokens == nil || verifier == nil {
		return nil, errors.New("authenticator requires a principal store, token service and verifier")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummyHash, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Authenticator{
		principals: principals,
		tokens:     tokens,
		verifier:   verifier,
		dummyHash:  string(dummyHash),
		logger:     logger.With("component", "authenticator"),
	}, nil
}

// Login verifies name and password and returns a signed access token.
// Unknown names and wrong passwords both yield ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, name, password string) (string, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	principal, err := a.principals.GetByName(ctx, name)
	if err != nil {
		if store.IsNotFoundError(err) {
			_ = a.verifier.Compare(a.dummyHash, password)
			log.Debug("login rejected: unknown principal")
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up principal: %w", err)
	}

	if err := a.verifier.Compare(principal.SecretHash, password); err != nil {
		log.Debug("login rejected: password mismatch", "principal_id", principal.ID)
		return "", ErrInvalidCredentials
	}

	token, err := a.tokens.GenerateToken(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("principal logged in", "principal_id", principal.ID)
	return token, nil
}
