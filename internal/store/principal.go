package store

import (
	"context"

	"github.com/phrazzld/task-api/internal/domain"
)

// PrincipalStore defines read access to the fixed set of principals.
type PrincipalStore interface {
	// GetByName retrieves a principal by name, ignoring case.
	// Returns ErrPrincipalNotFound if no principal has that name.
	GetByName(ctx context.Context, name string) (*domain.Principal, error)
}
