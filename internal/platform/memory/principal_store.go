package memory

import (
	"context"
	"fmt"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// PrincipalStore is an immutable store.PrincipalStore built once at startup.
type PrincipalStore struct {
	byName map[string]domain.Principal
}

// Ensure PrincipalStore implements store.PrincipalStore interface
var _ store.PrincipalStore = (*PrincipalStore)(nil)

// NewPrincipalStore validates principals and indexes them by normalized name.
// Duplicate names or ids are rejected.
func NewPrincipalStore(principals []domain.Principal) (*PrincipalStore, error) {
	byName := make(map[string]domain.Principal, len(principals))
	ids := make(map[int64]struct{}, len(principals))

	for _, p := range principals {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid principal %q: %w", p.Name, err)
		}
		key := domain.NormalizePrincipalName(p.Name)
		if _, dup := byName[key]; dup {
			return nil, fmt.Errorf("%w: principal name %q", store.ErrDuplicate, p.Name)
		}
		if _, dup := ids[p.ID]; dup {
			return nil, fmt.Errorf("%w: principal id %d", store.ErrDuplicate, p.ID)
		}
		byName[key] = p
		ids[p.ID] = struct{}{}
	}

	return &PrincipalStore{byName: byName}, nil
}

// GetByName implements store.PrincipalStore.GetByName.
func (s *PrincipalStore) GetByName(_ context.Context, name string) (*domain.Principal, error) {
	p, ok := s.byName[domain.NormalizePrincipalName(name)]
	if !ok {
		return nil, store.ErrPrincipalNotFound
	}
	return &p, nil
}
