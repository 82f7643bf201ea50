package auth

import (
	"fmt"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/domain"
)

// BuildPrincipals turns configured principals into domain principals.
// Plaintext passwords are hashed with cost; a configured hash is used as is.
func BuildPrincipals(cfgs []config.PrincipalConfig, cost int) ([]domain.Principal, error) {
	principals := make([]domain.Principal, 0, len(cfgs))
	for _, c := range cfgs {
		hash := c.PasswordHash
		if hash == "" {
			var err error
			hash, err = HashPassword(c.Password, cost)
			if err != nil {
				return nil, fmt.Errorf("principal %q: %w", c.Name, err)
			}
		}

		p := domain.Principal{ID: c.ID, Name: c.Name, SecretHash: hash}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("principal %q: %w", c.Name, err)
		}
		principals = append(principals, p)
	}
	return principals, nil
}
