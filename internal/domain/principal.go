package domain

import (
	"errors"
	"strings"
)

// Principal validation errors
var (
	ErrEmptyPrincipalName = errors.New("principal name cannot be empty")
	ErrEmptyPrincipalHash = errors.New("principal secret hash cannot be empty")
	ErrInvalidPrincipalID = errors.New("principal ID must be positive")
)

// Principal is an identity that can log in. Principals are seeded once at
// startup and never change while the process runs.
type Principal struct {
	ID         int64  `json:"id"`
	Name       string `json:"username"`
	SecretHash string `json:"-"` // Never expose the hash in JSON
}

// Validate checks that the principal carries an id, a name and a hash.
func (p *Principal) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidPrincipalID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyPrincipalName
	}
	if p.SecretHash == "" {
		return ErrEmptyPrincipalHash
	}
	return nil
}

// NormalizePrincipalName folds a name for case-insensitive lookup.
func NormalizePrincipalName(name string) string {
	return strings.ToLower(name)
}
