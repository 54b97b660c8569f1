package account

import (
	"context"
	"errors"

	domain "asistencia/internal/domain/account"
)

// ErrNotFound is returned when no account matches the lookup key.
var ErrNotFound = errors.New("account not found")

// Store persists Account state.
type Store interface {
	// GetByUsername looks up a credential. Returns ErrNotFound when absent.
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	// Save persists a credential (insert or update keyed on username).
	Save(ctx context.Context, a domain.Account) error
}
