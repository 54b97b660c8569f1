package person

import (
	"context"
	"errors"

	domain "asistencia/internal/domain/person"
)

// ErrNotFound is returned when no person matches the lookup key.
var ErrNotFound = errors.New("person not found")

// Store persists Person state.
type Store interface {
	// Upsert creates the person for identityKey, or overwrites the name and
	// (when non-empty) email of the existing one. Returns the person id.
	Upsert(ctx context.Context, identityKey, name, email string) (int64, error)
	// GetByIdentity looks up a person by exact normalized identity key.
	// Returns ErrNotFound when absent.
	GetByIdentity(ctx context.Context, identityKey string) (domain.Person, error)
	// GetByID looks up a person by id. Returns ErrNotFound when absent.
	GetByID(ctx context.Context, id int64) (domain.Person, error)
}
