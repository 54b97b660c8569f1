package person

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"asistencia/internal/adapters/storage"
	"asistencia/internal/domain/fault"
	domain "asistencia/internal/domain/person"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that *SQLiteStore satisfies Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new person store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Upsert creates or updates the person keyed by identityKey.
// The name always wins; a blank email never clears a stored one.
// PRE: identityKey is already normalized
// POST: exactly one persona row exists for identityKey; returns its id
func (s *SQLiteStore) Upsert(ctx context.Context, identityKey, name, email string) (int64, error) {
	identityKey = strings.TrimSpace(identityKey)
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	p := domain.Person{IdentityKey: identityKey, Name: name, Email: email}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	now := time.Now().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO personas (rut, nombre, email, actualizado_en) VALUES (?, ?, ?, ?)
		ON CONFLICT(rut) DO UPDATE SET
			nombre = excluded.nombre,
			email = CASE WHEN excluded.email <> '' THEN excluded.email ELSE personas.email END,
			actualizado_en = excluded.actualizado_en`,
		identityKey, name, email, now,
	)
	if err != nil {
		return 0, fault.Storage("upsert person", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, "SELECT id FROM personas WHERE rut = ?", identityKey).Scan(&id); err != nil {
		return 0, fault.Storage("lookup upserted person", err)
	}
	return id, nil
}

// GetByIdentity retrieves a person by normalized identity key.
// PRE: identityKey is non-empty
// POST: Returns the person or ErrNotFound
func (s *SQLiteStore) GetByIdentity(ctx context.Context, identityKey string) (domain.Person, error) {
	return s.getWhere(ctx, "rut = ?", identityKey)
}

// GetByID retrieves a person by id.
// PRE: id is positive
// POST: Returns the person or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Person, error) {
	return s.getWhere(ctx, "id = ?", id)
}

func (s *SQLiteStore) getWhere(ctx context.Context, where string, arg any) (domain.Person, error) {
	query := "SELECT id, rut, nombre, email, actualizado_en FROM personas WHERE " + where

	var entity domain.Person
	var updatedStr string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&entity.ID,
		&entity.IdentityKey,
		&entity.Name,
		&entity.Email,
		&updatedStr,
	)
	if err == sql.ErrNoRows {
		return domain.Person{}, ErrNotFound
	}
	if err != nil {
		return domain.Person{}, fault.Storage("get person", err)
	}
	entity.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedStr)
	if err != nil {
		return domain.Person{}, fmt.Errorf("failed to parse actualizado_en: %w", err)
	}
	return entity, nil
}
