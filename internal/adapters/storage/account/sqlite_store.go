package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"asistencia/internal/adapters/storage"
	domain "asistencia/internal/domain/account"
	"asistencia/internal/domain/fault"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that *SQLiteStore satisfies Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByUsername retrieves a credential by username.
// PRE: username is non-empty
// POST: Returns the account or ErrNotFound
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	var entity domain.Account
	var createdStr string
	var lockedStr sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at, failed_logins, locked_until FROM usuarios WHERE username = ?",
		username,
	).Scan(&entity.ID, &entity.Username, &entity.PasswordHash, &createdStr, &entity.FailedLogins, &lockedStr)
	if err == sql.ErrNoRows {
		return domain.Account{}, ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fault.Storage("get account", err)
	}

	entity.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if lockedStr.Valid && lockedStr.String != "" {
		entity.LockedUntil, err = time.Parse(time.RFC3339Nano, lockedStr.String)
		if err != nil {
			return domain.Account{}, fmt.Errorf("failed to parse locked_until: %w", err)
		}
	}
	return entity, nil
}

// Save persists a credential, keyed on the unique username.
// PRE: entity has been validated and carries a password hash
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	var lockedValue any
	if !a.LockedUntil.IsZero() {
		lockedValue = a.LockedUntil.Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usuarios (username, password_hash, created_at, failed_logins, locked_until)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			password_hash = excluded.password_hash,
			failed_logins = excluded.failed_logins,
			locked_until = excluded.locked_until`,
		a.Username,
		a.PasswordHash,
		a.CreatedAt.Format(time.RFC3339Nano),
		a.FailedLogins,
		lockedValue,
	)
	if err != nil {
		return fault.Storage("save account", err)
	}
	return nil
}
