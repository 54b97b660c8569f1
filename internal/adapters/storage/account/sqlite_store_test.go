package account

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"asistencia/internal/adapters/storage"
	domain "asistencia/internal/domain/account"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	return NewSQLiteStore(db)
}

// TestGetByUsername_NotFound verifies the sentinel error for unknown users.
// PRE: empty usuarios table.
// POST: ErrNotFound.
func TestGetByUsername_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// TestSave_InsertThenUpdate verifies Save is keyed on the unique username:
// the second Save updates the hash and lock fields without a duplicate row.
// PRE: empty usuarios table.
// POST: one row with the latest hash and failed-login state.
func TestSave_InsertThenUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := domain.Account{Username: "admin", PasswordHash: "hash-1", CreatedAt: time.Now()}
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("first save: %v", err)
	}

	a.PasswordHash = "hash-2"
	a.FailedLogins = 3
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PasswordHash != "hash-2" || got.FailedLogins != 3 {
		t.Errorf("got %+v, want hash-2 with 3 failed logins", got)
	}
	if got.ID <= 0 {
		t.Errorf("id = %d, want positive", got.ID)
	}
}

// TestSave_RoundTripsLock verifies locked_until survives a save/load cycle
// and that a cleared lock reads back as the zero time.
// PRE: empty usuarios table.
// POST: lock timestamp round-trips within a second.
func TestSave_RoundTripsLock(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lockedUntil := time.Now().Add(15 * time.Minute)
	a := domain.Account{Username: "admin", PasswordHash: "hash", FailedLogins: 5, LockedUntil: lockedUntil}
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LockedUntil.Sub(lockedUntil).Abs() > time.Second {
		t.Errorf("locked_until = %v, want ~%v", got.LockedUntil, lockedUntil)
	}

	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("unlock save: %v", err)
	}
	got, err = store.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("get after unlock: %v", err)
	}
	if !got.LockedUntil.IsZero() {
		t.Errorf("locked_until = %v, want zero", got.LockedUntil)
	}
}

// TestSave_RejectsBlankUsername verifies domain validation runs before the write.
// PRE: empty usuarios table.
// POST: validation error, nothing persisted.
func TestSave_RejectsBlankUsername(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), domain.Account{Username: "  "})
	if !errors.Is(err, domain.ErrEmptyUsername) {
		t.Fatalf("err = %v, want ErrEmptyUsername", err)
	}
}
