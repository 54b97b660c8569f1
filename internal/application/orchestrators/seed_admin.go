package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"asistencia/internal/domain/account"
)

// SeedAdminDeps holds the store needed for admin seeding.
type SeedAdminDeps struct {
	AccountStore AccountStoreForLogin
}

// ExecuteSeedAdmin creates the initial operator account if it does not
// already exist. It is idempotent — an existing account with the same
// username is left untouched, including its password.
// PRE: Database is migrated; username and password come from configuration
// POST: An account with the given username exists
func ExecuteSeedAdmin(ctx context.Context, deps SeedAdminDeps, username, password string) error {
	if _, err := deps.AccountStore.GetByUsername(ctx, username); err == nil {
		slog.Info("admin_seed_skipped", "username", username)
		return nil
	}

	acct := account.Account{
		Username:  username,
		CreatedAt: time.Now(),
	}
	if err := acct.SetPassword(password); err != nil {
		return fmt.Errorf("seed admin %s: set password: %w", username, err)
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return fmt.Errorf("seed admin %s: save: %w", username, err)
	}

	slog.Info("admin_seeded", "username", username)
	return nil
}
