package orchestrators

import (
	"context"
	"errors"
	"testing"

	"asistencia/internal/domain/account"
)

// mockAccountStore implements AccountStoreForLogin for testing.
type mockAccountStore struct {
	accounts map[string]account.Account
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

// GetByUsername implements AccountStoreForLogin.
// PRE: username is non-empty
// POST: returns the account or an error when absent
func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (account.Account, error) {
	a, ok := m.accounts[username]
	if !ok {
		return account.Account{}, errors.New("not found")
	}
	return a, nil
}

// Save implements AccountStoreForLogin.
// PRE: account has a username
// POST: account is persisted by username
func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.Username] = a
	return nil
}

func seedAccount(t *testing.T, store *mockAccountStore, username, password string) {
	t.Helper()
	a := account.Account{ID: 1, Username: username}
	if err := a.SetPassword(password); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	store.accounts[username] = a
}

// TestExecuteLogin_Success verifies valid credentials return account info.
// PRE: account exists with a known password.
// POST: result carries the account id and username.
func TestExecuteLogin_Success(t *testing.T) {
	store := newMockAccountStore()
	seedAccount(t, store, "admin", "correct horse battery")

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "admin",
		Password: "correct horse battery",
	}, LoginDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccountID != 1 || result.Username != "admin" {
		t.Errorf("result=%+v want id=1 username=admin", result)
	}
}

// TestExecuteLogin_WrongPassword verifies a wrong password is rejected with
// the generic error and the failed attempt is recorded.
// PRE: account exists.
// POST: ErrInvalidCredentials; FailedLogins incremented in the store.
func TestExecuteLogin_WrongPassword(t *testing.T) {
	store := newMockAccountStore()
	seedAccount(t, store, "admin", "correct horse battery")

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "admin",
		Password: "wrong password!!",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err=%v want ErrInvalidCredentials", err)
	}
	if store.accounts["admin"].FailedLogins != 1 {
		t.Errorf("failed_logins=%d want 1", store.accounts["admin"].FailedLogins)
	}
}

// TestExecuteLogin_LocksAfterRepeatedFailures verifies the account locks once
// the failure threshold is crossed and subsequent logins report the lock.
// PRE: account exists.
// POST: after 5 wrong passwords, even the right one returns ErrAccountLocked.
func TestExecuteLogin_LocksAfterRepeatedFailures(t *testing.T) {
	store := newMockAccountStore()
	seedAccount(t, store, "admin", "correct horse battery")

	for i := 0; i < 5; i++ {
		_, err := ExecuteLogin(context.Background(), LoginInput{
			Username: "admin",
			Password: "wrong password!!",
		}, LoginDeps{AccountStore: store})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err=%v want ErrInvalidCredentials", i+1, err)
		}
	}

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "admin",
		Password: "correct horse battery",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("err=%v want ErrAccountLocked", err)
	}
}

// TestExecuteLogin_UnknownUser verifies unknown users get the same generic
// error as wrong passwords.
// PRE: empty store.
// POST: ErrInvalidCredentials.
func TestExecuteLogin_UnknownUser(t *testing.T) {
	store := newMockAccountStore()

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Username: "ghost",
		Password: "whatever password",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err=%v want ErrInvalidCredentials", err)
	}
}
