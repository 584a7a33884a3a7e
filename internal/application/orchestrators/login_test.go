package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"yatra/internal/domain/account"
)

// mockAccountStore implements AccountStoreForLogin and AccountStoreForSeed.
type mockAccountStore struct {
	accounts map[string]account.Account // keyed by email
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := m.accounts[email]
	if !ok {
		return account.Account{}, errors.New("account not found")
	}
	return a, nil
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.Email] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

func seededAccountStore(t *testing.T, password string) *mockAccountStore {
	t.Helper()
	acct := account.Account{ID: "acct-1", Email: "admin@tirthyatra.in", Role: account.RoleAdmin}
	if err := acct.SetPassword(password); err != nil {
		t.Fatalf("set password: %v", err)
	}
	return &mockAccountStore{accounts: map[string]account.Account{acct.Email: acct}}
}

// TestExecuteLogin_Valid tests a successful login.
func TestExecuteLogin_Valid(t *testing.T) {
	store := seededAccountStore(t, "Har Har Mahadev")

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "admin@tirthyatra.in",
		Password: "Har Har Mahadev",
	}, LoginDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccountID != "acct-1" || result.Role != account.RoleAdmin {
		t.Errorf("unexpected result: %+v", result)
	}
}

// TestExecuteLogin_WrongPassword tests that failures are recorded.
func TestExecuteLogin_WrongPassword(t *testing.T) {
	store := seededAccountStore(t, "Har Har Mahadev")

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "admin@tirthyatra.in",
		Password: "wrong",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := store.accounts["admin@tirthyatra.in"].FailedLogins; got != 1 {
		t.Errorf("expected failed login recorded, got %d", got)
	}
}

// TestExecuteLogin_UnknownEmail tests that unknown accounts get the same
// error as a wrong password.
func TestExecuteLogin_UnknownEmail(t *testing.T) {
	store := seededAccountStore(t, "Har Har Mahadev")

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "nobody@tirthyatra.in",
		Password: "whatever",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// TestExecuteLogin_Locked tests the lockout path and reset on success.
func TestExecuteLogin_Locked(t *testing.T) {
	store := seededAccountStore(t, "Har Har Mahadev")

	for i := 0; i < 5; i++ {
		_, _ = ExecuteLogin(context.Background(), LoginInput{
			Email:    "admin@tirthyatra.in",
			Password: "wrong",
		}, LoginDeps{AccountStore: store})
	}

	// Even the correct password is refused while locked.
	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "admin@tirthyatra.in",
		Password: "Har Har Mahadev",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}

	// Expire the lock and log in; the counter must reset.
	acct := store.accounts["admin@tirthyatra.in"]
	acct.LockedUntil = time.Now().Add(-time.Minute)
	store.accounts[acct.Email] = acct

	if _, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "admin@tirthyatra.in",
		Password: "Har Har Mahadev",
	}, LoginDeps{AccountStore: store}); err != nil {
		t.Fatalf("unexpected error after lock expiry: %v", err)
	}
	if got := store.accounts["admin@tirthyatra.in"].FailedLogins; got != 0 {
		t.Errorf("expected counter reset after success, got %d", got)
	}
}

// TestExecuteLogin_EmptyInput tests the blank-credentials short circuit.
func TestExecuteLogin_EmptyInput(t *testing.T) {
	store := seededAccountStore(t, "Har Har Mahadev")
	if _, err := ExecuteLogin(context.Background(), LoginInput{}, LoginDeps{AccountStore: store}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// TestExecuteSeedAdmin tests idempotent bootstrap seeding.
func TestExecuteSeedAdmin(t *testing.T) {
	store := &mockAccountStore{accounts: make(map[string]account.Account)}
	input := SeedAdminInput{Email: "admin@tirthyatra.in", Password: "Har Har Mahadev"}

	if err := ExecuteSeedAdmin(context.Background(), input, SeedAdminDeps{AccountStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	acct, ok := store.accounts["admin@tirthyatra.in"]
	if !ok {
		t.Fatal("expected admin account created")
	}
	if acct.Role != account.RoleAdmin {
		t.Errorf("expected admin role, got %s", acct.Role)
	}
	if err := acct.CheckPassword("Har Har Mahadev"); err != nil {
		t.Errorf("expected seeded password to check out: %v", err)
	}

	// A second run with different credentials must be a no-op.
	again := SeedAdminInput{Email: "other@tirthyatra.in", Password: "something else"}
	if err := ExecuteSeedAdmin(context.Background(), again, SeedAdminDeps{AccountStore: store}); err != nil {
		t.Fatalf("unexpected error on rerun: %v", err)
	}
	if len(store.accounts) != 1 {
		t.Errorf("expected seeding skipped on populated store, got %d accounts", len(store.accounts))
	}
}

// TestExecuteSeedAdmin_NoCredentials tests that missing config skips quietly.
func TestExecuteSeedAdmin_NoCredentials(t *testing.T) {
	store := &mockAccountStore{accounts: make(map[string]account.Account)}
	if err := ExecuteSeedAdmin(context.Background(), SeedAdminInput{}, SeedAdminDeps{AccountStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.accounts) != 0 {
		t.Error("expected no account created without credentials")
	}
}
