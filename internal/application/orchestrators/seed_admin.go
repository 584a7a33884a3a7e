package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"yatra/internal/domain/account"

	"github.com/google/uuid"
)

// AccountStoreForSeed defines the store interface needed by admin seeding.
type AccountStoreForSeed interface {
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// SeedAdminInput carries the bootstrap admin credentials.
type SeedAdminInput struct {
	Email    string
	Password string
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore AccountStoreForSeed
}

// ExecuteSeedAdmin creates the first admin account on an empty database.
// It is idempotent — any existing account means seeding is skipped.
// PRE: Database is migrated
// POST: Exactly one admin account exists if the database was empty
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps SeedAdminDeps) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed admin: counting accounts: %w", err)
	}
	if count > 0 {
		return nil
	}
	if input.Email == "" || input.Password == "" {
		slog.Warn("seed_event", "event", "admin_seed_skipped", "reason", "no_credentials_configured")
		return nil
	}

	acct := account.Account{
		ID:    uuid.New().String(),
		Email: input.Email,
		Role:  account.RoleAdmin,
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return fmt.Errorf("seed admin: set password: %w", err)
	}
	if err := acct.Validate(); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return fmt.Errorf("seed admin: save: %w", err)
	}

	slog.Info("seed_event", "event", "admin_seeded", "email", acct.Email)
	return nil
}
