// Package bootstrap prepares the schema and demo data before the API serves requests.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"addressbook/internal/auth"
	"addressbook/internal/model"
	"addressbook/internal/repository"
)

// Demo credentials created on an empty database.
const (
	DemoEmail    = "test@example.com"
	DemoPassword = "testpassword"
)

// models lists tables in creation order; drops run in reverse.
var models = []any{
	&model.User{},
	&model.Contact{},
}

// EnsureSchema creates or migrates the users and contacts tables.
func EnsureSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// ResetSchema drops every table owned by the service.
func ResetSchema(db *gorm.DB) error {
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

func demoContacts(ownerID uint) []model.Contact {
	return []model.Contact{
		{
			FirstName: "John",
			LastName:  "Doe",
			Email:     "john.doe@example.com",
			Phone:     "123-456-7890",
			Address:   "123 Main St",
			OwnerID:   ownerID,
		},
		{
			FirstName: "Jane",
			LastName:  "Smith",
			Email:     "jane.smith@example.com",
			Phone:     "098-765-4321",
			Address:   "456 Oak Ave",
			OwnerID:   ownerID,
		},
	}
}

// SeedDemoData creates the demo identity and its two contacts when no identity exists yet.
// It reports whether anything was written.
func SeedDemoData(ctx context.Context, users repository.UserRepository, hasher auth.PasswordHasher, log *slog.Logger) (bool, error) {
	n, err := users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		log.Debug("demo data skipped, users already present", "users", n)
		return false, nil
	}

	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		return false, err
	}

	err = users.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, contacts repository.ContactRepository) error {
		user := &model.User{Email: DemoEmail, PasswordHash: hash}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("create demo user: %w", err)
		}
		if err := contacts.CreateBatch(ctx, demoContacts(user.ID)); err != nil {
			return fmt.Errorf("create demo contacts: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Info("demo data seeded", "email", DemoEmail)
	return true, nil
}
