// Package testutil opens throwaway databases for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"homework-desk/internal/adapters/persistence/models"
	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/pkg/password"
)

// OpenDB returns a migrated in-memory SQLite database with the config row
// seeded. Both panel PINs are DefaultOwnerPin.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))

	password.SetCost(password.MinCost)
	pinHash, err := password.Hash(domain.DefaultOwnerPin)
	require.NoError(t, err)

	err = repositories.NewConfigRepository(db).EnsureDefaults(context.Background(), &domain.AppConfig{
		AdminBalance:             decimal.Zero,
		InvestmentMode:           domain.InvestMachine,
		AdminVerificationPinHash: pinHash,
		DashboardAccessPinHash:   pinHash,
	})
	require.NoError(t, err)
	return db
}

// NewStore returns a Store over a fresh database.
func NewStore(t testing.TB) *repositories.Store {
	t.Helper()
	return repositories.NewStore(OpenDB(t))
}
