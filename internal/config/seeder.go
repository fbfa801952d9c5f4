package config

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/pkg/logger"
	"homework-desk/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	store    *repositories.Store
	ownerPin string
}

// NewSeeder creates a new seeder instance. ownerPin may be empty, in which
// case the owner registers through the normal sign-up flow.
func NewSeeder(store *repositories.Store, ownerPin string) *Seeder {
	return &Seeder{store: store, ownerPin: ownerPin}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	logger.Log.Info().Msg("🌱 Running database seeders...")

	if err := s.seedConfig(ctx); err != nil {
		return err
	}

	if err := s.seedOwner(ctx); err != nil {
		logger.Log.Warn().Err(err).Msg("⚠️ Owner seeder skipped")
	}

	logger.Log.Info().Msg("✅ Database seeding completed")
	return nil
}

// seedConfig creates the singleton config row with factory PINs
func (s *Seeder) seedConfig(ctx context.Context) error {
	pinHash, err := password.Hash(domain.DefaultOwnerPin)
	if err != nil {
		return err
	}

	return s.store.Config.EnsureDefaults(ctx, &domain.AppConfig{
		AdminBalance:             decimal.Zero,
		InvestmentMode:           domain.InvestMachine,
		AdminVerificationPinHash: pinHash,
		DashboardAccessPinHash:   pinHash,
	})
}

// seedOwner creates the owner account once
func (s *Seeder) seedOwner(ctx context.Context) error {
	if s.ownerPin == "" {
		return nil
	}

	_, err := s.store.Users.GetByPhone(ctx, domain.OwnerPhone)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	pinHash, err := password.Hash(s.ownerPin)
	if err != nil {
		return err
	}

	owner := &domain.User{
		ID:          uuid.NewString(),
		FullName:    "Owner",
		PhoneNumber: domain.OwnerPhone,
		PinHash:     pinHash,
		IsAdmin:     true,
	}
	if err := s.store.Users.Create(ctx, owner); err != nil {
		return err
	}

	logger.Log.Info().Str("phone", logger.MaskPhone(owner.PhoneNumber)).Msg("✅ Owner account created")
	return nil
}
