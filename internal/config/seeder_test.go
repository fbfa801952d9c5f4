package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/pkg/password"
	"homework-desk/internal/testutil"
)

func TestSeederCreatesOwnerOnce(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewStore(testutil.OpenDB(t))

	seeder := NewSeeder(store, "123456")
	require.NoError(t, seeder.Run(ctx))
	require.NoError(t, seeder.Run(ctx))

	owner, err := store.Users.GetByPhone(ctx, domain.OwnerPhone)
	require.NoError(t, err)
	assert.True(t, owner.IsAdmin)
	assert.True(t, password.Verify("123456", owner.PinHash))

	users, err := store.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	cfg, err := store.Config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.InvestMachine, cfg.InvestmentMode)
	assert.True(t, password.Verify(domain.DefaultOwnerPin, cfg.DashboardAccessPinHash))
}

func TestSeederWithoutOwnerPin(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewStore(testutil.OpenDB(t))

	require.NoError(t, NewSeeder(store, "").Run(ctx))

	_, err := store.Users.GetByPhone(ctx, domain.OwnerPhone)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
