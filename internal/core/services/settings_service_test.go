package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-desk/internal/core/domain"
	"homework-desk/internal/pkg/password"
	"homework-desk/internal/testutil"
)

func TestSeasons(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewSettingsService(store, &recordingNotifier{})

	cat, err := svc.Seasons(ctx)
	require.NoError(t, err)
	assert.Len(t, cat.Seasons, 3)
	assert.Nil(t, cat.Active)

	cat, err = svc.SetSeason(ctx, "diwali")
	require.NoError(t, err)
	require.NotNil(t, cat.Active)
	assert.Equal(t, 50, cat.Active.Discount)

	_, err = svc.SetSeason(ctx, "easter")
	assert.Equal(t, ErrUnknownSeason, err)

	cat, err = svc.SetSeason(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, cat.Active)
}

func TestBannerClicks(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewSettingsService(store, &recordingNotifier{})

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.BannerClick(ctx))
	}
	cfg, err := svc.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cfg.BannerClicks)
}

func TestInvestmentMode(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewSettingsService(store, &recordingNotifier{})
	require.NoError(t, store.Config.SetBalance(ctx, decimal.NewFromInt(30000)))

	summary, err := svc.SetInvestmentMode(ctx, domain.InvestDivide)
	require.NoError(t, err)
	assert.Equal(t, domain.InvestDivide, summary.Mode)
	require.Len(t, summary.Goals, 3)
	assert.Equal(t, "10000.00", summary.Goals[0].Funded.StringFixed(2))

	_, err = svc.SetInvestmentMode(ctx, "stocks")
	assert.Equal(t, ErrUnknownMode, err)
}

func TestVerifyPanelPin(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewSettingsService(store, &recordingNotifier{})

	assert.NoError(t, svc.VerifyPanelPin(ctx, PinAdmin, domain.DefaultOwnerPin))
	assert.NoError(t, svc.VerifyPanelPin(ctx, PinDashboard, domain.DefaultOwnerPin))
	assert.ErrorIs(t, svc.VerifyPanelPin(ctx, PinAdmin, "0000"), domain.ErrUnauthorized)
	assert.ErrorIs(t, svc.VerifyPanelPin(ctx, PinAdmin, ""), domain.ErrUnauthorized)
	assert.Equal(t, ErrUnknownPinKind, svc.VerifyPanelPin(ctx, PinLogin, "123456"))
}

func TestChangeOwnerPins(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewSettingsService(store, &recordingNotifier{})
	owner := createOwner(t, store)

	tests := []struct {
		name  string
		kind  PinKind
		input PinChangeInput
		want  error
	}{
		{"wrong length", PinAdmin, PinChangeInput{Pin: "12345", ConfirmPin: "12345"}, domain.ErrInvalidInput},
		{"letters", PinDashboard, PinChangeInput{Pin: "12a4", ConfirmPin: "12a4"}, domain.ErrInvalidInput},
		{"confirm mismatch", PinAdmin, PinChangeInput{Pin: "1234", ConfirmPin: "4321"}, ErrPinMismatch},
		{"unchanged panel", PinAdmin, PinChangeInput{Pin: domain.DefaultOwnerPin, ConfirmPin: domain.DefaultOwnerPin}, ErrPinUnchanged},
		{"unchanged login", PinLogin, PinChangeInput{Pin: "123456", ConfirmPin: "123456"}, ErrPinUnchanged},
		{"unknown kind", "vault", PinChangeInput{Pin: "1234", ConfirmPin: "1234"}, ErrUnknownPinKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			err := svc.ChangePin(ctx, owner.ID, tt.kind, &input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	require.NoError(t, svc.ChangePin(ctx, owner.ID, PinAdmin, &PinChangeInput{Pin: "4321", ConfirmPin: "4321"}))
	assert.NoError(t, svc.VerifyPanelPin(ctx, PinAdmin, "4321"))
	assert.Error(t, svc.VerifyPanelPin(ctx, PinAdmin, domain.DefaultOwnerPin))
	// the dashboard PIN is independent
	assert.NoError(t, svc.VerifyPanelPin(ctx, PinDashboard, domain.DefaultOwnerPin))

	require.NoError(t, svc.ChangePin(ctx, owner.ID, PinDashboard, &PinChangeInput{Pin: "8888", ConfirmPin: "8888"}))
	assert.NoError(t, svc.VerifyPanelPin(ctx, PinDashboard, "8888"))

	require.NoError(t, svc.ChangePin(ctx, owner.ID, PinLogin, &PinChangeInput{Pin: "999999", ConfirmPin: "999999"}))
	got, err := store.Users.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, password.Verify("999999", got.PinHash))
}

func TestResyncBalance(t *testing.T) {
	ctx := context.Background()
	f := newTxFixture(t)
	svc := NewSettingsService(f.store, f.notifier)

	tx := f.submit(t, "UTR123456")
	_, err := f.txs.Approve(ctx, tx.ID)
	require.NoError(t, err)

	balance, drift, err := svc.ResyncBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "19.00", balance.StringFixed(2))
	assert.True(t, drift.IsZero())

	require.NoError(t, f.store.Config.SetBalance(ctx, decimal.NewFromInt(500)))
	balance, drift, err = svc.ResyncBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "19.00", balance.StringFixed(2))
	assert.Equal(t, "481.00", drift.StringFixed(2))
	assert.Equal(t, "19.00", f.balance(t))
}

func TestResyncBalanceNeedsConfigRow(t *testing.T) {
	ctx := context.Background()
	f := newTxFixture(t)
	svc := NewSettingsService(f.store, f.notifier)
	require.NoError(t, f.db.Exec("DELETE FROM app_config").Error)

	_, _, err := svc.ResyncBalance(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
