package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/testutil"
)

func newUser(t *testing.T, store *repositories.Store, phone string) *domain.User {
	t.Helper()
	u := &domain.User{ID: uuid.NewString(), FullName: "Student " + phone, PhoneNumber: phone, PinHash: "x"}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func newRequest(t *testing.T, store *repositories.Store, userID string, created time.Time) *domain.HomeworkRequest {
	t.Helper()
	req := &domain.HomeworkRequest{
		ID:              uuid.NewString(),
		UserID:          userID,
		Subject:         "Maths",
		CalculationType: domain.CalcPages,
		Pages:           10,
		DeliveryDays:    5,
		EstimatedAmount: decimal.RequireFromString("19.00"),
		OriginalAmount:  decimal.RequireFromString("20"),
		DiscountAmount:  decimal.RequireFromString("1"),
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentUnpaid,
		PaymentMethod:   domain.MethodOnline,
		CreatedAt:       created,
	}
	require.NoError(t, store.Requests.Create(context.Background(), req))
	return req
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)

	u := newUser(t, store, "9876543210")

	got, err := store.Users.GetByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = store.Users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	exists, err := store.Users.ExistsByPhone(ctx, "9876543210", "")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.Users.ExistsByPhone(ctx, "9876543210", u.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	err = store.Users.Create(ctx, &domain.User{ID: uuid.NewString(), FullName: "Dup", PhoneNumber: "9876543210", PinHash: "x"})
	var dup *domain.DuplicateError
	require.True(t, errors.As(err, &dup), "got %v", err)
	assert.Equal(t, "phoneNumber", dup.Field)

	count, err := store.Users.CountStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRequestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	u := newUser(t, store, "9876543210")

	season := "summer"
	req := newRequest(t, store, u.ID, time.Now().Add(-time.Hour))
	second := &domain.HomeworkRequest{
		ID:              uuid.NewString(),
		UserID:          u.ID,
		Subject:         "English",
		CalculationType: domain.CalcLessons,
		Lessons:         3,
		DeliveryDays:    2,
		EstimatedAmount: decimal.RequireFromString("8.55"),
		OriginalAmount:  decimal.RequireFromString("15"),
		DiscountAmount:  decimal.RequireFromString("6.45"),
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentUnpaid,
		PaymentMethod:   domain.MethodOnline,
		SeasonID:        &season,
	}
	require.NoError(t, store.Requests.Create(ctx, second))

	list, err := store.Requests.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	got := list[0]
	assert.Equal(t, "8.55", got.EstimatedAmount.StringFixed(2))
	assert.Equal(t, "-6.45", got.EstimatedAmount.Sub(got.OriginalAmount).StringFixed(2))
	require.NotNil(t, got.SeasonID)
	assert.Equal(t, "summer", *got.SeasonID)
	assert.Equal(t, 3, got.Units())

	require.NoError(t, store.Requests.UpdateStatus(ctx, req.ID, domain.StatusWriting))
	require.NoError(t, store.Requests.UpdatePaymentStatus(ctx, req.ID, domain.PaymentPaid))
	got, err = store.Requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWriting, got.Status)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	assert.Nil(t, got.SeasonID)

	// rewriting the same value is not a miss
	require.NoError(t, store.Requests.UpdatePaymentStatus(ctx, req.ID, domain.PaymentPaid))

	assert.ErrorIs(t, store.Requests.UpdatePaymentStatus(ctx, "missing", domain.PaymentPaid), domain.ErrNotFound)
	assert.ErrorIs(t, store.Requests.UpdateStatus(ctx, "missing", domain.StatusWriting), domain.ErrNotFound)
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	u := newUser(t, store, "9876543210")
	req := newRequest(t, store, u.ID, time.Now())

	amounts := []string{"19.00", "5.23", "100.10"}
	ids := make([]string, 0, len(amounts))
	for i, a := range amounts {
		tx := &domain.Transaction{
			ID:            uuid.NewString(),
			UserID:        u.ID,
			HomeworkID:    req.ID,
			Amount:        decimal.RequireFromString(a),
			TransactionID: "REF00000" + string(rune('1'+i)),
			Status:        domain.TxPending,
			CreatedAt:     time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.Transactions.Create(ctx, tx))
		ids = append(ids, tx.ID)
	}

	pending, err := store.Transactions.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Transactions.UpdateStatus(ctx, ids[0], domain.TxApproved, at))
	require.NoError(t, store.Transactions.UpdateStatus(ctx, ids[1], domain.TxApproved, at))

	sum, err := store.Transactions.SumApproved(ctx)
	require.NoError(t, err)
	assert.Equal(t, "24.23", sum.StringFixed(2))

	locked, err := store.Transactions.GetForUpdate(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, domain.TxApproved, locked.Status)
	require.NotNil(t, locked.UpdatedAt)
	assert.True(t, at.Equal(*locked.UpdatedAt))

	untouched, err := store.Transactions.GetByID(ctx, ids[2])
	require.NoError(t, err)
	assert.Nil(t, untouched.UpdatedAt)

	list, err := store.Transactions.ListByHomework(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
}

func TestConfigRepository(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)

	require.NoError(t, store.Config.AddBalance(ctx, decimal.RequireFromString("95")))
	require.NoError(t, store.Config.AddBalance(ctx, decimal.RequireFromString("5.50")))
	require.NoError(t, store.Config.AddBalance(ctx, decimal.RequireFromString("-0.50")))
	require.NoError(t, store.Config.IncrementBannerClicks(ctx))
	require.NoError(t, store.Config.IncrementBannerClicks(ctx))

	season := "newyear"
	require.NoError(t, store.Config.SetActiveSeason(ctx, &season))
	require.NoError(t, store.Config.SetInvestmentMode(ctx, domain.InvestWatch))

	cfg, err := store.Config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100.00", cfg.AdminBalance.StringFixed(2))
	assert.Equal(t, int64(2), cfg.BannerClicks)
	assert.Equal(t, domain.InvestWatch, cfg.InvestmentMode)
	require.NotNil(t, cfg.ActiveSeason())
	assert.Equal(t, 25, cfg.ActiveSeason().Discount)

	require.NoError(t, store.Config.SetActiveSeason(ctx, nil))
	require.NoError(t, store.Config.SetBalance(ctx, decimal.RequireFromString("7")))
	cfg, err = store.Config.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, cfg.ActiveSeason())
	assert.Equal(t, "7.00", cfg.AdminBalance.StringFixed(2))

	// seeding again keeps the existing row
	require.NoError(t, store.Config.EnsureDefaults(ctx, &domain.AppConfig{InvestmentMode: domain.InvestMachine}))
	cfg, err = store.Config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.InvestWatch, cfg.InvestmentMode)

	locked, err := store.Config.GetForUpdate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7.00", locked.AdminBalance.StringFixed(2))
}

func TestConfigWritesFailWithoutRow(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	store := repositories.NewStore(db)
	require.NoError(t, db.Exec("DELETE FROM app_config").Error)

	assert.ErrorIs(t, store.Config.AddBalance(ctx, decimal.RequireFromString("19")), domain.ErrPersistence)
	assert.ErrorIs(t, store.Config.SetBalance(ctx, decimal.Zero), domain.ErrPersistence)
	assert.ErrorIs(t, store.Config.IncrementBannerClicks(ctx), domain.ErrPersistence)
	assert.NoError(t, store.Config.AddBalance(ctx, decimal.Zero), "a zero delta writes nothing")

	_, err := store.Config.GetForUpdate(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMessageRepository(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	base := time.Now().Add(-time.Hour)

	send := func(from, to, text string, offset time.Duration) {
		require.NoError(t, store.Messages.Create(ctx, &domain.ChatMessage{
			ID: uuid.NewString(), SenderID: from, ReceiverID: to, Text: text,
			FileType: domain.FileText, Timestamp: base.Add(offset),
		}))
	}
	send("a", domain.OwnerPhone, "second", 2*time.Minute)
	send("a", domain.OwnerPhone, "first", time.Minute)
	send(domain.OwnerPhone, "a", "reply", 3*time.Minute)
	send("b", domain.OwnerPhone, "other", 4*time.Minute)

	conv, err := store.Messages.ListConversation(ctx, "a", domain.OwnerPhone)
	require.NoError(t, err)
	require.Len(t, conv, 3)
	assert.Equal(t, "first", conv[0].Text)
	assert.Equal(t, "reply", conv[2].Text)

	involving, err := store.Messages.ListInvolving(ctx, domain.OwnerPhone)
	require.NoError(t, err)
	assert.Len(t, involving, 4)

	unread, err := store.Messages.CountUnread(ctx, domain.OwnerPhone)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"a": 2, "b": 1}, unread)

	n, err := store.Messages.MarkRead(ctx, domain.OwnerPhone, "a", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	unread, err = store.Messages.CountUnread(ctx, domain.OwnerPhone)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"b": 1}, unread)
}

func TestAtomicRollsBack(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	boom := errors.New("boom")

	err := store.Atomic(ctx, func(tx *repositories.Store) error {
		require.NoError(t, tx.Config.AddBalance(ctx, decimal.NewFromInt(50)))
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, boom)

	cfg, err := store.Config.Get(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.AdminBalance.IsZero())

	err = store.Atomic(ctx, func(tx *repositories.Store) error {
		return domain.ErrNotFound
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrPersistence)
}
