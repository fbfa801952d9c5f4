package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-desk/internal/pkg/metrics"
)

func TestAnalyticsOverview(t *testing.T) {
	ctx := context.Background()
	f := newTxFixture(t)
	settings := NewSettingsService(f.store, f.notifier)
	createOwner(t, f.store)

	_, err := settings.SetSeason(ctx, "newyear")
	require.NoError(t, err)
	require.NoError(t, settings.BannerClick(ctx))
	require.NoError(t, settings.BannerClick(ctx))

	draft := onlineDraft()
	draft.Subject = "English"
	_, err = f.requests.Create(ctx, f.student.ID, draft)
	require.NoError(t, err)

	a, err := NewAnalyticsService(f.store).Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, a.TotalRequests)
	assert.Equal(t, 20, a.TotalPages)
	assert.Equal(t, 1, a.ActiveUsers)
	assert.Equal(t, "Asha", a.TopUser)
	assert.Equal(t, 1, a.Season.TotalRequests)
	assert.Equal(t, int64(2), a.Season.BannerClicks)
	assert.Equal(t, "50.0", a.Season.ConversionRate.StringFixed(1))
	require.Len(t, a.Season.UsersUsingOffers, 1)
	assert.Equal(t, "newyear", a.Season.UsersUsingOffers[0].SeasonID)
}

func TestJobsRefreshMetrics(t *testing.T) {
	ctx := context.Background()
	f := newTxFixture(t)
	settings := NewSettingsService(f.store, f.notifier)
	f.submit(t, "UTR123456")

	jobs, err := NewJobService(settings, f.store.Transactions, "@every 1h", "@every 1m")
	require.NoError(t, err)

	require.NoError(t, jobs.RefreshPending(ctx))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.PendingTransactions))

	require.NoError(t, jobs.ResyncBalance(ctx))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.AdminBalance))

	before := testutil.ToFloat64(metrics.JobRuns.WithLabelValues(JobPendingMetrics))
	jobs.wrap(JobPendingMetrics, jobs.RefreshPending)()
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.JobRuns.WithLabelValues(JobPendingMetrics)))

	_, err = NewJobService(settings, f.store.Transactions, "whenever", "@every 1m")
	assert.Error(t, err)

	jobs.Start()
	jobs.Stop()
}
