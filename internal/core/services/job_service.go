package services

import (
	"context"
	"time"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/pkg/logger"
	"homework-desk/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// ============================================================
// Background jobs: balance resync + pending gauge
// ============================================================

// Job names used in metrics and logs
const (
	JobBalanceResync  = "balance_resync"
	JobPendingMetrics = "pending_metrics"
)

const jobTimeout = 2 * time.Minute

// JobService runs the scheduled maintenance jobs
type JobService struct {
	cron     *cron.Cron
	settings *SettingsService
	txRepo   repositories.TransactionRepository
}

// NewJobService schedules the jobs. Schedules use cron syntax or @every.
func NewJobService(settings *SettingsService, txRepo repositories.TransactionRepository, resyncSpec, pendingSpec string) (*JobService, error) {
	s := &JobService{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		settings: settings,
		txRepo:   txRepo,
	}

	if _, err := s.cron.AddFunc(resyncSpec, s.wrap(JobBalanceResync, s.ResyncBalance)); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(pendingSpec, s.wrap(JobPendingMetrics, s.RefreshPending)); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the scheduler
func (s *JobService) Start() {
	s.cron.Start()
	logger.Log.Info().Int("jobs", len(s.cron.Entries())).Msg("🚀 Job scheduler started")
}

// Stop waits for running jobs to finish
func (s *JobService) Stop() {
	<-s.cron.Stop().Done()
	logger.Log.Info().Msg("🛑 Job scheduler stopped")
}

// ResyncBalance corrects balance drift against approved transactions
func (s *JobService) ResyncBalance(ctx context.Context) error {
	_, _, err := s.settings.ResyncBalance(ctx)
	return err
}

// RefreshPending updates the pending transactions gauge
func (s *JobService) RefreshPending(ctx context.Context) error {
	n, err := s.txRepo.CountPending(ctx)
	if err != nil {
		return err
	}
	metrics.PendingTransactions.Set(float64(n))
	return nil
}

func (s *JobService) wrap(name string, job func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		err := job(ctx)
		metrics.ObserveJob(name, start, err)
		if err != nil {
			logger.Log.Error().Err(err).Str("job", name).Msg("❌ Job failed")
			return
		}
		logger.Log.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("✅ Job finished")
	}
}
