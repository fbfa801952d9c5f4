package services

import (
	"context"

	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/core/domain"
)

// AnalyticsService computes the owner's business overview
type AnalyticsService struct {
	store *repositories.Store
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(store *repositories.Store) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Overview summarises every request and account
func (s *AnalyticsService) Overview(ctx context.Context) (*domain.Analytics, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	reqs, err := s.store.Requests.List(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := s.store.Config.Get(ctx)
	if err != nil {
		return nil, err
	}

	a := domain.Summarize(users, reqs, cfg.BannerClicks)
	return &a, nil
}
