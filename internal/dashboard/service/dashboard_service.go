package service

import (
	"context"

	"go.uber.org/zap"

	"kuku/internal/domain"
)

type StatsRepository interface {
	Summary(ctx context.Context) (domain.DashboardStats, error)
}

type DashboardService struct {
	repo   StatsRepository
	logger *zap.Logger
}

func NewDashboardService(repo StatsRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		repo:   repo,
		logger: logger,
	}
}

// Stats is recomputed on every call.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	stats, err := s.repo.Summary(ctx)
	if err != nil {
		s.logger.Error("failed to compute dashboard stats", zap.Error(err))
		return nil, err
	}

	return &stats, nil
}
