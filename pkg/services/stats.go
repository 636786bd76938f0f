package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
)

// StatsService builds the dashboard summaries.
type StatsService interface {
	ForManager(ctx context.Context, manager *models.User) (*models.ManagerStats, error)
	// ForInfluencer fails with NotFound("Influencer") when the user has no profile.
	ForInfluencer(ctx context.Context, user *models.User) (*models.InfluencerStats, error)
}

type statsService struct {
	repo        repositories.StatsRepository
	influencers repositories.InfluencerRepository
	logger      *zap.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(repo repositories.StatsRepository, influencers repositories.InfluencerRepository, logger *zap.Logger) StatsService {
	return &statsService{
		repo:        repo,
		influencers: influencers,
		logger:      logger.Named("stats"),
	}
}

var _ StatsService = (*statsService)(nil)

func (s *statsService) ForManager(ctx context.Context, manager *models.User) (*models.ManagerStats, error) {
	return s.repo.ManagerStats(ctx, manager.ID)
}

func (s *statsService) ForInfluencer(ctx context.Context, user *models.User) (*models.InfluencerStats, error) {
	inf, err := s.influencers.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.repo.InfluencerStats(ctx, inf.ID)
}
