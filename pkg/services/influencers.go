package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
)

// InfluencerService manages influencer profiles.
type InfluencerService interface {
	// Create validates the user and the manager before inserting. A zero
	// ManagerID defaults to the caller when the caller is a manager.
	Create(ctx context.Context, caller *models.User, inf *models.Influencer) (*models.Influencer, error)
	Get(ctx context.Context, id int64) (*models.Influencer, error)
	// List returns the caller's influencers when the caller is a manager,
	// otherwise every influencer.
	List(ctx context.Context, caller *models.User, offset, limit int) ([]*models.Influencer, error)
	// Update merges the non-nil patch fields and re-validates references.
	Update(ctx context.Context, id int64, patch *models.InfluencerPatch) (*models.Influencer, error)
	Delete(ctx context.Context, id int64) error
}

type influencerService struct {
	repo   repositories.InfluencerRepository
	users  repositories.UserRepository
	tx     database.Transactor
	logger *zap.Logger
}

// NewInfluencerService creates a new InfluencerService.
func NewInfluencerService(
	repo repositories.InfluencerRepository,
	users repositories.UserRepository,
	tx database.Transactor,
	logger *zap.Logger,
) InfluencerService {
	return &influencerService{
		repo:   repo,
		users:  users,
		tx:     tx,
		logger: logger.Named("influencers"),
	}
}

var _ InfluencerService = (*influencerService)(nil)

func (s *influencerService) Create(ctx context.Context, caller *models.User, inf *models.Influencer) (*models.Influencer, error) {
	if inf.ManagerID == 0 && caller.IsManager() {
		inf.ManagerID = caller.ID
	}
	if strings.TrimSpace(inf.Nickname) == "" {
		return nil, apperrors.Validation("nickname is required")
	}

	created := *inf
	created.ID = 0
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.checkRefs(ctx, &created); err != nil {
			return err
		}
		return s.repo.Create(ctx, &created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created influencer",
		zap.Int64("influencer_id", created.ID),
		zap.Int64("manager_id", created.ManagerID))
	return &created, nil
}

func (s *influencerService) checkRefs(ctx context.Context, inf *models.Influencer) error {
	if _, err := s.users.GetByID(ctx, inf.UserID); err != nil {
		return err
	}
	return requireManager(ctx, s.users, inf.ManagerID)
}

func (s *influencerService) Get(ctx context.Context, id int64) (*models.Influencer, error) {
	return s.repo.Get(ctx, id)
}

func (s *influencerService) List(ctx context.Context, caller *models.User, offset, limit int) ([]*models.Influencer, error) {
	var managerID *int64
	if caller.IsManager() {
		id := caller.ID
		managerID = &id
	}
	return s.repo.List(ctx, managerID, offset, limit)
}

func (s *influencerService) Update(ctx context.Context, id int64, patch *models.InfluencerPatch) (*models.Influencer, error) {
	if patch.Nickname != nil && strings.TrimSpace(*patch.Nickname) == "" {
		return nil, apperrors.Validation("nickname must not be empty")
	}

	var updated *models.Influencer
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		inf, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(inf)
		if err := s.checkRefs(ctx, inf); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, inf); err != nil {
			return err
		}
		updated = inf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *influencerService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
