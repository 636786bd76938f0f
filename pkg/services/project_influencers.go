package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
)

// ProjectInfluencerService manages influencer assignments and their per-stage progress.
type ProjectInfluencerService interface {
	List(ctx context.Context, projectID int64) ([]*models.ProjectInfluencer, error)
	// Assign adds an influencer to a project with every stage pending.
	Assign(ctx context.Context, projectID, influencerID int64) (*models.ProjectInfluencer, error)
	// UpdateProgress sets stage statuses; a finished status stamps the stage's completion time.
	UpdateProgress(ctx context.Context, projectID, influencerID int64, progress *models.StageProgress) (*models.ProjectInfluencer, error)
}

type projectInfluencerService struct {
	repo       repositories.ProjectInfluencerRepository
	refs       refChecker
	activities ActivityService
	tx         database.Transactor
	now        func() time.Time
	logger     *zap.Logger
}

// NewProjectInfluencerService creates a new ProjectInfluencerService.
func NewProjectInfluencerService(
	repo repositories.ProjectInfluencerRepository,
	projects repositories.ProjectRepository,
	influencers repositories.InfluencerRepository,
	activities ActivityService,
	tx database.Transactor,
	logger *zap.Logger,
) ProjectInfluencerService {
	return &projectInfluencerService{
		repo:       repo,
		refs:       refChecker{projects: projects, influencers: influencers},
		activities: activities,
		tx:         tx,
		now:        time.Now,
		logger:     logger.Named("project-influencers"),
	}
}

var _ ProjectInfluencerService = (*projectInfluencerService)(nil)

func (s *projectInfluencerService) List(ctx context.Context, projectID int64) ([]*models.ProjectInfluencer, error) {
	if _, err := s.refs.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

func (s *projectInfluencerService) Assign(ctx context.Context, projectID, influencerID int64) (*models.ProjectInfluencer, error) {
	pending := models.StatusPending
	pi := &models.ProjectInfluencer{
		ProjectID:         projectID,
		InfluencerID:      influencerID,
		ScenarioStatus:    &pending,
		MaterialStatus:    &pending,
		PublicationStatus: &pending,
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.refs.projects.Get(ctx, projectID); err != nil {
			return err
		}
		inf, err := s.refs.influencers.Get(ctx, influencerID)
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, pi); err != nil {
			return err
		}
		return s.activities.Record(ctx, projectID, models.ActivityInfluencerAssigned,
			fmt.Sprintf("Influencer %s assigned to project", inf.Nickname))
	})
	if err != nil {
		return nil, err
	}
	return pi, nil
}

func (s *projectInfluencerService) UpdateProgress(ctx context.Context, projectID, influencerID int64, progress *models.StageProgress) (*models.ProjectInfluencer, error) {
	var updated *models.ProjectInfluencer
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		pi, err := s.repo.Get(ctx, projectID, influencerID)
		if err != nil {
			return err
		}
		progress.Apply(pi, s.now().UTC())
		if err := s.repo.Update(ctx, pi); err != nil {
			return err
		}
		updated = pi
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
