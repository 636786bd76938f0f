package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/auth"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
)

// ActivityService appends to and reads the project activity log.
type ActivityService interface {
	// Record appends one activity for projectID attributed to the caller in ctx.
	// Callers run it inside the transaction of the mutation it describes.
	Record(ctx context.Context, projectID int64, activityType, description string) error

	// Create appends a manually entered activity after checking its project and user exist.
	Create(ctx context.Context, in *models.ActivityInput) (*models.Activity, error)

	Get(ctx context.Context, id int64) (*models.Activity, error)
	List(ctx context.Context, offset, limit int) ([]*models.Activity, error)

	// ListByProject returns a project's activities, newest first.
	ListByProject(ctx context.Context, projectID int64, offset, limit int) ([]*models.Activity, error)

	// ListRecent returns the newest activities across all projects.
	ListRecent(ctx context.Context, limit int) ([]*models.Activity, error)
}

type activityService struct {
	repo     repositories.ActivityRepository
	projects repositories.ProjectRepository
	users    repositories.UserRepository
	tx       database.Transactor
	logger   *zap.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(
	repo repositories.ActivityRepository,
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	tx database.Transactor,
	logger *zap.Logger,
) ActivityService {
	return &activityService{
		repo:     repo,
		projects: projects,
		users:    users,
		tx:       tx,
		logger:   logger.Named("activities"),
	}
}

var _ ActivityService = (*activityService)(nil)

func (s *activityService) Record(ctx context.Context, projectID int64, activityType, description string) error {
	a := &models.Activity{
		ProjectID:    projectID,
		UserID:       auth.UserIDFromContext(ctx),
		ActivityType: activityType,
		Description:  description,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}

	s.logger.Debug("Recorded activity",
		zap.Int64("project_id", projectID),
		zap.String("activity_type", activityType))
	return nil
}

func (s *activityService) Create(ctx context.Context, in *models.ActivityInput) (*models.Activity, error) {
	if strings.TrimSpace(in.ActivityType) == "" {
		return nil, apperrors.Validation("activity_type is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, apperrors.Validation("description is required")
	}

	var created *models.Activity
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.projects.Get(ctx, in.ProjectID); err != nil {
			return err
		}
		if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
			return err
		}

		userID := in.UserID
		created = &models.Activity{
			ProjectID:    in.ProjectID,
			UserID:       &userID,
			ActivityType: in.ActivityType,
			Description:  in.Description,
		}
		return s.repo.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *activityService) Get(ctx context.Context, id int64) (*models.Activity, error) {
	return s.repo.Get(ctx, id)
}

func (s *activityService) List(ctx context.Context, offset, limit int) ([]*models.Activity, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *activityService) ListByProject(ctx context.Context, projectID int64, offset, limit int) ([]*models.Activity, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID, offset, limit)
}

func (s *activityService) ListRecent(ctx context.Context, limit int) ([]*models.Activity, error) {
	return s.repo.ListRecent(ctx, limit)
}
