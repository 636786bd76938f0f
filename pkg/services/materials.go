package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
)

// MaterialService manages materials. As with scenarios, only the ForProject
// methods append activities.
type MaterialService interface {
	Create(ctx context.Context, in *models.MaterialInput) (*models.Material, error)
	Get(ctx context.Context, id int64) (*models.Material, error)
	List(ctx context.Context, offset, limit int) ([]*models.Material, error)
	Update(ctx context.Context, id int64, in *models.MaterialInput) (*models.Material, error)
	Delete(ctx context.Context, id int64) error

	ListForProject(ctx context.Context, projectID int64) ([]*models.Material, error)
	CreateForProject(ctx context.Context, projectID int64, in *models.MaterialInput) (*models.Material, error)
	UpdateForProject(ctx context.Context, projectID, id int64, in *models.MaterialInput) (*models.Material, error)
	DeleteForProject(ctx context.Context, projectID, id int64) error
}

type materialService struct {
	repo       repositories.MaterialRepository
	refs       refChecker
	activities ActivityService
	tx         database.Transactor
	now        func() time.Time
	logger     *zap.Logger
}

// NewMaterialService creates a new MaterialService.
func NewMaterialService(
	repo repositories.MaterialRepository,
	projects repositories.ProjectRepository,
	influencers repositories.InfluencerRepository,
	activities ActivityService,
	tx database.Transactor,
	logger *zap.Logger,
) MaterialService {
	return &materialService{
		repo:       repo,
		refs:       refChecker{projects: projects, influencers: influencers},
		activities: activities,
		tx:         tx,
		now:        time.Now,
		logger:     logger.Named("materials"),
	}
}

var _ MaterialService = (*materialService)(nil)

func (s *materialService) Create(ctx context.Context, in *models.MaterialInput) (*models.Material, error) {
	return s.create(ctx, in, skipActivity)
}

func (s *materialService) CreateForProject(ctx context.Context, projectID int64, in *models.MaterialInput) (*models.Material, error) {
	in.ProjectID = projectID
	return s.create(ctx, in, recordActivity)
}

func (s *materialService) create(ctx context.Context, in *models.MaterialInput, mode activityMode) (*models.Material, error) {
	if strings.TrimSpace(in.MaterialURL) == "" {
		return nil, apperrors.Validation("material_url is required")
	}

	now := s.now().UTC()
	material := &models.Material{
		ProjectID:      in.ProjectID,
		InfluencerID:   in.InfluencerID,
		MaterialURL:    in.MaterialURL,
		GoogleDriveURL: in.GoogleDriveURL,
		Description:    in.Description,
		Status:         in.Status,
		Deadline:       in.Deadline,
		SubmittedAt:    timePtr(now),
	}
	if material.Status == "" {
		material.Status = models.StatusPending
	}
	if models.NormalizeStatus(material.Status) == models.StatusApproved {
		material.ApprovedAt = timePtr(now)
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.refs.check(ctx, in.ProjectID, in.InfluencerID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, material); err != nil {
			return err
		}
		if mode == skipActivity {
			return nil
		}
		return s.activities.Record(ctx, material.ProjectID, models.ActivityMaterialSubmitted,
			fmt.Sprintf("Material #%d submitted for review", material.ID))
	})
	if err != nil {
		return nil, err
	}
	return material, nil
}

func (s *materialService) Get(ctx context.Context, id int64) (*models.Material, error) {
	return s.repo.Get(ctx, id)
}

func (s *materialService) List(ctx context.Context, offset, limit int) ([]*models.Material, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *materialService) ListForProject(ctx context.Context, projectID int64) ([]*models.Material, error) {
	if _, err := s.refs.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

func (s *materialService) Update(ctx context.Context, id int64, in *models.MaterialInput) (*models.Material, error) {
	return s.update(ctx, 0, id, in, skipActivity)
}

func (s *materialService) UpdateForProject(ctx context.Context, projectID, id int64, in *models.MaterialInput) (*models.Material, error) {
	in.ProjectID = projectID
	return s.update(ctx, projectID, id, in, recordActivity)
}

// update replaces the client-writable fields. A new material URL is a
// resubmission and refreshes submitted_at; moving to approved stamps approved_at.
func (s *materialService) update(ctx context.Context, projectID, id int64, in *models.MaterialInput, mode activityMode) (*models.Material, error) {
	if strings.TrimSpace(in.MaterialURL) == "" {
		return nil, apperrors.Validation("material_url is required")
	}

	var material *models.Material
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if mode == recordActivity {
			if err := belongsTo("Material", current.ProjectID, projectID); err != nil {
				return err
			}
		}
		if err := s.refs.check(ctx, in.ProjectID, in.InfluencerID); err != nil {
			return err
		}

		now := s.now().UTC()
		oldStatus := current.Status

		next := *current
		next.ProjectID = in.ProjectID
		next.InfluencerID = in.InfluencerID
		next.GoogleDriveURL = in.GoogleDriveURL
		next.Description = in.Description
		next.Deadline = in.Deadline
		if in.MaterialURL != current.MaterialURL {
			next.MaterialURL = in.MaterialURL
			next.SubmittedAt = timePtr(now)
		}
		if in.Status != "" {
			next.Status = in.Status
		}
		statusChanged := next.Status != oldStatus
		if statusChanged && models.NormalizeStatus(next.Status) == models.StatusApproved {
			next.ApprovedAt = timePtr(now)
		}

		if err := s.repo.Update(ctx, &next); err != nil {
			return err
		}
		material = &next

		if mode == skipActivity || !statusChanged {
			return nil
		}
		return s.activities.Record(ctx, next.ProjectID, models.StatusActivityType("material", next.Status),
			fmt.Sprintf("Material #%d status changed from %s to %s", next.ID, oldStatus, next.Status))
	})
	if err != nil {
		return nil, err
	}
	return material, nil
}

func (s *materialService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *materialService) DeleteForProject(ctx context.Context, projectID, id int64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := belongsTo("Material", current.ProjectID, projectID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.activities.Record(ctx, projectID, models.ActivityMaterialDeleted,
			fmt.Sprintf("Material #%d deleted", id))
	})
}
