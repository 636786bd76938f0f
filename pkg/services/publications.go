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

// PublicationService manages publications. Only the ForProject methods
// append activities.
type PublicationService interface {
	Create(ctx context.Context, in *models.PublicationInput) (*models.Publication, error)
	Get(ctx context.Context, id int64) (*models.Publication, error)
	List(ctx context.Context, offset, limit int) ([]*models.Publication, error)
	Update(ctx context.Context, id int64, in *models.PublicationInput) (*models.Publication, error)
	Delete(ctx context.Context, id int64) error

	ListForProject(ctx context.Context, projectID int64) ([]*models.Publication, error)
	CreateForProject(ctx context.Context, projectID int64, in *models.PublicationInput) (*models.Publication, error)
	UpdateForProject(ctx context.Context, projectID, id int64, in *models.PublicationInput) (*models.Publication, error)
	DeleteForProject(ctx context.Context, projectID, id int64) error
}

type publicationService struct {
	repo       repositories.PublicationRepository
	refs       refChecker
	activities ActivityService
	tx         database.Transactor
	now        func() time.Time
	logger     *zap.Logger
}

// NewPublicationService creates a new PublicationService.
func NewPublicationService(
	repo repositories.PublicationRepository,
	projects repositories.ProjectRepository,
	influencers repositories.InfluencerRepository,
	activities ActivityService,
	tx database.Transactor,
	logger *zap.Logger,
) PublicationService {
	return &publicationService{
		repo:       repo,
		refs:       refChecker{projects: projects, influencers: influencers},
		activities: activities,
		tx:         tx,
		now:        time.Now,
		logger:     logger.Named("publications"),
	}
}

var _ PublicationService = (*publicationService)(nil)

func validatePublicationInput(in *models.PublicationInput) error {
	switch {
	case strings.TrimSpace(in.Platform) == "":
		return apperrors.Validation("platform is required")
	case strings.TrimSpace(in.PublicationURL) == "":
		return apperrors.Validation("publication_url is required")
	}
	return nil
}

func (s *publicationService) Create(ctx context.Context, in *models.PublicationInput) (*models.Publication, error) {
	return s.create(ctx, in, skipActivity)
}

func (s *publicationService) CreateForProject(ctx context.Context, projectID int64, in *models.PublicationInput) (*models.Publication, error) {
	in.ProjectID = projectID
	return s.create(ctx, in, recordActivity)
}

func (s *publicationService) create(ctx context.Context, in *models.PublicationInput, mode activityMode) (*models.Publication, error) {
	if err := validatePublicationInput(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	publication := &models.Publication{
		ProjectID:      in.ProjectID,
		InfluencerID:   in.InfluencerID,
		Platform:       in.Platform,
		PublicationURL: in.PublicationURL,
		Content:        in.Content,
		PublishedAt:    now,
		Status:         in.Status,
	}
	if in.PublishedAt != nil {
		publication.PublishedAt = in.PublishedAt.UTC()
	}
	if publication.Status == "" {
		publication.Status = models.StatusPublished
	}
	if models.NormalizeStatus(publication.Status) == models.StatusVerified {
		publication.VerifiedAt = timePtr(now)
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.refs.check(ctx, in.ProjectID, in.InfluencerID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, publication); err != nil {
			return err
		}
		if mode == skipActivity {
			return nil
		}
		return s.activities.Record(ctx, publication.ProjectID, models.ActivityPublicationCreated,
			fmt.Sprintf("Publication #%d added on %s", publication.ID, publication.Platform))
	})
	if err != nil {
		return nil, err
	}
	return publication, nil
}

func (s *publicationService) Get(ctx context.Context, id int64) (*models.Publication, error) {
	return s.repo.Get(ctx, id)
}

func (s *publicationService) List(ctx context.Context, offset, limit int) ([]*models.Publication, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *publicationService) ListForProject(ctx context.Context, projectID int64) ([]*models.Publication, error) {
	if _, err := s.refs.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

func (s *publicationService) Update(ctx context.Context, id int64, in *models.PublicationInput) (*models.Publication, error) {
	return s.update(ctx, 0, id, in, skipActivity)
}

func (s *publicationService) UpdateForProject(ctx context.Context, projectID, id int64, in *models.PublicationInput) (*models.Publication, error) {
	in.ProjectID = projectID
	return s.update(ctx, projectID, id, in, recordActivity)
}

// update replaces the client-writable fields. Moving to verified stamps verified_at.
func (s *publicationService) update(ctx context.Context, projectID, id int64, in *models.PublicationInput, mode activityMode) (*models.Publication, error) {
	if err := validatePublicationInput(in); err != nil {
		return nil, err
	}

	var publication *models.Publication
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if mode == recordActivity {
			if err := belongsTo("Publication", current.ProjectID, projectID); err != nil {
				return err
			}
		}
		if err := s.refs.check(ctx, in.ProjectID, in.InfluencerID); err != nil {
			return err
		}

		oldStatus := current.Status

		next := *current
		next.ProjectID = in.ProjectID
		next.InfluencerID = in.InfluencerID
		next.Platform = in.Platform
		next.PublicationURL = in.PublicationURL
		next.Content = in.Content
		if in.PublishedAt != nil {
			next.PublishedAt = in.PublishedAt.UTC()
		}
		if in.Status != "" {
			next.Status = in.Status
		}
		statusChanged := next.Status != oldStatus
		if statusChanged && models.NormalizeStatus(next.Status) == models.StatusVerified {
			next.VerifiedAt = timePtr(s.now().UTC())
		}

		if err := s.repo.Update(ctx, &next); err != nil {
			return err
		}
		publication = &next

		if mode == skipActivity || !statusChanged {
			return nil
		}
		return s.activities.Record(ctx, next.ProjectID, models.ActivityPublicationUpdated,
			fmt.Sprintf("Publication #%d status changed from %s to %s", next.ID, oldStatus, next.Status))
	})
	if err != nil {
		return nil, err
	}
	return publication, nil
}

func (s *publicationService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *publicationService) DeleteForProject(ctx context.Context, projectID, id int64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := belongsTo("Publication", current.ProjectID, projectID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.activities.Record(ctx, projectID, models.ActivityPublicationDeleted,
			fmt.Sprintf("Publication #%d deleted", id))
	})
}
