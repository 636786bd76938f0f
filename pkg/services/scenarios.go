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

// ScenarioService manages scenarios.
//
// The ForProject methods back the /projects/{id}/scenarios endpoints and
// append activities; the plain methods back /scenarios and do not.
type ScenarioService interface {
	Create(ctx context.Context, in *models.ScenarioInput) (*models.Scenario, error)
	Get(ctx context.Context, id int64) (*models.Scenario, error)
	List(ctx context.Context, offset, limit int) ([]*models.Scenario, error)
	Update(ctx context.Context, id int64, in *models.ScenarioInput) (*models.Scenario, error)
	Delete(ctx context.Context, id int64) error

	ListForProject(ctx context.Context, projectID int64) ([]*models.Scenario, error)
	CreateForProject(ctx context.Context, projectID int64, in *models.ScenarioInput) (*models.Scenario, error)
	UpdateForProject(ctx context.Context, projectID, id int64, in *models.ScenarioInput) (*models.Scenario, error)
	DeleteForProject(ctx context.Context, projectID, id int64) error
}

type scenarioService struct {
	repo       repositories.ScenarioRepository
	refs       refChecker
	activities ActivityService
	tx         database.Transactor
	now        func() time.Time
	logger     *zap.Logger
}

// NewScenarioService creates a new ScenarioService.
func NewScenarioService(
	repo repositories.ScenarioRepository,
	projects repositories.ProjectRepository,
	influencers repositories.InfluencerRepository,
	activities ActivityService,
	tx database.Transactor,
	logger *zap.Logger,
) ScenarioService {
	return &scenarioService{
		repo:       repo,
		refs:       refChecker{projects: projects, influencers: influencers},
		activities: activities,
		tx:         tx,
		now:        time.Now,
		logger:     logger.Named("scenarios"),
	}
}

var _ ScenarioService = (*scenarioService)(nil)

func (s *scenarioService) Create(ctx context.Context, in *models.ScenarioInput) (*models.Scenario, error) {
	return s.create(ctx, in, skipActivity)
}

func (s *scenarioService) CreateForProject(ctx context.Context, projectID int64, in *models.ScenarioInput) (*models.Scenario, error) {
	in.ProjectID = projectID
	return s.create(ctx, in, recordActivity)
}

func (s *scenarioService) create(ctx context.Context, in *models.ScenarioInput, mode activityMode) (*models.Scenario, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperrors.Validation("content is required")
	}

	now := s.now().UTC()
	scenario := &models.Scenario{
		ProjectID:    in.ProjectID,
		InfluencerID: in.InfluencerID,
		Content:      in.Content,
		GoogleDocURL: in.GoogleDocURL,
		Status:       in.Status,
		Deadline:     in.Deadline,
		SubmittedAt:  timePtr(now),
		Version:      1,
	}
	if scenario.Status == "" {
		scenario.Status = models.StatusPending
	}
	if models.NormalizeStatus(scenario.Status) == models.StatusApproved {
		scenario.ApprovedAt = timePtr(now)
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.refs.check(ctx, in.ProjectID, in.InfluencerID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, scenario); err != nil {
			return err
		}
		if mode == skipActivity {
			return nil
		}
		return s.activities.Record(ctx, scenario.ProjectID, models.ActivityScenarioCreated,
			fmt.Sprintf("Scenario #%d submitted for review", scenario.ID))
	})
	if err != nil {
		return nil, err
	}
	return scenario, nil
}

func (s *scenarioService) Get(ctx context.Context, id int64) (*models.Scenario, error) {
	return s.repo.Get(ctx, id)
}

func (s *scenarioService) List(ctx context.Context, offset, limit int) ([]*models.Scenario, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *scenarioService) ListForProject(ctx context.Context, projectID int64) ([]*models.Scenario, error) {
	if _, err := s.refs.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

func (s *scenarioService) Update(ctx context.Context, id int64, in *models.ScenarioInput) (*models.Scenario, error) {
	return s.update(ctx, 0, id, in, skipActivity)
}

func (s *scenarioService) UpdateForProject(ctx context.Context, projectID, id int64, in *models.ScenarioInput) (*models.Scenario, error) {
	in.ProjectID = projectID
	return s.update(ctx, projectID, id, in, recordActivity)
}

// update replaces the client-writable fields. New content bumps the version
// and the submission time; moving to approved stamps approved_at.
func (s *scenarioService) update(ctx context.Context, projectID, id int64, in *models.ScenarioInput, mode activityMode) (*models.Scenario, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperrors.Validation("content is required")
	}

	var scenario *models.Scenario
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if mode == recordActivity {
			if err := belongsTo("Scenario", current.ProjectID, projectID); err != nil {
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
		next.GoogleDocURL = in.GoogleDocURL
		next.Deadline = in.Deadline
		if in.Content != current.Content {
			next.Content = in.Content
			next.Version = current.Version + 1
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
		scenario = &next

		if mode == skipActivity || !statusChanged {
			return nil
		}
		return s.activities.Record(ctx, next.ProjectID, models.StatusActivityType("scenario", next.Status),
			fmt.Sprintf("Scenario #%d status changed from %s to %s", next.ID, oldStatus, next.Status))
	})
	if err != nil {
		return nil, err
	}
	return scenario, nil
}

func (s *scenarioService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *scenarioService) DeleteForProject(ctx context.Context, projectID, id int64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := belongsTo("Scenario", current.ProjectID, projectID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.activities.Record(ctx, projectID, models.ActivityScenarioDeleted,
			fmt.Sprintf("Scenario #%d deleted", id))
	})
}
