package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
)

// ProjectService manages projects. Every create, delete, title change,
// status change and stage change appends to the activity log in the same
// transaction as the mutation.
type ProjectService interface {
	Create(ctx context.Context, in *models.ProjectInput) (*models.Project, error)
	Get(ctx context.Context, id int64) (*models.Project, error)
	List(ctx context.Context, filter models.ProjectFilter, offset, limit int) ([]*models.Project, error)
	// Update replaces every client-writable field. A workflow_stage that
	// differs from the stored one is applied through the workflow engine.
	Update(ctx context.Context, id int64, in *models.ProjectInput) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
}

type projectService struct {
	projects   repositories.ProjectRepository
	users      repositories.UserRepository
	activities ActivityService
	workflow   WorkflowService
	tx         database.Transactor
	logger     *zap.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	activities ActivityService,
	workflow WorkflowService,
	tx database.Transactor,
	logger *zap.Logger,
) ProjectService {
	return &projectService{
		projects:   projects,
		users:      users,
		activities: activities,
		workflow:   workflow,
		tx:         tx,
		logger:     logger.Named("projects"),
	}
}

var _ ProjectService = (*projectService)(nil)

func (s *projectService) Create(ctx context.Context, in *models.ProjectInput) (*models.Project, error) {
	if err := validateProjectInput(in); err != nil {
		return nil, err
	}

	project := &models.Project{
		Status:        models.ProjectStatusDraft,
		WorkflowStage: models.StageScenario,
	}
	in.ApplyTo(project)
	if in.WorkflowStage != "" {
		project.WorkflowStage = in.WorkflowStage
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.requireManager(ctx, in.ManagerID); err != nil {
			return err
		}
		if err := s.projects.Create(ctx, project); err != nil {
			return err
		}
		return s.activities.Record(ctx, project.ID, models.ActivityProjectCreated,
			fmt.Sprintf("Project %q created", project.Title))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created project",
		zap.Int64("project_id", project.ID),
		zap.Int64("manager_id", project.ManagerID))
	return project, nil
}

func (s *projectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	return s.projects.Get(ctx, id)
}

func (s *projectService) List(ctx context.Context, filter models.ProjectFilter, offset, limit int) ([]*models.Project, error) {
	if filter.Status != "" && !models.IsValidProjectStatus(filter.Status) {
		return nil, apperrors.Validation("status must be one of %s", strings.Join(models.ProjectStatuses, ", "))
	}
	return s.projects.List(ctx, filter, offset, limit)
}

func (s *projectService) Update(ctx context.Context, id int64, in *models.ProjectInput) (*models.Project, error) {
	if err := validateProjectInput(in); err != nil {
		return nil, err
	}

	var project *models.Project
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.projects.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.requireManager(ctx, in.ManagerID); err != nil {
			return err
		}

		oldTitle, oldStatus := p.Title, p.Status
		in.ApplyTo(p)
		if err := s.projects.Update(ctx, p); err != nil {
			return err
		}

		if p.Title != oldTitle {
			if err := s.activities.Record(ctx, id, models.ActivityProjectUpdated,
				fmt.Sprintf("Project title changed from %q to %q", oldTitle, p.Title)); err != nil {
				return err
			}
		}
		if p.Status != oldStatus {
			if err := s.activities.Record(ctx, id, models.ActivityProjectStatusChanged,
				fmt.Sprintf("Project status changed from %s to %s", oldStatus, p.Status)); err != nil {
				return err
			}
		}

		if in.WorkflowStage != "" && in.WorkflowStage != p.WorkflowStage {
			advanced, err := s.workflow.AdvanceStage(ctx, id, in.WorkflowStage)
			if err != nil {
				return err
			}
			p.WorkflowStage = advanced.WorkflowStage
		}

		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project and its dependent rows. The project_deleted
// activity outlives the project.
func (s *projectService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.projects.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.projects.Delete(ctx, id); err != nil {
			return err
		}
		return s.activities.Record(ctx, id, models.ActivityProjectDeleted,
			fmt.Sprintf("Project %q deleted", p.Title))
	})
}

// requireManager checks that managerID names a user with the manager role.
func (s *projectService) requireManager(ctx context.Context, managerID int64) error {
	return requireManager(ctx, s.users, managerID)
}

func requireManager(ctx context.Context, users repositories.UserRepository, managerID int64) error {
	user, err := users.GetByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("Manager")
		}
		return err
	}
	if !user.IsManager() {
		return apperrors.NotFound("Manager")
	}
	return nil
}

func validateProjectInput(in *models.ProjectInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return apperrors.Validation("title is required")
	case strings.TrimSpace(in.Client) == "":
		return apperrors.Validation("client is required")
	case in.ManagerID == 0:
		return apperrors.Validation("manager_id is required")
	case in.Status != "" && !models.IsValidProjectStatus(in.Status):
		return apperrors.Validation("status must be one of %s", strings.Join(models.ProjectStatuses, ", "))
	case in.WorkflowStage != "" && !models.IsValidStage(in.WorkflowStage):
		return apperrors.Validation("workflow_stage must be one of %s", strings.Join(models.WorkflowStages, ", "))
	}
	return nil
}
