package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
)

// WorkflowService moves projects through the scenario → material → publication pipeline.
type WorkflowService interface {
	// AdvanceStage sets the project's workflow stage and appends one
	// workflow_to_<stage> activity in the same transaction. A request for the
	// current stage still records an activity.
	AdvanceStage(ctx context.Context, projectID int64, stage string) (*models.Project, error)
}

// WorkflowOptions configures the workflow engine.
type WorkflowOptions struct {
	// StrictTransitions only allows moving forward by exactly one stage
	// (or staying on the current stage).
	StrictTransitions bool
}

type workflowService struct {
	projects   repositories.ProjectRepository
	activities ActivityService
	tx         database.Transactor
	opts       WorkflowOptions
	logger     *zap.Logger
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(
	projects repositories.ProjectRepository,
	activities ActivityService,
	tx database.Transactor,
	opts WorkflowOptions,
	logger *zap.Logger,
) WorkflowService {
	return &workflowService{
		projects:   projects,
		activities: activities,
		tx:         tx,
		opts:       opts,
		logger:     logger.Named("workflow"),
	}
}

var _ WorkflowService = (*workflowService)(nil)

func (s *workflowService) AdvanceStage(ctx context.Context, projectID int64, stage string) (*models.Project, error) {
	stage = strings.ToLower(strings.TrimSpace(stage))
	if !models.IsValidStage(stage) {
		return nil, apperrors.Validation("workflow_stage must be one of %s", strings.Join(models.WorkflowStages, ", "))
	}

	var project *models.Project
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.projects.GetForUpdate(ctx, projectID)
		if err != nil {
			return err
		}

		from := p.WorkflowStage
		if err := CheckTransition(from, stage, s.opts.StrictTransitions); err != nil {
			return err
		}

		if err := s.projects.UpdateStage(ctx, projectID, stage); err != nil {
			return err
		}
		p.WorkflowStage = stage

		description := fmt.Sprintf("Workflow stage changed from %s to %s", from, stage)
		if err := s.activities.Record(ctx, projectID, models.WorkflowActivityType(stage), description); err != nil {
			return err
		}

		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Advanced workflow stage",
		zap.Int64("project_id", projectID),
		zap.String("stage", stage))
	return project, nil
}

// CheckTransition validates a stage change. Without strict mode any valid
// stage is accepted. With strict mode the target must be the current stage
// or the one directly after it.
func CheckTransition(from, to string, strict bool) error {
	if !models.IsValidStage(to) {
		return apperrors.Validation("workflow_stage must be one of %s", strings.Join(models.WorkflowStages, ", "))
	}
	if !strict {
		return nil
	}

	fromIdx := models.StageIndex(from)
	toIdx := models.StageIndex(to)
	if toIdx == fromIdx || toIdx == fromIdx+1 {
		return nil
	}
	return apperrors.InvalidTransition(from, to)
}
