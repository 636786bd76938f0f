package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// ProjectInfluencerRepository defines data access for project assignments.
type ProjectInfluencerRepository interface {
	Create(ctx context.Context, pi *models.ProjectInfluencer) error
	Get(ctx context.Context, projectID, influencerID int64) (*models.ProjectInfluencer, error)
	ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectInfluencer, error)
	ListByInfluencer(ctx context.Context, influencerID int64) ([]*models.ProjectInfluencer, error)
	Update(ctx context.Context, pi *models.ProjectInfluencer) error
}

type projectInfluencerRepository struct{}

// NewProjectInfluencerRepository creates a new project assignment repository.
func NewProjectInfluencerRepository() ProjectInfluencerRepository {
	return &projectInfluencerRepository{}
}

const projectInfluencerColumns = `id, project_id, influencer_id,
	scenario_status, material_status, publication_status,
	scenario_completed_at, material_completed_at, publication_completed_at`

func scanProjectInfluencer(row rowScanner) (*models.ProjectInfluencer, error) {
	var pi models.ProjectInfluencer
	if err := row.Scan(
		&pi.ID,
		&pi.ProjectID,
		&pi.InfluencerID,
		&pi.ScenarioStatus,
		&pi.MaterialStatus,
		&pi.PublicationStatus,
		&pi.ScenarioCompletedAt,
		&pi.MaterialCompletedAt,
		&pi.PublicationCompletedAt,
	); err != nil {
		return nil, err
	}
	return &pi, nil
}

// Create assigns an influencer to a project. Assigning the same pair twice yields a Conflict.
func (r *projectInfluencerRepository) Create(ctx context.Context, pi *models.ProjectInfluencer) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO project_influencers (project_id, influencer_id,
			scenario_status, material_status, publication_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err = q.QueryRow(ctx, query,
		pi.ProjectID,
		pi.InfluencerID,
		pi.ScenarioStatus,
		pi.MaterialStatus,
		pi.PublicationStatus,
	).Scan(&pi.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("Influencer already assigned to project")
		}
		return fmt.Errorf("failed to assign influencer: %w", err)
	}
	return nil
}

func (r *projectInfluencerRepository) Get(ctx context.Context, projectID, influencerID int64) (*models.ProjectInfluencer, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + projectInfluencerColumns + `
		FROM project_influencers
		WHERE project_id = $1 AND influencer_id = $2`

	pi, err := scanProjectInfluencer(q.QueryRow(ctx, query, projectID, influencerID))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("Project influencer")
		}
		return nil, fmt.Errorf("failed to get project influencer: %w", err)
	}
	return pi, nil
}

func (r *projectInfluencerRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectInfluencer, error) {
	return r.list(ctx, `WHERE project_id = $1`, projectID)
}

func (r *projectInfluencerRepository) ListByInfluencer(ctx context.Context, influencerID int64) ([]*models.ProjectInfluencer, error) {
	return r.list(ctx, `WHERE influencer_id = $1`, influencerID)
}

func (r *projectInfluencerRepository) list(ctx context.Context, where string, id int64) ([]*models.ProjectInfluencer, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+projectInfluencerColumns+` FROM project_influencers `+where+` ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list project influencers: %w", err)
	}
	return collect(rows, scanProjectInfluencer)
}

func (r *projectInfluencerRepository) Update(ctx context.Context, pi *models.ProjectInfluencer) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE project_influencers
		SET scenario_status = $2, material_status = $3, publication_status = $4,
		    scenario_completed_at = $5, material_completed_at = $6, publication_completed_at = $7
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		pi.ID,
		pi.ScenarioStatus,
		pi.MaterialStatus,
		pi.PublicationStatus,
		pi.ScenarioCompletedAt,
		pi.MaterialCompletedAt,
		pi.PublicationCompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project influencer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Project influencer")
	}
	return nil
}

var _ ProjectInfluencerRepository = (*projectInfluencerRepository)(nil)
