package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// ScenarioRepository defines the interface for scenario data access.
type ScenarioRepository interface {
	Create(ctx context.Context, s *models.Scenario) error
	Get(ctx context.Context, id int64) (*models.Scenario, error)
	List(ctx context.Context, offset, limit int) ([]*models.Scenario, error)
	ListByProject(ctx context.Context, projectID int64) ([]*models.Scenario, error)
	Update(ctx context.Context, s *models.Scenario) error
	Delete(ctx context.Context, id int64) error
}

type scenarioRepository struct{}

// NewScenarioRepository creates a new scenario repository.
func NewScenarioRepository() ScenarioRepository {
	return &scenarioRepository{}
}

const scenarioColumns = `id, project_id, influencer_id, content, google_doc_url, status,
	submitted_at, approved_at, deadline, version`

func scanScenario(row rowScanner) (*models.Scenario, error) {
	var s models.Scenario
	if err := row.Scan(
		&s.ID,
		&s.ProjectID,
		&s.InfluencerID,
		&s.Content,
		&s.GoogleDocURL,
		&s.Status,
		&s.SubmittedAt,
		&s.ApprovedAt,
		&s.Deadline,
		&s.Version,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scenarioRepository) Create(ctx context.Context, s *models.Scenario) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO scenarios (project_id, influencer_id, content, google_doc_url, status,
			submitted_at, approved_at, deadline, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err = q.QueryRow(ctx, query,
		s.ProjectID,
		s.InfluencerID,
		s.Content,
		s.GoogleDocURL,
		s.Status,
		s.SubmittedAt,
		s.ApprovedAt,
		s.Deadline,
		s.Version,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to create scenario: %w", err)
	}
	return nil
}

func (r *scenarioRepository) Get(ctx context.Context, id int64) (*models.Scenario, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	s, err := scanScenario(q.QueryRow(ctx, `SELECT `+scenarioColumns+` FROM scenarios WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("Scenario")
		}
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}
	return s, nil
}

func (r *scenarioRepository) List(ctx context.Context, offset, limit int) ([]*models.Scenario, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+scenarioColumns+` FROM scenarios ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	return collect(rows, scanScenario)
}

func (r *scenarioRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.Scenario, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+scenarioColumns+` FROM scenarios WHERE project_id = $1 ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project scenarios: %w", err)
	}
	return collect(rows, scanScenario)
}

func (r *scenarioRepository) Update(ctx context.Context, s *models.Scenario) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE scenarios
		SET project_id = $2, influencer_id = $3, content = $4, google_doc_url = $5,
		    status = $6, submitted_at = $7, approved_at = $8, deadline = $9, version = $10
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		s.ID,
		s.ProjectID,
		s.InfluencerID,
		s.Content,
		s.GoogleDocURL,
		s.Status,
		s.SubmittedAt,
		s.ApprovedAt,
		s.Deadline,
		s.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Scenario")
	}
	return nil
}

func (r *scenarioRepository) Delete(ctx context.Context, id int64) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Scenario")
	}
	return nil
}

var _ ScenarioRepository = (*scenarioRepository)(nil)
