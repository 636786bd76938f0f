package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// MaterialRepository defines the interface for material data access.
type MaterialRepository interface {
	Create(ctx context.Context, m *models.Material) error
	Get(ctx context.Context, id int64) (*models.Material, error)
	List(ctx context.Context, offset, limit int) ([]*models.Material, error)
	ListByProject(ctx context.Context, projectID int64) ([]*models.Material, error)
	Update(ctx context.Context, m *models.Material) error
	Delete(ctx context.Context, id int64) error
}

type materialRepository struct{}

// NewMaterialRepository creates a new material repository.
func NewMaterialRepository() MaterialRepository {
	return &materialRepository{}
}

const materialColumns = `id, project_id, influencer_id, material_url, google_drive_url,
	description, status, submitted_at, approved_at, deadline`

func scanMaterial(row rowScanner) (*models.Material, error) {
	var m models.Material
	if err := row.Scan(
		&m.ID,
		&m.ProjectID,
		&m.InfluencerID,
		&m.MaterialURL,
		&m.GoogleDriveURL,
		&m.Description,
		&m.Status,
		&m.SubmittedAt,
		&m.ApprovedAt,
		&m.Deadline,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRepository) Create(ctx context.Context, m *models.Material) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO materials (project_id, influencer_id, material_url, google_drive_url,
			description, status, submitted_at, approved_at, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err = q.QueryRow(ctx, query,
		m.ProjectID,
		m.InfluencerID,
		m.MaterialURL,
		m.GoogleDriveURL,
		m.Description,
		m.Status,
		m.SubmittedAt,
		m.ApprovedAt,
		m.Deadline,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}
	return nil
}

func (r *materialRepository) Get(ctx context.Context, id int64) (*models.Material, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	m, err := scanMaterial(q.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("Material")
		}
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return m, nil
}

func (r *materialRepository) List(ctx context.Context, offset, limit int) ([]*models.Material, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+materialColumns+` FROM materials ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return collect(rows, scanMaterial)
}

func (r *materialRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.Material, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+materialColumns+` FROM materials WHERE project_id = $1 ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project materials: %w", err)
	}
	return collect(rows, scanMaterial)
}

func (r *materialRepository) Update(ctx context.Context, m *models.Material) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE materials
		SET project_id = $2, influencer_id = $3, material_url = $4, google_drive_url = $5,
		    description = $6, status = $7, submitted_at = $8, approved_at = $9, deadline = $10
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		m.ID,
		m.ProjectID,
		m.InfluencerID,
		m.MaterialURL,
		m.GoogleDriveURL,
		m.Description,
		m.Status,
		m.SubmittedAt,
		m.ApprovedAt,
		m.Deadline,
	)
	if err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Material")
	}
	return nil
}

func (r *materialRepository) Delete(ctx context.Context, id int64) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Material")
	}
	return nil
}

var _ MaterialRepository = (*materialRepository)(nil)
