package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// PublicationRepository defines the interface for publication data access.
type PublicationRepository interface {
	Create(ctx context.Context, p *models.Publication) error
	Get(ctx context.Context, id int64) (*models.Publication, error)
	List(ctx context.Context, offset, limit int) ([]*models.Publication, error)
	ListByProject(ctx context.Context, projectID int64) ([]*models.Publication, error)
	Update(ctx context.Context, p *models.Publication) error
	Delete(ctx context.Context, id int64) error
}

type publicationRepository struct{}

// NewPublicationRepository creates a new publication repository.
func NewPublicationRepository() PublicationRepository {
	return &publicationRepository{}
}

const publicationColumns = `id, project_id, influencer_id, platform, publication_url,
	content, published_at, status, verified_at`

func scanPublication(row rowScanner) (*models.Publication, error) {
	var p models.Publication
	if err := row.Scan(
		&p.ID,
		&p.ProjectID,
		&p.InfluencerID,
		&p.Platform,
		&p.PublicationURL,
		&p.Content,
		&p.PublishedAt,
		&p.Status,
		&p.VerifiedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *publicationRepository) Create(ctx context.Context, p *models.Publication) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO publications (project_id, influencer_id, platform, publication_url,
			content, published_at, status, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err = q.QueryRow(ctx, query,
		p.ProjectID,
		p.InfluencerID,
		p.Platform,
		p.PublicationURL,
		p.Content,
		p.PublishedAt,
		p.Status,
		p.VerifiedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create publication: %w", err)
	}
	return nil
}

func (r *publicationRepository) Get(ctx context.Context, id int64) (*models.Publication, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	p, err := scanPublication(q.QueryRow(ctx, `SELECT `+publicationColumns+` FROM publications WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("Publication")
		}
		return nil, fmt.Errorf("failed to get publication: %w", err)
	}
	return p, nil
}

func (r *publicationRepository) List(ctx context.Context, offset, limit int) ([]*models.Publication, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+publicationColumns+` FROM publications ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}
	return collect(rows, scanPublication)
}

func (r *publicationRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.Publication, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+publicationColumns+` FROM publications WHERE project_id = $1 ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project publications: %w", err)
	}
	return collect(rows, scanPublication)
}

func (r *publicationRepository) Update(ctx context.Context, p *models.Publication) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE publications
		SET project_id = $2, influencer_id = $3, platform = $4, publication_url = $5,
		    content = $6, published_at = $7, status = $8, verified_at = $9
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		p.ID,
		p.ProjectID,
		p.InfluencerID,
		p.Platform,
		p.PublicationURL,
		p.Content,
		p.PublishedAt,
		p.Status,
		p.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update publication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Publication")
	}
	return nil
}

func (r *publicationRepository) Delete(ctx context.Context, id int64) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `DELETE FROM publications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete publication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Publication")
	}
	return nil
}

var _ PublicationRepository = (*publicationRepository)(nil)
