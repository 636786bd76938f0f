package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// CommentRepository defines the interface for comment data access.
// Comments have no update.
type CommentRepository interface {
	Create(ctx context.Context, c *models.Comment) error
	Get(ctx context.Context, id int64) (*models.Comment, error)
	List(ctx context.Context, offset, limit int) ([]*models.Comment, error)
	ListByProject(ctx context.Context, projectID int64) ([]*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type commentRepository struct{}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository() CommentRepository {
	return &commentRepository{}
}

const commentColumns = `id, project_id, user_id, content, created_at`

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.ProjectID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) Create(ctx context.Context, c *models.Comment) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO comments (project_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	if err := q.QueryRow(ctx, query, c.ProjectID, c.UserID, c.Content).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *commentRepository) Get(ctx context.Context, id int64) (*models.Comment, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	c, err := scanComment(q.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("Comment")
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

func (r *commentRepository) List(ctx context.Context, offset, limit int) ([]*models.Comment, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+commentColumns+` FROM comments ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return collect(rows, scanComment)
}

func (r *commentRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.Comment, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+commentColumns+` FROM comments WHERE project_id = $1 ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project comments: %w", err)
	}
	return collect(rows, scanComment)
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Comment")
	}
	return nil
}

var _ CommentRepository = (*commentRepository)(nil)
