package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// ActivityRepository provides append-only access to the activity log.
type ActivityRepository interface {
	Create(ctx context.Context, a *models.Activity) error
	Get(ctx context.Context, id int64) (*models.Activity, error)
	// List returns activities in insertion order.
	List(ctx context.Context, offset, limit int) ([]*models.Activity, error)
	// ListByProject returns a project's activities, newest first.
	ListByProject(ctx context.Context, projectID int64, offset, limit int) ([]*models.Activity, error)
	// ListRecent returns the newest activities across all projects.
	ListRecent(ctx context.Context, limit int) ([]*models.Activity, error)
}

type activityRepository struct{}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository() ActivityRepository {
	return &activityRepository{}
}

const activityColumns = `id, project_id, user_id, activity_type, description, created_at`

func scanActivity(row rowScanner) (*models.Activity, error) {
	var a models.Activity
	if err := row.Scan(&a.ID, &a.ProjectID, &a.UserID, &a.ActivityType, &a.Description, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *activityRepository) Create(ctx context.Context, a *models.Activity) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO activities (project_id, user_id, activity_type, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err = q.QueryRow(ctx, query, a.ProjectID, a.UserID, a.ActivityType, a.Description).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

func (r *activityRepository) Get(ctx context.Context, id int64) (*models.Activity, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	a, err := scanActivity(q.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("Activity")
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

func (r *activityRepository) List(ctx context.Context, offset, limit int) ([]*models.Activity, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return collect(rows, scanActivity)
}

func (r *activityRepository) ListByProject(ctx context.Context, projectID int64, offset, limit int) ([]*models.Activity, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3`

	rows, err := q.Query(ctx, query, projectID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list project activities: %w", err)
	}
	return collect(rows, scanActivity)
}

func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]*models.Activity, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activities: %w", err)
	}
	return collect(rows, scanActivity)
}

var _ ActivityRepository = (*activityRepository)(nil)
