package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// StatsRepository computes dashboard aggregates.
type StatsRepository interface {
	ManagerStats(ctx context.Context, managerID int64) (*models.ManagerStats, error)
	InfluencerStats(ctx context.Context, influencerID int64) (*models.InfluencerStats, error)
}

type statsRepository struct{}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository() StatsRepository {
	return &statsRepository{}
}

// ManagerStats counts the manager's projects by status, their influencers, and
// active projects waiting in each workflow stage.
func (r *statsRepository) ManagerStats(ctx context.Context, managerID int64) (*models.ManagerStats, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'active' AND workflow_stage = 'scenario'),
			COUNT(*) FILTER (WHERE status = 'active' AND workflow_stage = 'material'),
			COUNT(*) FILTER (WHERE status = 'active' AND workflow_stage = 'publication'),
			(SELECT COUNT(*) FROM influencers WHERE manager_id = $1)
		FROM projects
		WHERE manager_id = $1`

	var stats models.ManagerStats
	err = q.QueryRow(ctx, query, managerID).Scan(
		&stats.ActiveProjects,
		&stats.CompletedProjects,
		&stats.PendingReviewsDetails.Scenario,
		&stats.PendingReviewsDetails.Material,
		&stats.PendingReviewsDetails.Publication,
		&stats.InfluencersCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute manager stats: %w", err)
	}
	stats.PendingReviews = stats.PendingReviewsDetails.Total()
	return &stats, nil
}

// InfluencerStats counts the projects an influencer is assigned to and the
// assignments with a stage still waiting on the influencer.
func (r *statsRepository) InfluencerStats(ctx context.Context, influencerID int64) (*models.InfluencerStats, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE p.status = 'active'),
			COUNT(*) FILTER (WHERE p.status = 'completed'),
			COUNT(*) FILTER (WHERE pi.scenario_status IN ('pending', 'rejected')
			                    OR pi.material_status IN ('pending', 'rejected')
			                    OR pi.publication_status = 'pending')
		FROM project_influencers pi
		JOIN projects p ON p.id = pi.project_id
		WHERE pi.influencer_id = $1`

	var stats models.InfluencerStats
	err = q.QueryRow(ctx, query, influencerID).Scan(
		&stats.ActiveProjects,
		&stats.CompletedProjects,
		&stats.NeedsAction,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute influencer stats: %w", err)
	}
	return &stats, nil
}

var _ StatsRepository = (*statsRepository)(nil)
