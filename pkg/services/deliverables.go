package services

import (
	"context"
	"time"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
)

// refChecker validates the project and influencer a deliverable points at.
type refChecker struct {
	projects    repositories.ProjectRepository
	influencers repositories.InfluencerRepository
}

// check returns NotFound naming the first missing reference, project first.
func (c refChecker) check(ctx context.Context, projectID, influencerID int64) error {
	if _, err := c.projects.Get(ctx, projectID); err != nil {
		return err
	}
	if _, err := c.influencers.Get(ctx, influencerID); err != nil {
		return err
	}
	return nil
}

// belongsTo rejects a deliverable reached through another project's URL.
func belongsTo(entity string, ownerID, projectID int64) error {
	if ownerID != projectID {
		return apperrors.NotFound(entity)
	}
	return nil
}

// activityMode selects whether a deliverable mutation is written to the
// activity log. Project-scoped endpoints record; direct endpoints do not.
type activityMode bool

const (
	recordActivity activityMode = true
	skipActivity   activityMode = false
)

func timePtr(t time.Time) *time.Time {
	return &t
}
