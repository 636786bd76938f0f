package models

// PendingReviews counts active projects waiting in each workflow stage.
type PendingReviews struct {
	Scenario    int `json:"scenario"`
	Material    int `json:"material"`
	Publication int `json:"publication"`
}

// Total returns the number of pending reviews across all stages.
func (p PendingReviews) Total() int {
	return p.Scenario + p.Material + p.Publication
}

// ManagerStats is the dashboard summary for a manager.
type ManagerStats struct {
	ActiveProjects        int            `json:"active_projects"`
	CompletedProjects     int            `json:"completed_projects"`
	InfluencersCount      int            `json:"influencers_count"`
	PendingReviews        int            `json:"pending_reviews"`
	PendingReviewsDetails PendingReviews `json:"pending_reviews_details"`
}

// InfluencerStats is the dashboard summary for an influencer.
type InfluencerStats struct {
	ActiveProjects    int `json:"active_projects"`
	CompletedProjects int `json:"completed_projects"`
	NeedsAction       int `json:"needs_action"`
}
