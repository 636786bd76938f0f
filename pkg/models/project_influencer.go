package models

import "time"

// ProjectInfluencer records an influencer's participation in a project and
// their progress through each stage.
type ProjectInfluencer struct {
	ID                     int64      `json:"id"`
	ProjectID              int64      `json:"project_id"`
	InfluencerID           int64      `json:"influencer_id"`
	ScenarioStatus         *string    `json:"scenario_status"`
	MaterialStatus         *string    `json:"material_status"`
	PublicationStatus      *string    `json:"publication_status"`
	ScenarioCompletedAt    *time.Time `json:"scenario_completed_at"`
	MaterialCompletedAt    *time.Time `json:"material_completed_at"`
	PublicationCompletedAt *time.Time `json:"publication_completed_at"`
}

// StageProgress updates the per-stage statuses of an assignment. Nil fields are left untouched.
type StageProgress struct {
	ScenarioStatus    *string `json:"scenario_status,omitempty"`
	MaterialStatus    *string `json:"material_status,omitempty"`
	PublicationStatus *string `json:"publication_status,omitempty"`
}

// Apply merges the progress into pi, stamping the completion time of any stage
// that reaches a finished status.
func (sp *StageProgress) Apply(pi *ProjectInfluencer, now time.Time) {
	applyStage(&pi.ScenarioStatus, &pi.ScenarioCompletedAt, sp.ScenarioStatus, now)
	applyStage(&pi.MaterialStatus, &pi.MaterialCompletedAt, sp.MaterialStatus, now)
	applyStage(&pi.PublicationStatus, &pi.PublicationCompletedAt, sp.PublicationStatus, now)
}

func applyStage(status **string, completedAt **time.Time, next *string, now time.Time) {
	if next == nil {
		return
	}
	setString(status, next)
	if IsFinishedStatus(*next) && *completedAt == nil {
		t := now
		*completedAt = &t
	}
}
