package models

import "time"

// Activity is an append-only record of one state change on a project.
// UserID is nil once the acting user has been deleted.
type Activity struct {
	ID           int64     `json:"id"`
	ProjectID    int64     `json:"project_id"`
	UserID       *int64    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActivityInput holds the fields of a manually recorded activity.
type ActivityInput struct {
	ProjectID    int64  `json:"project_id"`
	UserID       int64  `json:"user_id"`
	ActivityType string `json:"activity_type"`
	Description  string `json:"description"`
}

// Activity types emitted by the engine. Status-driven types are built with
// StatusActivityType.
const (
	ActivityProjectCreated       = "project_created"
	ActivityProjectUpdated       = "project_updated"
	ActivityProjectStatusChanged = "project_status_changed"
	ActivityProjectDeleted       = "project_deleted"
	ActivityScenarioCreated      = "scenario_created"
	ActivityScenarioDeleted      = "scenario_deleted"
	ActivityMaterialSubmitted    = "material_submitted"
	ActivityMaterialDeleted      = "material_deleted"
	ActivityPublicationCreated   = "publication_created"
	ActivityPublicationUpdated   = "publication_status_updated"
	ActivityPublicationDeleted   = "publication_deleted"
	ActivityInfluencerAssigned   = "influencer_assigned"
	activityWorkflowPrefix       = "workflow_to_"
)

// WorkflowActivityType returns the activity type for a move to stage.
func WorkflowActivityType(stage string) string {
	return activityWorkflowPrefix + stage
}

// StatusActivityType returns "<entity>_<status>", e.g. scenario_approved.
func StatusActivityType(entity, status string) string {
	return entity + "_" + NormalizeStatus(status)
}
