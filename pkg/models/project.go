package models

import "time"

// Project lifecycle status. Set directly by the caller, never derived.
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
)

// Workflow stages in pipeline order.
const (
	StageScenario    = "scenario"
	StageMaterial    = "material"
	StagePublication = "publication"
)

// WorkflowStages lists the stages in the order a project moves through them.
var WorkflowStages = []string{StageScenario, StageMaterial, StagePublication}

// ProjectStatuses lists the valid project status values.
var ProjectStatuses = []string{ProjectStatusDraft, ProjectStatusActive, ProjectStatusCompleted}

// IsValidStage checks if the given workflow stage is valid.
func IsValidStage(stage string) bool {
	return StageIndex(stage) >= 0
}

// StageIndex returns the position of stage in WorkflowStages, or -1.
func StageIndex(stage string) int {
	for i, s := range WorkflowStages {
		if s == stage {
			return i
		}
	}
	return -1
}

// IsValidProjectStatus checks if the given project status is valid.
func IsValidProjectStatus(status string) bool {
	for _, s := range ProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// TechnicalLink is a titled reference attached to a project brief.
type TechnicalLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Project is a campaign run by a manager.
type Project struct {
	ID                  int64           `json:"id"`
	Title               string          `json:"title"`
	Client              string          `json:"client"`
	Description         *string         `json:"description"`
	KeyRequirements     []string        `json:"key_requirements"`
	Budget              *int64          `json:"budget"`
	Erid                *string         `json:"erid"`
	StartDate           time.Time       `json:"start_date"`
	Deadline            *time.Time      `json:"deadline"`
	ScenarioDeadline    *time.Time      `json:"scenario_deadline"`
	MaterialDeadline    *time.Time      `json:"material_deadline"`
	PublicationDeadline *time.Time      `json:"publication_deadline"`
	Status              string          `json:"status"`
	WorkflowStage       string          `json:"workflow_stage"`
	ManagerID           int64           `json:"manager_id"`
	TechnicalLinks      []TechnicalLink `json:"technical_links"`
	Platforms           []string        `json:"platforms"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ProjectInput holds the client-writable project fields.
// An update replaces every one of them.
type ProjectInput struct {
	Title               string          `json:"title"`
	Client              string          `json:"client"`
	Description         *string         `json:"description"`
	KeyRequirements     []string        `json:"key_requirements"`
	Budget              *int64          `json:"budget"`
	Erid                *string         `json:"erid"`
	Deadline            *time.Time      `json:"deadline"`
	ScenarioDeadline    *time.Time      `json:"scenario_deadline"`
	MaterialDeadline    *time.Time      `json:"material_deadline"`
	PublicationDeadline *time.Time      `json:"publication_deadline"`
	Status              string          `json:"status"`
	WorkflowStage       string          `json:"workflow_stage"`
	ManagerID           int64           `json:"manager_id"`
	TechnicalLinks      []TechnicalLink `json:"technical_links"`
	Platforms           []string        `json:"platforms"`
}

// ApplyTo copies the input onto p, leaving server-controlled fields and the
// workflow stage alone. Stage changes go through the workflow engine.
func (in *ProjectInput) ApplyTo(p *Project) {
	p.Title = in.Title
	p.Client = in.Client
	p.Description = in.Description
	p.KeyRequirements = nonNil(in.KeyRequirements)
	p.Budget = in.Budget
	p.Erid = in.Erid
	p.Deadline = in.Deadline
	p.ScenarioDeadline = in.ScenarioDeadline
	p.MaterialDeadline = in.MaterialDeadline
	p.PublicationDeadline = in.PublicationDeadline
	if in.Status != "" {
		p.Status = in.Status
	}
	p.ManagerID = in.ManagerID
	p.TechnicalLinks = in.TechnicalLinks
	if p.TechnicalLinks == nil {
		p.TechnicalLinks = []TechnicalLink{}
	}
	p.Platforms = nonNil(in.Platforms)
}

// ProjectFilter narrows a project listing.
type ProjectFilter struct {
	ManagerID *int64
	Status    string
	Search    string
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
