package models

import (
	"strings"
	"time"
)

// Deliverable status values used across scenarios, materials and publications.
// Status is free-form; these are the values the engine reacts to.
const (
	StatusPending   = "pending"
	StatusInReview  = "in_review"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
	StatusPublished = "published"
	StatusVerified  = "verified"
)

// IsFinishedStatus reports whether a stage status marks the stage as done.
func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusApproved, StatusCompleted, StatusVerified:
		return true
	}
	return false
}

// NormalizeStatus lowercases a status and joins words with underscores so it
// can be embedded in an activity type.
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

// Scenario is an influencer's script for a project. Version starts at 1 and
// is bumped by the server whenever the content is resubmitted.
type Scenario struct {
	ID           int64      `json:"id"`
	ProjectID    int64      `json:"project_id"`
	InfluencerID int64      `json:"influencer_id"`
	Content      string     `json:"content"`
	GoogleDocURL *string    `json:"google_doc_url"`
	Status       string     `json:"status"`
	SubmittedAt  *time.Time `json:"submitted_at"`
	ApprovedAt   *time.Time `json:"approved_at"`
	Deadline     *time.Time `json:"deadline"`
	Version      int        `json:"version"`
}

// ScenarioInput holds the client-writable scenario fields.
type ScenarioInput struct {
	ProjectID    int64      `json:"project_id"`
	InfluencerID int64      `json:"influencer_id"`
	Content      string     `json:"content"`
	GoogleDocURL *string    `json:"google_doc_url"`
	Status       string     `json:"status"`
	Deadline     *time.Time `json:"deadline"`
}

// Material is a piece of produced content submitted for review.
type Material struct {
	ID             int64      `json:"id"`
	ProjectID      int64      `json:"project_id"`
	InfluencerID   int64      `json:"influencer_id"`
	MaterialURL    string     `json:"material_url"`
	GoogleDriveURL *string    `json:"google_drive_url"`
	Description    *string    `json:"description"`
	Status         string     `json:"status"`
	SubmittedAt    *time.Time `json:"submitted_at"`
	ApprovedAt     *time.Time `json:"approved_at"`
	Deadline       *time.Time `json:"deadline"`
}

// MaterialInput holds the client-writable material fields.
type MaterialInput struct {
	ProjectID      int64      `json:"project_id"`
	InfluencerID   int64      `json:"influencer_id"`
	MaterialURL    string     `json:"material_url"`
	GoogleDriveURL *string    `json:"google_drive_url"`
	Description    *string    `json:"description"`
	Status         string     `json:"status"`
	Deadline       *time.Time `json:"deadline"`
}

// Publication is a published post on one platform.
type Publication struct {
	ID             int64      `json:"id"`
	ProjectID      int64      `json:"project_id"`
	InfluencerID   int64      `json:"influencer_id"`
	Platform       string     `json:"platform"`
	PublicationURL string     `json:"publication_url"`
	Content        *string    `json:"content"`
	PublishedAt    time.Time  `json:"published_at"`
	Status         string     `json:"status"`
	VerifiedAt     *time.Time `json:"verified_at"`
}

// PublicationInput holds the client-writable publication fields.
// PublishedAt defaults to the creation time when omitted.
type PublicationInput struct {
	ProjectID      int64      `json:"project_id"`
	InfluencerID   int64      `json:"influencer_id"`
	Platform       string     `json:"platform"`
	PublicationURL string     `json:"publication_url"`
	Content        *string    `json:"content"`
	PublishedAt    *time.Time `json:"published_at"`
	Status         string     `json:"status"`
}
