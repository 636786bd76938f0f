package models

import "time"

// Comment is a note on a project. Comments are never edited, only deleted.
type Comment struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentInput holds the fields of a new comment.
type CommentInput struct {
	ProjectID int64  `json:"project_id"`
	UserID    int64  `json:"user_id"`
	Content   string `json:"content"`
}
