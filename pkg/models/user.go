// Package models contains domain types for campaign-engine.
package models

import "time"

// User is an account holder. Role decides whether the user manages projects
// or takes part in them through a linked Influencer profile.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Email        *string   `json:"email,omitempty"`
	Role         string    `json:"role"`
	ProfileImage *string   `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

// Role constants for users.
const (
	RoleManager    = "manager"
	RoleInfluencer = "influencer"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleManager, RoleInfluencer}

// IsValidRole checks if the given role is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}

// Registration is the input to account creation.
// ManagerID is required when Role is influencer.
type Registration struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	Role         string  `json:"role"`
	ProfileImage *string `json:"profile_image,omitempty"`
	ManagerID    *int64  `json:"manager_id,omitempty"`
	Nickname     *string `json:"nickname,omitempty"`
}
