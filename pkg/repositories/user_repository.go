package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, error)
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct{}

// NewUserRepository creates a new user repository.
func NewUserRepository() UserRepository {
	return &userRepository{}
}

const userColumns = `id, username, password_hash, name, email, role, profile_image, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.ProfileImage,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. A taken username yields a Conflict.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (username, password_hash, name, email, role, profile_image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err = q.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Name,
		user.Email,
		user.Role,
		user.ProfileImage,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("Username already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	user, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("User")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	user, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("User")
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// List returns a page of users in insertion order.
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*models.User, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return collect(rows, scanUser)
}

var _ UserRepository = (*userRepository)(nil)
