package repositories

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// InfluencerRepository defines the interface for influencer data access.
type InfluencerRepository interface {
	Create(ctx context.Context, inf *models.Influencer) error
	Get(ctx context.Context, id int64) (*models.Influencer, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Influencer, error)
	// List returns influencers in insertion order. A non-nil managerID limits
	// the result to that manager's influencers.
	List(ctx context.Context, managerID *int64, offset, limit int) ([]*models.Influencer, error)
	Update(ctx context.Context, inf *models.Influencer) error
	Delete(ctx context.Context, id int64) error
}

type influencerRepository struct{}

// NewInfluencerRepository creates a new influencer repository.
func NewInfluencerRepository() InfluencerRepository {
	return &influencerRepository{}
}

const influencerColumns = `id, user_id, manager_id, nickname, bio,
	instagram_handle, instagram_followers, tiktok_handle, tiktok_followers,
	youtube_handle, youtube_followers, telegram_handle, telegram_followers,
	vk_handle, vk_followers`

func scanInfluencer(row rowScanner) (*models.Influencer, error) {
	var inf models.Influencer
	if err := row.Scan(
		&inf.ID,
		&inf.UserID,
		&inf.ManagerID,
		&inf.Nickname,
		&inf.Bio,
		&inf.InstagramHandle,
		&inf.InstagramFollowers,
		&inf.TiktokHandle,
		&inf.TiktokFollowers,
		&inf.YoutubeHandle,
		&inf.YoutubeFollowers,
		&inf.TelegramHandle,
		&inf.TelegramFollowers,
		&inf.VKHandle,
		&inf.VKFollowers,
	); err != nil {
		return nil, err
	}
	return &inf, nil
}

func (r *influencerRepository) Create(ctx context.Context, inf *models.Influencer) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO influencers (user_id, manager_id, nickname, bio,
			instagram_handle, instagram_followers, tiktok_handle, tiktok_followers,
			youtube_handle, youtube_followers, telegram_handle, telegram_followers,
			vk_handle, vk_followers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	err = q.QueryRow(ctx, query,
		inf.UserID,
		inf.ManagerID,
		inf.Nickname,
		inf.Bio,
		inf.InstagramHandle,
		inf.InstagramFollowers,
		inf.TiktokHandle,
		inf.TiktokFollowers,
		inf.YoutubeHandle,
		inf.YoutubeFollowers,
		inf.TelegramHandle,
		inf.TelegramFollowers,
		inf.VKHandle,
		inf.VKFollowers,
	).Scan(&inf.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("User already has an influencer profile")
		}
		return fmt.Errorf("failed to create influencer: %w", err)
	}
	return nil
}

func (r *influencerRepository) Get(ctx context.Context, id int64) (*models.Influencer, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	inf, err := scanInfluencer(q.QueryRow(ctx, `SELECT `+influencerColumns+` FROM influencers WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("Influencer")
		}
		return nil, fmt.Errorf("failed to get influencer: %w", err)
	}
	return inf, nil
}

func (r *influencerRepository) GetByUserID(ctx context.Context, userID int64) (*models.Influencer, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	inf, err := scanInfluencer(q.QueryRow(ctx, `SELECT `+influencerColumns+` FROM influencers WHERE user_id = $1`, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("Influencer")
		}
		return nil, fmt.Errorf("failed to get influencer by user: %w", err)
	}
	return inf, nil
}

func (r *influencerRepository) List(ctx context.Context, managerID *int64, offset, limit int) ([]*models.Influencer, error) {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + influencerColumns + `
		FROM influencers
		WHERE ($1::bigint IS NULL OR manager_id = $1)
		ORDER BY id
		OFFSET $2 LIMIT $3`

	rows, err := q.Query(ctx, query, managerID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list influencers: %w", err)
	}
	return collect(rows, scanInfluencer)
}

func (r *influencerRepository) Update(ctx context.Context, inf *models.Influencer) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE influencers
		SET user_id = $2, manager_id = $3, nickname = $4, bio = $5,
		    instagram_handle = $6, instagram_followers = $7,
		    tiktok_handle = $8, tiktok_followers = $9,
		    youtube_handle = $10, youtube_followers = $11,
		    telegram_handle = $12, telegram_followers = $13,
		    vk_handle = $14, vk_followers = $15
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		inf.ID,
		inf.UserID,
		inf.ManagerID,
		inf.Nickname,
		inf.Bio,
		inf.InstagramHandle,
		inf.InstagramFollowers,
		inf.TiktokHandle,
		inf.TiktokFollowers,
		inf.YoutubeHandle,
		inf.YoutubeFollowers,
		inf.TelegramHandle,
		inf.TelegramFollowers,
		inf.VKHandle,
		inf.VKFollowers,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("User already has an influencer profile")
		}
		return fmt.Errorf("failed to update influencer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Influencer")
	}
	return nil
}

func (r *influencerRepository) Delete(ctx context.Context, id int64) error {
	q, err := database.GetQuerier(ctx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `DELETE FROM influencers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete influencer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Influencer")
	}
	return nil
}

var _ InfluencerRepository = (*influencerRepository)(nil)
