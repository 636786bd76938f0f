package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/auth"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
)

// CommentService manages project comments. Comments cannot be edited.
type CommentService interface {
	// Create checks the project, then the user, before inserting.
	Create(ctx context.Context, in *models.CommentInput) (*models.Comment, error)
	Get(ctx context.Context, id int64) (*models.Comment, error)
	List(ctx context.Context, offset, limit int) ([]*models.Comment, error)
	Delete(ctx context.Context, id int64) error

	ListForProject(ctx context.Context, projectID int64) ([]*models.Comment, error)
	// CreateForProject posts a comment authored by the caller.
	CreateForProject(ctx context.Context, projectID int64, content string) (*models.Comment, error)
}

type commentService struct {
	repo     repositories.CommentRepository
	projects repositories.ProjectRepository
	users    repositories.UserRepository
	tx       database.Transactor
	logger   *zap.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	repo repositories.CommentRepository,
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	tx database.Transactor,
	logger *zap.Logger,
) CommentService {
	return &commentService{
		repo:     repo,
		projects: projects,
		users:    users,
		tx:       tx,
		logger:   logger.Named("comments"),
	}
}

var _ CommentService = (*commentService)(nil)

func (s *commentService) Create(ctx context.Context, in *models.CommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperrors.Validation("content is required")
	}

	var created *models.Comment
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.projects.Get(ctx, in.ProjectID); err != nil {
			return err
		}
		if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
			return err
		}
		created = &models.Comment{
			ProjectID: in.ProjectID,
			UserID:    in.UserID,
			Content:   in.Content,
		}
		return s.repo.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *commentService) CreateForProject(ctx context.Context, projectID int64, content string) (*models.Comment, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, apperrors.Unauthorized("Could not validate credentials")
	}
	return s.Create(ctx, &models.CommentInput{
		ProjectID: projectID,
		UserID:    user.ID,
		Content:   content,
	})
}

func (s *commentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	return s.repo.Get(ctx, id)
}

func (s *commentService) List(ctx context.Context, offset, limit int) ([]*models.Comment, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *commentService) ListForProject(ctx context.Context, projectID int64) ([]*models.Comment, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

func (s *commentService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
