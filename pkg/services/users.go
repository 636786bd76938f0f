package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
)

// UserService reads user accounts. Accounts are created through registration.
type UserService interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service with dependencies.
func NewUserService(userRepo repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.Named("users"),
	}
}

var _ UserService = (*userService)(nil)

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]*models.User, error) {
	return s.userRepo.List(ctx, offset, limit)
}
