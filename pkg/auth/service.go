package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ekaya-inc/campaign-engine/pkg/apperrors"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
	"github.com/ekaya-inc/campaign-engine/pkg/repositories"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
)

const (
	msgBadCredentials    = "Incorrect username or password"
	msgInvalidCredential = "Could not validate credentials"
)

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService defines the interface for authentication operations.
type AuthService interface {
	// Register creates a user. Influencer accounts also get their profile row
	// in the same transaction and must name an existing manager.
	Register(ctx context.Context, reg *models.Registration) (*models.User, error)

	// Login verifies credentials and issues a bearer token. Every failure
	// yields the same Unauthorized message.
	Login(ctx context.Context, username, password string) (*Token, error)

	// Resolve verifies token and loads the user named by its subject.
	Resolve(ctx context.Context, token string) (*models.User, error)

	// ValidateRequest extracts the token from the request and resolves it.
	// It checks for the token in:
	//   1. The session cookie (browser clients)
	//   2. Authorization header with "Bearer" scheme (API clients)
	ValidateRequest(r *http.Request) (*models.User, *Claims, string, error)
}

type authService struct {
	tokens      *TokenIssuer
	sessions    *SessionStore
	users       repositories.UserRepository
	influencers repositories.InfluencerRepository
	tx          database.Transactor
	cost        int
	logger      *zap.Logger

	// dummyHash is compared against on unknown usernames so both failure
	// paths spend the same time in bcrypt.
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	tokens *TokenIssuer,
	sessions *SessionStore,
	users repositories.UserRepository,
	influencers repositories.InfluencerRepository,
	tx database.Transactor,
	logger *zap.Logger,
) AuthService {
	return newAuthService(tokens, sessions, users, influencers, tx, bcrypt.DefaultCost, logger)
}

func newAuthService(
	tokens *TokenIssuer,
	sessions *SessionStore,
	users repositories.UserRepository,
	influencers repositories.InfluencerRepository,
	tx database.Transactor,
	cost int,
	logger *zap.Logger,
) *authService {
	dummy, _ := HashPassword("campaign-engine-dummy", cost)
	return &authService{
		tokens:      tokens,
		sessions:    sessions,
		users:       users,
		influencers: influencers,
		tx:          tx,
		cost:        cost,
		logger:      logger.Named("auth"),
		dummyHash:   dummy,
	}
}

func (s *authService) Register(ctx context.Context, reg *models.Registration) (*models.User, error) {
	if err := validateRegistration(reg); err != nil {
		return nil, err
	}

	hash, err := HashPassword(reg.Password, s.cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     reg.Username,
		PasswordHash: hash,
		Name:         reg.Name,
		Email:        reg.Email,
		Role:         reg.Role,
		ProfileImage: reg.ProfileImage,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByUsername(ctx, reg.Username); err == nil {
			return apperrors.Conflict("Username already registered")
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		var managerID int64
		if reg.Role == models.RoleInfluencer {
			manager, err := s.users.GetByID(ctx, *reg.ManagerID)
			if err != nil || !manager.IsManager() {
				if err == nil || errors.Is(err, apperrors.ErrNotFound) {
					return apperrors.NotFound("Manager")
				}
				return err
			}
			managerID = manager.ID
		}

		if err := s.users.Create(ctx, user); err != nil {
			return err
		}

		if reg.Role != models.RoleInfluencer {
			return nil
		}

		nickname := reg.Username
		if reg.Nickname != nil && *reg.Nickname != "" {
			nickname = *reg.Nickname
		}
		return s.influencers.Create(ctx, &models.Influencer{
			UserID:    user.ID,
			ManagerID: managerID,
			Nickname:  nickname,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Registered user",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role))
	return user, nil
}

func validateRegistration(reg *models.Registration) error {
	switch {
	case strings.TrimSpace(reg.Username) == "":
		return apperrors.Validation("username is required")
	case reg.Password == "":
		return apperrors.Validation("password is required")
	case strings.TrimSpace(reg.Name) == "":
		return apperrors.Validation("name is required")
	case !models.IsValidRole(reg.Role):
		return apperrors.Validation("role must be one of %s", strings.Join(models.ValidRoles, ", "))
	case reg.Role == models.RoleInfluencer && reg.ManagerID == nil:
		return apperrors.Validation("manager_id is required for influencer accounts")
	}
	return nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*Token, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		CheckPassword(s.dummyHash, password)
		s.logger.Debug("Login failed: unknown user")
		return nil, apperrors.Unauthorized(msgBadCredentials)
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.logger.Debug("Login failed: wrong password", zap.Int64("user_id", user.ID))
		return nil, apperrors.Unauthorized(msgBadCredentials)
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *authService) Resolve(ctx context.Context, token string) (*models.User, error) {
	user, _, err := s.resolve(ctx, token)
	return user, err
}

func (s *authService) resolve(ctx context.Context, token string) (*models.User, *Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Debug("Token validation failed", zap.Error(err))
		return nil, nil, apperrors.Unauthorized(msgInvalidCredential)
	}

	user, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized(msgInvalidCredential)
		}
		return nil, nil, err
	}
	return user, claims, nil
}

func (s *authService) ValidateRequest(r *http.Request) (*models.User, *Claims, string, error) {
	var tokenString string
	var tokenSource string

	if token, ok := s.sessionToken(r); ok {
		tokenString = token
		tokenSource = "cookie"
	} else {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.logger.Debug("No token found in request",
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method))
			return nil, nil, "", ErrMissingAuthorization
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			s.logger.Debug("Invalid Authorization header format",
				zap.String("path", r.URL.Path))
			return nil, nil, "", ErrInvalidAuthFormat
		}
		tokenString = parts[1]
		tokenSource = "header"
	}

	user, claims, err := s.resolve(r.Context(), tokenString)
	if err != nil {
		s.logger.Debug("Token rejected",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("token_source", tokenSource))
		return nil, nil, "", err
	}
	return user, claims, tokenString, nil
}

func (s *authService) sessionToken(r *http.Request) (string, bool) {
	if s.sessions == nil {
		return "", false
	}
	return s.sessions.Token(r)
}

// Ensure authService implements AuthService at compile time.
var _ AuthService = (*authService)(nil)
