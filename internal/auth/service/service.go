package service

import (
	"context"
	"time"

	"agenda_backend/internal/auth/password"
	"agenda_backend/internal/auth/repository"
	"agenda_backend/internal/auth/transport"
	"agenda_backend/platform/apperr"
	"agenda_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const accessTokenType = "access"

const invalidCredentialsMsg = "invalid email or password"

// Repository defines the data access contract for the auth service
type Repository interface {
	CreateUser(ctx context.Context, name, email, passwordHash string, isProvider bool, avatarURL *string) (*repository.User, error)
	GetUserByEmail(ctx context.Context, email string) (*repository.User, error)
}

// Service implements authentication business logic
type Service struct {
	repo Repository
	cfg  config.AuthServiceConfig
}

// New creates a new auth service
func New(repo Repository, cfg config.AuthServiceConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// SignUp creates an account and signs the new user in.
func (s *Service) SignUp(ctx context.Context, req transport.SignUpRequest) (*transport.AuthResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, req.Name, req.Email, hash, req.IsProvider, req.AvatarURL)
	if err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

// SignIn verifies credentials and issues an access token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, req transport.SignInRequest) (*transport.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Unauthorized(invalidCredentialsMsg)
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperr.Unauthorized(invalidCredentialsMsg)
	}

	return s.buildAuthResponse(user)
}

func (s *Service) buildAuthResponse(user *repository.User) (*transport.AuthResponse, error) {
	accessToken, err := s.signJWT(user.ID, user.IsProvider, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return nil, err
	}

	return &transport.AuthResponse{
		AccessToken: accessToken,
		User: transport.UserResponse{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			IsProvider: user.IsProvider,
			AvatarURL:  user.AvatarURL,
			CreatedAt:  user.CreatedAt,
		},
	}, nil
}

func (s *Service) signJWT(userID uuid.UUID, isProvider bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID.String(),
		"type":     accessTokenType,
		"provider": isProvider,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
