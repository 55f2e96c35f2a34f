package service

import (
	"context"

	"agenda_backend/internal/users/repository"
	"agenda_backend/internal/users/transport"

	"github.com/google/uuid"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// Repository defines the data access contract for the users service
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repository.User, error)
	GetContact(ctx context.Context, id uuid.UUID) (*repository.Contact, error)
	IsProvider(ctx context.Context, id uuid.UUID) (bool, error)
	ListProviders(ctx context.Context, page, pageSize int) ([]repository.User, error)
}

// Service implements users business logic
type Service struct {
	repo Repository
}

// New creates a new users service
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// IsProvider reports whether the user exists and is a provider.
func (s *Service) IsProvider(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.IsProvider(ctx, id)
}

// GetContact returns the name and email for a user.
func (s *Service) GetContact(ctx context.Context, id uuid.UUID) (*repository.Contact, error) {
	return s.repo.GetContact(ctx, id)
}

// ListProviders returns the provider directory for the booking screen.
func (s *Service) ListProviders(ctx context.Context, req transport.ListProvidersRequest) ([]transport.ProviderResponse, error) {
	page := req.Page
	if page < 1 {
		page = defaultPage
	}

	users, err := s.repo.ListProviders(ctx, page, defaultPageSize)
	if err != nil {
		return nil, err
	}

	items := make([]transport.ProviderResponse, 0, len(users))
	for _, u := range users {
		items = append(items, transport.ProviderResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			AvatarURL: u.AvatarURL,
			CreatedAt: u.CreatedAt,
		})
	}

	return items, nil
}
