package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListProvidersRequest contains query parameters for listing providers
type ListProvidersRequest struct {
	Page int `form:"page"`
}

// ProviderResponse is the public projection of a provider account.
// The password hash never leaves the repository layer.
type ProviderResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
