package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateAppointmentRequest is the request body for booking an appointment.
// Date carries the client's requested instant; the service normalizes it
// to the start of the hour before any availability check.
type CreateAppointmentRequest struct {
	ProviderID uuid.UUID `json:"providerId" validate:"required"`
	Date       time.Time `json:"date" validate:"required"`
}

// ListAppointmentsRequest contains query parameters for the client's
// active appointment list.
type ListAppointmentsRequest struct {
	Page int `form:"page"`
}

// ScheduleRequest contains query parameters for a provider's day schedule.
type ScheduleRequest struct {
	Date string `form:"date" validate:"required,datetime=2006-01-02"`
}

// ProviderInfo is the provider projection embedded in appointment responses.
type ProviderInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
}

// ClientInfo is the client projection embedded in schedule responses.
type ClientInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
}

// AppointmentResponse is the API representation of an appointment.
type AppointmentResponse struct {
	ID         uuid.UUID     `json:"id"`
	ProviderID uuid.UUID     `json:"providerId"`
	ClientID   uuid.UUID     `json:"clientId"`
	Date       time.Time     `json:"date"`
	Slot       time.Time     `json:"slot"`
	CanceledAt *time.Time    `json:"canceledAt,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	Provider   *ProviderInfo `json:"provider,omitempty"`
	Client     *ClientInfo   `json:"client,omitempty"`
}
