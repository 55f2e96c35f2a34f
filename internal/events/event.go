// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"agenda_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus is re-exported so composition roots only import this package.
var NewInMemoryBus = events.NewInMemoryBus

// =============================================================================
// Appointments Domain Events
// =============================================================================

// AppointmentBooked is published after an appointment row is committed.
// The notification module turns it into an in-app notice for the provider.
type AppointmentBooked struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	ClientID      uuid.UUID `json:"clientId"`
	ClientName    string    `json:"clientName"`
	ProviderID    uuid.UUID `json:"providerId"`
	Date          time.Time `json:"date"`
	Slot          time.Time `json:"slot"`
}

func (e AppointmentBooked) EventName() string { return "appointments.booked" }

// AppointmentCanceled is published after a cancellation is committed.
// The notification module sends the provider a cancellation email; the
// state change is already durable, so handler failures never roll it back.
type AppointmentCanceled struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	ClientName    string    `json:"clientName"`
	ProviderName  string    `json:"providerName"`
	ProviderEmail string    `json:"providerEmail"`
	Date          time.Time `json:"date"`
	CanceledAt    time.Time `json:"canceledAt"`
}

func (e AppointmentCanceled) EventName() string { return "appointments.canceled" }
