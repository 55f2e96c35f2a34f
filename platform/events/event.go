// Package events carries domain events between modules over an
// in-process bus, keeping the producing and consuming modules decoupled.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event published on the bus.
type Event interface {
	// EventName identifies the event type. Subscriptions match on it.
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the occurrence timestamp. Domain events embed it
// and only add their EventName plus payload fields.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes the events it subscribed to.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus dispatches published events to their subscribers.
type Bus interface {
	// Publish dispatches the event without waiting for its handlers.
	Publish(ctx context.Context, event Event)

	// PublishSync dispatches the event, waits for every handler, and
	// returns the first handler error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for events whose EventName matches.
	Subscribe(eventName string, handler Handler)
}
