// Package notifications provides in-app notifications for providers and
// the event handlers that react to appointment lifecycle events.
// It subscribes to the event bus so the appointments module never needs
// to know about notification storage or email templates.
package notifications

import (
	"context"

	"agenda_backend/internal/clock"
	"agenda_backend/internal/email"
	"agenda_backend/internal/events"
	apphttp "agenda_backend/internal/http"
	"agenda_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the notifications domain module
type Module struct {
	service *Service
	handler *HTTPHandler
	sender  email.Sender
	log     *logger.Logger
}

// NewModule creates a new notifications module with all dependencies wired
func NewModule(pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, log)

	return &Module{
		service: svc,
		handler: NewHTTPHandler(svc),
		sender:  sender,
		log:     log,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string { return "notifications" }

// RegisterRoutes registers the module's routes under /api/v1/notifications
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	notifications := ctx.Protected.Group("/notifications")
	m.handler.RegisterRoutes(notifications)
}

// RegisterHandlers subscribes the module to appointment lifecycle events.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.AppointmentBooked{}.EventName(), m)
	bus.Subscribe(events.AppointmentCanceled{}.EventName(), m)

	m.log.Info("notifications module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.AppointmentBooked:
		return m.service.NotifyBooked(ctx, e)
	case events.AppointmentCanceled:
		return m.handleAppointmentCanceled(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

// handleAppointmentCanceled emails the provider about the cancellation.
// The cancellation is already committed, so a failed send is logged and
// surfaced to the bus but never affects the appointment state.
func (m *Module) handleAppointmentCanceled(ctx context.Context, e events.AppointmentCanceled) error {
	err := m.sender.SendCancellationEmail(ctx,
		e.ProviderEmail, e.ProviderName, e.ClientName,
		clock.FormatSlot(e.Date))
	if err != nil {
		m.log.MailError("cancellation", e.ProviderEmail, err)
		return err
	}

	return nil
}

// Compile-time checks
var (
	_ apphttp.Module = (*Module)(nil)
	_ events.Handler = (*Module)(nil)
)
