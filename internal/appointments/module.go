// Package appointments provides the appointment booking domain module.
package appointments

import (
	"agenda_backend/internal/appointments/handler"
	"agenda_backend/internal/appointments/repository"
	"agenda_backend/internal/appointments/service"
	"agenda_backend/internal/clock"
	"agenda_backend/internal/events"
	apphttp "agenda_backend/internal/http"
	"agenda_backend/internal/scheduler"
	"agenda_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the appointments domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new appointments module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator, providers service.ProviderDirectory, bus events.Bus, reminders scheduler.ReminderScheduler, clk clock.Clock) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, providers, bus, reminders, clk)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "appointments"
}

// RegisterRoutes registers the module's routes under /api/v1/appointments
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	appointments := ctx.Protected.Group("/appointments")
	m.handler.RegisterRoutes(appointments)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
