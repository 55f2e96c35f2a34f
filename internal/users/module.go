// Package users provides the user accounts and provider directory module.
package users

import (
	apphttp "agenda_backend/internal/http"
	"agenda_backend/internal/users/handler"
	"agenda_backend/internal/users/repository"
	"agenda_backend/internal/users/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the users domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new users module with all dependencies wired
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "users"
}

// RegisterRoutes registers the module's routes under /api/v1/providers
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	providers := ctx.Protected.Group("/providers")
	m.handler.RegisterRoutes(providers)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
