package handler

import (
	"net/http"

	"agenda_backend/internal/users/service"
	"agenda_backend/internal/users/transport"
	"agenda_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the provider directory
type Handler struct {
	svc *service.Service
}

// New creates a new users handler
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the provider directory routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListProviders)
}

// ListProviders handles GET /api/v1/providers
func (h *Handler) ListProviders(c *gin.Context) {
	var req transport.ListProvidersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListProviders(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
