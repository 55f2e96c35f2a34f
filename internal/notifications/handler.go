package notifications

import (
	"net/http"

	"agenda_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func (h *HTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.PATCH("/:id/read", h.MarkRead)
}

// List handles GET /api/v1/notifications
func (h *HTTPHandler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	items, err := h.svc.List(c.Request.Context(), identity.UserID(), identity.IsProvider())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, items)
}

// MarkRead handles PATCH /api/v1/notifications/:id/read
func (h *HTTPHandler) MarkRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid notification id", nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.MarkRead(c.Request.Context(), identity.UserID(), notificationID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
