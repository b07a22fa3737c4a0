package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookingv1 "github.com/Leganyst/appointment-booking/internal/api/booking/v1"
	"github.com/Leganyst/appointment-booking/internal/booking"
)

// GET /api/v1/services
func (h *handler) listServices(c *gin.Context) {
	page, okPage := bindPage(c)
	if !okPage {
		return
	}
	res, err := h.booking.ListServices(c.Request.Context(), principal(c), page)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, bookingv1.NewPageView(res, bookingv1.FromService))
}

// POST /api/v1/services
func (h *handler) createService(c *gin.Context) {
	var in booking.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	svc, err := h.booking.CreateService(c.Request.Context(), principal(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, bookingv1.FromService(*svc))
}

// PATCH /api/v1/services/:id/deactivate
func (h *handler) deactivateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "id must be a valid UUID")
		return
	}
	if err := h.booking.DeactivateService(c.Request.Context(), principal(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"id": id.String(), "isActive": false})
}
