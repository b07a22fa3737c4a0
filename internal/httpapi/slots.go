package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookingv1 "github.com/Leganyst/appointment-booking/internal/api/booking/v1"
	"github.com/Leganyst/appointment-booking/internal/booking"
	"github.com/Leganyst/appointment-booking/internal/calendar"
)

type pageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

func (q pageQuery) toPage() calendar.PageRequest {
	return calendar.PageRequest{Page: q.Page, PageSize: q.PageSize}
}

func bindPage(c *gin.Context) (calendar.PageRequest, bool) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "page and pageSize must be integers")
		return calendar.PageRequest{}, false
	}
	return q.toPage(), true
}

// GET /api/v1/slots/:date/available
func (h *handler) listAvailableSlots(c *gin.Context) {
	date, err := calendar.ParseDate(c.Param("date"))
	if err != nil {
		badRequest(c, "date must match format 2006-01-02")
		return
	}
	page, okPage := bindPage(c)
	if !okPage {
		return
	}

	res, err := h.booking.ListAvailableSlots(c.Request.Context(), principal(c), date, page)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, bookingv1.NewPageView(res, bookingv1.FromAvailableSlot))
}

// GET /api/v1/slots/registered?date=&when=future|past
func (h *handler) listBookedSlots(c *gin.Context) {
	page, okPage := bindPage(c)
	if !okPage {
		return
	}
	q := booking.BookedQuery{Page: page}

	if raw := c.Query("date"); raw != "" {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			badRequest(c, "date must match format 2006-01-02")
			return
		}
		q.Date = &d
	}
	when, err := booking.ParseWhen(c.Query("when"))
	if err != nil {
		fail(c, err)
		return
	}
	q.When = when

	res, err := h.booking.ListBookedSlots(c.Request.Context(), principal(c), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, bookingv1.NewPageView(res, bookingv1.FromBooking))
}

// GET /api/v1/slots/user
func (h *handler) listMyBookings(c *gin.Context) {
	page, okPage := bindPage(c)
	if !okPage {
		return
	}
	res, err := h.booking.ListMyBookings(c.Request.Context(), principal(c), page)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, bookingv1.NewPageView(res, bookingv1.FromBooking))
}

// POST /api/v1/slots
func (h *handler) configureCalendar(c *gin.Context) {
	var in booking.ConfigureInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	res, err := h.booking.ConfigureCalendar(c.Request.Context(), principal(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, bookingv1.FromConfigure(res))
}

// GET /api/v1/calendar
func (h *handler) getCalendar(c *gin.Context) {
	cfg, err := h.booking.GetCalendar(c.Request.Context(), principal(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, bookingv1.FromCalendar(cfg))
}

type requestSlotBody struct {
	SlotID    string `json:"slotId" form:"slotId"`
	TurnID    string `json:"turnId" form:"turnId"`
	ServiceID string `json:"serviceId" form:"serviceId"`
}

// PATCH /api/v1/slots?slotId=&serviceId=
// Идентификаторы принимаются из строки запроса или из JSON-тела.
func (h *handler) requestSlot(c *gin.Context) {
	var in requestSlotBody
	if err := c.ShouldBindQuery(&in); err != nil {
		badRequest(c, "malformed query")
		return
	}
	if in.SlotID == "" && in.TurnID == "" && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "malformed request body")
			return
		}
	}
	if in.SlotID == "" {
		in.SlotID = in.TurnID
	}

	slotID, err := uuid.Parse(in.SlotID)
	if err != nil {
		badRequest(c, "slotId must be a valid UUID")
		return
	}
	serviceID, err := uuid.Parse(in.ServiceID)
	if err != nil {
		badRequest(c, "serviceId must be a valid UUID")
		return
	}

	b, err := h.booking.RequestSlot(c.Request.Context(), principal(c), slotID, serviceID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, bookingv1.FromBooking(*b))
}

// PATCH /api/v1/slots/:id/status
func (h *handler) cancelBooking(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "id must be a valid UUID")
		return
	}
	res, err := h.booking.CancelBooking(c.Request.Context(), principal(c), slotID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, bookingv1.FromCancel(res))
}
