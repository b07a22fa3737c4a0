package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookingv1 "github.com/Leganyst/appointment-booking/internal/api/booking/v1"
	"github.com/Leganyst/appointment-booking/internal/auth"
	"github.com/Leganyst/appointment-booking/internal/model"
)

// POST /api/v1/users
func (h *handler) register(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	u, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, bookingv1.FromUser(*u))
}

// POST /api/v1/users/auth
// Токен уходит и в теле ответа, и в httpOnly cookie.
func (h *handler) login(c *gin.Context) {
	var in auth.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	sess, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	h.setTokenCookie(c, sess.Token, maxAge)
	ok(c, bookingv1.FromSession(sess))
}

// POST /api/v1/users/logout
func (h *handler) logout(c *gin.Context) {
	h.setTokenCookie(c, "", -1)
	ok(c, gin.H{"loggedOut": true})
}

func (h *handler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	// SameSite=None браузеры принимают только вместе с Secure
	if h.cookie.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(TokenCookie, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

// GET /api/v1/users/info
func (h *handler) userInfo(c *gin.Context) {
	u, err := h.auth.Info(c.Request.Context(), principal(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, bookingv1.FromUser(*u))
}

// GET /api/v1/users
func (h *handler) listUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context(), principal(c))
	if err != nil {
		fail(c, err)
		return
	}
	views := make([]bookingv1.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, bookingv1.FromUser(u))
	}
	ok(c, views)
}

type setRoleBody struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// PATCH /api/v1/users/role
func (h *handler) setRole(c *gin.Context) {
	var in setRoleBody
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	userID, err := uuid.Parse(in.UserID)
	if err != nil {
		badRequest(c, "userId must be a valid UUID")
		return
	}
	u, err := h.auth.SetRole(c.Request.Context(), principal(c), userID, model.Role(in.Role))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, bookingv1.FromUser(*u))
}
