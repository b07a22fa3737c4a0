// Package httpapi — REST-интерфейс поверх booking и auth на gin.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Leganyst/appointment-booking/internal/auth"
	"github.com/Leganyst/appointment-booking/internal/booking"
	"github.com/Leganyst/appointment-booking/internal/logging"
)

// CookieOptions задаёт атрибуты cookie с токеном.
type CookieOptions struct {
	Domain string
	Secure bool
}

type Options struct {
	Booking *booking.Service
	Auth    *auth.Service
	Cookie  CookieOptions
	Logger  *slog.Logger
	// режим gin (debug, release, test), по умолчанию release
	Mode string
}

type handler struct {
	booking *booking.Service
	auth    *auth.Service
	cookie  CookieOptions
}

// NewRouter собирает gin-движок со всеми маршрутами /api/v1.
func NewRouter(opts Options) *gin.Engine {
	mode := opts.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	h := &handler{booking: opts.Booking, auth: opts.Auth, cookie: opts.Cookie}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logging.Default(opts.Logger)), authenticate(opts.Auth))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api/v1")

	slots := api.Group("/slots")
	{
		slots.GET("/registered", h.listBookedSlots)
		slots.GET("/user", h.listMyBookings)
		slots.GET("/:date/available", h.listAvailableSlots)
		slots.POST("", h.configureCalendar)
		slots.PATCH("", h.requestSlot)
		slots.PATCH("/:id/status", h.cancelBooking)
	}
	api.GET("/calendar", h.getCalendar)

	users := api.Group("/users")
	{
		users.POST("", h.register)
		users.GET("", h.listUsers)
		users.POST("/auth", h.login)
		users.POST("/logout", h.logout)
		users.GET("/info", h.userInfo)
		users.PATCH("/role", h.setRole)
	}

	services := api.Group("/services")
	{
		services.GET("", h.listServices)
		services.POST("", h.createService)
		services.PATCH("/:id/deactivate", h.deactivateService)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Envelope{Status: http.StatusNotFound, StatusMessage: "Not Found", Error: "route not found"})
	})
	return r
}
