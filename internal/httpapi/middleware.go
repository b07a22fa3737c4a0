package httpapi

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Leganyst/appointment-booking/internal/access"
	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/logging"
)

// TokenCookie — имя cookie с токеном доступа.
const TokenCookie = "access_token"

const requestIDHeader = "X-Request-ID"

// Authenticator превращает токен в участника; пустой токен означает анонимный запрос.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*access.Principal, error)
}

// requestLogger кладёт в контекст логгер с request_id и пишет итог запроса.
func requestLogger(base *slog.Logger) gin.HandlerFunc {
	base = logging.Default(base)
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		log := base.With("request_id", requestID)
		c.Request = c.Request.WithContext(logging.ContextWithLogger(c.Request.Context(), log))

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if p := access.FromContext(c.Request.Context()); p.Authenticated() {
			attrs = append(attrs, "user_id", p.UserID)
		}
		switch {
		case c.Writer.Status() >= 500:
			log.ErrorContext(c.Request.Context(), "http request", attrs...)
		case c.Writer.Status() >= 400:
			log.WarnContext(c.Request.Context(), "http request", attrs...)
		default:
			log.InfoContext(c.Request.Context(), "http request", attrs...)
		}
	}
}

// authenticate берёт токен из cookie access_token или заголовка Authorization.
// Невалидный токен не прерывает запрос: он идёт как анонимный,
// а закрытые операции отклонит access.Authorize.
func authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		p, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !apperr.Is(err, apperr.KindUnauthorized) {
				fail(c, err)
				return
			}
			logging.Default(logging.FromContext(c.Request.Context())).
				DebugContext(c.Request.Context(), "token rejected", "error", err)
		}
		if p != nil {
			c.Request = c.Request.WithContext(access.WithPrincipal(c.Request.Context(), p))
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
	}
	if v, err := c.Cookie(TokenCookie); err == nil {
		return v
	}
	return ""
}

func principal(c *gin.Context) *access.Principal {
	return access.FromContext(c.Request.Context())
}
